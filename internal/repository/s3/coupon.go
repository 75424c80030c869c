package s3

import (
	"context"

	"github.com/flexprice/couponmanager/internal/domain/coupon"
	ierr "github.com/flexprice/couponmanager/internal/errors"
	"github.com/flexprice/couponmanager/internal/logger"
	s3Service "github.com/flexprice/couponmanager/internal/s3"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SnapshotKey is the object name holding the whole ledger
const SnapshotKey = "coupons.json"

type couponRepository struct {
	store  s3Service.Service
	logger *logger.Logger
}

// NewCouponRepository stores the ledger as one object in the configured bucket
func NewCouponRepository(store s3Service.Service, logger *logger.Logger) coupon.Repository {
	return &couponRepository{
		store:  store,
		logger: logger,
	}
}

func (r *couponRepository) Load(ctx context.Context) ([]*coupon.Coupon, error) {
	data, err := r.store.GetDocument(ctx, SnapshotKey)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, err
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to download the coupon snapshot").
			Mark(ierr.ErrPersistence)
	}

	var coupons []*coupon.Coupon
	if err := json.Unmarshal(data, &coupons); err != nil {
		return nil, ierr.WithError(err).
			WithHint("The coupon snapshot is corrupt").
			Mark(ierr.ErrPersistence)
	}

	if err := coupon.ValidateList(coupons); err != nil {
		return nil, ierr.WithError(err).
			WithHint("The coupon snapshot is corrupt").
			Mark(ierr.ErrPersistence)
	}

	if coupons == nil {
		coupons = []*coupon.Coupon{}
	}
	return coupons, nil
}

func (r *couponRepository) Save(ctx context.Context, coupons []*coupon.Coupon) error {
	if coupons == nil {
		coupons = []*coupon.Coupon{}
	}

	data, err := json.Marshal(coupons)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode coupons").
			Mark(ierr.ErrPersistence)
	}

	if err := r.store.UploadDocument(ctx, s3Service.NewJSONDocument(SnapshotKey, data)); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to upload the coupon snapshot").
			Mark(ierr.ErrPersistence)
	}

	r.logger.Debugw("uploaded coupons", "key", SnapshotKey, "count", len(coupons))
	return nil
}
