package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/flexprice/couponmanager/internal/domain/coupon"
	ierr "github.com/flexprice/couponmanager/internal/errors"
	"github.com/flexprice/couponmanager/internal/logger"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type couponRepository struct {
	path   string
	mu     sync.Mutex
	logger *logger.Logger
}

// NewCouponRepository stores the ledger as one JSON document at path
func NewCouponRepository(path string, logger *logger.Logger) coupon.Repository {
	return &couponRepository{
		path:   path,
		logger: logger,
	}
}

func (r *couponRepository) Load(ctx context.Context) ([]*coupon.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ierr.WithError(err).
				WithHint("No coupons have been saved yet").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to read the coupon file").
			WithReportableDetails(map[string]interface{}{"path": r.path}).
			Mark(ierr.ErrPersistence)
	}

	var coupons []*coupon.Coupon
	if err := json.Unmarshal(data, &coupons); err != nil {
		return nil, ierr.WithError(err).
			WithHint("The coupon file is corrupt").
			WithReportableDetails(map[string]interface{}{"path": r.path}).
			Mark(ierr.ErrPersistence)
	}

	if err := coupon.ValidateList(coupons); err != nil {
		return nil, ierr.WithError(err).
			WithHint("The coupon file is corrupt").
			WithReportableDetails(map[string]interface{}{"path": r.path}).
			Mark(ierr.ErrPersistence)
	}

	if coupons == nil {
		coupons = []*coupon.Coupon{}
	}
	return coupons, nil
}

// Save writes to a temporary file next to the target and renames it into
// place, so readers only ever see a complete snapshot.
func (r *couponRepository) Save(ctx context.Context, coupons []*coupon.Coupon) error {
	if coupons == nil {
		coupons = []*coupon.Coupon{}
	}

	data, err := json.MarshalIndent(coupons, "", "  ")
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode coupons").
			Mark(ierr.ErrPersistence)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return r.persistenceError(err, "Failed to create the coupon directory")
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return r.persistenceError(err, "Failed to create a temporary coupon file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return r.persistenceError(err, "Failed to write the coupon file")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return r.persistenceError(err, "Failed to flush the coupon file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return r.persistenceError(err, "Failed to close the coupon file")
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return r.persistenceError(err, "Failed to replace the coupon file")
	}

	r.logger.Debugw("saved coupons", "path", r.path, "count", len(coupons))
	return nil
}

func (r *couponRepository) persistenceError(err error, hint string) error {
	return ierr.WithError(err).
		WithHint(hint).
		WithReportableDetails(map[string]interface{}{"path": r.path}).
		Mark(ierr.ErrPersistence)
}
