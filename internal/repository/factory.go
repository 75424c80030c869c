package repository

import (
	"github.com/flexprice/couponmanager/internal/config"
	"github.com/flexprice/couponmanager/internal/domain/coupon"
	ierr "github.com/flexprice/couponmanager/internal/errors"
	"github.com/flexprice/couponmanager/internal/logger"
	fileRepo "github.com/flexprice/couponmanager/internal/repository/file"
	s3Repo "github.com/flexprice/couponmanager/internal/repository/s3"
	"github.com/flexprice/couponmanager/internal/s3"
	"github.com/flexprice/couponmanager/internal/types"
)

func NewCouponRepository(cfg *config.Configuration, logger *logger.Logger, store s3.Service) (coupon.Repository, error) {
	switch cfg.Ledger.Backend {
	case types.LedgerBackendS3:
		if store == nil {
			return nil, ierr.NewError("s3 service is not configured").
				WithHint("Set ledger.s3.bucket to use the s3 backend").
				Mark(ierr.ErrSystem)
		}
		logger.Infow("using s3 coupon ledger", "bucket", cfg.Ledger.S3.Bucket, "key_prefix", cfg.Ledger.S3.KeyPrefix)
		return s3Repo.NewCouponRepository(store, logger), nil
	case types.LedgerBackendFile, "":
		logger.Infow("using file coupon ledger", "path", cfg.Ledger.FilePath)
		return fileRepo.NewCouponRepository(cfg.Ledger.FilePath, logger), nil
	default:
		return nil, ierr.NewErrorf("unknown ledger backend %q", cfg.Ledger.Backend).
			WithHint("ledger.backend must be file or s3").
			Mark(ierr.ErrValidation)
	}
}
