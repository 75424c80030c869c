package service

import (
	"github.com/flexprice/couponmanager/internal/cache"
	"github.com/flexprice/couponmanager/internal/config"
	"github.com/flexprice/couponmanager/internal/domain/catalog"
	"github.com/flexprice/couponmanager/internal/domain/coupon"
	"github.com/flexprice/couponmanager/internal/logger"
	"github.com/flexprice/couponmanager/internal/pyroscope"
	"github.com/flexprice/couponmanager/internal/sentry"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger    *logger.Logger
	Config    *config.Configuration
	Cache     cache.Cache
	Sentry    *sentry.Service
	Pyroscope *pyroscope.Service

	// Repositories
	CouponRepo coupon.Repository

	// Collaborators
	Searcher catalog.Searcher
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	cache cache.Cache,
	sentry *sentry.Service,
	pyroscope *pyroscope.Service,
	couponRepo coupon.Repository,
	searcher catalog.Searcher,
) ServiceParams {
	return ServiceParams{
		Logger:     logger,
		Config:     config,
		Cache:      cache,
		Sentry:     sentry,
		Pyroscope:  pyroscope,
		CouponRepo: couponRepo,
		Searcher:   searcher,
	}
}
