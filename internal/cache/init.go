package cache

import (
	"github.com/flexprice/couponmanager/internal/logger"
)

// Initialize initializes the cache system
func Initialize(log *logger.Logger) Cache {
	log.Info("Initializing cache system")

	c := NewInMemoryCache()

	log.Info("Cache system initialized")

	return c
}
