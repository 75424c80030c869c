package api

import (
	v1 "github.com/flexprice/couponmanager/internal/api/v1"
	"github.com/flexprice/couponmanager/internal/config"
	"github.com/flexprice/couponmanager/internal/logger"
	"github.com/flexprice/couponmanager/internal/rest/middleware"
	"github.com/flexprice/couponmanager/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Health *v1.HealthHandler
	Coupon *v1.CouponHandler
	Shop   *v1.ShopHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.SentryMiddleware(cfg),
		middleware.SentryTagsMiddleware,
		middleware.PyroscopeMiddleware(cfg),
		middleware.CORSMiddleware(cfg),
		middleware.ErrorHandler(logger),
	)

	router.GET("/health", handlers.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	// Coupon routes
	coupons := router.Group("/coupons")
	{
		coupons.GET("", handlers.Coupon.ListCoupons)
		coupons.POST("", handlers.Coupon.CreateCoupon)
		coupons.POST("/scan", handlers.Coupon.ScanCoupon)
		coupons.POST("/reload", handlers.Coupon.ReloadCoupons)
		coupons.POST("/delete", handlers.Coupon.DeleteCoupons)
		coupons.POST("/move", handlers.Coupon.MoveCoupons)
		coupons.GET("/:id", handlers.Coupon.GetCoupon)
		coupons.PUT("/:id/balance", handlers.Coupon.UpdateBalance)
		coupons.POST("/:id/spend", handlers.Coupon.Spend)
	}

	// Shop routes
	shop := router.Group("/shop")
	{
		shop.GET("/merchants", handlers.Shop.ListMerchants)
		shop.GET("/items", handlers.Shop.ListItems)
		shop.DELETE("/items", handlers.Shop.InvalidateItems)
	}
}
