package v1

import (
	"net/http"

	"github.com/flexprice/couponmanager/internal/api/dto"
	ierr "github.com/flexprice/couponmanager/internal/errors"
	"github.com/flexprice/couponmanager/internal/logger"
	"github.com/flexprice/couponmanager/internal/service"
	"github.com/gin-gonic/gin"
)

type ShopHandler struct {
	catalogService service.CatalogService
	logger         *logger.Logger
}

func NewShopHandler(catalogService service.CatalogService, logger *logger.Logger) *ShopHandler {
	return &ShopHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// @Summary List merchants
// @Description Lists the merchants that can be searched
// @Tags Shop
// @Produce json
// @Success 200 {object} dto.ListMerchantsResponse
// @Router /shop/merchants [get]
func (h *ShopHandler) ListMerchants(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ListMerchantsResponse{
		Items: h.catalogService.ListMerchants(c.Request.Context()),
	})
}

// @Summary Search shop items
// @Description Returns the merged, de-duplicated items for a merchant sorted by lowest price
// @Tags Shop
// @Produce json
// @Param merchant query string true "Merchant key or name"
// @Success 200 {object} dto.ListShopItemsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /shop/items [get]
func (h *ShopHandler) ListItems(c *gin.Context) {
	var req dto.ShopItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	name := req.SearchName()
	items, err := h.catalogService.Search(c.Request.Context(), name)
	if err != nil {
		h.logger.Debugw("shop search ended early", "merchant", name, "error", err)
		c.Error(ierr.WithError(err).
			WithHint("The search was cancelled").
			Mark(ierr.ErrInvalidOperation))
		return
	}

	c.JSON(http.StatusOK, dto.NewListShopItemsResponse(name, items))
}

// @Summary Invalidate shop items
// @Description Drops the cached results for a merchant so the next search refetches them
// @Tags Shop
// @Produce json
// @Param merchant query string true "Merchant key or name"
// @Success 200 {object} dto.SuccessResponse
// @Router /shop/items [delete]
func (h *ShopHandler) InvalidateItems(c *gin.Context) {
	var req dto.ShopItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	h.catalogService.Invalidate(c.Request.Context(), req.SearchName())
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "cache invalidated"})
}
