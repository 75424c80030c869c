package v1

import (
	"net/http"
	"time"

	"github.com/flexprice/couponmanager/internal/api/dto"
	"github.com/flexprice/couponmanager/internal/domain/coupon"
	ierr "github.com/flexprice/couponmanager/internal/errors"
	"github.com/flexprice/couponmanager/internal/logger"
	"github.com/flexprice/couponmanager/internal/service"
	"github.com/gin-gonic/gin"
)

// PersistenceWarning is attached to mutations that were applied but not saved
const PersistenceWarning = "Your change was applied but could not be saved"

type CouponHandler struct {
	ledgerService service.LedgerService
	logger        *logger.Logger
}

func NewCouponHandler(ledgerService service.LedgerService, logger *logger.Logger) *CouponHandler {
	return &CouponHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// @Summary List coupons
// @Description Lists the coupons in ledger order
// @Tags Coupons
// @Produce json
// @Success 200 {object} dto.ListCouponsResponse
// @Router /coupons [get]
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	coupons := h.ledgerService.List(c.Request.Context())
	c.JSON(http.StatusOK, dto.NewListCouponsResponse(coupons, time.Now()))
}

// @Summary Create a new coupon
// @Description Adds a coupon at the top of the ledger
// @Tags Coupons
// @Accept json
// @Produce json
// @Param coupon body dto.CreateCouponRequest true "Coupon request"
// @Success 201 {object} dto.CouponResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /coupons [post]
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var req dto.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	h.create(c, req)
}

// @Summary Create a coupon from a scan
// @Description Uses the first Code 128 or QR detection as the coupon code
// @Tags Coupons
// @Accept json
// @Produce json
// @Param scan body dto.ScanCouponRequest true "Scan request"
// @Success 201 {object} dto.CouponResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /coupons/scan [post]
func (h *CouponHandler) ScanCoupon(c *gin.Context) {
	var req dto.ScanCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	createReq, err := req.ToCreateCouponRequest()
	if err != nil {
		c.Error(err)
		return
	}

	h.create(c, createReq)
}

func (h *CouponHandler) create(c *gin.Context, req dto.CreateCouponRequest) {
	created, err := h.ledgerService.Create(c.Request.Context(), req)
	warning, err := splitWarning(err)
	if err != nil {
		c.Error(err)
		return
	}

	response := dto.NewCouponResponse(created, time.Now())
	response.Warning.Warning = warning
	c.JSON(http.StatusCreated, response)
}

// @Summary Reload coupons
// @Description Replaces the in-memory ledger with the saved one
// @Tags Coupons
// @Produce json
// @Success 200 {object} dto.ListCouponsResponse
// @Router /coupons/reload [post]
func (h *CouponHandler) ReloadCoupons(c *gin.Context) {
	coupons := h.ledgerService.LoadAll(c.Request.Context())
	c.JSON(http.StatusOK, dto.NewListCouponsResponse(coupons, time.Now()))
}

// @Summary Delete coupons
// @Description Removes the coupons at the given positions
// @Tags Coupons
// @Accept json
// @Produce json
// @Param request body dto.DeleteCouponsRequest true "Positions to delete"
// @Success 200 {object} dto.ListCouponsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /coupons/delete [post]
func (h *CouponHandler) DeleteCoupons(c *gin.Context) {
	var req dto.DeleteCouponsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	coupons, err := h.ledgerService.Delete(c.Request.Context(), req.Indices)
	h.respondWithList(c, coupons, err)
}

// @Summary Move coupons
// @Description Moves the coupons at the given positions before the coupon at to
// @Tags Coupons
// @Accept json
// @Produce json
// @Param request body dto.MoveCouponsRequest true "Positions and destination"
// @Success 200 {object} dto.ListCouponsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /coupons/move [post]
func (h *CouponHandler) MoveCoupons(c *gin.Context) {
	var req dto.MoveCouponsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	coupons, err := h.ledgerService.Move(c.Request.Context(), req.Indices, *req.To)
	h.respondWithList(c, coupons, err)
}

// @Summary Get a coupon by ID
// @Tags Coupons
// @Produce json
// @Param id path string true "Coupon ID"
// @Success 200 {object} dto.CouponResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /coupons/{id} [get]
func (h *CouponHandler) GetCoupon(c *gin.Context) {
	found, err := h.ledgerService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewCouponResponse(found, time.Now()))
}

// @Summary Set a coupon balance
// @Tags Coupons
// @Accept json
// @Produce json
// @Param id path string true "Coupon ID"
// @Param request body dto.UpdateBalanceRequest true "New balance"
// @Success 200 {object} dto.CouponResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /coupons/{id}/balance [put]
func (h *CouponHandler) UpdateBalance(c *gin.Context) {
	var req dto.UpdateBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	updated, err := h.ledgerService.SetBalance(c.Request.Context(), c.Param("id"), *req.Balance)
	h.respondWithCoupon(c, updated, err)
}

// @Summary Spend from a coupon
// @Description Deducts the amount from the balance, which may go negative
// @Tags Coupons
// @Accept json
// @Produce json
// @Param id path string true "Coupon ID"
// @Param request body dto.SpendRequest true "Amount spent"
// @Success 200 {object} dto.CouponResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /coupons/{id}/spend [post]
func (h *CouponHandler) Spend(c *gin.Context) {
	var req dto.SpendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	updated, err := h.ledgerService.Spend(c.Request.Context(), c.Param("id"), *req.Amount)
	h.respondWithCoupon(c, updated, err)
}

func (h *CouponHandler) respondWithCoupon(c *gin.Context, updated *coupon.Coupon, err error) {
	warning, err := splitWarning(err)
	if err != nil {
		c.Error(err)
		return
	}

	response := dto.NewCouponResponse(updated, time.Now())
	response.Warning.Warning = warning
	c.JSON(http.StatusOK, response)
}

func (h *CouponHandler) respondWithList(c *gin.Context, coupons []*coupon.Coupon, err error) {
	warning, err := splitWarning(err)
	if err != nil {
		c.Error(err)
		return
	}

	response := dto.NewListCouponsResponse(coupons, time.Now())
	response.Warning.Warning = warning
	c.JSON(http.StatusOK, response)
}

// splitWarning turns a persistence failure into a warning and passes every
// other error through
func splitWarning(err error) (string, error) {
	if err == nil {
		return "", nil
	}
	if ierr.IsPersistence(err) {
		return PersistenceWarning, nil
	}
	return "", err
}
