package dto

import (
	"time"

	"github.com/flexprice/couponmanager/internal/barcode"
	"github.com/flexprice/couponmanager/internal/domain/coupon"
	ierr "github.com/flexprice/couponmanager/internal/errors"
	"github.com/flexprice/couponmanager/internal/types"
	"github.com/flexprice/couponmanager/internal/validator"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// CreateCouponRequest represents the request to add a coupon to the ledger
type CreateCouponRequest struct {
	Name           string            `json:"name" validate:"required"`
	Code           string            `json:"code" validate:"required"`
	Balance        decimal.Decimal   `json:"balance"`
	ExpirationDate string            `json:"expiration_date" validate:"required"`
	BarcodeType    types.BarcodeType `json:"barcode_type" validate:"required"`
}

// Validate validates the CreateCouponRequest
func (r *CreateCouponRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if err := r.BarcodeType.Validate(); err != nil {
		return err
	}

	if _, err := types.ParseDate(r.ExpirationDate); err != nil {
		return err
	}

	return nil
}

// ToCoupon builds a new coupon from a validated request
func (r *CreateCouponRequest) ToCoupon() (*coupon.Coupon, error) {
	expiry, err := types.ParseDate(r.ExpirationDate)
	if err != nil {
		return nil, err
	}
	return coupon.New(r.Name, r.Code, r.Balance, expiry, r.BarcodeType), nil
}

// ScanCouponRequest creates a coupon from the symbols a scanner detected
type ScanCouponRequest struct {
	Name           string              `json:"name" validate:"required"`
	Balance        decimal.Decimal     `json:"balance"`
	ExpirationDate string              `json:"expiration_date" validate:"required"`
	Detections     []barcode.Detection `json:"detections" validate:"required,min=1"`
}

func (r *ScanCouponRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToCreateCouponRequest picks the usable detection and turns the scan into a
// create request
func (r *ScanCouponRequest) ToCreateCouponRequest() (CreateCouponRequest, error) {
	detection, barcodeType, err := barcode.Select(r.Detections)
	if err != nil {
		return CreateCouponRequest{}, err
	}

	return CreateCouponRequest{
		Name:           r.Name,
		Code:           detection.Payload,
		Balance:        r.Balance,
		ExpirationDate: r.ExpirationDate,
		BarcodeType:    barcodeType,
	}, nil
}

// UpdateBalanceRequest replaces a coupon balance
type UpdateBalanceRequest struct {
	Balance *decimal.Decimal `json:"balance" validate:"required"`
}

func (r *UpdateBalanceRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// SpendRequest deducts an amount from a coupon balance
type SpendRequest struct {
	Amount *decimal.Decimal `json:"amount" validate:"required"`
}

func (r *SpendRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if r.Amount.IsNegative() {
		return ierr.NewError("amount must not be negative").
			WithHint("Please provide the amount that was spent").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// DeleteCouponsRequest removes the coupons at the given positions
type DeleteCouponsRequest struct {
	Indices []int `json:"indices" validate:"required,min=1"`
}

func (r *DeleteCouponsRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// MoveCouponsRequest moves the coupons at Indices so they sit before the
// coupon originally at To
type MoveCouponsRequest struct {
	Indices []int `json:"indices" validate:"required,min=1"`
	To      *int  `json:"to" validate:"required"`
}

func (r *MoveCouponsRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// CouponResponse represents the response for coupon data
type CouponResponse struct {
	*coupon.Coupon `json:",inline"`
	IsExpired      bool `json:"is_expired"`
	Warning
}

// NewCouponResponse wraps c, flagging it as expired relative to now
func NewCouponResponse(c *coupon.Coupon, now time.Time) *CouponResponse {
	return &CouponResponse{
		Coupon:    c,
		IsExpired: c.IsExpired(now),
	}
}

// ListCouponsResponse represents the ordered ledger
type ListCouponsResponse struct {
	Items []*CouponResponse `json:"items"`
	Total int               `json:"total"`
	Warning
}

// NewListCouponsResponse wraps the ordered collection
func NewListCouponsResponse(coupons []*coupon.Coupon, now time.Time) *ListCouponsResponse {
	items := lo.Map(coupons, func(c *coupon.Coupon, _ int) *CouponResponse {
		return NewCouponResponse(c, now)
	})
	return &ListCouponsResponse{
		Items: items,
		Total: len(items),
	}
}
