package coupon

import (
	"time"

	ierr "github.com/flexprice/couponmanager/internal/errors"
	"github.com/flexprice/couponmanager/internal/types"
	"github.com/shopspring/decimal"
)

// Coupon is a stored-value certificate kept in the ledger
type Coupon struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Code           string            `json:"code"`
	Balance        decimal.Decimal   `json:"balance"`
	ExpirationDate time.Time         `json:"expiration_date"`
	BarcodeType    types.BarcodeType `json:"barcode_type"`
}

// New builds a coupon with a freshly assigned id
func New(name, code string, balance decimal.Decimal, expirationDate time.Time, barcodeType types.BarcodeType) *Coupon {
	return &Coupon{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COUPON),
		Name:           name,
		Code:           code,
		Balance:        balance,
		ExpirationDate: types.ToDate(expirationDate),
		BarcodeType:    barcodeType,
	}
}

// IsExpired reports whether the expiration date lies before now's calendar
// date. It is informational; the ledger never refuses expired coupons.
func (c *Coupon) IsExpired(now time.Time) bool {
	return c.ExpirationDate.Before(types.ToDate(now))
}

// WithBalance returns a copy of the coupon holding the new balance
func (c *Coupon) WithBalance(balance decimal.Decimal) *Coupon {
	updated := *c
	updated.Balance = balance
	return &updated
}

// Clone returns a copy that shares no state with c
func (c *Coupon) Clone() *Coupon {
	if c == nil {
		return nil
	}
	cloned := *c
	return &cloned
}

// CloneList copies every coupon in the list
func CloneList(list []*Coupon) []*Coupon {
	cloned := make([]*Coupon, len(list))
	for i, c := range list {
		cloned[i] = c.Clone()
	}
	return cloned
}

// ValidateList rejects a loaded snapshot holding null entries or coupons
// without an id
func ValidateList(list []*Coupon) error {
	for i, c := range list {
		if c == nil || c.ID == "" {
			return ierr.NewErrorf("coupon at index %d is empty", i).
				WithHint("The saved coupons are corrupt").
				WithReportableDetails(map[string]any{
					"index": i,
				}).
				Mark(ierr.ErrPersistence)
		}
	}
	return nil
}
