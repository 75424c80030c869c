package coupon

import (
	"context"
)

// Repository persists the whole ordered coupon collection as one snapshot.
// Load returns an ErrNotFound-marked error when nothing has been saved yet.
type Repository interface {
	Load(ctx context.Context) ([]*Coupon, error)
	Save(ctx context.Context, coupons []*Coupon) error
}
