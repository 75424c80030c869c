package testutil

import (
	"context"
	"sync"

	"github.com/flexprice/couponmanager/internal/domain/coupon"
	ierr "github.com/flexprice/couponmanager/internal/errors"
)

// InMemoryCouponStore implements coupon.Repository
type InMemoryCouponStore struct {
	mu        sync.RWMutex
	coupons   []*coupon.Coupon
	saved     bool
	saveCount int
	loadErr   error
	saveErr   error
}

// NewInMemoryCouponStore creates a new in-memory coupon store
func NewInMemoryCouponStore() *InMemoryCouponStore {
	return &InMemoryCouponStore{}
}

func (s *InMemoryCouponStore) Load(ctx context.Context) ([]*coupon.Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if !s.saved {
		return nil, ierr.NewError("coupon snapshot not found").
			WithHint("No coupons have been saved yet").
			Mark(ierr.ErrNotFound)
	}
	return coupon.CloneList(s.coupons), nil
}

func (s *InMemoryCouponStore) Save(ctx context.Context, coupons []*coupon.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveErr != nil {
		return s.saveErr
	}
	s.coupons = coupon.CloneList(coupons)
	s.saved = true
	s.saveCount++
	return nil
}

// Seed stores a snapshot without counting it as a save
func (s *InMemoryCouponStore) Seed(coupons []*coupon.Coupon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupons = coupon.CloneList(coupons)
	s.saved = true
}

// Snapshot returns a copy of the last saved collection
func (s *InMemoryCouponStore) Snapshot() []*coupon.Coupon {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return coupon.CloneList(s.coupons)
}

// SaveCount returns how many successful saves happened
func (s *InMemoryCouponStore) SaveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveCount
}

// FailLoad makes every following Load return err, nil restores normal behaviour
func (s *InMemoryCouponStore) FailLoad(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadErr = err
}

// FailSave makes every following Save return err, nil restores normal behaviour
func (s *InMemoryCouponStore) FailSave(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

// Clear removes all stored data and injected failures
func (s *InMemoryCouponStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupons = nil
	s.saved = false
	s.saveCount = 0
	s.loadErr = nil
	s.saveErr = nil
}
