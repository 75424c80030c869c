package service

import (
	"context"
	"slices"
	"sync"

	"github.com/flexprice/couponmanager/internal/api/dto"
	"github.com/flexprice/couponmanager/internal/domain/coupon"
	ierr "github.com/flexprice/couponmanager/internal/errors"
	"github.com/flexprice/couponmanager/internal/metrics"
	"github.com/flexprice/couponmanager/internal/sentry"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// LedgerService owns the ordered coupon collection. Every mutation is saved
// before it returns. When the save fails the change stays applied in memory
// and the mutation returns its result together with an error marked
// ierr.ErrPersistence, which callers may treat as a warning.
type LedgerService interface {
	// LoadAll replaces the in-memory collection with the persisted one. Any
	// load failure yields an empty collection.
	LoadAll(ctx context.Context) []*coupon.Coupon
	List(ctx context.Context) []*coupon.Coupon
	Get(ctx context.Context, id string) (*coupon.Coupon, error)
	Create(ctx context.Context, req dto.CreateCouponRequest) (*coupon.Coupon, error)
	SetBalance(ctx context.Context, id string, balance decimal.Decimal) (*coupon.Coupon, error)
	Spend(ctx context.Context, id string, amount decimal.Decimal) (*coupon.Coupon, error)
	// Delete and Move return the collection as it stood right after their
	// own change
	Delete(ctx context.Context, indices []int) ([]*coupon.Coupon, error)
	Move(ctx context.Context, indices []int, to int) ([]*coupon.Coupon, error)
	Persist(ctx context.Context) error
}

type ledgerService struct {
	ServiceParams

	mu      sync.Mutex
	coupons []*coupon.Coupon
}

// NewLedgerService creates the ledger and loads the persisted collection
func NewLedgerService(params ServiceParams) LedgerService {
	s := &ledgerService{
		ServiceParams: params,
		coupons:       []*coupon.Coupon{},
	}
	s.LoadAll(context.Background())
	return s
}

func (s *ledgerService) LoadAll(ctx context.Context) []*coupon.Coupon {
	s.mu.Lock()
	defer s.mu.Unlock()

	span, ctx := s.Sentry.StartStorageSpan(ctx, "load")
	defer sentry.FinishSpan(span)

	coupons, err := s.CouponRepo.Load(ctx)
	if err == nil {
		err = coupon.ValidateList(coupons)
	}
	switch {
	case err == nil:
		s.coupons = coupons
		s.Logger.Infow("loaded coupons", "count", len(coupons))
	case ierr.IsNotFound(err):
		s.coupons = []*coupon.Coupon{}
		s.Logger.Debugw("no saved coupons, starting with an empty ledger")
	default:
		s.coupons = []*coupon.Coupon{}
		s.Logger.Warnw("failed to load coupons, starting with an empty ledger", "error", err)
	}

	metrics.LedgerCoupons.Set(float64(len(s.coupons)))
	return coupon.CloneList(s.coupons)
}

func (s *ledgerService) List(ctx context.Context) []*coupon.Coupon {
	s.mu.Lock()
	defer s.mu.Unlock()
	return coupon.CloneList(s.coupons)
}

func (s *ledgerService) Get(ctx context.Context, id string) (*coupon.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.indexOfLocked(id)
	if err != nil {
		return nil, err
	}
	return s.coupons[idx].Clone(), nil
}

func (s *ledgerService) Create(ctx context.Context, req dto.CreateCouponRequest) (*coupon.Coupon, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := req.ToCoupon()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.coupons = slices.Insert(s.coupons, 0, c)
	s.Logger.Infow("created coupon", "coupon_id", c.ID, "barcode_type", c.BarcodeType)

	return c.Clone(), s.persistLocked(ctx)
}

func (s *ledgerService) SetBalance(ctx context.Context, id string, balance decimal.Decimal) (*coupon.Coupon, error) {
	return s.updateBalance(ctx, id, func(decimal.Decimal) decimal.Decimal {
		return balance
	})
}

// Spend deducts amount from the current balance; the result may go negative
func (s *ledgerService) Spend(ctx context.Context, id string, amount decimal.Decimal) (*coupon.Coupon, error) {
	return s.updateBalance(ctx, id, func(current decimal.Decimal) decimal.Decimal {
		return current.Sub(amount)
	})
}

func (s *ledgerService) updateBalance(ctx context.Context, id string, next func(decimal.Decimal) decimal.Decimal) (*coupon.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.indexOfLocked(id)
	if err != nil {
		return nil, err
	}

	previous := s.coupons[idx].Balance
	updated := s.coupons[idx].WithBalance(next(previous))
	s.coupons[idx] = updated

	s.Logger.Infow("updated coupon balance",
		"coupon_id", id,
		"previous_balance", previous.String(),
		"balance", updated.Balance.String())

	return updated.Clone(), s.persistLocked(ctx)
}

// Delete removes the coupons at the given positions in one update
func (s *ledgerService) Delete(ctx context.Context, indices []int) ([]*coupon.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateIndicesLocked(indices); err != nil {
		return nil, err
	}

	remove := lo.SliceToMap(indices, func(i int) (int, struct{}) { return i, struct{}{} })
	s.coupons = lo.Reject(s.coupons, func(_ *coupon.Coupon, i int) bool {
		_, ok := remove[i]
		return ok
	})
	s.Logger.Infow("deleted coupons", "removed", len(remove), "remaining", len(s.coupons))

	return coupon.CloneList(s.coupons), s.persistLocked(ctx)
}

// Move relocates the coupons at indices, keeping their relative order, so
// that they sit right before the coupon originally at to. to == len appends.
func (s *ledgerService) Move(ctx context.Context, indices []int, to int) ([]*coupon.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateIndicesLocked(indices); err != nil {
		return nil, err
	}
	if to < 0 || to > len(s.coupons) {
		return nil, ierr.NewErrorf("destination %d out of range", to).
			WithHintf("Destination must be between 0 and %d", len(s.coupons)).
			WithReportableDetails(map[string]any{
				"to":    to,
				"count": len(s.coupons),
			}).
			Mark(ierr.ErrValidation)
	}

	s.coupons = moveOffsets(s.coupons, indices, to)
	s.Logger.Infow("moved coupons", "indices", indices, "to", to)

	return coupon.CloneList(s.coupons), s.persistLocked(ctx)
}

func (s *ledgerService) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx)
}

// persistLocked saves the whole collection. The save is detached from ctx
// cancellation since the in-memory change has already been applied.
func (s *ledgerService) persistLocked(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)

	span, ctx := s.Sentry.StartStorageSpan(ctx, "save")
	defer sentry.FinishSpan(span)

	metrics.LedgerCoupons.Set(float64(len(s.coupons)))

	err := s.CouponRepo.Save(ctx, coupon.CloneList(s.coupons))
	if err == nil {
		return nil
	}

	metrics.LedgerPersistFailures.Inc()
	s.Logger.Warnw("failed to persist coupons, changes are kept in memory only",
		"error", err,
		"count", len(s.coupons))
	s.Sentry.CaptureException(ctx, err)

	if ierr.IsPersistence(err) {
		return err
	}
	return ierr.WithError(err).
		WithHint("Your change was applied but could not be saved").
		Mark(ierr.ErrPersistence)
}

func (s *ledgerService) indexOfLocked(id string) (int, error) {
	_, idx, ok := lo.FindIndexOf(s.coupons, func(c *coupon.Coupon) bool {
		return c.ID == id
	})
	if !ok {
		return -1, ierr.NewErrorf("coupon %s not found", id).
			WithHint("Coupon not found").
			WithReportableDetails(map[string]any{
				"coupon_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return idx, nil
}

func (s *ledgerService) validateIndicesLocked(indices []int) error {
	for _, i := range indices {
		if i < 0 || i >= len(s.coupons) {
			return ierr.NewErrorf("index %d out of range", i).
				WithHintf("Positions must be between 0 and %d", len(s.coupons)-1).
				WithReportableDetails(map[string]any{
					"index": i,
					"count": len(s.coupons),
				}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// moveOffsets returns a reordered copy of list. Indices must be in range.
func moveOffsets[T any](list []T, indices []int, to int) []T {
	selected := lo.Uniq(indices)
	slices.Sort(selected)

	picked := make(map[int]struct{}, len(selected))
	moved := make([]T, 0, len(selected))
	for _, i := range selected {
		picked[i] = struct{}{}
		moved = append(moved, list[i])
	}

	// the insertion point shifts left by every picked element before it
	insertAt := to - lo.CountBy(selected, func(i int) bool { return i < to })

	rest := make([]T, 0, len(list)-len(moved))
	for i, v := range list {
		if _, ok := picked[i]; !ok {
			rest = append(rest, v)
		}
	}

	result := make([]T, 0, len(list))
	result = append(result, rest[:insertAt]...)
	result = append(result, moved...)
	result = append(result, rest[insertAt:]...)
	return result
}
