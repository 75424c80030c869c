package service

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/flexprice/couponmanager/internal/api/dto"
	"github.com/flexprice/couponmanager/internal/domain/coupon"
	ierr "github.com/flexprice/couponmanager/internal/errors"
	"github.com/flexprice/couponmanager/internal/repository/file"
	"github.com/flexprice/couponmanager/internal/testutil"
	"github.com/flexprice/couponmanager/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceSuite struct {
	testutil.BaseServiceTestSuite
	service LedgerService
	store   *testutil.InMemoryCouponStore
}

func TestLedgerService(t *testing.T) {
	suite.Run(t, new(LedgerServiceSuite))
}

func (s *LedgerServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.store = s.GetStores().CouponRepo
	s.service = s.newService()
}

func (s *LedgerServiceSuite) newService() LedgerService {
	return NewLedgerService(ServiceParams{
		Logger:     s.GetLogger(),
		Config:     s.GetConfig(),
		Cache:      s.GetCache(),
		CouponRepo: s.store,
	})
}

func (s *LedgerServiceSuite) createRequest(name, code string, balance int64) dto.CreateCouponRequest {
	return dto.CreateCouponRequest{
		Name:           name,
		Code:           code,
		Balance:        decimal.NewFromInt(balance),
		ExpirationDate: "2026-12-31",
		BarcodeType:    types.BarcodeTypeQR,
	}
}

func (s *LedgerServiceSuite) seed(names ...string) []*coupon.Coupon {
	for i, name := range names {
		_, err := s.service.Create(s.GetContext(), s.createRequest(name, name+"-code", int64(1000*(i+1))))
		s.Require().NoError(err)
	}
	return s.service.List(s.GetContext())
}

func names(coupons []*coupon.Coupon) []string {
	return lo.Map(coupons, func(c *coupon.Coupon, _ int) string { return c.Name })
}

func (s *LedgerServiceSuite) TestLoadAllEmptyWhenNothingSaved() {
	s.Empty(s.service.LoadAll(s.GetContext()))
}

func (s *LedgerServiceSuite) TestLoadAllEmptyOnFailure() {
	s.seed("A")
	s.store.FailLoad(ierr.NewError("corrupt").Mark(ierr.ErrPersistence))

	loaded := s.service.LoadAll(s.GetContext())
	s.NotNil(loaded)
	s.Empty(loaded)
	s.Empty(s.service.List(s.GetContext()))
}

func (s *LedgerServiceSuite) TestCreatePrependsAndPersists() {
	first, err := s.service.Create(s.GetContext(), s.createRequest("First", "111", 5000))
	s.Require().NoError(err)
	second, err := s.service.Create(s.GetContext(), s.createRequest("Second", "222", 7000))
	s.Require().NoError(err)

	s.NotEqual(first.ID, second.ID)
	s.Contains(first.ID, types.UUID_PREFIX_COUPON+"_")
	s.Equal([]string{"Second", "First"}, names(s.service.List(s.GetContext())))
	s.Equal([]string{"Second", "First"}, names(s.store.Snapshot()))
	s.Equal(2, s.store.SaveCount())
}

func (s *LedgerServiceSuite) TestCreateRoundTrip() {
	created, err := s.service.Create(s.GetContext(), s.createRequest("Test", "12345", 10000))
	s.Require().NoError(err)
	s.Require().NoError(s.service.Persist(s.GetContext()))

	reloaded := s.newService().LoadAll(s.GetContext())
	s.Require().Len(reloaded, 1)
	got := reloaded[0]
	s.Equal(created.ID, got.ID)
	s.Equal("Test", got.Name)
	s.Equal("12345", got.Code)
	s.True(decimal.NewFromInt(10000).Equal(got.Balance))
	s.Equal(types.BarcodeTypeQR, got.BarcodeType)
	s.True(time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC).Equal(got.ExpirationDate))
}

func (s *LedgerServiceSuite) TestCreateValidation() {
	tests := []struct {
		name string
		req  dto.CreateCouponRequest
	}{
		{"missing name", dto.CreateCouponRequest{Code: "1", ExpirationDate: "2026-01-01", BarcodeType: types.BarcodeTypeQR}},
		{"missing code", dto.CreateCouponRequest{Name: "a", ExpirationDate: "2026-01-01", BarcodeType: types.BarcodeTypeQR}},
		{"bad barcode type", dto.CreateCouponRequest{Name: "a", Code: "1", ExpirationDate: "2026-01-01", BarcodeType: "ean13"}},
		{"bad date", dto.CreateCouponRequest{Name: "a", Code: "1", ExpirationDate: "31/12/2026", BarcodeType: types.BarcodeTypeCode128}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.Create(s.GetContext(), tt.req)
			s.Error(err)
			s.True(ierr.IsValidation(err))
		})
	}
	s.Zero(s.store.SaveCount())
}

func (s *LedgerServiceSuite) TestCreateThenDeleteLeavesEmptyLedger() {
	_, err := s.service.Create(s.GetContext(), s.createRequest("Test", "12345", 10000))
	s.Require().NoError(err)

	_, err = s.service.Delete(s.GetContext(), []int{0})
	s.Require().NoError(err)

	s.Empty(s.service.LoadAll(s.GetContext()))
}

func (s *LedgerServiceSuite) TestSetBalanceChangesOnlyBalance() {
	before := s.seed("A", "B", "C")
	target := before[1]

	updated, err := s.service.SetBalance(s.GetContext(), target.ID, decimal.NewFromInt(1234))
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(1234).Equal(updated.Balance))

	after := s.service.LoadAll(s.GetContext())
	s.Require().Len(after, 3)
	for i := range before {
		expected := before[i]
		if i == 1 {
			expected = expected.WithBalance(decimal.NewFromInt(1234))
		}
		s.Equal(expected.ID, after[i].ID)
		s.Equal(expected.Name, after[i].Name)
		s.Equal(expected.Code, after[i].Code)
		s.Equal(expected.BarcodeType, after[i].BarcodeType)
		s.True(expected.ExpirationDate.Equal(after[i].ExpirationDate))
		s.True(expected.Balance.Equal(after[i].Balance), "balance at %d", i)
	}
}

func (s *LedgerServiceSuite) TestSetBalanceNotFound() {
	s.seed("A")
	saves := s.store.SaveCount()

	_, err := s.service.SetBalance(s.GetContext(), "cpn_missing", decimal.NewFromInt(1))
	s.Error(err)
	s.True(ierr.IsNotFound(err))
	s.Equal(saves, s.store.SaveCount())
}

func (s *LedgerServiceSuite) TestSpendAllowsNegativeBalance() {
	c := s.seed("A")[0]

	updated, err := s.service.Spend(s.GetContext(), c.ID, decimal.NewFromInt(400))
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(600).Equal(updated.Balance))

	updated, err = s.service.Spend(s.GetContext(), c.ID, decimal.NewFromInt(1000))
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(-400).Equal(updated.Balance))
}

func (s *LedgerServiceSuite) TestDelete() {
	s.seed("A", "B", "C", "D")
	// list order is D, C, B, A

	remaining, err := s.service.Delete(s.GetContext(), []int{3, 1, 1})
	s.Require().NoError(err)
	s.Equal([]string{"D", "B"}, names(remaining))
	s.Equal([]string{"D", "B"}, names(s.service.List(s.GetContext())))
	s.Equal([]string{"D", "B"}, names(s.store.Snapshot()))

	remaining, err = s.service.Delete(s.GetContext(), []int{0, 2})
	s.True(ierr.IsValidation(err))
	s.Nil(remaining)
	s.Equal([]string{"D", "B"}, names(s.service.List(s.GetContext())))
}

func (s *LedgerServiceSuite) TestMove() {
	tests := []struct {
		name     string
		indices  []int
		to       int
		expected []string
	}{
		{"first to end", []int{0}, 5, []string{"B", "C", "D", "E", "A"}},
		{"last to front", []int{4}, 0, []string{"E", "A", "B", "C", "D"}},
		{"down by one", []int{1}, 3, []string{"A", "C", "B", "D", "E"}},
		{"onto itself", []int{2}, 2, []string{"A", "B", "C", "D", "E"}},
		{"several keep relative order", []int{3, 0}, 2, []string{"B", "A", "D", "C", "E"}},
		{"several to end", []int{1, 2}, 5, []string{"A", "D", "E", "B", "C"}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.store.Clear()
			s.service = s.newService()
			// created in reverse so the ledger reads A..E
			s.seed("E", "D", "C", "B", "A")

			moved, err := s.service.Move(s.GetContext(), tt.indices, tt.to)
			s.Require().NoError(err)
			s.Equal(tt.expected, names(moved))
			s.Equal(tt.expected, names(s.service.List(s.GetContext())))
			s.Equal(tt.expected, names(s.store.Snapshot()))
		})
	}
}

func (s *LedgerServiceSuite) TestMoveOutOfRange() {
	s.seed("A", "B")

	for _, tt := range []struct {
		indices []int
		to      int
	}{
		{[]int{0}, 3},
		{[]int{2}, 0},
		{[]int{0}, -1},
	} {
		moved, err := s.service.Move(s.GetContext(), tt.indices, tt.to)
		s.True(ierr.IsValidation(err), "move %v to %d", tt.indices, tt.to)
		s.Nil(moved)
	}
}

func (s *LedgerServiceSuite) TestPersistenceFailureKeepsChange() {
	s.store.FailSave(ierr.NewError("disk full").Mark(ierr.ErrPersistence))

	created, err := s.service.Create(s.GetContext(), s.createRequest("A", "1", 100))
	s.Error(err)
	s.True(ierr.IsPersistence(err))
	s.Require().NotNil(created)
	s.Equal([]string{"A"}, names(s.service.List(s.GetContext())))

	updated, err := s.service.SetBalance(s.GetContext(), created.ID, decimal.NewFromInt(50))
	s.True(ierr.IsPersistence(err))
	s.True(decimal.NewFromInt(50).Equal(updated.Balance))

	s.store.FailSave(nil)
	s.Require().NoError(s.service.Persist(s.GetContext()))
	s.Equal([]string{"A"}, names(s.store.Snapshot()))
}

func (s *LedgerServiceSuite) TestPersistenceFailureIsMarked() {
	s.store.FailSave(ierr.NewError("timeout").Mark(ierr.ErrHTTPClient))

	err := s.service.Persist(s.GetContext())
	s.True(ierr.IsPersistence(err))
}

func (s *LedgerServiceSuite) TestLoadAllEmptyOnNullEntry() {
	s.store.Seed([]*coupon.Coupon{nil})
	s.Empty(s.service.LoadAll(s.GetContext()))

	path := filepath.Join(s.T().TempDir(), "coupons.json")
	s.Require().NoError(os.WriteFile(path, []byte("[null]"), 0o644))

	ledger := NewLedgerService(ServiceParams{
		Logger:     s.GetLogger(),
		Config:     s.GetConfig(),
		Cache:      s.GetCache(),
		CouponRepo: file.NewCouponRepository(path, s.GetLogger()),
	})
	s.Empty(ledger.List(s.GetContext()))

	_, err := ledger.Get(s.GetContext(), "cpn_missing")
	s.True(ierr.IsNotFound(err))

	created, err := ledger.Create(s.GetContext(), s.createRequest("A", "1", 100))
	s.Require().NoError(err)
	s.Equal([]string{"A"}, names(ledger.LoadAll(s.GetContext())))
	s.Equal(created.ID, ledger.List(s.GetContext())[0].ID)
}

func (s *LedgerServiceSuite) TestDeleteReturnsSnapshotWhenSaveFails() {
	s.seed("A", "B")
	s.store.FailSave(ierr.NewError("disk full").Mark(ierr.ErrPersistence))

	remaining, err := s.service.Delete(s.GetContext(), []int{0})
	s.True(ierr.IsPersistence(err))
	s.Equal([]string{"A"}, names(remaining))

	moved, err := s.service.Move(s.GetContext(), []int{0}, 0)
	s.True(ierr.IsPersistence(err))
	s.Equal([]string{"A"}, names(moved))
}

func (s *LedgerServiceSuite) TestConcurrentMutationsAreSerialized() {
	target := s.seed("Target")[0]

	const workers = 20
	var wg conc.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Go(func() {
			_, err := s.service.Create(s.GetContext(), s.createRequest(fmt.Sprintf("C%02d", i), "code", 1))
			s.NoError(err)
		})
		wg.Go(func() {
			_, err := s.service.Spend(s.GetContext(), target.ID, decimal.NewFromInt(10))
			s.NoError(err)
		})
	}
	wg.Wait()

	inMemory := s.service.List(s.GetContext())
	s.Require().Len(inMemory, workers+1)
	s.Equal(names(inMemory), names(s.store.Snapshot()))
	s.Len(lo.Uniq(names(inMemory)), workers+1)

	// every spend landed on top of the previous one
	spent, err := s.service.Get(s.GetContext(), target.ID)
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(1000-10*workers).Equal(spent.Balance), spent.Balance.String())
	s.Equal(1+2*workers, s.store.SaveCount())
}
