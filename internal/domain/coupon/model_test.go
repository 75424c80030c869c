package coupon

import (
	"strings"
	"testing"
	"time"

	ierr "github.com/flexprice/couponmanager/internal/errors"
	"github.com/flexprice/couponmanager/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	expiry := time.Date(2026, 3, 1, 23, 30, 0, 0, seoul)

	c := New("Starbucks", "1234", decimal.NewFromInt(30000), expiry, types.BarcodeTypeCode128)

	assert.True(t, strings.HasPrefix(c.ID, types.UUID_PREFIX_COUPON+"_"), c.ID)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), c.ExpirationDate)
	assert.NotEqual(t, c.ID, New("Starbucks", "1234", decimal.Zero, expiry, types.BarcodeTypeQR).ID)
}

func TestIsExpired(t *testing.T) {
	c := New("n", "c", decimal.Zero, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), types.BarcodeTypeQR)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"day before", time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC), false},
		{"same day", time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC), false},
		{"day after", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsExpired(tt.now))
		})
	}
}

func TestWithBalanceLeavesOriginal(t *testing.T) {
	c := New("n", "c", decimal.NewFromInt(100), time.Now(), types.BarcodeTypeQR)

	updated := c.WithBalance(decimal.NewFromInt(-20))

	assert.True(t, c.Balance.Equal(decimal.NewFromInt(100)))
	assert.True(t, updated.Balance.Equal(decimal.NewFromInt(-20)))
	assert.Equal(t, c.ID, updated.ID)
}

func TestCloneList(t *testing.T) {
	list := []*Coupon{
		New("a", "1", decimal.Zero, time.Now(), types.BarcodeTypeQR),
		New("b", "2", decimal.Zero, time.Now(), types.BarcodeTypeQR),
	}

	cloned := CloneList(list)
	require.Len(t, cloned, 2)
	cloned[0].Name = "changed"

	assert.Equal(t, "a", list[0].Name)
	assert.Empty(t, CloneList(nil))
}

func TestValidateList(t *testing.T) {
	valid := New("a", "1", decimal.Zero, time.Now(), types.BarcodeTypeQR)

	assert.NoError(t, ValidateList(nil))
	assert.NoError(t, ValidateList([]*Coupon{valid}))

	err := ValidateList([]*Coupon{valid, nil})
	require.Error(t, err)
	assert.True(t, ierr.IsPersistence(err))

	assert.True(t, ierr.IsPersistence(ValidateList([]*Coupon{{Name: "no id"}})))
	assert.Nil(t, CloneList([]*Coupon{nil})[0])
}
