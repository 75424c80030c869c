package types

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMerchantsSortedByKey(t *testing.T) {
	merchants := ListMerchants()
	require.Len(t, merchants, 9)

	keys := lo.Map(merchants, func(m Merchant, _ int) string { return m.Key })
	assert.IsNonDecreasing(t, keys)
}

func TestGetMerchant(t *testing.T) {
	m, ok := GetMerchant("Starbucks")
	require.True(t, ok)
	assert.Equal(t, "스타벅스", m.Name)

	_, ok = GetMerchant("starbucks")
	assert.False(t, ok)
}

func TestSearchKeywords(t *testing.T) {
	queries := lo.Map(SearchKeywords(), func(k SearchKeyword, _ int) string { return k.Qualify("맥도날드") })

	assert.Equal(t, []string{
		"맥도날드 잔액관리형",
		"맥도날드 디지털상품권",
		"맥도날드 금액권",
		"맥도날드 만원권",
	}, queries)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-12-31")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, 0, d.Hour())

	_, err = ParseDate("2026/12/31")
	assert.Error(t, err)
}

func TestBarcodeTypeValidate(t *testing.T) {
	assert.NoError(t, BarcodeTypeQR.Validate())
	assert.NoError(t, BarcodeTypeCode128.Validate())
	assert.Error(t, BarcodeType("ean13").Validate())
}
