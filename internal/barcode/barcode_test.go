package barcode

import (
	"testing"

	ierr "github.com/flexprice/couponmanager/internal/errors"
	"github.com/flexprice/couponmanager/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected types.BarcodeType
		ok       bool
	}{
		{"code128", types.BarcodeTypeCode128, true},
		{"CODE128", types.BarcodeTypeCode128, true},
		{"VNBarcodeSymbologyCode128", types.BarcodeTypeCode128, true},
		{"Barcode", types.BarcodeTypeCode128, true},
		{"qr", types.BarcodeTypeQR, true},
		{"QR", types.BarcodeTypeQR, true},
		{"VNBarcodeSymbologyQR", types.BarcodeTypeQR, true},
		{"QR Code", types.BarcodeTypeQR, true},
		{"ean13", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := Parse(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSelect(t *testing.T) {
	t.Run("first supported detection with a payload wins", func(t *testing.T) {
		d, bt, err := Select([]Detection{
			{Payload: "4901234567894", Symbology: "ean13"},
			{Payload: "", Symbology: "qr"},
			{Payload: "QR-PAYLOAD", Symbology: "VNBarcodeSymbologyQR"},
			{Payload: "123456789012", Symbology: "code128"},
		})
		require.NoError(t, err)
		assert.Equal(t, "QR-PAYLOAD", d.Payload)
		assert.Equal(t, types.BarcodeTypeQR, bt)
	})

	t.Run("nothing usable", func(t *testing.T) {
		_, _, err := Select([]Detection{{Payload: "x", Symbology: "pdf417"}})
		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
		assert.ErrorIs(t, err, ErrBarcodeNotFound)
	})

	t.Run("no detections", func(t *testing.T) {
		_, _, err := Select(nil)
		assert.ErrorIs(t, err, ErrBarcodeNotFound)
	})
}
