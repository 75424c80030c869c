package types

import (
	ierr "github.com/flexprice/couponmanager/internal/errors"
	"github.com/samber/lo"
)

// BarcodeType is the symbology a coupon code is rendered and scanned with
type BarcodeType string

const (
	// BarcodeTypeCode128 is a linear Code 128 barcode
	BarcodeTypeCode128 BarcodeType = "code128"
	// BarcodeTypeQR is a QR code
	BarcodeTypeQR BarcodeType = "qr"
)

func (b BarcodeType) Validate() error {
	allowedTypes := []BarcodeType{
		BarcodeTypeCode128,
		BarcodeTypeQR,
	}

	if !lo.Contains(allowedTypes, b) {
		return ierr.NewError("invalid barcode type").
			WithHint("Barcode type must be code128 or qr").
			WithReportableDetails(map[string]any{
				"barcode_type": b,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

func (b BarcodeType) String() string {
	return string(b)
}
