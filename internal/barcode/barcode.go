// Package barcode selects the coupon code from the detections reported by a
// client-side scanner.
package barcode

import (
	"strings"

	ierr "github.com/flexprice/couponmanager/internal/errors"
	"github.com/flexprice/couponmanager/internal/types"
)

// ErrBarcodeNotFound is returned when no usable detection was reported
var ErrBarcodeNotFound = ierr.NewError("no supported barcode found").
	WithHint("Could not find a Code 128 barcode or QR code in the image").
	Mark(ierr.ErrValidation)

// Detection is one decoded symbol as reported by the scanner
type Detection struct {
	Payload   string `json:"payload"`
	Symbology string `json:"symbology"`
}

var symbologies = map[string]types.BarcodeType{
	"code128":                   types.BarcodeTypeCode128,
	"code_128":                  types.BarcodeTypeCode128,
	"vnbarcodesymbologycode128": types.BarcodeTypeCode128,
	"barcode":                   types.BarcodeTypeCode128,
	"qr":                        types.BarcodeTypeQR,
	"qrcode":                    types.BarcodeTypeQR,
	"qr code":                   types.BarcodeTypeQR,
	"qr_code":                   types.BarcodeTypeQR,
	"vnbarcodesymbologyqr":      types.BarcodeTypeQR,
}

// Parse maps a scanner symbology name onto a barcode type. Matching is case
// insensitive; unsupported symbologies report false.
func Parse(symbology string) (types.BarcodeType, bool) {
	t, ok := symbologies[strings.ToLower(strings.TrimSpace(symbology))]
	return t, ok
}

// Select returns the first detection that carries a payload in a supported
// symbology, along with its barcode type.
func Select(detections []Detection) (Detection, types.BarcodeType, error) {
	for _, d := range detections {
		if d.Payload == "" {
			continue
		}
		if t, ok := Parse(d.Symbology); ok {
			return d, t, nil
		}
	}
	return Detection{}, "", ErrBarcodeNotFound
}
