package naver

import (
	"net/url"
	"strconv"

	ierr "github.com/flexprice/couponmanager/internal/errors"
)

const (
	// HeaderClientID carries the application client id
	HeaderClientID = "X-Naver-Client-Id"
	// HeaderClientSecret carries the application client secret
	HeaderClientSecret = "X-Naver-Client-Secret"

	// DefaultFilter limits results to products payable with Naver Pay
	DefaultFilter = "naverpay"
	// DefaultExclude drops used, rental and cross-border listings
	DefaultExclude = "used:rental:cbshop"

	DefaultStart   = 1
	DefaultDisplay = 20
	MaxDisplay     = 100
	MaxStart       = 1000
)

// SearchRequest describes one shopping search query
type SearchRequest struct {
	Query   string
	Display int
	Start   int
	Filter  string
	Exclude string
}

// Validate checks the paging bounds accepted by the search API
func (r SearchRequest) Validate() error {
	if r.Display < 1 || r.Display > MaxDisplay {
		return ierr.NewErrorf("display %d out of range", r.Display).
			WithHintf("Display must be between 1 and %d", MaxDisplay).
			Mark(ierr.ErrValidation)
	}
	if r.Start < 1 || r.Start > MaxStart {
		return ierr.NewErrorf("start %d out of range", r.Start).
			WithHintf("Start must be between 1 and %d", MaxStart).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Values encodes the request as URL query parameters. The query is passed
// through untouched, including when it is blank.
func (r SearchRequest) Values() url.Values {
	v := url.Values{}
	v.Set("query", r.Query)
	v.Set("display", strconv.Itoa(r.Display))
	v.Set("start", strconv.Itoa(r.Start))
	if r.Filter != "" {
		v.Set("filter", r.Filter)
	}
	if r.Exclude != "" {
		v.Set("exclude", r.Exclude)
	}
	return v
}

// errorResponse is the body returned by the API on failure
type errorResponse struct {
	ErrorMessage string `json:"errorMessage"`
	ErrorCode    string `json:"errorCode"`
}
