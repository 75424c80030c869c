package naver

import (
	"context"
	"net/http"
	"net/url"

	"github.com/flexprice/couponmanager/internal/config"
	"github.com/flexprice/couponmanager/internal/domain/catalog"
	ierr "github.com/flexprice/couponmanager/internal/errors"
	"github.com/flexprice/couponmanager/internal/httpclient"
	"github.com/flexprice/couponmanager/internal/logger"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client queries the Naver shopping search API
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	display      int
	httpClient   httpclient.Client
	limiter      *rate.Limiter
	logger       *logger.Logger
}

// NewClient creates a new search API client
func NewClient(cfg *config.Configuration, httpClient httpclient.Client, logger *logger.Logger) *Client {
	if cfg.Naver.ClientID == "" || cfg.Naver.ClientSecret == "" {
		logger.Warnw("naver api credentials are not configured, searches will be rejected upstream")
	}

	display := cfg.Naver.Display
	if display <= 0 {
		display = DefaultDisplay
	}

	return &Client{
		baseURL:      cfg.Naver.BaseURL,
		clientID:     cfg.Naver.ClientID,
		clientSecret: cfg.Naver.ClientSecret,
		display:      display,
		httpClient:   httpClient,
		limiter:      rate.NewLimiter(rate.Limit(cfg.Naver.RateLimit), cfg.Naver.Burst),
		logger:       logger,
	}
}

// Search runs a single query with the default paging and filters
func (c *Client) Search(ctx context.Context, query string) (*catalog.SearchResult, error) {
	return c.SearchWithRequest(ctx, SearchRequest{
		Query:   query,
		Display: c.display,
		Start:   DefaultStart,
		Filter:  DefaultFilter,
		Exclude: DefaultExclude,
	})
}

// SearchWithRequest runs a query with explicit paging and filters
func (c *Client) SearchWithRequest(ctx context.Context, req SearchRequest) (*catalog.SearchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Search was cancelled before it was sent").
			Mark(ierr.ErrHTTPClient)
	}

	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid search API base url").
			Mark(ierr.ErrSystem)
	}
	endpoint.RawQuery = req.Values().Encode()

	resp, err := c.httpClient.Send(ctx, &httpclient.Request{
		Method: http.MethodGet,
		URL:    endpoint.String(),
		Headers: map[string]string{
			HeaderClientID:     c.clientID,
			HeaderClientSecret: c.clientSecret,
			"Accept":           "application/json",
		},
	})
	if err != nil {
		details := map[string]interface{}{
			"query": req.Query,
		}
		if httpErr, ok := httpclient.IsHTTPError(err); ok {
			details["status_code"] = httpErr.StatusCode
			details["error_code"] = parseErrorCode(httpErr.Response)
		}
		return nil, ierr.WithError(err).
			WithHint("Shopping search request failed").
			WithReportableDetails(details).
			Mark(ierr.ErrHTTPClient)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, ierr.NewErrorf("search api returned status %d", resp.StatusCode).
			WithHintf("Shopping search returned status %d", resp.StatusCode).
			WithReportableDetails(map[string]interface{}{
				"query":       req.Query,
				"status_code": resp.StatusCode,
				"error_code":  parseErrorCode(resp.Body),
			}).
			Mark(ierr.ErrHTTPClient)
	}

	var result catalog.SearchResult
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Shopping search returned an unreadable response").
			WithReportableDetails(map[string]interface{}{
				"query": req.Query,
			}).
			Mark(ierr.ErrHTTPClient)
	}

	c.logger.Debugw("shopping search completed",
		"query", req.Query,
		"total", result.Total,
		"items", len(result.Items))

	return &result, nil
}

func parseErrorCode(body []byte) string {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}
	return resp.ErrorCode
}
