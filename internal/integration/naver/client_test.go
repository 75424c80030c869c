package naver

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/flexprice/couponmanager/internal/config"
	ierr "github.com/flexprice/couponmanager/internal/errors"
	"github.com/flexprice/couponmanager/internal/logger"
	"github.com/flexprice/couponmanager/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBody = `{
	"lastBuildDate": "Tue, 14 Oct 2025 09:00:00 +0900",
	"total": 2,
	"start": 1,
	"display": 20,
	"items": [
		{"title": "<b>스타벅스</b> e카드 5만원", "productId": "111", "lprice": "50000", "hprice": "", "mallName": "스타벅스몰", "productType": "2"},
		{"title": "스타벅스 금액권", "productId": "222", "lprice": "30000"}
	]
}`

func newTestClient(t *testing.T) (*Client, *testutil.MockHTTPClient) {
	t.Helper()
	cfg := config.GetDefaultConfig()
	cfg.Naver.ClientID = "client-id"
	cfg.Naver.ClientSecret = "client-secret"
	cfg.Naver.RateLimit = 1000
	cfg.Naver.Burst = 100

	mock := testutil.NewMockHTTPClient()
	return NewClient(cfg, mock, logger.NewNopLogger()), mock
}

func TestClientSearch(t *testing.T) {
	client, mock := newTestClient(t)
	mock.RegisterJSONResponse("query=스타벅스 금액권", sampleBody)

	result, err := client.Search(context.Background(), "스타벅스 금액권")
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "111", result.Items[0].ProductID)
	assert.Equal(t, 50000, result.Items[0].LPrice)
	assert.Equal(t, 0, result.Items[0].HPrice)
	require.NotNil(t, result.Items[0].ProductType)
	assert.Equal(t, 2, *result.Items[0].ProductType)
	assert.Nil(t, result.Items[1].ProductType)

	requests := mock.Requests()
	require.Len(t, requests, 1)
	req := requests[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "client-id", req.Headers[HeaderClientID])
	assert.Equal(t, "client-secret", req.Headers[HeaderClientSecret])

	parsed, err := url.Parse(req.URL)
	require.NoError(t, err)
	assert.Equal(t, "openapi.naver.com", parsed.Host)
	assert.Equal(t, "/v1/search/shop.json", parsed.Path)
	query := parsed.Query()
	assert.Equal(t, "스타벅스 금액권", query.Get("query"))
	assert.Equal(t, "20", query.Get("display"))
	assert.Equal(t, "1", query.Get("start"))
	assert.Equal(t, "naverpay", query.Get("filter"))
	assert.Equal(t, "used:rental:cbshop", query.Get("exclude"))
}

func TestClientSearchFailures(t *testing.T) {
	tests := []struct {
		name     string
		response testutil.MockResponse
	}{
		{
			name: "non 2xx status",
			response: testutil.MockResponse{
				StatusCode: http.StatusUnauthorized,
				Body:       []byte(`{"errorMessage":"Authentication failed","errorCode":"024"}`),
			},
		},
		{
			name: "malformed body",
			response: testutil.MockResponse{
				StatusCode: http.StatusOK,
				Body:       []byte(`{"items": [`),
			},
		},
		{
			name: "transport error",
			response: testutil.MockResponse{
				Err: ierr.NewError("connection reset").Mark(ierr.ErrHTTPClient),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mock := newTestClient(t)
			mock.RegisterResponse("query=다이소", tt.response)

			result, err := client.Search(context.Background(), "다이소 만원권")
			assert.Nil(t, result)
			require.Error(t, err)
			assert.True(t, ierr.IsHTTPClient(err))
		})
	}
}

func TestClientSearchCancelled(t *testing.T) {
	client, mock := newTestClient(t)
	mock.RegisterJSONResponse("query=", sampleBody)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, "빕스 금액권")
	require.Error(t, err)
	assert.Empty(t, mock.Requests())
}

func TestSearchRequestValidate(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.SearchWithRequest(context.Background(), SearchRequest{Query: "x", Display: 0, Start: 1})
	assert.True(t, ierr.IsValidation(err))

	_, err = client.SearchWithRequest(context.Background(), SearchRequest{Query: "x", Display: 10, Start: 1001})
	assert.True(t, ierr.IsValidation(err))
}
