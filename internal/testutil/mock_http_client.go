package testutil

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/flexprice/couponmanager/internal/httpclient"
)

// MockHTTPClient implements a mock HTTP client for testing
type MockHTTPClient struct {
	mu       sync.RWMutex
	routes   []mockRoute
	requests []*httpclient.Request
}

type mockRoute struct {
	match string
	resp  MockResponse
}

// MockResponse represents a mock HTTP response. When Err is set Send fails
// with it instead of answering.
type MockResponse struct {
	StatusCode int
	Body       []byte
	Headers    map[string]string
	Err        error
}

// NewMockHTTPClient creates a new mock HTTP client
func NewMockHTTPClient() *MockHTTPClient {
	return &MockHTTPClient{}
}

// RegisterResponse registers a mock response for every request whose
// unescaped URL contains match. Earlier registrations win.
func (m *MockHTTPClient) RegisterResponse(match string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = append(m.routes, mockRoute{match: match, resp: resp})
}

// RegisterJSONResponse is a helper to register a 200 JSON response
func (m *MockHTTPClient) RegisterJSONResponse(match string, body string) {
	m.RegisterResponse(match, MockResponse{
		StatusCode: http.StatusOK,
		Body:       []byte(body),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	})
}

// Send implements the httpclient.Client interface
func (m *MockHTTPClient) Send(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	routes := m.routes
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target := req.URL
	if unescaped, err := url.QueryUnescape(req.URL); err == nil {
		target = unescaped
	}

	for _, route := range routes {
		if !strings.Contains(target, route.match) {
			continue
		}
		if route.resp.Err != nil {
			return nil, route.resp.Err
		}
		return &httpclient.Response{
			StatusCode: route.resp.StatusCode,
			Body:       route.resp.Body,
			Headers:    route.resp.Headers,
		}, nil
	}

	return &httpclient.Response{
		StatusCode: http.StatusNotFound,
		Body:       []byte("Not Found"),
		Headers:    map[string]string{},
	}, nil
}

// Requests returns every request seen so far
func (m *MockHTTPClient) Requests() []*httpclient.Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*httpclient.Request(nil), m.requests...)
}

// Clear removes all registered responses and recorded requests
func (m *MockHTTPClient) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = nil
	m.requests = nil
}
