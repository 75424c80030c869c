package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/flexprice/couponmanager/internal/domain/catalog"
)

// MockShopSearcher implements catalog.Searcher with canned per-query answers.
// Queries without a registered answer return an empty result.
type MockShopSearcher struct {
	mu      sync.Mutex
	results map[string]mockSearchResult
	calls   []string
	gate    chan struct{}
}

type mockSearchResult struct {
	items []*catalog.ShopItem
	err   error
}

// NewMockShopSearcher creates a new mock searcher
func NewMockShopSearcher() *MockShopSearcher {
	return &MockShopSearcher{
		results: make(map[string]mockSearchResult),
	}
}

// SetItems registers the items returned for query
func (m *MockShopSearcher) SetItems(query string, items ...*catalog.ShopItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[query] = mockSearchResult{items: items}
}

// SetError makes query fail with err
func (m *MockShopSearcher) SetError(query string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[query] = mockSearchResult{err: err}
}

// Block holds every following search until Release is called or the
// search context is done
func (m *MockShopSearcher) Block() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gate = make(chan struct{})
}

// Release lets blocked searches continue
func (m *MockShopSearcher) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gate != nil {
		close(m.gate)
		m.gate = nil
	}
}

func (m *MockShopSearcher) Search(ctx context.Context, query string) (*catalog.SearchResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, query)
	gate := m.gate
	result := m.results[query]
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if result.err != nil {
		return nil, result.err
	}

	items := make([]*catalog.ShopItem, len(result.items))
	copy(items, result.items)
	return &catalog.SearchResult{
		Total:   len(items),
		Start:   1,
		Display: len(items),
		Items:   items,
	}, nil
}

// CallCount returns the number of searches issued
func (m *MockShopSearcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls returns the queries in the order they were issued
func (m *MockShopSearcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// WaitForCalls polls until at least n searches were issued or timeout passes
func (m *MockShopSearcher) WaitForCalls(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if m.CallCount() >= n {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return m.CallCount() >= n
}

// Clear drops registered answers and recorded calls
func (m *MockShopSearcher) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = make(map[string]mockSearchResult)
	m.calls = nil
	if m.gate != nil {
		close(m.gate)
		m.gate = nil
	}
}
