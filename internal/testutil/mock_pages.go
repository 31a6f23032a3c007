// Package testutil provides testing utilities for offset-page sources.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/klauspost/compress/gzip"
)

// PageRequest is one request seen by MockPages.
type PageRequest struct {
	Page int
	Size int
}

// MockPagesResponse overrides the response for one page number.
type MockPagesResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
}

// MockPages is an httptest upstream serving a JSON array per page from an
// in-memory item list ("?page=N&size=S", 1-based pages).
type MockPages struct {
	server *httptest.Server

	mu        sync.RWMutex
	items     []any
	overrides map[int]MockPagesResponse
	requests  []PageRequest

	gzip       bool
	totalPages bool
}

// NewMockPages creates a mock upstream serving items.
func NewMockPages(items []any) *MockPages {
	mock := &MockPages{
		items:     items,
		overrides: make(map[int]MockPagesResponse),
	}
	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))
	return mock
}

// NewMockPagesInts creates a mock upstream serving the integers from..to.
func NewMockPagesInts(from, to int) *MockPages {
	items := make([]any, 0, to-from+1)
	for i := from; i <= to; i++ {
		items = append(items, i)
	}
	return NewMockPages(items)
}

// URL returns the collection URL.
func (m *MockPages) URL() string {
	return m.server.URL + "/items"
}

// Close shuts down the mock server.
func (m *MockPages) Close() {
	m.server.Close()
}

// EnableGzip compresses bodies with Content-Encoding: gzip.
func (m *MockPages) EnableGzip() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gzip = true
}

// EnableTotalPages sets X-Pages from the item count and requested size.
func (m *MockPages) EnableTotalPages() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalPages = true
}

// SetPageResponse overrides the response for a page number.
func (m *MockPages) SetPageResponse(page int, resp MockPagesResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[page] = resp
}

// Requests returns the page requests received so far.
func (m *MockPages) Requests() []PageRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]PageRequest(nil), m.requests...)
}

// RequestCount returns the number of requests received.
func (m *MockPages) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

func (m *MockPages) handle(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))

	m.mu.Lock()
	m.requests = append(m.requests, PageRequest{Page: page, Size: size})
	override, overridden := m.overrides[page]
	m.mu.Unlock()

	if overridden {
		for key, value := range override.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(override.StatusCode)
		w.Write([]byte(override.Body))
		return
	}

	if page < 1 || size < 1 {
		http.Error(w, `{"error": "page and size must be positive"}`, http.StatusBadRequest)
		return
	}

	m.mu.RLock()
	window := []any{}
	start := (page - 1) * size
	if start < len(m.items) {
		end := start + size
		if end > len(m.items) {
			end = len(m.items)
		}
		window = m.items[start:end]
	}
	total := (len(m.items) + size - 1) / size
	useGzip, sendTotal := m.gzip, m.totalPages
	m.mu.RUnlock()

	body, err := json.Marshal(window)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if sendTotal {
		w.Header().Set("X-Pages", strconv.Itoa(total))
	}

	if useGzip {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		gz.Write(body)
		gz.Close()
		w.Header().Set("Content-Encoding", "gzip")
		body = buf.Bytes()
	}

	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockPagesResponse {
	return MockPagesResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
	}
}

// NewNotFoundResponse creates a 404 response.
func NewNotFoundResponse() MockPagesResponse {
	return MockPagesResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"error": "Requested page does not exist"}`,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
	}
}

// NewRawResponse creates a 200 response with a literal body.
func NewRawResponse(body string) MockPagesResponse {
	return MockPagesResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
	}
}
