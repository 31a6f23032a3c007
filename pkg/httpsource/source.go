// Package httpsource implements a page source over HTTP endpoints that
// return one JSON array per page, addressed by page number and page size
// query parameters.
//
// An X-Pages response header is honoured: pages past it are empty. A 404
// is an empty page as well. Gzip bodies are decoded. Items are decoded
// lazily, one per pull. There is no retry; failures reach the caller.
package httpsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/offset-page/pkg/logging"
	"github.com/Sternrassler/offset-page/pkg/offsetpage"
	"github.com/go-playground/validator/v10"
	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"
)

// Config holds the source configuration.
type Config struct {
	// BaseURL is the collection endpoint, e.g. "https://api.example.com/v1/orders".
	// Existing query parameters are kept.
	BaseURL string `validate:"required,url"`

	// PageParam is the query parameter carrying the 1-based page number.
	PageParam string `validate:"required"`

	// SizeParam is the query parameter carrying the page size.
	SizeParam string `validate:"required"`

	// Timeout per page request (0 means no client timeout).
	Timeout time.Duration `validate:"gte=0"`

	// UserAgent header sent with every request (optional).
	UserAgent string

	// HTTPClient replaces the default client (optional).
	HTTPClient *http.Client `validate:"-"`
}

// DefaultConfig returns a configuration for "?page=N&size=S" endpoints.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:   baseURL,
		PageParam: "page",
		SizeParam: "size",
		Timeout:   30 * time.Second,
		UserAgent: "offset-page/0.1.0",
	}
}

// Source fetches pages of T from an HTTP endpoint.
type Source[T any] struct {
	httpClient *http.Client
	baseURL    *url.URL
	config     Config
	logger     zerolog.Logger
}

var validate = validator.New()

// New creates a Source after validating cfg.
func New[T any](cfg Config) (*Source[T], error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("httpsource config validation error: %w", err)
	}

	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Source[T]{
		httpClient: httpClient,
		baseURL:    baseURL,
		config:     cfg,
		logger:     logging.NewLogger(logging.ComponentHTTP),
	}, nil
}

// FetchPage requests one page. The returned iterator owns the response
// body; it is released when the iterator is drained or closed.
func (s *Source[T]) FetchPage(ctx context.Context, page, size int) (offsetpage.Iterator[T], error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.pageURL(page, size), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")
	if s.config.UserAgent != "" {
		req.Header.Set("User-Agent", s.config.UserAgent)
	}

	startTime := time.Now()
	resp, err := s.httpClient.Do(req)
	requestDuration.Observe(time.Since(startTime).Seconds())
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		requestsTotal.WithLabelValues("network_error").Inc()
		s.logger.Warn().Err(err).Int("page", page).Int("size", size).Msg("Page request failed")
		return nil, err
	}
	requestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode == http.StatusNotFound || s.pastLastPage(resp, page) {
		resp.Body.Close()
		s.logger.Debug().Int("page", page).Int("status_code", resp.StatusCode).Msg("Page beyond upstream data")
		return offsetpage.Empty[T](), nil
	}

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()

		statusErr := &StatusError{
			StatusCode: resp.StatusCode,
			Class:      classifyStatus(resp.StatusCode),
			Message:    strings.TrimSpace(resp.Status + " " + string(body)),
			Page:       page,
			Size:       size,
		}
		errorsTotal.WithLabelValues(string(statusErr.Class)).Inc()
		s.logger.Warn().
			Int("page", page).
			Int("size", size).
			Int("status_code", resp.StatusCode).
			Str("error_class", string(statusErr.Class)).
			Msg("Upstream page error")
		return nil, statusErr
	}

	if !strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		return newStreamIterator[T](resp.Body, resp.Body, s.logger), nil
	}

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		resp.Body.Close()
		errorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		return nil, fmt.Errorf("open gzip body: %w", err)
	}
	return newStreamIterator[T](closers{gz, resp.Body}, gz, s.logger), nil
}

// pageURL builds the request URL for a page.
func (s *Source[T]) pageURL(page, size int) string {
	u := *s.baseURL
	query := u.Query()
	query.Set(s.config.PageParam, strconv.Itoa(page))
	query.Set(s.config.SizeParam, strconv.Itoa(size))
	u.RawQuery = query.Encode()
	return u.String()
}

// pastLastPage reports whether X-Pages says page does not exist.
func (s *Source[T]) pastLastPage(resp *http.Response, page int) bool {
	pages := resp.Header.Get("X-Pages")
	if pages == "" {
		return false
	}
	total, err := strconv.Atoi(pages)
	if err != nil {
		s.logger.Debug().Str("x_pages", pages).Msg("Ignoring malformed X-Pages header")
		return false
	}
	return page > total
}

// closers closes every element, returning the first error.
type closers []io.Closer

func (c closers) Close() error {
	var first error
	for _, closer := range c {
		if err := closer.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
