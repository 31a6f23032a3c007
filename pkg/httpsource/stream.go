package httpsource

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// streamIterator decodes a JSON array body one element per Next. The body
// is closed once the array ends, on the first error, or on Close.
type streamIterator[T any] struct {
	body    io.Closer
	decoder *json.Decoder
	logger  zerolog.Logger

	opened bool
	closed bool
	value  T
	err    error
}

func newStreamIterator[T any](body io.Closer, r io.Reader, logger zerolog.Logger) *streamIterator[T] {
	return &streamIterator[T]{
		body:    body,
		decoder: json.NewDecoder(r),
		logger:  logger,
	}
}

func (s *streamIterator[T]) Next() bool {
	if s.closed {
		return false
	}

	if !s.opened {
		s.opened = true
		tok, err := s.decoder.Token()
		if err != nil {
			return s.fail(fmt.Errorf("read page body: %w", err))
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '[' {
			return s.fail(ErrNotArray)
		}
	}

	if !s.decoder.More() {
		_ = s.Close()
		return false
	}

	var item T
	if err := s.decoder.Decode(&item); err != nil {
		return s.fail(fmt.Errorf("decode page item: %w", err))
	}
	s.value = item
	return true
}

func (s *streamIterator[T]) Value() T { return s.value }

func (s *streamIterator[T]) Err() error { return s.err }

// Close releases the response body.
func (s *streamIterator[T]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}

func (s *streamIterator[T]) fail(err error) bool {
	s.err = err
	errorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
	s.logger.Warn().Err(err).Msg("Page body decode failed")
	_ = s.Close()
	return false
}
