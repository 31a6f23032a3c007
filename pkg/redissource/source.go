// Package redissource serves pages from a Redis list of JSON encoded items.
// Page N of size S is the list range (N-1)*S .. N*S-1.
package redissource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Sternrassler/offset-page/pkg/logging"
	"github.com/Sternrassler/offset-page/pkg/offsetpage"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var (
	// ErrInvalidItem indicates a list element that does not decode into the item type.
	ErrInvalidItem = errors.New("invalid list item")

	// ErrInvalidPage indicates a non-positive page number or size.
	ErrInvalidPage = errors.New("page and size must be positive")
)

// Source reads pages of T from the Redis list at key.
type Source[T any] struct {
	redis  *redis.Client
	key    string
	logger zerolog.Logger
}

// New creates a Source over the list at key.
func New[T any](redisClient *redis.Client, key string) *Source[T] {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &Source[T]{
		redis:  redisClient,
		key:    key,
		logger: logging.NewLogger(logging.ComponentRedis).With().Str("key", key).Logger(),
	}
}

// Key returns the list key.
func (s *Source[T]) Key() string {
	return s.key
}

// FetchPage loads one page with LRANGE. Elements are decoded one at a time
// as the returned iterator advances.
func (s *Source[T]) FetchPage(ctx context.Context, page, size int) (offsetpage.Iterator[T], error) {
	if page < 1 || size < 1 {
		return nil, fmt.Errorf("%w: page=%d size=%d", ErrInvalidPage, page, size)
	}

	start := int64(page-1) * int64(size)
	stop := start + int64(size) - 1

	raw, err := s.redis.LRange(ctx, s.key, start, stop).Result()
	if err != nil {
		FetchesTotal.WithLabelValues("error").Inc()
		s.logger.Warn().Err(err).Int("page", page).Int("size", size).Msg("LRANGE failed")
		return nil, fmt.Errorf("redis lrange: %w", err)
	}

	if len(raw) == 0 {
		FetchesTotal.WithLabelValues("empty").Inc()
	} else {
		FetchesTotal.WithLabelValues("items").Inc()
	}
	s.logger.Debug().Int("page", page).Int("size", size).Int("count", len(raw)).Msg("Loaded page")

	return &listIterator[T]{raw: raw, start: start, logger: s.logger}, nil
}

// Push appends items to the end of the list.
func (s *Source[T]) Push(ctx context.Context, items ...T) error {
	if len(items) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(items))
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("marshal item: %w", err)
		}
		values = append(values, data)
	}

	if err := s.redis.RPush(ctx, s.key, values...).Err(); err != nil {
		return fmt.Errorf("redis rpush: %w", err)
	}
	return nil
}

// Len returns the list length.
func (s *Source[T]) Len(ctx context.Context) (int64, error) {
	n, err := s.redis.LLen(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis llen: %w", err)
	}
	return n, nil
}

// Clear deletes the list.
func (s *Source[T]) Clear(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

type listIterator[T any] struct {
	raw    []string
	start  int64
	pos    int
	value  T
	err    error
	logger zerolog.Logger
}

func (l *listIterator[T]) Next() bool {
	if l.err != nil || l.pos >= len(l.raw) {
		return false
	}

	var item T
	if err := json.Unmarshal([]byte(l.raw[l.pos]), &item); err != nil {
		index := l.start + int64(l.pos)
		l.err = fmt.Errorf("%w at index %d: %v", ErrInvalidItem, index, err)
		DecodeErrors.Inc()
		l.logger.Warn().Err(err).Int64("index", index).Msg("List item decode failed")
		return false
	}

	l.value = item
	l.pos++
	return true
}

func (l *listIterator[T]) Value() T { return l.value }

func (l *listIterator[T]) Err() error { return l.err }
