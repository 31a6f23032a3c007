//go:build integration

package redissource

import (
	"context"
	"testing"

	"github.com/Sternrassler/offset-page/pkg/offsetpage"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis starts a Redis container and returns a client
func setupRedis(t *testing.T) (*redis.Client, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "Failed to start Redis container")

	endpoint, err := redisContainer.Endpoint(ctx, "")
	require.NoError(t, err, "Failed to get Redis endpoint")

	client := redis.NewClient(&redis.Options{
		Addr: endpoint,
	})

	require.NoError(t, client.Ping(ctx).Err(), "Failed to connect to Redis")

	cleanup := func() {
		client.Close()
		redisContainer.Terminate(ctx)
	}

	return client, cleanup
}

func TestSource_Integration_Windows(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	ctx := context.Background()
	src := New[int](redisClient, "integration:items")

	items := make([]int, 0, 100)
	for i := 1; i <= 100; i++ {
		items = append(items, i)
	}
	require.NoError(t, src.Push(ctx, items...))

	adapter := offsetpage.New[int](src, offsetpage.WithLogger(zerolog.Nop()))

	for offset := 0; offset <= 100; offset += 7 {
		for _, limit := range []int{1, 5, 13, 30} {
			got, err := adapter.FetchAll(ctx, offset, limit, 0)
			require.NoError(t, err, "FetchAll(%d, %d)", offset, limit)

			want := []int{}
			for i := offset; i < offset+limit && i < len(items); i++ {
				want = append(want, items[i])
			}
			assert.Equal(t, want, got, "FetchAll(%d, %d)", offset, limit)
		}
	}
}

func TestSource_Integration_Resume(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	ctx := context.Background()
	src := New[string](redisClient, "integration:names")
	require.NoError(t, src.Push(ctx, "a", "b", "c", "d", "e", "f", "g"))

	adapter := offsetpage.New[string](src, offsetpage.WithLogger(zerolog.Nop()))

	result, err := adapter.Execute(ctx, 2, 4, 0)
	require.NoError(t, err)

	first, ok, err := result.Fetch()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "c", first)

	rest, err := adapter.FetchAll(ctx, 2, 4, result.FetchedCount())
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "e", "f"}, rest)
}
