package locker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *redis.Client {
	if testing.Short() {
		t.Skip("redis container tests skipped in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { rdb.Close() })
	require.NoError(t, rdb.Ping(ctx).Err())
	return rdb
}

func TestKey(t *testing.T) {
	id := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	assert.Equal(t, "lock:circle:00000000-0000-0000-0000-000000000001", Key(id))
}

func TestNoop(t *testing.T) {
	unlock, err := Noop{}.Lock(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.NotPanics(t, unlock)
}

func TestCircleLocker_ExclusiveUntilReleased(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()
	l := New(rdb, 5*time.Second, 200*time.Millisecond)
	circleID := uuid.New()

	unlock, err := l.Lock(ctx, circleID)
	require.NoError(t, err)

	_, err = l.Lock(ctx, circleID)
	assert.ErrorIs(t, err, ErrBusy)

	other, err := l.Lock(ctx, uuid.New())
	require.NoError(t, err)
	other()

	unlock()

	again, err := l.Lock(ctx, circleID)
	require.NoError(t, err)
	again()
}
