//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/foodgram/foodgram-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *config.RedisConfig {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return &config.RedisConfig{Host: host, Port: port.Port()}
}

func TestTokenBlacklist(t *testing.T) {
	client, err := NewClient(startRedis(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	blacklist := NewTokenBlacklist(client)

	revoked, err := blacklist.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, blacklist.Revoke(ctx, "token-a", time.Minute))
	revoked, err = blacklist.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := client.TTL(ctx, blacklistKey("token-a")).Result()
	require.NoError(t, err)
	assert.True(t, ttl > 0 && ttl <= time.Minute)

	require.NoError(t, blacklist.Revoke(ctx, "token-b", 0))
	revoked, err = blacklist.IsRevoked(ctx, "token-b")
	require.NoError(t, err)
	assert.False(t, revoked)
}
