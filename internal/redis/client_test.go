package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/eaglebank/ledger-service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(addr string) *config.Config {
	return &config.Config{
		RedisAddr:         addr,
		RedisDB:           2,
		RedisPoolSize:     4,
		RedisDialTimeout:  200 * time.Millisecond,
		RedisReadTimeout:  100 * time.Millisecond,
		RedisWriteTimeout: 100 * time.Millisecond,
	}
}

func TestClientOptions_ComeFromConfig(t *testing.T) {
	opts := clientOptions(testConfig("cache:6379"))

	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 4, opts.PoolSize)
	assert.Equal(t, 200*time.Millisecond, opts.DialTimeout)
	assert.Equal(t, 100*time.Millisecond, opts.ReadTimeout)
	assert.Equal(t, 100*time.Millisecond, opts.WriteTimeout)
}

func TestNewClient(t *testing.T) {
	srv := miniredis.RunT(t)
	cfg := testConfig(srv.Addr())
	cfg.RedisDB = 0

	client, err := NewClient(context.Background(), cfg)
	require.NoError(t, err)
	defer client.Close()
	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestNewClient_Unreachable(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	_, err := NewClient(context.Background(), testConfig(addr))
	assert.Error(t, err)
}
