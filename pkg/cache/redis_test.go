package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kickoff-coach-api/pkg/config"
)

func TestOptions(t *testing.T) {
	opts := Options(config.RedisConfig{Host: "cache", Port: 6380, Password: "pw", DB: 2, PoolSize: 20, DialTimeout: time.Second})

	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 20, opts.PoolSize)
	assert.Equal(t, time.Second, opts.DialTimeout)

	opts = Options(config.RedisConfig{Host: "localhost", Port: 6379})
	assert.Zero(t, opts.PoolSize)
	assert.Zero(t, opts.DialTimeout)
}

func TestNewRedisFailsWithoutServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := NewRedis(ctx, config.RedisConfig{Host: "127.0.0.1", Port: 1, DialTimeout: 200 * time.Millisecond})
	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "ping redis 127.0.0.1:1")
}
