package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func testConfig(t *testing.T) *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.EndpointAddr = freeAddr(t)
	return c
}

func TestNewApp_RejectsInvalidConfig(t *testing.T) {
	c := testConfig(t)
	c.RefreshTokenValidityDuration = c.AccessTokenValidityDuration / 2

	_, err := NewApp(context.Background(), c)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestNewApp_InMemory(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(app.close)

	assert.IsType(t, &repomanager.InMemoryRepositoryManager{}, app.manager)
	assert.IsType(t, &refreshtokens.MemoryRepository{}, app.manager.RefreshTokens())
	assert.Nil(t, app.redis)
}

func TestNewApp_RedisRefreshTokens(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := testConfig(t)
	cfg.RedisAddr = mr.Addr()

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(app.close)

	assert.IsType(t, &refreshtokens.RedisRepository{}, app.manager.RefreshTokens())
}

func TestNewApp_RedisUnavailable(t *testing.T) {
	cfg := testConfig(t)
	cfg.RedisAddr = freeAddr(t)

	_, err := NewApp(context.Background(), cfg)
	assert.ErrorContains(t, err, "redis init error")
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.EndpointAddrGRPC = freeAddr(t)

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool {
		c, err := net.Dial("tcp", cfg.EndpointAddr)
		if err != nil {
			return false
		}
		_ = c.Close()
		return true
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}
