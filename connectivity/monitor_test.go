package connectivity

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_StartsOnline(t *testing.T) {
	m := NewMonitor(ProbeFunc(func(ctx context.Context) bool { return false }), time.Hour, zerolog.Nop())
	assert.True(t, m.IsOnline())
	assert.Equal(t, time.Hour, m.interval)

	m.Set(false)
	assert.False(t, m.IsOnline())
	m.Set(true)
	assert.True(t, m.IsOnline())
}

func TestMonitor_DefaultInterval(t *testing.T) {
	m := NewMonitor(nil, 0, zerolog.Nop())
	assert.Equal(t, DefaultInterval, m.interval)
}

func TestMonitor_Run(t *testing.T) {
	var online atomic.Bool
	online.Store(false)

	m := NewMonitor(ProbeFunc(func(ctx context.Context) bool { return online.Load() }), 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	assert.Eventually(t, func() bool { return !m.IsOnline() }, time.Second, 5*time.Millisecond)

	online.Store(true)
	assert.Eventually(t, m.IsOnline, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.True(t, m.IsOnline())
}

func TestMonitor_RunWithoutProbe(t *testing.T) {
	m := NewMonitor(nil, time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.NoError(t, m.Run(ctx))
	assert.True(t, m.IsOnline())
}

func TestDialProbe(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	probe := DialProbe{Address: addr, Timeout: time.Second}
	assert.True(t, probe.Check(context.Background()))

	listener.Close()
	assert.False(t, probe.Check(context.Background()))
}
