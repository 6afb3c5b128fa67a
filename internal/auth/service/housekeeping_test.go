package service

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHousekeepingLifecycle(t *testing.T) {
	t.Parallel()

	s := newTestAuthService(t)

	hk := NewHousekeepingService(s.Store, testLogger(), 50*time.Millisecond)
	hk.Start()

	// Let at least one ticker cycle run on top of the startup sweep.
	time.Sleep(120 * time.Millisecond)
	hk.Stop()
}

func TestHousekeepingDefaultInterval(t *testing.T) {
	t.Parallel()

	s := newTestAuthService(t)
	hk := NewHousekeepingService(s.Store, testLogger(), 0)
	require.Equal(t, time.Hour, hk.Interval)
}
