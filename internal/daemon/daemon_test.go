package daemon

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pkgforge/internal/config"
)

func watchConfig(debounceMS int) *config.Config {
	return &config.Config{
		Watch: config.WatchConfig{
			Paths:      []string{"."},
			DebounceMS: debounceMS,
		},
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	d := &Daemon{
		Config:  watchConfig(10),
		WorkDir: t.TempDir(),
		Rebuild: func(context.Context) error { return nil },
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop on cancellation")
	}
}

func TestRunShutdownWithPendingDebounce(t *testing.T) {
	dir := t.TempDir()
	var rebuilds atomic.Int32
	d := &Daemon{
		Config:  watchConfig(50),
		WorkDir: dir,
		Rebuild: func(context.Context) error {
			rebuilds.Add(1)
			return nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	// Give the watcher a moment to register, then schedule a debounce and
	// shut down before its window elapses.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "core.py"), []byte("A = 1\n"), 0o644))
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop on cancellation")
	}

	// The pending timer fires after shutdown; it must not panic the process.
	time.Sleep(150 * time.Millisecond)
}
