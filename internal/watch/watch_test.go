package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	reasons []string
}

func (r *recorder) render(_ context.Context, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reasons = append(r.reasons, reason)
	return nil
}

func (r *recorder) count(reason string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, got := range r.reasons {
		if got == reason {
			n++
		}
	}
	return n
}

func startWatch(t *testing.T, path, schedule string, render RenderFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, path, schedule, render) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watch did not stop")
		}
	})
}

func TestRun_RendersOnStartAndChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remind.txt")
	require.NoError(t, os.WriteFile(path, []byte("separator:|\n"), 0o644))

	rec := &recorder{}
	startWatch(t, path, "@yearly", rec.render)

	require.Eventually(t, func() bool { return rec.count("start") == 1 }, 5*time.Second, 20*time.Millisecond)

	// unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("separator:|\n15|Pay rent\n"), 0o644))

	require.Eventually(t, func() bool { return rec.count("change") >= 1 }, 5*time.Second, 20*time.Millisecond)
}

func TestRun_RendersOnSchedule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remind.txt")
	require.NoError(t, os.WriteFile(path, []byte("separator:|\n"), 0o644))

	rec := &recorder{}
	startWatch(t, path, "@every 1s", rec.render)

	require.Eventually(t, func() bool { return rec.count("schedule") >= 1 }, 5*time.Second, 50*time.Millisecond)
}

func TestRun_RenderErrorsDoNotStopTheLoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remind.txt")
	require.NoError(t, os.WriteFile(path, []byte("separator:|\n"), 0o644))

	var mu sync.Mutex
	calls := 0
	startWatch(t, path, "@every 1s", func(context.Context, string) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return errors.New("separator declaration missing")
	})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls >= 2
	}, 5*time.Second, 50*time.Millisecond)
}

func TestRun_InvalidSchedule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remind.txt")
	err := Run(context.Background(), path, "every morning", func(context.Context, string) error { return nil })
	assert.Error(t, err)
}
