package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 5 * time.Second
	tick    = 10 * time.Millisecond
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "a: 1\n")

	var (
		calls atomic.Int32
		seen  atomic.Value
	)

	w := New(WithDebounce(20 * time.Millisecond))
	assert.Equal(t, StateIdle, w.State())

	err := w.Start(path, func(p string) {
		seen.Store(p)
		calls.Add(1)
	})
	require.NoError(t, err)

	t.Cleanup(func() { _ = w.Stop() })

	assert.Equal(t, StateWatching, w.State())
	assert.Equal(t, path, w.Path())

	writeFile(t, path, "a: 2\n")

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, waitFor, tick)
	assert.Equal(t, path, seen.Load())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "a: 1\n")

	var calls atomic.Int32

	w := New(WithDebounce(0))
	require.NoError(t, w.Start(path, func(string) { calls.Add(1) }))

	t.Cleanup(func() { _ = w.Stop() })

	writeFile(t, filepath.Join(dir, "other.yaml"), "b: 1\n")

	assert.Never(t, func() bool { return calls.Load() > 0 }, 200*time.Millisecond, tick)
}

func TestWatcher_SeesAtomicReplace(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "a: 1\n")

	var calls atomic.Int32

	w := New(WithDebounce(10 * time.Millisecond))
	require.NoError(t, w.Start(path, func(string) { calls.Add(1) }))

	t.Cleanup(func() { _ = w.Stop() })

	tmp := filepath.Join(dir, ".config.yaml.tmp")
	writeFile(t, tmp, "a: 2\n")
	require.NoError(t, os.Rename(tmp, path))

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, waitFor, tick)
}

func TestWatcher_DebounceCoalescesBursts(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "a: 0\n")

	var calls atomic.Int32

	w := New(WithDebounce(300 * time.Millisecond))
	require.NoError(t, w.Start(path, func(string) { calls.Add(1) }))

	t.Cleanup(func() { _ = w.Stop() })

	for i := range 5 {
		writeFile(t, path, "a: "+string(rune('1'+i))+"\n")
	}

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, waitFor, tick)

	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcher_CoalescesDuringReload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "a: 1\n")

	var (
		calls    atomic.Int32
		inFlight atomic.Int32
		overlap  atomic.Bool
	)

	entered := make(chan struct{})
	release := make(chan struct{})

	w := New(WithDebounce(0))
	require.NoError(t, w.Start(path, func(string) {
		if inFlight.Add(1) > 1 {
			overlap.Store(true)
		}

		defer inFlight.Add(-1)

		if calls.Add(1) == 1 {
			close(entered)
			<-release
		}
	}))

	t.Cleanup(func() { _ = w.Stop() })

	w.mu.Lock()
	sub := w.sub
	w.mu.Unlock()

	sub.enqueue()
	<-entered

	assert.Equal(t, StateReloading, w.State())

	// Two changes arrive while the first reload is still running.
	sub.enqueue()
	sub.enqueue()

	close(release)

	require.Eventually(t, func() bool { return calls.Load() == 2 }, waitFor, tick)
	assert.Never(t, func() bool { return calls.Load() > 2 }, 200*time.Millisecond, tick)
	assert.False(t, overlap.Load())
	assert.Equal(t, StateWatching, w.State())
}

func TestWatcher_StopDoesNotInterruptReload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "a: 1\n")

	var finished atomic.Bool

	entered := make(chan struct{})
	release := make(chan struct{})

	w := New(WithDebounce(0))
	require.NoError(t, w.Start(path, func(string) {
		close(entered)
		<-release
		finished.Store(true)
	}))

	w.mu.Lock()
	sub := w.sub
	w.mu.Unlock()

	sub.enqueue()
	<-entered

	require.NoError(t, w.Stop())
	assert.Equal(t, StateStopped, w.State())
	assert.Empty(t, w.Path())

	select {
	case <-w.Done():
		t.Fatal("done before the in-flight reload finished")
	default:
	}

	close(release)

	select {
	case <-w.Done():
	case <-time.After(waitFor):
		t.Fatal("subscription goroutines did not exit")
	}

	assert.True(t, finished.Load())
	assert.Equal(t, StateStopped, w.State())
}

func TestWatcher_RestartReplacesSubscription(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := filepath.Join(dir, "first.yaml")
	second := filepath.Join(dir, "second.yaml")
	writeFile(t, first, "a: 1\n")
	writeFile(t, second, "a: 1\n")

	var firstCalls, secondCalls atomic.Int32

	w := New(WithDebounce(0))
	require.NoError(t, w.Start(first, func(string) { firstCalls.Add(1) }))

	oldDone := w.Done()

	require.NoError(t, w.Start(second, func(string) { secondCalls.Add(1) }))

	t.Cleanup(func() { _ = w.Stop() })

	select {
	case <-oldDone:
	case <-time.After(waitFor):
		t.Fatal("previous subscription still running")
	}

	writeFile(t, first, "a: 2\n")
	writeFile(t, second, "a: 2\n")

	require.Eventually(t, func() bool { return secondCalls.Load() >= 1 }, waitFor, tick)
	assert.Equal(t, int32(0), firstCalls.Load())
	assert.Equal(t, second, w.Path())
}

func TestWatcher_RestartWaitsForRunningReload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "a: 1\n")

	var (
		calls    atomic.Int32
		inFlight atomic.Int32
		overlap  atomic.Bool
	)

	entered := make(chan struct{})
	release := make(chan struct{})

	handler := func(string) {
		if inFlight.Add(1) > 1 {
			overlap.Store(true)
		}

		defer inFlight.Add(-1)

		if calls.Add(1) == 1 {
			close(entered)
			<-release
		}
	}

	w := New(WithDebounce(0))
	require.NoError(t, w.Start(path, handler))

	t.Cleanup(func() { _ = w.Stop() })

	w.mu.Lock()
	first := w.sub
	w.mu.Unlock()

	first.enqueue()
	<-entered

	require.NoError(t, w.Start(path, handler))
	assert.Equal(t, StateReloading, w.State())

	w.mu.Lock()
	second := w.sub
	w.mu.Unlock()

	require.NotSame(t, first, second)

	second.enqueue()

	assert.Never(t, func() bool { return calls.Load() > 1 }, 200*time.Millisecond, tick)

	close(release)

	require.Eventually(t, func() bool { return calls.Load() == 2 }, waitFor, tick)
	require.Eventually(t, func() bool { return w.State() == StateWatching }, waitFor, tick)
	assert.False(t, overlap.Load())
}

func TestWatcher_StartAfterStop(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "a: 1\n")

	var calls atomic.Int32

	w := New(WithDebounce(0))
	require.NoError(t, w.Start(path, func(string) { calls.Add(1) }))
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop(), "stop is idempotent")

	require.NoError(t, w.Start(path, func(string) { calls.Add(1) }))

	t.Cleanup(func() { _ = w.Stop() })

	assert.Equal(t, StateWatching, w.State())

	writeFile(t, path, "a: 2\n")

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, waitFor, tick)
}

func TestWatcher_RecoversHandlerPanic(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "a: 1\n")

	var calls atomic.Int32

	w := New(WithDebounce(0))
	require.NoError(t, w.Start(path, func(string) {
		if calls.Add(1) == 1 {
			panic("boom")
		}
	}))

	t.Cleanup(func() { _ = w.Stop() })

	w.mu.Lock()
	sub := w.sub
	w.mu.Unlock()

	sub.enqueue()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, waitFor, tick)
	require.Eventually(t, func() bool { return w.State() == StateWatching }, waitFor, tick)

	sub.enqueue()
	require.Eventually(t, func() bool { return calls.Load() == 2 }, waitFor, tick)
}

func TestWatcher_StartMissingDirectory(t *testing.T) {
	t.Parallel()

	w := New()

	err := w.Start(filepath.Join(t.TempDir(), "missing", "config.yaml"), func(string) {})
	require.Error(t, err)
	assert.Equal(t, StateIdle, w.State())
}

func TestWatcher_ReportError(t *testing.T) {
	t.Parallel()

	var got error

	w := New(WithErrorHandler(func(err error) { got = err }))

	errBoom := errors.New("boom")
	w.reportError(errBoom)

	require.ErrorIs(t, got, errBoom)
}

func TestState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "watching", StateWatching.String())
	assert.Equal(t, "reloading", StateReloading.String())
	assert.Equal(t, "stopped", StateStopped.String())
	assert.Equal(t, "state(9)", State(9).String())
}
