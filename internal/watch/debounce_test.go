package watch

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	values []string
	ch     chan string
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan string, 16)}
}

func (r *recorder) record(v string) {
	r.mu.Lock()
	r.values = append(r.values, v)
	r.mu.Unlock()
	r.ch <- v
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.values...)
}

func TestDebouncerDeliversLatestOnly(t *testing.T) {
	rec := newRecorder()
	d := NewDebouncer(40*time.Millisecond, rec.record)
	t.Cleanup(d.Stop)

	d.Trigger("a")
	d.Trigger("ab")
	d.Trigger("abc")

	select {
	case v := <-rec.ch:
		assert.Equal(t, "abc", v)
	case <-time.After(2 * time.Second):
		t.Fatalf("debouncer did not fire")
	}
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, []string{"abc"}, rec.snapshot())
}

func TestDebouncerSeparateBursts(t *testing.T) {
	rec := newRecorder()
	d := NewDebouncer(20*time.Millisecond, rec.record)
	t.Cleanup(d.Stop)

	d.Trigger("first")
	require.Equal(t, "first", waitValue(t, rec))
	d.Trigger("second")
	require.Equal(t, "second", waitValue(t, rec))
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	rec := newRecorder()
	d := NewDebouncer(30*time.Millisecond, rec.record)

	d.Trigger("never")
	d.Stop()
	d.Trigger("ignored")
	time.Sleep(120 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestDebouncerStopWaitsForRunningDelivery(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var delivered sync.WaitGroup
	delivered.Add(1)
	d := NewDebouncer(10*time.Millisecond, func(string) {
		close(started)
		<-release
		delivered.Done()
	})

	d.Trigger("slow")
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatalf("debouncer did not fire")
	}

	stopped := make(chan struct{})
	go func() {
		d.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatalf("Stop returned while a delivery was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatalf("Stop did not return after the delivery finished")
	}
	// The delivery completed before Stop returned.
	delivered.Wait()
}

func TestDebouncerDefaultDelay(t *testing.T) {
	d := NewDebouncer(0, func(string) {})
	assert.Equal(t, DefaultDebounce, d.delay)
}

func waitValue(t *testing.T, rec *recorder) string {
	t.Helper()
	select {
	case v := <-rec.ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for debounced value")
	}
	return ""
}
