package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failures struct {
	mu    sync.Mutex
	errs  []error
	tasks []string
}

func (f *failures) record(task Task, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = append(f.errs, err)
	f.tasks = append(f.tasks, task.Name)
}

func (f *failures) all() []error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]error(nil), f.errs...)
}

func (f *failures) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.tasks...)
}

func newDispatcher(t *testing.T, size int, timeout time.Duration, f *failures) *Dispatcher {
	t.Helper()
	var onFailure FailureFunc
	if f != nil {
		onFailure = f.record
	}
	d, err := NewDispatcher(size, timeout, onFailure, zap.NewNop())
	require.NoError(t, err)
	return d
}

func TestDispatcher_RunsTasks(t *testing.T) {
	var ran atomic.Int32
	d := newDispatcher(t, 10, time.Second, nil)

	for i := 0; i < 5; i++ {
		d.Submit(Task{Name: "count", Run: func(ctx context.Context) error {
			ran.Add(1)
			return nil
		}})
	}
	d.Stop(time.Second)

	assert.Equal(t, int32(5), ran.Load())
}

func TestDispatcher_ReportsFailuresAndPanics(t *testing.T) {
	f := &failures{}
	d := newDispatcher(t, 10, time.Second, f)

	d.Submit(Task{Name: "fails", Run: func(ctx context.Context) error { return errors.New("boom") }})
	d.Submit(Task{Name: "panics", Run: func(ctx context.Context) error { panic("oops") }})
	d.Submit(Task{Name: "ok", Run: func(ctx context.Context) error { return nil }})

	require.Eventually(t, func() bool { return len(f.all()) == 2 }, time.Second, 5*time.Millisecond)
	d.Stop(time.Second)

	errs := f.all()
	assert.Len(t, errs, 2)
	assert.ElementsMatch(t, []string{"fails", "panics"}, f.names())

	var sawBoom, sawPanic bool
	for _, err := range errs {
		sawBoom = sawBoom || err.Error() == "boom"
		sawPanic = sawPanic || errors.Is(err, ErrPanicked)
	}
	assert.True(t, sawBoom)
	assert.True(t, sawPanic)
}

func TestDispatcher_DropsWhenPoolSaturated(t *testing.T) {
	f := &failures{}
	d := newDispatcher(t, 1, time.Second, f)

	release := make(chan struct{})
	started := make(chan struct{})
	d.Submit(Task{Name: "blocker", Run: func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	}})
	<-started

	d.Submit(Task{Name: "dropped", Run: func(ctx context.Context) error { return nil }})

	errs := f.all()
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrQueueFull)
	assert.Equal(t, []string{"dropped"}, f.names())

	close(release)
	d.Stop(time.Second)
}

func TestDispatcher_SubmitAfterStop(t *testing.T) {
	f := &failures{}
	d := newDispatcher(t, 1, time.Second, f)
	d.Stop(time.Second)
	d.Stop(time.Second)

	d.Submit(Task{Name: "late", Run: func(ctx context.Context) error { return nil }})

	errs := f.all()
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrStopped)
}

func TestDispatcher_TaskContextHasTimeout(t *testing.T) {
	f := &failures{}
	d := newDispatcher(t, 1, 20*time.Millisecond, f)

	d.Submit(Task{Name: "slow", Run: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}})

	require.Eventually(t, func() bool { return len(f.all()) == 1 }, time.Second, 5*time.Millisecond)
	d.Stop(time.Second)

	assert.ErrorIs(t, f.all()[0], context.DeadlineExceeded)
}
