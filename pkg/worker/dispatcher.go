// Package worker runs best-effort background tasks on a bounded goroutine pool.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

var (
	// ErrQueueFull is reported to the failure hook when every worker is busy.
	ErrQueueFull = ants.ErrPoolOverload
	// ErrStopped is reported when a task is submitted after Stop.
	ErrStopped = ants.ErrPoolClosed
	// ErrPanicked is reported when a task panics.
	ErrPanicked = errors.New("task panicked")
)

type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// FailureFunc observes every failed or dropped task. It must not block.
type FailureFunc func(task Task, err error)

// Dispatcher executes submitted tasks on an ants pool of fixed size.
// Submit never blocks; when the pool is saturated the task is dropped and reported.
type Dispatcher struct {
	pool      *ants.Pool
	timeout   time.Duration
	onFailure FailureFunc
	log       *zap.Logger
	stopOnce  sync.Once
}

func NewDispatcher(size int, timeout time.Duration, onFailure FailureFunc, log *zap.Logger) (*Dispatcher, error) {
	if size < 1 {
		size = 1
	}

	d := &Dispatcher{
		timeout:   timeout,
		onFailure: onFailure,
		log:       log.With(zap.String("component", "dispatcher")),
	}

	pool, err := ants.NewPool(size,
		ants.WithNonblocking(true),
		ants.WithPanicHandler(d.recovered),
		ants.WithLogger(poolLogger{d.log}),
	)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	d.pool = pool

	d.log.Info("Dispatcher started", zap.Int("size", size))
	return d, nil
}

func (d *Dispatcher) Submit(task Task) {
	err := d.pool.Submit(func() {
		d.run(task)
	})
	if err != nil {
		d.fail(task, err)
	}
}

// Stop waits up to grace for running tasks and releases the pool.
func (d *Dispatcher) Stop(grace time.Duration) {
	d.stopOnce.Do(func() {
		if err := d.pool.ReleaseTimeout(grace); err != nil {
			d.log.Warn("Dispatcher stopped with tasks still running", zap.Error(err))
			return
		}
		d.log.Info("Dispatcher stopped")
	})
}

func (d *Dispatcher) run(task Task) {
	ctx := context.Background()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	// tag the panic so the pool's handler can report the task
	defer func() {
		if r := recover(); r != nil {
			panic(taskPanic{task: task, value: r})
		}
	}()

	if err := task.Run(ctx); err != nil {
		d.fail(task, err)
	}
}

type taskPanic struct {
	task  Task
	value any
}

// recovered is the pool's panic handler.
func (d *Dispatcher) recovered(p any) {
	task := Task{Name: "unknown"}
	if tp, ok := p.(taskPanic); ok {
		task, p = tp.task, tp.value
	}
	d.log.Error("Task panicked", zap.String("task", task.Name), zap.Any("panic", p))
	d.fail(task, ErrPanicked)
}

func (d *Dispatcher) fail(task Task, err error) {
	d.log.Warn("Background task failed", zap.String("task", task.Name), zap.Error(err))
	if d.onFailure != nil {
		d.onFailure(task, err)
	}
}

// poolLogger routes ants' internal messages through zap.
type poolLogger struct {
	log *zap.Logger
}

func (l poolLogger) Printf(format string, args ...any) {
	l.log.Warn(fmt.Sprintf(format, args...))
}
