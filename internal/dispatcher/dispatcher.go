// Package dispatcher serializes all automation-backend calls onto one
// dedicated OS thread. The backend requires every call to originate from a
// single apartment-affine execution context; this queue is that constraint
// made explicit, not a throughput choice.
package dispatcher

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/uiactl/uiactl/internal/model"
)

type job struct {
	ctx  context.Context
	run  func() error
	done chan error
}

// Dispatcher owns the worker thread. Submissions queue FIFO; a pending job
// whose context is cancelled before the worker reaches it is skipped, but a
// job that has started always runs to completion.
type Dispatcher struct {
	jobs      chan *job
	closeOnce sync.Once
	closed    chan struct{}
	drained   chan struct{}
}

// New starts the worker. init runs first on the locked thread (backend
// apartment initialization); if it fails, New fails; a process without a
// working apartment is not worth starting. teardown runs on the same thread
// when the dispatcher is closed.
func New(init func() error, teardown func()) (*Dispatcher, error) {
	d := &Dispatcher{
		jobs:    make(chan *job, 64),
		closed:  make(chan struct{}),
		drained: make(chan struct{}),
	}

	initErr := make(chan error, 1)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		if init != nil {
			if err := init(); err != nil {
				initErr <- err
				close(d.drained)
				return
			}
		}
		initErr <- nil

		defer close(d.drained)
		if teardown != nil {
			defer teardown()
		}

		for {
			// Check closed first so an observed shutdown always wins over
			// queued work; a plain two-way select picks at random.
			select {
			case <-d.closed:
				d.failQueued()
				return
			default:
			}
			select {
			case <-d.closed:
				d.failQueued()
				return
			case j := <-d.jobs:
				d.execute(j)
			}
		}
	}()

	if err := <-initErr; err != nil {
		return nil, fmt.Errorf("apartment worker init: %w", err)
	}
	return d, nil
}

// execute runs one job, converting panics into internal_error so a single
// misbehaving operation cannot take the worker down with it.
func (d *Dispatcher) execute(j *job) {
	// Cancelled while queued: skip without running.
	if err := j.ctx.Err(); err != nil {
		j.done <- err
		return
	}
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = model.E(model.ErrInternal, "operation panicked: %v", r)
			}
		}()
		err = j.run()
	}()
	j.done <- err
}

// failQueued fails every job still queued at shutdown so its submitter is
// released rather than stranded.
func (d *Dispatcher) failQueued() {
	for {
		select {
		case j := <-d.jobs:
			j.done <- errShutDown()
		default:
			return
		}
	}
}

func errShutDown() error {
	return model.E(model.ErrInternal, "dispatcher is shut down")
}

// Close stops the worker after the job in flight, if any, completes.
// Remaining queued jobs fail with a shutdown error instead of running.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() { close(d.closed) })
	<-d.drained
}

// Submit queues fn and waits for its result. The context only covers the
// queued phase and the caller's willingness to wait: once the worker starts
// fn, it runs to completion even if the caller has given up, in which case
// the result is discarded.
func Submit[T any](ctx context.Context, d *Dispatcher, fn func() (T, error)) (T, error) {
	var zero T
	type result struct {
		v   T
		err error
	}
	res := make(chan result, 1)

	j := &job{
		ctx:  ctx,
		done: make(chan error, 1),
		run: func() error {
			v, err := fn()
			res <- result{v, err}
			return err
		},
	}

	select {
	case d.jobs <- j:
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-d.closed:
		return zero, errShutDown()
	}

	finish := func(err error) (T, error) {
		select {
		case r := <-res:
			return r.v, err
		default:
			// Skipped while queued: fn never ran.
			return zero, err
		}
	}

	select {
	case err := <-j.done:
		return finish(err)
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-d.drained:
		// The worker is gone. A reply may still have raced in; prefer it
		// over reporting shutdown.
		select {
		case err := <-j.done:
			return finish(err)
		default:
			return zero, errShutDown()
		}
	}
}
