package dispatcher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uiactl/uiactl/internal/model"
)

func TestNew_InitFailureIsFatal(t *testing.T) {
	d, err := New(func() error { return errors.New("no apartment") }, nil)
	require.Error(t, err)
	assert.Nil(t, d)
	assert.Contains(t, err.Error(), "no apartment")
}

func TestSubmit_FIFOOrder(t *testing.T) {
	d, err := New(nil, nil)
	require.NoError(t, err)
	defer d.Close()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup

	// Block the worker so subsequent submissions stack up in queue order.
	gate := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = Submit(context.Background(), d, func() (int, error) {
			<-gate
			return 0, nil
		})
	}()
	time.Sleep(20 * time.Millisecond)

	for i := 1; i <= 5; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = Submit(context.Background(), d, func() (int, error) {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				return i, nil
			})
		}()
		// Stagger submissions so queue order is deterministic.
		time.Sleep(10 * time.Millisecond)
	}

	close(gate)
	wg.Wait()

	assert.Equal(t, []int{1, 2, 3, 4, 5}, order)
}

func TestSubmit_PanicBecomesInternalErrorAndWorkerSurvives(t *testing.T) {
	d, err := New(nil, nil)
	require.NoError(t, err)
	defer d.Close()

	_, err = Submit(context.Background(), d, func() (int, error) {
		panic("backend exploded")
	})
	require.Error(t, err)
	var e *model.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, model.ErrInternal, e.Kind)
	assert.Contains(t, e.Message, "backend exploded")

	// The worker must keep serving after a panic.
	v, err := Submit(context.Background(), d, func() (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestSubmit_PendingJobCancelledBeforeStart(t *testing.T) {
	d, err := New(nil, nil)
	require.NoError(t, err)
	defer d.Close()

	gate := make(chan struct{})
	go func() {
		_, _ = Submit(context.Background(), d, func() (int, error) {
			<-gate
			return 0, nil
		})
	}()
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	ran := false
	done := make(chan error, 1)
	go func() {
		_, err := Submit(ctx, d, func() (int, error) {
			ran = true
			return 0, nil
		})
		done <- err
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	close(gate)

	err = <-done
	require.ErrorIs(t, err, context.Canceled)

	// Give the worker a beat to drain the queue, then confirm the cancelled
	// job was skipped entirely.
	_, _ = Submit(context.Background(), d, func() (int, error) { return 0, nil })
	assert.False(t, ran, "cancelled pending job must not run")
}

func TestSubmit_StartedJobRunsToCompletion(t *testing.T) {
	d, err := New(nil, nil)
	require.NoError(t, err)
	defer d.Close()

	started := make(chan struct{})
	finished := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		_, _ = Submit(ctx, d, func() (int, error) {
			close(started)
			time.Sleep(50 * time.Millisecond)
			close(finished)
			return 0, nil
		})
	}()

	<-started
	cancel() // caller gives up; the in-flight call still completes

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("in-flight operation did not run to completion")
	}
}

func TestClose_ReleasesQueuedSubmitters(t *testing.T) {
	d, err := New(nil, nil)
	require.NoError(t, err)

	// Hold the worker in an in-flight job so submissions pile up queued.
	gate := make(chan struct{})
	started := make(chan struct{})
	inFlight := make(chan error, 1)
	go func() {
		_, err := Submit(context.Background(), d, func() (int, error) {
			close(started)
			<-gate
			return 0, nil
		})
		inFlight <- err
	}()
	<-started

	const queued = 20
	var ran atomic.Int32
	errs := make(chan error, queued)
	for i := 0; i < queued; i++ {
		go func() {
			_, err := Submit(context.Background(), d, func() (int, error) {
				ran.Add(1)
				return 0, nil
			})
			errs <- err
		}()
	}
	time.Sleep(50 * time.Millisecond)

	closed := make(chan struct{})
	go func() {
		d.Close()
		close(closed)
	}()
	time.Sleep(20 * time.Millisecond)
	close(gate) // let the in-flight job finish so shutdown can proceed

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close did not return")
	}

	// The in-flight job completes normally; every queued submitter gets a
	// shutdown error instead of blocking forever.
	require.NoError(t, <-inFlight)
	for i := 0; i < queued; i++ {
		select {
		case err := <-errs:
			require.Error(t, err)
			var e *model.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, model.ErrInternal, e.Kind)
			assert.Contains(t, e.Message, "shut down")
		case <-time.After(time.Second):
			t.Fatalf("submitter %d still blocked after Close", i)
		}
	}
	assert.Equal(t, int32(0), ran.Load(), "queued jobs must not run once shutdown is observed")

	// Submissions after Close fail fast with the same error.
	_, err = Submit(context.Background(), d, func() (int, error) { return 0, nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shut down")
}

func TestNew_InitRunsOnWorkerThread(t *testing.T) {
	inited := false
	d, err := New(func() error { inited = true; return nil }, nil)
	require.NoError(t, err)
	defer d.Close()
	assert.True(t, inited)
}
