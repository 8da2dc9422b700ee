package engine

import (
	"context"
	"time"

	"github.com/uiactl/uiactl/internal/model"
)

// WaitFor polls the query until a match appears or the timeout elapses,
// with exponential backoff between polls bounded by the configured min and
// max intervals. A zero timeout performs exactly one immediate attempt.
// Cancellation is honored between polls only; a poll already dispatched to
// the apartment worker runs to completion.
func (e *Engine) WaitFor(ctx context.Context, q model.Query) model.Result {
	c, verr := q.Compile()
	if verr != nil {
		return e.invalid("wait_for", verr, AdviceContext{})
	}
	actx := adviceFor(c, 0)

	timeout := c.Timeout
	if timeout == 0 {
		timeout = e.cfg.DefaultTimeout
	}

	start := time.Now()
	deadline := start.Add(timeout)
	interval := e.cfg.PollMin
	var lastScan []model.Element
	scannedTotal := 0
	polls := 0

	for {
		res := e.Find(ctx, q)
		polls++
		scannedTotal += res.Diagnostics.NodesScanned

		if res.OK && res.Count > 0 {
			res.Action = "wait_for"
			res.Diagnostics.NodesScanned = scannedTotal
			res.Diagnostics.ElapsedMS = time.Since(start).Milliseconds()
			res.Diagnostics.DurationMS = res.Diagnostics.ElapsedMS
			return res
		}
		if !res.OK && res.Error != model.ErrElementNotFound && res.Error != model.ErrWindowNotFound {
			// Only "not there yet" outcomes are worth polling through;
			// anything else (invalid parameters, internal failures) is
			// final immediately.
			res.Action = "wait_for"
			res.Diagnostics.ElapsedMS = time.Since(start).Milliseconds()
			return res
		}
		lastScan = res.Elements

		if timeout == 0 || !time.Now().Add(interval).Before(deadline) {
			// One immediate attempt for zero timeout; otherwise stop once
			// the next poll cannot start before the deadline.
			remaining := time.Until(deadline)
			if timeout != 0 && remaining > 0 {
				select {
				case <-ctx.Done():
				case <-time.After(remaining):
				}
			}
			break
		}

		select {
		case <-ctx.Done():
			out := e.failure("wait_for", model.Result{}, ctx.Err(), actx)
			out.Diagnostics.NodesScanned = scannedTotal
			out.Diagnostics.ElapsedMS = time.Since(start).Milliseconds()
			return out
		case <-time.After(interval):
		}

		interval *= 2
		if interval > e.cfg.PollMax {
			interval = e.cfg.PollMax
		}
	}

	elapsed := time.Since(start)
	out := e.failure("wait_for", model.Result{}, model.E(model.ErrTimeout,
		"no element matching %s appeared within %s (%d polls)", c.Describe(), timeout, polls),
		AdviceContext{Query: c.Describe(), TimeoutMS: timeout.Milliseconds()})
	// The last scan ships with the timeout so callers can see what was
	// actually on screen.
	out.Elements = lastScan
	out.Count = len(lastScan)
	out.Diagnostics.NodesScanned = scannedTotal
	out.Diagnostics.ElapsedMS = elapsed.Milliseconds()
	out.Diagnostics.DurationMS = elapsed.Milliseconds()
	return out
}
