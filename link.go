// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

import "log/slog"

// PerformMode controls how a child instance's lifetime relates to the
// parent suspension point it is yielded at.
type PerformMode uint8

const (
	// PerformDefault registers a disposer at the parent's suspension
	// point: disposing of the point cancels the child.
	PerformDefault PerformMode = iota
	// PerformUnlinked registers no disposer; the child's lifetime is fully
	// independent of the parent.
	PerformUnlinked
	// PerformLinked behaves like PerformDefault and additionally expects
	// the caller to yield the child immediately. Failing to do so is a
	// usage warning, not an error.
	PerformLinked
)

// Unlinked marks t to be performed without tying its lifetime to the
// suspension point that awaits it.
func (t *Instance) Unlinked() *Instance {
	t.mode = PerformUnlinked
	return t
}

// Linked marks t as intentionally linked. If t has not been yielded to a
// parent by the next cooperative turn, a warning is emitted.
func (t *Instance) Linked() *Instance {
	t.mode = PerformLinked
	if !t.linkExpected {
		t.linkExpected = true
		t.env.Async(func() {
			if !t.wasLinked && !t.finished {
				slog.Warn("task: Linked instance was not yielded to a parent", "serial", t.serial)
			}
		})
	}
	return t
}

// SuspendTask implements Suspender: yielding a child instance suspends the
// parent until the child finalizes. The child registers a finalize
// callback resuming the parent through the ticketed path: success
// continues with the value, error raises it, and cancellation propagates
// as a cancel signal so the parent's own classification takes over. The
// relationship is these two callback registrations, never shared
// ownership.
//
// Unless the child is unlinked, the returned disposer cancels the child
// when the parent disposes of the suspension point. A child that has not
// been started yet is started.
func (child *Instance) SuspendTask(ctx *YieldContext, ticket Ticket) func() {
	child.wasLinked = true
	// The parent assumes responsibility for the child's outcome, so an
	// error outcome is not additionally reported as uncaught.
	child.deferredRequested = true
	child.OnFinalize(func() {
		switch child.outcome.Kind {
		case OutcomeSuccess:
			ctx.Resume(ticket, ResumeContinue, child.outcome.Value)
		case OutcomeError:
			ctx.Resume(ticket, ResumeThrow, child.outcome.Err)
		case OutcomeCancel:
			ctx.Resume(ticket, ResumeCancelSignal, child.outcome.Err)
		}
	})
	if !child.hasStarted && !child.finished {
		child.Start()
	}
	if child.mode == PerformUnlinked {
		return nil
	}
	return func() {
		child.Cancel("parent suspension disposed")
	}
}
