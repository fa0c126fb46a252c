// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

import "log/slog"

// returnSentinel is the private value carried by a forced RETURN during
// cancellation. The body observes termination, never a real return value.
type returnSentinel struct{}

// Instance is one run of a cancellable, suspendable unit of work. It owns
// the resumption index, pending disposers, finalize callbacks, and the
// terminal outcome, and drives its Body to exactly one outcome.
//
// All methods must be called on the environment's cooperative goroutine;
// external completions reach it through Loop.Post.
type Instance struct {
	serial Serial
	env    Environment
	deleg  Delegate
	body   Body
	mode   PerformMode

	index       Ticket
	cancelReq   *CancelRequest
	disposers   []func()
	finalizeCbs []func()

	hasStarted bool
	finished   bool
	outcome    Outcome

	deferred          *Deferred
	deferredRequested bool

	linkExpected bool
	wasLinked    bool
}

// New creates an instance for body. deleg may be nil for a no-op delegate.
func New(env Environment, deleg Delegate, body Body) *Instance {
	if deleg == nil {
		deleg = NopDelegate{}
	}
	return &Instance{
		serial: nextSerial(),
		env:    env,
		deleg:  deleg,
		body:   body,
		index:  1,
	}
}

// Perform creates and immediately starts an instance.
func Perform(env Environment, deleg Delegate, body Body) *Instance {
	return New(env, deleg, body).Start()
}

// Serial returns the serial number assigned to this instance.
func (t *Instance) Serial() Serial {
	return t.serial
}

// Outcome returns the terminal outcome. Kind is OutcomePending until the
// instance finalizes.
func (t *Instance) Outcome() Outcome {
	return t.outcome
}

// State returns the current host-visible snapshot.
func (t *Instance) State() State {
	return t.snapshot()
}

// Start begins execution. The first step runs synchronously up to the
// first suspension point; re-entries from suspension points are always
// deferred through the environment. Start again, or after finalize, is a
// no-op: the body is never stepped twice from the beginning.
func (t *Instance) Start() *Instance {
	if t.hasStarted || t.finished {
		return t
	}
	t.hasStarted = true
	t.deleg.SetState(t.snapshot())
	t.deleg.OnStarted()
	t.proceedSync(ResumeContinue, nil)
	return t
}

// Cancel requests cancellation with an optional reason. Only the first
// request on a live instance is accepted. A started instance is resumed
// with a forced RETURN so structural cleanup runs; an unstarted one
// finalizes immediately without ever stepping the body.
func (t *Instance) Cancel(reason any) {
	if !t.requestCancel(&CancelRequest{Kind: CancelExplicit, Reason: reason}) {
		return
	}
	if !t.hasStarted {
		t.finalizeWithCancel()
		return
	}
	// Invalidate the outstanding suspension point before forcing RETURN.
	t.index++
	t.proceedAsync(ResumeReturn, returnSentinel{})
}

// OnFinalize registers cb to run exactly once at finalize, after the
// terminal outcome is recorded. On an already-finalized instance cb runs
// synchronously.
func (t *Instance) OnFinalize(cb func()) {
	if t.finished {
		cb()
		return
	}
	t.finalizeCbs = append(t.finalizeCbs, cb)
}

// Result lazily creates the deferred result for this instance. Requesting
// it marks an error outcome as observed, suppressing the uncaught
// rejection report.
func (t *Instance) Result() *Deferred {
	if t.deferred == nil {
		t.deferred = t.env.Defer()
		t.deferredRequested = true
		if t.finished {
			t.settleDeferred()
		}
	}
	return t.deferred
}

// requestCancel stores the request iff none exists and the instance is
// live. Reports acceptance.
func (t *Instance) requestCancel(r *CancelRequest) bool {
	if t.cancelReq != nil || t.finished {
		return false
	}
	t.cancelReq = r
	return true
}

// advanceIndex honors ticket iff it is current, incrementing the index.
// The index only increases; the engine never moves backward.
func (t *Instance) advanceIndex(ticket Ticket) bool {
	if ticket != t.index {
		return false
	}
	t.index++
	return true
}

// proceedChecked is the ticket-validated re-entry used by every external
// resumption source: a settling subscription, a custom suspension handler
// firing, a child finalizing. Duplicate and stale resumptions are dropped.
func (t *Instance) proceedChecked(ticket Ticket, kind ResumeKind, v any) {
	if t.finished {
		return
	}
	if !t.advanceIndex(ticket) {
		return
	}
	if kind == ResumeCancelSignal {
		// The yielded value demands cancellation of the whole instance.
		t.requestCancel(&CancelRequest{Kind: CancelPropagated, Reason: v})
		t.proceedAsync(ResumeReturn, returnSentinel{})
		return
	}
	t.proceedAsync(kind, v)
}

// proceedAsync defers one step through the environment so a step never
// re-enters synchronously within another step.
func (t *Instance) proceedAsync(kind ResumeKind, v any) {
	t.env.Async(func() {
		t.proceedSync(kind, v)
	})
}

// proceedSync drains the disposers of the most recent suspension point and
// takes one step of the body. No-op once finished.
func (t *Instance) proceedSync(kind ResumeKind, v any) {
	if t.finished {
		return
	}
	t.drainDisposers()
	t.stepBody(kind, v)
}

// stepBody advances the body once and routes the result: completion
// finalizes, a yielded value is classified. A panic escaping the body
// finalizes as error.
func (t *Instance) stepBody(kind ResumeKind, v any) {
	res, perr := t.safeStep(kind, v)
	if perr != nil {
		t.finalize(perr, true)
		return
	}
	if res.Done {
		t.finalize(res.Value, res.Errored)
		return
	}
	t.handleYield(res.Value)
}

func (t *Instance) safeStep(kind ResumeKind, v any) (res StepResult, perr error) {
	defer func() {
		if p := recover(); p != nil {
			perr = toError(p)
		}
	}()
	res = t.body.Step(v, kind)
	return res, nil
}

// handleYield classifies one produced value and arranges the resumption of
// the suspension point it opens. The attached disposer, if any, is
// captured regardless of classification.
func (t *Instance) handleYield(v any) {
	ticket := t.index
	if d, ok := v.(Disposable); ok {
		if f := d.TaskDisposer(); f != nil {
			t.disposers = append(t.disposers, f)
		}
	}
	c := classify(v)
	switch c.kind {
	case yieldRaw:
		t.proceedChecked(ticket, ResumeContinue, c.raw.Value)
	case yieldSuspend:
		t.invokeSuspender(c.susp, ticket)
	case yieldSubscribe:
		c.sub.Subscribe(
			func(val any) { t.proceedChecked(ticket, ResumeContinue, val) },
			func(err error) { t.proceedChecked(ticket, ResumeThrow, err) },
		)
	default:
		t.proceedChecked(ticket, ResumeContinue, v)
	}
}

// invokeSuspender runs a custom suspension handler synchronously. A panic
// in the handler signals a host integration defect: it is reported on the
// uncaught channel and never raised into the body.
func (t *Instance) invokeSuspender(s Suspender, ticket Ticket) {
	defer func() {
		if p := recover(); p != nil {
			t.env.ReportUncaughtRejection(toError(p))
		}
	}()
	ctx := &YieldContext{instance: t, host: t.deleg.YieldContext()}
	if f := s.SuspendTask(ctx, ticket); f != nil {
		t.disposers = append(t.disposers, f)
	}
}

// drainDisposers runs and clears the disposers of the most recent
// suspension point, in registration order.
func (t *Instance) drainDisposers() {
	ds := t.disposers
	t.disposers = nil
	for _, d := range ds {
		d()
	}
}

// finalize records a natural completion. A pending cancellation request
// always pre-empts it, regardless of what the body produced.
func (t *Instance) finalize(v any, errored bool) {
	if t.cancelReq != nil {
		t.finalizeWithCancel()
		return
	}
	if errored {
		t.finalizeShared(Outcome{Kind: OutcomeError, Err: toError(v)})
		return
	}
	t.finalizeShared(Outcome{Kind: OutcomeSuccess, Value: v})
}

// finalizeWithCancel builds the distinguished cancellation error from the
// stored request and finalizes with a cancel outcome.
func (t *Instance) finalizeWithCancel() {
	reason := t.deleg.FormatCancelReason(t.cancelReq.Reason)
	err := &CancelError{Reason: reason}
	if t.env.DebuggingEnabled() {
		slog.Debug("task: instance canceled", "serial", t.serial, "reason", reason)
	}
	t.finalizeShared(Outcome{Kind: OutcomeCancel, Err: err})
}

// finalizeShared delivers the terminal outcome exactly once: it
// permanently invalidates late tickets, drains disposers, releases the
// body, runs finalize callbacks in registration order, notifies the
// delegate, settles the deferred result, and arranges uncaught reporting
// for unobserved errors.
func (t *Instance) finalizeShared(o Outcome) {
	if t.finished {
		return
	}
	t.index++
	t.finished = true
	t.outcome = o
	t.drainDisposers()
	if r, ok := t.body.(Releaser); ok {
		r.Release()
	}
	cbs := t.finalizeCbs
	t.finalizeCbs = nil
	for _, cb := range cbs {
		cb()
	}
	t.deleg.SetState(t.snapshot())
	switch o.Kind {
	case OutcomeSuccess:
		t.deleg.OnSuccess()
	case OutcomeError:
		t.deleg.OnError(o.Err)
	case OutcomeCancel:
		reason := o.Err.Error()
		if ce, ok := o.Err.(*CancelError); ok {
			reason = ce.Reason
		}
		t.deleg.OnCancel(reason)
	}
	t.settleDeferred()
	if o.Kind == OutcomeError && !t.deferredRequested {
		// Surface the error on a later turn unless a consumer requests the
		// deferred result within the current one.
		t.env.Async(func() {
			if !t.deferredRequested {
				t.env.ReportUncaughtRejection(o.Err)
			}
		})
	}
}

// settleDeferred resolves or rejects the deferred result, if requested.
func (t *Instance) settleDeferred() {
	if t.deferred == nil {
		return
	}
	switch t.outcome.Kind {
	case OutcomeSuccess:
		t.deferred.Resolve(t.outcome.Value)
	case OutcomeError, OutcomeCancel:
		t.deferred.Reject(t.outcome.Err)
	}
}

func (t *Instance) snapshot() State {
	return State{
		HasStarted:   t.hasStarted,
		IsFinished:   t.finished,
		IsSuccessful: t.outcome.Kind == OutcomeSuccess,
		IsError:      t.outcome.Kind == OutcomeError,
		IsCanceled:   t.outcome.Kind == OutcomeCancel,
		Value:        t.outcome.Value,
		Err:          t.outcome.Err,
	}
}
