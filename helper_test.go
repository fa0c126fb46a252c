// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task_test

import (
	"errors"

	"code.hybscloud.com/task"
)

var errTest = errors.New("test error")

// recorder captures delegate callbacks for assertions.
type recorder struct {
	task.NopDelegate
	events  []string
	errs    []error
	reasons []string
	states  []task.State
	host    any
}

func (r *recorder) SetState(s task.State) { r.states = append(r.states, s) }
func (r *recorder) OnStarted()            { r.events = append(r.events, "started") }
func (r *recorder) OnSuccess()            { r.events = append(r.events, "success") }

func (r *recorder) OnError(err error) {
	r.events = append(r.events, "error")
	r.errs = append(r.errs, err)
}

func (r *recorder) OnCancel(reason string) {
	r.events = append(r.events, "cancel")
	r.reasons = append(r.reasons, reason)
}

func (r *recorder) YieldContext() any { return r.host }

// scriptBody yields each value in sequence, then completes with ret.
// It records every resumption it observes. THROW completes errored with
// the raised value (no local recovery); RETURN completes with the forced
// value.
type scriptBody struct {
	yields []any
	ret    any
	// retLast completes with the last resume value instead of ret.
	retLast bool

	i     int
	steps int
	kinds []task.ResumeKind
	seen  []any
}

func (b *scriptBody) Step(v any, kind task.ResumeKind) task.StepResult {
	b.steps++
	b.kinds = append(b.kinds, kind)
	b.seen = append(b.seen, v)
	switch kind {
	case task.ResumeThrow:
		return task.StepResult{Done: true, Value: v, Errored: true}
	case task.ResumeReturn:
		return task.StepResult{Done: true, Value: v}
	}
	if b.i < len(b.yields) {
		out := b.yields[b.i]
		b.i++
		return task.StepResult{Value: out}
	}
	if b.retLast {
		return task.StepResult{Done: true, Value: v}
	}
	return task.StepResult{Done: true, Value: b.ret}
}

// capture is a Suspender recording its invocation; it resumes nothing on
// its own, leaving the instance parked until the test drives it.
type capture struct {
	calls    int
	ctx      *task.YieldContext
	ticket   task.Ticket
	disposer func()
}

func (c *capture) SuspendTask(ctx *task.YieldContext, ticket task.Ticket) func() {
	c.calls++
	c.ctx = ctx
	c.ticket = ticket
	return c.disposer
}

// funcSub is a Subscriber invoking a fixed settlement at subscribe time.
type funcSub struct {
	calls   int
	resolve any
	reject  error
}

func (s *funcSub) Subscribe(onResolve func(any), onReject func(error)) {
	s.calls++
	if s.reject != nil {
		onReject(s.reject)
		return
	}
	onResolve(s.resolve)
}

// withDisposer carries only an attached disposer; it classifies plain.
type withDisposer struct {
	value    any
	disposer func()
}

func (w withDisposer) TaskDisposer() func() { return w.disposer }
