// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

// Ticket is the resumption index captured at a suspension point. A
// resumption presenting a stale ticket is silently dropped, so at most one
// resumption per suspension point is ever honored.
type Ticket = uint64

// Raw marks a value that must be delivered to the body verbatim, never
// reinterpreted by yield classification even if it structurally matches
// the suspension or subscription protocols.
type Raw struct {
	Value any
}

// Suspender is the reserved custom-suspension marker. SuspendTask is
// invoked synchronously at the suspension point with the yield context and
// the current ticket; a non-nil return is captured as a disposer for that
// suspension point. A panic inside SuspendTask is reported through the
// environment's uncaught channel, never raised into the body.
type Suspender interface {
	SuspendTask(ctx *YieldContext, ticket Ticket) func()
}

// Subscriber is the continuation-subscription protocol: a future-like
// value accepting success and failure callbacks. Success resumes the body
// with the value, failure raises the error at the suspension point, both
// through the ticketed resumption path.
type Subscriber interface {
	Subscribe(onResolve func(v any), onReject func(err error))
}

// Disposable attaches a cleanup callback to a yielded value, captured for
// the suspension point independent of how the value classifies.
type Disposable interface {
	TaskDisposer() func()
}

// YieldContext is handed to Suspender handlers. It carries the ticketed
// re-entry path into the yielding instance plus the host object supplied
// by the instance's delegate.
type YieldContext struct {
	instance *Instance
	host     any
}

// Resume re-enters the yielding instance. Honored only while ticket is
// current; stale resumptions are no-ops.
func (c *YieldContext) Resume(ticket Ticket, kind ResumeKind, v any) {
	c.instance.proceedChecked(ticket, kind, v)
}

// Host returns the delegate-supplied context object.
func (c *YieldContext) Host() any {
	return c.host
}

// Environment returns the environment of the yielding instance.
func (c *YieldContext) Environment() Environment {
	return c.instance.env
}

// yieldKind is the closed classification of a yielded value.
type yieldKind uint8

const (
	yieldPlain yieldKind = iota
	yieldRaw
	yieldSuspend
	yieldSubscribe
)

// classification is the decision for one yielded value.
type classification struct {
	kind yieldKind
	raw  Raw
	susp Suspender
	sub  Subscriber
}

// classify decides, once per yielded value, which resumption strategy
// applies. Tie-break order: absent, raw wrapper, custom suspension,
// subscription, plain.
func classify(v any) classification {
	if v == nil {
		return classification{kind: yieldPlain}
	}
	if r, ok := v.(Raw); ok {
		return classification{kind: yieldRaw, raw: r}
	}
	if s, ok := v.(Suspender); ok {
		return classification{kind: yieldSuspend, susp: s}
	}
	if s, ok := v.(Subscriber); ok {
		return classification{kind: yieldSubscribe, sub: s}
	}
	return classification{kind: yieldPlain}
}
