// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

import "code.hybscloud.com/kont"

// ExprBody adapts a defunctionalized kont computation to the Body
// interface. Each suspended effect operation is handed to the engine as
// the yielded value, so operations implementing Suspender or Subscriber
// classify accordingly; any other operation resumes with itself.
//
// kont suspensions are affine and carry no resumable throw: a THROW or
// RETURN resumption discards the pending suspension and completes the
// body, errored for THROW.
func ExprBody[R any](m kont.Expr[R]) Body {
	return &exprBody[R]{expr: m}
}

type exprBody[R any] struct {
	expr    kont.Expr[R]
	susp    *kont.Suspension[R]
	started bool
	done    bool
}

func (b *exprBody[R]) Step(v any, kind ResumeKind) StepResult {
	if b.done {
		return StepResult{Done: true}
	}
	if !b.started {
		b.started = true
		r, s := kont.StepExpr(b.expr)
		return b.route(r, s)
	}
	switch kind {
	case ResumeThrow:
		b.susp.Discard()
		b.done = true
		return StepResult{Done: true, Value: v, Errored: true}
	case ResumeReturn:
		b.susp.Discard()
		b.done = true
		return StepResult{Done: true, Value: v}
	default:
		r, s := b.susp.Resume(v)
		return b.route(r, s)
	}
}

func (b *exprBody[R]) route(r R, s *kont.Suspension[R]) StepResult {
	if s == nil {
		b.done = true
		return StepResult{Done: true, Value: r}
	}
	b.susp = s
	return StepResult{Value: s.Op()}
}

// Release implements Releaser: discards a still-pending suspension.
func (b *exprBody[R]) Release() {
	if b.done {
		return
	}
	b.done = true
	if b.susp != nil {
		b.susp.Discard()
	}
}
