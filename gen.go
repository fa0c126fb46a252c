// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

import (
	"errors"

	"github.com/webriots/coro"
)

// Yielder is passed to Gen bodies. Yield suspends the body, handing v to
// the engine for classification, and returns the resumption: the resume
// value on CONTINUE, an error on THROW. A forced RETURN unwinds the body
// through its deferred cleanup without returning from Yield.
type Yielder struct {
	yield func(genOut) genIn
}

// Yield suspends the body with v.
func (y *Yielder) Yield(v any) (any, error) {
	in := y.yield(genOut{value: v})
	switch in.kind {
	case ResumeThrow:
		return nil, toError(in.value)
	case ResumeReturn:
		panic(forcedReturn{value: in.value})
	default:
		return in.value, nil
	}
}

// forcedReturn unwinds a Gen body on a RETURN resumption. Recovered by the
// body wrapper after the body's defers have run; user code must not
// recover it.
type forcedReturn struct {
	value any
}

type genIn struct {
	value any
	kind  ResumeKind
}

type genOut struct {
	value any
	err   error
}

type genBody struct {
	resume func(genIn) (genOut, bool)
	cancel func()
	done   bool
}

// Gen builds a Body from fn running on a goroutine-backed coroutine. The
// body suspends with Yielder.Yield and completes by returning. A THROW
// resumption surfaces as Yield's error return, so the body handles it like
// any other error; a RETURN resumption unwinds fn through its defers and
// completes with the forced value.
func Gen(fn func(y *Yielder) (any, error)) Body {
	b := &genBody{}
	b.resume, b.cancel = coro.New[genIn, genOut](func(yield func(genOut) genIn, _ func() genIn) genOut {
		return runGen(fn, &Yielder{yield: yield})
	})
	return b
}

// runGen runs fn, converting a forcedReturn unwind into normal completion
// and a coroutine-cancel unwind into an errored one. Other panics
// propagate to the resume caller.
func runGen(fn func(y *Yielder) (any, error), y *Yielder) (out genOut) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if fr, ok := p.(forcedReturn); ok {
			out = genOut{value: fr.value}
			return
		}
		if err, ok := p.(error); ok && errors.Is(err, coro.ErrCanceled) {
			out = genOut{err: err}
			return
		}
		panic(p)
	}()
	v, err := fn(y)
	return genOut{value: v, err: err}
}

func (b *genBody) Step(v any, kind ResumeKind) (res StepResult) {
	if b.done {
		return StepResult{Done: true}
	}
	defer func() {
		if p := recover(); p != nil {
			b.done = true
			res = StepResult{Done: true, Value: toError(p), Errored: true}
		}
	}()
	out, running := b.resume(genIn{value: v, kind: kind})
	if running {
		return StepResult{Value: out.value}
	}
	b.done = true
	if out.err != nil {
		return StepResult{Done: true, Value: out.err, Errored: true}
	}
	return StepResult{Done: true, Value: out.value}
}

// Release implements Releaser: unwinds a still-parked coroutine so its
// defers run. No-op once the coroutine has completed.
func (b *genBody) Release() {
	if b.done {
		return
	}
	b.done = true
	b.cancel()
}
