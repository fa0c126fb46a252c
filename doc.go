// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package task manages single cancellable, suspendable units of work:
// start a body that pauses at intermediate points, optionally cancel it
// mid-flight, chain child instances whose lifetime may or may not be tied
// to a parent's, and receive exactly one terminal outcome.
//
// # Architecture
//
//   - Engine: [Instance] owns the resumption index, pending disposers,
//     finalize callbacks, and the terminal [Outcome]; it drives a [Body]
//     one step at a time and finalizes exactly once.
//   - Ticketing: every suspension point captures the current [Ticket]; a
//     resumption is honored only while its ticket is current, so duplicate
//     or racing resumptions are silently dropped.
//   - Cancellation: at most one [CancelRequest] per instance; a started
//     instance is unwound with a forced RETURN so structural cleanup runs,
//     and a pending request always pre-empts a racing natural completion.
//   - Scheduling: [Loop] is a cooperative single-goroutine run loop
//     implementing [Environment]; external completions enter through a
//     bounded lock-free SPSC queue from [code.hybscloud.com/lfq] with
//     [code.hybscloud.com/iox] backoff at the idle boundary.
//
// # Yield Classification
//
// Each value a body yields is classified once, in tie-break order:
// absent values and [Raw]-wrapped values resume immediately; a value
// exposing the [Suspender] marker has its handler invoked with a
// [YieldContext] and the current ticket; a future-like [Subscriber] is
// subscribed, resuming on settlement; anything else resumes as a plain
// value. Any yielded value may carry an attached disposer via
// [Disposable].
//
// # Linking
//
// A yielded child [Instance] suspends the parent until the child
// finalizes: success continues the parent with the value, error raises it
// at the suspension point, cancellation propagates as a cancel signal.
// Unless performed [PerformUnlinked], disposing of the parent's suspension
// point cancels the child.
//
// # Bodies
//
//   - [Gen]: goroutine-backed coroutine bodies via
//     [github.com/webriots/coro]; suspend with [Yielder.Yield].
//   - [ExprBody]: defunctionalized [code.hybscloud.com/kont] computations
//     stepped one effect at a time.
//   - Any step-driven computation implementing [Body].
//
// # Example
//
//	l := task.NewLoop()
//	d := l.Defer()
//	inst := task.New(l, nil, task.Gen(func(y *task.Yielder) (any, error) {
//		v, err := y.Yield(d)
//		if err != nil {
//			return nil, err
//		}
//		return v.(int) * 2, nil
//	}))
//	inst.Start()
//	d.Resolve(21)
//	result, _ := l.Wait(inst.Result())
//	// result == 42
package task
