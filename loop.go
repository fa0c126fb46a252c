// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

import (
	"log/slog"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// postCapacity is the bounded capacity for the cross-goroutine post queue.
// Posts are rare (one per external completion), so a small power of two
// keeps the ring buffer compact while Post's backoff absorbs bursts.
const postCapacity = 64

// Loop is a cooperative, single-goroutine run loop implementing
// Environment. Turns queued with Async run FIFO on the loop goroutine.
// Other goroutines hand completions to the loop with Post; the transport
// is a bounded lock-free SPSC queue from lfq, so at most one posting
// goroutine may be active at a time.
type Loop struct {
	turns []func()
	head  int
	posts lfq.SPSC[func()]

	// Debug gates advisory debug output (DebuggingEnabled).
	Debug bool
	// OnUncaught, if non-nil, receives uncaught rejections instead of the
	// default slog report.
	OnUncaught func(err error)
}

// NewLoop creates an empty run loop.
func NewLoop() *Loop {
	l := &Loop{}
	l.posts.Init(postCapacity)
	return l
}

// Async queues fn to run on a later turn. Loop-goroutine only.
func (l *Loop) Async(fn func()) {
	l.turns = append(l.turns, fn)
}

// Defer implements Environment.
func (l *Loop) Defer() *Deferred {
	return &Deferred{env: l}
}

// ReportUncaughtRejection implements Environment.
func (l *Loop) ReportUncaughtRejection(err error) {
	if l.OnUncaught != nil {
		l.OnUncaught(err)
		return
	}
	slog.Error("task: uncaught rejection", "err", err)
}

// DebuggingEnabled implements Environment.
func (l *Loop) DebuggingEnabled() bool {
	return l.Debug
}

// Post hands fn to the loop from another goroutine, blocking with adaptive
// backoff while the bounded queue is full. Single producer at a time.
func (l *Loop) Post(fn func()) {
	var bo iox.Backoff
	for l.posts.Enqueue(&fn) != nil {
		bo.Wait()
	}
}

// runOne runs a single pending turn, preferring queued turns over posts.
// Reports whether one ran.
func (l *Loop) runOne() bool {
	if l.head < len(l.turns) {
		fn := l.turns[l.head]
		l.turns[l.head] = nil
		l.head++
		if l.head == len(l.turns) {
			l.turns = l.turns[:0]
			l.head = 0
		}
		fn()
		return true
	}
	if fn, err := l.posts.Dequeue(); err == nil {
		fn()
		return true
	}
	return false
}

// Drain runs turns until both queues are empty.
func (l *Loop) Drain() {
	for l.runOne() {
	}
}

// Wait runs the loop until d settles, backing off with iox.Backoff while
// idle so a posting goroutine can make progress. Blocks forever if d can
// never settle; callers wanting a deadline race d against their own timer.
func (l *Loop) Wait(d *Deferred) (any, error) {
	var bo iox.Backoff
	for {
		if l.runOne() {
			bo.Reset()
			continue
		}
		if d.Settled() {
			return d.Result()
		}
		bo.Wait()
	}
}
