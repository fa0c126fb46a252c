// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

// Deferred is a completable deferred result. Settlement is sticky: the
// first Resolve or Reject wins and later calls are no-ops. Subscription
// callbacks dispatch on a later cooperative turn through the environment,
// never synchronously from Resolve, Reject, or Subscribe.
//
// Deferred implements Subscriber, so a body may yield one directly and be
// resumed when it settles.
type Deferred struct {
	env      Environment
	settled  bool
	rejected bool
	value    any
	err      error
	subs     []deferredSub
}

type deferredSub struct {
	onResolve func(v any)
	onReject  func(err error)
}

// Resolve settles d with v. No-op once settled.
func (d *Deferred) Resolve(v any) {
	if d.settled {
		return
	}
	d.settled = true
	d.value = v
	d.dispatch()
}

// Reject settles d with err. No-op once settled.
func (d *Deferred) Reject(err error) {
	if d.settled {
		return
	}
	d.settled = true
	d.rejected = true
	d.err = err
	d.dispatch()
}

// Subscribe implements Subscriber. On an already-settled deferred the
// callback still runs on a later turn.
func (d *Deferred) Subscribe(onResolve func(v any), onReject func(err error)) {
	d.subs = append(d.subs, deferredSub{onResolve: onResolve, onReject: onReject})
	if d.settled {
		d.dispatch()
	}
}

// Settled reports whether d has been resolved or rejected.
func (d *Deferred) Settled() bool {
	return d.settled
}

// Result returns the settlement. Valid only once Settled reports true.
func (d *Deferred) Result() (any, error) {
	if d.rejected {
		return nil, d.err
	}
	return d.value, nil
}

// dispatch schedules pending subscription callbacks and clears them.
func (d *Deferred) dispatch() {
	subs := d.subs
	d.subs = nil
	for _, s := range subs {
		s := s
		d.env.Async(func() {
			if d.rejected {
				if s.onReject != nil {
					s.onReject(d.err)
				}
				return
			}
			if s.onResolve != nil {
				s.onResolve(d.value)
			}
		})
	}
}
