// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

// OutcomeKind classifies the terminal result of an instance.
type OutcomeKind uint8

const (
	// OutcomePending marks an instance that has not finalized yet.
	OutcomePending OutcomeKind = iota
	// OutcomeSuccess carries the completion value.
	OutcomeSuccess
	// OutcomeError carries the raised error.
	OutcomeError
	// OutcomeCancel carries the distinguished cancellation error.
	OutcomeCancel
)

// Outcome is the terminal classification of an instance. Exactly one of
// success(value), error(err), or cancel(err) is ever delivered.
type Outcome struct {
	Kind  OutcomeKind
	Value any
	Err   error
}

// State is the host-visible snapshot pushed to the Delegate whenever the
// instance's observable lifecycle changes.
type State struct {
	HasStarted   bool
	IsFinished   bool
	IsSuccessful bool
	IsError      bool
	IsCanceled   bool
	Value        any
	Err          error
}
