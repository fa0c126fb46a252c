// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

// ResumeKind tells a Body how it is being resumed at a suspension point.
type ResumeKind uint8

const (
	// ResumeContinue resumes normally with the resume value.
	ResumeContinue ResumeKind = iota
	// ResumeThrow raises the resume value as an error at the suspension
	// point; local error handling inside the body may recover it.
	ResumeThrow
	// ResumeReturn forces the body to terminate at the suspension point as
	// if it had completed there. Local error handling is bypassed but
	// structural cleanup still runs. Used for cancellation so ordinary
	// error handling never intercepts it.
	ResumeReturn
	// ResumeCancelSignal marks a resumption whose value demands
	// cancellation of the whole instance. The engine converts it into a
	// cancellation request; a Body never observes it.
	ResumeCancelSignal
)

// StepResult is what a Body reports after one step.
type StepResult struct {
	// Done reports completion; the Body must never be stepped again.
	Done bool
	// Value is the yielded value while running, or the completion value or
	// raised error once Done.
	Value any
	// Errored reports that Value is a raised error. Meaningful only with
	// Done.
	Errored bool
}

// Body is the resumable computation driven by an Instance: step-driven,
// reporting completion and produced values. Bodies are stepped from a
// single cooperative goroutine.
type Body interface {
	Step(v any, kind ResumeKind) StepResult
}

// Releaser is implemented by bodies holding resources across suspension
// points, such as a parked coroutine. The engine calls Release at
// finalize; implementations must tolerate Release after completion.
type Releaser interface {
	Release()
}
