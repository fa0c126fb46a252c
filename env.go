// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

// Environment supplies the scheduling and reporting primitives the engine
// defers through. Loop is the provided implementation; hosts embedding the
// engine into an existing event loop implement Environment themselves.
type Environment interface {
	// Async runs fn on a later cooperative turn, never synchronously.
	Async(fn func())
	// Defer constructs a completable deferred result whose subscription
	// callbacks dispatch through this environment's turn scheduling.
	Defer() *Deferred
	// ReportUncaughtRejection receives error outcomes nobody observed and
	// synchronous custom-suspension handler failures.
	ReportUncaughtRejection(err error)
	// DebuggingEnabled gates advisory debug output.
	DebuggingEnabled() bool
}
