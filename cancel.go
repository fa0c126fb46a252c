// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

// CancelKind records how a cancellation request originated.
type CancelKind uint8

const (
	// CancelExplicit is a caller-initiated Cancel.
	CancelExplicit CancelKind = iota
	// CancelPropagated originated from a yielded value demanding
	// cancellation of the whole instance, e.g. a linked child canceling.
	CancelPropagated
)

// CancelRequest is the immutable record of a cancellation request.
// At most one is ever accepted per instance, and never after finalize.
type CancelRequest struct {
	Kind   CancelKind
	Reason any
}
