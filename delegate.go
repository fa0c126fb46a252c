// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

import "fmt"

// Delegate receives lifecycle callbacks from an Instance and surfaces its
// state to a host layer. Embed NopDelegate to implement only the callbacks
// of interest.
type Delegate interface {
	// SetState receives a snapshot whenever observable state changes.
	SetState(s State)
	OnStarted()
	OnSuccess()
	OnError(err error)
	OnCancel(reason string)
	// FormatCancelReason renders a cancellation reason for the
	// distinguished cancellation error.
	FormatCancelReason(reason any) string
	// YieldContext returns the host object handed to custom suspension
	// handlers through YieldContext.Host.
	YieldContext() any
}

// NopDelegate implements Delegate with no-ops and default formatting.
type NopDelegate struct{}

func (NopDelegate) SetState(State)    {}
func (NopDelegate) OnStarted()        {}
func (NopDelegate) OnSuccess()        {}
func (NopDelegate) OnError(error)     {}
func (NopDelegate) OnCancel(string)   {}
func (NopDelegate) YieldContext() any { return nil }

// FormatCancelReason renders nil as "canceled", strings verbatim, errors
// via Error, anything else via fmt.
func (NopDelegate) FormatCancelReason(reason any) string {
	switch r := reason.(type) {
	case nil:
		return "canceled"
	case string:
		return r
	case error:
		return r.Error()
	default:
		return fmt.Sprintf("%v", r)
	}
}
