// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

import (
	"errors"
	"fmt"
)

// CancelErrorName is the fixed identifying name carried by every
// cancellation error the engine produces. Hosts that cannot share the
// concrete type match on the name instead.
const CancelErrorName = "TaskCancelation"

// CancelError is the distinguished terminal error of a canceled instance.
type CancelError struct {
	Reason string
}

func (e *CancelError) Error() string {
	return CancelErrorName + ": " + e.Reason
}

// Name reports the fixed identifying name.
func (e *CancelError) Name() string {
	return CancelErrorName
}

// IsCancelError reports whether err is the distinguished cancellation
// error, matched by concrete type or by its fixed identifying name.
func IsCancelError(err error) bool {
	var ce *CancelError
	if errors.As(err, &ce) {
		return true
	}
	var named interface{ Name() string }
	return errors.As(err, &named) && named.Name() == CancelErrorName
}

// toError normalizes a raised value into an error.
func toError(v any) error {
	switch e := v.(type) {
	case nil:
		return errors.New("task: raised nil")
	case error:
		return e
	default:
		return fmt.Errorf("task: %v", e)
	}
}
