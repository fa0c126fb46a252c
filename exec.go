// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

// Exec starts t and runs the loop until its deferred result settles,
// returning the terminal value or error. The deferred is requested before
// starting, so an error outcome is always observed and never reported as
// uncaught.
func Exec(l *Loop, t *Instance) (any, error) {
	d := t.Result()
	t.Start()
	return l.Wait(d)
}
