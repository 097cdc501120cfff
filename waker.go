// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mailbox

// Waker is the minimal capability this package needs from the cooperative
// task executor a Producer or Consumer is running on: a way to mark the
// calling task runnable again. The executor and the task itself are not
// this package's concern — callers supply whatever adapter fits their own
// scheduler.
//
// Wake must be safe to call from any goroutine, including concurrently with
// itself, and must be a no-op (not a panic) if the task it refers to has
// already finished.
type Waker interface {
	Wake()
}

// WakeFunc adapts a plain function to Waker, the same pattern
// http.HandlerFunc applies to http.Handler. Useful for callers that don't
// already have an executor type with a Wake method of its own.
type WakeFunc func()

// Wake calls f if non-nil.
func (f WakeFunc) Wake() {
	if f != nil {
		f()
	}
}
