// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mailbox

import "sync"

// receiverTask is the consumer's parking slot: an optional waker plus an
// unparked flag, guarded by a mutex. There is exactly one per channel.
type receiverTask struct {
	mu       sync.Mutex
	waker    Waker
	unparked bool
}

// signal wakes the consumer if it is parked, or records a pending wake-up
// if it hasn't parked yet. Minimizes time spent holding the mutex across
// the wake-up call itself.
func (r *receiverTask) signal() {
	r.mu.Lock()
	if r.unparked {
		r.mu.Unlock()
		return
	}
	r.unparked = true
	w := r.waker
	r.waker = nil
	r.mu.Unlock()

	if w != nil {
		w.Wake()
	}
}
