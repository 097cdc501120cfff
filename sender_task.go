// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mailbox

import "sync"

// senderTask is a producer's parking slot: the waker to notify plus the
// parked flag, guarded by a mutex. It is co-owned by the Producer that owns
// it and by whatever parked-queue entry currently references it — there is
// no cycle, since the queue entry is consumed exactly once by the consumer.
type senderTask struct {
	mu       sync.Mutex
	waker    Waker
	isParked bool
}

func newSenderTask() *senderTask {
	return &senderTask{}
}

// notify clears is_parked and wakes whatever waker is stored, holding the
// mutex only long enough to take the waker out of the slot.
func (t *senderTask) notify() {
	t.mu.Lock()
	t.isParked = false
	w := t.waker
	t.waker = nil
	t.mu.Unlock()

	if w != nil {
		w.Wake()
	}
}
