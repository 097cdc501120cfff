// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mailbox

import (
	"code.hybscloud.com/atomix"

	"code.hybscloud.com/mailbox/internal/queue"
)

// inner is the shared state every Producer and the Consumer hold a pointer
// to. It outlives any single handle: the last Producer's Close and the
// Consumer's Close/Shutdown are what actually tear it down.
type inner[M any, R any] struct {
	buffer uint64

	st state

	messageQ *queue.Queue[*Envelope[M, R]]
	parkedQ  *queue.Queue[*senderTask]

	numSenders atomix.Uint64

	recv receiverTask
}

func newInner[M any, R any](buffer uint64) *inner[M, R] {
	in := &inner[M, R]{
		buffer:   buffer,
		messageQ: queue.New[*Envelope[M, R]](),
		parkedQ:  queue.New[*senderTask](),
	}
	in.st.init()
	in.numSenders.StoreRelease(1)
	return in
}

// maxSenders is the bound numSenders must stay strictly below (Clone and
// Sender panic when a new handle would bring the count up to it), so that
// numSenders never collides with the reserved capacity bits of the packed
// state word: every sender beyond
// the buffer needs room to be counted as a pending message if it ever races
// to send one last time before Close.
func (in *inner[M, R]) maxSenders() uint64 {
	return maxCapacity - in.buffer
}

// New creates a bounded mailbox channel with room for buffer pending
// messages before producers are back-pressured. A buffer of 0 means the
// channel is unbounded: Send and TrySend never report back-pressure.
//
// New panics if buffer is negative or larger than maxBuffer (half of the
// 63-bit num_messages range of the packed state word).
func New[M any, R any](buffer int) (*Producer[M, R], *Consumer[M, R]) {
	if buffer < 0 {
		panic("mailbox: negative buffer")
	}
	if uint64(buffer) > maxBuffer {
		panic("mailbox: buffer too large")
	}

	in := newInner[M, R](uint64(buffer))

	p := &Producer[M, R]{
		in:   in,
		task: newSenderTask(),
	}
	c := &Consumer[M, R]{in: in}
	return p, c
}
