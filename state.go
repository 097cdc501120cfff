// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mailbox

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// openMask occupies the high bit of the packed state word; the remaining
// bits hold numMessages. This mirrors the single-atomic-word design lfq
// uses for its head/tail/threshold fields, extended to pack two logical
// values so that open/close transitions and message-count updates share one
// CAS and can never observe a torn intermediate state.
const (
	openMask    = uint64(1) << 63
	maxCapacity = ^openMask
	maxBuffer   = maxCapacity >> 1
)

// incOutcome is the three-way result of a reservation attempt.
type incOutcome int

const (
	incProceed incOutcome = iota
	incShouldPark
	incClosed
)

// state is the packed atomic word: is_open (high bit) and num_messages (the
// rest). All mutation goes through CAS loops backed by spin.Wait, the same
// retry discipline every queue variant in lfq uses.
type state struct {
	word atomix.Uint64
}

func decodeState(w uint64) (open bool, numMessages uint64) {
	return w&openMask != 0, w &^ openMask
}

func encodeState(open bool, numMessages uint64) uint64 {
	w := numMessages
	if open {
		w |= openMask
	}
	return w
}

func (s *state) init() {
	s.word.StoreRelease(openMask)
}

func (s *state) snapshot() (open bool, numMessages uint64) {
	return decodeState(s.word.LoadAcquire())
}

// incNumMessages reserves one slot if the channel is open and under
// capacity. It never mutates state when parking is required: the
// reservation for a parked producer is deferred until some future pop frees
// a slot and wakes it (see consumer.unparkOne), which is what keeps
// num_messages from ever counting a producer that hasn't actually pushed.
func (s *state) incNumMessages(buffer uint64) incOutcome {
	sw := spin.Wait{}
	for {
		cur := s.word.LoadAcquire()
		open, num := decodeState(cur)
		if !open {
			return incClosed
		}
		if buffer > 0 && num >= buffer {
			return incShouldPark
		}
		next := encodeState(true, num+1)
		if s.word.CompareAndSwapAcqRel(cur, next) {
			return incProceed
		}
		sw.Once()
	}
}

// incNumMessagesForce always increments while open, bypassing the buffer
// limit entirely. Returns true if the channel was already closed, in which
// case no increment happened.
func (s *state) incNumMessagesForce() (alreadyClosed bool, numMessages uint64) {
	sw := spin.Wait{}
	for {
		cur := s.word.LoadAcquire()
		open, num := decodeState(cur)
		if !open {
			return true, num
		}
		next := encodeState(true, num+1)
		if s.word.CompareAndSwapAcqRel(cur, next) {
			return false, num + 1
		}
		sw.Once()
	}
}

func (s *state) decNumMessages() {
	sw := spin.Wait{}
	for {
		cur := s.word.LoadAcquire()
		open, num := decodeState(cur)
		next := encodeState(open, num-1)
		if s.word.CompareAndSwapAcqRel(cur, next) {
			return
		}
		sw.Once()
	}
}

func (s *state) close() {
	sw := spin.Wait{}
	for {
		cur := s.word.LoadAcquire()
		_, num := decodeState(cur)
		next := encodeState(false, num)
		if s.word.CompareAndSwapAcqRel(cur, next) {
			return
		}
		sw.Once()
	}
}

func (s *state) reopen() {
	sw := spin.Wait{}
	for {
		cur := s.word.LoadAcquire()
		_, num := decodeState(cur)
		next := encodeState(true, num)
		if s.word.CompareAndSwapAcqRel(cur, next) {
			return
		}
		sw.Once()
	}
}
