// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mailbox

import "code.hybscloud.com/spin"

// Producer is one handle onto a mailbox channel's send side. A Producer is
// owned by a single goroutine at a time — maybeParked is an unsynchronized
// hint, not an atomic — so concurrent senders must each hold their own
// Producer obtained via Clone.
type Producer[M any, R any] struct {
	in   *inner[M, R]
	task *senderTask

	maybeParked bool
}

// Connected reports whether the channel is still open for sending.
func (p *Producer[M, R]) Connected() bool {
	open, _ := p.in.st.snapshot()
	return open
}

// pollUnparked checks whether this producer's most recent park attempt has
// been cleared by the consumer. When doPark is true and the slot is still
// parked, the waker is refreshed so a later unparkOne wakes the caller that
// is asking right now, not whichever goroutine parked first. Once the slot
// is observed clear, maybeParked is reset so later sends take the cheap
// unsynchronized fast path again instead of the mutex slow path forever.
func (p *Producer[M, R]) pollUnparked(w Waker, doPark bool) bool {
	p.task.mu.Lock()
	defer p.task.mu.Unlock()

	if !p.task.isParked {
		p.maybeParked = false
		return true
	}
	if doPark {
		p.task.waker = w
	}
	return false
}

// park records this producer in the channel's parked queue and marks its
// task slot parked, so a future pop by the consumer will call notify and
// wake it.
func (p *Producer[M, R]) park(w Waker) {
	p.maybeParked = true

	p.task.mu.Lock()
	p.task.isParked = true
	p.task.waker = w
	p.task.mu.Unlock()

	p.in.parkedQ.Push(p.task)
}

// Send delivers msg and returns a channel that receives the handler's reply.
// If the channel is at capacity, Send parks the caller's Producer and
// returns an ErrNotReady-classified *SendError — the caller is expected to
// retry once waker.Wake() fires. If the channel is closed, Send returns an
// ErrClosed-classified *SendError with msg recovered in the error.
func (p *Producer[M, R]) Send(w Waker, msg M) (<-chan R, error) {
	return p.doSend(w, msg, true)
}

// TrySend delivers msg without allocating a reply channel and without ever
// parking: on back-pressure it reports ErrNotReady immediately.
func (p *Producer[M, R]) TrySend(msg M) error {
	_, err := p.doSend(nil, msg, false)
	return err
}

// DoSend forces delivery, incrementing num_messages even past the
// configured buffer size. It never parks and never reports ErrNotReady, even
// if this producer is currently parked from a prior Send — the channel
// absorbs the message for the consumer to drain at its own pace, and the
// stale parkedQ entry is simply woken later as a harmless no-op. DoSend
// still reports ErrClosed if the channel is no longer open.
func (p *Producer[M, R]) DoSend(msg M) error {
	closed, _ := p.in.st.incNumMessagesForce()
	if closed {
		return &SendError[M]{Err: ErrClosed, Msg: msg}
	}

	env := &Envelope[M, R]{Msg: msg}
	p.in.messageQ.Push(env)
	p.in.recv.signal()
	return nil
}

func (p *Producer[M, R]) doSend(w Waker, msg M, withReply bool) (<-chan R, error) {
	if p.maybeParked && !p.pollUnparked(w, false) {
		return nil, &SendError[M]{Err: ErrNotReady, Msg: msg}
	}

	switch p.in.st.incNumMessages(p.in.buffer) {
	case incClosed:
		return nil, &SendError[M]{Err: ErrClosed, Msg: msg}
	case incShouldPark:
		if w != nil {
			p.park(w)
		}
		return nil, &SendError[M]{Err: ErrNotReady, Msg: msg}
	}

	env, replyCh := pack[M, R](msg, withReply)
	p.in.messageQ.Push(&env)
	p.in.recv.signal()
	return replyCh, nil
}

// Clone returns a new Producer sharing this channel. Each clone must only be
// used from one goroutine at a time; share the channel across goroutines by
// calling Clone once per goroutine, not by sharing a single *Producer.
//
// Clone panics if the new handle would bring the number of live producer
// handles up to the channel's capacity ceiling — the idiomatic Go stand-in for the originating
// implementation's process abort on sender-count overflow, since that
// ceiling (on the order of 2^62 handles) is never reachable by correct
// programs and signals memory corruption rather than a recoverable error.
func (p *Producer[M, R]) Clone() *Producer[M, R] {
	sw := spin.Wait{}
	for {
		cur := p.in.numSenders.LoadAcquire()
		if cur+1 == p.in.maxSenders() {
			panic("mailbox: too many producer handles")
		}
		if p.in.numSenders.CompareAndSwapAcqRel(cur, cur+1) {
			break
		}
		sw.Once()
	}
	return &Producer[M, R]{
		in:   p.in,
		task: newSenderTask(),
	}
}

// Close releases this handle. When the last live Producer is closed, the
// channel closes for sending and the consumer is woken; Consumer.Poll
// reports Done once it has drained every message queued before the close.
func (p *Producer[M, R]) Close() error {
	sw := spin.Wait{}
	for {
		cur := p.in.numSenders.LoadAcquire()
		if cur == 0 {
			return nil
		}
		if p.in.numSenders.CompareAndSwapAcqRel(cur, cur-1) {
			if cur == 1 {
				p.doClose()
			}
			return nil
		}
		sw.Once()
	}
}

// doClose runs once, when the last Producer handle is released. Closing is
// purely a state-word transition — Done is derived from open==false and
// num_messages==0, so the consumer keeps draining any already-queued
// messages through ordinary Poll calls until that condition holds, with no
// separate terminating value needed on the queue itself.
func (p *Producer[M, R]) doClose() {
	p.in.st.close()
	p.in.recv.signal()
}
