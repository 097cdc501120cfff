// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mailbox

import (
	"code.hybscloud.com/spin"

	"code.hybscloud.com/mailbox/internal/queue"
)

// PollStatus is the three-way result of Consumer.Poll: whether a message was
// ready, none is ready yet, or the channel has no more senders and is fully
// drained.
type PollStatus int

const (
	NotReady PollStatus = iota
	Ready
	Done
)

// Consumer is the single receive handle of a mailbox channel. Unlike
// Producer, there is exactly one Consumer per channel and it is never
// cloned.
type Consumer[M any, R any] struct {
	in *inner[M, R]
}

// Connected reports whether any Producer handle is still live, or whether
// messages sent before the last one closed are still queued to be drained.
// A loop written as `for c.Connected() { poll }` must not stop early and
// strand undelivered messages.
func (c *Consumer[M, R]) Connected() bool {
	open, num := c.in.st.snapshot()
	return open || num > 0
}

// Sender mints a new Producer for this channel, reopening it if the last
// Producer had already been closed. This mirrors the address type's ability
// to hand out a fresh sender after the channel would otherwise be
// considered disconnected, as long as the Consumer itself is still around to
// receive.
func (c *Consumer[M, R]) Sender() *Producer[M, R] {
	c.in.st.reopen()

	sw := spin.Wait{}
	for {
		cur := c.in.numSenders.LoadAcquire()
		if cur+1 == c.in.maxSenders() {
			panic("mailbox: too many producer handles")
		}
		if c.in.numSenders.CompareAndSwapAcqRel(cur, cur+1) {
			break
		}
		sw.Once()
	}

	return &Producer[M, R]{
		in:   c.in,
		task: newSenderTask(),
	}
}

// Close closes the channel for sending and wakes every currently parked
// producer so none is left blocked forever, but leaves any already-queued
// messages in place for a subsequent Poll to deliver. Use Shutdown to also
// discard those.
func (c *Consumer[M, R]) Close() {
	c.in.st.close()
	for {
		t, status := c.in.parkedQ.Pop()
		if status == queue.Empty {
			return
		}
		if status == queue.Inconsistent {
			continue
		}
		t.notify()
	}
}

// Shutdown is the full Drop-equivalent teardown: it closes the channel, then
// drains every message still queued so no reply channel or payload outlives
// the mailbox.
func (c *Consumer[M, R]) Shutdown() {
	c.Close()
	for {
		_, status := c.in.messageQ.Pop()
		switch status {
		case queue.Empty:
			return
		case queue.Inconsistent:
			continue
		default:
			c.in.st.decNumMessages()
		}
	}
}

// unparkOne wakes at most one parked producer. Called after every real pop
// from messageQ — never after observing Empty — since that is the only
// event a parked producer's deferred reservation is allowed to rely on.
func (c *Consumer[M, R]) unparkOne() {
	sw := spin.Wait{}
	for {
		t, status := c.in.parkedQ.Pop()
		switch status {
		case queue.Empty:
			return
		case queue.Inconsistent:
			sw.Once()
			continue
		default:
			t.notify()
			return
		}
	}
}

// nextMessage pops the next envelope, transparently retrying past any
// Inconsistent reading. The returned status is always either Empty or Data.
func (c *Consumer[M, R]) nextMessage() (*Envelope[M, R], queue.Status) {
	sw := spin.Wait{}
	for {
		env, status := c.in.messageQ.Pop()
		if status == queue.Inconsistent {
			sw.Once()
			continue
		}
		return env, status
	}
}

type tryParkResult int

const (
	tpParked tryParkResult = iota
	tpClosed
	tpNotEmpty
)

// tryPark records w as the channel's receiver waker, then re-checks the
// state word for a closed-and-drained channel or a message that arrived in
// the race window between the last failed pop and the waker being stored.
// Done is derived straight from the state word (closed with nothing
// outstanding) rather than from any special value on the queue, which is
// what lets Sender reopen a drained channel cleanly.
func (c *Consumer[M, R]) tryPark(w Waker) tryParkResult {
	c.in.recv.mu.Lock()
	c.in.recv.waker = w
	c.in.recv.unparked = false
	c.in.recv.mu.Unlock()

	open, num := c.in.st.snapshot()
	if !open && num == 0 {
		return tpClosed
	}
	if num > 0 {
		return tpNotEmpty
	}
	return tpParked
}

// Poll drives the channel: it returns the next ready envelope, NotReady if
// none is available yet (w will be woken on the next push, or when the last
// Producer is closed), or
// Done once every Producer has been released and every message has been
// delivered.
func (c *Consumer[M, R]) Poll(w Waker) (*Envelope[M, R], PollStatus) {
	for {
		env, status := c.nextMessage()
		if status == queue.Data {
			c.unparkOne()
			c.in.st.decNumMessages()
			return env, Ready
		}

		switch c.tryPark(w) {
		case tpParked:
			return nil, NotReady
		case tpClosed:
			return nil, Done
		case tpNotEmpty:
			continue
		}
	}
}
