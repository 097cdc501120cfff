// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package queue provides the intrusive multi-producer single-consumer FIFO
// that backs both the message queue and the parked-task queue of the
// mailbox channel.
//
// Unlike the capacity-bounded ring buffers in code.hybscloud.com/lfq, this
// queue is unbounded and linked-list based (Vyukov's single-consumer
// design): back pressure for the mailbox channel is enforced one layer up,
// by the packed state word, not by this queue refusing a Push. Push is
// total and wait-free per producer; only the single consumer may call Pop.
package queue

import "sync/atomic"

// Status is the three-way result of Pop, mirroring the "Data / Empty /
// Inconsistent" contract every consumer of this queue must honor: on
// Inconsistent, a producer has reserved a slot but not yet linked its node,
// and the caller must back off and retry rather than treat the queue as
// empty.
type Status int

const (
	Empty Status = iota
	Inconsistent
	Data
)

type node[T any] struct {
	next  atomic.Pointer[node[T]]
	value T
}

// Queue is a lock-free MPSC FIFO. The zero value is not usable; create one
// with New.
type Queue[T any] struct {
	head atomic.Pointer[node[T]] // producers' CAS/swap target
	tail *node[T]                // consumer-owned, never touched by producers
}

// New creates an empty queue.
func New[T any]() *Queue[T] {
	stub := &node[T]{}
	q := &Queue[T]{tail: stub}
	q.head.Store(stub)
	return q
}

// Push enqueues v. Safe to call concurrently from any number of goroutines.
func (q *Queue[T]) Push(v T) {
	n := &node[T]{value: v}
	prev := q.head.Swap(n)
	prev.next.Store(n)
}

// Pop dequeues the oldest value. Must only be called from a single
// goroutine at a time (the queue's sole consumer).
func (q *Queue[T]) Pop() (T, Status) {
	var zero T

	tail := q.tail
	next := tail.next.Load()

	if next == nil {
		if q.head.Load() == tail {
			return zero, Empty
		}
		return zero, Inconsistent
	}

	v := next.value
	var clear T
	next.value = clear
	q.tail = next
	return v, Data
}
