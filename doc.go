// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package mailbox provides a bounded, back-pressured, multi-producer
// single-consumer channel for delivering messages to an actor-style mailbox
// loop.
//
// Unlike a plain Go channel, mailbox tracks open/closed state and pending
// count in one packed atomic word, supports a "do not block the caller"
// send path, and lets a parked producer be woken by the exact
// consumer pop that frees its slot rather than by a broadcast.
//
// # Quick Start
//
//	producer, consumer := mailbox.New[Request, Response](16)
//
//	go func() {
//	    for {
//	        env, status := consumer.Poll(wakerForThisGoroutine)
//	        switch status {
//	        case mailbox.Ready:
//	            resp := handle(env.Msg)
//	            if env.Reply != nil {
//	                env.Reply <- resp
//	            }
//	        case mailbox.NotReady:
//	            return // resumed by Wake()
//	        case mailbox.Done:
//	            return // every producer has been released
//	        }
//	    }
//	}()
//
//	reply, err := producer.Send(waker, req)
//	if mailbox.IsNotReady(err) {
//	    // back off and retry once waker.Wake() fires
//	}
//
// # Sending
//
// Three send methods trade off blocking avoidance against delivery
// guarantees:
//
//	producer.Send(waker, msg)    // back-pressured, returns a reply channel
//	producer.TrySend(msg)        // back-pressured, no reply channel, never parks
//	producer.DoSend(msg)         // always delivers, ignores the buffer limit
//
// Send and TrySend report [ErrNotReady] ([IsNotReady]) when the channel is
// at capacity — Send additionally registers the caller's Waker so it is
// woken the moment the consumer's next pop frees a slot. DoSend never
// reports ErrNotReady; it exists for messages that must not be dropped even
// under sustained back-pressure (shutdown notices, for example).
//
// All three report [ErrClosed] ([IsClosed]) once every Producer has been
// closed, recovering the original message via the returned *SendError.
//
// # The Waker
//
// mailbox has no opinion on how its caller schedules work — there is no
// ambient "current task" the way a single-threaded async runtime would
// provide one. Callers pass a [Waker] explicitly to Send and Poll:
//
//	type Waker interface { Wake() }
//
// [WakeFunc] adapts a plain function, the same way [net/http.HandlerFunc]
// adapts a function to an interface:
//
//	w := mailbox.WakeFunc(func() { scheduleRunLoop(loopID) })
//
// # Producers
//
// A Producer is owned by one goroutine at a time. Share a channel across
// goroutines by calling Clone once per goroutine — never by sharing a
// single *Producer value:
//
//	worker := producer.Clone()
//	go func() { worker.TrySend(msg) }()
//
// # Shutdown
//
// Producer.Close releases one handle; when the last is released, the
// channel closes for sending and the consumer observes [Done] once it has
// drained every already-queued message. Consumer.Close stops accepting new
// sends and wakes any parked producers without discarding queued messages;
// Consumer.Shutdown additionally drains and discards them — the full
// teardown a dropped receiver would perform in a language with destructors.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for the packed state word's
// atomic operations, [code.hybscloud.com/spin] for CAS and queue-retry
// backoff, and [code.hybscloud.com/iox] for semantic error classification —
// the same stack code.hybscloud.com/lfq uses for its own lock-free queues.
package mailbox
