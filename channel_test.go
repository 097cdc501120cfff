// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mailbox

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// countingWaker records how many times Wake was called, for asserting that
// a parked producer is woken at most once per park.
type countingWaker struct {
	n atomic.Int64
}

func (w *countingWaker) Wake() { w.n.Add(1) }

// chanWaker signals a channel on Wake, for tests that need to block until
// woken rather than poll a counter.
type chanWaker chan struct{}

func (w chanWaker) Wake() {
	select {
	case w <- struct{}{}:
	default:
	}
}

// S1: a single send/receive round trip delivers the message and, if a reply
// channel was requested, the reply.
func TestScenarioSingleRoundTrip(t *testing.T) {
	p, c := New[string, int](4)

	reply, err := p.Send(nil, "ping")
	require.NoError(t, err)

	env, status := c.Poll(nil)
	require.Equal(t, Ready, status)
	require.Equal(t, "ping", env.Msg)

	env.Reply <- 42
	require.Equal(t, 42, <-reply)
}

// S2: TrySend never parks and reports ErrNotReady the instant the buffer is
// full, without registering any waker.
func TestScenarioTrySendNeverParks(t *testing.T) {
	p, c := New[int, struct{}](1)

	require.NoError(t, p.TrySend(1))
	err := p.TrySend(2)
	require.Error(t, err)
	require.True(t, IsNotReady(err))

	var se *SendError[int]
	require.ErrorAs(t, err, &se)
	require.Equal(t, 2, se.Msg)

	_, status := c.Poll(nil)
	require.Equal(t, Ready, status)
}

// S3: a parked producer is woken by the exact consumer pop that frees its
// slot — not by unrelated pops, and not more than once.
func TestScenarioParkedProducerWokenOnce(t *testing.T) {
	p, c := New[int, struct{}](1)

	require.NoError(t, p.TrySend(1))

	w := &countingWaker{}
	_, err := p.Send(w, 2)
	require.True(t, IsNotReady(err))
	require.Equal(t, int64(0), w.n.Load())

	_, status := c.Poll(nil)
	require.Equal(t, Ready, status)

	require.Eventually(t, func() bool { return w.n.Load() == 1 }, time.Second, time.Millisecond)
	require.Equal(t, int64(1), w.n.Load())
}

// S4: DoSend always delivers, even past the configured buffer size, and
// never reports ErrNotReady.
func TestScenarioDoSendIgnoresBackpressure(t *testing.T) {
	p, c := New[int, struct{}](1)

	require.NoError(t, p.TrySend(1))
	require.NoError(t, p.DoSend(2))
	require.NoError(t, p.DoSend(3))

	for _, want := range []int{1, 2, 3} {
		env, status := c.Poll(nil)
		require.Equal(t, Ready, status)
		require.Equal(t, want, env.Msg)
	}
}

// S5: once every Producer handle is closed, Poll drains whatever was queued
// and then reports Done.
func TestScenarioCloseDrainsThenDone(t *testing.T) {
	p, c := New[int, struct{}](4)

	require.NoError(t, p.TrySend(1))
	require.NoError(t, p.TrySend(2))
	require.NoError(t, p.Close())

	env, status := c.Poll(nil)
	require.Equal(t, Ready, status)
	require.Equal(t, 1, env.Msg)

	env, status = c.Poll(nil)
	require.Equal(t, Ready, status)
	require.Equal(t, 2, env.Msg)

	_, status = c.Poll(nil)
	require.Equal(t, Done, status)
}

// S6: Consumer.Shutdown discards anything still queued, unlike Close, which
// only stops accepting new sends.
func TestScenarioShutdownDiscardsQueued(t *testing.T) {
	p, c := New[int, struct{}](4)

	require.NoError(t, p.TrySend(1))
	require.NoError(t, p.TrySend(2))

	c.Shutdown()
	require.False(t, c.Connected())

	err := p.TrySend(3)
	require.True(t, IsClosed(err))
}

// Clone lets multiple goroutines share one channel safely, each through its
// own handle.
func TestCloneConcurrentSenders(t *testing.T) {
	const n = 50
	p, c := New[int, struct{}](n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		w := p.Clone()
		go func(i int) {
			defer wg.Done()
			require.NoError(t, w.DoSend(i))
		}(i)
	}
	wg.Wait()

	seen := make(map[int]bool)
	for i := 0; i < n; i++ {
		env, status := c.Poll(nil)
		require.Equal(t, Ready, status)
		seen[env.Msg] = true
	}
	require.Len(t, seen, n)
}

// Connected reflects the open/closed state from both sides of the channel.
func TestConnectedReflectsState(t *testing.T) {
	p, c := New[int, struct{}](1)
	require.True(t, p.Connected())
	require.True(t, c.Connected())

	require.NoError(t, p.Close())
	require.False(t, p.Connected())
	require.False(t, c.Connected())
}

// Sender reopens a channel whose last Producer had already been released.
func TestSenderReopensClosedChannel(t *testing.T) {
	p, c := New[int, struct{}](1)
	require.NoError(t, p.Close())
	require.False(t, c.Connected())

	p2 := c.Sender()
	require.True(t, c.Connected())
	require.NoError(t, p2.TrySend(7))

	env, status := c.Poll(nil)
	require.Equal(t, Ready, status)
	require.Equal(t, 7, env.Msg)
}

// Poll parks the consumer and wakes it exactly when a message arrives.
func TestPollParksUntilMessageArrives(t *testing.T) {
	if RaceEnabled {
		t.Skip("timing-sensitive liveness check unreliable under the race detector")
	}

	p, c := New[int, struct{}](1)

	w := make(chanWaker, 1)
	_, status := c.Poll(w)
	require.Equal(t, NotReady, status)

	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = p.TrySend(99)
	}()

	select {
	case <-w:
	case <-time.After(time.Second):
		t.Fatal("consumer waker never fired")
	}

	env, status := c.Poll(nil)
	require.Equal(t, Ready, status)
	require.Equal(t, 99, env.Msg)
}

// A send racing a close is never silently lost: it is either delivered
// before Done or reported as ErrClosed with the message recovered.
func TestSendRaceWithCloseNeverLosesMessage(t *testing.T) {
	for i := 0; i < 200; i++ {
		p, c := New[int, struct{}](0)

		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = p.Close()
		}()

		err := p.DoSend(i)
		<-done

		if err == nil {
			env, status := c.Poll(nil)
			require.Equal(t, Ready, status)
			require.Equal(t, i, env.Msg)
		} else {
			require.True(t, IsClosed(err))
		}
	}
}
