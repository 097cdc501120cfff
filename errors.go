// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mailbox

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

// ErrClosed indicates the channel was closed — by the consumer calling
// Close, or by the last Producer being released — before or during the
// send. The original message is recoverable from SendError.Msg.
var ErrClosed = errors.New("mailbox: channel closed")

// ErrNotReady indicates back-pressure: the channel was at capacity, or the
// sender is already parked from a previous attempt. This is an alias of
// iox.ErrWouldBlock for ecosystem consistency with code.hybscloud.com/lfq,
// which reports full/empty queues the same way.
//
// Example:
//
//	reply, err := producer.Send(waker, msg)
//	if mailbox.IsNotReady(err) {
//	    // back off and retry once waker.Wake() fires
//	}
var ErrNotReady = iox.ErrWouldBlock

// SendError is returned by Producer.Send, TrySend, and DoSend when the
// message could not be delivered. The message is never lost: it is
// returned unmodified so the caller can retry or otherwise recover it.
type SendError[M any] struct {
	Err error
	Msg M
}

func (e *SendError[M]) Error() string {
	return fmt.Sprintf("mailbox: send failed: %v", e.Err)
}

// Unwrap lets errors.Is(err, ErrClosed) / errors.Is(err, ErrNotReady) work
// directly against a *SendError[M].
func (e *SendError[M]) Unwrap() error {
	return e.Err
}

// IsClosed reports whether err indicates the channel is permanently closed
// for this send attempt.
func IsClosed(err error) bool {
	return errors.Is(err, ErrClosed)
}

// IsNotReady reports whether err is the transient back-pressure signal.
// Delegates to iox.IsWouldBlock for wrapped-error support.
func IsNotReady(err error) bool {
	return iox.IsWouldBlock(err)
}
