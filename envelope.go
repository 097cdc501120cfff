// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mailbox

// Envelope carries one message plus, for request/response style sends, the
// channel used to deliver the reply. Reply is nil for messages sent through
// TrySend or DoSend, which never create a reply channel.
type Envelope[M any, R any] struct {
	Msg   M
	Reply chan<- R
}

// pack builds an envelope for msg, optionally allocating a buffered
// one-shot reply channel. The receive end is returned to the caller; the
// send end is embedded in the envelope for the eventual handler to use. A
// reply channel a caller stops reading from is simply garbage collected —
// there is no error path for an abandoned reply.
func pack[M any, R any](msg M, withReply bool) (Envelope[M, R], <-chan R) {
	if !withReply {
		return Envelope[M, R]{Msg: msg}, nil
	}
	ch := make(chan R, 1)
	return Envelope[M, R]{Msg: msg, Reply: ch}, ch
}
