// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package mailbox

// RaceEnabled is true when the race detector is active.
// Used by tests to skip timing-sensitive liveness checks (e.g. the consumer
// being woken when a message arrives) whose deadlines become unreliable under the race detector's
// instrumentation overhead, rather than because of any actual data race.
const RaceEnabled = true
