/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package conn

// State is a connection's position in its lifecycle. States only ever move
// forward; see Connection.state for the single place a transition happens.
type State uint8

const (
	// StateNone is the state of a freshly allocated outbound connection:
	// no socket yet, Connect has not been called.
	StateNone State = iota

	// StateConnecting is an outbound socket in progress: the TCP
	// three-way handshake is underway, and for TLS the engine handshake
	// has not yet started.
	StateConnecting

	// StateAccepting is a connection built from an already-accepted fd;
	// for TLS, the server-side handshake is pending.
	StateAccepting

	// StateConnected is ready for user-level read/write.
	StateConnected

	// StateError is a terminal failure; LastError retains the cause.
	StateError

	// StateClosed means the peer closed cleanly; the record is retained
	// until the caller calls Close.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateConnecting:
		return "connecting"
	case StateAccepting:
		return "accepting"
	case StateConnected:
		return "connected"
	case StateError:
		return "error"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Terminal reports whether s is a state from which no further I/O is
// possible (ERROR or CLOSED).
func (s State) Terminal() bool {
	return s == StateError || s == StateClosed
}
