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

import "github.com/nabbar/go-connio/connerr"

const (
	codeWouldBlock connerr.Code = iota + connerr.MinPkgConn
	codeWrongState
	codeClosed
	codeNoFd
	codeAlreadyPending
)

func init() {
	connerr.Register(connerr.MinPkgConn, getMessage)
}

func getMessage(code connerr.Code) string {
	switch code {
	case codeWouldBlock:
		return "operation would block"
	case codeWrongState:
		return "connection is not in the required state for this operation"
	case codeClosed:
		return "connection is closed"
	case codeNoFd:
		return "connection has no associated file descriptor"
	case codeAlreadyPending:
		return "an operation is already pending for this direction"
	}

	return ""
}

// ErrWouldBlock is returned by Read/Write/Connect/Accept when the operation
// cannot complete yet and must be retried after the registrar signals
// readiness. It is not a failure: no state change accompanies it.
var ErrWouldBlock = codeWouldBlock.Error()

// ErrWrongState is returned when an operation is attempted in a state that
// does not permit it (e.g. Connect on a connection already CONNECTING).
var ErrWrongState = codeWrongState.Error()

// ErrClosed is returned by any accessor called after Close.
var ErrClosed = codeClosed.Error()

// ErrNoFd is returned by fd-dependent accessors on a connection with no
// file descriptor (state NONE, or after Close).
var ErrNoFd = codeNoFd.Error()

// ErrAlreadyPending is returned by SyncRead/SyncWrite/SyncReadline/
// BlockingConnect when another such blocking call is already in flight on
// the same connection (see Connection.BeginSync).
var ErrAlreadyPending = codeAlreadyPending.Error()
