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

// Package syncio is the blocking convenience facade described in
// SPEC_FULL.md §4.5: bootstrap paths (replication/cluster-style
// handshakes, simple request/response probes) that have not been
// asynchronised use it instead of reaching into a conn.Transport's
// Sync* methods directly. It is deliberately not extended beyond this
// need, matching the teacher's own treatment of its blocking socket
// clients as a legacy-compatible layer rather than a first-class API.
package syncio

import (
	"time"

	"github.com/nabbar/go-connio/conn"
)

// ReadLine reads a single newline-terminated line from c, blocking up to
// timeout. A trailing '\r' is stripped.
func ReadLine(c *conn.Connection, timeout time.Duration) (string, error) {
	return c.Transport().SyncReadline(c, timeout)
}

// Read blocks until at least one byte lands in buf, timeout elapses, or
// the peer closes.
func Read(c *conn.Connection, buf []byte, timeout time.Duration) (int, error) {
	return c.Transport().SyncRead(c, buf, timeout)
}

// Write blocks until all of buf has been written or timeout elapses.
func Write(c *conn.Connection, buf []byte, timeout time.Duration) (int, error) {
	return c.Transport().SyncWrite(c, buf, timeout)
}

// Connect blocks until c reaches StateConnected, StateError, or timeout
// elapses. It is the synchronous counterpart of Transport.Connect, used
// only where an event loop is not yet running.
func Connect(c *conn.Connection, host string, port int, timeout time.Duration) error {
	return c.Transport().BlockingConnect(c, host, port, timeout)
}
