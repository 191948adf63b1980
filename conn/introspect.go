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

import (
	"time"

	"github.com/nabbar/go-connio/internal/sockopt"
)

// These thin accessors back SPEC_FULL.md §4.6: all validate that the
// connection still owns an fd before touching the socket.

// EnableNoDelay turns TCP_NODELAY on for c's socket.
func EnableNoDelay(c *Connection) error {
	return setNoDelay(c, true)
}

// DisableNoDelay turns TCP_NODELAY off for c's socket.
func DisableNoDelay(c *Connection) error {
	return setNoDelay(c, false)
}

func setNoDelay(c *Connection, enabled bool) error {
	fd := c.Fd()
	if fd < 0 {
		return ErrNoFd
	}
	return sockopt.SetNoDelay(fd, enabled)
}

// SetKeepAlive enables SO_KEEPALIVE on c's socket with the given idle
// interval before the first probe.
func SetKeepAlive(c *Connection, interval time.Duration) error {
	fd := c.Fd()
	if fd < 0 {
		return ErrNoFd
	}
	return sockopt.SetKeepAlive(fd, interval)
}

// SetSendTimeout installs SO_SNDTIMEO on c's socket.
func SetSendTimeout(c *Connection, d time.Duration) error {
	fd := c.Fd()
	if fd < 0 {
		return ErrNoFd
	}
	return sockopt.SetSendTimeout(fd, d)
}

// SetBlocking toggles c's socket between blocking and non-blocking mode;
// used internally by the sync-I/O paths and exposed for callers that need
// the same behavior directly.
func SetBlocking(c *Connection, blocking bool) error {
	fd := c.Fd()
	if fd < 0 {
		return ErrNoFd
	}
	return sockopt.SetBlocking(fd, blocking)
}

// SocketError retrieves and clears SO_ERROR for c's socket: the deferred
// error from an asynchronous connect.
func SocketError(c *Connection) error {
	fd := c.Fd()
	if fd < 0 {
		return ErrNoFd
	}
	return sockopt.SocketError(fd)
}
