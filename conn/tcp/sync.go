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

package tcp

import (
	"strings"
	"time"

	"github.com/nabbar/go-connio/conn"
	"github.com/nabbar/go-connio/internal/sockopt"

	"golang.org/x/sys/unix"
)

// SyncRead, SyncWrite and SyncReadline are the deprecated bootstrap
// convenience of SPEC_FULL.md §4.5: not extended beyond what replication/
// cluster-style handshakes need. See the syncio package for the facade
// that host applications are expected to use instead of calling these
// directly.
func (t *transport) SyncRead(c *conn.Connection, buf []byte, timeout time.Duration) (int, error) {
	if !c.BeginSync() {
		return 0, conn.ErrAlreadyPending
	}
	defer c.EndSync()
	return syncRead(c, buf, timeout)
}

// syncRead is the unguarded core shared by SyncRead and SyncReadline, so
// SyncReadline's own BeginSync/EndSync pair (one per line, not one per
// byte) does not deadlock against SyncRead's guard.
func syncRead(c *conn.Connection, buf []byte, timeout time.Duration) (int, error) {
	fd := c.Fd()
	if fd < 0 {
		return 0, conn.ErrNoFd
	}

	if err := sockopt.SetBlocking(fd, true); err != nil {
		return 0, err
	}
	defer func() {
		_ = sockopt.SetBlocking(fd, false)
		_ = sockopt.SetRecvTimeout(fd, 0)
	}()

	if err := sockopt.SetRecvTimeout(fd, timeout); err != nil {
		return 0, err
	}

	n, err := unix.Read(fd, buf)
	if err != nil {
		if sockopt.WouldBlock(err) {
			return 0, ErrTimeout
		}
		c.MarkError(err)
		return 0, err
	}
	if n == 0 {
		c.MarkClosed()
	}
	return n, nil
}

func (t *transport) SyncWrite(c *conn.Connection, buf []byte, timeout time.Duration) (int, error) {
	if !c.BeginSync() {
		return 0, conn.ErrAlreadyPending
	}
	defer c.EndSync()

	fd := c.Fd()
	if fd < 0 {
		return 0, conn.ErrNoFd
	}

	if err := sockopt.SetBlocking(fd, true); err != nil {
		return 0, err
	}
	defer func() {
		_ = sockopt.SetBlocking(fd, false)
		_ = sockopt.SetSendTimeout(fd, 0)
	}()

	if err := sockopt.SetSendTimeout(fd, timeout); err != nil {
		return 0, err
	}

	total := 0
	for total < len(buf) {
		n, err := unix.Write(fd, buf[total:])
		if err != nil {
			if sockopt.WouldBlock(err) {
				return total, ErrTimeout
			}
			c.MarkError(err)
			return total, err
		}
		total += n
	}
	return total, nil
}

// SyncReadline reads one byte at a time until '\n'; a trailing '\r' is
// stripped. The per-syscall timeout means total time may exceed timeout
// if bytes trickle in slowly (SPEC_FULL.md §4.5 caveat).
func (t *transport) SyncReadline(c *conn.Connection, timeout time.Duration) (string, error) {
	if !c.BeginSync() {
		return "", conn.ErrAlreadyPending
	}
	defer c.EndSync()

	fd := c.Fd()
	if fd < 0 {
		return "", conn.ErrNoFd
	}

	var sb strings.Builder
	buf := make([]byte, 1)

	for {
		n, err := syncRead(c, buf, timeout)
		if err != nil {
			return "", err
		}
		if n == 0 {
			return "", conn.ErrClosed
		}
		if buf[0] == '\n' {
			break
		}
		sb.WriteByte(buf[0])
	}

	return strings.TrimSuffix(sb.String(), "\r"), nil
}
