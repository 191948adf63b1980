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

package tls

import (
	"strings"
	"time"

	"github.com/nabbar/go-connio/conn"
	"github.com/nabbar/go-connio/internal/sockopt"
)

// SyncRead, SyncWrite and SyncReadline are the bootstrap convenience of
// SPEC_FULL.md §4.5 (see the syncio package for the facade): they toggle
// the underlying fd to blocking mode with an OS-level timeout, then drive
// the same *crypto/tls.Conn engine used by the non-blocking path, so
// handshake state and inversion bookkeeping stay consistent either way.
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
	s, ok := engineOf(c)
	if !ok {
		return 0, ErrNoEngine
	}
	fd := c.Fd()
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

	n, err := s.tlsConn.Read(buf)
	switch classify(err) {
	case resultOK:
		return n, nil
	case resultWantRead, resultWantWrite:
		return 0, codeTimeout.Error(err)
	case resultZeroReturn:
		c.MarkClosed()
		return 0, nil
	default:
		c.MarkError(err)
		return 0, err
	}
}

func (t *transport) SyncWrite(c *conn.Connection, buf []byte, timeout time.Duration) (int, error) {
	if !c.BeginSync() {
		return 0, conn.ErrAlreadyPending
	}
	defer c.EndSync()

	s, ok := engineOf(c)
	if !ok {
		return 0, ErrNoEngine
	}
	fd := c.Fd()
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

	n, err := s.tlsConn.Write(buf)
	switch classify(err) {
	case resultOK:
		return n, nil
	case resultWantRead, resultWantWrite:
		return 0, codeTimeout.Error(err)
	case resultZeroReturn:
		c.MarkClosed()
		return 0, nil
	default:
		c.MarkError(err)
		return 0, err
	}
}

// SyncReadline reads a single newline-terminated line, one byte at a
// time, stripping a trailing '\r'.
func (t *transport) SyncReadline(c *conn.Connection, timeout time.Duration) (string, error) {
	if !c.BeginSync() {
		return "", conn.ErrAlreadyPending
	}
	defer c.EndSync()

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
