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
	"github.com/nabbar/go-connio/conn"
	"github.com/nabbar/go-connio/internal/sockopt"

	"golang.org/x/sys/unix"
)

func (t *transport) Read(c *conn.Connection, buf []byte) (int, error) {
	fd := c.Fd()
	if fd < 0 {
		return 0, conn.ErrNoFd
	}

	n, err := unix.Read(fd, buf)
	if err != nil {
		if sockopt.WouldBlock(err) {
			return 0, conn.ErrWouldBlock
		}
		c.MarkError(err)
		return 0, err
	}

	if n == 0 {
		c.MarkClosed()
		return 0, nil
	}

	return n, nil
}

func (t *transport) Write(c *conn.Connection, buf []byte) (int, error) {
	fd := c.Fd()
	if fd < 0 {
		return 0, conn.ErrNoFd
	}

	n, err := unix.Write(fd, buf)
	if err != nil {
		if sockopt.WouldBlock(err) {
			return 0, conn.ErrWouldBlock
		}
		c.MarkError(err)
		return 0, err
	}

	return n, nil
}

func (t *transport) SetReadHandler(c *conn.Connection, fn conn.IOHandler) error {
	if !c.SetReadHandler(fn) {
		return nil
	}
	return t.reconcile(c, conn.Read, fn != nil)
}

func (t *transport) SetWriteHandler(c *conn.Connection, fn conn.IOHandler) error {
	if !c.SetWriteHandler(fn) {
		return nil
	}
	return t.reconcile(c, conn.Write, fn != nil)
}

func (t *transport) reconcile(c *conn.Connection, dir conn.Mask, want bool) error {
	fd := c.Fd()
	if fd < 0 {
		return conn.ErrNoFd
	}

	reg := c.Registrar()
	if want {
		return reg.Register(fd, dir, func(fd int, userdata any, mask conn.Mask) {
			if cc, ok := userdata.(*conn.Connection); ok {
				t.EventHandler(cc, fd, mask)
			}
		}, c)
	}
	return reg.Deregister(fd, dir)
}

func (t *transport) HasPending(c *conn.Connection) bool {
	// Plain TCP never buffers plaintext the registrar can't see: every
	// byte that could be read is visible as socket-level readability.
	return false
}
