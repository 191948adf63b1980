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

	"golang.org/x/sys/unix"
)

func (t *transport) Close(c *conn.Connection, doShutdown bool) error {
	if c.Closed() {
		return conn.ErrClosed
	}

	fd := c.Fd()
	if fd >= 0 {
		_ = c.Registrar().Deregister(fd, conn.Read|conn.Write)

		if doShutdown {
			_ = unix.Shutdown(fd, unix.SHUT_RDWR)
		}

		_ = unix.Close(fd)
	}

	c.MarkFreed()
	return nil
}

func (t *transport) LastError(c *conn.Connection) string {
	if err := c.LastError(); err != nil {
		return err.Error()
	}
	return "none"
}
