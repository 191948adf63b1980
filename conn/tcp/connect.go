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
	"time"

	"github.com/nabbar/go-connio/conn"
	"github.com/nabbar/go-connio/internal/sockopt"
)

func (t *transport) Connect(c *conn.Connection, host string, port int, srcAddr string, onDone conn.ConnectHandler) error {
	if !c.MarkConnecting() {
		return conn.ErrWrongState
	}

	fd, done, err := sockopt.Dial(host, port, srcAddr)
	if err != nil {
		c.MarkError(err)
		return codeConnect.Error(err)
	}

	c.SetFd(fd)
	c.SetConnectHandler(onDone)

	if done {
		// Rare: the connect completed synchronously (e.g. localhost).
		// Still dispatch through EventHandler so the single-shot
		// bookkeeping path is identical either way.
		t.EventHandler(c, fd, conn.Write)
		return nil
	}

	return c.Registrar().Register(fd, conn.Write, func(fd int, userdata any, mask conn.Mask) {
		if cc, ok := userdata.(*conn.Connection); ok {
			t.EventHandler(cc, fd, mask)
		}
	}, c)
}

func (t *transport) BlockingConnect(c *conn.Connection, host string, port int, timeout time.Duration) error {
	if !c.MarkConnecting() {
		return conn.ErrWrongState
	}

	fd, done, err := sockopt.Dial(host, port, "")
	if err != nil {
		c.MarkError(err)
		return codeConnect.Error(err)
	}
	c.SetFd(fd)

	if !done {
		pfd := []pollFd{{fd: fd, events: pollOut}}
		ready, werr := poll(pfd, timeout)
		if werr != nil {
			c.MarkError(werr)
			return codeConnect.Error(werr)
		}
		if !ready {
			c.MarkError(ErrTimeout)
			return ErrTimeout
		}
	}

	if serr := sockopt.SocketError(fd); serr != nil {
		c.MarkError(serr)
		return codeConnect.Error(serr)
	}

	c.MarkConnected()
	return nil
}

func (t *transport) Accept(c *conn.Connection, onDone conn.AcceptHandler) error {
	if c.State() != conn.StateAccepting {
		return conn.ErrWrongState
	}

	// Plain TCP has no handshake: the socket is already usable the
	// instant it was accepted.
	c.MarkConnected()

	if onDone != nil {
		onDone(c)
	}

	return nil
}
