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
	ctls "crypto/tls"
	"time"

	"github.com/nabbar/go-connio/conn"
	"github.com/nabbar/go-connio/internal/sockopt"

	"golang.org/x/sys/unix"
)

// Connect dials host:port over plain TCP; the TLS handshake itself is
// driven by EventHandler once the socket connects, exactly like plain
// TCP's connect-then-event-drives-state-machine shape (conn/tcp/connect.go)
// but with an extra CONNECTING sub-phase for the handshake.
func (t *transport) Connect(c *conn.Connection, host string, port int, srcAddr string, onDone conn.ConnectHandler) error {
	if !c.MarkConnecting() {
		return conn.ErrWrongState
	}

	fd, done, err := sockopt.Dial(host, port, srcAddr)
	if err != nil {
		c.MarkError(err)
		return codeHandshake.Error(err)
	}

	c.SetFd(fd)
	c.SetConnectHandler(onDone)

	raw := newNetConn(fd)
	s := newState(raw)
	s.tlsConn = ctls.Client(raw, t.config())
	c.SetPrivateData(s)

	if done {
		t.EventHandler(c, fd, conn.Write)
		return nil
	}

	return c.Registrar().Register(fd, conn.Write, func(fd int, _ any, mask conn.Mask) {
		t.EventHandler(c, fd, mask)
	}, c)
}

// BlockingConnect is the synchronous bootstrap variant (syncio). It
// completes the TCP connect and the full TLS handshake before
// returning.
func (t *transport) BlockingConnect(c *conn.Connection, host string, port int, timeout time.Duration) error {
	if !c.MarkConnecting() {
		return conn.ErrWrongState
	}

	fd, done, err := sockopt.Dial(host, port, "")
	if err != nil {
		c.MarkError(err)
		return codeHandshake.Error(err)
	}

	if !done {
		ready, perr := poll(fd, unix.POLLOUT, timeout)
		if perr != nil {
			c.MarkError(perr)
			return codeHandshake.Error(perr)
		}
		if !ready {
			terr := codeTimeout.Error()
			c.MarkError(terr)
			return terr
		}
		if serr := sockopt.SocketError(fd); serr != nil {
			c.MarkError(serr)
			return codeHandshake.Error(serr)
		}
	}

	c.SetFd(fd)

	if err := sockopt.SetBlocking(fd, true); err != nil {
		return err
	}
	defer func() { _ = sockopt.SetBlocking(fd, false) }()

	raw := newNetConn(fd)
	s := newState(raw)
	s.tlsConn = ctls.Client(raw, t.config())
	c.SetPrivateData(s)

	if herr := s.tlsConn.Handshake(); herr != nil {
		c.MarkError(herr)
		return codeHandshake.Error(herr)
	}

	s.handshakeDone = true
	c.MarkConnected()
	return nil
}

// Accept advances an accepted connection through the server-side
// handshake. onDone fires once the handshake finishes or fails.
func (t *transport) Accept(c *conn.Connection, onDone conn.AcceptHandler) error {
	if c.State() != conn.StateAccepting {
		return conn.ErrWrongState
	}

	raw := newNetConn(c.Fd())
	s := newState(raw)
	s.tlsConn = ctls.Server(raw, t.config())
	c.SetPrivateData(s)
	c.SetAcceptHandler(onDone)

	t.driveHandshake(c, s)
	return nil
}
