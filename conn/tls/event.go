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
	"github.com/nabbar/go-connio/conn"
	"github.com/nabbar/go-connio/internal/sockopt"
)

// driveHandshake runs one engine round trip of the handshake and acts on
// the outcome per SPEC_FULL.md §4.4.3: on WANT_* it registers only the
// single direction the engine asked for and returns without touching the
// other direction, so later logical-handler bookkeeping cannot clobber a
// handshake still in flight. Every terminal outcome — success, peer
// closing mid-handshake, or a fatal error — fires the connect/accept
// handler exactly once (spec.md §4.1: "on_done(conn) to fire once the
// connection is either CONNECTED or ERROR"), so a caller's callback is
// never stranded by a failed handshake.
func (t *transport) driveHandshake(c *conn.Connection, s *state) {
	err := s.tlsConn.Handshake()
	switch classify(err) {
	case resultOK:
		s.handshakeDone = true
		c.MarkConnected()
		t.fireLifecycleHandler(c)
		_ = t.reconcileInterest(c)
	case resultWantRead:
		_ = t.reconcile(c, conn.Write, false)
		_ = t.reconcile(c, conn.Read, true)
	case resultWantWrite:
		_ = t.reconcile(c, conn.Read, false)
		_ = t.reconcile(c, conn.Write, true)
	case resultZeroReturn:
		c.MarkClosed()
		t.fireLifecycleHandler(c)
	default:
		c.MarkError(err)
		t.fireLifecycleHandler(c)
	}
}

// fireLifecycleHandler pops and invokes whichever single-shot handler
// applies to c's origin (outbound connect or inbound accept), honoring
// the reentrancy sentinel around the callback.
func (t *transport) fireLifecycleHandler(c *conn.Connection) {
	gen := c.Live()
	if fn := c.PopConnectHandler(); fn != nil {
		fn(c)
		return
	}
	if c.Ended(gen) {
		return
	}
	if fn := c.PopAcceptHandler(); fn != nil {
		fn(c)
	}
}

// EventHandler is the Registrar's entry point into this transport,
// advancing the handshake state machine or dispatching logical
// read/write handlers per SPEC_FULL.md §4.4.3.
func (t *transport) EventHandler(c *conn.Connection, fd int, mask conn.Mask) {
	s, ok := engineOf(c)
	if !ok {
		return
	}

	switch c.State() {
	case conn.StateConnecting:
		if mask.Has(conn.Write) {
			if err := sockopt.SocketError(fd); err != nil {
				c.MarkError(err)
				t.fireLifecycleHandler(c)
				return
			}
		}
		t.driveHandshake(c, s)
	case conn.StateAccepting:
		t.driveHandshake(c, s)
	case conn.StateConnected:
		t.dispatchConnected(c, s, mask)
	}
}

// dispatchConnected implements the four-step ordering of §4.4.3: inverted
// directions first (each bit cleared before its callback runs), then
// same-direction dispatch, then a final reconcile.
func (t *transport) dispatchConnected(c *conn.Connection, s *state, mask conn.Mask) {
	readFiredHandler := false
	writeFiredHandler := false

	if mask.Has(conn.Read) && s.writeWantRead() {
		s.setWriteWantRead(false)
		if fn := c.WriteHandler(); fn != nil {
			gen := c.Live()
			fn(c)
			writeFiredHandler = true
			if c.Ended(gen) {
				return
			}
		}
	}
	if mask.Has(conn.Write) && s.readWantWrite() {
		s.setReadWantWrite(false)
		if fn := c.ReadHandler(); fn != nil {
			gen := c.Live()
			fn(c)
			readFiredHandler = true
			if c.Ended(gen) {
				return
			}
		}
	}
	if mask.Has(conn.Read) && !readFiredHandler {
		if fn := c.ReadHandler(); fn != nil {
			gen := c.Live()
			fn(c)
			if c.Ended(gen) {
				return
			}
		}
	}
	if mask.Has(conn.Write) && !writeFiredHandler {
		if fn := c.WriteHandler(); fn != nil {
			gen := c.Live()
			fn(c)
			if c.Ended(gen) {
				return
			}
		}
	}

	_ = t.reconcileInterest(c)
}
