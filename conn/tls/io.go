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

import "github.com/nabbar/go-connio/conn"

// Read implements SPEC_FULL.md §4.4.4: a logical read that may leave
// WRITE-direction physical interest pending if the engine needs to send
// protocol bytes (renegotiation, close-notify) before it can decrypt
// further application data.
func (t *transport) Read(c *conn.Connection, buf []byte) (int, error) {
	if c.State() != conn.StateConnected {
		return 0, conn.ErrWrongState
	}
	s, ok := engineOf(c)
	if !ok {
		return 0, ErrNoEngine
	}

	n, err := s.tlsConn.Read(buf)
	switch classify(err) {
	case resultOK:
		s.pendingHint = n == len(buf)
		return n, nil
	case resultWantRead:
		s.pendingHint = false
		_ = t.reconcileInterest(c)
		return 0, conn.ErrWouldBlock
	case resultWantWrite:
		s.setReadWantWrite(true)
		s.pendingHint = false
		_ = t.reconcileInterest(c)
		return 0, conn.ErrWouldBlock
	case resultZeroReturn:
		c.MarkClosed()
		return 0, nil
	default:
		c.MarkError(err)
		return 0, err
	}
}

// Write implements §4.4.4 symmetrically with READ_WANT_WRITE.
func (t *transport) Write(c *conn.Connection, buf []byte) (int, error) {
	if c.State() != conn.StateConnected {
		return 0, conn.ErrWrongState
	}
	s, ok := engineOf(c)
	if !ok {
		return 0, ErrNoEngine
	}

	n, err := s.tlsConn.Write(buf)
	switch classify(err) {
	case resultOK:
		return n, nil
	case resultWantRead:
		s.setWriteWantRead(true)
		_ = t.reconcileInterest(c)
		return 0, conn.ErrWouldBlock
	case resultWantWrite:
		_ = t.reconcileInterest(c)
		return 0, conn.ErrWouldBlock
	case resultZeroReturn:
		c.MarkClosed()
		return 0, nil
	default:
		c.MarkError(err)
		return 0, err
	}
}

// SetReadHandler installs fn as c's read handler and reconciles physical
// interest to match (§4.4.2): installing a handler may add READ
// interest, clearing one may drop it, unless WRITE_WANT_READ is
// currently holding READ interest open regardless.
func (t *transport) SetReadHandler(c *conn.Connection, fn conn.IOHandler) error {
	c.SetReadHandler(fn)
	return t.reconcileInterest(c)
}

// SetWriteHandler is the write-direction equivalent of SetReadHandler.
func (t *transport) SetWriteHandler(c *conn.Connection, fn conn.IOHandler) error {
	c.SetWriteHandler(fn)
	return t.reconcileInterest(c)
}
