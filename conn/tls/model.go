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

// engineOf retrieves the per-connection TLS state stashed in c's
// private-data slot. Opaque to conn itself (SPEC_FULL.md's "private
// data is never dereferenced outside the owning transport" rule); only
// this package's files may type-assert it.
func engineOf(c *conn.Connection) (*state, bool) {
	s, ok := c.PrivateData().(*state)
	return s, ok
}

// needInterest is SPEC_FULL.md §4.4.2's pure function: physical
// interest is the union of the user-requested direction and whatever
// direction the engine is currently blocked on.
func needInterest(c *conn.Connection, s *state) (needRead, needWrite bool) {
	needRead = c.ReadHandler() != nil || s.writeWantRead()
	needWrite = c.WriteHandler() != nil || s.readWantWrite()
	return
}

// reconcile registers or deregisters physical interest in dir to match
// want, mirroring plain TCP's reconcile helper (conn/tcp/io.go) but
// shared across connect/accept/event/io in this package.
func (t *transport) reconcile(c *conn.Connection, dir conn.Mask, want bool) error {
	has := c.Registrar().Query(c.Fd()).Has(dir)
	if want == has {
		return nil
	}
	if want {
		return c.Registrar().Register(c.Fd(), dir, func(fd int, _ any, mask conn.Mask) {
			t.EventHandler(c, fd, mask)
		}, c)
	}
	return c.Registrar().Deregister(c.Fd(), dir)
}

// reconcileInterest recomputes and applies physical interest for both
// directions per §4.4.2. Called after every engine call and at the end
// of EventHandler's dispatch, except mid-handshake where the handshake
// driver registers only its single requested direction directly.
func (t *transport) reconcileInterest(c *conn.Connection) error {
	s, ok := engineOf(c)
	if !ok {
		return ErrNoEngine
	}
	needRead, needWrite := needInterest(c, s)
	if err := t.reconcile(c, conn.Read, needRead); err != nil {
		return err
	}
	return t.reconcile(c, conn.Write, needWrite)
}

func (t *transport) HasPending(c *conn.Connection) bool {
	s, ok := engineOf(c)
	if !ok {
		return false
	}
	return s.pendingHint
}

func (t *transport) LastError(c *conn.Connection) string {
	if err := c.LastError(); err != nil {
		return err.Error()
	}
	return "none"
}
