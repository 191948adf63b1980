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
)

// EventHandler implements SPEC_FULL.md §4.3: the connect-completion path
// fires before regular write dispatch, and a write handler installed from
// inside the connect callback survives to be considered in this same
// invocation (re-read after the connect branch, not cached before it).
func (t *transport) EventHandler(c *conn.Connection, fd int, mask conn.Mask) {
	if c.State() == conn.StateConnecting && mask.Has(conn.Write) {
		if err := sockopt.SocketError(fd); err != nil {
			c.MarkError(err)
		} else {
			c.MarkConnected()
		}

		// Single-shot: popped and cleared before invocation so a
		// callback that calls Connect again (on a different
		// connection) or installs a new write handler on this one
		// is never confused with the connect-completion slot.
		if fn := c.PopConnectHandler(); fn != nil {
			gen := c.Live()
			fn(c)
			if c.Ended(gen) {
				return
			}
		}

		// The WRITE interest registered for the connect itself is no
		// longer wanted; reconcile against whatever write handler (if
		// any) the connect callback installed, so a connection with
		// no write handler does not spin on an idle writable socket.
		if c.State() == conn.StateConnected {
			_ = t.reconcile(c, conn.Write, c.WriteHandler() != nil)
		}
	}

	if c.State() != conn.StateConnected {
		return
	}

	if mask.Has(conn.Read) {
		if fn := c.ReadHandler(); fn != nil {
			gen := c.Live()
			fn(c)
			if c.Ended(gen) {
				return
			}
		}
	}

	if mask.Has(conn.Write) {
		if fn := c.WriteHandler(); fn != nil {
			gen := c.Live()
			fn(c)
			if c.Ended(gen) {
				return
			}
		}
	}
}
