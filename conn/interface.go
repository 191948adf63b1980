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

// Package conn defines the connection abstraction shared by every concrete
// transport in this module: a Transport capability set, a Connection record
// carrying lifecycle state and handler slots, and the Registrar contract a
// host application's I/O readiness loop must satisfy.
//
// Transport implementations (conn/tcp, conn/tls) are plugged in at
// connection-creation time and never change for the life of a connection.
// All entry points on Transport are non-blocking except BlockingConnect and
// the SyncRead/SyncWrite/SyncReadline family, which exist only for bootstrap
// paths that have not been asynchronised (see the syncio package).
package conn

import "time"

// ConnectHandler is invoked once when an outbound connection finishes
// connecting, successfully or not. It is a single-shot handler: cleared
// before it runs.
type ConnectHandler func(c *Connection)

// AcceptHandler is invoked once when an accepted connection's server-side
// handshake (if any) finishes. Single-shot, same as ConnectHandler.
type AcceptHandler func(c *Connection)

// IOHandler is invoked whenever a connection becomes ready for a logical
// read or write. Unlike Connect/AcceptHandler it persists across
// invocations until replaced or cleared.
type IOHandler func(c *Connection)

// Transport is the capability set a concrete connection kind (plain TCP,
// TLS) must implement. It is the only polymorphism point in this module:
// everything else operates on *Connection through this interface.
type Transport interface {
	// Connect initiates a non-blocking outbound connect from c to
	// host:port, optionally binding srcAddr first. on_done fires exactly
	// once, when c reaches StateConnected or StateError. Connect returns
	// an error immediately for immediate failures (bad address, socket
	// creation failure); it does not return ErrWouldBlock.
	Connect(c *Connection, host string, port int, srcAddr string, onDone ConnectHandler) error

	// BlockingConnect is a synchronous variant used only at bootstrap
	// (see syncio). It blocks the calling goroutine until connected,
	// failed, or timeout elapses.
	BlockingConnect(c *Connection, host string, port int, timeout time.Duration) error

	// Accept advances an Accepting connection. onDone fires when the
	// server-side handshake (if any) completes or fails; for transports
	// with no handshake (plain TCP) it may fire onDone synchronously,
	// before Accept returns.
	Accept(c *Connection, onDone AcceptHandler) error

	// Read attempts a non-blocking read into buf. It returns
	// (0, ErrWouldBlock) if no data is available yet, (0, nil) on clean
	// peer close, or (n, nil) for n bytes read.
	Read(c *Connection, buf []byte) (int, error)

	// Write attempts a non-blocking write of buf. It returns
	// (0, ErrWouldBlock) if the transport cannot accept bytes right now.
	Write(c *Connection, buf []byte) (int, error)

	// SetReadHandler installs fn as c's read handler, or clears it when
	// fn is nil. Installing the same function twice in a row is a no-op;
	// clearing deregisters physical read interest once the transport has
	// no internal need for it (see conn/tls inversion accounting).
	SetReadHandler(c *Connection, fn IOHandler) error

	// SetWriteHandler is the write-direction equivalent of
	// SetReadHandler.
	SetWriteHandler(c *Connection, fn IOHandler) error

	// SyncRead, SyncWrite and SyncReadline are blocking convenience
	// operations for bootstrap paths; see the syncio package and
	// SPEC_FULL.md §4.5.
	SyncRead(c *Connection, buf []byte, timeout time.Duration) (int, error)
	SyncWrite(c *Connection, buf []byte, timeout time.Duration) (int, error)
	SyncReadline(c *Connection, timeout time.Duration) (string, error)

	// Close performs an orderly shutdown: deregisters physical interest,
	// optionally shuts down the socket, frees transport-specific
	// resources, then closes the fd. After Close returns, c is unusable.
	Close(c *Connection, doShutdown bool) error

	// LastError returns a human-readable description of the last error
	// recorded on c, or "none" if there is none.
	LastError(c *Connection) string

	// EventHandler is called by the Registrar on physical readiness. It
	// advances the state machine (handshake progress) and dispatches
	// user callbacks according to SPEC_FULL.md §4.3/§4.4.
	EventHandler(c *Connection, fd int, mask Mask)

	// HasPending reports whether the transport is holding plaintext it
	// cannot surface from a physical read event (TLS only; see
	// SPEC_FULL.md §4.4.5). Plain TCP always returns false.
	HasPending(c *Connection) bool
}
