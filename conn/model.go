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

package conn

import (
	"reflect"

	"github.com/nabbar/go-connio/atomic"
)

// Connection is the shared record every transport operates on: lifecycle
// state, last error, handler slots, fd, and an opaque private-data slot. It
// is exclusively owned by the caller from creation to Close; a Registrar
// holds only a non-owning reference for the duration of registered
// interest (see SPEC_FULL.md §3).
//
// A Connection is never touched from more than one goroutine at a time in
// normal use (the single-threaded dispatch model of SPEC_FULL.md §5); the
// state word uses atomic storage only so introspection callers (metrics,
// diagnostics) can read it concurrently without racing the dispatch thread.
type Connection struct {
	transport Transport
	registrar Registrar

	state atomic.Value[State]
	fd    int
	peer  string

	lastErr     error
	private     any
	freed       bool
	generation  uint64
	syncPending bool

	readHandler   IOHandler
	readHandlerID uintptr

	writeHandler   IOHandler
	writeHandlerID uintptr

	connectHandler ConnectHandler
	acceptHandler  AcceptHandler
}

// NewOutbound allocates a Connection for an as-yet-unconnected outbound
// socket: state NONE, fd -1. The caller must then call transport.Connect.
func NewOutbound(transport Transport, registrar Registrar) *Connection {
	c := &Connection{
		transport: transport,
		registrar: registrar,
		fd:        -1,
	}
	c.state = atomic.NewValue[State]()
	c.state.Store(StateNone)
	return c
}

// NewAccepted allocates a Connection for an already-accepted fd: state
// ACCEPTING. The caller must then call transport.Accept.
func NewAccepted(transport Transport, registrar Registrar, fd int) *Connection {
	c := &Connection{
		transport: transport,
		registrar: registrar,
		fd:        fd,
	}
	c.state = atomic.NewValue[State]()
	c.state.Store(StateAccepting)
	return c
}

// Transport returns the transport fixed at creation for this connection.
func (c *Connection) Transport() Transport {
	return c.transport
}

// Registrar returns the readiness registrar this connection was created
// against.
func (c *Connection) Registrar() Registrar {
	return c.registrar
}

// State returns the connection's current lifecycle state.
func (c *Connection) State() State {
	return c.state.Load()
}

// MarkConnecting transitions a freshly allocated outbound connection
// (state NONE) to CONNECTING. It is a no-op if the connection is not in
// NONE, since Connect must not be called twice (SPEC_FULL.md §8, misuse).
func (c *Connection) MarkConnecting() bool {
	if c.State() != StateNone {
		return false
	}
	c.state.Store(StateConnecting)
	return true
}

// MarkConnected transitions the connection to CONNECTED. It is a no-op
// (besides the store) and does not itself enforce that the prior state
// permitted the move: that discipline belongs to the transport's state
// machine, which alone knows when a handshake has actually completed.
func (c *Connection) MarkConnected() {
	c.state.Store(StateConnected)
}

// MarkError transitions the connection to ERROR and records err as the
// last error. No state transition occurs if the connection is already
// terminal (ERROR or CLOSED): SPEC_FULL.md §3 invariant 4 forbids
// backward or lateral moves once terminal.
func (c *Connection) MarkError(err error) {
	if c.State().Terminal() {
		return
	}
	c.lastErr = err
	c.state.Store(StateError)
}

// MarkClosed transitions the connection to CLOSED (clean peer close, as
// opposed to Close, which is the caller-initiated teardown that frees the
// record).
func (c *Connection) MarkClosed() {
	if c.State().Terminal() {
		return
	}
	c.state.Store(StateClosed)
}

// Fd returns the connection's file descriptor, or -1 if it has none (state
// NONE, or after Close).
func (c *Connection) Fd() int {
	if c.freed {
		return -1
	}
	return c.fd
}

// SetFd installs fd on the connection. Used by transports during
// Connect/Accept once the underlying socket exists.
func (c *Connection) SetFd(fd int) {
	c.fd = fd
}

// LastError returns the last error recorded on the connection, or nil.
func (c *Connection) LastError() error {
	return c.lastErr
}

// SetLastError records err as the connection's last error without
// changing state. Used for would-block and other non-fatal conditions
// that still want LastError() populated for diagnostics.
func (c *Connection) SetLastError(err error) {
	c.lastErr = err
}

// PrivateData returns the opaque value stored via SetPrivateData. The core
// never dereferences or interprets it.
func (c *Connection) PrivateData() any {
	return c.private
}

// SetPrivateData stores an opaque value on the connection.
func (c *Connection) SetPrivateData(v any) {
	c.private = v
}

// PeerName returns the cached peer address string, if one was set.
func (c *Connection) PeerName() string {
	return c.peer
}

// SetPeerName caches a human-readable peer address for introspection.
func (c *Connection) SetPeerName(s string) {
	c.peer = s
}

// ReadHandler returns the currently installed read handler, or nil.
func (c *Connection) ReadHandler() IOHandler {
	return c.readHandler
}

// WriteHandler returns the currently installed write handler, or nil.
func (c *Connection) WriteHandler() IOHandler {
	return c.writeHandler
}

// funcID returns a stable identity for comparing func values across calls,
// since Go func values are not comparable with ==. Two distinct closures
// wrapping the same logical callback will compare unequal; callers that
// want true idempotence should pass the same function value, not a
// freshly-built closure, on repeated calls.
func funcID(fn any) uintptr {
	if fn == nil {
		return 0
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return 0
	}
	return v.Pointer()
}

// SetReadHandler installs fn as the read handler, or clears it when fn is
// nil. It reports whether the slot actually changed, so callers (the
// concrete transport) can skip a redundant registrar call when the same
// handler is installed twice in a row (SPEC_FULL.md §8, handler
// idempotence).
func (c *Connection) SetReadHandler(fn IOHandler) (changed bool) {
	id := funcID(fn)
	if id == c.readHandlerID && (fn == nil) == (c.readHandler == nil) {
		return false
	}
	c.readHandler = fn
	c.readHandlerID = id
	return true
}

// SetWriteHandler is the write-direction equivalent of SetReadHandler.
func (c *Connection) SetWriteHandler(fn IOHandler) (changed bool) {
	id := funcID(fn)
	if id == c.writeHandlerID && (fn == nil) == (c.writeHandler == nil) {
		return false
	}
	c.writeHandler = fn
	c.writeHandlerID = id
	return true
}

// SetConnectHandler installs the single-shot connect-completion handler.
func (c *Connection) SetConnectHandler(fn ConnectHandler) {
	c.connectHandler = fn
}

// PopConnectHandler clears and returns the connect handler, so the caller
// can invoke it after it is already removed from the slot (SPEC_FULL.md
// §5, re-entrancy: single-shot handlers are removed before being called).
func (c *Connection) PopConnectHandler() ConnectHandler {
	fn := c.connectHandler
	c.connectHandler = nil
	return fn
}

// SetAcceptHandler installs the single-shot accept-completion handler.
func (c *Connection) SetAcceptHandler(fn AcceptHandler) {
	c.acceptHandler = fn
}

// PopAcceptHandler clears and returns the accept handler.
func (c *Connection) PopAcceptHandler() AcceptHandler {
	fn := c.acceptHandler
	c.acceptHandler = nil
	return fn
}

// Generation returns a counter bumped by MarkFreed, used by transports to
// detect that a connection was closed re-entrantly from inside a user
// callback mid-dispatch (the "live" sentinel of SPEC_FULL.md §5/§9).
func (c *Connection) Generation() uint64 {
	return c.generation
}

// Closed reports whether Close has already been called on this
// connection.
func (c *Connection) Closed() bool {
	return c.freed
}

// MarkFreed records that Close has run: the fd and record are considered
// released, and any further accessor should observe ErrClosed. Bumps the
// generation counter so in-flight dispatch loops can detect the
// connection no longer being live.
func (c *Connection) MarkFreed() {
	c.freed = true
	c.fd = -1
	c.generation++
}

// BeginSync marks a blocking SyncRead/SyncWrite/SyncReadline/BlockingConnect
// call as in flight on this connection, reporting false if one is already
// running (ErrAlreadyPending, SPEC_FULL.md §4.5: these calls flip the fd's
// blocking mode and must not interleave). Callers must pair a successful
// BeginSync with EndSync.
func (c *Connection) BeginSync() bool {
	if c.syncPending {
		return false
	}
	c.syncPending = true
	return true
}

// EndSync clears the in-flight marker set by BeginSync.
func (c *Connection) EndSync() {
	c.syncPending = false
}

// Live captures the generation at dispatch start; call Ended after a user
// callback to check whether the connection was closed re-entrantly during
// that callback.
func (c *Connection) Live() uint64 {
	return c.generation
}

// Ended reports whether the connection stopped being live since gen was
// captured by Live: either Close ran (generation changed) or it is
// already marked freed.
func (c *Connection) Ended(gen uint64) bool {
	return c.freed || c.generation != gen
}
