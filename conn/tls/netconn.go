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
	"io"
	"net"
	"time"

	"github.com/nabbar/go-connio/internal/sockopt"

	"golang.org/x/sys/unix"
)

// direction identifies which logical operation a wantBlock error stands
// in for, so the caller can tell WANT_READ from WANT_WRITE without
// re-inspecting errno.
type direction uint8

const (
	dirRead direction = iota
	dirWrite
)

// wantBlock is returned by netConn.Read/Write in place of the raw
// EAGAIN/EWOULDBLOCK syscall error. crypto/tls.Conn propagates
// Read/Write errors from its underlying net.Conn unchanged, so the TLS
// transport's engine-return classifier (engine.go) can type-assert this
// value straight out of Handshake/Read/Write and knows, without
// inspecting errno again, which physical direction the engine is
// blocked on.
type wantBlock struct{ dir direction }

func (e *wantBlock) Error() string   { return "socket operation would block" }
func (e *wantBlock) Timeout() bool   { return false }
func (e *wantBlock) Temporary() bool { return true }

// netConn adapts a raw non-blocking unix fd into a net.Conn so
// crypto/tls.Conn can be driven over it as the in-memory engine this
// package wraps. Deadlines are not honored: reads and writes either
// complete immediately or surface *wantBlock, exactly the shape the TLS
// transport needs to translate into WANT_READ/WANT_WRITE (SPEC_FULL.md
// §4.4.1).
type netConn struct {
	fd     int
	local  net.Addr
	remote net.Addr
}

func newNetConn(fd int) *netConn {
	return &netConn{fd: fd, local: fdAddr{}, remote: fdAddr{}}
}

func (n *netConn) Read(b []byte) (int, error) {
	nr, err := unix.Read(n.fd, b)
	if err != nil {
		if sockopt.WouldBlock(err) {
			return 0, &wantBlock{dir: dirRead}
		}
		return 0, err
	}
	if nr == 0 {
		return 0, io.EOF
	}
	return nr, nil
}

func (n *netConn) Write(b []byte) (int, error) {
	nw, err := unix.Write(n.fd, b)
	if err != nil {
		if sockopt.WouldBlock(err) {
			return nw, &wantBlock{dir: dirWrite}
		}
		return nw, err
	}
	return nw, nil
}

// Close is a no-op: fd lifecycle belongs to the conn.Connection and the
// transport's own Close, not to this adapter.
func (n *netConn) Close() error                       { return nil }
func (n *netConn) LocalAddr() net.Addr                { return n.local }
func (n *netConn) RemoteAddr() net.Addr               { return n.remote }
func (n *netConn) SetDeadline(_ time.Time) error      { return nil }
func (n *netConn) SetReadDeadline(_ time.Time) error  { return nil }
func (n *netConn) SetWriteDeadline(_ time.Time) error { return nil }

// fdAddr is a placeholder net.Addr: the transport reports peer identity
// via conn.Connection.PeerName, not through this internal adapter.
type fdAddr struct{}

func (fdAddr) Network() string { return "fd" }
func (fdAddr) String() string  { return "fd" }
