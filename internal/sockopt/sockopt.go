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

// Package sockopt wraps the raw socket-level option syscalls shared by the
// concrete transports: TCP_NODELAY, keepalive interval, send/receive
// timeouts, non-blocking toggling, and socket-level error retrieval. None
// of this is specific to TLS or plain TCP, so it lives below both in
// internal/ rather than being duplicated.
package sockopt

import (
	"net"
	"strconv"
	"time"

	"golang.org/x/sys/unix"
)

// Dial creates a non-blocking TCP socket and begins an asynchronous
// connect to host:port, optionally bound to srcAddr first. It returns the
// new fd and whether the connect completed synchronously (rare, e.g.
// connecting to localhost) so the caller can skip waiting for a write
// event.
func Dial(host string, port int, srcAddr string) (fd int, done bool, err error) {
	raddr, err := net.ResolveTCPAddr("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return -1, false, err
	}

	domain := unix.AF_INET
	if raddr.IP.To4() == nil {
		domain = unix.AF_INET6
	}

	fd, err = unix.Socket(domain, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	if err != nil {
		return -1, false, err
	}

	if err = unix.SetNonblock(fd, true); err != nil {
		_ = unix.Close(fd)
		return -1, false, err
	}

	if srcAddr != "" {
		laddr, e := net.ResolveTCPAddr("tcp", srcAddr)
		if e != nil {
			_ = unix.Close(fd)
			return -1, false, e
		}
		if e = unix.Bind(fd, sockaddr(domain, laddr.IP, laddr.Port)); e != nil {
			_ = unix.Close(fd)
			return -1, false, e
		}
	}

	err = unix.Connect(fd, sockaddr(domain, raddr.IP, raddr.Port))
	if err == nil {
		return fd, true, nil
	}
	if err == unix.EINPROGRESS {
		return fd, false, nil
	}

	_ = unix.Close(fd)
	return -1, false, err
}

func sockaddr(domain int, ip net.IP, port int) unix.Sockaddr {
	if domain == unix.AF_INET6 {
		var a unix.SockaddrInet6
		a.Port = port
		copy(a.Addr[:], ip.To16())
		return &a
	}

	var a unix.SockaddrInet4
	a.Port = port
	copy(a.Addr[:], ip.To4())
	return &a
}

// SocketError retrieves SO_ERROR for fd: the deferred error from an
// asynchronous connect.
func SocketError(fd int) error {
	errno, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		return err
	}
	if errno == 0 {
		return nil
	}
	return unix.Errno(errno)
}

// SetNoDelay toggles TCP_NODELAY.
func SetNoDelay(fd int, enabled bool) error {
	v := 0
	if enabled {
		v = 1
	}
	return unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, v)
}

// SetKeepAlive enables SO_KEEPALIVE and, where supported, sets the idle
// interval before the first probe.
func SetKeepAlive(fd int, interval time.Duration) error {
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_KEEPALIVE, 1); err != nil {
		return err
	}
	if interval <= 0 {
		return nil
	}
	return unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_KEEPIDLE, int(interval.Seconds()))
}

// SetSendTimeout installs SO_SNDTIMEO, used by the sync-I/O facade to
// bound blocking writes.
func SetSendTimeout(fd int, d time.Duration) error {
	return unix.SetsockoptTimeval(fd, unix.SOL_SOCKET, unix.SO_SNDTIMEO, durationToTimeval(d))
}

// SetRecvTimeout installs SO_RCVTIMEO.
func SetRecvTimeout(fd int, d time.Duration) error {
	return unix.SetsockoptTimeval(fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, durationToTimeval(d))
}

// SetBlocking toggles O_NONBLOCK off (blocking=true) or on
// (blocking=false).
func SetBlocking(fd int, blocking bool) error {
	return unix.SetNonblock(fd, !blocking)
}

func durationToTimeval(d time.Duration) *unix.Timeval {
	return &unix.Timeval{
		Sec:  int64(d / time.Second),
		Usec: int64((d % time.Second) / time.Microsecond),
	}
}

// WouldBlock reports whether err is the platform's "operation would
// block" errno (EAGAIN/EWOULDBLOCK), as opposed to a genuine I/O error.
func WouldBlock(err error) bool {
	return err == unix.EAGAIN || err == unix.EWOULDBLOCK
}

// InProgress reports whether err is EINPROGRESS, the expected result of a
// non-blocking connect that has not completed yet.
func InProgress(err error) bool {
	return err == unix.EINPROGRESS
}
