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

	"golang.org/x/sys/unix"
)

// pollOut mirrors unix.POLLOUT; kept as a small local alias so
// BlockingConnect's signature does not need to import unix directly in
// connect.go.
const pollOut = unix.POLLOUT

type pollFd struct {
	fd     int
	events int16
}

// poll blocks until one of fds is ready or timeout elapses. It exists
// solely to back BlockingConnect (SPEC_FULL.md §4.1, "synchronous variant
// used only at bootstrap"): every other entry point in this package is
// non-blocking.
func poll(fds []pollFd, timeout time.Duration) (ready bool, err error) {
	raw := make([]unix.PollFd, len(fds))
	for i, f := range fds {
		raw[i] = unix.PollFd{Fd: int32(f.fd), Events: f.events}
	}

	ms := int(timeout.Milliseconds())
	if timeout <= 0 {
		ms = -1
	}

	n, err := unix.Poll(raw, ms)
	if err != nil {
		return false, err
	}

	return n > 0, nil
}
