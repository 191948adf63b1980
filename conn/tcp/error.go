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

import "github.com/nabbar/go-connio/connerr"

const (
	codeBadAddress connerr.Code = iota + connerr.MinPkgTCP
	codeSocket
	codeConnect
	codeTimeout
)

func init() {
	connerr.Register(connerr.MinPkgTCP, getMessage)
}

func getMessage(code connerr.Code) string {
	switch code {
	case codeBadAddress:
		return "invalid host or port"
	case codeSocket:
		return "cannot create socket"
	case codeConnect:
		return "connect failed"
	case codeTimeout:
		return "operation timed out"
	}

	return ""
}

// ErrBadAddress carries the code for an unresolvable host:port. Connect
// and BlockingConnect do not return it: they report resolution failures
// under ErrConnect's code.
var ErrBadAddress = codeBadAddress.Error()

// ErrSocket carries the code for a socket/fd that cannot be created.
// Connect and BlockingConnect do not return it: they report socket
// creation failures under ErrConnect's code.
var ErrSocket = codeSocket.Error()

// ErrConnect is returned for an immediate, synchronous connect failure.
var ErrConnect = codeConnect.Error()

// ErrTimeout is returned by BlockingConnect/sync operations that exceed
// their deadline.
var ErrTimeout = codeTimeout.Error()
