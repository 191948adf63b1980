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

import "github.com/nabbar/go-connio/connerr"

const (
	codeNoEngine connerr.Code = iota + connerr.MinPkgTLS
	codeHandshake
	codeTimeout
)

func init() {
	connerr.Register(connerr.MinPkgTLS, getMessage)
}

func getMessage(code connerr.Code) string {
	switch code {
	case codeNoEngine:
		return "tls engine not initialized for this connection"
	case codeHandshake:
		return "tls handshake failed"
	case codeTimeout:
		return "tls operation timed out"
	}
	return ""
}

// ErrNoEngine is returned when a connection's private data does not
// carry the engine state this transport expects (a connection created
// by a different transport was passed in by mistake).
var ErrNoEngine = codeNoEngine.Error()
