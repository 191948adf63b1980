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

// Package tls implements the conn.Transport trait over an in-memory TLS
// engine (crypto/tls.Conn, driven over a synthetic non-blocking
// net.Conn — see netconn.go and engine.go). It translates the engine's
// WANT_READ/WANT_WRITE outcomes into the physical-readiness direction
// inversion described in SPEC_FULL.md §4.4: a logical operation of one
// direction can be left waiting on physical readiness of the other, and
// this transport tracks that with two bits per connection rather than
// assuming read-readiness always serves reads.
//
// A *tls.Config supplied by the certificates package (or hand-built by
// the caller) is bound once per transport instance and reused for every
// connection it creates; reconfiguring certificates replaces the
// *tls.Config the next transport picks up, never mutates one in place.
package tls

import (
	ctls "crypto/tls"

	"github.com/nabbar/go-connio/certificates"
	"github.com/nabbar/go-connio/conn"
)

// New returns a conn.Transport that drives TLS over plain TCP sockets
// using cfg. cfg must not be nil; New panics otherwise, since a TLS
// transport with no certificate/verification material can never
// establish a connection and is a caller bug, not a runtime condition.
func New(cfg *ctls.Config) conn.Transport {
	if cfg == nil {
		panic("conn/tls: New requires a non-nil *tls.Config")
	}
	return &transport{cfg: cfg}
}

// NewFromCertificates returns a conn.Transport backed by the
// certificates package's atomically-swapped configuration (SPEC_FULL.md
// §4.7/§6) instead of a fixed *tls.Config: every Connect/BlockingConnect/
// Accept call re-reads certificates.Current() and derives a *tls.Config
// for serverName, so a certificates.Configure/WatchConfig reload applies
// to every TLS connection created afterwards, without rebuilding the
// transport. Connections already established keep the engine they were
// handshaked with, exactly as a reconfiguration never mutates one in
// place. Panics on the first connection attempt if no configuration has
// been loaded yet (certificates.Current() is nil) — the same caller-bug
// contract as New's nil check.
func NewFromCertificates(serverName string) conn.Transport {
	return &transport{
		dynamic: func() *ctls.Config {
			cur := certificates.Current()
			if cur == nil {
				panic("conn/tls: NewFromCertificates requires certificates.Configure to have run first")
			}
			return cur.TlsConfig(serverName)
		},
	}
}

type transport struct {
	cfg     *ctls.Config
	dynamic func() *ctls.Config
}

// config resolves the *tls.Config to use for the next connection: the
// fixed one passed to New, or a freshly-derived one from
// certificates.Current() for a transport built with NewFromCertificates.
func (t *transport) config() *ctls.Config {
	if t.dynamic != nil {
		return t.dynamic()
	}
	return t.cfg
}
