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
	"errors"
	"io"

	ctls "crypto/tls"

	"github.com/bits-and-blooms/bitset"
)

// result classifies the outcome of an engine call per SPEC_FULL.md
// §4.4.1: the four outcomes that matter to the transport's state
// machine, collapsing everything crypto/tls can return down to this set.
type result uint8

const (
	resultOK result = iota
	resultWantRead
	resultWantWrite
	resultZeroReturn
	resultFatal
)

// classify turns an error returned by (*crypto/tls.Conn).Handshake,
// Read or Write into one of the four engine outcomes. crypto/tls
// propagates the underlying net.Conn's Read/Write error unchanged in
// these paths, so a *wantBlock minted by netConn survives the round
// trip and can be type-asserted directly here.
func classify(err error) result {
	if err == nil {
		return resultOK
	}
	if errors.Is(err, io.EOF) {
		return resultZeroReturn
	}
	var wb *wantBlock
	if errors.As(err, &wb) {
		if wb.dir == dirRead {
			return resultWantRead
		}
		return resultWantWrite
	}
	return resultFatal
}

// Inversion bit positions on the per-connection bitset (SPEC_FULL.md
// §4.4, spec.md §2 item 3): a logical read blocked on physical write
// readiness, or a logical write blocked on physical read readiness.
const (
	bitReadWantWrite uint = iota
	bitWriteWantRead
)

// state is the per-connection TLS engine record, stashed as the
// connection's private data (conn.Connection.PrivateData). It is never
// touched outside the single dispatch thread driving the owning
// registrar (spec.md §5's no-locking scheduling model).
type state struct {
	tlsConn       *ctls.Conn
	raw           *netConn
	inv           *bitset.BitSet
	handshakeDone bool
	// pendingHint approximates spec.md §4.4.5's buffered-plaintext
	// caveat: crypto/tls exposes no public API to ask "do you still
	// have decrypted bytes I haven't read yet", so this flags a Read
	// that filled its buffer completely as a hint that more may be
	// sitting in the engine, to be reconsidered on the next loop
	// iteration even without a fresh physical read event.
	pendingHint bool
}

func newState(raw *netConn) *state {
	return &state{raw: raw, inv: bitset.New(2)}
}

func (s *state) readWantWrite() bool   { return s.inv.Test(bitReadWantWrite) }
func (s *state) writeWantRead() bool   { return s.inv.Test(bitWriteWantRead) }
func (s *state) setReadWantWrite(v bool) {
	if v {
		s.inv.Set(bitReadWantWrite)
	} else {
		s.inv.Clear(bitReadWantWrite)
	}
}
func (s *state) setWriteWantRead(v bool) {
	if v {
		s.inv.Set(bitWriteWantRead)
	} else {
		s.inv.Clear(bitWriteWantRead)
	}
}
