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

// Package reactor is a reference implementation of conn.Registrar backed
// by Linux epoll, the Go analogue of redis's ae_epoll.c: the one
// readiness loop a host process runs, owning every connection's physical
// interest registration.
//
// This module treats the registrar as an external collaborator (see
// SPEC_FULL.md §6) — conn, conn/tcp and conn/tls never import this
// package. It exists so the end-to-end scenarios of SPEC_FULL.md §8 can
// run against a real socket instead of only a fake registrar.
package reactor

import (
	"github.com/nabbar/go-connio/conn"
)

// New creates an epoll-backed Loop. Call Run to drive it; call Close to
// release the epoll fd.
func New() (Loop, error) {
	return newLoop()
}

// Loop is a conn.Registrar plus the Run method that drives it. Only one
// goroutine may call Run at a time; Register/Deregister/Query may be
// called from the same goroutine driving Run (including from inside a
// dispatched handler) but not concurrently from a second goroutine, per
// SPEC_FULL.md §5's single-threaded dispatch model.
type Loop interface {
	conn.Registrar

	// Run blocks, dispatching readiness events, until Stop is called
	// (returning nil) or an epoll call fails (returning that error).
	Run() error

	// Stop requests Run to return after its current wait.
	Stop()

	// Close releases the epoll fd. Run must have returned first.
	Close() error
}
