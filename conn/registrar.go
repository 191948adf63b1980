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

// Mask is a readiness bitmask over the two directions a transport can be
// interested in.
type Mask uint8

const (
	// Read is set when a descriptor is readable.
	Read Mask = 1 << iota

	// Write is set when a descriptor is writable.
	Write
)

// Has reports whether m contains every bit of want.
func (m Mask) Has(want Mask) bool {
	return m&want == want
}

// String renders m as e.g. "RW", "R", "W", or "".
func (m Mask) String() string {
	s := ""
	if m.Has(Read) {
		s += "R"
	}
	if m.Has(Write) {
		s += "W"
	}
	return s
}

// Handler is called by a Registrar when readiness fires for fd. userdata is
// whatever opaque value was passed to Register.
type Handler func(fd int, userdata any, mask Mask)

// Registrar is the external I/O readiness loop this module plugs into. It is
// treated as an opaque collaborator: this module never implements the loop
// itself (see the reactor package for a reference epoll-based
// implementation), only this contract.
//
// Register and Deregister are idempotent per direction: registering a
// direction that is already registered, or deregistering one that is not,
// is a no-op rather than an error.
type Registrar interface {
	// Register records interest in fd for the directions set in mask,
	// invoking handler with userdata when any of them fire.
	Register(fd int, mask Mask, handler Handler, userdata any) error

	// Deregister removes interest in fd for the directions set in mask.
	Deregister(fd int, mask Mask) error

	// Query returns the mask currently registered for fd.
	Query(fd int) Mask
}
