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

package connerr

import (
	"sort"
	"strconv"
)

// Code is a small numeric error classification, in the spirit of HTTP status
// codes: each package that can fail owns a contiguous band (see modules.go)
// and registers a Message function for it during init().
type Code uint16

const (
	// Unknown is returned for an error with no registered code.
	Unknown Code = 0
)

var registry = make(map[Code]Message)

// Message renders a human-readable string for a Code.
type Message func(code Code) string

// Uint16 returns the raw numeric value of the code.
func (c Code) Uint16() uint16 {
	return uint16(c)
}

// String implements fmt.Stringer by returning the decimal code value.
func (c Code) String() string {
	return strconv.Itoa(int(c))
}

// Message resolves the human-readable message registered for this code's
// package band, or "unknown error" if nothing was registered.
func (c Code) Message() string {
	if c == Unknown {
		return "unknown error"
	}

	if f, ok := registry[floorRegistered(c)]; ok {
		if m := f(c); m != "" {
			return m
		}
	}

	return "unknown error"
}

// Error builds a new Error value carrying this code, its registered message,
// and any parent errors passed in.
func (c Code) Error(parent ...error) Error {
	return newError(c, c.Message(), parent...)
}

// Register associates a Message function with every code of a band starting
// at minCode. It must be called once from each package's init().
func Register(minCode Code, fct Message) {
	registry[minCode] = fct
	reindex()
}

func reindex() {
	keys := make([]int, 0, len(registry))
	for k := range registry {
		keys = append(keys, int(k))
	}
	sort.Ints(keys)

	ordered := make(map[Code]Message, len(registry))
	for _, k := range keys {
		ordered[Code(k)] = registry[Code(k)]
	}
	registry = ordered
}

func floorRegistered(code Code) Code {
	var res Code
	for k := range registry {
		if k <= code && k > res {
			res = k
		}
	}
	return res
}
