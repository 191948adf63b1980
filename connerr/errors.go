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
	"fmt"
	"runtime"
)

// ers is the concrete Error implementation. It keeps its own code, message,
// a trace of where it was raised, and an ordered slice of parent errors so a
// chain can be walked without losing the original cause.
type ers struct {
	c Code
	m string
	p []error
	t runtime.Frame
}

func newError(code Code, msg string, parent ...error) Error {
	var pc [1]uintptr

	// skip: Callers, newError, Code.Error
	runtime.Callers(3, pc[:])
	f, _ := runtime.CallersFrames(pc[:]).Next()

	e := &ers{
		c: code,
		m: msg,
		t: f,
	}

	e.Add(parent...)

	return e
}

func (e *ers) Code() Code {
	return e.c
}

func (e *ers) IsCode(code Code) bool {
	if e == nil {
		return code == Unknown
	}

	return e.c == code
}

func (e *ers) Error() string {
	if e == nil {
		return ""
	}

	if e.m == "" {
		return e.c.Message()
	}

	return e.m
}

func (e *ers) Add(parent ...error) {
	for _, p := range parent {
		if p == nil || e.is(p) {
			continue
		}

		e.p = append(e.p, p)
	}
}

// is reports whether p is already present in the parent chain, preventing a
// caller from looping an error back onto itself.
func (e *ers) is(p error) bool {
	if p == e {
		return true
	}

	for _, c := range e.p {
		if c == p {
			return true
		}

		if pe, ok := c.(*ers); ok && pe.is(p) {
			return true
		}
	}

	return false
}

func (e *ers) HasParent() bool {
	return len(e.p) > 0
}

func (e *ers) Parents() []error {
	return e.p
}

func (e *ers) Is(target error) bool {
	if target == nil {
		return false
	}

	if te, ok := target.(*ers); ok {
		if e.c == te.c {
			return true
		}
	}

	for _, p := range e.p {
		if p == target {
			return true
		}

		if errIs(p, target) {
			return true
		}
	}

	return false
}

func errIs(err, target error) bool {
	type isser interface {
		Is(error) bool
	}

	if i, ok := err.(isser); ok {
		return i.Is(target)
	}

	return err == target
}

func (e *ers) Unwrap() []error {
	return e.p
}

// GetTrace renders the file:line of the call to Code.Error that created this
// error, for inclusion in logs.
func (e *ers) GetTrace() string {
	if e.t.File == "" {
		return ""
	}

	return fmt.Sprintf("%s:%d", e.t.File, e.t.Line)
}

func (e *ers) String() string {
	return e.Error()
}
