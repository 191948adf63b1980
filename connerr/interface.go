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

// Package connerr provides a small numeric error-code scheme used across this
// module's packages, in place of ad-hoc sentinel errors or raw fmt.Errorf
// chains. Each package owns a Code band (see modules.go), registers a Message
// function from its init(), and raises errors by calling a Code value's
// Error method:
//
//	const errBadState connerr.Code = connerr.MinPkgConn + 3
//	return errBadState.Error(cause)
//
// The resulting Error supports the standard errors.Is/errors.Unwrap protocol
// through Unwrap, and additionally exposes Code/IsCode so callers can branch
// on the code without string-matching the message.
package connerr

import "errors"

// Error is the interface implemented by every error value produced by this
// package. It composes the standard error interface with code inspection and
// parent-chain helpers.
type Error interface {
	error

	// Code returns the Code this error was raised with.
	Code() Code

	// IsCode reports whether this error (not a parent) carries code.
	IsCode(code Code) bool

	// Add appends additional parent errors to the chain.
	Add(parent ...error)

	// HasParent reports whether this error wraps at least one parent.
	HasParent() bool

	// Parents returns the immediate parent errors, in the order they were
	// added.
	Parents() []error

	// Is implements the errors.Is matching protocol against the full
	// parent chain, comparing by Code when the target is itself an Error.
	Is(target error) bool

	// Unwrap exposes the parent chain to errors.Is / errors.As.
	Unwrap() []error

	// GetTrace returns the file:line the error was created at, if known.
	GetTrace() string
}

// New builds an Error with code, carrying msg verbatim instead of the
// registered message for code, plus any parents.
func New(code Code, msg string, parent ...error) Error {
	return newError(code, msg, parent...)
}

// Is reports whether err carries code, walking the parent chain if err
// implements Error.
func Is(err error, code Code) bool {
	if err == nil {
		return code == Unknown
	}

	if e, ok := err.(Error); ok {
		if e.IsCode(code) {
			return true
		}

		for _, p := range e.Parents() {
			if Is(p, code) {
				return true
			}
		}
	}

	return false
}

// Get extracts the Error interface from err, if err is (or wraps) one.
func Get(err error) (Error, bool) {
	var e Error
	ok := errors.As(err, &e)
	return e, ok
}
