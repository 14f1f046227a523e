/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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

package vm

import liberr "github.com/nijakow/raven-go/errors"

// The interpreter's crash kinds, per the error-handling design: each one
// is a fiber crash carrying a descriptive message rather than a Go
// panic. object.ErrorAllocationFailure already claims the first id in
// the MinPkgVM range, so these start one above it.
const (
	ErrorTypeError liberr.CodeError = iota + liberr.MinPkgVM + 1
	ErrorDivisionByZero
	ErrorMethodNotFound
	ErrorBuiltinNotFound
	ErrorNoSuper
	ErrorBadBytecode
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = liberr.ExistInMapMessage(ErrorTypeError)
	liberr.RegisterIdFctMessage(ErrorTypeError, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case liberr.UnknownError:
		return ""
	case ErrorTypeError:
		return "vm: type error"
	case ErrorDivisionByZero:
		return "vm: division by zero"
	case ErrorMethodNotFound:
		return "vm: method not found"
	case ErrorBuiltinNotFound:
		return "vm: builtin not found"
	case ErrorNoSuper:
		return "vm: no super method"
	case ErrorBadBytecode:
		return "vm: bad bytecode"
	}
	return ""
}
