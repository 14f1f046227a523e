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

package account

import liberr "github.com/nijakow/raven-go/errors"

const (
	// ErrorAccountExists is returned by Register when the name is
	// already taken.
	ErrorAccountExists liberr.CodeError = iota + liberr.MinPkgAccount
	// ErrorAccountNotFound is returned by Authenticate when no account
	// is registered under the given name.
	ErrorAccountNotFound
	// ErrorBadCredentials is returned by Authenticate when the secret
	// does not match the stored hash.
	ErrorBadCredentials
	// ErrorHashFailed wraps a bcrypt hashing failure during Register.
	ErrorHashFailed
	// ErrorFactoryFailed wraps an ObjectFactory failure during Register.
	ErrorFactoryFailed
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = liberr.ExistInMapMessage(ErrorAccountExists)
	liberr.RegisterIdFctMessage(ErrorAccountExists, getMessage)
	liberr.RegisterIdFctMessage(ErrorAccountNotFound, getMessage)
	liberr.RegisterIdFctMessage(ErrorBadCredentials, getMessage)
	liberr.RegisterIdFctMessage(ErrorHashFailed, getMessage)
	liberr.RegisterIdFctMessage(ErrorFactoryFailed, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case liberr.UnknownError:
		return ""
	case ErrorAccountExists:
		return "account: name already registered"
	case ErrorAccountNotFound:
		return "account: no such account"
	case ErrorBadCredentials:
		return "account: bad credentials"
	case ErrorHashFailed:
		return "account: password hashing failed"
	case ErrorFactoryFailed:
		return "account: player object creation failed"
	}
	return ""
}
