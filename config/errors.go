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

package config

import liberr "github.com/nijakow/raven-go/errors"

const (
	// ErrorLoadFailed wraps a viper config-file read failure other than
	// "file not found" (which is tolerated: Defaults apply).
	ErrorLoadFailed liberr.CodeError = iota + liberr.MinPkgWorldCfg
	// ErrorDecodeFailed wraps a viper Unmarshal failure into World.
	ErrorDecodeFailed
	// ErrorWatchFailed wraps an fsnotify watcher setup failure, or a
	// Watch call with no bound file.
	ErrorWatchFailed
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = liberr.ExistInMapMessage(ErrorLoadFailed)
	liberr.RegisterIdFctMessage(ErrorLoadFailed, getMessage)
	liberr.RegisterIdFctMessage(ErrorDecodeFailed, getMessage)
	liberr.RegisterIdFctMessage(ErrorWatchFailed, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case liberr.UnknownError:
		return ""
	case ErrorLoadFailed:
		return "config: load failed"
	case ErrorDecodeFailed:
		return "config: decode failed"
	case ErrorWatchFailed:
		return "config: watch failed"
	}
	return ""
}
