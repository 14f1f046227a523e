/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2021 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

package logger

import (
	"io"
	"log"
	"os"

	"github.com/hashicorp/go-hclog"
)

// AsHCLog adapts a Logger to hclog.Logger so third-party libraries that
// expect hclog (as hashicorp's own do) log through the same pipeline.
func AsHCLog(l Logger) hclog.Logger {
	return &hcBridge{l: l}
}

type hcBridge struct {
	l    Logger
	name string
}

func (b *hcBridge) Log(level hclog.Level, msg string, args ...interface{}) {
	switch level {
	case hclog.Trace, hclog.Debug:
		b.l.Debug(msg, nil, args...)
	case hclog.Info:
		b.l.Info(msg, nil, args...)
	case hclog.Warn:
		b.l.Warning(msg, nil, args...)
	case hclog.Error:
		b.l.Error(msg, nil, args...)
	}
}

func (b *hcBridge) Trace(msg string, args ...interface{}) { b.l.Debug(msg, nil, args...) }
func (b *hcBridge) Debug(msg string, args ...interface{}) { b.l.Debug(msg, nil, args...) }
func (b *hcBridge) Info(msg string, args ...interface{})  { b.l.Info(msg, nil, args...) }
func (b *hcBridge) Warn(msg string, args ...interface{})  { b.l.Warning(msg, nil, args...) }
func (b *hcBridge) Error(msg string, args ...interface{}) { b.l.Error(msg, nil, args...) }

func (b *hcBridge) IsTrace() bool { return true }
func (b *hcBridge) IsDebug() bool { return true }
func (b *hcBridge) IsInfo() bool  { return true }
func (b *hcBridge) IsWarn() bool  { return true }
func (b *hcBridge) IsError() bool { return true }

func (b *hcBridge) ImpliedArgs() []interface{} { return nil }
func (b *hcBridge) With(args ...interface{}) hclog.Logger { return b }
func (b *hcBridge) Name() string                          { return b.name }
func (b *hcBridge) Named(name string) hclog.Logger        { return &hcBridge{l: b.l, name: name} }
func (b *hcBridge) ResetNamed(name string) hclog.Logger   { return &hcBridge{l: b.l, name: name} }
func (b *hcBridge) SetLevel(hclog.Level)                  {}
func (b *hcBridge) GetLevel() hclog.Level                 { return hclog.Info }
func (b *hcBridge) StandardLogger(*hclog.StandardLoggerOptions) *log.Logger {
	return log.New(os.Stderr, "", 0)
}
func (b *hcBridge) StandardWriter(*hclog.StandardLoggerOptions) io.Writer { return os.Stderr }
