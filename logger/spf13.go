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

package logger

import (
	"io"

	jww "github.com/spf13/jwalterweatherman"

	loglvl "github.com/nijakow/raven-go/logger/level"
)

// SetSPF13Level sets jwalterweatherman's global log threshold (used by
// cobra and viper for their own diagnostics) to match lvl and discards its
// stdout output. With a nil notepad both its stdout and log output are
// discarded. The notepad is only checked for nil; no output is redirected
// to a Logger.
func SetSPF13Level(lvl loglvl.Level, log *jww.Notepad) {
	if log == nil {
		jww.SetStdoutOutput(io.Discard)
		jww.SetLogOutput(io.Discard)
		return
	}

	jww.SetStdoutOutput(io.Discard)

	switch lvl {
	case loglvl.NilLevel:
		jww.SetLogThreshold(jww.LevelCritical + 1)
	case loglvl.DebugLevel:
		jww.SetLogThreshold(jww.LevelTrace)
	case loglvl.InfoLevel:
		jww.SetLogThreshold(jww.LevelInfo)
	case loglvl.WarnLevel:
		jww.SetLogThreshold(jww.LevelWarn)
	case loglvl.ErrorLevel:
		jww.SetLogThreshold(jww.LevelError)
	case loglvl.FatalLevel, loglvl.PanicLevel:
		jww.SetLogThreshold(jww.LevelCritical)
	}
}

// stdWriter adapts a Logger into an io.Writer at a fixed level, for
// handing to third-party packages (jwalterweatherman, net/http servers)
// that only know how to write lines.
type stdWriter struct {
	l   Logger
	lvl loglvl.Level
}

// NewStdWriter returns an io.Writer that forwards each Write as a log
// line at lvl.
func NewStdWriter(l Logger, lvl loglvl.Level) io.Writer {
	return &stdWriter{l: l, lvl: lvl}
}

func (w *stdWriter) Write(p []byte) (int, error) {
	msg := string(p)
	switch w.lvl {
	case loglvl.DebugLevel:
		w.l.Debug(msg, nil)
	case loglvl.WarnLevel:
		w.l.Warning(msg, nil)
	case loglvl.ErrorLevel:
		w.l.Error(msg, nil)
	default:
		w.l.Info(msg, nil)
	}
	return len(p), nil
}
