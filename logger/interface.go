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

// Package logger provides the structured logging entry point for the
// world runtime: the scheduler, GC, interpreter, and server all log
// through a Logger rather than the standard log package, so every line
// carries consistent level and field handling.
package logger

import (
	"io"
	"log"
	"sync"

	"github.com/sirupsen/logrus"

	logfld "github.com/nijakow/raven-go/logger/fields"
	loglvl "github.com/nijakow/raven-go/logger/level"
)

// Logger is the main interface for structured logging operations used
// throughout the world runtime.
type Logger interface {
	io.Writer

	SetLevel(lvl loglvl.Level)
	GetLevel() loglvl.Level

	SetFields(f logfld.Fields)
	GetFields() logfld.Fields

	WithFields(f logfld.Fields) Logger

	Debug(message string, err error, args ...interface{})
	Info(message string, err error, args ...interface{})
	Warning(message string, err error, args ...interface{})
	Error(message string, err error, args ...interface{})
	Fatal(message string, err error, args ...interface{})
	Panic(message string, err error, args ...interface{})

	// CheckError logs err (if non-nil) at lvlKO and returns false; if err
	// is nil and lvlOK is not NilLevel, it logs message at lvlOK and
	// returns true.
	CheckError(lvlKO, lvlOK loglvl.Level, message string, err error) bool

	GetStdLogger(lvl loglvl.Level, logFlags int) *log.Logger

	Clone() Logger
}

type lgr struct {
	mu  sync.RWMutex
	lvl loglvl.Level
	fld logfld.Fields
	out *logrus.Logger
}

// New returns a Logger writing to os.Stderr (via logrus's default output)
// at InfoLevel with no default fields.
func New() Logger {
	o := logrus.New()
	o.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	l := &lgr{
		lvl: loglvl.InfoLevel,
		fld: logfld.New(),
		out: o,
	}
	l.out.SetLevel(loglvl.InfoLevel.Logrus())
	return l
}

func (l *lgr) SetLevel(lvl loglvl.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lvl = lvl
	l.out.SetLevel(lvl.Logrus())
}

func (l *lgr) GetLevel() loglvl.Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lvl
}

func (l *lgr) SetFields(f logfld.Fields) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fld = f.Clone()
}

func (l *lgr) GetFields() logfld.Fields {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.fld.Clone()
}

func (l *lgr) WithFields(f logfld.Fields) Logger {
	l.mu.RLock()
	merged := l.fld.Merge(f)
	l.mu.RUnlock()

	return &lgr{
		lvl: l.GetLevel(),
		fld: merged,
		out: l.out,
	}
}

func (l *lgr) Write(p []byte) (int, error) {
	return l.out.Writer().Write(p)
}

func (l *lgr) entry(err error, args []interface{}) *logrus.Entry {
	f := l.GetFields()
	if err != nil {
		f = f.Add("error", err.Error())
	}
	for i := 0; i+1 < len(args); i += 2 {
		if k, ok := args[i].(string); ok {
			f = f.Add(k, args[i+1])
		}
	}
	return l.out.WithFields(f.Logrus())
}

func (l *lgr) Debug(message string, err error, args ...interface{}) {
	l.entry(err, args).Debug(message)
}

func (l *lgr) Info(message string, err error, args ...interface{}) {
	l.entry(err, args).Info(message)
}

func (l *lgr) Warning(message string, err error, args ...interface{}) {
	l.entry(err, args).Warning(message)
}

func (l *lgr) Error(message string, err error, args ...interface{}) {
	l.entry(err, args).Error(message)
}

func (l *lgr) Fatal(message string, err error, args ...interface{}) {
	l.entry(err, args).Error(message)
}

func (l *lgr) Panic(message string, err error, args ...interface{}) {
	l.entry(err, args).Error(message)
}

func (l *lgr) CheckError(lvlKO, lvlOK loglvl.Level, message string, err error) bool {
	if err != nil {
		l.entry(err, nil).Log(lvlKO.Logrus(), message)
		return false
	}
	if lvlOK != loglvl.NilLevel {
		l.entry(nil, nil).Log(lvlOK.Logrus(), message)
	}
	return true
}

func (l *lgr) GetStdLogger(lvl loglvl.Level, logFlags int) *log.Logger {
	return log.New(l.out.WriterLevel(lvl.Logrus()), "", logFlags)
}

func (l *lgr) Clone() Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return &lgr{
		lvl: l.lvl,
		fld: l.fld.Clone(),
		out: l.out,
	}
}
