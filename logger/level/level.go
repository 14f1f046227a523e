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

// Package level defines the severity levels used by the logger package,
// ordered the same way logrus orders them so the two map without a lookup
// table.
package level

import (
	"strings"

	"github.com/sirupsen/logrus"
)

type Level uint8

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
	NilLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "Debug"
	case InfoLevel:
		return "Info"
	case WarnLevel:
		return "Warning"
	case ErrorLevel:
		return "Error"
	case FatalLevel:
		return "Fatal"
	case PanicLevel:
		return "Critical"
	case NilLevel:
		return ""
	default:
		return "unknown"
	}
}

// Logrus converts a Level to its logrus equivalent. NilLevel maps to
// logrus.PanicLevel, the most restrictive threshold logrus has, so only
// panic-level entries pass; callers must still special-case NilLevel to
// silence the logger entirely rather than relying on filtering alone.
func (l Level) Logrus() logrus.Level {
	switch l {
	case PanicLevel:
		return logrus.PanicLevel
	case FatalLevel:
		return logrus.FatalLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case WarnLevel:
		return logrus.WarnLevel
	case InfoLevel:
		return logrus.InfoLevel
	case DebugLevel:
		return logrus.DebugLevel
	case NilLevel:
		return logrus.PanicLevel
	default:
		return logrus.DebugLevel
	}
}

// Parse maps a case-insensitive level name to a Level, defaulting to
// InfoLevel when the name is not recognized.
func Parse(s string) Level {
	switch strings.ToLower(s) {
	case "debug", "Debug", "DEBUG":
		return DebugLevel
	case "info", "Info", "INFO":
		return InfoLevel
	case "warn", "warning", "Warning", "WARN":
		return WarnLevel
	case "error", "Error", "ERROR":
		return ErrorLevel
	case "fatal", "Fatal", "FATAL":
		return FatalLevel
	case "panic", "critical", "Critical", "PANIC":
		return PanicLevel
	case "nil", "none", "off":
		return NilLevel
	default:
		return InfoLevel
	}
}
