/*
 *  MIT License
 *
 *  Copyright (c) 2025 Nicolas JUHEL
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a copy
 *  of this software and associated documentation files (the "Software"), to deal
 *  in the Software without restriction, including without limitation the rights
 *  to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *  copies of the Software, and to permit persons to whom the Software is
 *  furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included in all
 *  copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *  AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *  LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *  OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *  SOFTWARE.
 *
 */

package logger_test

import (
	jww "github.com/spf13/jwalterweatherman"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nijakow/raven-go/logger"
	loglvl "github.com/nijakow/raven-go/logger/level"
)

var _ = Describe("SetSPF13Level", func() {
	It("does not panic across all levels", func() {
		Expect(func() {
			logger.SetSPF13Level(loglvl.DebugLevel, &jww.Notepad{})
			logger.SetSPF13Level(loglvl.WarnLevel, &jww.Notepad{})
			logger.SetSPF13Level(loglvl.NilLevel, nil)
		}).ToNot(Panic())
	})
})

var _ = Describe("NewStdWriter", func() {
	It("forwards writes as log lines without error", func() {
		w := logger.NewStdWriter(logger.New(), loglvl.InfoLevel)
		n, err := w.Write([]byte("hello"))
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(Equal(5))
	})
})
