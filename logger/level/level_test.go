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

package level_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sirupsen/logrus"

	loglvl "github.com/nijakow/raven-go/logger/level"
)

var _ = Describe("Level", func() {
	Describe("ordering", func() {
		It("runs from most to least severe, Nil last", func() {
			Expect(loglvl.PanicLevel).To(BeNumerically("<", loglvl.FatalLevel))
			Expect(loglvl.FatalLevel).To(BeNumerically("<", loglvl.ErrorLevel))
			Expect(loglvl.ErrorLevel).To(BeNumerically("<", loglvl.WarnLevel))
			Expect(loglvl.WarnLevel).To(BeNumerically("<", loglvl.InfoLevel))
			Expect(loglvl.InfoLevel).To(BeNumerically("<", loglvl.DebugLevel))
			Expect(loglvl.DebugLevel).To(BeNumerically("<", loglvl.NilLevel))
		})
	})

	Describe("String", func() {
		It("renders the teacher's exact labels", func() {
			Expect(loglvl.DebugLevel.String()).To(Equal("Debug"))
			Expect(loglvl.InfoLevel.String()).To(Equal("Info"))
			Expect(loglvl.WarnLevel.String()).To(Equal("Warning"))
			Expect(loglvl.ErrorLevel.String()).To(Equal("Error"))
			Expect(loglvl.FatalLevel.String()).To(Equal("Fatal"))
			Expect(loglvl.PanicLevel.String()).To(Equal("Critical"))
			Expect(loglvl.NilLevel.String()).To(Equal(""))
		})
	})

	Describe("Logrus", func() {
		It("maps each level to its logrus counterpart", func() {
			Expect(loglvl.PanicLevel.Logrus()).To(Equal(logrus.PanicLevel))
			Expect(loglvl.FatalLevel.Logrus()).To(Equal(logrus.FatalLevel))
			Expect(loglvl.ErrorLevel.Logrus()).To(Equal(logrus.ErrorLevel))
			Expect(loglvl.WarnLevel.Logrus()).To(Equal(logrus.WarnLevel))
			Expect(loglvl.InfoLevel.Logrus()).To(Equal(logrus.InfoLevel))
			Expect(loglvl.DebugLevel.Logrus()).To(Equal(logrus.DebugLevel))
		})
	})

	Describe("Parse", func() {
		Context("with valid level strings", func() {
			It("parses case-insensitively", func() {
				Expect(loglvl.Parse("debug")).To(Equal(loglvl.DebugLevel))
				Expect(loglvl.Parse("DEBUG")).To(Equal(loglvl.DebugLevel))
				Expect(loglvl.Parse("Warning")).To(Equal(loglvl.WarnLevel))
				Expect(loglvl.Parse("warn")).To(Equal(loglvl.WarnLevel))
			})

			It("maps critical/panic together", func() {
				Expect(loglvl.Parse("critical")).To(Equal(loglvl.PanicLevel))
				Expect(loglvl.Parse("panic")).To(Equal(loglvl.PanicLevel))
			})

			It("maps nil/none/off to NilLevel", func() {
				Expect(loglvl.Parse("nil")).To(Equal(loglvl.NilLevel))
				Expect(loglvl.Parse("none")).To(Equal(loglvl.NilLevel))
				Expect(loglvl.Parse("off")).To(Equal(loglvl.NilLevel))
			})
		})

		Context("with unrecognized strings", func() {
			It("falls back to InfoLevel", func() {
				Expect(loglvl.Parse("")).To(Equal(loglvl.InfoLevel))
				Expect(loglvl.Parse("bogus")).To(Equal(loglvl.InfoLevel))
				Expect(loglvl.Parse(" info ")).To(Equal(loglvl.InfoLevel))
			})
		})
	})
})
