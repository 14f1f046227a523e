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

package types_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nijakow/raven-go/object"
	"github.com/nijakow/raven-go/types"
)

var _ = Describe("Of/Check/Cast", func() {
	It("classifies primitives", func() {
		Expect(types.Of(object.Nil())).To(Equal(types.TypeNil))
		Expect(types.Of(object.Int(1))).To(Equal(types.TypeInt))
		Expect(types.Of(object.Char('a'))).To(Equal(types.TypeChar))
	})

	It("TypeAny satisfies any value", func() {
		Expect(types.Check(object.Nil(), types.TypeAny)).To(BeTrue())
		Expect(types.Check(object.Int(5), types.TypeAny)).To(BeTrue())
	})

	It("Check is a strict kind match otherwise", func() {
		Expect(types.Check(object.Int(5), types.TypeInt)).To(BeTrue())
		Expect(types.Check(object.Int(5), types.TypeChar)).To(BeFalse())
	})

	It("Cast coerces int<->char losslessly", func() {
		v, ok := types.Cast(object.Char('A'), types.TypeInt)
		Expect(ok).To(BeTrue())
		i, _ := v.AsInt()
		Expect(i).To(Equal(int64('A')))

		v, ok = types.Cast(object.Int(66), types.TypeChar)
		Expect(ok).To(BeTrue())
		c, _ := v.AsChar()
		Expect(c).To(Equal(rune('B')))
	})

	It("Cast fails for unrelated kinds", func() {
		_, ok := types.Cast(object.Nil(), types.TypeInt)
		Expect(ok).To(BeFalse())
	})
})
