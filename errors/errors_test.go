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

package errors_test

import (
	liberr "github.com/nijakow/raven-go/errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// worldTestCode/worldTestSubCode mimic the per-package iota registration
// pattern used by every domain package (see world/errors.go,
// account/errors.go, and their siblings): a CodeError constant offset from
// a reserved MinPkgX base, a getMessage switch, and an init() registration.
const (
	worldTestCode liberr.CodeError = iota + liberr.MinAvailable + 1000
	worldTestSubCode
)

func init() {
	liberr.RegisterIdFctMessage(worldTestCode, func(code liberr.CodeError) string {
		switch code {
		case worldTestCode:
			return "errors_test: primary failure"
		case worldTestSubCode:
			return "errors_test: secondary failure"
		default:
			return ""
		}
	})
}

var _ = Describe("CodeError registration", func() {
	It("reports the registered message instead of the unknown fallback", func() {
		Expect(liberr.ExistInMapMessage(worldTestCode)).To(BeTrue())
		Expect(worldTestCode.Message()).To(Equal("errors_test: primary failure"))
	})

	It("falls back to the unknown message for an unregistered code", func() {
		var unregistered liberr.CodeError = liberr.MinAvailable + 9999
		Expect(unregistered.Message()).To(Equal(liberr.UnknownMessage))
	})

	It("round-trips through Uint16 and Int", func() {
		Expect(worldTestCode.Uint16()).To(Equal(uint16(worldTestCode)))
		Expect(worldTestCode.Int()).To(Equal(int(worldTestCode)))
	})
})

var _ = Describe("Error creation and codes", func() {
	It("builds an Error carrying the registered code and message", func() {
		err := worldTestCode.Error(nil)

		Expect(err.GetCode()).To(Equal(worldTestCode))
		Expect(err.IsCode(worldTestCode)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("errors_test: primary failure"))
	})

	It("ignores nil parents", func() {
		err := worldTestCode.Error(nil)

		Expect(err.HasParent()).To(BeFalse())
	})

	It("chains a parent error and walks the hierarchy with HasCode", func() {
		parent := worldTestSubCode.Error(nil)
		err := worldTestCode.Error(parent)

		Expect(err.IsCode(worldTestCode)).To(BeTrue())
		Expect(err.IsCode(worldTestSubCode)).To(BeFalse())
		Expect(err.HasCode(worldTestSubCode)).To(BeTrue())
		Expect(err.HasParent()).To(BeTrue())
	})

	It("reports parent codes through GetParentCode", func() {
		parent := worldTestSubCode.Error(nil)
		err := worldTestCode.Error(parent)

		Expect(err.GetParentCode()).To(ContainElement(worldTestSubCode))
	})

	It("adds parents after creation via Add", func() {
		err := worldTestCode.Error(nil)
		Expect(err.HasParent()).To(BeFalse())

		err.Add(worldTestSubCode.Error(nil))
		Expect(err.HasParent()).To(BeTrue())
		Expect(err.HasCode(worldTestSubCode)).To(BeTrue())
	})
})

var _ = Describe("package-level helpers", func() {
	It("Has finds a code anywhere in the error's hierarchy", func() {
		err := worldTestCode.Error(worldTestSubCode.Error(nil))

		Expect(liberr.Has(err, worldTestSubCode)).To(BeTrue())
		Expect(liberr.Has(nil, worldTestSubCode)).To(BeFalse())
	})

	It("IsCode matches only the direct code", func() {
		err := worldTestCode.Error(worldTestSubCode.Error(nil))

		Expect(liberr.IsCode(err, worldTestCode)).To(BeTrue())
		Expect(liberr.IsCode(err, worldTestSubCode)).To(BeFalse())
	})

	It("Is is compatible with the standard errors.Is machinery", func() {
		err := worldTestCode.Error(nil)

		Expect(liberr.Is(err)).To(BeTrue())
		Expect(liberr.Is(nil)).To(BeFalse())
	})

	It("IfError returns nil when every parent is nil", func() {
		Expect(worldTestCode.IfError(nil, nil)).To(BeNil())
	})

	It("IfError returns an Error when a parent is non-nil", func() {
		err := worldTestCode.IfError(nil, worldTestSubCode.Error(nil))

		Expect(err).NotTo(BeNil())
		Expect(err.IsCode(worldTestCode)).To(BeTrue())
	})
})
