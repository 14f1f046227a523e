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

package heap_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nijakow/raven-go/gc"
	"github.com/nijakow/raven-go/heap"
	"github.com/nijakow/raven-go/object"
)

var _ = Describe("Array", func() {
	It("Get/Put honor bounds without panicking", func() {
		tbl := object.NewTable()
		a, err := heap.NewArray(tbl, []object.Any{object.Int(1), object.Int(2)})
		Expect(err).ToNot(HaveOccurred())

		v, ok := a.Get(0)
		Expect(ok).To(BeTrue())
		i, _ := v.AsInt()
		Expect(i).To(Equal(int64(1)))

		_, ok = a.Get(5)
		Expect(ok).To(BeFalse())

		Expect(a.Put(1, object.Int(99))).To(BeTrue())
		v, _ = a.Get(1)
		i, _ = v.AsInt()
		Expect(i).To(Equal(int64(99)))

		Expect(a.Put(5, object.Int(1))).To(BeFalse())
	})

	It("Append grows the array and returns the new size", func() {
		tbl := object.NewTable()
		a, _ := heap.NewArray(tbl, nil)

		Expect(a.Append(object.Int(1))).To(Equal(1))
		Expect(a.Append(object.Int(2))).To(Equal(2))
		Expect(a.Size()).To(Equal(2))
	})

	It("Join concatenates without mutating the originals", func() {
		tbl := object.NewTable()
		a, _ := heap.NewArray(tbl, []object.Any{object.Int(1)})
		b, _ := heap.NewArray(tbl, []object.Any{object.Int(2), object.Int(3)})

		joined, err := heap.Join(tbl, a, b)
		Expect(err).ToNot(HaveOccurred())
		Expect(joined.Size()).To(Equal(3))
		Expect(a.Size()).To(Equal(1))
	})

	It("Mark enqueues every element so GC can trace through the array", func() {
		tbl := object.NewTable()
		s, err := heap.NewString(tbl, "kept")
		Expect(err).ToNot(HaveOccurred())

		a, err := heap.NewArray(tbl, []object.Any{s.Any()})
		Expect(err).ToNot(HaveOccurred())

		stats := gc.Collect(tbl, []object.Any{a.Any()})
		Expect(stats.Destroyed).To(Equal(0))
		Expect(tbl.LiveCount()).To(Equal(2))
	})
})
