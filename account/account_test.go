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

package account_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nijakow/raven-go/account"
	"github.com/nijakow/raven-go/heap"
	"github.com/nijakow/raven-go/object"
)

func newFactory(tbl *object.Table) (account.ObjectFactory, *heap.Blueprint) {
	bp, err := heap.NewBlueprint(tbl, "/std/player")
	Expect(err).ToNot(HaveOccurred())

	return func(name string) (*heap.Object, error) {
		return heap.NewObject(tbl, bp)
	}, bp
}

var _ = Describe("Account", func() {
	It("registers a new account and returns its player object", func() {
		tbl := object.NewTable()
		factory, bp := newFactory(tbl)
		store := account.New(factory)

		obj, err := store.Register("alice", "hunter2")
		Expect(err).ToNot(HaveOccurred())
		Expect(obj).ToNot(BeNil())
		Expect(obj.Master).To(Equal(bp))
		Expect(store.Exists("alice")).To(BeTrue())
	})

	It("rejects registering a name that already exists", func() {
		tbl := object.NewTable()
		factory, _ := newFactory(tbl)
		store := account.New(factory)

		_, err := store.Register("alice", "hunter2")
		Expect(err).ToNot(HaveOccurred())

		_, err = store.Register("alice", "whatever")
		Expect(err).To(HaveOccurred())
	})

	It("authenticates with the correct secret and returns the bound object", func() {
		tbl := object.NewTable()
		factory, _ := newFactory(tbl)
		store := account.New(factory)

		registered, err := store.Register("alice", "hunter2")
		Expect(err).ToNot(HaveOccurred())

		authed, err := store.Authenticate("alice", "hunter2")
		Expect(err).ToNot(HaveOccurred())
		Expect(authed).To(Equal(registered))
	})

	It("rejects authentication with the wrong secret", func() {
		tbl := object.NewTable()
		factory, _ := newFactory(tbl)
		store := account.New(factory)

		_, err := store.Register("alice", "hunter2")
		Expect(err).ToNot(HaveOccurred())

		_, err = store.Authenticate("alice", "wrong")
		Expect(err).To(HaveOccurred())
	})

	It("rejects authentication for an unknown name", func() {
		tbl := object.NewTable()
		factory, _ := newFactory(tbl)
		store := account.New(factory)

		_, err := store.Authenticate("nobody", "anything")
		Expect(err).To(HaveOccurred())
	})

	It("propagates a factory failure from Register without registering the account", func() {
		tbl := object.NewTable()
		boom := errors.New("boom")
		store := account.New(func(name string) (*heap.Object, error) {
			return nil, boom
		})

		_, err := store.Register("alice", "hunter2")
		Expect(err).To(HaveOccurred())
		Expect(store.Exists("alice")).To(BeFalse())
	})

	Describe("InMemorySerializer", func() {
		It("round-trips a saved object through Load", func() {
			tbl := object.NewTable()
			bp, err := heap.NewBlueprint(tbl, "/std/player")
			Expect(err).ToNot(HaveOccurred())
			obj, err := heap.NewObject(tbl, bp)
			Expect(err).ToNot(HaveOccurred())

			ser := account.NewInMemorySerializer()
			Expect(ser.Save("alice", obj)).To(Succeed())

			loaded, ok, err := ser.Load("alice")
			Expect(err).ToNot(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(loaded).To(Equal(obj))
		})

		It("reports not-found for a name that was never saved", func() {
			ser := account.NewInMemorySerializer()
			_, ok, err := ser.Load("nobody")
			Expect(err).ToNot(HaveOccurred())
			Expect(ok).To(BeFalse())
		})
	})

	Describe("NoopSerializer", func() {
		It("discards saves and never finds anything", func() {
			tbl := object.NewTable()
			bp, err := heap.NewBlueprint(tbl, "/std/player")
			Expect(err).ToNot(HaveOccurred())
			obj, err := heap.NewObject(tbl, bp)
			Expect(err).ToNot(HaveOccurred())

			var ser account.NoopSerializer
			Expect(ser.Save("alice", obj)).To(Succeed())

			_, ok, err := ser.Load("alice")
			Expect(err).ToNot(HaveOccurred())
			Expect(ok).To(BeFalse())
		})
	})
})
