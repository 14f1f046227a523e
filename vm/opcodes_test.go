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

package vm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nijakow/raven-go/heap"
	"github.com/nijakow/raven-go/object"
	"github.com/nijakow/raven-go/types"
	"github.com/nijakow/raven-go/vm"
)

var _ = Describe("Individual opcodes", func() {
	It("LOAD_SELF loads the receiver into the accumulator", func() {
		ctx := newContext()
		code := op(nil, vm.LOAD_SELF)
		code = op(code, vm.RETURN)

		self := object.Int(42)
		fn := newFunction(ctx.Table, code, nil, 0)
		f := newFiberRunning(fn, self)
		vm.Run(ctx, f, 10)

		i, ok := f.Accu.AsInt()
		Expect(ok).To(BeTrue())
		Expect(i).To(Equal(int64(42)))
	})

	It("LOAD_ARRAY collects n popped values in push order", func() {
		ctx := newContext()
		code := op(nil, vm.LOAD_CONST)
		code = w(code, 0)
		code = op(code, vm.PUSH)
		code = op(code, vm.LOAD_CONST)
		code = w(code, 1)
		code = op(code, vm.PUSH)
		code = op(code, vm.LOAD_CONST)
		code = w(code, 2)
		code = op(code, vm.PUSH)
		code = op(code, vm.LOAD_ARRAY)
		code = w(code, 3)
		code = op(code, vm.RETURN)

		fn := newFunction(ctx.Table, code, []object.Any{object.Int(1), object.Int(2), object.Int(3)}, 0)
		f := newFiberRunning(fn, object.Nil())
		vm.Run(ctx, f, 50)

		k, ok := f.Accu.Kind()
		Expect(ok).To(BeTrue())
		Expect(k).To(Equal(object.KindArray))
		a := f.Accu.Header().Desc.(*heap.Array)
		Expect(a.Size()).To(Equal(3))
		v0, _ := a.Get(0)
		i0, _ := v0.AsInt()
		Expect(i0).To(Equal(int64(1)))
	})

	It("LOAD_MAPPING drops the trailing slot on an odd count", func() {
		ctx := newContext()
		code := op(nil, vm.LOAD_CONST)
		code = w(code, 0)
		code = op(code, vm.PUSH)
		code = op(code, vm.LOAD_CONST)
		code = w(code, 1)
		code = op(code, vm.PUSH)
		code = op(code, vm.LOAD_CONST)
		code = w(code, 2)
		code = op(code, vm.PUSH)
		code = op(code, vm.LOAD_MAPPING)
		code = w(code, 3)
		code = op(code, vm.RETURN)

		fn := newFunction(ctx.Table, code, []object.Any{object.Int(10), object.Int(20), object.Int(30)}, 0)
		f := newFiberRunning(fn, object.Nil())
		vm.Run(ctx, f, 50)

		k, ok := f.Accu.Kind()
		Expect(ok).To(BeTrue())
		Expect(k).To(Equal(object.KindMapping))
		m := f.Accu.Header().Desc.(*heap.Mapping)
		Expect(m.Size()).To(Equal(1))
		v, found := m.Get(object.Int(10))
		Expect(found).To(BeTrue())
		i, _ := v.AsInt()
		Expect(i).To(Equal(int64(20)))
	})

	It("LOAD_LOCAL/STORE_LOCAL round-trip through the frame's locals", func() {
		ctx := newContext()
		code := op(nil, vm.LOAD_CONST)
		code = w(code, 0)
		code = op(code, vm.STORE_LOCAL)
		code = w(code, 0)
		code = op(code, vm.LOAD_LOCAL)
		code = w(code, 0)
		code = op(code, vm.RETURN)

		fn := newFunction(ctx.Table, code, []object.Any{object.Int(99)}, 1)
		f := newFiberRunning(fn, object.Nil())
		vm.Run(ctx, f, 50)

		i, ok := f.Accu.AsInt()
		Expect(ok).To(BeTrue())
		Expect(i).To(Equal(int64(99)))
	})

	It("LOAD_MEMBER/STORE_MEMBER round-trip through an object's slots", func() {
		ctx := newContext()
		bp, err := heap.NewBlueprint(ctx.Table, "/std/thing")
		Expect(err).ToNot(HaveOccurred())
		bp.VarNames = []string{"x"}
		bp.VarTypes = []types.Type{types.TypeAny}

		o, err := heap.NewObject(ctx.Table, bp)
		Expect(err).ToNot(HaveOccurred())

		code := op(nil, vm.LOAD_CONST)
		code = w(code, 0)
		code = op(code, vm.STORE_MEMBER)
		code = w(code, 0)
		code = op(code, vm.LOAD_MEMBER)
		code = w(code, 0)
		code = op(code, vm.RETURN)

		fn := newFunction(ctx.Table, code, []object.Any{object.Int(7)}, 0)
		f := newFiberRunning(fn, o.Any())
		vm.Run(ctx, f, 50)

		i, ok := f.Accu.AsInt()
		Expect(ok).To(BeTrue())
		Expect(i).To(Equal(int64(7)))
	})

	It("JUMP_IF_NOT skips the jump when the accumulator is truthy", func() {
		ctx := newContext()
		code := op(nil, vm.LOAD_CONST)
		code = w(code, 0)
		code = op(code, vm.JUMP_IF_NOT)
		jumpOperandAt := len(code)
		code = w(code, 0) // patched below
		code = op(code, vm.LOAD_CONST)
		code = w(code, 1)
		code = op(code, vm.RETURN)
		skipTarget := int16(len(code))
		code = op(code, vm.LOAD_CONST)
		code = w(code, 2)
		code = op(code, vm.RETURN)
		code[jumpOperandAt] = byte(skipTarget)
		code[jumpOperandAt+1] = byte(uint16(skipTarget) >> 8)

		fn := newFunction(ctx.Table, code, []object.Any{object.Int(1), object.Int(100), object.Int(200)}, 0)
		f := newFiberRunning(fn, object.Nil())
		vm.Run(ctx, f, 50)

		i, ok := f.Accu.AsInt()
		Expect(ok).To(BeTrue())
		Expect(i).To(Equal(int64(100)))
	})

	It("TYPECHECK crashes the fiber when the accumulator doesn't match", func() {
		ctx := newContext()
		code := op(nil, vm.LOAD_CONST)
		code = w(code, 0)
		code = op(code, vm.TYPECHECK)
		code = w(code, int16(types.TypeString))

		fn := newFunction(ctx.Table, code, []object.Any{object.Int(5)}, 0)
		f := newFiberRunning(fn, object.Nil())
		vm.Run(ctx, f, 50)

		Expect(f.State).To(Equal(vm.Crashed))
	})

	It("CATCH unwinds to the handler and leaves a symbolic error in the accumulator", func() {
		ctx := newContext()
		code := op(nil, vm.CATCH)
		catchOperandAt := len(code)
		code = w(code, 0) // patched below
		code = op(code, vm.LOAD_CONST)
		code = w(code, 0)
		code = op(code, vm.PUSH)
		code = op(code, vm.LOAD_CONST)
		code = w(code, 1)
		code = op(code, vm.OP)
		code = w(code, int16(vm.OpDiv))
		handlerTarget := int16(len(code))
		code = op(code, vm.RETURN)
		code[catchOperandAt] = byte(handlerTarget)
		code[catchOperandAt+1] = byte(uint16(handlerTarget) >> 8)

		fn := newFunction(ctx.Table, code, []object.Any{object.Int(1), object.Int(0)}, 0)
		f := newFiberRunning(fn, object.Nil())
		vm.Run(ctx, f, 50)

		Expect(f.State).To(Equal(vm.Stopped))
		k, ok := f.Accu.Kind()
		Expect(ok).To(BeTrue())
		Expect(k).To(Equal(object.KindSymbol))
	})

	It("SUPER_SEND resolves from the defining blueprint's parent", func() {
		ctx := newContext()

		parentBody := op(nil, vm.LOAD_CONST)
		parentBody = w(parentBody, 0)
		parentBody = op(parentBody, vm.RETURN)
		parentFn := newFunction(ctx.Table, parentBody, []object.Any{object.Int(1)}, 0)
		parentFn.Name = heap.Intern(ctx.Table, "greet")

		parentBP, err := heap.NewBlueprint(ctx.Table, "/std/parent")
		Expect(err).ToNot(HaveOccurred())
		parentBP.Methods = append(parentBP.Methods, parentFn)

		childBody := op(nil, vm.SUPER_SEND)
		childBody = w(childBody, 0)
		childBody = append(childBody, 0) // argc = 0
		childBody = op(childBody, vm.RETURN)
		childFn := newFunction(ctx.Table, childBody, []object.Any{heap.Intern(ctx.Table, "greet").Any()}, 0)
		childFn.Name = heap.Intern(ctx.Table, "greet")

		childBP, err := heap.NewBlueprint(ctx.Table, "/std/child")
		Expect(err).ToNot(HaveOccurred())
		childBP.Parent = parentBP
		childBP.Methods = append(childBP.Methods, childFn)

		// SUPER_SEND resolves from the calling frame's Function.Blueprint,
		// i.e. the blueprint that defines childFn.
		childFn.Blueprint = childBP

		o, err := heap.NewObject(ctx.Table, childBP)
		Expect(err).ToNot(HaveOccurred())

		f := vm.NewFiber()
		f.PushFrame(childFn, o.Any(), nil)
		vm.Run(ctx, f, 50)

		i, ok := f.Accu.AsInt()
		Expect(ok).To(BeTrue())
		Expect(i).To(Equal(int64(1)))
	})

	It("SUPER_SEND crashes with no parent blueprint", func() {
		ctx := newContext()

		bp, err := heap.NewBlueprint(ctx.Table, "/std/orphan")
		Expect(err).ToNot(HaveOccurred())

		code := op(nil, vm.SUPER_SEND)
		code = w(code, 0)
		code = append(code, 0)

		fn := newFunction(ctx.Table, code, []object.Any{heap.Intern(ctx.Table, "greet").Any()}, 0)
		fn.Blueprint = bp

		o, err := heap.NewObject(ctx.Table, bp)
		Expect(err).ToNot(HaveOccurred())

		f := vm.NewFiber()
		f.PushFrame(fn, o.Any(), nil)
		vm.Run(ctx, f, 50)

		Expect(f.State).To(Equal(vm.Crashed))
	})
})
