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

package vm

import (
	"github.com/nijakow/raven-go/heap"
	"github.com/nijakow/raven-go/object"
	"github.com/nijakow/raven-go/types"
)

// Run advances f by up to budget bytecodes, stopping early if the fiber
// leaves the Running state (it yields back to the scheduler unchanged,
// per §4.7, rather than being force-paused). It returns the number of
// bytecodes actually executed.
func Run(ctx *Context, f *Fiber, budget int) int {
	executed := 0
	for executed < budget && f.State == Running {
		if !step(ctx, f) {
			break
		}
		executed++
	}
	return executed
}

// step executes exactly one bytecode of the current frame's function,
// or performs an implicit return if ip has run past the end. It returns
// false if the fiber stopped being steppable this iteration (crashed or
// ran out of frames without producing further executable state).
func step(ctx *Context, f *Fiber) bool {
	fr := f.Frame
	if fr == nil {
		f.State = Stopped
		return false
	}

	code := fr.Function.Bytecode
	if fr.IP >= len(code) {
		f.PopFrame()
		return f.State == Running
	}

	op := Opcode(code[fr.IP])
	fr.IP++

	err := dispatchOpcode(ctx, f, fr, op)
	if err == nil {
		return true
	}
	handleCrash(ctx, f, err)
	return f.State == Running
}

// dispatchOpcode executes a single decoded opcode against the current
// frame, consuming its operand bytes (if any) from the bytecode stream.
func dispatchOpcode(ctx *Context, f *Fiber, fr *Frame, op Opcode) error {
	switch op {
	case NOOP:
		return nil

	case LOAD_SELF:
		f.Accu = fr.Self
		return nil

	case LOAD_CONST:
		k := readWord(f, fr)
		if k < 0 || int(k) >= len(fr.Function.Constants) {
			return f.fiberError(ErrorBadBytecode, "constant index out of range")
		}
		f.Accu = fr.Function.Constants[k]
		return nil

	case LOAD_ARRAY:
		n := readWord(f, fr)
		items, ok := f.PopN(int(n))
		if !ok {
			return f.fiberError(ErrorBadBytecode, "LOAD_ARRAY: stack underflow")
		}
		a, err := heap.NewArray(ctx.Table, items)
		if err != nil {
			return f.fiberError(ErrorTypeError, "LOAD_ARRAY: allocation failed")
		}
		f.Accu = a.Any()
		return nil

	case LOAD_MAPPING:
		n := int(readWord(f, fr))
		items, ok := f.PopN(n)
		if !ok {
			return f.fiberError(ErrorBadBytecode, "LOAD_MAPPING: stack underflow")
		}
		if len(items)%2 != 0 {
			// odd n drops one slot silently, per §4.7; the dropped
			// slot is the last one pushed, leaving complete pairs in
			// their original order.
			items = items[:len(items)-1]
		}
		m, err := heap.NewMapping(ctx.Table)
		if err != nil {
			return f.fiberError(ErrorTypeError, "LOAD_MAPPING: allocation failed")
		}
		for i := 0; i+1 < len(items); i += 2 {
			m.Put(items[i], items[i+1])
		}
		f.Accu = m.Any()
		return nil

	case LOAD_FUNCREF:
		sym, err := constSymbol(ctx, fr, readWord(f, fr))
		if err != nil {
			return err
		}
		fr2, allocErr := heap.NewFuncref(ctx.Table, fr.Self, sym)
		if allocErr != nil {
			return f.fiberError(ErrorTypeError, "LOAD_FUNCREF: allocation failed")
		}
		f.Accu = fr2.Any()
		return nil

	case LOAD_LOCAL:
		i := readWord(f, fr)
		v, ok := f.Local(int(i))
		if !ok {
			return f.fiberError(ErrorBadBytecode, "LOAD_LOCAL: index out of range")
		}
		f.Accu = v
		return nil

	case LOAD_MEMBER:
		i := readWord(f, fr)
		o, ok := asObject(fr.Self)
		if !ok {
			return f.fiberError(ErrorTypeError, "LOAD_MEMBER: self is not an object")
		}
		v, ok := o.Slot(o.Master, int(i))
		if !ok {
			return f.fiberError(ErrorBadBytecode, "LOAD_MEMBER: slot out of range")
		}
		f.Accu = v
		return nil

	case STORE_LOCAL:
		i := readWord(f, fr)
		if !f.SetLocal(int(i), f.Accu) {
			return f.fiberError(ErrorBadBytecode, "STORE_LOCAL: index out of range")
		}
		return nil

	case STORE_MEMBER:
		i := readWord(f, fr)
		o, ok := asObject(fr.Self)
		if !ok {
			return f.fiberError(ErrorTypeError, "STORE_MEMBER: self is not an object")
		}
		if !o.SetSlot(o.Master, int(i), f.Accu) {
			return f.fiberError(ErrorBadBytecode, "STORE_MEMBER: slot out of range")
		}
		return nil

	case PUSH_SELF:
		f.Push(fr.Self)
		return nil

	case PUSH_CONST:
		k := readWord(f, fr)
		if k < 0 || int(k) >= len(fr.Function.Constants) {
			return f.fiberError(ErrorBadBytecode, "constant index out of range")
		}
		f.Push(fr.Function.Constants[k])
		return nil

	case PUSH:
		f.Push(f.Accu)
		return nil

	case POP:
		if _, ok := f.Pop(); !ok {
			return f.fiberError(ErrorBadBytecode, "POP: stack underflow")
		}
		return nil

	case OP:
		return applyOperator(ctx, f, Operator(readWord(f, fr)))

	case SEND:
		return doSend(ctx, f, fr)

	case SUPER_SEND:
		return doSuperSend(ctx, f, fr)

	case JUMP:
		fr.IP = int(readWord(f, fr))
		return nil

	case JUMP_IF:
		target := readWord(f, fr)
		if f.Accu.Truthy() {
			fr.IP = int(target)
		}
		return nil

	case JUMP_IF_NOT:
		target := readWord(f, fr)
		if !f.Accu.Truthy() {
			fr.IP = int(target)
		}
		return nil

	case RETURN:
		f.PopFrame()
		return nil

	case TYPECHECK:
		t := types.Type(readWord(f, fr))
		if !types.Check(f.Accu, t) {
			return f.fiberError(ErrorTypeError, "typecheck failed: expected "+t.String())
		}
		return nil

	case TYPECAST:
		t := types.Type(readWord(f, fr))
		v, ok := types.Cast(f.Accu, t)
		if !ok {
			return f.fiberError(ErrorTypeError, "typecast failed: cannot cast to "+t.String())
		}
		f.Accu = v
		return nil

	case CATCH:
		fr.CatchTarget = int(readWord(f, fr))
		return nil

	default:
		return f.fiberError(ErrorBadBytecode, "unknown opcode")
	}
}

// readWord decodes the 16-bit operand at the current frame's ip and
// advances it past the operand.
func readWord(f *Fiber, fr *Frame) int16 {
	code := fr.Function.Bytecode
	if fr.IP+1 >= len(code) {
		fr.IP = len(code)
		return 0
	}
	w := word(code, fr.IP)
	fr.IP += 2
	return w
}

// readByte decodes the 8-bit operand at the current frame's ip (SEND's
// arity) and advances past it.
func readByte(fr *Frame) byte {
	code := fr.Function.Bytecode
	if fr.IP >= len(code) {
		fr.IP = len(code)
		return 0
	}
	b := code[fr.IP]
	fr.IP++
	return b
}

func constSymbol(ctx *Context, fr *Frame, k int16) (*heap.Symbol, error) {
	if k < 0 || int(k) >= len(fr.Function.Constants) {
		return nil, &crashError{code: ErrorBadBytecode, msg: "constant index out of range"}
	}
	v := fr.Function.Constants[k]
	kind, ok := v.Kind()
	if !ok || kind != object.KindSymbol {
		return nil, &crashError{code: ErrorTypeError, msg: "constant is not a symbol"}
	}
	return v.Header().Desc.(*heap.Symbol), nil
}

func asObject(v object.Any) (*heap.Object, bool) {
	k, ok := v.Kind()
	if !ok || k != object.KindObject {
		return nil, false
	}
	return v.Header().Desc.(*heap.Object), true
}

func doSend(ctx *Context, f *Fiber, fr *Frame) error {
	symWord := readWord(f, fr)
	argc := readByte(fr)

	sym, err := constSymbol(ctx, fr, symWord)
	if err != nil {
		return err
	}
	args, ok := f.PopN(int(argc))
	if !ok {
		return f.fiberError(ErrorBadBytecode, "SEND: stack underflow")
	}
	receiver, ok := f.Pop()
	if !ok {
		return f.fiberError(ErrorBadBytecode, "SEND: missing receiver")
	}
	return send(ctx, f, receiver, sym.Name, args)
}

func doSuperSend(ctx *Context, f *Fiber, fr *Frame) error {
	symWord := readWord(f, fr)
	argc := readByte(fr)

	sym, err := constSymbol(ctx, fr, symWord)
	if err != nil {
		return err
	}
	args, ok := f.PopN(int(argc))
	if !ok {
		return f.fiberError(ErrorBadBytecode, "SUPER_SEND: stack underflow")
	}
	return superSend(ctx, f, fr.Self, fr.Function.Blueprint, sym.Name, args)
}

// handleCrash turns err into either a CATCH-driven unwind (the nearest
// frame up the chain with a valid catch target) or a terminal Crashed
// transition if no such frame exists, per §7's unwind contract. A
// successful unwind sets the accumulator to an interned symbol naming
// the crash, the "symbolic error value" the catch clause inspects.
func handleCrash(ctx *Context, f *Fiber, err error) {
	msg := err.Error()

	for fr := f.Frame; fr != nil; fr = fr.Prev {
		if fr.CatchTarget != noCatch {
			f.Stack = f.Stack[:fr.LocalsBase+fr.Function.LocalCount]
			f.Frame = fr
			fr.IP = fr.CatchTarget
			fr.CatchTarget = noCatch
			if sym := heap.Intern(ctx.Table, msg); sym != nil {
				f.Accu = sym.Any()
			} else {
				f.Accu = object.Nil()
			}
			return
		}
	}

	f.crashIrrecoverably("", 0, msg)
}
