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
	"github.com/bits-and-blooms/bitset"

	"github.com/nijakow/raven-go/heap"
	"github.com/nijakow/raven-go/object"
)

// unaryOps lists the operators that consume only the accumulator
// (negate, not, sizeof, new). Every other operator pops its left operand
// and takes its right operand from the accumulator, except index_assign,
// which pops both target and key and takes the value from the
// accumulator.
var unaryOps = map[Operator]bool{
	OpNegate: true,
	OpNot:    true,
	OpSizeof: true,
	OpNew:    true,
}

// applyOperator executes op, consuming operands from f's stack/accumulator
// per §4.8 and leaving the result in f.Accu.
func applyOperator(ctx *Context, f *Fiber, op Operator) error {
	if unaryOps[op] {
		return applyUnary(ctx, f, op)
	}

	if op == OpIndexAssign {
		// Needs three operands (target, key, value); the generic
		// pop-left/accumulator-right shape below only covers two, so
		// this one pops both target and key itself and takes the
		// value from the accumulator.
		key, ok := f.Pop()
		if !ok {
			return f.fiberError(ErrorBadBytecode, "operator: stack underflow")
		}
		target, ok := f.Pop()
		if !ok {
			return f.fiberError(ErrorBadBytecode, "operator: stack underflow")
		}
		return applyIndexAssign(f, target, key, f.Accu)
	}

	left, ok := f.Pop()
	if !ok {
		return f.fiberError(ErrorBadBytecode, "operator: stack underflow")
	}
	right := f.Accu

	switch op {
	case OpAdd:
		return opAdd(ctx, f, left, right)
	case OpSub, OpMul, OpDiv, OpMod:
		return opArith(ctx, f, op, left, right)
	case OpEq, OpNeq, OpLt, OpLe, OpGt, OpGe:
		return opCompare(f, op, left, right)
	case OpIndex:
		return opIndex(ctx, f, left, right)
	}
	return f.fiberError(ErrorBadBytecode, "unknown operator")
}

// applyIndexAssign writes value into target[key]; unlike the other
// binary operators it needs three operands, so applyOperator pops
// target and key explicitly before calling in.
func applyIndexAssign(f *Fiber, target, key, value object.Any) error {
	switch k, ok := target.Kind(); {
	case ok && k == object.KindArray:
		a := target.Header().Desc.(*heap.Array)
		idx, iok := key.AsInt()
		if !iok {
			return f.fiberError(ErrorTypeError, "array index must be an int")
		}
		a.Put(int(idx), value)
		f.Accu = value
		return nil
	case ok && k == object.KindMapping:
		m := target.Header().Desc.(*heap.Mapping)
		m.Put(key, value)
		f.Accu = value
		return nil
	case ok && k == object.KindObject:
		o := target.Header().Desc.(*heap.Object)
		var sym *heap.Symbol
		sok := false
		if h := key.Header(); h != nil {
			sym, sok = h.Desc.(*heap.Symbol)
		}
		if !sok {
			return f.fiberError(ErrorTypeError, "object index must be a symbol")
		}
		idx, bp, found := findVar(o.Master, sym.Name)
		if !found {
			return f.fiberError(ErrorTypeError, "no such instance variable: "+sym.Name)
		}
		o.SetSlot(bp, idx, value)
		f.Accu = value
		return nil
	case target.IsInt():
		iv, _ := target.AsInt()
		idx, iok := key.AsInt()
		if !iok {
			return f.fiberError(ErrorTypeError, "bit index must be an int")
		}
		f.Accu = object.Int(bitAssign(iv, int(idx), value.Truthy()))
		return nil
	default:
		return f.fiberError(ErrorTypeError, "value is not indexable for assignment")
	}
}

func applyUnary(ctx *Context, f *Fiber, op Operator) error {
	switch op {
	case OpNegate:
		if i, ok := f.Accu.AsInt(); ok {
			f.Accu = object.Int(-i)
			return nil
		}
		return f.fiberError(ErrorTypeError, "negate requires an int")
	case OpNot:
		f.Accu = object.FromBool(!f.Accu.Truthy())
		return nil
	case OpSizeof:
		return opSizeof(f)
	case OpNew:
		return opNew(ctx, f)
	}
	return f.fiberError(ErrorBadBytecode, "unknown unary operator")
}

func opAdd(ctx *Context, f *Fiber, left, right object.Any) error {
	if li, lok := left.AsInt(); lok {
		if ri, rok := right.AsInt(); rok {
			if left.IsChar() || right.IsChar() {
				f.Accu = object.Char(rune(li + ri))
			} else {
				f.Accu = object.Int(li + ri)
			}
			return nil
		}
	}

	if ls, ok := asString(left); ok {
		if right.IsNil() {
			f.Accu = left
			return nil
		}
		if rs, ok := asString(right); ok {
			s, err := heap.Concat(ctx.Table, ls, rs)
			if err != nil {
				return f.fiberError(ErrorTypeError, "string concat allocation failed")
			}
			f.Accu = s.Any()
			return nil
		}
	}
	if left.IsNil() {
		if rs, ok := asString(right); ok {
			f.Accu = rs.Any()
			return nil
		}
	}

	if la, ok := asArray(left); ok {
		if ra, ok := asArray(right); ok {
			joined, err := heap.Join(ctx.Table, la, ra)
			if err != nil {
				return f.fiberError(ErrorTypeError, "array join allocation failed")
			}
			f.Accu = joined.Any()
			return nil
		}
	}

	return f.fiberError(ErrorTypeError, "unsupported operand types for +")
}

func opArith(ctx *Context, f *Fiber, op Operator, left, right object.Any) error {
	li, lok := left.AsInt()
	ri, rok := right.AsInt()
	if lok && rok {
		switch op {
		case OpSub:
			f.Accu = object.Int(li - ri)
		case OpMul:
			f.Accu = object.Int(li * ri)
		case OpDiv:
			if ri == 0 {
				return f.fiberError(ErrorDivisionByZero, "division by zero")
			}
			f.Accu = object.Int(li / ri)
		case OpMod:
			if ri == 0 {
				return f.fiberError(ErrorDivisionByZero, "modulo by zero")
			}
			f.Accu = object.Int(li % ri)
		}
		return nil
	}

	if op == OpMul {
		if ls, ok := asString(left); ok && rok {
			s, err := heap.Repeat(ctx.Table, ls, int(ri))
			if err != nil {
				return f.fiberError(ErrorTypeError, "string repeat allocation failed")
			}
			f.Accu = s.Any()
			return nil
		}
		if rs, ok := asString(right); ok && lok {
			s, err := heap.Repeat(ctx.Table, rs, int(li))
			if err != nil {
				return f.fiberError(ErrorTypeError, "string repeat allocation failed")
			}
			f.Accu = s.Any()
			return nil
		}
	}

	return f.fiberError(ErrorTypeError, "unsupported operand types for arithmetic")
}

func opCompare(f *Fiber, op Operator, left, right object.Any) error {
	if op == OpEq {
		f.Accu = object.FromBool(object.Equal(left, right))
		return nil
	}
	if op == OpNeq {
		f.Accu = object.FromBool(!object.Equal(left, right))
		return nil
	}

	if li, lok := left.AsInt(); lok {
		if ri, rok := right.AsInt(); rok {
			f.Accu = object.FromBool(compareInt(op, li, ri))
			return nil
		}
	}
	if ls, lok := asString(left); lok {
		if rs, rok := asString(right); rok {
			f.Accu = object.FromBool(compareInt(op, int64(stringCompare(ls.Text, rs.Text)), 0))
			return nil
		}
	}

	f.Accu = object.FromBool(false)
	return nil
}

func compareInt(op Operator, l, r int64) bool {
	switch op {
	case OpLt:
		return l < r
	case OpLe:
		return l <= r
	case OpGt:
		return l > r
	case OpGe:
		return l >= r
	}
	return false
}

func stringCompare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func opSizeof(f *Fiber) error {
	v := f.Accu
	switch {
	case v.IsNil():
		f.Accu = object.Int(0)
	case v.IsInt(), v.IsChar():
		f.Accu = object.Int(0)
	default:
		if s, ok := asStringAny(v); ok {
			f.Accu = object.Int(int64(s.Len()))
			return nil
		}
		if a, ok := asArrayAny(v); ok {
			f.Accu = object.Int(int64(a.Size()))
			return nil
		}
		if k, ok := v.Kind(); ok && k == object.KindMapping {
			m := v.Header().Desc.(*heap.Mapping)
			f.Accu = object.Int(int64(m.Size()))
			return nil
		}
		f.Accu = object.Int(0)
	}
	return nil
}

func opIndex(ctx *Context, f *Fiber, target, key object.Any) error {
	if s, ok := asStringAny(target); ok {
		idx, iok := key.AsInt()
		if !iok {
			return f.fiberError(ErrorTypeError, "string index must be an int")
		}
		r, ok := s.At(int(idx))
		if !ok {
			f.Accu = object.Nil()
			return nil
		}
		f.Accu = object.Char(r)
		return nil
	}
	if a, ok := asArrayAny(target); ok {
		idx, iok := key.AsInt()
		if !iok {
			return f.fiberError(ErrorTypeError, "array index must be an int")
		}
		v, _ := a.Get(int(idx))
		f.Accu = v
		return nil
	}
	if k, ok := target.Kind(); ok && k == object.KindMapping {
		m := target.Header().Desc.(*heap.Mapping)
		v, _ := m.Get(key)
		f.Accu = v
		return nil
	}
	if k, ok := target.Kind(); ok && k == object.KindObject {
		o := target.Header().Desc.(*heap.Object)
		var sym *heap.Symbol
		sok := false
		if h := key.Header(); h != nil {
			sym, sok = h.Desc.(*heap.Symbol)
		}
		if !sok {
			return f.fiberError(ErrorTypeError, "object index must be a symbol")
		}
		idx, bp, found := findVar(o.Master, sym.Name)
		if !found {
			f.Accu = object.Nil()
			return nil
		}
		v, _ := o.Slot(bp, idx)
		f.Accu = v
		return nil
	}
	if target.IsInt() {
		iv, _ := target.AsInt()
		idx, iok := key.AsInt()
		if !iok {
			return f.fiberError(ErrorTypeError, "bit index must be an int")
		}
		f.Accu = object.FromBool(bitTest(iv, int(idx)))
		return nil
	}

	return f.fiberError(ErrorTypeError, "value is not indexable")
}

func opNew(ctx *Context, f *Fiber) error {
	v := f.Accu
	if s, ok := asStringAny(v); ok {
		if ctx.Resolver == nil {
			return f.fiberError(ErrorTypeError, "new: no filesystem resolver bound")
		}
		bp, err := ctx.Resolver.Resolve(s.Text)
		if err != nil || bp == nil {
			return f.fiberError(ErrorTypeError, "new: no blueprint at path "+s.Text)
		}
		obj, err := heap.NewObject(ctx.Table, bp)
		if err != nil {
			return f.fiberError(ErrorTypeError, "new: allocation failed")
		}
		f.Accu = obj.Any()
		return nil
	}
	if k, ok := v.Kind(); ok {
		var bp *heap.Blueprint
		switch k {
		case object.KindBlueprint:
			bp = v.Header().Desc.(*heap.Blueprint)
		case object.KindObject:
			bp = v.Header().Desc.(*heap.Object).Master
		}
		if bp != nil {
			obj, err := heap.NewObject(ctx.Table, bp)
			if err != nil {
				return f.fiberError(ErrorTypeError, "new: allocation failed")
			}
			f.Accu = obj.Any()
			return nil
		}
	}
	return f.fiberError(ErrorTypeError, "new: operand is not a path, blueprint, or object")
}

// findVar walks bp's declared variable names (searching bp then
// ancestors, base-most first is irrelevant to correctness here since
// names are unique within a chain) to resolve sym to (slot index,
// owning blueprint).
func findVar(bp *heap.Blueprint, name string) (int, *heap.Blueprint, bool) {
	for cur := bp; cur != nil; cur = cur.Parent {
		for i, n := range cur.VarNames {
			if n == name {
				return i, cur, true
			}
		}
	}
	return 0, nil, false
}

func asString(v object.Any) (*heap.String, bool) {
	if v.IsNil() {
		return nil, false
	}
	return asStringAny(v)
}

func asStringAny(v object.Any) (*heap.String, bool) {
	k, ok := v.Kind()
	if !ok || k != object.KindString {
		return nil, false
	}
	return v.Header().Desc.(*heap.String), true
}

func asArray(v object.Any) (*heap.Array, bool) {
	if v.IsNil() {
		return nil, false
	}
	return asArrayAny(v)
}

func asArrayAny(v object.Any) (*heap.Array, bool) {
	k, ok := v.Kind()
	if !ok || k != object.KindArray {
		return nil, false
	}
	return v.Header().Desc.(*heap.Array), true
}

func bitTest(value int64, index int) bool {
	if index < 0 {
		return false
	}
	bs := bitset.From([]uint64{uint64(value)})
	return bs.Test(uint(index))
}

func bitAssign(value int64, index int, on bool) int64 {
	if index < 0 {
		return value
	}
	bs := bitset.From([]uint64{uint64(value)})
	if on {
		bs.Set(uint(index))
	} else {
		bs.Clear(uint(index))
	}
	words := bs.Bytes()
	if len(words) == 0 {
		return 0
	}
	return int64(words[0])
}
