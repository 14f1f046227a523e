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

package heap

import (
	"github.com/nijakow/raven-go/object"
	"github.com/nijakow/raven-go/types"
)

// Function is a single compiled method body: its bytecode, its constant
// pool, and the parameter/local bookkeeping the interpreter needs to set
// up a Frame. Methods are attached to a Blueprint through a plain slice
// (Blueprint.Methods) rather than an intrusive next-pointer chain —
// lookup by name is already linear either way, and a slice lets the
// compiler rebuild a blueprint's method set with ordinary append calls
// instead of manual list surgery.
type Function struct {
	object.Header
	object.IdentityOnly

	Name       *Symbol
	Bytecode   []byte
	Constants  []object.Any
	ParamTypes []types.Type
	LocalCount int
	Varargs    bool
	Blueprint  *Blueprint
}

func (f *Function) Kind() object.Kind { return object.KindFunction }

func (f *Function) Mark(enqueue func(object.Any)) {
	if f.Name != nil {
		enqueue(f.Name.Any())
	}
	for _, c := range f.Constants {
		enqueue(c)
	}
	if f.Blueprint != nil {
		enqueue(f.Blueprint.Any())
	}
}

func (f *Function) Destroy() {}

// NewFunction allocates a Function. Blueprint is left nil here; the
// compiler attaches it via function_in_blueprint once the owning
// Blueprint exists.
func NewFunction(tbl *object.Table, name *Symbol, bytecode []byte, constants []object.Any, paramTypes []types.Type, localCount int, varargs bool) (*Function, error) {
	f := &Function{
		Name:       name,
		Bytecode:   append([]byte(nil), bytecode...),
		Constants:  append([]object.Any(nil), constants...),
		ParamTypes: append([]types.Type(nil), paramTypes...),
		LocalCount: localCount,
		Varargs:    varargs,
	}
	if err := tbl.Init(&f.Header, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Function) Any() object.Any { return object.FromHeader(&f.Header) }

// Arity returns the number of declared (non-vararg) parameters.
func (f *Function) Arity() int { return len(f.ParamTypes) }
