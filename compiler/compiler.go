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

package compiler

import (
	"github.com/nijakow/raven-go/heap"
	"github.com/nijakow/raven-go/object"
	"github.com/nijakow/raven-go/types"
	"github.com/nijakow/raven-go/vm"
)

// Compile builds a fresh Blueprint at decl.Path from decl, allocating
// one Function per MethodDecl and attaching it via the same
// function_in_blueprint contract a full front end would use (append to
// Blueprint.Methods after the Function is allocated and the Blueprint
// exists, so Function.Blueprint can point back at it).
func Compile(tbl *object.Table, decl ClassDecl) (*heap.Blueprint, error) {
	bp, err := heap.NewBlueprint(tbl, decl.Path)
	if err != nil {
		return nil, err
	}
	bp.Parent = decl.Parent
	bp.VarNames = append([]string(nil), decl.VarNames...)
	bp.VarTypes = append([]types.Type(nil), decl.VarTypes...)

	for _, m := range decl.Methods {
		fn, err := compileMethod(tbl, decl, m)
		if err != nil {
			return nil, err
		}
		fn.Blueprint = bp
		bp.Methods = append(bp.Methods, fn)
	}

	return bp, nil
}

// compileMethod walks m.Body emitting bytecode against a fresh emitter,
// then allocates the Function carrying it.
func compileMethod(tbl *object.Table, decl ClassDecl, m MethodDecl) (*heap.Function, error) {
	e := newEmitter(tbl)

	for _, s := range m.Body {
		if err := e.stmt(s); err != nil {
			return nil, err
		}
	}
	// A body that falls off the end without an explicit return produces
	// the nil value.
	e.emitWord(vm.LOAD_CONST, e.addConst(object.Nil()))
	e.emit(vm.RETURN)

	name := heap.Intern(tbl, m.Name)
	fn, err := heap.NewFunction(tbl, name, e.code, e.consts, nil, m.LocalCount, m.Varargs)
	if err != nil {
		return nil, err
	}
	return fn, nil
}
