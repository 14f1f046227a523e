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
	"github.com/nijakow/raven-go/vm"
)

// emitter accumulates one method's bytecode and constant pool. It has no
// notion of scoping beyond what the AST already resolved (LocalRef/
// MemberRef carry their slot index directly) — the AST is the
// compiler's only front end, so there is nothing left to resolve by
// name at this stage except symbol/string interning, which needs the
// object table.
type emitter struct {
	tbl    *object.Table
	code   []byte
	consts []object.Any
}

func newEmitter(tbl *object.Table) *emitter {
	return &emitter{tbl: tbl}
}

func (e *emitter) emit(op vm.Opcode) {
	e.code = append(e.code, byte(op))
}

func (e *emitter) emitWord(op vm.Opcode, w int16) {
	e.code = append(e.code, byte(op), byte(w), byte(uint16(w)>>8))
}

func (e *emitter) emitByte(op vm.Opcode, b byte) {
	e.code = append(e.code, byte(op), b)
}

// emitWordByte emits op followed by a 16-bit word then an 8-bit byte —
// SEND and SUPER_SEND's operand shape (symbol constant index, arity).
func (e *emitter) emitWordByte(op vm.Opcode, w int16, b byte) {
	e.code = append(e.code, byte(op), byte(w), byte(uint16(w)>>8), b)
}

// reserveWord emits op with a placeholder word operand and returns the
// byte offset of that operand, for patchWord to fill in once the jump
// target is known.
func (e *emitter) reserveWord(op vm.Opcode) int {
	at := len(e.code) + 1
	e.emitWord(op, 0)
	return at
}

func (e *emitter) patchWord(at int, target int16) {
	e.code[at] = byte(target)
	e.code[at+1] = byte(uint16(target) >> 8)
}

func (e *emitter) here() int16 { return int16(len(e.code)) }

// addConst interns v into the constant pool, reusing an existing slot
// when v is already equal-by-identity or equal-by-content to a pooled
// constant (mirrors how a real compiler avoids duplicate string/int
// constants for the same literal appearing twice in one method).
func (e *emitter) addConst(v object.Any) int16 {
	for i, c := range e.consts {
		if object.Equal(c, v) {
			return int16(i)
		}
	}
	e.consts = append(e.consts, v)
	return int16(len(e.consts) - 1)
}

func (e *emitter) addSymbol(name string) int16 {
	sym := heap.Intern(e.tbl, name)
	return e.addConst(sym.Any())
}

type compileError struct{ msg string }

func (c *compileError) Error() string { return c.msg }

func errf(msg string) error { return &compileError{msg: msg} }
