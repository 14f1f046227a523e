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

// Package vm implements the bytecode interpreter: fibers, frames, the
// dispatch loop, operator semantics, message send, and the builtin
// registry.
package vm

// Opcode is a single-byte instruction tag. Word operands (16-bit) follow
// opcodes that need a constant/local/jump index; the arity of SEND and
// SUPER_SEND is the only byte-operand. The numeric values are part of the bytecode ABI
// the compiler and interpreter must agree on — do not renumber once a
// blueprint has been compiled against a given set.
type Opcode byte

const (
	NOOP Opcode = iota
	LOAD_SELF
	LOAD_CONST
	LOAD_ARRAY
	LOAD_MAPPING
	LOAD_FUNCREF
	LOAD_LOCAL
	LOAD_MEMBER
	STORE_LOCAL
	STORE_MEMBER
	PUSH_SELF
	PUSH_CONST
	PUSH
	POP
	OP
	SEND
	SUPER_SEND
	JUMP
	JUMP_IF
	JUMP_IF_NOT
	RETURN
	TYPECHECK
	TYPECAST
	CATCH
)

func (op Opcode) String() string {
	switch op {
	case NOOP:
		return "NOOP"
	case LOAD_SELF:
		return "LOAD_SELF"
	case LOAD_CONST:
		return "LOAD_CONST"
	case LOAD_ARRAY:
		return "LOAD_ARRAY"
	case LOAD_MAPPING:
		return "LOAD_MAPPING"
	case LOAD_FUNCREF:
		return "LOAD_FUNCREF"
	case LOAD_LOCAL:
		return "LOAD_LOCAL"
	case LOAD_MEMBER:
		return "LOAD_MEMBER"
	case STORE_LOCAL:
		return "STORE_LOCAL"
	case STORE_MEMBER:
		return "STORE_MEMBER"
	case PUSH_SELF:
		return "PUSH_SELF"
	case PUSH_CONST:
		return "PUSH_CONST"
	case PUSH:
		return "PUSH"
	case POP:
		return "POP"
	case OP:
		return "OP"
	case SEND:
		return "SEND"
	case SUPER_SEND:
		return "SUPER_SEND"
	case JUMP:
		return "JUMP"
	case JUMP_IF:
		return "JUMP_IF"
	case JUMP_IF_NOT:
		return "JUMP_IF_NOT"
	case RETURN:
		return "RETURN"
	case TYPECHECK:
		return "TYPECHECK"
	case TYPECAST:
		return "TYPECAST"
	case CATCH:
		return "CATCH"
	default:
		return "UNKNOWN"
	}
}

// Operator is the OP instruction's sub-code, carried as its 16-bit
// operand.
type Operator uint16

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNeq
	OpLt
	OpLe
	OpGt
	OpGe
	OpNegate
	OpNot
	OpSizeof
	OpIndex
	OpIndexAssign
	OpNew
)

// word decodes a signed 16-bit little-endian operand starting at
// bytecode[ip].
func word(bytecode []byte, ip int) int16 {
	return int16(uint16(bytecode[ip]) | uint16(bytecode[ip+1])<<8)
}
