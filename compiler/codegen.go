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

// stmt emits s's bytecode. Every statement leaves the accumulator in
// whatever state its last expression left it — there is no implicit
// clearing, matching the interpreter's own "accumulator survives
// between instructions" contract.
func (e *emitter) stmt(s Stmt) error {
	switch n := s.(type) {
	case ExprStmt:
		return e.expr(n.X)

	case ReturnStmt:
		if n.X != nil {
			if err := e.expr(n.X); err != nil {
				return err
			}
		} else {
			e.emitWord(vm.LOAD_CONST, e.addConst(object.Nil()))
		}
		e.emit(vm.RETURN)
		return nil

	case AssignLocalStmt:
		if err := e.expr(n.Value); err != nil {
			return err
		}
		e.emitWord(vm.STORE_LOCAL, int16(n.Index))
		return nil

	case AssignMemberStmt:
		if err := e.expr(n.Value); err != nil {
			return err
		}
		e.emitWord(vm.STORE_MEMBER, int16(n.Index))
		return nil

	case IfStmt:
		return e.ifStmt(n)

	default:
		return errf("compiler: unknown statement node")
	}
}

func (e *emitter) ifStmt(n IfStmt) error {
	if err := e.expr(n.Cond); err != nil {
		return err
	}

	elseJump := e.reserveWord(vm.JUMP_IF_NOT)
	for _, s := range n.Then {
		if err := e.stmt(s); err != nil {
			return err
		}
	}

	if len(n.Else) == 0 {
		e.patchWord(elseJump, e.here())
		return nil
	}

	endJump := e.reserveWord(vm.JUMP)
	e.patchWord(elseJump, e.here())
	for _, s := range n.Else {
		if err := e.stmt(s); err != nil {
			return err
		}
	}
	e.patchWord(endJump, e.here())
	return nil
}

// expr emits n's bytecode, leaving its value in the accumulator.
func (e *emitter) expr(x Expr) error {
	switch n := x.(type) {
	case IntLit:
		e.emitWord(vm.LOAD_CONST, e.addConst(object.Int(n.Value)))
		return nil

	case CharLit:
		e.emitWord(vm.LOAD_CONST, e.addConst(object.Char(n.Value)))
		return nil

	case StringLit:
		s, err := heap.NewString(e.tbl, n.Value)
		if err != nil {
			return err
		}
		e.emitWord(vm.LOAD_CONST, e.addConst(s.Any()))
		return nil

	case SelfExpr:
		e.emit(vm.LOAD_SELF)
		return nil

	case LocalRef:
		e.emitWord(vm.LOAD_LOCAL, int16(n.Index))
		return nil

	case MemberRef:
		e.emitWord(vm.LOAD_MEMBER, int16(n.Index))
		return nil

	case NewExpr:
		s, err := heap.NewString(e.tbl, n.Path)
		if err != nil {
			return err
		}
		e.emitWord(vm.LOAD_CONST, e.addConst(s.Any()))
		e.emitWord(vm.OP, int16(vm.OpNew))
		return nil

	case FuncrefExpr:
		e.emitWord(vm.LOAD_FUNCREF, e.addSymbol(n.Message))
		return nil

	case UnaryExpr:
		if err := e.expr(n.X); err != nil {
			return err
		}
		e.emitWord(vm.OP, int16(n.Op))
		return nil

	case BinaryExpr:
		if err := e.expr(n.Left); err != nil {
			return err
		}
		e.emit(vm.PUSH)
		if err := e.expr(n.Right); err != nil {
			return err
		}
		e.emitWord(vm.OP, int16(n.Op))
		return nil

	case ArrayExpr:
		for _, elem := range n.Elems {
			if err := e.expr(elem); err != nil {
				return err
			}
			e.emit(vm.PUSH)
		}
		e.emitWord(vm.LOAD_ARRAY, int16(len(n.Elems)))
		return nil

	case MappingExpr:
		for _, ent := range n.Entries {
			if err := e.expr(ent.Key); err != nil {
				return err
			}
			e.emit(vm.PUSH)
			if err := e.expr(ent.Value); err != nil {
				return err
			}
			e.emit(vm.PUSH)
		}
		e.emitWord(vm.LOAD_MAPPING, int16(len(n.Entries)*2))
		return nil

	case SendExpr:
		return e.send(n)

	case SuperSendExpr:
		return e.superSend(n)

	default:
		return errf("compiler: unknown expression node")
	}
}

func (e *emitter) send(n SendExpr) error {
	if len(n.Args) > 255 {
		return ErrorMalformedAST.Error(errf("compiler: too many arguments to " + n.Message))
	}
	if err := e.expr(n.Receiver); err != nil {
		return err
	}
	e.emit(vm.PUSH)
	for _, a := range n.Args {
		if err := e.expr(a); err != nil {
			return err
		}
		e.emit(vm.PUSH)
	}
	e.emitWordByte(vm.SEND, e.addSymbol(n.Message), byte(len(n.Args)))
	return nil
}

func (e *emitter) superSend(n SuperSendExpr) error {
	if len(n.Args) > 255 {
		return ErrorMalformedAST.Error(errf("compiler: too many arguments to super " + n.Message))
	}
	for _, a := range n.Args {
		if err := e.expr(a); err != nil {
			return err
		}
		e.emit(vm.PUSH)
	}
	e.emitWordByte(vm.SUPER_SEND, e.addSymbol(n.Message), byte(len(n.Args)))
	return nil
}
