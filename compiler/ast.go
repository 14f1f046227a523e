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

// Package compiler turns a pre-built AST of a small expression/statement
// subset into heap.Function/heap.Blueprint values. It is deliberately
// not a parser or a full language front end — callers hand it an
// already-built tree (the filesystem collaborator is expected to own
// whatever parsing/source-text story sits in front of it); this package
// only owns the AST-to-bytecode step.
package compiler

import (
	"github.com/nijakow/raven-go/heap"
	"github.com/nijakow/raven-go/types"
	"github.com/nijakow/raven-go/vm"
)

// Expr is any node that produces a value, left in the fiber's
// accumulator once its bytecode runs.
type Expr interface{ exprNode() }

// Stmt is any node that does not itself produce a value.
type Stmt interface{ stmtNode() }

// IntLit is an integer literal.
type IntLit struct{ Value int64 }

// CharLit is a character literal.
type CharLit struct{ Value rune }

// StringLit is a string literal.
type StringLit struct{ Value string }

// SelfExpr evaluates to the current method's receiver.
type SelfExpr struct{}

// LocalRef reads parameter/local slot Index.
type LocalRef struct{ Index int }

// MemberRef reads instance variable slot Index, declared on the
// blueprint currently being compiled.
type MemberRef struct{ Index int }

// NewExpr instantiates the blueprint resolved from Path by the bound
// filesystem collaborator (vm.Context.Resolver).
type NewExpr struct{ Path string }

// FuncrefExpr builds a bound continuation (self, Message) — the
// expression form of LOAD_FUNCREF, used to compile `input_to` calls and
// similar callback registration.
type FuncrefExpr struct{ Message string }

// UnaryExpr applies a unary Operator (OpNegate, OpNot, OpSizeof, OpNew)
// to X.
type UnaryExpr struct {
	Op vm.Operator
	X  Expr
}

// BinaryExpr applies a binary Operator to Left and Right.
type BinaryExpr struct {
	Op          vm.Operator
	Left, Right Expr
}

// ArrayExpr builds an array from Elems, in order.
type ArrayExpr struct{ Elems []Expr }

// MappingEntry is one key/value pair of a MappingExpr.
type MappingEntry struct{ Key, Value Expr }

// MappingExpr builds a mapping from Entries, in order.
type MappingExpr struct{ Entries []MappingEntry }

// SendExpr compiles to a message send: Receiver evaluates first, then
// each of Args in order, then SEND.
type SendExpr struct {
	Receiver Expr
	Message  string
	Args     []Expr
}

// SuperSendExpr compiles to a SUPER_SEND against the enclosing method's
// defining blueprint.
type SuperSendExpr struct {
	Message string
	Args    []Expr
}

func (IntLit) exprNode()        {}
func (CharLit) exprNode()       {}
func (StringLit) exprNode()     {}
func (SelfExpr) exprNode()      {}
func (LocalRef) exprNode()      {}
func (MemberRef) exprNode()     {}
func (NewExpr) exprNode()       {}
func (FuncrefExpr) exprNode()   {}
func (UnaryExpr) exprNode()     {}
func (BinaryExpr) exprNode()    {}
func (ArrayExpr) exprNode()     {}
func (MappingExpr) exprNode()   {}
func (SendExpr) exprNode()      {}
func (SuperSendExpr) exprNode() {}

// ExprStmt evaluates X for effect, discarding the result.
type ExprStmt struct{ X Expr }

// ReturnStmt evaluates X (a nil X returns the nil value) and returns
// from the enclosing method.
type ReturnStmt struct{ X Expr }

// AssignLocalStmt evaluates Value and stores it in local slot Index.
type AssignLocalStmt struct {
	Index int
	Value Expr
}

// AssignMemberStmt evaluates Value and stores it in instance variable
// slot Index.
type AssignMemberStmt struct {
	Index int
	Value Expr
}

// IfStmt evaluates Cond; Then runs if it is truthy, Else otherwise.
type IfStmt struct {
	Cond       Expr
	Then, Else []Stmt
}

func (ExprStmt) stmtNode()         {}
func (ReturnStmt) stmtNode()       {}
func (AssignLocalStmt) stmtNode()  {}
func (AssignMemberStmt) stmtNode() {}
func (IfStmt) stmtNode()           {}

// MethodDecl is one compiled method: its name, how many of its locals
// are parameters, how many local slots it needs in total (params plus
// working locals), and its body.
type MethodDecl struct {
	Name       string
	ParamCount int
	LocalCount int
	Varargs    bool
	Body       []Stmt
}

// ClassDecl is a compilation unit: a virtual path, an optional parent
// blueprint already resolved by the caller, the instance variables this
// class itself declares, and its methods.
type ClassDecl struct {
	Path     string
	Parent   *heap.Blueprint
	VarNames []string
	VarTypes []types.Type
	Methods  []MethodDecl
}
