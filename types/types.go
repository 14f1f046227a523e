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

// Package types defines the runtime type lattice consulted by the
// interpreter's TYPECHECK and TYPECAST bytecode operations and by a
// blueprint's variable declarations.
package types

import "github.com/nijakow/raven-go/object"

// Type is a runtime type tag, one per declarable/checkable kind. TypeAny
// matches every value and never fails a check or cast.
type Type uint8

const (
	TypeAny Type = iota
	TypeNil
	TypeInt
	TypeChar
	TypeString
	TypeSymbol
	TypeArray
	TypeMapping
	TypeFunction
	TypeFuncref
	TypeBlueprint
	TypeObject
	TypeConnection
)

func (t Type) String() string {
	switch t {
	case TypeAny:
		return "any"
	case TypeNil:
		return "nil"
	case TypeInt:
		return "int"
	case TypeChar:
		return "char"
	case TypeString:
		return "string"
	case TypeSymbol:
		return "symbol"
	case TypeArray:
		return "array"
	case TypeMapping:
		return "mapping"
	case TypeFunction:
		return "function"
	case TypeFuncref:
		return "funcref"
	case TypeBlueprint:
		return "blueprint"
	case TypeObject:
		return "object"
	case TypeConnection:
		return "connection"
	default:
		return "unknown"
	}
}

// ofKind maps an object.Kind to its Type.
func ofKind(k object.Kind) Type {
	switch k {
	case object.KindSymbol:
		return TypeSymbol
	case object.KindString:
		return TypeString
	case object.KindArray:
		return TypeArray
	case object.KindMapping:
		return TypeMapping
	case object.KindFunction:
		return TypeFunction
	case object.KindFuncref:
		return TypeFuncref
	case object.KindBlueprint:
		return TypeBlueprint
	case object.KindObject:
		return TypeObject
	case object.KindConnection:
		return TypeConnection
	default:
		return TypeAny
	}
}

// Of returns the runtime Type of v.
func Of(v object.Any) Type {
	switch v.Tag() {
	case object.TagNil:
		return TypeNil
	case object.TagInt:
		return TypeInt
	case object.TagChar:
		return TypeChar
	case object.TagHeap:
		if k, ok := v.Kind(); ok {
			return ofKind(k)
		}
		return TypeAny
	default:
		return TypeAny
	}
}

// Check reports whether v satisfies t. TypeAny always satisfies; int and
// char satisfy one another only through explicit Cast, not Check, since
// TYPECHECK in the interpreter is a strict kind match.
func Check(v object.Any, t Type) bool {
	if t == TypeAny {
		return true
	}
	return Of(v) == t
}

// Cast converts v to t where a lossless runtime coercion exists (the same
// int<->char coercion Any already performs on read), and reports ok=false
// otherwise — the interpreter crashes the fiber on a failed cast.
func Cast(v object.Any, t Type) (object.Any, bool) {
	if t == TypeAny || Check(v, t) {
		return v, true
	}
	switch t {
	case TypeInt:
		if i, ok := v.AsInt(); ok {
			return object.Int(i), true
		}
	case TypeChar:
		if c, ok := v.AsChar(); ok {
			return object.Char(c), true
		}
	}
	return object.Nil(), false
}
