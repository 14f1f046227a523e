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

package object

// Tag discriminates the kinds of value an Any can carry.
type Tag uint8

const (
	TagNil Tag = iota
	TagInt
	TagChar
	TagHeap
)

// Any is the uniform tagged value carried on the fiber stack and in every
// slot (locals, instance variables, array elements, mapping entries).
type Any struct {
	tag Tag
	num int64
	h   *Header
}

func Nil() Any                 { return Any{tag: TagNil} }
func Int(i int64) Any          { return Any{tag: TagInt, num: i} }
func Char(r rune) Any          { return Any{tag: TagChar, num: int64(r)} }
func FromHeader(h *Header) Any { return Any{tag: TagHeap, h: h} }

// FromBool encodes a boolean as the int 1/0 pair the interpreter's
// comparison and logical operators are specified to produce.
func FromBool(b bool) Any {
	if b {
		return Int(1)
	}
	return Int(0)
}

func (a Any) Tag() Tag     { return a.tag }
func (a Any) IsNil() bool  { return a.tag == TagNil }
func (a Any) IsInt() bool  { return a.tag == TagInt }
func (a Any) IsChar() bool { return a.tag == TagChar }
func (a Any) IsHeap() bool { return a.tag == TagHeap }

// AsInt returns the payload as an integer, coercing a character to its code
// point.
func (a Any) AsInt() (int64, bool) {
	switch a.tag {
	case TagInt:
		return a.num, true
	case TagChar:
		return a.num, true
	default:
		return 0, false
	}
}

// AsChar returns the payload as a rune, coercing an integer on read.
func (a Any) AsChar() (rune, bool) {
	switch a.tag {
	case TagChar:
		return rune(a.num), true
	case TagInt:
		return rune(a.num), true
	default:
		return 0, false
	}
}

// Header returns the heap pointer carried by a, or nil if a is not a heap
// value.
func (a Any) Header() *Header {
	if a.tag != TagHeap {
		return nil
	}
	return a.h
}

func (a Any) Kind() (Kind, bool) {
	if a.tag != TagHeap || a.h == nil {
		return 0, false
	}
	return a.h.Kind(), true
}

// Truthy implements the truthiness rule: nil, zero integer, and zero
// character are false; anything else (including heap values) is true.
func (a Any) Truthy() bool {
	switch a.tag {
	case TagNil:
		return false
	case TagInt, TagChar:
		return a.num != 0
	default:
		return true
	}
}

// Equal implements structural equality on primitives and identity on heap
// pointers, except for kinds that define ContentEqual (strings compare by
// content).
func Equal(a, b Any) bool {
	if a.tag != b.tag {
		return false
	}
	switch a.tag {
	case TagNil:
		return true
	case TagInt, TagChar:
		return a.num == b.num
	case TagHeap:
		if a.h == b.h {
			return true
		}
		if a.h == nil || b.h == nil {
			return false
		}
		if eq, ok := a.h.Desc.ContentEqual(b.h.Desc); ok {
			return eq
		}
		return false
	default:
		return false
	}
}
