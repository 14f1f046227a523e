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

// Package object carries the heap-object header and tagged value shared by
// every domain kind, plus the object table that is the sole allocator and
// sole owner of every live heap object in a world.
package object

// Color is the tricolour GC mark state of a heap object.
type Color uint8

const (
	White Color = iota
	Gray
	Black
)

// Kind discriminates the domain object kinds that embed a Header.
type Kind uint8

const (
	KindSymbol Kind = iota
	KindString
	KindArray
	KindMapping
	KindFunction
	KindFuncref
	KindBlueprint
	KindObject
	KindConnection
)

func (k Kind) String() string {
	switch k {
	case KindSymbol:
		return "symbol"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindMapping:
		return "mapping"
	case KindFunction:
		return "function"
	case KindFuncref:
		return "funcref"
	case KindBlueprint:
		return "blueprint"
	case KindObject:
		return "object"
	case KindConnection:
		return "connection"
	default:
		return "unknown"
	}
}

// Descriptor is implemented by the concrete Go type embedding a Header; it
// is the per-kind "vtable" the GC dispatches through. Mark must call
// enqueue for every Any this object directly references. Destroy releases
// any off-heap storage; it must not allocate.
type Descriptor interface {
	Kind() Kind
	Mark(enqueue func(Any))
	Destroy()

	// ContentEqual reports whether this object equals other by content
	// rather than identity. ok is false for kinds that only support
	// identity equality, in which case the caller falls back to pointer
	// comparison.
	ContentEqual(other Descriptor) (equal, ok bool)
}

// IdentityOnly is embedded by domain kinds that compare only by identity,
// supplying the default ContentEqual.
type IdentityOnly struct{}

func (IdentityOnly) ContentEqual(Descriptor) (bool, bool) { return false, false }

// Header is the GC metadata embedded at the front of every heap-allocated
// domain object. The concrete type sets Desc to itself (through Table.Init)
// once constructed, so the header can be dispatched back to its owner.
type Header struct {
	Desc   Descriptor
	Serial uint64

	next          *Header // live list
	grayNext      *Header // GC mark worklist, transient
	symNext       *Header // interned-symbol list (symbols only)
	heartbeatNext *Header // heartbeat list (objects only)

	color Color
}

func (h *Header) Color() Color     { return h.color }
func (h *Header) SetColor(c Color) { h.color = c }

func (h *Header) GrayNext() *Header     { return h.grayNext }
func (h *Header) SetGrayNext(n *Header) { h.grayNext = n }

func (h *Header) Kind() Kind {
	if h == nil || h.Desc == nil {
		return 0
	}
	return h.Desc.Kind()
}
