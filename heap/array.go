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

import "github.com/nijakow/raven-go/object"

// Array is a mutable, growable sequence of tagged values. Growth is
// delegated to the Go runtime's append, rather than a hand-rolled
// doubling scheme — append already amortizes to O(1) and the slice
// backing array is itself invisible to the GC's object graph (it holds
// object.Any values directly, not Headers).
type Array struct {
	object.Header
	object.IdentityOnly
	items []object.Any
}

func (a *Array) Kind() object.Kind { return object.KindArray }

// Mark enqueues every element so the collector can trace through them.
func (a *Array) Mark(enqueue func(object.Any)) {
	for _, v := range a.items {
		enqueue(v)
	}
}

func (a *Array) Destroy() {}

// NewArray allocates an Array, copying the given initial contents.
func NewArray(tbl *object.Table, items []object.Any) (*Array, error) {
	a := &Array{items: append([]object.Any(nil), items...)}
	if err := tbl.Init(&a.Header, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Array) Any() object.Any { return object.FromHeader(&a.Header) }

// Size returns the element count.
func (a *Array) Size() int { return len(a.items) }

// Get returns the element at index, or (Nil, false) if out of range —
// reads never panic or crash the fiber.
func (a *Array) Get(index int) (object.Any, bool) {
	if index < 0 || index >= len(a.items) {
		return object.Nil(), false
	}
	return a.items[index], true
}

// Put writes value at index in place, reporting false (a no-op) if index
// is out of range.
func (a *Array) Put(index int, value object.Any) bool {
	if index < 0 || index >= len(a.items) {
		return false
	}
	a.items[index] = value
	return true
}

// Append grows the array by one element and returns the new size.
func (a *Array) Append(value object.Any) int {
	a.items = append(a.items, value)
	return len(a.items)
}

// Items returns a defensive copy of the array's backing contents.
func (a *Array) Items() []object.Any {
	return append([]object.Any(nil), a.items...)
}

// Join concatenates two arrays into a freshly allocated one.
func Join(tbl *object.Table, a, b *Array) (*Array, error) {
	combined := make([]object.Any, 0, len(a.items)+len(b.items))
	combined = append(combined, a.items...)
	combined = append(combined, b.items...)
	return NewArray(tbl, combined)
}
