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

// mapKey is the comparable projection of an object.Any used as a Go map
// key. Heap-tagged keys compare by pointer identity of their Header,
// matching EQ semantics for anything without a ContentEqual override
// (strings are the one kind callers should avoid as raw keys if they
// want content-equality lookup; that tradeoff mirrors the tagged-value
// model's general identity-vs-content split).
type mapKey struct {
	tag object.Tag
	num int64
	h   *object.Header
}

func keyOf(v object.Any) mapKey {
	k := mapKey{tag: v.Tag()}
	switch v.Tag() {
	case object.TagInt:
		k.num, _ = v.AsInt()
	case object.TagChar:
		r, _ := v.AsChar()
		k.num = int64(r)
	case object.TagHeap:
		k.h = v.Header()
	}
	return k
}

// Mapping is an associative tagged-value table. A key bound to Nil is
// treated as absent: Put(k, Nil) deletes k rather than storing it, and
// Get never returns a present-but-nil entry. This resolves the open
// question of whether a mapping can hold an explicit nil value by
// making nil synonymous with "no such key".
type Mapping struct {
	object.Header
	object.IdentityOnly
	keys   map[mapKey]object.Any
	values map[mapKey]object.Any
}

func (m *Mapping) Kind() object.Kind { return object.KindMapping }

func (m *Mapping) Mark(enqueue func(object.Any)) {
	for _, k := range m.keys {
		enqueue(k)
	}
	for _, v := range m.values {
		enqueue(v)
	}
}

func (m *Mapping) Destroy() {}

// NewMapping allocates an empty Mapping.
func NewMapping(tbl *object.Table) (*Mapping, error) {
	m := &Mapping{keys: make(map[mapKey]object.Any), values: make(map[mapKey]object.Any)}
	if err := tbl.Init(&m.Header, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Mapping) Any() object.Any { return object.FromHeader(&m.Header) }

// Get returns the value bound to key, or (Nil, false) if key is absent.
func (m *Mapping) Get(key object.Any) (object.Any, bool) {
	v, ok := m.values[keyOf(key)]
	return v, ok
}

// Put binds key to value, or removes key entirely when value is Nil.
func (m *Mapping) Put(key, value object.Any) {
	k := keyOf(key)
	if value.IsNil() {
		delete(m.keys, k)
		delete(m.values, k)
		return
	}
	m.keys[k] = key
	m.values[k] = value
}

// Size returns the number of bound keys.
func (m *Mapping) Size() int { return len(m.values) }

// Keys returns the bound keys in unspecified order.
func (m *Mapping) Keys() []object.Any {
	out := make([]object.Any, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, k)
	}
	return out
}
