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

package account

import (
	"github.com/nijakow/raven-go/atomic"
	"github.com/nijakow/raven-go/heap"
)

// Serializer is the fixed persistence boundary named in §4.13: the
// actual on-disk format is explicitly out of scope, so this module
// only defines the shape a real implementation would satisfy.
type Serializer interface {
	Save(name string, obj *heap.Object) error
	Load(name string) (*heap.Object, bool, error)
}

// NoopSerializer discards every Save and finds nothing on Load. It is
// the default when no real persistence layer is configured.
type NoopSerializer struct{}

func (NoopSerializer) Save(name string, obj *heap.Object) error { return nil }

func (NoopSerializer) Load(name string) (*heap.Object, bool, error) { return nil, false, nil }

// InMemorySerializer "persists" by holding the live *heap.Object
// pointer in a process-local map. It satisfies the Serializer
// interface for tests and single-process runs without pretending to
// implement an actual wire/disk format.
type InMemorySerializer struct {
	saved atomic.MapTyped[string, *heap.Object]
}

func NewInMemorySerializer() *InMemorySerializer {
	return &InMemorySerializer{saved: atomic.NewMapTyped[string, *heap.Object]()}
}

func (s *InMemorySerializer) Save(name string, obj *heap.Object) error {
	s.saved.Store(name, obj)
	return nil
}

func (s *InMemorySerializer) Load(name string) (*heap.Object, bool, error) {
	obj, ok := s.saved.Load(name)
	return obj, ok, nil
}
