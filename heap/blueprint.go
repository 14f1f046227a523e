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

import (
	"github.com/nijakow/raven-go/object"
	"github.com/nijakow/raven-go/types"
)

// Blueprint is a compiled class: its instance variable layout, its
// methods, and its parent in the inheritance chain. Recompiling a file
// produces a new Blueprint with the same Path and a higher Epoch; object
// instances keep their old pages until SwitchBlueprint migrates them
// (see object.go), which is how hot reload works without invalidating
// every live instance.
type Blueprint struct {
	object.Header
	object.IdentityOnly

	Path     string
	Epoch    uint64
	VarNames []string
	VarTypes []types.Type
	Methods  []*Function
	Parent   *Blueprint
}

func (b *Blueprint) Kind() object.Kind { return object.KindBlueprint }

func (b *Blueprint) Mark(enqueue func(object.Any)) {
	for _, m := range b.Methods {
		enqueue(m.Any())
	}
	if b.Parent != nil {
		enqueue(b.Parent.Any())
	}
}

func (b *Blueprint) Destroy() {}

// NewBlueprint allocates a Blueprint at path, epoch 0, with no methods
// and no parent; the compiler fills in VarNames/Methods/Parent as it
// processes a source file.
func NewBlueprint(tbl *object.Table, path string) (*Blueprint, error) {
	b := &Blueprint{Path: path}
	if err := tbl.Init(&b.Header, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Blueprint) Any() object.Any { return object.FromHeader(&b.Header) }

// LookupMethod searches b and then its ancestors for a method named
// name, returning the first match and the Blueprint that defines it
// (needed for super-send, which resumes the search one level above
// definingClass).
func (b *Blueprint) LookupMethod(name string) (*Function, *Blueprint) {
	for cur := b; cur != nil; cur = cur.Parent {
		for _, m := range cur.Methods {
			if m.Name != nil && m.Name.Name == name {
				return m, cur
			}
		}
	}
	return nil, nil
}

// IsSoulmate reports whether b and other are the same Path across
// possibly different Epochs — the relation an Object's page list uses
// to decide whether a page was produced by a given blueprint lineage.
func (b *Blueprint) IsSoulmate(other *Blueprint) bool {
	if b == nil || other == nil {
		return false
	}
	return b.Path == other.Path
}

// NumVars returns the number of instance variables this blueprint alone
// declares (not counting ancestors).
func (b *Blueprint) NumVars() int { return len(b.VarNames) }
