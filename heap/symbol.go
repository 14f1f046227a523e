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

// Package heap implements the domain object kinds that live behind an
// object.Any: symbols, strings, arrays, mappings, functions, funcrefs,
// blueprints, objects (blueprint instances), and connections. Each kind
// embeds object.Header and is its own object.Descriptor.
//
// Builtin native functions are not stored on Symbol itself (that would
// require this package to depend on the interpreter's Fiber type, which
// depends on heap — a cycle). Instead a Symbol is only a name; the
// interpreter's builtin registry binds native functions to symbol names
// directly, matching the "Builtin registry" being its own component in
// the design (name-to-native-function binding, distinct from the Symbol
// domain kind).
package heap

import "github.com/nijakow/raven-go/object"

// Symbol is interned by name; two symbols with equal names are the same
// object once interned (Intern enforces this), guaranteeing symbol
// equality reduces to pointer equality.
type Symbol struct {
	object.Header
	object.IdentityOnly
	Name string
}

func (s *Symbol) Kind() object.Kind     { return object.KindSymbol }
func (s *Symbol) Mark(func(object.Any)) {}
func (s *Symbol) Destroy()              {}

// Intern returns the unique Symbol named name in tbl, allocating and
// linking it onto the interned-symbol list on first use. It returns nil
// on allocation failure.
func Intern(tbl *object.Table, name string) *Symbol {
	if sym := Lookup(tbl, name); sym != nil {
		return sym
	}

	sym := &Symbol{Name: name}
	if err := tbl.Init(&sym.Header, sym); err != nil {
		return nil
	}
	tbl.LinkSymbol(&sym.Header)
	return sym
}

// Lookup scans the interned-symbol list for name without allocating.
func Lookup(tbl *object.Table, name string) *Symbol {
	var found *Symbol
	tbl.EachSymbol(func(h *object.Header) bool {
		if sym, ok := h.Desc.(*Symbol); ok && sym.Name == name {
			found = sym
			return false
		}
		return true
	})
	return found
}

// Gensym allocates a non-interned symbol; unlike Intern it is not linked
// into the interned-symbol list, so it survives GC only while reachable
// from some other root.
func Gensym(tbl *object.Table, hint string) *Symbol {
	sym := &Symbol{Name: hint}
	if err := tbl.Init(&sym.Header, sym); err != nil {
		return nil
	}
	return sym
}

func (s *Symbol) Any() object.Any { return object.FromHeader(&s.Header) }
