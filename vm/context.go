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

package vm

import (
	"github.com/nijakow/raven-go/heap"
	"github.com/nijakow/raven-go/object"
)

// NativeFunc is a builtin's implementation: it may read/push the
// fiber's stack, set its accumulator, or alter its state (pause, wait
// for input, crash). args is a borrowed slice of already-evaluated
// arguments, per the external-interface contract for builtins.
type NativeFunc func(ctx *Context, f *Fiber, args []object.Any) error

// Registry binds builtin names to their native implementation — the
// "name to native function" component kept separate from Symbol itself
// (see heap.Symbol's doc comment for why).
type Registry struct {
	fns map[string]NativeFunc
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{fns: make(map[string]NativeFunc)}
}

// Register binds name to fn, overwriting any previous binding.
func (r *Registry) Register(name string, fn NativeFunc) {
	r.fns[name] = fn
}

// Lookup returns the native function bound to name, if any.
func (r *Registry) Lookup(name string) (NativeFunc, bool) {
	fn, ok := r.fns[name]
	return fn, ok
}

// Proxies holds the per-world proxy objects message sends to primitive
// receivers are redirected through (§4.9 step 1). A nil entry here means
// "no proxy installed for this kind".
type Proxies struct {
	Nil     object.Any
	String  object.Any
	Array   object.Any
	Mapping object.Any
	Symbol  object.Any
}

// Resolver is the filesystem collaborator's contribution to the `new`
// operator: resolving a virtual path to the blueprint it compiles to.
// Defined here (rather than imported from a concrete fs package) so vm
// depends only on heap/object/types, not on the filesystem component —
// fs implements this interface instead.
type Resolver interface {
	Resolve(path string) (*heap.Blueprint, error)
}

// Context threads the world-level collaborators every interpreter
// operation needs, replacing the source's global "world" handle with an
// explicit parameter per the redesign note.
type Context struct {
	Table    *object.Table
	Builtins *Registry
	Proxies  Proxies
	Resolver Resolver
}
