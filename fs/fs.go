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

// Package fs is the in-memory virtual filesystem collaborator: it maps
// virtual paths to compiled blueprints, compiling on first resolve and
// recompiling (with live-instance migration) on demand. It implements
// vm.Resolver, so the interpreter's `new` operator and a world's boot
// sequence both go through the same path → blueprint lookup.
package fs

import (
	"github.com/nijakow/raven-go/atomic"
	"github.com/nijakow/raven-go/compiler"
	"github.com/nijakow/raven-go/heap"
	"github.com/nijakow/raven-go/object"
	"github.com/nijakow/raven-go/types"
)

// Source is everything the filesystem needs to (re)compile a path: the
// pre-built method bodies a front end would otherwise parse from a file
// on disk, plus the path of the parent class (resolved through the same
// filesystem, so a recompile always picks up whatever the parent's
// latest blueprint currently is).
type Source struct {
	ParentPath string
	VarNames   []string
	VarTypes   []types.Type
	Methods    []compiler.MethodDecl
}

type entry struct {
	source    Source
	blueprint *heap.Blueprint
}

// FileSystem is the virtual path → blueprint store. It is safe for
// concurrent use; every method may be called from any fiber's builtin
// handler or from the scheduler goroutine.
type FileSystem struct {
	tbl     *object.Table
	entries atomic.MapTyped[string, *entry]
}

// New creates an empty filesystem bound to tbl.
func New(tbl *object.Table) *FileSystem {
	return &FileSystem{
		tbl:     tbl,
		entries: atomic.NewMapTyped[string, *entry](),
	}
}

// Install registers src at path and compiles it immediately, returning
// the fresh epoch-0 blueprint. Installing over an existing path behaves
// like Recompile (existing instances are migrated, epoch advances from
// whatever the path's current epoch is), since a front end reloading a
// file from disk can't tell the difference.
func (f *FileSystem) Install(path string, src Source) (*heap.Blueprint, error) {
	if old, ok := f.entries.Load(path); ok {
		f.entries.Store(path, &entry{source: src, blueprint: old.blueprint})
		return f.Recompile(path)
	}

	bp, err := f.compile(path, src, 0)
	if err != nil {
		return nil, err
	}
	f.entries.Store(path, &entry{source: src, blueprint: bp})
	return bp, nil
}

// Resolve implements vm.Resolver: it returns path's current blueprint,
// compiling it lazily if it was Install-ed but never compiled (this can
// only happen just after a parent's Recompile cleared a dependent's
// cached blueprint — see Recompile).
func (f *FileSystem) Resolve(path string) (*heap.Blueprint, error) {
	e, ok := f.entries.Load(path)
	if !ok {
		return nil, ErrorPathNotFound.Error(nil)
	}
	if e.blueprint != nil {
		return e.blueprint, nil
	}
	bp, err := f.compile(path, e.source, 0)
	if err != nil {
		return nil, err
	}
	e.blueprint = bp
	f.entries.Store(path, e)
	return bp, nil
}

// GetObject resolves path and instantiates a fresh Object from it.
func (f *FileSystem) GetObject(path string) (*heap.Object, error) {
	bp, err := f.Resolve(path)
	if err != nil {
		return nil, err
	}
	return heap.NewObject(f.tbl, bp)
}

// FindNewestVersion returns path's currently cached blueprint without
// forcing a compile, or (nil, false) if path is unknown or its
// blueprint was invalidated by a parent recompile and not yet rebuilt.
func (f *FileSystem) FindNewestVersion(path string) (*heap.Blueprint, bool) {
	e, ok := f.entries.Load(path)
	if !ok || e.blueprint == nil {
		return nil, false
	}
	return e.blueprint, true
}

// Roots returns one GC root per currently compiled blueprint, for a
// world's scheduler.Scheduler.SetRootProvider: a blueprint reachable
// only through its virtual path (no live object currently has it as
// Master) would otherwise never be marked and would be destroyed out
// from under a subsequent Resolve/GetObject.
func (f *FileSystem) Roots() []object.Any {
	var roots []object.Any
	f.entries.Range(func(_ string, e *entry) bool {
		if e.blueprint != nil {
			roots = append(roots, e.blueprint.Any())
		}
		return true
	})
	return roots
}

// IsSoulmate reports whether a and b are successive compilations of the
// same virtual path (see heap.Blueprint.IsSoulmate).
func IsSoulmate(a, b *heap.Blueprint) bool {
	return a.IsSoulmate(b)
}

// Recompile rebuilds path's source at a new epoch and migrates every
// live object whose master is a soulmate of the old blueprint onto the
// new one (heap.SwitchBlueprint), per §4.11. It also drops the cached
// blueprint of any other installed path whose ParentPath is path, so
// their next Resolve recompiles against the fresh parent.
func (f *FileSystem) Recompile(path string) (*heap.Blueprint, error) {
	e, ok := f.entries.Load(path)
	if !ok {
		return nil, ErrorPathNotFound.Error(nil)
	}

	old := e.blueprint
	nextEpoch := uint64(0)
	if old != nil {
		nextEpoch = old.Epoch + 1
	}

	bp, err := f.compile(path, e.source, nextEpoch)
	if err != nil {
		return nil, err
	}

	f.entries.Store(path, &entry{source: e.source, blueprint: bp})

	if old != nil {
		f.tbl.EachLive(func(h *object.Header) bool {
			o, isObj := h.Desc.(*heap.Object)
			if isObj && o.Master != nil && o.Master.IsSoulmate(old) {
				heap.SwitchBlueprint(o, bp)
			}
			return true
		})
	}

	f.invalidateChildren(path)
	return bp, nil
}

// invalidateChildren clears the cached blueprint (keeping the source)
// of every installed path whose ParentPath is path, so a subsequent
// Resolve recompiles against the new parent instead of silently
// keeping a stale one.
func (f *FileSystem) invalidateChildren(path string) {
	var children []string
	f.entries.Range(func(p string, e *entry) bool {
		if e.source.ParentPath == path {
			children = append(children, p)
		}
		return true
	})
	for _, p := range children {
		e, ok := f.entries.Load(p)
		if !ok {
			continue
		}
		f.entries.Store(p, &entry{source: e.source})
	}
}

func (f *FileSystem) compile(path string, src Source, epoch uint64) (*heap.Blueprint, error) {
	var parent *heap.Blueprint
	if src.ParentPath != "" {
		p, err := f.Resolve(src.ParentPath)
		if err != nil {
			return nil, err
		}
		parent = p
	}

	decl := compiler.ClassDecl{
		Path:     path,
		Parent:   parent,
		VarNames: src.VarNames,
		VarTypes: src.VarTypes,
		Methods:  src.Methods,
	}
	bp, err := compiler.Compile(f.tbl, decl)
	if err != nil {
		return nil, err
	}
	bp.Epoch = epoch
	return bp, nil
}
