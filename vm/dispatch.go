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

// proxyFor returns the installed proxy for a primitive receiver kind, or
// (Nil, false) if none is installed.
func proxyFor(ctx *Context, receiver object.Any) (object.Any, bool) {
	if receiver.IsNil() {
		return nonNil(ctx.Proxies.Nil)
	}
	k, ok := receiver.Kind()
	if !ok {
		return object.Nil(), false
	}
	switch k {
	case object.KindString:
		return nonNil(ctx.Proxies.String)
	case object.KindArray:
		return nonNil(ctx.Proxies.Array)
	case object.KindMapping:
		return nonNil(ctx.Proxies.Mapping)
	case object.KindSymbol:
		return nonNil(ctx.Proxies.Symbol)
	}
	return object.Nil(), false
}

func nonNil(v object.Any) (object.Any, bool) {
	if v.IsNil() {
		return object.Nil(), false
	}
	return v, true
}

// blueprintOf returns the Blueprint governing method lookup on receiver,
// if receiver is (or rewrites to) an Object.
func blueprintOf(receiver object.Any) (*heap.Object, *heap.Blueprint, bool) {
	k, ok := receiver.Kind()
	if !ok || k != object.KindObject {
		return nil, nil, false
	}
	o := receiver.Header().Desc.(*heap.Object)
	return o, o.Master, true
}

// send implements §4.9: proxy rewrite for primitive receivers, method
// lookup through the object's blueprint chain, and builtin fallback.
// On a successful method match it pushes a new frame and returns
// without running it (the interpreter's step loop picks up from
// there); on a builtin match it runs the builtin synchronously and
// leaves its result in f.Accu.
func send(ctx *Context, f *Fiber, receiver object.Any, message string, args []object.Any) error {
	effective := receiver
	if _, _, isObj := blueprintOf(receiver); !isObj {
		if proxy, hasProxy := proxyFor(ctx, receiver); hasProxy {
			effective = proxy
		} else {
			// No proxy installed and the receiver isn't an object:
			// fall straight through to the builtin table.
			return callBuiltin(ctx, f, message, args)
		}
	}

	if o, master, ok := blueprintOf(effective); ok {
		if fn, _ := master.LookupMethod(message); fn != nil {
			f.PushFrame(fn, o.Any(), args)
			return nil
		}
	}

	return callBuiltin(ctx, f, message, args)
}

// superSend resolves message starting from definingClass.Parent — the
// enclosing method's blueprint's parent — per §4.9's super-send rule.
func superSend(ctx *Context, f *Fiber, self object.Any, definingClass *heap.Blueprint, message string, args []object.Any) error {
	if definingClass == nil || definingClass.Parent == nil {
		return f.fiberError(ErrorNoSuper, "no super method: "+message)
	}
	fn, _ := definingClass.Parent.LookupMethod(message)
	if fn == nil {
		return f.fiberError(ErrorMethodNotFound, "super method not found: "+message)
	}
	f.PushFrame(fn, self, args)
	return nil
}

func callBuiltin(ctx *Context, f *Fiber, message string, args []object.Any) error {
	fn, ok := ctx.Builtins.Lookup(message)
	if !ok {
		return f.fiberError(ErrorBuiltinNotFound, "no method or builtin: "+message)
	}
	return fn(ctx, f, args)
}

// Send is the exported entry point for message dispatch, used by
// builtins (e.g. call_other) and by the scheduler's input delivery.
func Send(ctx *Context, f *Fiber, receiver object.Any, message string, args []object.Any) error {
	return send(ctx, f, receiver, message, args)
}

// PushInput delivers a completed line to a fiber that is
// WaitingForInput: it allocates a String for text and, if an input_to
// funcref was registered, invokes it with that string as the sole
// argument before resuming the fiber; with no funcref registered it is
// equivalent to ReactivateWithValue.
func (f *Fiber) PushInput(ctx *Context, text string) error {
	s, err := heap.NewString(ctx.Table, text)
	if err != nil {
		return err
	}

	if f.InputTo == nil {
		f.ReactivateWithValue(s.Any())
		return nil
	}

	funcref := f.InputTo
	f.InputTo = nil
	f.State = Running
	return send(ctx, f, funcref.Receiver, funcref.Message.Name, []object.Any{s.Any()})
}
