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
	liberr "github.com/nijakow/raven-go/errors"
	"github.com/nijakow/raven-go/heap"
	"github.com/nijakow/raven-go/object"
)

// State is a fiber's cooperative-scheduling status.
type State int

const (
	Running State = iota
	Paused
	WaitingForInput
	Stopped
	Crashed
)

func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	case WaitingForInput:
		return "WaitingForInput"
	case Stopped:
		return "Stopped"
	case Crashed:
		return "Crashed"
	default:
		return "Unknown"
	}
}

// Fiber is a cooperatively scheduled execution context: its own value
// stack, frame chain, and accumulator. Fibers are not themselves a
// GC-table domain kind (per the object model's kind list); the Fiber's
// roots (Conn.Player, ThisPlayer, InputTo, locals still on Stack) are
// fed to the collector by the owning scheduler instead.
//
// Conn is the connection this fiber is bound to, if any — the reverse
// of the wording that a Connection carries its fiber, chosen because a
// Fiber already needs to reach its Connection on every wait_for_input
// and write, while a Connection with no fiber (freshly accepted, or
// between input cycles) is a completely ordinary state that doesn't
// need a nilable back-reference cluttering heap.Connection.
type Fiber struct {
	Stack []object.Any
	Frame *Frame
	Accu  object.Any
	State State

	Conn       *heap.Connection
	InputTo    *heap.Funcref
	ThisPlayer object.Any

	CrashFile string
	CrashLine int
	CrashMsg  string
}

// NewFiber creates a fresh, Running fiber with an empty stack.
func NewFiber() *Fiber {
	return &Fiber{
		State:      Running,
		ThisPlayer: object.Nil(),
	}
}

// Push appends v to the top of the value stack.
func (f *Fiber) Push(v object.Any) {
	f.Stack = append(f.Stack, v)
}

// Pop removes and returns the top value, or (Nil, false) if the stack is
// empty — an empty pop is a compiler/interpreter bug, reported rather
// than panicking so the caller can turn it into a BadBytecode crash.
func (f *Fiber) Pop() (object.Any, bool) {
	if len(f.Stack) == 0 {
		return object.Nil(), false
	}
	v := f.Stack[len(f.Stack)-1]
	f.Stack = f.Stack[:len(f.Stack)-1]
	return v, true
}

// PopN removes and returns the top n values in push order (the first
// pushed is result[0]), or false if fewer than n are available.
func (f *Fiber) PopN(n int) ([]object.Any, bool) {
	if n < 0 || len(f.Stack) < n {
		return nil, false
	}
	start := len(f.Stack) - n
	out := append([]object.Any(nil), f.Stack[start:]...)
	f.Stack = f.Stack[:start]
	return out, true
}

// PushFrame reserves fn.LocalCount local slots, fills the first argc of
// them from args (already popped off the caller's stack, first-pushed
// first), pads the rest with Nil, and links a new Frame atop the
// current one.
func (f *Fiber) PushFrame(fn *heap.Function, self object.Any, args []object.Any) {
	base := len(f.Stack)

	locals := make([]object.Any, fn.LocalCount)
	n := len(args)
	if n > len(locals) {
		n = len(locals)
	}
	copy(locals, args[:n])
	for i := n; i < len(locals); i++ {
		locals[i] = object.Nil()
	}
	f.Stack = append(f.Stack, locals...)

	f.Frame = newFrame(f.Frame, fn, self, base)
}

// PopFrame discards the current frame's locals and restores the caller
// frame, mirroring newFrame/PushFrame's "reserve then discard" stack
// discipline. The fiber transitions to Stopped when no frame remains.
func (f *Fiber) PopFrame() {
	if f.Frame == nil {
		f.State = Stopped
		return
	}
	f.Stack = f.Stack[:f.Frame.LocalsBase]
	f.Frame = f.Frame.Prev
	if f.Frame == nil {
		f.State = Stopped
	}
}

// Local reads local slot i of the current frame, or (Nil, false) if out
// of range.
func (f *Fiber) Local(i int) (object.Any, bool) {
	if f.Frame == nil || i < 0 || f.Frame.LocalsBase+i >= len(f.Stack) {
		return object.Nil(), false
	}
	return f.Stack[f.Frame.LocalsBase+i], true
}

// SetLocal writes local slot i of the current frame, reporting false (a
// no-op) if out of range.
func (f *Fiber) SetLocal(i int, v object.Any) bool {
	if f.Frame == nil || i < 0 || f.Frame.LocalsBase+i >= len(f.Stack) {
		return false
	}
	f.Stack[f.Frame.LocalsBase+i] = v
	return true
}

// crashIrrecoverably records file/line/msg and transitions the fiber to
// Crashed unconditionally. CATCH-driven unwinding happens before this is
// reached, in handleCrash (interpreter.go).
func (f *Fiber) crashIrrecoverably(file string, line int, msg string) {
	f.CrashFile = file
	f.CrashLine = line
	f.CrashMsg = msg
	f.State = Crashed
}

// crashError is a recoverable interpreter crash: a CodeError plus the
// descriptive message the fiber's crash bookkeeping wants, returned up
// through every operator/dispatch helper instead of panicking (per the
// "no native panic should escape the interpreter" design note).
type crashError struct {
	code liberr.CodeError
	msg  string
}

func (e *crashError) Error() string { return e.msg }

// fiberError builds the crashError a calling helper returns; the
// Interpreter step loop turns it into either a CATCH-driven unwind or a
// terminal Crashed transition.
func (f *Fiber) fiberError(code liberr.CodeError, msg string) error {
	return &crashError{code: code, msg: msg}
}

// Pause transitions a Running fiber to Paused.
func (f *Fiber) Pause() {
	if f.State == Running {
		f.State = Paused
	}
}

// Stop is the scheduler's explicit cancellation: the fiber transitions
// to Stopped unconditionally, from any state, and will never run again.
func (f *Fiber) Stop() {
	f.State = Stopped
}

// WaitForInput transitions a Running fiber to WaitingForInput, remembering
// inputTo as the one-shot continuation.
func (f *Fiber) WaitForInput(inputTo *heap.Funcref) {
	f.InputTo = inputTo
	f.State = WaitingForInput
}

// ReactivateWithValue sets the accumulator and resumes a waiting fiber
// without invoking InputTo.
func (f *Fiber) ReactivateWithValue(v object.Any) {
	f.Accu = v
	f.InputTo = nil
	f.State = Running
}
