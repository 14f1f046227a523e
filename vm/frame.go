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

// noCatch marks a frame with no active CATCH target.
const noCatch = -1

// Frame is one call's activation record: the calling frame, the
// function being executed, the instruction pointer, the base index of
// this call's locals within the fiber's value stack, and a catch
// address for nested exception handling (§4.6/§4.9 of the object
// model).
type Frame struct {
	Prev        *Frame
	Function    *heap.Function
	Self        object.Any
	IP          int
	LocalsBase  int
	CatchTarget int
}

// newFrame returns an initialized Frame whose locals start at base on the
// fiber's value stack. It reserves no slots itself: the caller
// (PushFrame) has already placed the function's LocalCount local slots,
// arguments first, at stack[base:]. Self is held in the Frame, not in a
// stack slot.
func newFrame(prev *Frame, fn *heap.Function, self object.Any, base int) *Frame {
	return &Frame{
		Prev:        prev,
		Function:    fn,
		Self:        self,
		IP:          0,
		LocalsBase:  base,
		CatchTarget: noCatch,
	}
}
