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

package world

import (
	"github.com/nijakow/raven-go/heap"
	"github.com/nijakow/raven-go/object"
	"github.com/nijakow/raven-go/vm"
)

// registerBuiltins installs the small, fixed set of connection I/O
// native functions every blueprint can reach through ordinary message
// sends (the builtin-fallback path of §4.9): write_line to push text
// out over the fiber's bound connection, and receive_line to suspend
// the fiber until the scheduler delivers the next complete line.
func registerBuiltins(reg *vm.Registry) {
	reg.Register("write_line", builtinWriteLine)
	reg.Register("receive_line", builtinReceiveLine)
}

func builtinWriteLine(_ *vm.Context, f *vm.Fiber, args []object.Any) error {
	if f.Conn == nil || len(args) == 0 {
		f.Accu = object.Nil()
		return nil
	}
	text, ok := asString(args[0])
	if ok {
		_, _ = f.Conn.Write([]byte(text + "\n"))
	}
	f.Accu = object.Nil()
	return nil
}

func builtinReceiveLine(_ *vm.Context, f *vm.Fiber, _ []object.Any) error {
	f.WaitForInput(nil)
	return nil
}

func asString(v object.Any) (string, bool) {
	k, ok := v.Kind()
	if !ok || k != object.KindString {
		return "", false
	}
	s, ok := v.Header().Desc.(*heap.String)
	if !ok {
		return "", false
	}
	return s.Text, true
}
