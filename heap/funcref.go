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

// Funcref is a bound message send waiting to happen: a receiver plus a
// message (method) name, produced by LOAD_FUNCREF and invoked later by
// the interpreter's SEND machinery or by input_to continuations.
type Funcref struct {
	object.Header
	object.IdentityOnly

	Receiver object.Any
	Message  *Symbol
}

func (f *Funcref) Kind() object.Kind { return object.KindFuncref }

func (f *Funcref) Mark(enqueue func(object.Any)) {
	enqueue(f.Receiver)
	if f.Message != nil {
		enqueue(f.Message.Any())
	}
}

func (f *Funcref) Destroy() {}

// NewFuncref allocates a Funcref binding receiver to message.
func NewFuncref(tbl *object.Table, receiver object.Any, message *Symbol) (*Funcref, error) {
	f := &Funcref{Receiver: receiver, Message: message}
	if err := tbl.Init(&f.Header, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Funcref) Any() object.Any { return object.FromHeader(&f.Header) }
