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

package scheduler

import (
	"time"

	"github.com/nijakow/raven-go/heap"
)

// EventKind discriminates the event shapes a Server collaborator can
// produce from one Tick.
type EventKind int

const (
	EventAccepted EventKind = iota
	EventData
	EventClosed
	EventError
)

// Event is one thing that happened to a connection since the last
// Tick: a newly accepted connection, a chunk of inbound bytes, a
// graceful close, or a transport error (treated the same as a close
// per §7's ConnectionError contract).
type Event struct {
	Kind EventKind
	Conn *heap.Connection
	Data []byte
	Err  error
}

// Server is the transport collaborator boundary from §6: "tick(timeout)
// → events, accept(port) → connection, read(conn, buf) → bytes,
// write(conn, bytes), close(conn)." Accept/read collapse into the
// events Tick produces; write and close are exposed directly on
// heap.Connection (Write, Close) since the interpreter's builtins and
// the scheduler both need to reach them without an extra interface
// hop. Declared here (not in a future `server` package) for the same
// reason vm.Resolver lives in vm: scheduler must never import the
// concrete server package, which will instead import scheduler and
// satisfy this interface.
type Server interface {
	Tick(timeout time.Duration) []Event
}
