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
	"io"

	"github.com/google/uuid"

	"github.com/nijakow/raven-go/object"
)

// inputBufCap is the line-assembly buffer ceiling; bytes received past
// this limit are dropped from the front before the new byte is kept, so
// a client that never sends a newline cannot grow the buffer unbounded.
const inputBufCap = 1024

// Connection is one network session: identity, the bound player object,
// the outbound writer the interpreter's builtins use to send text, and
// the inbound byte buffer Feed assembles into complete lines. The bound
// fiber is not stored here — Fiber holds a pointer to its Connection
// instead, since fibers are interpreter-internal and are not a GC table
// domain kind in their own right.
type Connection struct {
	object.Header
	object.IdentityOnly

	ID     string
	Player object.Any
	Out    io.Writer
	Closed bool

	inbuf []byte
}

func (c *Connection) Kind() object.Kind { return object.KindConnection }

func (c *Connection) Mark(enqueue func(object.Any)) {
	enqueue(c.Player)
}

func (c *Connection) Destroy() {}

// NewConnection allocates a Connection writing to out.
func NewConnection(tbl *object.Table, out io.Writer) (*Connection, error) {
	c := &Connection{
		ID:     uuid.NewString(),
		Player: object.Nil(),
		Out:    out,
	}
	if err := tbl.Init(&c.Header, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Connection) Any() object.Any { return object.FromHeader(&c.Header) }

// Write sends p to the connection's peer, a no-op once Closed.
func (c *Connection) Write(p []byte) (int, error) {
	if c.Closed || c.Out == nil {
		return len(p), nil
	}
	return c.Out.Write(p)
}

// Close marks the connection dead; further Write calls become no-ops.
// The underlying transport, if Out implements io.Closer, is closed too.
func (c *Connection) Close() error {
	if c.Closed {
		return nil
	}
	c.Closed = true
	if closer, ok := c.Out.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Feed appends freshly received bytes b to the connection's line buffer
// and returns every complete line extracted from it, in order. '\r' is
// stripped as it is appended; '\n' delimits a completed line. If
// appending b would push the buffer past inputBufCap, the oldest bytes
// are dropped first rather than growing without bound or rejecting the
// input outright.
func (c *Connection) Feed(b []byte) []string {
	var lines []string

	for _, by := range b {
		if by == '\r' {
			continue
		}
		if by == '\n' {
			lines = append(lines, string(c.inbuf))
			c.inbuf = c.inbuf[:0]
			continue
		}

		c.inbuf = append(c.inbuf, by)
		if len(c.inbuf) > inputBufCap {
			overflow := len(c.inbuf) - inputBufCap
			c.inbuf = append(c.inbuf[:0], c.inbuf[overflow:]...)
		}
	}

	return lines
}
