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

// Package gc runs a stop-the-world tricolour mark-and-sweep cycle over an
// object.Table, using an explicit worklist (threaded through the header's
// transient gray-next link) instead of host-stack recursion.
package gc

import (
	"time"

	"github.com/nijakow/raven-go/object"
)

// Stats summarizes one collection cycle, suitable for logging and metrics.
type Stats struct {
	Marked    int
	Destroyed int
	LiveAfter int
	Duration  time.Duration
}

// worklist is an intrusive LIFO stack of gray headers.
type worklist struct {
	head *object.Header
}

func (w *worklist) push(h *object.Header) {
	h.SetGrayNext(w.head)
	w.head = h
}

func (w *worklist) pop() *object.Header {
	h := w.head
	w.head = h.GrayNext()
	h.SetGrayNext(nil)
	return h
}

func (w *worklist) empty() bool { return w.head == nil }

// Collect runs one full cycle: reset every live object white, mark from
// roots, trace the worklist to black, then sweep white objects. A mark fn
// that enqueues a broken link (nil Desc) is a programming error and panics,
// matching the spec's "mark fn encountering a broken link must abort".
func Collect(tbl *object.Table, roots []object.Any) Stats {
	start := time.Now()

	tbl.ResetColors()

	wl := &worklist{}
	marked := 0

	enqueue := func(v object.Any) {
		if markRoot(wl, v) {
			marked++
		}
	}

	for _, r := range roots {
		enqueue(r)
	}

	for !wl.empty() {
		h := wl.pop()
		if h.Desc == nil {
			panic("gc: mark fn encountered a header with no descriptor")
		}
		h.Desc.Mark(enqueue)
		h.SetColor(object.Black)
	}

	destroyed := tbl.SweepWhite()

	return Stats{
		Marked:    marked,
		Destroyed: len(destroyed),
		LiveAfter: tbl.LiveCount(),
		Duration:  time.Since(start),
	}
}

// markRoot marks v gray and enqueues it if it is a white heap pointer.
// mark_ptr(null) is a no-op; mark_any marks only heap pointers.
func markRoot(wl *worklist, v object.Any) bool {
	if !v.IsHeap() {
		return false
	}
	h := v.Header()
	if h == nil || h.Color() != object.White {
		return false
	}
	h.SetColor(object.Gray)
	wl.push(h)
	return true
}
