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

package object

import "sync"

// Table is the per-world allocator: the single authoritative endpoint for
// bringing a domain object to life and the structure walked by the sweep
// phase of a GC cycle. The live list, interned-symbol list, and heartbeat
// list all thread through the same Header.
type Table struct {
	mu sync.Mutex

	liveHead *Header
	symHead  *Header
	hbHead   *Header

	serial uint64
	live   int

	// MaxLive caps the number of simultaneously live objects; zero means
	// unbounded. It exists so allocation failure (a real contract in the
	// spec) is exercisable in tests without depending on actual memory
	// exhaustion.
	MaxLive int
}

func NewTable() *Table {
	return &Table{}
}

// Init links h into the live list with desc installed, tagged white. It
// returns ErrorAllocationFailure if MaxLive is set and already reached;
// callers must check the error the same way a null return is checked in
// the source design.
func (t *Table) Init(h *Header, desc Descriptor) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.MaxLive > 0 && t.live >= t.MaxLive {
		return ErrorAllocationFailure.Error()
	}

	t.serial++
	h.Desc = desc
	h.Serial = t.serial
	h.color = White
	h.next = t.liveHead
	t.liveHead = h
	t.live++
	return nil
}

// LinkSymbol threads h onto the interned-symbol list. h must already be
// initialized via Init.
func (t *Table) LinkSymbol(h *Header) {
	t.mu.Lock()
	defer t.mu.Unlock()
	h.symNext = t.symHead
	t.symHead = h
}

// EachSymbol calls fn for every interned symbol until fn returns false.
func (t *Table) EachSymbol(fn func(*Header) bool) {
	t.mu.Lock()
	cur := t.symHead
	t.mu.Unlock()
	for cur != nil {
		if !fn(cur) {
			return
		}
		cur = cur.symNext
	}
}

// LinkHeartbeat threads h onto the heartbeat list, if not already linked.
func (t *Table) LinkHeartbeat(h *Header) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for cur := t.hbHead; cur != nil; cur = cur.heartbeatNext {
		if cur == h {
			return
		}
	}
	h.heartbeatNext = t.hbHead
	t.hbHead = h
}

// UnlinkHeartbeat removes h from the heartbeat list, if present.
func (t *Table) UnlinkHeartbeat(h *Header) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.unlinkHeartbeatLocked(h)
}

func (t *Table) unlinkHeartbeatLocked(h *Header) {
	if t.hbHead == h {
		t.hbHead = h.heartbeatNext
		h.heartbeatNext = nil
		return
	}
	for cur := t.hbHead; cur != nil; cur = cur.heartbeatNext {
		if cur.heartbeatNext == h {
			cur.heartbeatNext = h.heartbeatNext
			h.heartbeatNext = nil
			return
		}
	}
}

func (t *Table) unlinkSymbolLocked(h *Header) {
	if t.symHead == h {
		t.symHead = h.symNext
		h.symNext = nil
		return
	}
	for cur := t.symHead; cur != nil; cur = cur.symNext {
		if cur.symNext == h {
			cur.symNext = h.symNext
			h.symNext = nil
			return
		}
	}
}

// EachHeartbeat calls fn for every heartbeat-registered object until fn
// returns false.
func (t *Table) EachHeartbeat(fn func(*Header) bool) {
	t.mu.Lock()
	cur := t.hbHead
	t.mu.Unlock()
	for cur != nil {
		next := cur.heartbeatNext
		if !fn(cur) {
			return
		}
		cur = next
	}
}

// EachLive calls fn for every live object until fn returns false.
func (t *Table) EachLive(fn func(*Header) bool) {
	t.mu.Lock()
	cur := t.liveHead
	t.mu.Unlock()
	for cur != nil {
		next := cur.next
		if !fn(cur) {
			return
		}
		cur = next
	}
}

// LiveCount reports the number of currently live objects.
func (t *Table) LiveCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live
}

// ResetColors marks every live object white, the first step of a GC cycle.
func (t *Table) ResetColors() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for h := t.liveHead; h != nil; h = h.next {
		h.color = White
	}
}

// SweepWhite walks the live list; white objects are unlinked from every
// list they participate in and destroyed, black objects are recoloured
// white for the next cycle. It returns the destroyed headers.
func (t *Table) SweepWhite() []*Header {
	t.mu.Lock()
	defer t.mu.Unlock()

	var destroyed []*Header
	var prev *Header
	cur := t.liveHead

	for cur != nil {
		next := cur.next
		if cur.color == White {
			if prev == nil {
				t.liveHead = next
			} else {
				prev.next = next
			}
			cur.next = nil

			t.unlinkSymbolLocked(cur)
			t.unlinkHeartbeatLocked(cur)

			cur.Desc.Destroy()
			t.live--
			destroyed = append(destroyed, cur)
			cur = next
			continue
		}
		cur.color = White
		prev = cur
		cur = next
	}

	return destroyed
}
