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

// Page holds the instance variable slots contributed by one Blueprint in
// an Object's inheritance chain. An Object keeps one Page per ancestor
// that declares variables, so reloading a single ancestor in the chain
// only needs to replace that one Page.
type Page struct {
	Blueprint *Blueprint
	Slots     []object.Any
}

// Object is an instance of a Blueprint lineage: a master class pointer,
// one Page per class in the chain that declares variables, and the
// MUD-style containment tree (Parent/Children) used for "move to" and
// heartbeat propagation.
type Object struct {
	object.Header
	object.IdentityOnly

	Master      *Blueprint
	Pages       []Page
	Parent      *Object
	Children    []*Object
	Stash       object.Any
	HeartBeatOn bool
}

func (o *Object) Kind() object.Kind { return object.KindObject }

func (o *Object) Mark(enqueue func(object.Any)) {
	if o.Master != nil {
		enqueue(o.Master.Any())
	}
	for _, p := range o.Pages {
		if p.Blueprint != nil {
			enqueue(p.Blueprint.Any())
		}
		for _, s := range p.Slots {
			enqueue(s)
		}
	}
	if o.Parent != nil {
		enqueue(o.Parent.Any())
	}
	for _, c := range o.Children {
		enqueue(c.Any())
	}
	enqueue(o.Stash)
}

func (o *Object) Destroy() {}

// NewObject instantiates master: one Page is allocated per ancestor
// (root-most first) that declares at least one instance variable.
func NewObject(tbl *object.Table, master *Blueprint) (*Object, error) {
	o := &Object{Master: master, Stash: object.Nil()}

	chain := blueprintChain(master)
	for _, bp := range chain {
		if bp.NumVars() == 0 {
			continue
		}
		o.Pages = append(o.Pages, Page{
			Blueprint: bp,
			Slots:     make([]object.Any, bp.NumVars()),
		})
	}

	if err := tbl.Init(&o.Header, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Object) Any() object.Any { return object.FromHeader(&o.Header) }

// blueprintChain returns b and its ancestors ordered from the root
// (most-base class) to b itself, the order an Object's Pages follow.
func blueprintChain(b *Blueprint) []*Blueprint {
	var chain []*Blueprint
	for cur := b; cur != nil; cur = cur.Parent {
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// pageFor returns the Page belonging to bp's lineage (matched via
// IsSoulmate so a reloaded Blueprint at a new Epoch still finds its
// instance's existing Page), or nil if none exists.
func (o *Object) pageFor(bp *Blueprint) *Page {
	for i := range o.Pages {
		if o.Pages[i].Blueprint.IsSoulmate(bp) {
			return &o.Pages[i]
		}
	}
	return nil
}

// Slot reads instance variable index as declared on bp, or (Nil, false)
// if bp has no such slot on this object.
func (o *Object) Slot(bp *Blueprint, index int) (object.Any, bool) {
	p := o.pageFor(bp)
	if p == nil || index < 0 || index >= len(p.Slots) {
		return object.Nil(), false
	}
	return p.Slots[index], true
}

// SetSlot writes instance variable index as declared on bp, reporting
// false (a no-op) if bp has no such slot on this object.
func (o *Object) SetSlot(bp *Blueprint, index int, value object.Any) bool {
	p := o.pageFor(bp)
	if p == nil || index < 0 || index >= len(p.Slots) {
		return false
	}
	p.Slots[index] = value
	return true
}

// SwitchBlueprint migrates o onto newMaster after a hot reload: pages
// whose blueprint lineage still exists in the new chain keep their
// slots (matched by IsSoulmate), freshly introduced ancestors get a
// zeroed Page, and pages for ancestors the new chain no longer has are
// dropped.
func SwitchBlueprint(o *Object, newMaster *Blueprint) {
	chain := blueprintChain(newMaster)
	newPages := make([]Page, 0, len(chain))

	for _, bp := range chain {
		if bp.NumVars() == 0 {
			continue
		}
		if old := o.pageFor(bp); old != nil {
			slots := old.Slots
			if len(slots) != bp.NumVars() {
				resized := make([]object.Any, bp.NumVars())
				copy(resized, slots)
				slots = resized
			}
			newPages = append(newPages, Page{Blueprint: bp, Slots: slots})
		} else {
			newPages = append(newPages, Page{Blueprint: bp, Slots: make([]object.Any, bp.NumVars())})
		}
	}

	o.Master = newMaster
	o.Pages = newPages
}
