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

package scheduler_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nijakow/raven-go/heap"
	"github.com/nijakow/raven-go/object"
	"github.com/nijakow/raven-go/scheduler"
	"github.com/nijakow/raven-go/vm"
)

func w(code []byte, v int16) []byte {
	return append(code, byte(v), byte(uint16(v)>>8))
}

func op(code []byte, o vm.Opcode) []byte { return append(code, byte(o)) }

func newContext() *vm.Context {
	return &vm.Context{
		Table:    object.NewTable(),
		Builtins: vm.NewRegistry(),
	}
}

type fakeServer struct {
	events []scheduler.Event
	used   bool
}

func (s *fakeServer) Tick(_ time.Duration) []scheduler.Event {
	if s.used {
		return nil
	}
	s.used = true
	return s.events
}

var _ = Describe("Scheduler", func() {
	It("advances a fiber by bounded slices across multiple passes", func() {
		ctx := newContext()
		code := op(nil, vm.NOOP)
		code = op(code, vm.NOOP)
		code = op(code, vm.NOOP)
		code = op(code, vm.NOOP)
		code = op(code, vm.RETURN)

		fn, err := heap.NewFunction(ctx.Table, nil, code, nil, nil, 0, false)
		Expect(err).ToNot(HaveOccurred())

		f := vm.NewFiber()
		f.PushFrame(fn, object.Nil(), nil)

		s := scheduler.New(ctx, scheduler.Options{SliceBudget: 2})
		s.Spawn(f)

		s.RunPass()
		Expect(f.State).To(Equal(vm.Running))
		Expect(s.FiberCount()).To(Equal(1))

		s.RunPass()
		Expect(f.State).To(Equal(vm.Running))

		s.RunPass()
		Expect(f.State).To(Equal(vm.Stopped))
		Expect(s.FiberCount()).To(Equal(0))
	})

	It("delivers heart_beat to every heartbeat-registered object each pass", func() {
		ctx := newContext()

		code := op(nil, vm.LOAD_CONST)
		code = w(code, 0)
		code = op(code, vm.STORE_MEMBER)
		code = w(code, 0)
		code = op(code, vm.RETURN)

		hbFn, err := heap.NewFunction(ctx.Table, nil, code, []object.Any{object.Int(1)}, nil, 0, false)
		Expect(err).ToNot(HaveOccurred())
		hbFn.Name = heap.Intern(ctx.Table, "heart_beat")

		bp, err := heap.NewBlueprint(ctx.Table, "/std/ticking_thing")
		Expect(err).ToNot(HaveOccurred())
		bp.VarNames = []string{"beats"}
		bp.Methods = append(bp.Methods, hbFn)

		o, err := heap.NewObject(ctx.Table, bp)
		Expect(err).ToNot(HaveOccurred())
		ctx.Table.LinkHeartbeat(&o.Header)

		s := scheduler.New(ctx, scheduler.Options{})
		report := s.RunPass()

		Expect(report.HeartbeatsSent).To(Equal(1))
		Expect(report.HeartbeatCrashes).To(Equal(0))

		v, ok := o.Slot(bp, 0)
		Expect(ok).To(BeTrue())
		i, _ := v.AsInt()
		Expect(i).To(Equal(int64(1)))
	})

	It("delivers a server data event to a connection's waiting fiber", func() {
		ctx := newContext()

		code := op(nil, vm.LOAD_LOCAL)
		code = w(code, 0)
		code = op(code, vm.RETURN)

		handlerFn, err := heap.NewFunction(ctx.Table, nil, code, nil, nil, 1, false)
		Expect(err).ToNot(HaveOccurred())
		handlerFn.Name = heap.Intern(ctx.Table, "got_line")

		bp, err := heap.NewBlueprint(ctx.Table, "/std/line_reader")
		Expect(err).ToNot(HaveOccurred())
		bp.Methods = append(bp.Methods, handlerFn)

		player, err := heap.NewObject(ctx.Table, bp)
		Expect(err).ToNot(HaveOccurred())

		funcref, err := heap.NewFuncref(ctx.Table, player.Any(), heap.Intern(ctx.Table, "got_line"))
		Expect(err).ToNot(HaveOccurred())

		conn, err := heap.NewConnection(ctx.Table, nil)
		Expect(err).ToNot(HaveOccurred())

		f := vm.NewFiber()
		f.Conn = conn
		f.WaitForInput(funcref)

		s := scheduler.New(ctx, scheduler.Options{})
		s.Spawn(f)
		s.SetServer(&fakeServer{events: []scheduler.Event{
			{Kind: scheduler.EventData, Conn: conn, Data: []byte("hi\n")},
		}})

		s.RunPass()

		Expect(f.State).To(Equal(vm.Stopped))
		str := f.Accu.Header().Desc.(*heap.String)
		Expect(str.Text).To(Equal("hi"))
	})

	It("reactivates a waiting fiber with nil when its connection closes", func() {
		ctx := newContext()
		conn, err := heap.NewConnection(ctx.Table, nil)
		Expect(err).ToNot(HaveOccurred())

		f := vm.NewFiber()
		f.Conn = conn
		f.WaitForInput(nil)

		s := scheduler.New(ctx, scheduler.Options{})
		s.Spawn(f)
		s.SetServer(&fakeServer{events: []scheduler.Event{
			{Kind: scheduler.EventClosed, Conn: conn},
		}})

		s.RunPass()

		Expect(f.State).To(Equal(vm.Running))
		Expect(f.Accu.IsNil()).To(BeTrue())
		Expect(conn.Closed).To(BeTrue())
	})

	It("runs a full GC cycle only every GCEvery passes", func() {
		ctx := newContext()
		s := scheduler.New(ctx, scheduler.Options{GCEvery: 3})

		r1 := s.RunPass()
		Expect(r1.GCStats).To(BeNil())
		r2 := s.RunPass()
		Expect(r2.GCStats).To(BeNil())
		r3 := s.RunPass()
		Expect(r3.GCStats).ToNot(BeNil())
	})
})
