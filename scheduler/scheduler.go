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

// Package scheduler runs the cooperative fiber round-robin: one bounded
// "slice" of bytecode per Running fiber per pass, a server tick after
// every pass to pull in new connection data, heartbeat delivery, and
// periodic GC. Everything in one pass runs on the calling goroutine —
// the single-OS-thread cooperative model — even though Run drives that
// goroutine's loop from a runner/ticker.Ticker so the caller can let it
// free-run under a context.
package scheduler

import (
	"github.com/nijakow/raven-go/gc"
	"github.com/nijakow/raven-go/heap"
	"github.com/nijakow/raven-go/logger"
	"github.com/nijakow/raven-go/object"
	"github.com/nijakow/raven-go/vm"
)

// defaultSliceBudget is the per-fiber per-pass bytecode ceiling used
// when Options.SliceBudget is zero.
const defaultSliceBudget = 10_000

// defaultGCEvery is the pass cadence that triggers a full GC cycle.
const defaultGCEvery = 128

// Options configures a Scheduler. Zero values fall back to the
// defaults above.
type Options struct {
	SliceBudget int
	GCEvery     uint64
	Log         logger.Logger
}

// Scheduler owns the fiber ready queue and drives passes over it. It is
// not safe for concurrent use — RunPass must only ever be called from
// one goroutine at a time, mirroring the single-threaded cooperative
// execution model fibers are specified to run under.
type Scheduler struct {
	ctx *vm.Context
	log logger.Logger

	fibers      []*vm.Fiber
	conns       []*heap.Connection
	sliceBudget int
	gcEvery     uint64
	passCount   uint64

	server Server

	extraRoots func() []object.Any

	heartbeatCrashes int
}

// New creates a Scheduler bound to ctx. A nil Log is replaced with a
// fresh logger.New().
func New(ctx *vm.Context, opts Options) *Scheduler {
	budget := opts.SliceBudget
	if budget <= 0 {
		budget = defaultSliceBudget
	}
	gcEvery := opts.GCEvery
	if gcEvery == 0 {
		gcEvery = defaultGCEvery
	}
	log := opts.Log
	if log == nil {
		log = logger.New()
	}
	return &Scheduler{
		ctx:         ctx,
		log:         log,
		sliceBudget: budget,
		gcEvery:     gcEvery,
	}
}

// SetServer installs the server collaborator polled once per pass. A
// scheduler with no server installed simply never produces I/O events.
func (s *Scheduler) SetServer(srv Server) {
	s.server = srv
}

// SetRootProvider installs fn as an additional GC root source, called
// once per GCRoots build and appended to the fiber/connection roots
// below. The world orchestrator uses this to keep filesystem- and
// compiler-owned blueprints (reachable only through virtual paths, not
// through any fiber or connection) alive across a cycle.
func (s *Scheduler) SetRootProvider(fn func() []object.Any) {
	s.extraRoots = fn
}

// Spawn enqueues f for round-robin scheduling.
func (s *Scheduler) Spawn(f *vm.Fiber) {
	s.fibers = append(s.fibers, f)
}

// TrackConnection roots conn for GC purposes and makes it visible to
// the connection-closed bookkeeping in RunPass. The filesystem/server
// collaborators are expected to call this once per accepted connection.
func (s *Scheduler) TrackConnection(conn *heap.Connection) {
	s.conns = append(s.conns, conn)
}

// FiberCount reports how many fibers are still tracked (including ones
// that have Stopped or Crashed but haven't been pruned yet).
func (s *Scheduler) FiberCount() int {
	return len(s.fibers)
}

// PassCount reports how many full passes RunPass has completed.
func (s *Scheduler) PassCount() uint64 {
	return s.passCount
}

// HeartbeatCrashCount reports the cumulative number of heartbeat sends
// that have crashed since the scheduler was created, for metrics.
func (s *Scheduler) HeartbeatCrashCount() int {
	return s.heartbeatCrashes
}

// RunPass advances every Running fiber by one slice, in round-robin
// insertion order, then delivers a heartbeat to every heartbeat-
// registered object, then polls the server collaborator (if any) for
// new connections and input bytes, then prunes fibers that Stopped or
// Crashed during this pass, then — every GCEvery passes — runs a full
// GC cycle rooted from the survivors. It returns a PassReport
// summarizing what happened, for logging/metrics.
func (s *Scheduler) RunPass() PassReport {
	var report PassReport

	for _, f := range s.fibers {
		if f.State != vm.Running {
			continue
		}
		executed := vm.Run(s.ctx, f, s.sliceBudget)
		report.BytecodesExecuted += executed
		if f.State == vm.Crashed {
			report.Crashed++
			s.log.Error("fiber crashed", nil,
				"file", f.CrashFile, "line", f.CrashLine, "message", f.CrashMsg)
		}
	}

	report.HeartbeatsSent, report.HeartbeatCrashes = s.runHeartbeats()
	s.heartbeatCrashes += report.HeartbeatCrashes

	if s.server != nil {
		report.Events = s.pollServer()
	}

	s.prune()

	s.passCount++
	if s.passCount%s.gcEvery == 0 {
		stats := gc.Collect(s.ctx.Table, s.GCRoots())
		report.GCStats = &stats
		s.log.Debug("gc cycle", nil,
			"marked", stats.Marked, "destroyed", stats.Destroyed, "live", stats.LiveAfter)
	}

	return report
}

// CollectNow forces an out-of-cadence GC cycle, for the explicit `gc`
// builtin (§7's "also on explicit gc builtin").
func (s *Scheduler) CollectNow() gc.Stats {
	return gc.Collect(s.ctx.Table, s.GCRoots())
}

// runHeartbeats sends "heart_beat" to every object on the table's
// heartbeat list, each in its own ephemeral fiber so a crash in one
// heartbeat never prevents the rest from running, per §4.12.
func (s *Scheduler) runHeartbeats() (sent, crashed int) {
	var targets []object.Any
	s.ctx.Table.EachHeartbeat(func(h *object.Header) bool {
		targets = append(targets, object.FromHeader(h))
		return true
	})

	for _, target := range targets {
		hb := vm.NewFiber()
		if err := vm.Send(s.ctx, hb, target, "heart_beat", nil); err != nil {
			crashed++
			s.log.Error("heartbeat dispatch failed", err)
			continue
		}
		vm.Run(s.ctx, hb, s.sliceBudget)
		sent++
		if hb.State == vm.Crashed {
			crashed++
			s.log.Error("heartbeat crashed", nil,
				"file", hb.CrashFile, "line", hb.CrashLine, "message", hb.CrashMsg)
		}
	}
	return sent, crashed
}

// pollServer asks the server collaborator for pending events (new
// connections, data, closes, errors) and folds data events into the
// corresponding connection's waiting fiber, if any.
func (s *Scheduler) pollServer() []Event {
	events := s.server.Tick(0)
	for _, ev := range events {
		switch ev.Kind {
		case EventAccepted:
			s.TrackConnection(ev.Conn)
		case EventData:
			s.deliverData(ev.Conn, ev.Data)
		case EventClosed, EventError:
			s.closeConnection(ev.Conn)
		}
	}
	return events
}

// deliverData feeds raw bytes into conn's line buffer and, for every
// complete line produced, reactivates conn's waiting fiber (if any)
// with that line — the scheduler's half of §4.10's "deliver the next
// complete line" contract. Fibers are matched to a connection by
// identity of Fiber.Conn.
func (s *Scheduler) deliverData(conn *heap.Connection, data []byte) {
	lines := conn.Feed(data)
	if len(lines) == 0 {
		return
	}
	f := s.fiberFor(conn)
	if f == nil || f.State != vm.WaitingForInput {
		return
	}
	for _, line := range lines {
		if f.State != vm.WaitingForInput {
			break
		}
		if err := f.PushInput(s.ctx, line); err != nil {
			f.Stop()
			s.log.Error("input delivery failed", err)
			return
		}
		vm.Run(s.ctx, f, s.sliceBudget)
	}
}

// closeConnection marks conn dead and reactivates its waiting fiber
// with nil, the ConnectionError contract from §7 ("scheduler signals
// end-of-input to the fiber").
func (s *Scheduler) closeConnection(conn *heap.Connection) {
	_ = conn.Close()
	f := s.fiberFor(conn)
	if f != nil && f.State == vm.WaitingForInput {
		f.ReactivateWithValue(object.Nil())
	}
}

func (s *Scheduler) fiberFor(conn *heap.Connection) *vm.Fiber {
	for _, f := range s.fibers {
		if f.Conn == conn {
			return f
		}
	}
	return nil
}

// prune drops fibers that Stopped or Crashed during this pass from the
// ready queue; nothing else holding a reference to one (a connection,
// say) is affected; that reference alone keeps it reachable for
// ordinary Go GC, and next world GC cycle the table-tracked objects it
// referenced (if otherwise unreachable) fall away, approximating the
// spec's "stack freed on next GC cycle."
func (s *Scheduler) prune() {
	survivors := s.fibers[:0]
	for _, f := range s.fibers {
		if f.State == vm.Stopped || f.State == vm.Crashed {
			continue
		}
		survivors = append(survivors, f)
	}
	s.fibers = survivors
}

// GCRoots builds the root set for a world GC cycle: every surviving
// fiber's accumulator, value stack, per-frame self and function, bound
// connection and its waiting continuation, and this_player; plus every
// tracked connection (so a connection between input cycles, bound to
// no waiting fiber, still roots its player). Filesystem and compiler
// roots (blueprints reachable only through virtual paths) are appended
// from the provider installed with SetRootProvider.
func (s *Scheduler) GCRoots() []object.Any {
	var roots []object.Any

	for _, f := range s.fibers {
		roots = append(roots, f.Accu, f.ThisPlayer)
		roots = append(roots, f.Stack...)
		for fr := f.Frame; fr != nil; fr = fr.Prev {
			roots = append(roots, fr.Self)
			if fr.Function != nil {
				roots = append(roots, fr.Function.Any())
			}
		}
		if f.InputTo != nil {
			roots = append(roots, f.InputTo.Any())
		}
		if f.Conn != nil {
			roots = append(roots, f.Conn.Any())
		}
	}

	for _, c := range s.conns {
		roots = append(roots, c.Any())
	}

	if s.extraRoots != nil {
		roots = append(roots, s.extraRoots()...)
	}

	return roots
}

// PassReport summarizes one RunPass call.
type PassReport struct {
	BytecodesExecuted int
	Crashed           int
	HeartbeatsSent    int
	HeartbeatCrashes  int
	Events            []Event
	GCStats           *gc.Stats
}
