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

// Package world is the orchestrator that threads every collaborator
// together — object table, VM context, filesystem, scheduler, TCP
// server, accounts, config, metrics, logger — as explicit fields on
// one struct, per the "no ambient state, 'world' handle becomes an
// explicit context parameter" redesign note. Nothing here is a package
// -level global; a process can build more than one World.
package world

import (
	"context"

	"github.com/nijakow/raven-go/account"
	"github.com/nijakow/raven-go/config"
	"github.com/nijakow/raven-go/fs"
	"github.com/nijakow/raven-go/heap"
	"github.com/nijakow/raven-go/logger"
	"github.com/nijakow/raven-go/metrics"
	"github.com/nijakow/raven-go/object"
	"github.com/nijakow/raven-go/scheduler"
	"github.com/nijakow/raven-go/server"
	"github.com/nijakow/raven-go/vm"
)

// Options configures a World. LoginPath is the blueprint instantiated
// for every freshly accepted connection (its "login" method is sent
// immediately); PlayerPath is the blueprint instantiated for every
// newly registered account. Both must name a path the caller will
// Install into FS before (or as part of) boot — World itself does not
// ship any standard library of blueprints, per §1's explicit "compiler
// front-end... external collaborators."
type Options struct {
	Config     config.World
	LoginPath  string
	PlayerPath string
	Log        logger.Logger
	Metrics    *metrics.Collector
	Serializer account.Serializer
}

// World owns every collaborator named in §2/§4.11/§4.13 and the
// ambient stack table, wired together explicitly.
type World struct {
	Table     *object.Table
	Context   *vm.Context
	FS        *fs.FileSystem
	Scheduler *scheduler.Scheduler
	Accounts  *account.Store
	Server    *server.Server
	Config    config.World
	Metrics   *metrics.Collector
	Log       logger.Logger
	Serializer account.Serializer

	loginPath string
}

// New wires a World from opts but does not start listening; call Boot
// for that. A LoginPath is required so every accepted connection has
// something to bind a fiber to.
func New(opts Options) (*World, error) {
	if opts.LoginPath == "" {
		return nil, ErrorNoLoginPath.Error(nil)
	}

	log := opts.Log
	if log == nil {
		log = logger.New()
	}

	tbl := object.NewTable()
	virtualFS := fs.New(tbl)

	builtins := vm.NewRegistry()
	registerBuiltins(builtins)

	ctx := &vm.Context{
		Table:    tbl,
		Builtins: builtins,
		Resolver: virtualFS,
	}

	sched := scheduler.New(ctx, scheduler.Options{
		SliceBudget: opts.Config.SliceBudget,
		GCEvery:     uint64(opts.Config.GCIntervalPass),
		Log:         log,
	})
	sched.SetRootProvider(virtualFS.Roots)

	w := &World{
		Table:      tbl,
		Context:    ctx,
		FS:         virtualFS,
		Scheduler:  sched,
		Config:     opts.Config,
		Metrics:    opts.Metrics,
		Log:        log,
		Serializer: opts.Serializer,
		loginPath:  opts.LoginPath,
	}
	if w.Serializer == nil {
		w.Serializer = account.NoopSerializer{}
	}

	playerPath := opts.PlayerPath
	if playerPath == "" {
		playerPath = opts.LoginPath
	}
	w.Accounts = account.New(func(name string) (*heap.Object, error) {
		return virtualFS.GetObject(playerPath)
	})

	w.Server = server.New(tbl, opts.Config.ListenNetwork, opts.Config.ListenAddress, w.onAccept, log)
	sched.SetServer(w.Server)

	return w, nil
}

// onAccept instantiates LoginPath and binds a fresh fiber to conn,
// spawning it on the scheduler so the next RunPass advances it. It
// runs synchronously on the server's accept goroutine (server.OnAccept's
// contract), so it must not block.
func (w *World) onAccept(conn *heap.Connection) {
	obj, err := w.FS.GetObject(w.loginPath)
	if err != nil {
		w.Log.Error("login object instantiation failed", err, "path", w.loginPath)
		_ = conn.Close()
		return
	}

	f := vm.NewFiber()
	f.Conn = conn
	if err := vm.Send(w.Context, f, obj.Any(), "login", nil); err != nil {
		w.Log.Error("login dispatch failed", err, "path", w.loginPath)
		_ = conn.Close()
		return
	}

	w.Scheduler.Spawn(f)
}

// Boot starts the TCP listener in the background and runs the
// scheduler's pass loop until ctx is cancelled. It returns once both
// have stopped.
func (w *World) Boot(ctx context.Context) error {
	listenErrs := make(chan error, 1)
	go func() {
		listenErrs <- w.Server.Listen(ctx)
	}()

	runErr := w.Scheduler.Run(ctx, 0)

	if err := <-listenErrs; err != nil && ctx.Err() == nil {
		return err
	}
	return runErr
}

// Shutdown stops the server; combined with cancelling the context
// passed to Boot, this brings down every goroutine World started.
func (w *World) Shutdown(ctx context.Context) error {
	return w.Server.Shutdown(ctx)
}
