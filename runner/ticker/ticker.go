/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

// Package ticker runs a function on a fixed interval under a cancellable
// goroutine, used by the scheduler to drive the server-tick / GC-cadence
// loop (see the scheduler package) independently of fiber execution.
package ticker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	errpool "github.com/nijakow/raven-go/errors/pool"
)

const minDuration = 1 * time.Millisecond

// Func is invoked on every tick. Returning an error does not stop the
// ticker; the error is recorded and retrievable via ErrorsLast/ErrorsList.
type Func func(ctx context.Context, tck *time.Ticker) error

// Ticker runs Func on a fixed interval until Stop is called or its parent
// context is cancelled.
type Ticker interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Restart(ctx context.Context) error
	IsRunning() bool
	Uptime() time.Duration
	ErrorsLast() error
	ErrorsList() []error
}

type tck struct {
	d time.Duration
	f Func

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running atomic.Bool
	started atomic.Int64 // unix nano, 0 when not running
	errs    errpool.Pool
}

// New creates a Ticker with the given interval. Durations below 1ms are
// raised to 1ms. A nil fn is replaced with one that returns an "invalid
// function" error on every tick.
func New(d time.Duration, fn Func) Ticker {
	if d < minDuration {
		d = minDuration
	}
	if fn == nil {
		fn = func(context.Context, *time.Ticker) error { return errors.New("ticker: invalid function") }
	}
	return &tck{
		d:    d,
		f:    fn,
		errs: errpool.New(),
	}
}

func (t *tck) Start(ctx context.Context) error {
	if ctx == nil {
		return errors.New("ticker: nil context")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running.Load() {
		t.stopLocked()
	}

	t.errs = errpool.New()

	cctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.done = make(chan struct{})
	t.started.Store(time.Now().UnixNano())
	t.running.Store(true)

	go t.run(cctx, t.done)

	return nil
}

func (t *tck) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	tk := time.NewTicker(t.d)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			t.mu.Lock()
			if t.done == done {
				t.running.Store(false)
				t.started.Store(0)
			}
			t.mu.Unlock()
			return
		case <-tk.C:
			if err := t.f(ctx, tk); err != nil {
				t.errs.Add(err)
			}
		}
	}
}

func (t *tck) Stop(ctx context.Context) error {
	t.mu.Lock()
	done := t.stopLocked()
	t.mu.Unlock()

	if done == nil {
		return nil
	}

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// stopLocked cancels the running goroutine and returns its completion
// channel, or nil if nothing was running. Caller holds t.mu.
func (t *tck) stopLocked() chan struct{} {
	if !t.running.Load() {
		return nil
	}

	if t.cancel != nil {
		t.cancel()
	}

	done := t.done
	t.running.Store(false)
	t.started.Store(0)
	return done
}

func (t *tck) Restart(ctx context.Context) error {
	if err := t.Stop(ctx); err != nil {
		return err
	}
	return t.Start(ctx)
}

func (t *tck) IsRunning() bool {
	return t.running.Load()
}

func (t *tck) Uptime() time.Duration {
	s := t.started.Load()
	if s == 0 {
		return 0
	}
	return time.Since(time.Unix(0, s))
}

func (t *tck) ErrorsLast() error {
	return t.errs.Last()
}

func (t *tck) ErrorsList() []error {
	return t.errs.Slice()
}
