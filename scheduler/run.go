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
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nijakow/raven-go/runner/ticker"
)

// defaultTickInterval is the wall-clock period between passes when
// driven by Run. It bounds real-world latency on I/O and heartbeat
// delivery; it is unrelated to the per-fiber SliceBudget.
const defaultTickInterval = 50 * time.Millisecond

// Run drives RunPass on a fixed wall-clock interval until ctx is
// cancelled, using a runner/ticker.Ticker as the single goroutine
// that ever calls RunPass — preserving the "one OS thread drives the
// scheduler" invariant even though the ticker itself is a goroutine,
// since nothing else is permitted to call RunPass concurrently with
// it. An interval of zero selects defaultTickInterval. errgroup wires
// the ticker's lifecycle to ctx cancellation so Run returns only once
// the ticker has fully stopped.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = defaultTickInterval
	}

	tck := ticker.New(interval, func(_ context.Context, _ *time.Ticker) error {
		s.RunPass()
		return nil
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return tck.Start(gctx)
	})

	<-gctx.Done()
	if err := tck.Stop(context.Background()); err != nil {
		return err
	}
	return g.Wait()
}
