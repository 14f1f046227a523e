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

package metrics_test

import (
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nijakow/raven-go/gc"
	"github.com/nijakow/raven-go/metrics"
	"github.com/nijakow/raven-go/scheduler"
)

var _ = Describe("Metrics", func() {
	It("exposes a scrapeable handler reflecting observed values", func() {
		c := metrics.NewCollector()
		c.ObserveGC(gc.Stats{Marked: 2, Destroyed: 1, LiveAfter: 7, Duration: time.Millisecond})
		c.SetConnections(3)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/metrics", nil)
		c.Handler().ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(200))
		body := rec.Body.String()
		Expect(body).To(ContainSubstring("raven_gc_live_objects 7"))
		Expect(body).To(ContainSubstring("raven_gc_destroyed_total 1"))
		Expect(body).To(ContainSubstring("raven_gc_cycles_total 1"))
		Expect(body).To(ContainSubstring("raven_server_connections 3"))
	})

	It("accumulates across multiple GC observations", func() {
		c := metrics.NewCollector()
		c.ObserveGC(gc.Stats{Destroyed: 2, LiveAfter: 10})
		c.ObserveGC(gc.Stats{Destroyed: 3, LiveAfter: 8})

		rec := httptest.NewRecorder()
		c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
		body := rec.Body.String()
		Expect(body).To(ContainSubstring("raven_gc_cycles_total 2"))
		Expect(body).To(ContainSubstring("raven_gc_destroyed_total 5"))
		Expect(body).To(ContainSubstring("raven_gc_live_objects 8"))
	})

	It("forwards a pass report's embedded GC stats and counts heartbeats", func() {
		c := metrics.NewCollector()
		gs := gc.Stats{Destroyed: 1, LiveAfter: 4}
		c.ObservePass(scheduler.PassReport{HeartbeatsSent: 2, GCStats: &gs}, 5*time.Millisecond)

		rec := httptest.NewRecorder()
		c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
		body := rec.Body.String()
		Expect(body).To(ContainSubstring("raven_scheduler_heartbeats_sent_total 2"))
		Expect(body).To(ContainSubstring("raven_gc_cycles_total 1"))
	})

	It("does not touch GC counters when a pass report has no GCStats", func() {
		c := metrics.NewCollector()
		c.ObservePass(scheduler.PassReport{HeartbeatsSent: 1}, time.Millisecond)

		rec := httptest.NewRecorder()
		c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
		body := rec.Body.String()
		Expect(body).To(ContainSubstring("raven_gc_cycles_total 0"))
	})
})
