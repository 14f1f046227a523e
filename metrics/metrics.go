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

// Package metrics exposes the world's runtime health over
// prometheus/client_golang: GC cycle count and duration, live object
// count, scheduler pass (tick) duration, and connection count, per the
// ambient stack table.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nijakow/raven-go/gc"
	"github.com/nijakow/raven-go/scheduler"
)

// Collector owns one private prometheus.Registry (rather than the
// global default one) so a world's metrics never collide with another
// world's in the same process, and registers every gauge/counter/
// histogram named in the ambient stack table on construction.
type Collector struct {
	registry *prometheus.Registry

	gcCycles      prometheus.Counter
	gcDuration    prometheus.Histogram
	gcDestroyed   prometheus.Counter
	liveObjects   prometheus.Gauge
	passDuration  prometheus.Histogram
	connections   prometheus.Gauge
	heartbeatSent prometheus.Counter
}

// NewCollector creates a Collector with a fresh, private registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		gcCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "raven",
			Subsystem: "gc",
			Name:      "cycles_total",
			Help:      "Number of completed mark-and-sweep cycles.",
		}),
		gcDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "raven",
			Subsystem: "gc",
			Name:      "cycle_duration_seconds",
			Help:      "Wall-clock duration of a mark-and-sweep cycle.",
			Buckets:   prometheus.DefBuckets,
		}),
		gcDestroyed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "raven",
			Subsystem: "gc",
			Name:      "destroyed_total",
			Help:      "Number of objects destroyed across all cycles.",
		}),
		liveObjects: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "raven",
			Subsystem: "gc",
			Name:      "live_objects",
			Help:      "Number of live objects after the last cycle.",
		}),
		passDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "raven",
			Subsystem: "scheduler",
			Name:      "pass_duration_seconds",
			Help:      "Wall-clock duration of a scheduler pass.",
			Buckets:   prometheus.DefBuckets,
		}),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "raven",
			Subsystem: "server",
			Name:      "connections",
			Help:      "Number of currently tracked connections.",
		}),
		heartbeatSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "raven",
			Subsystem: "scheduler",
			Name:      "heartbeats_sent_total",
			Help:      "Number of heart_beat messages sent across all passes.",
		}),
	}

	reg.MustRegister(
		c.gcCycles,
		c.gcDuration,
		c.gcDestroyed,
		c.liveObjects,
		c.passDuration,
		c.connections,
		c.heartbeatSent,
	)

	return c
}

// ObserveGC records one completed gc.Stats reading (see
// scheduler.Scheduler.CollectNow / PassReport.GCStats).
func (c *Collector) ObserveGC(s gc.Stats) {
	c.gcCycles.Inc()
	c.gcDuration.Observe(s.Duration.Seconds())
	c.gcDestroyed.Add(float64(s.Destroyed))
	c.liveObjects.Set(float64(s.LiveAfter))
}

// ObservePass records one scheduler.PassReport: its own duration
// (timed by the caller, since PassReport carries no duration field of
// its own), its heartbeat count, and — if a GC ran during the pass —
// forwards to ObserveGC.
func (c *Collector) ObservePass(report scheduler.PassReport, duration time.Duration) {
	c.passDuration.Observe(duration.Seconds())
	c.heartbeatSent.Add(float64(report.HeartbeatsSent))
	if report.GCStats != nil {
		c.ObserveGC(*report.GCStats)
	}
}

// SetConnections sets the current connection-count gauge.
func (c *Collector) SetConnections(n int) {
	c.connections.Set(float64(n))
}

// Handler returns an http.Handler serving this collector's registry in
// the Prometheus text exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
