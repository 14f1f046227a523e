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

package server_test

import (
	"context"
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nijakow/raven-go/heap"
	"github.com/nijakow/raven-go/object"
	"github.com/nijakow/raven-go/scheduler"
	"github.com/nijakow/raven-go/server"
)

// startServer boots a Server on the loopback interface and returns it
// already listening, along with a cancel func that shuts the accept
// loop down at test end.
func startServer(onAccept server.OnAccept) (*server.Server, func()) {
	tbl := object.NewTable()
	srv := server.New(tbl, "tcp", "127.0.0.1:0", onAccept, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = srv.Listen(ctx) }()

	Eventually(func() net.Addr {
		return srv.Addr()
	}, time.Second, 5*time.Millisecond).ShouldNot(BeNil())

	return srv, cancel
}

// collect drains Tick until an event of kind has been seen or the
// deadline passes, returning every event observed along the way.
func collect(srv *server.Server, kind scheduler.EventKind, deadline time.Duration) []scheduler.Event {
	var all []scheduler.Event
	end := time.Now().Add(deadline)
	for time.Now().Before(end) {
		for _, ev := range srv.Tick(20 * time.Millisecond) {
			all = append(all, ev)
			if ev.Kind == kind {
				return all
			}
		}
	}
	return all
}

var _ = Describe("Server", func() {
	It("reports a newly accepted connection as an EventAccepted", func() {
		srv, cancel := startServer(nil)
		defer cancel()

		conn, err := net.Dial("tcp", srv.Addr().String())
		Expect(err).ToNot(HaveOccurred())
		defer conn.Close()

		events := collect(srv, scheduler.EventAccepted, time.Second)
		Expect(events).ToNot(BeEmpty())
		Expect(events[len(events)-1].Kind).To(Equal(scheduler.EventAccepted))
		Expect(events[len(events)-1].Conn).ToNot(BeNil())
	})

	It("invokes OnAccept before the EventAccepted is observable", func() {
		seen := make(chan *heap.Connection, 1)
		srv, cancel := startServer(func(c *heap.Connection) { seen <- c })
		defer cancel()

		conn, err := net.Dial("tcp", srv.Addr().String())
		Expect(err).ToNot(HaveOccurred())
		defer conn.Close()

		var accepted *heap.Connection
		Eventually(seen, time.Second).Should(Receive(&accepted))
		Expect(accepted).ToNot(BeNil())

		events := collect(srv, scheduler.EventAccepted, time.Second)
		Expect(events).ToNot(BeEmpty())
		Expect(events[len(events)-1].Conn.ID).To(Equal(accepted.ID))
	})

	It("delivers inbound bytes as an EventData event", func() {
		srv, cancel := startServer(nil)
		defer cancel()

		conn, err := net.Dial("tcp", srv.Addr().String())
		Expect(err).ToNot(HaveOccurred())
		defer conn.Close()

		Expect(collect(srv, scheduler.EventAccepted, time.Second)).ToNot(BeEmpty())

		_, err = conn.Write([]byte("look\n"))
		Expect(err).ToNot(HaveOccurred())

		events := collect(srv, scheduler.EventData, time.Second)
		Expect(events).ToNot(BeEmpty())
		last := events[len(events)-1]
		Expect(last.Kind).To(Equal(scheduler.EventData))
		Expect(string(last.Data)).To(Equal("look\n"))
	})

	It("reports an EventClosed when the peer hangs up", func() {
		srv, cancel := startServer(nil)
		defer cancel()

		conn, err := net.Dial("tcp", srv.Addr().String())
		Expect(err).ToNot(HaveOccurred())

		Expect(collect(srv, scheduler.EventAccepted, time.Second)).ToNot(BeEmpty())

		Expect(conn.Close()).To(Succeed())

		events := collect(srv, scheduler.EventClosed, time.Second)
		Expect(events).ToNot(BeEmpty())
		Expect(events[len(events)-1].Kind).To(Equal(scheduler.EventClosed))
	})

	It("reports IsRunning across the listen/shutdown lifecycle", func() {
		srv, cancel := startServer(nil)
		Expect(srv.IsRunning()).To(BeTrue())

		Expect(srv.Shutdown(context.Background())).To(Succeed())
		Eventually(srv.IsRunning, time.Second).Should(BeFalse())

		cancel()
	})

	It("never blocks on Tick when the timeout is zero and the queue is empty", func() {
		srv, cancel := startServer(nil)
		defer cancel()

		start := time.Now()
		events := srv.Tick(0)
		Expect(time.Since(start)).To(BeNumerically("<", 50*time.Millisecond))
		Expect(events).To(BeEmpty())
	})

	It("waits up to the given timeout on Tick before giving up", func() {
		srv, cancel := startServer(nil)
		defer cancel()

		start := time.Now()
		events := srv.Tick(100 * time.Millisecond)
		Expect(time.Since(start)).To(BeNumerically(">=", 90*time.Millisecond))
		Expect(events).To(BeEmpty())
	})
})
