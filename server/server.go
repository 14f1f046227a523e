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

// Package server is the real TCP transport collaborator of §4.11: it
// accepts connections on a net.Listener, reads raw bytes off each one
// on its own goroutine, and exposes everything that happened since the
// last call as a batch of scheduler.Event values through Tick — the
// shape scheduler.Server requires. Line assembly ('\r' stripped, '\n'
// delimits, 1024-byte cap) is not this package's job: it already lives
// on heap.Connection.Feed, called by the scheduler itself.
package server

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nijakow/raven-go/heap"
	"github.com/nijakow/raven-go/logger"
	"github.com/nijakow/raven-go/object"
	"github.com/nijakow/raven-go/scheduler"
)

// OnAccept is invoked once per newly accepted connection, before its
// EventAccepted is queued for the scheduler — the hook a world uses to
// bind a login fiber to the connection. It runs on the accept
// goroutine, so it must not block.
type OnAccept func(conn *heap.Connection)

// readBufSize is the chunk size each connection's reader goroutine
// reads into before forwarding the bytes as an EventData.
const readBufSize = 1024

// Server listens on one TCP address and turns its connections' traffic
// into scheduler.Event values. The zero value is not usable; construct
// with New.
type Server struct {
	tbl      *object.Table
	log      logger.Logger
	onAccept OnAccept

	network string
	address string

	mu       sync.Mutex
	ln       net.Listener
	sessions map[string]*session
	running  atomic.Bool

	events chan scheduler.Event
}

type session struct {
	conn *heap.Connection
	nc   net.Conn
}

// New creates a Server that will listen on network/address once Listen
// is called (e.g. "tcp", ":4000"). onAccept may be nil.
func New(tbl *object.Table, network, address string, onAccept OnAccept, log logger.Logger) *Server {
	if log == nil {
		log = logger.New()
	}
	return &Server{
		tbl:      tbl,
		log:      log,
		onAccept: onAccept,
		network:  network,
		address:  address,
		sessions: make(map[string]*session),
		events:   make(chan scheduler.Event, 256),
	}
}

// Listen opens the listener and accepts connections until ctx is
// cancelled or Shutdown is called. It blocks until the accept loop
// exits, mirroring nabbar-golib/socket's socket.Server.Listen contract.
func (s *Server) Listen(ctx context.Context) error {
	ln, err := net.Listen(s.network, s.address)
	if err != nil {
		return ErrorListenFailed.Error(err)
	}

	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	s.running.Store(true)
	defer s.running.Store(false)

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		nc, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return ErrorAcceptFailed.Error(err)
		}
		s.handleAccept(ctx, nc)
	}
}

// Addr returns the listener's bound address, or nil before Listen has
// opened it.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// IsRunning reports whether the accept loop is currently active.
func (s *Server) IsRunning() bool {
	return s.running.Load()
}

// Shutdown closes the listener and every open connection, stopping the
// accept loop and all per-connection readers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	ln := s.ln
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	if ln != nil {
		_ = ln.Close()
	}
	for _, sess := range sessions {
		_ = sess.conn.Close()
	}
	return nil
}

func (s *Server) handleAccept(ctx context.Context, nc net.Conn) {
	conn, err := heap.NewConnection(s.tbl, nc)
	if err != nil {
		s.log.Error("connection allocation failed", err, "remote", nc.RemoteAddr().String())
		_ = nc.Close()
		return
	}
	sess := &session{conn: conn, nc: nc}
	s.mu.Lock()
	s.sessions[conn.ID] = sess
	s.mu.Unlock()

	if s.onAccept != nil {
		s.onAccept(conn)
	}
	s.emit(scheduler.Event{Kind: scheduler.EventAccepted, Conn: conn})

	go s.readLoop(ctx, sess)
}

// readLoop blocks on nc.Read until it errors or ctx is cancelled,
// forwarding every chunk read as an EventData and a terminal
// EventClosed/EventError once the connection ends. This is one
// goroutine per connection, the same shape nabbar-golib/socket's
// per-connection handler goroutine takes — adapted so the goroutine
// only forwards bytes through the event channel instead of running
// the whole session inline, since the scheduler (not this goroutine)
// owns stepping fibers.
func (s *Server) readLoop(ctx context.Context, sess *session) {
	buf := make([]byte, readBufSize)
	defer s.forget(sess.conn.ID)

	for {
		n, err := sess.nc.Read(buf)
		if n > 0 {
			data := append([]byte(nil), buf[:n]...)
			s.emit(scheduler.Event{Kind: scheduler.EventData, Conn: sess.conn, Data: data})
		}
		if err != nil {
			if ctx.Err() != nil || isClosed(err) {
				s.emit(scheduler.Event{Kind: scheduler.EventClosed, Conn: sess.conn})
			} else {
				s.emit(scheduler.Event{Kind: scheduler.EventError, Conn: sess.conn, Err: err})
			}
			return
		}
	}
}

func (s *Server) forget(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func isClosed(err error) bool {
	return err.Error() == "EOF" || errIsUseOfClosedConn(err)
}

func errIsUseOfClosedConn(err error) bool {
	ne, ok := err.(*net.OpError)
	return ok && ne.Err != nil && ne.Err.Error() == "use of closed network connection"
}

func (s *Server) emit(ev scheduler.Event) {
	select {
	case s.events <- ev:
	default:
		s.log.Warning("event queue full, dropping event", nil, "kind", int(ev.Kind))
	}
}

// Tick implements scheduler.Server: it drains every event queued since
// the last call, waiting up to timeout for at least one if the queue
// is currently empty. A timeout of zero or less never blocks.
func (s *Server) Tick(timeout time.Duration) []scheduler.Event {
	var out []scheduler.Event

	if timeout <= 0 {
		select {
		case ev := <-s.events:
			out = append(out, ev)
		default:
			return out
		}
	} else {
		select {
		case ev := <-s.events:
			out = append(out, ev)
		case <-time.After(timeout):
			return out
		}
	}

	for {
		select {
		case ev := <-s.events:
			out = append(out, ev)
		default:
			return out
		}
	}
}
