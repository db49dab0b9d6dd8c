package chat

import (
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Options configures a Server. Zero values take defaults.
type Options struct {
	HistorySize int
	Session     SessionOptions
	// RateLimit is inbound chat lines per second per session; 0 disables.
	RateLimit float64
	RateBurst int
	Clock     func() time.Time
}

// Server accepts connections and runs one lifecycle goroutine per session.
type Server struct {
	addr     string
	opts     Options
	logger   *slog.Logger
	registry *Registry
	router   *Router
	listener net.Listener

	mu       sync.Mutex
	live     map[*Session]struct{}
	wg       sync.WaitGroup
	stopping atomic.Bool
	done     chan error
}

func NewServer(addr string, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.HistorySize <= 0 {
		opts.HistorySize = DefaultHistorySize
	}
	if opts.Session.QueueSize <= 0 {
		opts.Session.QueueSize = DefaultQueueSize
	}
	// Replay must always fit in the queue of a fresh session.
	opts.Session.QueueSize = max(opts.Session.QueueSize, opts.HistorySize+32)
	if opts.RateBurst <= 0 {
		opts.RateBurst = 1
	}

	registry := NewRegistry()
	return &Server{
		addr:     addr,
		opts:     opts,
		logger:   logger,
		registry: registry,
		router:   NewRouter(NewHistory(opts.HistorySize), registry, logger, opts.Clock),
		live:     make(map[*Session]struct{}),
		done:     make(chan error, 1),
	}
}

// Start binds the listener and launches the accept loop.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = ln

	go s.acceptLoop(ln)

	s.logger.Info("server started", "addr", ln.Addr().String())
	return nil
}

// Addr is the bound address; nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Done receives the accept loop's error if it dies on its own, and is closed
// once the loop has exited.
func (s *Server) Done() <-chan error {
	return s.done
}

// Users lists registered display names in join order.
func (s *Server) Users() []string {
	return s.registry.Names()
}

func (s *Server) Sessions() int {
	return s.registry.Len()
}

// Stop closes the listener, drops every connection and waits for all
// lifecycles to finish.
func (s *Server) Stop() {
	s.logger.Info("shutting down")
	s.stopping.Store(true)

	if s.listener != nil {
		_ = s.listener.Close()
	}

	s.mu.Lock()
	for sess := range s.live {
		sess.Abort()
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("shutdown complete")
}

func (s *Server) acceptLoop(ln net.Listener) {
	defer close(s.done)
	for {
		conn, err := ln.Accept()
		if err != nil {
			if !s.stopping.Load() {
				s.logger.Error("accept loop terminated", "error", err)
				s.done <- err
			}
			return
		}

		sess := NewSession(conn, s.opts.Session, s.logger)
		sess.logger.Info("client connected")

		s.mu.Lock()
		if s.stopping.Load() {
			s.mu.Unlock()
			sess.Abort()
			closeSession(sess)
			continue
		}
		s.live[sess] = struct{}{}
		s.wg.Add(1)
		s.mu.Unlock()

		go s.serve(sess)
	}
}

func (s *Server) serve(sess *Session) {
	defer func() {
		s.mu.Lock()
		delete(s.live, sess)
		s.mu.Unlock()
		s.wg.Done()
	}()

	var limiter *rate.Limiter
	if s.opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.opts.RateLimit), s.opts.RateBurst)
	}
	HandleSession(sess, s.router, limiter)
}
