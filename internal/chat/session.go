package chat

import (
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultQueueSize = 256
	closeLinger      = 2 * time.Second
)

// SessionOptions tunes the outbound side of a session.
type SessionOptions struct {
	QueueSize    int
	Backpressure BackpressurePolicy
	WriteTimeout time.Duration
}

// Session is one accepted connection. Reads belong to its lifecycle
// goroutine; Send may be called from anywhere and only enqueues.
type Session struct {
	id     string
	conn   net.Conn
	remote string
	opts   SessionOptions
	logger *slog.Logger

	mu      sync.Mutex
	name    string
	named   bool
	closed  bool
	severed bool
	out     chan string

	state      atomic.Int32
	writerDone <-chan struct{}
	closeOnce  sync.Once
	closeErr   error
}

func NewSession(conn net.Conn, opts SessionOptions, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.Backpressure == "" {
		opts.Backpressure = BackpressureDrop
	}

	id := uuid.NewString()
	remote := ""
	if addr := conn.RemoteAddr(); addr != nil {
		remote = addr.String()
	}
	logger = logger.With("session_id", id, "remote", remote)

	s := &Session{
		id:     id,
		conn:   conn,
		remote: remote,
		opts:   opts,
		logger: logger,
		out:    make(chan string, opts.QueueSize),
	}
	s.writerDone = startWriter(conn, s.out, opts.WriteTimeout, logger)
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// SetName assigns the display name. Only the first call has any effect.
func (s *Session) SetName(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.named {
		return false
	}
	s.name = name
	s.named = true
	return true
}

func (s *Session) RemoteAddr() string { return s.remote }

func (s *Session) State() State { return State(s.state.Load()) }

func (s *Session) setState(st State) { s.state.Store(int32(st)) }

// Send enqueues line for the writer goroutine without blocking. When the
// queue is full the session's backpressure policy applies.
func (s *Session) Send(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	select {
	case s.out <- line:
		return nil
	default:
	}

	if s.opts.Backpressure != BackpressureDisconnect {
		return ErrQueueFull
	}
	if !s.severed {
		s.severed = true
		s.logger.Warn("outbound queue full, disconnecting", "queue", cap(s.out))
		_ = s.conn.Close()
	}
	return ErrBackpressure
}

// Close stops accepting sends, lets the writer flush what is queued (bounded
// by a linger period) and closes the transport. Safe to call more than once;
// later calls return the first result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.setState(StateClosing)

		s.mu.Lock()
		s.closed = true
		close(s.out)
		s.mu.Unlock()

		linger := closeLinger
		if s.opts.WriteTimeout > 0 && s.opts.WriteTimeout < linger {
			linger = s.opts.WriteTimeout
		}
		timer := time.NewTimer(linger)
		select {
		case <-s.writerDone:
		case <-timer.C:
			s.logger.Warn("writer did not drain before close", "linger", linger)
		}
		timer.Stop()

		s.closeErr = s.conn.Close()
		s.setState(StateClosed)
	})
	return s.closeErr
}

// Abort closes the transport immediately, unblocking the lifecycle's reader.
func (s *Session) Abort() {
	_ = s.conn.Close()
}
