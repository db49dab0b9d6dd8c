package chat

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"
)

// Router fans lines out to registered peers and keeps the replay history.
//
// seq orders "append to history + snapshot membership" against
// "replay history + register", so a joining peer sees every earlier
// broadcast exactly once through replay and every later one live.
// Sends happen after seq is released; Peer.Send never touches the network.
type Router struct {
	seq      sync.Mutex
	history  *History
	registry *Registry
	logger   *slog.Logger
	now      func() time.Time
}

func NewRouter(history *History, registry *Registry, logger *slog.Logger, now func() time.Time) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Router{
		history:  history,
		registry: registry,
		logger:   logger,
		now:      now,
	}
}

// Broadcast records line in history and delivers it to every registered peer.
func (r *Router) Broadcast(line string) {
	start := time.Now()

	r.seq.Lock()
	r.history.Append(line)
	targets := r.registry.Snapshot()
	r.seq.Unlock()

	r.fanout(targets, line)
	observe("broadcast", start)
}

// Say broadcasts a public message from sender.
func (r *Router) Say(sender Peer, text string) {
	r.Broadcast(publicLine(r.now(), sender.Name(), text))
}

// PrivateMessage delivers text to the peer named target and echoes it back to
// sender. It reports whether the target was found.
func (r *Router) PrivateMessage(sender Peer, target, text string) bool {
	start := time.Now()

	receiver, ok := r.registry.FindByName(target)
	if !ok {
		r.deliver(sender, notFoundLine(target))
		observe("not_found", start)
		return false
	}

	line := privateLine(r.now(), sender.Name(), text)
	r.deliver(receiver, line)
	r.deliver(sender, privateEcho(target, line))
	observe("private", start)
	return true
}

// Join replays history to p, registers it, announces it and pushes the
// updated user list to everyone.
func (r *Router) Join(p Peer) error {
	start := time.Now()

	r.seq.Lock()
	for _, line := range r.history.Snapshot() {
		r.deliver(p, line)
	}
	err := r.registry.Add(p)
	r.seq.Unlock()
	if err != nil {
		return err
	}

	r.Broadcast(joinLine(r.now(), p.Name()))
	r.PushUsers()
	observe("join", start)
	return nil
}

// Leave deregisters p, announces it and pushes the user list to the
// remaining peers. Calling it for an absent peer does nothing.
func (r *Router) Leave(p Peer) bool {
	start := time.Now()

	if !r.registry.Remove(p) {
		return false
	}
	r.Broadcast(leaveLine(r.now(), p.Name()))
	r.PushUsers()
	observe("leave", start)
	return true
}

// PushUsers sends the active user list to every registered peer.
func (r *Router) PushUsers() {
	start := time.Now()

	targets := r.registry.Snapshot()
	names := lo.Map(targets, func(item Peer, _ int) string {
		return item.Name()
	})
	r.fanout(targets, usersLine(names))
	observe("users", start)
}

func (r *Router) fanout(targets []Peer, line string) {
	for _, p := range targets {
		r.deliver(p, line)
	}
}

// deliver is best effort: a failure is counted and logged, never returned.
func (r *Router) deliver(p Peer, line string) {
	err := p.Send(line)
	if err == nil {
		return
	}
	DroppedSends.WithLabelValues(dropReason(err)).Inc()
	r.logger.Debug("send failed", "session_id", p.ID(), "name", p.Name(), "error", err)
}

func dropReason(err error) string {
	switch {
	case errors.Is(err, ErrQueueFull):
		return "queue_full"
	case errors.Is(err, ErrBackpressure):
		return "backpressure"
	case errors.Is(err, ErrSessionClosed):
		return "closed"
	default:
		return "error"
	}
}

func observe(kind string, start time.Time) {
	MessagesTotal.WithLabelValues(kind).Inc()
	EventProcessingDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
