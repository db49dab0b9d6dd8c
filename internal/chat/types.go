package chat

import "errors"

// State is the lifecycle position of a session.
type State int32

const (
	StateConnecting State = iota
	StateNamePending
	StateActive
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateNamePending:
		return "name_pending"
	case StateActive:
		return "active"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// BackpressurePolicy decides what Send does when a session's outbound queue is full.
type BackpressurePolicy string

const (
	// BackpressureDrop discards the new line and keeps the session.
	BackpressureDrop BackpressurePolicy = "drop"
	// BackpressureDisconnect closes the slow session's transport.
	BackpressureDisconnect BackpressurePolicy = "disconnect"
)

var (
	ErrDuplicateSession = errors.New("session already registered")
	ErrSessionClosed    = errors.New("session closed")
	ErrQueueFull        = errors.New("outbound queue full")
	ErrBackpressure     = errors.New("disconnected on backpressure")
)
