package chat

import "sync"

// DefaultHistorySize is the number of broadcast lines kept for replay.
const DefaultHistorySize = 100

// History is a bounded FIFO of the most recent broadcast lines.
type History struct {
	mu    sync.Mutex
	lines []string
	limit int
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistorySize
	}
	return &History{
		lines: make([]string, 0, limit),
		limit: limit,
	}
}

// Append adds line at the tail, evicting the oldest entry when full.
func (h *History) Append(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.lines) >= h.limit {
		copy(h.lines, h.lines[1:])
		h.lines = h.lines[:len(h.lines)-1]
	}
	h.lines = append(h.lines, line)
	HistorySize.Set(float64(len(h.lines)))
}

// Snapshot returns a copy of the buffered lines, oldest first.
func (h *History) Snapshot() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]string, len(h.lines))
	copy(out, h.lines)
	return out
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.lines)
}

func (h *History) Cap() int {
	return h.limit
}
