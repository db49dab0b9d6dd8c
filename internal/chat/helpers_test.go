package chat

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fixedClock always reads 14:02 local time.
func fixedClock() time.Time {
	return time.Date(2024, time.March, 1, 14, 2, 0, 0, time.Local)
}

// fakePeer records every line it is sent.
type fakePeer struct {
	id   string
	name string

	mu    sync.Mutex
	lines []string
}

func newFakePeer(name string) *fakePeer {
	return &fakePeer{id: uuid.NewString(), name: name}
}

func (p *fakePeer) ID() string   { return p.id }
func (p *fakePeer) Name() string { return p.name }

func (p *fakePeer) Send(line string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lines = append(p.lines, line)
	return nil
}

func (p *fakePeer) Lines() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.lines))
	copy(out, p.lines)
	return out
}
