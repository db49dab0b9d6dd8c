package chat

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistory_KeepsOnlyLastEntries(t *testing.T) {
	req := require.New(t)
	h := NewHistory(100)

	// When 250 lines are appended
	for i := 0; i < 250; i++ {
		h.Append(fmt.Sprintf("m%d", i))
	}

	// Then only the last 100 remain, oldest first
	snap := h.Snapshot()
	req.Len(snap, 100)
	for i, line := range snap {
		req.Equal(fmt.Sprintf("m%d", 150+i), line)
	}
}

func TestHistory_BelowCapacityKeepsEverything(t *testing.T) {
	req := require.New(t)
	h := NewHistory(100)

	h.Append("a")
	h.Append("b")

	req.Equal([]string{"a", "b"}, h.Snapshot())
	req.Equal(2, h.Len())
}

func TestHistory_DefaultCapacity(t *testing.T) {
	require.Equal(t, DefaultHistorySize, NewHistory(0).Cap())
}

func TestHistory_SnapshotIsIndependent(t *testing.T) {
	req := require.New(t)
	h := NewHistory(3)
	h.Append("a")

	// Given a snapshot is taken
	snap := h.Snapshot()

	// When the snapshot is modified and the history grows
	snap[0] = "changed"
	h.Append("b")

	// Then neither affects the other
	req.Equal([]string{"a", "b"}, h.Snapshot())
	req.Equal([]string{"changed"}, snap)
}

func TestHistory_ConcurrentAppendsAreTotallyOrdered(t *testing.T) {
	req := require.New(t)
	h := NewHistory(1000)

	var wg sync.WaitGroup
	for w := 0; w < 20; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				h.Append(fmt.Sprintf("%d:%d", w, i))
			}
		}(w)
	}
	wg.Wait()

	snap := h.Snapshot()
	req.Len(snap, 1000)

	// Each writer's lines keep their own order.
	last := make(map[string]int)
	for _, line := range snap {
		w, i, ok := strings.Cut(line, ":")
		req.True(ok)
		n, err := strconv.Atoi(i)
		req.NoError(err)
		if prev, seen := last[w]; seen {
			req.Greater(n, prev)
		}
		last[w] = n
	}
}

func TestHistory_ConcurrentOverflowStaysBounded(t *testing.T) {
	h := NewHistory(100)

	var wg sync.WaitGroup
	for w := 0; w < 10; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				h.Append("x")
				_ = h.Snapshot()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 100, h.Len())
}
