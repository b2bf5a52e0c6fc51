package store

import (
	"sync"

	ai "github.com/spetersoncode/scout"
)

// DefaultHistoryLimit is the number of turns kept when no limit is given.
const DefaultHistoryLimit = 20

// History is a rolling, thread-safe list of conversation turns. Once the
// limit is reached the oldest turns are dropped.
type History struct {
	mu    sync.RWMutex
	turns []ai.Turn
	limit int
}

// NewHistory creates a history keeping at most limit turns.
// A limit <= 0 uses DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Append adds turns, dropping the oldest beyond the limit.
func (h *History) Append(turns ...ai.Turn) {
	if len(turns) == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = append(h.turns, turns...)
	if over := len(h.turns) - h.limit; over > 0 {
		h.turns = append([]ai.Turn(nil), h.turns[over:]...)
	}
}

// Turns returns a copy of all turns, oldest first.
func (h *History) Turns() []ai.Turn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	result := make([]ai.Turn, len(h.turns))
	copy(result, h.turns)
	return result
}

// Last returns the last n turns. If n > Len(), returns all turns.
func (h *History) Last(n int) []ai.Turn {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n <= 0 {
		return nil
	}
	start := max(len(h.turns)-n, 0)
	result := make([]ai.Turn, len(h.turns)-start)
	copy(result, h.turns[start:])
	return result
}

// Len returns the number of turns.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.turns)
}

// Limit returns the maximum number of turns kept.
func (h *History) Limit() int {
	return h.limit
}

// Clear removes all turns.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = nil
}
