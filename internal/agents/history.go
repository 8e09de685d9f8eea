package agents

import "github.com/talgya/catsim/internal/world"

// History is a fixed-capacity ring of recent positions. When full, the
// oldest position is overwritten.
type History struct {
	buf   []world.Position
	start int
	n     int
}

// NewHistory creates a ring holding up to capacity positions.
func NewHistory(capacity int) *History {
	if capacity < 0 {
		capacity = 0
	}
	return &History{buf: make([]world.Position, capacity)}
}

// Push appends p, evicting the oldest entry if the ring is full.
func (h *History) Push(p world.Position) {
	if len(h.buf) == 0 {
		return
	}
	if h.n < len(h.buf) {
		h.buf[(h.start+h.n)%len(h.buf)] = p
		h.n++
		return
	}
	h.buf[h.start] = p
	h.start = (h.start + 1) % len(h.buf)
}

// Len returns the number of stored positions.
func (h *History) Len() int {
	return h.n
}

// Cap returns the ring capacity.
func (h *History) Cap() int {
	return len(h.buf)
}

// Positions returns stored positions, oldest first.
func (h *History) Positions() []world.Position {
	out := make([]world.Position, h.n)
	for i := 0; i < h.n; i++ {
		out[i] = h.buf[(h.start+i)%len(h.buf)]
	}
	return out
}
