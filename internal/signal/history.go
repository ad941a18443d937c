// Package signal reduces spin directions into the two traces shown on the
// strip chart and keeps a bounded history of each.
package signal

// DefaultHistory is the number of samples kept per series.
const DefaultHistory = 400

// History is a fixed-size sliding window. The newest sample sits at index 0;
// pushing past capacity drops the oldest one.
type History struct {
	values []float64
	max    int
}

func NewHistory(max int) *History {
	if max < 1 {
		max = 1
	}
	return &History{values: make([]float64, 0, max), max: max}
}

// Push inserts v at the front and evicts the oldest sample if full.
func (h *History) Push(v float64) {
	if len(h.values) < h.max {
		h.values = append(h.values, 0)
	}
	copy(h.values[1:], h.values[:len(h.values)-1])
	h.values[0] = v
}

// Values returns the samples newest first. The slice is shared with the
// history and is only valid until the next Push, Clear or SetCap.
func (h *History) Values() []float64 { return h.values }

// Chronological returns a copy of the samples oldest first.
func (h *History) Chronological() []float64 {
	out := make([]float64, len(h.values))
	for i, v := range h.values {
		out[len(h.values)-1-i] = v
	}
	return out
}

func (h *History) Len() int { return len(h.values) }
func (h *History) Cap() int { return h.max }

// Latest returns the newest sample, or false if the history is empty.
func (h *History) Latest() (float64, bool) {
	if len(h.values) == 0 {
		return 0, false
	}
	return h.values[0], true
}

func (h *History) Clear() { h.values = h.values[:0] }

// SetCap changes the capacity, keeping the newest samples that still fit.
func (h *History) SetCap(max int) {
	if max < 1 {
		max = 1
	}
	if len(h.values) > max {
		h.values = h.values[:max]
	}
	values := make([]float64, len(h.values), max)
	copy(values, h.values)
	h.values = values
	h.max = max
}
