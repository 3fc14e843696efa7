package console

import "github.com/eapache/queue"

// history is a bounded ring of accepted lines; the oldest entry is evicted
// once the ring is full.
type history struct {
	q   *queue.Queue
	max int
}

func newHistory(max int) *history {
	if max <= 0 {
		max = DefaultHistorySize
	}
	return &history{q: queue.New(), max: max}
}

func (h *history) add(line string) {
	for h.q.Length() >= h.max {
		h.q.Remove()
	}
	h.q.Add(line)
}

// lines returns entries oldest first.
func (h *history) lines() []string {
	n := h.q.Length()
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, h.q.Get(i).(string))
	}
	return out
}

func (h *history) len() int {
	return h.q.Length()
}
