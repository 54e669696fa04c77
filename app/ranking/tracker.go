package ranking

import "sync"

// RequestTracker hands out a monotonically increasing token per slot. Only the
// holder of the latest token for a slot may publish its response, so a slow
// read never overwrites the result of a newer one.
type RequestTracker struct {
	mu     sync.Mutex
	latest map[string]uint64
}

func NewRequestTracker() *RequestTracker {
	return &RequestTracker{latest: make(map[string]uint64)}
}

// Issue starts a new request for slot and returns its token.
func (t *RequestTracker) Issue(slot string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.latest[slot]++
	return t.latest[slot]
}

// IsLatest reports whether token is the most recent one issued for slot.
func (t *RequestTracker) IsLatest(slot string, token uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.latest[slot] == token
}
