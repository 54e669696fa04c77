package ranking

import (
	"sync"
	"testing"
)

func TestRequestTracker_LatestWins(t *testing.T) {
	tracker := NewRequestTracker()

	first := tracker.Issue("snapshot:freshest:beauty")
	second := tracker.Issue("snapshot:freshest:beauty")

	if second <= first {
		t.Fatalf("Expected increasing tokens, got %d then %d", first, second)
	}
	if tracker.IsLatest("snapshot:freshest:beauty", first) {
		t.Error("Expected first token to be stale")
	}
	if !tracker.IsLatest("snapshot:freshest:beauty", second) {
		t.Error("Expected second token to be latest")
	}
}

func TestRequestTracker_SlotsAreIndependent(t *testing.T) {
	tracker := NewRequestTracker()

	beauty := tracker.Issue("beauty")
	tracker.Issue("media")

	if !tracker.IsLatest("beauty", beauty) {
		t.Error("Expected a request on another slot not to invalidate beauty")
	}
	if tracker.IsLatest("food", 1) {
		t.Error("Expected no token to be latest for an unused slot")
	}
}

func TestRequestTracker_Concurrent(t *testing.T) {
	tracker := NewRequestTracker()

	var wg sync.WaitGroup
	tokens := make([]uint64, 50)
	for i := range tokens {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tokens[i] = tracker.Issue("place")
		}()
	}
	wg.Wait()

	seen := make(map[uint64]bool)
	latest := 0
	for _, token := range tokens {
		if seen[token] {
			t.Fatalf("Token %d issued twice", token)
		}
		seen[token] = true
		if tracker.IsLatest("place", token) {
			latest++
		}
	}
	if latest != 1 {
		t.Errorf("Expected exactly one latest token, got %d", latest)
	}
}
