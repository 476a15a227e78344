package provider

import (
	"sync"
	"testing"
)

func TestCostTrackerAccumulates(t *testing.T) {
	tracker := NewCostTracker(true, 10)

	tracker.Add(1_000_000, 0)
	if got := tracker.Cost(); got != inputCostPerMTok {
		t.Errorf("Cost = %v, want %v", got, inputCostPerMTok)
	}

	tracker.Add(0, 1_000_000)
	want := inputCostPerMTok + outputCostPerMTok
	if got := tracker.Cost(); got != want {
		t.Errorf("Cost = %v, want %v", got, want)
	}
}

func TestCostTrackerLimit(t *testing.T) {
	tracker := NewCostTracker(true, 1.0)
	if tracker.LimitReached() {
		t.Error("fresh tracker should be under the limit")
	}

	tracker.Add(1_000_000, 0) // $3 at input pricing
	if !tracker.LimitReached() {
		t.Error("limit should be reached after exceeding the ceiling")
	}
}

func TestCostTrackerDisabled(t *testing.T) {
	tracker := NewCostTracker(false, 0)
	tracker.Add(10_000_000, 10_000_000)
	if tracker.LimitReached() {
		t.Error("disabled tracker must never report the limit")
	}
}

func TestCostTrackerConcurrentAdds(t *testing.T) {
	tracker := NewCostTracker(true, 1e9)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Add(10, 5)
		}()
	}
	wg.Wait()

	in, out := tracker.Total()
	if in != 500 || out != 250 {
		t.Errorf("Total = %d/%d, want 500/250", in, out)
	}
	if tracker.Calls() != 50 {
		t.Errorf("Calls = %d, want 50", tracker.Calls())
	}
}
