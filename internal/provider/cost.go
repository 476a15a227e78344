package provider

import "sync"

// Token pricing per million, approximating Sonnet-class rates. Used only to
// enforce the daily ceiling, not for billing.
const (
	inputCostPerMTok  = 3.0
	outputCostPerMTok = 15.0
)

// CostTracker accumulates token usage and estimated spend across all
// provider calls in the process. Concurrent round-table invocations share
// one tracker, so every read-then-update goes through the mutex.
type CostTracker struct {
	mu        sync.Mutex
	inputTok  int64
	outputTok int64
	calls     int
	enabled   bool
	limitUSD  float64
}

// NewCostTracker creates a tracker enforcing the given daily ceiling.
// When enabled is false, LimitReached always reports false.
func NewCostTracker(enabled bool, limitUSD float64) *CostTracker {
	return &CostTracker{
		enabled:  enabled,
		limitUSD: limitUSD,
	}
}

// Add records token usage from a completed provider call.
func (t *CostTracker) Add(input, output int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inputTok += input
	t.outputTok += output
	t.calls++
}

// Cost estimates the cumulative spend in USD.
func (t *CostTracker) Cost() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.costLocked()
}

func (t *CostTracker) costLocked() float64 {
	inputCost := float64(t.inputTok) / 1_000_000 * inputCostPerMTok
	outputCost := float64(t.outputTok) / 1_000_000 * outputCostPerMTok
	return inputCost + outputCost
}

// LimitReached reports whether the ceiling has been hit. Once true it stays
// true for the remainder of the process, since usage is never reset.
func (t *CostTracker) LimitReached() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled && t.costLocked() >= t.limitUSD
}

// Calls returns the number of provider calls recorded.
func (t *CostTracker) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// Total returns the cumulative input and output token counts.
func (t *CostTracker) Total() (input, output int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inputTok, t.outputTok
}
