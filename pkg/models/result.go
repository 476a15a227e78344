package models

import "time"

// ArchitectureResult is the outcome of one ProcessTask call. Exactly one of
// the typed result slices is populated, matching the architecture used.
type ArchitectureResult struct {
	// ArchitectureUsed is the registered name of the engine that ran.
	ArchitectureUsed string `json:"architecture_used"`
	// Responses is the ordered per-step output of the sequential engine.
	Responses []AgentResponse `json:"responses,omitempty"`
	// Rounds is the ordered round log of the round-table engine.
	Rounds []DiscussionRound `json:"rounds,omitempty"`
	// Events is the full ordered event log of the reactive engine.
	Events []Event `json:"events,omitempty"`
	// Decisions is the ordered decision log of the hierarchical engine.
	Decisions []Decision `json:"decisions,omitempty"`
	// ProcessingTimeSeconds is the wall-clock duration of the run.
	ProcessingTimeSeconds float64 `json:"processing_time_seconds"`
	// Success reports whether the run completed without degradation.
	Success bool `json:"success"`
	// ErrorMessage summarizes what degraded or failed, if anything.
	ErrorMessage string `json:"error_message,omitempty"`
}

// PerformanceRecord is one append-only timing entry kept per ProcessTask
// call. Records are never deleted within a process lifetime.
type PerformanceRecord struct {
	// Architecture is the engine name that handled the task.
	Architecture string `json:"architecture"`
	// TaskID is the id of the processed task.
	TaskID string `json:"task_id"`
	// DurationSeconds is how long the run took.
	DurationSeconds float64 `json:"duration_seconds"`
	// Success mirrors the result's success flag.
	Success bool `json:"success"`
	// TimestampUTC is when the run finished.
	TimestampUTC time.Time `json:"timestamp_utc"`
}

// ArchitectureStats summarizes recorded runs for one architecture.
type ArchitectureStats struct {
	// Runs is the number of recorded ProcessTask calls.
	Runs int `json:"runs"`
	// AvgDurationSeconds is the arithmetic mean of recorded durations.
	AvgDurationSeconds float64 `json:"avg_duration_seconds"`
	// SuccessRate is the fraction of runs that succeeded, 0.0-1.0.
	SuccessRate float64 `json:"success_rate"`
}
