package models

import "time"

// EventType identifies what kind of notification a reactive event carries.
type EventType string

const (
	// EventTaskReceived seeds a reactive run with the incoming task.
	EventTaskReceived EventType = "task_received"
	// EventAgentRespondedOK records a clean response from a member.
	EventAgentRespondedOK EventType = "agent_responded_ok"
	// EventAgentFlaggedBlocker records a response that raised concerns.
	EventAgentFlaggedBlocker EventType = "agent_flagged_blocker"
	// EventConsensusReached records that a majority responded without concerns.
	EventConsensusReached EventType = "consensus_reached"
	// EventTimeoutExpired is the synthetic event enqueued when the event
	// cap is hit; no events are accepted after it.
	EventTimeoutExpired EventType = "timeout_expired"
)

// Valid returns true if the event type is a known value.
func (t EventType) Valid() bool {
	switch t {
	case EventTaskReceived, EventAgentRespondedOK, EventAgentFlaggedBlocker,
		EventConsensusReached, EventTimeoutExpired:
		return true
	default:
		return false
	}
}

// Event is an immutable, sequenced notification consumed by the reactive
// engine's loop.
type Event struct {
	// ID is a unique identifier for the event.
	ID string `json:"id"`
	// Type is the kind of event.
	Type EventType `json:"type"`
	// SourceAgent is the member id (or "system") that produced the event.
	SourceAgent string `json:"source_agent"`
	// TargetAgent is the member id the event is addressed to. Empty means
	// broadcast to every subscriber of the event type.
	TargetAgent string `json:"target_agent,omitempty"`
	// SequenceNumber is strictly increasing within one reactive run, in
	// enqueue order.
	SequenceNumber int `json:"sequence_number"`
	// TimestampUTC is when the event was enqueued.
	TimestampUTC time.Time `json:"timestamp_utc"`
	// Task is the task payload, set on task_received events.
	Task *Task `json:"task,omitempty"`
	// Response is the response payload, set on events derived from a
	// member's answer.
	Response *AgentResponse `json:"response,omitempty"`
}
