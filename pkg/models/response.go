package models

import "time"

// TemplateFallbackProvider is the provider name recorded on responses that
// were synthesized locally after every configured provider failed.
const TemplateFallbackProvider = "template-fallback"

// AgentResponse is the outcome of asking one team member to respond to a
// task. Exactly one is produced per gateway invocation and it is immutable
// once returned.
type AgentResponse struct {
	// MemberID is the roster id of the responding member.
	MemberID string `json:"member_id"`
	// Role is the display role of the responding member.
	Role string `json:"role"`
	// ResponseText is the member's analysis in prose form.
	ResponseText string `json:"response_text"`
	// EstimatedEffort is a free-form effort estimate, e.g. "2 days".
	EstimatedEffort string `json:"estimated_effort,omitempty"`
	// Concerns lists issues the member raised.
	Concerns []string `json:"concerns,omitempty"`
	// Recommendations lists actions the member proposed.
	Recommendations []string `json:"recommendations,omitempty"`
	// TimestampUTC is when the response was produced.
	TimestampUTC time.Time `json:"timestamp_utc"`
	// Succeeded is false when the response came from the template fallback.
	Succeeded bool `json:"succeeded"`
	// ProviderUsed names the provider that actually answered, which may be
	// a fallback in the chain or TemplateFallbackProvider.
	ProviderUsed string `json:"provider_used"`
}

// DiscussionRound is one fan-out/fan-in cycle of the round-table engine.
type DiscussionRound struct {
	// RoundNumber is 1-based and strictly increasing within a result.
	RoundNumber int `json:"round_number"`
	// Topic is what this round discussed.
	Topic string `json:"topic"`
	// Contributions maps member id to that member's response, one entry
	// per roster member.
	Contributions map[string]AgentResponse `json:"contributions"`
	// ConsensusItems are recommendations endorsed by a strict majority of
	// members, ordered by first appearance.
	ConsensusItems []string `json:"consensus_items"`
}
