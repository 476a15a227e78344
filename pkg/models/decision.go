package models

import "time"

// DecisionType classifies what a hierarchical decision is about.
type DecisionType string

const (
	// DecisionTechnicalApproach covers architecture and implementation choices.
	DecisionTechnicalApproach DecisionType = "technical_approach"
	// DecisionResourceAllocation covers staffing and budget choices.
	DecisionResourceAllocation DecisionType = "resource_allocation"
	// DecisionTimelineChange covers schedule adjustments.
	DecisionTimelineChange DecisionType = "timeline_change"
	// DecisionScopeChange covers additions or cuts to the work item.
	DecisionScopeChange DecisionType = "scope_change"
	// DecisionRiskMitigation covers responses to identified risks.
	DecisionRiskMitigation DecisionType = "risk_mitigation"
)

// DecisionStatus is the approval state of a decision.
type DecisionStatus string

const (
	// DecisionPending means the decision awaits review.
	DecisionPending DecisionStatus = "pending"
	// DecisionApproved means an authorized member accepted the decision.
	DecisionApproved DecisionStatus = "approved"
	// DecisionRejected means an authorized member declined the decision.
	DecisionRejected DecisionStatus = "rejected"
	// DecisionEscalated means the decision moved up the reporting chain.
	DecisionEscalated DecisionStatus = "escalated"
)

// Decision is one proposal flowing through the hierarchical engine's
// approval process.
type Decision struct {
	// ID is a unique identifier for the decision.
	ID string `json:"id"`
	// Type classifies the decision.
	Type DecisionType `json:"type"`
	// ProposedBy is the member id that raised the decision.
	ProposedBy string `json:"proposed_by"`
	// Description states what is being decided.
	Description string `json:"description"`
	// Status is the current approval state.
	Status DecisionStatus `json:"status"`
	// Approver is the member id that resolved the decision, if resolved.
	Approver string `json:"approver,omitempty"`
	// TimestampUTC is when the decision was proposed.
	TimestampUTC time.Time `json:"timestamp_utc"`
}
