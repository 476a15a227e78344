package engine

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/parleyhq/parley/internal/roster"
	"github.com/parleyhq/parley/pkg/models"
)

// hierarchyNode places a member in the reporting tree. Level 0 is the top
// of the tree; reportsTo is empty only at the top.
type hierarchyNode struct {
	member    roster.Member
	level     int
	reportsTo string
	authority bool
}

// Hierarchical analyzes bottom-up through a reporting tree derived from the
// roster roles, turns recommendations into decision proposals, and routes
// each proposal up the chain for approval.
type Hierarchical struct {
	roster *roster.Roster
	gw     Gateway
}

// NewHierarchical creates the hierarchical decision-tree engine.
func NewHierarchical(r *roster.Roster, gw Gateway) *Hierarchical {
	return &Hierarchical{roster: r, gw: gw}
}

// Name returns the registered architecture name.
func (h *Hierarchical) Name() string {
	return "hierarchical"
}

// Describe returns a human-readable description of the strategy.
func (h *Hierarchical) Describe() string {
	return "Hierarchical Decision Tree - bottom-up analysis with decisions approved up the chain"
}

// buildHierarchy derives the tree from roles: the manager sits at level 0,
// product and lead roles report to the manager at level 1, everyone else
// reports to the first lead (or the manager when there is none) at level 2.
// Approval authority rests with levels 0 and 1.
func (h *Hierarchical) buildHierarchy() []hierarchyNode {
	members := h.roster.Members()

	var managerID, leadID string
	for _, m := range members {
		switch stageFor(m.Role) {
		case stageManager:
			if managerID == "" {
				managerID = m.ID
			}
		case stageLead:
			if leadID == "" {
				leadID = m.ID
			}
		}
	}
	topID := managerID
	if topID == "" {
		topID = leadID
	}
	if topID == "" && len(members) > 0 {
		topID = members[0].ID
	}

	nodes := make([]hierarchyNode, 0, len(members))
	for _, m := range members {
		n := hierarchyNode{member: m}
		switch {
		case m.ID == topID:
			n.level = 0
			n.authority = true
		case stageFor(m.Role) == stageLead || stageFor(m.Role) == stageProduct:
			n.level = 1
			n.reportsTo = topID
			n.authority = true
		default:
			n.level = 2
			n.reportsTo = leadID
			if n.reportsTo == "" || n.reportsTo == m.ID {
				n.reportsTo = topID
			}
			n.authority = false
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// Process runs the analysis sweep, the proposal pass, and the final
// execution-planning call at the top of the tree.
func (h *Hierarchical) Process(ctx context.Context, task models.Task) (*models.ArchitectureResult, error) {
	nodes := h.buildHierarchy()

	// Deepest level first; roster order preserved within a level.
	ordered := make([]hierarchyNode, len(nodes))
	copy(ordered, nodes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].level > ordered[j].level
	})

	byID := make(map[string]hierarchyNode, len(nodes))
	for _, n := range nodes {
		byID[n.member.ID] = n
	}

	result := &models.ArchitectureResult{ArchitectureUsed: h.Name()}
	responses := make(map[string]models.AgentResponse, len(nodes))

	for _, n := range ordered {
		promptCtx := ""
		if lower := reportsBelow(nodes, n.level, responses); len(lower) > 0 {
			promptCtx = contextFromResponses("Analysis reported from your team:", lower)
		}
		resp := h.gw.Invoke(ctx, n.member, task, promptCtx)
		responses[n.member.ID] = resp
		result.Responses = append(result.Responses, resp)
	}

	// Every recommendation becomes a proposal routed up the chain.
	var decisions []models.Decision
	approved := 0
	for _, n := range ordered {
		resp := responses[n.member.ID]
		for _, rec := range resp.Recommendations {
			d := models.Decision{
				ID:           uuid.New().String(),
				Type:         decisionTypeFor(n.member.Role),
				ProposedBy:   n.member.ID,
				Description:  rec,
				Status:       models.DecisionPending,
				TimestampUTC: time.Now().UTC(),
			}
			if approver, ok := approverFor(n, byID); ok {
				d.Status = models.DecisionApproved
				d.Approver = approver
				approved++
			} else {
				d.Status = models.DecisionEscalated
			}
			decisions = append(decisions, d)
		}
	}

	// The top of the tree closes the run with an execution plan.
	if len(ordered) > 0 {
		top := nodes[0]
		for _, n := range nodes {
			if n.level == 0 {
				top = n
				break
			}
		}
		plan := h.gw.Invoke(ctx, top.member, task,
			contextFromResponses("All analysis is complete. Produce an execution plan with sequencing and timeline:", result.Responses))
		result.Responses = append(result.Responses, plan)
		decisions = append(decisions, models.Decision{
			ID:           uuid.New().String(),
			Type:         models.DecisionTimelineChange,
			ProposedBy:   top.member.ID,
			Description:  fmt.Sprintf("Execution plan for %q: %s", task.Title, clipText(plan.ResponseText, 200)),
			Status:       models.DecisionApproved,
			Approver:     top.member.ID,
			TimestampUTC: time.Now().UTC(),
		})
		approved++
	}

	result.Decisions = decisions
	result.Success = approved > 0
	if !result.Success {
		result.ErrorMessage = "no decision was approved"
	}

	log.Printf("[hierarchical] %d decisions (%d approved) across %d members", len(decisions), approved, len(nodes))
	return result, nil
}

// approverFor walks the reports_to chain from the proposer up to the first
// node with approval authority.
func approverFor(n hierarchyNode, byID map[string]hierarchyNode) (string, bool) {
	cur := n
	for cur.reportsTo != "" {
		next, ok := byID[cur.reportsTo]
		if !ok {
			break
		}
		if next.authority {
			return next.member.ID, true
		}
		cur = next
	}
	if n.reportsTo == "" && n.authority {
		// The top of the tree approves its own proposals.
		return n.member.ID, true
	}
	return "", false
}

// reportsBelow collects responses from members deeper than the given level.
func reportsBelow(nodes []hierarchyNode, level int, responses map[string]models.AgentResponse) []models.AgentResponse {
	var out []models.AgentResponse
	for _, n := range nodes {
		if n.level <= level {
			continue
		}
		if resp, ok := responses[n.member.ID]; ok {
			out = append(out, resp)
		}
	}
	return out
}

// decisionTypeFor maps a proposer's role to the kind of decision their
// recommendations represent.
func decisionTypeFor(role string) models.DecisionType {
	switch stageFor(role) {
	case stageQA:
		return models.DecisionRiskMitigation
	case stageProduct:
		return models.DecisionScopeChange
	case stageManager:
		return models.DecisionResourceAllocation
	default:
		return models.DecisionTechnicalApproach
	}
}

func clipText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
