package engine

import "strings"

// stage is a coarse position in the delivery pipeline, derived from a
// member's role name. It fixes the sequential hand-off order and the
// hierarchical reporting levels.
type stage int

const (
	stageProduct stage = iota
	stageLead
	stageContributor
	stageQA
	stageManager
)

// stageFor classifies a role name. Roles that match nothing are treated as
// contributors.
func stageFor(role string) stage {
	lower := strings.ToLower(role)
	switch {
	case strings.Contains(lower, "product"):
		return stageProduct
	case strings.Contains(lower, "lead") || strings.Contains(lower, "architect"):
		return stageLead
	case strings.Contains(lower, "qa") || strings.Contains(lower, "test"):
		return stageQA
	case strings.Contains(lower, "manager"):
		return stageManager
	default:
		return stageContributor
	}
}
