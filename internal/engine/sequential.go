package engine

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/parleyhq/parley/internal/roster"
	"github.com/parleyhq/parley/pkg/models"
)

// Sequential runs the fixed hand-off pipeline: Product Owner, Tech Lead,
// developers, QA, Manager. Each step sees the accumulated output of every
// prior step. A degraded step never stops the pipeline.
type Sequential struct {
	roster *roster.Roster
	gw     Gateway
	order  []roster.Member
}

// NewSequential creates the sequential pipeline engine. The pipeline order
// is derived once from the roster: members are sorted by stage, roster
// order preserved within a stage.
func NewSequential(r *roster.Roster, gw Gateway) *Sequential {
	order := r.Members()
	sort.SliceStable(order, func(i, j int) bool {
		return stageFor(order[i].Role) < stageFor(order[j].Role)
	})

	return &Sequential{roster: r, gw: gw, order: order}
}

// Name returns the registered architecture name.
func (s *Sequential) Name() string {
	return "sequential"
}

// Describe returns a human-readable description of the strategy.
func (s *Sequential) Describe() string {
	return "Sequential Pipeline - agents process the task in order, each building on prior analysis"
}

// Process runs every pipeline step exactly once, in order.
func (s *Sequential) Process(ctx context.Context, task models.Task) (*models.ArchitectureResult, error) {
	responses := make([]models.AgentResponse, 0, len(s.order))
	var degraded []string

	for _, member := range s.order {
		promptContext := contextFromResponses("Previous team analysis:", responses)
		resp := s.gw.Invoke(ctx, member, task, promptContext)

		if !resp.Succeeded {
			degraded = append(degraded, resp.Role)
			log.Printf("[sequential] %s degraded to fallback", resp.Role)
		}
		responses = append(responses, resp)
	}

	result := &models.ArchitectureResult{
		ArchitectureUsed: s.Name(),
		Responses:        responses,
		Success:          len(degraded) == 0,
	}
	if len(degraded) > 0 {
		result.ErrorMessage = fmt.Sprintf("degraded responses from: %s", strings.Join(degraded, ", "))
	}

	return result, nil
}
