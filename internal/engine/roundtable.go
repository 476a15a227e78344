package engine

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/parleyhq/parley/internal/roster"
	"github.com/parleyhq/parley/pkg/models"
)

// DefaultMaxRounds is the round count used when none is configured.
const DefaultMaxRounds = 3

// fixedTopics seed rounds whose preceding round produced no consensus.
var fixedTopics = []string{
	"Initial analysis and approach",
	"Risk assessment and mitigation",
	"Implementation planning and timeline",
}

// RoundTable runs up to R synchronized discussion rounds. Every member
// contributes concurrently each round; contributions are recorded in stable
// member order regardless of provider latency.
type RoundTable struct {
	roster    *roster.Roster
	gw        Gateway
	maxRounds int
}

// NewRoundTable creates the round-table discussion engine.
func NewRoundTable(r *roster.Roster, gw Gateway, maxRounds int) *RoundTable {
	if maxRounds < 1 {
		maxRounds = DefaultMaxRounds
	}
	return &RoundTable{roster: r, gw: gw, maxRounds: maxRounds}
}

// Name returns the registered architecture name.
func (rt *RoundTable) Name() string {
	return "round_table"
}

// Describe returns a human-readable description of the strategy.
func (rt *RoundTable) Describe() string {
	return "Round-Table Discussion - all agents contribute in collaborative rounds until consensus stabilizes"
}

// Process facilitates the discussion, stopping early once consensus repeats.
func (rt *RoundTable) Process(ctx context.Context, task models.Task) (*models.ArchitectureResult, error) {
	members := rt.roster.Members()
	var rounds []models.DiscussionRound
	var prevConsensus []string

	for roundNum := 1; roundNum <= rt.maxRounds; roundNum++ {
		topic := rt.topicFor(roundNum, task, prevConsensus)
		contributions := rt.fanOut(ctx, members, task, topic, rounds)

		consensus := majorityConsensus(members, contributions)
		rounds = append(rounds, models.DiscussionRound{
			RoundNumber:    roundNum,
			Topic:          topic,
			Contributions:  contributions,
			ConsensusItems: consensus,
		})

		log.Printf("[round_table] round %d: %d consensus items", roundNum, len(consensus))

		if len(consensus) > 0 && sameConsensus(prevConsensus, consensus) {
			break
		}
		prevConsensus = consensus
	}

	success := false
	for _, r := range rounds {
		if len(r.ConsensusItems) > 0 {
			success = true
			break
		}
	}

	result := &models.ArchitectureResult{
		ArchitectureUsed: rt.Name(),
		Rounds:           rounds,
		Success:          success,
	}
	if !success {
		result.ErrorMessage = "no round produced a consensus"
	}

	return result, nil
}

// topicFor picks the round's topic: the task itself for round 1, a
// synthesis of the previous consensus afterwards, with fixed topics
// covering rounds that follow an empty consensus.
func (rt *RoundTable) topicFor(roundNum int, task models.Task, prevConsensus []string) string {
	if roundNum == 1 {
		topic := task.Title
		if task.Description != "" {
			topic = fmt.Sprintf("%s: %s", task.Title, task.Description)
		}
		return topic
	}
	if len(prevConsensus) > 0 {
		return "Build on the team's consensus so far: " + strings.Join(prevConsensus, "; ")
	}
	return fixedTopics[(roundNum-1)%len(fixedTopics)]
}

// fanOut invokes every member concurrently and joins before returning.
// Results land in a slice indexed by member position, so the recorded
// contributions follow stable roster order, not arrival order.
func (rt *RoundTable) fanOut(ctx context.Context, members []roster.Member, task models.Task, topic string, prior []models.DiscussionRound) map[string]models.AgentResponse {
	promptContext := roundContext(topic, prior)
	responses := make([]models.AgentResponse, len(members))

	var wg sync.WaitGroup
	for i, member := range members {
		wg.Add(1)
		go func(i int, member roster.Member) {
			defer wg.Done()
			responses[i] = rt.gw.Invoke(ctx, member, task, promptContext)
		}(i, member)
	}
	wg.Wait()

	contributions := make(map[string]models.AgentResponse, len(members))
	for i, member := range members {
		contributions[member.ID] = responses[i]
	}
	return contributions
}

// roundContext renders the topic plus a summary of prior rounds.
func roundContext(topic string, prior []models.DiscussionRound) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Discussion topic: %s\n", topic)

	if len(prior) > 0 {
		b.WriteString("\nPrevious rounds:\n")
		for _, r := range prior {
			fmt.Fprintf(&b, "- Round %d (%s): consensus on %s\n",
				r.RoundNumber, r.Topic, summarizeConsensus(r.ConsensusItems))
		}
	}

	b.WriteString("\nContribute your perspective on the topic and build on the discussion.")
	return b.String()
}

func summarizeConsensus(items []string) string {
	if len(items) == 0 {
		return "nothing yet"
	}
	return strings.Join(clip(items, 3), "; ")
}
