package engine

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/parleyhq/parley/internal/roster"
	"github.com/parleyhq/parley/pkg/models"
)

// DefaultEventCap bounds a reactive run when no cap is configured.
const DefaultEventCap = 50

// Reactive runs a single-threaded event loop over a FIFO queue. Members
// react to delivered events; reactions enqueue follow-up events at the tail,
// never re-entrantly. A hard cap on processed events substitutes for a run
// deadline.
type Reactive struct {
	roster   *roster.Roster
	gw       Gateway
	eventCap int
}

// NewReactive creates the event-driven reactive engine.
func NewReactive(r *roster.Roster, gw Gateway, eventCap int) *Reactive {
	if eventCap < 1 {
		eventCap = DefaultEventCap
	}
	return &Reactive{roster: r, gw: gw, eventCap: eventCap}
}

// Name returns the registered architecture name.
func (re *Reactive) Name() string {
	return "reactive"
}

// Describe returns a human-readable description of the strategy.
func (re *Reactive) Describe() string {
	return "Event-Driven Reactive - agents react to events and trigger others dynamically"
}

// Process seeds the queue with a broadcast task_received event and drains it.
func (re *Reactive) Process(ctx context.Context, task models.Task) (*models.ArchitectureResult, error) {
	members := re.roster.Members()
	majority := len(members)/2 + 1

	seq := 0
	newEvent := func(t models.EventType, source, target string, taskRef *models.Task, resp *models.AgentResponse) models.Event {
		seq++
		return models.Event{
			ID:             uuid.New().String(),
			Type:           t,
			SourceAgent:    source,
			TargetAgent:    target,
			SequenceNumber: seq,
			TimestampUTC:   time.Now().UTC(),
			Task:           taskRef,
			Response:       resp,
		}
	}

	queue := []models.Event{newEvent(models.EventTaskReceived, "system", "", &task, nil)}
	var eventLog []models.Event
	cleanResponders := make(map[string]bool)
	consensusQueued := false
	consensusReached := false
	capHit := false

	for len(queue) > 0 {
		if len(eventLog) >= re.eventCap {
			// Cap reached: the synthetic timeout is the final logged event
			// and nothing queued after it is accepted.
			eventLog = append(eventLog, newEvent(models.EventTimeoutExpired, "system", "", nil, nil))
			capHit = true
			break
		}

		ev := queue[0]
		queue = queue[1:]
		eventLog = append(eventLog, ev)
		if ev.Type == models.EventConsensusReached {
			consensusReached = true
		}

		for _, member := range members {
			if !subscribedTo(member, ev.Type) {
				continue
			}
			if ev.SourceAgent == member.ID {
				continue
			}
			if ev.TargetAgent != "" && ev.TargetAgent != member.ID {
				continue
			}

			resp := re.gw.Invoke(ctx, member, task, eventContext(ev))

			if len(resp.Concerns) > 0 {
				queue = append(queue, newEvent(models.EventAgentFlaggedBlocker, member.ID, "", nil, &resp))
				continue
			}

			queue = append(queue, newEvent(models.EventAgentRespondedOK, member.ID, "", nil, &resp))
			cleanResponders[member.ID] = true
			if !consensusQueued && len(cleanResponders) >= majority {
				consensusQueued = true
				queue = append(queue, newEvent(models.EventConsensusReached, "system", "", nil, nil))
			}
		}
	}

	log.Printf("[reactive] processed %d events (cap %d, consensus=%v)", len(eventLog), re.eventCap, consensusReached)

	result := &models.ArchitectureResult{
		ArchitectureUsed: re.Name(),
		Events:           eventLog,
		Success:          consensusReached,
	}
	switch {
	case capHit:
		result.ErrorMessage = fmt.Sprintf("event cap %d reached", re.eventCap)
	case !consensusReached:
		result.ErrorMessage = "queue drained without consensus"
	}

	return result, nil
}

// subscribedTo is the static subscription table: everyone handles the
// incoming task, the lead handles flagged blockers, the manager handles
// consensus.
func subscribedTo(member roster.Member, t models.EventType) bool {
	switch t {
	case models.EventTaskReceived:
		return true
	case models.EventAgentFlaggedBlocker:
		return stageFor(member.Role) == stageLead
	case models.EventConsensusReached:
		return stageFor(member.Role) == stageManager
	default:
		return false
	}
}

// eventContext renders the delivered event as prompt context.
func eventContext(ev models.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Event: %s from %s\n", ev.Type, ev.SourceAgent)

	if ev.Response != nil {
		fmt.Fprintf(&b, "Reported by %s: %s\n", ev.Response.Role, ev.Response.ResponseText)
		if len(ev.Response.Concerns) > 0 {
			fmt.Fprintf(&b, "Raised concerns: %s\n", strings.Join(ev.Response.Concerns, "; "))
		}
	}

	b.WriteString("React to this event from your role's perspective.")
	return b.String()
}
