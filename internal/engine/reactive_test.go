package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/parleyhq/parley/internal/roster"
	"github.com/parleyhq/parley/pkg/models"
)

func TestReactiveReachesConsensus(t *testing.T) {
	gw := &fakeGateway{}
	eng := NewReactive(fullTeam(t), gw, 0)

	result, err := eng.Process(context.Background(), testTask())
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	if !result.Success {
		t.Fatalf("expected consensus, got error %q", result.ErrorMessage)
	}
	if len(result.Events) == 0 || result.Events[0].Type != models.EventTaskReceived {
		t.Fatal("event log does not open with task_received")
	}
	if result.Events[0].Task == nil || result.Events[0].Task.TaskID != "task-1" {
		t.Error("task_received event is missing the task payload")
	}

	found := false
	for _, ev := range result.Events {
		if ev.Type == models.EventConsensusReached {
			found = true
		}
	}
	if !found {
		t.Error("consensus_reached never appeared in the log")
	}
}

func TestReactiveSequenceNumbersIncrease(t *testing.T) {
	gw := &fakeGateway{}
	eng := NewReactive(fullTeam(t), gw, 0)

	result, err := eng.Process(context.Background(), testTask())
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	for i := 1; i < len(result.Events); i++ {
		if result.Events[i].SequenceNumber <= result.Events[i-1].SequenceNumber {
			t.Fatalf("event %d has sequence %d after %d",
				i, result.Events[i].SequenceNumber, result.Events[i-1].SequenceNumber)
		}
	}
}

func TestReactiveBlockerRoutesToLead(t *testing.T) {
	r := testRoster(t,
		"tech_lead", "Tech Lead",
		"dev1", "Developer",
		"dev2", "Developer",
	)
	gw := &fakeGateway{
		respond: func(m roster.Member, _ string) models.AgentResponse {
			if m.ID == "dev1" {
				resp := okResponse(m, "blocked")
				resp.Concerns = []string{"schema migration is missing"}
				return resp
			}
			return okResponse(m, "looks fine")
		},
	}
	eng := NewReactive(r, gw, 0)

	result, err := eng.Process(context.Background(), testTask())
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	// The lead reacts to the task and again to dev1's blocker.
	if got := gw.callCount("tech_lead"); got != 2 {
		t.Errorf("tech_lead invoked %d times, want 2", got)
	}
	if got := gw.callCount("dev1"); got != 1 {
		t.Errorf("dev1 invoked %d times, want 1", got)
	}

	last := gw.calls[len(gw.calls)-1]
	if last.memberID != "tech_lead" {
		t.Fatalf("last invocation went to %s", last.memberID)
	}
	if !strings.Contains(last.promptContext, string(models.EventAgentFlaggedBlocker)) ||
		!strings.Contains(last.promptContext, "dev1") {
		t.Errorf("blocker reaction context %q does not describe the event", last.promptContext)
	}

	var blockers int
	for _, ev := range result.Events {
		if ev.Type == models.EventAgentFlaggedBlocker {
			blockers++
			if ev.Response == nil || len(ev.Response.Concerns) == 0 {
				t.Error("blocker event is missing the response payload")
			}
		}
	}
	if blockers != 1 {
		t.Errorf("got %d blocker events, want 1", blockers)
	}
}

func TestReactiveLeadIgnoresOwnBlocker(t *testing.T) {
	r := testRoster(t,
		"tech_lead", "Tech Lead",
		"dev1", "Developer",
	)
	gw := &fakeGateway{
		respond: func(m roster.Member, _ string) models.AgentResponse {
			if m.ID == "tech_lead" {
				resp := okResponse(m, "blocked")
				resp.Concerns = []string{"unclear requirements"}
				return resp
			}
			return okResponse(m, "ok")
		},
	}
	eng := NewReactive(r, gw, 0)

	if _, err := eng.Process(context.Background(), testTask()); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	if got := gw.callCount("tech_lead"); got != 1 {
		t.Errorf("tech_lead reacted to its own blocker: %d invocations", got)
	}
}

func TestReactiveEventCap(t *testing.T) {
	gw := &fakeGateway{}
	eng := NewReactive(fullTeam(t), gw, 3)

	result, err := eng.Process(context.Background(), testTask())
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	last := result.Events[len(result.Events)-1]
	if last.Type != models.EventTimeoutExpired {
		t.Errorf("final event is %s, want timeout_expired", last.Type)
	}
	if result.Success {
		t.Error("capped run must not report success")
	}
	if !strings.Contains(result.ErrorMessage, "event cap") {
		t.Errorf("error message %q does not mention the cap", result.ErrorMessage)
	}
	for i, ev := range result.Events[:len(result.Events)-1] {
		if ev.Type == models.EventTimeoutExpired {
			t.Errorf("timeout_expired at position %d is not final", i)
		}
	}
}
