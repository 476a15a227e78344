package engine

import (
	"strings"

	"github.com/parleyhq/parley/internal/roster"
	"github.com/parleyhq/parley/pkg/models"
)

// majorityConsensus returns the recommendations endorsed by a strict
// majority of members. Matching is exact on the normalized string; order is
// by first appearance walking members in stable roster order, and the first
// spelling seen is the one reported.
func majorityConsensus(members []roster.Member, contributions map[string]models.AgentResponse) []string {
	type candidate struct {
		original string
		count    int
	}

	counts := make(map[string]*candidate)
	var order []string

	for _, member := range members {
		resp, ok := contributions[member.ID]
		if !ok {
			continue
		}
		seen := make(map[string]bool)
		for _, rec := range resp.Recommendations {
			key := normalizeItem(rec)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			c, exists := counts[key]
			if !exists {
				c = &candidate{original: strings.TrimSpace(rec)}
				counts[key] = c
				order = append(order, key)
			}
			c.count++
		}
	}

	threshold := len(members)/2 + 1
	var consensus []string
	for _, key := range order {
		if counts[key].count >= threshold {
			consensus = append(consensus, counts[key].original)
		}
	}
	return consensus
}

// normalizeItem lowercases and collapses whitespace so trivially different
// spellings of the same recommendation count together.
func normalizeItem(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// sameConsensus compares two consensus lists as sets.
func sameConsensus(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, item := range a {
		set[normalizeItem(item)] = true
	}
	for _, item := range b {
		if !set[normalizeItem(item)] {
			return false
		}
	}
	return true
}
