// Package roster loads and validates the fixed set of team member
// definitions. The roster is read once at startup and never mutated.
package roster

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Member is one configured team member.
type Member struct {
	// ID is the unique identifier for this member.
	ID string `yaml:"id" json:"id"`
	// Role is the display name, e.g. "Tech Lead".
	Role string `yaml:"role" json:"role"`
	// Description summarizes what the member does.
	Description string `yaml:"description" json:"description,omitempty"`
	// Capabilities lists the member's skills, in declared order.
	Capabilities []string `yaml:"capabilities" json:"capabilities,omitempty"`
	// PersonalityPrompt is the free-text context prepended to every
	// invocation for this member.
	PersonalityPrompt string `yaml:"personality_prompt" json:"personality_prompt"`
}

// Roster is the immutable, loaded-once set of team members.
type Roster struct {
	members []Member
	byID    map[string]int
	byRole  map[string]int
}

// ConfigError reports an invalid roster file, naming the offending entry.
type ConfigError struct {
	// Entry identifies the member (id or index) that failed validation.
	Entry string
	// Reason describes what is wrong.
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("roster config: entry %s: %s", e.Entry, e.Reason)
}

type rosterFile struct {
	Members []Member `yaml:"members"`
}

// Load reads and validates a roster YAML file.
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster file: %w", err)
	}
	return Parse(data)
}

// Parse validates raw roster YAML. Every member must have a non-empty id,
// role and personality prompt, and ids must be unique.
func Parse(data []byte) (*Roster, error) {
	var file rosterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing roster file: %w", err)
	}
	if len(file.Members) == 0 {
		return nil, &ConfigError{Entry: "members", Reason: "no team members defined"}
	}

	r := &Roster{
		members: file.Members,
		byID:    make(map[string]int, len(file.Members)),
		byRole:  make(map[string]int, len(file.Members)),
	}

	for i, m := range file.Members {
		entry := m.ID
		if entry == "" {
			entry = fmt.Sprintf("#%d", i)
		}
		if m.ID == "" {
			return nil, &ConfigError{Entry: entry, Reason: "missing id"}
		}
		if m.Role == "" {
			return nil, &ConfigError{Entry: entry, Reason: "missing role"}
		}
		if m.PersonalityPrompt == "" {
			return nil, &ConfigError{Entry: entry, Reason: "missing personality_prompt"}
		}
		if _, dup := r.byID[m.ID]; dup {
			return nil, &ConfigError{Entry: entry, Reason: "duplicate id"}
		}
		r.byID[m.ID] = i
		// First member wins when two share a role name.
		if _, ok := r.byRole[m.Role]; !ok {
			r.byRole[m.Role] = i
		}
	}

	return r, nil
}

// Members returns the team members in declared order. The returned slice is
// a copy; callers cannot mutate the roster through it.
func (r *Roster) Members() []Member {
	out := make([]Member, len(r.members))
	copy(out, r.members)
	return out
}

// Find returns the member with the given role, or nil if none exists.
func (r *Roster) Find(role string) *Member {
	i, ok := r.byRole[role]
	if !ok {
		return nil
	}
	m := r.members[i]
	return &m
}

// FindID returns the member with the given id, or nil if none exists.
func (r *Roster) FindID(id string) *Member {
	i, ok := r.byID[id]
	if !ok {
		return nil
	}
	m := r.members[i]
	return &m
}

// Size returns the number of team members.
func (r *Roster) Size() int {
	return len(r.members)
}
