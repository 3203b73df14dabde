// Package session holds the per-viewer dashboard state: the selected agent,
// the agent picker's open flag, and unsent comment reply drafts.
package session

import "github.com/okian/qaportal/internal/domain/model"

// Selection holds at most one selected agent. It performs no validation:
// any agent value is accepted.
type Selection struct {
	agent *model.Agent
}

// NewSelection returns a selection defaulting to the first of agents, or an
// empty selection when agents is empty.
func NewSelection(agents []model.Agent) Selection {
	var s Selection
	if len(agents) > 0 {
		s.Select(agents[0])
	}
	return s
}

// Select replaces the selection unconditionally.
func (s *Selection) Select(a model.Agent) {
	s.agent = &a
}

// Current returns the selected agent, or nil.
func (s *Selection) Current() *model.Agent {
	if s.agent == nil {
		return nil
	}
	a := *s.agent
	return &a
}

// CurrentID returns the selected agent's id, or "" when nothing is selected.
func (s *Selection) CurrentID() string {
	if s.agent == nil {
		return ""
	}
	return s.agent.ID
}

// Clear drops the selection.
func (s *Selection) Clear() {
	s.agent = nil
}
