package repository

import (
	"context"
	"fmt"
	"slices"

	"github.com/okian/qaportal/internal/domain/model"
	"github.com/okian/qaportal/pkg/logger"
	"github.com/okian/qaportal/pkg/metrics"
)

// MemoryStore is an immutable, in-memory Store. It needs no locking because
// nothing writes to it after construction.
type MemoryStore struct {
	data     Dataset
	agentIdx map[string]int
	commIdx  map[string]int
	logger   logger.Logger
}

// NewMemoryStore copies ds into a new store. Dangling agent references are
// logged, not rejected.
func NewMemoryStore(ctx context.Context, ds Dataset, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		data:     cloneDataset(ds),
		agentIdx: make(map[string]int, len(ds.Agents)),
		commIdx:  make(map[string]int, len(ds.Comments)),
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	for i, a := range s.data.Agents {
		if _, dup := s.agentIdx[a.ID]; !dup {
			s.agentIdx[a.ID] = i
		}
	}
	for i, c := range s.data.Comments {
		if _, dup := s.commIdx[c.ID]; !dup {
			s.commIdx[c.ID] = i
		}
	}

	for _, problem := range Validate(s.data) {
		s.logger.Warn(ctx, "dataset integrity", logger.String("problem", problem))
	}

	c := s.Count(ctx)
	metrics.UpdateDatasetRecords("agents", c.Agents)
	metrics.UpdateDatasetRecords("qa_scores", c.QAScores)
	metrics.UpdateDatasetRecords("merit_demerits", c.MeritDemerits)
	metrics.UpdateDatasetRecords("comments", c.Comments)
	metrics.UpdateDatasetRecords("goals", c.Goals)
	s.logger.Info(ctx, "dataset loaded",
		logger.Int("agents", c.Agents),
		logger.Int("qaScores", c.QAScores),
		logger.Int("meritDemerits", c.MeritDemerits),
		logger.Int("comments", c.Comments),
		logger.Int("goals", c.Goals),
	)
	return s
}

// Agents returns every agent in dataset order.
func (s *MemoryStore) Agents(_ context.Context) []model.Agent {
	return cloneAll(s.data.Agents)
}

// Agent looks up an agent by id.
func (s *MemoryStore) Agent(_ context.Context, id string) (model.Agent, error) {
	i, ok := s.agentIdx[id]
	if !ok {
		return model.Agent{}, fmt.Errorf("%w: %s", ErrAgentNotFound, id)
	}
	return s.data.Agents[i], nil
}

func (s *MemoryStore) QAScores(_ context.Context) []model.QAScore {
	return cloneAll(s.data.QAScores)
}

func (s *MemoryStore) MeritDemerits(_ context.Context) []model.MeritDemerit {
	return cloneAll(s.data.MeritDemerits)
}

func (s *MemoryStore) Comments(_ context.Context) []model.Comment {
	out := make([]model.Comment, len(s.data.Comments))
	for i, c := range s.data.Comments {
		out[i] = cloneComment(c)
	}
	return out
}

// Comment looks up a comment by id.
func (s *MemoryStore) Comment(_ context.Context, id string) (model.Comment, error) {
	i, ok := s.commIdx[id]
	if !ok {
		return model.Comment{}, fmt.Errorf("%w: %s", ErrCommentNotFound, id)
	}
	return cloneComment(s.data.Comments[i]), nil
}

func (s *MemoryStore) Goals(_ context.Context) []model.Goal {
	return cloneAll(s.data.Goals)
}

// Count returns the size of each collection.
func (s *MemoryStore) Count(_ context.Context) Counts {
	return Counts{
		Agents:        len(s.data.Agents),
		QAScores:      len(s.data.QAScores),
		MeritDemerits: len(s.data.MeritDemerits),
		Comments:      len(s.data.Comments),
		Goals:         len(s.data.Goals),
	}
}

// cloneAll copies records into a non-nil slice so empty collections encode
// as [] rather than null.
func cloneAll[T any](records []T) []T {
	out := make([]T, len(records))
	copy(out, records)
	return out
}

func cloneComment(c model.Comment) model.Comment {
	if c.RelatedTo != nil {
		rel := *c.RelatedTo
		c.RelatedTo = &rel
	}
	c.Responses = slices.Clone(c.Responses)
	return c
}

func cloneDataset(ds Dataset) Dataset {
	out := Dataset{
		Agents:        slices.Clone(ds.Agents),
		QAScores:      slices.Clone(ds.QAScores),
		MeritDemerits: slices.Clone(ds.MeritDemerits),
		Comments:      make([]model.Comment, len(ds.Comments)),
		Goals:         slices.Clone(ds.Goals),
	}
	for i, c := range ds.Comments {
		out.Comments[i] = cloneComment(c)
	}
	return out
}

// Validate lists referential-integrity problems in ds: records pointing at
// unknown agents and duplicate agent ids. An empty result means ds is clean.
func Validate(ds Dataset) []string {
	var problems []string
	known := make(map[string]bool, len(ds.Agents))
	for _, a := range ds.Agents {
		if known[a.ID] {
			problems = append(problems, fmt.Sprintf("duplicate agent id %q", a.ID))
		}
		known[a.ID] = true
	}
	check := func(kind, id, agentID string) {
		if !known[agentID] {
			problems = append(problems, fmt.Sprintf("%s %q references unknown agent %q", kind, id, agentID))
		}
	}
	for _, r := range ds.QAScores {
		check("qa score", r.ID, r.AgentID)
	}
	for _, r := range ds.MeritDemerits {
		check("merit/demerit", r.ID, r.AgentID)
	}
	for _, r := range ds.Comments {
		check("comment", r.ID, r.AgentID)
	}
	for _, r := range ds.Goals {
		check("goal", r.ID, r.AgentID)
	}
	return problems
}
