// Package repository holds the read-only dataset behind the dashboard.
package repository

import (
	"context"

	"github.com/okian/qaportal/internal/domain/model"
)

// Dataset is the full set of collections loaded at start-up.
type Dataset struct {
	Agents        []model.Agent        `json:"agents" yaml:"agents"`
	QAScores      []model.QAScore      `json:"qaScores" yaml:"qaScores"`
	MeritDemerits []model.MeritDemerit `json:"meritDemerits" yaml:"meritDemerits"`
	Comments      []model.Comment      `json:"comments" yaml:"comments"`
	Goals         []model.Goal         `json:"goals" yaml:"goals"`
}

// Counts reports the size of every collection.
type Counts struct {
	Agents        int `json:"agents"`
	QAScores      int `json:"qaScores"`
	MeritDemerits int `json:"meritDemerits"`
	Comments      int `json:"comments"`
	Goals         int `json:"goals"`
}

// Store provides read access to the dataset. Implementations never expose
// their internal slices; callers may modify what they receive.
type Store interface {
	// Agents returns every agent in dataset order.
	Agents(ctx context.Context) []model.Agent
	// Agent returns the agent with id or ErrAgentNotFound.
	Agent(ctx context.Context, id string) (model.Agent, error)

	QAScores(ctx context.Context) []model.QAScore
	MeritDemerits(ctx context.Context) []model.MeritDemerit
	Comments(ctx context.Context) []model.Comment
	// Comment returns the comment with id or ErrCommentNotFound.
	Comment(ctx context.Context, id string) (model.Comment, error)
	Goals(ctx context.Context) []model.Goal

	// Count returns the size of each collection.
	Count(ctx context.Context) Counts
}
