// Package dashboard turns the dataset and a viewer's session state into the
// view models rendered by the HTML site. Every builder is a pure function of
// its input.
package dashboard

import (
	"time"

	"github.com/okian/qaportal/internal/domain/derive"
	"github.com/okian/qaportal/internal/domain/model"
)

// Input is everything a page depends on. Collections are unfiltered.
type Input struct {
	Agents        []model.Agent
	QAScores      []model.QAScore
	MeritDemerits []model.MeritDemerit
	Comments      []model.Comment
	Goals         []model.Goal

	Selected     *model.Agent
	SelectorOpen bool
	Drafts       map[string]string
	Tab          Tab

	Now        time.Time
	UrgentDays int
}

// Page is the complete dashboard.
type Page struct {
	Heading    string
	Subheading string
	Header     Header
	Selector   AgentSelector
	QA         QAPanel
	Merit      MeritPanel
	Comments   CommentsPanel
	Goals      GoalsPanel
}

// PanelState names a panel and whether it rendered its empty state.
type PanelState struct {
	Name  string
	Empty bool
}

// Panels lists the four data panels in display order.
func (p Page) Panels() []PanelState {
	return []PanelState{
		{Name: "qa", Empty: p.QA.Empty()},
		{Name: "merit", Empty: p.Merit.Empty},
		{Name: "comments", Empty: p.Comments.Empty},
		{Name: "goals", Empty: p.Goals.Empty},
	}
}

// Build filters every collection by the selected agent and composes the page.
// With no selection every panel shows its empty state.
func Build(in Input) Page {
	return Page{
		Heading:    "Agent Performance Dashboard",
		Subheading: "View and analyze agent QA scores, merits, and feedback",
		Header:     NewHeader(),
		Selector:   NewAgentSelector(in.Agents, in.Selected, in.SelectorOpen),
		QA:         NewQAPanel(derive.FilterBySelection(in.QAScores, in.Selected), ParseTab(string(in.Tab))),
		Merit:      NewMeritPanel(derive.FilterBySelection(in.MeritDemerits, in.Selected)),
		Comments:   NewCommentsPanel(derive.FilterBySelection(in.Comments, in.Selected), in.Drafts),
		Goals:      NewGoalsPanel(derive.FilterBySelection(in.Goals, in.Selected), in.Now, in.UrgentDays),
	}
}
