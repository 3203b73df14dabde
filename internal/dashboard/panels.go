package dashboard

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/okian/qaportal/internal/domain/badge"
	"github.com/okian/qaportal/internal/domain/derive"
	"github.com/okian/qaportal/internal/domain/model"
)

// Empty-state messages.
const (
	NoQAScores       = "No QA scores available yet."
	NoTrendData      = "Not enough data to show trends."
	NoCategoryScores = "No category scores available yet."
	NoMeritRecords   = "No merit or demerit records available yet."
	NoComments       = "No comments or feedback available yet."
	NoGoals          = "No performance goals set yet."
)

// Header is the top navigation bar.
type Header struct {
	Title string
	Nav   []NavItem
	Role  badge.Descriptor
}

// NavItem is one navigation link.
type NavItem struct {
	Label  string
	Active bool
}

// NewHeader returns the fixed application header.
func NewHeader() Header {
	return Header{
		Title: "QA Portal",
		Nav: []NavItem{
			{Label: "Dashboard", Active: true},
			{Label: "Evaluations"},
			{Label: "Reports"},
			{Label: "Training"},
		},
		Role: badge.Role("Admin"),
	}
}

// AgentOption is one entry in the agent picker.
type AgentOption struct {
	ID       string
	Name     string
	Avatar   string
	Subtitle string
	Selected bool
}

// AgentSelector is the agent picker dropdown.
type AgentSelector struct {
	Open        bool
	Selected    *AgentOption
	Placeholder string
	Options     []AgentOption
}

// NewAgentSelector lists agents and marks the selected one.
func NewAgentSelector(agents []model.Agent, selected *model.Agent, open bool) AgentSelector {
	s := AgentSelector{Open: open, Placeholder: "Select an agent", Options: make([]AgentOption, 0, len(agents))}
	for _, a := range agents {
		opt := agentOption(a)
		opt.Selected = selected != nil && selected.ID == a.ID
		s.Options = append(s.Options, opt)
	}
	if selected != nil {
		opt := agentOption(*selected)
		opt.Selected = true
		s.Selected = &opt
	}
	return s
}

func agentOption(a model.Agent) AgentOption {
	return AgentOption{ID: a.ID, Name: a.Name, Avatar: a.Avatar, Subtitle: a.Team + " · " + a.Role}
}

// Gauge is a circular score indicator.
type Gauge struct {
	Score         float64
	Display       string
	Label         string
	Band          derive.Band
	Radius        float64
	Circumference float64
	DashOffset    float64
}

// NewGauge clamps score and computes the ring geometry.
func NewGauge(score float64, label string) Gauge {
	clamped := derive.ClampScore(score)
	return Gauge{
		Score:         clamped,
		Display:       FormatNumber(clamped),
		Label:         label,
		Band:          derive.ScoreBand(clamped),
		Radius:        derive.GaugeRadius,
		Circumference: derive.GaugeCircumference,
		DashOffset:    derive.GaugeDashOffset(clamped),
	}
}

// Tab names a QA panel tab.
type Tab string

// QA panel tabs.
const (
	TabOverview   Tab = "overview"
	TabTrends     Tab = "trends"
	TabCategories Tab = "categories"
)

// ParseTab maps a query value to a tab, defaulting to the overview.
func ParseTab(s string) Tab {
	switch Tab(strings.ToLower(strings.TrimSpace(s))) {
	case TabTrends:
		return TabTrends
	case TabCategories:
		return TabCategories
	default:
		return TabOverview
	}
}

// TabItem is one tab header.
type TabItem struct {
	ID     Tab
	Label  string
	Active bool
}

// QAOverview is the overview tab.
type QAOverview struct {
	Empty          bool
	EmptyMessage   string
	Gauge          Gauge
	LastEvaluation string
	Comment        string
	Evaluator      string
}

// TrendPoint is one plotted evaluation.
type TrendPoint struct {
	derive.Point
	Score string
	Label string
}

// QATrends is the trends tab.
type QATrends struct {
	Empty        bool
	EmptyMessage string
	Points       []TrendPoint
	// Polyline is the SVG points attribute in a 100x100 viewbox; empty with
	// fewer than two points.
	Polyline string
	Labels   []string
	YAxis    []int
}

// CategoryItem is one category gauge with its average.
type CategoryItem struct {
	Category model.Category
	Label    string
	Gauge    Gauge
	Average  string
}

// QACategories is the categories tab.
type QACategories struct {
	Empty        bool
	EmptyMessage string
	Items        []CategoryItem
}

// QAPanel shows an agent's QA evaluations.
type QAPanel struct {
	Title      string
	Active     Tab
	Tabs       []TabItem
	Summary    derive.QASummary
	Overview   QAOverview
	Trends     QATrends
	Categories QACategories
}

// Empty reports whether the panel has no scores.
func (p QAPanel) Empty() bool { return p.Summary.Count == 0 }

// NewQAPanel builds the QA panel from an agent's scores.
func NewQAPanel(scores []model.QAScore, active Tab) QAPanel {
	s := derive.SummarizeQA(scores)
	p := QAPanel{
		Title:   "QA Scores",
		Active:  active,
		Summary: s,
		Tabs: []TabItem{
			{ID: TabOverview, Label: "Overview"},
			{ID: TabTrends, Label: "Trends"},
			{ID: TabCategories, Label: "Categories"},
		},
	}
	for i := range p.Tabs {
		p.Tabs[i].Active = p.Tabs[i].ID == active
	}

	p.Overview = QAOverview{Empty: true, EmptyMessage: NoQAScores}
	p.Categories = QACategories{Empty: true, EmptyMessage: NoCategoryScores}
	if s.Latest != nil {
		p.Overview = QAOverview{
			Gauge:          NewGauge(s.Latest.OverallScore, "Overall"),
			LastEvaluation: FormatDate(s.Latest.Date),
			Comment:        s.Latest.Comment,
			Evaluator:      s.Latest.Evaluator,
		}
		items := make([]CategoryItem, 0, len(model.Categories))
		for _, c := range model.Categories {
			items = append(items, CategoryItem{
				Category: c,
				Label:    c.Label(),
				Gauge:    NewGauge(s.Latest.Categories.Get(c), "Latest"),
				Average:  FormatNumber(s.Averages[c]),
			})
		}
		p.Categories = QACategories{Items: items}
	}
	p.Trends = newTrends(s.Chronological)
	return p
}

func newTrends(chronological []model.QAScore) QATrends {
	t := QATrends{YAxis: []int{100, 75, 50, 25, 0}}
	if len(chronological) == 0 {
		t.Empty = true
		t.EmptyMessage = NoTrendData
		return t
	}
	coords := derive.TrendPoints(chronological)
	pairs := make([]string, 0, len(coords))
	for i, pt := range coords {
		label := MonthLabel(chronological[i].Date)
		t.Points = append(t.Points, TrendPoint{
			Point: pt,
			Score: FormatNumber(derive.ClampScore(chronological[i].OverallScore)),
			Label: label,
		})
		t.Labels = append(t.Labels, label)
		pairs = append(pairs, fmt.Sprintf("%g,%g", pt.X, pt.Y))
	}
	if len(coords) > 1 {
		t.Polyline = strings.Join(pairs, " ")
	}
	return t
}

// MeritItem is one merit or demerit entry.
type MeritItem struct {
	ID       string
	Merit    bool
	Reason   string
	IssuedBy string
	Date     string
	Badge    badge.Descriptor
}

// MeritPanel shows point totals and recent activity.
type MeritPanel struct {
	Title        string
	Summary      derive.MeritSummary
	NetNegative  bool
	Items        []MeritItem
	Empty        bool
	EmptyMessage string
}

// NewMeritPanel builds the merit panel, most recent record first.
func NewMeritPanel(records []model.MeritDemerit) MeritPanel {
	s := derive.SummarizeMerits(records)
	p := MeritPanel{
		Title:       "Merit & Demerit Scores",
		Summary:     s,
		NetNegative: s.NetScore < 0,
		Items:       make([]MeritItem, 0, len(records)),
	}
	for _, r := range derive.SortByDateDesc(records) {
		p.Items = append(p.Items, MeritItem{
			ID:       r.ID,
			Merit:    r.Type == model.Merit,
			Reason:   r.Reason,
			IssuedBy: r.IssuedBy,
			Date:     FormatDate(r.Date),
			Badge:    badge.ForRecord(r),
		})
	}
	if len(p.Items) == 0 {
		p.Empty = true
		p.EmptyMessage = NoMeritRecords
	}
	return p
}

// ResponseItem is a reply in a comment thread.
type ResponseItem struct {
	ID      string
	Author  string
	Date    string
	Content template.HTML
}

// Draft is the reply box state of one comment.
type Draft struct {
	Open bool
	Text string
}

// CommentItem is one comment with its thread and reply box.
type CommentItem struct {
	ID        string
	Author    string
	Date      string
	Content   template.HTML
	Badge     *badge.Descriptor
	Responses []ResponseItem
	Draft     Draft
}

// CommentsPanel lists feedback, most recent first.
type CommentsPanel struct {
	Title        string
	Items        []CommentItem
	Empty        bool
	EmptyMessage string
}

// NewCommentsPanel builds the comments panel. drafts maps a comment id to
// its open reply text.
func NewCommentsPanel(comments []model.Comment, drafts map[string]string) CommentsPanel {
	p := CommentsPanel{Title: "Comments & Feedback", Items: make([]CommentItem, 0, len(comments))}
	for _, c := range derive.SortByDateDesc(comments) {
		item := CommentItem{
			ID:      c.ID,
			Author:  c.Author,
			Date:    FormatDate(c.Date),
			Content: Markdown(c.Content),
		}
		if d, ok := badge.ForComment(c.RelatedTo); ok {
			item.Badge = &d
		}
		for _, r := range c.Responses {
			item.Responses = append(item.Responses, ResponseItem{
				ID:      r.ID,
				Author:  r.Author,
				Date:    FormatDate(r.Date),
				Content: Markdown(r.Content),
			})
		}
		if text, open := drafts[c.ID]; open {
			item.Draft = Draft{Open: true, Text: text}
		}
		p.Items = append(p.Items, item)
	}
	if len(p.Items) == 0 {
		p.Empty = true
		p.EmptyMessage = NoComments
	}
	return p
}

// GoalItem is one goal with its progress bar.
type GoalItem struct {
	ID            string
	Title         string
	Description   template.HTML
	Badge         badge.Descriptor
	Progress      string
	Percent       int
	Completed     bool
	Deadline      string
	ShowDays      bool
	DaysRemaining string
	Urgent        bool
}

// GoalsPanel lists goals, closest deadline first.
type GoalsPanel struct {
	Title        string
	Items        []GoalItem
	Empty        bool
	EmptyMessage string
}

// NewGoalsPanel builds the goals panel relative to now.
func NewGoalsPanel(goals []model.Goal, now time.Time, urgentDays int) GoalsPanel {
	views := derive.DeriveGoals(goals, now, urgentDays)
	p := GoalsPanel{Title: "Performance Goals", Items: make([]GoalItem, 0, len(views))}
	for _, v := range views {
		item := GoalItem{
			ID:          v.Goal.ID,
			Title:       v.Goal.Title,
			Description: Markdown(v.Goal.Description),
			Badge:       badge.ForGoalStatus(v.Goal.Status),
			Progress:    "Progress: " + FormatNumber(v.Goal.CurrentScore) + " / " + FormatNumber(v.Goal.TargetScore),
			Percent:     v.ProgressPercent,
			Completed:   v.Goal.Status == model.GoalCompleted,
			Deadline:    FormatDate(v.Goal.Deadline),
			ShowDays:    v.ShowDaysRemaining,
			Urgent:      v.Urgent,
		}
		if v.ShowDaysRemaining {
			item.DaysRemaining = FormatInt(v.DaysRemaining) + " days remaining"
		}
		p.Items = append(p.Items, item)
	}
	if len(p.Items) == 0 {
		p.Empty = true
		p.EmptyMessage = NoGoals
	}
	return p
}
