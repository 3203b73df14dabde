// Package model contains the portal's domain records. Records are immutable
// once loaded; every non-agent record references an agent by AgentID.
package model

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date layout used by every record.
const DateLayout = "2006-01-02"

// Date is a calendar date kept in its source form. Parsing is deferred so a
// malformed value survives loading and can still be displayed.
type Date string

// Time parses the date. Bare dates are taken as UTC midnight; full RFC3339
// timestamps are accepted too. The zero time and false are returned when the
// value is malformed.
func (d Date) Time() (time.Time, bool) {
	s := strings.TrimSpace(string(d))
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// DateOf formats t as a Date.
func DateOf(t time.Time) Date {
	return Date(t.UTC().Format(DateLayout))
}

// Agent is a support-team member being evaluated.
type Agent struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Team   string `json:"team" yaml:"team"`
	Role   string `json:"role" yaml:"role"`
	Avatar string `json:"avatar" yaml:"avatar"`
}

// Category names one of the four QA sub-scores.
type Category string

// QA categories in display order.
const (
	CustomerService     Category = "customerService"
	Compliance          Category = "compliance"
	ProductKnowledge    Category = "productKnowledge"
	CommunicationSkills Category = "communicationSkills"
)

// Categories lists every QA category in display order.
var Categories = []Category{CustomerService, Compliance, ProductKnowledge, CommunicationSkills}

// Label returns the human-readable category name.
func (c Category) Label() string {
	switch c {
	case CustomerService:
		return "Customer Service"
	case Compliance:
		return "Compliance"
	case ProductKnowledge:
		return "Product Knowledge"
	case CommunicationSkills:
		return "Communication"
	default:
		return string(c)
	}
}

// CategoryScores holds the four QA sub-scores, each nominally in [0,100].
type CategoryScores struct {
	CustomerService     float64 `json:"customerService" yaml:"customerService"`
	Compliance          float64 `json:"compliance" yaml:"compliance"`
	ProductKnowledge    float64 `json:"productKnowledge" yaml:"productKnowledge"`
	CommunicationSkills float64 `json:"communicationSkills" yaml:"communicationSkills"`
}

// Get returns the score for c, or 0 for an unknown category.
func (s CategoryScores) Get(c Category) float64 {
	switch c {
	case CustomerService:
		return s.CustomerService
	case Compliance:
		return s.Compliance
	case ProductKnowledge:
		return s.ProductKnowledge
	case CommunicationSkills:
		return s.CommunicationSkills
	default:
		return 0
	}
}

// QAScore is a single quality-assurance evaluation.
type QAScore struct {
	ID           string         `json:"id" yaml:"id"`
	AgentID      string         `json:"agentId" yaml:"agentId"`
	Date         Date           `json:"date" yaml:"date"`
	OverallScore float64        `json:"overallScore" yaml:"overallScore"`
	Categories   CategoryScores `json:"categories" yaml:"categories"`
	Evaluator    string         `json:"evaluator" yaml:"evaluator"`
	Comment      string         `json:"comments" yaml:"comments"`
}

// RecordType distinguishes merits from demerits.
type RecordType string

// Record types.
const (
	Merit   RecordType = "merit"
	Demerit RecordType = "demerit"
)

// MeritDemerit is a point-based recognition or infraction.
type MeritDemerit struct {
	ID       string     `json:"id" yaml:"id"`
	AgentID  string     `json:"agentId" yaml:"agentId"`
	Date     Date       `json:"date" yaml:"date"`
	Type     RecordType `json:"type" yaml:"type"`
	Points   int        `json:"points" yaml:"points"`
	Reason   string     `json:"reason" yaml:"reason"`
	IssuedBy string     `json:"issuedBy" yaml:"issuedBy"`
}

// RelatedType names the kind of record a comment refers to.
type RelatedType string

// Related record kinds.
const (
	RelatedQA      RelatedType = "qa"
	RelatedMerit   RelatedType = "merit"
	RelatedDemerit RelatedType = "demerit"
)

// RelatedTo links a comment to another record.
type RelatedTo struct {
	Type RelatedType `json:"type" yaml:"type"`
	ID   string      `json:"id" yaml:"id"`
}

// Response is a reply in a comment thread.
type Response struct {
	ID      string `json:"id" yaml:"id"`
	Date    Date   `json:"date" yaml:"date"`
	Content string `json:"content" yaml:"content"`
	Author  string `json:"author" yaml:"author"`
}

// Comment is a piece of feedback left for an agent.
type Comment struct {
	ID        string     `json:"id" yaml:"id"`
	AgentID   string     `json:"agentId" yaml:"agentId"`
	Date      Date       `json:"date" yaml:"date"`
	Content   string     `json:"content" yaml:"content"`
	Author    string     `json:"author" yaml:"author"`
	RelatedTo *RelatedTo `json:"relatedTo,omitempty" yaml:"relatedTo,omitempty"`
	Responses []Response `json:"responses,omitempty" yaml:"responses,omitempty"`
}

// GoalStatus is the lifecycle state of a goal.
type GoalStatus string

// Goal states.
const (
	GoalPending    GoalStatus = "pending"
	GoalInProgress GoalStatus = "in-progress"
	GoalCompleted  GoalStatus = "completed"
	GoalMissed     GoalStatus = "missed"
)

// Goal is a tracked performance target.
type Goal struct {
	ID           string     `json:"id" yaml:"id"`
	AgentID      string     `json:"agentId" yaml:"agentId"`
	Title        string     `json:"title" yaml:"title"`
	Description  string     `json:"description" yaml:"description"`
	TargetScore  float64    `json:"targetScore" yaml:"targetScore"`
	CurrentScore float64    `json:"currentScore" yaml:"currentScore"`
	Deadline     Date       `json:"deadline" yaml:"deadline"`
	Status       GoalStatus `json:"status" yaml:"status"`
}

// Owned is implemented by every record that belongs to an agent.
type Owned interface {
	OwnerID() string
}

// Dated is implemented by every record that carries a sort date.
type Dated interface {
	SortDate() Date
}

func (q QAScore) OwnerID() string      { return q.AgentID }
func (m MeritDemerit) OwnerID() string { return m.AgentID }
func (c Comment) OwnerID() string      { return c.AgentID }
func (g Goal) OwnerID() string         { return g.AgentID }

func (q QAScore) SortDate() Date      { return q.Date }
func (m MeritDemerit) SortDate() Date { return m.Date }
func (c Comment) SortDate() Date      { return c.Date }

// SortDate orders goals by deadline.
func (g Goal) SortDate() Date { return g.Deadline }
