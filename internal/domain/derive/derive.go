// Package derive implements the pure filtering, ordering and aggregation
// rules behind every dashboard panel. Nothing here mutates its input; every
// function is deterministic given its arguments (including the clock).
package derive

import (
	"math"
	"slices"
	"time"

	"github.com/okian/qaportal/internal/domain/model"
)

const day = 24 * time.Hour

// FilterByAgent returns the records owned by agentID in their original
// relative order. An empty agentID means no selection and yields no records.
func FilterByAgent[T model.Owned](records []T, agentID string) []T {
	out := make([]T, 0)
	if agentID == "" {
		return out
	}
	for _, r := range records {
		if r.OwnerID() == agentID {
			out = append(out, r)
		}
	}
	return out
}

// FilterBySelection is FilterByAgent for an optional agent.
func FilterBySelection[T model.Owned](records []T, agent *model.Agent) []T {
	if agent == nil {
		return FilterByAgent(records, "")
	}
	return FilterByAgent(records, agent.ID)
}

// sortKey maps a record date to an instant. Malformed dates become the zero
// instant so they order before every valid date.
func sortKey(d model.Date) time.Time {
	t, _ := d.Time()
	return t
}

// SortByDateAsc returns a copy of records in chronological order. Records
// sharing a date keep their input order.
func SortByDateAsc[T model.Dated](records []T) []T {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b T) int {
		return sortKey(a.SortDate()).Compare(sortKey(b.SortDate()))
	})
	return out
}

// SortByDateDesc returns a copy of records, most recent first. Records
// sharing a date keep their input order.
func SortByDateDesc[T model.Dated](records []T) []T {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b T) int {
		return sortKey(b.SortDate()).Compare(sortKey(a.SortDate()))
	})
	return out
}

// roundHalfUp rounds x to the nearest integer, halves toward +Inf.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// RoundTenth rounds x to one decimal place, halves toward +Inf.
func RoundTenth(x float64) float64 {
	return roundHalfUp(x*10) / 10
}

// LatestScore returns the chronologically last score: the final element after
// a stable ascending date sort. It is not the best score.
func LatestScore(scores []model.QAScore) (model.QAScore, bool) {
	if len(scores) == 0 {
		return model.QAScore{}, false
	}
	sorted := SortByDateAsc(scores)
	return sorted[len(sorted)-1], true
}

// CategoryAverage is the mean of one category across scores, rounded to one
// decimal. It is 0 for an empty set.
func CategoryAverage(scores []model.QAScore, c model.Category) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s.Categories.Get(c)
	}
	return RoundTenth(sum / float64(len(scores)))
}

// QASummary aggregates an agent's QA scores.
type QASummary struct {
	Count    int                        `json:"count"`
	Latest   *model.QAScore             `json:"latest,omitempty"`
	Averages map[model.Category]float64 `json:"averages"`
	// Chronological holds the scores in ascending date order.
	Chronological []model.QAScore `json:"-"`
}

// SummarizeQA builds the QA aggregate for an already filtered set.
func SummarizeQA(scores []model.QAScore) QASummary {
	s := QASummary{
		Count:         len(scores),
		Averages:      make(map[model.Category]float64, len(model.Categories)),
		Chronological: SortByDateAsc(scores),
	}
	if n := len(s.Chronological); n > 0 {
		latest := s.Chronological[n-1]
		s.Latest = &latest
	}
	for _, c := range model.Categories {
		s.Averages[c] = CategoryAverage(scores, c)
	}
	return s
}

// MeritSummary holds point totals. NetScore is always TotalMerit - TotalDemerit.
type MeritSummary struct {
	TotalMerit   int `json:"totalMerit"`
	TotalDemerit int `json:"totalDemerit"`
	NetScore     int `json:"netScore"`
}

// SummarizeMerits sums merit and demerit points. Records of any other type
// count toward neither total.
func SummarizeMerits(records []model.MeritDemerit) MeritSummary {
	var s MeritSummary
	for _, r := range records {
		switch r.Type {
		case model.Merit:
			s.TotalMerit += r.Points
		case model.Demerit:
			s.TotalDemerit += r.Points
		}
	}
	s.NetScore = s.TotalMerit - s.TotalDemerit
	return s
}

// ProgressPercent is round(current/target*100) capped at 100. A target of
// zero or below yields 0.
func ProgressPercent(current, target float64) int {
	if target <= 0 {
		return 0
	}
	p := roundHalfUp(current / target * 100)
	if p > 100 {
		return 100
	}
	return int(p)
}

// DaysRemaining is the number of days from now until deadline, rounded up.
// ok is false when the deadline cannot be parsed.
func DaysRemaining(deadline model.Date, now time.Time) (days int, ok bool) {
	t, ok := deadline.Time()
	if !ok {
		return 0, false
	}
	return int(math.Ceil(float64(t.Sub(now)) / float64(day))), true
}

// GoalView is a goal with its derived fields.
type GoalView struct {
	Goal            model.Goal `json:"goal"`
	ProgressPercent int        `json:"progressPercent"`
	DaysRemaining   int        `json:"daysRemaining"`
	// ShowDaysRemaining is set for in-progress goals with time left.
	ShowDaysRemaining bool `json:"showDaysRemaining"`
	// Urgent marks a visible countdown below the urgency threshold.
	Urgent bool `json:"urgent"`
}

// DeriveGoals returns goals ordered by deadline (closest first) with their
// derived fields. urgentDays is the countdown threshold for Urgent.
func DeriveGoals(goals []model.Goal, now time.Time, urgentDays int) []GoalView {
	sorted := SortByDateAsc(goals)
	out := make([]GoalView, 0, len(sorted))
	for _, g := range sorted {
		days, ok := DaysRemaining(g.Deadline, now)
		show := ok && g.Status == model.GoalInProgress && days > 0
		out = append(out, GoalView{
			Goal:              g,
			ProgressPercent:   ProgressPercent(g.CurrentScore, g.TargetScore),
			DaysRemaining:     days,
			ShowDaysRemaining: show,
			Urgent:            show && days < urgentDays,
		})
	}
	return out
}

// ClampScore limits a score to [0,100]. NaN becomes 0.
func ClampScore(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return min(max(x, 0), 100)
}

// Band classifies a clamped score for colouring.
type Band string

// Score bands.
const (
	BandExcellent Band = "excellent"
	BandGood      Band = "good"
	BandFair      Band = "fair"
	BandPoor      Band = "poor"
)

// ScoreBand returns the band of x after clamping.
func ScoreBand(x float64) Band {
	x = ClampScore(x)
	switch {
	case x >= 90:
		return BandExcellent
	case x >= 70:
		return BandGood
	case x >= 50:
		return BandFair
	default:
		return BandPoor
	}
}

// GaugeRadius is the radius of the circular score gauge in a 100x100 viewbox.
const GaugeRadius = 40.0

// GaugeCircumference is the stroke length of a full gauge ring.
const GaugeCircumference = 2 * math.Pi * GaugeRadius

// GaugeDashOffset is the stroke-dashoffset that fills the gauge ring to the
// clamped score.
func GaugeDashOffset(score float64) float64 {
	return GaugeCircumference - ClampScore(score)/100*GaugeCircumference
}

// Point is a chart coordinate in percent of the plot area.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TrendPoints maps chronologically ordered scores to chart coordinates:
// x spreads evenly from 0 to 100, y is 0 at a score of 100. Scores are
// clamped, so y stays within [0,100]. A single score sits at x = 0.
func TrendPoints(chronological []model.QAScore) []Point {
	n := len(chronological)
	out := make([]Point, 0, n)
	for i, s := range chronological {
		var x float64
		if n > 1 {
			x = float64(i) / float64(n-1) * 100
		}
		out = append(out, Point{X: x, Y: 100 - ClampScore(s.OverallScore)})
	}
	return out
}
