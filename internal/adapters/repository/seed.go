package repository

import (
	"fmt"
	"time"

	"github.com/okian/qaportal/internal/domain/model"
)

const seedMonths = 6

// evaluationDates returns one date per month for the last six months, oldest
// first, the newest being now's calendar date.
func evaluationDates(now time.Time) []model.Date {
	now = now.UTC()
	dates := make([]model.Date, seedMonths)
	for i := 0; i < seedMonths; i++ {
		dates[seedMonths-1-i] = model.DateOf(now.AddDate(0, -i, 0))
	}
	return dates
}

func avatar(photo string) string {
	return "https://images.pexels.com/photos/" + photo + "/pexels-photo-" + photo +
		".jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2"
}

// qaSeries builds six monthly evaluations for one agent. gen maps the month
// index to the overall score and the four category scores.
func qaSeries(agentID, evaluator string, dates []model.Date, gen func(i int) (float64, model.CategoryScores), comment func(i int) string) []model.QAScore {
	out := make([]model.QAScore, len(dates))
	for i, d := range dates {
		overall, cats := gen(i)
		out[i] = model.QAScore{
			ID:           fmt.Sprintf("qa-%s-%d", agentID, i),
			AgentID:      agentID,
			Date:         d,
			OverallScore: overall,
			Categories:   cats,
			Evaluator:    evaluator,
			Comment:      comment(i),
		}
	}
	return out
}

func constant(s string) func(int) string { return func(int) string { return s } }

// Seed returns the built-in demonstration dataset: four agents with six
// months of evaluations ending at now, plus merits, comments and goals.
func Seed(now time.Time) Dataset {
	d := evaluationDates(now)

	agents := []model.Agent{
		{ID: "1", Name: "Alex Johnson", Team: "Customer Support", Role: "Senior Agent", Avatar: avatar("1239291")},
		{ID: "2", Name: "Sarah Williams", Team: "Technical Support", Role: "Agent", Avatar: avatar("733872")},
		{ID: "3", Name: "Michael Brown", Team: "Sales", Role: "Junior Agent", Avatar: avatar("614810")},
		{ID: "4", Name: "Emily Davis", Team: "Customer Support", Role: "Team Lead", Avatar: avatar("1036623")},
	}

	var scores []model.QAScore
	scores = append(scores, qaSeries("1", "Jessica Parker", d, func(i int) (float64, model.CategoryScores) {
		step := float64(i * 4)
		return min(95, 75+step), model.CategoryScores{
			CustomerService:     min(98, 78+step),
			Compliance:          min(95, 75+step),
			ProductKnowledge:    min(90, 70+step),
			CommunicationSkills: min(93, 73+step),
		}
	}, func(i int) string {
		if i == seedMonths-1 {
			return "Excellent improvement over time. Keep up the good work!"
		}
		return "Good work, but there's room for improvement in product knowledge."
	})...)
	scores = append(scores, qaSeries("2", "Robert Chen", d, func(i int) (float64, model.CategoryScores) {
		dip := float64((i % 3) * 2)
		return min(90, 80-dip), model.CategoryScores{
			CustomerService:     min(92, 82-dip),
			Compliance:          min(88, 78-dip),
			ProductKnowledge:    min(93, 83-dip),
			CommunicationSkills: min(87, 77-dip),
		}
	}, constant("Consistent performer. Communication could be improved."))...)
	scores = append(scores, qaSeries("3", "Patricia Lopez", d, func(i int) (float64, model.CategoryScores) {
		step := float64(i) * 3.5
		return min(85, 65+step), model.CategoryScores{
			CustomerService:     min(88, 68+step),
			Compliance:          min(82, 62+step),
			ProductKnowledge:    min(80, 60+step),
			CommunicationSkills: min(90, 70+step),
		}
	}, constant("Showing improvement in all areas. Focus on compliance procedures."))...)
	scores = append(scores, qaSeries("4", "David Wilson", d, func(i int) (float64, model.CategoryScores) {
		alt := float64(i % 2)
		return min(98, 93+alt), model.CategoryScores{
			CustomerService:     min(100, 95+alt),
			Compliance:          min(97, 92+alt),
			ProductKnowledge:    min(97, 92+alt),
			CommunicationSkills: min(99, 94+alt),
		}
	}, constant("Exceptional performance. Setting the standard for the team."))...)

	merits := []model.MeritDemerit{
		{ID: "md-1-1", AgentID: "1", Date: d[5], Type: model.Merit, Points: 10, Reason: "Successfully resolved a complex customer issue with positive feedback", IssuedBy: "Jessica Parker"},
		{ID: "md-1-2", AgentID: "1", Date: d[3], Type: model.Demerit, Points: 5, Reason: "Missed scheduled team meeting without notice", IssuedBy: "Robert Chen"},
		{ID: "md-1-3", AgentID: "1", Date: d[2], Type: model.Merit, Points: 15, Reason: "Received customer commendation for exceptional service", IssuedBy: "Jessica Parker"},
		{ID: "md-2-1", AgentID: "2", Date: d[4], Type: model.Merit, Points: 8, Reason: "Helped train new team members on troubleshooting procedures", IssuedBy: "Emily Davis"},
		{ID: "md-2-2", AgentID: "2", Date: d[1], Type: model.Demerit, Points: 3, Reason: "Documentation errors in customer case notes", IssuedBy: "Robert Chen"},
		{ID: "md-3-1", AgentID: "3", Date: d[5], Type: model.Demerit, Points: 8, Reason: "Failure to follow escalation protocol for urgent cases", IssuedBy: "Emily Davis"},
		{ID: "md-3-2", AgentID: "3", Date: d[3], Type: model.Merit, Points: 5, Reason: "Provided valuable product feedback that led to improvements", IssuedBy: "Patricia Lopez"},
		{ID: "md-3-3", AgentID: "3", Date: d[0], Type: model.Merit, Points: 12, Reason: "Highest customer satisfaction scores for the month", IssuedBy: "Jessica Parker"},
		{ID: "md-4-1", AgentID: "4", Date: d[5], Type: model.Merit, Points: 20, Reason: "Implemented new training procedure that improved team performance", IssuedBy: "David Wilson"},
		{ID: "md-4-2", AgentID: "4", Date: d[2], Type: model.Merit, Points: 15, Reason: "Resolved critical system issue preventing customer service outage", IssuedBy: "Robert Chen"},
	}

	comments := []model.Comment{
		{
			ID: "comment-1-1", AgentID: "1", Date: d[5], Author: "Jessica Parker",
			Content:   "Great job handling the difficult customer situation yesterday.",
			RelatedTo: &model.RelatedTo{Type: model.RelatedQA, ID: "qa-1-5"},
		},
		{
			ID: "comment-1-2", AgentID: "1", Date: d[2], Author: "Robert Chen",
			Content: "Need to work on product knowledge for the new software update.",
			Responses: []model.Response{{
				ID: "response-1-2-1", Date: d[2], Author: "Alex Johnson",
				Content: "I'll review the materials and schedule time with the product team.",
			}},
		},
		{
			ID: "comment-2-1", AgentID: "2", Date: d[4], Author: "Emily Davis",
			Content:   "Your technical explanations to customers need to be simpler.",
			RelatedTo: &model.RelatedTo{Type: model.RelatedQA, ID: "qa-2-4"},
			Responses: []model.Response{{
				ID: "response-2-1-1", Date: d[4], Author: "Sarah Williams",
				Content: "Thank you for the feedback. I'll work on using less technical jargon.",
			}},
		},
		{
			ID: "comment-3-1", AgentID: "3", Date: d[3], Author: "Patricia Lopez",
			Content:   "Please review the compliance procedures again. There were several oversights in your recent calls.",
			RelatedTo: &model.RelatedTo{Type: model.RelatedDemerit, ID: "md-3-1"},
		},
		{
			ID: "comment-4-1", AgentID: "4", Date: d[5], Author: "David Wilson",
			Content:   "Excellent leadership shown during the system outage. You kept the team calm and focused.",
			RelatedTo: &model.RelatedTo{Type: model.RelatedMerit, ID: "md-4-1"},
		},
	}

	goals := []model.Goal{
		{ID: "goal-1-1", AgentID: "1", Title: "Improve Product Knowledge", Description: "Achieve a score of 95 or higher in the product knowledge category", TargetScore: 95, CurrentScore: 90, Deadline: "2025-03-15", Status: model.GoalInProgress},
		{ID: "goal-2-1", AgentID: "2", Title: "Communication Skills Enhancement", Description: "Work on improving communication skills score to 90+", TargetScore: 90, CurrentScore: 87, Deadline: "2025-02-28", Status: model.GoalInProgress},
		{ID: "goal-3-1", AgentID: "3", Title: "Compliance Training Completion", Description: "Complete all compliance training modules and achieve 85+ score", TargetScore: 85, CurrentScore: 82, Deadline: "2025-04-10", Status: model.GoalInProgress},
		{ID: "goal-3-2", AgentID: "3", Title: "Customer Service Improvement", Description: "Increase customer service score to 90+", TargetScore: 90, CurrentScore: 88, Deadline: "2025-01-31", Status: model.GoalCompleted},
		{ID: "goal-4-1", AgentID: "4", Title: "Leadership Training", Description: "Complete advanced leadership training program", TargetScore: 100, CurrentScore: 100, Deadline: "2024-12-15", Status: model.GoalCompleted},
	}

	return Dataset{
		Agents:        agents,
		QAScores:      scores,
		MeritDemerits: merits,
		Comments:      comments,
		Goals:         goals,
	}
}
