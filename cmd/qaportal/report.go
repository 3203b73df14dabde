package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	service "github.com/okian/qaportal/internal/app"
	"github.com/okian/qaportal/internal/dashboard"
	"github.com/okian/qaportal/internal/domain/derive"
	"github.com/okian/qaportal/internal/domain/model"
)

var (
	colorTitle  = lipgloss.Color("#7aa2f7")
	colorDim    = lipgloss.Color("#565f89")
	colorGood   = lipgloss.Color("#9ece6a")
	colorWarn   = lipgloss.Color("#e0af68")
	colorBad    = lipgloss.Color("#f7768e")
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorTitle)
	dimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle = lipgloss.NewStyle().Bold(true)
	boxStyle    = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

func newAgentsCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List the agents in the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.startService(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Stop()

			agents, err := svc.Agents(cmd.Context())
			if err != nil {
				return err
			}
			writeAgents(cmd.OutOrStdout(), agents)
			return nil
		},
	}
}

func newSummaryCommand(c *cli) *cobra.Command {
	var agentID string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print an agent's QA, merit and goal summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.startService(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Stop()

			if agentID == "" {
				agentID = c.cfg.DefaultAgentID
			}
			if agentID == "" {
				agents, err := svc.Agents(cmd.Context())
				if err != nil {
					return err
				}
				if len(agents) == 0 {
					return fmt.Errorf("dataset has no agents")
				}
				agentID = agents[0].ID
			}
			sum, err := svc.Summary(cmd.Context(), agentID)
			if err != nil {
				return err
			}
			writeSummary(cmd.OutOrStdout(), sum)
			return nil
		},
	}
	cmd.Flags().StringVarP(&agentID, "agent", "a", "", "agent id (defaults to default_agent_id, then the first agent)")
	return cmd
}

func writeAgents(w io.Writer, agents []model.Agent) {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-4s %-20s %-20s %s", "ID", "NAME", "TEAM", "ROLE")))
	b.WriteString("\n")
	for _, a := range agents {
		fmt.Fprintf(&b, "%-4s %-20s %-20s %s\n", a.ID, a.Name, a.Team, a.Role)
	}
	_, _ = io.WriteString(w, b.String())
}

func writeSummary(w io.Writer, sum service.Summary) {
	var b strings.Builder
	b.WriteString(titleStyle.Render(sum.Agent.Name))
	b.WriteString(" " + dimStyle.Render(sum.Agent.Team+" · "+sum.Agent.Role) + "\n\n")

	b.WriteString(headerStyle.Render("QA Scores") + "\n")
	if sum.QA.Latest == nil {
		b.WriteString(dimStyle.Render(dashboard.NoQAScores) + "\n")
	} else {
		latest := derive.ClampScore(sum.QA.Latest.OverallScore)
		fmt.Fprintf(&b, "Overall %s  (%s, %d evaluations)\n",
			bandStyle(derive.ScoreBand(latest)).Render(dashboard.FormatNumber(latest)),
			dashboard.FormatDate(sum.QA.Latest.Date), sum.QA.Count)
		for _, cat := range model.Categories {
			fmt.Fprintf(&b, "  %-16s avg %s\n", cat.Label(), dashboard.FormatNumber(sum.QA.Averages[cat]))
		}
	}

	b.WriteString("\n" + headerStyle.Render("Merit & Demerit Scores") + "\n")
	net := lipgloss.NewStyle().Foreground(colorGood)
	if sum.Merit.NetScore < 0 {
		net = net.Foreground(colorBad)
	}
	fmt.Fprintf(&b, "Merit %d  Demerit %d  Net %s\n", sum.Merit.TotalMerit, sum.Merit.TotalDemerit,
		net.Render(fmt.Sprintf("%d", sum.Merit.NetScore)))

	b.WriteString("\n" + headerStyle.Render("Performance Goals") + "\n")
	if len(sum.Goals) == 0 {
		b.WriteString(dimStyle.Render(dashboard.NoGoals) + "\n")
	}
	for _, g := range sum.Goals {
		line := fmt.Sprintf("%-32s %3d%%  %s", g.Goal.Title, g.ProgressPercent, g.Goal.Status)
		if g.ShowDaysRemaining {
			style := dimStyle
			if g.Urgent {
				style = lipgloss.NewStyle().Foreground(colorBad)
			}
			line += "  " + style.Render(fmt.Sprintf("%s days remaining", dashboard.FormatInt(g.DaysRemaining)))
		}
		b.WriteString(line + "\n")
	}

	_, _ = io.WriteString(w, boxStyle.Render(strings.TrimRight(b.String(), "\n"))+"\n")
}

func bandStyle(band derive.Band) lipgloss.Style {
	switch band {
	case derive.BandExcellent:
		return lipgloss.NewStyle().Bold(true).Foreground(colorGood)
	case derive.BandGood:
		return lipgloss.NewStyle().Bold(true).Foreground(colorTitle)
	case derive.BandFair:
		return lipgloss.NewStyle().Bold(true).Foreground(colorWarn)
	default:
		return lipgloss.NewStyle().Bold(true).Foreground(colorBad)
	}
}
