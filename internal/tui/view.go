package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/hdgdrill/internal/model"
	"github.com/verte-zerg/hdgdrill/internal/stats"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true).Padding(0, 2)
	resultStyle  = headingStyle.Copy().Foreground(lipgloss.Color("#C89A3A"))
	flashStyle   = headingStyle.Copy().
			Foreground(lipgloss.Color("#1A1A1A")).
			Background(lipgloss.Color("#C89A3A"))
	turnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFD7")).Bold(true)
	angleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tapeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle  = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

const helpText = "space/click calculated · s start · p pause · r reset · c settings · q quit"

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.settingsMode {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderSettings())
	}
	snap := m.ctrl.Snapshot()

	sections := []string{
		titleStyle.Render("HEADING DRILL"),
		"",
		labelStyle.Render("REFERENCE HEADING"),
		renderHeading(snap),
		tapeStyle.Render(renderTape(snap.Heading, minInt(61, maxInt(7, m.width-4)))),
		"",
		renderTurn(snap),
		"",
		labelStyle.Render(statusLine(snap)),
	}
	if snap.Running || snap.Session.TurnCount > 0 {
		sections = append(sections, "", renderSessionStats(snap.Session))
	}
	if len(m.angles) > 0 {
		sections = append(sections, "", m.breakdown.View())
	}
	body := lipgloss.JoinVertical(lipgloss.Center, sections...)
	if m.height < 3 {
		return body
	}
	content := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, body)
	footer := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, helpStyle.Render(helpText))
	return content + "\n" + footer
}

func formatHeading(h int) string {
	return fmt.Sprintf("%03d°", h)
}

func renderHeading(snap model.Snapshot) string {
	text := formatHeading(snap.Heading)
	switch {
	case snap.Flashing:
		return flashStyle.Render(text)
	case snap.State == model.ShowingResult:
		return resultStyle.Render(text)
	default:
		return headingStyle.Render(text)
	}
}

func renderTurn(snap model.Snapshot) string {
	if !snap.HasTurn || (snap.State != model.ShowingDirection && snap.State != model.ShowingAngle) {
		return " "
	}
	arrow := "◀◀ LEFT"
	if snap.Turn.Direction == model.Right {
		arrow = "RIGHT ▶▶"
	}
	if snap.State == model.ShowingDirection {
		return turnStyle.Render(arrow)
	}
	angle := angleStyle.Render(fmt.Sprintf("%d°", snap.Turn.Angle))
	if snap.Turn.Direction == model.Right {
		return turnStyle.Render(arrow) + "  " + angle
	}
	return angle + "  " + turnStyle.Render(arrow)
}

func statusLine(snap model.Snapshot) string {
	switch snap.State {
	case model.Idle:
		if snap.Session.TurnCount > 0 {
			return "Paused. Press s to start a new session."
		}
		return "Press s to start a session."
	case model.Ready, model.ShowingDirection:
		return "Get ready..."
	case model.ShowingAngle:
		return "Press space when you have the new heading."
	case model.ShowingResult:
		if snap.Flashing {
			return fmt.Sprintf("Heading shifted %+d°", snap.LastShift)
		}
		return "Next turn starting..."
	}
	return ""
}

func renderSessionStats(s model.Session) string {
	cards := []string{
		metricCard("Turns", fmt.Sprintf("%d", s.TurnCount)),
		metricCard("Total Time", stats.Seconds(s.Wall)),
		metricCard("Avg/Turn", stats.Seconds(s.AverageTurn)),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Bold(true).Render(value),
		labelStyle.Render(label),
	))
}

func buildBreakdownTable(aggs []model.AngleAggregate, width, height int) table.Model {
	columns := []table.Column{
		{Title: "Turn", Width: 7},
		{Title: "Count", Width: 5},
		{Title: "Avg (s)", Width: 7},
		{Title: "Best (s)", Width: 8},
		{Title: "Worst (s)", Width: 9},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(breakdownRows(aggs)),
		table.WithHeight(maxInt(1, height)),
	)
	t.SetWidth(breakdownWidth(width))
	t.SetStyles(breakdownStyles())
	t.Blur()
	return t
}

func breakdownRows(aggs []model.AngleAggregate) []table.Row {
	rows := make([]table.Row, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, table.Row{
			stats.TurnLabel(agg.Direction, agg.Angle),
			fmt.Sprintf("%d", agg.Count),
			fmt.Sprintf("%.2f", agg.AverageMs()/1000),
			fmt.Sprintf("%.2f", float64(agg.BestMs)/1000),
			fmt.Sprintf("%.2f", float64(agg.WorstMs)/1000),
		})
	}
	return rows
}

func breakdownWidth(width int) int {
	const tableWidth = 46
	if width <= 0 || width > tableWidth {
		return tableWidth
	}
	return width
}

func breakdownStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true)
	styles.Selected = styles.Cell
	return styles
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
