package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/limaJavier/tutorshifts/pkg/csp"
	"github.com/limaJavier/tutorshifts/pkg/schedule"
	"github.com/limaJavier/tutorshifts/pkg/survey"
)

var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorDim    = lipgloss.Color("#928374")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
)

// RenderTable renders an aligned table with a header separator line. Widths are measured on the
// visible text so styled cells line up.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	const colGap = 2
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = lipgloss.Width(header)
	}
	for _, row := range rows {
		for i := 0; i < len(headers) && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		for i := range headers {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(style(cell))
			if i < len(headers)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+colGap))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, func(s string) string { return StyleHeader.Render(s) })
	for i, width := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", width)))
		if i < len(widths)-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row, func(s string) string { return s })
	}
	return b.String()
}

// RenderBox wraps content in a rounded-border box with an optional title
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RenderSchedule renders the schedule table followed by the statistics table. Days nobody works are left out.
func RenderSchedule(s schedule.Schedule) string {
	worked := make([]bool, survey.DaysPerWeek)
	for _, row := range s.Slots {
		for day, names := range row {
			worked[day] = worked[day] || len(names) > 0
		}
	}

	headers := []string{ScheduleCorner}
	for day, name := range survey.DayNames() {
		if worked[day] {
			headers = append(headers, name)
		}
	}
	rows := make([][]string, 0, len(s.Hours))
	for shift, row := range ScheduleRows(s) {
		rendered := []string{row[0]}
		for day := range survey.DaysPerWeek {
			if !worked[day] {
				continue
			}
			cell := row[day+1]
			if len(s.Slots[shift][day]) == 0 {
				cell = StyleDim.Render("-")
			}
			rendered = append(rendered, cell)
		}
		rows = append(rows, rendered)
	}

	statistics := StatisticsRows(s)
	for i, stats := range s.Statistics {
		switch {
		case stats.ScheduledHours == 0:
			statistics[i][3] = StyleRed.Render(statistics[i][3])
		case stats.ScheduledHours < stats.MinHours:
			statistics[i][3] = StyleYellow.Render(statistics[i][3])
		default:
			statistics[i][3] = StyleGreen.Render(statistics[i][3])
		}
	}

	return RenderTable(headers, rows) + "\n" + RenderTable(StatisticsHeader, statistics)
}

// Summary gathers what the end-of-run report shows
type Summary struct {
	Outcome schedule.Outcome
	Bound   *float64 // LP bound on preference, when computed
}

func StatusStyle(status csp.Status) lipgloss.Style {
	switch status {
	case csp.Optimal:
		return StyleGreen
	case csp.Feasible:
		return StyleYellow
	default:
		return StyleRed
	}
}

func RenderSummary(summary Summary) string {
	outcome := summary.Outcome
	lines := []string{
		fmt.Sprintf("Status        %v", StatusStyle(outcome.Status).Render(outcome.Status.String())),
		fmt.Sprintf("Model         %d variables, %d constraints", outcome.Variables, outcome.Constraints),
		fmt.Sprintf("CNF           %d variables, %d clauses", outcome.SATVariables, outcome.Clauses),
	}

	if s, ok := outcome.Primary(); ok {
		lines = append(lines,
			fmt.Sprintf("Preference    %d of %d attainable (%d marked)", s.PreferenceAchieved, s.PreferenceAttainable, s.PreferenceMaximum),
			fmt.Sprintf("Coverage      %d half-hour slots", s.Coverage),
		)
		if len(outcome.Schedules) > 1 {
			lines = append(lines, fmt.Sprintf("Schedules     %d", len(outcome.Schedules)))
		}
		if underworked := s.Underworked(); len(underworked) > 0 {
			lines = append(lines, StyleYellow.Render(fmt.Sprintf("Below minimum %d tutors", len(underworked))))
		}
	} else {
		lines = append(lines, StyleRed.Render("No solution"))
	}
	if summary.Bound != nil {
		lines = append(lines, fmt.Sprintf("LP bound      %.2f preferred slots", *summary.Bound))
	}

	return RenderBox("Schedule", strings.Join(lines, "\n"))
}
