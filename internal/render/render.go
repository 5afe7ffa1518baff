// Package render formats page rankings for terminal output.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/izzyreal/pagehist/internal/protocol"
)

var (
	accent  = lipgloss.Color("#157F66")
	dim     = lipgloss.Color("#6B7280")
	faint   = lipgloss.Color("#3F3F46")
	stable  = lipgloss.Color("#22C55E")
	wobbly  = lipgloss.Color("#F59E0B")
	erratic = lipgloss.Color("#EF4444")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(dim)
	faintStyle  = lipgloss.NewStyle().Foreground(faint)
)

// erraticnessColor buckets an index into green, amber and red.
func erraticnessColor(index int) lipgloss.Color {
	switch {
	case index >= 50:
		return erratic
	case index > 0:
		return wobbly
	default:
		return stable
	}
}

// Ranking renders ranking as an aligned table headed by the project name and
// the number of builds it was computed from.
func Ranking(project string, builds int, ranking []protocol.PageRank) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render(project) + "  " + dimStyle.Render(fmt.Sprintf("%d builds", builds)) + "\n")

	if len(ranking) == 0 {
		b.WriteString("  " + dimStyle.Render("No page results recorded.") + "\n")
		return b.String()
	}

	pageWidth := len("PAGE")
	for _, r := range ranking {
		if w := lipgloss.Width(r.Page); w > pageWidth {
			pageWidth = w
		}
	}
	pageCol := lipgloss.NewStyle().Width(pageWidth + 2)
	numCol := lipgloss.NewStyle().Width(12).Align(lipgloss.Right)

	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", pageWidth+2+36)) + "\n")
	b.WriteString("  " +
		headerStyle.Inherit(pageCol).Render("PAGE") +
		headerStyle.Inherit(numCol).Render("ERRATIC") +
		headerStyle.Inherit(numCol).Render("SWITCHES") +
		headerStyle.Inherit(numCol).Render("RUNS") + "\n")

	for _, r := range ranking {
		index := lipgloss.NewStyle().Foreground(erraticnessColor(r.Erraticness)).Inherit(numCol).
			Render(fmt.Sprintf("%d%%", r.Erraticness))
		b.WriteString("  " +
			pageCol.Render(r.Page) +
			index +
			numCol.Render(fmt.Sprintf("%d", r.Switches)) +
			numCol.Render(fmt.Sprintf("%d", r.Occurrences)) + "\n")
	}
	return b.String()
}
