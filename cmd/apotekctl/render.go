package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/insight"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/recommend"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/topsis"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	rankStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	scoreStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	distanceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	noteStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func levelStyle(l insight.Level) lipgloss.Style {
	switch l {
	case insight.Excellent:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	case insight.Good:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}

func renderEntries(w io.Writer, entries []recommend.Entry, top int) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf(" %-4s  %-6s  %-10s  %-30s  %-18s  %s", "#", "SCORE", "DISTANCE", "PHARMACY", "SERVICE", "AVAILABILITY")))
	fmt.Fprintln(w, strings.Repeat("─", 100))

	for i, e := range entries {
		if top > 0 && i >= top {
			break
		}
		dist := e.DistanceText
		if dist == "" {
			dist = fmt.Sprintf("%.1f km", e.DistanceMeters/1000)
		}
		name := truncate(e.Name, 30)
		if e.OnFrontier {
			name = truncate(e.Name, 28) + " *"
		}
		fmt.Fprintf(w, " %s  %s  %s  %-30s  %s  %s\n",
			rankStyle.Render(fmt.Sprintf("%-4d", e.Rank)),
			scoreStyle.Render(fmt.Sprintf("%-6.4f", e.Score)),
			distanceStyle.Render(fmt.Sprintf("%-10s", dist)),
			name,
			levelStyle(e.Service.Level).Render(fmt.Sprintf("%-18s", fmt.Sprintf("%.1f %s", e.Service.Score, e.Service.Level))),
			levelStyle(e.Availability.Level).Render(fmt.Sprintf("%.1f %s", e.Availability.Score, e.Availability.Level)),
		)
	}
}

func renderNotes(w io.Writer, excluded []recommend.Exclusion, degenerate []string, norm topsis.Normalization) {
	if len(degenerate) > 0 {
		fmt.Fprintln(w, noteStyle.Render(fmt.Sprintf("\nNo spread under %s normalization in: %s", norm, strings.Join(degenerate, ", "))))
	}
	if len(excluded) == 0 {
		return
	}
	fmt.Fprintln(w, noteStyle.Render(fmt.Sprintf("\nExcluded %d:", len(excluded))))
	for _, e := range excluded {
		fmt.Fprintf(w, "  %s: %s\n", e.Name, e.Reason)
	}
}
