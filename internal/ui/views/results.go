package views

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"docgrip/internal/domain"
)

// ResultsRenderer renders the results panel
type ResultsRenderer struct {
	styles *Styles
}

// NewResultsRenderer creates a new results renderer
func NewResultsRenderer(styles *Styles) *ResultsRenderer {
	return &ResultsRenderer{styles: styles}
}

// RenderRow renders one result: the path, and the rank when enabled
func (r *ResultsRenderer) RenderRow(item domain.ResultItem, selected, showRank bool, width int) string {
	line := r.styles.Path.Render(domain.DisplayPath(item.Path))
	if showRank {
		rank := r.styles.Rank.Render(FormatRank(item.Rank))
		pad := width - lipgloss.Width(line) - lipgloss.Width(rank)
		if pad < 2 {
			pad = 2
		}
		line = line + strings.Repeat(" ", pad) + rank
	}
	if selected {
		line = r.styles.SelectionBg.Render(line)
	}
	return line
}

// RenderList renders the visible window of results, one row per result
func (r *ResultsRenderer) RenderList(state ViewState) string {
	if len(state.Results) == 0 {
		return ""
	}

	height := state.ViewportHeight
	if height <= 0 {
		height = len(state.Results)
	}
	start := state.ViewportOffset
	if start < 0 || start >= len(state.Results) {
		start = 0
	}
	end := start + height
	if end > len(state.Results) {
		end = len(state.Results)
	}

	rowWidth := state.Width - 4 // main container padding
	lines := make([]string, 0, end-start+2)
	if start > 0 {
		lines = append(lines, r.styles.Scroll.Render("↑ "+strconv.Itoa(start)+" more"))
	}
	for i := start; i < end; i++ {
		selected := state.ResultsFocused && i == state.SelectedIndex
		lines = append(lines, r.RenderRow(state.Results[i], selected, state.ShowRank, rowWidth))
	}
	if end < len(state.Results) {
		lines = append(lines, r.styles.Scroll.Render("↓ "+strconv.Itoa(len(state.Results)-end)+" more"))
	}
	return strings.Join(lines, "\n")
}

// PlainText renders results as plain rows for the pager
func PlainText(results domain.ResultSet, showRank bool) string {
	var b strings.Builder
	for _, item := range results {
		b.WriteString(domain.DisplayPath(item.Path))
		if showRank {
			b.WriteString("\t")
			b.WriteString(FormatRank(item.Rank))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatRank formats a rank with the shortest exact representation
func FormatRank(rank float64) string {
	return strconv.FormatFloat(rank, 'g', -1, 64)
}
