package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"docgrip/internal/domain"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int

	ServerURL string
	Input     string // rendered search box
	Query     string // query of the search shown
	Searching bool
	Spinner   string // current spinner frame

	Results        domain.ResultSet // nil until the first search
	Err            error
	Duration       time.Duration
	SelectedIndex  int
	ViewportOffset int
	ViewportHeight int
	ResultsFocused bool
	ShowRank       bool

	StatusMessage string
	Discarded     int
	HelpView      string
}

// Renderer handles all view rendering
type Renderer struct {
	styles        *Styles
	resultsRender *ResultsRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:        styles,
		resultsRender: NewResultsRenderer(styles),
	}
}

// Styles returns the renderer's styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.renderTitleLine(state))
	content.WriteString("\n\n")

	// Search box
	content.WriteString(r.styles.Prompt.Render("Search: "))
	content.WriteString(state.Input)
	content.WriteString("\n\n")

	// Results panel
	switch {
	case state.Searching:
		// Cleared while the request is in flight
	case state.Err != nil:
		// Panel stays empty; the status line carries the error
	case state.Results == nil:
		content.WriteString(r.styles.Dim.Render("Press Enter to search."))
	case len(state.Results) == 0:
		content.WriteString(r.styles.Dim.Render("No results"))
	default:
		content.WriteString(r.resultsRender.RenderList(state))
	}

	// Push status and help to the bottom
	footer := r.renderStatusLine(state)
	if state.HelpView != "" {
		footer += "\n" + r.styles.Help.Render(state.HelpView)
	}
	currentLines := strings.Count(content.String(), "\n") + 1
	footerLines := strings.Count(footer, "\n") + 1

	// Account for container padding (1 top, 1 bottom from Padding(1, 2))
	availableLines := state.Height - 2
	if availableLines <= 0 {
		availableLines = 22
	}
	if paddingNeeded := availableLines - currentLines - footerLines; paddingNeeded > 0 {
		content.WriteString(strings.Repeat("\n", paddingNeeded))
	}
	content.WriteString("\n")
	content.WriteString(footer)

	mainStyle := r.styles.Main.MaxHeight(state.Height)
	return mainStyle.Render(content.String())
}

func (r *Renderer) renderTitleLine(state ViewState) string {
	logo := r.styles.Title.Render("docgrip")
	if state.ServerURL == "" {
		return logo
	}

	rightContent := r.styles.Dim.Render(state.ServerURL)
	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80 // Default terminal width
	}
	availableWidth := termWidth - 4 // Account for main container padding
	paddingWidth := availableWidth - lipgloss.Width(logo) - lipgloss.Width(rightContent)
	if paddingWidth > 0 {
		return logo + strings.Repeat(" ", paddingWidth) + rightContent
	}
	return fmt.Sprintf("%s  %s", logo, rightContent)
}

// renderStatusLine describes the search shown in the results panel
func (r *Renderer) renderStatusLine(state ViewState) string {
	if state.StatusMessage != "" {
		return r.styles.StatusWarning.Render(state.StatusMessage)
	}

	switch {
	case state.Searching:
		return r.styles.StatusLoading.Render(fmt.Sprintf("%s Searching for %q", state.Spinner, state.Query))
	case state.Err != nil:
		return r.styles.StatusError.Render(fmt.Sprintf("Search failed: %v", state.Err))
	case state.Results == nil:
		return ""
	}

	noun := "results"
	if len(state.Results) == 1 {
		noun = "result"
	}
	line := fmt.Sprintf("%d %s for %q in %s", len(state.Results), noun, state.Query, state.Duration.Round(time.Millisecond))
	if state.Discarded > 0 {
		line += fmt.Sprintf(" · %d stale discarded", state.Discarded)
	}
	return r.styles.Status.Render(line)
}
