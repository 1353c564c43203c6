package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title string
	keys  [][2]string
}

var helpSections = []helpSection{
	{"Search", [][2]string{
		{"Enter", "Search for the text in the box"},
		{"↑/↓", "Previous/next query from history"},
		{"Esc", "Clear the search box"},
	}},
	{"Results", [][2]string{
		{"Tab", "Move focus between box and results"},
		{"↑/↓, j/k", "Move through results"},
		{"PgUp/PgDn", "Page through results"},
		{"g/G", "First/last result"},
		{"Ctrl+O", "Open results in the pager"},
		{"Ctrl+R", "Toggle rank column"},
	}},
	{"Other", [][2]string{
		{"F1", "Show this help"},
		{"Ctrl+C", "Quit"},
	}},
}

// HelpRenderer handles help content rendering
type HelpRenderer struct{}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{}
}

// RenderHelpContentPlain generates help content with colors for pager
func (r *HelpRenderer) RenderHelpContentPlain(serverURL string) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder

	help.WriteString(titleStyle.Render("docgrip Help"))
	help.WriteString("\n")
	if serverURL != "" {
		help.WriteString(lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")).Render("  Searching " + serverURL))
		help.WriteString("\n")
	}

	for _, section := range helpSections {
		help.WriteString(sectionStyle.Render(section.title))
		help.WriteString("\n")
		for _, k := range section.keys {
			key := keyStyle.Render(k[0])
			pad := 12 - lipgloss.Width(key)
			if pad < 1 {
				pad = 1
			}
			help.WriteString(fmt.Sprintf("  %s%s%s\n", key, strings.Repeat(" ", pad), descStyle.Render(k[1])))
		}
	}

	return help.String()
}
