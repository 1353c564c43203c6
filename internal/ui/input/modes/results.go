package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"docgrip/internal/ui/input/types"
)

// ResultsMode moves through the rendered results
type ResultsMode struct{}

func NewResultsMode() *ResultsMode {
	return &ResultsMode{}
}

func (m *ResultsMode) Name() string {
	return "results"
}

func (m *ResultsMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *ResultsMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *ResultsMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyEsc, tea.KeyTab:
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch}}, true

	case tea.KeyUp:
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case tea.KeyDown:
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case tea.KeyPgUp:
		return []types.Action{types.NavigateAction{Direction: "pageup"}}, true

	case tea.KeyPgDown:
		return []types.Action{types.NavigateAction{Direction: "pagedown"}}, true

	case tea.KeyHome:
		return []types.Action{types.NavigateAction{Direction: "home"}}, true

	case tea.KeyEnd:
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case tea.KeyCtrlO, tea.KeyEnter:
		return []types.Action{types.OpenResultsPagerAction{}}, true

	case tea.KeyF1:
		return []types.Action{types.OpenHelpAction{}}, true
	}

	switch msg.String() {
	case "j":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true
	case "k":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true
	case "g":
		return []types.Action{types.NavigateAction{Direction: "home"}}, true
	case "G":
		return []types.Action{types.NavigateAction{Direction: "end"}}, true
	case "r":
		return []types.Action{types.ToggleRankAction{}}, true
	case "?":
		return []types.Action{types.OpenHelpAction{}}, true
	case "/":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch}}, true
	case "q":
		return []types.Action{types.QuitAction{}}, true
	}

	return nil, false
}
