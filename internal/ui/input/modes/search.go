package modes

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"docgrip/internal/ui/input/types"
)

// SearchMode owns the search box. Enter is the only key that submits.
type SearchMode struct {
	textInput *textinput.Model
}

func NewSearchMode(ti *textinput.Model) *SearchMode {
	return &SearchMode{textInput: ti}
}

func (m *SearchMode) Name() string {
	return "search"
}

func (m *SearchMode) Enter(ctx types.Context) []types.Action {
	if m.textInput != nil {
		m.textInput.Focus()
		m.textInput.Prompt = "" // Prompt is handled in the UI layer
	}
	return nil
}

func (m *SearchMode) Exit(ctx types.Context) []types.Action {
	if m.textInput != nil {
		m.textInput.Blur()
	}
	return nil
}

func (m *SearchMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "enter":
		// The box keeps its text so the query can be refined and resubmitted
		text := ""
		if m.textInput != nil {
			text = m.textInput.Value()
		}
		return []types.Action{types.SubmitTextAction{Text: text}}, true
	case "esc":
		return []types.Action{types.ClearTextAction{}}, true
	case "up", "ctrl+p":
		return []types.Action{types.HistoryAction{Direction: "prev"}}, true
	case "down", "ctrl+n":
		return []types.Action{types.HistoryAction{Direction: "next"}}, true
	case "tab":
		if ctx.ResultCount() == 0 {
			return nil, true
		}
		return []types.Action{types.ChangeModeAction{Mode: types.ModeResults}}, true
	case "pgup":
		return []types.Action{types.NavigateAction{Direction: "pageup"}}, true
	case "pgdown":
		return []types.Action{types.NavigateAction{Direction: "pagedown"}}, true
	case "ctrl+o":
		return []types.Action{types.OpenResultsPagerAction{}}, true
	case "f1":
		return []types.Action{types.OpenHelpAction{}}, true
	case "ctrl+r":
		return []types.Action{types.ToggleRankAction{}}, true
	default:
		// Let the main handler update the text input
		return nil, false
	}
}
