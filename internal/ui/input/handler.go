package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"docgrip/internal/ui/input/modes"
	"docgrip/internal/ui/input/types"
)

type Handler struct {
	currentMode types.Mode
	modes       map[types.Mode]types.ModeHandler
	textInput   *textinput.Model // the search box
	history     *History
}

// New creates an input handler with the search box focused
func New(history *History) *Handler {
	ti := textinput.New()
	ti.Placeholder = "Type a query and press Enter"
	ti.Prompt = ""
	ti.Focus()

	if history == nil {
		history = NewHistory(0)
	}

	h := &Handler{
		currentMode: types.ModeSearch,
		textInput:   &ti,
		modes:       make(map[types.Mode]types.ModeHandler),
		history:     history,
	}

	// Register all mode handlers
	h.modes[types.ModeSearch] = modes.NewSearchMode(h.textInput)
	h.modes[types.ModeResults] = modes.NewResultsMode()

	return h
}

func (h *Handler) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, tea.Cmd) {
	handler := h.modes[h.currentMode]
	if handler == nil {
		return nil, nil
	}

	actions, consumed := handler.HandleKey(msg, ctx)

	// If not consumed and we're in text mode, we'll handle it below
	if !consumed && !h.isTextMode(h.currentMode) {
		return nil, nil
	}

	var cmd tea.Cmd
	var allActions []types.Action

	for _, action := range actions {
		switch a := action.(type) {
		case types.ChangeModeAction:
			allActions = append(allActions, h.changeMode(a.Mode, ctx)...)
			if h.isTextMode(h.currentMode) {
				cmd = textinput.Blink
			}

		case types.HistoryAction:
			var text string
			var ok bool
			if a.Direction == "prev" {
				text, ok = h.history.Prev(h.textInput.Value())
			} else {
				text, ok = h.history.Next()
			}
			if ok {
				h.textInput.SetValue(text)
				h.textInput.CursorEnd()
				allActions = append(allActions, types.UpdateTextAction{Text: text})
			}

		case types.ClearTextAction:
			h.textInput.Reset()
			h.history.Reset()
			allActions = append(allActions, action, types.UpdateTextAction{Text: ""})

		case types.SubmitTextAction:
			h.history.Add(a.Text)
			allActions = append(allActions, action)

		default:
			allActions = append(allActions, action)
		}
	}

	// If we're in a text mode and didn't handle the key, pass it to text input
	if h.isTextMode(h.currentMode) && !consumed {
		var textCmd tea.Cmd
		*h.textInput, textCmd = h.textInput.Update(msg)
		cmd = textCmd
		// Always append an update action when in text mode to keep view in sync
		allActions = append(allActions, types.UpdateTextAction{Text: h.textInput.Value()})
	}

	return allActions, cmd
}

func (h *Handler) changeMode(mode types.Mode, ctx types.Context) []types.Action {
	var actions []types.Action
	if current := h.modes[h.currentMode]; current != nil {
		actions = append(actions, current.Exit(ctx)...)
	}
	h.currentMode = mode
	if next := h.modes[h.currentMode]; next != nil {
		actions = append(actions, next.Enter(ctx)...)
	}
	return actions
}

func (h *Handler) CurrentMode() types.Mode {
	return h.currentMode
}

// TextInput returns the search box
func (h *Handler) TextInput() *textinput.Model {
	return h.textInput
}

// Value returns the current search box text
func (h *Handler) Value() string {
	return h.textInput.Value()
}

// History returns the query history
func (h *Handler) History() *History {
	return h.history
}

func (h *Handler) RegisterMode(mode types.Mode, handler types.ModeHandler) {
	h.modes[mode] = handler
}

func (h *Handler) isTextMode(mode types.Mode) bool {
	return mode == types.ModeSearch
}

// Update handles non-keyboard messages for text input
func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	if h.isTextMode(h.currentMode) {
		var cmd tea.Cmd
		*h.textInput, cmd = h.textInput.Update(msg)
		return cmd
	}
	return nil
}

// Init returns the initial command for the handler
func (h *Handler) Init() tea.Cmd {
	return textinput.Blink
}
