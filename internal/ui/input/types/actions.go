package types

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

// SubmitTextAction carries the search box value at the moment Enter was pressed
type SubmitTextAction struct {
	Text string
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type ClearTextAction struct{}

func (a ClearTextAction) Type() string { return "clear_text" }

// HistoryAction replaces the search box with an older or newer query
type HistoryAction struct {
	Direction string // "prev" or "next"
}

func (a HistoryAction) Type() string { return "history" }

// Pager actions
type OpenResultsPagerAction struct{}

func (a OpenResultsPagerAction) Type() string { return "open_results_pager" }

type OpenHelpAction struct{}

func (a OpenHelpAction) Type() string { return "open_help" }

type ToggleRankAction struct{}

func (a ToggleRankAction) Type() string { return "toggle_rank" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
