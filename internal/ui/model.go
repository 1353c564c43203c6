package ui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"docgrip/internal/config"
	"docgrip/internal/eventbus"
	"docgrip/internal/ui/handlers"
	"docgrip/internal/ui/input"
	inputtypes "docgrip/internal/ui/input/types"
	"docgrip/internal/ui/state"
	"docgrip/internal/ui/views"
)

// statusTimeout is how long transient status messages stay visible
const statusTimeout = 3 * time.Second

// Submitter queues a search for the given query text
type Submitter interface {
	Submit(query string) uint64
}

// Model represents the UI state
type Model struct {
	bus    eventbus.EventBus
	config *config.Config
	state  *state.AppState // centralized state
	log    zerolog.Logger

	// UI-specific state not in AppState
	width    int
	height   int
	help     help.Model
	keys     views.KeyMap
	spinner  spinner.Model
	spinning bool

	// Handlers
	submitter    Submitter
	renderer     *views.Renderer
	eventHandler *handlers.EventHandler
	inputHandler *input.Handler
	helpRenderer *HelpRenderer
	pager        *PagerOps

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model. history holds earlier queries, newest
// first, for recall in the search box.
func NewModel(cfg *config.Config, bus eventbus.EventBus, log zerolog.Logger, history []string) *Model {
	appState := state.NewAppState()
	appState.ShowRank = cfg.UISettings.ShowRank

	queries := input.NewHistory(cfg.UISettings.HistorySize)
	queries.Load(history)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	m := &Model{
		bus:          bus,
		config:       cfg,
		state:        appState,
		log:          log.With().Str("component", "ui").Logger(),
		help:         help.New(),
		keys:         views.DefaultKeyMap(),
		spinner:      sp,
		renderer:     views.NewRenderer(),
		inputHandler: input.New(queries),
		helpRenderer: NewHelpRenderer(),
		pager:        NewPagerOps(),
	}
	m.eventHandler = handlers.NewEventHandler(appState, log)

	return m
}

// SetSubmitter sets where submitted queries go
func (m *Model) SetSubmitter(s Submitter) {
	m.submitter = s
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager.SetProgram(p)
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return m.inputHandler.Init()
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.inputHandler.TextInput().Width = msg.Width - 14
		m.updateViewportHeight()
		return m, nil

	case tea.KeyMsg:
		actions, cmd := m.inputHandler.HandleKey(msg, &modelContext{state: m.state})

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, action := range actions {
			if actionCmd := m.processAction(action); actionCmd != nil {
				cmds = append(cmds, actionCmd)
			}
		}
		return m, tea.Batch(cmds...)

	default:
		inputCmd := m.inputHandler.Update(msg)
		_, cmd := m.handleNonKeyboardMsg(msg)
		return m, tea.Batch(inputCmd, cmd)
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	return m.renderer.Render(views.ViewState{
		Width:          m.width,
		Height:         m.height,
		ServerURL:      m.config.Server.URL,
		Input:          m.inputHandler.TextInput().View(),
		Query:          m.state.Query,
		Searching:      m.state.Searching,
		Spinner:        m.spinner.View(),
		Results:        m.state.Results,
		Err:            m.state.Err,
		Duration:       m.state.Duration,
		SelectedIndex:  m.state.SelectedIndex,
		ViewportOffset: m.state.ViewportOffset,
		ViewportHeight: m.state.ViewportHeight,
		ResultsFocused: m.inputHandler.CurrentMode() == inputtypes.ModeResults,
		ShowRank:       m.state.ShowRank,
		StatusMessage:  m.state.StatusMessage,
		Discarded:      m.state.Stats.Discarded,
		HelpView:       m.help.View(m.keys),
	})
}

// updateViewportHeight sizes the results panel to what is left after the
// title, search box, status and help lines
func (m *Model) updateViewportHeight() {
	const chrome = 11
	h := m.height - chrome
	if h < 1 {
		h = 1
	}
	m.state.ViewportHeight = h
	m.state.EnsureSelectedVisible()
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	m.log.Debug().Str("action", action.Type()).Msg("processAction")
	switch a := action.(type) {
	case inputtypes.SubmitTextAction:
		if m.submitter == nil {
			m.log.Warn().Msg("Search submitted with no search controller")
			return m.setStatus("Search is not available")
		}
		seq := m.submitter.Submit(a.Text)
		m.log.Debug().Uint64("seq", seq).Int("query_len", len(a.Text)).Msg("Query submitted")

	case inputtypes.NavigateAction:
		switch a.Direction {
		case "up":
			m.state.Move(-1)
		case "down":
			m.state.Move(1)
		case "pageup":
			m.state.Move(-m.state.ViewportHeight)
		case "pagedown":
			m.state.Move(m.state.ViewportHeight)
		case "home":
			m.state.Move(-m.state.ResultCount())
		case "end":
			m.state.Move(m.state.ResultCount())
		}

	case inputtypes.ToggleRankAction:
		m.state.ShowRank = !m.state.ShowRank

	case inputtypes.OpenResultsPagerAction:
		if m.state.ResultCount() == 0 {
			return m.setStatus("No results to page")
		}
		return m.openPager(views.PlainText(m.state.Results, m.state.ShowRank))

	case inputtypes.OpenHelpAction:
		return m.openPager(m.helpRenderer.RenderHelpContentPlain(m.config.Server.URL))

	case inputtypes.QuitAction:
		return tea.Quit
	}

	return nil
}

// openPager returns a command that shows content using ov pager
func (m *Model) openPager(content string) tea.Cmd {
	if m.program == nil {
		return func() tea.Msg { return pagerMsg{err: errors.New("pager unavailable")} }
	}
	return func() tea.Msg {
		// Send pause message to stop rendering
		m.program.Send(pauseRenderingMsg{})

		err := m.pager.Show(content)

		// Send resume message to restart rendering
		m.program.Send(resumeRenderingMsg{})

		return pagerMsg{err: err}
	}
}

func (m *Model) setStatus(message string) tea.Cmd {
	m.state.StatusMessage = message
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		// Process domain events
		before := m.state.StatusMessage
		cmd := m.eventHandler.HandleEvent(msg.Event)
		if status := m.state.StatusMessage; status != "" && status != before {
			return m, tea.Batch(cmd, m.setStatus(status))
		}
		return m, cmd

	case searchStartedMsg:
		m.state.StartSearch(msg.seq, msg.query)
		if !m.spinning {
			m.spinning = true
			return m, m.spinner.Tick
		}
		return m, nil

	case searchResultMsg:
		m.state.ShowOutcome(msg.outcome)
		return m, nil

	case searchFailedMsg:
		m.log.Debug().Uint64("seq", msg.outcome.Seq).Err(msg.outcome.Err).Msg("Showing failed search")
		m.state.ShowOutcome(msg.outcome)
		return m, nil

	case searchDiscardedMsg:
		// Nothing on screen changes for a stale response
		return m, nil

	case spinner.TickMsg:
		if !m.state.Searching || m.state.InPagerMode {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pagerMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("Pager failed")
			return m, m.setStatus(fmt.Sprintf("Pager failed: %v", msg.err))
		}
		// Pager succeeded, RestoreTerminal() should have restored the screen
		return m, nil

	case pauseRenderingMsg:
		// Signal that rendering should be paused for external pager
		m.state.InPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.state.InPagerMode = false
		if m.state.Searching && !m.spinning {
			m.spinning = true
			return m, m.spinner.Tick
		}
		return m, nil

	case clearStatusMsg:
		m.state.StatusMessage = ""
		return m, nil

	default:
		// Other messages are handled elsewhere
		return m, nil
	}
}

// modelContext implements the input Context over the app state
type modelContext struct {
	state *state.AppState
}

func (c *modelContext) ResultCount() int  { return c.state.ResultCount() }
func (c *modelContext) CurrentIndex() int { return c.state.SelectedIndex }
func (c *modelContext) Searching() bool   { return c.state.Searching }
