package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docgrip/internal/ui/input/types"
)

type fakeContext struct {
	results int
}

func (c fakeContext) ResultCount() int  { return c.results }
func (c fakeContext) CurrentIndex() int { return 0 }
func (c fakeContext) Searching() bool   { return false }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func submitted(actions []types.Action) (string, bool) {
	for _, a := range actions {
		if s, ok := a.(types.SubmitTextAction); ok {
			return s.Text, true
		}
	}
	return "", false
}

func TestOnlyEnterSubmits(t *testing.T) {
	h := New(nil)
	ctx := fakeContext{}

	for _, r := range "glsl" {
		actions, _ := h.HandleKey(runes(string(r)), ctx)
		_, ok := submitted(actions)
		assert.False(t, ok)
	}

	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, ctx)
	text, ok := submitted(actions)
	require.True(t, ok)
	assert.Equal(t, "glsl", text)
	assert.Equal(t, "glsl", h.Value(), "the box keeps its text after submitting")
}

func TestTypingEmitsTextUpdates(t *testing.T) {
	h := New(nil)

	actions, _ := h.HandleKey(runes("x"), fakeContext{})
	require.Len(t, actions, 1)
	assert.Equal(t, types.UpdateTextAction{Text: "x"}, actions[0])
}

func TestEscClearsBox(t *testing.T) {
	h := New(nil)
	h.HandleKey(runes("abc"), fakeContext{})

	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, fakeContext{})
	assert.Contains(t, actions, types.Action(types.ClearTextAction{}))
	assert.Empty(t, h.Value())
}

func TestSubmitAddsToHistory(t *testing.T) {
	h := New(NewHistory(10))
	ctx := fakeContext{}

	h.HandleKey(runes("first"), ctx)
	h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, ctx)
	h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)
	h.HandleKey(runes("draft"), ctx)

	h.HandleKey(tea.KeyMsg{Type: tea.KeyUp}, ctx)
	assert.Equal(t, "first", h.Value())
	h.HandleKey(tea.KeyMsg{Type: tea.KeyDown}, ctx)
	assert.Equal(t, "draft", h.Value())
}

func TestTabSwitchesModesOnlyWithResults(t *testing.T) {
	h := New(nil)

	h.HandleKey(tea.KeyMsg{Type: tea.KeyTab}, fakeContext{})
	assert.Equal(t, types.ModeSearch, h.CurrentMode())

	h.HandleKey(tea.KeyMsg{Type: tea.KeyTab}, fakeContext{results: 3})
	assert.Equal(t, types.ModeResults, h.CurrentMode())
	assert.False(t, h.TextInput().Focused())

	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, fakeContext{results: 3})
	_, ok := submitted(actions)
	assert.False(t, ok, "enter in the results list does not search")

	h.HandleKey(runes("/"), fakeContext{results: 3})
	assert.Equal(t, types.ModeSearch, h.CurrentMode())
	assert.True(t, h.TextInput().Focused())
}

func TestHistory(t *testing.T) {
	h := NewHistory(3)
	for _, q := range []string{"a", "", "b", "b", "c", "d"} {
		h.Add(q)
	}
	assert.Equal(t, 3, h.Len())

	q, ok := h.Prev("typing")
	require.True(t, ok)
	assert.Equal(t, "d", q)
	q, _ = h.Prev("")
	assert.Equal(t, "c", q)
	q, _ = h.Prev("")
	assert.Equal(t, "b", q)
	_, ok = h.Prev("")
	assert.False(t, ok, "a was dropped by the cap")

	h.Next()
	h.Next()
	q, ok = h.Next()
	require.True(t, ok)
	assert.Equal(t, "typing", q)
	_, ok = h.Next()
	assert.False(t, ok)
}
