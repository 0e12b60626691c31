package manage

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/falstudio/falkey/internal/keystore"
	"github.com/falstudio/falkey/internal/panel"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func send(m tea.Model, msgs ...tea.Msg) tea.Model {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m
}

func typeText(m tea.Model, text string) tea.Model {
	for _, r := range text {
		m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestOpenMarksPanelOpenAndQuitCloses(t *testing.T) {
	p := panel.New(keystore.NewMemStore())

	m := New(p)
	assert.True(t, p.IsOpen())

	_, cmd := m.Update(key("q"))
	assert.False(t, p.IsOpen())
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestAddFlowPersistsKey(t *testing.T) {
	store := keystore.NewMemStore()
	p := panel.New(store)

	var m tea.Model = New(p)
	m = send(m, key("a"))
	m = typeText(m, "prod")
	m = send(m, key("enter"))
	m = typeText(m, "fal-aaa111")
	m = send(m, key("enter"))

	keys, err := store.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"prod": "fal-aaa111"}, keys)

	model := m.(Model)
	assert.Equal(t, phaseList, model.phase)
	require.Len(t, model.entries, 1)
	assert.Equal(t, "prod", model.entries[0].Name)
}

func TestAddFlowEmptyInputDoesNotAdvance(t *testing.T) {
	p := panel.New(keystore.NewMemStore())

	var m tea.Model = New(p)
	m = send(m, key("a"), key("enter"), key("enter"))

	assert.Equal(t, phaseAddName, m.(Model).phase, "empty name must not advance the form")
}

func TestDeleteSelectedEntry(t *testing.T) {
	store := keystore.NewMemStore()
	p := panel.New(store)
	require.NoError(t, p.Add("prod", "fal-aaa111"))
	require.NoError(t, p.Select("prod"))

	var m tea.Model = New(p)
	m = send(m, key("d"))

	keys, err := store.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.Equal(t, "", store.ActiveName(), "deleting the active entry clears the active name")
	assert.Empty(t, m.(Model).entries)
}

func TestEnterSetsActive(t *testing.T) {
	store := keystore.NewMemStore()
	p := panel.New(store)
	require.NoError(t, p.Add("dev", "fal-bbb222"))
	require.NoError(t, p.Add("prod", "fal-aaa111"))

	// Entries are sorted: dev first. Move to prod and select it.
	var m tea.Model = New(p)
	m = send(m, key("j"), key("enter"))

	assert.Equal(t, "prod", store.ActiveName())
}
