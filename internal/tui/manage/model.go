package manage

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/falstudio/falkey/internal/panel"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	previewStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)
)

type phase int

const (
	phaseList phase = iota
	phaseAddName
	phaseAddSecret
)

// Model is the BubbleTea model for the key management dialog. Every
// mutation persists immediately through the panel; closing the dialog
// discards nothing.
type Model struct {
	panel   *panel.Panel
	entries []panel.Entry
	cursor  int
	phase   phase

	pendingName string
	input       textinput.Model
	err         error
}

// New creates the dialog model and marks the panel open.
func New(p *panel.Panel) Model {
	entries, err := p.Open()
	return Model{
		panel:   p,
		entries: entries,
		err:     err,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.phase {
	case phaseList:
		return m.updateList(msg)
	case phaseAddName, phaseAddSecret:
		return m.updateAdd(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(m.entries) {
			m.err = m.panel.Select(m.entries[m.cursor].Name)
		}
	case "d", "x":
		if m.cursor < len(m.entries) {
			m.err = m.panel.Remove(m.entries[m.cursor].Name)
			m.reload()
		}
	case "a":
		m.err = nil
		m.phase = phaseAddName
		m.input = newInput("key name", false)
		return m, textinput.Blink
	case "esc", "q", "ctrl+c":
		m.panel.Close()
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			val := strings.TrimSpace(m.input.Value())
			if val == "" {
				// The form simply doesn't advance on empty input.
				return m, nil
			}

			if m.phase == phaseAddName {
				m.pendingName = val
				m.phase = phaseAddSecret
				m.input = newInput("API key", true)
				return m, textinput.Blink
			}

			m.err = m.panel.Add(m.pendingName, val)
			m.pendingName = ""
			m.phase = phaseList
			m.reload()
			return m, nil

		case "esc":
			m.pendingName = ""
			m.phase = phaseList
			return m, nil

		case "ctrl+c":
			m.panel.Close()
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) reload() {
	entries, err := m.panel.Entries()
	if err != nil {
		m.err = err
		return
	}
	m.entries = entries
	if m.cursor >= len(m.entries) && m.cursor > 0 {
		m.cursor = len(m.entries) - 1
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("FAL API Keys"))
	b.WriteString("\n")

	switch m.phase {
	case phaseList:
		m.viewList(&b)
	case phaseAddName:
		b.WriteString("Name for the new key:\n\n")
		b.WriteString(m.input.View())
		b.WriteString(helpStyle.Render("\nenter confirm · esc cancel"))
	case phaseAddSecret:
		fmt.Fprintf(&b, "API key for %q:\n\n", m.pendingName)
		b.WriteString(m.input.View())
		b.WriteString(helpStyle.Render("\nenter save · esc cancel"))
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
	}

	b.WriteString("\n")
	return b.String()
}

func (m Model) viewList(b *strings.Builder) {
	if len(m.entries) == 0 {
		b.WriteString(previewStyle.Render(panel.Placeholder))
		b.WriteString("\n")
	}

	active := m.panel.Active()
	for i, entry := range m.entries {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		line := fmt.Sprintf("%s%s  %s", cursor, entry.Name, previewStyle.Render(entry.Preview))
		if entry.Name == active {
			line += activeStyle.Render("  ● active")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("a add · d delete · enter set active · q close"))
}

func newInput(placeholder string, masked bool) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	ti.CharLimit = 256
	if masked {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return ti
}
