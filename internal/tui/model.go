// Package tui is the terminal surface: an API-key gate, the two-field
// patient form, and a viewport for the generated recommendation.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"koyl/internal/domain"
)

// Unlock performs the deferred initialization that must not happen
// before a credential is supplied: loading the index and wiring the
// advisor. It is called once, on the first key submission.
type Unlock func() (domain.Advisor, error)

type phase int

const (
	phaseKey phase = iota
	phaseForm
	phaseResult
)

// Model is the Bubble Tea model for the advisor TUI.
type Model struct {
	unlock Unlock
	svc    domain.Advisor
	apiKey string

	phase     phase
	keyInput  textinput.Model
	condition textinput.Model
	allergies textinput.Model
	focus     int
	viewport  viewport.Model
	status    string
	fatal     string
	ready     bool
}

// New creates the TUI model. Nothing is loaded until the key is entered.
func New(unlock Unlock) Model {
	key := textinput.New()
	key.Prompt = "API key: "
	key.EchoMode = textinput.EchoPassword
	key.Placeholder = "gsk_..."
	key.Focus()

	condition := textinput.New()
	condition.Prompt = "Conditions: "
	condition.Placeholder = "e.g., high blood pressure, diabetes"

	allergies := textinput.New()
	allergies.Prompt = "Allergies:  "
	allergies.Placeholder = "e.g., dairy, gluten, nuts"

	return Model{
		unlock:    unlock,
		keyInput:  key,
		condition: condition,
		allergies: allergies,
		viewport:  viewport.New(0, 0),
		status:    "Enter your Groq API key to begin.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state. The
// pipeline runs synchronously inside the submit handler; a hung network
// call hangs the interaction, per the single-request execution model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, fh := resultBoxStyle.GetFrameSize()
		vh := msg.Height - 8 - fh
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = vh
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if m.fatal != "" {
			return m, tea.Quit
		}
		switch m.phase {
		case phaseKey:
			return m.updateKeyPhase(msg)
		case phaseForm:
			return m.updateFormPhase(msg)
		case phaseResult:
			if msg.Type == tea.KeyEsc {
				m.phase = phaseForm
				m.status = "Edit the form and press Enter to submit again."
				return m, nil
			}
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	return m.updateInputs(msg)
}

func (m Model) updateKeyPhase(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		key := strings.TrimSpace(m.keyInput.Value())
		if key == "" {
			m.status = "API key is required."
			return m, nil
		}
		svc, err := m.unlock()
		if err != nil {
			m.fatal = "Initialization failed: " + err.Error()
			return m, nil
		}
		m.svc = svc
		m.apiKey = key
		m.phase = phaseForm
		m.focus = 0
		m.condition.Focus()
		m.status = "Fill in both fields and press Enter."
		return m, nil
	}
	var cmd tea.Cmd
	m.keyInput, cmd = m.keyInput.Update(msg)
	return m, cmd
}

func (m Model) updateFormPhase(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.focus = 1 - m.focus
		if m.focus == 0 {
			m.condition.Focus()
			m.allergies.Blur()
		} else {
			m.allergies.Focus()
			m.condition.Blur()
		}
		return m, nil
	case "enter":
		m.status = "Retrieving literature and generating recommendations..."
		rec, err := m.svc.Recommend(context.Background(), m.apiKey, domain.Request{
			Condition: m.condition.Value(),
			Allergies: m.allergies.Value(),
		})
		if err != nil {
			m.status = "Error: " + err.Error()
			return m, nil
		}
		m.viewport.SetContent(rec.Advice)
		m.viewport.GotoTop()
		m.phase = phaseResult
		m.status = "Recommendation ready. Esc to go back, ctrl+c to quit."
		return m, nil
	}
	return m.updateInputs(msg)
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.keyInput, cmd = m.keyInput.Update(msg)
	cmds = append(cmds, cmd)
	m.condition, cmd = m.condition.Update(msg)
	cmds = append(cmds, cmd)
	m.allergies, cmd = m.allergies.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View renders the current phase.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Koyl Nutrition Advisor")
	if m.fatal != "" {
		return header + "\n\n" + errorStyle.Render(m.fatal) + "\n\nPress any key to exit.\n"
	}
	status := statusStyle.Render(m.status)
	switch m.phase {
	case phaseKey:
		return header + "\n\n" + formBoxStyle.Render(m.keyInput.View()) + "\n" + status + "\n"
	case phaseForm:
		form := formBoxStyle.Render(m.condition.View() + "\n" + m.allergies.View())
		return header + "\n\n" + form + "\n" + status + "\n"
	default:
		return header + "\n" + resultBoxStyle.Render(m.viewport.View()) + "\n" + status + "\n"
	}
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	formBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
