// Package tui renders the registration wizard in the terminal.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lllllllleong/portfolioflow/internal/wizard"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	descStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	labelStyle   = lipgloss.NewStyle().Width(22)
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// completedMsg carries the result of Controller.Complete.
type completedMsg struct {
	done *wizard.Completion
	err  error
}

// Model is the bubbletea model driving a wizard.Controller.
type Model struct {
	ctx        context.Context
	ctrl       *wizard.Controller
	inputs     []textinput.Model
	focus      int
	progress   progress.Model
	status     string
	statusErr  bool
	busy       bool
	completion *wizard.Completion
	cancelled  bool
	validation []wizard.ValidateOption
}

// NewModel wraps ctrl. ctx bounds the completion call; opts apply to every
// step and record check.
func NewModel(ctx context.Context, ctrl *wizard.Controller, opts ...wizard.ValidateOption) Model {
	m := Model{
		ctx:        ctx,
		ctrl:       ctrl,
		progress:   progress.New(progress.WithDefaultGradient()),
		validation: opts,
	}
	m.progress.Width = 40
	m.buildInputs()
	return m
}

// buildInputs creates one text input per field of the current step,
// prefilled from the record.
func (m *Model) buildInputs() {
	fields := m.ctrl.Current().Fields
	m.inputs = make([]textinput.Model, len(fields))
	for i, f := range fields {
		in := textinput.New()
		in.Placeholder = f.Placeholder
		if f.Kind == wizard.KindEnum {
			in.Placeholder = optionCodes(f)
		}
		in.CharLimit = 200
		if f.Kind == wizard.KindTextArea {
			in.CharLimit = 2000
		}
		if f.Kind == wizard.KindSecret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		in.Width = 40
		in.SetValue(m.ctrl.Field(f.Name))
		m.inputs[i] = in
	}
	m.focus = 0
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
}

func optionCodes(f wizard.FieldDef) string {
	codes := make([]string, len(f.Options))
	for i, o := range f.Options {
		codes[i] = o.Code
	}
	return strings.Join(codes, " | ")
}

// commitInputs writes every input back into the record.
func (m *Model) commitInputs() {
	for i, f := range m.ctrl.Current().Fields {
		m.ctrl.UpdateField(f.Name, strings.TrimSpace(m.inputs[i].Value()))
	}
}

func (m *Model) setFocus(i int) {
	if len(m.inputs) == 0 {
		return
	}
	m.inputs[m.focus].Blur()
	m.focus = (i + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case completedMsg:
		m.busy = false
		if msg.err != nil {
			m.setStatus("Registration failed: "+msg.err.Error(), true)
			return m, nil
		}
		m.completion = msg.done
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.progress.Width = min(msg.Width-4, 60)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancelled = true
			return m, tea.Quit
		}
		if m.busy || m.completion != nil {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch s := key.String(); s {
	case "tab", "down":
		m.setFocus(m.focus + 1)
		return m, nil
	case "shift+tab", "up":
		m.setFocus(m.focus - 1)
		return m, nil
	case "esc":
		m.commitInputs()
		m.ctrl.Retreat()
		m.buildInputs()
		m.setStatus("", false)
		return m, nil
	case "enter":
		return m.submitStep()
	default:
		if strings.HasPrefix(s, "alt+") && len(s) == 5 && s[4] >= '1' && s[4] <= '9' {
			m.commitInputs()
			if err := m.ctrl.JumpTo(int(s[4] - '0')); err != nil {
				m.setStatus(err.Error(), true)
				return m, nil
			}
			m.buildInputs()
			m.setStatus("", false)
			return m, nil
		}
	}

	if len(m.inputs) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(key)
	return m, cmd
}

// submitStep validates the current step and moves on, or completes the
// registration from the last step.
func (m Model) submitStep() (tea.Model, tea.Cmd) {
	m.commitInputs()
	if err := wizard.ValidateStep(m.ctrl.Current(), m.ctrl.Record(), m.validation...); err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}
	if !m.ctrl.IsLast() {
		m.ctrl.Advance()
		m.buildInputs()
		m.setStatus("", false)
		return m, nil
	}

	if err := wizard.ValidateRecord(m.ctrl.Steps(), m.ctrl.Record(), m.validation...); err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}
	m.busy = true
	m.setStatus("Saving...", false)
	ctx, ctrl := m.ctx, m.ctrl
	return m, func() tea.Msg {
		done, err := ctrl.Complete(ctx)
		return completedMsg{done: done, err: err}
	}
}

func (m Model) View() string {
	if m.completion != nil {
		return m.viewCompleted()
	}

	step := m.ctrl.Current()
	total := len(m.ctrl.Steps())

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Step %d of %d: %s", step.ID, total, step.Label)))
	b.WriteString("\n")
	b.WriteString(descStyle.Render(step.Description))
	b.WriteString("\n\n")
	b.WriteString(m.progress.ViewAs(m.ctrl.ProgressFraction()))
	b.WriteString("\n\n")

	if m.ctrl.IsLast() {
		b.WriteString(m.viewReview())
	}
	for i, f := range step.Fields {
		label := f.Label
		if f.Required {
			label += " *"
		}
		if i == m.focus {
			label = focusStyle.Render(label)
		}
		b.WriteString(labelStyle.Render(label))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		if m.statusErr {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(m.status)
		}
		b.WriteString("\n")
	}

	help := "enter: next • esc: back • tab: next field • alt+1-6: jump • ctrl+c: quit"
	if m.ctrl.IsLast() {
		help = "enter: submit • esc: back • ctrl+c: quit"
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(help))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewReview() string {
	record := m.ctrl.Record().Redacted()
	var b strings.Builder
	for _, step := range m.ctrl.Steps() {
		for _, f := range step.Fields {
			v := record[f.Name]
			if f.Kind == wizard.KindEnum && v != "" {
				v = f.OptionLabel(v)
			}
			if v == "" {
				v = descStyle.Render("-")
			}
			b.WriteString(labelStyle.Render(f.Label))
			b.WriteString(v)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) viewCompleted() string {
	var b strings.Builder
	b.WriteString(successStyle.Render("Registration complete."))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Owner ID: %s\n", m.completion.OwnerID)
	if m.completion.Ticket != nil {
		fmt.Fprintf(&b, "Portfolio handoff: %s (expires %s)\n", m.completion.Ticket.Key, m.completion.Ticket.ExpiresAt.Format("15:04:05 MST"))
	}
	if m.completion.Route != "" {
		fmt.Fprintf(&b, "Next: %s\n", m.completion.Route)
	}
	return b.String()
}

// Completion returns the result once the wizard has completed, else nil.
func (m Model) Completion() *wizard.Completion { return m.completion }

// Cancelled reports whether the user quit before completing.
func (m Model) Cancelled() bool { return m.cancelled }
