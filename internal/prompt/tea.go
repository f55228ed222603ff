package prompt

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type keyMap struct {
	Yes    key.Binding
	No     key.Binding
	Toggle key.Binding
	Submit key.Binding
	Cancel key.Binding
}

var keys = keyMap{
	Yes:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
	No:     key.NewBinding(key.WithKeys("n", "N"), key.WithHelp("n", "no")),
	Toggle: key.NewBinding(key.WithKeys("left", "right", "h", "l", "tab"), key.WithHelp("←/→", "toggle")),
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Cancel: key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "cancel")),
}

// TeaConfirmer asks with a bubbletea yes/no selector. The selection starts
// on No.
type TeaConfirmer struct {
	in  io.Reader
	out io.Writer
}

// NewTeaConfirmer creates a TeaConfirmer.
func NewTeaConfirmer(in io.Reader, out io.Writer) *TeaConfirmer {
	return &TeaConfirmer{in: in, out: out}
}

// Confirm implements Confirmer.
func (c *TeaConfirmer) Confirm(question string) (bool, error) {
	p := tea.NewProgram(newConfirmModel(question), tea.WithInput(c.in), tea.WithOutput(c.out))
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("confirm prompt: %w", err)
	}
	m, ok := final.(*confirmModel)
	if !ok {
		return false, nil
	}
	return m.answered && m.value, nil
}

type confirmModel struct {
	question string
	value    bool
	answered bool
}

func newConfirmModel(question string) *confirmModel {
	return &confirmModel{question: question}
}

func (m *confirmModel) Init() tea.Cmd { return nil }

func (m *confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Yes):
		m.value = true
	case key.Matches(keyMsg, keys.Toggle):
		m.value = !m.value
		return m, nil
	case key.Matches(keyMsg, keys.Submit):
	default:
		// n, esc, ctrl+c and any other key all decline.
		m.value = false
	}
	m.answered = true
	return m, tea.Quit
}

func (m *confirmModel) View() string {
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	normalStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	if m.answered {
		answer := "no"
		if m.value {
			answer = "yes"
		}
		return fmt.Sprintf("%s %s\n", m.question, answer)
	}

	var yes, no string
	if m.value {
		yes = selectedStyle.Render("[Yes]")
		no = normalStyle.Render(" No ")
	} else {
		yes = normalStyle.Render(" Yes ")
		no = selectedStyle.Render("[No]")
	}

	help := fmt.Sprintf("%s: yes • %s: %s • %s: %s",
		keys.Yes.Help().Key,
		keys.Toggle.Help().Key, keys.Toggle.Help().Desc,
		keys.Submit.Help().Key, keys.Submit.Help().Desc)

	return fmt.Sprintf("%s\n%s / %s\n\n%s\n", m.question, yes, no, helpStyle.Render(help))
}
