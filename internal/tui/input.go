package tui

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

type inputModel struct {
	textarea textarea.Model
	width    int
	height   int
}

func newInputModel() inputModel {
	ta := textarea.New()
	ta.Placeholder = "Describe your appointments in your own words..."
	ta.Focus()
	// Matches the bound the extraction prompt applies anyway.
	ta.CharLimit = 2000
	ta.SetWidth(70)
	ta.SetHeight(4)
	ta.ShowLineNumbers = false

	return inputModel{textarea: ta}
}

func (m inputModel) Update(msg tea.Msg) (inputModel, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = ws.Width
		m.height = ws.Height
		if ws.Width > 10 {
			m.textarea.SetWidth(ws.Width - 4)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	header := titleStyle.Render("mawid — New Appointments")
	hint := subtitleStyle.Render("e.g. \"dentist on Tuesday at 16:30, then dinner with Sara at 8\"")
	help := helpStyle.Render("Enter: extract • Ctrl+C: cancel")

	return header + "\n" + hint + "\n" + m.textarea.View() + "\n" + help
}

func (m inputModel) Value() string {
	return m.textarea.Value()
}
