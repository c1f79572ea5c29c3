package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"mawid/internal/appointment"
)

type editField int

const (
	editTitle editField = iota
	editDate
	editTime
	editLocation
	fieldCount
)

type editModel struct {
	drafts    []appointment.Draft
	cursor    int
	field     editField
	textInput textinput.Model
	editing   bool
}

func newEditModel(drafts []appointment.Draft) editModel {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 50

	return editModel{
		drafts:    drafts,
		textInput: ti,
	}
}

func (m editModel) Update(msg tea.Msg) (editModel, tea.Cmd) {
	if m.editing {
		return m.updateEditing(msg)
	}
	return m.updateNavigating(msg)
}

func (m editModel) updateNavigating(msg tea.Msg) (editModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.drafts)-1 {
				m.cursor++
			}
		case "tab":
			m.field = (m.field + 1) % fieldCount
		case "enter":
			m.editing = true
			d := m.drafts[m.cursor]
			switch m.field {
			case editTitle:
				m.textInput.SetValue(d.Title)
				m.textInput.Placeholder = "Title"
			case editDate:
				m.textInput.SetValue(d.Start.Format("2006-01-02"))
				m.textInput.Placeholder = "YYYY-MM-DD"
			case editTime:
				m.textInput.SetValue(d.Start.Format("15:04"))
				m.textInput.Placeholder = "HH:MM"
			case editLocation:
				m.textInput.SetValue(d.Location)
				m.textInput.Placeholder = "Location"
			}
			return m, m.textInput.Focus()
		}
	}
	return m, nil
}

func (m editModel) updateEditing(msg tea.Msg) (editModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			m.applyEdit()
			m.editing = false
			m.textInput.Blur()
			return m, nil
		case "esc":
			m.editing = false
			m.textInput.Blur()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m *editModel) applyEdit() {
	d := &m.drafts[m.cursor]
	value := strings.TrimSpace(m.textInput.Value())

	switch m.field {
	case editTitle:
		if value != "" {
			d.Title = value
		}
	case editDate:
		if day, err := time.ParseInLocation("2006-01-02", value, d.Start.Location()); err == nil {
			d.Start = time.Date(day.Year(), day.Month(), day.Day(),
				d.Start.Hour(), d.Start.Minute(), 0, 0, d.Start.Location())
		}
	case editTime:
		if clock, err := time.Parse("15:04", value); err == nil {
			d.Start = time.Date(d.Start.Year(), d.Start.Month(), d.Start.Day(),
				clock.Hour(), clock.Minute(), 0, 0, d.Start.Location())
		}
	case editLocation:
		d.Location = value
	}
}

func (m editModel) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Edit Appointments"))
	sb.WriteString("\n")

	fieldNames := []string{"Title", "Date", "Time", "Location"}

	for i, d := range m.drafts {
		prefix := "  "
		if i == m.cursor {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-30s  %s", prefix, d.Start.Format("2006-01-02 15:04"), d.Title, d.Location)
		if i == m.cursor {
			line = highlightStyle.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Field: %s\n", selectedStyle.Render(fieldNames[m.field])))

	if m.editing {
		sb.WriteString(m.textInput.View())
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("Enter: edit field • Tab: next field • j/k: nav • Esc: done editing"))

	return boxStyle.Render(sb.String())
}
