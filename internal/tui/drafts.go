package tui

import (
	"fmt"
	"strings"

	"mawid/internal/appointment"
)

type draftsModel struct {
	drafts []appointment.Draft
	cursor int
}

func newDraftsModel(drafts []appointment.Draft) draftsModel {
	return draftsModel{drafts: drafts}
}

func (m draftsModel) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("Extracted %d appointment(s)", len(m.drafts))))
	sb.WriteString("\n")

	for i, d := range m.drafts {
		prefix := "  "
		if i == m.cursor {
			prefix = "> "
		}

		when := d.Start.Format("Mon 02 Jan 15:04")
		if d.End != nil {
			when += "–" + d.End.Format("15:04")
		}

		line := fmt.Sprintf("%s%-22s  %-8s  %s", prefix, when, renderPriority(string(d.Priority)), d.Title)
		if d.Location != "" {
			line += dimStyle.Render("  @ " + d.Location)
		}
		if i == m.cursor {
			line = highlightStyle.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")

		if i == m.cursor && d.Description != "" {
			sb.WriteString(dimStyle.Render("    " + d.Description))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("[a]ccept all • [e]dit • [r]etry • [s]kip"))

	return boxStyle.Render(sb.String())
}
