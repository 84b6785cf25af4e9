package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/ticked/internal/core/styles"
	"github.com/hay-kot/ticked/internal/core/task"
)

var filterLabels = map[task.Filter]string{
	task.FilterAll:       "All",
	task.FilterActive:    "Active",
	task.FilterCompleted: "Completed",
}

var emptyMessages = map[task.Filter]string{
	task.FilterAll:       "Nothing to do. Press n to add a todo.",
	task.FilterActive:    "No active todos.",
	task.FilterCompleted: "No completed todos.",
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderTitle())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.state == stateAdding {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderTasks())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	if m.state == stateBrowsing {
		b.WriteString(styles.HelpStyle.Render(m.help.View(m.keys)))
	} else {
		b.WriteString(styles.HelpStyle.Render(m.help.View(inputKeys{m.keys})))
	}

	return m.toastView.Place(b.String(), m.width)
}

func (m Model) renderTitle() string {
	title := styles.IconCheckList + " ticked"
	if m.list != "" {
		title += styles.MutedStyle.Render(" · " + m.list)
	}
	return styles.TitleStyle.Render(title)
}

func (m Model) renderTabs() string {
	counts := m.store.Counts()
	active := m.store.Filter()

	tabs := make([]string, 0, len(task.Filters()))
	for _, f := range task.Filters() {
		label := fmt.Sprintf("%s (%d)", filterLabels[f], counts.For(f))
		if f == active {
			tabs = append(tabs, styles.TabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, styles.TabInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderTasks() string {
	visible := m.store.Visible()
	if len(visible) == 0 {
		return styles.EmptyStyle.Render(emptyMessages[m.store.Filter()]) + "\n"
	}

	edit, editing := m.store.Edit()

	var b strings.Builder
	for i, t := range visible {
		cursor := "  "
		if i == m.cursor && m.state != stateAdding {
			cursor = styles.TaskCursorStyle.Render(styles.IconCursor) + " "
		}

		check := styles.UncheckedStyle.Render(styles.IconUnchecked)
		if t.Completed {
			check = styles.CheckedStyle.Render(styles.IconChecked)
		}

		var text string
		switch {
		case m.state == stateEditing && editing && edit.TaskID == t.ID:
			text = styles.EditingStyle.Render(styles.IconEdit+" ") + m.input.View()
		case t.Completed:
			text = styles.TaskDoneStyle.Render(t.Text)
		default:
			text = styles.TaskStyle.Render(t.Text)
		}

		b.WriteString(cursor + check + " " + text + "\n")
	}
	return b.String()
}

func (m Model) renderFooter() string {
	left := m.store.Counts().Active
	noun := "items"
	if left == 1 {
		noun = "item"
	}
	return styles.MutedStyle.Render(fmt.Sprintf("%d %s left", left, noun))
}
