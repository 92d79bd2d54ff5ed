package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"heelos/internal/board"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	pickedStyle = lipgloss.NewStyle().Reverse(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
)

var helpLines = []string{
	"Heelos Help",
	"===========",
	"",
	"Mouse:",
	"------",
	"  drag a card          move it (snaps to the grid)",
	"  drag from ●          draw a connector to another task",
	"  click ●, then a task connect without holding the button",
	"  click a connector    select it",
	"  double-click a note  edit it",
	"  right click          cancel a drag or connection",
	"",
	"Board:",
	"------",
	"  t                    add a task from the schedules",
	"  n                    add a note",
	"  a                    connect from the selected task",
	"  e                    edit the selected note",
	"  arrows / shift       nudge the selection by 1 / 10",
	"  del / backspace      delete the selection",
	"  esc                  clear the selection or cancel",
	"  u / ctrl+z           undo",
	"  U / ctrl+y           redo",
	"",
	"Editing a note:",
	"---------------",
	"  enter                new line",
	"  esc / ctrl+s         finish editing",
	"",
	"Files:",
	"------",
	"  s                    save layout",
	"  o                    open layout",
	"  S                    export PNG",
	"  X                    export SVG",
	"  V                    export plain text",
	"  y                    copy the selected card's text",
	"  p                    paste the clipboard as a note",
	"  R                    clear the board",
	"",
	"  ?                    this help (j/k to scroll)",
	"  q                    quit",
}

func (m *Model) View() string {
	if m.help {
		return m.helpView()
	}
	if m.mode == ModePicker {
		return m.pickerView()
	}

	var b strings.Builder
	b.WriteString(m.frame.String())
	if m.mode == ModeEdit {
		b.WriteString("\n")
		b.WriteString(m.editor.View())
	}
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m *Model) statusLine() string {
	var status string
	switch m.mode {
	case ModeEdit:
		return "Mode: EDIT | Enter=newline, Esc/Ctrl+S=finish"
	case ModeFileInput:
		var op string
		switch m.fileOp {
		case FileOpSave:
			op = "Save"
		case FileOpOpen:
			op = "Open"
		case FileOpExportPNG:
			op = "Export PNG"
		case FileOpExportSVG:
			op = "Export SVG"
		case FileOpExportTXT:
			op = "Export text"
		}
		hint := "Enter=confirm, Esc=cancel"
		if m.fileOp == FileOpOpen && len(m.fileList) > 0 {
			hint = "↑/↓=navigate list, Type=enter name, " + hint
		}
		status = fmt.Sprintf("Mode: FILE | %s filename: %s | %s", op, m.input, hint)
		if m.errorMessage != "" {
			status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
		}
		return status
	case ModeConfirm:
		var message string
		switch m.confirmAction {
		case ConfirmQuit:
			message = "Quit Heelos? (y/n)"
		case ConfirmReset:
			message = "Clear the board? Unsaved changes will be lost. (y/n)"
		case ConfirmOverwrite:
			message = fmt.Sprintf("File %s already exists. Overwrite? (y/n)", m.pendingPath)
		}
		return "Mode: CONFIRM | " + message
	default:
		status = fmt.Sprintf("Mode: %s | Items: %d", m.modeString(), len(m.board.Items()))
		if from, ok := m.board.ConnectingFrom(); ok {
			status += fmt.Sprintf(" | Connection from %s (select target)", m.label(from))
		}
		sel := m.board.Selection()
		switch sel.Kind {
		case board.SelectItem:
			status += " | Selected: " + m.label(sel.Item)
		case board.SelectConnector:
			status += fmt.Sprintf(" | Selected: %s → %s", m.label(sel.Connector.From), m.label(sel.Connector.To))
		}
	}

	if m.successMessage != "" {
		status += " | " + m.successMessage
	}
	if m.errorMessage != "" {
		status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
	} else if m.successMessage == "" {
		var hist []string
		if m.board.CanUndo() {
			hist = append(hist, "u=undo")
		}
		if m.board.CanRedo() {
			hist = append(hist, "U=redo")
		}
		if len(hist) > 0 {
			status += " | " + strings.Join(hist, " ")
		}
		status += " | ? for help | q to quit"
	}
	return status
}

// label names an item in the status line.
func (m *Model) label(key board.Key) string {
	it, ok := m.board.Item(key)
	if !ok {
		return string(key)
	}
	l := strings.SplitN(it.Label(), "\n", 2)[0]
	if l == "" {
		return "(empty note)"
	}
	if r := []rune(l); len(r) > 24 {
		l = string(r[:23]) + "…"
	}
	return l
}

func (m *Model) modeString() string {
	switch m.board.Mode() {
	case board.ModeDragging:
		return "DRAG"
	case board.ModeConnecting:
		return "CONNECT"
	case board.ModeEditingText:
		return "EDIT"
	default:
		return "BOARD"
	}
}

func (m *Model) helpView() string {
	rows := m.height - 1
	if rows < 1 {
		rows = 1
	}
	start := m.helpScroll
	end := start + rows
	if end > len(helpLines) {
		end = len(helpLines)
	}

	var b strings.Builder
	for i, line := range helpLines[start:end] {
		if start+i == 0 {
			line = titleStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("j/k to scroll, any other key to close")
	return b.String()
}

func (m *Model) pickerView() string {
	now := m.now()
	var b strings.Builder
	b.WriteString(titleStyle.Render("Add a task"))
	b.WriteString("\n\n")

	rows := m.height - 4
	if rows < 1 {
		rows = 1
	}
	start := 0
	if m.pickIndex >= rows {
		start = m.pickIndex - rows + 1
	}
	for i := start; i < len(m.entries) && i < start+rows; i++ {
		line := "  " + m.entries[i].Label(now)
		if i == m.pickIndex {
			line = pickedStyle.Render("> " + m.entries[i].Label(now))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\nMode: PICK | j/k=move, Enter=add, Esc=cancel")
	return b.String()
}
