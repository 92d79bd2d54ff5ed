package tui

import (
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"heelos/internal/board"
	"heelos/internal/geom"
)

// handleMouse turns a terminal mouse event into a board pointer event. The
// pointer sits in the middle of its cell so it hits what the cell shows.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.help || (m.mode != ModeBoard && m.mode != ModeEdit) {
		return nil
	}
	// The editor rows sit under the canvas and belong to the textarea.
	if m.mode == ModeEdit && msg.Y >= m.canvasHeight() {
		return nil
	}

	var phase board.Phase
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			phase = board.PhaseStart
		case tea.MouseButtonRight:
			phase = board.PhaseCancel
		default:
			return nil
		}
	case tea.MouseActionMotion:
		phase = board.PhaseMove
	case tea.MouseActionRelease:
		phase = board.PhaseEnd
	default:
		return nil
	}

	ev := board.PointerEvent{
		Phase:  phase,
		Pos:    geom.Position{X: float64(msg.X) + 0.5, Y: float64(msg.Y) + 0.5},
		Target: m.frame.At(msg.X, msg.Y),
	}

	if phase == board.PhaseStart {
		m.clearMessages()
		if m.doubleClick(ev.Target) {
			return m.capture.cmd()
		}
	}
	m.board.HandlePointer(ev)
	return m.capture.cmd()
}

// doubleClick reports whether a press completes a double click on a note
// and opens it for editing.
func (m *Model) doubleClick(t board.Target) bool {
	if t.Kind != board.TargetItem && t.Kind != board.TargetAffordance {
		m.lastClick = click{}
		return false
	}
	now := m.now()
	prev := m.lastClick
	m.lastClick = click{key: t.Item, at: now}
	if prev.key != t.Item || now.Sub(prev.at) > doubleClickWindow {
		return false
	}
	m.lastClick = click{}
	return m.board.DoubleClick(t.Item)
}

// keyEvent maps a terminal key onto the board's key model. Terminals send
// ctrl+letter as a single control key, so those are expanded here.
func keyEvent(msg tea.KeyMsg) (board.KeyEvent, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return board.KeyEvent{}, false
		}
		r := msg.Runes[0]
		return board.KeyEvent{Code: board.KeyRune, Rune: r, Shift: unicode.IsUpper(r)}, true
	case tea.KeyCtrlZ:
		return board.KeyEvent{Code: board.KeyRune, Rune: 'z', Ctrl: true}, true
	case tea.KeyCtrlY:
		return board.KeyEvent{Code: board.KeyRune, Rune: 'y', Ctrl: true}, true
	case tea.KeyCtrlS:
		return board.KeyEvent{Code: board.KeyRune, Rune: 's', Ctrl: true}, true
	case tea.KeyDelete:
		return board.KeyEvent{Code: board.KeyDelete}, true
	case tea.KeyBackspace:
		return board.KeyEvent{Code: board.KeyBackspace}, true
	case tea.KeyEsc:
		return board.KeyEvent{Code: board.KeyEscape}, true
	case tea.KeyEnter:
		return board.KeyEvent{Code: board.KeyEnter}, true
	case tea.KeyUp:
		return board.KeyEvent{Code: board.KeyUp}, true
	case tea.KeyDown:
		return board.KeyEvent{Code: board.KeyDown}, true
	case tea.KeyLeft:
		return board.KeyEvent{Code: board.KeyLeft}, true
	case tea.KeyRight:
		return board.KeyEvent{Code: board.KeyRight}, true
	case tea.KeyShiftUp:
		return board.KeyEvent{Code: board.KeyUp, Shift: true}, true
	case tea.KeyShiftDown:
		return board.KeyEvent{Code: board.KeyDown, Shift: true}, true
	case tea.KeyShiftLeft:
		return board.KeyEvent{Code: board.KeyLeft, Shift: true}, true
	case tea.KeyShiftRight:
		return board.KeyEvent{Code: board.KeyRight, Shift: true}, true
	}
	return board.KeyEvent{}, false
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	if m.help {
		m.helpKey(msg)
		return nil
	}

	switch m.mode {
	case ModeEdit:
		return m.editKey(msg)
	case ModePicker:
		m.pickerKey(msg)
		return nil
	case ModeFileInput:
		m.fileKey(msg)
		return nil
	case ModeConfirm:
		return m.confirmKey(msg)
	}

	m.clearMessages()
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		if cmd, ok := m.command(msg.Runes[0]); ok {
			return cmd
		}
	}
	if ev, ok := keyEvent(msg); ok {
		m.board.HandleKey(ev)
	}
	return m.capture.cmd()
}

// editKey lets the board see the key first so its commit keys close the
// editor; everything else is typing.
func (m *Model) editKey(msg tea.KeyMsg) tea.Cmd {
	if ev, ok := keyEvent(msg); ok && m.board.HandleKey(ev) {
		return nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	m.board.SetDraft(m.editor.Value())
	return cmd
}

func (m *Model) helpKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "j", "down":
		if m.helpScroll < len(helpLines)-1 {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	default:
		m.help = false
		m.helpScroll = 0
	}
}

func (m *Model) clearMessages() {
	m.errorMessage = ""
	m.successMessage = ""
}
