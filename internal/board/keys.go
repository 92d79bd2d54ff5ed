package board

// KeyCode names the keys the board reacts to. Printable keys arrive as
// KeyRune.
type KeyCode int

const (
	KeyRune KeyCode = iota
	KeyDelete
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEscape
	KeyEnter
)

// KeyEvent is one key press. Meta is the Cmd key; the board treats it like
// Ctrl.
type KeyEvent struct {
	Code  KeyCode
	Rune  rune
	Shift bool
	Ctrl  bool
	Meta  bool
}

func (k KeyEvent) command() bool { return k.Ctrl || k.Meta }

// HandleKey applies the board's keyboard shortcuts and reports whether the
// key was used.
func (b *Board) HandleKey(k KeyEvent) bool {
	switch b.state.(type) {
	case *editState:
		return b.editKey(k)
	case *connectState:
		if k.Code == KeyEscape {
			b.cancelConnect()
			b.ClearSelection()
			return true
		}
		return b.historyKey(k)
	case *dragState:
		return false
	}

	if b.historyKey(k) {
		return true
	}
	switch k.Code {
	case KeyDelete, KeyBackspace:
		return b.DeleteSelection()
	case KeyEscape:
		b.ClearSelection()
		return true
	case KeyUp, KeyDown, KeyLeft, KeyRight:
		return b.nudgeKey(k)
	}
	return false
}

// historyKey handles Ctrl/Cmd+Z, Ctrl/Cmd+Y and Ctrl/Cmd+Shift+Z.
func (b *Board) historyKey(k KeyEvent) bool {
	if k.Code != KeyRune || !k.command() {
		return false
	}
	switch k.Rune {
	case 'z':
		if k.Shift {
			b.Redo()
		} else {
			b.Undo()
		}
		return true
	case 'Z':
		b.Redo()
		return true
	case 'y', 'Y':
		b.Redo()
		return true
	}
	return false
}

func (b *Board) nudgeKey(k KeyEvent) bool {
	step := NudgeStep
	if k.Shift {
		step = NudgeLargeStep
	}
	var dx, dy float64
	switch k.Code {
	case KeyUp:
		dy = -step
	case KeyDown:
		dy = step
	case KeyLeft:
		dx = -step
	case KeyRight:
		dx = step
	}
	b.Nudge(dx, dy)
	return b.selection.Kind == SelectItem
}

func (b *Board) editKey(k KeyEvent) bool {
	switch {
	case k.Code == KeyEscape:
		b.CommitEdit()
		return true
	case k.Code == KeyEnter && k.command():
		b.CommitEdit()
		return true
	case k.Code == KeyRune && k.command() && (k.Rune == 's' || k.Rune == 'S'):
		b.CommitEdit()
		return true
	}
	return false
}
