package board

// Snapshot is a copy of the board's items and connectors.
type Snapshot struct {
	Items      []Item
	Connectors Connectors
}

func newSnapshot(items []Item, connectors Connectors) Snapshot {
	return Snapshot{Items: copyItems(items), Connectors: connectors.clone()}
}

// Clone returns a copy that shares nothing with s.
func (s Snapshot) Clone() Snapshot {
	return newSnapshot(s.Items, s.Connectors)
}

// History is a linear undo/redo log with a cursor on the current state.
type History struct {
	entries []Snapshot
	cursor  int
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{cursor: -1}
}

// Push records a new current state. Anything after the cursor is dropped
// first, so redo is lost once a new action follows an undo.
func (h *History) Push(items []Item, connectors Connectors) {
	if h.cursor < len(h.entries)-1 {
		h.entries = h.entries[:h.cursor+1]
	}
	h.entries = append(h.entries, newSnapshot(items, connectors))
	h.cursor = len(h.entries) - 1
}

// Undo steps back one entry. It returns false at the first entry.
func (h *History) Undo() (Snapshot, bool) {
	if h.cursor <= 0 {
		return Snapshot{}, false
	}
	h.cursor--
	return h.entries[h.cursor].Clone(), true
}

// Redo steps forward one entry. It returns false at the last entry.
func (h *History) Redo() (Snapshot, bool) {
	if h.cursor < 0 || h.cursor >= len(h.entries)-1 {
		return Snapshot{}, false
	}
	h.cursor++
	return h.entries[h.cursor].Clone(), true
}

// CanUndo reports whether Undo would move the cursor.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether Redo would move the cursor.
func (h *History) CanRedo() bool { return h.cursor >= 0 && h.cursor < len(h.entries)-1 }

// Len returns the number of entries.
func (h *History) Len() int { return len(h.entries) }

// Cursor returns the index of the current entry, or -1 when empty.
func (h *History) Cursor() int { return h.cursor }
