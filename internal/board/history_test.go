package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func note(key Key, text string) Item {
	return Item{Key: key, Body: Note{Text: text}}
}

func TestHistoryLinearity(t *testing.T) {
	h := NewHistory()
	h.Push([]Item{note("s1", "")}, nil)
	h.Push([]Item{note("s2", "")}, nil)
	h.Push([]Item{note("s3", "")}, nil)

	_, ok := h.Undo()
	require.True(t, ok)
	snap, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, Key("s1"), snap.Items[0].Key)

	h.Push([]Item{note("s4", "")}, nil)
	assert.Equal(t, 2, h.Len())
	assert.False(t, h.CanRedo())

	_, ok = h.Redo()
	assert.False(t, ok)

	snap, ok = h.Undo()
	require.True(t, ok)
	assert.Equal(t, Key("s1"), snap.Items[0].Key)
	snap, ok = h.Redo()
	require.True(t, ok)
	assert.Equal(t, Key("s4"), snap.Items[0].Key)
}

func TestHistoryBounds(t *testing.T) {
	h := NewHistory()

	_, ok := h.Undo()
	assert.False(t, ok, "undo on empty history")
	_, ok = h.Redo()
	assert.False(t, ok, "redo on empty history")
	assert.Equal(t, -1, h.Cursor())

	h.Push(nil, nil)
	_, ok = h.Undo()
	assert.False(t, ok, "undo at cursor 0")
	assert.Equal(t, 0, h.Cursor())

	h.Push(nil, nil)
	_, ok = h.Redo()
	assert.False(t, ok, "redo at last entry")
	assert.Equal(t, 1, h.Cursor())
}

func TestHistorySnapshotsAreCopies(t *testing.T) {
	items := []Item{note("a", "one")}
	conns := Connectors{}.Add("x", "y", "#000")
	h := NewHistory()
	h.Push(items, conns)
	h.Push(nil, nil)

	items[0].Body = Note{Text: "changed"}
	conns[0].Color = "#fff"

	snap, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, "one", snap.Items[0].Label())
	assert.Equal(t, "#000", snap.Connectors[0].Color)

	snap.Items[0].Key = "mutated"
	h.Redo()
	again, _ := h.Undo()
	assert.Equal(t, Key("a"), again.Items[0].Key)
}
