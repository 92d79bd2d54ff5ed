package layout

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heelos/internal/board"
	"heelos/internal/geom"
)

func sampleBoard() ([]board.Item, board.Connectors) {
	items := []board.Item{
		{Key: "a", Position: geom.Position{X: 1, Y: 2}, Color: "#ef4444", Body: board.Task{Name: "Write", Schedule: "Work"}},
		{Key: "b", Position: geom.Position{X: 30, Y: 4}, Body: board.Task{Name: "Review"}},
		{Key: "n", Position: geom.Position{X: 5, Y: 12}, Body: board.Note{Text: "line one\nline two"}},
	}
	return items, board.Connectors{}.Add("a", "b", "#3b82f6")
}

func TestSaveLoad(t *testing.T) {
	items, conns := sampleBoard()
	path := filepath.Join(t.TempDir(), "board.yaml")

	require.NoError(t, Save(path, FromBoard(items, conns)))
	doc, err := Load(path)
	require.NoError(t, err)

	gotItems, gotConns, err := doc.Board()
	require.NoError(t, err)
	assert.Equal(t, items, gotItems)
	assert.Equal(t, conns, gotConns)
}

func TestEncodedShape(t *testing.T) {
	items, conns := sampleBoard()
	var sb strings.Builder
	require.NoError(t, Encode(&sb, FromBoard(items, conns)))
	out := sb.String()

	assert.True(t, strings.HasPrefix(out, "kind: heelos-board\nversion: 1\n"))
	assert.Contains(t, out, "type: task")
	assert.Contains(t, out, "type: note")
	assert.Contains(t, out, "from: a")
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"wrong kind", "kind: flowchart\nversion: 1\nitems: []\n"},
		{"wrong version", "kind: heelos-board\nversion: 2\nitems: []\n"},
		{"unknown field", "kind: heelos-board\nversion: 1\nitems: []\npan: 3\n"},
		{"not yaml", "kind: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.in))
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestBoardRejectsBadItems(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
	}{
		{"missing key", []Item{{Type: TypeTask}}},
		{"duplicate key", []Item{{Key: "a", Type: TypeTask}, {Key: "a", Type: TypeNote}}},
		{"unknown type", []Item{{Key: "a", Type: "widget"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Document{Kind: Kind, Version: Version, Items: tt.items}
			_, _, err := doc.Board()
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadedLayoutBuildsBoard(t *testing.T) {
	in := `kind: heelos-board
version: 1
items:
  - key: a
    type: task
    x: 0
    y: 0
    name: A
  - key: b
    type: task
    x: 200
    y: 0
    name: B
  - key: n
    type: note
    x: 0
    y: 100
    text: hi
connectors:
  - from: a
    to: b
  - from: a
    to: n
`
	doc, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	items, conns, err := doc.Board()
	require.NoError(t, err)

	b, err := board.New(board.DefaultConfig(), items, conns)
	require.NoError(t, err)
	assert.Len(t, b.Items(), 3)
	require.Len(t, b.Connectors(), 1, "edge to a note is dropped")
	assert.NotEmpty(t, b.Connectors()[0].Color)
}
