// Package render draws a board: to terminal cells for the interactive front
// end, and to PNG or SVG for export.
package render

import (
	"errors"
	"strings"

	"heelos/internal/board"
)

// ErrEmpty is returned when an export has nothing to draw.
var ErrEmpty = errors.New("nothing to export")

// BodyFunc renders the inside of an item as text lines.
type BodyFunc func(board.Item) []string

// Bodies holds one body renderer per item kind.
type Bodies map[board.Kind]BodyFunc

// DefaultBodies shows a task as its name over its schedule and a note as
// its text.
func DefaultBodies() Bodies {
	return Bodies{
		board.KindLinkable: taskBody,
		board.KindNote:     noteBody,
	}
}

func taskBody(it board.Item) []string {
	t, ok := it.Body.(board.Task)
	if !ok {
		return []string{it.Label()}
	}
	if t.Schedule == "" {
		return []string{t.Name}
	}
	return []string{t.Name, "· " + t.Schedule}
}

func noteBody(it board.Item) []string {
	return strings.Split(it.Label(), "\n")
}

// Lines renders it with the renderer for its kind.
func (bs Bodies) Lines(it board.Item) []string {
	fn, ok := bs[it.Kind()]
	if !ok || fn == nil {
		fn = DefaultBodies()[it.Kind()]
	}
	lines := fn(it)
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
