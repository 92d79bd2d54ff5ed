package render

import (
	"bufio"
	"io"
	"math"
	"os"
	"strings"

	"heelos/internal/board"
)

// Text writes a board as plain characters, drawn as the terminal shows it
// but without colors, selection or an open edit.
type Text struct {
	Terminal *Terminal
}

// NewText returns an exporter using the default bodies.
func NewText() *Text {
	return &Text{Terminal: &Terminal{Bodies: DefaultBodies()}}
}

// Write draws b from the board origin, so items keep their on-screen
// columns. Trailing blanks are dropped from every line and from the end.
func (x *Text) Write(w io.Writer, b *board.Board) error {
	area, err := bounds(b)
	if err != nil {
		return err
	}
	term := Terminal{}
	if x.Terminal != nil {
		term = *x.Terminal
	}
	term.ShowGrid = false

	br := area.Max()
	width, height := int(math.Ceil(br.X)), int(math.Ceil(br.Y))
	lines := term.draw(b, max(width, 1), max(height, 1), false).Plain()
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	bw := bufio.NewWriter(w)
	for _, line := range lines {
		bw.WriteString(line)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Save writes b to filename.
func (x *Text) Save(b *board.Board, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := x.Write(f, b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
