// Package layout reads and writes board layout files: the items with their
// positions and the connectors between them, as versioned YAML.
package layout

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"heelos/internal/board"
	"heelos/internal/geom"
)

// Header values every layout file carries.
const (
	Kind    = "heelos-board"
	Version = 1
)

// Item type tags.
const (
	TypeTask = "task"
	TypeNote = "note"
)

// ErrInvalidFormat is returned for files that are not layouts this version
// can read.
var ErrInvalidFormat = errors.New("invalid layout file")

// Document is the on-disk layout.
type Document struct {
	Kind       string      `yaml:"kind"`
	Version    int         `yaml:"version"`
	Items      []Item      `yaml:"items"`
	Connectors []Connector `yaml:"connectors,omitempty"`
}

// Item is one board item. Name and Schedule are set for tasks, Text for
// notes.
type Item struct {
	Key      string  `yaml:"key"`
	Type     string  `yaml:"type"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Color    string  `yaml:"color,omitempty"`
	Name     string  `yaml:"name,omitempty"`
	Schedule string  `yaml:"schedule,omitempty"`
	Text     string  `yaml:"text,omitempty"`
}

// Connector is one directed edge.
type Connector struct {
	From  string `yaml:"from"`
	To    string `yaml:"to"`
	Color string `yaml:"color,omitempty"`
}

// FromBoard captures items and connectors as a document.
func FromBoard(items []board.Item, connectors board.Connectors) Document {
	doc := Document{Kind: Kind, Version: Version, Items: make([]Item, 0, len(items))}
	for _, it := range items {
		rec := Item{
			Key:   string(it.Key),
			X:     it.Position.X,
			Y:     it.Position.Y,
			Color: it.Color,
		}
		switch body := it.Body.(type) {
		case board.Task:
			rec.Type, rec.Name, rec.Schedule = TypeTask, body.Name, body.Schedule
		case board.Note:
			rec.Type, rec.Text = TypeNote, body.Text
		}
		doc.Items = append(doc.Items, rec)
	}
	for _, c := range connectors {
		doc.Connectors = append(doc.Connectors, Connector{
			From:  string(c.From),
			To:    string(c.To),
			Color: c.Color,
		})
	}
	return doc
}

// Board converts the document back into board values. Connector rules are
// left to board.New, which drops edges that break them.
func (d Document) Board() ([]board.Item, board.Connectors, error) {
	items := make([]board.Item, 0, len(d.Items))
	seen := make(map[string]bool, len(d.Items))
	for i, rec := range d.Items {
		if rec.Key == "" {
			return nil, nil, fmt.Errorf("%w: item %d has no key", ErrInvalidFormat, i)
		}
		if seen[rec.Key] {
			return nil, nil, fmt.Errorf("%w: duplicate key %q", ErrInvalidFormat, rec.Key)
		}
		seen[rec.Key] = true

		it := board.Item{
			Key:      board.Key(rec.Key),
			Position: geom.Position{X: rec.X, Y: rec.Y},
			Color:    rec.Color,
		}
		switch rec.Type {
		case TypeTask:
			it.Body = board.Task{Name: rec.Name, Schedule: rec.Schedule}
		case TypeNote:
			it.Body = board.Note{Text: rec.Text}
		default:
			return nil, nil, fmt.Errorf("%w: item %q has unknown type %q", ErrInvalidFormat, rec.Key, rec.Type)
		}
		items = append(items, it)
	}

	connectors := make(board.Connectors, 0, len(d.Connectors))
	for _, c := range d.Connectors {
		connectors = append(connectors, board.Connector{
			Edge:  board.Edge{From: board.Key(c.From), To: board.Key(c.To)},
			Color: c.Color,
		})
	}
	return items, connectors, nil
}

func (d Document) check() error {
	if d.Kind != Kind {
		return fmt.Errorf("%w: kind %q, want %q", ErrInvalidFormat, d.Kind, Kind)
	}
	if d.Version != Version {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidFormat, d.Version)
	}
	return nil
}

// Encode writes doc as YAML.
func Encode(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	return enc.Close()
}

// Decode reads a layout and checks its header.
func Decode(r io.Reader) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, fmt.Errorf("%w: empty file", ErrInvalidFormat)
		}
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if err := doc.check(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Save writes doc to filename.
func Save(filename string, doc Document) error {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return err
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("save layout: %w", err)
	}
	return nil
}

// Load reads a layout from filename.
func Load(filename string) (Document, error) {
	f, err := os.Open(filename)
	if err != nil {
		return Document{}, fmt.Errorf("open layout: %w", err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", filename, err)
	}
	return doc, nil
}
