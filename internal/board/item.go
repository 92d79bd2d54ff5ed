package board

import (
	"github.com/google/uuid"

	"heelos/internal/geom"
)

// Key identifies an item within one board.
type Key string

// NewKey returns a fresh random key.
func NewKey() Key {
	return Key(uuid.NewString())
}

// Kind is the item discriminant.
type Kind int

const (
	// KindLinkable items take part in connectors.
	KindLinkable Kind = iota
	// KindNote items carry free text and never take part in connectors.
	KindNote
)

func (k Kind) String() string {
	switch k {
	case KindLinkable:
		return "linkable"
	case KindNote:
		return "note"
	default:
		return "unknown"
	}
}

// Body is the kind-specific payload of an item. It is implemented only by
// Task and Note.
type Body interface {
	Kind() Kind
	sealed()
}

// Task is the payload of a linkable item.
type Task struct {
	Name     string
	Schedule string
}

// Kind implements Body.
func (Task) Kind() Kind { return KindLinkable }
func (Task) sealed()    {}

// Note is the payload of a free-text item.
type Note struct {
	Text string
}

// Kind implements Body.
func (Note) Kind() Kind { return KindNote }
func (Note) sealed()    {}

// Item is a keyed, positioned card on the board.
type Item struct {
	Key      Key
	Position geom.Position
	Color    string
	Body     Body
}

// Kind returns the kind of the item's body.
func (it Item) Kind() Kind {
	if it.Body == nil {
		return KindNote
	}
	return it.Body.Kind()
}

// Linkable reports whether the item can be a connector endpoint.
func (it Item) Linkable() bool {
	return it.Body != nil && it.Body.Kind() == KindLinkable
}

// Label returns the text shown for the item: the task name or the note text.
func (it Item) Label() string {
	switch b := it.Body.(type) {
	case Task:
		return b.Name
	case Note:
		return b.Text
	default:
		return ""
	}
}

func copyItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
