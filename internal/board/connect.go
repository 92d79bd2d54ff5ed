package board

import "heelos/internal/geom"

// Connect is a connector being drawn from Source. End is the preview end
// point, valid once HasEnd is set.
type Connect struct {
	Source Key
	End    geom.Position
	HasEnd bool

	// arming is true while the press that opened the connection is held.
	arming bool
	// moved records motion during the arming press: a press-drag-release
	// commits on release, a plain click leaves the connection armed.
	moved bool
	// pressed is true while a later press is held.
	pressed bool
}

// ValidateConnection checks a drop of source onto target. found is false
// when the release point hit no item. A nil result means the connector may
// be added.
func ValidateConnection(items []Item, connectors Connectors, source, target Key, found bool) error {
	if !found {
		return ErrNoTarget
	}
	if source == target {
		return ErrSelfLoop
	}
	from, ok := findItem(items, source)
	if !ok || !from.Linkable() {
		return ErrNotLinkable
	}
	to, ok := findItem(items, target)
	if !ok || !to.Linkable() {
		return ErrNotLinkable
	}
	if connectors.Exists(source, target) {
		return ErrDuplicateConnector
	}
	return nil
}

func findItem(items []Item, key Key) (Item, bool) {
	for _, it := range items {
		if it.Key == key {
			return it, true
		}
	}
	return Item{}, false
}
