package board

import "heelos/internal/geom"

// Drag is an item being moved by the pointer. Offset is where the pointer
// grabbed the item, so the item does not jump under the pointer.
type Drag struct {
	Key    Key
	Offset geom.Position
}

// StartDrag grabs item at pointer.
func StartDrag(item Item, pointer geom.Position) Drag {
	return Drag{
		Key:    item.Key,
		Offset: pointer.Sub(item.Position),
	}
}

// Place returns the item position for the pointer at pointer: clamped into
// the container for an item of the given size, then snapped to grid.
func (d Drag) Place(pointer geom.Position, container, item geom.Size, grid float64) geom.Position {
	return geom.Snap(geom.Clamp(pointer.Sub(d.Offset), container, item), grid)
}

// Nudge moves pos by delta with the same clamping and snapping as a drag.
func Nudge(pos, delta geom.Position, container, item geom.Size, grid float64) geom.Position {
	return geom.Snap(geom.Clamp(pos.Add(delta), container, item), grid)
}

// Nudge step sizes for arrow keys.
const (
	NudgeStep      = 1.0
	NudgeLargeStep = 10.0
)
