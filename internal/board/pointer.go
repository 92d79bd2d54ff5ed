package board

import (
	"go.uber.org/zap"

	"heelos/internal/geom"
)

// Phase is the stage of a pointer gesture. Mouse and touch input map onto
// the same phases.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseMove
	PhaseEnd
	PhaseCancel
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseMove:
		return "move"
	case PhaseEnd:
		return "end"
	case PhaseCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// TargetKind tells what a pointer event landed on.
type TargetKind int

const (
	TargetCanvas TargetKind = iota
	TargetItem
	TargetAffordance
	TargetConnector
)

// Target is what the renderer found under the pointer.
type Target struct {
	Kind TargetKind
	Item Key
	Edge Edge
}

// OnCanvas is empty board space.
func OnCanvas() Target { return Target{Kind: TargetCanvas} }

// OnItem is an item body.
func OnItem(key Key) Target { return Target{Kind: TargetItem, Item: key} }

// OnAffordance is the connection control of a linkable item.
func OnAffordance(key Key) Target { return Target{Kind: TargetAffordance, Item: key} }

// OnConnector is a connector path.
func OnConnector(e Edge) Target { return Target{Kind: TargetConnector, Edge: e} }

// PointerEvent is one mouse or touch event in container coordinates.
type PointerEvent struct {
	Phase  Phase
	Pos    geom.Position
	Target Target
}

// HandlePointer feeds one pointer event through the interaction state.
func (b *Board) HandlePointer(ev PointerEvent) {
	switch st := b.state.(type) {
	case idleState:
		if ev.Phase == PhaseStart {
			b.press(ev)
		}
	case *editState:
		if ev.Phase != PhaseStart {
			return
		}
		if ev.Target.Kind == TargetItem && ev.Target.Item == st.key {
			return
		}
		b.CommitEdit()
		b.press(ev)
	case *dragState:
		b.dragEvent(st, ev)
	case *connectState:
		b.connectEvent(st, ev)
	}
}

func (b *Board) press(ev PointerEvent) {
	switch ev.Target.Kind {
	case TargetAffordance:
		if b.startConnect(ev.Target.Item, true) {
			return
		}
		// A note has no affordance; treat the press as a press on the body.
		b.pressItem(ev.Target.Item, ev.Pos)
	case TargetItem:
		b.pressItem(ev.Target.Item, ev.Pos)
	case TargetConnector:
		if !b.SelectConnector(ev.Target.Edge) {
			b.ClearSelection()
		}
	default:
		b.ClearSelection()
	}
}

func (b *Board) pressItem(key Key, pos geom.Position) {
	i, ok := b.index[key]
	if !ok {
		b.ClearSelection()
		return
	}
	b.selection = Selection{Kind: SelectItem, Item: key}
	b.state = &dragState{drag: StartDrag(b.items[i], pos)}
	b.acquire()
}

func (b *Board) dragEvent(st *dragState, ev PointerEvent) {
	switch ev.Phase {
	case PhaseMove:
		i, ok := b.index[st.drag.Key]
		if !ok {
			b.toIdle()
			return
		}
		next := st.drag.Place(ev.Pos, b.cfg.Container, b.size(b.items[i]), b.cfg.GridSize)
		if next == b.items[i].Position {
			return
		}
		b.items[i].Position = next
		b.notifyItems()
	case PhaseEnd, PhaseCancel:
		// The final position is recorded even when the item did not move.
		b.toIdle()
		b.commit()
	}
}

// startConnect enters Connecting from key's affordance. held is true when a
// pointer press is still down on the affordance.
func (b *Board) startConnect(key Key, held bool) bool {
	it, ok := b.Item(key)
	if !ok || !it.Linkable() {
		return false
	}
	b.selection = Selection{}
	b.state = &connectState{conn: Connect{Source: key, arming: held}}
	b.acquire()
	return true
}

// ToggleAffordance activates key's connection control without a pointer.
// Activating it again, or on the source of the current connection, cancels.
// The connection is then completed by the next pointer press and release.
func (b *Board) ToggleAffordance(key Key) bool {
	switch st := b.state.(type) {
	case *connectState:
		if st.conn.Source == key {
			b.cancelConnect()
			return true
		}
		return false
	case *editState:
		b.CommitEdit()
	case idleState:
	default:
		return false
	}
	return b.startConnect(key, false)
}

func (b *Board) connectEvent(st *connectState, ev PointerEvent) {
	c := &st.conn
	switch ev.Phase {
	case PhaseStart:
		if ev.Target.Kind == TargetAffordance && ev.Target.Item == c.Source {
			b.cancelConnect()
			return
		}
		c.pressed = true
		c.End, c.HasEnd = ev.Pos, true
	case PhaseMove:
		c.End, c.HasEnd = ev.Pos, true
		if c.arming {
			c.moved = true
		}
	case PhaseEnd:
		c.End, c.HasEnd = ev.Pos, true
		switch {
		case c.arming && !c.moved:
			c.arming = false
		case c.arming, c.pressed:
			b.finishConnect(c.Source, ev.Pos)
		}
	case PhaseCancel:
		b.cancelConnect()
	}
}

func (b *Board) finishConnect(source Key, at geom.Position) {
	b.toIdle()
	target, found := b.HitTest(at)
	if err := ValidateConnection(b.items, b.connectors, source, target, found); err != nil {
		b.log.Debug("connector rejected",
			zap.String("from", string(source)),
			zap.String("to", string(target)),
			zap.Error(err))
		return
	}
	b.connectors = b.connectors.Add(source, target, b.palette.Pick())
	b.commit()
}

func (b *Board) cancelConnect() {
	if _, ok := b.state.(*connectState); ok {
		b.toIdle()
	}
}
