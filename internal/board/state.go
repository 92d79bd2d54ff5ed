package board

// Mode is the board's interaction state.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDragging
	ModeConnecting
	ModeEditingText
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeDragging:
		return "dragging"
	case ModeConnecting:
		return "connecting"
	case ModeEditingText:
		return "editing"
	default:
		return "unknown"
	}
}

// state is one of idleState, *dragState, *connectState or *editState. Only
// the active gesture's data exists, so two gestures can never overlap.
type state interface {
	mode() Mode
}

type idleState struct{}

func (idleState) mode() Mode { return ModeIdle }

type dragState struct {
	drag Drag
}

func (*dragState) mode() Mode { return ModeDragging }

type connectState struct {
	conn Connect
}

func (*connectState) mode() Mode { return ModeConnecting }

type editState struct {
	key      Key
	draft    string
	original string
}

func (*editState) mode() Mode { return ModeEditingText }

// SelectionKind tells which kind of thing is selected.
type SelectionKind int

const (
	SelectNone SelectionKind = iota
	SelectItem
	SelectConnector
)

// Selection holds at most one selected item or connector.
type Selection struct {
	Kind      SelectionKind
	Item      Key
	Connector Edge
}

// IsItem reports whether key is the selected item.
func (s Selection) IsItem(key Key) bool {
	return s.Kind == SelectItem && s.Item == key
}

// IsConnector reports whether e is the selected connector.
func (s Selection) IsConnector(e Edge) bool {
	return s.Kind == SelectConnector && s.Connector == e
}
