// Package board is the free-form task board: keyed items placed anywhere in
// a container, directed connectors between linkable items, pointer and
// keyboard manipulation, and undo/redo over whole-board snapshots.
//
// A Board is driven from a single event loop. It is not safe for concurrent
// use.
package board

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"heelos/internal/geom"
)

// Config sizes the board.
type Config struct {
	// Container is the area items are clamped into.
	Container geom.Size
	// GridSize is the snap increment. It must be positive.
	GridSize float64
	// DefaultItemSize is used for items the Measurer cannot size.
	DefaultItemSize geom.Size
	// CascadeStep offsets each new item from the previous one.
	CascadeStep float64
}

// DefaultConfig returns the pixel-space defaults.
func DefaultConfig() Config {
	return Config{
		Container:       geom.Size{Width: 800, Height: 600},
		GridSize:        10,
		DefaultItemSize: geom.Size{Width: 150, Height: 50},
		CascadeStep:     20,
	}
}

// Validate reports a config New would reject.
func (c Config) Validate() error {
	if err := geom.ValidateGrid(c.GridSize); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Container.Width < 0 || c.Container.Height < 0 {
		return fmt.Errorf("%w: negative container %gx%g", ErrInvalidConfig, c.Container.Width, c.Container.Height)
	}
	if c.DefaultItemSize.Width <= 0 || c.DefaultItemSize.Height <= 0 {
		return fmt.Errorf("%w: default item size must be positive", ErrInvalidConfig)
	}
	return nil
}

// Measurer reports the rendered size of an item. ok is false when the item
// cannot be measured.
type Measurer interface {
	Measure(item Item) (size geom.Size, ok bool)
}

// MeasureFunc adapts a function to Measurer.
type MeasureFunc func(Item) (geom.Size, bool)

// Measure implements Measurer.
func (f MeasureFunc) Measure(it Item) (geom.Size, bool) { return f(it) }

// Capturer is the pointer capture held for the length of a gesture. Acquire
// is called when a drag or connection starts and Release on every way out
// of it.
type Capturer interface {
	Acquire()
	Release()
}

type nopCapturer struct{}

func (nopCapturer) Acquire() {}
func (nopCapturer) Release() {}

// Option configures a Board.
type Option func(*Board)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(b *Board) {
		if log != nil {
			b.log = log
		}
	}
}

// WithMeasurer sets how item sizes are measured.
func WithMeasurer(m Measurer) Option {
	return func(b *Board) { b.measurer = m }
}

// WithCapturer sets the pointer capture.
func WithCapturer(c Capturer) Option {
	return func(b *Board) {
		if c != nil {
			b.capture = c
		}
	}
}

// WithPalette sets the connector palette.
func WithPalette(p *Palette) Option {
	return func(b *Board) {
		if p != nil {
			b.palette = p
		}
	}
}

// WithKeyGen sets the key generator used by AddTask and AddNote.
func WithKeyGen(gen func() Key) Option {
	return func(b *Board) {
		if gen != nil {
			b.newKey = gen
		}
	}
}

// OnItemsChange registers the callback that receives the full item
// collection after every change.
func OnItemsChange(fn func([]Item)) Option {
	return func(b *Board) { b.onItems = fn }
}

// OnConnectorsChange registers the callback that receives the full
// connector collection after every change.
func OnConnectorsChange(fn func(Connectors)) Option {
	return func(b *Board) { b.onConnectors = fn }
}

// Board owns the items and connectors and applies gestures to them.
type Board struct {
	cfg Config

	items      []Item
	index      map[Key]int
	connectors Connectors
	history    *History

	selection Selection
	state     state
	captured  bool

	measurer     Measurer
	capture      Capturer
	palette      *Palette
	newKey       func() Key
	log          *zap.Logger
	onItems      func([]Item)
	onConnectors func(Connectors)
}

// New builds a board over items and connectors and records the starting
// state as the first history entry. Connectors without a color get one from
// the palette; connectors that break the connector rules are dropped.
func New(cfg Config, items []Item, connectors Connectors, opts ...Option) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &Board{
		cfg:     cfg,
		history: NewHistory(),
		state:   idleState{},
		capture: nopCapturer{},
		palette: DefaultPalette(),
		newKey:  NewKey,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if err := b.load(items, connectors); err != nil {
		return nil, err
	}
	b.history.Push(b.items, b.connectors)
	return b, nil
}

func (b *Board) load(items []Item, connectors Connectors) error {
	index := make(map[Key]int, len(items))
	loaded := make([]Item, 0, len(items))
	for _, it := range items {
		if err := validateItem(it); err != nil {
			return err
		}
		if _, dup := index[it.Key]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateKey, it.Key)
		}
		index[it.Key] = len(loaded)
		loaded = append(loaded, it)
	}

	kept := make(Connectors, 0, len(connectors))
	for _, c := range connectors {
		if err := ValidateConnection(loaded, kept, c.From, c.To, true); err != nil {
			b.log.Warn("dropping initial connector",
				zap.String("from", string(c.From)),
				zap.String("to", string(c.To)),
				zap.Error(err))
			continue
		}
		color := c.Color
		if color == "" {
			color = b.palette.Pick()
		}
		kept = kept.Add(c.From, c.To, color)
	}

	b.items = loaded
	b.index = index
	b.connectors = kept
	return nil
}

func validateItem(it Item) error {
	if it.Key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidItem)
	}
	if it.Body == nil {
		return fmt.Errorf("%w: %q has no body", ErrInvalidItem, it.Key)
	}
	if !it.Position.IsFinite() {
		return fmt.Errorf("%w: %q has position %v", ErrInvalidItem, it.Key, it.Position)
	}
	return nil
}

// SetContainer resizes the container. Items left outside a smaller
// container are clamped back in, recorded as a single history entry. A zero
// dimension leaves items alone.
func (b *Board) SetContainer(size geom.Size) error {
	if size.Width < 0 || size.Height < 0 {
		return fmt.Errorf("%w: negative container %gx%g", ErrInvalidConfig, size.Width, size.Height)
	}
	b.cfg.Container = size
	if size.Width == 0 || size.Height == 0 {
		return nil
	}
	moved := 0
	for i, it := range b.items {
		next := geom.Clamp(it.Position, size, b.size(it))
		// An item larger than the container stays pinned to the top left.
		next.X = math.Max(next.X, 0)
		next.Y = math.Max(next.Y, 0)
		if next != it.Position {
			b.items[i].Position = next
			moved++
		}
	}
	if moved > 0 {
		b.log.Debug("clamped items into container", zap.Int("moved", moved), zap.Float64("width", size.Width), zap.Float64("height", size.Height))
		b.commit()
	}
	return nil
}

// Items returns a copy of the items in insertion order.
func (b *Board) Items() []Item { return copyItems(b.items) }

// Item looks up one item.
func (b *Board) Item(key Key) (Item, bool) {
	i, ok := b.index[key]
	if !ok {
		return Item{}, false
	}
	return b.items[i], true
}

// Connectors returns a copy of the connectors.
func (b *Board) Connectors() Connectors { return b.connectors.clone() }

// Selection returns the current selection.
func (b *Board) Selection() Selection { return b.selection }

// Mode returns the interaction state.
func (b *Board) Mode() Mode { return b.state.mode() }

// CanUndo reports whether Undo would change the board.
func (b *Board) CanUndo() bool { return b.history.CanUndo() }

// CanRedo reports whether Redo would change the board.
func (b *Board) CanRedo() bool { return b.history.CanRedo() }

// HistoryLen returns the number of recorded snapshots.
func (b *Board) HistoryLen() int { return b.history.Len() }

// ConnectingFrom returns the source of the connection being drawn.
func (b *Board) ConnectingFrom() (Key, bool) {
	if st, ok := b.state.(*connectState); ok {
		return st.conn.Source, true
	}
	return "", false
}

// Editing returns the note being edited and its draft text.
func (b *Board) Editing() (Key, string, bool) {
	if st, ok := b.state.(*editState); ok {
		return st.key, st.draft, true
	}
	return "", "", false
}

func (b *Board) size(it Item) geom.Size {
	if b.measurer != nil {
		if s, ok := b.measurer.Measure(it); ok && s.Width > 0 && s.Height > 0 {
			return s
		}
	}
	return b.cfg.DefaultItemSize
}

// Bounds returns the rendered box of an item.
func (b *Board) Bounds(key Key) (geom.Rect, bool) {
	it, ok := b.Item(key)
	if !ok {
		return geom.Rect{}, false
	}
	return geom.Rect{Min: it.Position, Size: b.size(it)}, true
}

// Center returns the middle of an item's rendered box.
func (b *Board) Center(key Key) (geom.Position, bool) {
	r, ok := b.Bounds(key)
	if !ok {
		return geom.Position{}, false
	}
	return r.Center(), true
}

// HitTest returns the first item, in insertion order, whose box contains p.
func (b *Board) HitTest(p geom.Position) (Key, bool) {
	for _, it := range b.items {
		if (geom.Rect{Min: it.Position, Size: b.size(it)}).Contains(p) {
			return it.Key, true
		}
	}
	return "", false
}

// Path is a connector ready to draw.
type Path struct {
	Connector
	Curve    geom.Cubic
	Selected bool
}

// Paths returns one curve per connector, from source center to target center.
func (b *Board) Paths() []Path {
	paths := make([]Path, 0, len(b.connectors))
	for _, c := range b.connectors {
		from, ok := b.Center(c.From)
		if !ok {
			continue
		}
		to, ok := b.Center(c.To)
		if !ok {
			continue
		}
		paths = append(paths, Path{
			Connector: c,
			Curve:     geom.Curve(from, to),
			Selected:  b.selection.IsConnector(c.Edge),
		})
	}
	return paths
}

// Preview returns the dashed curve from the connection source to the
// pointer while a connection is being drawn.
func (b *Board) Preview() (geom.Cubic, bool) {
	st, ok := b.state.(*connectState)
	if !ok || !st.conn.HasEnd {
		return geom.Cubic{}, false
	}
	from, ok := b.Center(st.conn.Source)
	if !ok {
		return geom.Cubic{}, false
	}
	return geom.Curve(from, st.conn.End), true
}

// SelectItem selects key and clears any connector selection.
func (b *Board) SelectItem(key Key) bool {
	if _, ok := b.index[key]; !ok {
		return false
	}
	b.selection = Selection{Kind: SelectItem, Item: key}
	return true
}

// SelectConnector selects e and clears any item selection.
func (b *Board) SelectConnector(e Edge) bool {
	if !b.connectors.Exists(e.From, e.To) {
		return false
	}
	b.selection = Selection{Kind: SelectConnector, Connector: e}
	return true
}

// ClearSelection drops the selection.
func (b *Board) ClearSelection() {
	b.selection = Selection{}
}

// AddItem places a new item and records it in history.
func (b *Board) AddItem(it Item) error {
	if err := validateItem(it); err != nil {
		return err
	}
	if _, dup := b.index[it.Key]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, it.Key)
	}
	b.index[it.Key] = len(b.items)
	b.items = append(b.items, it)
	b.commit()
	return nil
}

// AddTask places a linkable item for a task at the next cascade position.
// A task whose name is already on the board is not added again; its key is
// returned with added set to false.
func (b *Board) AddTask(name, schedule, color string) (key Key, added bool) {
	for _, it := range b.items {
		if t, ok := it.Body.(Task); ok && t.Name == name {
			return it.Key, false
		}
	}
	it := Item{Key: b.uniqueKey(), Color: color, Body: Task{Name: name, Schedule: schedule}}
	it.Position = b.cascade(it)
	if err := b.AddItem(it); err != nil {
		b.log.Error("add task", zap.Error(err))
		return "", false
	}
	return it.Key, true
}

// AddNote places a note at the next cascade position.
func (b *Board) AddNote(text, color string) Key {
	it := Item{Key: b.uniqueKey(), Color: color, Body: Note{Text: text}}
	it.Position = b.cascade(it)
	if err := b.AddItem(it); err != nil {
		b.log.Error("add note", zap.Error(err))
		return ""
	}
	return it.Key
}

func (b *Board) uniqueKey() Key {
	for {
		k := b.newKey()
		if _, taken := b.index[k]; !taken && k != "" {
			return k
		}
	}
}

func (b *Board) cascade(it Item) geom.Position {
	n := float64(len(b.items))
	p := geom.Position{X: b.cfg.CascadeStep * n, Y: b.cfg.CascadeStep * n}
	return geom.Snap(geom.Clamp(p, b.cfg.Container, b.size(it)), b.cfg.GridSize)
}

// RemoveItem deletes an item and every connector touching it.
func (b *Board) RemoveItem(key Key) bool {
	i, ok := b.index[key]
	if !ok {
		return false
	}
	if b.gestureInvolves(key) {
		b.toIdle()
	}
	b.items = append(b.items[:i:i], b.items[i+1:]...)
	b.reindex()
	b.connectors = b.connectors.RemoveInvolving(key)
	if b.selection.IsItem(key) {
		b.selection = Selection{}
	}
	if b.selection.Kind == SelectConnector && !b.connectors.Exists(b.selection.Connector.From, b.selection.Connector.To) {
		b.selection = Selection{}
	}
	b.commit()
	return true
}

// RemoveConnector deletes the connector e.
func (b *Board) RemoveConnector(e Edge) bool {
	if !b.connectors.Exists(e.From, e.To) {
		return false
	}
	b.connectors = b.connectors.RemoveBetween(e.From, e.To)
	if b.selection.IsConnector(e) {
		b.selection = Selection{}
	}
	b.commit()
	return true
}

// Connect adds a connector from -> to under the same rules as a drop.
func (b *Board) Connect(from, to Key) error {
	if _, ok := b.index[from]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, from)
	}
	_, found := b.index[to]
	if err := ValidateConnection(b.items, b.connectors, from, to, found); err != nil {
		return err
	}
	b.connectors = b.connectors.Add(from, to, b.palette.Pick())
	b.commit()
	return nil
}

// DeleteSelection removes the selected connector, or the selected item with
// its connectors. It returns false when nothing is selected.
func (b *Board) DeleteSelection() bool {
	switch b.selection.Kind {
	case SelectConnector:
		return b.RemoveConnector(b.selection.Connector)
	case SelectItem:
		return b.RemoveItem(b.selection.Item)
	default:
		return false
	}
}

// Reset replaces the whole board and records the result in history.
func (b *Board) Reset(items []Item, connectors Connectors) error {
	prevItems, prevIndex, prevConns := b.items, b.index, b.connectors
	if err := b.load(items, connectors); err != nil {
		b.items, b.index, b.connectors = prevItems, prevIndex, prevConns
		return err
	}
	b.toIdle()
	b.selection = Selection{}
	b.commit()
	return nil
}

// Undo restores the previous snapshot. It returns false at the oldest one.
func (b *Board) Undo() bool {
	snap, ok := b.history.Undo()
	if !ok {
		return false
	}
	b.apply(snap)
	b.log.Debug("undo", zap.Int("cursor", b.history.Cursor()))
	return true
}

// Redo restores the next snapshot. It returns false at the newest one.
func (b *Board) Redo() bool {
	snap, ok := b.history.Redo()
	if !ok {
		return false
	}
	b.apply(snap)
	b.log.Debug("redo", zap.Int("cursor", b.history.Cursor()))
	return true
}

func (b *Board) apply(snap Snapshot) {
	b.toIdle()
	b.items = snap.Items
	b.connectors = snap.Connectors
	b.reindex()
	b.selection = Selection{}
	b.notify()
}

// Nudge moves the selected item by (dx, dy) and records one history entry
// per call, also when clamping leaves the item in place. It does nothing
// unless the board is idle with an item selected.
func (b *Board) Nudge(dx, dy float64) bool {
	if b.state.mode() != ModeIdle || b.selection.Kind != SelectItem {
		return false
	}
	i, ok := b.index[b.selection.Item]
	if !ok {
		return false
	}
	it := b.items[i]
	b.items[i].Position = Nudge(it.Position, geom.Position{X: dx, Y: dy}, b.cfg.Container, b.size(it), b.cfg.GridSize)
	b.commit()
	return true
}

// BeginEdit opens a note for text editing. An edit already open on another
// note is committed first.
func (b *Board) BeginEdit(key Key) bool {
	it, ok := b.Item(key)
	if !ok || it.Kind() != KindNote {
		return false
	}
	switch st := b.state.(type) {
	case *editState:
		if st.key == key {
			return true
		}
		b.CommitEdit()
	case idleState:
	default:
		return false
	}
	text := it.Label()
	b.state = &editState{key: key, draft: text, original: text}
	b.selection = Selection{Kind: SelectItem, Item: key}
	return true
}

// SetDraft replaces the draft text of the open edit.
func (b *Board) SetDraft(text string) bool {
	st, ok := b.state.(*editState)
	if !ok {
		return false
	}
	st.draft = text
	return true
}

// CommitEdit writes the draft back to the note and closes the edit. One
// history entry is recorded when the text changed.
func (b *Board) CommitEdit() bool {
	st, ok := b.state.(*editState)
	if !ok {
		return false
	}
	b.state = idleState{}
	if st.draft == st.original {
		return false
	}
	i, ok := b.index[st.key]
	if !ok {
		return false
	}
	b.items[i].Body = Note{Text: st.draft}
	b.commit()
	return true
}

// DoubleClick opens the note under key for editing.
func (b *Board) DoubleClick(key Key) bool {
	return b.BeginEdit(key)
}

func (b *Board) gestureInvolves(key Key) bool {
	switch st := b.state.(type) {
	case *dragState:
		return st.drag.Key == key
	case *connectState:
		return st.conn.Source == key
	case *editState:
		return st.key == key
	}
	return false
}

// toIdle drops any gesture or edit without committing it.
func (b *Board) toIdle() {
	b.state = idleState{}
	b.release()
}

func (b *Board) acquire() {
	if b.captured {
		return
	}
	b.captured = true
	b.capture.Acquire()
}

func (b *Board) release() {
	if !b.captured {
		return
	}
	b.captured = false
	b.capture.Release()
}

func (b *Board) reindex() {
	b.index = make(map[Key]int, len(b.items))
	for i, it := range b.items {
		b.index[it.Key] = i
	}
}

// commit records the current state and tells the caller.
func (b *Board) commit() {
	b.history.Push(b.items, b.connectors)
	b.notify()
}

func (b *Board) notify() {
	b.notifyItems()
	if b.onConnectors != nil {
		b.onConnectors(b.connectors.clone())
	}
}

func (b *Board) notifyItems() {
	if b.onItems != nil {
		b.onItems(copyItems(b.items))
	}
}
