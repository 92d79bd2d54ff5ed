// Package tui runs the board in a terminal with bubbletea. Mouse gestures
// and keys are translated into board events; single-letter commands cover
// the file, clipboard and schedule operations around the board.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"heelos/internal/board"
	"heelos/internal/config"
	"heelos/internal/geom"
	"heelos/internal/render"
	"heelos/internal/schedule"
)

type Mode int

const (
	ModeBoard Mode = iota
	ModeEdit
	ModePicker
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpSave FileOperation = iota
	FileOpOpen
	FileOpExportPNG
	FileOpExportSVG
	FileOpExportTXT
)

type ConfirmAction int

const (
	ConfirmQuit ConfirmAction = iota
	ConfirmReset
	ConfirmOverwrite
)

const (
	// doubleClickWindow is the longest gap between two presses on the same
	// item that still opens it for editing.
	doubleClickWindow = 400 * time.Millisecond
	editorHeight      = 4
	// Used before the first WindowSizeMsg arrives.
	fallbackWidth  = 80
	fallbackHeight = 24
)

// Options configures a Model.
type Options struct {
	Config *config.Config
	Logger *zap.Logger
	// Entries are the schedule tasks offered by the task picker.
	Entries []schedule.Entry
	// Items and Connectors seed the board, usually from a layout file.
	Items      []board.Item
	Connectors board.Connectors
	// Filename is the layout the board was loaded from, if any.
	Filename  string
	Clipboard Clipboard
	KeyGen    func() board.Key
	Now       func() time.Time
}

type click struct {
	key board.Key
	at  time.Time
}

// Model is the bubbletea model for the board.
type Model struct {
	cfg     *config.Config
	log     *zap.Logger
	board   *board.Board
	term    *render.Terminal
	capture *mouseCapture
	frame   *render.Frame
	editor  textarea.Model
	editing board.Key
	clip    Clipboard
	now     func() time.Time

	width  int
	height int
	mode   Mode

	help       bool
	helpScroll int

	entries   []schedule.Entry
	pickIndex int

	filename      string
	input         string
	fileOp        FileOperation
	fileList      []string
	selectedFile  int
	confirmAction ConfirmAction
	pendingPath   string

	lastClick click

	errorMessage   string
	successMessage string
}

// New builds the model and its board.
func New(opts Options) (*Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	clip := opts.Clipboard
	if clip == nil {
		clip = systemClipboard{}
	}

	term := render.NewTerminal()
	term.ShowGrid = cfg.Board.ShowGrid
	term.Dark = cfg.DarkMode

	m := &Model{
		cfg:          cfg,
		log:          log,
		term:         term,
		capture:      &mouseCapture{},
		clip:         clip,
		now:          now,
		width:        fallbackWidth,
		height:       fallbackHeight,
		help:         cfg.StartMenu,
		entries:      opts.Entries,
		filename:     opts.Filename,
		selectedFile: -1,
	}

	boardOpts := []board.Option{
		board.WithLogger(log),
		board.WithMeasurer(term),
		board.WithCapturer(m.capture),
	}
	if opts.KeyGen != nil {
		boardOpts = append(boardOpts, board.WithKeyGen(opts.KeyGen))
	}
	b, err := board.New(board.Config{
		Container:       m.container(),
		GridSize:        cfg.Board.GridSize,
		DefaultItemSize: geom.Size{Width: 12, Height: 3},
		CascadeStep:     cfg.Board.CascadeStep,
	}, opts.Items, opts.Connectors, boardOpts...)
	if err != nil {
		return nil, err
	}
	m.board = b
	m.redraw()
	return m, nil
}

// Board exposes the board being edited.
func (m *Model) Board() *board.Board { return m.board }

// Mode returns the current input mode.
func (m *Model) Mode() Mode { return m.mode }

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if err := m.board.SetContainer(m.container()); err != nil {
			m.log.Warn("resize", zap.Error(err))
		}
		if m.mode == ModeEdit {
			m.editor.SetWidth(m.width)
		}
	case tea.MouseMsg:
		cmd = m.handleMouse(msg)
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	}
	m.syncEditor()
	m.redraw()
	return m, cmd
}

// container is the board area: the whole terminal minus the status line.
func (m *Model) container() geom.Size {
	h := m.height - 1
	if h < 1 {
		h = 1
	}
	return geom.Size{Width: float64(m.width), Height: float64(h)}
}

func (m *Model) canvasHeight() int {
	h := m.height - 1
	if m.mode == ModeEdit {
		h -= editorHeight
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) redraw() {
	w := m.width
	if w < 1 {
		w = 1
	}
	m.frame = m.term.Render(m.board, w, m.canvasHeight())
}

// syncEditor opens or closes the note editor to follow the board, which may
// commit an edit on its own when the pointer goes elsewhere.
func (m *Model) syncEditor() {
	key, draft, editing := m.board.Editing()
	switch {
	case editing && (m.mode != ModeEdit || key != m.editing):
		ta := textarea.New()
		ta.ShowLineNumbers = false
		ta.CharLimit = 0
		ta.Placeholder = "note"
		ta.SetWidth(m.width)
		ta.SetHeight(editorHeight - 1)
		ta.SetValue(draft)
		ta.Focus()
		m.editor = ta
		m.editing = key
		m.mode = ModeEdit
	case !editing && m.mode == ModeEdit:
		m.editor.Blur()
		m.editing = ""
		m.mode = ModeBoard
	}
}

// mouseCapture implements board.Capturer. While held the terminal reports
// every motion event, so an armed connection can follow the pointer with
// no button down.
type mouseCapture struct {
	held  bool
	dirty bool
}

func (c *mouseCapture) Acquire() {
	if !c.held {
		c.held = true
		c.dirty = true
	}
}

func (c *mouseCapture) Release() {
	if c.held {
		c.held = false
		c.dirty = true
	}
}

func (c *mouseCapture) cmd() tea.Cmd {
	if !c.dirty {
		return nil
	}
	c.dirty = false
	if c.held {
		return tea.EnableMouseAllMotion
	}
	return tea.EnableMouseCellMotion
}
