package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"heelos/internal/board"
	"heelos/internal/layout"
	"heelos/internal/render"
)

const layoutExt = ".yaml"

// command runs a single-letter command. Only help, quit and history work
// while a gesture is in progress.
func (m *Model) command(r rune) (tea.Cmd, bool) {
	switch r {
	case '?':
		m.help = true
		m.helpScroll = 0
		return nil, true
	case 'q':
		if m.cfg.Confirmations {
			m.confirm(ConfirmQuit)
			return nil, true
		}
		return tea.Quit, true
	case 'u':
		if !m.board.Undo() {
			m.errorMessage = "Nothing to undo"
		}
		return m.capture.cmd(), true
	case 'U':
		if !m.board.Redo() {
			m.errorMessage = "Nothing to redo"
		}
		return m.capture.cmd(), true
	}

	if m.board.Mode() != board.ModeIdle {
		// The affordance key also cancels the connection it started.
		if r == 'a' {
			if key, ok := m.board.ConnectingFrom(); ok {
				m.board.ToggleAffordance(key)
				return m.capture.cmd(), true
			}
		}
		return nil, false
	}

	switch r {
	case 'n':
		key := m.board.AddNote("", "")
		m.board.SelectItem(key)
		m.board.BeginEdit(key)
	case 't':
		if len(m.entries) == 0 {
			m.errorMessage = "No schedule tasks loaded"
			return nil, true
		}
		m.mode = ModePicker
	case 'a':
		key, ok := m.selectedItem()
		if !ok || !m.board.ToggleAffordance(key) {
			m.errorMessage = "Select a task to connect from"
		}
		return m.capture.cmd(), true
	case 'e':
		key, ok := m.selectedItem()
		if !ok || !m.board.BeginEdit(key) {
			m.errorMessage = "Select a note to edit"
		}
	case 'y':
		m.copySelected()
	case 'p':
		m.pasteNote()
	case 's':
		m.startFileInput(FileOpSave)
	case 'o':
		m.startFileInput(FileOpOpen)
	case 'S':
		m.startFileInput(FileOpExportPNG)
	case 'X':
		m.startFileInput(FileOpExportSVG)
	case 'V':
		m.startFileInput(FileOpExportTXT)
	case 'R':
		if m.cfg.Confirmations {
			m.confirm(ConfirmReset)
		} else {
			m.reset()
		}
	default:
		return nil, false
	}
	return nil, true
}

func (m *Model) selectedItem() (board.Key, bool) {
	sel := m.board.Selection()
	if sel.Kind != board.SelectItem {
		return "", false
	}
	return sel.Item, true
}

func (m *Model) copySelected() {
	key, ok := m.selectedItem()
	if !ok {
		m.errorMessage = "Nothing selected to copy"
		return
	}
	it, _ := m.board.Item(key)
	if err := m.clip.WriteAll(it.Label()); err != nil {
		m.errorMessage = fmt.Sprintf("Clipboard: %s", err)
		return
	}
	m.successMessage = "Copied"
}

func (m *Model) pasteNote() {
	text, err := m.clip.ReadAll()
	if err != nil {
		m.errorMessage = fmt.Sprintf("Clipboard: %s", err)
		return
	}
	text = cleanPaste(text)
	if text == "" {
		m.errorMessage = "Clipboard is empty"
		return
	}
	key := m.board.AddNote(text, "")
	m.board.SelectItem(key)
	m.successMessage = "Pasted note"
}

func (m *Model) reset() {
	if err := m.board.Reset(nil, nil); err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.filename = ""
	m.successMessage = "Board cleared"
}

func (m *Model) pickerKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "esc", "q":
		m.mode = ModeBoard
	case "j", "down":
		m.pickIndex = (m.pickIndex + 1) % len(m.entries)
	case "k", "up":
		m.pickIndex = (m.pickIndex - 1 + len(m.entries)) % len(m.entries)
	case "enter":
		m.mode = ModeBoard
		e := m.entries[m.pickIndex]
		key, added := m.board.AddTask(e.Task.Name, e.Schedule, e.Color)
		if key == "" {
			m.errorMessage = "Could not add task"
			return
		}
		m.board.SelectItem(key)
		if !added {
			m.errorMessage = fmt.Sprintf("%s is already on the board", e.Task.Name)
		}
	}
}

func (m *Model) startFileInput(op FileOperation) {
	m.mode = ModeFileInput
	m.fileOp = op
	m.input = strings.TrimSuffix(filepath.Base(m.filename), layoutExt)
	if m.filename == "" {
		m.input = ""
	}
	m.fileList = nil
	m.selectedFile = -1
	if op == FileOpOpen {
		m.scanLayouts()
	}
}

func (m *Model) saveDir() string {
	if m.cfg.SaveDirectory != "" {
		return m.cfg.SaveDirectory
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}

// scanLayouts lists the layout files in the save directory for the open
// prompt.
func (m *Model) scanLayouts() {
	entries, err := os.ReadDir(m.saveDir())
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), layoutExt) {
			m.fileList = append(m.fileList, strings.TrimSuffix(e.Name(), layoutExt))
		}
	}
	sort.Strings(m.fileList)
	if len(m.fileList) > 0 {
		m.selectedFile = 0
		m.input = m.fileList[0]
	}
}

func (m *Model) fileKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeBoard
		m.input = ""
		m.errorMessage = ""
	case tea.KeyUp, tea.KeyDown:
		if len(m.fileList) == 0 {
			return
		}
		step := 1
		if msg.Type == tea.KeyUp {
			step = -1
		}
		m.selectedFile = (m.selectedFile + step + len(m.fileList)) % len(m.fileList)
		m.input = m.fileList[m.selectedFile]
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.input += string(msg.Runes)
	case tea.KeyEnter:
		m.submitFile()
	}
}

func (m *Model) extension() string {
	switch m.fileOp {
	case FileOpExportPNG:
		return ".png"
	case FileOpExportSVG:
		return ".svg"
	case FileOpExportTXT:
		return ".txt"
	default:
		return layoutExt
	}
}

func (m *Model) submitFile() {
	name := strings.TrimSpace(m.input)
	if name == "" {
		m.errorMessage = "Please enter a filename"
		return
	}
	if !strings.HasSuffix(strings.ToLower(name), m.extension()) {
		name += m.extension()
	}
	if m.fileOp == FileOpOpen && !filepath.IsAbs(name) && m.cfg.SaveDirectory != "" {
		name = filepath.Join(m.cfg.SaveDirectory, name)
	} else if m.fileOp != FileOpOpen {
		name = m.cfg.SavePath(name)
	}

	if m.fileOp == FileOpOpen {
		m.open(name)
		return
	}
	if _, err := os.Stat(name); err == nil {
		m.pendingPath = name
		m.confirm(ConfirmOverwrite)
		return
	}
	m.write(name)
}

func (m *Model) open(path string) {
	doc, err := layout.Load(path)
	if err == nil {
		var items []board.Item
		var conns board.Connectors
		items, conns, err = doc.Board()
		if err == nil {
			err = m.board.Reset(items, conns)
		}
	}
	if err != nil {
		m.log.Warn("open layout", zap.String("path", path), zap.Error(err))
		m.errorMessage = fmt.Sprintf("Error opening file: %s", err)
		return
	}
	m.log.Info("layout opened", zap.String("path", path), zap.Int("items", len(doc.Items)))
	m.filename = path
	m.mode = ModeBoard
	m.successMessage = fmt.Sprintf("Opened %s", filepath.Base(path))
}

// write saves or exports to path, overwriting it.
func (m *Model) write(path string) {
	var err error
	switch m.fileOp {
	case FileOpSave:
		err = layout.Save(path, layout.FromBoard(m.board.Items(), m.board.Connectors()))
	case FileOpExportPNG:
		p := render.NewPNG()
		p.UnitWidth, p.UnitHeight = m.cfg.Export.UnitWidth, m.cfg.Export.UnitHeight
		p.Dark = m.cfg.DarkMode
		err = p.Save(m.board, path)
	case FileOpExportSVG:
		s := render.NewSVG()
		s.UnitWidth, s.UnitHeight = m.cfg.Export.UnitWidth, m.cfg.Export.UnitHeight
		s.Dark = m.cfg.DarkMode
		err = s.Save(m.board, path)
	case FileOpExportTXT:
		err = (&render.Text{Terminal: m.term}).Save(m.board, path)
	}
	m.mode = ModeBoard
	if err != nil {
		m.log.Warn("write file", zap.String("path", path), zap.Error(err))
		if errors.Is(err, render.ErrEmpty) {
			m.errorMessage = "Nothing to export"
		} else {
			m.errorMessage = fmt.Sprintf("Error saving file: %s", err)
		}
		return
	}
	m.log.Info("file written", zap.String("path", path), zap.Int("history", m.board.HistoryLen()))
	if m.fileOp == FileOpSave {
		m.filename = path
	}
	m.successMessage = fmt.Sprintf("Saved %s", filepath.Base(path))
}

func (m *Model) confirm(action ConfirmAction) {
	m.confirmAction = action
	m.mode = ModeConfirm
}

func (m *Model) confirmKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeBoard
		switch m.confirmAction {
		case ConfirmQuit:
			return tea.Quit
		case ConfirmReset:
			m.reset()
		case ConfirmOverwrite:
			m.write(m.pendingPath)
			m.pendingPath = ""
		}
	case "n", "N", "esc":
		m.mode = ModeBoard
		m.pendingPath = ""
	}
	return nil
}
