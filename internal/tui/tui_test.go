package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heelos/internal/board"
	"heelos/internal/config"
	"heelos/internal/geom"
	"heelos/internal/schedule"
)

type fakeClipboard struct {
	text    string
	err     error
	written string
}

func (c *fakeClipboard) ReadAll() (string, error) { return c.text, c.err }

func (c *fakeClipboard) WriteAll(text string) error {
	c.written = text
	return c.err
}

func sequentialKeys() func() board.Key {
	n := 0
	return func() board.Key {
		n++
		return board.Key(fmt.Sprintf("k%d", n))
	}
}

var clock = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.StartMenu = false
	cfg.Board.ShowGrid = false
	cfg.SaveDirectory = t.TempDir()
	return cfg
}

func newModel(t *testing.T, opts Options) *Model {
	t.Helper()
	if opts.Config == nil {
		opts.Config = testConfig(t)
	}
	if opts.Clipboard == nil {
		opts.Clipboard = &fakeClipboard{}
	}
	opts.KeyGen = sequentialKeys()
	if opts.Now == nil {
		opts.Now = func() time.Time { return clock }
	}
	m, err := New(opts)
	require.NoError(t, err)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

// Alpha is drawn at cells x 2..9, y 2..5 with its affordance at (9, 4);
// Beta at x 30..37.
func twoTasks() []board.Item {
	return []board.Item{
		{Key: "A", Position: geom.Position{X: 2, Y: 2}, Body: board.Task{Name: "Alpha", Schedule: "Work"}},
		{Key: "B", Position: geom.Position{X: 30, Y: 2}, Body: board.Task{Name: "Beta", Schedule: "Work"}},
	}
}

func mouse(m *Model, action tea.MouseAction, x, y int) tea.Cmd {
	_, cmd := m.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft})
	return cmd
}

func press(m *Model, x, y int) tea.Cmd   { return mouse(m, tea.MouseActionPress, x, y) }
func motion(m *Model, x, y int) tea.Cmd  { return mouse(m, tea.MouseActionMotion, x, y) }
func release(m *Model, x, y int) tea.Cmd { return mouse(m, tea.MouseActionRelease, x, y) }

func typeKeys(m *Model, s string) tea.Cmd {
	var cmd tea.Cmd
	for _, r := range s {
		_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return cmd
}

func sendKey(m *Model, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func TestDragMovesItem(t *testing.T) {
	m := newModel(t, Options{Items: twoTasks()})

	cmd := press(m, 4, 3)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.EnableMouseAllMotion(), cmd(), "drag captures the pointer")
	assert.Equal(t, board.ModeDragging, m.Board().Mode())

	motion(m, 14, 8)
	cmd = release(m, 14, 8)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.EnableMouseCellMotion(), cmd())

	it, _ := m.Board().Item("A")
	assert.Equal(t, geom.Position{X: 12, Y: 7}, it.Position)
	assert.Equal(t, 2, m.Board().HistoryLen())
	assert.Contains(t, m.View(), "Selected: Alpha")
}

func TestDragConnect(t *testing.T) {
	m := newModel(t, Options{Items: twoTasks()})

	press(m, 9, 4)
	assert.Equal(t, board.ModeConnecting, m.Board().Mode())
	motion(m, 31, 3)
	release(m, 31, 3)

	assert.Equal(t, board.ModeIdle, m.Board().Mode())
	conns := m.Board().Connectors()
	require.Len(t, conns, 1)
	assert.Equal(t, board.Edge{From: "A", To: "B"}, conns[0].Edge)
}

func TestClickConnect(t *testing.T) {
	m := newModel(t, Options{Items: twoTasks()})

	assert.NotNil(t, press(m, 9, 4))
	assert.Nil(t, release(m, 9, 4), "capture stays held while armed")
	assert.Equal(t, board.ModeConnecting, m.Board().Mode())
	assert.Contains(t, m.View(), "Connection from Alpha")

	motion(m, 31, 3)
	press(m, 31, 3)
	release(m, 31, 3)
	assert.Len(t, m.Board().Connectors(), 1)
}

func TestConnectCancelledByRightClickAndEscape(t *testing.T) {
	m := newModel(t, Options{Items: twoTasks()})

	press(m, 9, 4)
	release(m, 9, 4)
	m.Update(tea.MouseMsg{X: 20, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	assert.Equal(t, board.ModeIdle, m.Board().Mode())

	press(m, 9, 4)
	release(m, 9, 4)
	sendKey(m, tea.KeyEsc)
	assert.Equal(t, board.ModeIdle, m.Board().Mode())
	assert.Empty(t, m.Board().Connectors())
}

func TestAffordanceKey(t *testing.T) {
	m := newModel(t, Options{Items: twoTasks()})

	typeKeys(m, "a")
	assert.Contains(t, m.View(), "ERROR: Select a task")

	press(m, 4, 3)
	release(m, 4, 3)
	typeKeys(m, "a")
	assert.Equal(t, board.ModeConnecting, m.Board().Mode())
	typeKeys(m, "a")
	assert.Equal(t, board.ModeIdle, m.Board().Mode(), "second press cancels")
}

func TestDoubleClickEditsNote(t *testing.T) {
	m := newModel(t, Options{Items: []board.Item{
		{Key: "N", Position: geom.Position{X: 2, Y: 10}, Body: board.Note{Text: "hi"}},
	}})

	press(m, 4, 11)
	release(m, 4, 11)
	press(m, 4, 11)
	release(m, 4, 11)
	require.Equal(t, ModeEdit, m.Mode())

	typeKeys(m, "!")
	_, draft, ok := m.Board().Editing()
	require.True(t, ok)
	assert.Equal(t, "hi!", draft)

	sendKey(m, tea.KeyEsc)
	assert.Equal(t, ModeBoard, m.Mode())
	it, _ := m.Board().Item("N")
	assert.Equal(t, board.Note{Text: "hi!"}, it.Body)
}

func TestClickInEditorKeepsEditing(t *testing.T) {
	m := newModel(t, Options{Items: []board.Item{
		{Key: "N", Position: geom.Position{X: 2, Y: 3}, Body: board.Note{Text: "hi"}},
	}})

	press(m, 4, 4)
	release(m, 4, 4)
	press(m, 4, 4)
	release(m, 4, 4)
	require.Equal(t, ModeEdit, m.Mode())
	typeKeys(m, "!")

	// Rows 19 to 22 hold the editor on a 24 row terminal.
	press(m, 5, 21)
	release(m, 5, 21)
	assert.Equal(t, ModeEdit, m.Mode())
	assert.Equal(t, board.ModeEditingText, m.Board().Mode())
	_, draft, ok := m.Board().Editing()
	require.True(t, ok)
	assert.Equal(t, "hi!", draft)
	it, _ := m.Board().Item("N")
	assert.Equal(t, board.Note{Text: "hi"}, it.Body, "nothing committed yet")

	press(m, 60, 15)
	assert.Equal(t, ModeBoard, m.Mode(), "a click on the canvas still commits")
	it, _ = m.Board().Item("N")
	assert.Equal(t, board.Note{Text: "hi!"}, it.Body)
}

func TestSlowClicksDoNotEdit(t *testing.T) {
	now := clock
	m := newModel(t, Options{
		Items: []board.Item{{Key: "N", Position: geom.Position{X: 2, Y: 10}, Body: board.Note{Text: "hi"}}},
		Now:   func() time.Time { return now },
	})

	press(m, 4, 11)
	release(m, 4, 11)
	now = now.Add(time.Second)
	press(m, 4, 11)
	release(m, 4, 11)
	assert.Equal(t, ModeBoard, m.Mode())
}

func TestNewNote(t *testing.T) {
	m := newModel(t, Options{})

	typeKeys(m, "n")
	require.Equal(t, ModeEdit, m.Mode())
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("todo")})
	sendKey(m, tea.KeyCtrlS)

	assert.Equal(t, ModeBoard, m.Mode())
	items := m.Board().Items()
	require.Len(t, items, 1)
	assert.Equal(t, board.Note{Text: "todo"}, items[0].Body)
}

func TestPickerAddsTask(t *testing.T) {
	entries := []schedule.Entry{
		{Schedule: "Work", Task: schedule.Task{Name: "Write", Priority: schedule.PriorityLow, Status: schedule.StatusPending}},
		{Schedule: "Work", Task: schedule.Task{Name: "Review", Priority: schedule.PriorityHigh, Status: schedule.StatusPending}, Color: "#3b82f6"},
	}
	m := newModel(t, Options{Entries: entries})

	typeKeys(m, "t")
	require.Equal(t, ModePicker, m.Mode())
	assert.Contains(t, m.View(), "Review · Work [high, pending]")
	typeKeys(m, "j")
	sendKey(m, tea.KeyEnter)

	items := m.Board().Items()
	require.Len(t, items, 1)
	assert.Equal(t, board.Task{Name: "Review", Schedule: "Work"}, items[0].Body)
	assert.Equal(t, "#3b82f6", items[0].Color)
	assert.True(t, m.Board().Selection().IsItem(items[0].Key))

	typeKeys(m, "t")
	sendKey(m, tea.KeyEnter)
	assert.Len(t, m.Board().Items(), 1)
	assert.Contains(t, m.View(), "Review is already on the board")
}

func TestPickerWithoutSchedules(t *testing.T) {
	m := newModel(t, Options{})
	typeKeys(m, "t")
	assert.Equal(t, ModeBoard, m.Mode())
	assert.Contains(t, m.View(), "ERROR: No schedule tasks loaded")
}

func TestSaveResetOpen(t *testing.T) {
	cfg := testConfig(t)
	m := newModel(t, Options{Config: cfg, Items: twoTasks(), Connectors: board.Connectors{{Edge: board.Edge{From: "A", To: "B"}, Color: "#000"}}})

	typeKeys(m, "s")
	require.Equal(t, ModeFileInput, m.Mode())
	typeKeys(m, "plan")
	sendKey(m, tea.KeyEnter)
	assert.Equal(t, ModeBoard, m.Mode())
	assert.FileExists(t, filepath.Join(cfg.SaveDirectory, "plan.yaml"))
	assert.Contains(t, m.View(), "Saved plan.yaml")

	typeKeys(m, "R")
	require.Equal(t, ModeConfirm, m.Mode())
	typeKeys(m, "y")
	assert.Empty(t, m.Board().Items())

	typeKeys(m, "o")
	assert.Contains(t, m.View(), "Open filename: plan")
	sendKey(m, tea.KeyEnter)
	assert.Len(t, m.Board().Items(), 2)
	assert.Len(t, m.Board().Connectors(), 1)
	assert.Contains(t, m.View(), "Opened plan.yaml")
}

func TestSaveAsksBeforeOverwrite(t *testing.T) {
	cfg := testConfig(t)
	m := newModel(t, Options{Config: cfg, Items: twoTasks()})

	typeKeys(m, "s")
	typeKeys(m, "plan")
	sendKey(m, tea.KeyEnter)

	typeKeys(m, "s")
	assert.Contains(t, m.View(), "Save filename: plan")
	sendKey(m, tea.KeyEnter)
	require.Equal(t, ModeConfirm, m.Mode())
	assert.Contains(t, m.View(), "already exists")
	typeKeys(m, "n")
	assert.Equal(t, ModeBoard, m.Mode())
}

func TestFileInputEditing(t *testing.T) {
	m := newModel(t, Options{Items: twoTasks()})

	typeKeys(m, "s")
	sendKey(m, tea.KeyEnter)
	assert.Contains(t, m.View(), "ERROR: Please enter a filename")

	typeKeys(m, "abc")
	sendKey(m, tea.KeyBackspace)
	assert.Contains(t, m.View(), "Save filename: ab ")

	sendKey(m, tea.KeyEsc)
	assert.Equal(t, ModeBoard, m.Mode())
}

func TestOpenMissingFile(t *testing.T) {
	m := newModel(t, Options{})
	typeKeys(m, "o")
	typeKeys(m, "nope")
	sendKey(m, tea.KeyEnter)
	assert.Equal(t, ModeFileInput, m.Mode())
	assert.Contains(t, m.View(), "ERROR: Error opening file")
}

func TestExports(t *testing.T) {
	cfg := testConfig(t)
	m := newModel(t, Options{Config: cfg, Items: twoTasks(), Connectors: board.Connectors{{Edge: board.Edge{From: "A", To: "B"}}}})

	typeKeys(m, "S")
	typeKeys(m, "shot")
	sendKey(m, tea.KeyEnter)
	assert.FileExists(t, filepath.Join(cfg.SaveDirectory, "shot.png"))

	typeKeys(m, "X")
	typeKeys(m, "shot")
	sendKey(m, tea.KeyEnter)
	assert.FileExists(t, filepath.Join(cfg.SaveDirectory, "shot.svg"))
}

func TestTextExport(t *testing.T) {
	cfg := testConfig(t)
	cfg.Board.ShowGrid = true
	m := newModel(t, Options{Config: cfg, Items: twoTasks()})

	typeKeys(m, "V")
	require.Equal(t, ModeFileInput, m.Mode())
	assert.Contains(t, m.View(), "Export text filename:")
	typeKeys(m, "board")
	sendKey(m, tea.KeyEnter)

	assert.Equal(t, ModeBoard, m.Mode())
	assert.Contains(t, m.View(), "Saved board.txt")
	data, err := os.ReadFile(filepath.Join(cfg.SaveDirectory, "board.txt"))
	require.NoError(t, err)
	lines := strings.Split(string(data), "\n")
	require.Greater(t, len(lines), 3)
	assert.Equal(t, "", lines[0], "grid dots are not exported")
	assert.Equal(t, "  |Alpha |                    |Beta  |", lines[3])
}

func TestExportEmptyBoard(t *testing.T) {
	m := newModel(t, Options{})
	typeKeys(m, "S")
	typeKeys(m, "empty")
	sendKey(m, tea.KeyEnter)
	assert.Contains(t, m.View(), "ERROR: Nothing to export")
}

func TestQuit(t *testing.T) {
	m := newModel(t, Options{})
	assert.Nil(t, typeKeys(m, "q"))
	require.Equal(t, ModeConfirm, m.Mode())
	assert.Contains(t, m.View(), "Quit Heelos?")
	cmd := typeKeys(m, "y")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	cfg := testConfig(t)
	cfg.Confirmations = false
	m = newModel(t, Options{Config: cfg})
	cmd = typeKeys(m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestUndoRedoKeys(t *testing.T) {
	m := newModel(t, Options{Items: twoTasks()})

	press(m, 4, 3)
	release(m, 4, 3)
	sendKey(m, tea.KeyRight)
	sendKey(m, tea.KeyShiftDown)
	it, _ := m.Board().Item("A")
	assert.Equal(t, geom.Position{X: 3, Y: 12}, it.Position)

	typeKeys(m, "u")
	it, _ = m.Board().Item("A")
	assert.Equal(t, geom.Position{X: 3, Y: 2}, it.Position)

	sendKey(m, tea.KeyCtrlZ)
	it, _ = m.Board().Item("A")
	assert.Equal(t, geom.Position{X: 2, Y: 2}, it.Position)

	typeKeys(m, "U")
	sendKey(m, tea.KeyCtrlY)
	it, _ = m.Board().Item("A")
	assert.Equal(t, geom.Position{X: 3, Y: 12}, it.Position)

	typeKeys(m, "U")
	assert.Contains(t, m.View(), "ERROR: Nothing to redo")
}

func TestStatusShowsHistory(t *testing.T) {
	m := newModel(t, Options{Items: twoTasks()})
	assert.NotContains(t, m.View(), "u=undo")

	press(m, 4, 3)
	release(m, 4, 3)
	sendKey(m, tea.KeyRight)
	assert.Contains(t, m.View(), "| u=undo | ? for help")

	typeKeys(m, "u")
	assert.Contains(t, m.View(), "| u=undo U=redo | ? for help")
}

func TestShrinkingWindowPullsItemsIn(t *testing.T) {
	m := newModel(t, Options{Items: twoTasks()})

	m.Update(tea.WindowSizeMsg{Width: 20, Height: 10})

	a, _ := m.Board().Item("A")
	assert.Equal(t, geom.Position{X: 2, Y: 2}, a.Position)
	b, _ := m.Board().Item("B")
	assert.Equal(t, geom.Position{X: 12, Y: 2}, b.Position)
	assert.Equal(t, 2, m.Board().HistoryLen())

	press(m, 14, 3)
	assert.Equal(t, board.ModeDragging, m.Board().Mode(), "the clamped card can be grabbed")
	release(m, 14, 3)
}

func TestDeleteKey(t *testing.T) {
	m := newModel(t, Options{Items: twoTasks(), Connectors: board.Connectors{{Edge: board.Edge{From: "A", To: "B"}}}})

	press(m, 4, 3)
	release(m, 4, 3)
	sendKey(m, tea.KeyDelete)
	assert.Len(t, m.Board().Items(), 1)
	assert.Empty(t, m.Board().Connectors())
}

func TestClipboard(t *testing.T) {
	clip := &fakeClipboard{text: "{\\rtf1\\ansi hello\\par world}"}
	m := newModel(t, Options{Clipboard: clip})

	typeKeys(m, "p")
	items := m.Board().Items()
	require.Len(t, items, 1)
	assert.Equal(t, board.Note{Text: "hello\nworld"}, items[0].Body)

	typeKeys(m, "y")
	assert.Equal(t, "hello\nworld", clip.written)

	clip.err = errors.New("no clipboard")
	typeKeys(m, "p")
	assert.Contains(t, m.View(), "ERROR: Clipboard: no clipboard")
	assert.Len(t, m.Board().Items(), 1)
}

func TestCleanPaste(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "  just text \n", "just text"},
		{"line endings", "a\r\nb\rc", "a\nb\nc"},
		{"control characters", "bell\x07 tab\tend", "bell tab\tend"},
		{"rtf", "{\\rtf1\\ansi{\\b bold}\\par next\\tab x}", "bold\nnext\tx"},
		{"rtf escapes", "{\\rtf1 a\\{b\\}}", "a{b}"},
		{"html", "<div>a &amp; b</div><p>c</p>", "a & b\nc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanPaste(tt.in))
		})
	}
}

func TestKeyEvent(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want board.KeyEvent
	}{
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}}, board.KeyEvent{Code: board.KeyRune, Rune: 'z'}},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'Z'}}, board.KeyEvent{Code: board.KeyRune, Rune: 'Z', Shift: true}},
		{tea.KeyMsg{Type: tea.KeyCtrlZ}, board.KeyEvent{Code: board.KeyRune, Rune: 'z', Ctrl: true}},
		{tea.KeyMsg{Type: tea.KeyShiftLeft}, board.KeyEvent{Code: board.KeyLeft, Shift: true}},
		{tea.KeyMsg{Type: tea.KeyBackspace}, board.KeyEvent{Code: board.KeyBackspace}},
		{tea.KeyMsg{Type: tea.KeyEsc}, board.KeyEvent{Code: board.KeyEscape}},
	}
	for _, tt := range tests {
		got, ok := keyEvent(tt.msg)
		assert.True(t, ok, tt.msg.String())
		assert.Equal(t, tt.want, got, tt.msg.String())
	}

	_, ok := keyEvent(tea.KeyMsg{Type: tea.KeyTab})
	assert.False(t, ok)
}

func TestHelpScreen(t *testing.T) {
	cfg := testConfig(t)
	cfg.StartMenu = true
	m := newModel(t, Options{Config: cfg})

	assert.Contains(t, m.View(), "Heelos Help")
	typeKeys(m, "j")
	assert.NotContains(t, m.View(), "Heelos Help", "scrolled past the title")
	typeKeys(m, "x")
	assert.Contains(t, m.View(), "Mode: BOARD")

	typeKeys(m, "?")
	assert.Contains(t, m.View(), "Heelos Help")
}
