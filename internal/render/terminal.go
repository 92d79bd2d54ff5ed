package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"heelos/internal/board"
	"heelos/internal/geom"
)

const (
	minBoxWidth  = 8
	minBoxHeight = 3
)

// Glyphs used on the terminal canvas.
const (
	AffordanceGlyph       = '●'
	ActiveAffordanceGlyph = '◉'
	gridGlyph             = '·'
	previewGlyph          = '•'
)

// Stroke colors for arrowheads and the connection preview.
const (
	lightStroke = "#4b5563"
	darkStroke  = "#e5e7eb"
)

// Terminal draws a board into a grid of cells, one board unit per cell. It
// also measures items so the board's hit testing matches what is drawn.
type Terminal struct {
	Bodies   Bodies
	ShowGrid bool
	// GridStep is the spacing of the background dots.
	GridStep int
	// Dark switches the arrowhead and preview stroke to the dark theme.
	Dark bool
}

// NewTerminal returns a renderer with the default bodies and a dotted grid.
func NewTerminal() *Terminal {
	return &Terminal{Bodies: DefaultBodies(), ShowGrid: true, GridStep: 4}
}

func (t *Terminal) bodies() Bodies {
	if t.Bodies == nil {
		return DefaultBodies()
	}
	return t.Bodies
}

// Measure implements board.Measurer: the box is the widest body line plus a
// one cell border, and one row per line plus the border.
func (t *Terminal) Measure(it board.Item) (geom.Size, bool) {
	w, h := boxSize(t.bodies().Lines(it))
	return geom.Size{Width: float64(w), Height: float64(h)}, true
}

func boxSize(lines []string) (int, int) {
	w := minBoxWidth
	for _, line := range lines {
		if lw := lipgloss.Width(line) + 2; lw > w {
			w = lw
		}
	}
	h := len(lines) + 2
	if h < minBoxHeight {
		h = minBoxHeight
	}
	return w, h
}

type cellStyle struct {
	fg    string
	bold  bool
	faint bool
}

type cell struct {
	r     rune
	style cellStyle
}

// Frame is one rendered screen plus what lies under each cell.
type Frame struct {
	Width  int
	Height int
	cells  [][]cell
	hits   [][]board.Target
}

func newFrame(width, height int) *Frame {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	f := &Frame{Width: width, Height: height}
	f.cells = make([][]cell, height)
	f.hits = make([][]board.Target, height)
	for y := range f.cells {
		f.cells[y] = make([]cell, width)
		f.hits[y] = make([]board.Target, width)
		for x := range f.cells[y] {
			f.cells[y][x] = cell{r: ' '}
		}
	}
	return f
}

func (f *Frame) inside(x, y int) bool {
	return y >= 0 && y < f.Height && x >= 0 && x < f.Width
}

func (f *Frame) set(x, y int, r rune, st cellStyle) {
	if f.inside(x, y) {
		f.cells[y][x] = cell{r: r, style: st}
	}
}

func (f *Frame) hit(x, y int, target board.Target) {
	if f.inside(x, y) {
		f.hits[y][x] = target
	}
}

// At returns what lies under cell (x, y). Cells outside the frame are canvas.
func (f *Frame) At(x, y int) board.Target {
	if !f.inside(x, y) {
		return board.OnCanvas()
	}
	return f.hits[y][x]
}

// Plain returns the frame without styling, one string per row.
func (f *Frame) Plain() []string {
	out := make([]string, f.Height)
	for y, row := range f.cells {
		var sb strings.Builder
		for _, c := range row {
			sb.WriteRune(c.r)
		}
		out[y] = sb.String()
	}
	return out
}

// String renders the frame with colors, grouping runs of equal style.
func (f *Frame) String() string {
	lines := make([]string, f.Height)
	for y, row := range f.cells {
		var sb strings.Builder
		var run strings.Builder
		cur := row[0].style
		flush := func() {
			if run.Len() == 0 {
				return
			}
			sb.WriteString(styleFor(cur).Render(run.String()))
			run.Reset()
		}
		for _, c := range row {
			if c.style != cur {
				flush()
				cur = c.style
			}
			run.WriteRune(c.r)
		}
		flush()
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}

func styleFor(st cellStyle) lipgloss.Style {
	s := lipgloss.NewStyle()
	if st.fg != "" {
		s = s.Foreground(lipgloss.Color(st.fg))
	}
	if st.bold {
		s = s.Bold(true)
	}
	if st.faint {
		s = s.Faint(true)
	}
	return s
}

// Render draws b into a width x height frame. Connectors go first so the
// boxes cover their ends.
func (t *Terminal) Render(b *board.Board, width, height int) *Frame {
	return t.draw(b, width, height, true)
}

// draw renders b. Without live the selection, an open edit and the
// connection preview are left out.
func (t *Terminal) draw(b *board.Board, width, height int, live bool) *Frame {
	f := newFrame(width, height)

	if t.ShowGrid && t.GridStep > 0 {
		dot := cellStyle{faint: true}
		for y := 0; y < f.Height; y += t.GridStep {
			for x := 0; x < f.Width; x += t.GridStep {
				f.set(x, y, gridGlyph, dot)
			}
		}
	}

	for _, p := range b.Paths() {
		p.Selected = p.Selected && live
		t.drawConnector(f, b, p)
	}
	if preview, ok := b.Preview(); ok && live {
		t.drawPreview(f, preview)
	}

	editKey, draft, editing := b.Editing()
	source, connecting := b.ConnectingFrom()
	sel := b.Selection()
	if !live {
		editing, connecting = false, false
		sel = board.Selection{}
	}
	for _, it := range b.Items() {
		r, _ := b.Bounds(it.Key)
		lines := t.bodies().Lines(it)
		if editing && it.Key == editKey {
			lines = strings.Split(draft, "\n")
		}
		t.drawBox(f, it, r, lines, boxLook{
			selected:  sel.IsItem(it.Key),
			editing:   editing && it.Key == editKey,
			connectOn: connecting && it.Key == source,
		})
	}
	return f
}

func (t *Terminal) stroke() string {
	if t.Dark {
		return darkStroke
	}
	return lightStroke
}

func steps(c geom.Cubic) int {
	d := math.Hypot(c.To.X-c.From.X, c.To.Y-c.From.Y)
	return int(d*2) + 8
}

func cellOf(p geom.Position) (int, int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y))
}

func (t *Terminal) drawConnector(f *Frame, b *board.Board, p board.Path) {
	st := cellStyle{fg: p.Color, bold: p.Selected}
	n := steps(p.Curve)
	for i, pt := range p.Curve.Sample(n) {
		x, y := cellOf(pt)
		f.set(x, y, lineGlyph(p.Curve.Tangent(float64(i)/float64(n)), p.Selected), st)
		f.hit(x, y, board.OnConnector(p.Edge))
	}

	target, ok := b.Bounds(p.To)
	if !ok {
		return
	}
	tip := p.Curve.Enter(target, n)
	x, y := cellOf(p.Curve.At(tip))
	f.set(x, y, arrowGlyph(p.Curve.Tangent(tip)), cellStyle{fg: t.stroke(), bold: true})
	f.hit(x, y, board.OnConnector(p.Edge))
}

func (t *Terminal) drawPreview(f *Frame, c geom.Cubic) {
	st := cellStyle{fg: t.stroke()}
	n := steps(c)
	for i := 0; i <= n; i++ {
		x, y := cellOf(c.At(float64(i) / float64(n)))
		// Every other cell stays blank so the line reads as dashed.
		if (x+y)%2 == 0 {
			f.set(x, y, previewGlyph, st)
		}
	}
}

func lineGlyph(d geom.Position, heavy bool) rune {
	ax, ay := math.Abs(d.X), math.Abs(d.Y)
	switch {
	case ay <= ax*0.5:
		if heavy {
			return '━'
		}
		return '─'
	case ax <= ay*0.5:
		if heavy {
			return '┃'
		}
		return '│'
	case (d.X > 0) == (d.Y > 0):
		return '╲'
	default:
		return '╱'
	}
}

func arrowGlyph(d geom.Position) rune {
	if math.Abs(d.X) >= math.Abs(d.Y) {
		if d.X < 0 {
			return '◀'
		}
		return '▶'
	}
	if d.Y < 0 {
		return '▲'
	}
	return '▼'
}

type boxLook struct {
	selected  bool
	editing   bool
	connectOn bool
}

func (t *Terminal) drawBox(f *Frame, it board.Item, r geom.Rect, lines []string, look boxLook) {
	x0, y0 := cellOf(r.Min)
	w, h := int(r.Size.Width), int(r.Size.Height)

	corner, horizontal, vertical := '+', '-', '|'
	if it.Kind() == board.KindNote {
		horizontal = '~'
	}
	switch {
	case look.editing:
		corner, horizontal = '+', '='
	case look.selected:
		corner, horizontal, vertical = '#', '#', '#'
	}
	border := cellStyle{fg: it.Color, bold: look.selected || look.editing}
	text := cellStyle{}

	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			f.hit(x, y, board.OnItem(it.Key))
			switch {
			case (y == y0 || y == y0+h-1) && (x == x0 || x == x0+w-1):
				f.set(x, y, corner, border)
			case y == y0 || y == y0+h-1:
				f.set(x, y, horizontal, border)
			case x == x0 || x == x0+w-1:
				f.set(x, y, vertical, border)
			default:
				f.set(x, y, ' ', text)
			}
		}
	}

	for i, line := range lines {
		ty := y0 + 1 + i
		if ty >= y0+h-1 {
			break
		}
		col := 0
		for _, r := range line {
			if col >= w-2 {
				break
			}
			f.set(x0+1+col, ty, r, text)
			col++
		}
	}

	if it.Linkable() {
		ax, ay := x0+w-1, y0+h/2
		glyph := AffordanceGlyph
		if look.connectOn {
			glyph = ActiveAffordanceGlyph
		}
		f.set(ax, ay, glyph, cellStyle{fg: it.Color, bold: true})
		f.hit(ax, ay, board.OnAffordance(it.Key))
	}
}
