package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"heelos/internal/board"
	"heelos/internal/geom"
)

// PNG rasterizes a board. One board unit is UnitWidth by UnitHeight pixels,
// so a board laid out in terminal cells exports at its on-screen shape.
type PNG struct {
	Bodies     Bodies
	UnitWidth  float64
	UnitHeight float64
	Dark       bool
}

// NewPNG returns an exporter sized for terminal-cell layouts.
func NewPNG() *PNG {
	return &PNG{Bodies: DefaultBodies(), UnitWidth: 8, UnitHeight: 16}
}

// padding around the drawing, in board units.
const exportPadding = 2

// bounds returns the box around every item on b.
func bounds(b *board.Board) (geom.Rect, error) {
	items := b.Items()
	if len(items) == 0 {
		return geom.Rect{}, ErrEmpty
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, it := range items {
		r, _ := b.Bounds(it.Key)
		br := r.Max()
		minX, minY = math.Min(minX, r.Min.X), math.Min(minY, r.Min.Y)
		maxX, maxY = math.Max(maxX, br.X), math.Max(maxY, br.Y)
	}
	return geom.Rect{
		Min:  geom.Position{X: minX - exportPadding, Y: minY - exportPadding},
		Size: geom.Size{Width: maxX - minX + 2*exportPadding, Height: maxY - minY + 2*exportPadding},
	}, nil
}

// Image draws b.
func (p *PNG) Image(b *board.Board) (image.Image, error) {
	area, err := bounds(b)
	if err != nil {
		return nil, err
	}
	uw, uh := p.UnitWidth, p.UnitHeight
	if uw <= 0 || uh <= 0 {
		return nil, fmt.Errorf("export unit must be positive, got %gx%g", uw, uh)
	}
	px := func(pos geom.Position) (float64, float64) {
		return (pos.X - area.Min.X) * uw, (pos.Y - area.Min.Y) * uh
	}

	dc := gg.NewContext(int(area.Size.Width*uw), int(area.Size.Height*uh))
	if p.Dark {
		dc.SetHexColor("#111827")
	} else {
		dc.SetColor(color.White)
	}
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(ttfFont, &truetype.Options{
		Size:    12,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	for _, path := range b.Paths() {
		p.drawConnector(dc, b, path, px)
	}

	bodies := p.Bodies
	if bodies == nil {
		bodies = DefaultBodies()
	}
	for _, it := range b.Items() {
		r, _ := b.Bounds(it.Key)
		p.drawItem(dc, it, r, bodies.Lines(it), px)
	}
	return dc.Image(), nil
}

// Save writes b to filename as a PNG.
func (p *PNG) Save(b *board.Board, filename string) error {
	img, err := p.Image(b)
	if err != nil {
		return err
	}
	return gg.SavePNG(filename, img)
}

func (p *PNG) stroke() string {
	if p.Dark {
		return darkStroke
	}
	return lightStroke
}

func (p *PNG) ink() color.Color {
	if p.Dark {
		return color.White
	}
	return color.Black
}

func (p *PNG) drawConnector(dc *gg.Context, b *board.Board, path board.Path, px func(geom.Position) (float64, float64)) {
	c := path.Curve
	x0, y0 := px(c.From)
	x1, y1 := px(c.C1)
	x2, y2 := px(c.C2)
	x3, y3 := px(c.To)

	dc.SetHexColor(path.Color)
	dc.SetLineWidth(3)
	if path.Selected {
		dc.SetLineWidth(5)
	}
	dc.MoveTo(x0, y0)
	dc.CubicTo(x1, y1, x2, y2, x3, y3)
	dc.Stroke()

	target, ok := b.Bounds(path.To)
	if !ok {
		return
	}
	tip := c.Enter(target, steps(c))
	back := math.Max(tip-0.02, 0)
	fx, fy := px(c.At(back))
	tx, ty := px(c.At(tip))
	dc.SetHexColor(p.stroke())
	drawArrow(dc, fx, fy, tx, ty)
}

// drawArrow fills a triangle at (tx, ty) pointing away from (fx, fy).
func drawArrow(dc *gg.Context, fx, fy, tx, ty float64) {
	dx, dy := tx-fx, ty-fy
	length := math.Sqrt(dx*dx + dy*dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	const (
		arrowSize  = 8.0
		arrowAngle = 0.5
	)
	dc.MoveTo(tx, ty)
	dc.LineTo(tx-arrowSize*dx+arrowSize*dy*arrowAngle, ty-arrowSize*dy-arrowSize*dx*arrowAngle)
	dc.LineTo(tx-arrowSize*dx-arrowSize*dy*arrowAngle, ty-arrowSize*dy+arrowSize*dx*arrowAngle)
	dc.ClosePath()
	dc.Fill()
}

func (p *PNG) drawItem(dc *gg.Context, it board.Item, r geom.Rect, lines []string, px func(geom.Position) (float64, float64)) {
	x, y := px(r.Min)
	w, h := r.Size.Width*p.UnitWidth, r.Size.Height*p.UnitHeight

	if p.Dark {
		dc.SetHexColor("#1f2937")
	} else {
		dc.SetColor(color.White)
	}
	dc.DrawRoundedRectangle(x, y, w, h, 6)
	dc.Fill()

	if it.Color != "" {
		dc.SetHexColor(it.Color)
	} else {
		dc.SetColor(p.ink())
	}
	dc.SetLineWidth(1.5)
	if it.Kind() == board.KindNote {
		dc.SetDash(4, 3)
	}
	dc.DrawRoundedRectangle(x, y, w, h, 6)
	dc.Stroke()
	dc.SetDash()

	if it.Linkable() {
		dc.DrawCircle(x+w, y+h/2, 4)
		dc.Fill()
	}

	dc.SetColor(p.ink())
	for i, line := range lines {
		dc.DrawString(line, x+p.UnitWidth, y+p.UnitHeight*float64(i+2)-4)
	}
}
