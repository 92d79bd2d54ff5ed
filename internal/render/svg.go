package render

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"heelos/internal/board"
	"heelos/internal/geom"
)

// SVG writes a board as a standalone SVG document: one cubic path per
// connector with an arrowhead marker, and a rounded rect per item.
type SVG struct {
	Bodies     Bodies
	UnitWidth  float64
	UnitHeight float64
	Dark       bool
}

// NewSVG returns an exporter sized for terminal-cell layouts.
func NewSVG() *SVG {
	return &SVG{Bodies: DefaultBodies(), UnitWidth: 8, UnitHeight: 16}
}

// Write renders b to w.
func (s *SVG) Write(w io.Writer, b *board.Board) error {
	area, err := bounds(b)
	if err != nil {
		return err
	}
	if s.UnitWidth <= 0 || s.UnitHeight <= 0 {
		return fmt.Errorf("export unit must be positive, got %gx%g", s.UnitWidth, s.UnitHeight)
	}
	px := func(p geom.Position) geom.Position {
		return geom.Position{X: (p.X - area.Min.X) * s.UnitWidth, Y: (p.Y - area.Min.Y) * s.UnitHeight}
	}

	marker, bg, card, ink := "#000", "#ffffff", "#ffffff", "#000000"
	if s.Dark {
		marker, bg, card, ink = "#fff", "#111827", "#1f2937", "#ffffff"
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="0 0 %g %g">`+"\n",
		area.Size.Width*s.UnitWidth, area.Size.Height*s.UnitHeight,
		area.Size.Width*s.UnitWidth, area.Size.Height*s.UnitHeight)
	fmt.Fprintf(bw, `<defs><marker id="arrowhead" markerWidth="10" markerHeight="7" refX="10" refY="3.5" orient="auto"><polygon points="0 0, 10 3.5, 0 7" fill="%s"/></marker></defs>`+"\n", marker)
	fmt.Fprintf(bw, `<rect width="100%%" height="100%%" fill="%s"/>`+"\n", bg)

	for _, p := range b.Paths() {
		c := p.Curve
		// End the path where it enters the target so the marker stays visible.
		if target, ok := b.Bounds(p.To); ok {
			c, _ = c.Split(c.Enter(target, steps(c)))
		}
		width := 3
		if p.Selected {
			width = 5
		}
		fmt.Fprintf(bw, `<path d="%s" fill="none" stroke="%s" stroke-width="%d" marker-end="url(#arrowhead)"/>`+"\n",
			PathData(c, px), escape(p.Color), width)
	}

	bodies := s.Bodies
	if bodies == nil {
		bodies = DefaultBodies()
	}
	for _, it := range b.Items() {
		r, _ := b.Bounds(it.Key)
		origin := px(r.Min)
		w, h := r.Size.Width*s.UnitWidth, r.Size.Height*s.UnitHeight
		stroke := it.Color
		if stroke == "" {
			stroke = ink
		}
		dash := ""
		if it.Kind() == board.KindNote {
			dash = ` stroke-dasharray="4,3"`
		}
		fmt.Fprintf(bw, `<g data-key="%s" data-kind="%s">`, escape(string(it.Key)), it.Kind())
		fmt.Fprintf(bw, `<rect x="%g" y="%g" width="%g" height="%g" rx="6" fill="%s" stroke="%s" stroke-width="1.5"%s/>`,
			origin.X, origin.Y, w, h, card, escape(stroke), dash)
		for i, line := range bodies.Lines(it) {
			fmt.Fprintf(bw, `<text x="%g" y="%g" font-family="monospace" font-size="12" fill="%s">%s</text>`,
				origin.X+s.UnitWidth, origin.Y+s.UnitHeight*float64(i+2)-4, ink, escape(line))
		}
		bw.WriteString("</g>\n")
	}
	bw.WriteString("</svg>\n")
	return bw.Flush()
}

// Save writes b to filename.
func (s *SVG) Save(b *board.Board, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := s.Write(f, b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// PathData formats c as an SVG path: "M x y C x1 y1, x2 y2, x y".
func PathData(c geom.Cubic, px func(geom.Position) geom.Position) string {
	if px == nil {
		px = func(p geom.Position) geom.Position { return p }
	}
	from, c1, c2, to := px(c.From), px(c.C1), px(c.C2), px(c.To)
	return fmt.Sprintf("M %g %g C %g %g, %g %g, %g %g",
		from.X, from.Y, c1.X, c1.Y, c2.X, c2.Y, to.X, to.Y)
}

// escape makes s safe for both element text and quoted attributes.
func escape(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
