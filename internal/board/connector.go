package board

import (
	"math/rand"
	"time"
)

// Edge is an ordered pair of item keys.
type Edge struct {
	From Key
	To   Key
}

// Connector is a directed, colored edge between two linkable items.
type Connector struct {
	Edge
	Color string
}

// Connectors is an ordered connector sequence. Every method returns a new
// slice and leaves the receiver untouched.
type Connectors []Connector

// Exists reports whether a connector from -> to is present. Direction matters.
func (cs Connectors) Exists(from, to Key) bool {
	for _, c := range cs {
		if c.From == from && c.To == to {
			return true
		}
	}
	return false
}

// RemoveBetween drops every connector from -> to.
func (cs Connectors) RemoveBetween(from, to Key) Connectors {
	out := make(Connectors, 0, len(cs))
	for _, c := range cs {
		if c.From == from && c.To == to {
			continue
		}
		out = append(out, c)
	}
	return out
}

// RemoveInvolving drops every connector that has key as an endpoint.
func (cs Connectors) RemoveInvolving(key Key) Connectors {
	out := make(Connectors, 0, len(cs))
	for _, c := range cs {
		if c.From == key || c.To == key {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Add appends a connector from -> to with the given color. Kind checks and
// duplicate checks are the caller's job.
func (cs Connectors) Add(from, to Key, color string) Connectors {
	out := make(Connectors, len(cs), len(cs)+1)
	copy(out, cs)
	return append(out, Connector{Edge: Edge{From: from, To: to}, Color: color})
}

func (cs Connectors) clone() Connectors {
	if cs == nil {
		return nil
	}
	out := make(Connectors, len(cs))
	copy(out, cs)
	return out
}

// DefaultColors is the connector palette.
var DefaultColors = []string{
	"#3b82f6", "#ef4444", "#f59e0b", "#10b981",
	"#8b5cf6", "#ec4899", "#6366f1", "#14b8a6",
}

// Palette picks connector colors at random.
type Palette struct {
	colors []string
	rnd    *rand.Rand
}

// NewPalette returns a palette over colors seeded from seed. An empty color
// list falls back to DefaultColors.
func NewPalette(colors []string, seed int64) *Palette {
	if len(colors) == 0 {
		colors = DefaultColors
	}
	return &Palette{colors: colors, rnd: rand.New(rand.NewSource(seed))}
}

// DefaultPalette returns DefaultColors seeded from the clock.
func DefaultPalette() *Palette {
	return NewPalette(DefaultColors, time.Now().UnixNano())
}

// Pick returns one of the palette colors.
func (p *Palette) Pick() string {
	return p.colors[p.rnd.Intn(len(p.colors))]
}
