// Package geom holds the pure geometry used by the board: positions, sizes,
// clamping, grid snapping and the connector curve.
package geom

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGrid is returned for a grid size that is not a positive finite number.
var ErrInvalidGrid = errors.New("grid size must be a positive finite number")

// Position is a point in container-local space.
type Position struct {
	X float64
	Y float64
}

// Add returns p translated by o.
func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns p - o.
func (p Position) Sub(o Position) Position {
	return Position{X: p.X - o.X, Y: p.Y - o.Y}
}

// IsFinite reports whether both coordinates are finite.
func (p Position) IsFinite() bool {
	return isFinite(p.X) && isFinite(p.Y)
}

func (p Position) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Size is a width/height pair.
type Size struct {
	Width  float64
	Height float64
}

// Rect is an axis-aligned box anchored at its top-left corner.
type Rect struct {
	Min  Position
	Size Size
}

// Max returns the bottom-right corner.
func (r Rect) Max() Position {
	return Position{X: r.Min.X + r.Size.Width, Y: r.Min.Y + r.Size.Height}
}

// Contains reports whether p lies inside r. Edges count as inside.
func (r Rect) Contains(p Position) bool {
	max := r.Max()
	return p.X >= r.Min.X && p.X <= max.X && p.Y >= r.Min.Y && p.Y <= max.Y
}

// Center returns the middle of r.
func (r Rect) Center() Position {
	return Center(r.Min, r.Size)
}

// Center returns the middle of a box at pos with the given size.
func Center(pos Position, size Size) Position {
	return Position{X: pos.X + size.Width/2, Y: pos.Y + size.Height/2}
}

// Clamp keeps an item of size item inside container. Each coordinate is
// computed as min(max(v, 0), container-item), so a container smaller than
// the item yields the negative upper bound.
func Clamp(p Position, container, item Size) Position {
	return Position{
		X: math.Min(math.Max(p.X, 0), container.Width-item.Width),
		Y: math.Min(math.Max(p.Y, 0), container.Height-item.Height),
	}
}

// Snap rounds each coordinate to the nearest multiple of grid, halves going
// up. It panics if grid is not positive; use ValidateGrid at construction.
func Snap(p Position, grid float64) Position {
	if err := ValidateGrid(grid); err != nil {
		panic(fmt.Sprintf("geom.Snap: %v (got %v)", err, grid))
	}
	return Position{X: snap(p.X, grid), Y: snap(p.Y, grid)}
}

func snap(v, grid float64) float64 {
	return math.Floor(v/grid+0.5) * grid
}

// ValidateGrid checks that grid can be used with Snap.
func ValidateGrid(grid float64) error {
	if !isFinite(grid) || grid <= 0 {
		return ErrInvalidGrid
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
