package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectorsExistsIsDirectional(t *testing.T) {
	cs := Connectors{}.Add("a", "b", "#000")

	assert.True(t, cs.Exists("a", "b"))
	assert.False(t, cs.Exists("b", "a"))
	assert.False(t, cs.Exists("a", "c"))
}

func TestConnectorsAddLeavesReceiver(t *testing.T) {
	base := Connectors{}.Add("a", "b", "#111")
	next := base.Add("b", "c", "#222")

	assert.Len(t, base, 1)
	assert.Len(t, next, 2)
	assert.Equal(t, Edge{From: "b", To: "c"}, next[1].Edge)
	assert.Equal(t, "#222", next[1].Color)
}

func TestConnectorsRemoveBetween(t *testing.T) {
	cs := Connectors{}.Add("a", "b", "").Add("b", "a", "").Add("a", "c", "")

	out := cs.RemoveBetween("a", "b")

	assert.Len(t, cs, 3)
	assert.False(t, out.Exists("a", "b"))
	assert.True(t, out.Exists("b", "a"))
	assert.True(t, out.Exists("a", "c"))
}

func TestConnectorsRemoveInvolving(t *testing.T) {
	cs := Connectors{}.
		Add("a", "b", "").
		Add("c", "a", "").
		Add("b", "c", "").
		Add("c", "d", "")

	out := cs.RemoveInvolving("a")

	assert.Len(t, out, 2)
	for _, c := range out {
		assert.NotEqual(t, Key("a"), c.From)
		assert.NotEqual(t, Key("a"), c.To)
	}
	assert.True(t, out.Exists("b", "c"))
	assert.True(t, out.Exists("c", "d"))
}

func TestPalettePick(t *testing.T) {
	p := NewPalette(nil, 42)
	for i := 0; i < 50; i++ {
		assert.Contains(t, DefaultColors, p.Pick())
	}

	single := NewPalette([]string{"#abcdef"}, 1)
	assert.Equal(t, "#abcdef", single.Pick())
}

func TestPaletteSeedIsDeterministic(t *testing.T) {
	a, b := NewPalette(nil, 7), NewPalette(nil, 7)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Pick(), b.Pick())
	}
}
