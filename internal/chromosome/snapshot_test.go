package chromosome

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestSnapshot_Mismatches(t *testing.T) {
	s := Snapshot{Target: "hola", Genes: "halo"}
	if diff := cmp.Diff([]bool{false, true, false, true}, s.Mismatches()); diff != "" {
		t.Errorf("Mismatches() (-want +got):\n%s", diff)
	}
	assert.Equal(t, uint32(2), s.Fitness())
	assert.False(t, s.Solved())
}

func TestSnapshot_Markers(t *testing.T) {
	assert.Equal(t, " ^ ^", Snapshot{Target: "hola", Genes: "halo"}.Markers())
	assert.Equal(t, "", Snapshot{Target: "hola", Genes: "hola"}.Markers())
	assert.Equal(t, "^", Snapshot{Target: "ñu", Genes: "nu"}.Markers())
}

func TestSnapshot_MultiByteRunes(t *testing.T) {
	s := Snapshot{Target: "año", Genes: "ano"}
	assert.Equal(t, 3, s.Size())
	assert.Equal(t, uint32(1), s.Fitness())
	assert.Equal(t, "a[n]o", s.RenderDiff(BracketHighlighter))
}

func TestSnapshot_LongerGenesCountAsMismatch(t *testing.T) {
	s := Snapshot{Target: "ho", Genes: "hol"}
	assert.Equal(t, uint32(1), s.Fitness())
}

func TestSnapshot_Solved(t *testing.T) {
	s := Snapshot{Target: "hola", Genes: "hola"}
	assert.True(t, s.Solved())
	assert.Zero(t, s.Fitness())
	assert.Equal(t, "hola", s.RenderDiff(BracketHighlighter))
}

func TestSnapshot_CustomHighlighter(t *testing.T) {
	s := Snapshot{Target: "ab", Genes: "ax"}
	upper := func(sym string, match bool) string {
		if match {
			return sym
		}
		return "<" + sym + ">"
	}
	assert.Equal(t, "a<x>", s.RenderDiff(upper))
}
