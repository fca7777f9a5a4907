package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"weasel/internal/chromosome"
)

func TestDetectTheme(t *testing.T) {
	tests := []struct {
		name      string
		colorfgbg string
		dark      string
		wantDark  bool
	}{
		{"default light", "", "", false},
		{"dark background index", "15;0", "", true},
		{"light background index", "0;15", "", false},
		{"env override", "", "1", true},
		{"garbage", "x;y", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("COLORFGBG", tt.colorfgbg)
			t.Setenv("WEASEL_DARK_MODE", tt.dark)
			assert.Equal(t, tt.wantDark, DetectTheme().IsDark)
		})
	}
}

func TestThemeByName(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("WEASEL_DARK_MODE", "")

	assert.True(t, ThemeByName("dark").IsDark)
	assert.True(t, ThemeByName("DARK").IsDark)
	assert.False(t, ThemeByName("light").IsDark)
	assert.False(t, ThemeByName("").IsDark)
}

func TestHighlighterKeepsSymbols(t *testing.T) {
	s := NewStyles(LightTheme())
	snap := chromosome.Snapshot{Target: "hola", Genes: "haly"}

	out := snap.RenderDiff(s.Highlighter())
	for _, r := range "haly" {
		assert.Contains(t, out, string(r))
	}
}
