package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff_Equal(t *testing.T) {
	out, err := Diff(DefaultConfig(), DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDiff_ChangedField(t *testing.T) {
	to := DefaultConfig()
	to.Evolution.Copies = 12

	out, err := Diff(DefaultConfig(), to)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "- "))
	assert.Contains(t, lines[0], "copies: 500")
	assert.True(t, strings.HasPrefix(lines[1], "+ "))
	assert.Contains(t, lines[1], "copies: 12")
}
