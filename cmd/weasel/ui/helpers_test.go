package ui

import (
	"testing"

	"github.com/stretchr/testify/require"

	"weasel/internal/charset"
)

func mustCharset(t *testing.T, symbols string) *charset.Charset {
	t.Helper()
	cs, err := charset.New(symbols)
	require.NoError(t, err)
	return cs
}
