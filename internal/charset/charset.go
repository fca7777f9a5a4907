// Package charset provides the symbol alphabet candidates are built from.
package charset

import (
	"errors"
	"fmt"
	"strings"

	"weasel/internal/rng"
)

// DefaultSymbols is the alphabet used when none is configured.
const DefaultSymbols = " ,.;:_-abcdefghijklmnñopqrstuvwxyzABCDEFGHIJKLMNÑOPQRSTUVWXYZ0123456789"

var (
	ErrEmptyCharset    = errors.New("charset: no symbols")
	ErrDuplicateSymbol = errors.New("charset: duplicate symbol")
	ErrInvalidSymbol   = errors.New("charset: symbol not in alphabet")
)

// InvalidSymbolError reports the first rune of a string that is outside the
// alphabet. Pos is a rune index, not a byte offset.
type InvalidSymbolError struct {
	Pos    int
	Symbol rune
}

func (e *InvalidSymbolError) Error() string {
	return fmt.Sprintf("charset: symbol %q at position %d not in alphabet", e.Symbol, e.Pos)
}

func (e *InvalidSymbolError) Unwrap() error { return ErrInvalidSymbol }

// Charset is an immutable ordered set of symbols.
type Charset struct {
	symbols []rune
	index   map[rune]struct{}
}

var defaultCharset = mustNew(DefaultSymbols)

// Default returns the shared default alphabet.
func Default() *Charset {
	return defaultCharset
}

// New builds an alphabet from the runes of symbols.
func New(symbols string) (*Charset, error) {
	runes := []rune(symbols)
	if len(runes) == 0 {
		return nil, ErrEmptyCharset
	}
	index := make(map[rune]struct{}, len(runes))
	for _, r := range runes {
		if _, dup := index[r]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSymbol, r)
		}
		index[r] = struct{}{}
	}
	return &Charset{symbols: runes, index: index}, nil
}

func mustNew(symbols string) *Charset {
	cs, err := New(symbols)
	if err != nil {
		panic(err)
	}
	return cs
}

// Contains reports whether r belongs to the alphabet.
func (c *Charset) Contains(r rune) bool {
	_, ok := c.index[r]
	return ok
}

// Random draws a symbol uniformly from the alphabet.
func (c *Charset) Random(src rng.Source) rune {
	return c.symbols[src.Intn(len(c.symbols))]
}

// Size returns the number of symbols.
func (c *Charset) Size() int {
	return len(c.symbols)
}

// Symbols returns the alphabet as a string, in definition order.
func (c *Charset) Symbols() string {
	return string(c.symbols)
}

// Validate returns an *InvalidSymbolError for the first rune of s that is not
// in the alphabet. Such a target can never be matched.
func (c *Charset) Validate(s string) error {
	pos := 0
	for _, r := range s {
		if !c.Contains(r) {
			return &InvalidSymbolError{Pos: pos, Symbol: r}
		}
		pos++
	}
	return nil
}

// Filter drops every rune of s that is outside the alphabet.
func (c *Charset) Filter(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if c.Contains(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// InCharset reports whether r belongs to the default alphabet.
func InCharset(r rune) bool {
	return defaultCharset.Contains(r)
}

// RandomSymbol draws uniformly from the default alphabet.
func RandomSymbol(src rng.Source) rune {
	return defaultCharset.Random(src)
}
