// Package gene implements the single mutable symbol a candidate is made of.
package gene

import (
	"strings"

	"weasel/internal/rng"
)

// Alphabet is what a gene needs to draw a fresh symbol.
type Alphabet interface {
	Random(src rng.Source) rune
}

// Gene wraps exactly one symbol.
type Gene struct {
	symbol rune
}

// New wraps r.
func New(r rune) Gene {
	return Gene{symbol: r}
}

// NewRandom wraps a symbol drawn uniformly from a.
func NewRandom(a Alphabet, src rng.Source) Gene {
	return Gene{symbol: a.Random(src)}
}

// Get returns the wrapped symbol.
func (g Gene) Get() rune {
	return g.symbol
}

// Set replaces the wrapped symbol. No alphabet check is made.
func (g *Gene) Set(r rune) {
	g.symbol = r
}

// Randomize replaces the symbol with a fresh draw from a.
func (g *Gene) Randomize(a Alphabet, src rng.Source) {
	g.symbol = a.Random(src)
}

// Mutate draws p in [0,1) and randomizes the symbol when p < rate.
// rate >= 1 always mutates and rate <= 0 never does. The fresh draw may
// coincide with the old symbol.
func (g *Gene) Mutate(rate float64, a Alphabet, src rng.Source) {
	if src.Float64() < rate {
		g.Randomize(a, src)
	}
}

func (g Gene) String() string {
	return string(g.symbol)
}

// Sequence is an ordered run of genes.
type Sequence []Gene

// FromString builds a sequence holding the runes of s.
func FromString(s string) Sequence {
	seq := make(Sequence, 0, len(s))
	for _, r := range s {
		seq = append(seq, New(r))
	}
	return seq
}

// Random builds a sequence of n uniformly drawn genes.
func Random(n int, a Alphabet, src rng.Source) Sequence {
	seq := make(Sequence, n)
	for i := range seq {
		seq[i] = NewRandom(a, src)
	}
	return seq
}

// Clone returns an independent copy.
func (s Sequence) Clone() Sequence {
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// CopyFrom overwrites s with the symbols of src. Both must have equal length;
// extra positions on either side are left untouched.
func (s Sequence) CopyFrom(src Sequence) {
	copy(s, src)
}

// Mutate applies Gene.Mutate independently to every position.
func (s Sequence) Mutate(rate float64, a Alphabet, src rng.Source) {
	for i := range s {
		s[i].Mutate(rate, a, src)
	}
}

// String concatenates the symbols in order.
func (s Sequence) String() string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, g := range s {
		sb.WriteRune(g.symbol)
	}
	return sb.String()
}
