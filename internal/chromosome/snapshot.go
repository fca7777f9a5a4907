package chromosome

import (
	"strings"
	"unicode/utf8"
)

// Highlighter decorates one symbol. match reports whether the symbol equals
// the target symbol at the same position.
type Highlighter func(symbol string, match bool) string

// BracketHighlighter wraps mismatching symbols in brackets. It is meant for
// output without colour.
func BracketHighlighter(symbol string, match bool) string {
	if match {
		return symbol
	}
	return "[" + symbol + "]"
}

// Snapshot is an immutable copy of a chromosome at one point in time.
type Snapshot struct {
	Target       string
	Genes        string
	MutationRate float64
	Copies       uint32
}

// Size returns the number of genes.
func (s Snapshot) Size() int {
	return utf8.RuneCountInString(s.Genes)
}

// Plain returns the genes as a string.
func (s Snapshot) Plain() string {
	return s.Genes
}

// Mismatches reports, per gene, whether it differs from the target. A gene
// with no counterpart in the target counts as a mismatch.
func (s Snapshot) Mismatches() []bool {
	target := []rune(s.Target)
	out := make([]bool, 0, len(target))
	i := 0
	for _, r := range s.Genes {
		out = append(out, i >= len(target) || target[i] != r)
		i++
	}
	return out
}

// Fitness counts mismatching positions.
func (s Snapshot) Fitness() uint32 {
	var n uint32
	for _, miss := range s.Mismatches() {
		if miss {
			n++
		}
	}
	return n
}

// Solved reports whether the genes equal the target.
func (s Snapshot) Solved() bool {
	return s.Genes == s.Target
}

// Markers returns a line with '^' under every mismatching gene and spaces
// elsewhere, suitable for printing below Plain.
func (s Snapshot) Markers() string {
	var sb strings.Builder
	for _, miss := range s.Mismatches() {
		if miss {
			sb.WriteByte('^')
		} else {
			sb.WriteByte(' ')
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

// RenderDiff applies hl to every gene in order. A nil hl yields Plain.
func (s Snapshot) RenderDiff(hl Highlighter) string {
	if hl == nil {
		return s.Genes
	}
	misses := s.Mismatches()
	var sb strings.Builder
	i := 0
	for _, r := range s.Genes {
		sb.WriteString(hl(string(r), !misses[i]))
		i++
	}
	return sb.String()
}
