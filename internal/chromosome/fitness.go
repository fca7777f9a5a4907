package chromosome

import (
	"errors"
	"fmt"

	"weasel/internal/gene"
)

var ErrLengthMismatch = errors.New("chromosome: gene sequence and target differ in length")

// LengthMismatchError is returned when a sequence cannot be scored against
// the target because the lengths differ.
type LengthMismatchError struct {
	Genes  int
	Target int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("chromosome: %d genes scored against a target of length %d", e.Genes, e.Target)
}

func (e *LengthMismatchError) Unwrap() error { return ErrLengthMismatch }

// Fitness returns the Hamming distance between genes and the target: the
// number of positions whose symbols differ. Lower is better; 0 is an exact
// match.
func (c *Chromosome) Fitness(genes gene.Sequence) (uint32, error) {
	c.mu.Lock()
	target := c.target
	c.mu.Unlock()

	if len(genes) != len(target) {
		return 0, &LengthMismatchError{Genes: len(genes), Target: len(target)}
	}
	return hamming(target, genes), nil
}

// hamming assumes len(genes) == len(target).
func hamming(target []rune, genes gene.Sequence) uint32 {
	var d uint32
	for i, r := range target {
		if genes[i].Get() != r {
			d++
		}
	}
	return d
}
