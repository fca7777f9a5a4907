package config

import (
	"errors"
	"fmt"

	"weasel/internal/charset"
)

// DefaultSentence is the classic target. Every rune is in the default
// alphabet, so a run with a positive mutation rate always converges.
const DefaultSentence = "Methinks it is like a weasel"

var ErrEmptySentence = errors.New("sentence must not be empty")

// EvolutionConfig holds the search parameters.
type EvolutionConfig struct {
	Sentence     string  `yaml:"sentence"`
	MutationRate float64 `yaml:"mutation_rate"` // per symbol, per copy; recommended 0..1
	Copies       uint32  `yaml:"copies"`        // mutated copies per generation
	Workers      int     `yaml:"workers"`       // >1 evaluates copies in parallel
	Seed         int64   `yaml:"seed"`          // 0 = seed from the clock

	// Stop conditions for runs that may never converge (rate 0).
	MaxGenerations uint32 `yaml:"max_generations"` // 0 = unlimited
	Timeout        string `yaml:"timeout"`         // Go duration, empty = none

	// Encoded is accepted for compatibility and has no effect.
	Encoded bool `yaml:"encoded,omitempty"`
}

// Validate checks the sentence against cs and the numeric ranges. A
// mutation rate outside [0,1] is allowed; see RateInRange.
func (e EvolutionConfig) Validate(cs *charset.Charset) error {
	if e.Sentence == "" {
		return ErrEmptySentence
	}
	if err := cs.Validate(e.Sentence); err != nil {
		return fmt.Errorf("invalid sentence: %w", err)
	}
	if e.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", e.Workers)
	}
	if e.Timeout != "" {
		if d := parseDuration(e.Timeout, -1); d < 0 {
			return fmt.Errorf("invalid timeout %q", e.Timeout)
		}
	}
	return nil
}

// RateInRange reports whether the mutation rate lies in [0,1].
func (e EvolutionConfig) RateInRange() bool {
	return e.MutationRate >= 0 && e.MutationRate <= 1
}

// MayNotConverge reports settings under which a run can loop forever.
func (e EvolutionConfig) MayNotConverge() bool {
	return e.MutationRate <= 0 || e.Copies == 0
}
