// Package chromosome implements the cumulative-selection candidate: a
// sequence of genes evolving toward a fixed target string.
//
// Each generation produces N mutated copies of the best-so-far sequence and
// keeps a copy only when it is strictly closer to the target (Hamming
// distance). Only the single best survives; there is no crossover.
//
// A Chromosome is safe for concurrent use: setters may be called from other
// goroutines while Evolve runs, and take effect at the next generation
// boundary. Stepping itself is serialized.
package chromosome

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"weasel/internal/charset"
	"weasel/internal/gene"
	"weasel/internal/rng"
)

// DefaultMutationRate is used when no rate option is given.
const DefaultMutationRate = 0.08

var ErrEmptyTarget = errors.New("chromosome: empty target")

// Chromosome is one evolving lineage.
type Chromosome struct {
	// stepMu serializes generations and target replacement; it guards src.
	stepMu sync.Mutex

	mu         sync.Mutex
	target     []rune
	copies     uint32
	rate       float64
	workers    int
	genes      gene.Sequence
	best       uint32
	generation uint32
	runID      string
	started    time.Time

	alphabet *charset.Charset
	src      rng.Source
	logger   *zap.Logger

	observers []subscription
	nextSubID int
}

// Option configures a Chromosome at construction.
type Option func(*Chromosome)

// WithMutationRate sets the per-symbol mutation probability. Values outside
// [0,1] are accepted; they behave as never/always.
func WithMutationRate(rate float64) Option {
	return func(c *Chromosome) { c.rate = rate }
}

// WithCharset swaps the alphabet used for random draws.
func WithCharset(cs *charset.Charset) Option {
	return func(c *Chromosome) {
		if cs != nil {
			c.alphabet = cs
		}
	}
}

// WithSource sets the random source. The chromosome takes ownership of it.
func WithSource(src rng.Source) Option {
	return func(c *Chromosome) {
		if src != nil {
			c.src = src
		}
	}
}

// WithWorkers enables parallel evaluation of copies when n > 1.
func WithWorkers(n int) Option {
	return func(c *Chromosome) { c.workers = n }
}

// WithLogger attaches a zap logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Chromosome) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver subscribes fn before the first generation.
func WithObserver(fn Observer) Option {
	return func(c *Chromosome) { c.subscribe(fn) }
}

// New creates a chromosome whose genes are drawn at random, one per rune of
// target.
func New(target string, copies uint32, opts ...Option) (*Chromosome, error) {
	if target == "" {
		return nil, ErrEmptyTarget
	}
	c := &Chromosome{
		copies:   copies,
		rate:     DefaultMutationRate,
		workers:  1,
		alphabet: charset.Default(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.src == nil {
		c.src = rng.New(0)
	}
	c.resetLocked([]rune(target))
	return c, nil
}

// resetLocked installs target and re-randomizes every gene. Caller holds
// stepMu (or owns c exclusively) and mu.
func (c *Chromosome) resetLocked(target []rune) {
	c.target = target
	c.genes = gene.Random(len(target), c.alphabet, c.src)
	c.best = hamming(c.target, c.genes)
	c.generation = 0
	c.runID = uuid.NewString()
	c.started = time.Time{}
}

// SetTarget replaces the target and re-randomizes the genes to its length.
// The generation counter restarts and a new run id is issued.
func (c *Chromosome) SetTarget(target string) error {
	if target == "" {
		return ErrEmptyTarget
	}
	c.stepMu.Lock()
	defer c.stepMu.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetLocked([]rune(target))
	c.logger.Debug("target replaced",
		zap.String("run_id", c.runID),
		zap.Int("size", len(c.target)))
	return nil
}

// Reset re-randomizes the genes for the current target and starts a new run.
func (c *Chromosome) Reset() {
	c.stepMu.Lock()
	defer c.stepMu.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked(c.target)
}

// SetMutationRate replaces the mutation rate.
func (c *Chromosome) SetMutationRate(rate float64) {
	c.mu.Lock()
	c.rate = rate
	c.mu.Unlock()
}

// SetCopies replaces the number of copies made per generation.
func (c *Chromosome) SetCopies(n uint32) {
	c.mu.Lock()
	c.copies = n
	c.mu.Unlock()
}

// SetWorkers replaces the worker count; n <= 1 means sequential.
func (c *Chromosome) SetWorkers(n int) {
	c.mu.Lock()
	c.workers = n
	c.mu.Unlock()
}

// Alphabet returns the charset genes are drawn from. Callers should check
// a new target against it; symbols outside it can never be matched.
func (c *Chromosome) Alphabet() *charset.Charset {
	return c.alphabet
}

func (c *Chromosome) Target() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return string(c.target)
}

func (c *Chromosome) MutationRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rate
}

func (c *Chromosome) Copies() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copies
}

func (c *Chromosome) Workers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.workers
}

// Size returns the number of genes, which always equals the target length
// in runes.
func (c *Chromosome) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.genes)
}

// Generation returns the number of generations completed in this run.
func (c *Chromosome) Generation() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// BestFitness returns the distance of the current genes to the target.
func (c *Chromosome) BestFitness() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.best
}

// RunID identifies the current run. It changes on SetTarget and Reset.
func (c *Chromosome) RunID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runID
}

// Plain returns the genes as a string.
func (c *Chromosome) Plain() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.genes.String()
}

// RenderDiff renders the genes with hl applied to every symbol.
func (c *Chromosome) RenderDiff(hl Highlighter) string {
	return c.Snapshot().RenderDiff(hl)
}

// Snapshot returns an immutable copy of the current state.
func (c *Chromosome) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Chromosome) snapshotLocked() Snapshot {
	return Snapshot{
		Target:       string(c.target),
		Genes:        c.genes.String(),
		MutationRate: c.rate,
		Copies:       c.copies,
	}
}
