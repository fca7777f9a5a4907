package chromosome

import (
	"context"
	"fmt"
	"iter"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"weasel/internal/gene"
	"weasel/internal/rng"
)

const tracerName = "weasel/chromosome"

// generationParams is the configuration read once at a generation boundary.
type generationParams struct {
	target  []rune
	copies  uint32
	rate    float64
	workers int
}

// Step runs exactly one generation: N mutated copies of the current genes are
// scored, the best strictly-improving copy (if any) becomes the new genes,
// and every observer is notified once. The context is checked before the
// generation starts.
func (c *Chromosome) Step(ctx context.Context) (Progress, error) {
	p, subs, err := c.step(ctx)
	if err != nil {
		return p, err
	}
	notify(subs, p)
	return p, nil
}

func (c *Chromosome) step(ctx context.Context) (Progress, []subscription, error) {
	c.stepMu.Lock()
	defer c.stepMu.Unlock()

	c.mu.Lock()
	params := generationParams{
		target:  c.target,
		copies:  c.copies,
		rate:    c.rate,
		workers: c.workers,
	}
	best := c.genes.Clone()
	bf := c.best
	if c.generation == 0 {
		c.started = time.Now()
	}
	last := c.progressLocked()
	c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return last, nil, fmt.Errorf("chromosome: stopped after generation %d: %w", last.Generation, err)
	}

	var (
		evaluated uint32
		err       error
	)
	if params.workers > 1 && params.copies > 1 {
		best, bf, evaluated, err = c.evaluateParallel(ctx, params, best, bf)
		if err != nil {
			return last, nil, fmt.Errorf("chromosome: generation %d: %w", last.Generation+1, err)
		}
	} else {
		best, bf, evaluated = c.evaluateSequential(params, best, bf)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.genes = best
	c.best = bf
	c.generation++
	p := c.progressLocked()
	p.Evaluated = evaluated

	c.logger.Debug("generation",
		zap.String("run_id", p.RunID),
		zap.Uint32("generation", p.Generation),
		zap.Uint32("best_fitness", p.BestFitness),
		zap.String("genes", p.Snapshot.Genes))
	return p, c.observers, nil
}

func (c *Chromosome) progressLocked() Progress {
	var elapsed time.Duration
	if !c.started.IsZero() {
		elapsed = time.Since(c.started)
	}
	return Progress{
		RunID:       c.runID,
		Generation:  c.generation,
		BestFitness: c.best,
		Snapshot:    c.snapshotLocked(),
		Elapsed:     elapsed,
	}
}

// evaluateSequential resets a working copy to best before every copy, so an
// improvement found by copy i seeds copies i+1..N of the same generation.
// The loop ends early once the target is matched; the count of copies
// actually scored is returned.
func (c *Chromosome) evaluateSequential(p generationParams, best gene.Sequence, bf uint32) (gene.Sequence, uint32, uint32) {
	working := make(gene.Sequence, len(best))
	var evaluated uint32
	for ; evaluated < p.copies && bf > 0; evaluated++ {
		working.CopyFrom(best)
		working.Mutate(p.rate, c.alphabet, c.src)
		if f := hamming(p.target, working); f < bf {
			bf = f
			best.CopyFrom(working)
		}
	}
	return best, bf, evaluated
}

// chunkResult is the best copy found by one worker.
type chunkResult struct {
	fitness   uint32
	genes     gene.Sequence
	evaluated uint32
}

// evaluateParallel mutates every copy from the generation-start best. Copies
// are split into contiguous chunks, one per worker, and each chunk draws from
// its own source derived in order from c.src, so a fixed seed gives the same
// result however the chunks are scheduled. The winner is the lowest fitness,
// earliest copy, and it replaces best only when strictly better.
func (c *Chromosome) evaluateParallel(ctx context.Context, p generationParams, best gene.Sequence, bf uint32) (gene.Sequence, uint32, uint32, error) {
	if bf == 0 {
		return best, bf, 0, nil
	}
	n := int(p.copies)
	workers := min(p.workers, n)
	size := (n + workers - 1) / workers

	results := make([]chunkResult, workers)
	sources := make([]rng.Source, workers)
	for w := range sources {
		sources[w] = rng.Child(c.src)
	}

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * size
		hi := min(lo+size, n)
		g.Go(func() error {
			res := chunkResult{fitness: bf}
			working := make(gene.Sequence, len(best))
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				working.CopyFrom(best)
				working.Mutate(p.rate, c.alphabet, sources[w])
				res.evaluated++
				if f := hamming(p.target, working); f < res.fitness {
					res.fitness = f
					res.genes = working.Clone()
					if f == 0 {
						break
					}
				}
			}
			results[w] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return best, bf, 0, err
	}

	var evaluated uint32
	for _, res := range results {
		evaluated += res.evaluated
		if res.genes != nil && res.fitness < bf {
			bf = res.fitness
			best = res.genes
		}
	}
	return best, bf, evaluated, nil
}

// Evolve runs generations until the genes equal the target, returning the
// final progress. It blocks the calling goroutine; cancel ctx to stop it.
//
// With a mutation rate of 0 (or no copies) and genes that do not already
// match, Evolve never converges and only returns once ctx is done.
func (c *Chromosome) Evolve(ctx context.Context) (Progress, error) {
	snap := c.Snapshot()
	ctx, span := otel.Tracer(tracerName).Start(ctx, "weasel.evolve",
		trace.WithAttributes(
			attribute.String("weasel.run_id", c.RunID()),
			attribute.Int("weasel.size", snap.Size()),
			attribute.Int64("weasel.copies", int64(snap.Copies)),
			attribute.Float64("weasel.mutation_rate", snap.MutationRate),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()

	c.logger.Info("evolution started",
		zap.String("run_id", c.RunID()),
		zap.String("target", snap.Target),
		zap.Uint32("copies", snap.Copies),
		zap.Float64("mutation_rate", snap.MutationRate),
		zap.Int("workers", c.Workers()))

	prev := c.BestFitness()
	var last Progress
	for p, err := range c.Generations(ctx) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.logger.Warn("evolution stopped",
				zap.String("run_id", p.RunID),
				zap.Uint32("generation", p.Generation),
				zap.Uint32("best_fitness", p.BestFitness),
				zap.Error(err))
			return p, err
		}
		if p.BestFitness < prev {
			span.AddEvent("improvement", trace.WithAttributes(
				attribute.Int64("weasel.generation", int64(p.Generation)),
				attribute.Int64("weasel.best_fitness", int64(p.BestFitness)),
			))
		}
		prev = p.BestFitness
		last = p
	}

	span.SetAttributes(
		attribute.Int64("weasel.generations", int64(last.Generation)),
		attribute.String("weasel.elapsed", last.Elapsed.String()),
	)
	span.SetStatus(codes.Ok, "")
	c.logger.Info("evolution converged",
		zap.String("run_id", last.RunID),
		zap.Uint32("generations", last.Generation),
		zap.Duration("elapsed", last.Elapsed))
	return last, nil
}

// Generations yields one Progress per generation. The sequence ends after
// the generation that reaches fitness 0, when the consumer stops, or when
// ctx is done (the error is yielded once, with the last progress). Ranging
// over it again continues from the current state.
func (c *Chromosome) Generations(ctx context.Context) iter.Seq2[Progress, error] {
	return func(yield func(Progress, error) bool) {
		for {
			p, err := c.Step(ctx)
			if err != nil {
				yield(p, err)
				return
			}
			if !yield(p, nil) || p.Done() {
				return
			}
		}
	}
}
