package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"weasel/cmd/weasel/ui"
	"weasel/internal/charset"
	"weasel/internal/chromosome"
	"weasel/internal/config"
	"weasel/internal/logging"
	"weasel/internal/rng"
	"weasel/internal/telemetry"
)

var (
	watch   bool
	quiet   bool
	noColor bool
)

var (
	// ErrNotConverged is returned when a run stops before reaching the target.
	ErrNotConverged = errors.New("stopped before convergence")

	errMaxGenerations = errors.New("generation limit reached")
)

// runCmd evolves on the console
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evolve toward the target and print every generation",
	Long: `Prints one line per generation:

  <genes> (mismatches/size) @generation

Mismatching symbols are coloured (or bracketed with --no-color). The command
exits non-zero if it stops before convergence because of --timeout,
--max-generations or an interrupt.`,
	Args: cobra.NoArgs,
	RunE: runEvolution,
}

func addRunFlags(f *pflag.FlagSet) {
	f.BoolVar(&watch, "watch", false, "Apply mutation rate and copy changes from the config file while running")
	f.BoolVar(&quiet, "quiet", false, "Print only the final line")
	f.BoolVar(&noColor, "no-color", false, "Bracket mismatches instead of colouring them")
}

// buildChromosome creates the candidate described by c.
func buildChromosome(c *config.Config, opts ...chromosome.Option) (*chromosome.Chromosome, error) {
	if err := c.Validate(); err != nil {
		if cs, csErr := c.Alphabet.Charset(); csErr == nil && errors.Is(err, charset.ErrInvalidSymbol) {
			if hint := cs.Filter(c.Evolution.Sentence); hint != "" {
				return nil, fmt.Errorf("invalid configuration: %w (try %q)", err, hint)
			}
		}
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	ev := c.Evolution
	if ev.Encoded {
		logging.BootWarn("--encoded has no effect")
	}
	if !ev.RateInRange() {
		logging.BootWarn("mutation rate %.3f is outside [0,1]", ev.MutationRate)
	}

	cs, err := c.Alphabet.Charset()
	if err != nil {
		return nil, err
	}
	base := []chromosome.Option{
		chromosome.WithMutationRate(ev.MutationRate),
		chromosome.WithCharset(cs),
		chromosome.WithSource(rng.New(ev.Seed)),
		chromosome.WithWorkers(ev.Workers),
		chromosome.WithLogger(logging.Zap(logging.CategoryEvolve)),
	}
	return chromosome.New(ev.Sentence, ev.Copies, append(base, opts...)...)
}

// formatProgress renders one console line.
func formatProgress(p chromosome.Progress, hl chromosome.Highlighter) string {
	return fmt.Sprintf("%s (%d/%d) @%d", p.Snapshot.RenderDiff(hl), p.BestFitness, p.Snapshot.Size(), p.Generation)
}

func highlighter() chromosome.Highlighter {
	if noColor {
		return chromosome.BracketHighlighter
	}
	return ui.NewStyles(ui.ThemeByName(cfg.UI.Theme)).Highlighter()
}

func runEvolution(cmd *cobra.Command, args []string) error {
	defer flushTracing()

	metrics := telemetry.NewMetrics()
	c, err := buildChromosome(cfg, chromosome.WithObserver(metrics.Observer()))
	if err != nil {
		return err
	}

	ev := cfg.Evolution
	limit := cfg.GetTimeout()
	if ev.MayNotConverge() && ev.MaxGenerations == 0 && limit == 0 {
		logging.BootWarn("mutation rate %.3f with %d copies cannot converge; interrupt to stop", ev.MutationRate, ev.Copies)
	}

	ctx, cancel := context.WithCancelCause(commandContext(cmd))
	defer cancel(nil)
	if limit > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, limit)
		defer stop()
	}

	out := cmd.OutOrStdout()
	hl := highlighter()
	if !quiet {
		c.Subscribe(func(p chromosome.Progress) {
			fmt.Fprintln(out, formatProgress(p, hl))
		})
	}
	if ev.MaxGenerations > 0 {
		c.Subscribe(func(p chromosome.Progress) {
			if !p.Done() && p.Generation >= ev.MaxGenerations {
				cancel(errMaxGenerations)
			}
		})
	}

	if watch {
		w, err := config.NewWatcher(configPath, func(nc *config.Config) {
			applyLive(cmd, c, nc)
		}, func(err error) {
			logging.ConfigWarn("config reload failed: %v", err)
		})
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
		logging.Config("watching %s", configPath)
	}

	timer := logging.StartTimer(logging.CategoryEvolve, "evolution")
	final, err := c.Evolve(ctx)
	elapsed := timer.Stop()

	if err != nil {
		metrics.RecordRun(telemetry.OutcomeStopped)
		writeMetrics(metrics)
		if quiet {
			fmt.Fprintln(out, formatProgress(final, hl))
		}
		reason := context.Cause(ctx)
		if reason == nil {
			reason = err
		}
		fmt.Fprintf(out, "stopped after %d generations: %v\n", final.Generation, reason)
		return fmt.Errorf("%w: %v", ErrNotConverged, reason)
	}

	metrics.RecordRun(telemetry.OutcomeConverged)
	writeMetrics(metrics)
	if quiet {
		fmt.Fprintln(out, formatProgress(final, hl))
	}
	printSummary(out, final, elapsed)
	return nil
}

func printSummary(out io.Writer, p chromosome.Progress, elapsed time.Duration) {
	fmt.Fprintf(out, "converged in %d generations (%s)\n", p.Generation, elapsed.Round(time.Millisecond))
}

// applyLive pushes reloaded parameters into a running chromosome. Flags the
// user set still win over the file.
func applyLive(cmd *cobra.Command, c *chromosome.Chromosome, nc *config.Config) {
	applyEvolutionFlags(cmd.Flags(), nc)
	if err := nc.Validate(); err != nil {
		logging.ConfigWarn("ignoring invalid config: %v", err)
		return
	}
	ev := nc.Evolution
	c.SetMutationRate(ev.MutationRate)
	c.SetCopies(ev.Copies)
	c.SetWorkers(ev.Workers)
	if ev.Sentence != c.Target() {
		logging.ConfigWarn("sentence changes apply on the next run")
	}
	logging.Zap(logging.CategoryConfig).Info("parameters reloaded",
		zap.Float64("mutation_rate", ev.MutationRate),
		zap.Uint32("copies", ev.Copies),
		zap.Int("workers", ev.Workers))
}

func writeMetrics(m *telemetry.Metrics) {
	path := cfg.Telemetry.MetricsFile
	if path == "" {
		return
	}
	if err := m.WriteTextfile(path); err != nil {
		logging.TelemetryWarn("%v", err)
		return
	}
	logging.Telemetry("metrics written to %s", path)
}
