package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"weasel/internal/config"
	"weasel/internal/logging"
	"weasel/internal/telemetry"
)

// Set by -ldflags at release time.
var version = "0.3.0-dev"

var (
	// Global flags
	configPath    string
	verbose       bool
	logFile       string
	traceExporter string
	metricsFile   string

	// Evolution flags (run, tui and the root default)
	sentence       string
	mrate          float64
	ncopies        uint32
	encoded        bool
	workers        int
	seed           int64
	maxGenerations uint32
	timeout        time.Duration

	// Effective configuration, resolved in PersistentPreRunE
	cfg *config.Config

	// Logger
	logger *zap.Logger

	shutdownTracing = func(context.Context) error { return nil }
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "weasel",
	Short: "weasel - cumulative selection toward a target sentence",
	Long: `weasel evolves a random string into a target sentence by cumulative
selection: every generation makes many mutated copies of the best string so
far and keeps a copy only if it is strictly closer to the target.

Run without a subcommand to evolve the default sentence on the console.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		flushTracing()
		_ = logging.Sync()
	},
	RunE: runEvolution,
}

// versionCmd prints the build version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the weasel version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "weasel %s\n", version)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&traceExporter, "trace", "", "Trace exporter: none, stdout")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")

	addEvolutionFlags(rootCmd.Flags())
	addEvolutionFlags(runCmd.Flags())
	addEvolutionFlags(tuiCmd.Flags())

	addRunFlags(rootCmd.Flags())
	addRunFlags(runCmd.Flags())
	tuiCmd.Flags().BoolVar(&autoStart, "start", false, "Start evolving immediately")

	configInitCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configDiffCmd)

	// Add commands to root
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(aboutCmd)
	rootCmd.AddCommand(versionCmd)
}

// addEvolutionFlags binds the search parameters. Defaults mirror
// config.DefaultConfig; only flags the user sets override the config file.
func addEvolutionFlags(f *pflag.FlagSet) {
	d := config.DefaultConfig().Evolution
	f.StringVarP(&sentence, "sentence", "s", d.Sentence, "Target sentence")
	f.Float64VarP(&mrate, "mrate", "m", d.MutationRate, "Mutation rate per symbol (0..1)")
	f.Uint32VarP(&ncopies, "ncopies", "n", d.Copies, "Mutated copies per generation")
	f.BoolVarP(&encoded, "encoded", "d", false, "Accepted for compatibility; has no effect")
	f.IntVarP(&workers, "workers", "w", d.Workers, "Evaluate copies on this many workers")
	f.Int64Var(&seed, "seed", 0, "Random seed (0 = from the clock)")
	f.Uint32Var(&maxGenerations, "max-generations", 0, "Stop after this many generations (0 = no limit)")
	f.DurationVar(&timeout, "timeout", 0, "Stop after this long (0 = no limit)")
}

// applyEvolutionFlags copies explicitly set flags onto c.
func applyEvolutionFlags(f *pflag.FlagSet, c *config.Config) {
	if f.Changed("sentence") {
		c.Evolution.Sentence = sentence
	}
	if f.Changed("mrate") {
		c.Evolution.MutationRate = mrate
	}
	if f.Changed("ncopies") {
		c.Evolution.Copies = ncopies
	}
	if f.Changed("encoded") {
		c.Evolution.Encoded = encoded
	}
	if f.Changed("workers") {
		c.Evolution.Workers = workers
	}
	if f.Changed("seed") {
		c.Evolution.Seed = seed
	}
	if f.Changed("max-generations") {
		c.Evolution.MaxGenerations = maxGenerations
	}
	if f.Changed("timeout") {
		c.Evolution.Timeout = timeout.String()
	}
}

// resolveConfig layers defaults, the config file, env and flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	c, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	f := cmd.Flags()
	if f.Changed("log-file") {
		c.Logging.File = logFile
	}
	if f.Changed("trace") {
		c.Telemetry.TraceExporter = traceExporter
	}
	if f.Changed("metrics-file") {
		c.Telemetry.MetricsFile = metricsFile
	}
	applyEvolutionFlags(f, c)
	return c, nil
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = resolveConfig(cmd)
	if err != nil {
		return err
	}

	opts := logging.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.File,
		Categories: cfg.Logging.Categories,
	}
	if verbose {
		opts.Level = "debug"
	}
	// Log lines would tear the full-screen UI apart.
	if cmd == tuiCmd && opts.File == "" {
		opts.Categories = make(map[string]bool, len(logging.Categories))
		for _, c := range logging.Categories {
			opts.Categories[string(c)] = false
		}
	}
	if err := logging.Initialize(opts); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = logging.Zap(logging.CategoryBoot)
	logger.Debug("configuration resolved",
		zap.String("config", configPath),
		zap.String("command", cmd.Name()))

	shutdown, err := telemetry.Init(commandContext(cmd), telemetry.Config{
		ServiceName:    cfg.Name,
		ServiceVersion: version,
		TraceExporter:  cfg.Telemetry.TraceExporter,
		Writer:         cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	shutdownTracing = shutdown
	if cfg.Telemetry.TraceExporter == "stdout" {
		logging.Telemetry("tracing spans to stderr")
	}
	return nil
}

// flushTracing exports pending spans and uninstalls the shutdown hook, so it
// is safe to call from every exit path. Cobra skips PersistentPostRun when
// RunE fails.
func flushTracing() {
	shutdown := shutdownTracing
	shutdownTracing = func(context.Context) error { return nil }

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "trace shutdown: %v\n", err)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	flushTracing()
	logging.CloseAll()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
