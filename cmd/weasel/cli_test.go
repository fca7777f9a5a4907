package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace/noop"

	"weasel/internal/chromosome"
)

// resetFlags restores every flag to its default so package-level commands
// can be executed more than once.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the CLI with an isolated config file and log file.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"WEASEL_SENTENCE", "WEASEL_MRATE", "WEASEL_NCOPIES", "WEASEL_WORKERS", "WEASEL_SEED", "WEASEL_DARK_MODE"} {
		t.Setenv(k, "")
	}
	resetFlags(rootCmd)

	dir := t.TempDir()
	base := []string{"--config", filepath.Join(dir, "weasel.yaml"), "--log-file", filepath.Join(dir, "weasel.log")}
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append(base, args...))
	err := rootCmd.Execute()
	return buf.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestRun_PrintsEveryGenerationUntilConverged(t *testing.T) {
	out, err := execute(t, "run", "-s", "hola", "-n", "50", "--seed", "5", "--no-color")
	require.NoError(t, err)

	ls := lines(out)
	require.GreaterOrEqual(t, len(ls), 2)
	assert.True(t, strings.HasSuffix(ls[0], "@1"), ls[0])
	assert.True(t, strings.HasPrefix(ls[len(ls)-2], "hola (0/4) @"), ls[len(ls)-2])
	assert.True(t, strings.HasPrefix(ls[len(ls)-1], "converged in "))
}

func TestRun_IsRootDefault(t *testing.T) {
	out, err := execute(t, "-s", "ab", "--seed", "9", "--quiet", "--no-color")
	require.NoError(t, err)
	ls := lines(out)
	require.Len(t, ls, 2)
	assert.True(t, strings.HasPrefix(ls[0], "ab (0/2) @"))
}

func TestRun_MaxGenerationsStopsWithError(t *testing.T) {
	out, err := execute(t, "run", "-s", "hola", "-m", "0", "--seed", "1", "--max-generations", "3", "--no-color")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConverged)

	ls := lines(out)
	require.Len(t, ls, 4)
	assert.True(t, strings.HasSuffix(ls[2], "@3"))
	assert.Contains(t, ls[3], "stopped after 3 generations: generation limit reached")
}

func TestRun_StoppedRunExportsErrorSpan(t *testing.T) {
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })

	out, err := execute(t, "run", "-s", "hola", "-m", "0", "--seed", "1",
		"--max-generations", "3", "--trace", "stdout", "--quiet", "--no-color")
	require.ErrorIs(t, err, ErrNotConverged)

	assert.Contains(t, out, "weasel.evolve")
	assert.Contains(t, out, `"Error"`)
}

func TestRun_TimeoutStopsWithError(t *testing.T) {
	_, err := execute(t, "run", "-s", "hola", "-n", "0", "--timeout", "30ms", "--quiet", "--no-color")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConverged)
	assert.Contains(t, err.Error(), "deadline exceeded")
}

func TestRun_RejectsSentenceOutsideAlphabet(t *testing.T) {
	_, err := execute(t, "run", "-s", "it's")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
	assert.Contains(t, err.Error(), `try "its"`)
}

func TestRun_ParallelWorkers(t *testing.T) {
	out, err := execute(t, "run", "-s", "weasel", "-n", "100", "-w", "4", "--seed", "3", "--quiet", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "weasel (0/6)")
}

func TestRun_FlagsOverrideConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weasel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("evolution:\n  sentence: abc\n  copies: 7\n  mutation_rate: 0.2\n"), 0644))

	_, err := execute(t, "run", "--config", path, "-m", "0.5", "--seed", "1", "--quiet", "--no-color")
	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.Evolution.Sentence)
	assert.Equal(t, uint32(7), cfg.Evolution.Copies)
	assert.Equal(t, 0.5, cfg.Evolution.MutationRate)
}

func TestRun_WritesMetricsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weasel.prom")
	_, err := execute(t, "run", "-s", "ab", "--seed", "2", "--quiet", "--no-color", "--metrics-file", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `weasel_runs_total{outcome="converged"} 1`)
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weasel.yaml")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	_, err = execute(t, "config", "init", path)
	assert.Error(t, err)

	_, err = execute(t, "config", "init", path, "--force")
	assert.NoError(t, err)

	t.Setenv("WEASEL_NCOPIES", "12")
	resetFlags(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"--config", path, "--log-file", filepath.Join(t.TempDir(), "log"), "config", "show"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "copies: 12")
	assert.Contains(t, buf.String(), "sentence: Methinks it is like a weasel")
}

func TestConfigDiff(t *testing.T) {
	// execute always sets --log-file, so that is the only change.
	out, err := execute(t, "config", "diff")
	require.NoError(t, err)
	assert.Contains(t, out, "weasel.log")
	assert.NotContains(t, out, "copies")

	out, err = execute(t, "--trace", "none", "--metrics-file", "m.prom", "config", "diff")
	require.NoError(t, err)
	assert.Contains(t, out, "+ ")
	assert.Contains(t, out, "metrics_file: m.prom")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "weasel "+version+"\n", out)
}

func TestAbout(t *testing.T) {
	out, err := execute(t, "about", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "cumulative selection")
}

func TestFormatProgress(t *testing.T) {
	p := chromosome.Progress{
		Generation:  3,
		BestFitness: 2,
		Snapshot:    chromosome.Snapshot{Target: "hola", Genes: "halo"},
	}
	assert.Equal(t, "h[a]l[o] (2/4) @3", formatProgress(p, chromosome.BracketHighlighter))
}
