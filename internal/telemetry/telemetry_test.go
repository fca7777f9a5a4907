package telemetry

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace/noop"

	"weasel/internal/chromosome"
	"weasel/internal/rng"
)

func TestInit_None(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{TraceExporter: "none"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInit_UnknownExporter(t *testing.T) {
	_, err := Init(context.Background(), Config{TraceExporter: "otlp"})
	assert.ErrorIs(t, err, ErrUnknownExporter)
}

func TestInit_StdoutExportsEvolveSpan(t *testing.T) {
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })

	var buf bytes.Buffer
	shutdown, err := Init(context.Background(), Config{
		ServiceName:    "weasel",
		ServiceVersion: "test",
		TraceExporter:  "stdout",
		Writer:         &buf,
	})
	require.NoError(t, err)

	c, err := chromosome.New("hola", 50, chromosome.WithSource(rng.New(3)))
	require.NoError(t, err)
	_, err = c.Evolve(context.Background())
	require.NoError(t, err)

	require.NoError(t, shutdown(context.Background()))
	out := buf.String()
	assert.Contains(t, out, "weasel.evolve")
	assert.Contains(t, out, "service.name")
}

func TestMetrics_ObserverCountsGenerations(t *testing.T) {
	m := NewMetrics()

	var scored uint32
	c, err := chromosome.New("hola", 20,
		chromosome.WithSource(rng.New(11)),
		chromosome.WithObserver(m.Observer()),
		chromosome.WithObserver(func(p chromosome.Progress) { scored += p.Evaluated }))
	require.NoError(t, err)

	final, err := c.Evolve(context.Background())
	require.NoError(t, err)
	m.RecordRun(OutcomeConverged)

	assert.Equal(t, float64(final.Generation), testutil.ToFloat64(m.generations))
	assert.Equal(t, float64(scored), testutil.ToFloat64(m.copies))
	assert.LessOrEqual(t, scored, final.Generation*20)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.bestFitness))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.size))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues(OutcomeConverged)))
}

func TestMetrics_ImprovementsPerRun(t *testing.T) {
	m := NewMetrics()
	obs := m.Observer()

	snap := chromosome.Snapshot{Target: "abcd", Genes: "abcd", Copies: 1}
	for _, p := range []chromosome.Progress{
		{RunID: "a", Generation: 1, BestFitness: 3, Snapshot: snap},
		{RunID: "a", Generation: 2, BestFitness: 3, Snapshot: snap},
		{RunID: "a", Generation: 3, BestFitness: 1, Snapshot: snap},
		{RunID: "b", Generation: 1, BestFitness: 4, Snapshot: snap},
		{RunID: "b", Generation: 2, BestFitness: 2, Snapshot: snap},
	} {
		obs(p)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.improvements))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.generations))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.bestFitness))
}

func TestMetrics_CopiesCountOnlyScoredCopies(t *testing.T) {
	m := NewMetrics()
	obs := m.Observer()

	obs(chromosome.Progress{RunID: "a", Generation: 1, BestFitness: 2,
		Snapshot: chromosome.Snapshot{Target: "ab", Genes: "xy", Copies: 10}, Evaluated: 10})
	obs(chromosome.Progress{RunID: "a", Generation: 2, BestFitness: 0,
		Snapshot: chromosome.Snapshot{Target: "ab", Genes: "ab", Copies: 10}, Evaluated: 3})

	expected := `
# HELP weasel_copies_evaluated_total Mutated copies scored; a converging generation stops at the matching copy
# TYPE weasel_copies_evaluated_total counter
weasel_copies_evaluated_total 13
# HELP weasel_generations_total Generations completed across all runs
# TYPE weasel_generations_total counter
weasel_generations_total 2
`
	err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"weasel_copies_evaluated_total", "weasel_generations_total")
	assert.NoError(t, err)
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.RecordRun(OutcomeStopped)

	path := filepath.Join(t.TempDir(), "weasel.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `weasel_runs_total{outcome="stopped"} 1`)
	assert.Contains(t, string(data), "weasel_generations_total 0")
}
