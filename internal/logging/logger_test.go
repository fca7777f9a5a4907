package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, level zapcore.Level, opts Options) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	install(zap.New(core), opts, nil)
	t.Cleanup(CloseAll)
	return logs
}

func TestCategoriesRouteToNamedLoggers(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel, Options{})

	Boot("boot %d", 1)
	Evolve("generation %d", 2)
	Config("config")
	UI("ui")
	Telemetry("telemetry")

	entries := logs.All()
	require.Len(t, entries, 5)

	var names []string
	for _, e := range entries {
		names = append(names, e.LoggerName)
	}
	assert.Equal(t, []string{"boot", "evolve", "config", "ui", "telemetry"}, names)
	assert.Equal(t, "boot 1", entries[0].Message)
	assert.Equal(t, "generation 2", entries[1].Message)
}

func TestDisabledCategoryIsSilent(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel, Options{Categories: map[string]bool{"ui": false, "evolve": true}})

	assert.False(t, IsCategoryEnabled(CategoryUI))
	assert.True(t, IsCategoryEnabled(CategoryEvolve))
	assert.True(t, IsCategoryEnabled(CategoryBoot))

	UI("hidden")
	UIDebug("hidden")
	Get(CategoryUI).Error("hidden")
	Zap(CategoryUI).Info("hidden")
	Evolve("shown")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "shown", logs.All()[0].Message)
}

func TestLevelFiltering(t *testing.T) {
	logs := observe(t, zapcore.WarnLevel, Options{})

	BootDebug("no")
	Boot("no")
	BootWarn("yes")
	BootError("yes")

	assert.Equal(t, 2, logs.Len())
}

func TestWithAddsFields(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel, Options{})

	Get(CategoryEvolve).With("run", "abc").Info("step")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "abc", logs.All()[0].ContextMap()["run"])
}

func TestZeroLoggerDiscards(t *testing.T) {
	var l Logger
	assert.NotPanics(t, func() {
		l.Debug("x")
		l.Info("x")
		l.Warn("x")
		l.Error("x")
		l.With("k", "v").Info("x")
		l.Zap().Info("x")
	})
}

func TestInitializeWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weasel.log")
	require.NoError(t, Initialize(Options{Level: "debug", Format: "json", File: path}))
	t.Cleanup(CloseAll)

	assert.True(t, IsInitialized())
	Evolve("converged after %d generations", 42)
	require.NoError(t, Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"logger":"evolve"`)
	assert.Contains(t, out, "converged after 42 generations")
}

func TestInitializeConsoleFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weasel.log")
	require.NoError(t, Initialize(Options{Level: "info", Format: "console", File: path}))
	t.Cleanup(CloseAll)

	Config("loaded %s", "weasel.yaml")
	require.NoError(t, Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	assert.Contains(t, line, "INFO")
	assert.Contains(t, line, "config")
	assert.Contains(t, line, "loaded weasel.yaml")
}

func TestInitializeRejectsBadOptions(t *testing.T) {
	t.Cleanup(CloseAll)
	assert.Error(t, Initialize(Options{Level: "loud"}))
	assert.Error(t, Initialize(Options{Format: "xml"}))
	assert.Error(t, Initialize(Options{File: filepath.Join(t.TempDir(), "missing", "dir", "x.log")}))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimerThreshold(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel, Options{})

	timer := StartTimer(CategoryEvolve, "run")
	time.Sleep(2 * time.Millisecond)
	elapsed := timer.StopWithThreshold(time.Nanosecond)

	assert.Greater(t, elapsed, time.Duration(0))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)

	StartTimer(CategoryEvolve, "fast").StopWithThreshold(time.Hour)
	assert.Equal(t, zapcore.DebugLevel, logs.All()[1].Level)
}
