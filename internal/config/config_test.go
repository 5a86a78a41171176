package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/ec429/hbuilder/internal/bomber"
	"github.com/ec429/hbuilder/internal/research"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hbuilder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", Raw{})
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.DataDir)
	assert.Equal(t, zapcore.InfoLevel, cfg.LogLevel)
	assert.Equal(t, bomber.DefaultCurve(), cfg.Curve)
	assert.Equal(t, bomber.DefaultCapacity, cfg.DiagCapacity)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, ":9090", cfg.GRPCAddr)
	assert.False(t, cfg.Watch)
	assert.Empty(t, cfg.HangarPath)
	assert.Equal(t, research.DefaultTimeline(), cfg.Timeline)
	assert.Equal(t, 1000, cfg.Trials)

	missing, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), Raw{})
	require.NoError(t, err)
	assert.Equal(t, cfg, missing)
}

func TestLoadMergesFileThenOverrides(t *testing.T) {
	path := writeConfig(t, `
data_dir: /srv/hbuilder
log_level: debug
coverage:
  form: linear
server:
  grpc_addr: ":9999"
  watch: true
hangar:
  path: /var/lib/hbuilder/hangar.db
research:
  end_year: 1944
  seed: 42
`)
	cfg, err := Load(path, Raw{
		DataDir:  "/tmp/data",
		Research: &ResearchRaw{Trials: ptr(10)},
	})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/data", cfg.DataDir, "flag wins over file")
	assert.Equal(t, zapcore.DebugLevel, cfg.LogLevel)
	assert.Equal(t, bomber.CurveLinear, cfg.Curve.Form)
	assert.Equal(t, 3.0, cfg.Curve.K, "kept from defaults")
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, ":9999", cfg.GRPCAddr)
	assert.True(t, cfg.Watch)
	assert.Equal(t, "/var/lib/hbuilder/hangar.db", cfg.HangarPath)
	assert.Equal(t, 1944, cfg.Timeline.EndYear)
	assert.Equal(t, 1939, cfg.Timeline.StartYear)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 10, cfg.Trials)
}

func TestMergeDoesNotAlias(t *testing.T) {
	base := Defaults()
	over := Raw{Server: &ServerRaw{HTTPAddr: ":1"}}
	merged := Merge(base, over)
	assert.Equal(t, ":1", merged.Server.HTTPAddr)
	assert.Equal(t, ":8080", base.Server.HTTPAddr)
}

func TestValidateReportsEverything(t *testing.T) {
	path := writeConfig(t, `
log_level: loud
coverage:
  form: cubic
  k: -1
diagnostics:
  capacity: 0
server:
  http_addr: ":7000"
  grpc_addr: ":7000"
research:
  start_month: 13
  start_year: 1945
  end_year: 1940
  skip_prob: 1.5
  trials: 0
`)
	_, err := Load(path, Raw{})
	require.Error(t, err)
	for _, want := range []string{
		"log_level", "coverage.form", "coverage.k", "diagnostics.capacity",
		"server.http_addr", "research.start_month", "research.end_year",
		"research.skip_prob", "research.trials",
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := writeConfig(t, "coverage: [1, 2\n")
	_, err := Load(path, Raw{})
	assert.ErrorContains(t, err, "read config")
}

func TestCalculatorOptions(t *testing.T) {
	cfg, err := Load("", Raw{Diagnostics: DiagnosticsRaw{Capacity: ptr(1)}})
	require.NoError(t, err)
	calc := bomber.NewCalculator(cfg.CalculatorOptions()...)
	assert.NotNil(t, calc)
}
