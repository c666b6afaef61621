package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("STRATIFY_CONFIG")
	t.Setenv("PORT", "")
	t.Setenv("SIGNIFICANT_THRESHOLD", "")
	t.Setenv("BRIDGE_TOP_N", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 0.6, cfg.Analysis.SignificantThreshold)
	require.Equal(t, 5, cfg.Analysis.BridgeTopN)
	require.Equal(t, ":8082", cfg.Port)
	require.Equal(t, 3, cfg.LLM.RetryAttempts)
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stratify.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
analysis:
  significant_threshold: 0.7
  bridge_top_n: 3
llm:
  offline: true
`), 0o644))
	t.Setenv("STRATIFY_CONFIG", path)
	t.Setenv("BRIDGE_TOP_N", "4")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Port)
	require.Equal(t, 0.7, cfg.Analysis.SignificantThreshold)
	// Env wins over the file.
	require.Equal(t, 4, cfg.Analysis.BridgeTopN)
	require.True(t, cfg.LLM.Offline)
}

func TestLoad_MissingConfiguredFileFails(t *testing.T) {
	t.Setenv("STRATIFY_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidThresholdFallsBack(t *testing.T) {
	os.Unsetenv("STRATIFY_CONFIG")
	t.Setenv("SIGNIFICANT_THRESHOLD", "7.5")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 0.6, cfg.Analysis.SignificantThreshold)
}
