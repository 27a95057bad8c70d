package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snipex/internal/core/config"
	"snipex/internal/core/errors"
)

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions([]string{"-watch", "-out", "out.jsonl", "-metrics-addr", ":9100", "src", "lib"})
	require.NoError(t, err)
	assert.True(t, opts.watch)
	assert.Equal(t, "out.jsonl", opts.out)
	assert.Equal(t, ":9100", opts.metricsAddr)
	assert.Equal(t, defaultConfigPath, opts.configPath)
	assert.Equal(t, []string{"src", "lib"}, opts.args)

	_, err = parseOptions([]string{"-nope"})
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	t.Run("DefaultPathFallsBack", func(t *testing.T) {
		t.Chdir(t.TempDir())
		cfg, path, err := loadConfig(defaultConfigPath)
		require.NoError(t, err)
		assert.Empty(t, path)
		assert.True(t, cfg.Cache.Enabled)
	})

	t.Run("ExplicitMissingFails", func(t *testing.T) {
		_, _, err := loadConfig(filepath.Join(t.TempDir(), "absent.toml"))
		assert.True(t, errors.IsCode(err, errors.CodeNotFound))
	})

	t.Run("ExplicitFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "snipex.toml")
		require.NoError(t, os.WriteFile(path, []byte("[batch]\nsize = 3\n"), 0o644))
		cfg, got, err := loadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, path, got)
		assert.Equal(t, 3, cfg.Batch.Size)
	})
}

func TestApplyOptions(t *testing.T) {
	cfg := &config.Config{}
	applyOptions(cliOptions{out: "x.jsonl", pretty: true, metricsAddr: ":1", includeTests: true}, cfg)
	assert.Equal(t, "x.jsonl", cfg.Output.Path)
	assert.True(t, cfg.Output.Pretty)
	assert.Equal(t, ":1", cfg.Observability.MetricsAddr)
	assert.True(t, cfg.Scan.IncludeTests)
}

func TestObservabilityServer_Handler(t *testing.T) {
	srv := httptest.NewServer(NewObservabilityServer(":0").Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "up", body["status"])

	metrics, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer metrics.Body.Close()
	assert.Equal(t, http.StatusOK, metrics.StatusCode)
}

func TestObservabilityServer_StartStop(t *testing.T) {
	s := NewObservabilityServer("127.0.0.1:0")
	require.NoError(t, s.Start(context.Background()))
	assert.NoError(t, s.Stop(context.Background()))
}

func TestRun_ScanToFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "check.py"), []byte(
		"def check(values):\n    for v in values:\n        if v > 10:\n            raise ValueError(v)\n    return True\n",
	), 0o644))
	out := filepath.Join(dir, "out", "snippets.jsonl")
	cfgPath := filepath.Join(dir, "snipex.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[cache]\nenabled = false\n"), 0o644))

	code := Run([]string{"-config", cfgPath, "-out", out, src})
	require.Equal(t, 0, code)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"language":"python"`)
}

func TestRun_Version(t *testing.T) {
	assert.Equal(t, 0, Run([]string{"-version"}))
	assert.Equal(t, 2, Run([]string{"-bogus"}))
}
