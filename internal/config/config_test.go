package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWithOverridesAndDropIns(t *testing.T) {
	dir := t.TempDir()
	mainCfg := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(mainCfg, []byte(`
region = "eu-west-1"
allow_writes = true
log_level = "debug"
`), 0600); err != nil {
		t.Fatalf("write main config: %v", err)
	}

	dropInDir := filepath.Join(dir, "dropins")
	if err := os.MkdirAll(dropInDir, 0700); err != nil {
		t.Fatalf("mkdir dropins: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dropInDir, "10-base.toml"), []byte(`
profile = "chaos"
log_level = "info"
`), 0600); err != nil {
		t.Fatalf("write dropin: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dropInDir, "20-override.toml"), []byte(`
log_level = "warn"

[pagination]
max_pages = 25
`), 0600); err != nil {
		t.Fatalf("write dropin: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dropInDir, "README"), []byte("not toml ["), 0600); err != nil {
		t.Fatalf("write readme: %v", err)
	}

	overrideWrites := false
	overrideRegion := "us-west-2"
	cfg, err := Load(mainCfg, dropInDir, Overrides{AllowWrites: &overrideWrites, Region: &overrideRegion})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AllowWrites {
		t.Fatalf("expected override allow_writes false")
	}
	if cfg.Profile != "chaos" {
		t.Fatalf("expected profile from drop-in, got %q", cfg.Profile)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected drop-in override log_level, got %q", cfg.LogLevel)
	}
	if cfg.Region != "us-west-2" {
		t.Fatalf("expected override region, got %q", cfg.Region)
	}
	if cfg.Pagination.MaxPages != 25 {
		t.Fatalf("expected max pages from drop-in, got %d", cfg.Pagination.MaxPages)
	}
	if len(cfg.Toolsets) != 1 || cfg.Toolsets[0] != "aws" {
		t.Fatalf("expected default toolsets, got %#v", cfg.Toolsets)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.AllowWrites {
		t.Fatalf("writes must be disabled by default")
	}
	if cfg.Pagination.MaxPages != DefaultMaxPages {
		t.Fatalf("unexpected default max pages: %d", cfg.Pagination.MaxPages)
	}
	if cfg.Cache.ListTTLSeconds != 0 {
		t.Fatalf("list cache must be disabled by default")
	}
}

func TestLoadMetricsAndTimeouts(t *testing.T) {
	dir := t.TempDir()
	mainCfg := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(mainCfg, []byte(`
[metrics]
otlp_endpoint = "localhost:4317"
insecure = true

[timeouts]
default_seconds = 30
per_tool = { SearchResources = 10 }
`), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(mainCfg, "", Overrides{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Metrics.OTLPEndpoint != "localhost:4317" || !cfg.Metrics.Insecure {
		t.Fatalf("unexpected metrics config: %#v", cfg.Metrics)
	}
	if cfg.Timeouts.DefaultSeconds != 30 || cfg.Timeouts.PerTool["SearchResources"] != 10 {
		t.Fatalf("unexpected timeouts config: %#v", cfg.Timeouts)
	}
}

func TestDropInFilesMissingDir(t *testing.T) {
	files, err := dropInFiles(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("dropInFiles: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no files, got %#v", files)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := readFile(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestReadFileInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(path, []byte("invalid = ["), 0600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	_, err := readFile(path)
	if err == nil {
		t.Fatalf("expected error for invalid toml")
	}
}

func TestMergeTimeoutsAndCache(t *testing.T) {
	dst := Config{}
	src := Config{
		AllowWrites: true,
		Timeouts: TimeoutConfig{
			DefaultSeconds: 10,
			MaxSeconds:     20,
			PerTool:        map[string]int{"ListFISExperiments": 5},
		},
		Cache: CacheConfig{ListTTLSeconds: 13},
	}
	merge(&dst, src)
	if !dst.AllowWrites {
		t.Fatalf("expected allow_writes to be set")
	}
	if dst.Timeouts.DefaultSeconds != 10 || dst.Timeouts.MaxSeconds != 20 {
		t.Fatalf("unexpected timeouts: %#v", dst.Timeouts)
	}
	if dst.Timeouts.PerTool["ListFISExperiments"] != 5 {
		t.Fatalf("expected per-tool timeout")
	}
	if dst.Cache.ListTTLSeconds != 13 {
		t.Fatalf("unexpected cache config: %#v", dst.Cache)
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := DefaultConfig()
	toolsets := []string{"aws"}
	allow := true
	logLevel := "error"
	region := "ap-southeast-2"
	profile := "ops"
	applyOverrides(&cfg, Overrides{
		Region:      &region,
		Profile:     &profile,
		AllowWrites: &allow,
		Toolsets:    &toolsets,
		LogLevel:    &logLevel,
	})
	if cfg.Region != region || cfg.Profile != profile {
		t.Fatalf("unexpected overrides: %#v", cfg)
	}
	if !cfg.AllowWrites || cfg.LogLevel != "error" {
		t.Fatalf("unexpected overrides applied: %#v", cfg)
	}
}

func TestLoadDotEnvKeepsExistingVariables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("FISMCP_TEST_REGION=eu-central-1\nFISMCP_TEST_PRESET=from-file\n"), 0600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("FISMCP_TEST_PRESET", "from-env")
	t.Setenv("FISMCP_TEST_REGION", "")
	os.Unsetenv("FISMCP_TEST_REGION")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	if got := os.Getenv("FISMCP_TEST_REGION"); got != "eu-central-1" {
		t.Fatalf("expected region from file, got %q", got)
	}
	if got := os.Getenv("FISMCP_TEST_PRESET"); got != "from-env" {
		t.Fatalf("expected existing env to win, got %q", got)
	}
}
