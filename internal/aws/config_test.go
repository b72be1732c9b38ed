package aws

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
)

func TestResolveRegionPrecedence(t *testing.T) {
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_DEFAULT_REGION", "")
	if got := ResolveRegion(""); got != DefaultRegion {
		t.Fatalf("expected default region, got %q", got)
	}
	t.Setenv("AWS_DEFAULT_REGION", "eu-north-1")
	if got := ResolveRegion(""); got != "eu-north-1" {
		t.Fatalf("expected AWS_DEFAULT_REGION, got %q", got)
	}
	t.Setenv("AWS_REGION", "eu-west-3")
	if got := ResolveRegion(""); got != "eu-west-3" {
		t.Fatalf("expected AWS_REGION, got %q", got)
	}
	if got := ResolveRegion(" us-west-1 "); got != "us-west-1" {
		t.Fatalf("expected explicit region, got %q", got)
	}
}

func TestResolveProfile(t *testing.T) {
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_DEFAULT_PROFILE", "")
	if got := ResolveProfile(""); got != "" {
		t.Fatalf("expected empty profile, got %q", got)
	}
	t.Setenv("AWS_DEFAULT_PROFILE", "fallback")
	if got := ResolveProfile(""); got != "fallback" {
		t.Fatalf("expected AWS_DEFAULT_PROFILE, got %q", got)
	}
	t.Setenv("AWS_PROFILE", "env-profile")
	if got := ResolveProfile(""); got != "env-profile" {
		t.Fatalf("expected env profile, got %q", got)
	}
	if got := ResolveProfile("flag-profile"); got != "flag-profile" {
		t.Fatalf("expected explicit profile, got %q", got)
	}
}

// writeSharedConfig points the SDK at isolated credential and config files.
func writeSharedConfig(t *testing.T, credentials, config string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "credentials"), []byte(credentials), 0600); err != nil {
		t.Fatalf("write credentials: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config"), []byte(config), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	t.Setenv("AWS_SESSION_TOKEN", "")
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_DEFAULT_PROFILE", "")
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_DEFAULT_REGION", "")
}

func TestLoadConfigDefaultRegionAndRetryPolicy(t *testing.T) {
	writeSharedConfig(t, "[default]\naws_access_key_id = test\naws_secret_access_key = secret\n", "[default]\n")
	cfg, err := LoadConfig(context.Background(), "", "")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Region != DefaultRegion {
		t.Fatalf("expected default region, got %q", cfg.Region)
	}
	if cfg.RetryMode != sdkaws.RetryModeStandard || cfg.RetryMaxAttempts != retryMaxAttempts {
		t.Fatalf("unexpected retry policy: %q/%d", cfg.RetryMode, cfg.RetryMaxAttempts)
	}
	if cfg.AppID != AppID {
		t.Fatalf("expected app id %q, got %q", AppID, cfg.AppID)
	}
}

func TestLoadConfigUsesRegion(t *testing.T) {
	writeSharedConfig(t, "[default]\naws_access_key_id = test\naws_secret_access_key = secret\n", "[default]\n")
	cfg, err := LoadConfig(context.Background(), "ap-south-1", "")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Region != "ap-south-1" {
		t.Fatalf("expected region ap-south-1, got %q", cfg.Region)
	}
}

func TestLoadConfigUsesProfile(t *testing.T) {
	writeSharedConfig(t,
		"[default]\naws_access_key_id = default-key\naws_secret_access_key = secret\n\n[chaos]\naws_access_key_id = chaos-key\naws_secret_access_key = chaos-secret\n",
		"[default]\n\n[profile chaos]\n",
	)
	cfg, err := LoadConfig(context.Background(), "eu-west-1", "chaos")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	creds, err := cfg.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("retrieve credentials: %v", err)
	}
	if creds.AccessKeyID != "chaos-key" {
		t.Fatalf("expected profile credentials, got %q", creds.AccessKeyID)
	}
}

func TestLoadConfigMissingProfile(t *testing.T) {
	writeSharedConfig(t, "[default]\naws_access_key_id = test\naws_secret_access_key = secret\n", "[default]\n")
	if _, err := LoadConfig(context.Background(), "us-east-1", "missing"); err == nil {
		t.Fatalf("expected error for unknown profile")
	}
}
