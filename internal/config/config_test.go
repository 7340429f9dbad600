// Copyright Contributors to the KubeTask project

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultFailsValidation(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected Validate to reject sentinel image configuration")
	}
}

func TestValidateAcceptsOverriddenImage(t *testing.T) {
	cfg := Default()
	cfg.Agent.Image.Repository = "ghcr.io/acme/agent"
	cfg.Agent.Image.Tag = "v1.2.3"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	const doc = `
job:
  activeDeadlineSeconds: 3600
agent:
  image:
    repository: test/image
    tag: v9
secrets:
  apiKeySecretName: custom-secrets
  apiKeySecretKey: CUSTOM_KEY
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Job.ActiveDeadlineSeconds != 3600 {
		t.Errorf("ActiveDeadlineSeconds = %d, want 3600", cfg.Job.ActiveDeadlineSeconds)
	}
	if cfg.Agent.Image.Repository != "test/image" || cfg.Agent.Image.Tag != "v9" {
		t.Errorf("image = %+v, want test/image:v9", cfg.Agent.Image)
	}
	if cfg.Secrets.APIKeySecretName != "custom-secrets" || cfg.Secrets.APIKeySecretKey != "CUSTOM_KEY" {
		t.Errorf("secrets = %+v", cfg.Secrets)
	}
	// Unset fields retain their defaults.
	if cfg.Storage.WorkspaceSize != "10Gi" {
		t.Errorf("WorkspaceSize = %q, want default 10Gi", cfg.Storage.WorkspaceSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error reading a nonexistent file")
	}
}

func TestLoadFallsBackToDefaultsWithoutFileOrClient(t *testing.T) {
	_, err := Load(context.Background(), nil, "default", "kubetask-config", "")
	if err == nil {
		t.Fatal("expected Validate failure on built-in defaults (sentinel image)")
	}
}
