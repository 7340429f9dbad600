// Copyright Contributors to the KubeTask project

package render

import (
	"strings"
	"testing"

	"github.com/kubetask-io/orchestrator/internal/config"
)

func TestGenerateAllDocsProducesFixedFilenameSet(t *testing.T) {
	r := New(NewEmbedSource())
	ctx := Context{
		Service:       "billing-api",
		RepositoryURL: "https://github.com/acme/billing-api",
		SourceBranch:  "main",
		GitHubUser:    "jane",
		Config:        config.Default(),
	}

	bundle, err := r.GenerateAll(DocsVariant, ctx)
	if err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}

	for _, name := range []string{"container.sh", "CLAUDE.md", "settings.json", "prompt.md"} {
		if _, ok := bundle[name]; !ok {
			t.Errorf("bundle missing %q", name)
		}
	}
	if _, ok := bundle["hooks-pretooluse.sh"]; !ok {
		t.Errorf("bundle missing hooks-pretooluse.sh, got keys %v", keys(bundle))
	}
	if !strings.Contains(bundle["CLAUDE.md"], "https://github.com/acme/billing-api") {
		t.Errorf("CLAUDE.md did not interpolate repository URL: %q", bundle["CLAUDE.md"])
	}
}

func TestGenerateAllCodeProducesFixedFilenameSet(t *testing.T) {
	r := New(NewEmbedSource())
	ctx := Context{
		TaskID:            7,
		Service:           "billing-api",
		RepositoryURL:     "https://github.com/acme/billing-api",
		DocsRepositoryURL: "https://github.com/acme/docs",
		DocsBranch:        "main",
		GitHubUser:        "jane",
		Config:            config.Default(),
	}

	bundle, err := r.GenerateAll(CodeVariant, ctx)
	if err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}

	for _, name := range []string{
		"container.sh", "CLAUDE.md", "settings.json", "mcp.json",
		"coding-guidelines.md", "github-guidelines.md",
	} {
		if _, ok := bundle[name]; !ok {
			t.Errorf("bundle missing %q", name)
		}
	}
	if _, ok := bundle["prompt.md"]; ok {
		t.Errorf("code bundle unexpectedly contains docs-only prompt.md")
	}
}

func TestEffectiveWorkingDirectoryDefaultsToService(t *testing.T) {
	ctx := Context{Service: "billing-api"}
	if got := ctx.EffectiveWorkingDirectory(); got != "billing-api" {
		t.Errorf("EffectiveWorkingDirectory() = %q, want billing-api", got)
	}
	ctx.WorkingDirectory = "services/billing-api"
	if got := ctx.EffectiveWorkingDirectory(); got != "services/billing-api" {
		t.Errorf("EffectiveWorkingDirectory() = %q, want services/billing-api", got)
	}
}

func TestEffectiveContinueSession(t *testing.T) {
	if (Context{}).EffectiveContinueSession() {
		t.Error("expected false for zero-value context")
	}
	if !(Context{RetryCount: 1}).EffectiveContinueSession() {
		t.Error("expected true once retry count is nonzero")
	}
	if !(Context{ContinueSession: true}).EffectiveContinueSession() {
		t.Error("expected true when explicitly requested")
	}
}

func TestGenerateAllMissingTemplateFails(t *testing.T) {
	r := New(NewDirSource(t.TempDir()))
	if _, err := r.GenerateAll(DocsVariant, Context{Config: config.Default()}); err == nil {
		t.Fatal("expected ConfigError for missing mounted templates")
	}
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
