// Copyright Contributors to the KubeTask project

// Package render generates the keyed file bundle that becomes a run's
// in-container filesystem. It loads named templates from a source
// directory (an embedded default, or a mounted override) and renders
// them against per-request parameters using Go's text/template as the
// logic-less substitution dialect.
package render

import (
	"bytes"
	"embed"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/kubetask-io/orchestrator/internal/config"
	"github.com/kubetask-io/orchestrator/internal/controller/errs"
)

// Variant selects which fixed filename set is produced.
type Variant string

const (
	// DocsVariant produces the documentation-generation bundle.
	DocsVariant Variant = "docs"
	// CodeVariant produces the code-implementation bundle.
	CodeVariant Variant = "code"
)

//go:embed templates/*.tmpl
var defaultTemplates embed.FS

const templatesSubdir = "templates"

// Source loads a named template's raw text and enumerates hook
// templates by prefix.
type Source interface {
	// Load reads the raw template text for logicalPath (e.g.
	// "docs/container.sh"). The on-disk key is logicalPath with '/'
	// folded to '_' plus a ".tmpl" suffix.
	Load(logicalPath string) (string, error)
	// Hooks returns name -> raw template text for every file whose
	// flattened key starts with prefix (e.g. "docs_hooks_"), keyed by
	// the name with the prefix and ".tmpl" suffix stripped.
	Hooks(prefix string) (map[string]string, error)
}

// EmbedSource serves the templates compiled into the binary.
type EmbedSource struct{}

// NewEmbedSource returns the default, binary-embedded template source.
func NewEmbedSource() Source { return EmbedSource{} }

func (EmbedSource) Load(logicalPath string) (string, error) {
	key := flattenKey(logicalPath)
	raw, err := defaultTemplates.ReadFile(filepath.Join(templatesSubdir, key))
	if err != nil {
		return "", &errs.ConfigError{Msg: "loading embedded template " + logicalPath + " (key " + key + "): " + err.Error()}
	}
	return string(raw), nil
}

func (EmbedSource) Hooks(prefix string) (map[string]string, error) {
	entries, err := fs.ReadDir(defaultTemplates, templatesSubdir)
	if err != nil {
		return nil, &errs.ConfigError{Msg: "listing embedded templates: " + err.Error()}
	}
	return collectHooks(entries, prefix, func(name string) (string, error) {
		raw, err := defaultTemplates.ReadFile(filepath.Join(templatesSubdir, name))
		return string(raw), err
	})
}

// DirSource serves templates from a directory mounted into the
// controller (the production path: a ConfigMap volume of flattened
// keys).
type DirSource struct {
	Root string
}

// NewDirSource returns a Source backed by a mounted directory.
func NewDirSource(root string) Source { return DirSource{Root: root} }

func (d DirSource) Load(logicalPath string) (string, error) {
	key := flattenKey(logicalPath)
	raw, err := os.ReadFile(filepath.Join(d.Root, key))
	if err != nil {
		return "", &errs.ConfigError{Msg: "loading template " + logicalPath + " (key " + key + "): " + err.Error()}
	}
	return string(raw), nil
}

func (d DirSource) Hooks(prefix string) (map[string]string, error) {
	entries, err := os.ReadDir(d.Root)
	if err != nil {
		return nil, &errs.ConfigError{Msg: "listing template directory " + d.Root + ": " + err.Error()}
	}
	dirEntries := make([]fs.DirEntry, len(entries))
	copy(dirEntries, entries)
	return collectHooks(dirEntries, prefix, func(name string) (string, error) {
		raw, err := os.ReadFile(filepath.Join(d.Root, name))
		return string(raw), err
	})
}

func collectHooks(entries []fs.DirEntry, prefix string, read func(name string) (string, error)) (map[string]string, error) {
	out := map[string]string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".tmpl") {
			continue
		}
		stripped := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".tmpl")
		raw, err := read(name)
		if err != nil {
			// Hook templates are optional; a read failure on one is
			// skipped, never fatal, and is not reported to the caller.
			continue
		}
		out[stripped] = raw
	}
	return out, nil
}

func flattenKey(logicalPath string) string {
	return strings.ReplaceAll(logicalPath, "/", "_") + ".tmpl"
}

// Context is the bound template data for a single render pass.
type Context struct {
	TaskID             int64
	Service            string
	WorkingDirectory   string
	Model              string
	GitHubUser         string
	RepositoryURL      string
	DocsRepositoryURL  string
	DocsBranch         string
	SourceBranch       string
	IncludeCodebase    bool
	ContinueSession    bool
	OverwriteMemory    bool
	ContextVersion     int32
	RetryCount         int32
	PromptModification string
	LocalTools         string
	RemoteTools        string
	ToolCatalog        string
	Config             config.Config
}

// EffectiveWorkingDirectory is the working directory field, defaulting
// to the service name when empty.
func (c Context) EffectiveWorkingDirectory() string {
	if c.WorkingDirectory != "" {
		return c.WorkingDirectory
	}
	return c.Service
}

// EffectiveContinueSession is true once a run has been retried (its
// retry count is nonzero) or the caller explicitly requested it.
func (c Context) EffectiveContinueSession() bool {
	return c.RetryCount > 0 || c.ContinueSession
}

var funcs = template.FuncMap{
	"toJSON": func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	},
}

// Renderer produces the keyed file bundle for a run request.
type Renderer struct {
	Source Source
}

// New builds a Renderer backed by the given Source.
func New(src Source) *Renderer {
	return &Renderer{Source: src}
}

// coreFiles maps each variant to its fixed, non-hook filename set and
// the logical template path each is rendered from.
var coreFiles = map[Variant][]struct{ name, logical string }{
	DocsVariant: {
		{"container.sh", "docs/container.sh"},
		{"CLAUDE.md", "docs/claude.md"},
		{"settings.json", "docs/settings.json"},
		{"prompt.md", "docs/prompt.md"},
	},
	CodeVariant: {
		{"container.sh", "code/container.sh"},
		{"CLAUDE.md", "code/claude.md"},
		{"settings.json", "code/settings.json"},
		{"mcp.json", "code/mcp.json"},
		{"coding-guidelines.md", "code/coding-guidelines.md"},
		{"github-guidelines.md", "code/github-guidelines.md"},
	},
}

var hookPrefix = map[Variant]string{
	DocsVariant: "docs_hooks_",
	CodeVariant: "code_hooks_",
}

// GenerateAll renders the complete bundle for variant, keyed by
// filename, failing with a ConfigError if any core file cannot be loaded
// or rendered. Hook render failures are non-fatal and simply omitted.
func (r *Renderer) GenerateAll(variant Variant, ctx Context) (map[string]string, error) {
	files, ok := coreFiles[variant]
	if !ok {
		return nil, &errs.ConfigError{Msg: "unknown template variant " + string(variant)}
	}

	out := make(map[string]string, len(files))
	for _, f := range files {
		raw, err := r.Source.Load(f.logical)
		if err != nil {
			return nil, err
		}
		rendered, err := renderString(f.name, raw, ctx)
		if err != nil {
			return nil, &errs.ConfigError{Msg: "rendering " + f.logical + ": " + err.Error()}
		}
		out[f.name] = rendered
	}

	hooks, err := r.Source.Hooks(hookPrefix[variant])
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(hooks))
	for name := range hooks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rendered, err := renderString(name, hooks[name], ctx)
		if err != nil {
			// A hook that fails to render is skipped; the failure is
			// not logged and no error reaches the caller.
			continue
		}
		out["hooks-"+name] = rendered
	}

	return out, nil
}

func renderString(name, raw string, ctx Context) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=default").Funcs(funcs).Parse(raw)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", err
	}
	return buf.String(), nil
}
