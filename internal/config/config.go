// Copyright Contributors to the KubeTask project

// Package config loads controller configuration from a mounted file, a
// cluster-stored KubeTaskConfig object, or built-in defaults, in that
// order of preference.
package config

import (
	"context"
	"os"

	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/yaml"

	kubetaskv1alpha1 "github.com/kubetask-io/orchestrator/api/v1alpha1"
	"github.com/kubetask-io/orchestrator/internal/controller/errs"
)

// missingImageSentinel marks an agent image coordinate that was never
// overridden by deployment configuration.
const missingImageSentinel = "MISSING_IMAGE_CONFIG"

// Config is the controller's full runtime configuration.
type Config struct {
	Job         JobConfig         `json:"job"`
	Agent       AgentConfig       `json:"agent"`
	Secrets     SecretsConfig     `json:"secrets"`
	Permissions PermissionsConfig `json:"permissions"`
	Telemetry   TelemetryConfig   `json:"telemetry"`
	Storage     StorageConfig     `json:"storage"`
	Cleanup     CleanupConfig     `json:"cleanup"`
}

// JobConfig bounds batch Job execution.
type JobConfig struct {
	ActiveDeadlineSeconds int64 `json:"activeDeadlineSeconds"`
}

// AgentConfig names the agent container image.
type AgentConfig struct {
	Image            ImageConfig `json:"image"`
	ImagePullSecrets []string    `json:"imagePullSecrets"`
}

// ImageConfig is a repository/tag pair.
type ImageConfig struct {
	Repository string `json:"repository"`
	Tag        string `json:"tag"`
}

// SecretsConfig names the Secret holding the upstream model API token.
type SecretsConfig struct {
	APIKeySecretName string `json:"apiKeySecretName"`
	APIKeySecretKey  string `json:"apiKeySecretKey"`
}

// PermissionsConfig lists tool-permission patterns surfaced into the
// rendered settings file.
type PermissionsConfig struct {
	AgentToolsOverride bool     `json:"agentToolsOverride"`
	Allow              []string `json:"allow"`
	Deny               []string `json:"deny"`
}

// TelemetryConfig carries telemetry endpoint coordinates.
type TelemetryConfig struct {
	Enabled      bool   `json:"enabled"`
	OTLPEndpoint string `json:"otlpEndpoint"`
	OTLPProtocol string `json:"otlpProtocol"`
	LogsEndpoint string `json:"logsEndpoint"`
	LogsProtocol string `json:"logsProtocol"`
}

// StorageConfig parameterizes the workspace PersistentVolumeClaim.
type StorageConfig struct {
	StorageClassName *string `json:"storageClassName,omitempty"`
	WorkspaceSize    string  `json:"workspaceSize"`
}

// CleanupConfig governs post-completion job retention.
type CleanupConfig struct {
	Enabled                  bool  `json:"enabled"`
	CompletedJobDelayMinutes int32 `json:"completedJobDelayMinutes"`
	FailedJobDelayMinutes    int32 `json:"failedJobDelayMinutes"`
	DeleteConfigMap          bool  `json:"deleteConfigMap"`
}

// Default returns the built-in configuration. The agent image is left at
// its sentinel value; callers must override it via a mounted file or
// cluster object before Validate will pass.
func Default() Config {
	return Config{
		Job: JobConfig{ActiveDeadlineSeconds: 7200},
		Agent: AgentConfig{
			Image: ImageConfig{
				Repository: missingImageSentinel,
				Tag:        missingImageSentinel,
			},
			ImagePullSecrets: []string{"ghcr-secret"},
		},
		Secrets: SecretsConfig{
			APIKeySecretName: "kubetask-secrets",
			APIKeySecretKey:  "ANTHROPIC_API_KEY",
		},
		Permissions: PermissionsConfig{
			AgentToolsOverride: false,
			Allow: []string{
				"Bash(*)", "Edit(*)", "Read(*)", "Write(*)",
				"MultiEdit(*)", "Glob(*)", "Grep(*)", "LS(*)",
			},
			Deny: []string{
				"Bash(npm:install*, yarn:install*, cargo:install*, docker:*, kubectl:*, rm:-rf*, git:*)",
			},
		},
		Telemetry: TelemetryConfig{
			Enabled:      false,
			OTLPEndpoint: envOrDefault("OTLP_ENDPOINT", "http://localhost:4317"),
			OTLPProtocol: "grpc",
			LogsEndpoint: envOrDefault("LOGS_ENDPOINT", "http://localhost:4318"),
			LogsProtocol: envOrDefault("LOGS_PROTOCOL", "http"),
		},
		Storage: StorageConfig{
			StorageClassName: nil,
			WorkspaceSize:    "10Gi",
		},
		Cleanup: CleanupConfig{
			Enabled:                  true,
			CompletedJobDelayMinutes: 5,
			FailedJobDelayMinutes:    60,
			DeleteConfigMap:          true,
		},
	}
}

func envOrDefault(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// Validate rejects a configuration whose agent image coordinates were
// never overridden from their sentinel defaults.
func (c Config) Validate() error {
	if c.Agent.Image.Repository == missingImageSentinel || c.Agent.Image.Tag == missingImageSentinel {
		return &errs.ConfigError{
			Msg: "agent image configuration is missing; set agent.image.repository and agent.image.tag",
		}
	}
	return nil
}

// LoadFromFile decodes a YAML configuration document at path, starting
// from Default so unset fields keep their built-in values.
func LoadFromFile(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &errs.ConfigError{Msg: "reading config file " + path + ": " + err.Error()}
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, &errs.ConfigError{Msg: "parsing config YAML: " + err.Error()}
	}
	return cfg, nil
}

// LoadFromKubeTaskConfig reads the cluster-stored KubeTaskConfig object
// named name in namespace ns, starting from Default and overlaying any
// section that is set.
func LoadFromKubeTaskConfig(ctx context.Context, c client.Client, ns, name string) (Config, error) {
	cfg := Default()
	var obj kubetaskv1alpha1.KubeTaskConfig
	if err := c.Get(ctx, client.ObjectKey{Namespace: ns, Name: name}, &obj); err != nil {
		return Config{}, &errs.ConfigError{Msg: "reading KubeTaskConfig " + ns + "/" + name + ": " + err.Error()}
	}
	applySpec(&cfg, obj.Spec)
	return cfg, nil
}

func applySpec(cfg *Config, spec kubetaskv1alpha1.KubeTaskConfigSpec) {
	if spec.Job != nil && spec.Job.ActiveDeadlineSeconds != nil {
		cfg.Job.ActiveDeadlineSeconds = *spec.Job.ActiveDeadlineSeconds
	}
	if spec.Agent != nil {
		if spec.Agent.Repository != "" {
			cfg.Agent.Image.Repository = spec.Agent.Repository
		}
		if spec.Agent.Tag != "" {
			cfg.Agent.Image.Tag = spec.Agent.Tag
		}
		if spec.Agent.ImagePullSecrets != nil {
			cfg.Agent.ImagePullSecrets = spec.Agent.ImagePullSecrets
		}
	}
	if spec.Secrets != nil {
		if spec.Secrets.APIKeySecretName != "" {
			cfg.Secrets.APIKeySecretName = spec.Secrets.APIKeySecretName
		}
		if spec.Secrets.APIKeySecretKey != "" {
			cfg.Secrets.APIKeySecretKey = spec.Secrets.APIKeySecretKey
		}
	}
	if spec.Permissions != nil {
		cfg.Permissions.AgentToolsOverride = spec.Permissions.AgentToolsOverride
		if spec.Permissions.Allow != nil {
			cfg.Permissions.Allow = spec.Permissions.Allow
		}
		if spec.Permissions.Deny != nil {
			cfg.Permissions.Deny = spec.Permissions.Deny
		}
	}
	if spec.Telemetry != nil {
		cfg.Telemetry.Enabled = spec.Telemetry.Enabled
		if spec.Telemetry.OTLPEndpoint != "" {
			cfg.Telemetry.OTLPEndpoint = spec.Telemetry.OTLPEndpoint
		}
		if spec.Telemetry.OTLPProtocol != "" {
			cfg.Telemetry.OTLPProtocol = spec.Telemetry.OTLPProtocol
		}
		if spec.Telemetry.LogsEndpoint != "" {
			cfg.Telemetry.LogsEndpoint = spec.Telemetry.LogsEndpoint
		}
		if spec.Telemetry.LogsProtocol != "" {
			cfg.Telemetry.LogsProtocol = spec.Telemetry.LogsProtocol
		}
	}
	if spec.Storage != nil {
		if spec.Storage.StorageClassName != nil {
			cfg.Storage.StorageClassName = spec.Storage.StorageClassName
		}
		if spec.Storage.WorkspaceSize != "" {
			cfg.Storage.WorkspaceSize = spec.Storage.WorkspaceSize
		}
	}
	if spec.Cleanup != nil {
		if spec.Cleanup.Enabled != nil {
			cfg.Cleanup.Enabled = *spec.Cleanup.Enabled
		}
		if spec.Cleanup.CompletedJobDelayMinutes != nil {
			cfg.Cleanup.CompletedJobDelayMinutes = *spec.Cleanup.CompletedJobDelayMinutes
		}
		if spec.Cleanup.FailedJobDelayMinutes != nil {
			cfg.Cleanup.FailedJobDelayMinutes = *spec.Cleanup.FailedJobDelayMinutes
		}
		if spec.Cleanup.DeleteConfigMap != nil {
			cfg.Cleanup.DeleteConfigMap = *spec.Cleanup.DeleteConfigMap
		}
	}
}

// Load resolves configuration per the documented fallback order: a
// mounted file at filePath if non-empty and present, else the
// KubeTaskConfig object named name in ns if the cluster client is
// non-nil and the object exists, else built-in defaults. The resolved
// configuration is always validated before being returned.
func Load(ctx context.Context, c client.Client, ns, name, filePath string) (Config, error) {
	var cfg Config
	var err error

	switch {
	case filePath != "" && fileExists(filePath):
		cfg, err = LoadFromFile(filePath)
	case c != nil:
		cfg, err = LoadFromKubeTaskConfig(ctx, c, ns, name)
		if err != nil {
			cfg = Default()
			err = nil
		}
	default:
		cfg = Default()
	}
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
