// Copyright Contributors to the KubeTask project

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// +genclient
// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object
// +kubebuilder:resource:scope="Namespaced",shortName=ktc
// +kubebuilder:printcolumn:JSONPath=`.metadata.creationTimestamp`,name="Age",type=date

// KubeTaskConfig is the cluster-stored fallback configuration object the
// Config Loader reads when no mounted configuration file is present.
// The manager consults the object named by its --config-name flag
// (default "kubetask-config"); see internal/config.
type KubeTaskConfig struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	// Spec mirrors the subset of internal/config.Config that makes
	// sense to expose as a cluster object.
	Spec KubeTaskConfigSpec `json:"spec"`
}

// KubeTaskConfigSpec is the cluster-stored controller configuration.
type KubeTaskConfigSpec struct {
	// Job configures batch Job execution limits.
	// +optional
	Job *JobConfigSpec `json:"job,omitempty"`

	// Agent configures the agent container image.
	// +optional
	Agent *AgentConfigSpec `json:"agent,omitempty"`

	// Secrets configures the upstream model API token coordinates.
	// +optional
	Secrets *SecretsConfigSpec `json:"secrets,omitempty"`

	// Permissions configures the tool-permission allow/deny lists
	// surfaced into rendered settings.
	// +optional
	Permissions *PermissionsConfigSpec `json:"permissions,omitempty"`

	// Telemetry configures telemetry endpoint coordinates surfaced into
	// rendered settings.
	// +optional
	Telemetry *TelemetryConfigSpec `json:"telemetry,omitempty"`

	// Storage configures workspace PersistentVolumeClaim parameters.
	// +optional
	Storage *StorageConfigSpec `json:"storage,omitempty"`

	// Cleanup configures post-completion job/bundle retention.
	// +optional
	Cleanup *CleanupConfigSpec `json:"cleanup,omitempty"`
}

// JobConfigSpec mirrors internal/config.JobConfig.
type JobConfigSpec struct {
	// ActiveDeadlineSeconds is the wall-clock ceiling on a single job
	// attempt.
	// +optional
	ActiveDeadlineSeconds *int64 `json:"activeDeadlineSeconds,omitempty"`
}

// AgentConfigSpec mirrors internal/config.AgentConfig.
type AgentConfigSpec struct {
	// Repository is the agent container image repository.
	// +optional
	Repository string `json:"repository,omitempty"`
	// Tag is the agent container image tag.
	// +optional
	Tag string `json:"tag,omitempty"`
	// ImagePullSecrets names secrets used to pull the agent image.
	// +optional
	ImagePullSecrets []string `json:"imagePullSecrets,omitempty"`
}

// SecretsConfigSpec mirrors internal/config.SecretsConfig.
type SecretsConfigSpec struct {
	// APIKeySecretName names the Secret holding the upstream model API
	// token.
	// +optional
	APIKeySecretName string `json:"apiKeySecretName,omitempty"`
	// APIKeySecretKey names the key within that Secret.
	// +optional
	APIKeySecretKey string `json:"apiKeySecretKey,omitempty"`
}

// PermissionsConfigSpec mirrors internal/config.PermissionsConfig.
type PermissionsConfigSpec struct {
	// AgentToolsOverride, when true, lets the agent's own tool
	// configuration override the allow/deny lists below.
	// +optional
	AgentToolsOverride bool `json:"agentToolsOverride,omitempty"`
	// Allow lists permitted tool-invocation patterns.
	// +optional
	Allow []string `json:"allow,omitempty"`
	// Deny lists forbidden tool-invocation patterns.
	// +optional
	Deny []string `json:"deny,omitempty"`
}

// TelemetryConfigSpec mirrors internal/config.TelemetryConfig.
type TelemetryConfigSpec struct {
	// Enabled toggles telemetry export.
	// +optional
	Enabled bool `json:"enabled,omitempty"`
	// OTLPEndpoint is the OTLP trace/metric export endpoint.
	// +optional
	OTLPEndpoint string `json:"otlpEndpoint,omitempty"`
	// OTLPProtocol is the OTLP transport protocol (e.g. "http").
	// +optional
	OTLPProtocol string `json:"otlpProtocol,omitempty"`
	// LogsEndpoint is the log export endpoint.
	// +optional
	LogsEndpoint string `json:"logsEndpoint,omitempty"`
	// LogsProtocol is the log transport protocol.
	// +optional
	LogsProtocol string `json:"logsProtocol,omitempty"`
}

// StorageConfigSpec mirrors internal/config.StorageConfig.
type StorageConfigSpec struct {
	// StorageClassName optionally pins the workspace PVC's storage
	// class; empty uses the cluster default.
	// +optional
	StorageClassName *string `json:"storageClassName,omitempty"`
	// WorkspaceSize is the requested workspace PVC capacity.
	// +optional
	WorkspaceSize string `json:"workspaceSize,omitempty"`
}

// CleanupConfigSpec mirrors internal/config.CleanupConfig.
type CleanupConfigSpec struct {
	// Enabled is the master switch for post-completion job deletion.
	// +optional
	Enabled *bool `json:"enabled,omitempty"`
	// CompletedJobDelayMinutes is the retention for successful jobs.
	// +optional
	CompletedJobDelayMinutes *int32 `json:"completedJobDelayMinutes,omitempty"`
	// FailedJobDelayMinutes is the retention for failed jobs.
	// +optional
	FailedJobDelayMinutes *int32 `json:"failedJobDelayMinutes,omitempty"`
	// DeleteConfigMap controls whether the configuration bundle is
	// deleted alongside the job through owner-reference cascade; when
	// false its owner references are stripped first, so it survives.
	// +optional
	DeleteConfigMap *bool `json:"deleteConfigMap,omitempty"`
}

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

// KubeTaskConfigList contains a list of KubeTaskConfig.
type KubeTaskConfigList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []KubeTaskConfig `json:"items"`
}
