// Copyright Contributors to the KubeTask project

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// RunPhase is the observed phase of a run request.
// +kubebuilder:validation:Enum=Pending;Running;Succeeded;Failed
type RunPhase string

const (
	// RunPhasePending is the initial phase: no job has been created yet.
	RunPhasePending RunPhase = "Pending"
	// RunPhaseRunning means a job has been created or adopted for this run.
	RunPhaseRunning RunPhase = "Running"
	// RunPhaseSucceeded is terminal: the job completed successfully.
	RunPhaseSucceeded RunPhase = "Succeeded"
	// RunPhaseFailed is terminal: the job failed or could not be materialized.
	RunPhaseFailed RunPhase = "Failed"
)

// Condition reasons used when patching run status.
const (
	ReasonJobStarted   = "JobStarted"
	ReasonJobCompleted = "JobCompleted"
	ReasonJobFailed    = "JobFailed"
	ReasonUnknown      = "Unknown"
)

// EnvFromSecret names an environment variable whose value comes from a secret key.
type EnvFromSecret struct {
	// Name is the environment variable name.
	// +required
	Name string `json:"name"`

	// SecretName is the name of the Secret to read from.
	// +required
	SecretName string `json:"secretName"`

	// SecretKey is the key within the Secret.
	// +required
	SecretKey string `json:"secretKey"`
}

// RunStatus is the common status subresource shape for DocsRun and CodeRun.
type RunStatus struct {
	// Phase is the current lifecycle phase of the run.
	// +optional
	Phase RunPhase `json:"phase,omitempty"`

	// Message is a human-readable status message for the current phase.
	// +optional
	Message string `json:"message,omitempty"`

	// LastUpdate is the RFC3339 timestamp of the last status patch.
	// +optional
	LastUpdate *metav1.Time `json:"lastUpdate,omitempty"`

	// JobName is the name of the batch Job materialized for the current
	// context version, once created.
	// +optional
	JobName string `json:"jobName,omitempty"`

	// ConfigMapName is the name of the configuration bundle materialized
	// for the current context version.
	// +optional
	ConfigMapName string `json:"configMapName,omitempty"`

	// RetryCount is preserved across patches. The controller never sets
	// or increments it; it only carries forward the last observed value,
	// which a CodeRun's rendered bundle reads. Only meaningful for CodeRun.
	// +optional
	RetryCount int32 `json:"retryCount,omitempty"`

	// SessionID is an opaque identifier populated by the agent itself
	// (e.g. written to a well-known file and surfaced by the agent's own
	// mechanism). The controller never sets it directly; it only
	// preserves whatever value was last observed across status patches.
	// +optional
	SessionID string `json:"sessionId,omitempty"`

	// Conditions is an ordered list of condition records.
	// +optional
	// +listType=map
	// +listMapKey=type
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// IsTerminal reports whether the phase is one that may never transition
// away from (Succeeded or Failed).
func (p RunPhase) IsTerminal() bool {
	return p == RunPhaseSucceeded || p == RunPhaseFailed
}
