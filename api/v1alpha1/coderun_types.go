// Copyright Contributors to the KubeTask project

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// +genclient
// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope="Namespaced",shortName=cr
// +kubebuilder:printcolumn:JSONPath=`.status.phase`,name="Phase",type=string
// +kubebuilder:printcolumn:JSONPath=`.spec.service`,name="Service",type=string
// +kubebuilder:printcolumn:JSONPath=`.status.jobName`,name="Job",type=string
// +kubebuilder:printcolumn:JSONPath=`.metadata.creationTimestamp`,name="Age",type=date

// CodeRun is a request to implement a task against a service's codebase.
type CodeRun struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	// Spec defines the desired code-implementation run.
	Spec CodeRunSpec `json:"spec"`

	// Status represents the observed state of the run.
	// +optional
	Status RunStatus `json:"status,omitempty"`
}

// CodeRunSpec defines a code-implementation run request.
type CodeRunSpec struct {
	// TaskID is the numeric identifier of the task being implemented.
	// +required
	TaskID int64 `json:"taskId"`

	// Service is the service label this run operates against. Must
	// match [a-z0-9-]+.
	// +required
	// +kubebuilder:validation:Pattern=`^[a-z0-9-]+$`
	Service string `json:"service"`

	// RepositoryURL is the target repository's origin URL.
	// +required
	RepositoryURL string `json:"repositoryUrl"`

	// DocsRepositoryURL is the documentation repository's origin URL.
	// +required
	DocsRepositoryURL string `json:"docsRepositoryUrl"`

	// DocsProjectDirectory optionally scopes the docs repository to a
	// subdirectory.
	// +optional
	DocsProjectDirectory string `json:"docsProjectDirectory,omitempty"`

	// WorkingDirectory is the subdirectory within the repository this
	// task operates on. Defaults to the service name when empty.
	// +optional
	WorkingDirectory string `json:"workingDirectory,omitempty"`

	// Model optionally selects the upstream model identifier.
	// +optional
	Model string `json:"model,omitempty"`

	// GitHubUser is the identity bound to this run.
	// +required
	GitHubUser string `json:"githubUser"`

	// ContextVersion is a monotonic integer incremented by the user to
	// signal a fresh retry attempt. Defaults to 1.
	// +optional
	// +kubebuilder:default=1
	// +kubebuilder:validation:Minimum=1
	ContextVersion int32 `json:"contextVersion,omitempty"`

	// DocsBranch is the branch of the documentation repository to read
	// from. Defaults to "main".
	// +optional
	// +kubebuilder:default=main
	DocsBranch string `json:"docsBranch,omitempty"`

	// ContinueSession requests the agent resume a prior session for this
	// task (on the shared service workspace).
	// +optional
	ContinueSession bool `json:"continueSession,omitempty"`

	// OverwriteMemory requests the agent regenerate CLAUDE.md from
	// scratch rather than merging with an existing one.
	// +optional
	OverwriteMemory bool `json:"overwriteMemory,omitempty"`

	// LocalTools is a comma-separated list of locally-available tool
	// names surfaced to the agent.
	// +optional
	LocalTools string `json:"localTools,omitempty"`

	// RemoteTools is a comma-separated list of remote (MCP) tool names
	// surfaced to the agent.
	// +optional
	RemoteTools string `json:"remoteTools,omitempty"`

	// PromptModification is additional free-text guidance appended to
	// the rendered prompt for this attempt.
	// +optional
	PromptModification string `json:"promptModification,omitempty"`

	// Env are plain environment variable bindings appended to the job
	// container verbatim.
	// +optional
	Env map[string]string `json:"env,omitempty"`

	// EnvFromSecrets are secret-backed environment variable bindings.
	// +optional
	EnvFromSecrets []EnvFromSecret `json:"envFromSecrets,omitempty"`
}

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

// CodeRunList contains a list of CodeRun.
type CodeRunList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []CodeRun `json:"items"`
}
