// Copyright Contributors to the KubeTask project

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// +genclient
// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope="Namespaced",shortName=dr
// +kubebuilder:printcolumn:JSONPath=`.status.phase`,name="Phase",type=string
// +kubebuilder:printcolumn:JSONPath=`.status.jobName`,name="Job",type=string
// +kubebuilder:printcolumn:JSONPath=`.metadata.creationTimestamp`,name="Age",type=date

// DocsRun is a request to generate documentation for a repository.
type DocsRun struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	// Spec defines the desired documentation-generation run.
	Spec DocsRunSpec `json:"spec"`

	// Status represents the observed state of the run.
	// +optional
	Status RunStatus `json:"status,omitempty"`
}

// DocsRunSpec defines a documentation-generation run request.
type DocsRunSpec struct {
	// Service is the service label this run documents. Must match
	// [a-z0-9-]+.
	// +required
	// +kubebuilder:validation:Pattern=`^[a-z0-9-]+$`
	Service string `json:"service"`

	// RepositoryURL is the target repository's origin URL.
	// +required
	RepositoryURL string `json:"repositoryUrl"`

	// WorkingDirectory is the subdirectory within the repository to
	// document.
	// +required
	WorkingDirectory string `json:"workingDirectory"`

	// SourceBranch is the branch to check out before generating docs.
	// +required
	SourceBranch string `json:"sourceBranch"`

	// Model optionally selects the upstream model identifier.
	// +optional
	Model string `json:"model,omitempty"`

	// GitHubUser is the identity bound to this run (app-installation
	// identity or user-login identity).
	// +required
	GitHubUser string `json:"githubUser"`

	// IncludeCodebase, when true, includes the full source tree as
	// context in addition to the documentation directory.
	// +optional
	IncludeCodebase bool `json:"includeCodebase,omitempty"`

	// ContextVersion is a monotonic integer incremented by the user to
	// signal a fresh retry attempt. Defaults to 1.
	// +optional
	// +kubebuilder:default=1
	// +kubebuilder:validation:Minimum=1
	ContextVersion int32 `json:"contextVersion,omitempty"`

	// ContinueSession requests the agent resume a prior session.
	// +optional
	ContinueSession bool `json:"continueSession,omitempty"`

	// OverwriteMemory requests the agent regenerate CLAUDE.md from
	// scratch rather than merging with an existing one.
	// +optional
	OverwriteMemory bool `json:"overwriteMemory,omitempty"`

	// Env are plain environment variable bindings appended to the job
	// container verbatim.
	// +optional
	Env map[string]string `json:"env,omitempty"`

	// EnvFromSecrets are secret-backed environment variable bindings.
	// +optional
	EnvFromSecrets []EnvFromSecret `json:"envFromSecrets,omitempty"`
}

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

// DocsRunList contains a list of DocsRun.
type DocsRunList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []DocsRun `json:"items"`
}
