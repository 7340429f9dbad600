// Copyright Contributors to the KubeTask project

package v1alpha1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ConcurrencyPolicy governs what happens when a scheduled tick fires
// while a previously-created run is still active.
// +kubebuilder:validation:Enum=Allow;Forbid;Replace
type ConcurrencyPolicy string

const (
	// AllowConcurrent permits multiple active runs created from the
	// same CronRun simultaneously.
	AllowConcurrent ConcurrencyPolicy = "Allow"
	// ForbidConcurrent skips a scheduled tick if a prior run is still
	// active.
	ForbidConcurrent ConcurrencyPolicy = "Forbid"
	// ReplaceConcurrent deletes any active run before creating the new
	// one.
	ReplaceConcurrent ConcurrencyPolicy = "Replace"
)

// +genclient
// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope="Namespaced",shortName=cron
// +kubebuilder:printcolumn:JSONPath=`.spec.schedule`,name="Schedule",type=string
// +kubebuilder:printcolumn:JSONPath=`.status.lastScheduleTime`,name="LastSchedule",type=date

// CronRun periodically creates DocsRun or CodeRun objects from a
// template on a cron schedule. It does not reconcile jobs itself; the
// runs it creates are reconciled normally by the DocsRun/CodeRun
// controllers.
type CronRun struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	// Spec defines the schedule and run template.
	Spec CronRunSpec `json:"spec"`

	// Status reports scheduling history.
	// +optional
	Status CronRunStatus `json:"status,omitempty"`
}

// CronRunSpec defines a scheduled run template.
type CronRunSpec struct {
	// Schedule is a standard five-field cron expression.
	// +required
	Schedule string `json:"schedule"`

	// ConcurrencyPolicy governs overlap with an already-active run.
	// Defaults to Forbid.
	// +optional
	// +kubebuilder:default=Forbid
	ConcurrencyPolicy ConcurrencyPolicy `json:"concurrencyPolicy,omitempty"`

	// Suspend pauses scheduling without deleting the CronRun.
	// +optional
	Suspend *bool `json:"suspend,omitempty"`

	// Template is the run-request template materialized at each tick.
	// Exactly one of Docs or Code must be set.
	// +required
	Template RunTemplate `json:"template"`

	// SuccessfulHistoryLimit bounds how many completed child runs are
	// retained. Defaults to 3.
	// +optional
	// +kubebuilder:default=3
	SuccessfulHistoryLimit *int32 `json:"successfulHistoryLimit,omitempty"`

	// FailedHistoryLimit bounds how many failed child runs are
	// retained. Defaults to 1.
	// +optional
	// +kubebuilder:default=1
	FailedHistoryLimit *int32 `json:"failedHistoryLimit,omitempty"`
}

// RunTemplate is a oneof run-request body embedded in a CronRun.
type RunTemplate struct {
	// Labels are merged onto every created run.
	// +optional
	Labels map[string]string `json:"labels,omitempty"`

	// Annotations are merged onto every created run.
	// +optional
	Annotations map[string]string `json:"annotations,omitempty"`

	// Docs, if set, creates a DocsRun at each tick.
	// +optional
	Docs *DocsRunSpec `json:"docs,omitempty"`

	// Code, if set, creates a CodeRun at each tick.
	// +optional
	Code *CodeRunSpec `json:"code,omitempty"`
}

// CronRunStatus reports CronRun scheduling history.
type CronRunStatus struct {
	// LastScheduleTime is when the most recent run was created.
	// +optional
	LastScheduleTime *metav1.Time `json:"lastScheduleTime,omitempty"`

	// Active lists currently non-terminal runs created by this CronRun.
	// +optional
	Active []corev1.ObjectReference `json:"active,omitempty"`

	// Conditions records scheduling-related conditions (e.g. an invalid
	// schedule string).
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

// CronRunList contains a list of CronRun.
type CronRunList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []CronRun `json:"items"`
}
