// Copyright Contributors to the KubeTask project

// Package status derives run status from observed Job state and applies
// it to a DocsRun or CodeRun via a status-subresource merge patch.
package status

import (
	"context"

	batchv1 "k8s.io/api/batch/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	kubetaskv1alpha1 "github.com/kubetask-io/orchestrator/api/v1alpha1"
)

// Derivation is the outcome of inspecting a Job's status: the phase it
// implies and the message that should accompany it.
type Derivation struct {
	Phase   kubetaskv1alpha1.RunPhase
	Message string
}

// DeriveFromJob maps a batch Job's status onto a run phase, following
// completion_time first, then the active/failed counters. A job that has
// not yet reported any status at all (no job observed) stays Pending.
func DeriveFromJob(job *batchv1.Job) Derivation {
	if job == nil {
		return Derivation{Phase: kubetaskv1alpha1.RunPhasePending, Message: "waiting for job to be created"}
	}

	if job.Status.CompletionTime != nil {
		for _, c := range job.Status.Conditions {
			if c.Type == batchv1.JobComplete && c.Status == corev1ConditionTrue {
				return Derivation{Phase: kubetaskv1alpha1.RunPhaseSucceeded, Message: "job completed successfully"}
			}
			if c.Type == batchv1.JobFailed && c.Status == corev1ConditionTrue {
				msg := c.Message
				if msg == "" {
					msg = "job failed"
				}
				return Derivation{Phase: kubetaskv1alpha1.RunPhaseFailed, Message: msg}
			}
		}
		// completion_time is set but neither condition has landed yet;
		// treat as still running rather than guessing.
		return Derivation{Phase: kubetaskv1alpha1.RunPhaseRunning, Message: "job finishing"}
	}

	if job.Status.Active > 0 {
		return Derivation{Phase: kubetaskv1alpha1.RunPhaseRunning, Message: "job is running"}
	}
	if job.Status.Failed > 0 {
		return Derivation{Phase: kubetaskv1alpha1.RunPhaseFailed, Message: "job pod failed"}
	}
	return Derivation{Phase: kubetaskv1alpha1.RunPhasePending, Message: "job created, awaiting pod"}
}

// reasonFor maps a phase onto the fixed condition-reason table.
func reasonFor(phase kubetaskv1alpha1.RunPhase) string {
	switch phase {
	case kubetaskv1alpha1.RunPhaseRunning:
		return kubetaskv1alpha1.ReasonJobStarted
	case kubetaskv1alpha1.RunPhaseSucceeded:
		return kubetaskv1alpha1.ReasonJobCompleted
	case kubetaskv1alpha1.RunPhaseFailed:
		return kubetaskv1alpha1.ReasonJobFailed
	default:
		return kubetaskv1alpha1.ReasonUnknown
	}
}

// Apply folds a derivation into prev, enforcing the forward-only phase
// rule (a terminal phase never reverts) and preserving RetryCount and
// SessionID, which this package never originates. jobName and
// configMapName are recorded whenever non-empty so that once a run has
// materialized an object, its name is never forgotten from status.
func Apply(prev kubetaskv1alpha1.RunStatus, d Derivation, jobName, configMapName string, now metav1.Time) kubetaskv1alpha1.RunStatus {
	next := prev

	if prev.Phase.IsTerminal() {
		d.Phase = prev.Phase
	}

	next.Phase = d.Phase
	next.Message = d.Message
	next.LastUpdate = &now
	if jobName != "" {
		next.JobName = jobName
	}
	if configMapName != "" {
		next.ConfigMapName = configMapName
	}

	next.Conditions = []metav1.Condition{{
		Type:               string(d.Phase),
		Status:             metav1.ConditionTrue,
		Reason:             reasonFor(d.Phase),
		Message:            d.Message,
		LastTransitionTime: now,
	}}

	return next
}

// Patcher applies a RunStatus via a status-subresource merge patch,
// never touching spec.
type Patcher struct {
	Client client.Client
}

// NewPatcher builds a Patcher around c.
func NewPatcher(c client.Client) *Patcher {
	return &Patcher{Client: c}
}

// PatchDocsRun merge-patches a DocsRun's status to next.
func (p *Patcher) PatchDocsRun(ctx context.Context, run *kubetaskv1alpha1.DocsRun, next kubetaskv1alpha1.RunStatus) error {
	patch := client.MergeFrom(run.DeepCopy())
	run.Status = next
	return p.Client.Status().Patch(ctx, run, patch)
}

// PatchCodeRun merge-patches a CodeRun's status to next.
func (p *Patcher) PatchCodeRun(ctx context.Context, run *kubetaskv1alpha1.CodeRun, next kubetaskv1alpha1.RunStatus) error {
	patch := client.MergeFrom(run.DeepCopy())
	run.Status = next
	return p.Client.Status().Patch(ctx, run, patch)
}

// CleanupAction describes what the caller should do with the job that
// backs a now-terminal run.
type CleanupAction int

const (
	// CleanupNone means cleanup is disabled, or the run is not terminal.
	CleanupNone CleanupAction = iota
	// CleanupDeleteNow means the job should be deleted immediately.
	CleanupDeleteNow
	// CleanupDeferred means deletion intent was logged; the job's own
	// ttlSecondsAfterFinished (or a future reconciliation once the delay
	// has elapsed) is responsible for actually removing it. No in-memory
	// timer is scheduled, since it would not survive a controller
	// restart.
	CleanupDeferred
)

// DecideCleanup implements the cleanup-scheduling rule: docs runs are
// deleted immediately on reaching a terminal phase; code runs honor
// their configured delay, deleting inline only when it is zero.
func DecideCleanup(enabled bool, phase kubetaskv1alpha1.RunPhase, isDocs bool, delayMinutes int32) CleanupAction {
	if !enabled || !phase.IsTerminal() {
		return CleanupNone
	}
	if isDocs {
		return CleanupDeleteNow
	}
	if delayMinutes <= 0 {
		return CleanupDeleteNow
	}
	return CleanupDeferred
}

// corev1ConditionTrue avoids importing corev1 solely for its
// ConditionStatus alias; batchv1 conditions share the same string type.
const corev1ConditionTrue = "True"
