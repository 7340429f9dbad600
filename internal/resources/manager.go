// Copyright Contributors to the KubeTask project

package resources

import (
	"context"

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/kubetask-io/orchestrator/internal/controller/errs"
)

// OwnerRef describes the owner reference the Resource Manager hands
// back to the caller once the job that should own the configuration
// bundle exists.
type OwnerRef struct {
	APIVersion string
	Kind       string
	Name       string
	UID        string
	Controller bool
}

// ToMeta renders the reference as a metav1.OwnerReference.
func (o OwnerRef) ToMeta() metav1.OwnerReference {
	return metav1.OwnerReference{
		APIVersion:         o.APIVersion,
		Kind:               o.Kind,
		Name:               o.Name,
		UID:                types.UID(o.UID),
		Controller:         boolPtr(o.Controller),
		BlockOwnerDeletion: boolPtr(true),
	}
}

// EnsureWorkspace gets or creates the shared workspace PVC for a
// service, treating a creation conflict as concurrent success.
func EnsureWorkspace(ctx context.Context, c client.Client, namespace string, pvc *corev1.PersistentVolumeClaim) error {
	existing := &corev1.PersistentVolumeClaim{}
	err := c.Get(ctx, client.ObjectKey{Namespace: namespace, Name: pvc.Name}, existing)
	if err == nil {
		return nil
	}
	if !apierrors.IsNotFound(err) {
		return &errs.ClusterAPIError{Code: statusCode(err), Err: err}
	}
	if err := c.Create(ctx, pvc); err != nil {
		if apierrors.IsAlreadyExists(err) {
			return nil
		}
		return &errs.ClusterAPIError{Code: statusCode(err), Err: err}
	}
	return nil
}

// EnsureConfigMap creates the configuration bundle, or replaces its
// content in place if a prior attempt already created it (so every
// reconciliation refreshes rendered output when inputs changed). It is
// created without an owner reference; the job that should own it is
// created afterward, and EnsureJob returns the reference to re-parent
// it.
func EnsureConfigMap(ctx context.Context, c client.Client, cm *corev1.ConfigMap) error {
	err := c.Create(ctx, cm)
	if err == nil {
		return nil
	}
	if !apierrors.IsAlreadyExists(err) {
		return &errs.ClusterAPIError{Code: statusCode(err), Err: err}
	}

	existing := &corev1.ConfigMap{}
	if err := c.Get(ctx, client.ObjectKeyFromObject(cm), existing); err != nil {
		return &errs.ClusterAPIError{Code: statusCode(err), Err: err}
	}
	existing.Data = cm.Data
	if err := c.Update(ctx, existing); err != nil {
		return &errs.ClusterAPIError{Code: statusCode(err), Err: err}
	}
	return nil
}

// ReparentConfigMap sets owner to be the ConfigMap's sole owner
// reference, so that deleting the job cascades to the bundle.
func ReparentConfigMap(ctx context.Context, c client.Client, namespace, name string, owner OwnerRef) error {
	cm := &corev1.ConfigMap{}
	if err := c.Get(ctx, client.ObjectKey{Namespace: namespace, Name: name}, cm); err != nil {
		return &errs.ClusterAPIError{Code: statusCode(err), Err: err}
	}
	cm.OwnerReferences = []metav1.OwnerReference{owner.ToMeta()}
	if err := c.Update(ctx, cm); err != nil {
		return &errs.ClusterAPIError{Code: statusCode(err), Err: err}
	}
	return nil
}

// EnsureJob creates the job if absent; if present (either from a prior
// pass or a racing reconciler), it adopts the existing job instead of
// erroring. The returned OwnerRef always points at the job that exists
// after this call returns, with Controller true only when this call
// created it.
func EnsureJob(ctx context.Context, c client.Client, job *batchv1.Job) (OwnerRef, bool, error) {
	err := c.Create(ctx, job)
	if err == nil {
		return jobOwnerRef(job, true), true, nil
	}
	if !apierrors.IsAlreadyExists(err) {
		return OwnerRef{}, false, &errs.ClusterAPIError{Code: statusCode(err), Err: err}
	}

	existing := &batchv1.Job{}
	if getErr := c.Get(ctx, client.ObjectKeyFromObject(job), existing); getErr != nil {
		return OwnerRef{}, false, &errs.ClusterAPIError{Code: statusCode(getErr), Err: getErr}
	}
	return jobOwnerRef(existing, false), false, nil
}

func jobOwnerRef(job *batchv1.Job, controller bool) OwnerRef {
	if job.Name == "" || job.UID == "" {
		return OwnerRef{}
	}
	return OwnerRef{
		APIVersion: "batch/v1",
		Kind:       "Job",
		Name:       job.Name,
		UID:        string(job.UID),
		Controller: controller,
	}
}

// OrphanConfigMap strips every owner reference from the named bundle,
// so a subsequent job deletion does not cascade-delete it. Used when
// configuration carries deleteConfigMap=false: the job is still
// reclaimed on its retention schedule, but the bundle is kept around
// for inspection.
func OrphanConfigMap(ctx context.Context, c client.Client, namespace, name string) error {
	cm := &corev1.ConfigMap{}
	if err := c.Get(ctx, client.ObjectKey{Namespace: namespace, Name: name}, cm); err != nil {
		if apierrors.IsNotFound(err) {
			return nil
		}
		return &errs.ClusterAPIError{Code: statusCode(err), Err: err}
	}
	if len(cm.OwnerReferences) == 0 {
		return nil
	}
	cm.OwnerReferences = nil
	if err := c.Update(ctx, cm); err != nil {
		return &errs.ClusterAPIError{Code: statusCode(err), Err: err}
	}
	return nil
}

func statusCode(err error) int32 {
	if status, ok := err.(apierrors.APIStatus); ok {
		return status.Status().Code
	}
	return 0
}
