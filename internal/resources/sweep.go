// Copyright Contributors to the KubeTask project

package resources

import (
	"context"
	"strings"

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/kubetask-io/orchestrator/internal/controller/errs"
)

// Selector is the label set both cleanup sweeps key off of: every
// managed object sharing app/component/github-user/service with a run
// request, irrespective of context version or task id. A stale job or
// bundle left behind by a prior context-version attempt carries the
// same selector values as the current one, which is exactly what lets
// the sweep find and remove it.
func Selector(labels map[string]string) client.MatchingLabels {
	return client.MatchingLabels{
		"app":         labels["app"],
		"component":   labels["component"],
		"github-user": labels["github-user"],
		"service":     labels["service"],
	}
}

// SweepStale implements the two cleanup sweeps run on every reconcile
// pass: every job matching sel other than currentJobName is deleted,
// and every bundle matching sel other than currentBundleName is
// deleted unless it is currently owned by a live Job (its owner
// references include an entry whose kind is Job in the batch API
// group) — such a bundle belongs to a job the first sweep has not yet
// reached, or a racing reconciliation, and is left for a later pass.
func SweepStale(ctx context.Context, c client.Client, namespace string, sel client.MatchingLabels, currentJobName, currentBundleName string) error {
	var jobs batchv1.JobList
	if err := c.List(ctx, &jobs, client.InNamespace(namespace), sel); err != nil {
		return &errs.ClusterAPIError{Code: statusCode(err), Err: err}
	}
	for i := range jobs.Items {
		if jobs.Items[i].Name == currentJobName {
			continue
		}
		if err := deleteIgnoreNotFound(ctx, c, &jobs.Items[i]); err != nil {
			return err
		}
	}

	var cms corev1.ConfigMapList
	if err := c.List(ctx, &cms, client.InNamespace(namespace), sel); err != nil {
		return &errs.ClusterAPIError{Code: statusCode(err), Err: err}
	}
	for i := range cms.Items {
		cm := &cms.Items[i]
		if cm.Name == currentBundleName || ownedByLiveJob(cm) {
			continue
		}
		if err := deleteIgnoreNotFound(ctx, c, cm); err != nil {
			return err
		}
	}

	return nil
}

func ownedByLiveJob(cm *corev1.ConfigMap) bool {
	for _, ref := range cm.OwnerReferences {
		if ref.Kind == "Job" && strings.HasPrefix(ref.APIVersion, "batch/") {
			return true
		}
	}
	return false
}

// CleanupAll deletes every job and configmap matching sel, used on
// finalizer-driven deletion of a run request. The shared workspace PVC
// is never touched here; it belongs to the service.
func CleanupAll(ctx context.Context, c client.Client, namespace string, sel client.MatchingLabels) error {
	var jobs batchv1.JobList
	if err := c.List(ctx, &jobs, client.InNamespace(namespace), sel); err != nil {
		return &errs.ClusterAPIError{Code: statusCode(err), Err: err}
	}
	for i := range jobs.Items {
		if err := deleteIgnoreNotFound(ctx, c, &jobs.Items[i]); err != nil {
			return err
		}
	}

	var cms corev1.ConfigMapList
	if err := c.List(ctx, &cms, client.InNamespace(namespace), sel); err != nil {
		return &errs.ClusterAPIError{Code: statusCode(err), Err: err}
	}
	for i := range cms.Items {
		if err := deleteIgnoreNotFound(ctx, c, &cms.Items[i]); err != nil {
			return err
		}
	}

	return nil
}

func deleteIgnoreNotFound(ctx context.Context, c client.Client, obj client.Object) error {
	if err := c.Delete(ctx, obj); err != nil && !apierrors.IsNotFound(err) {
		return &errs.ClusterAPIError{Code: statusCode(err), Err: err}
	}
	return nil
}
