// Copyright Contributors to the KubeTask project

package controller

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/robfig/cron/v3"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	kubetaskv1alpha1 "github.com/kubetask-io/orchestrator/api/v1alpha1"
)

const (
	// CronRunLabelKey identifies the CronRun that created a DocsRun or CodeRun.
	CronRunLabelKey = "kubetask.io/cronrun"

	// ScheduledTimeAnnotation records the tick time that produced a run.
	ScheduledTimeAnnotation = "kubetask.io/scheduled-at"

	defaultSuccessfulHistoryLimit int32 = 3
	defaultFailedHistoryLimit     int32 = 1
)

// Clock abstracts time.Now for deterministic tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// CronRunReconciler creates DocsRun or CodeRun objects from a CronRun's
// template on its cron schedule; it never reconciles jobs itself.
type CronRunReconciler struct {
	client.Client
	Scheme *runtime.Scheme
	Clock
}

// +kubebuilder:rbac:groups=kubetask.io,resources=cronruns,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=kubetask.io,resources=cronruns/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=kubetask.io,resources=docsruns;coderuns,verbs=get;list;watch;create;delete

// Reconcile evaluates the schedule, creates a run on a due tick subject
// to the concurrency policy, and prunes run history past the configured
// limits.
func (r *CronRunReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	logger := log.FromContext(ctx)

	if r.Clock == nil {
		r.Clock = realClock{}
	}

	cronRun := &kubetaskv1alpha1.CronRun{}
	if err := r.Get(ctx, req.NamespacedName, cronRun); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, err
	}

	docsRuns, codeRuns, err := r.listChildren(ctx, cronRun)
	if err != nil {
		logger.Error(err, "listing child runs")
		return ctrl.Result{}, err
	}

	active, succeeded, failed := categorize(docsRuns, codeRuns)

	activeRefs := make([]corev1.ObjectReference, 0, len(active))
	for _, ref := range active {
		activeRefs = append(activeRefs, ref)
	}
	cronRun.Status.Active = activeRefs

	if err := r.pruneHistory(ctx, cronRun, succeeded, failed); err != nil {
		logger.Error(err, "pruning run history")
		return ctrl.Result{}, err
	}

	if cronRun.Spec.Suspend != nil && *cronRun.Spec.Suspend {
		if err := r.Status().Update(ctx, cronRun); err != nil {
			return ctrl.Result{}, err
		}
		return ctrl.Result{}, nil
	}

	schedule, err := cron.ParseStandard(cronRun.Spec.Schedule)
	if err != nil {
		meta.SetStatusCondition(&cronRun.Status.Conditions, metav1.Condition{
			Type: "Scheduled", Status: metav1.ConditionFalse,
			Reason: "InvalidSchedule", Message: err.Error(),
		})
		if updateErr := r.Status().Update(ctx, cronRun); updateErr != nil {
			return ctrl.Result{}, updateErr
		}
		return ctrl.Result{}, nil
	}

	now := r.Now()
	scheduledTime := nextDueTime(cronRun.Status.LastScheduleTime, cronRun.CreationTimestamp.Time, now, schedule)

	if scheduledTime != nil {
		if len(active) > 0 {
			switch cronRun.Spec.ConcurrencyPolicy {
			case kubetaskv1alpha1.ForbidConcurrent, "":
				if err := r.Status().Update(ctx, cronRun); err != nil {
					return ctrl.Result{}, err
				}
				return requeueForNextSchedule(now, schedule), nil
			case kubetaskv1alpha1.ReplaceConcurrent:
				if err := r.deleteActive(ctx, active); err != nil {
					return ctrl.Result{}, err
				}
				cronRun.Status.Active = nil
			case kubetaskv1alpha1.AllowConcurrent:
			}
		}

		created, err := r.createRun(ctx, cronRun, *scheduledTime)
		if err != nil {
			logger.Error(err, "creating run from template")
			return ctrl.Result{}, err
		}

		cronRun.Status.LastScheduleTime = &metav1.Time{Time: *scheduledTime}
		meta.SetStatusCondition(&cronRun.Status.Conditions, metav1.Condition{
			Type: "Scheduled", Status: metav1.ConditionTrue,
			Reason: "RunCreated", Message: fmt.Sprintf("created %s", created),
		})
	}

	if err := r.Status().Update(ctx, cronRun); err != nil {
		return ctrl.Result{}, err
	}
	return requeueForNextSchedule(now, schedule), nil
}

func (r *CronRunReconciler) listChildren(ctx context.Context, cronRun *kubetaskv1alpha1.CronRun) ([]kubetaskv1alpha1.DocsRun, []kubetaskv1alpha1.CodeRun, error) {
	var docsList kubetaskv1alpha1.DocsRunList
	if err := r.List(ctx, &docsList, client.InNamespace(cronRun.Namespace), client.MatchingLabels{CronRunLabelKey: cronRun.Name}); err != nil {
		return nil, nil, err
	}
	var codeList kubetaskv1alpha1.CodeRunList
	if err := r.List(ctx, &codeList, client.InNamespace(cronRun.Namespace), client.MatchingLabels{CronRunLabelKey: cronRun.Name}); err != nil {
		return nil, nil, err
	}
	return docsList.Items, codeList.Items, nil
}

func categorize(docsRuns []kubetaskv1alpha1.DocsRun, codeRuns []kubetaskv1alpha1.CodeRun) (active []corev1.ObjectReference, succeeded, failed []client.Object) {
	for i := range docsRuns {
		d := &docsRuns[i]
		ref := corev1.ObjectReference{APIVersion: kubetaskv1alpha1.GroupVersion.String(), Kind: "DocsRun", Name: d.Name, Namespace: d.Namespace, UID: d.UID}
		switch d.Status.Phase {
		case kubetaskv1alpha1.RunPhaseSucceeded:
			succeeded = append(succeeded, d)
		case kubetaskv1alpha1.RunPhaseFailed:
			failed = append(failed, d)
		default:
			active = append(active, ref)
		}
	}
	for i := range codeRuns {
		c := &codeRuns[i]
		ref := corev1.ObjectReference{APIVersion: kubetaskv1alpha1.GroupVersion.String(), Kind: "CodeRun", Name: c.Name, Namespace: c.Namespace, UID: c.UID}
		switch c.Status.Phase {
		case kubetaskv1alpha1.RunPhaseSucceeded:
			succeeded = append(succeeded, c)
		case kubetaskv1alpha1.RunPhaseFailed:
			failed = append(failed, c)
		default:
			active = append(active, ref)
		}
	}
	return active, succeeded, failed
}

func (r *CronRunReconciler) deleteActive(ctx context.Context, active []corev1.ObjectReference) error {
	for _, ref := range active {
		var obj client.Object
		switch ref.Kind {
		case "DocsRun":
			obj = &kubetaskv1alpha1.DocsRun{ObjectMeta: metav1.ObjectMeta{Name: ref.Name, Namespace: ref.Namespace}}
		case "CodeRun":
			obj = &kubetaskv1alpha1.CodeRun{ObjectMeta: metav1.ObjectMeta{Name: ref.Name, Namespace: ref.Namespace}}
		default:
			continue
		}
		if err := r.Delete(ctx, obj); err != nil && !apierrors.IsNotFound(err) {
			return err
		}
	}
	return nil
}

func (r *CronRunReconciler) createRun(ctx context.Context, cronRun *kubetaskv1alpha1.CronRun, scheduledTime time.Time) (string, error) {
	name := fmt.Sprintf("%s-%d", cronRun.Name, scheduledTime.Unix())
	owner := metav1.OwnerReference{
		APIVersion: kubetaskv1alpha1.GroupVersion.String(),
		Kind:       "CronRun",
		Name:       cronRun.Name,
		UID:        cronRun.UID,
		Controller: boolPtr(true),
	}
	labels := map[string]string{CronRunLabelKey: cronRun.Name}
	for k, v := range cronRun.Spec.Template.Labels {
		labels[k] = v
	}
	annotations := map[string]string{ScheduledTimeAnnotation: scheduledTime.Format(time.RFC3339)}
	for k, v := range cronRun.Spec.Template.Annotations {
		annotations[k] = v
	}

	switch {
	case cronRun.Spec.Template.Docs != nil:
		run := &kubetaskv1alpha1.DocsRun{
			ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: cronRun.Namespace, Labels: labels, Annotations: annotations, OwnerReferences: []metav1.OwnerReference{owner}},
			Spec:       *cronRun.Spec.Template.Docs,
		}
		return name, r.Create(ctx, run)
	case cronRun.Spec.Template.Code != nil:
		run := &kubetaskv1alpha1.CodeRun{
			ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: cronRun.Namespace, Labels: labels, Annotations: annotations, OwnerReferences: []metav1.OwnerReference{owner}},
			Spec:       *cronRun.Spec.Template.Code,
		}
		return name, r.Create(ctx, run)
	default:
		return "", fmt.Errorf("cronrun %s/%s template sets neither docs nor code", cronRun.Namespace, cronRun.Name)
	}
}

func (r *CronRunReconciler) pruneHistory(ctx context.Context, cronRun *kubetaskv1alpha1.CronRun, succeeded, failed []client.Object) error {
	successLimit := defaultSuccessfulHistoryLimit
	if cronRun.Spec.SuccessfulHistoryLimit != nil {
		successLimit = *cronRun.Spec.SuccessfulHistoryLimit
	}
	failedLimit := defaultFailedHistoryLimit
	if cronRun.Spec.FailedHistoryLimit != nil {
		failedLimit = *cronRun.Spec.FailedHistoryLimit
	}

	if err := r.deleteOldest(ctx, succeeded, successLimit); err != nil {
		return err
	}
	return r.deleteOldest(ctx, failed, failedLimit)
}

func (r *CronRunReconciler) deleteOldest(ctx context.Context, objs []client.Object, limit int32) error {
	sort.Slice(objs, func(i, j int) bool {
		return objs[i].GetCreationTimestamp().Before(ptrTime(objs[j].GetCreationTimestamp()))
	})
	for i := 0; i < len(objs)-int(limit); i++ {
		if err := r.Delete(ctx, objs[i]); err != nil && !apierrors.IsNotFound(err) {
			return err
		}
	}
	return nil
}

func ptrTime(t metav1.Time) *metav1.Time { return &t }

// nextDueTime returns the next scheduled fire time if it is now or in
// the past relative to now, else nil.
func nextDueTime(last *metav1.Time, created, now time.Time, schedule cron.Schedule) *time.Time {
	var from time.Time
	if last != nil {
		from = last.Time
	} else {
		from = created
	}
	if from.After(now) {
		from = created
	}
	next := schedule.Next(from)
	if next.Before(now) || next.Equal(now) {
		return &next
	}
	return nil
}

func requeueForNextSchedule(now time.Time, schedule cron.Schedule) ctrl.Result {
	d := schedule.Next(now).Sub(now)
	if d < time.Second {
		d = time.Second
	}
	return ctrl.Result{RequeueAfter: d}
}

// SetupWithManager registers this reconciler with mgr.
func (r *CronRunReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&kubetaskv1alpha1.CronRun{}).
		Complete(r)
}
