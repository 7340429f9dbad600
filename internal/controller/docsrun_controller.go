// Copyright Contributors to the KubeTask project

package controller

import (
	"context"
	"time"

	batchv1 "k8s.io/api/batch/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/log"

	kubetaskv1alpha1 "github.com/kubetask-io/orchestrator/api/v1alpha1"
	"github.com/kubetask-io/orchestrator/internal/config"
	"github.com/kubetask-io/orchestrator/internal/naming"
	"github.com/kubetask-io/orchestrator/internal/render"
	"github.com/kubetask-io/orchestrator/internal/resources"
	"github.com/kubetask-io/orchestrator/internal/status"
)

// DocsRunFinalizer blocks deletion of a DocsRun until its managed
// objects have been swept.
const DocsRunFinalizer = "kubetask.io/docsrun-cleanup"

// reconcileRequeueInterval is how often a run is re-examined even
// absent a watch-triggered event, so phase transitions that land
// between watch events are still eventually observed.
const reconcileRequeueInterval = 30 * time.Second

// DocsRunReconciler reconciles a DocsRun object.
type DocsRunReconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Config   config.Config
	Renderer *render.Renderer
}

// +kubebuilder:rbac:groups=kubetask.io,resources=docsruns,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=kubetask.io,resources=docsruns/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=kubetask.io,resources=docsruns/finalizers,verbs=update
// +kubebuilder:rbac:groups=batch,resources=jobs,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups="",resources=configmaps,verbs=get;list;watch;create;update;patch;delete

// Reconcile implements the apply/delete dispatch described for the
// reconcile loop: add a finalizer on apply, materialize objects, patch
// status while running, sweep stale objects every pass, and on deletion
// run the cleanup sweep before releasing the finalizer.
func (r *DocsRunReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	logger := log.FromContext(ctx)

	run := &kubetaskv1alpha1.DocsRun{}
	if err := r.Get(ctx, req.NamespacedName, run); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, err
	}

	labels := resources.DocsLabels(run.Spec.GitHubUser, run.Spec.Service, effectiveVersion(run.Spec.ContextVersion))
	sel := resources.Selector(labels)

	if !run.DeletionTimestamp.IsZero() {
		if !controllerutil.ContainsFinalizer(run, DocsRunFinalizer) {
			return ctrl.Result{}, nil
		}
		if err := resources.CleanupAll(ctx, r.Client, run.Namespace, sel); err != nil {
			logger.Error(err, "cleaning up docs run")
			return ctrl.Result{}, err
		}
		controllerutil.RemoveFinalizer(run, DocsRunFinalizer)
		if err := r.Update(ctx, run); err != nil {
			return ctrl.Result{}, err
		}
		return ctrl.Result{}, nil
	}

	if !controllerutil.ContainsFinalizer(run, DocsRunFinalizer) {
		controllerutil.AddFinalizer(run, DocsRunFinalizer)
		if err := r.Update(ctx, run); err != nil {
			return ctrl.Result{}, err
		}
		return ctrl.Result{Requeue: true}, nil
	}

	uid8 := naming.UID8(string(run.UID))
	version := effectiveVersion(run.Spec.ContextVersion)
	cmName := naming.DocsConfigMapName(run.Namespace, run.Name, uid8, version)
	jobName := naming.DocsJobName(run.Namespace, run.Name, uid8)

	renderCtx := render.Context{
		Service:          run.Spec.Service,
		WorkingDirectory: run.Spec.WorkingDirectory,
		Model:            run.Spec.Model,
		GitHubUser:       run.Spec.GitHubUser,
		RepositoryURL:    run.Spec.RepositoryURL,
		SourceBranch:     run.Spec.SourceBranch,
		IncludeCodebase:  run.Spec.IncludeCodebase,
		ContinueSession:  run.Spec.ContinueSession,
		OverwriteMemory:  run.Spec.OverwriteMemory,
		ContextVersion:   version,
		RetryCount:       run.Status.RetryCount,
		Config:           r.Config,
	}

	files, err := r.Renderer.GenerateAll(render.DocsVariant, renderCtx)
	if err != nil {
		logger.Error(err, "rendering docs bundle")
		return r.failAndRequeue(ctx, run, err)
	}

	cm := resources.BuildConfigMap(cmName, run.Namespace, labels, files)
	if err := resources.EnsureConfigMap(ctx, r.Client, cm); err != nil {
		logger.Error(err, "ensuring docs configuration bundle")
		return ctrl.Result{}, err
	}

	jobIn := resources.JobInput{
		Name:          jobName,
		Namespace:     run.Namespace,
		Labels:        labels,
		ConfigMapName: cmName,
		Config:        r.Config,
	}
	job := resources.BuildDocsJob(run.Spec, jobIn)
	job.OwnerReferences = []metav1.OwnerReference{requestOwnerRef(docsRunKind, run.ObjectMeta)}

	owner, created, err := resources.EnsureJob(ctx, r.Client, job)
	if err != nil {
		logger.Error(err, "ensuring docs job")
		return ctrl.Result{}, err
	}
	if owner.Name != "" {
		if err := resources.ReparentConfigMap(ctx, r.Client, run.Namespace, cmName, owner); err != nil {
			logger.Error(err, "re-parenting docs bundle")
			return ctrl.Result{}, err
		}
	}

	if created {
		if err := r.patchRunning(ctx, run, jobName, cmName); err != nil {
			return ctrl.Result{}, err
		}
	}

	if run.Status.Phase == kubetaskv1alpha1.RunPhaseRunning {
		if err := r.reconcileStatus(ctx, run, jobName, cmName); err != nil {
			logger.Error(err, "reconciling docs run status")
			return ctrl.Result{}, err
		}
	}

	if err := resources.SweepStale(ctx, r.Client, run.Namespace, sel, jobName, cmName); err != nil {
		logger.Error(err, "sweeping stale docs objects")
		return ctrl.Result{}, err
	}

	return ctrl.Result{RequeueAfter: reconcileRequeueInterval}, nil
}

func (r *DocsRunReconciler) patchRunning(ctx context.Context, run *kubetaskv1alpha1.DocsRun, jobName, cmName string) error {
	p := status.NewPatcher(r.Client)
	next := status.Apply(run.Status, status.Derivation{Phase: kubetaskv1alpha1.RunPhaseRunning, Message: "job created"}, jobName, cmName, metav1.Now())
	return p.PatchDocsRun(ctx, run, next)
}

func (r *DocsRunReconciler) reconcileStatus(ctx context.Context, run *kubetaskv1alpha1.DocsRun, jobName, cmName string) error {
	job := &batchv1.Job{}
	if err := r.Get(ctx, client.ObjectKey{Namespace: run.Namespace, Name: jobName}, job); err != nil {
		if !apierrors.IsNotFound(err) {
			return err
		}
		job = nil
	}

	d := status.DeriveFromJob(job)
	p := status.NewPatcher(r.Client)
	next := status.Apply(run.Status, d, jobName, cmName, metav1.Now())
	if err := p.PatchDocsRun(ctx, run, next); err != nil {
		return err
	}

	action := status.DecideCleanup(r.Config.Cleanup.Enabled, next.Phase, true, 0)
	if action == status.CleanupDeleteNow && job != nil {
		if !r.Config.Cleanup.DeleteConfigMap {
			if err := resources.OrphanConfigMap(ctx, r.Client, run.Namespace, cmName); err != nil {
				return err
			}
		}
		if err := r.Delete(ctx, job); err != nil && !apierrors.IsNotFound(err) {
			return err
		}
	}
	return nil
}

func (r *DocsRunReconciler) failAndRequeue(ctx context.Context, run *kubetaskv1alpha1.DocsRun, cause error) (ctrl.Result, error) {
	p := status.NewPatcher(r.Client)
	next := status.Apply(run.Status, status.Derivation{Phase: kubetaskv1alpha1.RunPhaseFailed, Message: cause.Error()}, "", "", metav1.Now())
	if err := p.PatchDocsRun(ctx, run, next); err != nil {
		return ctrl.Result{}, err
	}
	return ctrl.Result{}, cause
}

func effectiveVersion(v int32) int32 {
	if v <= 0 {
		return 1
	}
	return v
}

// docsRunKind and codeRunKind are the fixed GroupVersionKinds used to
// build owner references; objects fetched through the typed client
// normally carry an empty TypeMeta, so the kind is named explicitly
// rather than read back off the object.
var (
	docsRunKind = kubetaskv1alpha1.GroupVersion.WithKind("DocsRun")
	codeRunKind = kubetaskv1alpha1.GroupVersion.WithKind("CodeRun")
)

func requestOwnerRef(gvk schema.GroupVersionKind, om metav1.ObjectMeta) metav1.OwnerReference {
	return metav1.OwnerReference{
		APIVersion:         gvk.GroupVersion().String(),
		Kind:               gvk.Kind,
		Name:               om.Name,
		UID:                om.UID,
		Controller:         boolPtr(true),
		BlockOwnerDeletion: boolPtr(true),
	}
}

func boolPtr(b bool) *bool { return &b }

// SetupWithManager registers this reconciler with mgr.
func (r *DocsRunReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&kubetaskv1alpha1.DocsRun{}).
		Owns(&batchv1.Job{}).
		Complete(r)
}
