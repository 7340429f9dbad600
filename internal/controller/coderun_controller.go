// Copyright Contributors to the KubeTask project

package controller

import (
	"context"

	batchv1 "k8s.io/api/batch/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
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

// CodeRunFinalizer blocks deletion of a CodeRun until its managed
// objects (excluding the shared workspace) have been swept.
const CodeRunFinalizer = "kubetask.io/coderun-cleanup"

// CodeRunReconciler reconciles a CodeRun object.
type CodeRunReconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Config   config.Config
	Renderer *render.Renderer
}

// +kubebuilder:rbac:groups=kubetask.io,resources=coderuns,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=kubetask.io,resources=coderuns/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=kubetask.io,resources=coderuns/finalizers,verbs=update
// +kubebuilder:rbac:groups="",resources=persistentvolumeclaims,verbs=get;list;watch;create

// Reconcile mirrors DocsRunReconciler.Reconcile, with the addition of
// the shared-workspace step and the configured per-phase cleanup delay.
func (r *CodeRunReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	logger := log.FromContext(ctx)

	run := &kubetaskv1alpha1.CodeRun{}
	if err := r.Get(ctx, req.NamespacedName, run); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, err
	}

	version := effectiveVersion(run.Spec.ContextVersion)
	labels := resources.CodeLabels(run.Spec.GitHubUser, run.Spec.Service, version, run.Spec.TaskID)
	sel := resources.Selector(labels)

	if !run.DeletionTimestamp.IsZero() {
		if !controllerutil.ContainsFinalizer(run, CodeRunFinalizer) {
			return ctrl.Result{}, nil
		}
		if err := resources.CleanupAll(ctx, r.Client, run.Namespace, sel); err != nil {
			logger.Error(err, "cleaning up code run")
			return ctrl.Result{}, err
		}
		controllerutil.RemoveFinalizer(run, CodeRunFinalizer)
		if err := r.Update(ctx, run); err != nil {
			return ctrl.Result{}, err
		}
		return ctrl.Result{}, nil
	}

	if !controllerutil.ContainsFinalizer(run, CodeRunFinalizer) {
		controllerutil.AddFinalizer(run, CodeRunFinalizer)
		if err := r.Update(ctx, run); err != nil {
			return ctrl.Result{}, err
		}
		return ctrl.Result{Requeue: true}, nil
	}

	workspaceName := naming.WorkspaceName(run.Spec.Service)
	pvc := resources.BuildWorkspacePVC(workspaceName, run.Namespace, run.Spec.Service, r.Config.Storage)
	if err := resources.EnsureWorkspace(ctx, r.Client, run.Namespace, pvc); err != nil {
		logger.Error(err, "ensuring code run workspace")
		return ctrl.Result{}, err
	}

	uid8 := naming.UID8(string(run.UID))
	cmName := naming.CodeConfigMapName(run.Namespace, run.Name, uid8, run.Spec.Service, run.Spec.TaskID, version)
	jobName := naming.CodeJobName(run.Namespace, run.Name, uid8, run.Spec.TaskID, version)

	renderCtx := render.Context{
		TaskID:             run.Spec.TaskID,
		Service:            run.Spec.Service,
		WorkingDirectory:   run.Spec.WorkingDirectory,
		Model:              run.Spec.Model,
		GitHubUser:         run.Spec.GitHubUser,
		RepositoryURL:      run.Spec.RepositoryURL,
		DocsRepositoryURL:  run.Spec.DocsRepositoryURL,
		DocsBranch:         run.Spec.DocsBranch,
		ContinueSession:    run.Spec.ContinueSession,
		OverwriteMemory:    run.Spec.OverwriteMemory,
		ContextVersion:     version,
		RetryCount:         run.Status.RetryCount,
		PromptModification: run.Spec.PromptModification,
		LocalTools:         run.Spec.LocalTools,
		RemoteTools:        run.Spec.RemoteTools,
		Config:             r.Config,
	}

	files, err := r.Renderer.GenerateAll(render.CodeVariant, renderCtx)
	if err != nil {
		logger.Error(err, "rendering code bundle")
		return r.failAndRequeue(ctx, run, err)
	}

	cm := resources.BuildConfigMap(cmName, run.Namespace, labels, files)
	if err := resources.EnsureConfigMap(ctx, r.Client, cm); err != nil {
		logger.Error(err, "ensuring code configuration bundle")
		return ctrl.Result{}, err
	}

	jobIn := resources.JobInput{
		Name:          jobName,
		Namespace:     run.Namespace,
		Labels:        labels,
		ConfigMapName: cmName,
		Config:        r.Config,
	}
	job := resources.BuildCodeJob(run.Spec, workspaceName, jobIn)
	job.OwnerReferences = []metav1.OwnerReference{requestOwnerRef(codeRunKind, run.ObjectMeta)}

	owner, created, err := resources.EnsureJob(ctx, r.Client, job)
	if err != nil {
		logger.Error(err, "ensuring code job")
		return ctrl.Result{}, err
	}
	if owner.Name != "" {
		if err := resources.ReparentConfigMap(ctx, r.Client, run.Namespace, cmName, owner); err != nil {
			logger.Error(err, "re-parenting code bundle")
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
			logger.Error(err, "reconciling code run status")
			return ctrl.Result{}, err
		}
	}

	if err := resources.SweepStale(ctx, r.Client, run.Namespace, sel, jobName, cmName); err != nil {
		logger.Error(err, "sweeping stale code objects")
		return ctrl.Result{}, err
	}

	return ctrl.Result{RequeueAfter: reconcileRequeueInterval}, nil
}

func (r *CodeRunReconciler) patchRunning(ctx context.Context, run *kubetaskv1alpha1.CodeRun, jobName, cmName string) error {
	p := status.NewPatcher(r.Client)
	next := status.Apply(run.Status, status.Derivation{Phase: kubetaskv1alpha1.RunPhaseRunning, Message: "job created"}, jobName, cmName, metav1.Now())
	return p.PatchCodeRun(ctx, run, next)
}

func (r *CodeRunReconciler) reconcileStatus(ctx context.Context, run *kubetaskv1alpha1.CodeRun, jobName, cmName string) error {
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
	if err := p.PatchCodeRun(ctx, run, next); err != nil {
		return err
	}

	delay := r.Config.Cleanup.CompletedJobDelayMinutes
	if next.Phase == kubetaskv1alpha1.RunPhaseFailed {
		delay = r.Config.Cleanup.FailedJobDelayMinutes
	}
	action := status.DecideCleanup(r.Config.Cleanup.Enabled, next.Phase, false, delay)
	if action == status.CleanupDeferred {
		log.FromContext(ctx).Info("job cleanup deferred", "job", jobName, "phase", next.Phase, "delayMinutes", delay)
	}
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

func (r *CodeRunReconciler) failAndRequeue(ctx context.Context, run *kubetaskv1alpha1.CodeRun, cause error) (ctrl.Result, error) {
	p := status.NewPatcher(r.Client)
	next := status.Apply(run.Status, status.Derivation{Phase: kubetaskv1alpha1.RunPhaseFailed, Message: cause.Error()}, "", "", metav1.Now())
	if err := p.PatchCodeRun(ctx, run, next); err != nil {
		return ctrl.Result{}, err
	}
	return ctrl.Result{}, cause
}

// SetupWithManager registers this reconciler with mgr.
func (r *CodeRunReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&kubetaskv1alpha1.CodeRun{}).
		Owns(&batchv1.Job{}).
		Complete(r)
}
