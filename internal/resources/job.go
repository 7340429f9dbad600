// Copyright Contributors to the KubeTask project

package resources

import (
	"strconv"

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	kubetaskv1alpha1 "github.com/kubetask-io/orchestrator/api/v1alpha1"
	"github.com/kubetask-io/orchestrator/internal/config"
)

func boolPtr(b bool) *bool    { return &b }
func int32Ptr(i int32) *int32 { return &i }
func int64Ptr(i int64) *int64 { return &i }

// JobInput carries everything job construction needs beyond the spec
// itself: the configuration bundle name and resolved controller
// configuration.
type JobInput struct {
	Name          string
	Namespace     string
	Labels        map[string]string
	ConfigMapName string
	Config        config.Config
}

// BuildDocsJob builds the batch Job spec for a docs run.
func BuildDocsJob(spec kubetaskv1alpha1.DocsRunSpec, in JobInput) *batchv1.Job {
	env := []corev1.EnvVar{
		apiKeyEnvVar(in.Config),
		{Name: "TASK_TYPE", Value: TaskTypeDocs},
		{Name: "MODEL", Value: spec.Model},
		{Name: "GITHUB_USER", Value: spec.GitHubUser},
		{Name: "REPOSITORY_URL", Value: spec.RepositoryURL},
		{Name: "WORKING_DIRECTORY", Value: effectiveWorkingDir(spec.WorkingDirectory, "")},
		{Name: "SOURCE_BRANCH", Value: spec.SourceBranch},
	}
	env = append(env, userEnvVars(spec.Env, spec.EnvFromSecrets)...)

	volumes, mounts := coreVolumes(in.ConfigMapName)
	volumes = append(volumes, corev1.Volume{
		Name:         "workspace",
		VolumeSource: corev1.VolumeSource{EmptyDir: &corev1.EmptyDirVolumeSource{}},
	})
	mounts = append(mounts, corev1.VolumeMount{Name: "workspace", MountPath: "/workspace"})

	return buildJob(in, env, volumes, mounts)
}

// BuildCodeJob builds the batch Job spec for a code run.
func BuildCodeJob(spec kubetaskv1alpha1.CodeRunSpec, workspaceClaimName string, in JobInput) *batchv1.Job {
	env := []corev1.EnvVar{
		apiKeyEnvVar(in.Config),
		{Name: "TASK_TYPE", Value: TaskTypeCode},
		{Name: "MODEL", Value: spec.Model},
		{Name: "GITHUB_USER", Value: spec.GitHubUser},
		{Name: "REPOSITORY_URL", Value: spec.RepositoryURL},
		{Name: "WORKING_DIRECTORY", Value: effectiveWorkingDir(spec.WorkingDirectory, spec.Service)},
		{Name: "TASK_ID", Value: int64ToStr(spec.TaskID)},
		{Name: "SERVICE_NAME", Value: spec.Service},
		{Name: "DOCS_REPOSITORY_URL", Value: spec.DocsRepositoryURL},
	}
	if spec.LocalTools != "" {
		env = append(env, corev1.EnvVar{Name: "LOCAL_TOOLS", Value: spec.LocalTools})
	}
	if spec.RemoteTools != "" {
		env = append(env, corev1.EnvVar{Name: "REMOTE_TOOLS", Value: spec.RemoteTools})
	}
	env = append(env, userEnvVars(spec.Env, spec.EnvFromSecrets)...)

	volumes, mounts := coreVolumes(in.ConfigMapName)
	volumes = append(volumes, corev1.Volume{
		Name: "workspace",
		VolumeSource: corev1.VolumeSource{
			PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{ClaimName: workspaceClaimName},
		},
	})
	mounts = append(mounts, corev1.VolumeMount{Name: "workspace", MountPath: "/workspace"})

	return buildJob(in, env, volumes, mounts)
}

func coreVolumes(configMapName string) ([]corev1.Volume, []corev1.VolumeMount) {
	volumes := []corev1.Volume{
		{
			Name: "task-files",
			VolumeSource: corev1.VolumeSource{
				ConfigMap: &corev1.ConfigMapVolumeSource{
					LocalObjectReference: corev1.LocalObjectReference{Name: configMapName},
				},
			},
		},
	}
	mounts := []corev1.VolumeMount{
		{Name: "task-files", MountPath: "/task-files"},
		{
			Name:      "task-files",
			MountPath: "/etc/claude-code/managed-settings.json",
			SubPath:   "settings.json",
			ReadOnly:  true,
		},
	}
	return volumes, mounts
}

func apiKeyEnvVar(cfg config.Config) corev1.EnvVar {
	return corev1.EnvVar{
		Name: "ANTHROPIC_API_KEY",
		ValueFrom: &corev1.EnvVarSource{
			SecretKeyRef: &corev1.SecretKeySelector{
				LocalObjectReference: corev1.LocalObjectReference{Name: cfg.Secrets.APIKeySecretName},
				Key:                  cfg.Secrets.APIKeySecretKey,
			},
		},
	}
}

func userEnvVars(plain map[string]string, secretRefs []kubetaskv1alpha1.EnvFromSecret) []corev1.EnvVar {
	var out []corev1.EnvVar
	for name, value := range plain {
		out = append(out, corev1.EnvVar{Name: name, Value: value})
	}
	for _, ref := range secretRefs {
		out = append(out, corev1.EnvVar{
			Name: ref.Name,
			ValueFrom: &corev1.EnvVarSource{
				SecretKeyRef: &corev1.SecretKeySelector{
					LocalObjectReference: corev1.LocalObjectReference{Name: ref.SecretName},
					Key:                  ref.SecretKey,
				},
			},
		})
	}
	return out
}

func effectiveWorkingDir(workingDirectory, service string) string {
	if workingDirectory != "" {
		return workingDirectory
	}
	return service
}

func int64ToStr(v int64) string {
	return strconv.FormatInt(v, 10)
}

func mustQuantity(s string) resource.Quantity {
	return resource.MustParse(s)
}

func buildJob(in JobInput, env []corev1.EnvVar, volumes []corev1.Volume, mounts []corev1.VolumeMount) *batchv1.Job {
	imagePullSecrets := make([]corev1.LocalObjectReference, 0, len(in.Config.Agent.ImagePullSecrets))
	for _, name := range in.Config.Agent.ImagePullSecrets {
		imagePullSecrets = append(imagePullSecrets, corev1.LocalObjectReference{Name: name})
	}

	return &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name:      in.Name,
			Namespace: in.Namespace,
			Labels:    in.Labels,
		},
		Spec: batchv1.JobSpec{
			ActiveDeadlineSeconds:   int64Ptr(in.Config.Job.ActiveDeadlineSeconds),
			BackoffLimit:            int32Ptr(0),
			TTLSecondsAfterFinished: int32Ptr(30),
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: in.Labels},
				Spec: corev1.PodSpec{
					RestartPolicy: corev1.RestartPolicyNever,
					SecurityContext: &corev1.PodSecurityContext{
						FSGroup:    int64Ptr(1000),
						RunAsUser:  int64Ptr(1000),
						RunAsGroup: int64Ptr(1000),
					},
					ImagePullSecrets: imagePullSecrets,
					Containers: []corev1.Container{
						{
							Name:         "claude",
							Image:        in.Config.Agent.Image.Repository + ":" + in.Config.Agent.Image.Tag,
							Command:      []string{"/bin/bash", "/task-files/container.sh"},
							Env:          env,
							VolumeMounts: mounts,
							Resources: corev1.ResourceRequirements{
								Requests: corev1.ResourceList{
									corev1.ResourceCPU:    mustQuantity("100m"),
									corev1.ResourceMemory: mustQuantity("256Mi"),
								},
								Limits: corev1.ResourceList{
									corev1.ResourceCPU:    mustQuantity("2"),
									corev1.ResourceMemory: mustQuantity("4Gi"),
								},
							},
						},
					},
					Volumes: volumes,
				},
			},
		},
	}
}
