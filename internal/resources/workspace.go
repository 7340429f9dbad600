// Copyright Contributors to the KubeTask project

package resources

import (
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/kubetask-io/orchestrator/internal/config"
)

// BuildWorkspacePVC builds the persistent volume claim spec for a
// service's shared code-run workspace. The claim is never owned by a
// run request; it survives request deletion and is shared across every
// code run of the service.
func BuildWorkspacePVC(name, namespace, service string, storage config.StorageConfig) *corev1.PersistentVolumeClaim {
	quantity := resource.MustParse(storage.WorkspaceSize)

	return &corev1.PersistentVolumeClaim{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			Labels: map[string]string{
				"app":     appName,
				"service": service,
			},
		},
		Spec: corev1.PersistentVolumeClaimSpec{
			AccessModes: []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce},
			Resources: corev1.VolumeResourceRequirements{
				Requests: corev1.ResourceList{
					corev1.ResourceStorage: quantity,
				},
			},
			StorageClassName: storage.StorageClassName,
		},
	}
}
