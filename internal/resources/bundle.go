// Copyright Contributors to the KubeTask project

package resources

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// BuildConfigMap assembles the configuration bundle ConfigMap from a
// rendered file bundle. The owner reference, if any, is set by the
// caller once the owning job is known to exist.
func BuildConfigMap(name, namespace string, labels map[string]string, files map[string]string) *corev1.ConfigMap {
	return &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			Labels:    labels,
		},
		Data: files,
	}
}
