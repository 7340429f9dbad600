// Copyright Contributors to the KubeTask project

//go:build integration

package controller

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	kubetaskv1alpha1 "github.com/kubetask-io/orchestrator/api/v1alpha1"
)

var _ = Describe("CodeRunController", func() {
	const codeNamespace = "default"

	Context("When creating a CodeRun", func() {
		It("Should create a shared workspace PVC, ConfigMap, and Job, and mark the run Running", func() {
			name := "test-coderun-basic"
			run := &kubetaskv1alpha1.CodeRun{
				ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: codeNamespace},
				Spec: kubetaskv1alpha1.CodeRunSpec{
					TaskID:            42,
					Service:           "gadgets",
					RepositoryURL:     "https://github.com/acme/gadgets",
					DocsRepositoryURL: "https://github.com/acme/gadgets-docs",
					GitHubUser:        "jane",
				},
			}

			By("Creating the CodeRun")
			Expect(k8sClient.Create(ctx, run)).Should(Succeed())

			lookupKey := types.NamespacedName{Name: name, Namespace: codeNamespace}
			created := &kubetaskv1alpha1.CodeRun{}
			Eventually(func() kubetaskv1alpha1.RunPhase {
				if err := k8sClient.Get(ctx, lookupKey, created); err != nil {
					return ""
				}
				return created.Status.Phase
			}, timeout, interval).Should(Equal(kubetaskv1alpha1.RunPhaseRunning))

			By("Verifying the shared workspace PVC was created")
			pvc := &corev1.PersistentVolumeClaim{}
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: "workspace-gadgets", Namespace: codeNamespace}, pvc)).Should(Succeed())

			By("Verifying a Job was created")
			job := &batchv1.Job{}
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: created.Status.JobName, Namespace: codeNamespace}, job)).Should(Succeed())
			Expect(*job.Spec.BackoffLimit).Should(Equal(int32(0)))

			By("Cleaning up")
			Expect(k8sClient.Delete(ctx, run)).Should(Succeed())
		})
	})

	Context("When a second CodeRun targets the same service", func() {
		It("Should reuse the existing workspace PVC rather than failing", func() {
			first := &kubetaskv1alpha1.CodeRun{
				ObjectMeta: metav1.ObjectMeta{Name: "coderun-shared-one", Namespace: codeNamespace},
				Spec: kubetaskv1alpha1.CodeRunSpec{
					TaskID: 1, Service: "shared-svc",
					RepositoryURL: "https://github.com/acme/shared", DocsRepositoryURL: "https://github.com/acme/shared-docs",
					GitHubUser: "jane",
				},
			}
			Expect(k8sClient.Create(ctx, first)).Should(Succeed())

			firstKey := types.NamespacedName{Name: first.Name, Namespace: codeNamespace}
			Eventually(func() string {
				got := &kubetaskv1alpha1.CodeRun{}
				if err := k8sClient.Get(ctx, firstKey, got); err != nil {
					return ""
				}
				return got.Status.JobName
			}, timeout, interval).ShouldNot(BeEmpty())

			second := &kubetaskv1alpha1.CodeRun{
				ObjectMeta: metav1.ObjectMeta{Name: "coderun-shared-two", Namespace: codeNamespace},
				Spec: kubetaskv1alpha1.CodeRunSpec{
					TaskID: 2, Service: "shared-svc",
					RepositoryURL: "https://github.com/acme/shared", DocsRepositoryURL: "https://github.com/acme/shared-docs",
					GitHubUser: "jane",
				},
			}
			Expect(k8sClient.Create(ctx, second)).Should(Succeed())

			secondKey := types.NamespacedName{Name: second.Name, Namespace: codeNamespace}
			Eventually(func() kubetaskv1alpha1.RunPhase {
				got := &kubetaskv1alpha1.CodeRun{}
				if err := k8sClient.Get(ctx, secondKey, got); err != nil {
					return ""
				}
				return got.Status.Phase
			}, timeout, interval).Should(Equal(kubetaskv1alpha1.RunPhaseRunning))

			var pvcList corev1.PersistentVolumeClaimList
			Expect(k8sClient.List(ctx, &pvcList, client.InNamespace(codeNamespace))).Should(Succeed())
			matching := 0
			for _, pvc := range pvcList.Items {
				if pvc.Name == "workspace-shared-svc" {
					matching++
				}
			}
			Expect(matching).Should(Equal(1))

			Expect(k8sClient.Delete(ctx, first)).Should(Succeed())
			Expect(k8sClient.Delete(ctx, second)).Should(Succeed())
		})
	})
})
