// Copyright Contributors to the KubeTask project

//go:build integration

package controller

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"

	kubetaskv1alpha1 "github.com/kubetask-io/orchestrator/api/v1alpha1"
)

var _ = Describe("DocsRunController", func() {
	const docsNamespace = "default"

	Context("When creating a DocsRun", func() {
		It("Should create a ConfigMap and Job, and mark the run Running", func() {
			name := "test-docsrun-basic"
			run := &kubetaskv1alpha1.DocsRun{
				ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: docsNamespace},
				Spec: kubetaskv1alpha1.DocsRunSpec{
					Service:          "widgets",
					RepositoryURL:    "https://github.com/acme/widgets",
					WorkingDirectory: "docs",
					SourceBranch:     "main",
					GitHubUser:       "jane",
				},
			}

			By("Creating the DocsRun")
			Expect(k8sClient.Create(ctx, run)).Should(Succeed())

			By("Checking the run reaches Running")
			lookupKey := types.NamespacedName{Name: name, Namespace: docsNamespace}
			created := &kubetaskv1alpha1.DocsRun{}
			Eventually(func() kubetaskv1alpha1.RunPhase {
				if err := k8sClient.Get(ctx, lookupKey, created); err != nil {
					return ""
				}
				return created.Status.Phase
			}, timeout, interval).Should(Equal(kubetaskv1alpha1.RunPhaseRunning))

			By("Verifying a Job was created with no restarts or retries")
			Expect(created.Status.JobName).ShouldNot(BeEmpty())
			job := &batchv1.Job{}
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: created.Status.JobName, Namespace: docsNamespace}, job)).Should(Succeed())
			Expect(job.Spec.Template.Spec.RestartPolicy).Should(Equal(corev1.RestartPolicyNever))
			Expect(*job.Spec.BackoffLimit).Should(Equal(int32(0)))

			By("Verifying the ConfigMap bundle is owned by the Job")
			Expect(created.Status.ConfigMapName).ShouldNot(BeEmpty())
			cm := &corev1.ConfigMap{}
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: created.Status.ConfigMapName, Namespace: docsNamespace}, cm)).Should(Succeed())
			Expect(cm.OwnerReferences).Should(HaveLen(1))
			Expect(cm.OwnerReferences[0].Kind).Should(Equal("Job"))
			Expect(cm.OwnerReferences[0].Name).Should(Equal(job.Name))

			By("Cleaning up")
			Expect(k8sClient.Delete(ctx, run)).Should(Succeed())
		})
	})

	Context("When a DocsRun's Job completes successfully", func() {
		It("Should mark the run Succeeded", func() {
			name := "test-docsrun-success"
			run := &kubetaskv1alpha1.DocsRun{
				ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: docsNamespace},
				Spec: kubetaskv1alpha1.DocsRunSpec{
					Service:          "widgets",
					RepositoryURL:    "https://github.com/acme/widgets",
					WorkingDirectory: "docs",
					SourceBranch:     "main",
					GitHubUser:       "jane",
				},
			}
			Expect(k8sClient.Create(ctx, run)).Should(Succeed())

			lookupKey := types.NamespacedName{Name: name, Namespace: docsNamespace}
			created := &kubetaskv1alpha1.DocsRun{}
			Eventually(func() string {
				if err := k8sClient.Get(ctx, lookupKey, created); err != nil {
					return ""
				}
				return created.Status.JobName
			}, timeout, interval).ShouldNot(BeEmpty())

			job := &batchv1.Job{}
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: created.Status.JobName, Namespace: docsNamespace}, job)).Should(Succeed())

			By("Simulating Job success")
			job.Status.CompletionTime = &metav1.Time{Time: job.CreationTimestamp.Time}
			job.Status.Conditions = []batchv1.JobCondition{{Type: batchv1.JobComplete, Status: corev1.ConditionTrue}}
			Expect(k8sClient.Status().Update(ctx, job)).Should(Succeed())

			By("Checking the run reaches Succeeded")
			Eventually(func() kubetaskv1alpha1.RunPhase {
				if err := k8sClient.Get(ctx, lookupKey, created); err != nil {
					return ""
				}
				return created.Status.Phase
			}, timeout, interval).Should(Equal(kubetaskv1alpha1.RunPhaseSucceeded))

			By("Cleaning up")
			Expect(k8sClient.Delete(ctx, run)).Should(Succeed())
		})
	})

	Context("When two DocsRuns target the same service", func() {
		It("Should sweep the stale Job from a prior run", func() {
			service := fmt.Sprintf("sweep-svc-%d", GinkgoRandomSeed())
			first := &kubetaskv1alpha1.DocsRun{
				ObjectMeta: metav1.ObjectMeta{Name: "docsrun-sweep-one", Namespace: docsNamespace},
				Spec: kubetaskv1alpha1.DocsRunSpec{
					Service: service, RepositoryURL: "https://github.com/acme/widgets",
					WorkingDirectory: "docs", SourceBranch: "main", GitHubUser: "jane",
				},
			}
			Expect(k8sClient.Create(ctx, first)).Should(Succeed())

			firstKey := types.NamespacedName{Name: first.Name, Namespace: docsNamespace}
			Eventually(func() string {
				got := &kubetaskv1alpha1.DocsRun{}
				if err := k8sClient.Get(ctx, firstKey, got); err != nil {
					return ""
				}
				return got.Status.JobName
			}, timeout, interval).ShouldNot(BeEmpty())

			second := &kubetaskv1alpha1.DocsRun{
				ObjectMeta: metav1.ObjectMeta{Name: "docsrun-sweep-two", Namespace: docsNamespace},
				Spec: kubetaskv1alpha1.DocsRunSpec{
					Service: service, RepositoryURL: "https://github.com/acme/widgets",
					WorkingDirectory: "docs", SourceBranch: "main", GitHubUser: "jane",
				},
			}
			Expect(k8sClient.Create(ctx, second)).Should(Succeed())

			secondKey := types.NamespacedName{Name: second.Name, Namespace: docsNamespace}
			secondCreated := &kubetaskv1alpha1.DocsRun{}
			Eventually(func() string {
				if err := k8sClient.Get(ctx, secondKey, secondCreated); err != nil {
					return ""
				}
				return secondCreated.Status.JobName
			}, timeout, interval).ShouldNot(BeEmpty())

			firstAfter := &kubetaskv1alpha1.DocsRun{}
			Expect(k8sClient.Get(ctx, firstKey, firstAfter)).Should(Succeed())

			By("Verifying the first run's Job was swept")
			Eventually(func() bool {
				job := &batchv1.Job{}
				err := k8sClient.Get(ctx, types.NamespacedName{Name: firstAfter.Status.JobName, Namespace: docsNamespace}, job)
				return err != nil
			}, timeout, interval).Should(BeTrue())

			Expect(k8sClient.Delete(ctx, first)).Should(Succeed())
			Expect(k8sClient.Delete(ctx, second)).Should(Succeed())
		})
	})
})
