// Copyright Contributors to the KubeTask project

//go:build integration

package controller

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	kubetaskv1alpha1 "github.com/kubetask-io/orchestrator/api/v1alpha1"
)

var _ = Describe("CronRunController", func() {
	const cronNamespace = "default"

	Context("When creating a CronRun with a frequent schedule", func() {
		It("Should create a DocsRun on the next tick", func() {
			name := "test-cronrun-docs"
			cr := &kubetaskv1alpha1.CronRun{
				ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: cronNamespace},
				Spec: kubetaskv1alpha1.CronRunSpec{
					Schedule: "* * * * *",
					Template: kubetaskv1alpha1.RunTemplate{
						Docs: &kubetaskv1alpha1.DocsRunSpec{
							Service:          "widgets",
							RepositoryURL:    "https://github.com/acme/widgets",
							WorkingDirectory: "docs",
							SourceBranch:     "main",
							GitHubUser:       "jane",
						},
					},
				},
			}

			By("Creating the CronRun")
			Expect(k8sClient.Create(ctx, cr)).Should(Succeed())

			By("Checking a DocsRun is created and labeled with the owning CronRun")
			Eventually(func() int {
				var list kubetaskv1alpha1.DocsRunList
				if err := k8sClient.List(ctx, &list, client.InNamespace(cronNamespace), client.MatchingLabels{CronRunLabelKey: name}); err != nil {
					return 0
				}
				return len(list.Items)
			}, timeout, interval).Should(BeNumerically(">=", 1))

			By("Checking LastScheduleTime is recorded")
			lookupKey := types.NamespacedName{Name: name, Namespace: cronNamespace}
			updated := &kubetaskv1alpha1.CronRun{}
			Eventually(func() bool {
				if err := k8sClient.Get(ctx, lookupKey, updated); err != nil {
					return false
				}
				return updated.Status.LastScheduleTime != nil
			}, timeout, interval).Should(BeTrue())

			By("Cleaning up")
			Expect(k8sClient.Delete(ctx, cr)).Should(Succeed())
		})
	})

	Context("When a CronRun is suspended", func() {
		It("Should not create any runs", func() {
			name := "test-cronrun-suspended"
			suspend := true
			cr := &kubetaskv1alpha1.CronRun{
				ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: cronNamespace},
				Spec: kubetaskv1alpha1.CronRunSpec{
					Schedule: "* * * * *",
					Suspend:  &suspend,
					Template: kubetaskv1alpha1.RunTemplate{
						Docs: &kubetaskv1alpha1.DocsRunSpec{
							Service:          "widgets",
							RepositoryURL:    "https://github.com/acme/widgets",
							WorkingDirectory: "docs",
							SourceBranch:     "main",
							GitHubUser:       "jane",
						},
					},
				},
			}
			Expect(k8sClient.Create(ctx, cr)).Should(Succeed())

			Consistently(func() int {
				var list kubetaskv1alpha1.DocsRunList
				if err := k8sClient.List(ctx, &list, client.InNamespace(cronNamespace), client.MatchingLabels{CronRunLabelKey: name}); err != nil {
					return -1
				}
				return len(list.Items)
			}, timeout, interval).Should(Equal(0))

			Expect(k8sClient.Delete(ctx, cr)).Should(Succeed())
		})
	})
})
