// Copyright Contributors to the KubeTask project

package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	kubetaskv1alpha1 "github.com/kubetask-io/orchestrator/api/v1alpha1"
)

// runSummary is the dashboard's kind-agnostic view of a DocsRun or
// CodeRun: the run's identity, its phase, message, job name and
// conditions, plus which kind produced it.
type runSummary struct {
	Kind       string                    `json:"kind"`
	Name       string                    `json:"name"`
	Namespace  string                    `json:"namespace"`
	Phase      kubetaskv1alpha1.RunPhase `json:"phase"`
	Message    string                    `json:"message"`
	JobName    string                    `json:"jobName,omitempty"`
	Conditions []metav1.Condition        `json:"conditions,omitempty"`
}

type runHandler struct {
	client client.Client
}

// List returns every DocsRun and CodeRun in the namespace, merged into
// a single list: docs runs first, then code runs, each in list order.
func (h *runHandler) List(w http.ResponseWriter, r *http.Request) {
	namespace := chi.URLParam(r, "namespace")
	ctx := r.Context()

	var docsList kubetaskv1alpha1.DocsRunList
	if err := h.client.List(ctx, &docsList, client.InNamespace(namespace)); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list docs runs", err)
		return
	}
	var codeList kubetaskv1alpha1.CodeRunList
	if err := h.client.List(ctx, &codeList, client.InNamespace(namespace)); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list code runs", err)
		return
	}

	summaries := make([]runSummary, 0, len(docsList.Items)+len(codeList.Items))
	for _, run := range docsList.Items {
		summaries = append(summaries, docsSummary(&run))
	}
	for _, run := range codeList.Items {
		summaries = append(summaries, codeSummary(&run))
	}

	writeJSON(w, http.StatusOK, map[string]any{"runs": summaries, "total": len(summaries)})
}

// Get returns a single run by name, trying DocsRun then CodeRun.
func (h *runHandler) Get(w http.ResponseWriter, r *http.Request) {
	namespace := chi.URLParam(r, "namespace")
	name := chi.URLParam(r, "name")
	ctx := r.Context()
	key := client.ObjectKey{Namespace: namespace, Name: name}

	var docsRun kubetaskv1alpha1.DocsRun
	if err := h.client.Get(ctx, key, &docsRun); err == nil {
		writeJSON(w, http.StatusOK, docsSummary(&docsRun))
		return
	}

	var codeRun kubetaskv1alpha1.CodeRun
	if err := h.client.Get(ctx, key, &codeRun); err == nil {
		writeJSON(w, http.StatusOK, codeSummary(&codeRun))
		return
	}

	writeError(w, http.StatusNotFound, "run not found", nil)
}

func docsSummary(run *kubetaskv1alpha1.DocsRun) runSummary {
	return runSummary{
		Kind:       "DocsRun",
		Name:       run.Name,
		Namespace:  run.Namespace,
		Phase:      run.Status.Phase,
		Message:    run.Status.Message,
		JobName:    run.Status.JobName,
		Conditions: run.Status.Conditions,
	}
}

func codeSummary(run *kubetaskv1alpha1.CodeRun) runSummary {
	return runSummary{
		Kind:       "CodeRun",
		Name:       run.Name,
		Namespace:  run.Namespace,
		Phase:      run.Status.Phase,
		Message:    run.Status.Message,
		JobName:    run.Status.JobName,
		Conditions: run.Status.Conditions,
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	body := map[string]any{"error": message, "code": status}
	if err != nil {
		body["detail"] = err.Error()
	}
	writeJSON(w, status, body)
}
