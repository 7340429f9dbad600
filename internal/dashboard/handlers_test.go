// Copyright Contributors to the KubeTask project

package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	kubetaskv1alpha1 "github.com/kubetask-io/orchestrator/api/v1alpha1"
)

func newFakeClient(t *testing.T, objs ...runtime.Object) *fake.ClientBuilder {
	t.Helper()
	scheme := runtime.NewScheme()
	if err := kubetaskv1alpha1.AddToScheme(scheme); err != nil {
		t.Fatalf("adding scheme: %v", err)
	}
	return fake.NewClientBuilder().WithScheme(scheme).WithRuntimeObjects(objs...)
}

func router(h *runHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1/namespaces/{namespace}/runs", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{name}", h.Get)
	})
	return r
}

func TestListMergesDocsAndCodeRuns(t *testing.T) {
	docs := &kubetaskv1alpha1.DocsRun{
		ObjectMeta: metav1.ObjectMeta{Name: "docs-a", Namespace: "default"},
		Status:     kubetaskv1alpha1.RunStatus{Phase: kubetaskv1alpha1.RunPhaseRunning},
	}
	code := &kubetaskv1alpha1.CodeRun{
		ObjectMeta: metav1.ObjectMeta{Name: "code-a", Namespace: "default"},
		Status:     kubetaskv1alpha1.RunStatus{Phase: kubetaskv1alpha1.RunPhaseSucceeded},
	}
	c := newFakeClient(t, docs, code).Build()
	h := &runHandler{client: c}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/namespaces/default/runs/", nil)
	rec := httptest.NewRecorder()
	router(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Total != 2 {
		t.Fatalf("expected 2 runs, got %d", body.Total)
	}
}

func TestGetReturnsNotFoundForMissingRun(t *testing.T) {
	c := newFakeClient(t).Build()
	h := &runHandler{client: c}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/namespaces/default/runs/missing", nil)
	rec := httptest.NewRecorder()
	router(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetFindsCodeRunByName(t *testing.T) {
	code := &kubetaskv1alpha1.CodeRun{
		ObjectMeta: metav1.ObjectMeta{Name: "code-b", Namespace: "default"},
		Status:     kubetaskv1alpha1.RunStatus{Phase: kubetaskv1alpha1.RunPhaseFailed, Message: "boom"},
	}
	c := newFakeClient(t, code).Build()
	h := &runHandler{client: c}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/namespaces/default/runs/code-b", nil)
	rec := httptest.NewRecorder()
	router(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got runSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got.Kind != "CodeRun" || got.Phase != kubetaskv1alpha1.RunPhaseFailed {
		t.Fatalf("unexpected summary: %+v", got)
	}
}
