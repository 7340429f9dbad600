// Copyright Contributors to the KubeTask project

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	kubetaskv1alpha1 "github.com/kubetask-io/orchestrator/api/v1alpha1"
)

func newScheme(t *testing.T) *runtime.Scheme {
	t.Helper()
	scheme := runtime.NewScheme()
	if err := kubetaskv1alpha1.AddToScheme(scheme); err != nil {
		t.Fatalf("adding scheme: %v", err)
	}
	return scheme
}

func serveLines(t *testing.T, gw *Gateway, lines ...string) []map[string]any {
	t.Helper()
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	var out bytes.Buffer
	if err := gw.Serve(context.Background(), in, &out); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	var responses []map[string]any
	dec := json.NewDecoder(&out)
	for {
		var m map[string]any
		if err := dec.Decode(&m); err != nil {
			break
		}
		responses = append(responses, m)
	}
	return responses
}

func TestInitializeRequiresParams(t *testing.T) {
	gw := &Gateway{Client: fake.NewClientBuilder().WithScheme(newScheme(t)).Build(), Namespace: "default"}
	resp := serveLines(t, gw, `{"jsonrpc":"2.0","method":"initialize","params":{},"id":1}`)
	if len(resp) != 1 {
		t.Fatalf("expected 1 response, got %d", len(resp))
	}
	if _, ok := resp[0]["error"]; !ok {
		t.Fatalf("expected error for missing initialize params, got %v", resp[0])
	}
}

func TestInitializeSucceeds(t *testing.T) {
	gw := &Gateway{Client: fake.NewClientBuilder().WithScheme(newScheme(t)).Build(), Namespace: "default"}
	req := `{"jsonrpc":"2.0","method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{}},"id":1}`
	resp := serveLines(t, gw, req)
	if len(resp) != 1 || resp[0]["error"] != nil {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestNotificationProducesNoResponse(t *testing.T) {
	gw := &Gateway{Client: fake.NewClientBuilder().WithScheme(newScheme(t)).Build(), Namespace: "default"}
	resp := serveLines(t, gw, `{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	if len(resp) != 0 {
		t.Fatalf("expected no response for a notification, got %v", resp)
	}
}

func TestUnknownMethodReturnsMethodNotFound(t *testing.T) {
	gw := &Gateway{Client: fake.NewClientBuilder().WithScheme(newScheme(t)).Build(), Namespace: "default"}
	resp := serveLines(t, gw, `{"jsonrpc":"2.0","method":"bogus","id":2}`)
	if len(resp) != 1 {
		t.Fatalf("expected 1 response, got %d", len(resp))
	}
	errObj, ok := resp[0]["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object, got %v", resp[0])
	}
	if int(errObj["code"].(float64)) != codeMethodNotFound {
		t.Fatalf("expected method-not-found code, got %v", errObj["code"])
	}
}

func TestToolsListReturnsDocsAndTask(t *testing.T) {
	gw := &Gateway{Client: fake.NewClientBuilder().WithScheme(newScheme(t)).Build(), Namespace: "default"}
	resp := serveLines(t, gw, `{"jsonrpc":"2.0","method":"tools/list","id":3}`)
	result, ok := resp[0]["result"].(map[string]any)
	if !ok {
		t.Fatalf("expected result object, got %v", resp[0])
	}
	tools, ok := result["tools"].([]any)
	if !ok || len(tools) != 2 {
		t.Fatalf("expected 2 tools, got %v", result["tools"])
	}
}

func TestToolsCallDocsCreatesDocsRun(t *testing.T) {
	c := fake.NewClientBuilder().WithScheme(newScheme(t)).Build()
	gw := &Gateway{Client: c, Namespace: "default"}

	req := `{"jsonrpc":"2.0","method":"tools/call","params":{"name":"docs","arguments":{"service":"widgets","repositoryUrl":"https://github.com/acme/widgets","workingDirectory":"docs","sourceBranch":"main","githubUser":"jane"}},"id":4}`
	resp := serveLines(t, gw, req)
	if resp[0]["error"] != nil {
		t.Fatalf("unexpected error: %v", resp[0]["error"])
	}

	var list kubetaskv1alpha1.DocsRunList
	if err := c.List(context.Background(), &list); err != nil {
		t.Fatalf("listing DocsRuns: %v", err)
	}
	if len(list.Items) != 1 {
		t.Fatalf("expected 1 DocsRun, got %d", len(list.Items))
	}
}

func TestToolsCallTaskMissingRequiredFieldErrors(t *testing.T) {
	gw := &Gateway{Client: fake.NewClientBuilder().WithScheme(newScheme(t)).Build(), Namespace: "default"}
	req := `{"jsonrpc":"2.0","method":"tools/call","params":{"name":"task","arguments":{"service":"widgets"}},"id":5}`
	resp := serveLines(t, gw, req)
	errObj, ok := resp[0]["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error for missing required fields, got %v", resp[0])
	}
	if int(errObj["code"].(float64)) != codeInvalidParams {
		t.Fatalf("expected invalid-params code, got %v", errObj["code"])
	}
}

func TestToolsCallUnknownToolErrors(t *testing.T) {
	gw := &Gateway{Client: fake.NewClientBuilder().WithScheme(newScheme(t)).Build(), Namespace: "default"}
	resp := serveLines(t, gw, `{"jsonrpc":"2.0","method":"tools/call","params":{"name":"bogus","arguments":{}},"id":6}`)
	if resp[0]["error"] == nil {
		t.Fatalf("expected error for unknown tool, got %v", resp[0])
	}
}
