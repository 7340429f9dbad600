// Copyright Contributors to the KubeTask project

// Package gateway implements the submission gateway: a line-delimited
// JSON-RPC server over standard streams that translates tool
// invocations into DocsRun/CodeRun creation.
package gateway

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	kubetaskv1alpha1 "github.com/kubetask-io/orchestrator/api/v1alpha1"
)

// Error codes follow the JSON-RPC 2.0 reserved range.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

// toolDocs and toolTask are the two recognized tools/call names,
// translating respectively to a DocsRun and a CodeRun.
const (
	toolDocs = "docs"
	toolTask = "task"
)

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Gateway serves the line-delimited JSON-RPC protocol over stdio-style
// streams, creating run-request objects in Namespace via Client.
type Gateway struct {
	Client    client.Client
	Namespace string
}

// Serve reads one request per line from r and writes one response per
// line to w, until r is exhausted or ctx is canceled. Notification
// methods (initialize's companion "notifications/*" family) never
// produce a response line.
func (g *Gateway) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		resp, hasResponse := g.handleLine(ctx, line)
		if !hasResponse {
			continue
		}

		encoded, err := json.Marshal(resp)
		if err != nil {
			return fmt.Errorf("encoding response: %w", err)
		}
		if _, err := w.Write(append(encoded, '\n')); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
	}
	return scanner.Err()
}

func (g *Gateway) handleLine(ctx context.Context, line []byte) (response, bool) {
	var req request
	if err := json.Unmarshal(line, &req); err != nil {
		return response{JSONRPC: "2.0", Error: &rpcError{Code: codeParseError, Message: err.Error()}}, true
	}

	result, err := g.dispatch(ctx, req)
	if err == errNotification {
		return response{}, false
	}
	if err != nil {
		code := codeInternalError
		if ie, ok := err.(*invocationError); ok {
			code = ie.code
		}
		return response{JSONRPC: "2.0", ID: req.ID, Error: &rpcError{Code: code, Message: err.Error()}}, true
	}
	return response{JSONRPC: "2.0", ID: req.ID, Result: result}, true
}

type invocationError struct {
	code int
	msg  string
}

func (e *invocationError) Error() string { return e.msg }

// errNotification is a sentinel indicating the request was a
// notification and must not produce a response line.
var errNotification = fmt.Errorf("notification")

func (g *Gateway) dispatch(ctx context.Context, req request) (any, error) {
	switch {
	case req.Method == "initialize":
		return handleInitialize(req.Params)
	case req.Method == "tools/list":
		return toolSchemas(), nil
	case req.Method == "tools/call":
		return g.handleToolCall(ctx, req.Params)
	case strings.HasPrefix(req.Method, "notifications/"):
		return nil, errNotification
	default:
		return nil, &invocationError{code: codeMethodNotFound, msg: fmt.Sprintf("unknown method: %s", req.Method)}
	}
}

func handleInitialize(params json.RawMessage) (any, error) {
	var p struct {
		ProtocolVersion string          `json:"protocolVersion"`
		Capabilities    json.RawMessage `json:"capabilities"`
		ClientInfo      json.RawMessage `json:"clientInfo"`
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, &invocationError{code: codeInvalidParams, msg: err.Error()}
		}
	}
	if p.ProtocolVersion == "" || p.Capabilities == nil || p.ClientInfo == nil {
		return nil, &invocationError{code: codeInvalidParams, msg: "missing required initialize parameters: protocolVersion, capabilities, clientInfo"}
	}

	return map[string]any{
		"protocolVersion": "2024-11-05",
		"capabilities":    map[string]any{"tools": map[string]any{"listChanged": true}},
		"serverInfo":      map[string]any{"name": "kubetask-gateway", "version": "1.0.0"},
	}, nil
}

func toolSchemas() any {
	return map[string]any{
		"tools": []map[string]any{
			{
				"name":        toolDocs,
				"description": "Submit a documentation-generation run against a repository",
				"inputSchema": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"service":          map[string]any{"type": "string"},
						"repositoryUrl":    map[string]any{"type": "string"},
						"workingDirectory": map[string]any{"type": "string"},
						"sourceBranch":     map[string]any{"type": "string"},
						"githubUser":       map[string]any{"type": "string"},
						"model":            map[string]any{"type": "string"},
						"includeCodebase":  map[string]any{"type": "boolean"},
					},
					"required": []string{"service", "repositoryUrl", "workingDirectory", "sourceBranch", "githubUser"},
				},
			},
			{
				"name":        toolTask,
				"description": "Submit a code-implementation run for a task against a service's codebase",
				"inputSchema": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"taskId":            map[string]any{"type": "integer"},
						"service":           map[string]any{"type": "string"},
						"repositoryUrl":     map[string]any{"type": "string"},
						"docsRepositoryUrl": map[string]any{"type": "string"},
						"workingDirectory":  map[string]any{"type": "string"},
						"githubUser":        map[string]any{"type": "string"},
						"model":             map[string]any{"type": "string"},
						"docsBranch":        map[string]any{"type": "string"},
					},
					"required": []string{"taskId", "service", "repositoryUrl", "docsRepositoryUrl", "githubUser"},
				},
			},
		},
	}
}

func (g *Gateway) handleToolCall(ctx context.Context, params json.RawMessage) (any, error) {
	var call struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(params, &call); err != nil {
		return nil, &invocationError{code: codeInvalidParams, msg: err.Error()}
	}

	switch call.Name {
	case toolDocs:
		return g.createDocsRun(ctx, call.Arguments)
	case toolTask:
		return g.createCodeRun(ctx, call.Arguments)
	default:
		return nil, &invocationError{code: codeInvalidParams, msg: fmt.Sprintf("unknown tool: %s", call.Name)}
	}
}

func (g *Gateway) createDocsRun(ctx context.Context, args json.RawMessage) (any, error) {
	var spec kubetaskv1alpha1.DocsRunSpec
	if len(args) > 0 {
		if err := json.Unmarshal(args, &spec); err != nil {
			return nil, &invocationError{code: codeInvalidParams, msg: err.Error()}
		}
	}
	if spec.Service == "" || spec.RepositoryURL == "" || spec.WorkingDirectory == "" || spec.SourceBranch == "" || spec.GitHubUser == "" {
		return nil, &invocationError{code: codeInvalidParams, msg: "service, repositoryUrl, workingDirectory, sourceBranch, and githubUser are required"}
	}
	if spec.ContextVersion <= 0 {
		spec.ContextVersion = 1
	}

	run := &kubetaskv1alpha1.DocsRun{
		ObjectMeta: metav1.ObjectMeta{GenerateName: "docs-" + spec.Service + "-", Namespace: g.Namespace},
		Spec:       spec,
	}
	if err := g.Client.Create(ctx, run); err != nil {
		return nil, &invocationError{code: codeInternalError, msg: err.Error()}
	}
	return map[string]any{"name": run.Name, "namespace": run.Namespace, "kind": "DocsRun"}, nil
}

func (g *Gateway) createCodeRun(ctx context.Context, args json.RawMessage) (any, error) {
	var spec kubetaskv1alpha1.CodeRunSpec
	if len(args) > 0 {
		if err := json.Unmarshal(args, &spec); err != nil {
			return nil, &invocationError{code: codeInvalidParams, msg: err.Error()}
		}
	}
	if spec.TaskID == 0 || spec.Service == "" || spec.RepositoryURL == "" || spec.DocsRepositoryURL == "" || spec.GitHubUser == "" {
		return nil, &invocationError{code: codeInvalidParams, msg: "taskId, service, repositoryUrl, docsRepositoryUrl, and githubUser are required"}
	}
	if spec.ContextVersion <= 0 {
		spec.ContextVersion = 1
	}
	if spec.DocsBranch == "" {
		spec.DocsBranch = "main"
	}

	run := &kubetaskv1alpha1.CodeRun{
		ObjectMeta: metav1.ObjectMeta{GenerateName: fmt.Sprintf("code-%s-", spec.Service), Namespace: g.Namespace},
		Spec:       spec,
	}
	if err := g.Client.Create(ctx, run); err != nil {
		return nil, &invocationError{code: codeInternalError, msg: err.Error()}
	}
	return map[string]any{"name": run.Name, "namespace": run.Namespace, "kind": "CodeRun"}, nil
}
