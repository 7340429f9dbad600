// Copyright Contributors to the KubeTask project

package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"
)

// transport is a fake Client.rw: writes are captured for inspection,
// reads are served from a fixed buffer of canned response lines.
type transport struct {
	out *bytes.Buffer
	in  *bytes.Buffer
}

func newTransport(responses ...string) *transport {
	var in bytes.Buffer
	for _, r := range responses {
		in.WriteString(r)
		in.WriteByte('\n')
	}
	return &transport{out: &bytes.Buffer{}, in: &in}
}

func (t *transport) Write(b []byte) (int, error) { return t.out.Write(b) }
func (t *transport) Read(b []byte) (int, error)  { return t.in.Read(b) }

func TestInitializeSendsHandshake(t *testing.T) {
	tr := newTransport(`{"jsonrpc":"2.0","id":1,"result":{"protocolVersion":"2024-11-05"}}`)
	c := NewClient(tr)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	var sent map[string]any
	if err := json.Unmarshal(tr.out.Bytes(), &sent); err != nil {
		t.Fatalf("decoding sent request: %v", err)
	}
	if sent["method"] != "initialize" {
		t.Fatalf("expected method initialize, got %v", sent["method"])
	}
}

func TestSubmitDocsDecodesResult(t *testing.T) {
	tr := newTransport(`{"jsonrpc":"2.0","id":1,"result":{"name":"docs-widgets-abc12","namespace":"default","kind":"DocsRun"}}`)
	c := NewClient(tr)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	result, err := c.SubmitDocs(ctx, map[string]any{"service": "widgets"})
	if err != nil {
		t.Fatalf("SubmitDocs: %v", err)
	}
	if result["kind"] != "DocsRun" {
		t.Fatalf("expected kind DocsRun, got %v", result)
	}
}

func TestCallPropagatesGatewayError(t *testing.T) {
	tr := newTransport(`{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"missing required fields"}}`)
	c := NewClient(tr)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := c.SubmitCode(ctx, map[string]any{}); err == nil {
		t.Fatalf("expected an error from the gateway response")
	}
}

func TestParseEnv(t *testing.T) {
	got, err := ParseEnv("FOO=bar, BAZ=qux")
	if err != nil {
		t.Fatalf("ParseEnv: %v", err)
	}
	if got["FOO"] != "bar" || got["BAZ"] != "qux" {
		t.Fatalf("unexpected parse result: %v", got)
	}

	if _, err := ParseEnv("invalid"); err == nil {
		t.Fatalf("expected an error for an entry with no '='")
	}
}

func TestParseEnvFromSecrets(t *testing.T) {
	got, err := ParseEnvFromSecrets("API_KEY:my-secret:token")
	if err != nil {
		t.Fatalf("ParseEnvFromSecrets: %v", err)
	}
	if len(got) != 1 || got[0].Name != "API_KEY" || got[0].SecretName != "my-secret" || got[0].SecretKey != "token" {
		t.Fatalf("unexpected parse result: %v", got)
	}

	if _, err := ParseEnvFromSecrets("missing-parts"); err == nil {
		t.Fatalf("expected an error for a malformed entry")
	}
}

func TestParseTaskID(t *testing.T) {
	id, err := ParseTaskID(" 42 ")
	if err != nil {
		t.Fatalf("ParseTaskID: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected 42, got %d", id)
	}

	if _, err := ParseTaskID("not-a-number"); err == nil {
		t.Fatalf("expected an error for a non-numeric task id")
	}
}
