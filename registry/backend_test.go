package registry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestBackendTransport(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
		check   func(t *testing.T, tr mcp.Transport)
	}{
		{url: "http://localhost:8080/mcp", check: func(t *testing.T, tr mcp.Transport) {
			if _, ok := tr.(*mcp.StreamableClientTransport); !ok {
				t.Errorf("expected streamable transport, got %T", tr)
			}
		}},
		{url: "sse://localhost:8080/sse", check: func(t *testing.T, tr mcp.Transport) {
			sse, ok := tr.(*mcp.SSEClientTransport)
			if !ok {
				t.Fatalf("expected SSE transport, got %T", tr)
			}
			if sse.Endpoint != "http://localhost:8080/sse" {
				t.Errorf("expected http endpoint, got %s", sse.Endpoint)
			}
		}},
		{url: "stdio:///usr/local/bin/minspan-server?arg=-sdk&arg=-workers=2", check: func(t *testing.T, tr mcp.Transport) {
			cmd, ok := tr.(*mcp.CommandTransport)
			if !ok {
				t.Fatalf("expected command transport, got %T", tr)
			}
			want := []string{"/usr/local/bin/minspan-server", "-sdk", "-workers=2"}
			if diff := cmp.Diff(want, cmd.Command.Args); diff != "" {
				t.Errorf("command args mismatch (-want +got):\n%s", diff)
			}
		}},
		{url: "stdio://minspan-server", check: func(t *testing.T, tr mcp.Transport) {
			cmd, ok := tr.(*mcp.CommandTransport)
			if !ok {
				t.Fatalf("expected command transport, got %T", tr)
			}
			if cmd.Command.Args[0] != "minspan-server" {
				t.Errorf("expected command minspan-server, got %v", cmd.Command.Args)
			}
		}},
		{url: "stdio://", wantErr: true},
		{url: "", wantErr: true},
		{url: "ftp://example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			b := &remoteBackend{config: BackendConfig{Name: "b", URL: tt.url}}
			tr, err := b.transport()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("transport failed: %v", err)
			}
			tt.check(t, tr)
		})
	}
}

func TestHTTPClientWithHeaders(t *testing.T) {
	if httpClientWithHeaders(nil) != nil {
		t.Error("expected nil client without headers")
	}
	if httpClientWithHeaders(map[string]string{" ": "x"}) != nil {
		t.Error("expected nil client when all header names are blank")
	}

	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		got = req.Header.Clone()
	}))
	defer srv.Close()

	client := httpClientWithHeaders(map[string]string{
		"Authorization": "Bearer token",
		"X-Trace":       "default",
	})
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	req.Header.Set("X-Trace", "caller")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	_ = resp.Body.Close()

	if got.Get("Authorization") != "Bearer token" {
		t.Errorf("expected Authorization header, got %q", got.Get("Authorization"))
	}
	if got.Get("X-Trace") != "caller" {
		t.Errorf("caller header should win, got %q", got.Get("X-Trace"))
	}
}
