package registry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os/exec"
	"sort"
	"strings"
	"sync"

	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// BackendConfig describes a remote MCP server whose tools are served and
// searched through the registry.
type BackendConfig struct {
	// Name identifies the backend. Its tools are registered under the
	// namespace Name, so a remote "span" tool becomes "Name:span".
	Name string
	// URL is the MCP server URL. http(s):// uses streamable HTTP and sse://
	// uses SSE over http. stdio://command?arg=a&arg=b launches command as a
	// child process and speaks MCP over its stdin and stdout; an absolute
	// path is written stdio:///path/to/server.
	URL string
	// Headers are optional HTTP headers for authenticated backends.
	Headers map[string]string
	// MaxRetries controls reconnect attempts for streamable HTTP transport.
	MaxRetries int
	// Transport overrides URL handling when provided.
	Transport mcp.Transport
}

type remoteBackend struct {
	config BackendConfig

	mu      sync.RWMutex
	session *mcp.ClientSession
	toolIDs []string
}

// RegisterBackend registers a remote MCP server. Its tools are listed and
// registered when the registry starts, or immediately if it already has.
func (r *Registry) RegisterBackend(ctx context.Context, cfg BackendConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("%w: backend name is required", ErrInvalidArguments)
	}

	r.mu.Lock()
	if _, exists := r.backends[cfg.Name]; exists {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrBackendExists, cfg.Name)
	}
	b := &remoteBackend{config: cfg}
	r.backends[cfg.Name] = b
	started := r.started
	r.mu.Unlock()

	if !started {
		return nil
	}
	if err := r.connectBackend(ctx, b); err != nil {
		r.mu.Lock()
		delete(r.backends, cfg.Name)
		r.mu.Unlock()
		return err
	}
	return nil
}

// UnregisterBackend removes a backend and the tools it contributed.
func (r *Registry) UnregisterBackend(name string) error {
	r.mu.Lock()
	b, exists := r.backends[name]
	if !exists {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrBackendNotFound, name)
	}
	delete(r.backends, name)
	r.mu.Unlock()

	return r.disconnectBackend(b)
}

// ListBackends returns the names of registered backends, sorted.
func (r *Registry) ListBackends() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}

func (r *Registry) connectBackend(ctx context.Context, b *remoteBackend) error {
	tools, err := b.connect(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect backend %s: %w", b.config.Name, err)
	}

	r.mu.Lock()
	ids := make([]string, 0, len(tools))
	for _, tool := range tools {
		id := tool.ToolID()
		if _, exists := r.tools[id]; exists {
			for _, added := range ids {
				delete(r.tools, added)
			}
			r.mu.Unlock()
			_ = b.disconnect()
			return fmt.Errorf("failed to register backend %s tools: %w: %s", b.config.Name, ErrToolExists, id)
		}
		r.tools[id] = registeredTool{
			tool:    tool,
			backend: model.NewMCPBackend(b.config.Name),
			handler: b.handler(tool.Name),
		}
		ids = append(ids, id)
	}
	r.mu.Unlock()

	b.mu.Lock()
	b.toolIDs = ids
	b.mu.Unlock()
	return nil
}

func (r *Registry) disconnectBackend(b *remoteBackend) error {
	b.mu.Lock()
	ids := b.toolIDs
	b.toolIDs = nil
	b.mu.Unlock()

	r.mu.Lock()
	for _, id := range ids {
		delete(r.tools, id)
	}
	r.mu.Unlock()

	return b.disconnect()
}

func (b *remoteBackend) connect(ctx context.Context) ([]model.Tool, error) {
	transport, err := b.transport()
	if err != nil {
		return nil, err
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "minspan-registry"}, nil)
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, err
	}

	res, err := session.ListTools(ctx, nil)
	if err != nil {
		_ = session.Close()
		return nil, err
	}

	tools := make([]model.Tool, 0, len(res.Tools))
	for _, t := range res.Tools {
		if t == nil {
			continue
		}
		tool := model.Tool{Tool: *t, Namespace: b.config.Name}
		if err := tool.Validate(); err != nil {
			_ = session.Close()
			return nil, fmt.Errorf("invalid remote tool %s: %w", t.Name, err)
		}
		tools = append(tools, tool)
	}

	b.mu.Lock()
	b.session = session
	b.mu.Unlock()
	return tools, nil
}

func (b *remoteBackend) disconnect() error {
	b.mu.Lock()
	session := b.session
	b.session = nil
	b.mu.Unlock()

	if session == nil {
		return nil
	}
	return session.Close()
}

// handler forwards calls for the remote tool name over the backend session.
func (b *remoteBackend) handler(name string) ToolHandler {
	return func(ctx context.Context, args map[string]any) (any, error) {
		b.mu.RLock()
		session := b.session
		b.mu.RUnlock()
		if session == nil {
			return nil, fmt.Errorf("%w: backend %s not connected", ErrBackendNotFound, b.config.Name)
		}

		result, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExecutionFailed, err)
		}
		if result == nil {
			return nil, nil
		}
		if result.IsError {
			return nil, fmt.Errorf("%w: %s", ErrExecutionFailed, toolResultError(result))
		}
		return toolResultValue(result), nil
	}
}

func (b *remoteBackend) transport() (mcp.Transport, error) {
	if b.config.Transport != nil {
		return b.config.Transport, nil
	}
	if strings.TrimSpace(b.config.URL) == "" {
		return nil, errors.New("backend URL is required")
	}

	parsed, err := url.Parse(b.config.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}

	httpClient := httpClientWithHeaders(b.config.Headers)

	switch parsed.Scheme {
	case "http", "https":
		return &mcp.StreamableClientTransport{
			Endpoint:   b.config.URL,
			HTTPClient: httpClient,
			MaxRetries: b.config.MaxRetries,
		}, nil
	case "sse":
		parsed.Scheme = "http"
		return &mcp.SSEClientTransport{
			Endpoint:   parsed.String(),
			HTTPClient: httpClient,
		}, nil
	case "stdio":
		command := parsed.Host + parsed.Path
		if command == "" {
			return nil, errors.New("stdio backend URL needs a command")
		}
		return &mcp.CommandTransport{
			Command: exec.Command(command, parsed.Query()["arg"]...),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported backend URL scheme %q", parsed.Scheme)
	}
}

func httpClientWithHeaders(headers map[string]string) *http.Client {
	clean := make(map[string]string, len(headers))
	for k, v := range headers {
		if strings.TrimSpace(k) != "" {
			clean[k] = v
		}
	}
	if len(clean) == 0 {
		return nil
	}
	return &http.Client{
		Transport: &headerRoundTripper{base: http.DefaultTransport, headers: clean},
	}
}

type headerRoundTripper struct {
	base    http.RoundTripper
	headers map[string]string
}

func (h *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for key, value := range h.headers {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}
	return h.base.RoundTrip(req)
}

// toolResultValue prefers structured content, then a lone text block.
func toolResultValue(result *mcp.CallToolResult) any {
	if result.StructuredContent != nil {
		return result.StructuredContent
	}
	if len(result.Content) == 1 {
		if text, ok := result.Content[0].(*mcp.TextContent); ok {
			return text.Text
		}
	}
	return result.Content
}

func toolResultError(result *mcp.CallToolResult) string {
	for _, content := range result.Content {
		if text, ok := content.(*mcp.TextContent); ok && text.Text != "" {
			return text.Text
		}
	}
	return "tool execution failed"
}
