package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/minspan/rank"
)

// Config configures a Registry.
type Config struct {
	// ServerInfo is reported in the initialize response.
	ServerInfo ServerInfo

	// RankConfig configures the ranker behind Search and the rank tool.
	// If nil, rank defaults are used.
	RankConfig *rank.Config
}

// ServerInfo describes this MCP server for initialize response.
type ServerInfo struct {
	Name    string
	Version string
}

// ToolHandler executes a local tool with arguments parsed from an MCP request.
type ToolHandler func(ctx context.Context, args map[string]any) (any, error)

// LocalToolOption configures local tool registration.
type LocalToolOption func(*localToolConfig)

type localToolConfig struct {
	namespace string
	tags      []string
	version   string
}

// WithNamespace sets the namespace for a local tool. Namespaced tools are
// addressed as "namespace:name".
func WithNamespace(ns string) LocalToolOption {
	return func(c *localToolConfig) {
		c.namespace = ns
	}
}

// WithTags sets the tags for a local tool.
func WithTags(tags ...string) LocalToolOption {
	return func(c *localToolConfig) {
		c.tags = tags
	}
}

// WithVersion sets the version for a local tool.
func WithVersion(v string) LocalToolOption {
	return func(c *localToolConfig) {
		c.version = v
	}
}

type registeredTool struct {
	tool    model.Tool
	backend model.ToolBackend
	handler ToolHandler
}

// Registry is an MCP tool registry with span-length tool search.
type Registry struct {
	mu       sync.RWMutex
	tools    map[string]registeredTool
	backends map[string]*remoteBackend
	ranker   *rank.Ranker
	config   Config

	started bool
}

// New creates a new Registry with the given config.
func New(cfg Config) *Registry {
	rankCfg := rank.Config{}
	if cfg.RankConfig != nil {
		rankCfg = *cfg.RankConfig
	}

	return &Registry{
		tools:    make(map[string]registeredTool),
		backends: make(map[string]*remoteBackend),
		ranker:   rank.New(rankCfg),
		config:   cfg,
	}
}

// RegisterLocal registers a tool with a local execution handler.
func (r *Registry) RegisterLocal(tool model.Tool, handler ToolHandler) error {
	if err := tool.Validate(); err != nil {
		return fmt.Errorf("invalid tool: %w", err)
	}
	if handler == nil {
		return fmt.Errorf("invalid tool %s: nil handler", tool.Name)
	}

	id := tool.ToolID()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[id]; exists {
		return fmt.Errorf("%w: %s", ErrToolExists, id)
	}
	r.tools[id] = registeredTool{
		tool:    tool,
		backend: model.NewLocalBackend(tool.Name),
		handler: handler,
	}
	return nil
}

// RegisterLocalFunc is a convenience for inline tool definition.
func (r *Registry) RegisterLocalFunc(
	name, description string,
	inputSchema map[string]any,
	handler ToolHandler,
	opts ...LocalToolOption,
) error {
	cfg := localToolConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	tool := model.Tool{
		Tool: mcp.Tool{
			Name:        name,
			Description: description,
			InputSchema: inputSchema,
		},
		Namespace: cfg.namespace,
		Version:   cfg.version,
		Tags:      model.NormalizeTags(cfg.tags),
	}
	return r.RegisterLocal(tool, handler)
}

// Unregister removes a tool by ID.
func (r *Registry) Unregister(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[id]; !ok {
		return fmt.Errorf("%w: %s", ErrToolNotFound, id)
	}
	delete(r.tools, id)
	return nil
}

// Search ranks registered tools by how tightly their ID contains query.
// An empty query returns tools in ID order.
func (r *Registry) Search(ctx context.Context, query string, limit int) ([]model.Tool, error) {
	results, err := r.SearchResults(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	tools := make([]model.Tool, 0, len(results))
	for _, res := range results {
		rt, ok := r.tools[res.ID]
		if !ok {
			continue
		}
		tools = append(tools, rt.tool)
	}
	return tools, nil
}

// SearchResults is like Search but returns the ranked spans.
func (r *Registry) SearchResults(ctx context.Context, query string, limit int) (rank.Results, error) {
	ids := r.sortedIDs()
	return r.ranker.Rank(ctx, query, limit, rank.FromStrings(ids))
}

// ListAll returns all registered tools in ID order.
func (r *Registry) ListAll(ctx context.Context) ([]model.Tool, error) {
	ids := r.sortedIDs()

	r.mu.RLock()
	defer r.mu.RUnlock()
	tools := make([]model.Tool, 0, len(ids))
	for _, id := range ids {
		if rt, ok := r.tools[id]; ok {
			tools = append(tools, rt.tool)
		}
	}
	return tools, nil
}

// ListNamespaces returns all non-empty tool namespaces, sorted.
func (r *Registry) ListNamespaces(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	seen := make(map[string]struct{})
	for _, rt := range r.tools {
		if rt.tool.Namespace != "" {
			seen[rt.tool.Namespace] = struct{}{}
		}
	}
	r.mu.RUnlock()

	namespaces := make([]string, 0, len(seen))
	for ns := range seen {
		namespaces = append(namespaces, ns)
	}
	sort.Strings(namespaces)
	return namespaces, nil
}

// GetTool returns a tool by ID.
func (r *Registry) GetTool(ctx context.Context, id string) (model.Tool, error) {
	r.mu.RLock()
	rt, ok := r.tools[id]
	r.mu.RUnlock()
	if !ok {
		return model.Tool{}, fmt.Errorf("%w: %s", ErrToolNotFound, id)
	}
	return rt.tool, nil
}

// Execute runs a tool by ID with the given arguments.
func (r *Registry) Execute(ctx context.Context, id string, args map[string]any) (any, error) {
	r.mu.RLock()
	rt, ok := r.tools[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, id)
	}
	if args == nil {
		args = map[string]any{}
	}
	return rt.handler(ctx, args)
}

// Start marks the registry as serving and connects registered backends.
// If a backend fails to connect, the registry is stopped again.
func (r *Registry) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.started = true
	backends := r.backendSnapshot()
	r.mu.Unlock()

	for _, b := range backends {
		if err := r.connectBackend(ctx, b); err != nil {
			return errors.Join(err, r.Stop())
		}
	}
	return nil
}

// Stop disconnects backends, removes their tools and drops cached rankings.
func (r *Registry) Stop() error {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return nil
	}
	r.started = false
	backends := r.backendSnapshot()
	r.mu.Unlock()

	var errs []error
	for _, b := range backends {
		if err := r.disconnectBackend(b); err != nil {
			errs = append(errs, fmt.Errorf("backend %s: %w", b.config.Name, err))
		}
	}
	r.ranker.ClearCache()
	return errors.Join(errs...)
}

// backendSnapshot returns backends in name order. r.mu must be held.
func (r *Registry) backendSnapshot() []*remoteBackend {
	backends := make([]*remoteBackend, 0, len(r.backends))
	for _, b := range r.backends {
		backends = append(backends, b)
	}
	sort.Slice(backends, func(i, j int) bool {
		return backends[i].config.Name < backends[j].config.Name
	})
	return backends
}

// RegistryStats returns registry statistics.
type RegistryStats struct {
	TotalTools     int
	LocalTools     int
	RemoteTools    int
	Backends       int
	Namespaces     int
	CachedRankings int
}

// Stats returns registry statistics.
func (r *Registry) Stats() RegistryStats {
	namespaces, _ := r.ListNamespaces(context.Background())

	r.mu.RLock()
	defer r.mu.RUnlock()

	localCount, remoteCount := 0, 0
	for _, rt := range r.tools {
		switch rt.backend.Kind {
		case model.BackendKindLocal:
			localCount++
		case model.BackendKindMCP:
			remoteCount++
		}
	}

	return RegistryStats{
		TotalTools:     len(r.tools),
		LocalTools:     localCount,
		RemoteTools:    remoteCount,
		Backends:       len(r.backends),
		Namespaces:     len(namespaces),
		CachedRankings: r.ranker.CachedRankings(),
	}
}

// HealthCheck returns nil if the registry is started.
func (r *Registry) HealthCheck(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.started {
		return ErrNotStarted
	}
	return nil
}

func (r *Registry) sortedIDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.tools))
	for id := range r.tools {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Strings(ids)
	return ids
}
