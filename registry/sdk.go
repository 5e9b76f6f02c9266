package registry

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SDKServer returns an MCP SDK server exposing the built-in span and rank
// tools. It shares the registry's ranker and cache, and can run on any SDK
// transport:
//
//	server := reg.SDKServer()
//	err := server.Run(ctx, &mcp.StdioTransport{})
func (r *Registry) SDKServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    r.config.ServerInfo.Name,
		Version: r.config.ServerInfo.Version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        SpanToolName,
		Description: spanToolDescription,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args SpanArgs) (*mcp.CallToolResult, SpanOutput, error) {
		out, err := runSpan(ctx, args)
		return nil, out, err
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        RankToolName,
		Description: rankToolDescription,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args RankArgs) (*mcp.CallToolResult, RankOutput, error) {
		out, err := runRank(ctx, r.ranker, args)
		return nil, out, err
	})

	return server
}
