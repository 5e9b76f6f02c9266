// Package registry exposes span search as MCP tools.
//
// Registry keeps a set of locally executed tools, ranks them with the
// span-length fuzzy finder from package rank, and serves them over MCP
// JSON-RPC. Two built-in tools wrap the span and rank packages:
//
//   - span: shortest window of a reference containing a query
//   - rank: candidates ordered by minimal span length
//
// Features:
//   - Local tool registration with handlers
//   - Span-length tool search over registered tool IDs
//   - MCP protocol handlers (initialize, tools/list, tools/call)
//   - Remote MCP backends whose tools are searched and forwarded
//   - Multiple transports (stdio, HTTP, SSE)
//   - The same built-in tools on an official MCP SDK server
//
// Example usage:
//
//	reg := registry.New(registry.Config{
//	    ServerInfo: registry.ServerInfo{
//	        Name:    "minspan",
//	        Version: "1.0.0",
//	    },
//	})
//	if err := reg.RegisterSpanTools(); err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	reg.Start(ctx)
//	defer reg.Stop()
//
//	registry.ServeStdio(ctx, reg)
//
// To serve through the MCP SDK instead:
//
//	server := reg.SDKServer()
//	server.Run(ctx, &mcp.StdioTransport{})
package registry
