package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/teriyakichild/mcp-condenser/internal/config"
	"github.com/teriyakichild/mcp-condenser/internal/gateway"
	"github.com/teriyakichild/mcp-condenser/internal/upstream"
)

// connectUpstream dials one configured upstream and returns its live
// session.
func connectUpstream(ctx context.Context, serverName string, sc *config.ServerConfig) (*mcp.ClientSession, error) {
	return upstream.Connect(ctx, serverName, sc)
}

// listUpstreamTools lists every tool an upstream session exposes.
func listUpstreamTools(ctx context.Context, session *mcp.ClientSession) ([]*mcp.Tool, error) {
	result, err := session.ListTools(ctx, nil)
	if err != nil {
		return nil, err
	}
	return result.Tools, nil
}

// newProxyHandler returns the mcp.ToolHandler registered for one
// upstream tool: forward the call, run it through the condensing
// gateway, and return the (possibly rewritten) result. registeredName
// is the name the tool was registered under locally (prefixed or not);
// upstreamName is the name to call on the upstream itself.
func newProxyHandler(mw *gateway.Middleware, session *mcp.ClientSession, registeredName, upstreamName string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      upstreamName,
			Arguments: req.Params.Arguments,
		})
		if err != nil {
			return nil, err
		}

		rewritten := mw.OnCallTool(ctx, registeredName, toGatewayResult(res))
		applyGatewayResult(res, rewritten)
		return res, nil
	}
}
