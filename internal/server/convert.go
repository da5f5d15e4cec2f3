package server

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/teriyakichild/mcp-condenser/internal/gateway"
)

// toGatewayResult converts an upstream mcp.CallToolResult into the
// transport-agnostic envelope internal/gateway operates on.
func toGatewayResult(res *mcp.CallToolResult) gateway.ToolResult {
	out := gateway.ToolResult{StructuredContent: res.StructuredContent}
	for _, c := range res.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			out.Content = append(out.Content, gateway.ContentItem{Kind: gateway.ContentText, Text: tc.Text})
			continue
		}
		out.Content = append(out.Content, gateway.ContentItem{Kind: gateway.ContentOther})
	}
	return out
}

// applyGatewayResult writes a (possibly rewritten) gateway.ToolResult
// back onto the original mcp.CallToolResult in place, preserving any
// non-text content items untouched.
func applyGatewayResult(res *mcp.CallToolResult, rewritten gateway.ToolResult) {
	res.StructuredContent = rewritten.StructuredContent
	for i, item := range rewritten.Content {
		if item.Kind != gateway.ContentText {
			continue
		}
		if tc, ok := res.Content[i].(*mcp.TextContent); ok {
			tc.Text = item.Text
		}
	}
}
