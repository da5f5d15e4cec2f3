// Package gateway implements the condensing engine's middleware layer
// (spec §4.8): it intercepts tool-call responses and tool listings,
// decides which text items to condense per spec §4.7's governor, and
// rewrites the result in place. Transport-agnostic by design — it
// operates on ContentItem/ToolResult envelopes rather than a specific
// RPC SDK's wire types, so internal/server can adapt whichever
// transport the proxy runs over. Grounded method-for-method on
// proxy.py's CondenserMiddleware.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/teriyakichild/mcp-condenser/internal/config"
	"github.com/teriyakichild/mcp-condenser/internal/governor"
	"github.com/teriyakichild/mcp-condenser/internal/heuristics"
	"github.com/teriyakichild/mcp-condenser/internal/metrics"
	"github.com/teriyakichild/mcp-condenser/internal/tokenizer"
)

// ContentKind names a ContentItem's payload shape. Only Text items are
// ever condensed; anything else passes through untouched.
type ContentKind string

const (
	ContentText  ContentKind = "text"
	ContentOther ContentKind = "other"
)

// ContentItem is one entry of a tool result's content list.
type ContentItem struct {
	Kind ContentKind
	Text string
}

// ToolResult is the transport-agnostic shape of a tool call's
// response: a content list plus a structured-content side channel that
// must be cleared when any item is rewritten, so clients re-read the
// condensed text instead of the original structured payload (spec §9).
type ToolResult struct {
	Content           []ContentItem
	StructuredContent any
}

// ToolDescriptor is the transport-agnostic shape of one entry in a
// tools/list response.
type ToolDescriptor struct {
	Name         string
	OutputSchema any
}

// Middleware is the condensing engine's tool-call interceptor.
// Grounded on proxy.py's CondenserMiddleware.
type Middleware struct {
	servers       map[string]*config.ServerConfig
	toolServerMap map[string]string // tool name -> server name; may be nil
	metrics       metrics.Recorder
	tokenizer     tokenizer.Tokenizer
	profiles      heuristics.ProfileSet
	logger        *slog.Logger
}

// NewMiddleware builds a Middleware. toolServerMap may be nil, in
// which case the sole entry of servers applies to every tool and tool
// names are taken as unprefixed.
func NewMiddleware(
	servers map[string]*config.ServerConfig,
	toolServerMap map[string]string,
	rec metrics.Recorder,
	tok tokenizer.Tokenizer,
	profiles heuristics.ProfileSet,
	logger *slog.Logger,
) *Middleware {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Middleware{
		servers:       servers,
		toolServerMap: toolServerMap,
		metrics:       rec,
		tokenizer:     tok,
		profiles:      profiles,
		logger:        logger,
	}
}

// resolveServerName maps a tool name to its server name, for metric
// labels; "unknown"/"default" fallbacks mirror
// proxy.py's _resolve_server_name.
func (m *Middleware) resolveServerName(toolName string) string {
	if m.toolServerMap != nil {
		if name, ok := m.toolServerMap[toolName]; ok {
			return name
		}
		return "unknown"
	}
	for name := range m.servers {
		return name
	}
	return "default"
}

// resolveServerConfig maps a tool name back to its ServerConfig.
func (m *Middleware) resolveServerConfig(toolName string) (*config.ServerConfig, string) {
	serverName := m.resolveServerName(toolName)
	if m.toolServerMap != nil {
		sc, ok := m.servers[serverName]
		if !ok {
			return nil, serverName
		}
		return sc, serverName
	}
	if len(m.servers) == 1 {
		return m.servers[serverName], serverName
	}
	return nil, serverName
}

// baseToolName strips the "<server>_" registration prefix off
// toolName, so tool allow-lists/overrides are keyed by the upstream's
// own tool name regardless of prefix_tools.
func (m *Middleware) baseToolName(toolName, serverName string) string {
	if m.toolServerMap == nil {
		return toolName
	}
	prefix := serverName + "_"
	if strings.HasPrefix(toolName, prefix) {
		return toolName[len(prefix):]
	}
	return toolName
}

// OnListTools strips OutputSchema from every tool this middleware
// would process, since its text output no longer matches the
// upstream's declared schema once condensed (spec §9).
func (m *Middleware) OnListTools(tools []ToolDescriptor) []ToolDescriptor {
	for i := range tools {
		sc, _ := m.resolveServerConfig(tools[i].Name)
		if sc == nil {
			continue
		}
		base := m.baseToolName(tools[i].Name, m.resolveServerName(tools[i].Name))
		if config.ShouldProcess(sc, base) {
			tools[i].OutputSchema = nil
		}
	}
	return tools
}

// OnCallTool intercepts a tool's result, condensing each TextContent
// item per the governor's decision tree, then applying the server's
// max_token_limit/tool_token_limits truncation pass. Grounded on
// proxy.py's on_call_tool.
func (m *Middleware) OnCallTool(ctx context.Context, toolName string, result ToolResult) ToolResult {
	sc, serverName := m.resolveServerConfig(toolName)
	if sc == nil || !sc.Condense {
		m.metrics.RecordRequest(toolName, serverName, "passthrough")
		return result
	}

	base := m.baseToolName(toolName, serverName)
	var condensedAny atomic.Bool

	// Each content item condenses independently, so a multi-item result
	// (e.g. several text blocks from one tool call) fans out across a
	// bounded worker pool rather than condensing one item at a time.
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, item := range result.Content {
		if item.Kind != ContentText {
			continue
		}
		i, text := i, item.Text
		g.Go(func() error {
			timer := metrics.NewTimer()
			condensed, _, ok := m.condenseItem(text, toolName, base, serverName, sc)
			m.metrics.RecordProcessingSeconds(toolName, serverName, timer.Stop())

			if ok {
				result.Content[i].Text = condensed
				condensedAny.Store(true)
			}
			return nil
		})
	}
	_ = g.Wait()

	if condensedAny.Load() {
		result.StructuredContent = nil
	}

	limit := config.TokenLimitFor(sc, base)
	if limit > 0 {
		for i, item := range result.Content {
			if item.Kind != ContentText {
				continue
			}
			truncated, didTruncate := governor.TruncateToTokenLimit(item.Text, limit, m.tokenizer)
			if didTruncate {
				result.Content[i].Text = truncated
				m.metrics.RecordTruncation(toolName, serverName)
				m.logger.Info("truncated to token limit",
					"tool", toolName, "limit", limit)
			}
		}
	}

	return result
}

// condenseItem applies the governor to a single text item and, on
// success, records its metrics/log line. Returns ok=false when the
// item was passed through, skipped, or reverted (the caller must not
// overwrite item.Text in that case, matching proxy.py's
// _condense_item returning None).
func (m *Middleware) condenseItem(text, toolName, baseTool, serverName string, sc *config.ServerConfig) (string, string, bool) {
	policy, err := config.PolicyFor(sc, baseTool, m.profiles)
	if err != nil {
		m.logger.Error("bad heuristics configuration", "tool", toolName, "error", err)
		m.metrics.RecordRequest(toolName, serverName, "passthrough")
		return "", "", false
	}

	result := governor.Run(text, policy, m.tokenizer)

	switch result.Mode {
	case governor.ModePassthrough, governor.ModeSkipped, governor.ModeReverted:
		m.metrics.RecordRequest(toolName, serverName, string(result.Mode))
		m.logger.Info("condenser "+string(result.Mode),
			"tool", toolName, "input_tokens", result.InputTokens)
		return "", "", false
	}

	stats := governor.ComputeStats(text, result.Text, result.InputTokens, m.tokenizer)
	m.logger.Info(fmt.Sprintf("condenser %s", result.Mode),
		"tool", toolName, "format", policy.FormatHint,
		"input_tokens", stats.OrigTok, "output_tokens", stats.CondTok,
		"reduction_pct", stats.TokPct)

	m.metrics.RecordRequest(toolName, serverName, string(result.Mode))
	m.metrics.RecordTokens(toolName, serverName, result.InputTokens, result.OutputTokens)
	if result.InputTokens > 0 {
		m.metrics.RecordCompressionRatio(toolName, serverName, float64(result.OutputTokens)/float64(result.InputTokens))
	}

	return result.Text, string(result.Mode), true
}
