// Package server wires the condensing engine's standalone pieces
// (config, gateway, metrics, upstream clients) into a running Tool
// Protocol proxy: it connects to every configured upstream, registers
// their tools on a local mcp.Server with prefix_tools-aware naming and
// collision detection, and serves the result over streamable HTTP.
// Grounded on proxy.py's main/_run_single_upstream/_run_multi_upstream.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/teriyakichild/mcp-condenser/internal/cerrors"
	"github.com/teriyakichild/mcp-condenser/internal/config"
	"github.com/teriyakichild/mcp-condenser/internal/gateway"
	"github.com/teriyakichild/mcp-condenser/internal/heuristics"
	"github.com/teriyakichild/mcp-condenser/internal/metrics"
	"github.com/teriyakichild/mcp-condenser/internal/tokenizer"
)

// Run loads the proxy's configuration (from cfgPath, or CONDENSER_*
// env vars when cfgPath is empty), connects every upstream, and serves
// the aggregated proxy until ctx is cancelled.
func Run(ctx context.Context, cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	tok, err := tokenizer.NewTokenizer("")
	if err != nil {
		return cerrors.Wrap(cerrors.BadConfig, "failed to build tokenizer", err)
	}

	rec, shutdownMetrics, err := metrics.NewRecorder(cfg.Global.MetricsEnabled, cfg.Global.MetricsPort)
	if err != nil {
		return cerrors.Wrap(cerrors.BadConfig, "failed to start metrics server", err)
	}
	defer shutdownMetrics(ctx)

	impl := &mcp.Implementation{Name: "mcp-condenser", Version: "0.1.0"}
	mcpServer := mcp.NewServer(impl, nil)

	toolServerMap := make(map[string]string)
	mw := gateway.NewMiddleware(cfg.Servers, toolServerMap, rec, tok, heuristics.DefaultProfiles(), slog.Default())

	if err := registerUpstreams(ctx, mcpServer, cfg, mw, toolServerMap); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", cfg.Global.Host, cfg.Global.Port)
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return mcpServer }, nil)

	slog.Info("mcp-condenser proxy starting",
		"addr", addr, "servers", len(cfg.Servers), "prefix_tools", cfg.Global.PrefixTools)

	httpSrv := &http.Server{Addr: addr, Handler: handler}
	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return httpSrv.Shutdown(context.Background())
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return cerrors.Wrap(cerrors.Upstream, "proxy server exited", err)
		}
		return nil
	}
}

// upstreamFetch holds one upstream's connect+list-tools outcome, so the
// fan-out below can gather every result before registering any tool.
type upstreamFetch struct {
	name    string
	session *mcp.ClientSession
	tools   []*mcp.Tool
	err     error
}

// registerUpstreams connects to every configured upstream and lists its
// tools concurrently, bounded to runtime.NumCPU() in flight at once
// (spec §5's concurrency model), then registers each tool on mcpServer
// sequentially in sorted server-name order so collision detection stays
// deterministic. Returns the tool-name -> server-name map the gateway
// middleware needs to resolve per-tool policy. Grounded on proxy.py's
// _run_multi_upstream lifespan loop.
func registerUpstreams(ctx context.Context, mcpServer *mcp.Server, cfg *config.ProxyConfig, mw *gateway.Middleware, toolServerMap map[string]string) error {
	names := make([]string, 0, len(cfg.Servers))
	for name := range cfg.Servers {
		names = append(names, name)
	}
	sort.Strings(names)

	fetches := make([]upstreamFetch, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, serverName := range names {
		i, serverName, sc := i, serverName, cfg.Servers[serverName]
		g.Go(func() error {
			fetches[i] = fetchUpstream(gctx, serverName, sc)
			return nil
		})
	}
	_ = g.Wait()

	for _, f := range fetches {
		if f.err != nil {
			return f.err
		}
		sc := cfg.Servers[f.name]
		if err := registerOneUpstream(mcpServer, f, sc, cfg.Global.PrefixTools, mw, toolServerMap); err != nil {
			return err
		}
	}
	return nil
}

// fetchUpstream connects to one upstream and lists its tools, wrapping
// any failure into the returned upstreamFetch rather than an error, so
// registerUpstreams can collect every fetch's outcome before reporting
// the first (in sorted server-name order, not fan-out completion order).
func fetchUpstream(ctx context.Context, serverName string, sc *config.ServerConfig) upstreamFetch {
	session, err := connectUpstream(ctx, serverName, sc)
	if err != nil {
		return upstreamFetch{name: serverName, err: cerrors.Wrap(cerrors.Upstream, fmt.Sprintf("failed to connect to upstream %q", serverName), err)}
	}

	tools, err := listUpstreamTools(ctx, session)
	if err != nil {
		return upstreamFetch{name: serverName, err: cerrors.Wrap(cerrors.Upstream, fmt.Sprintf("failed to list tools on upstream %q", serverName), err)}
	}

	return upstreamFetch{name: serverName, session: session, tools: tools}
}

func registerOneUpstream(mcpServer *mcp.Server, f upstreamFetch, sc *config.ServerConfig, prefixTools bool, mw *gateway.Middleware, toolServerMap map[string]string) error {
	serverName, session := f.name, f.session

	for _, tool := range f.tools {
		if !sc.Tools.MatchesAll() && !config.MatchesTool(sc.Tools, tool.Name) {
			continue
		}

		registeredName := tool.Name
		if prefixTools {
			registeredName = serverName + "_" + tool.Name
		} else if existing, ok := toolServerMap[registeredName]; ok {
			return cerrors.New(cerrors.BadConfig, fmt.Sprintf(
				"tool name collision: %q is provided by both %q and %q; enable prefix_tools or use the tools allowlist",
				registeredName, existing, serverName))
		}

		if config.ShouldProcess(sc, tool.Name) {
			tool.OutputSchema = nil
		}

		registered := *tool
		registered.Name = registeredName
		toolServerMap[registeredName] = serverName

		mcpServer.AddTool(&registered, newProxyHandler(mw, session, registeredName, tool.Name))
		slog.Info("registered upstream tool", "name", registeredName, "server", serverName)
	}

	return nil
}
