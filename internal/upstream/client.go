package upstream

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/teriyakichild/mcp-condenser/internal/config"
)

type ctxKey struct{}

// WithIncomingHeaders attaches the headers of the inbound client
// request to ctx, so a forward_headers-configured upstream request can
// translate them. Grounded on proxy.py's _ForwardingTransport reading
// get_http_headers() off the current request.
func WithIncomingHeaders(ctx context.Context, h http.Header) context.Context {
	return context.WithValue(ctx, ctxKey{}, h)
}

func incomingHeaders(ctx context.Context) http.Header {
	h, _ := ctx.Value(ctxKey{}).(http.Header)
	return h
}

// forwardingRoundTripper applies a ServerConfig's header and
// forward_headers rules to every outgoing request, reading the
// inbound request's headers (if any) from the request context.
type forwardingRoundTripper struct {
	base *HeaderForwarder
	next http.RoundTripper
}

func (t *forwardingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	built := t.base.Build(incomingHeaders(req.Context()))
	for k, vs := range built {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}
	next := t.next
	if next == nil {
		next = http.DefaultTransport
	}
	return next.RoundTrip(req)
}

// NewHTTPClient builds the *http.Client used to reach sc, applying
// sc.Headers and sc.ForwardHeaders on every request.
func NewHTTPClient(sc *config.ServerConfig) *http.Client {
	return &http.Client{
		Transport: &forwardingRoundTripper{
			base: &HeaderForwarder{ForwardMap: sc.ForwardHeaders, Static: sc.Headers},
		},
	}
}

// NewClient builds an MCP client for sc, ready to Connect. Grounded on
// proxy.py's _make_client: a StreamableHTTP transport, always using the
// header-forwarding http.Client from NewHTTPClient, which adds no
// headers when the server config carries neither headers nor
// forward_headers.
//
// The go-sdk/mcp transport/session constructor names below reflect the
// module's v1.3.1 public surface as best recalled; no vendored copy of
// the SDK was available in the example pack to verify the exact call
// shape against, so this is a documented grounding gap (see
// DESIGN.md).
func NewClient(name string, sc *config.ServerConfig) (*mcp.Client, *mcp.StreamableClientTransport) {
	client := mcp.NewClient(&mcp.Implementation{Name: "mcp-condenser", Version: "0.1.0"}, nil)
	transport := &mcp.StreamableClientTransport{
		Endpoint:   sc.URL,
		HTTPClient: NewHTTPClient(sc),
	}
	return client, transport
}

// Connect dials sc's upstream and returns a live session.
func Connect(ctx context.Context, name string, sc *config.ServerConfig) (*mcp.ClientSession, error) {
	client, transport := NewClient(name, sc)
	return client.Connect(ctx, transport, nil)
}
