// Package upstream builds the MCP client used to reach one configured
// upstream server, including the selective request-header forwarding
// proxy.py's _ForwardingTransport implements.
package upstream

import "net/http"

// HeaderForwarder translates a subset of an incoming request's headers
// into the headers sent to the upstream, then applies the server's
// static headers on top. Grounded on proxy.py's
// _ForwardingTransport.connect_session: "Static headers from config
// are always applied on top."
type HeaderForwarder struct {
	// ForwardMap is incoming-header-name -> upstream-header-name. Only
	// headers named here are ever forwarded; everything else from the
	// incoming request is dropped.
	ForwardMap map[string]string
	// Static are headers from the server's own config, applied after
	// translation so they win on collision.
	Static map[string]string
}

// Build returns the header set to send upstream for one incoming
// request.
func (f *HeaderForwarder) Build(incoming http.Header) http.Header {
	out := make(http.Header, len(f.ForwardMap)+len(f.Static))
	for src, dst := range f.ForwardMap {
		if val := incoming.Get(src); val != "" {
			out.Set(dst, val)
		}
	}
	for k, v := range f.Static {
		out.Set(k, v)
	}
	return out
}
