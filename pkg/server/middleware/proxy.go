package middleware

import (
	"net"
	"net/http"
	"strings"

	"mizu-in-go/pkg/config"
)

// ProxyResolver rewrites RemoteAddr from X-Forwarded-For, but only when the
// request actually came from a trusted proxy. Requests from anywhere else
// keep their socket address, so clients cannot spoof the access log.
type ProxyResolver struct {
	cfg *config.MizuConfig
}

func NewProxyResolver(cfg *config.MizuConfig) *ProxyResolver {
	return &ProxyResolver{cfg: cfg}
}

func (p *ProxyResolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		peer, _, err := net.SplitHostPort(r.RemoteAddr)
		if err == nil && p.cfg.IsTrustedProxy(peer) {
			if forwarded := clientFromForwardedFor(r.Header.Get("X-Forwarded-For")); forwarded != "" {
				r.RemoteAddr = forwarded
			}
		}
		next.ServeHTTP(w, r)
	})
}

// clientFromForwardedFor returns the first address of an X-Forwarded-For
// chain, which is the original client as seen by the outermost proxy
func clientFromForwardedFor(header string) string {
	if header == "" {
		return ""
	}
	first := strings.TrimSpace(strings.Split(header, ",")[0])
	if net.ParseIP(first) == nil {
		return ""
	}
	return first
}
