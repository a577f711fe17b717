package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"mizu-in-go/pkg/config"
)

func resolveRemoteAddr(t *testing.T, proxies []string, remoteAddr, forwardedFor string) string {
	t.Helper()

	t.Setenv("MIZU_CONFIG_PATH", t.TempDir())
	t.Setenv("MIZU_TRUSTED_PROXIES", strings.Join(proxies, ","))
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	var seen string
	handler := NewProxyResolver(cfg).Middleware(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = r.RemoteAddr
		}),
	)

	req := httptest.NewRequest("GET", "/drinks", nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return seen
}

func TestProxyResolver(t *testing.T) {
	t.Run("trusted proxy forwards the original client", func(t *testing.T) {
		got := resolveRemoteAddr(t, []string{"10.0.0.0/8"}, "10.0.0.5:4321", "203.0.113.9")
		assert.Equal(t, "203.0.113.9", got)
	})

	t.Run("first hop of a chain wins", func(t *testing.T) {
		got := resolveRemoteAddr(t, []string{"10.0.0.0/8"}, "10.0.0.5:4321", "203.0.113.9, 10.0.0.5")
		assert.Equal(t, "203.0.113.9", got)
	})

	t.Run("untrusted peers cannot spoof", func(t *testing.T) {
		got := resolveRemoteAddr(t, []string{"10.0.0.0/8"}, "198.51.100.7:4321", "203.0.113.9")
		assert.Equal(t, "198.51.100.7:4321", got)
	})

	t.Run("garbage forwarded header is ignored", func(t *testing.T) {
		got := resolveRemoteAddr(t, []string{"10.0.0.0/8"}, "10.0.0.5:4321", "not-an-ip")
		assert.Equal(t, "10.0.0.5:4321", got)
	})
}
