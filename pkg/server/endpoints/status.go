package endpoints

import (
	"bytes"
	_ "embed"
	"net/http"

	"github.com/yuin/goldmark"

	"mizu-in-go/pkg/server"
	"mizu-in-go/pkg/server/store"
)

//go:embed status.md
var statusPage []byte

// RegisterStatusEndpoints registers the unauthenticated status routes
func RegisterStatusEndpoints(s *server.Server) {
	// GET / - HTML status page
	s.Router.HandleFunc("/", handleStatus()).Methods("GET")

	// GET /health - database health check
	s.Router.HandleFunc("/health", handleHealth(s.HealthStore)).Methods("GET")
}

func handleStatus() http.HandlerFunc {
	// The page is static; render the markdown once at registration
	var buf bytes.Buffer
	if err := goldmark.Convert(statusPage, &buf); err != nil {
		buf.Reset()
		buf.WriteString("<h1>mizu</h1>")
	}
	page := []byte(
		"<!DOCTYPE html>\n<html><head><title>mizu</title></head><body>\n" +
			buf.String() +
			"</body></html>\n",
	)

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	}
}

func handleHealth(health store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := health.Ping(); err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
