package server

import (
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/izzyreal/pagehist/internal/protocol"
	"github.com/izzyreal/pagehist/internal/server/httpx"
	"github.com/izzyreal/pagehist/internal/version"
)

func healthzHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func serverInfoHandler(w http.ResponseWriter, r *http.Request) {
	host, _ := os.Hostname()
	writeJSON(w, http.StatusOK, protocol.ServerInfoResponse{
		Name:       "pagehist",
		APIVersion: 1,
		Version:    version.Current(),
		Hostname:   strings.TrimSpace(host),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	httpx.WriteJSON(w, status, v)
}

func writeError(w http.ResponseWriter, msg string, status int) {
	httpx.WriteError(w, status, strings.TrimSpace(msg))
}

// projectParam returns the project path segment. chi matches on the raw
// path when the request carries escapes, so an encoded slash arrives here
// still escaped.
func projectParam(r *http.Request) string {
	name := chi.URLParam(r, "project")
	if r.URL.RawPath != "" {
		if u, err := url.PathUnescape(name); err == nil {
			name = u
		}
	}
	return strings.TrimSpace(name)
}
