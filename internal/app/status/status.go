// internal/app/status/status.go

// Package status serves a small JSON endpoint for operators: counters
// for live connections, accounts and groups. It is off unless a status
// address is configured and exposes nothing about file contents.
package status

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/groupdrop/groupdrop/internal/app/server"
	"github.com/groupdrop/groupdrop/internal/app/store/directory"
)

// Handler holds the dependencies read by the status endpoint.
type Handler struct {
	Srv *server.Server
	Dir *directory.Directory
	Log *zap.Logger
}

// NewHandler constructs a status Handler.
func NewHandler(srv *server.Server, dir *directory.Directory, log *zap.Logger) *Handler {
	return &Handler{Srv: srv, Dir: dir, Log: log}
}

// statusResponse is the JSON structure for GET /health.
type statusResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Connections   int64  `json:"connections"`
	Accounts      int    `json:"accounts"`
	Groups        int    `json:"groups"`
}

// Serve handles GET /health.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Status:        "ok",
		UptimeSeconds: int64(h.Srv.Uptime() / time.Second),
		Connections:   h.Srv.ConnCount(),
		Accounts:      h.Dir.Accounts.Len(),
		Groups:        h.Dir.Groups.Len(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.Log.Warn("status encode failed", zap.Error(err))
	}
}

// Routes returns the status router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", h.Serve)
	return r
}

// ListenAndServe runs the status endpoint on addr in the calling
// goroutine.
func (h *Handler) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, h.Routes())
}
