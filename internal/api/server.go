package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/hub"
	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/contracts"
)

// Server exposes the sign's status API: plugin diagnostics, cycle
// reset, and the websocket preview feed.
type Server struct {
	plugins map[string]contracts.Plugin
	hub     *hub.Hub
}

// NewServer creates the API server over the registered plugins
func NewServer(plugins []contracts.Plugin, h *hub.Hub) *Server {
	byID := make(map[string]contracts.Plugin, len(plugins))
	for _, p := range plugins {
		byID[p.ID()] = p
	}
	return &Server{plugins: byID, hub: h}
}

// Router builds the chi router
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(10 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/plugins", s.handleListPlugins)
		r.Get("/plugins/{pluginID}/info", s.handlePluginInfo)
		r.Post("/plugins/{pluginID}/reset", s.handlePluginReset)
	})

	if s.hub != nil {
		r.Get("/ws", s.hub.ServeWS)
	}

	return r
}

// handleHealth returns the daemon's health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "ledsignd",
	})
}

// handleListPlugins lists plugin IDs with their enablement and modes
func (s *Server) handleListPlugins(w http.ResponseWriter, r *http.Request) {
	out := make([]map[string]interface{}, 0, len(s.plugins))
	for id, p := range s.plugins {
		out = append(out, map[string]interface{}{
			"id":            id,
			"enabled":       p.Enabled(),
			"display_modes": p.DisplayModes(),
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// handlePluginInfo returns a plugin's diagnostic snapshot
func (s *Server) handlePluginInfo(w http.ResponseWriter, r *http.Request) {
	p, ok := s.plugins[chi.URLParam(r, "pluginID")]
	if !ok {
		respondError(w, http.StatusNotFound, "unknown plugin")
		return
	}
	respondJSON(w, http.StatusOK, p.Info())
}

// handlePluginReset clears a plugin's rotation state for a display
// mode (all modes when none is given). This is the controller-driven
// reset the rotation scheduler expects.
func (s *Server) handlePluginReset(w http.ResponseWriter, r *http.Request) {
	p, ok := s.plugins[chi.URLParam(r, "pluginID")]
	if !ok {
		respondError(w, http.StatusNotFound, "unknown plugin")
		return
	}

	mode := r.URL.Query().Get("mode")
	if mode != "" {
		p.BeginCycle(mode)
	} else {
		for _, m := range p.DisplayModes() {
			p.BeginCycle(m)
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"reset": true, "mode": mode})
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
