// Package admin serves operational endpoints on a separate port: snapshot
// status, forced refresh and cache invalidation.
package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/andresuchdata/stockguard/internal/cache"
	"github.com/andresuchdata/stockguard/internal/domain"
	"github.com/andresuchdata/stockguard/internal/snapshot"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	holder *snapshot.Holder
	cache  cache.ResultCache
}

func NewHandler(holder *snapshot.Holder, cacheImpl cache.ResultCache) *Handler {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopResultCache()
	}
	return &Handler{holder: holder, cache: cacheImpl}
}

// NewRouter returns a mux router with the admin routes and a health check.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	h.RegisterRoutes(r)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	return r
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/admin/snapshot", h.GetSnapshot).Methods("GET")
	router.HandleFunc("/admin/snapshot/refresh", h.RefreshSnapshot).Methods("POST")
	router.HandleFunc("/admin/cache/invalidate", h.InvalidateCache).Methods("POST")
}

func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.holder.Current()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.Stats())
}

func (h *Handler) RefreshSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.holder.Refresh(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("admin: snapshot refresh failed")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.Stats())
}

func (h *Handler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.InvalidateAll(r.Context()); err != nil {
		log.Error().Err(err).Msg("admin: cache invalidation failed")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"invalidated": true})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrNoSnapshot) {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
