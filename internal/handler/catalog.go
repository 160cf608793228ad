package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/guncad/market-server-go/internal/middleware"
	"github.com/guncad/market-server-go/internal/model"
	"github.com/guncad/market-server-go/internal/service"
)

// CatalogHandler serves bookmarks, likes and per-project counters. Routes
// mounted behind middleware.RequireIdentity may assume an identity.
type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) BookmarkRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequireIdentity)

	r.Post("/check", h.CheckBookmark)
	r.Post("/toggle", h.ToggleBookmark)

	return r
}

func (h *CatalogHandler) StatsRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{projectId}", h.GetStats)
	r.Post("/track-view", h.TrackView)
	r.Post("/track-download", h.TrackDownload)
	r.With(middleware.RequireIdentity).Post("/toggle-like", h.ToggleLike)

	return r
}

type modelRequest struct {
	ModelID string `json:"modelId"`
}

type projectRequest struct {
	ProjectID string `json:"projectId"`
}

func (h *CatalogHandler) CheckBookmark(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var req modelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	bookmarked, err := h.catalog.IsBookmarked(r.Context(), identity.UserID, req.ModelID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"bookmarked": bookmarked})
}

func (h *CatalogHandler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var req modelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	bookmarked, err := h.catalog.ToggleBookmark(r.Context(), identity.UserID, req.ModelID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"bookmarked": bookmarked})
}

func (h *CatalogHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	var userID string
	if identity := middleware.GetIdentity(r.Context()); identity != nil {
		userID = identity.UserID
	}

	view, err := h.catalog.GetStats(r.Context(), chi.URLParam(r, "projectId"), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *CatalogHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	view, err := h.catalog.ToggleLike(r.Context(), identity.UserID, req.ProjectID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *CatalogHandler) TrackView(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectID string `json:"projectId"`
		BaseViews *int64 `json:"baseViews"`
		BaseLikes *int64 `json:"baseLikes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	summary, err := h.catalog.TrackView(r.Context(), model.TrackViewParams{
		ProjectID: req.ProjectID,
		BaseViews: req.BaseViews,
		BaseLikes: req.BaseLikes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *CatalogHandler) TrackDownload(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	summary, err := h.catalog.TrackDownload(r.Context(), req.ProjectID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *CatalogHandler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	bookmarks, err := h.catalog.ListBookmarks(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"bookmarks": bookmarks,
		"total":     len(bookmarks),
	})
}

func (h *CatalogHandler) ListLikes(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	likes, err := h.catalog.ListLikes(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"likes": likes,
		"total": len(likes),
	})
}
