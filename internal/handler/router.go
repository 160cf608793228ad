package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/guncad/market-server-go/internal/config"
	"github.com/guncad/market-server-go/internal/middleware"
)

type Middleware func(http.Handler) http.Handler

type RouterConfig struct {
	Gate            Middleware
	BodyLimit       Middleware
	SecurityHeaders Middleware
	AccessLimit     Middleware

	Account   *AccountHandler
	Access    *AccessHandler
	Catalog   *CatalogHandler
	Purchases *PurchaseHandler
	Health    http.Handler
	Static    http.Handler
}

// NewRouter wires the middleware stack and routes. Every route except the
// health check sits behind the gate.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(cfg.BodyLimit)
	r.Use(cfg.SecurityHeaders)

	r.Method(http.MethodGet, "/health", cfg.Health)

	r.Group(func(r chi.Router) {
		r.Use(cfg.Gate)

		r.Route("/api", func(r chi.Router) {
			r.With(cfg.AccessLimit).Post("/access", cfg.Access.Grant)
			r.Mount("/account", cfg.Account.Routes())
			r.Mount("/bookmarks", cfg.Catalog.BookmarkRoutes())
			r.Mount("/project-stats", cfg.Catalog.StatsRoutes())
			r.Get("/geo-check", cfg.Purchases.GeoCheck)
			r.With(middleware.RequireIdentity).Post("/check-purchase", cfg.Purchases.CheckPurchase)
			r.Route("/user", func(r chi.Router) {
				r.Use(middleware.RequireIdentity)
				r.Get("/bookmarks", cfg.Catalog.ListBookmarks)
				r.Get("/likes", cfg.Catalog.ListLikes)
				r.Get("/purchases", cfg.Purchases.ListPurchases)
			})
			r.NotFound(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
			})
		})

		r.Handle("/*", cfg.Static)
	})

	return r
}
