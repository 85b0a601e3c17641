package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/skillswap-api/internal/application/dispatch"
	"github.com/skillswap-api/internal/application/match"
	"github.com/skillswap-api/internal/application/notification"
	"github.com/skillswap-api/internal/config"
	"github.com/skillswap-api/internal/transport/http/handler"
	appmiddleware "github.com/skillswap-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second per client with a burst of 10.
	swipeRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	dispatchSvc := dispatch.NewService(deps.NotificationRepo, deps.Publisher, cfg.DispatchRetries)
	matchSvc := match.NewService(deps.InterestRepo, dispatchSvc)
	notifSvc := notification.NewService(deps.NotificationRepo)

	healthH := handler.NewHealthHandler()
	swipeH := handler.NewSwipeHandler(matchSvc)
	notifH := handler.NewNotificationHandler(notifSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.Get("/test", healthH.Test)
		r.Post("/test", healthH.Test)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.With(swipeRL.Limit).Post("/swipes", swipeH.Swipe)
			r.Post("/requests/{id}/decision", swipeH.Decide)
			r.Get("/requests/pending", swipeH.ListPending)
			r.Get("/matches", swipeH.ListMatches)

			r.Get("/notifications", notifH.ListUnread)
			r.Put("/notifications/{id}", notifH.MarkAsRead)
		})
	})

	return r
}
