package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/verification-api/internal/application/verification"
	"github.com/verification-api/internal/config"
	"github.com/verification-api/internal/transport/http/handler"
	appmiddleware "github.com/verification-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, logger zerolog.Logger, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(appmiddleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-API-Key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	apiKey := appmiddleware.APIKey(cfg.APIKey)
	// Applied to the write endpoint only — reads are cheap, writes are not.
	writeRL := appmiddleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	verificationSvc := verification.NewService(deps.VerificationRepo)

	healthH := handler.NewHealthHandler()
	verificationH := handler.NewVerificationHandler(verificationSvc)

	r.Route("/api", func(r chi.Router) {
		// ── Public routes (no API key) ───────────────────────────────────────
		r.Get("/health", healthH.Health)

		// ── Key-gated routes ─────────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(apiKey)

			r.With(writeRL.Limit).Post("/verification", verificationH.Write)
			r.Get("/verification/{robloxUsername}", verificationH.Fetch)
			r.Delete("/verification/{robloxUsername}", verificationH.Delete)
		})
	})

	return r
}
