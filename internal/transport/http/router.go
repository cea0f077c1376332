package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"spotlapse/internal/handler"
	"spotlapse/internal/httputil"
	"spotlapse/internal/logging"
	authmw "spotlapse/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	ProfileHandler *handler.ProfileHandler
	FollowHandler  *handler.FollowHandler
	CaptureHandler *handler.CaptureHandler
	FeedHandler    *handler.FeedHandler
	SpotHandler    *handler.SpotHandler
	SearchHandler  *handler.SearchHandler
	HealthHandler  *handler.HealthHandler

	JWTSecret              string
	CORSAllowedOrigins     []string
	CaptureRateLimitPerMin int
}

// NewRouter creates and configures a new Chi router with all route groups.
//
// The {user} segment under /users is a username for profile reads and a
// profile id for the follow graph.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(authmw.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", cfg.HealthHandler.Health)
	r.Handle("/metrics", promhttp.Handler())

	optional := authmw.OptionalAuthMiddleware(cfg.JWTSecret)
	required := authmw.AuthMiddleware(cfg.JWTSecret)

	// Public reads with optional authentication
	r.Group(func(r chi.Router) {
		r.Use(optional)

		r.Get("/users/{user}", cfg.ProfileHandler.GetProfile)
		r.Get("/users/{user}/captures", cfg.FeedHandler.ListUserCaptures)
		r.Get("/users/{user}/followers", cfg.FollowHandler.GetFollowers)
		r.Get("/users/{user}/following", cfg.FollowHandler.GetFollowing)

		r.Get("/captures", cfg.FeedHandler.ListCaptures)
		r.Get("/captures/{id}", cfg.FeedHandler.GetCapture)

		r.Get("/search", cfg.SearchHandler.Search)
	})

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(required)

		r.Post("/profiles", cfg.ProfileHandler.Create)
		r.Get("/me", cfg.ProfileHandler.Me)
		r.Patch("/me", cfg.ProfileHandler.UpdateMe)
		r.Get("/me/spots", cfg.SpotHandler.ListMine)

		r.Post("/users/{user}/follow", cfg.FollowHandler.Follow)
		r.Delete("/users/{user}/follow", cfg.FollowHandler.Unfollow)

		r.Post("/spots", cfg.SpotHandler.Create)

		r.With(captureRateLimit(cfg.CaptureRateLimitPerMin)).Post("/captures", cfg.CaptureHandler.Create)
	})

	return r
}

// captureRateLimit limits uploads per client IP.
func captureRateLimit(perMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(
		perMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			httputil.WriteError(w, http.StatusTooManyRequests, httputil.ErrCodeRateLimited, "Too many uploads, slow down")
		}),
	)
}
