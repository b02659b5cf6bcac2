package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-travel-planner/internal/config"
	"go-travel-planner/internal/handler"
	"go-travel-planner/internal/middleware"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Trip    *handler.TripHandler
	Payment *handler.PaymentHandler
	Price   *handler.PriceHandler
	Chat    *handler.ChatHandler
	Health  *handler.HealthHandler
}

// New mounts every route. authLimiter guards only register and login; the
// per-IP token bucket applies to the whole API. clientIP decides which
// forwarding headers the bucket may trust and can be nil.
func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	authLimiter *middleware.FixedWindowLimiter,
	clientIP *middleware.ClientIPResolver,
	h Handlers,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, clientIP)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)

	r.Get("/health", h.Health.Check)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Use(rateLimitMiddleware.Handler)
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Use(authLimiter.Handler)
			auth.Post("/register", h.Auth.Register)
			auth.Post("/login", h.Auth.Login)
		})

		api.Post("/users/logout", h.Auth.Logout)
		api.With(authMiddleware.RequireSession).Get("/users/profile", h.User.GetProfile)
		api.With(authMiddleware.RequireSession).Put("/users/profile", h.User.UpdateProfile)

		api.Route("/trips", func(trips chi.Router) {
			trips.Use(authMiddleware.RequireSession)
			trips.Post("/generate", h.Trip.Generate)
			trips.Get("/my-trips", h.Trip.MyTrips)
			trips.Get("/{id}", h.Trip.Get)
		})

		api.With(authMiddleware.RequireSession).Post("/payments/pay", h.Payment.Pay)
		api.Get("/price", h.Price.Quote)

		api.Route("/chat", func(chat chi.Router) {
			chat.Use(authMiddleware.RequireSession)
			chat.Post("/send", h.Chat.Send)
			chat.Get("/history", h.Chat.History)
		})
	})

	return r
}
