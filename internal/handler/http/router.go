package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/service"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/health"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/middleware"
)

const serviceName = "drinks-api"

// Services groups the application services the router exposes.
type Services struct {
	Drinks  *service.DrinkService
	Reviews *service.ReviewService
	Users   *service.UserService
	Auth    *service.AuthService
}

// RouterConfig holds the transport settings of the router.
type RouterConfig struct {
	CORS           middleware.CORSConfig
	CacheMaxAge    int
	TokenRateLimit float64
	TokenBurst     int
}

// NewRouter creates a chi router with all drinks API routes registered.
func NewRouter(svcs Services, healthHandler *health.Handler, cfg RouterConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.PrometheusMetrics(serviceName))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	requireAuth := middleware.Auth(func(ctx context.Context, token string) (string, error) {
		out, err := svcs.Auth.GetTokenData(ctx, &service.GetTokenDataInput{AccessToken: token})
		if err != nil {
			return "", err
		}
		return out.UserID, nil
	})

	drinkHandler := NewDrinkHandler(svcs.Drinks, logger)
	r.Route("/api/v1/drinks", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.With(middleware.CacheControl(cfg.CacheMaxAge)).Get("/", drinkHandler.ListDrinks)
		r.With(middleware.CacheControl(cfg.CacheMaxAge)).Get("/{drinkId}", drinkHandler.GetDrink)
		r.Post("/", drinkHandler.CreateDrink)
		r.Put("/{drinkId}", drinkHandler.UpdateDrink)
		r.Delete("/{drinkId}", drinkHandler.DeleteDrink)

		r.With(requireAuth).Post("/{drinkId}/wish", drinkHandler.AddWish)
		r.With(requireAuth).Delete("/{drinkId}/wish", drinkHandler.DeleteWish)
	})

	reviewHandler := NewReviewHandler(svcs.Reviews, svcs.Drinks, logger)
	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", reviewHandler.ListReviews)
		r.Get("/{reviewId}", reviewHandler.GetReview)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Post("/", reviewHandler.CreateReview)
			r.Put("/{reviewId}", reviewHandler.UpdateReview)
			r.Delete("/{reviewId}", reviewHandler.DeleteReview)
		})
	})

	userHandler := NewUserHandler(svcs.Users, svcs.Auth, logger)
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/", userHandler.CreateUser)
		r.Get("/{userId}", userHandler.GetUser)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Put("/{userId}", userHandler.UpdateUser)
			r.Delete("/{userId}", userHandler.DeleteUser)
		})
	})

	authHandler := NewAuthHandler(svcs.Auth, logger)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.With(middleware.RateLimit(cfg.TokenRateLimit, cfg.TokenBurst, logger)).Post("/token", authHandler.GetToken)
		r.Get("/token-data", authHandler.GetTokenData)
	})

	return r
}
