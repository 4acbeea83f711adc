package router

import (
	"net/http"
	"time"

	"gamestore/internal/handler"
	"gamestore/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Product  *handler.ProductHandler
	Order    *handler.OrderHandler
	Discount *handler.DiscountHandler
	Admin    *handler.AdminHandler
}

// Keys holds the shared secrets checked on the API and admin route groups.
type Keys struct {
	API   string
	Admin string
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, keys Keys, allowedOrigins []string, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.APIKeyHeader, middleware.AdminKeyHeader},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(middleware.APIKeyHeader, keys.API, logger))

			r.Get("/products", h.Product.GetAll)
			r.Get("/products/{id}", h.Product.GetByID)

			r.Post("/discount-codes/validate", h.Discount.Validate)

			r.Post("/orders", h.Order.Create)
			r.Get("/orders/{id}", h.Order.GetByID)
		})

		r.Route("/admin/discount-codes", func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(middleware.AdminKeyHeader, keys.Admin, logger))

			r.Get("/", h.Admin.List)
			r.Post("/", h.Admin.Create)
			r.Post("/import", h.Admin.Import)
			r.Get("/{code}", h.Admin.GetByCode)
			r.Delete("/{id}", h.Admin.Delete)
			r.Patch("/{id}/active", h.Admin.SetActive)
			r.Patch("/{id}/extend", h.Admin.Extend)
			r.Get("/{id}/usages", h.Admin.ListUsages)
		})
	})

	return r
}
