package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	_ "github.com/rogerio-castellano/kasir/docs"
	"github.com/rogerio-castellano/kasir/internal/http/handlers"
	"github.com/rogerio-castellano/kasir/internal/http/middleware"
	"github.com/rogerio-castellano/kasir/internal/models"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// NewRouter wires every route. Services must be registered through the
// handlers setters first.
func NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.WithRequestID)
	r.Use(middleware.WithLogging)
	r.Use(chimw.Recoverer)

	r.Get("/health", handlers.HealthHandler)
	r.Get("/menu", handlers.GetMenuHandler)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit)
		r.Post("/login", handlers.LoginHandler)
		r.Post("/register", handlers.RegisterHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", handlers.GetProductsHandler)
			r.Post("/", handlers.CreateProductHandler)
			r.Get("/search", handlers.FilterProductsHandler)
			r.Post("/import", handlers.ImportProductsHandler)
			r.Get("/{id}", handlers.GetProductByIDHandler)
			r.Put("/{id}", handlers.UpdateProductHandler)
			r.Delete("/{id}", handlers.DeleteProductHandler)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", handlers.GetTransactionsHandler)
			r.Post("/", handlers.CreateTransactionHandler)
			r.Get("/export", handlers.ExportTransactionsHandler)
			r.Get("/{id}", handlers.GetTransactionByIDHandler)
			r.Post("/{id}/approve", handlers.ApproveTransactionHandler)
		})

		r.Get("/dashboard", handlers.GetDashboardHandler)
		r.Get("/alerts/low-stock", handlers.GetLowStockAlertsHandler)

		r.Route("/qr", func(r chi.Router) {
			r.Get("/defaults", handlers.GetQRDefaultsHandler)
			r.Post("/url", handlers.GenerateURLQRHandler)
			r.Post("/menu", handlers.GenerateMenuQRHandler)
			r.Get("/menu.pdf", handlers.GetMenuPDFHandler)
		})

		r.With(middleware.RequireRole(models.RoleAdmin)).Post("/admin/users", handlers.RegisterAsAdminHandler)
	})

	return r
}
