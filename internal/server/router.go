package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"storefront/internal/auth"
	"storefront/internal/domain"
	ordercontroller "storefront/internal/order/controller"
	"storefront/internal/product"
)

// NewRouter mounts the public catalog routes, the authenticated order
// routes, and the admin surface behind the access gate.
func NewRouter(
	products *product.Controller,
	orders *ordercontroller.OrderController,
	gate *auth.Middleware,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/products", func(r chi.Router) {
		// Browsing the catalog works anonymously; an identity is still
		// resolved when a token is present.
		r.Group(func(r chi.Router) {
			r.Use(gate.OptionalAuthenticate)
			r.Get("/", products.HandleListProducts)
			r.Get("/categories", products.HandleListCategories)
			r.Get("/{productId}", products.HandleGetProduct)
		})

		r.Group(func(r chi.Router) {
			r.Use(gate.Authenticate)
			r.Use(gate.RequireRole(domain.RoleAdmin))
			r.Post("/", products.HandleCreateProduct)
			r.Put("/{productId}", products.HandleUpdateProduct)
			r.Delete("/{productId}", products.HandleDeleteProduct)
		})
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(gate.Authenticate)

		r.Post("/", orders.HandleCreateOrder)
		r.Get("/", orders.HandleListMyOrders)
		r.Get("/{orderId}", orders.HandleGetOrder)
		r.Put("/{orderId}/cancel", orders.HandleCancelOrder)

		r.Group(func(r chi.Router) {
			r.Use(gate.RequireRole(domain.RoleAdmin))
			r.Get("/admin/all", orders.HandleListAllOrders)
			r.Put("/{orderId}/status", orders.HandleUpdateOrderStatus)
		})
	})

	return r
}
