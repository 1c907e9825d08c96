package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sairaahmed/poshaak-backend/api/controllers"
	"github.com/sairaahmed/poshaak-backend/api/middleware"
	"github.com/sairaahmed/poshaak-backend/internal/cart"
	"github.com/sairaahmed/poshaak-backend/internal/catalog"
	"github.com/sairaahmed/poshaak-backend/internal/customers"
	"github.com/sairaahmed/poshaak-backend/internal/orders"
	"github.com/sairaahmed/poshaak-backend/internal/promotions"
	"github.com/sairaahmed/poshaak-backend/internal/reviews"
	"github.com/sairaahmed/poshaak-backend/pkg/config"
	"github.com/sairaahmed/poshaak-backend/pkg/db"
	"github.com/sairaahmed/poshaak-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	metricsRegistry *prometheus.Registry,
	catalogService catalog.Service,
	cartService cart.Service,
	promoService promotions.Service,
	orderService orders.Service,
	customerService customers.Service,
	reviewService reviews.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	if metricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(catalogService, logg))
			r.Post("/", controllers.ProductCreate(catalogService, logg))
			r.Get("/{productId}", controllers.ProductDetail(catalogService, logg))
			r.Patch("/{productId}", controllers.ProductUpdate(catalogService, logg))
			r.Delete("/{productId}", controllers.ProductDelete(catalogService, logg))
			r.Put("/{productId}/inventory", controllers.ProductSetInventory(catalogService, logg))
			r.Get("/{productId}/reviews", controllers.ReviewListByProduct(reviewService, logg))
			r.Post("/{productId}/reviews", controllers.ReviewCreate(reviewService, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(catalogService, logg))
			r.Post("/", controllers.CategoryCreate(catalogService, logg))
			r.Delete("/{categoryName}", controllers.CategoryDelete(catalogService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Delete("/items", controllers.CartRemoveItem(cartService, logg))
			r.Patch("/items", controllers.CartUpdateQuantity(cartService, logg))
			r.Post("/toggle", controllers.CartToggleDrawer(cartService, logg))
		})

		r.Route("/promos", func(r chi.Router) {
			r.Get("/", controllers.PromoList(promoService, logg))
			r.Post("/", controllers.PromoCreate(promoService, logg))
			r.Delete("/{promoCode}", controllers.PromoDelete(promoService, logg))
			r.Post("/{promoCode}/toggle", controllers.PromoToggle(promoService, logg))
			r.Get("/{promoCode}/validate", controllers.PromoValidate(promoService, logg))
		})

		r.Route("/sales", func(r chi.Router) {
			r.Post("/apply", controllers.SaleApply(promoService, logg))
			r.Post("/remove", controllers.SaleRemove(promoService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(orderService, logg))
			r.Post("/", controllers.Checkout(orderService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(orderService, logg))
			r.Patch("/{orderId}/status", controllers.OrderUpdateStatus(orderService, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.CustomerList(customerService, logg))
			r.Post("/", controllers.CustomerCreate(customerService, logg))
			r.Get("/{customerId}", controllers.CustomerDetail(customerService, logg))
			r.Patch("/{customerId}", controllers.CustomerUpdate(customerService, logg))
			r.Delete("/{customerId}", controllers.CustomerDelete(customerService, logg))
			r.Get("/{customerId}/insights", controllers.CustomerInsights(customerService, logg))
		})

		r.Delete("/reviews/{reviewId}", controllers.ReviewDelete(reviewService, logg))
	})

	return r
}
