package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/simpleshop/storefront-core/api/controllers"
	"github.com/simpleshop/storefront-core/api/middleware"
	"github.com/simpleshop/storefront-core/internal/cart"
	"github.com/simpleshop/storefront-core/internal/pricing"
	"github.com/simpleshop/storefront-core/pkg/config"
	"github.com/simpleshop/storefront-core/pkg/logger"
	"github.com/simpleshop/storefront-core/pkg/metrics"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	CartStore     *cart.Store
	Calculator    pricing.Calculator
	Coordinator   controllers.Submitter
	Orders        controllers.OrderFetcher
	Catalog       controllers.CatalogReader
	Auth          controllers.Authenticator
	StorePinger   controllers.Pinger
	HTTPMetrics   *metrics.HTTPMetrics
	MetricsHandle http.Handler
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(deps.Config.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.StorePinger, deps.Logger))
	})

	if deps.MetricsHandle == nil {
		deps.MetricsHandle = promhttp.Handler()
	}
	r.Handle("/metrics", deps.MetricsHandle)

	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", controllers.GetCart(deps.CartStore, deps.Calculator, deps.Logger))
		r.Delete("/", controllers.ClearCart(deps.CartStore, deps.Calculator, deps.Logger))
		r.Post("/items", controllers.AddCartItem(deps.CartStore, deps.Calculator, deps.Logger))
		r.Patch("/items/{productId}", controllers.SetCartItemQuantity(deps.CartStore, deps.Calculator, deps.Logger))
		r.Delete("/items/{productId}", controllers.RemoveCartItem(deps.CartStore, deps.Calculator, deps.Logger))
	})

	r.Post("/api/checkout", controllers.SubmitCheckout(deps.Coordinator, deps.Logger))
	r.Get("/api/orders/{orderId}", controllers.GetOrder(deps.Orders, deps.Logger))

	r.Get("/api/products", controllers.ListProducts(deps.Catalog, deps.Logger))
	r.Get("/api/products/{productId}", controllers.GetProduct(deps.Catalog, deps.Logger))
	r.Get("/api/categories", controllers.ListCategories(deps.Catalog, deps.Logger))

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", controllers.Login(deps.Auth, deps.Logger))
		r.Post("/signup", controllers.Signup(deps.Auth, deps.Logger))
	})

	return r
}
