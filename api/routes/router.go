package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/guilhermeoliveira05/Leading-Page-MFG/api/controllers"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/api/middleware"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/internal/cart"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/internal/catalog"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/internal/storefront"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/config"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/logger"
)

// Deps carries everything the router hands to controllers.
type Deps struct {
	Registry *cart.Registry
	Sessions *storefront.Sessions
	Catalog  *catalog.Catalog
	Renderer *storefront.Renderer
	// Gatherer backs /metrics; nil serves the default registry.
	Gatherer prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	if logg == nil {
		logg = logger.Nop()
	}
	if deps.Catalog == nil {
		deps.Catalog = catalog.Empty()
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.HTTP.CORSOrigins),
	)

	var storage controllers.Pinger
	if deps.Registry != nil {
		storage = deps.Registry
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, storage))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ProductsList(deps.Catalog))

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.Session(middleware.SessionOptions{
				Secure: cfg.HTTP.SecureCookies,
				MaxAge: cfg.HTTP.SessionMaxAge,
			}, logg))

			r.Get("/", controllers.CartFetch(deps.Registry, deps.Sessions, logg))
			r.Delete("/", controllers.CartClear(deps.Registry, deps.Sessions, logg))
			r.Post("/items", controllers.CartAddItem(deps.Registry, deps.Sessions, deps.Catalog, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateItem(deps.Registry, deps.Sessions, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(deps.Registry, deps.Sessions, logg))
			r.Get("/view", controllers.CartView(deps.Registry, deps.Renderer, cfg.Cart.WhatsAppPhone, logg))
			r.Get("/toasts", controllers.CartToasts(deps.Sessions, logg))
			r.Post("/checkout", controllers.CartCheckout(deps.Registry, cfg.Cart.WhatsAppPhone, logg))
		})
	})

	return r
}
