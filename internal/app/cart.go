package app

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/guilhermeoliveira05/Leading-Page-MFG/internal/cart"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/internal/notifications"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/internal/storefront"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/config"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/logger"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/metrics"
)

// NewCartRegistry wires per-session stores to storage, metrics and the
// storefront presentation state. Evicted stores take their session state
// with them.
func NewCartRegistry(cfg *config.Config, logg *logger.Logger, storage cart.Storage, reg prometheus.Registerer) (*cart.Registry, *storefront.Sessions, error) {
	sessions := storefront.NewSessions(notifications.Options{
		VisibleFor: cfg.Cart.ToastVisible,
		ExitFor:    cfg.Cart.ToastExit,
		Logger:     logg,
	})
	registry, err := cart.NewRegistry(cart.RegistryParams{
		Namespace:     cfg.Cart.Namespace,
		Storage:       storage,
		Metrics:       metrics.NewCartMetrics(reg),
		Logger:        logg,
		LinkBaseURL:   cfg.Cart.WhatsAppBaseURL,
		Collaborators: sessions.Collaborators,
		OnEvict:       sessions.Forget,
	})
	if err != nil {
		return nil, nil, err
	}
	return registry, sessions, nil
}
