package app

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/guilhermeoliveira05/Leading-Page-MFG/internal/cart"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/config"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/db"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/logger"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/migrate"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/redis"
)

// Backend is the cart storage selected by MFG_CART_STORAGE together with the
// clients it owns.
type Backend struct {
	Storage cart.Storage

	closers []func() error
}

// Close releases every client opened for the backend.
func (b *Backend) Close() error {
	var err error
	for i := len(b.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, b.closers[i]())
	}
	b.closers = nil
	return err
}

// OpenStorage connects the configured cart storage backend. The sql backend
// applies pending migrations when MFG_DB_AUTO_MIGRATE is set.
func OpenStorage(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*Backend, error) {
	b := &Backend{}
	ctx = logg.WithField(ctx, "storage", cfg.Cart.Storage)

	switch cfg.Cart.Storage {
	case config.StorageMemory:
		b.Storage = cart.NewMemoryStorage()

	case config.StorageRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap redis: %w", err)
		}
		b.closers = append(b.closers, client.Close)
		b.Storage = cart.NewRedisStorage(client, cfg.Cart.RedisTTL)

	case config.StorageSQL:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap database: %w", err)
		}
		b.closers = append(b.closers, client.Close)
		if err := migrate.MaybeAutoRun(ctx, cfg, logg, client); err != nil {
			return nil, multierr.Append(fmt.Errorf("auto migrate: %w", err), b.Close())
		}
		b.Storage = cart.NewSQLStorage(client.DB())

	default:
		return nil, fmt.Errorf("unsupported cart storage %q", cfg.Cart.Storage)
	}

	logg.Info(ctx, "cart storage ready")
	return b, nil
}
