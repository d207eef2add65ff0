package commands

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/guilhermeoliveira05/Leading-Page-MFG/internal/app"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/internal/cart"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/internal/catalog"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/config"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/logger"
)

// runtime is what every subcommand works against.
type runtime struct {
	cfg     *config.Config
	storage cart.Storage
	catalog *catalog.Catalog
	close   func() error
}

type loader func(ctx context.Context) (*runtime, error)

func loadRuntime(ctx context.Context) (*runtime, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := requirePersistentStorage(cfg); err != nil {
		return nil, err
	}
	logg := logger.New(logger.Options{
		ServiceName: "cartctl",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      "console",
	})

	backend, err := app.OpenStorage(ctx, cfg, logg)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Load(cfg.Cart.CatalogPath)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	return &runtime{cfg: cfg, storage: backend.Storage, catalog: cat, close: backend.Close}, nil
}

// requirePersistentStorage refuses the in-process backend: each cartctl run
// would start from an empty cart and drop its edits on exit.
func requirePersistentStorage(cfg *config.Config) error {
	if cfg.Cart.Storage == config.StorageMemory {
		return fmt.Errorf("cartctl needs a persistent cart storage: set %s to %s or %s",
			config.EnvCartStorage, config.StorageRedis, config.StorageSQL)
	}
	return nil
}

func Execute() error {
	return execute(loadRuntime, func(root *cobra.Command) error { return root.Execute() })
}

// execute runs the root command and closes the loaded runtime whatever the
// command returned.
func execute(load loader, run func(root *cobra.Command) error) (err error) {
	var rt *runtime
	tracked := func(ctx context.Context) (*runtime, error) {
		loaded, err := load(ctx)
		rt = loaded
		return loaded, err
	}
	defer func() {
		if rt != nil && rt.close != nil {
			err = multierr.Append(err, rt.close())
		}
	}()
	return run(newRootCmd(tracked))
}

func newRootCmd(load loader) *cobra.Command {
	var (
		session string
		rt      *runtime
	)

	root := &cobra.Command{
		Use:          "cartctl",
		Short:        "Inspect and edit storefront carts",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := load(cmd.Context())
			if err != nil {
				return err
			}
			rt = loaded
			return nil
		},
	}
	root.PersistentFlags().StringVar(&session, "session", "", "session id (empty addresses the bare namespace key)")

	openStore := func(ctx context.Context) (*cart.Store, error) {
		if rt == nil {
			return nil, fmt.Errorf("runtime not loaded")
		}
		return cart.NewStore(ctx, cart.StoreParams{
			Key:         cart.StorageKey(rt.cfg.Cart.Namespace, session),
			Storage:     rt.storage,
			LinkBaseURL: rt.cfg.Cart.WhatsAppBaseURL,
		})
	}
	currentRuntime := func() *runtime { return rt }

	root.AddCommand(
		showCmd(openStore),
		addCmd(openStore, currentRuntime),
		removeCmd(openStore),
		qtyCmd(openStore),
		clearCmd(openStore),
		checkoutCmd(openStore, currentRuntime),
	)
	return root
}
