package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/hireloop/pkg/cache"
	"github.com/dmitrymomot/hireloop/pkg/country"
	"github.com/dmitrymomot/hireloop/pkg/geo"
	"github.com/dmitrymomot/hireloop/pkg/kv"
	"github.com/dmitrymomot/hireloop/pkg/logger"
)

// cli carries what every subcommand needs once the environment is loaded.
type cli struct {
	cfg      Config
	log      *slog.Logger
	registry *country.Registry
}

func newRootCmd() *cobra.Command {
	app := &cli{}
	var dataDir string

	root := &cobra.Command{
		Use:          "hireloop",
		Short:        "HireLoop marketplace API and location tools",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if dataDir != "" {
				cfg.DataDir = dataDir
			}
			app.cfg = cfg
			// Subcommand output goes to stdout; logs stay on stderr.
			app.log = logger.NewWithWriter(os.Stderr, cfg.Log)
			app.registry = country.Builtin()
			return nil
		},
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "location store directory (default $HIRELOOP_DATA_DIR or the user config dir)")

	root.AddCommand(
		newServeCmd(app),
		newLocateCmd(app),
		newCountryCmd(app),
		newFormatCmd(app),
	)
	return root
}

// store opens the CLI location store: Redis when REDIS_URL is set,
// otherwise a file under the data directory. The returned function
// releases the backend.
func (a *cli) store(ctx context.Context) (*geo.Store, func() error, error) {
	opts := []geo.StoreOption{
		geo.WithRegistry(a.registry),
		geo.WithTTL(a.cfg.Geo.StoreTTL),
		geo.WithStoreLogger(a.log),
	}

	if a.cfg.Redis.URL != "" {
		client, err := kv.OpenRedis(ctx, a.cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		backend := kv.NewRedis(client, kv.WithPrefix(a.cfg.Redis.Prefix))
		return geo.NewStore(backend, opts...), client.Close, nil
	}

	dir, err := a.cfg.dataDir()
	if err != nil {
		return nil, nil, err
	}
	return geo.NewStore(kv.NewFile(dir), opts...), func() error { return nil }, nil
}

// ipStrategy builds the provider chain from the geo configuration. A nil
// lookups cache means an in-process one.
func (a *cli) ipStrategy(lookups cache.Cache[geo.Location]) (*geo.IPStrategy, func() error, error) {
	client := &http.Client{Timeout: a.cfg.Geo.ProviderTimeout}
	providers, closeFn, err := a.cfg.Geo.IPProviders(client, lookups)
	if err != nil {
		return nil, nil, err
	}
	s := geo.NewIPStrategy(a.registry, providers,
		geo.WithProviderTimeout(a.cfg.Geo.ProviderTimeout),
		geo.WithIPLogger(a.log),
	)
	return s, closeFn, nil
}

// session opens the store and a resolver over it and runs fn.
func (a *cli) session(ctx context.Context, fn func(*geo.Resolver) error, opts ...geo.ResolverOption) (err error) {
	store, closeStore, err := a.store(ctx)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, closeStore()) }()

	resolver := geo.NewResolver(a.registry, store, append([]geo.ResolverOption{geo.WithLogger(a.log)}, opts...)...)
	return fn(resolver)
}
