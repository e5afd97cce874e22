package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/hireloop"
	"github.com/dmitrymomot/hireloop/handlers"
	"github.com/dmitrymomot/hireloop/locales"
	"github.com/dmitrymomot/hireloop/middlewares"
	"github.com/dmitrymomot/hireloop/pkg/cache"
	"github.com/dmitrymomot/hireloop/pkg/catalog"
	"github.com/dmitrymomot/hireloop/pkg/geo"
	"github.com/dmitrymomot/hireloop/pkg/i18n"
	"github.com/dmitrymomot/hireloop/pkg/kv"
	"github.com/dmitrymomot/hireloop/pkg/logger"
	"github.com/dmitrymomot/hireloop/pkg/pages"
)

func newServeCmd(app *cli) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				app.cfg.Addr = addr
			}
			return app.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default $HTTP_ADDR)")
	return cmd
}

func (a *cli) serve(ctx context.Context) error {
	cfg := a.cfg
	log := logger.New(cfg.Log, middlewares.RequestIDExtractor(), middlewares.ClientIPExtractor())

	secret, generated, err := cfg.cookieSecret()
	if err != nil {
		return err
	}
	if generated {
		log.Warn("COOKIE_SECRET is not set, location cookies will not survive a restart")
	}

	cat, err := catalog.New()
	if err != nil {
		return err
	}
	library, err := pages.New()
	if err != nil {
		return err
	}
	translations, err := i18n.New(
		i18n.WithYAMLDir(locales.FS),
		i18n.WithLanguages(i18n.SupportedLanguages...),
	)
	if err != nil {
		return err
	}

	var (
		client     redis.UniversalClient
		lookups    cache.Cache[geo.Location]
		healthOpts []hireloop.HealthOption
		closeHooks []hireloop.RunOption
	)
	backend := handlers.CookieBackend(
		kv.WithCookieSecret(secret),
		kv.WithCookieEncryption(),
		kv.WithCookieSecure(cfg.CookieSecure),
	)
	if cfg.Redis.URL != "" {
		if client, err = kv.OpenRedis(ctx, cfg.Redis); err != nil {
			return err
		}
		backend = redisVisitors(client, cfg.Redis.Prefix)
		lookups = cache.NewRedis[geo.Location](client, nil, cache.WithPrefix(redisKey(cfg.Redis.Prefix, "lookup")))
		healthOpts = append(healthOpts, hireloop.WithReadinessCheck("redis", kv.Healthcheck(kv.NewRedis(client))))
		closeHooks = append(closeHooks, hireloop.ShutdownHook(func(context.Context) error { return client.Close() }))
	}

	ip, closeProviders, err := a.ipStrategy(lookups)
	if err != nil {
		if client != nil {
			_ = client.Close()
		}
		return err
	}

	runOpts := append([]hireloop.RunOption{
		hireloop.Logger(log),
		hireloop.ShutdownTimeout(cfg.ShutdownTimeout),
		hireloop.ShutdownHook(func(context.Context) error { return closeProviders() }),
		hireloop.ShutdownHook(logger.Flush(2 * time.Second)),
	}, closeHooks...)

	corsOpts := []middlewares.CORSOption{middlewares.WithAllowCredentials()}
	if len(cfg.CORSOrigins) > 0 {
		corsOpts = append(corsOpts, middlewares.WithAllowOrigins(cfg.CORSOrigins...))
	} else {
		corsOpts = append(corsOpts, middlewares.WithReflectOrigin())
	}

	app := hireloop.New(
		hireloop.WithLogger(log),
		hireloop.WithErrorHandler(handlers.ErrorHandler),
		hireloop.WithNotFoundHandler(handlers.NotFound),
		hireloop.WithMethodNotAllowedHandler(handlers.MethodNotAllowed),
		hireloop.WithMiddleware(
			middlewares.RequestID(),
			middlewares.ClientIP(middlewares.WithTrustForwarded(cfg.TrustProxy)),
			middlewares.RequestLogger(middlewares.WithRequestLoggerSkip(isHealthProbe)),
			middlewares.Recover(),
			middlewares.CORS(corsOpts...),
			middlewares.I18n(translations),
		),
		hireloop.WithHealthChecks(healthOpts...),
		hireloop.WithHandlers(
			handlers.NewSystem(),
			handlers.NewListings(cat),
			handlers.NewAuth(cat),
			handlers.NewLocation(a.registry,
				handlers.WithIPStrategy(ip),
				handlers.WithGeocoder(cfg.Geo.Geocoder(&http.Client{Timeout: cfg.Geo.ProviderTimeout})),
				handlers.WithBackend(backend),
				handlers.WithStoreOptions(geo.WithTTL(cfg.Geo.StoreTTL)),
				handlers.WithLocationLogger(log),
			),
			handlers.NewCountries(a.registry),
			handlers.NewPages(library),
		),
	)

	log.Info("starting server", "addr", cfg.Addr, "redis", cfg.Redis.URL != "")
	if err := app.Run(cfg.Addr, append(runOpts, hireloop.WithContext(ctx))...); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// redisVisitors stores each visitor's record under {prefix}:visitor:{id}.
func redisVisitors(client redis.UniversalClient, prefix string) handlers.BackendFunc {
	return handlers.VisitorBackend(func(id string) kv.Backend {
		return kv.NewRedis(client, kv.WithPrefix(redisKey(prefix, "visitor:"+id)))
	})
}

func redisKey(prefix, key string) string {
	return strings.TrimPrefix(prefix+":"+key, ":")
}

func isHealthProbe(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/health/")
}
