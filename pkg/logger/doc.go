// Package logger builds the application's slog loggers.
//
// [New] writes JSON to stdout by default; LOG_FORMAT=text switches to a
// colored handler for local development. Request-scoped values such as the
// request ID are added by [ContextExtractor]s on every record:
//
//	log := logger.New(cfg.Log, middlewares.RequestIDExtractor(), middlewares.ClientIPExtractor())
//	log.InfoContext(ctx, "location detected", slog.String("country", "DE"))
//	// {"level":"INFO","msg":"location detected","country":"DE","request_id":"..."}
//
// When SENTRY_DSN is set, errors additionally become Sentry events and
// warnings are kept as Sentry logs. Register [Flush] as a shutdown hook so
// buffered events are delivered before exit.
//
// Library packages accept a *slog.Logger through options and default to
// [NewNope].
package logger
