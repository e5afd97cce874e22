// Package hireloop is the HTTP layer of the HireLoop classifieds demo: a
// thin runtime over chi on which the API handlers, middleware and
// location services are assembled.
//
// The location pipeline itself lives in reusable packages:
//
//   - pkg/country: the supported-country registry
//   - pkg/geo: storage, detection strategies and the resolver
//   - pkg/localization: the per-visitor facade with bound formatters
//   - pkg/i18n: translations and locale-aware formatting
//
// The server is started by cmd/hireloop:
//
//	app := hireloop.New(
//		hireloop.WithLogger(log),
//		hireloop.WithErrorHandler(handlers.ErrorHandler),
//		hireloop.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//		hireloop.WithHandlers(handlers.NewLocation(svc)),
//		hireloop.WithHealthChecks(hireloop.WithReadinessCheck("store", kv.Healthcheck(backend))),
//	)
//	if err := app.Run(":8080"); err != nil {
//		log.Error("server failed", "error", err)
//	}
package hireloop
