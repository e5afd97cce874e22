// Package middlewares provides the HTTP middleware used by the hireloop
// server.
//
// A typical stack, outermost first:
//
//	app := hireloop.New(
//		hireloop.WithLogger(log),
//		hireloop.WithMiddleware(
//			middlewares.RequestID(),
//			middlewares.ClientIP(),
//			middlewares.RequestLogger(),
//			middlewares.Recover(),
//			middlewares.CORS(middlewares.WithReflectOrigin(), middlewares.WithAllowCredentials()),
//			middlewares.I18n(translations),
//		),
//	)
//
// Pass [RequestIDExtractor] and [ClientIPExtractor] to logger.New so every
// record carries request_id and client_ip.
//
// [Recover] returns a [*PanicError] and [BearerAuth] an unauthorized
// HTTPError; both are rendered by the application's error handler.
package middlewares
