// Package handlers implements the demo JSON API and the informational pages.
//
// Each handler groups related routes and receives its dependencies through
// its constructor:
//
//	app := hireloop.New(
//		hireloop.WithErrorHandler(handlers.ErrorHandler),
//		hireloop.WithHandlers(
//			handlers.NewSystem(),
//			handlers.NewListings(cat),
//			handlers.NewLocation(registry,
//				handlers.WithIPStrategy(geo.NewIPStrategy(registry, providers)),
//				handlers.WithBackend(handlers.CookieBackend(
//					kv.WithCookieSecret(secret),
//					kv.WithCookieEncryption(),
//				)),
//			),
//		),
//	)
//
// Visitor location is kept in a cookie, so the API holds no per-visitor
// server state. Without WithBackend the cookie is signed with a random
// per-process secret. Stored records are checked against the registry
// before use.
package handlers
