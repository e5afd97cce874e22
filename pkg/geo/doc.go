// Package geo resolves the visitor's country.
//
// A [Resolver] runs a fixed chain and stops at the first success:
//
//  1. [StoredStrategy] reads the record kept by a [Store] (no network).
//  2. [IPStrategy] asks [IPProvider]s in order, each bounded by a 5s timeout.
//  3. [BrowserStrategy] asks a [Positioner] for coordinates and reverse
//     geocodes them with a [ReverseGeocoder].
//  4. The registry default with low confidence.
//
// Network results are persisted; user selections made with
// [Resolver.SetUserCountry] are persisted as overrides and never expire.
// No step returns an error to the caller: provider and storage failures are
// logged and the chain moves on.
//
//	store := geo.NewStore(kv.NewMemory())
//	resolver := geo.NewResolver(registry, store,
//		geo.WithIPStrategy(geo.NewIPStrategy(registry, []geo.IPProvider{geo.NewIPAPI(), geo.NewIPAPICo()})),
//		geo.WithBrowserStrategy(geo.NewBrowserStrategy(registry, positioner, geo.NewNominatim())),
//	)
//	first := resolver.Initial(ctx)        // immediate, stored or default
//	best := resolver.Resolve(ctx, false)  // may hit the network
//
// Server side, attach the visitor address with [WithClientIP] so providers
// locate the visitor instead of the server.
package geo
