// Package health serves liveness and readiness probes.
//
// Readiness runs named [Checks] concurrently under a shared timeout. The
// location store backends expose compatible checks:
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//		"store": kv.Healthcheck(backend),
//	}, health.WithLogger(log)))
//
// Responses are plain text ("OK" / "Service Unavailable") unless the client
// asks for JSON with an Accept header or ?format=json.
package health
