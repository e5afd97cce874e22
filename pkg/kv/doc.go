// Package kv provides the byte-oriented key-value backends behind the
// location store.
//
// Four implementations share the [Backend] interface:
//
//   - [Memory] keeps values in a process-local map.
//   - [File] writes one file per key with an atomic rename.
//   - [Redis] stores values in Redis under an optional prefix; connect with [OpenRedis].
//   - [Cookie] keeps values in HMAC-signed cookies of a single HTTP exchange.
//
// Backends never expire values. Callers that need expiry store a timestamp
// with the value and check it on read.
//
//	client, err := kv.OpenRedis(ctx, cfg.Redis)
//	if err != nil {
//		return err
//	}
//	backend := kv.NewRedis(client, kv.WithPrefix(cfg.Redis.Prefix))
//
// [Healthcheck] adapts any backend into a readiness probe.
package kv
