// Package redis connects to Redis and provides a securestorage.Store backed
// by it, so obfuscated tokens can be shared between processes.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	store, err := redis.NewStoreFromConfig(client, cfg, redis.WithTTL(24*time.Hour))
//	if err != nil {
//		return err
//	}
//	vault := securestorage.New(store, securestorage.EnvKey("GUARD_STORAGE_KEY"))
//
// Connect accepts redis:// and rediss:// URLs, retries the initial ping with
// a growing delay and fails with ErrRedisNotReady when the server never
// answers. Healthcheck wraps a ping for readiness checks.
//
// Store keeps each item as a plain string key under a shared prefix. Clear
// walks the prefix with SCAN and deletes page by page, so other data in the
// same database is untouched. Items larger than the configured limit and
// writes refused by the server with an OOM error report
// securestorage.ErrQuotaExceeded.
package redis
