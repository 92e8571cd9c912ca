// Package securestorage keeps small secrets such as session tokens in a
// persistent key-value store, lightly obfuscated so they are not readable at a
// glance.
//
// The obfuscation is a repeating-key XOR over UTF-16 code units followed by
// base64. It deters casual inspection only; anyone with access to the store
// and one known value can recover the key. Do not treat it as encryption.
//
//	store, err := securestorage.OpenFileStore(path)
//	if err != nil {
//		return err
//	}
//	vault := securestorage.New(store, securestorage.EnvKey("GUARD_STORAGE_KEY"))
//
//	if !vault.SetItem(ctx, "auth_token", token) {
//		// quota exceeded or backend unavailable; already logged
//	}
//	token, ok := vault.GetItem(ctx, "auth_token")
//
// Storage never returns errors. Failed writes report false, failed reads look
// like missing keys, and the cause is logged.
//
// Backends implement Store. MemoryStore and FileStore live here; a Redis
// backend is in integration/database/redis.
package securestorage
