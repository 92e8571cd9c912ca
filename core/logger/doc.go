// Package logger builds slog loggers and provides attribute helpers with
// consistent key names.
//
//	log := logger.New(logger.WithDevelopment("guardctl"))
//
//	log.Warn("secure storage write failed",
//		logger.Component("securestorage"),
//		logger.StorageKey("auth_token"),
//		logger.Error(err),
//	)
//
// Helpers return an empty slog.Attr for nil or empty input. slog skips empty
// attributes, so helpers can be passed unconditionally.
//
// Components in this module accept a *slog.Logger option and default to Nop.
package logger
