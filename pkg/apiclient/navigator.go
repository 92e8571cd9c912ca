package apiclient

import (
	"context"
	"log/slog"
)

// Navigator sends the user somewhere else, typically the login page after
// the session expired.
type Navigator interface {
	Navigate(ctx context.Context, path string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, path string) error

// Navigate implements Navigator.
func (f NavigatorFunc) Navigate(ctx context.Context, path string) error {
	return f(ctx, path)
}

// logNavigator is used when no Navigator is configured.
type logNavigator struct {
	logger *slog.Logger
}

func (n logNavigator) Navigate(ctx context.Context, path string) error {
	n.logger.WarnContext(ctx, "navigation requested but no navigator configured",
		slog.String("path", path))
	return nil
}
