package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/ibflex/config"
	"github.com/alejandrodnm/ibflex/internal/adapters/flexquery"
)

// version se sobreescribe en build con -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		var svcErr *flexquery.ServiceError
		switch {
		case errors.Is(err, config.ErrMissingCredentials):
			slog.Error("missing credentials", "err", err)
		case errors.As(err, &svcErr):
			slog.Error("flex service rejected the request", "code", svcErr.Code, "message", svcErr.Message)
		case errors.Is(err, context.Canceled):
			slog.Warn("interrupted")
		default:
			slog.Error("command failed", "err", err)
		}
		cancel()
		os.Exit(1)
	}
}
