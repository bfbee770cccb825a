// Package cmd hosts the shared process entrypoint: signal handling,
// bootstrap, application lifecycle, exit codes.
package cmd

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/graphenelabs/graphbot/core/bootstrap"
	"github.com/graphenelabs/graphbot/core/logger"
)

// App is the application lifecycle the runner drives.
type App interface {
	// Setup builds the application from bootstrap results (db, config).
	Setup(ctx context.Context, res *bootstrap.Result) error
	// Run blocks until ctx is cancelled or a fatal error occurs.
	Run(ctx context.Context) error
	// Close releases resources. Called even when Run returns an error.
	Close(ctx context.Context) error
}

// Run executes the full process lifecycle and returns an exit code.
func Run(opts bootstrap.Options, app App) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := bootstrap.Run(opts)
	if err != nil {
		// The logger may not be initialized at this point.
		log.Printf("bootstrap failed: %v", err)
		return 1
	}
	defer func() {
		if res.DB != nil {
			_ = res.DB.Close()
		}
		_ = logger.Shutdown()
	}()

	if err := app.Setup(ctx, res); err != nil {
		logger.Error(ctx, "app", "app.setup_failed",
			slog.String("err", err.Error()),
		)
		return 1
	}

	runErr := app.Run(ctx)

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Close(closeCtx); err != nil {
		logger.Warn(closeCtx, "app", "app.close_failed",
			slog.String("err", err.Error()),
		)
	}

	if runErr != nil && ctx.Err() == nil {
		logger.Error(context.Background(), "app", "app.run_failed",
			slog.String("err", runErr.Error()),
		)
		return 1
	}
	logger.Info(context.Background(), "app", "app.stopped")
	return 0
}

// Exit is a convenience wrapper calling os.Exit with Run's code.
func Exit(opts bootstrap.Options, app App) {
	os.Exit(Run(opts, app))
}
