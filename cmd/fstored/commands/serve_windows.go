//go:build windows

package commands

import (
	"context"
	"os"
	"os/signal"

	"github.com/fstorehq/fstore/internal/logger"
	"github.com/fstorehq/fstore/internal/objectstore"
)

// waitForSignal blocks until an interrupt requests a graceful shutdown.
// Windows has no SIGUSR1/SIGUSR2 equivalent, so check()/archive() can only
// be triggered programmatically on this platform, not via signal.
func waitForSignal(ctx context.Context, store *objectstore.ObjectStore) error {
	_ = store
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
	case <-sigCh:
		logger.Info("received shutdown signal", logger.Component("cmd"))
	}
	return nil
}
