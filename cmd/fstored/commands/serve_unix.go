//go:build !windows

package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fstorehq/fstore/internal/logger"
	"github.com/fstorehq/fstore/internal/objectstore"
)

// waitForSignal blocks until SIGINT/SIGTERM requests a graceful shutdown.
// SIGUSR1 triggers a check() run and SIGUSR2 triggers an archive() run,
// each fired off in the background so the signal handler never blocks.
func waitForSignal(ctx context.Context, store *objectstore.ObjectStore) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1, syscall.SIGUSR2)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGUSR1:
				logger.Info("received SIGUSR1, starting check()", logger.Component("cmd"))
				triggerCheck(store)
			case syscall.SIGUSR2:
				logger.Info("received SIGUSR2, starting archive()", logger.Component("cmd"))
				triggerArchive(store)
			default:
				logger.Info("received shutdown signal", logger.Component("cmd"))
				return nil
			}
		}
	}
}
