package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fstorehq/fstore/internal/logger"
	"github.com/fstorehq/fstore/internal/objectstore"
	"github.com/fstorehq/fstore/pkg/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the object store as a supervised daemon",
	Long: `serve opens the catalog and blob filesystem and blocks, so it can be
run under a process supervisor. It exposes no network listener of its own;
other processes talk to the store as a library. While running, SIGUSR1
triggers check() and SIGUSR2 triggers archive() (Unix only). SIGINT/SIGTERM
trigger a graceful shutdown.

Examples:
  fstored serve
  fstored serve --config /etc/fstore/fstore.yml`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}
	if err := InitLogger(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := objectstore.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	defer store.Shutdown()

	if err := store.Prepare(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	logger.Info("fstore serving",
		logger.Component("cmd"), logger.Operation("serve"))
	logger.Info("configuration loaded", logger.Component("cmd"))
	fmt.Printf("Configuration source: %s\n", getConfigSource(GetConfigFile()))
	fmt.Println("fstore is running. Press Ctrl+C to stop.")

	return waitForSignal(ctx, store)
}

func triggerCheck(store *objectstore.ObjectStore) {
	ctx := context.Background()
	guard, done, err := store.Check(ctx)
	if err != nil {
		logger.Warn("check() trigger failed", logger.Err(err))
		return
	}
	go func() {
		err := <-done
		guard.Release()
		if err != nil {
			logger.Warn("check() run finished with error", logger.Err(err))
		} else {
			logger.Info("check() run finished", logger.Completed(guard.Completed()))
		}
	}()
}

func triggerArchive(store *objectstore.ObjectStore) {
	ctx := context.Background()
	guard, done, err := store.Archive(ctx)
	if err != nil {
		logger.Warn("archive() trigger failed", logger.Err(err))
		return
	}
	go func() {
		err := <-done
		guard.Release()
		if err != nil {
			logger.Warn("archive() run finished with error", logger.Err(err))
		} else {
			logger.Info("archive() run finished", logger.Completed(guard.Completed()))
		}
	}()
}
