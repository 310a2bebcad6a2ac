package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fstorehq/fstore/internal/objectstore"
	"github.com/fstorehq/fstore/pkg/config"
)

var restoreCmd = &cobra.Command{
	Use:   "restore <path>",
	Short: "Restore the catalog from a pg_dump archive",
	Long: `Restore loads a pg_dump archive previously produced by archive(), via
pg_restore --clean --if-exists.

Examples:
  fstored restore /var/backups/fstore/fstore.dump`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func runRestore(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}
	if err := InitLogger(cfg); err != nil {
		return err
	}

	ctx := context.Background()
	store, err := objectstore.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	defer store.Shutdown()

	if err := store.Restore(ctx, args[0]); err != nil {
		return fmt.Errorf("restore: %w", err)
	}

	fmt.Printf("Restored catalog from %s\n", args[0])
	return nil
}
