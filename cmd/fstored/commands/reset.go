package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fstorehq/fstore/internal/cli/prompt"
	"github.com/fstorehq/fstore/internal/objectstore"
	"github.com/fstorehq/fstore/pkg/config"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Re-apply every migration",
	Long: `Reset re-runs every migration under database.sql_directory, the same files
migrate applies. It does not drop existing tables or rows first; what happens
to existing catalog rows depends on the migration files themselves.

Examples:
  fstored reset --force`,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "Skip the confirmation prompt")
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}
	if err := InitLogger(cfg); err != nil {
		return err
	}

	if !resetForce {
		confirmed, err := prompt.ConfirmDanger("This will reset the catalog schema", "yes")
		if err != nil {
			if prompt.IsAborted(err) {
				fmt.Println("Aborted")
				return nil
			}
			return fmt.Errorf("reset: %w", err)
		}
		if !confirmed {
			fmt.Println("Aborted")
			return nil
		}
	}

	ctx := context.Background()
	store, err := objectstore.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	defer store.Shutdown()

	if err := store.Reset(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	fmt.Println("Schema reset completed successfully")
	return nil
}
