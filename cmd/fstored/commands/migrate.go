package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fstorehq/fstore/internal/objectstore"
	"github.com/fstorehq/fstore/pkg/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: `Apply every .sql file under database.sql_directory, in lexical file-name
order. Applied files are not tracked: every file runs on each invocation.

Examples:
  fstored migrate
  fstored migrate --config /etc/fstore/fstore.yml`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
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
		return fmt.Errorf("migrate: %w", err)
	}
	defer store.Shutdown()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	fmt.Println("Migrations completed successfully")
	return nil
}
