// Package migrate implements the migrate command, which creates the
// archiver's tables in the export database.
package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/reddit-archiver/internal/config"
	"github.com/jonesrussell/reddit-archiver/internal/database"
)

// Command returns the migrate command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the queue and error tables if they do not exist",
		RunE:  run,
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(cmd.Context(), db); err != nil {
		return err
	}

	fmt.Println("Migration completed successfully")
	return nil
}
