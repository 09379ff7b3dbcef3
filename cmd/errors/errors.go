// Package errors implements the errors command, which dumps the recorded
// archival errors for inspection.
package errors

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/reddit-archiver/internal/config"
	"github.com/jonesrussell/reddit-archiver/internal/database"
)

// Command returns the errors command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "errors",
		Short: "List recorded archival errors",
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

	records, err := database.NewErrorRepository(db).List(cmd.Context())
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Queue", "Error", "Link"})

	for _, rec := range records {
		t.AppendRow(table.Row{rec.ID, rec.Table, rec.Error, rec.Link})
	}

	t.Render()
	return nil
}
