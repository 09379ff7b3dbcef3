// Package status implements the status command, which summarizes the
// archival state of every queue in a table.
package status

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/reddit-archiver/internal/config"
	"github.com/jonesrussell/reddit-archiver/internal/database"
	"github.com/jonesrussell/reddit-archiver/internal/domain"
)

// Command returns the status command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show per-queue archival status counts",
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

	repo := database.NewQueueRepository(db)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Queue", "Pending", "Success", "Failed", "Not Media", "Recheck"})

	for _, q := range domain.Queues() {
		counts, err := repo.CountByStatus(cmd.Context(), q)
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{
			q.Table,
			counts[domain.StatusPending],
			counts[domain.StatusSuccess],
			counts[domain.StatusFailed],
			counts[domain.StatusNotMedia],
			counts[domain.StatusRecheck],
		})
	}

	t.Render()
	return nil
}
