// Package archive implements the archive command, which processes the
// pending entries of the export queues.
package archive

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	internalarchive "github.com/jonesrussell/reddit-archiver/internal/archive"
	"github.com/jonesrussell/reddit-archiver/internal/config"
	"github.com/jonesrussell/reddit-archiver/internal/database"
	"github.com/jonesrussell/reddit-archiver/internal/domain"
	"github.com/jonesrussell/reddit-archiver/internal/fetch"
	"github.com/jonesrussell/reddit-archiver/internal/imgur"
	"github.com/jonesrussell/reddit-archiver/internal/logger"
	"github.com/jonesrussell/reddit-archiver/internal/media"
	"github.com/jonesrussell/reddit-archiver/internal/reddit"
)

// Command returns the archive command.
func Command() *cobra.Command {
	var recheck bool

	cmd := &cobra.Command{
		Use:   "archive [saved|upvoted]",
		Short: "Archive pending posts from the export queues",
		Long: `Archive processes every pending entry of the export queues: it fetches
the post from the reddit API, classifies its link, downloads the media and
records the outcome. Without an argument both queues are processed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, recheck)
		},
	}

	cmd.Flags().BoolVar(&recheck, "recheck", false,
		"re-enqueue entries previously marked needs-recheck")

	return cmd
}

func run(cmd *cobra.Command, args []string, recheck bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The error table must exist even on a freshly imported database.
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	files := fetch.NewClient(cfg.Fetch.Timeout, log)
	videos := fetch.NewExtractor(cfg.Extractor.Binary, log)
	saver := media.NewSaver(files, videos, log)
	imgurClient := imgur.NewClient(cfg.Imgur.ClientID, files, log)
	fetcher := reddit.NewClient(cfg.Reddit, cfg.Fetch.Timeout, log)

	resolver := internalarchive.NewResolver(fetcher, saver, imgurClient, cfg.DataDir, log)
	archiver := internalarchive.NewArchiver(
		database.NewQueueRepository(db),
		database.NewErrorRepository(db),
		resolver,
		recheck,
		log,
	)

	if len(args) == 0 {
		return archiver.RunAll(ctx)
	}

	queue, ok := domain.QueueByName(args[0])
	if !ok {
		return fmt.Errorf("unknown queue %q (expected saved or upvoted)", args[0])
	}
	return archiver.Run(ctx, queue)
}
