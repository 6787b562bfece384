package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"yamdb-backend/internal/config"
	"yamdb-backend/internal/infrastructure/database"
	"yamdb-backend/internal/infrastructure/storage"
	"yamdb-backend/internal/loader"
	"yamdb-backend/pkg/logger"
)

type options struct {
	source  string
	format  string
	migrate bool
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "loaddata",
		Short: "Fill the YaMDb database from fixture files",
		Long: `loaddata reads category, genre, titles, genre_title, users, review and
comments fixtures (CSV or XLSX) from a local directory or an S3/MinIO bucket
and inserts them in dependency order. Rows that already exist are skipped.

Examples:
  loaddata --source static/data
  loaddata --source s3://fixtures/yamdb --format xlsx`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.source, "source", "s", "static/data", "Fixture directory or s3://bucket/prefix")
	cmd.Flags().StringVarP(&opts.format, "format", "f", string(loader.FormatCSV), "Fixture format: csv or xlsx")
	cmd.Flags().BoolVar(&opts.migrate, "migrate", true, "Apply the schema before loading")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")

	return cmd
}

func run(ctx context.Context, opts *options) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.New(os.Stdout, "loaddata", opts.verbose)

	format, err := loader.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	source, err := openSource(ctx, cfg, opts.source)
	if err != nil {
		return err
	}

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}
	db := database.NewPostgresDB(dbConfig)

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.Connect(connectCtx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if opts.migrate {
		if err := database.Migrate(ctx, db.Pool); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	log.Info().Str("source", fmt.Sprint(source)).Str("format", string(format)).Msg("loading fixtures")
	results := loader.New(db.Pool, source, format, log).Run(ctx)

	return summarize(log, results)
}

func openSource(ctx context.Context, cfg *config.Config, raw string) (loader.Source, error) {
	bucket, prefix, ok := loader.ParseBucketURL(raw)
	if !ok {
		return loader.DirSource(raw), nil
	}

	store, err := storage.NewMinIOStorage(ctx, cfg.MinIO, bucket, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket source: %w", err)
	}
	return store, nil
}

func summarize(log zerolog.Logger, results []loader.Result) error {
	var inserted int64
	for _, r := range results {
		inserted += r.Inserted
	}

	failed := loader.Failed(results)
	log.Info().
		Int("entities", len(results)).
		Int("failed", failed).
		Int64("inserted", inserted).
		Msg("load finished")

	if failed > 0 {
		return fmt.Errorf("%d of %d entities failed to load", failed, len(results))
	}
	return nil
}
