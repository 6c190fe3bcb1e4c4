package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/batch-image-processor/internal/batch"
	"github.com/aliskhannn/batch-image-processor/internal/config"
	"github.com/aliskhannn/batch-image-processor/internal/executor"
	"github.com/aliskhannn/batch-image-processor/internal/format"
	"github.com/aliskhannn/batch-image-processor/internal/report"
	"github.com/aliskhannn/batch-image-processor/internal/scan"
	filestorage "github.com/aliskhannn/batch-image-processor/internal/storage/file"
	miniostorage "github.com/aliskhannn/batch-image-processor/internal/storage/minio"
)

// fileStorage is the storage contract the executor consumes; both
// backends satisfy it.
type fileStorage interface {
	Save(ctx context.Context, path string, src io.Reader) (string, error)
	Load(ctx context.Context, path string) (io.ReadCloser, error)
}

func main() {
	flags := pflag.CommandLine
	flags.StringP("input-dir", "i", "", "directory containing input images")
	flags.StringP("output-dir", "o", "", "directory for processed images")
	flags.String("reports-dir", "", "directory for batch reports")
	flags.String("resize", "", "resize dimensions as WIDTHxHEIGHT")
	flags.Float64("blur", 0, "gaussian blur radius (0 disables)")
	flags.Float64("sharpen", 0, "sharpen factor (1.0 is identity)")
	flags.Float64("contrast", 0, "contrast factor (1.0 is identity)")
	flags.Float64("brightness", 0, "brightness factor (1.0 is identity)")
	flags.Int("workers", 0, "number of parallel workers (default 1, sequential)")
	flags.String("format", "", "explicit output format (jpeg, png, bmp, tiff, webp)")
	pflag.Parse()

	// Context & signals: a full-batch abort is the only mid-batch control.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize logger and load application configuration.
	zlog.Init()
	cfg := config.MustLoad(flags)

	params := cfg.Transform.Params()
	if err := params.Validate(); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("invalid transform parameters")
	}

	override, err := cfg.OutputFormat()
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("invalid output format")
	}

	// Retry strategy for output saves.
	strategy := retry.Strategy{
		Attempts: cfg.Retry.Attempts,
		Delay:    cfg.Retry.Delay,
		Backoff:  cfg.Retry.Backoff,
	}

	// Select the output storage backend.
	var storage fileStorage
	switch cfg.Storage.Backend {
	case "", "file":
		storage = filestorage.NewStorage()
	case "minio":
		storage, err = miniostorage.NewStorage(
			ctx,
			cfg.Storage.Endpoint,
			cfg.Storage.AccessKey,
			cfg.Storage.SecretKey,
			cfg.Storage.BucketName,
			cfg.Storage.UseSSL,
		)
		if err != nil {
			zlog.Logger.Fatal().Err(err).Msg("failed to connect to storage")
		}
	default:
		zlog.Logger.Fatal().Msgf("unknown storage backend: %s", cfg.Storage.Backend)
	}

	jobs, err := scan.Jobs(cfg.InputDir, cfg.OutputDir, params, override)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to scan input directory")
	}
	if len(jobs) == 0 {
		zlog.Logger.Warn().Str("dir", cfg.InputDir).Msg("no supported images in input directory")
		os.Exit(1)
	}

	exec := executor.New(storage, format.NewCache(), strategy)
	coordinator := batch.NewCoordinator(exec, cfg.Workers)

	zlog.Logger.Info().
		Int("jobs", len(jobs)).
		Int("workers", cfg.Workers).
		Msg("starting batch")

	rep, err := coordinator.Run(ctx, jobs)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("batch aborted")
	}

	path, err := report.Write(cfg.ReportsDir, report.Document{
		Timestamp: time.Now(),
		Params:    params,
		Workers:   cfg.Workers,
		Report:    rep,
	})
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to write report")
	}

	// A batch with failures is still a completed run; only a
	// coordinator crash is a non-zero exit.
	zlog.Logger.Info().
		Int("processed", rep.Processed).
		Int("errors", rep.Errors).
		Dur("total_time", rep.TotalTime).
		Dur("avg_per_image", rep.AveragePerImage).
		Str("report", path).
		Msg("batch complete")
}
