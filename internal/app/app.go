// Package app wires configuration into the snapshot source, engine and
// persistence used by the server and the CLI.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/stockguard/internal/config"
	"github.com/andresuchdata/stockguard/internal/drive"
	"github.com/andresuchdata/stockguard/internal/engine"
	"github.com/andresuchdata/stockguard/internal/repository"
	"github.com/andresuchdata/stockguard/internal/repository/postgres"
	"github.com/andresuchdata/stockguard/internal/snapshot"
	"github.com/andresuchdata/stockguard/internal/storage"
	"github.com/andresuchdata/stockguard/pkg/logger"
)

const sampleSeed = 42

// Snapshot source kinds accepted by SNAPSHOT_SOURCE.
const (
	SourceDir      = "dir"
	SourceSample   = "sample"
	SourceS3       = "s3"
	SourceDrive    = "drive"
	SourcePostgres = "postgres"
)

// NewSnapshotSource builds the snapshot source selected by cfg.Snapshot.Source.
func NewSnapshotSource(ctx context.Context, cfg *config.Config) (snapshot.Source, error) {
	switch kind := strings.ToLower(strings.TrimSpace(cfg.Snapshot.Source)); kind {
	case SourceDir, "":
		return snapshot.NewDirSource(cfg.Snapshot.DataDir, true), nil

	case SourceSample:
		return &snapshot.SampleSource{Seed: sampleSeed, Clock: time.Now}, nil

	case SourceS3:
		client, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("s3 snapshot source: %w", err)
		}
		return &snapshot.ObjectSource{
			Client:      client,
			Prefix:      cfg.Storage.Prefix,
			DownloadDir: cfg.Snapshot.DownloadDir,
			Fallback:    true,
		}, nil

	case SourceDrive:
		if cfg.Drive.FolderID == "" {
			return nil, fmt.Errorf("drive snapshot source: GOOGLE_DRIVE_FOLDER_ID is required")
		}
		svc, err := drive.NewService(ctx, cfg.Drive.CredentialsJSON)
		if err != nil {
			return nil, fmt.Errorf("drive snapshot source: %w", err)
		}
		return &snapshot.DriveSource{
			Downloader:  drive.NewDownloader(svc),
			FolderID:    cfg.Drive.FolderID,
			DownloadDir: cfg.Snapshot.DownloadDir,
			Fallback:    true,
		}, nil

	case SourcePostgres:
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("postgres snapshot source: %w", err)
		}
		return &snapshot.StoreSource{Store: postgres.NewSnapshotRepository(db), Label: SourcePostgres}, nil

	default:
		return nil, fmt.Errorf("unknown snapshot source %q", kind)
	}
}

// EngineConfig maps engine settings onto engine.Config, keeping engine
// defaults for unset values.
func EngineConfig(cfg config.EngineConfig) engine.Config {
	ec := engine.DefaultConfig()
	if cfg.SafetyBuffer > 0 {
		ec.SafetyBuffer = cfg.SafetyBuffer
	}
	if cfg.MaxDistanceKm > 0 {
		ec.MaxDistanceKm = cfg.MaxDistanceKm
	}
	if cfg.ForecastHorizon > 0 {
		ec.Forecast.HorizonDays = cfg.ForecastHorizon
	}
	if cfg.MinHistory > 0 {
		ec.Forecast.MinHistory = cfg.MinHistory
	}
	if cfg.Workers > 0 {
		ec.Workers = cfg.Workers
	}
	return ec
}

// NewActionRepository stores accepted actions in PostgreSQL when the
// database is enabled and in memory otherwise.
func NewActionRepository(ctx context.Context, cfg *config.Config) (repository.ActionRepository, error) {
	if !cfg.Database.Enabled {
		logger.Log.Info().Msg("database disabled, keeping accepted actions in memory")
		return repository.NewMemoryActionRepository(), nil
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return postgres.NewActionRepository(db), nil
}
