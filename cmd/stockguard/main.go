package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/andresuchdata/stockguard/internal/app"
	"github.com/andresuchdata/stockguard/internal/config"
	"github.com/andresuchdata/stockguard/internal/snapshot"
	"github.com/andresuchdata/stockguard/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type contextKey string

const dbKey contextKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func snapshotFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "source",
			Usage:   "Snapshot source: dir, sample, s3, drive or postgres",
			EnvVars: []string{"SNAPSHOT_SOURCE"},
		},
		&cli.StringFlag{
			Name:    "data-dir",
			Usage:   "Directory containing snapshot tables",
			EnvVars: []string{"SNAPSHOT_DATA_DIR"},
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print results as JSON",
		},
	}
}

func initDB(c *cli.Context) error {
	// Initialize database connection
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(c.Context); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Store the database connection in the context
	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	// Close the database connection when done
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

// loadSnapshot loads a snapshot from the configured source, with command
// line flags taking precedence over the environment.
func loadSnapshot(c *cli.Context) (*snapshot.Snapshot, error) {
	cfg := *config.Load()
	if src := c.String("source"); src != "" {
		cfg.Snapshot.Source = src
	}
	if dir := c.String("data-dir"); dir != "" {
		cfg.Snapshot.DataDir = dir
	}

	source, err := app.NewSnapshotSource(c.Context, &cfg)
	if err != nil {
		return nil, err
	}
	snap, err := source.Load(c.Context)
	if err != nil {
		return nil, fmt.Errorf("load snapshot from %s: %w", source.Name(), err)
	}
	return snap, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		logger.Log.Warn().Err(err).Msg("could not load .env file")
	}
	logger.SetLevel(os.Getenv("LOG_LEVEL"))

	cliApp := &cli.App{
		Name:  "stockguard",
		Usage: "Inspect stock forecasts and rebalancing plans, and manage snapshot data",
		Commands: []*cli.Command{
			{
				Name:   "forecast",
				Usage:  "Predict stock-out dates for a store's product lines",
				Flags:  append(snapshotFlags(), &cli.StringFlag{Name: "store", Usage: "Store ID", Required: true}),
				Action: runForecast,
			},
			{
				Name:   "rebalance",
				Usage:  "List store-to-store transfer suggestions",
				Flags:  append(snapshotFlags(), &cli.IntFlag{Name: "limit", Usage: "Maximum suggestions to print", Value: 10}),
				Action: runRebalance,
			},
			{
				Name:   "orders",
				Usage:  "List warehouse replenishment orders",
				Flags:  append(snapshotFlags(), &cli.IntFlag{Name: "limit", Usage: "Maximum orders to print", Value: 10}),
				Action: runOrders,
			},
			{
				Name:  "sample",
				Usage: "Write the generated sample data set as CSV tables",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "out",
						Usage: "Output directory",
						Value: "./data",
					},
					&cli.Uint64Flag{
						Name:  "seed",
						Usage: "Random seed",
						Value: 42,
					},
					&cli.BoolFlag{
						Name:  "upload",
						Usage: "Also upload the tables to the configured S3 bucket",
					},
				},
				Action: runSample,
			},
			{
				Name:  "seed",
				Usage: "Load snapshot tables from a directory into PostgreSQL",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "data-dir",
						Usage:   "Directory containing snapshot tables",
						Value:   "./data",
						EnvVars: []string{"SNAPSHOT_DATA_DIR"},
					},
					&cli.BoolFlag{
						Name:  "fallback",
						Usage: "Fill missing tables with sample data",
						Value: true,
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: runSeed,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("stockguard failed")
	}
}
