package main

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/andresuchdata/stockguard/internal/repository/postgres"
	"github.com/andresuchdata/stockguard/internal/snapshot"
	"github.com/andresuchdata/stockguard/pkg/logger"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"
)

func runSeed(c *cli.Context) error {
	// Get database connection from context
	conn, ok := c.Context.Value(dbKey).(*sql.DB)
	if !ok || conn == nil {
		return fmt.Errorf("database connection not found in context")
	}
	db := postgres.Wrap(sqlx.NewDb(conn, "pgx"))

	dataDir := c.String("data-dir")
	tables, err := snapshot.NewDirSource(dataDir, c.Bool("fallback")).LoadTables(c.Context)
	if err != nil {
		return fmt.Errorf("failed to read tables from %s: %w", dataDir, err)
	}

	start := time.Now()
	if err := db.EnsureSchema(c.Context); err != nil {
		return err
	}
	if err := postgres.NewSnapshotRepository(db).SaveTables(c.Context, tables); err != nil {
		return fmt.Errorf("failed to seed snapshot tables: %w", err)
	}

	logger.Log.Info().
		Str("dir", dataDir).
		Int("stores", len(tables.Stores)).
		Int("products", len(tables.Products)).
		Int("sales", len(tables.Sales)).
		Dur("took", time.Since(start)).
		Msg("Database seeding completed successfully")
	return nil
}
