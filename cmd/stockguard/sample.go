package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andresuchdata/stockguard/internal/config"
	"github.com/andresuchdata/stockguard/internal/snapshot"
	"github.com/andresuchdata/stockguard/internal/storage"
	"github.com/andresuchdata/stockguard/pkg/logger"
	"github.com/urfave/cli/v2"
)

func runSample(c *cli.Context) error {
	outDir := c.String("out")
	tables := snapshot.SampleTables(c.Uint64("seed"), time.Now())

	if err := snapshot.WriteCSV(outDir, tables); err != nil {
		return err
	}
	logger.Log.Info().Str("dir", outDir).Int("products", len(tables.Products)).Msg("sample tables written")

	if !c.Bool("upload") {
		return nil
	}

	cfg := config.Load().Storage
	client, err := storage.NewMinioClient(cfg)
	if err != nil {
		return err
	}
	for _, table := range snapshot.TableNames {
		name := table + ".csv"
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		key := resolveObjectKey(cfg.Prefix, name)
		if err := client.UploadObject(c.Context, key, data); err != nil {
			return err
		}
		logger.Log.Info().Str("bucket", cfg.Bucket).Str("key", key).Msg("sample table uploaded")
	}
	return nil
}

func resolveObjectKey(prefix, name string) string {
	prefixTrimmed := strings.Trim(strings.TrimSpace(prefix), "/")
	nameTrimmed := strings.TrimPrefix(strings.TrimSpace(name), "/")
	if prefixTrimmed == "" {
		return nameTrimmed
	}
	if strings.HasPrefix(nameTrimmed, prefixTrimmed+"/") {
		return nameTrimmed
	}
	return prefixTrimmed + "/" + nameTrimmed
}
