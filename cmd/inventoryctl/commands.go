package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/config"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/report"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/storage"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/pkg/logger"
)

func buildReport(c *cli.Context) (*report.BatchReport, error) {
	svc, err := newService(c)
	if err != nil {
		return nil, err
	}

	restaurantID := c.String("restaurant")
	if items := c.StringSlice("items"); len(items) > 0 {
		return svc.BatchRecommend(c.Context, restaurantID, items)
	}

	r, _, err := svc.BatchReport(c.Context, restaurantID)
	return r, err
}

func runReport(c *cli.Context) error {
	r, err := buildReport(c)
	if err != nil {
		return fmt.Errorf("error building report: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func runExport(c *cli.Context) error {
	r, err := buildReport(c)
	if err != nil {
		return fmt.Errorf("error building report: %w", err)
	}

	data, err := report.XLSXBytes(r)
	if err != nil {
		return fmt.Errorf("error rendering workbook: %w", err)
	}

	fileName := exportFileName(r.GeneratedAt)
	out := c.String("out")
	if out == "" {
		out = fileName
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", out, err)
	}
	logger.Log.Info().
		Str("restaurant_id", r.RestaurantID).
		Str("file", out).
		Int("items", r.BatchSize).
		Int("errors", len(r.Errors)).
		Msg("report exported")

	if !c.Bool("upload") {
		return nil
	}

	cfg := config.Load()
	store, err := newStorage(cfg.Storage)
	if err != nil {
		return err
	}

	key := storage.ExportKey(cfg.Storage.Prefix, r.RestaurantID, fileName)
	if err := store.UploadObject(c.Context, key, data); err != nil {
		return err
	}
	logger.Log.Info().Str("key", key).Msg("report uploaded")
	return nil
}

func runListExports(c *cli.Context) error {
	cfg := config.Load()
	store, err := newStorage(cfg.Storage)
	if err != nil {
		return err
	}

	prefix := storage.ExportKey(cfg.Storage.Prefix, c.String("restaurant"), "") + "/"
	objects, err := store.ListObjects(c.Context, prefix)
	if err != nil {
		return err
	}

	for _, obj := range objects {
		fmt.Printf("%s\t%d\t%s\n", obj.Key, obj.Size, obj.LastModified.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runFetch(c *cli.Context) error {
	cfg := config.Load()
	store, err := newStorage(cfg.Storage)
	if err != nil {
		return err
	}

	if err := store.DownloadObject(c.Context, c.String("key"), c.String("out")); err != nil {
		return err
	}
	logger.Log.Info().Str("key", c.String("key")).Str("file", c.String("out")).Msg("export downloaded")
	return nil
}

func newStorage(cfg config.StorageConfig) (storage.ObjectStorage, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("object storage is disabled (set STORAGE_ENABLED=true)")
	}
	client, err := storage.NewMinioClient(cfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}
