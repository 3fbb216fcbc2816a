package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/cache"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/config"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/repository/postgres"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/pkg/logger"
)

var forecastColumns = []string{"restaurant_id", "item_id", "forecast_date", "predicted_quantity"}

type forecastRecord struct {
	RestaurantID      string
	ItemID            string
	ForecastDate      time.Time
	PredictedQuantity float64
}

const upsertForecastQuery = `
	INSERT INTO demand_forecasts (restaurant_id, item_id, forecast_date, predicted_quantity)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (restaurant_id, item_id, forecast_date)
	DO UPDATE SET predicted_quantity = EXCLUDED.predicted_quantity
`

// parseForecastCSV reads daily forecast rows. Columns are located by header name.
func parseForecastCSV(r io.Reader) ([]forecastRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range forecastColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q in CSV header", col)
		}
	}

	var records []forecastRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}

		date, err := time.Parse("2006-01-02", row[index["forecast_date"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid forecast_date: %w", line, err)
		}
		qty, err := strconv.ParseFloat(row[index["predicted_quantity"]], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid predicted_quantity: %w", line, err)
		}
		if qty < 0 {
			return nil, fmt.Errorf("line %d: predicted_quantity must not be negative", line)
		}

		rec := forecastRecord{
			RestaurantID:      strings.TrimSpace(row[index["restaurant_id"]]),
			ItemID:            strings.TrimSpace(row[index["item_id"]]),
			ForecastDate:      date,
			PredictedQuantity: qty,
		}
		if rec.RestaurantID == "" || rec.ItemID == "" {
			return nil, fmt.Errorf("line %d: restaurant_id and item_id are required", line)
		}
		records = append(records, rec)
	}

	return records, nil
}

func runImportForecasts(c *cli.Context) error {
	db, ok := c.Context.Value(dbKey).(*postgres.DB)
	if !ok || db == nil {
		return fmt.Errorf("database connection not initialized")
	}

	filePath := c.String("file")
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	records, err := parseForecastCSV(file)
	if err != nil {
		return err
	}

	tx, err := db.BeginTxx(c.Context, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	restaurants := make(map[string]struct{})
	for _, rec := range records {
		if _, err := tx.ExecContext(c.Context, upsertForecastQuery,
			rec.RestaurantID, rec.ItemID, rec.ForecastDate, rec.PredictedQuantity); err != nil {
			return fmt.Errorf("failed to upsert forecast for item %s: %w", rec.ItemID, err)
		}
		restaurants[rec.RestaurantID] = struct{}{}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	logger.Log.Info().Int("rows", len(records)).Int("restaurants", len(restaurants)).Msg("forecasts imported")

	// Cached reports were computed from the old forecasts.
	reports, err := cache.NewReportCache(config.Load().Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("report cache unavailable, cached reports not invalidated")
		return nil
	}
	for restaurantID := range restaurants {
		if err := reports.InvalidateRestaurant(c.Context, restaurantID); err != nil {
			logger.Log.Warn().Err(err).Str("restaurant_id", restaurantID).Msg("failed to invalidate cached reports")
		}
	}
	return nil
}
