package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/domain"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/repository"
)

type forecastRow struct {
	ItemID            string    `db:"item_id"`
	ForecastDate      time.Time `db:"forecast_date"`
	PredictedQuantity float64   `db:"predicted_quantity"`
}

// PostgresProvider reads the demand_forecasts table written by the training job.
type PostgresProvider struct {
	db repository.Querier
}

func NewPostgresProvider(db repository.Querier) *PostgresProvider {
	return &PostgresProvider{db: db}
}

const forecastQuery = `
		SELECT
			item_id::text AS item_id,
			forecast_date,
			predicted_quantity
		FROM demand_forecasts
		WHERE restaurant_id::text = $1
		  AND forecast_date >= $2
		  AND forecast_date < $3
		  AND ($4 = '' OR item_id::text = $4)
		ORDER BY item_id, forecast_date
`

func (p *PostgresProvider) GetDemandForecast(ctx context.Context, restaurantID, itemID string, start time.Time, horizonDays int) ([]float64, error) {
	forecasts, err := p.query(ctx, restaurantID, itemID, start, horizonDays)
	if err != nil {
		return nil, err
	}

	series := forecasts[itemID]
	if len(series) == 0 {
		return nil, fmt.Errorf("item %s: %w", itemID, domain.ErrMissingForecast)
	}
	return series, nil
}

func (p *PostgresProvider) GetDemandForecasts(ctx context.Context, restaurantID string, start time.Time, horizonDays int) (map[string][]float64, error) {
	return p.query(ctx, restaurantID, "", start, horizonDays)
}

func (p *PostgresProvider) query(ctx context.Context, restaurantID, itemID string, start time.Time, horizonDays int) (map[string][]float64, error) {
	if horizonDays < 1 {
		return nil, fmt.Errorf("%w: forecast horizon of %d days", domain.ErrInvalidParameter, horizonDays)
	}

	from := startOfDay(start)
	to := from.AddDate(0, 0, horizonDays)

	var rows []forecastRow
	if err := p.db.SelectContext(ctx, &rows, forecastQuery, restaurantID, from, to, itemID); err != nil {
		return nil, fmt.Errorf("error getting demand forecasts: %w", err)
	}

	return contiguousSeries(rows, from, horizonDays), nil
}

// contiguousSeries builds one series per item from rows sorted by item and date.
// A series stops at the first missing day so positions always map to dates.
func contiguousSeries(rows []forecastRow, from time.Time, horizonDays int) map[string][]float64 {
	out := make(map[string][]float64)
	broken := make(map[string]bool)

	for _, row := range rows {
		if broken[row.ItemID] {
			continue
		}
		series := out[row.ItemID]
		expected := from.AddDate(0, 0, len(series))
		if !startOfDay(row.ForecastDate).Equal(expected) || len(series) >= horizonDays {
			broken[row.ItemID] = true
			continue
		}
		out[row.ItemID] = append(series, row.PredictedQuantity)
	}

	return out
}
