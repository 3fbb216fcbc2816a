// Package forecast reads the daily demand predictions produced by the forecasting
// model. The model itself runs elsewhere; this package only serves its output.
package forecast

import (
	"context"
	"time"
)

// Provider returns predicted daily consumption starting on the day of start.
// Element k of a forecast is the prediction for start + k days.
type Provider interface {
	GetDemandForecast(ctx context.Context, restaurantID, itemID string, start time.Time, horizonDays int) ([]float64, error)
	// GetDemandForecasts returns the forecasts of every item of a restaurant that has one.
	GetDemandForecasts(ctx context.Context, restaurantID string, start time.Time, horizonDays int) (map[string][]float64, error)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
