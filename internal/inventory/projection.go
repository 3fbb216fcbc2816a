package inventory

import (
	"math"
	"time"

	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/domain"
)

// ProjectStock walks current stock through the daily demand forecast starting on
// the day of asOf. Day k of the forecast (1-based) depletes stock by forecast[k-1];
// the first day on which stock reaches zero is the stockout day, its projected
// stock is reported as zero and no later days are reported. Stock that is already
// at or below zero is a stockout today (zero days). Negative or NaN forecast values
// are treated as zero demand.
func ProjectStock(item domain.InventoryItem, forecast []float64, asOf time.Time, th Thresholds) domain.StockProjection {
	projection := domain.StockProjection{
		ForecastAvailable: len(forecast) > 0,
	}

	start := startOfDay(asOf)

	if item.CurrentStock <= 0 {
		projection.DaysUntilStockout = intPtr(0)
		projection.StockoutDate = timePtr(start)
		projection.StockStatus = ClassifyStock(item, projection.DaysUntilStockout, th)
		return projection
	}

	if !projection.ForecastAvailable {
		projection.StockStatus = ClassifyStock(item, nil, th)
		return projection
	}

	projection.Days = make([]domain.ProjectedDay, 0, len(forecast))
	stock := item.CurrentStock
	for i, demand := range forecast {
		if math.IsNaN(demand) || demand < 0 {
			demand = 0
		}
		date := start.Add(time.Duration(i) * day)
		stock = roundFloat(stock-demand, 6)

		if stock <= 0 {
			projection.Days = append(projection.Days, domain.ProjectedDay{
				Date:                 date,
				ProjectedStock:       0,
				PredictedConsumption: demand,
			})
			projection.DaysUntilStockout = intPtr(i + 1)
			projection.StockoutDate = timePtr(date)
			break
		}

		projection.Days = append(projection.Days, domain.ProjectedDay{
			Date:                 date,
			ProjectedStock:       stock,
			PredictedConsumption: demand,
		})
	}

	projection.StockStatus = ClassifyStock(item, projection.DaysUntilStockout, th)
	return projection
}

// ClassifyStock buckets an item by stock thresholds and, when known, the days
// until stockout. The most severe matching bucket wins.
func ClassifyStock(item domain.InventoryItem, daysUntilStockout *int, th Thresholds) domain.StockStatus {
	within := func(limit int) bool {
		return daysUntilStockout != nil && *daysUntilStockout <= limit
	}

	switch {
	case within(th.CriticalDays) || item.CurrentStock <= item.MinLevel:
		return domain.StockCritical
	case within(th.LowDays) || item.CurrentStock <= item.ReorderLevel:
		return domain.StockLow
	case item.CurrentStock <= item.ReorderLevel*th.MediumMultiplier:
		return domain.StockMedium
	default:
		return domain.StockHealthy
	}
}
