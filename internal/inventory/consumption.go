package inventory

import (
	"fmt"
	"math"
	"time"

	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/domain"
)

// LookbackWindow returns the [start, end) window of whole UTC days preceding asOf.
func LookbackWindow(asOf time.Time, lookbackDays int) (time.Time, time.Time) {
	end := startOfDay(asOf)
	return end.Add(-time.Duration(lookbackDays) * day), end
}

// EstimateConsumption derives the daily consumption rate and its variability from
// the movements of one item. Only depletion movements inside the lookback window
// count towards consumption; every day of the window is a bucket, so idle days
// contribute explicit zeros. A window without any recorded movement yields
// ErrInsufficientData.
func EstimateConsumption(
	movements []domain.StockMovement,
	asOf time.Time,
	lookbackDays int,
	depletion []domain.MovementType,
	trendTolerance float64,
) (domain.ConsumptionProfile, error) {
	if lookbackDays < 1 {
		return domain.ConsumptionProfile{}, fmt.Errorf("%w: lookback window of %d days", domain.ErrInsufficientData, lookbackDays)
	}

	depletes := make(map[domain.MovementType]bool, len(depletion))
	for _, t := range depletion {
		depletes[t] = true
	}

	start, end := LookbackWindow(asOf, lookbackDays)
	buckets := make([]float64, lookbackDays)
	observed := false

	for _, m := range movements {
		at := m.OccurredAt.UTC()
		if at.Before(start) || !at.Before(end) {
			continue
		}
		observed = true
		if !depletes[m.MovementType] {
			continue
		}
		idx := int(at.Sub(start) / day)
		buckets[idx] += math.Abs(m.QuantityDelta)
	}

	if !observed {
		return domain.ConsumptionProfile{}, fmt.Errorf("%w: no stock movements in the last %d days", domain.ErrInsufficientData, lookbackDays)
	}

	mean, std := meanStdDev(buckets)

	return domain.ConsumptionProfile{
		DailyRate:    mean,
		DailyStdDev:  std,
		LookbackDays: lookbackDays,
		Trend:        classifyTrend(buckets, mean, trendTolerance),
	}, nil
}

// classifyTrend fits a least-squares line through the daily buckets and compares
// the change it implies across the window against the mean rate.
func classifyTrend(buckets []float64, mean, tolerance float64) domain.ConsumptionTrend {
	n := len(buckets)
	if n < 2 || mean <= 0 {
		return domain.TrendFlat
	}

	xMean := float64(n-1) / 2
	var num, den float64
	for i, y := range buckets {
		dx := float64(i) - xMean
		num += dx * (y - mean)
		den += dx * dx
	}
	slope := num / den

	change := slope * float64(n-1) / mean
	switch {
	case change > tolerance:
		return domain.TrendIncreasing
	case change < -tolerance:
		return domain.TrendDeclining
	default:
		return domain.TrendFlat
	}
}
