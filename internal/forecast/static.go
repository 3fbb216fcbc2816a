package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/domain"
)

// StaticProvider serves fixed forecasts keyed by item id, regardless of
// restaurant or start date. Used by the CLI fallback and in tests.
type StaticProvider struct {
	series map[string][]float64
}

func NewStaticProvider(series map[string][]float64) *StaticProvider {
	copied := make(map[string][]float64, len(series))
	for id, s := range series {
		copied[id] = append([]float64(nil), s...)
	}
	return &StaticProvider{series: copied}
}

func (p *StaticProvider) GetDemandForecast(ctx context.Context, restaurantID, itemID string, start time.Time, horizonDays int) ([]float64, error) {
	series := truncate(p.series[itemID], horizonDays)
	if len(series) == 0 {
		return nil, fmt.Errorf("item %s: %w", itemID, domain.ErrMissingForecast)
	}
	return series, nil
}

func (p *StaticProvider) GetDemandForecasts(ctx context.Context, restaurantID string, start time.Time, horizonDays int) (map[string][]float64, error) {
	out := make(map[string][]float64, len(p.series))
	for id, s := range p.series {
		if series := truncate(s, horizonDays); len(series) > 0 {
			out[id] = series
		}
	}
	return out, nil
}

func truncate(series []float64, horizonDays int) []float64 {
	if horizonDays < 0 {
		horizonDays = 0
	}
	if horizonDays < len(series) {
		series = series[:horizonDays]
	}
	return append([]float64(nil), series...)
}

var (
	_ Provider = (*StaticProvider)(nil)
	_ Provider = (*PostgresProvider)(nil)
)
