package forecast

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/domain"
)

type fakeQuerier struct {
	rows     []forecastRow
	lastArgs []interface{}
}

func (f *fakeQuerier) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	f.lastArgs = args
	*(dest.(*[]forecastRow)) = f.rows
	return nil
}

func (f *fakeQuerier) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return nil
}

var day0 = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func row(item string, offset int, qty float64) forecastRow {
	return forecastRow{ItemID: item, ForecastDate: day0.AddDate(0, 0, offset), PredictedQuantity: qty}
}

func TestPostgresProviderKeepsContiguousPrefix(t *testing.T) {
	db := &fakeQuerier{rows: []forecastRow{
		row("a", 0, 1), row("a", 1, 2), row("a", 3, 4),
		row("b", 1, 7),
		row("c", 0, 3), row("c", 1, 3),
	}}
	p := NewPostgresProvider(db)

	all, err := p.GetDemandForecasts(context.Background(), "r1", day0.Add(10*time.Hour), 7)
	require.NoError(t, err)

	assert.Equal(t, map[string][]float64{
		"a": {1, 2},
		"c": {3, 3},
	}, all)
	assert.Equal(t, []interface{}{"r1", day0, day0.AddDate(0, 0, 7), ""}, db.lastArgs)
}

func TestPostgresProviderMissingForecast(t *testing.T) {
	p := NewPostgresProvider(&fakeQuerier{rows: []forecastRow{row("b", 2, 1)}})

	_, err := p.GetDemandForecast(context.Background(), "r1", "b", day0, 7)
	assert.ErrorIs(t, err, domain.ErrMissingForecast)

	_, err = p.GetDemandForecast(context.Background(), "r1", "b", day0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestContiguousSeriesRespectsHorizon(t *testing.T) {
	rows := []forecastRow{row("a", 0, 1), row("a", 1, 1), row("a", 2, 1)}
	assert.Equal(t, map[string][]float64{"a": {1, 1}}, contiguousSeries(rows, day0, 2))
}

func TestStaticProvider(t *testing.T) {
	source := map[string][]float64{"a": {1, 2, 3}, "empty": {}}
	p := NewStaticProvider(source)
	source["a"][0] = 99

	series, err := p.GetDemandForecast(context.Background(), "r1", "a", day0, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, series)

	_, err = p.GetDemandForecast(context.Background(), "r1", "empty", day0, 2)
	assert.ErrorIs(t, err, domain.ErrMissingForecast)

	all, err := p.GetDemandForecasts(context.Background(), "r1", day0, 14)
	require.NoError(t, err)
	assert.Equal(t, map[string][]float64{"a": {1, 2, 3}}, all)
}
