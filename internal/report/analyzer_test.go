package report

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/domain"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/inventory"
)

var testAsOf = time.Date(2026, 4, 15, 8, 0, 0, 0, time.UTC)

func newTestAnalyzer(t *testing.T, workers int) *Analyzer {
	t.Helper()
	calc, err := inventory.NewCalculator(inventory.DefaultParams())
	require.NoError(t, err)
	opts := DefaultOptions()
	opts.Workers = workers
	return NewAnalyzer(calc, opts)
}

func item(id string, stock float64) domain.InventoryItem {
	return domain.InventoryItem{
		ItemID:       id,
		RestaurantID: "r1",
		Name:         "item " + id,
		CurrentStock: stock,
		MinLevel:     20,
		ReorderLevel: 30,
		UnitCost:     2,
		LeadTimeDays: 3,
	}
}

func usage(itemID string, days int, qty float64) []domain.StockMovement {
	start, _ := inventory.LookbackWindow(testAsOf, days)
	out := make([]domain.StockMovement, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, domain.StockMovement{
			ItemID:        itemID,
			OccurredAt:    start.Add(time.Duration(i)*24*time.Hour + time.Hour),
			QuantityDelta: -qty,
			MovementType:  domain.MovementRecipeDeduct,
		})
	}
	return out
}

func forecast(days int, qty float64) []float64 {
	out := make([]float64, days)
	for i := range out {
		out[i] = qty
	}
	return out
}

func TestRunIsolatesItemFailures(t *testing.T) {
	inputs := []ItemInput{
		{Item: item("a", 100), Movements: usage("a", 30, 2), Forecast: forecast(14, 2)},
		{Item: item("b", 10), Movements: nil, Forecast: forecast(14, 2)},
		{Item: item("c", 12), Movements: usage("c", 30, 5), Forecast: forecast(14, 5)},
	}

	report, err := newTestAnalyzer(t, 2).Run(context.Background(), "r1", testAsOf, inputs)
	require.NoError(t, err)

	require.Len(t, report.Errors, 1)
	assert.Equal(t, "b", report.Errors[0].ItemID)
	assert.Equal(t, domain.KindInsufficientData, report.Errors[0].Kind)

	assert.Equal(t, 2, report.BatchSize)
	require.Len(t, report.Recommendations, 2)
	for _, rec := range report.Recommendations {
		assert.NotEqual(t, "b", rec.ItemID)
	}
	_, found := report.Analysis("b")
	assert.False(t, found)
}

func TestRunSkipsInvalidItems(t *testing.T) {
	bad := item("bad", 40)
	bad.UnitCost = -1

	report, err := newTestAnalyzer(t, 1).Run(context.Background(), "r1", testAsOf, []ItemInput{
		{Item: bad, Movements: usage("bad", 30, 1)},
		{Item: item("ok", 40), Movements: usage("ok", 30, 1)},
	})
	require.NoError(t, err)

	require.Len(t, report.Errors, 1)
	assert.Equal(t, domain.KindInvalidItem, report.Errors[0].Kind)
	assert.Equal(t, 1, report.BatchSize)
}

func TestRunWarnsOnMissingForecast(t *testing.T) {
	report, err := newTestAnalyzer(t, 4).Run(context.Background(), "r1", testAsOf, []ItemInput{
		{Item: item("a", 10), Movements: usage("a", 30, 5)},
	})
	require.NoError(t, err)

	assert.Empty(t, report.Errors)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, domain.KindMissingForecast, report.Warnings[0].Kind)

	rec := report.Recommendations[0]
	assert.Equal(t, domain.ActionReorder, rec.Action)
	assert.Equal(t, domain.UrgencyMedium, rec.Urgency)
	assert.Nil(t, rec.StockoutDate)
}

func TestRunOrdersByUrgencyAndCounts(t *testing.T) {
	inputs := []ItemInput{
		{Item: item("healthy", 200), Movements: usage("healthy", 30, 5), Forecast: forecast(14, 5)},
		{Item: item("empty", 0), Movements: usage("empty", 30, 5), Forecast: forecast(14, 5)},
		{Item: item("soon", 12), Movements: usage("soon", 30, 5), Forecast: forecast(14, 5)},
		{Item: item("later", 16), Movements: usage("later", 30, 5), Forecast: forecast(14, 2)},
		{Item: item("sooner", 5), Movements: usage("sooner", 30, 5), Forecast: forecast(14, 3)},
	}

	report, err := newTestAnalyzer(t, 3).Run(context.Background(), "r1", testAsOf, inputs)
	require.NoError(t, err)

	ids := make([]string, 0, len(report.Recommendations))
	for _, rec := range report.Recommendations {
		ids = append(ids, rec.ItemID)
	}
	assert.Equal(t, []string{"empty", "sooner", "soon", "later", "healthy"}, ids)

	assert.Equal(t, 5, report.BatchSize)
	assert.Equal(t, 1, report.CriticalCount)
	assert.Equal(t, 2, report.HighCount)
	assert.Equal(t, testAsOf, report.GeneratedAt)
	assert.Equal(t, 3, report.ReorderSummary.ItemsNeedingReorder)
}

func TestRunIsIndependentOfWorkerCount(t *testing.T) {
	var inputs []ItemInput
	for i := 0; i < 25; i++ {
		id := fmt.Sprintf("item-%02d", i)
		inputs = append(inputs, ItemInput{
			Item:      item(id, float64(5*i)),
			Movements: usage(id, 30, float64(i%4+1)),
			Forecast:  forecast(14, float64(i%4+1)),
		})
	}

	serial, err := newTestAnalyzer(t, 1).Run(context.Background(), "r1", testAsOf, inputs)
	require.NoError(t, err)
	parallel, err := newTestAnalyzer(t, 8).Run(context.Background(), "r1", testAsOf, inputs)
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inputs := make([]ItemInput, 0, 500)
	for i := 0; i < 500; i++ {
		id := fmt.Sprintf("i%d", i)
		inputs = append(inputs, ItemInput{Item: item(id, 50), Movements: usage(id, 30, 1)})
	}

	// the worker pool may drain a few jobs before noticing; the run either completes
	// or reports the cancellation
	report, err := newTestAnalyzer(t, 1).Run(ctx, "r1", testAsOf, inputs)
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, report)
	}
}

func TestRunEmptyBatch(t *testing.T) {
	report, err := newTestAnalyzer(t, 4).Run(context.Background(), "r1", testAsOf, nil)
	require.NoError(t, err)

	assert.Zero(t, report.BatchSize)
	assert.Empty(t, report.Recommendations)
	assert.Empty(t, report.Errors)
	assert.Len(t, report.StatusReport.Counts, 4)
	assert.True(t, report.CostAnalysis.TotalInventoryCost.IsZero())
}
