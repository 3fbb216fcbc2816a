package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/domain"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/inventory"
)

func analysis(id string, stock float64, rec domain.Recommendation, plan domain.EOQPlan) inventory.ItemAnalysis {
	rec.ItemID = id
	return inventory.ItemAnalysis{
		Item:           item(id, stock),
		Plan:           plan,
		Recommendation: rec,
	}
}

func intp(v int) *int { return &v }

func TestSortRecommendationsTieBreaks(t *testing.T) {
	analyses := []inventory.ItemAnalysis{
		analysis("z", 1, domain.Recommendation{Urgency: domain.UrgencyHigh}, domain.EOQPlan{}),
		analysis("y", 1, domain.Recommendation{Urgency: domain.UrgencyHigh, DaysUntilStockout: intp(5)}, domain.EOQPlan{}),
		analysis("x", 1, domain.Recommendation{Urgency: domain.UrgencyHigh, DaysUntilStockout: intp(2)}, domain.EOQPlan{}),
		analysis("b", 1, domain.Recommendation{Urgency: domain.UrgencyLow}, domain.EOQPlan{}),
		analysis("a", 1, domain.Recommendation{Urgency: domain.UrgencyLow}, domain.EOQPlan{}),
		analysis("c", 1, domain.Recommendation{Urgency: domain.UrgencyCritical, DaysUntilStockout: intp(0)}, domain.EOQPlan{}),
	}

	var ids []string
	for _, rec := range SortRecommendations(analyses) {
		ids = append(ids, rec.ItemID)
	}
	assert.Equal(t, []string{"c", "x", "y", "z", "a", "b"}, ids)
}

func TestBuildReorderSummaryPricesEachAnalysis(t *testing.T) {
	cheap := analysis("dup", 5, domain.Recommendation{Action: domain.ActionReorder, Urgency: domain.UrgencyHigh, RecommendedOrderQty: 10}, domain.EOQPlan{})
	pricey := analysis("dup", 5, domain.Recommendation{Action: domain.ActionReorder, Urgency: domain.UrgencyHigh, RecommendedOrderQty: 10}, domain.EOQPlan{})
	pricey.Item.UnitCost = 10

	summary := BuildReorderSummary([]inventory.ItemAnalysis{cheap, pricey})

	require.Len(t, summary.Items, 2)
	assert.Equal(t, "20.00", summary.Items[0].EstimatedCost.StringFixed(2))
	assert.Equal(t, "100.00", summary.Items[1].EstimatedCost.StringFixed(2))
	assert.Equal(t, "120.00", summary.TotalEstimatedCost.StringFixed(2))
}

func TestBuildReorderSummary(t *testing.T) {
	analyses := []inventory.ItemAnalysis{
		analysis("a", 5, domain.Recommendation{Action: domain.ActionReorder, Urgency: domain.UrgencyHigh, RecommendedOrderQty: 40}, domain.EOQPlan{}),
		analysis("b", 0, domain.Recommendation{Action: domain.ActionEmergencyReorder, Urgency: domain.UrgencyCritical, RecommendedOrderQty: 12.5}, domain.EOQPlan{}),
		analysis("c", 90, domain.Recommendation{Action: domain.ActionMaintain, Urgency: domain.UrgencyLow}, domain.EOQPlan{}),
		analysis("d", 400, domain.Recommendation{Action: domain.ActionReduce, Urgency: domain.UrgencyLow}, domain.EOQPlan{}),
	}

	summary := BuildReorderSummary(analyses)

	assert.Equal(t, 2, summary.ItemsNeedingReorder)
	assert.Equal(t, 52.5, summary.TotalQuantity)
	require.Len(t, summary.Items, 2)
	assert.Equal(t, "b", summary.Items[0].ItemID)
	assert.True(t, decimal.NewFromInt(25).Equal(summary.Items[0].EstimatedCost))
	assert.True(t, decimal.NewFromInt(105).Equal(summary.TotalEstimatedCost))
}

func TestBuildStatusReport(t *testing.T) {
	crit := analysis("crit", 5, domain.Recommendation{}, domain.EOQPlan{})
	crit.Projection = domain.StockProjection{
		StockStatus:       domain.StockCritical,
		DaysUntilStockout: intp(1),
		Days:              []domain.ProjectedDay{{ProjectedStock: 0}},
	}
	healthy := analysis("fine", 90, domain.Recommendation{}, domain.EOQPlan{})
	healthy.Projection = domain.StockProjection{
		StockStatus: domain.StockHealthy,
		Days:        []domain.ProjectedDay{{ProjectedStock: 85}, {ProjectedStock: 80}},
	}

	report := BuildStatusReport([]inventory.ItemAnalysis{crit, healthy})

	assert.Equal(t, map[domain.StockStatus]int{
		domain.StockHealthy:  1,
		domain.StockMedium:   0,
		domain.StockLow:      0,
		domain.StockCritical: 1,
	}, report.Counts)
	assert.Empty(t, report.Details[domain.StockLow])
	require.Len(t, report.Details[domain.StockHealthy], 1)
	assert.Equal(t, 80.0, report.Details[domain.StockHealthy][0].ProjectedStock)
	assert.Equal(t, 0.0, report.Details[domain.StockCritical][0].ProjectedStock)
	assert.Equal(t, 1, *report.Details[domain.StockCritical][0].DaysUntilStockout)
}

func TestBuildCostAnalysis(t *testing.T) {
	analyses := []inventory.ItemAnalysis{
		analysis("cheap", 10, domain.Recommendation{}, domain.EOQPlan{AnnualHoldingCost: 10.004, AnnualOrderingCost: 10}),
		analysis("pricey", 10, domain.Recommendation{}, domain.EOQPlan{AnnualHoldingCost: 95.5, AnnualOrderingCost: 95.5}),
		analysis("mid", 10, domain.Recommendation{}, domain.EOQPlan{AnnualHoldingCost: 47.755, AnnualOrderingCost: 47.75}),
	}

	costs := BuildCostAnalysis(analyses)

	require.Len(t, costs.Items, 3)
	assert.Equal(t, "pricey", costs.Items[0].ItemID)
	assert.Equal(t, "mid", costs.Items[1].ItemID)
	assert.Equal(t, "cheap", costs.Items[2].ItemID)

	assert.Equal(t, "10.00", costs.Items[2].AnnualHoldingCost.StringFixed(2))
	assert.Equal(t, "153.26", costs.TotalHoldingCost.StringFixed(2))
	assert.Equal(t, "153.25", costs.TotalOrderingCost.StringFixed(2))
	assert.Equal(t, "306.51", costs.TotalInventoryCost.StringFixed(2))
}

func TestBuildWasteInsights(t *testing.T) {
	asOf := time.Date(2026, 4, 15, 16, 0, 0, 0, time.UTC)
	soon := time.Date(2026, 4, 18, 9, 0, 0, 0, time.UTC)
	past := time.Date(2026, 4, 13, 9, 0, 0, 0, time.UTC)
	far := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	excess := analysis("excess", 130, domain.Recommendation{}, domain.EOQPlan{})
	excess.Consumption.DailyRate = 2
	excess.Item.EarliestExpiry = &far

	idle := analysis("idle", 10, domain.Recommendation{}, domain.EOQPlan{})

	expiring := analysis("expiring", 10, domain.Recommendation{}, domain.EOQPlan{})
	expiring.Consumption.DailyRate = 5
	expiring.Item.EarliestExpiry = &soon

	expired := analysis("expired", 4, domain.Recommendation{}, domain.EOQPlan{})
	expired.Consumption.DailyRate = 5
	expired.Item.EarliestExpiry = &past

	empty := analysis("empty", 0, domain.Recommendation{}, domain.EOQPlan{})
	empty.Item.EarliestExpiry = &past

	insights := BuildWasteInsights([]inventory.ItemAnalysis{excess, idle, expiring, expired, empty}, asOf, DefaultOptions())
	require.Len(t, insights, 4)

	assert.Equal(t, IssueExcessStock, insights[0].Issue)
	assert.Equal(t, "excess", insights[0].ItemID)
	assert.Equal(t, 65.0, *insights[0].DaysSupply)
	assert.Equal(t, "200.00", insights[0].PotentialSavings.Decimal.StringFixed(2))
	assert.False(t, insights[0].PotentialLoss.Valid)

	// no recorded consumption falls back to the minimum daily rate
	assert.Equal(t, "idle", insights[1].ItemID)
	assert.Equal(t, 100.0, *insights[1].DaysSupply)
	assert.True(t, insights[1].PotentialSavings.Decimal.IsZero())

	assert.Equal(t, IssueNearExpiry, insights[2].Issue)
	assert.Equal(t, 3, *insights[2].DaysToExpiry)
	assert.Equal(t, "20.00", insights[2].PotentialLoss.Decimal.StringFixed(2))

	assert.Equal(t, IssueExpired, insights[3].Issue)
	assert.Equal(t, -2, *insights[3].DaysToExpiry)
	assert.Equal(t, "8.00", insights[3].PotentialLoss.Decimal.StringFixed(2))
}
