package inventory

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/domain"
)

func TestServiceLevelZScore(t *testing.T) {
	cases := []struct {
		level ServiceLevel
		want  float64
	}{
		{0.90, 1.28},
		{0.95, 1.65},
		{0.975, 1.96},
		{0.99, 2.33},
	}
	for _, tc := range cases {
		z, err := tc.level.ZScore()
		require.NoError(t, err)
		assert.Equal(t, tc.want, z)
	}

	_, err := ServiceLevel(0.93).ZScore()
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
	_, err = ServiceLevel(1.5).ZScore()
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestComputeReorderPolicyScenario(t *testing.T) {
	profile := domain.ConsumptionProfile{DailyRate: 5, DailyStdDev: 1, LookbackDays: 30}

	policy, err := ComputeReorderPolicy(profile, 3, 0.95)
	require.NoError(t, err)

	assert.InDelta(t, 1.65*math.Sqrt(3), policy.SafetyStock, 1e-9)
	assert.InDelta(t, 2.86, policy.SafetyStock, 0.01)
	assert.InDelta(t, 17.86, policy.ReorderPoint, 0.01)
	assert.Equal(t, 15.0, policy.LeadTimeDemand)
	assert.Equal(t, 1.65, policy.ZScore)
}

func TestComputeReorderPolicyZeroStdDev(t *testing.T) {
	policy, err := ComputeReorderPolicy(domain.ConsumptionProfile{DailyRate: 4}, 5, 0.99)
	require.NoError(t, err)
	assert.Zero(t, policy.SafetyStock)
	assert.Equal(t, 20.0, policy.ReorderPoint)
}

func TestComputeReorderPolicyFloor(t *testing.T) {
	for _, rate := range []float64{0, 0.5, 3, 100} {
		for _, std := range []float64{0, 0.1, 2} {
			for lead := 1; lead <= 14; lead++ {
				policy, err := ComputeReorderPolicy(domain.ConsumptionProfile{DailyRate: rate, DailyStdDev: std}, lead, 0.95)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, policy.ReorderPoint, 0.0)
				assert.GreaterOrEqual(t, policy.SafetyStock, 0.0)
			}
		}
	}
}

func TestSafetyStockMonotonicInLeadTime(t *testing.T) {
	profile := domain.ConsumptionProfile{DailyRate: 7, DailyStdDev: 2.5}
	prev := -1.0
	for lead := 1; lead <= 60; lead++ {
		policy, err := ComputeReorderPolicy(profile, lead, 0.975)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, policy.SafetyStock, prev, "lead time %d", lead)
		prev = policy.SafetyStock
	}
}

func TestComputeReorderPolicyRejectsBadInput(t *testing.T) {
	_, err := ComputeReorderPolicy(domain.ConsumptionProfile{DailyRate: 1}, 3, 0.5)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	_, err = ComputeReorderPolicy(domain.ConsumptionProfile{DailyRate: 1}, 0, 0.95)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	_, err = ComputeReorderPolicy(domain.ConsumptionProfile{DailyRate: -1}, 3, 0.95)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestComputeEOQScenario(t *testing.T) {
	plan, err := ComputeEOQ(730, 50, 2)
	require.NoError(t, err)

	assert.InDelta(t, math.Sqrt(36500), plan.OrderQuantity, 1e-9)
	assert.InDelta(t, 191.05, plan.OrderQuantity, 0.01)
	assert.InDelta(t, 730/plan.OrderQuantity, plan.OrdersPerYear, 1e-9)
	assert.InDelta(t, plan.OrdersPerYear*50, plan.AnnualOrderingCost, 1e-9)
	assert.InDelta(t, plan.OrderQuantity/2*2, plan.AnnualHoldingCost, 1e-9)
	// at the EOQ both cost components are equal
	assert.InDelta(t, plan.AnnualOrderingCost, plan.AnnualHoldingCost, 1e-6)
	assert.InDelta(t, plan.AnnualOrderingCost+plan.AnnualHoldingCost, plan.TotalAnnualCost, 1e-9)
}

func TestComputeEOQScaleLaw(t *testing.T) {
	for _, demand := range []float64{1, 365, 730, 12000} {
		base, err := ComputeEOQ(demand, 40, 1.5)
		require.NoError(t, err)
		doubled, err := ComputeEOQ(2*demand, 40, 1.5)
		require.NoError(t, err)
		assert.InDelta(t, math.Sqrt2, doubled.OrderQuantity/base.OrderQuantity, 1e-9)
	}
}

func TestComputeEOQZeroDemand(t *testing.T) {
	plan, err := ComputeEOQ(0, 50, 2)
	require.NoError(t, err)
	assert.Zero(t, plan.OrderQuantity)
	assert.Zero(t, plan.OrdersPerYear)
	assert.Zero(t, plan.AnnualOrderingCost)
	assert.Zero(t, plan.AnnualHoldingCost)
}

func TestComputeEOQRejectsNonPositiveHoldingCost(t *testing.T) {
	for _, h := range []float64{0, -1} {
		_, err := ComputeEOQ(730, 50, h)
		assert.ErrorIs(t, err, domain.ErrInvalidParameter)
	}
}

func TestNewCalculatorValidatesParams(t *testing.T) {
	params := DefaultParams()
	params.ServiceLevel = 0.42
	_, err := NewCalculator(params)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	params = DefaultParams()
	params.HoldingCostPerUnitYear = 0
	_, err = NewCalculator(params)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	params.HoldingCostRate = 0.2
	_, err = NewCalculator(params)
	assert.NoError(t, err)
}

func TestParamsHoldingCost(t *testing.T) {
	item := domain.InventoryItem{UnitCost: 4}
	params := DefaultParams()
	assert.Equal(t, 0.5, params.HoldingCost(item))

	params.HoldingCostRate = 0.25
	assert.Equal(t, 1.0, params.HoldingCost(item))

	// no batches in stock leaves the unit cost unknown
	assert.Equal(t, 0.5, params.HoldingCost(domain.InventoryItem{}))

	params.HoldingCostPerUnitYear = 0
	assert.Equal(t, defaultHoldingCostPerUnitYear, params.HoldingCost(domain.InventoryItem{}))
}

func TestCalculatorAnalyzeOutOfStockWithoutUnitCost(t *testing.T) {
	params := DefaultParams()
	params.HoldingCostPerUnitYear = 0
	params.HoldingCostRate = 0.2
	calc, err := NewCalculator(params)
	require.NoError(t, err)

	asOf := time.Date(2026, 3, 31, 9, 0, 0, 0, time.UTC)
	item := testItem(0)
	item.UnitCost = 0

	analysis, err := calc.Analyze(item, dailyMovements(asOf, 30, 5), flatForecast(14, 5), asOf)
	require.NoError(t, err)

	assert.Equal(t, domain.ActionEmergencyReorder, analysis.Recommendation.Action)
	assert.Equal(t, domain.UrgencyCritical, analysis.Recommendation.Urgency)
	assert.Greater(t, analysis.Recommendation.RecommendedOrderQty, 0.0)
}

func TestCalculatorAnalyze(t *testing.T) {
	calc, err := NewCalculator(DefaultParams())
	require.NoError(t, err)

	asOf := time.Date(2026, 3, 31, 9, 0, 0, 0, time.UTC)
	item := testItem(10)
	movements := dailyMovements(asOf, 30, 5)

	analysis, err := calc.Analyze(item, movements, flatForecast(14, 5), asOf)
	require.NoError(t, err)

	assert.InDelta(t, 5, analysis.Consumption.DailyRate, 1e-9)
	assert.InDelta(t, 15, analysis.Policy.ReorderPoint, 1e-9)
	assert.InDelta(t, 5*daysPerYear, analysis.Plan.AnnualDemand, 1e-9)
	assert.Equal(t, domain.ActionReorder, analysis.Recommendation.Action)
	assert.Equal(t, domain.UrgencyHigh, analysis.Recommendation.Urgency)
	require.NotNil(t, analysis.Projection.DaysUntilStockout)
	assert.Equal(t, 2, *analysis.Projection.DaysUntilStockout)
	assert.Equal(t, analysis.Plan.OrderQuantity, analysis.Recommendation.RecommendedOrderQty)
}

func TestCalculatorAnalyzeErrors(t *testing.T) {
	calc, err := NewCalculator(DefaultParams())
	require.NoError(t, err)
	asOf := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	_, err = calc.Analyze(testItem(10), nil, flatForecast(7, 1), asOf)
	assert.ErrorIs(t, err, domain.ErrInsufficientData)

	bad := testItem(10)
	bad.MinLevel = 40
	_, err = calc.Analyze(bad, dailyMovements(asOf, 30, 1), nil, asOf)
	assert.ErrorIs(t, err, domain.ErrInvalidItem)
	assert.False(t, errors.Is(err, domain.ErrInsufficientData))
}

func testItem(stock float64) domain.InventoryItem {
	return domain.InventoryItem{
		ItemID:       "item-1",
		RestaurantID: "rest-1",
		Name:         "Tomatoes",
		CurrentStock: stock,
		MinLevel:     20,
		ReorderLevel: 30,
		UnitCost:     2.5,
		LeadTimeDays: 3,
	}
}

// dailyMovements returns one recipe deduction of qty per day for the days before asOf.
func dailyMovements(asOf time.Time, days int, qty float64) []domain.StockMovement {
	start, _ := LookbackWindow(asOf, days)
	out := make([]domain.StockMovement, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, domain.StockMovement{
			ItemID:        "item-1",
			OccurredAt:    start.Add(time.Duration(i)*day + 12*time.Hour),
			QuantityDelta: -qty,
			MovementType:  domain.MovementRecipeDeduct,
		})
	}
	return out
}

func flatForecast(days int, qty float64) []float64 {
	out := make([]float64, days)
	for i := range out {
		out[i] = qty
	}
	return out
}
