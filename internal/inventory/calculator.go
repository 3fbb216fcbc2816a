package inventory

import (
	"fmt"
	"math"
	"time"

	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/domain"
)

const daysPerYear = 365

// ComputeReorderPolicy combines consumption statistics, lead time and service level
// into a reorder point.
//
//	safety stock  = z * daily std dev * sqrt(lead time)
//	reorder point = daily rate * lead time + safety stock
func ComputeReorderPolicy(profile domain.ConsumptionProfile, leadTimeDays int, level ServiceLevel) (domain.ReorderPolicy, error) {
	z, err := level.ZScore()
	if err != nil {
		return domain.ReorderPolicy{}, err
	}
	if leadTimeDays < 1 {
		return domain.ReorderPolicy{}, fmt.Errorf("%w: lead time of %d days", domain.ErrInvalidParameter, leadTimeDays)
	}
	if profile.DailyRate < 0 || profile.DailyStdDev < 0 {
		return domain.ReorderPolicy{}, fmt.Errorf("%w: negative consumption statistics", domain.ErrInvalidParameter)
	}

	lead := float64(leadTimeDays)
	safetyStock := math.Max(0, z*profile.DailyStdDev*math.Sqrt(lead))
	leadTimeDemand := profile.DailyRate * lead

	return domain.ReorderPolicy{
		ReorderPoint:   math.Max(0, leadTimeDemand+safetyStock),
		SafetyStock:    safetyStock,
		LeadTimeDemand: leadTimeDemand,
		LeadTimeDays:   leadTimeDays,
		ServiceLevel:   float64(level),
		ZScore:         z,
	}, nil
}

// ComputeEOQ returns the economic order quantity sqrt(2DS/H) and the yearly costs
// it implies. A non-positive holding cost is a configuration error.
func ComputeEOQ(annualDemand, orderingCost, holdingCostPerUnitYear float64) (domain.EOQPlan, error) {
	if holdingCostPerUnitYear <= 0 {
		return domain.EOQPlan{}, fmt.Errorf("%w: holding cost per unit per year must be positive, got %v", domain.ErrInvalidParameter, holdingCostPerUnitYear)
	}
	if annualDemand < 0 || orderingCost < 0 {
		return domain.EOQPlan{}, fmt.Errorf("%w: negative demand or ordering cost", domain.ErrInvalidParameter)
	}

	plan := domain.EOQPlan{
		AnnualDemand:           annualDemand,
		OrderingCost:           orderingCost,
		HoldingCostPerUnitYear: holdingCostPerUnitYear,
	}

	plan.OrderQuantity = math.Sqrt(2 * annualDemand * orderingCost / holdingCostPerUnitYear)
	if annualDemand > 0 && plan.OrderQuantity > 0 {
		plan.OrdersPerYear = annualDemand / plan.OrderQuantity
	}
	plan.AverageInventory = plan.OrderQuantity / 2
	plan.AnnualOrderingCost = plan.OrdersPerYear * orderingCost
	plan.AnnualHoldingCost = plan.AverageInventory * holdingCostPerUnitYear
	plan.TotalAnnualCost = plan.AnnualOrderingCost + plan.AnnualHoldingCost

	return plan, nil
}

// ItemAnalysis is the complete per-item result of the optimization pipeline
type ItemAnalysis struct {
	Item           domain.InventoryItem      `json:"item"`
	Consumption    domain.ConsumptionProfile `json:"consumption"`
	Policy         domain.ReorderPolicy      `json:"reorder_policy"`
	Plan           domain.EOQPlan            `json:"eoq_plan"`
	Projection     domain.StockProjection    `json:"projection"`
	Recommendation domain.Recommendation     `json:"recommendation"`
}

// Calculator runs the per-item pipeline with a fixed parameter set.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	params Params
}

// NewCalculator validates params and creates a calculator
func NewCalculator(params Params) (*Calculator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	params.DepletionTypes = append([]domain.MovementType(nil), params.DepletionTypes...)
	return &Calculator{params: params}, nil
}

// Params returns a copy of the calculator parameters
func (c *Calculator) Params() Params {
	p := c.params
	p.DepletionTypes = append([]domain.MovementType(nil), c.params.DepletionTypes...)
	return p
}

// Analyze runs consumption estimation, reorder point, EOQ, stock projection and
// the recommendation rules for one item. An empty forecast means no forecast is
// available; the projection is skipped and the recommendation falls back to
// stock-versus-reorder-point rules.
func (c *Calculator) Analyze(item domain.InventoryItem, movements []domain.StockMovement, forecast []float64, asOf time.Time) (ItemAnalysis, error) {
	if err := item.Validate(); err != nil {
		return ItemAnalysis{}, err
	}

	profile, err := EstimateConsumption(movements, asOf, c.params.LookbackDays, c.params.DepletionTypes, c.params.Thresholds.TrendTolerance)
	if err != nil {
		return ItemAnalysis{}, fmt.Errorf("item %s: %w", item.ItemID, err)
	}

	policy, err := ComputeReorderPolicy(profile, item.LeadTimeDays, c.params.ServiceLevel)
	if err != nil {
		return ItemAnalysis{}, fmt.Errorf("item %s: %w", item.ItemID, err)
	}

	plan, err := ComputeEOQ(profile.DailyRate*daysPerYear, c.params.OrderingCost, c.params.HoldingCost(item))
	if err != nil {
		return ItemAnalysis{}, fmt.Errorf("item %s: %w", item.ItemID, err)
	}

	projection := ProjectStock(item, forecast, asOf, c.params.Thresholds)
	rec := Recommend(item, profile, policy, plan, projection, c.params.Thresholds)

	return ItemAnalysis{
		Item:           item,
		Consumption:    profile,
		Policy:         policy,
		Plan:           plan,
		Projection:     projection,
		Recommendation: rec,
	}, nil
}
