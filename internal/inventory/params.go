package inventory

import (
	"fmt"
	"math"

	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/domain"
)

// ServiceLevel is the target probability of not stocking out during lead time.
// Only the levels in the z-score table are supported.
type ServiceLevel float64

type zEntry struct {
	level ServiceLevel
	z     float64
}

var zTable = []zEntry{
	{0.80, 0.84},
	{0.85, 1.04},
	{0.90, 1.28},
	{0.95, 1.65},
	{0.975, 1.96},
	{0.98, 2.05},
	{0.99, 2.33},
	{0.995, 2.58},
}

// ZScore returns the table z-score for the service level.
func (s ServiceLevel) ZScore() (float64, error) {
	for _, e := range zTable {
		if math.Abs(float64(s-e.level)) < 1e-9 {
			return e.z, nil
		}
	}
	return 0, fmt.Errorf("%w: unsupported service level %v", domain.ErrInvalidParameter, float64(s))
}

// SupportedServiceLevels lists the levels accepted by ZScore, ascending.
func SupportedServiceLevels() []float64 {
	levels := make([]float64, len(zTable))
	for i, e := range zTable {
		levels[i] = float64(e.level)
	}
	return levels
}

// Thresholds tune stock classification and the recommendation rules
type Thresholds struct {
	EmergencyDays    int     // days until stockout that force an emergency reorder
	CriticalDays     int     // days until stockout classified critical
	LowDays          int     // days until stockout classified low
	MediumMultiplier float64 // stock within this multiple of reorder level is medium
	ReduceMultiplier float64 // stock above this multiple of reorder point may be reduced
	TrendTolerance   float64 // relative change across the window still considered flat
}

// DefaultThresholds returns the stock classification defaults
func DefaultThresholds() Thresholds {
	return Thresholds{
		EmergencyDays:    1,
		CriticalDays:     2,
		LowDays:          7,
		MediumMultiplier: 1.5,
		ReduceMultiplier: 2,
		TrendTolerance:   0.1,
	}
}

// Params configures a Calculator
type Params struct {
	ServiceLevel           ServiceLevel
	LookbackDays           int
	OrderingCost           float64
	HoldingCostPerUnitYear float64
	// HoldingCostRate, when positive, prices holding as a yearly fraction of unit cost
	// and takes precedence over HoldingCostPerUnitYear.
	HoldingCostRate float64
	DepletionTypes  []domain.MovementType
	Thresholds      Thresholds
}

// DefaultParams returns sensible defaults
func DefaultParams() Params {
	return Params{
		ServiceLevel:           0.95,
		LookbackDays:           30,
		OrderingCost:           50,
		HoldingCostPerUnitYear: defaultHoldingCostPerUnitYear,
		DepletionTypes: []domain.MovementType{
			domain.MovementRecipeDeduct,
			domain.MovementConsumption,
			domain.MovementDeduction,
			domain.MovementWaste,
		},
		Thresholds: DefaultThresholds(),
	}
}

// Validate rejects configurations the calculators cannot work with.
func (p Params) Validate() error {
	if _, err := p.ServiceLevel.ZScore(); err != nil {
		return err
	}
	if p.LookbackDays < 1 {
		return fmt.Errorf("%w: lookback days must be at least 1", domain.ErrInvalidParameter)
	}
	if p.OrderingCost <= 0 {
		return fmt.Errorf("%w: ordering cost must be positive", domain.ErrInvalidParameter)
	}
	if p.HoldingCostRate <= 0 && p.HoldingCostPerUnitYear <= 0 {
		return fmt.Errorf("%w: holding cost must be positive", domain.ErrInvalidParameter)
	}
	if len(p.DepletionTypes) == 0 {
		return fmt.Errorf("%w: no depletion movement types configured", domain.ErrInvalidParameter)
	}
	t := p.Thresholds
	if t.EmergencyDays < 0 || t.CriticalDays < t.EmergencyDays || t.LowDays < t.CriticalDays {
		return fmt.Errorf("%w: day thresholds must satisfy 0 <= emergency <= critical <= low", domain.ErrInvalidParameter)
	}
	if t.MediumMultiplier < 1 || t.ReduceMultiplier < 1 || t.TrendTolerance < 0 {
		return fmt.Errorf("%w: invalid stock multipliers", domain.ErrInvalidParameter)
	}
	return nil
}

// defaultHoldingCostPerUnitYear prices holding for items without a known unit cost
// when only a holding rate is configured.
const defaultHoldingCostPerUnitYear = 0.5

// HoldingCost returns the yearly holding cost of one unit of item. Items with no
// unit cost (no batches left in stock) use the flat per-unit value.
func (p Params) HoldingCost(item domain.InventoryItem) float64 {
	if p.HoldingCostRate > 0 && item.UnitCost > 0 {
		return item.UnitCost * p.HoldingCostRate
	}
	if p.HoldingCostPerUnitYear > 0 {
		return p.HoldingCostPerUnitYear
	}
	return defaultHoldingCostPerUnitYear
}
