// internal/domain/inventory.go
package domain

import (
	"fmt"
	"time"
)

// InventoryItem is a read-only snapshot of one stocked item of a restaurant
type InventoryItem struct {
	ItemID         string     `json:"item_id" db:"item_id"`
	RestaurantID   string     `json:"restaurant_id" db:"restaurant_id"`
	Name           string     `json:"name" db:"name"`
	Category       string     `json:"category" db:"category"`
	CurrentStock   float64    `json:"current_stock" db:"current_stock"`
	MinLevel       float64    `json:"min_level" db:"min_level"`
	ReorderLevel   float64    `json:"reorder_level" db:"reorder_level"`
	UnitCost       float64    `json:"unit_cost" db:"unit_cost"`
	LeadTimeDays   int        `json:"lead_time_days" db:"lead_time_days"`
	EarliestExpiry *time.Time `json:"earliest_expiry,omitempty" db:"earliest_expiry"`
}

// Validate checks the snapshot invariants. Violations wrap ErrInvalidItem.
func (i InventoryItem) Validate() error {
	switch {
	case i.ItemID == "":
		return fmt.Errorf("%w: missing item id", ErrInvalidItem)
	case i.MinLevel < 0 || i.ReorderLevel < 0:
		return fmt.Errorf("%w: negative stock thresholds", ErrInvalidItem)
	case i.MinLevel > i.ReorderLevel:
		return fmt.Errorf("%w: min level %.2f above reorder level %.2f", ErrInvalidItem, i.MinLevel, i.ReorderLevel)
	case i.UnitCost < 0:
		return fmt.Errorf("%w: negative unit cost", ErrInvalidItem)
	case i.LeadTimeDays < 1:
		return fmt.Errorf("%w: lead time must be at least one day", ErrInvalidItem)
	}
	return nil
}

// MovementType classifies a stock movement record
type MovementType string

const (
	MovementRecipeDeduct MovementType = "recipe_deduct"
	MovementConsumption  MovementType = "consumption"
	MovementDeduction    MovementType = "deduction"
	MovementWaste        MovementType = "waste"
	MovementReceipt      MovementType = "receipt"
	MovementAdjustment   MovementType = "adjustment"
)

// StockMovement is one signed change of an item's stock
type StockMovement struct {
	ItemID        string       `json:"item_id" db:"item_id"`
	OccurredAt    time.Time    `json:"occurred_at" db:"occurred_at"`
	QuantityDelta float64      `json:"quantity_delta" db:"quantity_delta"`
	MovementType  MovementType `json:"movement_type" db:"movement_type"`
}

// ConsumptionTrend describes the direction of daily consumption over the lookback window
type ConsumptionTrend string

const (
	TrendIncreasing ConsumptionTrend = "increasing"
	TrendFlat       ConsumptionTrend = "flat"
	TrendDeclining  ConsumptionTrend = "declining"
)

// ConsumptionProfile holds daily consumption statistics over a lookback window
type ConsumptionProfile struct {
	DailyRate    float64          `json:"daily_rate"`
	DailyStdDev  float64          `json:"daily_std_dev"`
	LookbackDays int              `json:"lookback_days"`
	Trend        ConsumptionTrend `json:"trend"`
}

// ReorderPolicy is the reorder point and safety stock for an item
type ReorderPolicy struct {
	ReorderPoint   float64 `json:"reorder_point"`
	SafetyStock    float64 `json:"safety_stock"`
	LeadTimeDemand float64 `json:"lead_time_demand"`
	LeadTimeDays   int     `json:"lead_time_days"`
	ServiceLevel   float64 `json:"service_level"`
	ZScore         float64 `json:"z_score"`
}

// EOQPlan is the economic order quantity and the yearly costs it implies
type EOQPlan struct {
	AnnualDemand           float64 `json:"annual_demand"`
	OrderingCost           float64 `json:"ordering_cost"`
	HoldingCostPerUnitYear float64 `json:"holding_cost_per_unit_per_year"`
	OrderQuantity          float64 `json:"order_quantity"`
	OrdersPerYear          float64 `json:"orders_per_year"`
	AverageInventory       float64 `json:"average_inventory"`
	AnnualHoldingCost      float64 `json:"annual_holding_cost"`
	AnnualOrderingCost     float64 `json:"annual_ordering_cost"`
	TotalAnnualCost        float64 `json:"total_annual_cost"`
}

// ProjectedDay is one day of a stock projection
type ProjectedDay struct {
	Date                 time.Time `json:"date"`
	ProjectedStock       float64   `json:"projected_stock"`
	PredictedConsumption float64   `json:"predicted_consumption"`
}

// StockProjection walks current stock through the demand forecast.
// Days stop at the stockout day; projected stock is never reported below zero.
type StockProjection struct {
	Days              []ProjectedDay `json:"days"`
	StockoutDate      *time.Time     `json:"stockout_date"`
	DaysUntilStockout *int           `json:"days_until_stockout"`
	StockStatus       StockStatus    `json:"stock_status"`
	ForecastAvailable bool           `json:"forecast_available"`
}

// FinalStock returns the last projected stock level, or current when no day was projected.
func (p StockProjection) FinalStock(current float64) float64 {
	if len(p.Days) == 0 {
		if p.DaysUntilStockout != nil {
			return 0
		}
		return current
	}
	return p.Days[len(p.Days)-1].ProjectedStock
}

// Recommendation is the single actionable outcome for an item
type Recommendation struct {
	ItemID              string     `json:"item_id"`
	ItemName            string     `json:"item_name"`
	CurrentStock        float64    `json:"current_stock"`
	Action              Action     `json:"action"`
	Urgency             Urgency    `json:"urgency"`
	Reason              string     `json:"reason"`
	RecommendedOrderQty float64    `json:"recommended_order_qty"`
	DaysUntilStockout   *int       `json:"days_until_stockout"`
	StockoutDate        *time.Time `json:"stockout_date"`
}
