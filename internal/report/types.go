package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/domain"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/inventory"
)

// ItemInput is everything the pipeline needs for one item. An empty Forecast
// means the forecast provider had nothing for the item.
type ItemInput struct {
	Item      domain.InventoryItem
	Movements []domain.StockMovement
	Forecast  []float64
}

// ItemError records an item that was skipped, or analyzed with a caveat.
type ItemError struct {
	ItemID  string `json:"item_id"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// BatchReport aggregates the per-item analyses of one restaurant
type BatchReport struct {
	RestaurantID    string                   `json:"restaurant_id"`
	GeneratedAt     time.Time                `json:"generated_at"`
	BatchSize       int                      `json:"batch_size"`
	CriticalCount   int                      `json:"critical_count"`
	HighCount       int                      `json:"high_count"`
	Recommendations []domain.Recommendation  `json:"recommendations"`
	Analyses        []inventory.ItemAnalysis `json:"analyses"`
	ReorderSummary  ReorderSummary           `json:"reorder_summary"`
	StatusReport    StatusReport             `json:"status_report"`
	CostAnalysis    CostAnalysis             `json:"cost_analysis"`
	WasteInsights   []WasteInsight           `json:"waste_insights"`
	Errors          []ItemError              `json:"errors"`
	Warnings        []ItemError              `json:"warnings"`
}

// Analysis returns the analysis of itemID, if it was part of the batch.
func (r *BatchReport) Analysis(itemID string) (inventory.ItemAnalysis, bool) {
	for _, a := range r.Analyses {
		if a.Item.ItemID == itemID {
			return a, true
		}
	}
	return inventory.ItemAnalysis{}, false
}

type ReorderLine struct {
	ItemID            string          `json:"item_id"`
	ItemName          string          `json:"item_name"`
	Action            domain.Action   `json:"action"`
	Urgency           domain.Urgency  `json:"urgency"`
	Quantity          float64         `json:"quantity"`
	EstimatedCost     decimal.Decimal `json:"estimated_cost"`
	DaysUntilStockout *int            `json:"days_until_stockout"`
}

type ReorderSummary struct {
	ItemsNeedingReorder int             `json:"items_needing_reorder"`
	TotalQuantity       float64         `json:"total_quantity"`
	TotalEstimatedCost  decimal.Decimal `json:"total_estimated_cost"`
	Items               []ReorderLine   `json:"items"`
}

type StatusDetail struct {
	ItemID            string  `json:"item_id"`
	ItemName          string  `json:"item_name"`
	CurrentStock      float64 `json:"current_stock"`
	MinLevel          float64 `json:"min_level"`
	ReorderLevel      float64 `json:"reorder_level"`
	ProjectedStock    float64 `json:"projected_stock"`
	DaysUntilStockout *int    `json:"days_until_stockout"`
}

// StatusReport always carries every status bucket, empty or not.
type StatusReport struct {
	Counts  map[domain.StockStatus]int            `json:"summary_counts"`
	Details map[domain.StockStatus][]StatusDetail `json:"details_by_bucket"`
}

type CostLine struct {
	ItemID             string          `json:"item_id"`
	ItemName           string          `json:"item_name"`
	AnnualDemand       float64         `json:"annual_demand"`
	OrderQuantity      float64         `json:"order_quantity"`
	AnnualHoldingCost  decimal.Decimal `json:"annual_holding_cost"`
	AnnualOrderingCost decimal.Decimal `json:"annual_ordering_cost"`
	TotalCost          decimal.Decimal `json:"total_cost"`
}

type CostAnalysis struct {
	TotalHoldingCost   decimal.Decimal `json:"total_holding_cost"`
	TotalOrderingCost  decimal.Decimal `json:"total_ordering_cost"`
	TotalInventoryCost decimal.Decimal `json:"total_inventory_cost"`
	Items              []CostLine      `json:"per_item"`
}

// WasteIssue labels a waste insight
type WasteIssue string

const (
	IssueExcessStock WasteIssue = "excess_stock"
	IssueNearExpiry  WasteIssue = "near_expiry"
	IssueExpired     WasteIssue = "expired"
)

type WasteInsight struct {
	ItemID           string              `json:"item_id"`
	ItemName         string              `json:"item_name"`
	Issue            WasteIssue          `json:"issue"`
	Recommendation   string              `json:"recommendation"`
	DaysSupply       *float64            `json:"days_supply,omitempty"`
	DaysToExpiry     *int                `json:"days_to_expiry,omitempty"`
	PotentialSavings decimal.NullDecimal `json:"potential_savings"`
	PotentialLoss    decimal.NullDecimal `json:"potential_loss"`
}
