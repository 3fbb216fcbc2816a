package inventory

import (
	"fmt"

	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/domain"
)

// Recommend turns the reorder policy, EOQ plan and stock projection of an item into
// one recommendation. Rules are evaluated in order and the first match wins:
//
//  1. out of stock, or stockout within th.EmergencyDays: emergency reorder
//  2. stock at or below the reorder point: reorder
//  3. stock above th.ReduceMultiplier times the reorder point with flat or
//     declining consumption: reduce (needs a forecast)
//  4. otherwise: maintain
func Recommend(
	item domain.InventoryItem,
	profile domain.ConsumptionProfile,
	policy domain.ReorderPolicy,
	plan domain.EOQPlan,
	projection domain.StockProjection,
	th Thresholds,
) domain.Recommendation {
	rec := domain.Recommendation{
		ItemID:            item.ItemID,
		ItemName:          item.Name,
		CurrentStock:      item.CurrentStock,
		DaysUntilStockout: projection.DaysUntilStockout,
		StockoutDate:      projection.StockoutDate,
	}

	days := projection.DaysUntilStockout
	stock := item.CurrentStock
	rop := policy.ReorderPoint

	switch {
	case stock <= 0:
		rec.Action = domain.ActionEmergencyReorder
		rec.Urgency = domain.UrgencyCritical
		rec.Reason = fmt.Sprintf("Out of stock (current stock %.1f)", stock)

	case days != nil && *days <= th.EmergencyDays:
		rec.Action = domain.ActionEmergencyReorder
		rec.Urgency = domain.UrgencyCritical
		rec.Reason = fmt.Sprintf("Projected stockout within %d day(s) (current stock %.1f)", *days, stock)

	case stock <= rop:
		rec.Action = domain.ActionReorder
		switch {
		case days != nil && *days <= policy.LeadTimeDays:
			rec.Urgency = domain.UrgencyHigh
			rec.Reason = fmt.Sprintf("Stock %.1f at or below reorder point %.1f; projected stockout in %d day(s) within %d-day lead time",
				stock, rop, *days, policy.LeadTimeDays)
		case projection.ForecastAvailable:
			rec.Urgency = domain.UrgencyMedium
			rec.Reason = fmt.Sprintf("Stock %.1f at or below reorder point %.1f; no stockout expected within %d-day lead time",
				stock, rop, policy.LeadTimeDays)
		default:
			rec.Urgency = domain.UrgencyMedium
			rec.Reason = fmt.Sprintf("Stock %.1f at or below reorder point %.1f; stockout date unknown (no forecast)", stock, rop)
		}

	case projection.ForecastAvailable && stock > rop*th.ReduceMultiplier && profile.Trend != domain.TrendIncreasing:
		rec.Action = domain.ActionReduce
		rec.Urgency = domain.UrgencyLow
		rec.Reason = fmt.Sprintf("Stock %.1f exceeds %.1fx reorder point %.1f with %s consumption",
			stock, th.ReduceMultiplier, rop, profile.Trend)

	default:
		rec.Action = domain.ActionMaintain
		rec.Urgency = domain.UrgencyLow
		rec.Reason = fmt.Sprintf("Stock %.1f above reorder point %.1f", stock, rop)
		if !projection.ForecastAvailable {
			rec.Reason += "; stockout date unknown (no forecast)"
		}
	}

	if rec.Action.NeedsOrder() {
		rec.RecommendedOrderQty = plan.OrderQuantity
	}

	return rec
}
