package report

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/domain"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/inventory"
)

// minDailyRate keeps days-of-supply finite for items with no recorded consumption
const minDailyRate = 0.1

// SortRecommendations orders recommendations by urgency descending, then by the
// soonest stockout (unknown stockouts last), then by item id.
func SortRecommendations(analyses []inventory.ItemAnalysis) []domain.Recommendation {
	sorted := sortAnalyses(analyses)
	recs := make([]domain.Recommendation, 0, len(sorted))
	for _, a := range sorted {
		recs = append(recs, a.Recommendation)
	}
	return recs
}

// sortAnalyses returns a copy of analyses in recommendation order.
func sortAnalyses(analyses []inventory.ItemAnalysis) []inventory.ItemAnalysis {
	sorted := make([]inventory.ItemAnalysis, len(analyses))
	copy(sorted, analyses)

	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := sorted[i].Recommendation, sorted[j].Recommendation
		if ri.Urgency.Rank() != rj.Urgency.Rank() {
			return ri.Urgency.Rank() > rj.Urgency.Rank()
		}
		di, dj := ri.DaysUntilStockout, rj.DaysUntilStockout
		switch {
		case di != nil && dj != nil && *di != *dj:
			return *di < *dj
		case di != nil && dj == nil:
			return true
		case di == nil && dj != nil:
			return false
		}
		return ri.ItemID < rj.ItemID
	})

	return sorted
}

// BuildReorderSummary lists the items whose action places an order.
func BuildReorderSummary(analyses []inventory.ItemAnalysis) ReorderSummary {
	summary := ReorderSummary{
		TotalEstimatedCost: decimal.Zero,
		Items:              []ReorderLine{},
	}

	for _, a := range sortAnalyses(analyses) {
		rec := a.Recommendation
		if !rec.Action.NeedsOrder() {
			continue
		}
		cost := money(rec.RecommendedOrderQty * a.Item.UnitCost)

		summary.Items = append(summary.Items, ReorderLine{
			ItemID:            rec.ItemID,
			ItemName:          rec.ItemName,
			Action:            rec.Action,
			Urgency:           rec.Urgency,
			Quantity:          rec.RecommendedOrderQty,
			EstimatedCost:     cost,
			DaysUntilStockout: rec.DaysUntilStockout,
		})
		summary.TotalQuantity += rec.RecommendedOrderQty
		summary.TotalEstimatedCost = summary.TotalEstimatedCost.Add(cost)
	}
	summary.ItemsNeedingReorder = len(summary.Items)

	return summary
}

// BuildStatusReport buckets items by stock status.
func BuildStatusReport(analyses []inventory.ItemAnalysis) StatusReport {
	report := StatusReport{
		Counts:  make(map[domain.StockStatus]int, len(domain.StockStatuses)),
		Details: make(map[domain.StockStatus][]StatusDetail, len(domain.StockStatuses)),
	}
	for _, status := range domain.StockStatuses {
		report.Counts[status] = 0
		report.Details[status] = []StatusDetail{}
	}

	for _, a := range analyses {
		status := a.Projection.StockStatus
		report.Counts[status]++
		report.Details[status] = append(report.Details[status], StatusDetail{
			ItemID:            a.Item.ItemID,
			ItemName:          a.Item.Name,
			CurrentStock:      a.Item.CurrentStock,
			MinLevel:          a.Item.MinLevel,
			ReorderLevel:      a.Item.ReorderLevel,
			ProjectedStock:    a.Projection.FinalStock(a.Item.CurrentStock),
			DaysUntilStockout: a.Projection.DaysUntilStockout,
		})
	}

	return report
}

// BuildCostAnalysis sums the yearly EOQ costs, most expensive items first.
func BuildCostAnalysis(analyses []inventory.ItemAnalysis) CostAnalysis {
	out := CostAnalysis{
		TotalHoldingCost:  decimal.Zero,
		TotalOrderingCost: decimal.Zero,
		Items:             make([]CostLine, 0, len(analyses)),
	}

	for _, a := range analyses {
		holding := money(a.Plan.AnnualHoldingCost)
		ordering := money(a.Plan.AnnualOrderingCost)
		out.Items = append(out.Items, CostLine{
			ItemID:             a.Item.ItemID,
			ItemName:           a.Item.Name,
			AnnualDemand:       a.Plan.AnnualDemand,
			OrderQuantity:      a.Plan.OrderQuantity,
			AnnualHoldingCost:  holding,
			AnnualOrderingCost: ordering,
			TotalCost:          holding.Add(ordering),
		})
		out.TotalHoldingCost = out.TotalHoldingCost.Add(holding)
		out.TotalOrderingCost = out.TotalOrderingCost.Add(ordering)
	}
	out.TotalInventoryCost = out.TotalHoldingCost.Add(out.TotalOrderingCost)

	sort.SliceStable(out.Items, func(i, j int) bool {
		if c := out.Items[i].TotalCost.Cmp(out.Items[j].TotalCost); c != 0 {
			return c > 0
		}
		return out.Items[i].ItemID < out.Items[j].ItemID
	})

	return out
}

// BuildWasteInsights flags excess stock and stock that is expired or about to expire.
func BuildWasteInsights(analyses []inventory.ItemAnalysis, asOf time.Time, opts Options) []WasteInsight {
	insights := []WasteInsight{}
	today := truncateDay(asOf)

	for _, a := range analyses {
		item := a.Item
		if item.CurrentStock <= 0 {
			continue
		}

		rate := math.Max(a.Consumption.DailyRate, minDailyRate)
		daysSupply := item.CurrentStock / rate
		if daysSupply > opts.ExcessDays {
			supply := math.Round(daysSupply*10) / 10
			excess := math.Max(0, item.CurrentStock-item.ReorderLevel)
			insights = append(insights, WasteInsight{
				ItemID:   item.ItemID,
				ItemName: item.Name,
				Issue:    IssueExcessStock,
				Recommendation: fmt.Sprintf("%.1f days of supply on hand; reduce stock towards reorder level %.1f",
					supply, item.ReorderLevel),
				DaysSupply:       &supply,
				PotentialSavings: decimal.NewNullDecimal(money(excess * item.UnitCost)),
			})
		}

		if item.EarliestExpiry == nil {
			continue
		}
		daysToExpiry := int(truncateDay(*item.EarliestExpiry).Sub(today).Hours() / 24)
		loss := decimal.NewNullDecimal(money(item.CurrentStock * item.UnitCost))

		switch {
		case daysToExpiry < 0:
			insights = append(insights, WasteInsight{
				ItemID:         item.ItemID,
				ItemName:       item.Name,
				Issue:          IssueExpired,
				Recommendation: fmt.Sprintf("Stock expired %d day(s) ago; discard and record as waste", -daysToExpiry),
				DaysToExpiry:   &daysToExpiry,
				PotentialLoss:  loss,
			})
		case daysToExpiry <= opts.ExpiryWarningDays:
			insights = append(insights, WasteInsight{
				ItemID:         item.ItemID,
				ItemName:       item.Name,
				Issue:          IssueNearExpiry,
				Recommendation: fmt.Sprintf("Stock expires in %d day(s); use it first or run a special", daysToExpiry),
				DaysToExpiry:   &daysToExpiry,
				PotentialLoss:  loss,
			})
		}
	}

	return insights
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
