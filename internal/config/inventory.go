package config

import (
	"time"

	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/domain"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/inventory"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/report"
)

// Params maps the configured values onto calculator parameters.
func (c InventoryConfig) Params() inventory.Params {
	depletion := make([]domain.MovementType, 0, len(c.DepletionTypes))
	for _, t := range c.DepletionTypes {
		depletion = append(depletion, domain.MovementType(t))
	}

	return inventory.Params{
		ServiceLevel:           inventory.ServiceLevel(c.ServiceLevel),
		LookbackDays:           c.LookbackDays,
		OrderingCost:           c.OrderingCost,
		HoldingCostPerUnitYear: c.HoldingCostPerUnitYear,
		HoldingCostRate:        c.HoldingCostRate,
		DepletionTypes:         depletion,
		Thresholds: inventory.Thresholds{
			EmergencyDays:    c.EmergencyDays,
			CriticalDays:     c.CriticalDays,
			LowDays:          c.LowDays,
			MediumMultiplier: c.MediumMultiplier,
			ReduceMultiplier: c.ReduceMultiplier,
			TrendTolerance:   c.TrendTolerance,
		},
	}
}

// ReportTTL returns the cache lifetime of batch reports.
func (c CacheConfig) ReportTTL() time.Duration {
	return time.Duration(c.ReportTTLSeconds) * time.Second
}

func (c InventoryConfig) ReportOptions() report.Options {
	return report.Options{
		Workers:           c.Workers,
		ExcessDays:        c.ExcessDays,
		ExpiryWarningDays: c.ExpiryWarningDays,
	}
}
