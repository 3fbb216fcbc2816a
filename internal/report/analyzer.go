package report

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/domain"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/inventory"
)

// Options tune batch execution and the waste heuristics
type Options struct {
	Workers           int
	ExcessDays        float64
	ExpiryWarningDays int
}

// DefaultOptions returns the batch defaults
func DefaultOptions() Options {
	return Options{
		Workers:           4,
		ExcessDays:        60,
		ExpiryWarningDays: 7,
	}
}

// Analyzer maps the per-item pipeline over a restaurant's items and folds the
// results into a BatchReport.
type Analyzer struct {
	calc *inventory.Calculator
	opts Options
}

func NewAnalyzer(calc *inventory.Calculator, opts Options) *Analyzer {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.ExcessDays <= 0 {
		opts.ExcessDays = DefaultOptions().ExcessDays
	}
	return &Analyzer{calc: calc, opts: opts}
}

// Options returns the effective batch options.
func (a *Analyzer) Options() Options {
	return a.opts
}

type outcome struct {
	analysis inventory.ItemAnalysis
	err      error
}

// Run analyzes every input as of asOf. Items whose data is insufficient or invalid
// are skipped and listed in Errors; items without a forecast are analyzed with the
// stock-only fallback and listed in Warnings. A configuration error aborts the run.
func (a *Analyzer) Run(ctx context.Context, restaurantID string, asOf time.Time, inputs []ItemInput) (*BatchReport, error) {
	start := time.Now()

	outcomes, err := a.analyzeParallel(ctx, asOf, inputs)
	if err != nil {
		return nil, err
	}

	report := &BatchReport{
		RestaurantID: restaurantID,
		GeneratedAt:  asOf,
		Errors:       []ItemError{},
		Warnings:     []ItemError{},
	}

	analyses := make([]inventory.ItemAnalysis, 0, len(inputs))
	for i, out := range outcomes {
		itemID := inputs[i].Item.ItemID
		if out.err != nil {
			if errors.Is(out.err, domain.ErrInvalidParameter) {
				return nil, fmt.Errorf("analyze restaurant %s: %w", restaurantID, out.err)
			}
			log.Debug().Str("restaurant_id", restaurantID).Str("item_id", itemID).Err(out.err).Msg("item skipped")
			itemsAnalyzed.WithLabelValues("skipped").Inc()
			report.Errors = append(report.Errors, ItemError{
				ItemID:  itemID,
				Kind:    domain.ErrorKind(out.err),
				Message: out.err.Error(),
			})
			continue
		}

		if !out.analysis.Projection.ForecastAvailable {
			report.Warnings = append(report.Warnings, ItemError{
				ItemID:  itemID,
				Kind:    domain.KindMissingForecast,
				Message: fmt.Sprintf("item %s: %v; stockout date unknown", itemID, domain.ErrMissingForecast),
			})
		}

		itemsAnalyzed.WithLabelValues("analyzed").Inc()
		recommendationsIssued.WithLabelValues(string(out.analysis.Recommendation.Action), string(out.analysis.Recommendation.Urgency)).Inc()
		analyses = append(analyses, out.analysis)
	}

	report.Analyses = analyses
	report.Recommendations = SortRecommendations(analyses)
	report.BatchSize = len(report.Recommendations)
	for _, rec := range report.Recommendations {
		switch rec.Urgency {
		case domain.UrgencyCritical:
			report.CriticalCount++
		case domain.UrgencyHigh:
			report.HighCount++
		}
	}

	report.ReorderSummary = BuildReorderSummary(analyses)
	report.StatusReport = BuildStatusReport(analyses)
	report.CostAnalysis = BuildCostAnalysis(analyses)
	report.WasteInsights = BuildWasteInsights(analyses, asOf, a.opts)

	duration := time.Since(start)
	batchDuration.Observe(duration.Seconds())
	log.Info().
		Str("restaurant_id", restaurantID).
		Int("items", len(inputs)).
		Int("skipped", len(report.Errors)).
		Int("without_forecast", len(report.Warnings)).
		Int("workers", a.opts.Workers).
		Dur("duration", duration).
		Msg("inventory batch analyzed")

	return report, nil
}

// analyzeParallel runs the pipeline on a worker pool. Outcomes keep input order.
func (a *Analyzer) analyzeParallel(ctx context.Context, asOf time.Time, inputs []ItemInput) ([]outcome, error) {
	outcomes := make([]outcome, len(inputs))
	if len(inputs) == 0 {
		return outcomes, nil
	}

	workerCount := a.opts.Workers
	if workerCount > len(inputs) {
		workerCount = len(inputs)
	}

	jobChan := make(chan int, len(inputs))
	var wg sync.WaitGroup

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				in := inputs[idx]
				analysis, err := a.calc.Analyze(in.Item, in.Movements, in.Forecast, asOf)
				outcomes[idx] = outcome{analysis: analysis, err: err}
			}
		}()
	}

	for idx := range inputs {
		select {
		case <-ctx.Done():
			close(jobChan)
			wg.Wait()
			return nil, ctx.Err()
		case jobChan <- idx:
		}
	}
	close(jobChan)
	wg.Wait()

	return outcomes, nil
}
