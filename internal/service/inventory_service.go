package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/cache"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/domain"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/forecast"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/inventory"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/report"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/repository"
)

// InventoryService loads restaurant data, runs the optimization pipeline and
// caches batch reports.
type InventoryService struct {
	repo        repository.InventoryRepository
	forecasts   forecast.Provider
	calc        *inventory.Calculator
	analyzer    *report.Analyzer
	cache       cache.ReportCache
	horizonDays int
	now         func() time.Time
}

func NewInventoryService(
	repo repository.InventoryRepository,
	forecasts forecast.Provider,
	calc *inventory.Calculator,
	analyzer *report.Analyzer,
	cacheImpl cache.ReportCache,
	horizonDays int,
) *InventoryService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopReportCache()
	}
	if horizonDays < 1 {
		horizonDays = 14
	}
	return &InventoryService{
		repo:        repo,
		forecasts:   forecasts,
		calc:        calc,
		analyzer:    analyzer,
		cache:       cacheImpl,
		horizonDays: horizonDays,
		now:         time.Now,
	}
}

// Optimize returns the full analysis of one item. A missing forecast is not an
// error; the analysis then carries the stock-only fallback recommendation.
func (s *InventoryService) Optimize(ctx context.Context, restaurantID, itemID string) (inventory.ItemAnalysis, error) {
	asOf := s.now()

	item, err := s.repo.GetInventoryItem(ctx, restaurantID, itemID)
	if err != nil {
		return inventory.ItemAnalysis{}, err
	}

	from, to := inventory.LookbackWindow(asOf, s.calc.Params().LookbackDays)

	var (
		movements []domain.StockMovement
		series    []float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		movements, err = s.repo.GetStockMovements(gctx, restaurantID, itemID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		series, err = s.forecasts.GetDemandForecast(gctx, restaurantID, itemID, asOf, s.horizonDays)
		if errors.Is(err, domain.ErrMissingForecast) {
			log.Debug().Str("restaurant_id", restaurantID).Str("item_id", itemID).Msg("no demand forecast, using stock-only rules")
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return inventory.ItemAnalysis{}, err
	}

	return s.calc.Analyze(item, movements, series, asOf)
}

// Recommend returns the recommendation of one item.
func (s *InventoryService) Recommend(ctx context.Context, restaurantID, itemID string) (domain.Recommendation, error) {
	analysis, err := s.Optimize(ctx, restaurantID, itemID)
	if err != nil {
		return domain.Recommendation{}, err
	}
	return analysis.Recommendation, nil
}

// BatchReport returns the report over every active item of a restaurant. Reports
// are cached per restaurant, day and parameter set; the bool reports a cache hit.
func (s *InventoryService) BatchReport(ctx context.Context, restaurantID string) (*report.BatchReport, bool, error) {
	asOf := s.now()
	key := s.reportKey(restaurantID, asOf)

	if cached, ok, err := s.cache.GetReport(ctx, key); err == nil && ok {
		return cached, true, nil
	} else if err != nil {
		log.Warn().Err(err).Str("restaurant_id", restaurantID).Msg("inventory: cache get report failed")
	}

	r, degraded, err := s.buildReport(ctx, restaurantID, asOf, nil)
	if err != nil {
		return nil, false, err
	}

	// a report built without forecasts is served but not cached
	if degraded {
		return r, false, nil
	}
	if err := s.cache.SetReport(ctx, key, r); err != nil {
		log.Warn().Err(err).Str("restaurant_id", restaurantID).Msg("inventory: cache set report failed")
	}

	return r, false, nil
}

// BatchRecommend analyzes the given items only. Unknown item ids are listed as
// not_found errors. An empty list falls back to the full, cached report.
func (s *InventoryService) BatchRecommend(ctx context.Context, restaurantID string, itemIDs []string) (*report.BatchReport, error) {
	if len(itemIDs) == 0 {
		r, _, err := s.BatchReport(ctx, restaurantID)
		return r, err
	}
	r, _, err := s.buildReport(ctx, restaurantID, s.now(), itemIDs)
	return r, err
}

// InvalidateReports drops every cached report of the restaurant.
func (s *InventoryService) InvalidateReports(ctx context.Context, restaurantID string) error {
	return s.cache.InvalidateRestaurant(ctx, restaurantID)
}

func (s *InventoryService) reportKey(restaurantID string, asOf time.Time) cache.ReportKey {
	y, m, d := asOf.UTC().Date()
	return cache.ReportKey{
		RestaurantID: restaurantID,
		AsOf:         time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		HorizonDays:  s.horizonDays,
		Params:       s.calc.Params(),
		Options:      s.analyzer.Options(),
	}
}

// buildReport fetches items, movements and forecasts with one query each and
// runs the analyzer. A nil filter selects every item. The bool reports that the
// forecast fetch failed and every item fell back to the stock-only rules.
func (s *InventoryService) buildReport(ctx context.Context, restaurantID string, asOf time.Time, filter []string) (*report.BatchReport, bool, error) {
	from, to := inventory.LookbackWindow(asOf, s.calc.Params().LookbackDays)

	var (
		items     []domain.InventoryItem
		movements []domain.StockMovement
		forecasts map[string][]float64
		degraded  bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.GetInventoryItems(gctx, restaurantID)
		return err
	})
	g.Go(func() error {
		var err error
		movements, err = s.repo.GetStockMovements(gctx, restaurantID, "", from, to)
		return err
	})
	g.Go(func() error {
		var err error
		forecasts, err = s.forecasts.GetDemandForecasts(gctx, restaurantID, asOf, s.horizonDays)
		if err != nil {
			// items are still analyzed with the stock-only rules
			log.Warn().Err(err).Str("restaurant_id", restaurantID).Msg("inventory: demand forecasts unavailable")
			forecasts = nil
			degraded = true
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, false, fmt.Errorf("error loading inventory of restaurant %s: %w", restaurantID, err)
	}

	items, missing := selectItems(items, filter)
	byItem := repository.GroupMovementsByItem(movements)

	inputs := make([]report.ItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, report.ItemInput{
			Item:      item,
			Movements: byItem[item.ItemID],
			Forecast:  forecasts[item.ItemID],
		})
	}

	r, err := s.analyzer.Run(ctx, restaurantID, asOf, inputs)
	if err != nil {
		return nil, false, err
	}

	for _, id := range missing {
		r.Errors = append(r.Errors, report.ItemError{
			ItemID:  id,
			Kind:    domain.KindNotFound,
			Message: fmt.Sprintf("inventory item %s: %v", id, domain.ErrNotFound),
		})
	}

	return r, degraded, nil
}

// selectItems keeps the items named in filter, in filter order, and returns the
// ids that matched nothing.
func selectItems(items []domain.InventoryItem, filter []string) ([]domain.InventoryItem, []string) {
	if filter == nil {
		return items, nil
	}

	byID := make(map[string]domain.InventoryItem, len(items))
	for _, item := range items {
		byID[item.ItemID] = item
	}

	seen := make(map[string]bool, len(filter))
	var (
		selected []domain.InventoryItem
		missing  []string
	)
	for _, id := range filter {
		if seen[id] {
			continue
		}
		seen[id] = true
		if item, ok := byID[id]; ok {
			selected = append(selected, item)
		} else {
			missing = append(missing, id)
		}
	}
	return selected, missing
}
