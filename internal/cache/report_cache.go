package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/config"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/inventory"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/report"
)

const (
	reportKeyPrefix     = "inventory:report"
	reportScanBatchSize = 100
)

// ReportKey identifies one cached batch report
type ReportKey struct {
	RestaurantID string
	AsOf         time.Time
	HorizonDays  int
	Params       inventory.Params
	Options      report.Options
}

type ReportCache interface {
	GetReport(ctx context.Context, key ReportKey) (*report.BatchReport, bool, error)
	SetReport(ctx context.Context, key ReportKey, r *report.BatchReport) error
	InvalidateRestaurant(ctx context.Context, restaurantID string) error
}

type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopReportCache struct{}

// NewReportCache returns a Redis backed cache, or a noop cache when caching is disabled.
func NewReportCache(cfg config.CacheConfig) (ReportCache, error) {
	if !cfg.Enabled {
		return &noopReportCache{}, nil
	}

	client, err := NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return NewRedisReportCache(client, cacheTTL(cfg)), nil
}

func NewRedisReportCache(client *redis.Client, ttl time.Duration) ReportCache {
	return &redisReportCache{client: client, ttl: ttl}
}

func NewNoopReportCache() ReportCache {
	return &noopReportCache{}
}

func (c *redisReportCache) GetReport(ctx context.Context, key ReportKey) (*report.BatchReport, bool, error) {
	payload, err := c.client.Get(ctx, buildReportKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var r report.BatchReport
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, false, fmt.Errorf("decode inventory report cache: %w", err)
	}

	return &r, true, nil
}

func (c *redisReportCache) SetReport(ctx context.Context, key ReportKey, r *report.BatchReport) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode inventory report cache: %w", err)
	}

	if err := c.client.Set(ctx, buildReportKey(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisReportCache) InvalidateRestaurant(ctx context.Context, restaurantID string) error {
	return deleteKeysWithPrefix(ctx, c.client, restaurantKeyPrefix(restaurantID), reportScanBatchSize)
}

func (n *noopReportCache) GetReport(ctx context.Context, key ReportKey) (*report.BatchReport, bool, error) {
	return nil, false, nil
}

func (n *noopReportCache) SetReport(ctx context.Context, key ReportKey, r *report.BatchReport) error {
	return nil
}

func (n *noopReportCache) InvalidateRestaurant(ctx context.Context, restaurantID string) error {
	return nil
}

func restaurantKeyPrefix(restaurantID string) string {
	return fmt.Sprintf("%s:%s:", reportKeyPrefix, strings.TrimSpace(restaurantID))
}

func buildReportKey(key ReportKey) string {
	return restaurantKeyPrefix(key.RestaurantID) + reportKeyHash(key)
}

// reportKeyHash fingerprints everything that changes the report contents besides the restaurant.
func reportKeyHash(key ReportKey) string {
	p := key.Params
	parts := []string{
		"as_of=" + key.AsOf.UTC().Format(time.RFC3339),
		fmt.Sprintf("horizon=%d", key.HorizonDays),
		fmt.Sprintf("service_level=%.4f", float64(p.ServiceLevel)),
		fmt.Sprintf("lookback=%d", p.LookbackDays),
		fmt.Sprintf("ordering_cost=%.4f", p.OrderingCost),
		fmt.Sprintf("holding=%.4f/%.4f", p.HoldingCostPerUnitYear, p.HoldingCostRate),
		fmt.Sprintf("thresholds=%d/%d/%d/%.2f/%.2f/%.2f",
			p.Thresholds.EmergencyDays, p.Thresholds.CriticalDays, p.Thresholds.LowDays,
			p.Thresholds.MediumMultiplier, p.Thresholds.ReduceMultiplier, p.Thresholds.TrendTolerance),
		fmt.Sprintf("waste=%.2f/%d", key.Options.ExcessDays, key.Options.ExpiryWarningDays),
	}

	depletion := make([]string, 0, len(p.DepletionTypes))
	for _, t := range p.DepletionTypes {
		depletion = append(depletion, string(t))
	}
	sort.Strings(depletion)
	parts = append(parts, "depletion="+strings.Join(depletion, ","))

	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
