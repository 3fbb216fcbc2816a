// internal/repository/inventory_repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/domain"
)

// Querier is the read side of sqlx used by the repositories.
type Querier interface {
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

type InventoryRepository interface {
	GetInventoryItems(ctx context.Context, restaurantID string) ([]domain.InventoryItem, error)
	GetInventoryItem(ctx context.Context, restaurantID, itemID string) (domain.InventoryItem, error)
	// GetStockMovements returns movements in [from, to) ordered by time. An empty
	// itemID returns the movements of every item of the restaurant.
	GetStockMovements(ctx context.Context, restaurantID, itemID string, from, to time.Time) ([]domain.StockMovement, error)
}

// itemColumns aggregates the live batches of an item into its stock snapshot.
const itemColumns = `
		SELECT
			ii.id::text AS item_id,
			ii.restaurant_id::text AS restaurant_id,
			ii.name AS name,
			COALESCE(ic.name, 'Uncategorized') AS category,
			ii.min_level AS min_level,
			ii.reorder_level AS reorder_level,
			COALESCE(SUM(b.remaining_base), 0) AS current_stock,
			COALESCE(AVG(b.unit_cost_per_base), 0) AS unit_cost,
			COALESCE(ii.lead_time_days, $2) AS lead_time_days,
			MIN(b.expiry_date) AS earliest_expiry
		FROM inventory_inventoryitem ii
		LEFT JOIN inventory_category ic ON ii.category_id = ic.id
		LEFT JOIN inventory_batch b ON ii.id = b.item_id
			AND b.remaining_base > 0
		WHERE ii.restaurant_id::text = $1
		  AND ii.is_active = TRUE
`

type inventoryRepository struct {
	db              Querier
	defaultLeadTime int
}

// NewInventoryRepository creates a repository; defaultLeadTime fills items
// without a configured supplier lead time.
func NewInventoryRepository(db Querier, defaultLeadTime int) InventoryRepository {
	if defaultLeadTime < 1 {
		defaultLeadTime = 1
	}
	return &inventoryRepository{db: db, defaultLeadTime: defaultLeadTime}
}

func (r *inventoryRepository) GetInventoryItems(ctx context.Context, restaurantID string) ([]domain.InventoryItem, error) {
	query := itemColumns + `
		GROUP BY ii.id, ic.name
		ORDER BY ii.id
	`

	var items []domain.InventoryItem
	if err := r.db.SelectContext(ctx, &items, query, restaurantID, r.defaultLeadTime); err != nil {
		return nil, fmt.Errorf("error getting inventory items: %w", err)
	}

	return items, nil
}

func (r *inventoryRepository) GetInventoryItem(ctx context.Context, restaurantID, itemID string) (domain.InventoryItem, error) {
	query := itemColumns + `
		  AND ii.id::text = $3
		GROUP BY ii.id, ic.name
	`

	var item domain.InventoryItem
	err := r.db.GetContext(ctx, &item, query, restaurantID, r.defaultLeadTime, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.InventoryItem{}, fmt.Errorf("inventory item %s of restaurant %s: %w", itemID, restaurantID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("error getting inventory item: %w", err)
	}

	return item, nil
}

func (r *inventoryRepository) GetStockMovements(ctx context.Context, restaurantID, itemID string, from, to time.Time) ([]domain.StockMovement, error) {
	query := `
		SELECT
			sm.item_id::text AS item_id,
			sm.created_at AS occurred_at,
			sm.qty_base AS quantity_delta,
			sm.movement_type AS movement_type
		FROM inventory_stockmovement sm
		JOIN inventory_inventoryitem ii ON ii.id = sm.item_id
		WHERE ii.restaurant_id::text = $1
		  AND sm.created_at >= $2
		  AND sm.created_at < $3
		  AND ($4 = '' OR sm.item_id::text = $4)
		ORDER BY sm.created_at, sm.id
	`

	var movements []domain.StockMovement
	if err := r.db.SelectContext(ctx, &movements, query, restaurantID, from, to, itemID); err != nil {
		return nil, fmt.Errorf("error getting stock movements: %w", err)
	}

	return movements, nil
}

// GroupMovementsByItem splits a restaurant-wide movement list per item, keeping order.
func GroupMovementsByItem(movements []domain.StockMovement) map[string][]domain.StockMovement {
	grouped := make(map[string][]domain.StockMovement)
	for _, m := range movements {
		grouped[m.ItemID] = append(grouped[m.ItemID], m)
	}
	return grouped
}
