package repositories

import (
	"CareLink/cache"
	"CareLink/database"
	"CareLink/models"
	"CareLink/query"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const OrderCacheExpiry = 24 * time.Hour

var orderSearchColumns = []string{"shipping_address", "status"}

type OrderRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewOrderRepository(db *gorm.DB, cache *cache.Cache) *OrderRepository {
	return &OrderRepository{db: db, cache: cache}
}

func (r *OrderRepository) ownerScope(actor models.Actor) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if actor.IsAdmin() {
			return db
		}
		return db.Where("patient_id = ?", actor.ID)
	}
}

// Stocker adjusts product stock as part of an order transaction.
type Stocker interface {
	DecrementStock(tx *gorm.DB, productID string, quantity int) error
	InvalidateCaches(ctx context.Context, ids []string) error
}

// CreateWithItems persists the order, its line items, and the matching stock
// decrements in a single transaction. Any short shelf aborts the whole order.
func (r *OrderRepository) CreateWithItems(ctx context.Context, order *models.Order, products Stocker) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.Status == "" {
		order.Status = models.StatusPending
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}

	lockKey := fmt.Sprintf("order_lock:%s", order.ID)
	err := database.WithLock(ctx, lockKey, uuid.New().String(), func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, item := range order.Items {
				if err := products.DecrementStock(tx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
			return tx.Create(order).Error
		})
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			return err
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	productIDs := make([]string, len(order.Items))
	for i, item := range order.Items {
		productIDs[i] = item.ProductID
	}
	if err := products.InvalidateCaches(ctx, productIDs); err != nil {
		log.Printf("Failed to invalidate product caches: %v", err)
	}
	return r.invalidate(ctx, order.ID)
}

func (r *OrderRepository) GetByID(ctx context.Context, actor models.Actor, id string) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.orderCacheKey(id)
	var cached models.Order
	if hit, err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		if r.owns(actor, &cached) {
			return &cached, nil
		}
		return nil, nil
	} else if err != nil {
		log.Printf("Failed to get order from cache: %v", err)
	}

	var order models.Order
	// Cancelled orders stay retrievable by direct lookup.
	err := r.db.WithContext(ctx).
		Preload("Items").
		Scopes(r.ownerScope(actor)).
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, order, OrderCacheExpiry); err != nil {
		log.Printf("Failed to set order in cache: %v", err)
	}
	return &order, nil
}

func (r *OrderRepository) List(ctx context.Context, actor models.Actor, c query.Criteria) ([]models.Order, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var total int64
	if err := r.listQuery(ctx, actor, c).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	err := r.listQuery(ctx, actor, c).
		Preload("Items").
		Order("created_at DESC").
		Scopes(c.Paginate()).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

func (r *OrderRepository) listQuery(ctx context.Context, actor models.Actor, c query.Criteria) *gorm.DB {
	db := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Scopes(r.ownerScope(actor), c.Scope(orderSearchColumns, "created_at"))
	// CANCELLED is the soft-delete state; hide it unless explicitly asked for.
	if _, ok := c.Filters["status"]; !ok {
		db = db.Where("status <> ?", models.StatusCancelled)
	}
	return db
}

func (r *OrderRepository) Update(ctx context.Context, actor models.Actor, id string, changes map[string]interface{}) (*models.Order, error) {
	existing, err := r.GetByID(ctx, actor, id)
	if err != nil || existing == nil {
		return nil, err
	}

	lockKey := fmt.Sprintf("order_lock:%s", id)
	err = database.WithLock(ctx, lockKey, uuid.New().String(), func() error {
		if len(changes) == 0 {
			return nil
		}
		return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(changes).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	if err := r.invalidate(ctx, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, actor, id)
}

// SoftDelete cancels the order instead of removing it.
func (r *OrderRepository) SoftDelete(ctx context.Context, actor models.Actor, id string) (bool, error) {
	existing, err := r.GetByID(ctx, actor, id)
	if err != nil || existing == nil {
		return false, err
	}

	lockKey := fmt.Sprintf("order_lock:%s", id)
	err = database.WithLock(ctx, lockKey, uuid.New().String(), func() error {
		return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).
			Update("status", models.StatusCancelled).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to cancel order: %w", err)
	}
	return true, r.invalidate(ctx, id)
}

func (r *OrderRepository) CountsByStatus(ctx context.Context, actor models.Actor) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Scopes(r.ownerScope(actor)).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate order stats: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *OrderRepository) owns(actor models.Actor, order *models.Order) bool {
	return actor.IsAdmin() || order.PatientID == actor.ID
}

func (r *OrderRepository) invalidate(ctx context.Context, id string) error {
	return r.cache.Delete(ctx, r.orderCacheKey(id))
}

func (r *OrderRepository) orderCacheKey(id string) string {
	return fmt.Sprintf("order_cache:%s", id)
}
