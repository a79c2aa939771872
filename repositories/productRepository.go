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

const ProductCacheExpiry = 24 * time.Hour

// ErrInsufficientStock is returned when a stock decrement would go negative.
var ErrInsufficientStock = errors.New("insufficient stock")

var productSearchColumns = []string{"name", "category", "description"}

type ProductRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewProductRepository(db *gorm.DB, cache *cache.Cache) *ProductRepository {
	return &ProductRepository{db: db, cache: cache}
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.IsActive = true

	lockKey := fmt.Sprintf("product_lock:%s", p.ID)
	err := database.WithLock(ctx, lockKey, uuid.New().String(), func() error {
		return r.db.WithContext(ctx).Create(p).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return r.invalidate(ctx, p.ID)
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.productCacheKey(id)
	var cached models.Product
	if hit, err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	} else if err != nil {
		log.Printf("Failed to get product from cache: %v", err)
	}

	var p models.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, p, ProductCacheExpiry); err != nil {
		log.Printf("Failed to set product in cache: %v", err)
	}
	return &p, nil
}

// GetOwned fetches a product only if the actor may mutate it.
func (r *ProductRepository) GetOwned(ctx context.Context, actor models.Actor, id string) (*models.Product, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}
	if actor.Role == models.RolePharmacist && p.PharmacistID != actor.ID {
		return nil, nil
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context, actor models.Actor, c query.Criteria) ([]models.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var total int64
	if err := r.listQuery(ctx, actor, c).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	err := r.listQuery(ctx, actor, c).
		Order("name ASC").
		Scopes(c.Paginate()).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

func (r *ProductRepository) listQuery(ctx context.Context, actor models.Actor, c query.Criteria) *gorm.DB {
	db := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true).
		Scopes(c.Scope(productSearchColumns, "created_at"))
	// Pharmacists manage their own inventory; shoppers browse everything.
	if actor.Role == models.RolePharmacist {
		db = db.Where("pharmacist_id = ?", actor.ID)
	}
	return db
}

func (r *ProductRepository) Update(ctx context.Context, actor models.Actor, id string, changes map[string]interface{}) (*models.Product, error) {
	existing, err := r.GetOwned(ctx, actor, id)
	if err != nil || existing == nil {
		return nil, err
	}

	lockKey := fmt.Sprintf("product_lock:%s", id)
	err = database.WithLock(ctx, lockKey, uuid.New().String(), func() error {
		if len(changes) == 0 {
			return nil
		}
		return r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(changes).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if err := r.invalidate(ctx, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *ProductRepository) SoftDelete(ctx context.Context, actor models.Actor, id string) (bool, error) {
	existing, err := r.GetOwned(ctx, actor, id)
	if err != nil || existing == nil {
		return false, err
	}

	lockKey := fmt.Sprintf("product_lock:%s", id)
	err = database.WithLock(ctx, lockKey, uuid.New().String(), func() error {
		return r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).
			Update("is_active", false).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete product: %w", err)
	}
	return true, r.invalidate(ctx, id)
}

// DecrementStock atomically reduces stock inside the given transaction,
// failing with ErrInsufficientStock when the shelf is short.
func (r *ProductRepository) DecrementStock(tx *gorm.DB, productID string, quantity int) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", productID, ErrInsufficientStock)
	}
	return nil
}

// InventoryStats aggregates the actor's visible inventory: counts by
// category plus the total shelf value (SUM(price * stock)).
func (r *ProductRepository) InventoryStats(ctx context.Context, actor models.Actor) (map[string]int64, float64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	base := r.db.WithContext(ctx).Model(&models.Product{}).Where("is_active = ?", true)
	if actor.Role == models.RolePharmacist {
		base = base.Where("pharmacist_id = ?", actor.ID)
	}

	var rows []struct {
		Category string
		Count    int64
	}
	if err := base.Session(&gorm.Session{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to aggregate product stats: %w", err)
	}

	var value struct{ Total float64 }
	if err := base.Session(&gorm.Session{}).
		Select("COALESCE(SUM(price * stock), 0) AS total").
		Scan(&value).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to compute inventory value: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Count
	}
	return counts, value.Total, nil
}

// InvalidateCaches drops the cached copies of several products in one redis
// round trip. Used by checkout after stock decrements that bypass Update.
func (r *ProductRepository) InvalidateCaches(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.productCacheKey(id)
	}
	return r.cache.DeleteBatch(ctx, keys...)
}

func (r *ProductRepository) invalidate(ctx context.Context, id string) error {
	return r.cache.Delete(ctx, r.productCacheKey(id))
}

func (r *ProductRepository) productCacheKey(id string) string {
	return fmt.Sprintf("product_cache:%s", id)
}
