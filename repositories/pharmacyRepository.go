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

const PharmacyCacheExpiry = 7 * 24 * time.Hour

var pharmacySearchColumns = []string{"name", "address"}

type PharmacyRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewPharmacyRepository(db *gorm.DB, cache *cache.Cache) *PharmacyRepository {
	return &PharmacyRepository{db: db, cache: cache}
}

// ownerScope: pharmacists manage only their own pharmacies; everyone else
// browses the full active set (the shop is public to authenticated users).
func (r *PharmacyRepository) ownerScope(actor models.Actor, mutating bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if actor.Role == models.RolePharmacist && mutating {
			return db.Where("pharmacist_id = ?", actor.ID)
		}
		return db
	}
}

func (r *PharmacyRepository) Create(ctx context.Context, ph *models.Pharmacy) error {
	if ph.ID == "" {
		ph.ID = uuid.New().String()
	}
	ph.IsActive = true

	lockKey := fmt.Sprintf("pharmacy_lock:%s", ph.ID)
	err := database.WithLock(ctx, lockKey, uuid.New().String(), func() error {
		return r.db.WithContext(ctx).Create(ph).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create pharmacy: %w", err)
	}
	return r.invalidate(ctx, ph.ID)
}

func (r *PharmacyRepository) GetByID(ctx context.Context, actor models.Actor, id string) (*models.Pharmacy, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.pharmacyCacheKey(id)
	var cached models.Pharmacy
	if hit, err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	} else if err != nil {
		log.Printf("Failed to get pharmacy from cache: %v", err)
	}

	var ph models.Pharmacy
	err := r.db.WithContext(ctx).
		Preload("Pharmacist", selectUserSummary).
		First(&ph, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pharmacy: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, ph, PharmacyCacheExpiry); err != nil {
		log.Printf("Failed to set pharmacy in cache: %v", err)
	}
	return &ph, nil
}

// GetOwned fetches a pharmacy only if the actor may mutate it.
func (r *PharmacyRepository) GetOwned(ctx context.Context, actor models.Actor, id string) (*models.Pharmacy, error) {
	ph, err := r.GetByID(ctx, actor, id)
	if err != nil || ph == nil {
		return nil, err
	}
	if actor.Role == models.RolePharmacist && ph.PharmacistID != actor.ID {
		return nil, nil
	}
	return ph, nil
}

func (r *PharmacyRepository) List(ctx context.Context, actor models.Actor, c query.Criteria) ([]models.Pharmacy, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var total int64
	if err := r.listQuery(ctx, actor, c).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count pharmacies: %w", err)
	}

	var pharmacies []models.Pharmacy
	err := r.listQuery(ctx, actor, c).
		Preload("Pharmacist", selectUserSummary).
		Order("name ASC").
		Scopes(c.Paginate()).
		Find(&pharmacies).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pharmacies: %w", err)
	}
	return pharmacies, total, nil
}

func (r *PharmacyRepository) listQuery(ctx context.Context, actor models.Actor, c query.Criteria) *gorm.DB {
	db := r.db.WithContext(ctx).
		Model(&models.Pharmacy{}).
		Where("is_active = ?", true).
		Scopes(c.Scope(pharmacySearchColumns, "created_at"))
	// A pharmacist's own listing shows only their pharmacies.
	if actor.Role == models.RolePharmacist {
		db = db.Where("pharmacist_id = ?", actor.ID)
	}
	return db
}

func (r *PharmacyRepository) Update(ctx context.Context, actor models.Actor, id string, changes map[string]interface{}) (*models.Pharmacy, error) {
	existing, err := r.GetOwned(ctx, actor, id)
	if err != nil || existing == nil {
		return nil, err
	}

	lockKey := fmt.Sprintf("pharmacy_lock:%s", id)
	err = database.WithLock(ctx, lockKey, uuid.New().String(), func() error {
		if len(changes) == 0 {
			return nil
		}
		return r.db.WithContext(ctx).Model(&models.Pharmacy{}).Where("id = ?", id).Updates(changes).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update pharmacy: %w", err)
	}
	if err := r.invalidate(ctx, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, actor, id)
}

// SoftDelete deactivates the pharmacy and its products. The UI presents this
// as a cascade, so the products are deactivated in the same transaction.
func (r *PharmacyRepository) SoftDelete(ctx context.Context, actor models.Actor, id string) (bool, error) {
	existing, err := r.GetOwned(ctx, actor, id)
	if err != nil || existing == nil {
		return false, err
	}

	lockKey := fmt.Sprintf("pharmacy_lock:%s", id)
	err = database.WithLock(ctx, lockKey, uuid.New().String(), func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Pharmacy{}).Where("id = ?", id).
				Update("is_active", false).Error; err != nil {
				return err
			}
			return tx.Model(&models.Product{}).Where("pharmacy_id = ?", id).
				Update("is_active", false).Error
		})
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete pharmacy: %w", err)
	}
	if err := r.cache.DeleteAll(ctx, "product_cache:*"); err != nil {
		log.Printf("Failed to invalidate product caches: %v", err)
	}
	return true, r.invalidate(ctx, id)
}

func (r *PharmacyRepository) invalidate(ctx context.Context, id string) error {
	return r.cache.Delete(ctx, r.pharmacyCacheKey(id))
}

func (r *PharmacyRepository) pharmacyCacheKey(id string) string {
	return fmt.Sprintf("pharmacy_cache:%s", id)
}
