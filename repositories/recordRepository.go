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

const (
	RecordCacheExpiry = 7 * 24 * time.Hour
	StatsCacheExpiry  = 5 * time.Minute
)

// recordSearchColumns is the fixed set of columns the free-text search term
// is OR'd across.
var recordSearchColumns = []string{"title", "description", "record_type"}

type RecordRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewRecordRepository(db *gorm.DB, cache *cache.Cache) *RecordRepository {
	return &RecordRepository{db: db, cache: cache}
}

// ownerScope narrows queries to rows the actor may see: doctors to records
// they created, patients to records about them, admins to everything.
func (r *RecordRepository) ownerScope(actor models.Actor) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch actor.Role {
		case models.RoleAdmin:
			return db
		case models.RoleDoctor:
			return db.Where("doctor_id = ?", actor.ID)
		default:
			return db.Where("patient_id = ?", actor.ID)
		}
	}
}

func (r *RecordRepository) Create(ctx context.Context, rec *models.MedicalRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Status == "" {
		rec.Status = models.StatusActive
	}
	rec.IsActive = true

	lockKey := fmt.Sprintf("record_lock:%s", rec.ID)
	err := database.WithLock(ctx, lockKey, uuid.New().String(), func() error {
		return r.db.WithContext(ctx).Create(rec).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create medical record: %w", err)
	}
	return r.invalidate(ctx, rec.ID)
}

func (r *RecordRepository) GetByID(ctx context.Context, actor models.Actor, id string) (*models.MedicalRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.recordCacheKey(id)
	var cached models.MedicalRecord
	if hit, err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		if r.owns(actor, &cached) {
			return &cached, nil
		}
		return nil, nil
	} else if err != nil {
		log.Printf("Failed to get record from cache: %v", err)
	}

	var rec models.MedicalRecord
	// Soft-deleted records stay retrievable by direct lookup.
	err := r.db.WithContext(ctx).
		Preload("Patient", selectUserSummary).
		Preload("Doctor", selectUserSummary).
		Scopes(r.ownerScope(actor)).
		First(&rec, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get medical record: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, rec, RecordCacheExpiry); err != nil {
		log.Printf("Failed to set record in cache: %v", err)
	}
	return &rec, nil
}

func (r *RecordRepository) List(ctx context.Context, actor models.Actor, c query.Criteria) ([]models.MedicalRecord, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var total int64
	if err := r.listQuery(ctx, actor, c).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count medical records: %w", err)
	}

	var records []models.MedicalRecord
	err := r.listQuery(ctx, actor, c).
		Preload("Patient", selectUserSummary).
		Preload("Doctor", selectUserSummary).
		Order("created_at DESC").
		Scopes(c.Paginate()).
		Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list medical records: %w", err)
	}
	return records, total, nil
}

func (r *RecordRepository) listQuery(ctx context.Context, actor models.Actor, c query.Criteria) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.MedicalRecord{}).
		Where("is_active = ?", true).
		Scopes(r.ownerScope(actor), c.Scope(recordSearchColumns, "diagnosis_date"))
}

// Update merges the given column changes into the record. Columns absent from
// the map are left untouched, so repeating the same update is idempotent.
func (r *RecordRepository) Update(ctx context.Context, actor models.Actor, id string, changes map[string]interface{}) (*models.MedicalRecord, error) {
	existing, err := r.GetByID(ctx, actor, id)
	if err != nil || existing == nil {
		return nil, err
	}

	lockKey := fmt.Sprintf("record_lock:%s", id)
	err = database.WithLock(ctx, lockKey, uuid.New().String(), func() error {
		if len(changes) == 0 {
			return nil
		}
		return r.db.WithContext(ctx).Model(&models.MedicalRecord{}).Where("id = ?", id).Updates(changes).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update medical record: %w", err)
	}
	if err := r.invalidate(ctx, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, actor, id)
}

// SoftDelete flips is_active instead of removing the row. Returns false when
// no owned record matches.
func (r *RecordRepository) SoftDelete(ctx context.Context, actor models.Actor, id string) (bool, error) {
	existing, err := r.GetByID(ctx, actor, id)
	if err != nil || existing == nil {
		return false, err
	}

	lockKey := fmt.Sprintf("record_lock:%s", id)
	err = database.WithLock(ctx, lockKey, uuid.New().String(), func() error {
		return r.db.WithContext(ctx).Model(&models.MedicalRecord{}).Where("id = ?", id).
			Update("is_active", false).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete medical record: %w", err)
	}
	return true, r.invalidate(ctx, id)
}

// CountsByStatus aggregates the actor's visible records per status.
func (r *RecordRepository) CountsByStatus(ctx context.Context, actor models.Actor) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := fmt.Sprintf("record_stats:%s_%s", actor.Role, actor.ID)
	cached := map[string]int64{}
	if hit, err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.MedicalRecord{}).
		Select("status, COUNT(*) AS count").
		Where("is_active = ?", true).
		Scopes(r.ownerScope(actor)).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate record stats: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	if err := r.cache.SetJSON(ctx, cacheKey, counts, StatsCacheExpiry); err != nil {
		log.Printf("Failed to cache record stats: %v", err)
	}
	return counts, nil
}

func (r *RecordRepository) owns(actor models.Actor, rec *models.MedicalRecord) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleDoctor:
		return rec.DoctorID == actor.ID
	default:
		return rec.PatientID == actor.ID
	}
}

func (r *RecordRepository) invalidate(ctx context.Context, id string) error {
	if err := r.cache.Delete(ctx, r.recordCacheKey(id)); err != nil {
		return fmt.Errorf("failed to delete record cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "record_stats:*")
}

func (r *RecordRepository) recordCacheKey(id string) string {
	return fmt.Sprintf("record_cache:%s", id)
}

// statusCount is the scan target of the per-status aggregation queries.
type statusCount struct {
	Status string
	Count  int64
}

// selectUserSummary limits preloaded user rows to display fields.
func selectUserSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id, username, email, first_name, last_name, date_of_birth")
}
