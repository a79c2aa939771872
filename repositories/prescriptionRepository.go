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

const PrescriptionCacheExpiry = 7 * 24 * time.Hour

var prescriptionSearchColumns = []string{"diagnosis", "notes"}

type PrescriptionRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewPrescriptionRepository(db *gorm.DB, cache *cache.Cache) *PrescriptionRepository {
	return &PrescriptionRepository{db: db, cache: cache}
}

func (r *PrescriptionRepository) ownerScope(actor models.Actor) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch actor.Role {
		case models.RoleAdmin, models.RolePharmacist:
			// Pharmacists see every active prescription so they can dispense.
			return db
		case models.RoleDoctor:
			return db.Where("doctor_id = ?", actor.ID)
		default:
			return db.Where("patient_id = ?", actor.ID)
		}
	}
}

// Create persists the prescription and its medications in one transaction.
func (r *PrescriptionRepository) Create(ctx context.Context, p *models.Prescription) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = models.StatusActive
	}
	p.IsActive = true
	for i := range p.Medications {
		p.Medications[i].PrescriptionID = p.ID
	}

	lockKey := fmt.Sprintf("prescription_lock:%s", p.ID)
	err := database.WithLock(ctx, lockKey, uuid.New().String(), func() error {
		return r.db.WithContext(ctx).Create(p).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create prescription: %w", err)
	}
	return r.invalidate(ctx, p.ID)
}

func (r *PrescriptionRepository) GetByID(ctx context.Context, actor models.Actor, id string) (*models.Prescription, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.prescriptionCacheKey(id)
	var cached models.Prescription
	if hit, err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		if r.owns(actor, &cached) {
			return &cached, nil
		}
		return nil, nil
	} else if err != nil {
		log.Printf("Failed to get prescription from cache: %v", err)
	}

	var p models.Prescription
	err := r.db.WithContext(ctx).
		Preload("Medications").
		Preload("Patient", selectUserSummary).
		Preload("Doctor", selectUserSummary).
		Scopes(r.ownerScope(actor)).
		First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, p, PrescriptionCacheExpiry); err != nil {
		log.Printf("Failed to set prescription in cache: %v", err)
	}
	return &p, nil
}

func (r *PrescriptionRepository) List(ctx context.Context, actor models.Actor, c query.Criteria) ([]models.Prescription, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var total int64
	if err := r.listQuery(ctx, actor, c).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count prescriptions: %w", err)
	}

	var prescriptions []models.Prescription
	err := r.listQuery(ctx, actor, c).
		Preload("Medications").
		Preload("Patient", selectUserSummary).
		Preload("Doctor", selectUserSummary).
		Order("created_at DESC").
		Scopes(c.Paginate()).
		Find(&prescriptions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return prescriptions, total, nil
}

func (r *PrescriptionRepository) listQuery(ctx context.Context, actor models.Actor, c query.Criteria) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Prescription{}).
		Where("is_active = ?", true).
		Scopes(r.ownerScope(actor), c.Scope(prescriptionSearchColumns, "created_at"))
}

// Update applies scalar field changes and, when medications is non-nil, swaps
// the medication list wholesale, all inside one transaction so a partial edit
// can never be observed.
func (r *PrescriptionRepository) Update(ctx context.Context, actor models.Actor, id string, changes map[string]interface{}, medications []models.Medication) (*models.Prescription, error) {
	existing, err := r.GetByID(ctx, actor, id)
	if err != nil || existing == nil {
		return nil, err
	}

	for i := range medications {
		medications[i].ID = 0
		medications[i].PrescriptionID = id
	}

	lockKey := fmt.Sprintf("prescription_lock:%s", id)
	err = database.WithLock(ctx, lockKey, uuid.New().String(), func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if len(changes) > 0 {
				if err := tx.Model(&models.Prescription{}).Where("id = ?", id).Updates(changes).Error; err != nil {
					return err
				}
			}
			if medications == nil {
				return nil
			}
			if err := tx.Where("prescription_id = ?", id).Delete(&models.Medication{}).Error; err != nil {
				return err
			}
			if len(medications) == 0 {
				return nil
			}
			return tx.Create(&medications).Error
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update prescription: %w", err)
	}
	if err := r.invalidate(ctx, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, actor, id)
}

func (r *PrescriptionRepository) SoftDelete(ctx context.Context, actor models.Actor, id string) (bool, error) {
	existing, err := r.GetByID(ctx, actor, id)
	if err != nil || existing == nil {
		return false, err
	}

	lockKey := fmt.Sprintf("prescription_lock:%s", id)
	err = database.WithLock(ctx, lockKey, uuid.New().String(), func() error {
		return r.db.WithContext(ctx).Model(&models.Prescription{}).Where("id = ?", id).
			Updates(map[string]interface{}{"is_active": false, "status": models.StatusCancelled}).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete prescription: %w", err)
	}
	return true, r.invalidate(ctx, id)
}

func (r *PrescriptionRepository) CountsByStatus(ctx context.Context, actor models.Actor) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.Prescription{}).
		Select("status, COUNT(*) AS count").
		Where("is_active = ?", true).
		Scopes(r.ownerScope(actor)).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate prescription stats: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *PrescriptionRepository) owns(actor models.Actor, p *models.Prescription) bool {
	switch actor.Role {
	case models.RoleAdmin, models.RolePharmacist:
		return true
	case models.RoleDoctor:
		return p.DoctorID == actor.ID
	default:
		return p.PatientID == actor.ID
	}
}

func (r *PrescriptionRepository) invalidate(ctx context.Context, id string) error {
	return r.cache.Delete(ctx, r.prescriptionCacheKey(id))
}

func (r *PrescriptionRepository) prescriptionCacheKey(id string) string {
	return fmt.Sprintf("prescription_cache:%s", id)
}
