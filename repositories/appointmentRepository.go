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

const AppointmentCacheExpiry = 7 * 24 * time.Hour

var appointmentSearchColumns = []string{"reason"}

type AppointmentRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewAppointmentRepository(db *gorm.DB, cache *cache.Cache) *AppointmentRepository {
	return &AppointmentRepository{db: db, cache: cache}
}

func (r *AppointmentRepository) ownerScope(actor models.Actor) func(*gorm.DB) *gorm.DB {
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

func (r *AppointmentRepository) Create(ctx context.Context, app *models.Appointment) error {
	if app.ID == "" {
		app.ID = uuid.New().String()
	}
	if app.Status == "" {
		app.Status = models.StatusScheduled
	}
	if !models.AppointmentTransitions.Valid(app.Status) {
		return errors.New("invalid status value")
	}

	lockKey := fmt.Sprintf("appointment_lock:%s", app.ID)
	err := database.WithLock(ctx, lockKey, uuid.New().String(), func() error {
		return r.db.WithContext(ctx).Create(app).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return r.invalidate(ctx, app.ID)
}

func (r *AppointmentRepository) GetByID(ctx context.Context, actor models.Actor, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.appointmentCacheKey(id)
	var cached models.Appointment
	if hit, err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		if r.owns(actor, &cached) {
			return &cached, nil
		}
		return nil, nil
	} else if err != nil {
		log.Printf("Failed to get appointment from cache: %v", err)
	}

	var app models.Appointment
	// Cancelled appointments stay retrievable by direct lookup.
	err := r.db.WithContext(ctx).
		Preload("Patient", selectUserSummary).
		Preload("Doctor", selectUserSummary).
		Scopes(r.ownerScope(actor)).
		First(&app, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, app, AppointmentCacheExpiry); err != nil {
		log.Printf("Failed to set appointment in cache: %v", err)
	}
	return &app, nil
}

func (r *AppointmentRepository) List(ctx context.Context, actor models.Actor, c query.Criteria) ([]models.Appointment, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var total int64
	if err := r.listQuery(ctx, actor, c).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count appointments: %w", err)
	}

	var appointments []models.Appointment
	err := r.listQuery(ctx, actor, c).
		Preload("Patient", selectUserSummary).
		Preload("Doctor", selectUserSummary).
		Order("date_time ASC").
		Scopes(c.Paginate()).
		Find(&appointments).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, total, nil
}

func (r *AppointmentRepository) listQuery(ctx context.Context, actor models.Actor, c query.Criteria) *gorm.DB {
	db := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Scopes(r.ownerScope(actor), c.Scope(appointmentSearchColumns, "date_time"))
	// CANCELLED is the soft-delete state; hide it unless explicitly asked for.
	if _, ok := c.Filters["status"]; !ok {
		db = db.Where("status <> ?", models.StatusCancelled)
	}
	return db
}

func (r *AppointmentRepository) Update(ctx context.Context, actor models.Actor, id string, changes map[string]interface{}) (*models.Appointment, error) {
	existing, err := r.GetByID(ctx, actor, id)
	if err != nil || existing == nil {
		return nil, err
	}

	lockKey := fmt.Sprintf("appointment_lock:%s", id)
	err = database.WithLock(ctx, lockKey, uuid.New().String(), func() error {
		if len(changes) == 0 {
			return nil
		}
		return r.db.WithContext(ctx).Model(&models.Appointment{}).Where("id = ?", id).Updates(changes).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	if err := r.invalidate(ctx, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, actor, id)
}

// SoftDelete cancels the appointment instead of removing it.
func (r *AppointmentRepository) SoftDelete(ctx context.Context, actor models.Actor, id string) (bool, error) {
	existing, err := r.GetByID(ctx, actor, id)
	if err != nil || existing == nil {
		return false, err
	}

	lockKey := fmt.Sprintf("appointment_lock:%s", id)
	err = database.WithLock(ctx, lockKey, uuid.New().String(), func() error {
		return r.db.WithContext(ctx).Model(&models.Appointment{}).Where("id = ?", id).
			Update("status", models.StatusCancelled).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to cancel appointment: %w", err)
	}
	return true, r.invalidate(ctx, id)
}

func (r *AppointmentRepository) CountsByStatus(ctx context.Context, actor models.Actor) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("status, COUNT(*) AS count").
		Scopes(r.ownerScope(actor)).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate appointment stats: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *AppointmentRepository) owns(actor models.Actor, app *models.Appointment) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleDoctor:
		return app.DoctorID == actor.ID
	default:
		return app.PatientID == actor.ID
	}
}

func (r *AppointmentRepository) invalidate(ctx context.Context, id string) error {
	return r.cache.Delete(ctx, r.appointmentCacheKey(id))
}

func (r *AppointmentRepository) appointmentCacheKey(id string) string {
	return fmt.Sprintf("appointment_cache:%s", id)
}
