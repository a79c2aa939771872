package services

import (
	"CareLink/models"
	"CareLink/query"
	"context"
	"fmt"
)

type recordStore interface {
	Create(ctx context.Context, rec *models.MedicalRecord) error
	GetByID(ctx context.Context, actor models.Actor, id string) (*models.MedicalRecord, error)
	List(ctx context.Context, actor models.Actor, c query.Criteria) ([]models.MedicalRecord, int64, error)
	Update(ctx context.Context, actor models.Actor, id string, changes map[string]interface{}) (*models.MedicalRecord, error)
	SoftDelete(ctx context.Context, actor models.Actor, id string) (bool, error)
	CountsByStatus(ctx context.Context, actor models.Actor) (map[string]int64, error)
}

type RecordService struct {
	repository recordStore
}

func NewRecordService(repository recordStore) *RecordService {
	return &RecordService{repository: repository}
}

func (s *RecordService) Create(ctx context.Context, rec *models.MedicalRecord) error {
	return s.repository.Create(ctx, rec)
}

func (s *RecordService) GetByID(ctx context.Context, actor models.Actor, id string) (*models.MedicalRecord, error) {
	rec, err := s.repository.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (s *RecordService) List(ctx context.Context, actor models.Actor, c query.Criteria) ([]models.MedicalRecord, int64, error) {
	return s.repository.List(ctx, actor, c)
}

func (s *RecordService) Update(ctx context.Context, actor models.Actor, id string, changes map[string]interface{}) (*models.MedicalRecord, error) {
	rec, err := s.repository.Update(ctx, actor, id, changes)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

// UpdateStatus moves the record through its lifecycle, rejecting jumps the
// transition table does not allow.
func (s *RecordService) UpdateStatus(ctx context.Context, actor models.Actor, id, status string) (*models.MedicalRecord, error) {
	if !models.RecordTransitions.Valid(status) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStatus, status)
	}
	rec, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !models.RecordTransitions.Allowed(rec.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, rec.Status, status)
	}
	return s.Update(ctx, actor, id, map[string]interface{}{"status": status})
}

func (s *RecordService) Delete(ctx context.Context, actor models.Actor, id string) error {
	deleted, err := s.repository.SoftDelete(ctx, actor, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *RecordService) Stats(ctx context.Context, actor models.Actor) (map[string]int64, error) {
	return s.repository.CountsByStatus(ctx, actor)
}
