package services

import (
	"CareLink/models"
	"CareLink/query"
	"context"
	"fmt"
)

type prescriptionStore interface {
	Create(ctx context.Context, p *models.Prescription) error
	GetByID(ctx context.Context, actor models.Actor, id string) (*models.Prescription, error)
	List(ctx context.Context, actor models.Actor, c query.Criteria) ([]models.Prescription, int64, error)
	Update(ctx context.Context, actor models.Actor, id string, changes map[string]interface{}, medications []models.Medication) (*models.Prescription, error)
	SoftDelete(ctx context.Context, actor models.Actor, id string) (bool, error)
	CountsByStatus(ctx context.Context, actor models.Actor) (map[string]int64, error)
}

type PrescriptionService struct {
	repository prescriptionStore
}

func NewPrescriptionService(repository prescriptionStore) *PrescriptionService {
	return &PrescriptionService{repository: repository}
}

func (s *PrescriptionService) Create(ctx context.Context, p *models.Prescription) error {
	return s.repository.Create(ctx, p)
}

func (s *PrescriptionService) GetByID(ctx context.Context, actor models.Actor, id string) (*models.Prescription, error) {
	p, err := s.repository.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *PrescriptionService) List(ctx context.Context, actor models.Actor, c query.Criteria) ([]models.Prescription, int64, error) {
	return s.repository.List(ctx, actor, c)
}

// Update applies field changes and an optional wholesale medication swap in a
// single repository call; a nil medications slice leaves the list untouched.
func (s *PrescriptionService) Update(ctx context.Context, actor models.Actor, id string, changes map[string]interface{}, medications []models.Medication) (*models.Prescription, error) {
	p, err := s.repository.Update(ctx, actor, id, changes, medications)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *PrescriptionService) UpdateStatus(ctx context.Context, actor models.Actor, id, status string) (*models.Prescription, error) {
	if !models.PrescriptionTransitions.Valid(status) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStatus, status)
	}
	p, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !models.PrescriptionTransitions.Allowed(p.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.Status, status)
	}
	return s.Update(ctx, actor, id, map[string]interface{}{"status": status}, nil)
}

func (s *PrescriptionService) Delete(ctx context.Context, actor models.Actor, id string) error {
	deleted, err := s.repository.SoftDelete(ctx, actor, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *PrescriptionService) Stats(ctx context.Context, actor models.Actor) (map[string]int64, error) {
	return s.repository.CountsByStatus(ctx, actor)
}
