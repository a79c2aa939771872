package services

import (
	"CareLink/models"
	"CareLink/query"
	"CareLink/repositories"
	"context"
)

type PharmacyService struct {
	repository *repositories.PharmacyRepository
}

func NewPharmacyService(repository *repositories.PharmacyRepository) *PharmacyService {
	return &PharmacyService{repository: repository}
}

func (s *PharmacyService) Create(ctx context.Context, ph *models.Pharmacy) error {
	return s.repository.Create(ctx, ph)
}

func (s *PharmacyService) GetByID(ctx context.Context, actor models.Actor, id string) (*models.Pharmacy, error) {
	ph, err := s.repository.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if ph == nil {
		return nil, ErrNotFound
	}
	return ph, nil
}

func (s *PharmacyService) List(ctx context.Context, actor models.Actor, c query.Criteria) ([]models.Pharmacy, int64, error) {
	return s.repository.List(ctx, actor, c)
}

func (s *PharmacyService) Update(ctx context.Context, actor models.Actor, id string, changes map[string]interface{}) (*models.Pharmacy, error) {
	ph, err := s.repository.Update(ctx, actor, id, changes)
	if err != nil {
		return nil, err
	}
	if ph == nil {
		return nil, ErrNotFound
	}
	return ph, nil
}

// Delete deactivates the pharmacy and every product shelved under it.
func (s *PharmacyService) Delete(ctx context.Context, actor models.Actor, id string) error {
	deleted, err := s.repository.SoftDelete(ctx, actor, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
