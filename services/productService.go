package services

import (
	"CareLink/models"
	"CareLink/query"
	"CareLink/repositories"
	"context"
)

type ProductService struct {
	repository *repositories.ProductRepository
}

func NewProductService(repository *repositories.ProductRepository) *ProductService {
	return &ProductService{repository: repository}
}

func (s *ProductService) Create(ctx context.Context, p *models.Product) error {
	return s.repository.Create(ctx, p)
}

func (s *ProductService) GetByID(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *ProductService) List(ctx context.Context, actor models.Actor, c query.Criteria) ([]models.Product, int64, error) {
	return s.repository.List(ctx, actor, c)
}

func (s *ProductService) Update(ctx context.Context, actor models.Actor, id string, changes map[string]interface{}) (*models.Product, error) {
	p, err := s.repository.Update(ctx, actor, id, changes)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, actor models.Actor, id string) error {
	deleted, err := s.repository.SoftDelete(ctx, actor, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// InventoryStats reports per-category counts and the total inventory value of
// the actor's visible products.
type InventoryStats struct {
	Categories map[string]int64 `json:"categories"`
	TotalValue float64          `json:"total_value"`
}

func (s *ProductService) Stats(ctx context.Context, actor models.Actor) (*InventoryStats, error) {
	counts, value, err := s.repository.InventoryStats(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &InventoryStats{Categories: counts, TotalValue: value}, nil
}
