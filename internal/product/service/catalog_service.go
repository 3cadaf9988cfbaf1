package service

import (
	"context"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/dto"
	"storefront/internal/errors"
)

type Repository interface {
	FindByID(ctx context.Context, id int) (*domain.Product, error)
	Search(ctx context.Context, filter dto.ProductFilter, page, pageSize int) ([]domain.Product, int, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	Insert(ctx context.Context, p domain.Product) (int, error)
	Update(ctx context.Context, p domain.Product) error
	Deactivate(ctx context.Context, id int) error
}

type CatalogService struct {
	repo Repository
}

func NewCatalogService(repo Repository) *CatalogService {
	return &CatalogService{repo: repo}
}

// Get returns a product regardless of its active flag, for admin flows.
func (s *CatalogService) Get(ctx context.Context, id int) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// GetActiveProduct returns a product visible to shoppers; inactive
// products are indistinguishable from missing ones.
func (s *CatalogService) GetActiveProduct(ctx context.Context, id int) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !product.IsActive {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}

	return product, nil
}

func (s *CatalogService) Browse(ctx context.Context, filter dto.ProductFilter, page, pageSize int) ([]domain.Product, int, error) {
	return s.repo.Search(ctx, filter, page, pageSize)
}

func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.DistinctCategories(ctx)
}

func (s *CatalogService) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	p.IsActive = true

	id, err := s.repo.Insert(ctx, p)
	if err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, id)
}

// Update overwrites the mutable fields of an existing product. The
// caller supplies the already-merged product state.
func (s *CatalogService) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if _, err := s.repo.FindByID(ctx, p.ID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, p.ID)
}

func (s *CatalogService) Deactivate(ctx context.Context, id int) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	return s.repo.Deactivate(ctx, id)
}
