package usecase

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/dto"
)

const defaultProductImage = "https://via.placeholder.com/300x300?text=No+Image"

type ManageProductsUseCase struct {
	service Service
}

func NewManageProductsUseCase(service Service) *ManageProductsUseCase {
	return &ManageProductsUseCase{service: service}
}

func (uc *ManageProductsUseCase) CreateProduct(ctx context.Context, req dto.SaveProductRequest) (*dto.ProductDTO, error) {
	product := domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Image:       req.Image,
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if product.Image == "" {
		product.Image = defaultProductImage
	}

	created, err := uc.service.Create(ctx, product)
	if err != nil {
		return nil, err
	}

	d := dto.ProductFromDomain(*created)
	return &d, nil
}

// UpdateProduct merges the supplied fields over the stored product;
// omitted fields keep their current values.
func (uc *ManageProductsUseCase) UpdateProduct(ctx context.Context, id int, req dto.SaveProductRequest) (*dto.ProductDTO, error) {
	existing, err := uc.service.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := *existing
	if req.Name != "" {
		merged.Name = req.Name
	}
	if req.Description != "" {
		merged.Description = req.Description
	}
	if req.Category != "" {
		merged.Category = req.Category
	}
	if req.Image != "" {
		merged.Image = req.Image
	}
	if req.Price != nil {
		merged.Price = *req.Price
	}
	if req.Stock != nil {
		merged.Stock = *req.Stock
	}
	if req.IsActive != nil {
		merged.IsActive = *req.IsActive
	}

	updated, err := uc.service.Update(ctx, merged)
	if err != nil {
		return nil, err
	}

	d := dto.ProductFromDomain(*updated)
	return &d, nil
}

func (uc *ManageProductsUseCase) DeactivateProduct(ctx context.Context, id int) error {
	return uc.service.Deactivate(ctx, id)
}
