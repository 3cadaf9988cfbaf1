package product

import (
	"context"

	"storefront/internal/dto"
)

type BrowseUseCase interface {
	ListProducts(ctx context.Context, req dto.ListProductsRequest) (*dto.ListProductsResponse, error)
	GetProduct(ctx context.Context, id int) (*dto.ProductDTO, error)
	ListCategories(ctx context.Context) ([]string, error)
}

type ManageUseCase interface {
	CreateProduct(ctx context.Context, req dto.SaveProductRequest) (*dto.ProductDTO, error)
	UpdateProduct(ctx context.Context, id int, req dto.SaveProductRequest) (*dto.ProductDTO, error)
	DeactivateProduct(ctx context.Context, id int) error
}
