package usecase

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/dto"
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

type Service interface {
	Get(ctx context.Context, id int) (*domain.Product, error)
	GetActiveProduct(ctx context.Context, id int) (*domain.Product, error)
	Browse(ctx context.Context, filter dto.ProductFilter, page, pageSize int) ([]domain.Product, int, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	Deactivate(ctx context.Context, id int) error
}

type BrowseProductsUseCase struct {
	service Service
}

func NewBrowseProductsUseCase(service Service) *BrowseProductsUseCase {
	return &BrowseProductsUseCase{service: service}
}

func (uc *BrowseProductsUseCase) ListProducts(ctx context.Context, req dto.ListProductsRequest) (*dto.ListProductsResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filter := dto.ProductFilter{
		Category:  req.Category,
		Search:    req.Search,
		MinPrice:  req.MinPrice,
		MaxPrice:  req.MaxPrice,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}

	found, total, err := uc.service.Browse(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	products := make([]dto.ProductDTO, 0, len(found))
	for _, p := range found {
		products = append(products, dto.ProductFromDomain(p))
	}

	return &dto.ListProductsResponse{
		Products:   products,
		Pagination: dto.NewPaginationInfo(page, pageSize, total),
	}, nil
}

func (uc *BrowseProductsUseCase) GetProduct(ctx context.Context, id int) (*dto.ProductDTO, error) {
	product, err := uc.service.GetActiveProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	d := dto.ProductFromDomain(*product)
	return &d, nil
}

func (uc *BrowseProductsUseCase) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := uc.service.Categories(ctx)
	if err != nil {
		return nil, err
	}

	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}
