package usecase

import (
	"context"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

type mockService struct {
	GetFunc              func(ctx context.Context, id int) (*domain.Product, error)
	GetActiveProductFunc func(ctx context.Context, id int) (*domain.Product, error)
	BrowseFunc           func(ctx context.Context, filter dto.ProductFilter, page, pageSize int) ([]domain.Product, int, error)
	CategoriesFunc       func(ctx context.Context) ([]string, error)
	CreateFunc           func(ctx context.Context, p domain.Product) (*domain.Product, error)
	UpdateFunc           func(ctx context.Context, p domain.Product) (*domain.Product, error)
	DeactivateFunc       func(ctx context.Context, id int) error
}

func (m *mockService) Get(ctx context.Context, id int) (*domain.Product, error) {
	return m.GetFunc(ctx, id)
}

func (m *mockService) GetActiveProduct(ctx context.Context, id int) (*domain.Product, error) {
	return m.GetActiveProductFunc(ctx, id)
}

func (m *mockService) Browse(ctx context.Context, filter dto.ProductFilter, page, pageSize int) ([]domain.Product, int, error) {
	return m.BrowseFunc(ctx, filter, page, pageSize)
}

func (m *mockService) Categories(ctx context.Context) ([]string, error) {
	return m.CategoriesFunc(ctx)
}

func (m *mockService) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	return m.CreateFunc(ctx, p)
}

func (m *mockService) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	return m.UpdateFunc(ctx, p)
}

func (m *mockService) Deactivate(ctx context.Context, id int) error {
	return m.DeactivateFunc(ctx, id)
}

func catalogProduct(id int) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     "Yoga Mat",
		Price:    15.50,
		Category: domain.CategorySports,
		Stock:    4,
		IsActive: true,
	}
}

func TestListProducts_Defaults(t *testing.T) {
	ctx := context.Background()

	svc := &mockService{
		BrowseFunc: func(ctx context.Context, filter dto.ProductFilter, page, pageSize int) ([]domain.Product, int, error) {
			if page != 1 {
				t.Errorf("expected default page 1, got %d", page)
			}
			if pageSize != 12 {
				t.Errorf("expected default page size 12, got %d", pageSize)
			}
			return []domain.Product{catalogProduct(1)}, 30, nil
		},
	}

	uc := NewBrowseProductsUseCase(svc)

	result, err := uc.ListProducts(ctx, dto.ListProductsRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(result.Products))
	}
	if !result.Products[0].IsAvailable {
		t.Error("expected an in-stock product to be available")
	}
	if result.Pagination.TotalPages != 3 {
		t.Errorf("expected 3 pages, got %d", result.Pagination.TotalPages)
	}
}

func TestListProducts_PageSizeCapped(t *testing.T) {
	ctx := context.Background()

	svc := &mockService{
		BrowseFunc: func(ctx context.Context, filter dto.ProductFilter, page, pageSize int) ([]domain.Product, int, error) {
			if pageSize != 100 {
				t.Errorf("expected page size capped at 100, got %d", pageSize)
			}
			return nil, 0, nil
		},
	}

	uc := NewBrowseProductsUseCase(svc)

	result, err := uc.ListProducts(ctx, dto.ListProductsRequest{Page: 1, PageSize: 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Products == nil {
		t.Error("expected an empty slice, not nil")
	}
}

func TestListProducts_FilterPassedThrough(t *testing.T) {
	ctx := context.Background()

	minPrice := 10.0
	svc := &mockService{
		BrowseFunc: func(ctx context.Context, filter dto.ProductFilter, page, pageSize int) ([]domain.Product, int, error) {
			if filter.Category != domain.CategorySports {
				t.Errorf("expected category filter, got %q", filter.Category)
			}
			if filter.Search != "mat" {
				t.Errorf("expected search filter, got %q", filter.Search)
			}
			if filter.MinPrice == nil || *filter.MinPrice != minPrice {
				t.Errorf("expected min price %v, got %v", minPrice, filter.MinPrice)
			}
			return nil, 0, nil
		},
	}

	uc := NewBrowseProductsUseCase(svc)

	_, err := uc.ListProducts(ctx, dto.ListProductsRequest{
		Category: domain.CategorySports,
		Search:   "mat",
		MinPrice: &minPrice,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	ctx := context.Background()

	svc := &mockService{
		GetActiveProductFunc: func(ctx context.Context, id int) (*domain.Product, error) {
			return nil, apperrors.NewNotFoundError("product not found")
		},
	}

	uc := NewBrowseProductsUseCase(svc)

	_, err := uc.GetProduct(ctx, 99)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if _, ok := apperrors.IsNotFoundError(err); !ok {
		t.Errorf("expected NotFoundError, got %T", err)
	}
}

func TestListCategories_NeverNil(t *testing.T) {
	ctx := context.Background()

	svc := &mockService{
		CategoriesFunc: func(ctx context.Context) ([]string, error) {
			return nil, nil
		},
	}

	uc := NewBrowseProductsUseCase(svc)

	categories, err := uc.ListCategories(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if categories == nil {
		t.Error("expected an empty slice, not nil")
	}
}
