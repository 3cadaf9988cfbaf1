package usecase

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"storefront/internal/auth"
	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
)

func TestCancelOrder_ByOwner(t *testing.T) {
	ctx := context.Background()

	cancelled := false
	checkout := &mockCheckoutService{
		CancelFunc: func(ctx context.Context, orderID uint) (*domain.Order, error) {
			cancelled = true
			order := storedOrder(orderID, 1)
			order.Status = domain.OrderStatusCancelled
			return order, nil
		},
	}
	orders := &mockOrderRepository{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			order := storedOrder(id, 1)
			if cancelled {
				order.Status = domain.OrderStatusCancelled
			}
			return order, nil
		},
	}
	items := &mockOrderItemRepository{
		FindByOrderIDFunc: func(ctx context.Context, orderID uint, resolveProducts bool) ([]domain.OrderItem, error) {
			return storedItems(), nil
		},
	}

	uc := NewCancelOrderUseCase(checkout, orders, items, zap.NewNop())

	result, err := uc.CancelOrder(ctx, 42, auth.Identity{UserID: 1, Role: domain.RoleCustomer})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cancelled {
		t.Error("expected the checkout service to be invoked")
	}
	if result.Status != domain.OrderStatusCancelled {
		t.Errorf("expected status cancelled, got %q", result.Status)
	}
}

func TestCancelOrder_ByAdminOnForeignOrder(t *testing.T) {
	ctx := context.Background()

	checkout := &mockCheckoutService{
		CancelFunc: func(ctx context.Context, orderID uint) (*domain.Order, error) {
			return storedOrder(orderID, 1), nil
		},
	}
	orders := &mockOrderRepository{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			return storedOrder(id, 1), nil
		},
	}
	items := &mockOrderItemRepository{
		FindByOrderIDFunc: func(ctx context.Context, orderID uint, resolveProducts bool) ([]domain.OrderItem, error) {
			return storedItems(), nil
		},
	}

	uc := NewCancelOrderUseCase(checkout, orders, items, zap.NewNop())

	if _, err := uc.CancelOrder(ctx, 42, auth.Identity{UserID: 99, Role: domain.RoleAdmin}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCancelOrder_ForeignOrderForbidden(t *testing.T) {
	ctx := context.Background()

	checkout := &mockCheckoutService{
		CancelFunc: func(ctx context.Context, orderID uint) (*domain.Order, error) {
			t.Fatal("checkout must not run for a foreign order")
			return nil, nil
		},
	}
	orders := &mockOrderRepository{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			return storedOrder(id, 1), nil
		},
	}

	uc := NewCancelOrderUseCase(checkout, orders, &mockOrderItemRepository{}, zap.NewNop())

	_, err := uc.CancelOrder(ctx, 42, auth.Identity{UserID: 99, Role: domain.RoleCustomer})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if _, ok := apperrors.IsForbiddenError(err); !ok {
		t.Errorf("expected ForbiddenError, got %T", err)
	}
}

func TestCancelOrder_NotFound(t *testing.T) {
	ctx := context.Background()

	orders := &mockOrderRepository{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			return nil, apperrors.NewNotFoundError("order not found")
		},
	}

	uc := NewCancelOrderUseCase(&mockCheckoutService{}, orders, &mockOrderItemRepository{}, zap.NewNop())

	_, err := uc.CancelOrder(ctx, 42, auth.Identity{UserID: 1, Role: domain.RoleCustomer})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if _, ok := apperrors.IsNotFoundError(err); !ok {
		t.Errorf("expected NotFoundError, got %T", err)
	}
}

func TestCancelOrder_StateGuardPropagates(t *testing.T) {
	ctx := context.Background()

	checkout := &mockCheckoutService{
		CancelFunc: func(ctx context.Context, orderID uint) (*domain.Order, error) {
			return nil, apperrors.NewInvalidStateError("cannot cancel order that has been shipped or delivered")
		},
	}
	orders := &mockOrderRepository{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			order := storedOrder(id, 1)
			order.Status = domain.OrderStatusShipped
			return order, nil
		},
	}

	uc := NewCancelOrderUseCase(checkout, orders, &mockOrderItemRepository{}, zap.NewNop())

	_, err := uc.CancelOrder(ctx, 42, auth.Identity{UserID: 1, Role: domain.RoleCustomer})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if _, ok := apperrors.IsInvalidStateError(err); !ok {
		t.Errorf("expected InvalidStateError, got %T", err)
	}
}
