package usecase

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/dto"
)

type CheckoutService interface {
	PlaceOrder(ctx context.Context, userID int, lines []dto.CartLine, shipping domain.ShippingAddress, paymentMethod string) (*domain.Order, error)
	Cancel(ctx context.Context, orderID uint) (*domain.Order, error)
}

type OrderRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	FindByFilter(ctx context.Context, filter dto.OrderFilter, page, pageSize int) ([]domain.Order, int, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
}

type OrderItemRepository interface {
	FindByOrderID(ctx context.Context, orderID uint, resolveProducts bool) ([]domain.OrderItem, error)
}

type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

func loadOrderDTO(ctx context.Context, orders OrderRepository, items OrderItemRepository, id uint, resolveProducts bool) (*dto.OrderDTO, error) {
	order, err := orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	orderItems, err := items.FindByOrderID(ctx, id, resolveProducts)
	if err != nil {
		return nil, err
	}
	order.Items = orderItems

	d := dto.OrderFromDomain(*order)
	return &d, nil
}
