package usecase

import (
	"context"

	"storefront/internal/auth"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

const (
	defaultOrderPageSize = 10
	maxOrderPageSize     = 100
)

// OrderQueriesUseCase serves the pure reads: single order fetch and
// filtered listings.
type OrderQueriesUseCase struct {
	orders OrderRepository
	items  OrderItemRepository
}

func NewOrderQueriesUseCase(orders OrderRepository, items OrderItemRepository) *OrderQueriesUseCase {
	return &OrderQueriesUseCase{
		orders: orders,
		items:  items,
	}
}

func (uc *OrderQueriesUseCase) GetOrder(ctx context.Context, orderID uint, caller auth.Identity, resolveProducts bool) (*dto.OrderDTO, error) {
	order, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != caller.UserID && !caller.IsAdmin() {
		return nil, apperrors.NewForbiddenError("access denied")
	}

	return loadOrderDTO(ctx, uc.orders, uc.items, orderID, resolveProducts)
}

// ListOrders returns a page of orders, newest first. The caller scoping
// (own orders vs all) is expressed through the filter by the transport
// layer.
func (uc *OrderQueriesUseCase) ListOrders(ctx context.Context, filter dto.OrderFilter, page, pageSize int) (*dto.OrderListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultOrderPageSize
	}
	if pageSize > maxOrderPageSize {
		pageSize = maxOrderPageSize
	}

	found, total, err := uc.orders.FindByFilter(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	orders := make([]dto.OrderDTO, 0, len(found))
	for _, order := range found {
		items, err := uc.items.FindByOrderID(ctx, order.ID, false)
		if err != nil {
			return nil, err
		}
		order.Items = items
		orders = append(orders, dto.OrderFromDomain(order))
	}

	return &dto.OrderListResponse{
		Orders:     orders,
		Pagination: dto.NewPaginationInfo(page, pageSize, total),
	}, nil
}
