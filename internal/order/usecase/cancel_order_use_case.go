package usecase

import (
	"context"

	"go.uber.org/zap"

	"storefront/internal/auth"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

type CancelOrderUseCase struct {
	checkout CheckoutService
	orders   OrderRepository
	items    OrderItemRepository
	logger   *zap.Logger
}

func NewCancelOrderUseCase(
	checkout CheckoutService,
	orders OrderRepository,
	items OrderItemRepository,
	logger *zap.Logger,
) *CancelOrderUseCase {
	return &CancelOrderUseCase{
		checkout: checkout,
		orders:   orders,
		items:    items,
		logger:   logger,
	}
}

// CancelOrder cancels on behalf of the order's owner or an admin. The
// transactional state guard and stock restore live in the checkout
// service; this layer owns the authorization decision.
func (uc *CancelOrderUseCase) CancelOrder(ctx context.Context, orderID uint, caller auth.Identity) (*dto.OrderDTO, error) {
	order, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != caller.UserID && !caller.IsAdmin() {
		return nil, apperrors.NewForbiddenError("access denied")
	}

	if _, err := uc.checkout.Cancel(ctx, orderID); err != nil {
		return nil, err
	}

	uc.logger.Info("order cancelled",
		zap.Uint("orderId", orderID),
		zap.Int("callerId", caller.UserID),
	)

	return loadOrderDTO(ctx, uc.orders, uc.items, orderID, true)
}
