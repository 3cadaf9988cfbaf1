package usecase

import (
	"context"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

type UpdateOrderStatusUseCase struct {
	orders OrderRepository
	items  OrderItemRepository
	logger *zap.Logger
}

func NewUpdateOrderStatusUseCase(orders OrderRepository, items OrderItemRepository, logger *zap.Logger) *UpdateOrderStatusUseCase {
	return &UpdateOrderStatusUseCase{
		orders: orders,
		items:  items,
		logger: logger,
	}
}

// UpdateStatus overwrites the order status. Beyond requiring a known
// status value there is no transition table; cancellation is the only
// guarded transition and lives in the cancel flow.
func (uc *UpdateOrderStatusUseCase) UpdateStatus(ctx context.Context, orderID uint, status string) (*dto.OrderDTO, error) {
	if status == "" {
		return nil, apperrors.NewValidationError("status is required", apperrors.ValidationDetail{
			Field:   "status",
			Message: "status is required",
		})
	}
	if !domain.IsValidOrderStatus(status) {
		return nil, apperrors.NewValidationError("unknown status", apperrors.ValidationDetail{
			Field:   "status",
			Message: "status must be one of pending, processing, shipped, delivered, cancelled",
		})
	}

	order, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := uc.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}

	uc.logger.Info("order status updated",
		zap.Uint("orderId", orderID),
		zap.String("from", order.Status),
		zap.String("to", status),
	)

	return loadOrderDTO(ctx, uc.orders, uc.items, orderID, true)
}
