package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	"storefront/internal/errors"
	"storefront/internal/infrastructure/mysql"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (mysql.Tx, error)
}

type ProductRepository interface {
	FindByIDForUpdate(ctx context.Context, tx mysql.Tx, id int) (*domain.Product, error)
	DecrementStock(ctx context.Context, tx mysql.Tx, id, quantity int) (bool, error)
	IncrementStock(ctx context.Context, tx mysql.Tx, id, quantity int) error
}

type OrderRepository interface {
	Insert(ctx context.Context, tx mysql.Tx, order domain.Order) (uint, error)
	FindByIDForUpdate(ctx context.Context, tx mysql.Tx, id uint) (*domain.Order, error)
	UpdateStatusTx(ctx context.Context, tx mysql.Tx, id uint, status string) error
}

type OrderItemRepository interface {
	Insert(ctx context.Context, tx mysql.Tx, item domain.OrderItem) (uint, error)
	FindByOrderIDTx(ctx context.Context, tx mysql.Tx, orderID uint) ([]domain.OrderItem, error)
}

// CheckoutService runs the order placement and cancellation state
// mutations. Both are all-or-nothing: every stock adjustment and the
// order write happen in one transaction.
type CheckoutService struct {
	db        TransactionManager
	products  ProductRepository
	orders    OrderRepository
	items     OrderItemRepository
	logger    *zap.Logger
	txTimeout time.Duration
}

func NewCheckoutService(
	db TransactionManager,
	products ProductRepository,
	orders OrderRepository,
	items OrderItemRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
) *CheckoutService {
	return &CheckoutService{
		db:        db,
		products:  products,
		orders:    orders,
		items:     items,
		logger:    logger,
		txTimeout: txTimeout,
	}
}

// PlaceOrder reserves stock for every line and persists the order with
// status pending. Lines must arrive sorted by product id ascending so
// concurrent checkouts acquire row locks in the same order.
func (s *CheckoutService) PlaceOrder(
	ctx context.Context,
	userID int,
	lines []dto.CartLine,
	shipping domain.ShippingAddress,
	paymentMethod string,
) (*domain.Order, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	// Rollback is a no-op after a successful commit.
	defer tx.Rollback()

	items := make([]domain.OrderItem, 0, len(lines))
	totalAmount := 0.0

	for _, line := range lines {
		product, err := s.products.FindByIDForUpdate(txCtx, tx, line.ProductID)
		if err != nil {
			if _, ok := errors.IsNotFoundError(err); ok {
				return nil, errors.NewNotFoundError(fmt.Sprintf("product %d not found or unavailable", line.ProductID))
			}
			return nil, err
		}

		if !product.IsActive {
			return nil, errors.NewNotFoundError(fmt.Sprintf("product %d not found or unavailable", line.ProductID))
		}

		if product.Stock < line.Quantity {
			return nil, errors.NewInsufficientStockError(line.ProductID, line.Quantity, product.Stock)
		}

		decremented, err := s.products.DecrementStock(txCtx, tx, line.ProductID, line.Quantity)
		if err != nil {
			return nil, err
		}
		if !decremented {
			// The conditional update is the authority; the check above
			// only produces a friendlier Available count.
			return nil, errors.NewInsufficientStockError(line.ProductID, line.Quantity, product.Stock)
		}

		items = append(items, domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
		})
		totalAmount += product.Price * float64(line.Quantity)
	}

	order := domain.Order{
		OrderNumber:   domain.NewOrderNumber(),
		UserID:        userID,
		TotalAmount:   totalAmount,
		Status:        domain.OrderStatusPending,
		Shipping:      shipping,
		PaymentMethod: paymentMethod,
		PaymentStatus: domain.PaymentStatusPending,
	}

	orderID, err := s.orders.Insert(txCtx, tx, order)
	if err != nil {
		return nil, err
	}

	for i := range items {
		items[i].OrderID = orderID
		itemID, err := s.items.Insert(txCtx, tx, items[i])
		if err != nil {
			return nil, err
		}
		items[i].ID = itemID
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit checkout transaction", zap.Uint("orderId", orderID), zap.Error(err))
		return nil, err
	}

	order.ID = orderID
	order.Items = items

	s.logger.Info("order placed",
		zap.Uint("orderId", orderID),
		zap.String("orderNumber", order.OrderNumber),
		zap.Int("userId", userID),
		zap.Int("itemCount", len(items)),
		zap.Float64("totalAmount", totalAmount),
	)

	return &order, nil
}

// Cancel restores stock for every line item and moves the order to
// cancelled. The status guard runs under the row lock so a concurrent
// ship/cancel cannot slip between check and write.
func (s *CheckoutService) Cancel(ctx context.Context, orderID uint) (*domain.Order, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	order, err := s.orders.FindByIDForUpdate(txCtx, tx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == domain.OrderStatusCancelled {
		return nil, errors.NewInvalidStateError("order is already cancelled")
	}
	if !order.CanCancel() {
		return nil, errors.NewInvalidStateError("cannot cancel order that has been shipped or delivered")
	}

	items, err := s.items.FindByOrderIDTx(txCtx, tx, orderID)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		if err := s.products.IncrementStock(txCtx, tx, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	if err := s.orders.UpdateStatusTx(txCtx, tx, orderID, domain.OrderStatusCancelled); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit cancel transaction", zap.Uint("orderId", orderID), zap.Error(err))
		return nil, err
	}

	order.Status = domain.OrderStatusCancelled
	order.Items = items

	s.logger.Info("order cancelled",
		zap.Uint("orderId", orderID),
		zap.Int("itemCount", len(items)),
	)

	return order, nil
}
