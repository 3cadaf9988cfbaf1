package usecase

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

const (
	idempotencyScope = "order-create"
	maxOrderLines    = 100
	maxLineQuantity  = 10000
)

const defaultShippingCountry = "India"

type PlaceOrderUseCase struct {
	checkout         CheckoutService
	orders           OrderRepository
	items            OrderItemRepository
	idempotency      IdempotencyStore
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewPlaceOrderUseCase(
	checkout CheckoutService,
	orders OrderRepository,
	items OrderItemRepository,
	idempotency IdempotencyStore,
	logger *zap.Logger,
	maxRetryAttempts int,
) *PlaceOrderUseCase {
	return &PlaceOrderUseCase{
		checkout:         checkout,
		orders:           orders,
		items:            items,
		idempotency:      idempotency,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *PlaceOrderUseCase) PlaceOrder(ctx context.Context, userID int, req dto.CreateOrderRequest, idempotencyKey string) (*dto.OrderDTO, error) {
	if err := validateCreateOrderRequest(req); err != nil {
		return nil, err
	}

	uc.logger.Info("order placement started",
		zap.Int("userId", userID),
		zap.Int("itemCount", len(req.Items)),
	)

	if idempotencyKey != "" {
		if existing, done := uc.recallOrder(ctx, idempotencyKey); done {
			return existing, nil
		}

		locked, err := uc.idempotency.TryLock(ctx, idempotencyScope, idempotencyKey)
		if err != nil {
			uc.logger.Warn("idempotency lock failed, proceeding without", zap.Error(err))
		} else if !locked {
			// A duplicate beat us to it; return its order if it finished.
			if existing, done := uc.recallOrder(ctx, idempotencyKey); done {
				return existing, nil
			}
			return nil, apperrors.NewInvalidStateError("an order for this idempotency key is already being created")
		}
	}

	shipping := domain.ShippingAddress{
		Street:  req.ShippingAddress.Street,
		City:    req.ShippingAddress.City,
		State:   req.ShippingAddress.State,
		ZipCode: req.ShippingAddress.ZipCode,
		Country: req.ShippingAddress.Country,
	}
	if shipping.Country == "" {
		shipping.Country = defaultShippingCountry
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = domain.PaymentMethodCOD
	}

	// Consistent lock acquisition order across concurrent checkouts.
	lines := make([]dto.CartLine, len(req.Items))
	copy(lines, req.Items)
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })

	placed, err := uc.placeWithRetry(ctx, userID, lines, shipping, paymentMethod)
	if err != nil {
		return nil, err
	}

	if idempotencyKey != "" {
		if err := uc.idempotency.Remember(ctx, idempotencyScope, idempotencyKey, strconv.FormatUint(uint64(placed.ID), 10)); err != nil {
			uc.logger.Warn("failed to remember idempotency key", zap.Uint("orderId", placed.ID), zap.Error(err))
		}
	}

	return loadOrderDTO(ctx, uc.orders, uc.items, placed.ID, true)
}

func (uc *PlaceOrderUseCase) recallOrder(ctx context.Context, idempotencyKey string) (*dto.OrderDTO, bool) {
	val, found, err := uc.idempotency.Recall(ctx, idempotencyScope, idempotencyKey)
	if err != nil {
		uc.logger.Warn("idempotency recall failed", zap.Error(err))
		return nil, false
	}
	if !found {
		return nil, false
	}

	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return nil, false
	}

	order, err := loadOrderDTO(ctx, uc.orders, uc.items, uint(id), true)
	if err != nil {
		uc.logger.Warn("failed to load remembered order", zap.String("key", idempotencyKey), zap.Error(err))
		return nil, false
	}

	uc.logger.Info("returning remembered order for idempotency key", zap.Uint("orderId", order.ID))
	return order, true
}

func (uc *PlaceOrderUseCase) placeWithRetry(
	ctx context.Context,
	userID int,
	lines []dto.CartLine,
	shipping domain.ShippingAddress,
	paymentMethod string,
) (*domain.Order, error) {
	maxAttempts := uc.maxRetryAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		order, err := uc.checkout.PlaceOrder(ctx, userID, lines, shipping, paymentMethod)
		if err == nil {
			return order, nil
		}

		if !isDeadlockError(err) {
			return nil, err
		}

		if attempt < maxAttempts {
			backoff := backoffs[len(backoffs)-1]
			if attempt-1 < len(backoffs) {
				backoff = backoffs[attempt-1]
			}
			jitter := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
			time.Sleep(jitter)
			uc.logger.Warn("deadlock detected, retrying checkout",
				zap.Int("attempt", attempt),
				zap.Int("maxAttempts", maxAttempts),
			)
		}
	}

	return nil, apperrors.NewDeadlockError("max retries exceeded")
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}

func validateCreateOrderRequest(req dto.CreateOrderRequest) error {
	var details []apperrors.ValidationDetail

	if len(req.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "order must contain at least one item",
		})
	}
	if len(req.Items) > maxOrderLines {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items exceeds maximum of 100",
		})
	}

	seen := make(map[int]bool)
	for idx, item := range req.Items {
		field := "items[" + strconv.Itoa(idx) + "]"
		if item.ProductID <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   field + ".productId",
				Message: "productId must be a positive integer",
			})
		}
		if seen[item.ProductID] {
			details = append(details, apperrors.ValidationDetail{
				Field:   field + ".productId",
				Message: "productId must not be duplicated",
			})
		}
		seen[item.ProductID] = true

		if item.Quantity < 1 || item.Quantity > maxLineQuantity {
			details = append(details, apperrors.ValidationDetail{
				Field:   field + ".quantity",
				Message: "quantity must be between 1 and 10000",
			})
		}
	}

	addr := req.ShippingAddress
	if addr.Street == "" {
		details = append(details, apperrors.ValidationDetail{Field: "shippingAddress.street", Message: "street is required"})
	}
	if addr.City == "" {
		details = append(details, apperrors.ValidationDetail{Field: "shippingAddress.city", Message: "city is required"})
	}
	if addr.State == "" {
		details = append(details, apperrors.ValidationDetail{Field: "shippingAddress.state", Message: "state is required"})
	}
	if addr.ZipCode == "" {
		details = append(details, apperrors.ValidationDetail{Field: "shippingAddress.zipCode", Message: "zipCode is required"})
	}

	if req.PaymentMethod != "" && !domain.IsValidPaymentMethod(req.PaymentMethod) {
		details = append(details, apperrors.ValidationDetail{
			Field:   "paymentMethod",
			Message: "unknown payment method",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
