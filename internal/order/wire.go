package order

import (
	"database/sql"

	"go.uber.org/zap"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/infrastructure/mysql"
	"storefront/internal/order/controller"
	orderrepo "storefront/internal/order/repository"
	"storefront/internal/order/service"
	"storefront/internal/order/usecase"
	productrepo "storefront/internal/product/repository"
)

func NewModule(db *sql.DB, idempotency cache.IdempotencyStore, cfg *config.Config, logger *zap.Logger) *controller.OrderController {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	orderItemRepo := orderrepo.NewMySQLOrderItemRepository(db)
	productRepo := productrepo.NewMySQLProductRepository(db)

	checkoutSvc := service.NewCheckoutService(
		mysql.NewTxManager(db),
		productRepo,
		orderRepo,
		orderItemRepo,
		logger,
		cfg.Order.CheckoutTxTimeout,
	)

	place := usecase.NewPlaceOrderUseCase(
		checkoutSvc,
		orderRepo,
		orderItemRepo,
		idempotency,
		logger,
		cfg.Order.MaxRetryAttempts,
	)
	cancel := usecase.NewCancelOrderUseCase(checkoutSvc, orderRepo, orderItemRepo, logger)
	queries := usecase.NewOrderQueriesUseCase(orderRepo, orderItemRepo)
	updateStatus := usecase.NewUpdateOrderStatusUseCase(orderRepo, orderItemRepo, logger)

	return controller.NewOrderController(place, cancel, queries, updateStatus, logger)
}
