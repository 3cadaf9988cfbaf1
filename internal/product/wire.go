package product

import (
	"database/sql"

	"go.uber.org/zap"

	"storefront/internal/product/repository"
	"storefront/internal/product/service"
	"storefront/internal/product/usecase"
)

func NewModule(db *sql.DB, logger *zap.Logger) *Controller {
	repo := repository.NewMySQLProductRepository(db)
	svc := service.NewCatalogService(repo)
	browse := usecase.NewBrowseProductsUseCase(svc)
	manage := usecase.NewManageProductsUseCase(svc)
	return NewController(browse, manage, logger)
}
