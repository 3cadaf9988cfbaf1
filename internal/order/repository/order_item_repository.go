package repository

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/infrastructure/mysql"
)

type MySQLOrderItemRepository struct {
	db *sql.DB
}

func NewMySQLOrderItemRepository(db *sql.DB) *MySQLOrderItemRepository {
	return &MySQLOrderItemRepository{db: db}
}

func (r *MySQLOrderItemRepository) Insert(ctx context.Context, tx mysql.Tx, item domain.OrderItem) (uint, error) {
	query := `INSERT INTO OrderItems (orderId, productId, quantity, unitPrice) VALUES (?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, query, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice)
	if err != nil {
		return 0, fmt.Errorf("inserting order item: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

// FindByOrderID loads an order's line items. With resolveProducts the
// live product name is joined in for display; the captured unit price is
// always the stored one.
func (r *MySQLOrderItemRepository) FindByOrderID(ctx context.Context, orderID uint, resolveProducts bool) ([]domain.OrderItem, error) {
	if resolveProducts {
		query := `
			SELECT oi.id, oi.orderId, oi.productId, COALESCE(p.name, ''), oi.quantity, oi.unitPrice
			FROM OrderItems oi
			LEFT JOIN Products p ON p.id = oi.productId
			WHERE oi.orderId = ?
			ORDER BY oi.id
		`
		return r.queryItems(ctx, r.db.QueryContext, query, orderID, true)
	}

	query := `
		SELECT id, orderId, productId, quantity, unitPrice
		FROM OrderItems
		WHERE orderId = ?
		ORDER BY id
	`
	return r.queryItems(ctx, r.db.QueryContext, query, orderID, false)
}

// FindByOrderIDTx reads items inside the caller's transaction, used when
// cancellation restores stock.
func (r *MySQLOrderItemRepository) FindByOrderIDTx(ctx context.Context, tx mysql.Tx, orderID uint) ([]domain.OrderItem, error) {
	query := `
		SELECT id, orderId, productId, quantity, unitPrice
		FROM OrderItems
		WHERE orderId = ?
		ORDER BY id
	`
	return r.queryItems(ctx, tx.QueryContext, query, orderID, false)
}

type queryFunc func(ctx context.Context, query string, args ...any) (*sql.Rows, error)

func (r *MySQLOrderItemRepository) queryItems(ctx context.Context, query queryFunc, stmt string, orderID uint, withName bool) ([]domain.OrderItem, error) {
	rows, err := query(ctx, stmt, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if withName {
			err = rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice)
		} else {
			err = rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice)
		}
		if err != nil {
			return nil, fmt.Errorf("scanning order item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order item rows: %w", err)
	}

	return items, nil
}
