package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/dto"
	"storefront/internal/errors"
	"storefront/internal/infrastructure/mysql"
)

const productColumns = `id, name, description, price, category, image, stock,
	       ratingAverage, ratingCount, isActive, createdAt, updatedAt`

// Sort keys accepted from the outside, mapped to real column names.
var sortColumns = map[string]string{
	"createdAt": "createdAt",
	"price":     "price",
	"name":      "name",
	"rating":    "ratingAverage",
}

type MySQLProductRepository struct {
	db *sql.DB
}

func NewMySQLProductRepository(db *sql.DB) *MySQLProductRepository {
	return &MySQLProductRepository{db: db}
}

func scanProduct(row interface{ Scan(...any) error }) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Image,
		&p.Stock, &p.RatingAverage, &p.RatingCount, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MySQLProductRepository) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM Products WHERE id = ?`, productColumns)

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}

	return p, nil
}

// FindByIDForUpdate locks the product row for the duration of the
// caller's transaction.
func (r *MySQLProductRepository) FindByIDForUpdate(ctx context.Context, tx mysql.Tx, id int) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM Products WHERE id = ? FOR UPDATE`, productColumns)

	p, err := scanProduct(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product for update: %w", err)
	}

	return p, nil
}

func (r *MySQLProductRepository) Search(ctx context.Context, filter dto.ProductFilter, page, pageSize int) ([]domain.Product, int, error) {
	conditions := []string{"isActive = 1"}
	args := []any{}

	if filter.Category != "" && filter.Category != "all" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}

	if filter.Search != "" {
		conditions = append(conditions, "(name LIKE ? OR description LIKE ?)")
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}

	if filter.MinPrice != nil {
		conditions = append(conditions, "price >= ?")
		args = append(args, *filter.MinPrice)
	}

	if filter.MaxPrice != nil {
		conditions = append(conditions, "price <= ?")
		args = append(args, *filter.MaxPrice)
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM Products WHERE %s`, where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	sortColumn, ok := sortColumns[filter.SortBy]
	if !ok {
		sortColumn = "createdAt"
	}
	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		direction = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM Products WHERE %s ORDER BY %s %s LIMIT ? OFFSET ?`,
		productColumns, where, sortColumn, direction)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, total, nil
}

func (r *MySQLProductRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT category FROM Products WHERE isActive = 1 ORDER BY category`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scanning category row: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}

	return categories, nil
}

func (r *MySQLProductRepository) Insert(ctx context.Context, p domain.Product) (int, error) {
	query := `
		INSERT INTO Products (name, description, price, category, image, stock, ratingAverage, ratingCount, isActive)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		p.Name, p.Description, p.Price, p.Category, p.Image, p.Stock,
		p.RatingAverage, p.RatingCount, p.IsActive,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting product: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return int(lastInsertID), nil
}

func (r *MySQLProductRepository) Update(ctx context.Context, p domain.Product) error {
	query := `
		UPDATE Products
		SET name = ?, description = ?, price = ?, category = ?, image = ?, stock = ?, isActive = ?
		WHERE id = ?
	`

	if _, err := r.db.ExecContext(ctx, query,
		p.Name, p.Description, p.Price, p.Category, p.Image, p.Stock, p.IsActive, p.ID,
	); err != nil {
		return fmt.Errorf("updating product: %w", err)
	}

	return nil
}

// Deactivate soft-deletes; products are never physically removed.
func (r *MySQLProductRepository) Deactivate(ctx context.Context, id int) error {
	query := `UPDATE Products SET isActive = 0 WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deactivating product: %w", err)
	}

	return nil
}

// DecrementStock performs a conditional decrement; it returns false when
// the product is missing or the decrement would take stock below zero,
// so two racing checkouts cannot both pass the availability check.
func (r *MySQLProductRepository) DecrementStock(ctx context.Context, tx mysql.Tx, id, quantity int) (bool, error) {
	query := `UPDATE Products SET stock = stock - ? WHERE id = ? AND stock >= ?`

	result, err := tx.ExecContext(ctx, query, quantity, id, quantity)
	if err != nil {
		return false, fmt.Errorf("decrementing stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *MySQLProductRepository) IncrementStock(ctx context.Context, tx mysql.Tx, id, quantity int) error {
	query := `UPDATE Products SET stock = stock + ? WHERE id = ?`

	if _, err := tx.ExecContext(ctx, query, quantity, id); err != nil {
		return fmt.Errorf("incrementing stock: %w", err)
	}

	return nil
}
