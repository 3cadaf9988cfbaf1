package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
	"storefront/internal/infrastructure/mysql"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (f *fakeTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return nil, nil
}

func (f *fakeTx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return nil, nil
}

func (f *fakeTx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return nil
}

func (f *fakeTx) Commit() error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback() error {
	f.rolledBack = true
	return nil
}

type fakeTxManager struct {
	tx *fakeTx
}

func (m *fakeTxManager) BeginTx(ctx context.Context, opts *sql.TxOptions) (mysql.Tx, error) {
	return m.tx, nil
}

type mockProductRepository struct {
	FindByIDForUpdateFunc func(ctx context.Context, tx mysql.Tx, id int) (*domain.Product, error)
	DecrementStockFunc    func(ctx context.Context, tx mysql.Tx, id, quantity int) (bool, error)
	IncrementStockFunc    func(ctx context.Context, tx mysql.Tx, id, quantity int) error
}

func (m *mockProductRepository) FindByIDForUpdate(ctx context.Context, tx mysql.Tx, id int) (*domain.Product, error) {
	return m.FindByIDForUpdateFunc(ctx, tx, id)
}

func (m *mockProductRepository) DecrementStock(ctx context.Context, tx mysql.Tx, id, quantity int) (bool, error) {
	return m.DecrementStockFunc(ctx, tx, id, quantity)
}

func (m *mockProductRepository) IncrementStock(ctx context.Context, tx mysql.Tx, id, quantity int) error {
	return m.IncrementStockFunc(ctx, tx, id, quantity)
}

type mockOrderRepository struct {
	InsertFunc            func(ctx context.Context, tx mysql.Tx, order domain.Order) (uint, error)
	FindByIDForUpdateFunc func(ctx context.Context, tx mysql.Tx, id uint) (*domain.Order, error)
	UpdateStatusTxFunc    func(ctx context.Context, tx mysql.Tx, id uint, status string) error
}

func (m *mockOrderRepository) Insert(ctx context.Context, tx mysql.Tx, order domain.Order) (uint, error) {
	return m.InsertFunc(ctx, tx, order)
}

func (m *mockOrderRepository) FindByIDForUpdate(ctx context.Context, tx mysql.Tx, id uint) (*domain.Order, error) {
	return m.FindByIDForUpdateFunc(ctx, tx, id)
}

func (m *mockOrderRepository) UpdateStatusTx(ctx context.Context, tx mysql.Tx, id uint, status string) error {
	return m.UpdateStatusTxFunc(ctx, tx, id, status)
}

type mockOrderItemRepository struct {
	InsertFunc          func(ctx context.Context, tx mysql.Tx, item domain.OrderItem) (uint, error)
	FindByOrderIDTxFunc func(ctx context.Context, tx mysql.Tx, orderID uint) ([]domain.OrderItem, error)
}

func (m *mockOrderItemRepository) Insert(ctx context.Context, tx mysql.Tx, item domain.OrderItem) (uint, error) {
	return m.InsertFunc(ctx, tx, item)
}

func (m *mockOrderItemRepository) FindByOrderIDTx(ctx context.Context, tx mysql.Tx, orderID uint) ([]domain.OrderItem, error) {
	return m.FindByOrderIDTxFunc(ctx, tx, orderID)
}

func newTestCheckoutService(
	tx *fakeTx,
	products ProductRepository,
	orders OrderRepository,
	items OrderItemRepository,
) *CheckoutService {
	return NewCheckoutService(
		&fakeTxManager{tx: tx},
		products,
		orders,
		items,
		zap.NewNop(),
		5*time.Second,
	)
}

func testShipping() domain.ShippingAddress {
	return domain.ShippingAddress{
		Street:  "123 Main St",
		City:    "Springfield",
		State:   "IL",
		ZipCode: "62704",
		Country: "USA",
	}
}

func TestPlaceOrder_Success(t *testing.T) {
	catalog := map[int]*domain.Product{
		1: {ID: 1, Name: "Keyboard", Price: 49.90, Stock: 10, IsActive: true},
		2: {ID: 2, Name: "Mouse", Price: 19.90, Stock: 5, IsActive: true},
	}
	var decremented []int

	products := &mockProductRepository{
		FindByIDForUpdateFunc: func(ctx context.Context, tx mysql.Tx, id int) (*domain.Product, error) {
			return catalog[id], nil
		},
		DecrementStockFunc: func(ctx context.Context, tx mysql.Tx, id, quantity int) (bool, error) {
			decremented = append(decremented, id)
			return true, nil
		},
	}

	var insertedOrder domain.Order
	orders := &mockOrderRepository{
		InsertFunc: func(ctx context.Context, tx mysql.Tx, order domain.Order) (uint, error) {
			insertedOrder = order
			return 77, nil
		},
	}
	_ = insertedOrder

	var insertedItems []domain.OrderItem
	items := &mockOrderItemRepository{
		InsertFunc: func(ctx context.Context, tx mysql.Tx, item domain.OrderItem) (uint, error) {
			insertedItems = append(insertedItems, item)
			return uint(len(insertedItems)), nil
		},
	}

	tx := &fakeTx{}
	svc := newTestCheckoutService(tx, products, orders, items)

	lines := []dto.CartLine{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	}
	order, err := svc.PlaceOrder(context.Background(), 42, lines, testShipping(), domain.PaymentMethodCOD)

	require.NoError(t, err)
	assert.True(t, tx.committed)

	assert.Equal(t, uint(77), order.ID)
	assert.Equal(t, 42, order.UserID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, domain.PaymentStatusPending, order.PaymentStatus)
	assert.NotEmpty(t, order.OrderNumber)
	assert.InDelta(t, 49.90*2+19.90, order.TotalAmount, 0.0001)
	assert.InDelta(t, order.ComputeTotal(), order.TotalAmount, 0.0001)

	assert.Equal(t, []int{1, 2}, decremented)
	require.Len(t, insertedItems, 2)
	assert.Equal(t, uint(77), insertedItems[0].OrderID)
	assert.Equal(t, 49.90, insertedItems[0].UnitPrice)
	assert.Equal(t, "Keyboard", insertedItems[0].ProductName)
}

func TestPlaceOrder_InsufficientStock(t *testing.T) {
	products := &mockProductRepository{
		FindByIDForUpdateFunc: func(ctx context.Context, tx mysql.Tx, id int) (*domain.Product, error) {
			return &domain.Product{ID: id, Name: "Widget", Price: 10, Stock: 3, IsActive: true}, nil
		},
		DecrementStockFunc: func(ctx context.Context, tx mysql.Tx, id, quantity int) (bool, error) {
			t.Fatal("stock must not be decremented when availability check fails")
			return false, nil
		},
	}
	orders := &mockOrderRepository{
		InsertFunc: func(ctx context.Context, tx mysql.Tx, order domain.Order) (uint, error) {
			t.Fatal("order must not be inserted")
			return 0, nil
		},
	}
	items := &mockOrderItemRepository{}

	tx := &fakeTx{}
	svc := newTestCheckoutService(tx, products, orders, items)

	_, err := svc.PlaceOrder(context.Background(), 42,
		[]dto.CartLine{{ProductID: 9, Quantity: 4}}, testShipping(), domain.PaymentMethodCOD)

	is, ok := apperrors.IsInsufficientStockError(err)
	require.True(t, ok)
	assert.Equal(t, 9, is.ProductID)
	assert.Equal(t, 4, is.Requested)
	assert.Equal(t, 3, is.Available)

	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestPlaceOrder_LostRaceOnConditionalDecrement(t *testing.T) {
	products := &mockProductRepository{
		FindByIDForUpdateFunc: func(ctx context.Context, tx mysql.Tx, id int) (*domain.Product, error) {
			return &domain.Product{ID: id, Name: "Widget", Price: 10, Stock: 5, IsActive: true}, nil
		},
		DecrementStockFunc: func(ctx context.Context, tx mysql.Tx, id, quantity int) (bool, error) {
			return false, nil
		},
	}

	tx := &fakeTx{}
	svc := newTestCheckoutService(tx, products, &mockOrderRepository{}, &mockOrderItemRepository{})

	_, err := svc.PlaceOrder(context.Background(), 42,
		[]dto.CartLine{{ProductID: 1, Quantity: 2}}, testShipping(), domain.PaymentMethodCOD)

	_, ok := apperrors.IsInsufficientStockError(err)
	assert.True(t, ok)
	assert.False(t, tx.committed)
}

func TestPlaceOrder_ProductNotFound(t *testing.T) {
	products := &mockProductRepository{
		FindByIDForUpdateFunc: func(ctx context.Context, tx mysql.Tx, id int) (*domain.Product, error) {
			return nil, apperrors.NewNotFoundError("product with id 1 not found")
		},
	}

	tx := &fakeTx{}
	svc := newTestCheckoutService(tx, products, &mockOrderRepository{}, &mockOrderItemRepository{})

	_, err := svc.PlaceOrder(context.Background(), 42,
		[]dto.CartLine{{ProductID: 1, Quantity: 1}}, testShipping(), domain.PaymentMethodCOD)

	nf, ok := apperrors.IsNotFoundError(err)
	require.True(t, ok)
	assert.Contains(t, nf.Message, "not found or unavailable")
	assert.False(t, tx.committed)
}

func TestPlaceOrder_InactiveProduct(t *testing.T) {
	products := &mockProductRepository{
		FindByIDForUpdateFunc: func(ctx context.Context, tx mysql.Tx, id int) (*domain.Product, error) {
			return &domain.Product{ID: id, Stock: 10, IsActive: false}, nil
		},
	}

	tx := &fakeTx{}
	svc := newTestCheckoutService(tx, products, &mockOrderRepository{}, &mockOrderItemRepository{})

	_, err := svc.PlaceOrder(context.Background(), 42,
		[]dto.CartLine{{ProductID: 1, Quantity: 1}}, testShipping(), domain.PaymentMethodCOD)

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.False(t, tx.committed)
}

func TestCancel_RestoresStockAndSetsStatus(t *testing.T) {
	orders := &mockOrderRepository{
		FindByIDForUpdateFunc: func(ctx context.Context, tx mysql.Tx, id uint) (*domain.Order, error) {
			return &domain.Order{ID: id, UserID: 42, Status: domain.OrderStatusPending}, nil
		},
		UpdateStatusTxFunc: func(ctx context.Context, tx mysql.Tx, id uint, status string) error {
			assert.Equal(t, domain.OrderStatusCancelled, status)
			return nil
		},
	}

	items := &mockOrderItemRepository{
		FindByOrderIDTxFunc: func(ctx context.Context, tx mysql.Tx, orderID uint) ([]domain.OrderItem, error) {
			return []domain.OrderItem{
				{OrderID: orderID, ProductID: 1, Quantity: 2, UnitPrice: 10},
				{OrderID: orderID, ProductID: 2, Quantity: 1, UnitPrice: 5},
			}, nil
		},
	}

	restored := map[int]int{}
	products := &mockProductRepository{
		IncrementStockFunc: func(ctx context.Context, tx mysql.Tx, id, quantity int) error {
			restored[id] += quantity
			return nil
		},
	}

	tx := &fakeTx{}
	svc := newTestCheckoutService(tx, products, orders, items)

	order, err := svc.Cancel(context.Background(), 5)

	require.NoError(t, err)
	assert.True(t, tx.committed)
	assert.Equal(t, domain.OrderStatusCancelled, order.Status)
	assert.Equal(t, map[int]int{1: 2, 2: 1}, restored)
	assert.Len(t, order.Items, 2)
}

func TestCancel_ShippedOrder(t *testing.T) {
	orders := &mockOrderRepository{
		FindByIDForUpdateFunc: func(ctx context.Context, tx mysql.Tx, id uint) (*domain.Order, error) {
			return &domain.Order{ID: id, Status: domain.OrderStatusShipped}, nil
		},
	}
	products := &mockProductRepository{
		IncrementStockFunc: func(ctx context.Context, tx mysql.Tx, id, quantity int) error {
			t.Fatal("stock must not change for a shipped order")
			return nil
		},
	}

	tx := &fakeTx{}
	svc := newTestCheckoutService(tx, products, orders, &mockOrderItemRepository{})

	_, err := svc.Cancel(context.Background(), 5)

	ie, ok := apperrors.IsInvalidStateError(err)
	require.True(t, ok)
	assert.Contains(t, ie.Message, "shipped or delivered")
	assert.False(t, tx.committed)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	orders := &mockOrderRepository{
		FindByIDForUpdateFunc: func(ctx context.Context, tx mysql.Tx, id uint) (*domain.Order, error) {
			return &domain.Order{ID: id, Status: domain.OrderStatusCancelled}, nil
		},
	}

	tx := &fakeTx{}
	svc := newTestCheckoutService(tx, &mockProductRepository{}, orders, &mockOrderItemRepository{})

	_, err := svc.Cancel(context.Background(), 5)

	ie, ok := apperrors.IsInvalidStateError(err)
	require.True(t, ok)
	assert.Equal(t, "order is already cancelled", ie.Message)
}

func TestCancel_OrderNotFound(t *testing.T) {
	orders := &mockOrderRepository{
		FindByIDForUpdateFunc: func(ctx context.Context, tx mysql.Tx, id uint) (*domain.Order, error) {
			return nil, apperrors.NewNotFoundError("order with id 5 not found")
		},
	}

	tx := &fakeTx{}
	svc := newTestCheckoutService(tx, &mockProductRepository{}, orders, &mockOrderItemRepository{})

	_, err := svc.Cancel(context.Background(), 5)

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.False(t, tx.committed)
}
