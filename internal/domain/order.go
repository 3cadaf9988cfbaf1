package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID            uint
	OrderNumber   string
	UserID        int
	Items         []OrderItem
	TotalAmount   float64
	Status        string
	Shipping      ShippingAddress
	PaymentMethod string
	PaymentStatus string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem captures the unit price at checkout; it is never recomputed
// from the live product.
type OrderItem struct {
	ID          uint
	OrderID     uint
	ProductID   int
	ProductName string
	Quantity    int
	UnitPrice   float64
}

type ShippingAddress struct {
	Street  string
	City    string
	State   string
	ZipCode string
	Country string
}

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

const (
	PaymentMethodCreditCard = "credit_card"
	PaymentMethodDebitCard  = "debit_card"
	PaymentMethodPaypal     = "paypal"
	PaymentMethodCOD        = "cod"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

var orderStatuses = map[string]struct{}{
	OrderStatusPending:    {},
	OrderStatusProcessing: {},
	OrderStatusShipped:    {},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

var paymentMethods = map[string]struct{}{
	PaymentMethodCreditCard: {},
	PaymentMethodDebitCard:  {},
	PaymentMethodPaypal:     {},
	PaymentMethodCOD:        {},
}

func IsValidOrderStatus(status string) bool {
	_, ok := orderStatuses[status]
	return ok
}

func IsValidPaymentMethod(method string) bool {
	_, ok := paymentMethods[method]
	return ok
}

// CanCancel reports whether the order may still move to cancelled. Only
// pending and processing orders can be cancelled.
func (o Order) CanCancel() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusProcessing
}

func (o Order) ComputeTotal() float64 {
	total := 0.0
	for _, item := range o.Items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}

// NewOrderNumber generates an externally visible, globally unique order
// number, e.g. ORD-1735689600000-3F2A1.
func NewOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:5])
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}
