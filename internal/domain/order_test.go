package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrder_ComputeTotal(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{ProductID: 1, Quantity: 2, UnitPrice: 19.99},
			{ProductID: 2, Quantity: 1, UnitPrice: 5.50},
			{ProductID: 3, Quantity: 3, UnitPrice: 100.00},
		},
	}

	assert.InDelta(t, 345.48, order.ComputeTotal(), 0.0001)
}

func TestOrder_ComputeTotal_NoItems(t *testing.T) {
	order := Order{}
	assert.Equal(t, 0.0, order.ComputeTotal())
}

func TestOrder_CanCancel(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{OrderStatusPending, true},
		{OrderStatusProcessing, true},
		{OrderStatusShipped, false},
		{OrderStatusDelivered, false},
		{OrderStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			order := Order{Status: tt.status}
			assert.Equal(t, tt.want, order.CanCancel())
		})
	}
}

func TestIsValidOrderStatus(t *testing.T) {
	assert.True(t, IsValidOrderStatus(OrderStatusPending))
	assert.True(t, IsValidOrderStatus(OrderStatusDelivered))
	assert.False(t, IsValidOrderStatus("PENDING"))
	assert.False(t, IsValidOrderStatus("archived"))
	assert.False(t, IsValidOrderStatus(""))
}

func TestIsValidPaymentMethod(t *testing.T) {
	assert.True(t, IsValidPaymentMethod(PaymentMethodCOD))
	assert.True(t, IsValidPaymentMethod(PaymentMethodPaypal))
	assert.False(t, IsValidPaymentMethod("bitcoin"))
}

func TestNewOrderNumber(t *testing.T) {
	n1 := NewOrderNumber()
	n2 := NewOrderNumber()

	assert.True(t, strings.HasPrefix(n1, "ORD-"))
	assert.NotEqual(t, n1, n2)

	parts := strings.Split(n1, "-")
	assert.Len(t, parts, 3)
	assert.Len(t, parts[2], 5)
	assert.Equal(t, strings.ToUpper(parts[2]), parts[2])
}
