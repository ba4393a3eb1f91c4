package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minierp/internal/domain"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	all := []domain.OrderStatus{domain.OrderStatusDraft, domain.OrderStatusConfirmed, domain.OrderStatusCancelled}
	allowed := map[[2]domain.OrderStatus]bool{
		{domain.OrderStatusDraft, domain.OrderStatusConfirmed}:     true,
		{domain.OrderStatusConfirmed, domain.OrderStatusCancelled}: true,
	}

	for _, from := range all {
		for _, to := range all {
			got := from.CanTransitionTo(to)
			assert.Equal(t, allowed[[2]domain.OrderStatus{from, to}], got, "%s -> %s", from, to)
		}
	}
}

func TestOrderStatus_UnknownStatusHasNoTransitions(t *testing.T) {
	unknown := domain.OrderStatus("SHIPPED")
	assert.False(t, unknown.IsValid())
	assert.False(t, unknown.CanTransitionTo(domain.OrderStatusCancelled))
}

func TestParseOrderStatus(t *testing.T) {
	s, err := domain.ParseOrderStatus(" confirmed ")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, s)

	_, err = domain.ParseOrderStatus("archived")
	assert.Error(t, err)
}

func TestSalesOrder_ProductIDs_DistinctAndSorted(t *testing.T) {
	order := domain.SalesOrder{Lines: []domain.SalesOrderLine{
		{ProductID: "c"}, {ProductID: "a"}, {ProductID: "c"}, {ProductID: "b"},
	}}

	assert.Equal(t, []string{"a", "b", "c"}, order.ProductIDs())
	assert.Empty(t, domain.SalesOrder{}.ProductIDs())
}

func TestNewOrderEvent(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("BRT", -3*3600))
	order := domain.SalesOrder{
		ID:          "o-1",
		CustomerID:  "c-1",
		Status:      domain.OrderStatusConfirmed,
		TotalAmount: decimal.RequireFromString("10.00"),
		Lines:       []domain.SalesOrderLine{{ProductID: "p-1", Quantity: 5}},
	}

	ev := domain.NewOrderEvent(domain.EventOrderConfirmed, order, at)

	assert.Equal(t, domain.EventOrderConfirmed, ev.EventType)
	assert.Equal(t, "o-1", ev.OrderID)
	assert.Equal(t, []domain.OrderEventLine{{ProductID: "p-1", Quantity: 5}}, ev.Lines)
	assert.Equal(t, time.UTC, ev.OccurredAt.Location())
	assert.True(t, ev.TotalAmount.Equal(decimal.NewFromInt(10)))
}
