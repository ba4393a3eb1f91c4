package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated   = "order.created"
	EventOrderConfirmed = "order.confirmed"
	EventOrderCancelled = "order.cancelled"
)

// OrderEvent é publicado após o commit de uma mudança no pedido.
type OrderEvent struct {
	EventType   string           `json:"event_type"`
	OrderID     string           `json:"order_id"`
	CustomerID  string           `json:"customer_id"`
	Status      OrderStatus      `json:"status"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
	Lines       []OrderEventLine `json:"lines"`
	OccurredAt  time.Time        `json:"occurred_at"`
}

type OrderEventLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// NewOrderEvent monta o evento a partir do estado atual do pedido.
func NewOrderEvent(eventType string, order SalesOrder, at time.Time) OrderEvent {
	lines := make([]OrderEventLine, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, OrderEventLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return OrderEvent{
		EventType:   eventType,
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Lines:       lines,
		OccurredAt:  at.UTC(),
	}
}
