package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus é o estado do ciclo de vida de um pedido de venda.
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "DRAFT"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// orderTransitions é a tabela de transições permitidas. Qualquer par ausente é ilegal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusDraft:     {OrderStatusConfirmed},
	OrderStatusConfirmed: {OrderStatusCancelled},
	OrderStatusCancelled: {},
}

// IsValid informa se o status pertence ao conjunto fechado de estados.
func (s OrderStatus) IsValid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo informa se a transição s -> next está na tabela.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseOrderStatus converte texto (case-insensitive) em OrderStatus.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	status := OrderStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !status.IsValid() {
		return "", fmt.Errorf("unknown order status %q", raw)
	}
	return status, nil
}

// SalesOrder é o cabeçalho do pedido de venda. As linhas pertencem ao pedido
// e são removidas junto com ele.
type SalesOrder struct {
	ID          string           `json:"id"`
	CustomerID  string           `json:"customer_id"`
	OrderDate   time.Time        `json:"order_date"`
	Status      OrderStatus      `json:"status"`
	TotalAmount decimal.Decimal  `json:"total_amount" swaggertype:"number"`
	Lines       []SalesOrderLine `json:"lines"`
}

// SalesOrderLine é um item (produto, quantidade, preço unitário) do pedido.
type SalesOrderLine struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	ProductID string          `json:"product_id"`
	LineNo    int             `json:"line_no"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" swaggertype:"number"`
	LineTotal decimal.Decimal `json:"line_total" swaggertype:"number"`
}

// ProductIDs devolve os IDs de produto distintos do pedido em ordem crescente.
// Essa ordem é a ordem de aquisição de locks.
func (o SalesOrder) ProductIDs() []string {
	seen := make(map[string]struct{}, len(o.Lines))
	ids := make([]string, 0, len(o.Lines))
	for _, line := range o.Lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}
	sort.Strings(ids)
	return ids
}

// OrderLineRequest é uma linha do payload de criação.
type OrderLineRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Quantity  int              `json:"quantity" validate:"gt=0,lte=2147483647"`
	UnitPrice *decimal.Decimal `json:"unit_price" validate:"required" swaggertype:"number"`
}

// OrderCreateRequest é o payload de criação de pedido.
type OrderCreateRequest struct {
	CustomerID string             `json:"customer_id" validate:"required,uuid"`
	Lines      []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// OrderFilter define os filtros opcionais da listagem de pedidos.
type OrderFilter struct {
	Status OrderStatus
}

// OrderTransitionResult é a resposta de confirmação/cancelamento.
type OrderTransitionResult struct {
	Message string      `json:"message"`
	OrderID string      `json:"order_id"`
	Status  OrderStatus `json:"status"`
}
