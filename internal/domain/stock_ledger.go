package domain

import "context"

// StockLedger é o lado de estoque de uma unidade de trabalho (transação aberta).
// Todas as leituras e escritas participam da mesma transação do chamador.
type StockLedger interface {
	// LockProducts bloqueia (FOR UPDATE) as linhas dos produtos na ordem recebida.
	LockProducts(ctx context.Context, productIDs []string) error
	GetProductForUpdate(ctx context.Context, productID string) (Product, error)
	DecrementStock(ctx context.Context, productID string, qty int) error
	IncrementStock(ctx context.Context, productID string, qty int) error
}

// OrderTx é a visão transacional usada pelo fluxo de pedidos.
type OrderTx interface {
	StockLedger
	GetOrderForUpdate(ctx context.Context, orderID string) (SalesOrder, error)
	// UpdateOrderStatus só altera o pedido se o status atual ainda for `from`.
	UpdateOrderStatus(ctx context.Context, orderID string, from, to OrderStatus) error
}
