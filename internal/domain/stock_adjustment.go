package domain

// StockAdjustmentRequest é o payload de ajuste manual de estoque (entrada de mercadoria,
// inventário, perda). Delta positivo soma, negativo subtrai.
type StockAdjustmentRequest struct {
	Delta  int    `json:"delta" validate:"required,gte=-2147483647,lte=2147483647"`
	Reason string `json:"reason,omitempty" validate:"max=255"`
}

// StockAdjustment é o resultado aplicado de um ajuste.
type StockAdjustment struct {
	ProductID string `json:"product_id"`
	Previous  int    `json:"previous_quantity"`
	Delta     int    `json:"delta"`
	Current   int    `json:"stock_quantity"`
	Reason    string `json:"reason,omitempty"`
}
