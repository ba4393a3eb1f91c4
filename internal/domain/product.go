package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LowStockThreshold é o limite abaixo do qual um produto é considerado com estoque baixo.
const LowStockThreshold = 10

// Faixas das colunas: quantidades são INTEGER, preços NUMERIC(10,2), totais NUMERIC(12,2).
const MaxQuantity = 2147483647

var (
	MaxPrice  = decimal.RequireFromString("99999999.99")
	MaxAmount = decimal.RequireFromString("9999999999.99")
)

// Product representa um item vendável do catálogo e o seu saldo de estoque.
// StockQuantity muda pela confirmação/cancelamento de pedidos ou por ajuste manual.
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price" swaggertype:"number"`
	StockQuantity int             `json:"stock_quantity"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductCreateRequest é o payload de criação de produto.
type ProductCreateRequest struct {
	Name          string           `json:"name" validate:"required,max=255"`
	Price         *decimal.Decimal `json:"price" validate:"required" swaggertype:"number"`
	StockQuantity *int             `json:"stock_quantity" validate:"required,gte=0,lte=2147483647"`
	IsActive      *bool            `json:"is_active,omitempty"`
}

// ProductFilter define os filtros opcionais da listagem de produtos.
type ProductFilter struct {
	ActiveOnly bool
	LowStock   bool
}
