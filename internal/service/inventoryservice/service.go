package inventoryservice

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"minierp/internal/domain"
	apperror "minierp/internal/errors"
	"minierp/internal/pkg/logger"
)

const tracerName = "minierp/inventory"

// Adjuster aplica verificações e movimentos de estoque sobre o ledger de uma transação aberta.
// Não conhece pedidos: quem chama decide a ordem e o escopo das operações.
type Adjuster struct {
	tracer trace.Tracer
	logger logger.Logger
}

// NewAdjuster cria o Adjuster usando o TracerProvider global.
func NewAdjuster(logger logger.Logger) *Adjuster {
	return &Adjuster{tracer: otel.Tracer(tracerName), logger: logger}
}

// CheckStock falha com NotFound se o produto não existe ou com InsufficientStock
// se o saldo é menor que required. Não altera nada.
func (a *Adjuster) CheckStock(ctx context.Context, ledger domain.StockLedger, productID string, required int) error {
	ctx, span := a.tracer.Start(ctx, "inventory.CheckStock", trace.WithAttributes(
		attribute.String("product.id", productID),
		attribute.Int("stock.required", required),
	))
	defer span.End()

	product, err := ledger.GetProductForUpdate(ctx, productID)
	if err != nil {
		return fail(span, err)
	}
	span.SetAttributes(attribute.Int("stock.available", product.StockQuantity))

	if product.StockQuantity < required {
		a.logger.Warn("Estoque insuficiente.", map[string]interface{}{
			"product_id": productID,
			"available":  product.StockQuantity,
			"required":   required,
		})
		return fail(span, apperror.NewInsufficientStockError(product.ID, product.Name, product.StockQuantity, required))
	}
	return nil
}

// ReduceStock decrementa o saldo. A suficiência deve ter sido verificada com CheckStock
// na mesma transação.
func (a *Adjuster) ReduceStock(ctx context.Context, ledger domain.StockLedger, productID string, qty int) error {
	ctx, span := a.tracer.Start(ctx, "inventory.ReduceStock", trace.WithAttributes(
		attribute.String("product.id", productID),
		attribute.Int("stock.delta", -qty),
	))
	defer span.End()

	if err := ledger.DecrementStock(ctx, productID, qty); err != nil {
		return fail(span, err)
	}
	return nil
}

// RestoreStock devolve qty ao saldo do produto.
func (a *Adjuster) RestoreStock(ctx context.Context, ledger domain.StockLedger, productID string, qty int) error {
	ctx, span := a.tracer.Start(ctx, "inventory.RestoreStock", trace.WithAttributes(
		attribute.String("product.id", productID),
		attribute.Int("stock.delta", qty),
	))
	defer span.End()

	if err := ledger.IncrementStock(ctx, productID, qty); err != nil {
		return fail(span, err)
	}
	return nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
