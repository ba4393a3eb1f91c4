package orderrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"minierp/internal/domain"
	apperror "minierp/internal/errors"
	"minierp/internal/pkg/database"
	"minierp/internal/pkg/logger"
	"minierp/internal/repository/productrepo"
)

// txStore implementa domain.OrderTx sobre uma *sql.Tx aberta por WithinTx.
type txStore struct {
	tx     *sql.Tx
	logger logger.Logger
}

var _ domain.OrderTx = (*txStore)(nil)

// GetOrderForUpdate bloqueia a linha do pedido; confirmações concorrentes do mesmo pedido serializam aqui.
func (s *txStore) GetOrderForUpdate(ctx context.Context, orderID string) (domain.SalesOrder, error) {
	return loadOrder(ctx, s.tx, orderID, true)
}

// LockProducts adquire os locks dos produtos na ordem recebida (o chamador envia IDs ordenados).
// IDs inexistentes são ignorados; a ausência é reportada por GetProductForUpdate.
func (s *txStore) LockProducts(ctx context.Context, productIDs []string) error {
	if len(productIDs) == 0 {
		return nil
	}

	query := `
        SELECT id
        FROM products
        WHERE id = ANY($1::uuid[])
        ORDER BY id
        FOR UPDATE`

	rows, err := s.tx.QueryContext(ctx, query, pq.Array(productIDs))
	if err != nil {
		s.logger.Error("Falha ao bloquear produtos.", err)
		return apperror.NewDBError("failed to lock products", err)
	}
	defer rows.Close()

	locked := 0
	for rows.Next() {
		locked++
	}
	if err := rows.Err(); err != nil {
		return apperror.NewDBError("failed to lock products", err)
	}

	s.logger.Debug("Produtos bloqueados.", map[string]interface{}{"requested": len(productIDs), "locked": locked})
	return nil
}

func (s *txStore) GetProductForUpdate(ctx context.Context, productID string) (domain.Product, error) {
	query := `SELECT ` + productrepo.Columns + ` FROM products WHERE id = $1 FOR UPDATE`

	p, err := productrepo.Scan(s.tx.QueryRowContext(ctx, query, productID))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Product %s not found", productID))
	}
	if err != nil {
		return domain.Product{}, apperror.NewDBError("failed to load product", err)
	}
	return p, nil
}

// DecrementStock não verifica saldo: a suficiência é validada antes pelo chamador.
// O CHECK (stock_quantity >= 0) da tabela rejeita saldo negativo e aborta a transação.
func (s *txStore) DecrementStock(ctx context.Context, productID string, qty int) error {
	return s.adjustStock(ctx, productID, -qty)
}

func (s *txStore) IncrementStock(ctx context.Context, productID string, qty int) error {
	return s.adjustStock(ctx, productID, qty)
}

func (s *txStore) adjustStock(ctx context.Context, productID string, delta int) error {
	query := `
        UPDATE products
        SET stock_quantity = stock_quantity + $1, updated_at = $2
        WHERE id = $3`

	result, err := s.tx.ExecContext(ctx, query, delta, time.Now().UTC(), productID)
	if err != nil {
		s.logger.Error("Falha ao ajustar estoque.", err)
		return database.TranslateError("failed to adjust stock", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("failed to read affected rows", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Product %s not found", productID))
	}

	s.logger.Debug("Estoque ajustado.", map[string]interface{}{"product_id": productID, "delta": delta})
	return nil
}

func (s *txStore) UpdateOrderStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) error {
	query := `
        UPDATE sales_orders
        SET status = $1
        WHERE id = $2 AND status = $3`

	result, err := s.tx.ExecContext(ctx, query, to, orderID, from)
	if err != nil {
		s.logger.Error("Falha ao atualizar status do pedido.", err)
		return database.TranslateError("failed to update order status", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("failed to read affected rows", err)
	}
	if rowsAffected == 0 {
		return apperror.NewInvalidStateError(
			fmt.Sprintf("Order %s is no longer %s", orderID, from), string(from), string(to))
	}
	return nil
}
