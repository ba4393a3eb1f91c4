package stockrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"minierp/internal/domain"
	apperror "minierp/internal/errors"
	"minierp/internal/pkg/database"
	"minierp/internal/pkg/logger"
	"minierp/internal/repository/productrepo"
)

// StockRepository aplica ajustes manuais ao saldo de estoque dos produtos.
type StockRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
	now       func() time.Time
}

// NewStockRepository cria e retorna uma nova instância do Repositório de Estoque.
func NewStockRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *StockRepository {
	return &StockRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
		now:       time.Now,
	}
}

// AdjustStock soma delta ao estoque do produto dentro de uma transação.
// A linha do produto fica bloqueada (FOR UPDATE) entre a leitura e a escrita, o que
// serializa o ajuste com confirmações e cancelamentos concorrentes.
func (r *StockRepository) AdjustStock(ctx context.Context, productID string, delta int) (domain.StockAdjustment, error) {
	r.logger.Debug("Iniciando ajuste de estoque no repositório.", map[string]interface{}{
		"product_id": productID,
		"delta":      delta,
	})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação para ajuste de estoque.", err)
		return domain.StockAdjustment{}, apperror.NewDBError("begin stock adjustment", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + productrepo.Columns + ` FROM products WHERE id = $1 FOR UPDATE`
	product, err := productrepo.Scan(tx.QueryRowContext(ctxTimeout, query, productID))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StockAdjustment{}, apperror.NewNotFoundError(fmt.Sprintf("Product %s not found", productID))
	}
	if err != nil {
		r.logger.Error("Falha ao bloquear produto para ajuste.", err)
		return domain.StockAdjustment{}, apperror.NewDBError("lock product", err)
	}

	next := product.StockQuantity + delta
	if next < 0 {
		r.logger.Warn("Ajuste deixaria o estoque negativo.", map[string]interface{}{
			"product_id": productID,
			"available":  product.StockQuantity,
			"delta":      delta,
		})
		return domain.StockAdjustment{}, apperror.NewInsufficientStockError(product.ID, product.Name, product.StockQuantity, -delta)
	}

	update := `UPDATE products SET stock_quantity = $1, updated_at = $2 WHERE id = $3`
	if _, err := tx.ExecContext(ctxTimeout, update, next, r.now().UTC(), productID); err != nil {
		return domain.StockAdjustment{}, database.TranslateError("update product stock", err)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Falha ao commitar ajuste de estoque.", err)
		return domain.StockAdjustment{}, apperror.NewDBError("commit stock adjustment", err)
	}

	r.logger.Info("Estoque ajustado.", map[string]interface{}{
		"product_id":   productID,
		"new_quantity": next,
	})
	return domain.StockAdjustment{
		ProductID: productID,
		Previous:  product.StockQuantity,
		Delta:     delta,
		Current:   next,
	}, nil
}
