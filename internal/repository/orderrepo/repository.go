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
)

const orderColumns = `id, customer_id, order_date, status, total_amount`

const lineColumns = `id, order_id, product_id, line_no, quantity, unit_price, line_total`

// queryer é satisfeito por *sql.DB e *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// OrderRepository persiste pedidos e abre as unidades de trabalho do fluxo de pedidos.
type OrderRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewOrderRepository cria e retorna uma nova instância do Repositório de Pedidos.
func NewOrderRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *OrderRepository {
	return &OrderRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Create grava o cabeçalho e as linhas do pedido em uma única transação.
func (r *OrderRepository) Create(ctx context.Context, order domain.SalesOrder) (domain.SalesOrder, error) {
	r.logger.Debug("Iniciando criação de pedido no repositório.", map[string]interface{}{
		"order_id": order.ID,
		"lines":    len(order.Lines),
	})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação de criação de pedido.", err)
		return domain.SalesOrder{}, apperror.NewDBError("failed to begin transaction", err)
	}
	defer tx.Rollback() // no-op após o Commit

	insertOrder := `
        INSERT INTO sales_orders (` + orderColumns + `)
        VALUES ($1, $2, $3, $4, $5)`

	if _, err := tx.ExecContext(ctxTimeout, insertOrder,
		order.ID, order.CustomerID, order.OrderDate, order.Status, order.TotalAmount,
	); err != nil {
		r.logger.Error("Falha ao inserir pedido.", err)
		return domain.SalesOrder{}, database.TranslateError("failed to insert order", err)
	}

	insertLine := `
        INSERT INTO sales_order_lines (` + lineColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, l := range order.Lines {
		if _, err := tx.ExecContext(ctxTimeout, insertLine,
			l.ID, order.ID, l.ProductID, l.LineNo, l.Quantity, l.UnitPrice, l.LineTotal,
		); err != nil {
			r.logger.Error("Falha ao inserir linha do pedido.", err)
			return domain.SalesOrder{}, database.TranslateError("failed to insert order line", err)
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Falha ao commitar criação de pedido.", err)
		return domain.SalesOrder{}, apperror.NewDBError("failed to commit order", err)
	}

	r.logger.Info("Pedido criado.", map[string]interface{}{"order_id": order.ID, "total_amount": order.TotalAmount.StringFixed(2)})
	return order, nil
}

// FindByID carrega o pedido com as linhas na sequência gravada.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (domain.SalesOrder, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	return loadOrder(ctxTimeout, r.DB, id, false)
}

// FindAll lista pedidos (mais recentes primeiro) com as linhas aninhadas.
func (r *OrderRepository) FindAll(ctx context.Context, filter domain.OrderFilter) ([]domain.SalesOrder, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT ` + orderColumns + `
        FROM sales_orders
        WHERE ($1::text = '' OR status = $1::text)
        ORDER BY order_date DESC, id`

	rows, err := r.DB.QueryContext(ctxTimeout, query, string(filter.Status))
	if err != nil {
		r.logger.Error("Falha ao listar pedidos.", err)
		return nil, apperror.NewDBError("failed to list orders", err)
	}
	defer rows.Close()

	orders := []domain.SalesOrder{}
	index := map[string]int{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, apperror.NewDBError("failed to scan order", err)
		}
		o.Lines = []domain.SalesOrderLine{}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate orders", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	lines, err := loadLines(ctxTimeout, r.DB, ids)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		if i, ok := index[l.OrderID]; ok {
			orders[i].Lines = append(orders[i].Lines, l)
		}
	}

	r.logger.Debug("Pedidos listados.", map[string]interface{}{"count": len(orders)})
	return orders, nil
}

// WithinTx executa fn dentro de uma transação (read committed).
// Erro de fn provoca rollback de tudo; sucesso faz commit.
func (r *OrderRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx domain.OrderTx) error) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		r.logger.Error("Falha ao iniciar transação do fluxo de pedidos.", err)
		return apperror.NewDBError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(ctxTimeout, &txStore{tx: tx, logger: r.logger}); err != nil {
		r.logger.Debug("Transação revertida.", map[string]interface{}{"reason": err.Error()})
		return err
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Falha ao commitar transação do fluxo de pedidos.", err)
		return apperror.NewDBError("failed to commit transaction", err)
	}
	return nil
}

func scanOrder(row interface{ Scan(...interface{}) error }) (domain.SalesOrder, error) {
	var o domain.SalesOrder
	err := row.Scan(&o.ID, &o.CustomerID, &o.OrderDate, &o.Status, &o.TotalAmount)
	return o, err
}

// loadOrder lê cabeçalho + linhas. Com forUpdate, a linha do pedido fica bloqueada até o fim da transação.
func loadOrder(ctx context.Context, q queryer, id string, forUpdate bool) (domain.SalesOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM sales_orders WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	order, err := scanOrder(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SalesOrder{}, apperror.NewNotFoundError(fmt.Sprintf("Order %s not found", id))
	}
	if err != nil {
		return domain.SalesOrder{}, apperror.NewDBError("failed to load order", err)
	}

	lines, err := loadLines(ctx, q, []string{id})
	if err != nil {
		return domain.SalesOrder{}, err
	}
	order.Lines = lines
	return order, nil
}

func loadLines(ctx context.Context, q queryer, orderIDs []string) ([]domain.SalesOrderLine, error) {
	query := `
        SELECT ` + lineColumns + `
        FROM sales_order_lines
        WHERE order_id = ANY($1::uuid[])
        ORDER BY order_id, line_no`

	rows, err := q.QueryContext(ctx, query, pq.Array(orderIDs))
	if err != nil {
		return nil, apperror.NewDBError("failed to load order lines", err)
	}
	defer rows.Close()

	lines := []domain.SalesOrderLine{}
	for rows.Next() {
		var l domain.SalesOrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.LineNo, &l.Quantity, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, apperror.NewDBError("failed to scan order line", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate order lines", err)
	}
	return lines, nil
}
