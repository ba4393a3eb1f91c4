package productrepo

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
)

// Columns é a lista de colunas na ordem esperada por Scan.
const Columns = `id, name, price, stock_quantity, is_active, created_at, updated_at`

// RowScanner é satisfeito por *sql.Row e *sql.Rows.
type RowScanner interface {
	Scan(dest ...interface{}) error
}

// Scan mapeia uma linha da tabela products para domain.Product.
func Scan(row RowScanner) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.StockQuantity, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// ProductRepository persiste produtos no PostgreSQL.
type ProductRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewProductRepository cria e retorna uma nova instância do Repositório de Produtos.
func NewProductRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *ProductRepository {
	return &ProductRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Save insere um novo produto.
func (r *ProductRepository) Save(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO products (id, name, price, stock_quantity, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + Columns

	saved, err := Scan(r.DB.QueryRowContext(ctxTimeout, query,
		product.ID, product.Name, product.Price, product.StockQuantity, product.IsActive, product.CreatedAt, product.UpdatedAt,
	))
	if err != nil {
		r.logger.Error("Falha ao inserir produto no DB.", err)
		return domain.Product{}, database.TranslateError("failed to create product", err)
	}

	r.logger.Info("Produto criado.", map[string]interface{}{"id": saved.ID, "name": saved.Name})
	return saved, nil
}

// FindByID busca um produto pelo ID.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + Columns + ` FROM products WHERE id = $1`

	product, err := Scan(r.DB.QueryRowContext(ctxTimeout, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Product %s not found", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar produto no DB.", err)
		return domain.Product{}, apperror.NewDBError("failed to find product", err)
	}
	return product, nil
}

// FindAll lista produtos aplicando os filtros opcionais.
func (r *ProductRepository) FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT ` + Columns + `
        FROM products
        WHERE ($1::boolean = false OR is_active = true)
          AND ($2::boolean = false OR stock_quantity < $3)
        ORDER BY created_at, id`

	rows, err := r.DB.QueryContext(ctxTimeout, query, filter.ActiveOnly, filter.LowStock, domain.LowStockThreshold)
	if err != nil {
		r.logger.Error("Falha ao listar produtos.", err)
		return nil, apperror.NewDBError("failed to list products", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := Scan(rows)
		if err != nil {
			return nil, apperror.NewDBError("failed to scan product", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate products", err)
	}

	r.logger.Debug("Produtos listados.", map[string]interface{}{"count": len(products)})
	return products, nil
}
