package customerrepo

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

// CustomerRepository implementa a persistência de clientes.
type CustomerRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewCustomerRepository cria e retorna uma nova instância do Repositório de Clientes.
func NewCustomerRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *CustomerRepository {
	return &CustomerRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// CreateCustomer insere um novo cliente. Email duplicado vira ConstraintViolation.
func (r *CustomerRepository) CreateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	r.logger.Debug("Iniciando CreateCustomer no repositório.", map[string]interface{}{"name": customer.Name})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO customers (id, name, email, phone, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, name, email, phone, created_at`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		customer.ID, customer.Name, customer.Email, customer.Phone, customer.CreatedAt,
	).Scan(
		&customer.ID, &customer.Name, &customer.Email, &customer.Phone, &customer.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir cliente no DB.", err)
		return domain.Customer{}, database.TranslateError("failed to create customer", err)
	}

	r.logger.Info("Cliente criado com sucesso.", map[string]interface{}{"id": customer.ID})
	return customer, nil
}

// GetCustomerByID busca um cliente pelo ID.
func (r *CustomerRepository) GetCustomerByID(ctx context.Context, id string) (domain.Customer, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, name, email, phone, created_at
        FROM customers
        WHERE id = $1`

	var c domain.Customer
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Info("Cliente não encontrado.", map[string]interface{}{"id": id})
		return domain.Customer{}, apperror.NewNotFoundError(fmt.Sprintf("Customer %s not found", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar cliente no DB.", err)
		return domain.Customer{}, apperror.NewDBError("failed to find customer", err)
	}
	return c, nil
}

// GetAllCustomers lista todos os clientes por ordem de cadastro.
func (r *CustomerRepository) GetAllCustomers(ctx context.Context) ([]domain.Customer, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, name, email, phone, created_at
        FROM customers
        ORDER BY created_at, id`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao executar GetAllCustomers query.", err)
		return nil, apperror.NewDBError("failed to list customers", err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
			r.logger.Error("Falha ao mapear cliente na iteração.", err)
			return nil, apperror.NewDBError("failed to scan customer", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate customers", err)
	}

	r.logger.Debug("GetAllCustomers concluído.", map[string]interface{}{"total_customers": len(customers)})
	return customers, nil
}
