package orderservice_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"minierp/internal/domain"
	apperror "minierp/internal/errors"
)

// memStore é um OrderRepository em memória. WithinTx trabalha sobre uma cópia
// do estado e só a publica se fn retornar nil; o mutex serializa as transações.
type memStore struct {
	mu        sync.Mutex
	products  map[string]domain.Product
	orders    map[string]domain.SalesOrder
	customers map[string]bool
	locks     [][]string
}

func newMemStore() *memStore {
	return &memStore{
		products:  map[string]domain.Product{},
		orders:    map[string]domain.SalesOrder{},
		customers: map[string]bool{},
	}
}

func (m *memStore) addProduct(id, name string, stock int) {
	m.products[id] = domain.Product{ID: id, Name: name, Price: decimal.NewFromInt(1), StockQuantity: stock, IsActive: true}
}

func (m *memStore) stock(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id].StockQuantity
}

func (m *memStore) status(id string) domain.OrderStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders[id].Status
}

func (m *memStore) Create(ctx context.Context, order domain.SalesOrder) (domain.SalesOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.customers[order.CustomerID] {
		return domain.SalesOrder{}, apperror.NewNotFoundError("referenced record does not exist: customer " + order.CustomerID)
	}
	for _, l := range order.Lines {
		if _, ok := m.products[l.ProductID]; !ok {
			return domain.SalesOrder{}, apperror.NewNotFoundError("referenced record does not exist: product " + l.ProductID)
		}
	}
	m.orders[order.ID] = cloneOrder(order)
	return order, nil
}

func (m *memStore) FindByID(ctx context.Context, id string) (domain.SalesOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return domain.SalesOrder{}, apperror.NewNotFoundError(fmt.Sprintf("Order %s not found", id))
	}
	return cloneOrder(o), nil
}

func (m *memStore) FindAll(ctx context.Context, filter domain.OrderFilter) ([]domain.SalesOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []domain.SalesOrder{}
	for _, o := range m.orders {
		if filter.Status == "" || o.Status == filter.Status {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx domain.OrderTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{store: m, products: map[string]domain.Product{}, orders: map[string]domain.SalesOrder{}}
	for k, v := range m.products {
		tx.products[k] = v
	}
	for k, v := range m.orders {
		tx.orders[k] = cloneOrder(v)
	}

	if err := fn(ctx, tx); err != nil {
		return err
	}
	m.products = tx.products
	m.orders = tx.orders
	return nil
}

type memTx struct {
	store    *memStore
	products map[string]domain.Product
	orders   map[string]domain.SalesOrder
}

func (t *memTx) GetOrderForUpdate(ctx context.Context, id string) (domain.SalesOrder, error) {
	o, ok := t.orders[id]
	if !ok {
		return domain.SalesOrder{}, apperror.NewNotFoundError(fmt.Sprintf("Order %s not found", id))
	}
	return cloneOrder(o), nil
}

func (t *memTx) LockProducts(ctx context.Context, ids []string) error {
	t.store.locks = append(t.store.locks, append([]string(nil), ids...))
	return nil
}

func (t *memTx) GetProductForUpdate(ctx context.Context, id string) (domain.Product, error) {
	p, ok := t.products[id]
	if !ok {
		return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Product %s not found", id))
	}
	return p, nil
}

func (t *memTx) DecrementStock(ctx context.Context, id string, qty int) error {
	return t.adjust(id, -qty)
}

func (t *memTx) IncrementStock(ctx context.Context, id string, qty int) error {
	return t.adjust(id, qty)
}

// adjust reproduz o CHECK (stock_quantity >= 0) da tabela.
func (t *memTx) adjust(id string, delta int) error {
	p, ok := t.products[id]
	if !ok {
		return apperror.NewNotFoundError(fmt.Sprintf("Product %s not found", id))
	}
	if p.StockQuantity+delta < 0 {
		return apperror.NewConstraintViolationError("value violates check constraint", "products_stock_quantity_check", nil)
	}
	p.StockQuantity += delta
	t.products[id] = p
	return nil
}

func (t *memTx) UpdateOrderStatus(ctx context.Context, id string, from, to domain.OrderStatus) error {
	o, ok := t.orders[id]
	if !ok || o.Status != from {
		return apperror.NewInvalidStateError("Order "+id+" is no longer "+string(from), string(from), string(to))
	}
	o.Status = to
	t.orders[id] = o
	return nil
}

func cloneOrder(o domain.SalesOrder) domain.SalesOrder {
	o.Lines = append([]domain.SalesOrderLine(nil), o.Lines...)
	return o
}
