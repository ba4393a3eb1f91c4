package orderservice_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"pgregory.net/rapid"

	"minierp/internal/domain"
	apperror "minierp/internal/errors"
	"minierp/internal/messaging"
	"minierp/internal/pkg/logger"
	"minierp/internal/pkg/respond"
	"minierp/internal/pkg/validation"
	"minierp/internal/service/inventoryservice"
	"minierp/internal/service/orderservice"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// MockPublisher é uma implementação mock de messaging.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event domain.OrderEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockPublisher) Close() error { return nil }

// blockingPublisher simula um broker fora do ar: só retorna quando o contexto expira.
type blockingPublisher struct{}

func (blockingPublisher) Publish(ctx context.Context, _ domain.OrderEvent) error {
	<-ctx.Done()
	return ctx.Err()
}

func (blockingPublisher) Close() error { return nil }

type fixture struct {
	store    *memStore
	svc      *orderservice.Service
	customer string
}

func newFixture(publisher messaging.Publisher, opts ...orderservice.Option) *fixture {
	store := newMemStore()
	customer := uuid.NewString()
	store.customers[customer] = true
	svc := orderservice.NewService(store, inventoryservice.NewAdjuster(logger.NewNop()), publisher, validation.New(), logger.NewNop(), opts...)
	return &fixture{store: store, svc: svc, customer: customer}
}

func (f *fixture) product(name string, stock int) string {
	id := uuid.NewString()
	f.store.addProduct(id, name, stock)
	return id
}

func line(productID string, qty int, price string) domain.OrderLineRequest {
	p := decimal.RequireFromString(price)
	return domain.OrderLineRequest{ProductID: productID, Quantity: qty, UnitPrice: &p}
}

func (f *fixture) draft(t require.TestingT, lines ...domain.OrderLineRequest) domain.SalesOrder {
	order, err := f.svc.CreateOrder(context.Background(), domain.OrderCreateRequest{CustomerID: f.customer, Lines: lines})
	require.NoError(t, err)
	return order
}

// --- CreateOrder ---

func TestCreateOrder_ComputesTotalsAndKeepsLineOrder(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(e domain.OrderEvent) bool {
		return e.EventType == domain.EventOrderCreated && e.Status == domain.OrderStatusDraft
	})).Return(nil).Once()
	f := newFixture(pub)
	a := f.product("A", 10)
	b := f.product("B", 5)

	order := f.draft(t, line(a, 2, "10.50"), line(b, 1, "5"))

	assert.Equal(t, domain.OrderStatusDraft, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("26.00")), order.TotalAmount.String())
	require.Len(t, order.Lines, 2)
	assert.Equal(t, 1, order.Lines[0].LineNo)
	assert.Equal(t, a, order.Lines[0].ProductID)
	assert.True(t, order.Lines[0].LineTotal.Equal(decimal.RequireFromString("21")))
	assert.Equal(t, 2, order.Lines[1].LineNo)
	assert.Equal(t, 10, f.store.stock(a), "creation must not touch stock")
	pub.AssertExpectations(t)
}

func TestCreateOrder_DoesNotCheckStock(t *testing.T) {
	f := newFixture(messaging.NopPublisher{})
	a := f.product("A", 1)

	order := f.draft(t, line(a, 100, "1"))

	assert.Equal(t, domain.OrderStatusDraft, order.Status)
}

func TestCreateOrder_Fail_Validation(t *testing.T) {
	f := newFixture(messaging.NopPublisher{})
	a := f.product("A", 1)

	cases := map[string]domain.OrderCreateRequest{
		"no lines":        {CustomerID: f.customer},
		"zero quantity":   {CustomerID: f.customer, Lines: []domain.OrderLineRequest{line(a, 0, "1")}},
		"bad customer id": {CustomerID: "7", Lines: []domain.OrderLineRequest{line(a, 1, "1")}},
		"negative price":  {CustomerID: f.customer, Lines: []domain.OrderLineRequest{line(a, 1, "-0.01")}},
		"missing price":   {CustomerID: f.customer, Lines: []domain.OrderLineRequest{{ProductID: a, Quantity: 5}}},
		"huge quantity":   {CustomerID: f.customer, Lines: []domain.OrderLineRequest{line(a, 3_000_000_000, "1")}},
		"huge price":      {CustomerID: f.customer, Lines: []domain.OrderLineRequest{line(a, 1, "100000000.00")}},
		"huge line total": {CustomerID: f.customer, Lines: []domain.OrderLineRequest{line(a, 1_000_000, "99999.99")}},
		"huge total":      {CustomerID: f.customer, Lines: []domain.OrderLineRequest{line(a, 60_000, "100000.00"), line(a, 60_000, "100000.00")}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.CreateOrder(context.Background(), req)
			assert.IsType(t, &apperror.ValidationError{}, err)
		})
	}
}

func TestCreateOrder_PayloadWithoutUnitPriceIsRejected(t *testing.T) {
	f := newFixture(messaging.NopPublisher{})
	a := f.product("A", 10)
	body := fmt.Sprintf(`{"customer_id":%q,"lines":[{"product_id":%q,"quantity":5}]}`, f.customer, a)

	var req domain.OrderCreateRequest
	require.NoError(t, respond.DecodeJSON(httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)), &req))
	_, err := f.svc.CreateOrder(context.Background(), req)

	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "lines[0].unit_price is required")
	all, err := f.svc.ListOrders(context.Background(), domain.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateOrder_UnknownCustomer(t *testing.T) {
	f := newFixture(messaging.NopPublisher{})
	a := f.product("A", 1)

	_, err := f.svc.CreateOrder(context.Background(), domain.OrderCreateRequest{
		CustomerID: uuid.NewString(),
		Lines:      []domain.OrderLineRequest{line(a, 1, "1")},
	})

	assert.IsType(t, &apperror.NotFoundError{}, err)
}

// --- GetOrderByID / ListOrders ---

func TestGetOrderByID(t *testing.T) {
	f := newFixture(messaging.NopPublisher{})
	order := f.draft(t, line(f.product("A", 1), 1, "1"))

	got, err := f.svc.GetOrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	assert.Len(t, got.Lines, 1)

	_, err = f.svc.GetOrderByID(context.Background(), uuid.NewString())
	assert.IsType(t, &apperror.NotFoundError{}, err)

	_, err = f.svc.GetOrderByID(context.Background(), "abc")
	assert.IsType(t, &apperror.ValidationError{}, err)
}

func TestListOrders_FiltersByStatus(t *testing.T) {
	f := newFixture(messaging.NopPublisher{})
	a := f.product("A", 10)
	first := f.draft(t, line(a, 1, "1"))
	f.draft(t, line(a, 1, "1"))
	_, err := f.svc.ConfirmOrder(context.Background(), first.ID)
	require.NoError(t, err)

	all, err := f.svc.ListOrders(context.Background(), domain.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	confirmed, err := f.svc.ListOrders(context.Background(), domain.OrderFilter{Status: domain.OrderStatusConfirmed})
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, first.ID, confirmed[0].ID)
}

// --- ConfirmOrder ---

func TestConfirmOrder_DecrementsStock(t *testing.T) {
	f := newFixture(messaging.NopPublisher{})
	a := f.product("A", 10)
	b := f.product("B", 3)
	order := f.draft(t, line(a, 4, "1"), line(b, 3, "2"))

	result, err := f.svc.ConfirmOrder(context.Background(), order.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.OrderTransitionResult{Message: "Order confirmed", OrderID: order.ID, Status: domain.OrderStatusConfirmed}, result)
	assert.Equal(t, 6, f.store.stock(a))
	assert.Equal(t, 0, f.store.stock(b))
	assert.Equal(t, domain.OrderStatusConfirmed, f.store.status(order.ID))
}

func TestConfirmOrder_InsufficientStockLeavesEverythingUntouched(t *testing.T) {
	f := newFixture(messaging.NopPublisher{})
	a := f.product("A", 10)
	b := f.product("Gadget", 2)
	order := f.draft(t, line(a, 5, "1"), line(b, 3, "1"))

	_, err := f.svc.ConfirmOrder(context.Background(), order.ID)

	var insufficient *apperror.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Insufficient stock for product Gadget. Available: 2, Required: 3", err.Error())
	assert.Equal(t, 10, f.store.stock(a))
	assert.Equal(t, 2, f.store.stock(b))
	assert.Equal(t, domain.OrderStatusDraft, f.store.status(order.ID))
}

func TestConfirmOrder_RepeatedProductAccumulatesDemand(t *testing.T) {
	f := newFixture(messaging.NopPublisher{})
	a := f.product("A", 5)
	order := f.draft(t, line(a, 3, "1"), line(a, 3, "1"))

	_, err := f.svc.ConfirmOrder(context.Background(), order.ID)

	var insufficient *apperror.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 5, insufficient.Available)
	assert.Equal(t, 6, insufficient.Required)
	assert.Equal(t, 5, f.store.stock(a))
}

func TestConfirmOrder_LocksProductsInAscendingOrder(t *testing.T) {
	f := newFixture(messaging.NopPublisher{})
	ids := []string{f.product("A", 5), f.product("B", 5), f.product("C", 5)}
	order := f.draft(t, line(ids[2], 1, "1"), line(ids[0], 1, "1"), line(ids[1], 1, "1"), line(ids[2], 1, "1"))

	_, err := f.svc.ConfirmOrder(context.Background(), order.ID)
	require.NoError(t, err)

	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	require.NotEmpty(t, f.store.locks)
	assert.Equal(t, sorted, f.store.locks[len(f.store.locks)-1])
}

func TestConfirmOrder_RejectsNonDraft(t *testing.T) {
	f := newFixture(messaging.NopPublisher{})
	a := f.product("A", 5)
	order := f.draft(t, line(a, 1, "1"))
	_, err := f.svc.ConfirmOrder(context.Background(), order.ID)
	require.NoError(t, err)

	_, err = f.svc.ConfirmOrder(context.Background(), order.ID)

	assert.IsType(t, &apperror.InvalidStateError{}, err)
	assert.Equal(t, "Only DRAFT orders can be confirmed", err.Error())
	assert.Equal(t, 4, f.store.stock(a), "second confirm must not decrement again")
}

func TestConfirmOrder_UnknownOrder(t *testing.T) {
	f := newFixture(messaging.NopPublisher{})

	_, err := f.svc.ConfirmOrder(context.Background(), uuid.NewString())

	assert.IsType(t, &apperror.NotFoundError{}, err)
}

func TestConfirmOrder_PublishFailureKeepsCommit(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(e domain.OrderEvent) bool { return e.EventType == domain.EventOrderCreated })).Return(nil)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(e domain.OrderEvent) bool { return e.EventType == domain.EventOrderConfirmed })).
		Return(errors.New("broker unavailable"))
	f := newFixture(pub)
	a := f.product("A", 5)
	order := f.draft(t, line(a, 2, "1"))

	result, err := f.svc.ConfirmOrder(context.Background(), order.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, result.Status)
	assert.Equal(t, 3, f.store.stock(a))
	pub.AssertExpectations(t)
}

func TestConfirmOrder_ConcurrentConfirmsNeverOversell(t *testing.T) {
	f := newFixture(messaging.NopPublisher{})
	a := f.product("A", 5)

	orders := make([]domain.SalesOrder, 8)
	for i := range orders {
		orders[i] = f.draft(t, line(a, 1, "1"))
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for _, o := range orders {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := f.svc.ConfirmOrder(context.Background(), id); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(o.ID)
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 0, f.store.stock(a))
}

func TestConfirmOrder_SlowBrokerDoesNotHoldTheResponse(t *testing.T) {
	f := newFixture(blockingPublisher{}, orderservice.WithPublishTimeout(20*time.Millisecond))
	a := f.product("A", 5)
	order := f.draft(t, line(a, 2, "1"))

	start := time.Now()
	result, err := f.svc.ConfirmOrder(context.Background(), order.ID)

	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, domain.OrderStatusConfirmed, result.Status)
	assert.Equal(t, 3, f.store.stock(a))
}

func TestConfirmOrder_PublishUsesBoundedDetachedContext(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("Publish", mock.MatchedBy(func(ctx context.Context) bool {
		_, hasDeadline := ctx.Deadline()
		return hasDeadline && ctx.Err() == nil
	}), mock.Anything).Return(nil)
	f := newFixture(pub)
	order := f.draft(t, line(f.product("A", 5), 1, "1"))

	// Requisição já cancelada: a publicação não herda o cancelamento.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.svc.ConfirmOrder(ctx, order.ID)

	require.NoError(t, err)
	pub.AssertNumberOfCalls(t, "Publish", 2)
}

// --- CancelOrder ---

func TestCancelOrder_RestoresStock(t *testing.T) {
	f := newFixture(messaging.NopPublisher{})
	a := f.product("A", 10)
	order := f.draft(t, line(a, 4, "1"))
	_, err := f.svc.ConfirmOrder(context.Background(), order.ID)
	require.NoError(t, err)

	result, err := f.svc.CancelOrder(context.Background(), order.ID)

	require.NoError(t, err)
	assert.Equal(t, "Order cancelled", result.Message)
	assert.Equal(t, domain.OrderStatusCancelled, result.Status)
	assert.Equal(t, 10, f.store.stock(a))
}

func TestCancelOrder_RejectsDraftAndCancelled(t *testing.T) {
	f := newFixture(messaging.NopPublisher{})
	a := f.product("A", 10)
	order := f.draft(t, line(a, 4, "1"))

	_, err := f.svc.CancelOrder(context.Background(), order.ID)
	assert.IsType(t, &apperror.InvalidStateError{}, err)
	assert.Equal(t, "Only CONFIRMED orders can be cancelled", err.Error())
	assert.Equal(t, 10, f.store.stock(a))

	_, err = f.svc.ConfirmOrder(context.Background(), order.ID)
	require.NoError(t, err)
	_, err = f.svc.CancelOrder(context.Background(), order.ID)
	require.NoError(t, err)

	_, err = f.svc.CancelOrder(context.Background(), order.ID)
	assert.IsType(t, &apperror.InvalidStateError{}, err)
	assert.Equal(t, 10, f.store.stock(a), "second cancel must not restore again")

	_, err = f.svc.ConfirmOrder(context.Background(), order.ID)
	assert.IsType(t, &apperror.InvalidStateError{}, err, "cancelled is terminal")
}

func TestOrderLifecycle_EndToEnd(t *testing.T) {
	f := newFixture(messaging.NopPublisher{})
	p := f.product("P", 10)

	order := f.draft(t, line(p, 5, "2.00"))
	assert.Equal(t, domain.OrderStatusDraft, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("10.00")), order.TotalAmount.String())
	assert.Equal(t, 10, f.store.stock(p))

	confirmed, err := f.svc.ConfirmOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, confirmed.Status)
	assert.Equal(t, 5, f.store.stock(p))

	cancelled, err := f.svc.CancelOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, 10, f.store.stock(p))

	_, err = f.svc.ConfirmOrder(context.Background(), order.ID)
	assert.IsType(t, &apperror.InvalidStateError{}, err)
	assert.Equal(t, 10, f.store.stock(p))

	got, err := f.svc.GetOrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, got.Status)
}

// --- Propriedades ---

type lineDraft struct {
	product int
	qty     int
}

func TestConfirmCancel_Properties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := newFixture(messaging.NopPublisher{})

		initial := rapid.SliceOfN(rapid.IntRange(0, 20), 3, 3).Draw(rt, "stock")
		ids := make([]string, len(initial))
		for i, s := range initial {
			ids[i] = f.product("P", s)
		}

		drafts := rapid.SliceOfN(rapid.Custom(func(t *rapid.T) lineDraft {
			return lineDraft{
				product: rapid.IntRange(0, len(ids)-1).Draw(t, "product"),
				qty:     rapid.IntRange(1, 10).Draw(t, "qty"),
			}
		}), 1, 5).Draw(rt, "lines")

		demand := make([]int, len(ids))
		lines := make([]domain.OrderLineRequest, 0, len(drafts))
		for _, s := range drafts {
			demand[s.product] += s.qty
			lines = append(lines, line(ids[s.product], s.qty, "1"))
		}
		order := f.draft(rt, lines...)

		fits := true
		for i := range ids {
			if demand[i] > initial[i] {
				fits = false
			}
		}

		_, err := f.svc.ConfirmOrder(context.Background(), order.ID)
		if !fits {
			var insufficient *apperror.InsufficientStockError
			if !errors.As(err, &insufficient) {
				rt.Fatalf("expected InsufficientStock, got %v", err)
			}
			for i, id := range ids {
				assert.Equal(rt, initial[i], f.store.stock(id))
			}
			assert.Equal(rt, domain.OrderStatusDraft, f.store.status(order.ID))
			return
		}

		require.NoError(rt, err)
		for i, id := range ids {
			got := f.store.stock(id)
			assert.Equal(rt, initial[i]-demand[i], got)
			assert.GreaterOrEqual(rt, got, 0)
		}

		_, err = f.svc.CancelOrder(context.Background(), order.ID)
		require.NoError(rt, err)
		for i, id := range ids {
			assert.Equal(rt, initial[i], f.store.stock(id))
		}
	})
}
