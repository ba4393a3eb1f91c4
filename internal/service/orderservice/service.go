package orderservice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"minierp/internal/domain"
	apperror "minierp/internal/errors"
	"minierp/internal/messaging"
	"minierp/internal/pkg/logger"
	"minierp/internal/pkg/validation"
)

// OrderRepository define o contrato de persistência de pedidos.
// WithinTx executa fn em uma única transação: erro em fn desfaz tudo.
type OrderRepository interface {
	Create(ctx context.Context, order domain.SalesOrder) (domain.SalesOrder, error)
	FindByID(ctx context.Context, id string) (domain.SalesOrder, error)
	FindAll(ctx context.Context, filter domain.OrderFilter) ([]domain.SalesOrder, error)
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx domain.OrderTx) error) error
}

// StockAdjuster é implementado por inventoryservice.Adjuster.
type StockAdjuster interface {
	CheckStock(ctx context.Context, ledger domain.StockLedger, productID string, required int) error
	ReduceStock(ctx context.Context, ledger domain.StockLedger, productID string, qty int) error
	RestoreStock(ctx context.Context, ledger domain.StockLedger, productID string, qty int) error
}

// Service orquestra criação, leitura e o ciclo de vida dos pedidos de venda.
type Service struct {
	repo      OrderRepository
	stock     StockAdjuster
	publisher messaging.Publisher
	validator *validation.Validator
	logger    logger.Logger
	tracer    trace.Tracer
	now       func() time.Time

	publishTimeout time.Duration
}

// DefaultPublishTimeout limita a espera pelo broker depois do commit.
const DefaultPublishTimeout = 3 * time.Second

// Option ajusta um Service na construção.
type Option func(*Service)

// WithPublishTimeout define quanto a resposta pode esperar pela publicação do evento.
func WithPublishTimeout(d time.Duration) Option {
	return func(s *Service) { s.publishTimeout = d }
}

// NewService cria e retorna uma nova instância do Serviço de Pedidos.
func NewService(repo OrderRepository, stock StockAdjuster, publisher messaging.Publisher, validator *validation.Validator, logger logger.Logger, opts ...Option) *Service {
	s := &Service{
		repo:           repo,
		stock:          stock,
		publisher:      publisher,
		validator:      validator,
		logger:         logger,
		tracer:         otel.Tracer("minierp/orders"),
		now:            time.Now,
		publishTimeout: DefaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder grava um pedido DRAFT com as linhas na ordem do payload.
// O estoque não é consultado aqui; a verificação acontece na confirmação.
func (s *Service) CreateOrder(ctx context.Context, req domain.OrderCreateRequest) (domain.SalesOrder, error) {
	ctx, span := s.tracer.Start(ctx, "orders.CreateOrder", trace.WithAttributes(
		attribute.String("customer.id", req.CustomerID),
		attribute.Int("order.lines", len(req.Lines)),
	))
	defer span.End()

	// 1. Validação do payload
	if err := s.validator.Struct(req); err != nil {
		s.logger.Warn("Payload de pedido inválido.", map[string]interface{}{"error": err.Error()})
		return domain.SalesOrder{}, err
	}
	for i, l := range req.Lines {
		price := l.UnitPrice.Round(2)
		switch {
		case price.IsNegative():
			return domain.SalesOrder{}, apperror.NewValidationError(
				fmt.Sprintf("lines[%d].unit_price must be greater than or equal to 0", i))
		case price.GreaterThan(domain.MaxPrice):
			return domain.SalesOrder{}, apperror.NewValidationError(
				fmt.Sprintf("lines[%d].unit_price must be less than or equal to %s", i, domain.MaxPrice.StringFixed(2)))
		}
	}

	// 2. Montagem do pedido e cálculo dos totais
	order := domain.SalesOrder{
		ID:          uuid.NewString(),
		CustomerID:  req.CustomerID,
		OrderDate:   s.now().UTC(),
		Status:      domain.OrderStatusDraft,
		TotalAmount: decimal.Zero,
		Lines:       make([]domain.SalesOrderLine, 0, len(req.Lines)),
	}
	for i, l := range req.Lines {
		price := l.UnitPrice.Round(2)
		lineTotal := price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		order.Lines = append(order.Lines, domain.SalesOrderLine{
			ID:        uuid.NewString(),
			OrderID:   order.ID,
			ProductID: l.ProductID,
			LineNo:    i + 1,
			Quantity:  l.Quantity,
			UnitPrice: price,
			LineTotal: lineTotal,
		})
		if lineTotal.GreaterThan(domain.MaxAmount) {
			return domain.SalesOrder{}, apperror.NewValidationError(
				fmt.Sprintf("lines[%d] total exceeds %s", i, domain.MaxAmount.StringFixed(2)))
		}
		order.TotalAmount = order.TotalAmount.Add(lineTotal)
	}
	if order.TotalAmount.GreaterThan(domain.MaxAmount) {
		return domain.SalesOrder{}, apperror.NewValidationError("order total exceeds " + domain.MaxAmount.StringFixed(2))
	}

	// 3. Persistência (cliente/produto inexistente chega como NotFound via FK)
	created, err := s.repo.Create(ctx, order)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.SalesOrder{}, err
	}
	span.SetAttributes(attribute.String("order.id", created.ID))

	s.publish(ctx, domain.EventOrderCreated, created)
	return created, nil
}

// GetOrderByID busca o pedido com as linhas.
func (s *Service) GetOrderByID(ctx context.Context, id string) (domain.SalesOrder, error) {
	if err := validateID(id); err != nil {
		return domain.SalesOrder{}, err
	}
	return s.repo.FindByID(ctx, id)
}

// ListOrders lista pedidos, mais recentes primeiro.
func (s *Service) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.SalesOrder, error) {
	return s.repo.FindAll(ctx, filter)
}

// transition descreve uma mudança de status e como ela move o estoque.
type transition struct {
	from, to  domain.OrderStatus
	rejectMsg string
	doneMsg   string
	event     string
	apply     func(ctx context.Context, tx domain.OrderTx, order domain.SalesOrder) error
}

// ConfirmOrder valida o estoque de todas as linhas e só então o decrementa (DRAFT -> CONFIRMED).
func (s *Service) ConfirmOrder(ctx context.Context, id string) (domain.OrderTransitionResult, error) {
	return s.run(ctx, id, transition{
		from:      domain.OrderStatusDraft,
		to:        domain.OrderStatusConfirmed,
		rejectMsg: "Only DRAFT orders can be confirmed",
		doneMsg:   "Order confirmed",
		event:     domain.EventOrderConfirmed,
		apply:     s.reserveLines,
	})
}

// CancelOrder devolve ao estoque as quantidades de todas as linhas (CONFIRMED -> CANCELLED).
func (s *Service) CancelOrder(ctx context.Context, id string) (domain.OrderTransitionResult, error) {
	return s.run(ctx, id, transition{
		from:      domain.OrderStatusConfirmed,
		to:        domain.OrderStatusCancelled,
		rejectMsg: "Only CONFIRMED orders can be cancelled",
		doneMsg:   "Order cancelled",
		event:     domain.EventOrderCancelled,
		apply:     s.releaseLines,
	})
}

func (s *Service) run(ctx context.Context, id string, t transition) (domain.OrderTransitionResult, error) {
	ctx, span := s.tracer.Start(ctx, "orders.Transition", trace.WithAttributes(
		attribute.String("order.id", id),
		attribute.String("order.from", string(t.from)),
		attribute.String("order.to", string(t.to)),
	))
	defer span.End()

	if err := validateID(id); err != nil {
		return domain.OrderTransitionResult{}, err
	}

	var updated domain.SalesOrder
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx domain.OrderTx) error {
		// 1. Carrega e bloqueia o pedido
		order, err := tx.GetOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}

		// 2. Verifica a transição
		if order.Status != t.from || !order.Status.CanTransitionTo(t.to) {
			return apperror.NewInvalidStateError(t.rejectMsg, string(order.Status), string(t.to))
		}

		// 3. Bloqueia os produtos em ordem crescente de ID
		if err := tx.LockProducts(ctx, order.ProductIDs()); err != nil {
			return err
		}

		// 4. Move o estoque
		if err := t.apply(ctx, tx, order); err != nil {
			return err
		}

		// 5. Grava o novo status
		if err := tx.UpdateOrderStatus(ctx, id, t.from, t.to); err != nil {
			return err
		}
		order.Status = t.to
		updated = order
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn("Transição de pedido rejeitada.", map[string]interface{}{
			"order_id": id,
			"to":       t.to,
			"error":    err.Error(),
		})
		return domain.OrderTransitionResult{}, err
	}

	s.logger.Info("Status do pedido alterado.", map[string]interface{}{"order_id": id, "from": t.from, "to": t.to})
	s.publish(ctx, t.event, updated)

	return domain.OrderTransitionResult{Message: t.doneMsg, OrderID: id, Status: t.to}, nil
}

// reserveLines roda em duas passagens: todas as linhas são verificadas antes de qualquer decremento.
// Linhas repetidas do mesmo produto somam a demanda.
func (s *Service) reserveLines(ctx context.Context, tx domain.OrderTx, order domain.SalesOrder) error {
	demand := make(map[string]int, len(order.Lines))
	for _, line := range order.Lines {
		demand[line.ProductID] += line.Quantity
		if err := s.stock.CheckStock(ctx, tx, line.ProductID, demand[line.ProductID]); err != nil {
			return err
		}
	}

	for _, line := range order.Lines {
		if err := s.stock.ReduceStock(ctx, tx, line.ProductID, line.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) releaseLines(ctx context.Context, tx domain.OrderTx, order domain.SalesOrder) error {
	for _, line := range order.Lines {
		if err := s.stock.RestoreStock(ctx, tx, line.ProductID, line.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// publish roda após o commit. Falha aqui não desfaz a mudança já gravada.
// O contexto herda o trace da requisição, mas não o cancelamento, e expira em publishTimeout.
func (s *Service) publish(ctx context.Context, eventType string, order domain.SalesOrder) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, domain.NewOrderEvent(eventType, order, s.now())); err != nil {
		s.logger.Error(fmt.Sprintf("Falha ao publicar evento %s do pedido %s.", eventType, order.ID), err)
	}
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("Invalid order id: " + id)
	}
	return nil
}
