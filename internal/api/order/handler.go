package order

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"minierp/internal/domain"
	apperror "minierp/internal/errors"
	"minierp/internal/pkg/logger"
	"minierp/internal/pkg/respond"
)

// OrderService define o contrato que o Handler espera da camada de Serviço.
type OrderService interface {
	CreateOrder(ctx context.Context, req domain.OrderCreateRequest) (domain.SalesOrder, error)
	GetOrderByID(ctx context.Context, id string) (domain.SalesOrder, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.SalesOrder, error)
	ConfirmOrder(ctx context.Context, id string) (domain.OrderTransitionResult, error)
	CancelOrder(ctx context.Context, id string) (domain.OrderTransitionResult, error)
}

// Handler agrupa os handlers HTTP de pedidos de venda.
type Handler struct {
	Service OrderService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc OrderService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// Routes registra as rotas de leitura e criação. As transições ficam em TransitionRoutes
// para que o router aplique permissões só nelas.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.CreateOrderHandler)
	r.Get("/", h.ListOrdersHandler)
	r.Get("/{id}", h.GetOrderByIDHandler)
}

func (h *Handler) TransitionRoutes(r chi.Router) {
	r.Post("/{id}/confirm", h.ConfirmOrderHandler)
	r.Post("/{id}/cancel", h.CancelOrderHandler)
}

// CreateOrderHandler lida com a requisição POST /orders.
// @Summary Cria um pedido de venda (DRAFT)
// @Description Calcula os totais das linhas. O estoque só é verificado na confirmação.
// @Tags orders
// @Accept json
// @Produce json
// @Param order body domain.OrderCreateRequest true "Cliente e linhas do pedido"
// @Success 201 {object} domain.SalesOrder "Pedido criado"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Cliente ou produto inexistente"
// @Router /orders [post]
func (h *Handler) CreateOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.OrderCreateRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	created, err := h.Service.CreateOrder(r.Context(), req)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusCreated, created)
}

// GetOrderByIDHandler lida com a requisição GET /orders/{id}.
// @Summary Obtém um pedido com as linhas
// @Tags orders
// @Produce json
// @Param id path string true "ID do Pedido"
// @Success 200 {object} domain.SalesOrder "Pedido encontrado"
// @Failure 404 {object} domain.ErrorResponse "Pedido não encontrado"
// @Router /orders/{id} [get]
func (h *Handler) GetOrderByIDHandler(w http.ResponseWriter, r *http.Request) {
	o, err := h.Service.GetOrderByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, o)
}

// ListOrdersHandler lida com a requisição GET /orders.
// @Summary Lista pedidos com as linhas
// @Tags orders
// @Produce json
// @Param status query string false "DRAFT, CONFIRMED ou CANCELLED"
// @Success 200 {array} domain.SalesOrder "Lista de pedidos"
// @Failure 400 {object} domain.ErrorResponse "Status inválido"
// @Router /orders [get]
func (h *Handler) ListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	var filter domain.OrderFilter
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := domain.ParseOrderStatus(raw)
		if err != nil {
			respond.Error(w, r, h.Logger, apperror.NewValidationError(err.Error()))
			return
		}
		filter.Status = status
	}

	orders, err := h.Service.ListOrders(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, orders)
}

// ConfirmOrderHandler lida com a requisição POST /orders/{id}/confirm.
// @Summary Confirma um pedido DRAFT e baixa o estoque
// @Tags orders
// @Produce json
// @Param id path string true "ID do Pedido"
// @Success 200 {object} domain.OrderTransitionResult "Pedido confirmado"
// @Failure 400 {object} domain.ErrorResponse "Estado inválido, estoque insuficiente ou pedido inexistente"
// @Security ApiKeyAuth
// @Router /orders/{id}/confirm [post]
func (h *Handler) ConfirmOrderHandler(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.ConfirmOrder(r.Context(), chi.URLParam(r, "id"))
	h.writeTransition(w, r, result, err)
}

// CancelOrderHandler lida com a requisição POST /orders/{id}/cancel.
// @Summary Cancela um pedido CONFIRMED e devolve o estoque
// @Tags orders
// @Produce json
// @Param id path string true "ID do Pedido"
// @Success 200 {object} domain.OrderTransitionResult "Pedido cancelado"
// @Failure 400 {object} domain.ErrorResponse "Estado inválido ou pedido inexistente"
// @Security ApiKeyAuth
// @Router /orders/{id}/cancel [post]
func (h *Handler) CancelOrderHandler(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.CancelOrder(r.Context(), chi.URLParam(r, "id"))
	h.writeTransition(w, r, result, err)
}

// writeTransition responde 400 também para pedido inexistente nas rotas de transição.
func (h *Handler) writeTransition(w http.ResponseWriter, r *http.Request, result domain.OrderTransitionResult, err error) {
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			err = apperror.WithHTTPStatus(err, http.StatusBadRequest)
		}
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, result)
}
