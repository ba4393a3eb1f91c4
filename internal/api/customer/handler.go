package customer

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"minierp/internal/domain"
	"minierp/internal/pkg/logger"
	"minierp/internal/pkg/respond"
)

// CustomerService define o contrato que o Handler espera da camada de Serviço.
type CustomerService interface {
	CreateCustomer(ctx context.Context, req domain.CustomerCreateRequest) (domain.Customer, error)
	GetCustomerByID(ctx context.Context, id string) (domain.Customer, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
}

// Handler agrupa todos os métodos de Handler de clientes.
type Handler struct {
	Service CustomerService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc CustomerService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.CreateCustomerHandler)
	r.Get("/", h.ListCustomersHandler)
	r.Get("/{id}", h.GetCustomerByIDHandler)
}

// CreateCustomerHandler lida com a requisição POST /customers.
// @Summary Cria um novo cliente
// @Tags customers
// @Accept json
// @Produce json
// @Param customer body domain.CustomerCreateRequest true "Dados do cliente"
// @Success 201 {object} domain.Customer "Cliente criado"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 409 {object} domain.ErrorResponse "Email já cadastrado"
// @Router /customers [post]
func (h *Handler) CreateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.CustomerCreateRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	created, err := h.Service.CreateCustomer(r.Context(), req)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusCreated, created)
}

// GetCustomerByIDHandler lida com a requisição GET /customers/{id}.
// @Summary Obtém um cliente por ID
// @Tags customers
// @Produce json
// @Param id path string true "ID do Cliente"
// @Success 200 {object} domain.Customer "Cliente encontrado"
// @Failure 404 {object} domain.ErrorResponse "Cliente não encontrado"
// @Router /customers/{id} [get]
func (h *Handler) GetCustomerByIDHandler(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.GetCustomerByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, c)
}

// ListCustomersHandler lida com a requisição GET /customers.
// @Summary Lista todos os clientes
// @Tags customers
// @Produce json
// @Success 200 {array} domain.Customer "Lista de clientes"
// @Router /customers [get]
func (h *Handler) ListCustomersHandler(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Service.ListCustomers(r.Context())
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, customers)
}
