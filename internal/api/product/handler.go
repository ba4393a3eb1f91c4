package product

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"minierp/internal/domain"
	apperror "minierp/internal/errors"
	"minierp/internal/pkg/logger"
	"minierp/internal/pkg/respond"
)

// ProductService define o contrato que o Handler espera da camada de Serviço.
type ProductService interface {
	CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error)
	GetProductByID(ctx context.Context, id string) (domain.Product, error)
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
}

// Handler agrupa os handlers HTTP de produtos.
type Handler struct {
	Service ProductService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ProductService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// Routes registra as rotas de produtos em r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.CreateProductHandler)
	r.Get("/", h.ListProductsHandler)
	r.Get("/{id}", h.GetProductByIDHandler)
}

// CreateProductHandler lida com a requisição POST /products.
// @Summary Cria um novo produto
// @Description Cadastra um produto com preço e saldo inicial de estoque.
// @Tags products
// @Accept json
// @Produce json
// @Param product body domain.ProductCreateRequest true "Dados do produto"
// @Success 201 {object} domain.Product "Produto criado"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /products [post]
func (h *Handler) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.ProductCreateRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	created, err := h.Service.CreateProduct(r.Context(), req)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusCreated, created)
}

// GetProductByIDHandler lida com a requisição GET /products/{id}.
// @Summary Obtém um produto por ID
// @Tags products
// @Produce json
// @Param id path string true "ID do Produto"
// @Success 200 {object} domain.Product "Produto encontrado"
// @Failure 404 {object} domain.ErrorResponse "Produto não encontrado"
// @Router /products/{id} [get]
func (h *Handler) GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.GetProductByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, p)
}

// ListProductsHandler lida com a requisição GET /products.
// @Summary Lista produtos
// @Description Filtros opcionais: somente ativos e estoque baixo (< 10).
// @Tags products
// @Produce json
// @Param active_only query bool false "Somente produtos ativos"
// @Param low_stock query bool false "Somente produtos com estoque baixo"
// @Success 200 {array} domain.Product "Lista de produtos"
// @Failure 400 {object} domain.ErrorResponse "Filtro inválido"
// @Router /products [get]
func (h *Handler) ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	activeOnly, err := boolQuery(r, "active_only")
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	lowStock, err := boolQuery(r, "low_stock")
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	products, err := h.Service.ListProducts(r.Context(), domain.ProductFilter{ActiveOnly: activeOnly, LowStock: lowStock})
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, products)
}

func boolQuery(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperror.NewValidationError(name + " must be a boolean")
	}
	return v, nil
}
