package stock

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"minierp/internal/domain"
	"minierp/internal/pkg/logger"
	"minierp/internal/pkg/respond"
)

// StockService define o contrato que o Handler espera da camada de Serviço.
type StockService interface {
	AdjustStock(ctx context.Context, productID string, req domain.StockAdjustmentRequest) (domain.StockAdjustment, error)
}

// Handler agrupa todos os métodos de Handler de estoque.
type Handler struct {
	Service StockService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc StockService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// Routes registra a rota de ajuste sob /products.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/{id}/stock", h.AdjustStockHandler)
}

// AdjustStockHandler lida com a requisição POST /products/{id}/stock.
// @Summary Ajusta o estoque de um produto
// @Description Soma (delta positivo) ou subtrai (delta negativo) unidades do saldo. O saldo nunca fica negativo.
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "ID do Produto"
// @Param adjustment body domain.StockAdjustmentRequest true "Delta e motivo"
// @Success 200 {object} domain.StockAdjustment "Ajuste aplicado"
// @Failure 400 {object} domain.ErrorResponse "Delta inválido ou estoque insuficiente"
// @Failure 404 {object} domain.ErrorResponse "Produto não encontrado"
// @Security ApiKeyAuth
// @Router /products/{id}/stock [post]
func (h *Handler) AdjustStockHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.StockAdjustmentRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	adj, err := h.Service.AdjustStock(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, adj)
}
