package stockservice

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"minierp/internal/domain"
	apperror "minierp/internal/errors"
	"minierp/internal/pkg/logger"
	"minierp/internal/pkg/validation"
)

// StockRepository define o contrato que o Serviço de Estoque espera da camada de Persistência.
type StockRepository interface {
	AdjustStock(ctx context.Context, productID string, delta int) (domain.StockAdjustment, error)
}

// Service aplica ajustes manuais de estoque (entradas, inventário, perdas).
type Service struct {
	repo      StockRepository
	validator *validation.Validator
	logger    logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Estoque.
func NewService(repo StockRepository, validator *validation.Validator, logger logger.Logger) *Service {
	return &Service{repo: repo, validator: validator, logger: logger}
}

// AdjustStock aplica req.Delta ao estoque do produto. O saldo nunca fica negativo.
func (s *Service) AdjustStock(ctx context.Context, productID string, req domain.StockAdjustmentRequest) (domain.StockAdjustment, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return domain.StockAdjustment{}, apperror.NewValidationError("Invalid product id: " + productID)
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if err := s.validator.Struct(req); err != nil {
		return domain.StockAdjustment{}, err
	}

	adj, err := s.repo.AdjustStock(ctx, productID, req.Delta)
	if err != nil {
		return domain.StockAdjustment{}, err
	}
	adj.Reason = req.Reason

	s.logger.Info("Ajuste manual de estoque aplicado.", map[string]interface{}{
		"product_id": productID,
		"delta":      req.Delta,
		"previous":   adj.Previous,
		"current":    adj.Current,
		"reason":     req.Reason,
	})
	return adj, nil
}
