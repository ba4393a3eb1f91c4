package productservice

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"minierp/internal/domain"
	apperror "minierp/internal/errors"
	"minierp/internal/pkg/logger"
	"minierp/internal/pkg/validation"
)

// ProductRepository define o contrato (interface) que este Serviço espera
// da camada de Persistência.
type ProductRepository interface {
	Save(ctx context.Context, product domain.Product) (domain.Product, error)
	FindByID(ctx context.Context, id string) (domain.Product, error)
	FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
}

// Service implementa o catálogo de produtos.
type Service struct {
	repo      ProductRepository
	validator *validation.Validator
	logger    logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Produto.
func NewService(repo ProductRepository, validator *validation.Validator, logger logger.Logger) *Service {
	return &Service{repo: repo, validator: validator, logger: logger}
}

// CreateProduct valida o payload e persiste o produto. IsActive é true quando omitido.
func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	// 1. Validação de Regras de Negócio
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		s.logger.Warn("Payload de produto inválido.", map[string]interface{}{"error": err.Error()})
		return domain.Product{}, err
	}
	price := req.Price.Round(2)
	if price.IsNegative() {
		return domain.Product{}, apperror.NewValidationError("price must be greater than or equal to 0")
	}
	if price.GreaterThan(domain.MaxPrice) {
		return domain.Product{}, apperror.NewValidationError("price must be less than or equal to " + domain.MaxPrice.StringFixed(2))
	}

	// 2. Preenchimento de IDs, IsActive, CreatedAt/UpdatedAt
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	now := time.Now().UTC()
	product := domain.Product{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Price:         price,
		StockQuantity: *req.StockQuantity,
		IsActive:      isActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// 3. Persistência
	return s.repo.Save(ctx, product)
}

// GetProductByID busca um produto. IDs mal formados são rejeitados antes de ir ao banco.
func (s *Service) GetProductByID(ctx context.Context, id string) (domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Product{}, apperror.NewValidationError("Invalid product id: " + id)
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	return s.repo.FindAll(ctx, filter)
}
