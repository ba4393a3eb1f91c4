package customerservice

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

// CustomerRepository define o contrato que o Serviço de Clientes espera da camada de Persistência.
type CustomerRepository interface {
	CreateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	GetCustomerByID(ctx context.Context, id string) (domain.Customer, error)
	GetAllCustomers(ctx context.Context) ([]domain.Customer, error)
}

// Service implementa o cadastro de clientes.
type Service struct {
	repo      CustomerRepository
	validator *validation.Validator
	logger    logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Clientes.
func NewService(repo CustomerRepository, validator *validation.Validator, logger logger.Logger) *Service {
	return &Service{repo: repo, validator: validator, logger: logger}
}

// CreateCustomer cria um novo cliente após validações de negócio.
// Email e telefone vazios são gravados como NULL.
func (s *Service) CreateCustomer(ctx context.Context, req domain.CustomerCreateRequest) (domain.Customer, error) {
	s.logger.Debug("Iniciando criação de cliente no serviço.", map[string]interface{}{"name": req.Name})

	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalize(req.Email)
	req.Phone = normalize(req.Phone)

	if err := s.validator.Struct(req); err != nil {
		s.logger.Warn("Falha na validação do cliente.", map[string]interface{}{"error": err.Error()})
		return domain.Customer{}, err
	}

	customer := domain.Customer{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.repo.CreateCustomer(ctx, customer)
	if err != nil {
		s.logger.Error("Erro ao criar cliente no repositório.", err)
		return domain.Customer{}, err
	}
	return created, nil
}

// GetCustomerByID busca um cliente pelo ID.
func (s *Service) GetCustomerByID(ctx context.Context, id string) (domain.Customer, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Customer{}, apperror.NewValidationError("Invalid customer id: " + id)
	}
	return s.repo.GetCustomerByID(ctx, id)
}

// ListCustomers lista todos os clientes.
func (s *Service) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.repo.GetAllCustomers(ctx)
}

func normalize(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
