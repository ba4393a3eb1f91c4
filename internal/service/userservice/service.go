package userservice

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"minierp/internal/domain"
	apperror "minierp/internal/errors"
	"minierp/internal/pkg/logger"
	"minierp/internal/pkg/validation"
)

// UserRepository define o contrato de persistência para a entidade User.
type UserRepository interface {
	Save(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

// TokenService é o contrato da camada de token (internal/pkg/token).
type TokenService interface {
	GenerateToken(userID string, userRole string) (string, error)
}

// UserService define o serviço de lógica de negócio para a entidade User.
type UserService struct {
	repo      UserRepository
	tokens    TokenService
	validator *validation.Validator
	logger    logger.Logger
}

// NewService cria uma nova instância do UserService.
func NewService(repo UserRepository, tokens TokenService, validator *validation.Validator, logger logger.Logger) *UserService {
	return &UserService{repo: repo, tokens: tokens, validator: validator, logger: logger}
}

// Register registra um novo usuário com o papel padrão "user".
// Email repetido chega do repositório como ConstraintViolation.
func (s *UserService) Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error) {
	// 1. Validação
	registration.Email = strings.ToLower(strings.TrimSpace(registration.Email))
	if err := s.validator.Struct(registration); err != nil {
		return domain.User{}, err
	}

	// 2. Hashing da Senha
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("failed to hash password", err)
	}

	// 3. Criação do Objeto User
	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        registration.Email,
		PasswordHash: string(hashedPassword),
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 4. Persistência
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return domain.User{}, err
	}

	s.logger.Info("Usuário registrado.", map[string]interface{}{"user_id": saved.ID})
	return saved, nil
}

// Login autentica um usuário, verifica a senha e gera um JWT.
func (s *UserService) Login(ctx context.Context, req domain.LoginRequest) (string, error) {
	// 1. Validação Básica
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Struct(req); err != nil {
		return "", err
	}

	// 2. Buscar Usuário pelo Email
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		// NotFound vira 401 para não revelar quais emails existem.
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			return "", apperror.NewUnauthorizedError("Invalid credentials")
		}
		return "", err
	}

	// 3. Comparar Senhas
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("Tentativa de login com senha incorreta.", map[string]interface{}{"user_id": user.ID})
		return "", apperror.NewUnauthorizedError("Invalid credentials")
	}

	// 4. Gerar JWT
	tokenString, err := s.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return "", apperror.NewInternalError("failed to issue token", err)
	}
	return tokenString, nil
}
