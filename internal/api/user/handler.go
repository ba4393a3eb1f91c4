package user

import (
	"context"
	"net/http"

	"minierp/internal/domain"
	"minierp/internal/pkg/logger"
	"minierp/internal/pkg/respond"
)

// UserService define o contrato para as operações de registro e login.
type UserService interface {
	Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error)
	Login(ctx context.Context, req domain.LoginRequest) (string, error)
}

// LoginResponse é o corpo de resposta do login.
type LoginResponse struct {
	Token string `json:"token"`
}

// Handler agrupa todos os métodos de Handler do usuário.
type Handler struct {
	Service UserService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc UserService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// RegisterUserHandler lida com a requisição POST /register.
// @Summary Registra um novo usuário
// @Description Cria um novo usuário, hasheia a senha e salva no banco de dados.
// @Tags users
// @Accept json
// @Produce json
// @Param registration body domain.UserRegistration true "Credenciais de registro (email e senha)"
// @Success 201 {object} domain.User "Usuário criado"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 409 {object} domain.ErrorResponse "Email já cadastrado"
// @Router /register [post]
func (h *Handler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var registration domain.UserRegistration
	if err := respond.DecodeJSON(r, &registration); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	user, err := h.Service.Register(r.Context(), registration)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusCreated, user)
}

// LoginUserHandler lida com a requisição POST /login.
// @Summary Autentica um usuário
// @Description Verifica as credenciais e retorna um JWT.
// @Tags users
// @Accept json
// @Produce json
// @Param credentials body domain.LoginRequest true "Email e senha"
// @Success 200 {object} LoginResponse "Token emitido"
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Router /login [post]
func (h *Handler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	signed, err := h.Service.Login(r.Context(), req)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, LoginResponse{Token: signed})
}
