package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError é a interface central para todos os erros tipados do Mini ERP.
// Ela permite que o Handler acesse a Categoria, o status HTTP e a causa do erro.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Category() string // Categoria do erro (e.g., "VALIDATION_ERROR", "NOT_FOUND", "INTERNAL_ERROR")
	HTTPStatus() int  // Código HTTP sugerido para o Handler
	Unwrap() error    // Permite encapsular erros subjacentes
}

// --- Erros de Domínio ---

// ValidationError representa falhas de validação de dados de entrada.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string    { return e.Msg }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest }
func (e *ValidationError) Unwrap() error    { return nil }

// NewValidationError cria um novo erro de validação.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// NotFoundError representa a ausência de um recurso referenciado.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return e.Msg }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound }
func (e *NotFoundError) Unwrap() error    { return nil }

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// InvalidStateError representa uma transição de status fora da tabela de transições.
type InvalidStateError struct {
	Msg  string
	From string
	To   string
}

func (e *InvalidStateError) Error() string    { return e.Msg }
func (e *InvalidStateError) Category() string { return "INVALID_STATE" }
func (e *InvalidStateError) HTTPStatus() int  { return http.StatusBadRequest }
func (e *InvalidStateError) Unwrap() error    { return nil }

// NewInvalidStateError cria um erro de transição ilegal de from para to.
func NewInvalidStateError(msg, from, to string) AppError {
	return &InvalidStateError{Msg: msg, From: from, To: to}
}

// InsufficientStockError indica que a quantidade exigida excede o estoque disponível.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Required    int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for product %s. Available: %d, Required: %d", e.ProductName, e.Available, e.Required)
}
func (e *InsufficientStockError) Category() string { return "INSUFFICIENT_STOCK" }
func (e *InsufficientStockError) HTTPStatus() int  { return http.StatusBadRequest }
func (e *InsufficientStockError) Unwrap() error    { return nil }

// NewInsufficientStockError cria o erro com os dados do produto ofensor.
func NewInsufficientStockError(productID, productName string, available, required int) AppError {
	return &InsufficientStockError{ProductID: productID, ProductName: productName, Available: available, Required: required}
}

// ConstraintViolationError representa violação de restrição do banco (e.g., email duplicado).
type ConstraintViolationError struct {
	Msg        string
	Constraint string
	Err        error
}

func (e *ConstraintViolationError) Error() string    { return e.Msg }
func (e *ConstraintViolationError) Category() string { return "CONSTRAINT_VIOLATION" }
func (e *ConstraintViolationError) HTTPStatus() int  { return http.StatusConflict }
func (e *ConstraintViolationError) Unwrap() error    { return e.Err }

// NewConstraintViolationError cria um erro de violação de restrição.
func NewConstraintViolationError(msg, constraint string, err error) AppError {
	return &ConstraintViolationError{Msg: msg, Constraint: constraint, Err: err}
}

// ConflictError representa um conflito de concorrência.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string    { return e.Msg }
func (e *ConflictError) Category() string { return "CONFLICT" }
func (e *ConflictError) HTTPStatus() int  { return http.StatusConflict }
func (e *ConflictError) Unwrap() error    { return nil }

// NewConflictError cria um novo erro de conflito.
func NewConflictError(msg string) AppError {
	return &ConflictError{Msg: msg}
}

// UnauthorizedError representa credenciais ausentes ou inválidas.
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string    { return e.Msg }
func (e *UnauthorizedError) Category() string { return "UNAUTHORIZED" }
func (e *UnauthorizedError) HTTPStatus() int  { return http.StatusUnauthorized }
func (e *UnauthorizedError) Unwrap() error    { return nil }

func NewUnauthorizedError(msg string) AppError {
	return &UnauthorizedError{Msg: msg}
}

// ForbiddenError representa um usuário autenticado sem a permissão necessária.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string    { return e.Msg }
func (e *ForbiddenError) Category() string { return "FORBIDDEN" }
func (e *ForbiddenError) HTTPStatus() int  { return http.StatusForbidden }
func (e *ForbiddenError) Unwrap() error    { return nil }

func NewForbiddenError(msg string) AppError {
	return &ForbiddenError{Msg: msg}
}

// --- Erros de Infraestrutura (Encapsulamento) ---

// InternalError representa falhas inesperadas no servidor, serviço ou repositório.
type InternalError struct {
	Msg string
	Err error // Erro original subjacente (e.g., erro do driver SQL)
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError }
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError cria um erro de servidor.
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// NewDBError é um atalho para criar um InternalError de falhas no DB.
func NewDBError(msg string, err error) AppError {
	return NewInternalError(fmt.Sprintf("%s (DB)", msg), err)
}

// statusOverride mantém categoria e mensagem de um AppError, trocando apenas o status HTTP.
type statusOverride struct {
	AppError
	status int
}

func (e *statusOverride) HTTPStatus() int { return e.status }

// WithHTTPStatus devolve err com o status HTTP forçado para status.
// Erros que não são AppError são devolvidos sem alteração.
func WithHTTPStatus(err error, status int) error {
	var appErr AppError
	if !errors.As(err, &appErr) {
		return err
	}
	return &statusOverride{AppError: appErr, status: status}
}

// --- Helper para o Handler (Tradução Final) ---

// MapToHTTPStatus traduz um erro para (status, categoria, mensagem).
// Erros 5xx não expõem detalhes internos ao cliente.
func MapToHTTPStatus(err error) (int, string, string) {
	var appErr AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus()
		if status >= http.StatusInternalServerError {
			return status, appErr.Category(), "An unexpected internal error occurred."
		}
		return status, appErr.Category(), appErr.Error()
	}

	// Erro não tipado: tratado como erro interno genérico.
	return http.StatusInternalServerError, "UNKNOWN_ERROR", "An unexpected internal error occurred."
}
