package database

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	apperror "minierp/internal/errors"
)

// Códigos SQLSTATE tratados como erro de domínio.
const (
	codeNumericOutOfRange   = pq.ErrorCode("22003")
	codeForeignKeyViolation = pq.ErrorCode("23503")
	codeUniqueViolation     = pq.ErrorCode("23505")
	codeCheckViolation      = pq.ErrorCode("23514")
)

// TranslateError converte erros do driver pq em AppError.
// Violações de restrição e valores fora da faixa da coluna viram erros 4xx;
// o restante vira InternalError (DB).
func TranslateError(op string, err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return apperror.NewDBError(op, err)
	}

	switch pqErr.Code {
	case codeUniqueViolation:
		return apperror.NewConstraintViolationError(describe("duplicate value violates unique constraint", pqErr), pqErr.Constraint, err)
	case codeCheckViolation:
		return apperror.NewConstraintViolationError(describe("value violates check constraint", pqErr), pqErr.Constraint, err)
	case codeNumericOutOfRange:
		return apperror.NewValidationError(describe("value out of range", pqErr))
	case codeForeignKeyViolation:
		return apperror.NewNotFoundError(describe("referenced record does not exist", pqErr))
	default:
		return apperror.NewDBError(op, err)
	}
}

// describe monta a mensagem usando o Detail do Postgres, que nomeia coluna e valor.
func describe(prefix string, pqErr *pq.Error) string {
	switch {
	case pqErr.Detail != "":
		return fmt.Sprintf("%s: %s", prefix, pqErr.Detail)
	case pqErr.Constraint != "":
		return fmt.Sprintf("%s %q", prefix, pqErr.Constraint)
	default:
		return prefix
	}
}
