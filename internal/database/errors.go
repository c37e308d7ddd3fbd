package database

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/safar/inventory-api/internal/apperr"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"
	codeInvalidText         = "22P02"
	codeNumericOutOfRange   = "22003"
)

var (
	ErrUserNotFound        = apperr.NotFound("user not found")
	ErrCategoryNotFound    = apperr.NotFound("category not found")
	ErrProductNotFound     = apperr.NotFound("product not found")
	ErrTransactionNotFound = apperr.NotFound("stock movement not found")
	ErrInsufficientStock   = apperr.Validation("insufficient stock quantity")
	ErrEmailTaken          = apperr.Conflict("email already registered")
	ErrCategoryExists      = apperr.Conflict("category already exists")
	ErrCategoryInUse       = apperr.Conflict("category still has products")
)

// ClassifyError maps a driver error onto an apperr kind. Errors that are not
// PostgreSQL constraint failures classify as internal.
func ClassifyError(err error) apperr.Kind {
	if err == nil {
		return apperr.KindInternal
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case codeUniqueViolation, codeForeignKeyViolation:
			return apperr.KindConflict
		case codeNotNullViolation, codeCheckViolation, codeInvalidText, codeNumericOutOfRange:
			return apperr.KindValidation
		}
	}

	if errors.Is(err, sql.ErrNoRows) {
		return apperr.KindNotFound
	}

	return apperr.KindInternal
}

var constraintMessages = map[string]string{
	codeUniqueViolation:     "resource already exists",
	codeForeignKeyViolation: "referenced resource does not exist",
	codeNotNullViolation:    "required value is missing",
	codeCheckViolation:      "value is out of the allowed range",
	codeInvalidText:         "invalid input value",
	codeNumericOutOfRange:   "numeric value is out of range",
}

// TranslateError replaces a PostgreSQL constraint failure with an apperr
// error carrying a client-safe message. Anything else is returned unchanged.
func TranslateError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	kind := ClassifyError(err)
	message, ok := constraintMessages[string(pqErr.Code)]
	if kind == apperr.KindInternal || !ok {
		return err
	}

	return apperr.New(kind, message)
}

func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == codeUniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == codeForeignKeyViolation
}
