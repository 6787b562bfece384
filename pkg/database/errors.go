package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

// UniqueViolation reports whether err is a unique constraint violation and
// which constraint fired.
func UniqueViolation(err error) (string, bool) {
	return violation(err, uniqueViolation)
}

func ForeignKeyViolation(err error) (string, bool) {
	return violation(err, foreignKeyViolation)
}

func CheckViolation(err error) (string, bool) {
	return violation(err, checkViolation)
}

func violation(err error, code string) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr.ConstraintName, true
	}
	return "", false
}
