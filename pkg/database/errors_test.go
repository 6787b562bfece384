package database

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "unique_review"})

	constraint, ok := UniqueViolation(err)
	assert.True(t, ok)
	assert.Equal(t, "unique_review", constraint)

	_, ok = ForeignKeyViolation(err)
	assert.False(t, ok)
}

func TestForeignKeyViolation(t *testing.T) {
	err := &pgconn.PgError{Code: "23503", ConstraintName: "reviews_title_id_fkey"}

	constraint, ok := ForeignKeyViolation(err)
	assert.True(t, ok)
	assert.Equal(t, "reviews_title_id_fkey", constraint)
}

func TestViolation_PlainError(t *testing.T) {
	_, ok := CheckViolation(fmt.Errorf("boom"))
	assert.False(t, ok)
}
