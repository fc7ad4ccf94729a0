package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"sation/internal/domain"
)

// IsPgDuplicateError checks if error is a unique constraint violation
func IsPgDuplicateError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 = unique_violation
		return pgErr.Code == "23505"
	}
	return false
}

// IsPgNoRowsError checks if error is a "no rows" error
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsPgForeignKeyError checks if error is a foreign key violation
func IsPgForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23503 = foreign_key_violation
		return pgErr.Code == "23503"
	}
	return false
}

// TranslateError maps a pgx error for document id to the domain taxonomy.
func TranslateError(op, id string, err error) error {
	switch {
	case err == nil:
		return nil
	case IsPgNoRowsError(err):
		return &domain.NotFoundError{Message: fmt.Sprintf("document %s not found", id)}
	case IsPgForeignKeyError(err):
		return &domain.ValidationError{Message: fmt.Sprintf("document %s references a missing parent", id)}
	case IsPgDuplicateError(err):
		return &domain.ConflictError{
			Message:      fmt.Sprintf("document %s already exists", id),
			ResourceType: "document",
			ResourceID:   id,
		}
	default:
		return domain.NewStorageError(op, err)
	}
}
