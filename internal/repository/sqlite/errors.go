package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"sation/internal/domain"
)

func constraintCode(err error) int {
	var sqliteErr *moderncsqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()
	}
	return 0
}

// translateError maps a database/sql or SQLite error for document id to the domain taxonomy.
func translateError(op, id string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Message: fmt.Sprintf("document %s not found", id)}
	}

	switch constraintCode(err) {
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return &domain.ValidationError{Message: fmt.Sprintf("document %s references a missing parent", id)}
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return &domain.ConflictError{
			Message:      fmt.Sprintf("document %s already exists", id),
			ResourceType: "document",
			ResourceID:   id,
		}
	}

	return domain.NewStorageError(op, err)
}
