package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jsamuelsen/fuelquote/internal/domain"
)

const (
	codeUniqueViolation    = "23505"
	classIntegrityViolated = "23"
)

// translateError maps driver errors onto domain errors. Integrity violations
// are the caller's fault; everything else means the store is unavailable.
func translateError(entity string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == codeUniqueViolation:
			return fmt.Errorf("%w: %w", domain.NewConflictError(entity, pgErr.ConstraintName), err)
		case strings.HasPrefix(pgErr.Code, classIntegrityViolated):
			field := pgErr.ColumnName
			if field == "" {
				field = pgErr.ConstraintName
			}

			return fmt.Errorf("%w: %w", domain.NewValidationError(field, pgErr.Message), err)
		}
	}

	return fmt.Errorf("%w: %w", domain.NewUnavailableError("postgres", entity+" query failed"), err)
}
