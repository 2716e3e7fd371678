package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	domainerrors "tutorhub.backend/internal/domain/errors"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// uniqueViolation reports whether err is a unique constraint failure and,
// when the driver exposes it, the name of the violated constraint or column.
func uniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", true
	}

	// sqlite: "UNIQUE constraint failed: accounts.email"
	msg := err.Error()
	if idx := strings.Index(msg, "UNIQUE constraint failed"); idx >= 0 {
		return strings.TrimSpace(strings.TrimPrefix(msg[idx:], "UNIQUE constraint failed:")), true
	}

	return "", false
}

// foreignKeyViolation reports whether err is a failed reference to a missing parent row
func foreignKeyViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// translateWriteError maps constraint failures of an insert onto domain errors.
// onDuplicate is returned for unique violations, parent names the referenced rows.
func translateWriteError(err error, onDuplicate error, parent string) error {
	if err == nil {
		return nil
	}
	if _, ok := uniqueViolation(err); ok && onDuplicate != nil {
		return onDuplicate
	}
	if foreignKeyViolation(err) {
		return fmt.Errorf("%w: %s", domainerrors.ErrMissingReference, parent)
	}
	return err
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainerrors.ErrNotFound
	}
	return err
}
