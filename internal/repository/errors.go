package repository

import (
	"database/sql"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"github.com/natalie-goriela/Library-API/internal/errs"
)

// wrapPgError maps driver-level failures onto the domain error taxonomy.
// Check constraints double the validation layer: even a write that slipped
// past request validation cannot corrupt inventory or date ordering.
func wrapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errs.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.CheckViolation:
		switch pgErr.ConstraintName {
		case "books_inventory_check":
			return errs.ErrOutOfStock
		case "borrowings_expected_return_date_check":
			return errs.NewValidationError("expected_return_date", "Return date cannot be earlier than the borrow date")
		case "borrowings_actual_return_date_check":
			return errs.NewValidationError("actual_return_date", "Return date cannot be earlier than the borrow date")
		case "books_cover_check":
			return errs.NewValidationError("cover", "Cover must be HARD or SOFT")
		}
	case pgerrcode.ForeignKeyViolation:
		return errs.ErrNotFound
	case pgerrcode.UniqueViolation:
		return errs.ErrEmailTaken
	}
	return err
}
