package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"

	"lightbnb/internal/domain"
)

// Error is a driver failure classified into one of the domain sentinels.
// errors.Is matches Kind; errors.As still reaches the driver error.
type Error struct {
	Op         string
	Kind       error
	Table      string
	Constraint string
	Err        error
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.Constraint != "" {
		msg += " (" + e.Constraint + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// PostgreSQL SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// MySQL server error numbers.
const (
	myDupEntry         = 1062
	myNoReferencedRow  = 1452
	myNoReferencedRow1 = 1216
	myBadNull          = 1048
	myCheckViolated    = 3819
)

// mapError classifies err for operation op. Unrecognized errors are wrapped
// with the operation name only.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &Error{Op: op, Kind: domain.ErrNotFound, Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if kind := pgKind(pgErr.Code); kind != nil {
			return &Error{Op: op, Kind: kind, Table: pgErr.TableName, Constraint: pgErr.ConstraintName, Err: err}
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		if kind := mysqlKind(myErr.Number); kind != nil {
			return &Error{Op: op, Kind: kind, Err: err}
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func pgKind(code string) error {
	switch code {
	case pgUniqueViolation:
		return domain.ErrConflict
	case pgForeignKeyViolation:
		return domain.ErrInvalidReference
	case pgNotNullViolation, pgCheckViolation:
		return domain.ErrInvalid
	}
	return nil
}

func mysqlKind(n uint16) error {
	switch n {
	case myDupEntry:
		return domain.ErrConflict
	case myNoReferencedRow, myNoReferencedRow1:
		return domain.ErrInvalidReference
	case myBadNull, myCheckViolated:
		return domain.ErrInvalid
	}
	return nil
}
