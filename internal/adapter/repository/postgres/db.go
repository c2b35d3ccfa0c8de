// Package postgres implements the repository and collaborator interfaces on
// PostgreSQL through pgx. Writes carry the stored version in their WHERE
// clause; a write that matches no row is a concurrent modification.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/infrastructure/postgres/generated"
	"github.com/iho/glcore/internal/usecase"
)

// DB is the subset of *pgxpool.Pool the repositories use.
type DB interface {
	generated.DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ErrForeignTx is returned when a repository receives a transaction it did not begin.
var ErrForeignTx = errors.New("transaction does not belong to postgres")

// PostgreSQL error codes.
const (
	pgErrUniqueViolation      = "23505"
	pgErrForeignKeyViolation  = "23503"
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
)

var uniqueConstraints = map[string]error{
	"charts_of_accounts_org_code_key":     domain.ErrDuplicateChartCode,
	"gl_accounts_chart_number_key":        domain.ErrDuplicateAccountNumber,
	"journal_entries_document_number_key": domain.ErrDuplicateDocumentNumber,
	"exchange_rates_pair_date_key":        domain.ErrDuplicateExchangeRate,
	"users_email_key":                     domain.ErrDuplicateEmail,
}

// mapError translates constraint and serialization failures to domain errors.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgErrUniqueViolation:
		if target, ok := uniqueConstraints[pgErr.ConstraintName]; ok {
			return fmt.Errorf("%w: %s", target, pgErr.Detail)
		}
	case pgErrForeignKeyViolation:
		return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, pgErr.Detail)
	case pgErrSerializationFailure, pgErrDeadlock:
		return fmt.Errorf("%w: %s", domain.ErrConcurrentModification, pgErr.Message)
	}

	return err
}

func queriesFor(tx usecase.Transaction) (*generated.Queries, error) {
	t, ok := tx.(*Tx)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrForeignTx, tx)
	}

	return generated.New(t.tx), nil
}

func notFound(err, target error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return target
	}

	return err
}

func versionConflict(resource, id string, expected domain.Version) error {
	return fmt.Errorf("%w: %s %s is no longer at version %s",
		domain.ErrConcurrentModification, resource, id, expected)
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func timestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func optTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}

	return timestamptz(*t)
}

func fromOptTimestamptz(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}

	t := ts.Time.UTC()

	return &t
}

func date(t time.Time) pgtype.Date {
	y, m, d := t.Date()
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

func fromDate(d pgtype.Date) time.Time {
	if !d.Valid {
		return time.Time{}
	}

	return d.Time.UTC()
}

func optText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func optTextPtr(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}

	return optText(*s)
}

func fromOptTextPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}

	s := t.String

	return &s
}

func pageArgs(limit, offset int) (int32, int32) {
	if limit <= 0 {
		limit = 1 << 30
	}

	return int32(limit), int32(offset)
}
