package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/infrastructure/postgres/generated"
)

// DocumentNumbers implements usecase.DocumentNumberSource on the
// document_sequences table. Each call commits on its own, so a number
// drawn by a posting that later fails is skipped, never reused.
type DocumentNumbers struct {
	queries *generated.Queries
}

// NewDocumentNumbers creates a new DocumentNumbers.
func NewDocumentNumbers(db DB) *DocumentNumbers {
	return &DocumentNumbers{queries: generated.New(db)}
}

// Next returns the next number of series, formatted as SERIES-00000001.
func (d *DocumentNumbers) Next(ctx context.Context, series string) (string, error) {
	n, err := d.queries.NextDocumentNumber(ctx, series)
	if err != nil {
		return "", fmt.Errorf("next document number in %s: %w", series, err)
	}

	return fmt.Sprintf("%s-%08d", series, n), nil
}

const (
	periodOpen   = "OPEN"
	periodClosed = "CLOSED"
)

// FiscalCalendar implements usecase.FiscalPeriodService on the
// fiscal_periods table.
type FiscalCalendar struct {
	queries       *generated.Queries
	openByDefault bool
}

// NewFiscalCalendar creates a calendar. Periods without a row are open
// when openByDefault is true.
func NewFiscalCalendar(db DB, openByDefault bool) *FiscalCalendar {
	return &FiscalCalendar{queries: generated.New(db), openByDefault: openByDefault}
}

// OpenPeriod marks a period open for posting.
func (c *FiscalCalendar) OpenPeriod(ctx context.Context, fiscalYear, fiscalPeriod int) error {
	return c.set(ctx, fiscalYear, fiscalPeriod, periodOpen)
}

// ClosePeriod marks a period closed.
func (c *FiscalCalendar) ClosePeriod(ctx context.Context, fiscalYear, fiscalPeriod int) error {
	return c.set(ctx, fiscalYear, fiscalPeriod, periodClosed)
}

func (c *FiscalCalendar) set(ctx context.Context, fiscalYear, fiscalPeriod int, status string) error {
	if err := domain.ValidateFiscalPeriod(fiscalYear, fiscalPeriod); err != nil {
		return err
	}

	return c.queries.SetFiscalPeriodStatus(ctx, generated.SetFiscalPeriodStatusParams{
		FiscalYear:   int32(fiscalYear),
		FiscalPeriod: int32(fiscalPeriod),
		Status:       status,
	})
}

func (c *FiscalCalendar) IsPeriodOpen(ctx context.Context, fiscalYear, fiscalPeriod int) (bool, error) {
	status, err := c.queries.GetFiscalPeriodStatus(ctx, generated.GetFiscalPeriodStatusParams{
		FiscalYear:   int32(fiscalYear),
		FiscalPeriod: int32(fiscalPeriod),
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return c.openByDefault, nil
	}
	if err != nil {
		return false, err
	}

	return status == periodOpen, nil
}
