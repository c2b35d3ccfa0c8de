package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/glcore/internal/domain"
)

// PeriodStatus reports whether a fiscal period accepts postings.
type PeriodStatus struct {
	FiscalYear   int
	FiscalPeriod int
	Open         bool
}

// PeriodUseCase administers the fiscal calendar.
type PeriodUseCase struct {
	txManager TransactionManager
	calendar  FiscalPeriodAdmin
	auditRepo AuditRepository
	idGen     IDGenerator
	now       func() time.Time
}

func NewPeriodUseCase(
	txManager TransactionManager,
	calendar FiscalPeriodAdmin,
	auditRepo AuditRepository,
	idGen IDGenerator,
) *PeriodUseCase {
	return &PeriodUseCase{
		txManager: txManager,
		calendar:  calendar,
		auditRepo: auditRepo,
		idGen:     idGen,
		now:       utcNow,
	}
}

// WithClock replaces the time source.
func (uc *PeriodUseCase) WithClock(now func() time.Time) *PeriodUseCase {
	uc.now = now
	return uc
}

// GetPeriodStatus reports the current status of a period.
func (uc *PeriodUseCase) GetPeriodStatus(ctx context.Context, fiscalYear, fiscalPeriod int) (*PeriodStatus, error) {
	if err := domain.ValidateFiscalPeriod(fiscalYear, fiscalPeriod); err != nil {
		return nil, err
	}

	open, err := uc.calendar.IsPeriodOpen(ctx, fiscalYear, fiscalPeriod)
	if err != nil {
		return nil, err
	}

	return &PeriodStatus{FiscalYear: fiscalYear, FiscalPeriod: fiscalPeriod, Open: open}, nil
}

// OpenPeriod allows postings into a period.
func (uc *PeriodUseCase) OpenPeriod(ctx context.Context, fiscalYear, fiscalPeriod int) (*PeriodStatus, error) {
	return uc.setStatus(ctx, fiscalYear, fiscalPeriod, true)
}

// ClosePeriod rejects further postings into a period. Entries already
// posted are unaffected.
func (uc *PeriodUseCase) ClosePeriod(ctx context.Context, fiscalYear, fiscalPeriod int) (*PeriodStatus, error) {
	return uc.setStatus(ctx, fiscalYear, fiscalPeriod, false)
}

func (uc *PeriodUseCase) setStatus(ctx context.Context, fiscalYear, fiscalPeriod int, open bool) (*PeriodStatus, error) {
	before, err := uc.GetPeriodStatus(ctx, fiscalYear, fiscalPeriod)
	if err != nil {
		return nil, err
	}

	action := domain.AuditActionPeriodClose
	if open {
		action = domain.AuditActionPeriodOpen
		err = uc.calendar.OpenPeriod(ctx, fiscalYear, fiscalPeriod)
	} else {
		err = uc.calendar.ClosePeriod(ctx, fiscalYear, fiscalPeriod)
	}
	if err != nil {
		return nil, err
	}

	after := &PeriodStatus{FiscalYear: fiscalYear, FiscalPeriod: fiscalPeriod, Open: open}

	// The calendar is not transactional, so the audit row follows the change.
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := writeAudit(txCtx, uc.auditRepo, uc.idGen, tx, auditRecord{
		action:       action,
		resourceType: "fiscal_period",
		resourceID:   fmt.Sprintf("%04d-%02d", fiscalYear, fiscalPeriod),
		before:       before,
		after:        after,
	}, uc.now()); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return after, nil
}
