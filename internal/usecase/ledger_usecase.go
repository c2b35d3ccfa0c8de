package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/glcore/internal/domain"
)

var (
	// ErrInconsistentLedger is returned when the ledger is not balanced.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: debits do not equal credits")
)

// LedgerUseCase handles ledger-wide checks.
type LedgerUseCase struct {
	ledgerRepo  LedgerRepository
	entryRepo   JournalEntryRepository
	accountRepo GLAccountRepository
	balanceRepo AccountBalanceRepository
	rounding    domain.RoundingPolicy
	now         func() time.Time
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	ledgerRepo LedgerRepository,
	entryRepo JournalEntryRepository,
	accountRepo GLAccountRepository,
	balanceRepo AccountBalanceRepository,
	rounding domain.RoundingPolicy,
) *LedgerUseCase {
	if rounding.Mode == "" {
		rounding = domain.HalfUp
	}

	return &LedgerUseCase{
		ledgerRepo:  ledgerRepo,
		entryRepo:   entryRepo,
		accountRepo: accountRepo,
		balanceRepo: balanceRepo,
		rounding:    rounding,
		now:         utcNow,
	}
}

// CurrencyConsistency holds the period totals of one currency.
type CurrencyConsistency struct {
	Currency    string
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
	Difference  decimal.Decimal
}

// PeriodConsistency is the trial balance check of one period.
type PeriodConsistency struct {
	FiscalYear   int
	FiscalPeriod int
	Currencies   []CurrencyConsistency
	Consistent   bool
	CheckedAt    time.Time
}

// CheckPeriodConsistency verifies that the balance rows of a period carry
// equal debit and credit totals in every currency. Entries that convert
// lines into an account's own currency show up as a difference between
// the two currencies involved; ReconcilePeriod checks those postings.
func (uc *LedgerUseCase) CheckPeriodConsistency(ctx context.Context, fiscalYear, fiscalPeriod int) (*PeriodConsistency, error) {
	if err := domain.ValidateFiscalPeriod(fiscalYear, fiscalPeriod); err != nil {
		return nil, err
	}

	totals, err := uc.ledgerRepo.PeriodTotals(ctx, fiscalYear, fiscalPeriod)
	if err != nil {
		return nil, err
	}

	report := &PeriodConsistency{
		FiscalYear:   fiscalYear,
		FiscalPeriod: fiscalPeriod,
		Currencies:   make([]CurrencyConsistency, 0, len(totals)),
		Consistent:   true,
		CheckedAt:    uc.now(),
	}

	for _, t := range totals {
		diff := t.DebitTotal.Sub(t.CreditTotal)
		report.Currencies = append(report.Currencies, CurrencyConsistency{
			Currency:    t.Currency,
			DebitTotal:  t.DebitTotal,
			CreditTotal: t.CreditTotal,
			Difference:  diff,
		})

		if !diff.IsZero() {
			report.Consistent = false
		}
	}

	return report, nil
}

// ReconciliationResult compares one stored balance with the totals
// recomputed from the period's journal entries.
type ReconciliationResult struct {
	Key              domain.BalanceKey
	RecordedDebit    decimal.Decimal
	RecordedCredit   decimal.Decimal
	CalculatedDebit  decimal.Decimal
	CalculatedCredit decimal.Decimal
	IsReconciled     bool
}

// ReconciliationReport summarizes ReconcilePeriod.
type ReconciliationReport struct {
	FiscalYear         int
	FiscalPeriod       int
	TotalAccounts      int
	ReconciledAccounts int
	Discrepancies      []*ReconciliationResult
	CheckedAt          time.Time
}

// ReconcilePeriod recomputes every account's period totals from the POSTED
// and REVERSED entries of the period and reports balances that disagree.
func (uc *LedgerUseCase) ReconcilePeriod(ctx context.Context, fiscalYear, fiscalPeriod int) (*ReconciliationReport, error) {
	if err := domain.ValidateFiscalPeriod(fiscalYear, fiscalPeriod); err != nil {
		return nil, err
	}

	calculated, err := uc.recompute(ctx, fiscalYear, fiscalPeriod)
	if err != nil {
		return nil, err
	}

	stored, err := uc.balanceRepo.FindBalancesForPeriod(ctx, fiscalYear, fiscalPeriod)
	if err != nil {
		return nil, err
	}

	results := make(map[string]*ReconciliationResult, len(stored)+len(calculated))
	for _, b := range stored {
		results[b.Key().AccountID] = &ReconciliationResult{
			Key:              b.Key(),
			RecordedDebit:    b.DebitTotal(),
			RecordedCredit:   b.CreditTotal(),
			CalculatedDebit:  decimal.Zero,
			CalculatedCredit: decimal.Zero,
		}
	}

	for accountID, totals := range calculated {
		r, ok := results[accountID]
		if !ok {
			r = &ReconciliationResult{
				Key:            domain.BalanceKey{AccountID: accountID, FiscalYear: fiscalYear, FiscalPeriod: fiscalPeriod},
				RecordedDebit:  decimal.Zero,
				RecordedCredit: decimal.Zero,
			}
			results[accountID] = r
		}

		r.CalculatedDebit = totals.debit
		r.CalculatedCredit = totals.credit
	}

	report := &ReconciliationReport{
		FiscalYear:    fiscalYear,
		FiscalPeriod:  fiscalPeriod,
		TotalAccounts: len(results),
		Discrepancies: make([]*ReconciliationResult, 0),
		CheckedAt:     uc.now(),
	}

	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		r := results[id]
		r.IsReconciled = r.RecordedDebit.Equal(r.CalculatedDebit) && r.RecordedCredit.Equal(r.CalculatedCredit)
		if r.IsReconciled {
			report.ReconciledAccounts++
		} else {
			report.Discrepancies = append(report.Discrepancies, r)
		}
	}

	return report, nil
}

type sideTotals struct {
	debit  decimal.Decimal
	credit decimal.Decimal
}

func (uc *LedgerUseCase) recompute(ctx context.Context, fiscalYear, fiscalPeriod int) (map[string]*sideTotals, error) {
	totals := make(map[string]*sideTotals)
	accounts := make(map[string]*domain.GLAccount)

	for _, status := range []domain.EntryStatus{domain.EntryStatusPosted, domain.EntryStatusReversed} {
		for offset := 0; ; offset += maxPageSize {
			entries, err := uc.entryRepo.List(ctx, JournalEntryFilter{
				Status:       status,
				FiscalYear:   fiscalYear,
				FiscalPeriod: fiscalPeriod,
				Limit:        maxPageSize,
				Offset:       offset,
			})
			if err != nil {
				return nil, err
			}

			for _, entry := range entries {
				if err := uc.addEntry(ctx, entry, accounts, totals); err != nil {
					return nil, fmt.Errorf("recompute entry %s: %w", entry.DocumentNumber(), err)
				}
			}

			if len(entries) < maxPageSize {
				break
			}
		}
	}

	return totals, nil
}

func (uc *LedgerUseCase) addEntry(
	ctx context.Context,
	entry *domain.JournalEntry,
	accounts map[string]*domain.GLAccount,
	totals map[string]*sideTotals,
) error {
	var missing []string
	for _, id := range entry.AccountIDs() {
		if _, ok := accounts[id]; !ok {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		found, err := uc.accountRepo.GetByIDs(ctx, missing)
		if err != nil {
			return err
		}
		for _, a := range found {
			accounts[a.ID] = a
		}
	}

	for _, line := range entry.Lines() {
		account, ok := accounts[line.AccountID()]
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, line.AccountID())
		}

		amount := line.Amount()
		if account.Currency != entry.Currency() && entry.ExchangeRate() != nil {
			converted, err := entry.ExchangeRate().ConvertAmount(amount, uc.rounding)
			if err != nil {
				return err
			}
			amount = converted
		}

		t, ok := totals[account.ID]
		if !ok {
			t = &sideTotals{debit: decimal.Zero, credit: decimal.Zero}
			totals[account.ID] = t
		}

		switch line.Side() {
		case domain.SideDebit:
			t.debit = t.debit.Add(amount)
		case domain.SideCredit:
			t.credit = t.credit.Add(amount)
		}
	}

	return nil
}
