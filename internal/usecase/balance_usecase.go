package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/infrastructure/metrics"
)

// BalanceUseCase reads period balances and seeds opening balances.
type BalanceUseCase struct {
	txManager   TransactionManager
	accountRepo GLAccountRepository
	balanceRepo AccountBalanceRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	rounding    domain.RoundingPolicy
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(
	txManager TransactionManager,
	accountRepo GLAccountRepository,
	balanceRepo AccountBalanceRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	rounding domain.RoundingPolicy,
	metrics *metrics.Metrics,
) *BalanceUseCase {
	if rounding.Mode == "" {
		rounding = domain.HalfUp
	}

	return &BalanceUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		balanceRepo: balanceRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
		rounding:    rounding,
		metrics:     metrics,
		now:         utcNow,
	}
}

// WithClock replaces the time source.
func (uc *BalanceUseCase) WithClock(now func() time.Time) *BalanceUseCase {
	uc.now = now
	return uc
}

// SeedOpeningBalanceInput sets the carry-forward of one account and period.
type SeedOpeningBalanceInput struct {
	AccountID       string
	FiscalYear      int
	FiscalPeriod    int
	Opening         decimal.Decimal
	ExpectedVersion *domain.Version
}

// GetAccountBalance returns the balance of an account in a period. An
// account with no postings in the period reports an unsaved zero balance.
func (uc *BalanceUseCase) GetAccountBalance(ctx context.Context, accountID string, fiscalYear, fiscalPeriod int) (*domain.AccountBalance, error) {
	if err := domain.ValidateFiscalPeriod(fiscalYear, fiscalPeriod); err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	key := domain.BalanceKey{AccountID: account.ID, FiscalYear: fiscalYear, FiscalPeriod: fiscalPeriod}

	balance, err := uc.balanceRepo.Get(ctx, key)
	if errors.Is(err, domain.ErrBalanceNotFound) {
		return domain.NewAccountBalance(key, account, uc.now()), nil
	}

	return balance, err
}

// ListBalancesForPeriod returns every stored balance of a period.
func (uc *BalanceUseCase) ListBalancesForPeriod(ctx context.Context, fiscalYear, fiscalPeriod int) ([]*domain.AccountBalance, error) {
	if err := domain.ValidateFiscalPeriod(fiscalYear, fiscalPeriod); err != nil {
		return nil, err
	}

	return uc.balanceRepo.FindBalancesForPeriod(ctx, fiscalYear, fiscalPeriod)
}

// SeedOpeningBalance writes the opening amount of a period, creating the
// balance row when the period has none yet.
func (uc *BalanceUseCase) SeedOpeningBalance(ctx context.Context, input SeedOpeningBalanceInput) (*domain.AccountBalance, error) {
	balance, err := uc.GetAccountBalance(ctx, input.AccountID, input.FiscalYear, input.FiscalPeriod)
	if err != nil {
		return nil, err
	}

	if err := checkVersion(input.ExpectedVersion, balance.Version(), "balance", balance.Key().String()); err != nil {
		recordConflict(uc.metrics, err, "seed_opening")
		return nil, err
	}

	before := balance.Snapshot()
	kind := "update"
	if balance.Version().IsZero() {
		kind = "insert"
	}

	now := uc.now()
	if err := balance.SeedOpening(input.Opening, uc.rounding, now); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.balanceRepo.Save(txCtx, tx, balance); err != nil {
		recordConflict(uc.metrics, err, "seed_opening")
		return nil, err
	}

	if err := writeAudit(txCtx, uc.auditRepo, uc.idGen, tx, auditRecord{
		action:       domain.AuditActionBalanceSeed,
		resourceType: "account_balance",
		resourceID:   balance.Key().String(),
		before:       before,
		after:        balance.Snapshot(),
	}, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		recordConflict(uc.metrics, err, "seed_opening")
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BalanceWrites.WithLabelValues(kind).Inc()
	}

	return balance, nil
}
