package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/infrastructure/metrics"
)

// AccountUseCase handles GL account business logic.
type AccountUseCase struct {
	txManager   TransactionManager
	chartRepo   ChartRepository
	accountRepo GLAccountRepository
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	chartRepo ChartRepository,
	accountRepo GLAccountRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		chartRepo:   chartRepo,
		accountRepo: accountRepo,
		outboxRepo:  outboxRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
		metrics:     metrics,
		now:         utcNow,
	}
}

// WithClock replaces the time source.
func (uc *AccountUseCase) WithClock(now func() time.Time) *AccountUseCase {
	uc.now = now
	return uc
}

// CreateGLAccountInput represents input for creating a GL account.
type CreateGLAccountInput struct {
	ChartID       string
	Number        string
	Name          string
	Type          domain.AccountType
	Statement     domain.StatementType
	NormalBalance domain.NormalBalance
	Currency      string
	Controls      *domain.PostingControls // nil means DefaultPostingControls
	ParentID      *string
}

// ListAccountsInput pages through the accounts of a chart.
type ListAccountsInput struct {
	ChartID string
	Limit   int
	Offset  int
}

// AccountStatusInput identifies an account whose status changes.
type AccountStatusInput struct {
	AccountID       string
	ExpectedVersion *domain.Version
}

// CreateGLAccount creates an ACTIVE account in an active chart.
func (uc *AccountUseCase) CreateGLAccount(ctx context.Context, input CreateGLAccountInput) (*domain.GLAccount, error) {
	chart, err := uc.chartRepo.GetByID(ctx, input.ChartID)
	if err != nil {
		return nil, err
	}

	if !chart.IsActive() {
		return nil, fmt.Errorf("%w: chart %s is %s", domain.ErrChartNotActive, chart.Code, chart.Status)
	}

	existing, err := uc.accountRepo.GetByNumber(ctx, chart.ID, input.Number)
	switch {
	case err == nil && existing != nil:
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateAccountNumber, input.Number)
	case err != nil && !errors.Is(err, domain.ErrAccountNotFound):
		return nil, err
	}

	if input.ParentID != nil {
		parent, err := uc.accountRepo.GetByID(ctx, *input.ParentID)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				return nil, fmt.Errorf("%w: parent %s does not exist", domain.ErrInvalidParent, *input.ParentID)
			}
			return nil, err
		}

		if parent.ChartID != chart.ID {
			return nil, fmt.Errorf("%w: parent %s belongs to another chart", domain.ErrInvalidParent, parent.Number)
		}
	}

	controls := domain.DefaultPostingControls()
	if input.Controls != nil {
		controls = *input.Controls
	}

	now := uc.now()
	account, err := domain.NewGLAccount(domain.GLAccountSpec{
		ID:            uc.idGen.Generate(),
		ChartID:       chart.ID,
		Number:        input.Number,
		Name:          input.Name,
		Type:          input.Type,
		Statement:     input.Statement,
		NormalBalance: input.NormalBalance,
		Currency:      input.Currency,
		Controls:      controls,
		ParentID:      input.ParentID,
	}, now)
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.accountRepo.Create(txCtx, tx, account); err != nil {
		return nil, err
	}

	payload := map[string]any{
		"account_id": account.ID,
		"chart_id":   account.ChartID,
		"number":     account.Number,
		"class":      string(account.Class),
		"currency":   account.Currency,
	}
	if err := writeEvent(txCtx, uc.outboxRepo, uc.idGen, tx, domain.AggregateTypeGLAccount, account.ID, domain.EventTypeGLAccountCreated, payload, now); err != nil {
		return nil, err
	}

	if err := writeAudit(txCtx, uc.auditRepo, uc.idGen, tx, auditRecord{
		action:       domain.AuditActionAccountCreate,
		resourceType: domain.AggregateTypeGLAccount,
		resourceID:   account.ID,
		after:        account,
	}, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	return account, nil
}

// GetGLAccount retrieves an account by ID.
func (uc *AccountUseCase) GetGLAccount(ctx context.Context, id string) (*domain.GLAccount, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListGLAccounts lists the accounts of a chart ordered by number.
func (uc *AccountUseCase) ListGLAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.GLAccount, error) {
	if _, err := uc.chartRepo.GetByID(ctx, input.ChartID); err != nil {
		return nil, err
	}

	limit, offset := normalizePage(input.Limit, input.Offset)

	return uc.accountRepo.ListByChart(ctx, input.ChartID, limit, offset)
}

// ActivateAccount re-enables postings to an account.
func (uc *AccountUseCase) ActivateAccount(ctx context.Context, input AccountStatusInput) (*domain.GLAccount, error) {
	return uc.changeStatus(ctx, input, (*domain.GLAccount).Activate)
}

// BlockAccount stops new postings to an account.
func (uc *AccountUseCase) BlockAccount(ctx context.Context, input AccountStatusInput) (*domain.GLAccount, error) {
	return uc.changeStatus(ctx, input, (*domain.GLAccount).Block)
}

func (uc *AccountUseCase) changeStatus(
	ctx context.Context,
	input AccountStatusInput,
	transition func(*domain.GLAccount, time.Time),
) (*domain.GLAccount, error) {
	account, err := uc.accountRepo.GetByID(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	if err := checkVersion(input.ExpectedVersion, account.Version, "account", account.ID); err != nil {
		recordConflict(uc.metrics, err, "account_status")
		return nil, err
	}

	before := *account
	now := uc.now()
	transition(account, now)

	if account.Status == before.Status {
		return account, nil
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.accountRepo.Update(txCtx, tx, account); err != nil {
		recordConflict(uc.metrics, err, "account_status")
		return nil, err
	}

	payload := map[string]any{
		"account_id": account.ID,
		"number":     account.Number,
		"from":       string(before.Status),
		"to":         string(account.Status),
	}
	if err := writeEvent(txCtx, uc.outboxRepo, uc.idGen, tx, domain.AggregateTypeGLAccount, account.ID, domain.EventTypeGLAccountStatus, payload, now); err != nil {
		return nil, err
	}

	if err := writeAudit(txCtx, uc.auditRepo, uc.idGen, tx, auditRecord{
		action:       domain.AuditActionAccountStatus,
		resourceType: domain.AggregateTypeGLAccount,
		resourceID:   account.ID,
		before:       before,
		after:        account,
	}, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		recordConflict(uc.metrics, err, "account_status")
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountStatusChange.WithLabelValues(string(account.Status)).Inc()
	}

	return account, nil
}
