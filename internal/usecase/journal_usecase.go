package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/infrastructure/metrics"
)

// JournalUseCase runs the journal entry lifecycle: drafting, validation,
// posting with balance updates, and reversal.
type JournalUseCase struct {
	txManager   TransactionManager
	accountRepo GLAccountRepository
	entryRepo   JournalEntryRepository
	balanceRepo AccountBalanceRepository
	rateRepo    ExchangeRateRepository
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	periods     FiscalPeriodService
	numbers     DocumentNumberSource
	idGen       IDGenerator
	rounding    domain.RoundingPolicy
	currency    domain.CurrencyPolicy
	series      string
	metrics     *metrics.Metrics
	logger      zerolog.Logger
	now         func() time.Time
}

// JournalConfig wires a JournalUseCase.
type JournalConfig struct {
	TxManager      TransactionManager
	AccountRepo    GLAccountRepository
	EntryRepo      JournalEntryRepository
	BalanceRepo    AccountBalanceRepository
	RateRepo       ExchangeRateRepository
	OutboxRepo     OutboxRepository
	AuditRepo      AuditRepository
	Periods        FiscalPeriodService
	Numbers        DocumentNumberSource // optional; callers must then supply numbers
	IDGen          IDGenerator
	Rounding       domain.RoundingPolicy // zero value means half-up
	Currency       domain.CurrencyPolicy
	DocumentSeries string
	Metrics        *metrics.Metrics
	Logger         *zerolog.Logger
	Now            func() time.Time
}

// NewJournalUseCase creates a new JournalUseCase.
func NewJournalUseCase(cfg JournalConfig) *JournalUseCase {
	if cfg.Rounding.Mode == "" {
		cfg.Rounding = domain.HalfUp
	}
	if cfg.DocumentSeries == "" {
		cfg.DocumentSeries = DefaultDocumentSeries
	}
	if cfg.Now == nil {
		cfg.Now = utcNow
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &JournalUseCase{
		txManager:   cfg.TxManager,
		accountRepo: cfg.AccountRepo,
		entryRepo:   cfg.EntryRepo,
		balanceRepo: cfg.BalanceRepo,
		rateRepo:    cfg.RateRepo,
		outboxRepo:  cfg.OutboxRepo,
		auditRepo:   cfg.AuditRepo,
		periods:     cfg.Periods,
		numbers:     cfg.Numbers,
		idGen:       cfg.IDGen,
		rounding:    cfg.Rounding,
		currency:    cfg.Currency,
		series:      cfg.DocumentSeries,
		metrics:     cfg.Metrics,
		logger:      logger.With().Str("component", "journal").Logger(),
		now:         cfg.Now,
	}
}

// LineItemInput describes one line. Exactly one of Debit and Credit must be non-zero.
type LineItemInput struct {
	AccountID   string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
	Allocation  domain.Allocation
}

// OpenJournalEntryInput holds the header and optional initial lines of a draft.
type OpenJournalEntryInput struct {
	DocumentNumber string // drawn from the document series when empty
	PostingDate    time.Time
	DocumentDate   time.Time
	FiscalYear     int // derived from PostingDate when zero
	FiscalPeriod   int // derived from PostingDate when zero
	Currency       string
	ExchangeRateID string
	Description    string
	Source         domain.EntrySource
	Actor          string
	Lines          []LineItemInput
}

// AddLineItemInput appends a line to a draft.
type AddLineItemInput struct {
	EntryID         string
	ExpectedVersion *domain.Version
	Line            LineItemInput
}

// RemoveLineItemInput removes a line from a draft.
type RemoveLineItemInput struct {
	EntryID         string
	LineItemID      string
	ExpectedVersion *domain.Version
}

// PostJournalEntryInput posts a draft.
type PostJournalEntryInput struct {
	EntryID         string
	Actor           string
	ExpectedVersion *domain.Version
}

// ReverseJournalEntryInput reverses a posted entry.
type ReverseJournalEntryInput struct {
	EntryID         string
	Actor           string
	ReversalDate    time.Time // defaults to today
	DocumentNumber  string    // drawn from the document series when empty
	FiscalYear      int       // derived from ReversalDate when zero
	FiscalPeriod    int       // derived from ReversalDate when zero
	Description     string
	ExpectedVersion *domain.Version
}

// OpenJournalEntry creates a DRAFT entry.
func (uc *JournalUseCase) OpenJournalEntry(ctx context.Context, input OpenJournalEntryInput) (*domain.JournalEntry, error) {
	year, period := input.FiscalYear, input.FiscalPeriod
	if year == 0 && period == 0 && !input.PostingDate.IsZero() {
		year, period = domain.CalendarPeriod(input.PostingDate)
	}

	var rate *domain.ExchangeRate
	if input.ExchangeRateID != "" {
		r, err := uc.rateRepo.GetByID(ctx, input.ExchangeRateID)
		if err != nil {
			return nil, err
		}
		rate = r
	}

	number, err := uc.documentNumber(ctx, input.DocumentNumber)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	entry, err := domain.NewJournalEntry(domain.JournalEntryHeader{
		ID:             uc.idGen.Generate(),
		DocumentNumber: number,
		PostingDate:    input.PostingDate,
		DocumentDate:   input.DocumentDate,
		FiscalYear:     year,
		FiscalPeriod:   period,
		Currency:       input.Currency,
		ExchangeRate:   rate,
		Description:    input.Description,
		Source:         input.Source,
		CreatedBy:      resolveActor(ctx, input.Actor),
	}, now)
	if err != nil {
		return nil, err
	}

	for _, line := range input.Lines {
		item, err := uc.newLine(line)
		if err != nil {
			return nil, err
		}

		if err := entry.AddLineItem(item, now); err != nil {
			return nil, err
		}
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.entryRepo.Create(txCtx, tx, entry); err != nil {
		return nil, err
	}

	if err := writeAudit(txCtx, uc.auditRepo, uc.idGen, tx, auditRecord{
		action:       domain.AuditActionEntryOpen,
		resourceType: domain.AggregateTypeJournalEntry,
		resourceID:   entry.ID(),
		after:        entry.Snapshot(),
	}, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesOpened.Inc()
	}

	return entry, nil
}

// AddLineItem appends a line to a DRAFT entry.
func (uc *JournalUseCase) AddLineItem(ctx context.Context, input AddLineItemInput) (*domain.JournalEntry, error) {
	item, err := uc.newLine(input.Line)
	if err != nil {
		return nil, err
	}

	return uc.editDraft(ctx, input.EntryID, input.ExpectedVersion, "add_line", func(entry *domain.JournalEntry, now time.Time) error {
		return entry.AddLineItem(item, now)
	})
}

// RemoveLineItem removes a line from a DRAFT entry.
func (uc *JournalUseCase) RemoveLineItem(ctx context.Context, input RemoveLineItemInput) (*domain.JournalEntry, error) {
	return uc.editDraft(ctx, input.EntryID, input.ExpectedVersion, "remove_line", func(entry *domain.JournalEntry, now time.Time) error {
		return entry.RemoveLineItem(input.LineItemID, now)
	})
}

func (uc *JournalUseCase) editDraft(
	ctx context.Context,
	entryID string,
	expected *domain.Version,
	operation string,
	edit func(*domain.JournalEntry, time.Time) error,
) (*domain.JournalEntry, error) {
	entry, err := uc.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if err := checkVersion(expected, entry.Version(), "journal entry", entry.ID()); err != nil {
		recordConflict(uc.metrics, err, operation)
		return nil, err
	}

	if err := edit(entry, uc.now()); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.entryRepo.Save(txCtx, tx, entry); err != nil {
		recordConflict(uc.metrics, err, operation)
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		recordConflict(uc.metrics, err, operation)
		return nil, err
	}

	return entry, nil
}

// ValidateJournalEntry returns every violation the entry would fail posting
// with, including a closed period. An empty result means the entry can post.
func (uc *JournalUseCase) ValidateJournalEntry(ctx context.Context, entryID string) ([]domain.Violation, error) {
	entry, err := uc.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	vc, _, err := uc.validationContext(ctx, entry.AccountIDs())
	if err != nil {
		return nil, err
	}

	violations := entry.Validate(vc)

	periodViolation, err := uc.periodViolation(ctx, entry.FiscalYear(), entry.FiscalPeriod())
	if err != nil {
		return nil, err
	}
	if periodViolation != nil {
		violations = append(violations, *periodViolation)
	}

	return violations, nil
}

// PostJournalEntry validates a DRAFT entry and, in one transaction, marks it
// POSTED and applies every line to the period balances. A commit that cannot
// be confirmed fails with a PostingFailedError.
func (uc *JournalUseCase) PostJournalEntry(ctx context.Context, input PostJournalEntryInput) (*domain.JournalEntry, error) {
	start := time.Now()

	entry, err := uc.entryRepo.GetByID(ctx, input.EntryID)
	if err != nil {
		return nil, err
	}

	if err := checkVersion(input.ExpectedVersion, entry.Version(), "journal entry", entry.ID()); err != nil {
		recordConflict(uc.metrics, err, "post")
		return nil, err
	}

	if !entry.IsDraft() {
		return nil, fmt.Errorf("%w: cannot post a %s entry", domain.ErrInvalidTransition, entry.Status())
	}

	actor := resolveActor(ctx, input.Actor)

	vc, accounts, err := uc.validationContext(ctx, entry.AccountIDs())
	if err != nil {
		return nil, err
	}

	violations := entry.Validate(vc)
	periodViolation, err := uc.periodViolation(ctx, entry.FiscalYear(), entry.FiscalPeriod())
	if err != nil {
		return nil, err
	}
	if periodViolation != nil {
		violations = append(violations, *periodViolation)
	}
	if len(violations) > 0 {
		uc.recordViolations(violations)
		return nil, &domain.ValidationError{Violations: violations}
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := uc.now()
	if err := entry.Post(actor, now, vc); err != nil {
		return nil, err
	}

	if err := uc.entryRepo.Save(txCtx, tx, entry); err != nil {
		return nil, uc.failure("post", entry.ID(), err, false)
	}

	if err := uc.applyToBalances(txCtx, tx, entry, accounts, now); err != nil {
		return nil, uc.failure("post", entry.ID(), err, false)
	}

	if err := writeEvent(txCtx, uc.outboxRepo, uc.idGen, tx, domain.AggregateTypeJournalEntry, entry.ID(),
		domain.EventTypeJournalEntryPosted, domain.NewJournalEntryEvent(entry).Map(), now); err != nil {
		return nil, uc.failure("post", entry.ID(), err, false)
	}

	if err := writeAudit(txCtx, uc.auditRepo, uc.idGen, tx, auditRecord{
		action:       domain.AuditActionEntryPost,
		resourceType: domain.AggregateTypeJournalEntry,
		resourceID:   entry.ID(),
		after:        entry.Snapshot(),
	}, now); err != nil {
		return nil, uc.failure("post", entry.ID(), err, false)
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, uc.failure("post", entry.ID(), err, true)
	}

	uc.logger.Info().
		Str("entry_id", entry.ID()).
		Str("document_number", entry.DocumentNumber()).
		Str("total", entry.TotalDebit().StringFixed(domain.MoneyScale)).
		Str("currency", entry.Currency()).
		Msg("journal entry posted")

	if uc.metrics != nil {
		uc.metrics.EntriesPosted.Inc()
		uc.metrics.PostingDuration.Observe(time.Since(start).Seconds())
		amount, _ := entry.TotalDebit().Float64()
		uc.metrics.PostedAmount.WithLabelValues(entry.Currency()).Observe(amount)
	}

	return entry, nil
}

// ReverseJournalEntry creates an already POSTED mirror of a POSTED entry and
// marks the original REVERSED, applying the swapped lines to the balances
// of the reversal's period.
func (uc *JournalUseCase) ReverseJournalEntry(ctx context.Context, input ReverseJournalEntryInput) (*domain.JournalEntry, error) {
	start := time.Now()

	original, err := uc.entryRepo.GetByID(ctx, input.EntryID)
	if err != nil {
		return nil, err
	}

	if err := checkVersion(input.ExpectedVersion, original.Version(), "journal entry", original.ID()); err != nil {
		recordConflict(uc.metrics, err, "reverse")
		return nil, err
	}

	if original.Status() != domain.EntryStatusPosted {
		return nil, fmt.Errorf("%w: cannot reverse a %s entry", domain.ErrInvalidTransition, original.Status())
	}

	actor := resolveActor(ctx, input.Actor)

	reversalDate := input.ReversalDate
	if reversalDate.IsZero() {
		reversalDate = uc.now().Truncate(24 * time.Hour)
	}

	year, period := input.FiscalYear, input.FiscalPeriod
	if year == 0 && period == 0 {
		year, period = domain.CalendarPeriod(reversalDate)
	}

	periodViolation, err := uc.periodViolation(ctx, year, period)
	if err != nil {
		return nil, err
	}
	if periodViolation != nil {
		uc.recordViolations([]domain.Violation{*periodViolation})
		return nil, &domain.ValidationError{Violations: []domain.Violation{*periodViolation}}
	}

	_, accounts, err := uc.validationContext(ctx, original.AccountIDs())
	if err != nil {
		return nil, err
	}
	for _, id := range original.AccountIDs() {
		if _, ok := accounts[id]; !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
		}
	}

	number, err := uc.documentNumber(ctx, input.DocumentNumber)
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

	now := uc.now()
	reversal, err := original.Reverse(domain.ReversalSpec{
		ID:             uc.idGen.Generate(),
		DocumentNumber: number,
		Actor:          actor,
		ReversalDate:   reversalDate,
		FiscalYear:     year,
		FiscalPeriod:   period,
		Description:    input.Description,
		NewLineID:      uc.idGen.Generate,
		At:             now,
	})
	if err != nil {
		return nil, err
	}

	if err := uc.entryRepo.Save(txCtx, tx, original); err != nil {
		return nil, uc.failure("reverse", original.ID(), err, false)
	}

	if err := uc.entryRepo.Create(txCtx, tx, reversal); err != nil {
		return nil, uc.failure("reverse", original.ID(), err, false)
	}

	if err := uc.applyToBalances(txCtx, tx, reversal, accounts, now); err != nil {
		return nil, uc.failure("reverse", original.ID(), err, false)
	}

	if err := writeEvent(txCtx, uc.outboxRepo, uc.idGen, tx, domain.AggregateTypeJournalEntry, reversal.ID(),
		domain.EventTypeJournalEntryReversed, domain.NewJournalEntryEvent(reversal).Map(), now); err != nil {
		return nil, uc.failure("reverse", original.ID(), err, false)
	}

	if err := writeAudit(txCtx, uc.auditRepo, uc.idGen, tx, auditRecord{
		action:       domain.AuditActionEntryReverse,
		resourceType: domain.AggregateTypeJournalEntry,
		resourceID:   original.ID(),
		before:       map[string]any{"status": domain.EntryStatusPosted},
		after:        reversal.Snapshot(),
	}, now); err != nil {
		return nil, uc.failure("reverse", original.ID(), err, false)
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, uc.failure("reverse", original.ID(), err, true)
	}

	uc.logger.Info().
		Str("entry_id", original.ID()).
		Str("reversal_id", reversal.ID()).
		Str("document_number", reversal.DocumentNumber()).
		Msg("journal entry reversed")

	if uc.metrics != nil {
		uc.metrics.EntriesReversed.Inc()
		uc.metrics.PostingDuration.Observe(time.Since(start).Seconds())
	}

	return reversal, nil
}

// GetJournalEntry retrieves an entry with its lines.
func (uc *JournalUseCase) GetJournalEntry(ctx context.Context, id string) (*domain.JournalEntry, error) {
	return uc.entryRepo.GetByID(ctx, id)
}

// ListJournalEntries lists entries, newest posting date first.
func (uc *JournalUseCase) ListJournalEntries(ctx context.Context, filter JournalEntryFilter) ([]*domain.JournalEntry, error) {
	if filter.Status != "" {
		if _, err := domain.ParseEntryStatus(string(filter.Status)); err != nil {
			return nil, err
		}
	}

	filter.Limit, filter.Offset = normalizePage(filter.Limit, filter.Offset)

	return uc.entryRepo.List(ctx, filter)
}

func (uc *JournalUseCase) newLine(in LineItemInput) (domain.JournalEntryLineItem, error) {
	item, err := domain.NewLineItem(uc.idGen.Generate(), in.AccountID, in.Debit, in.Credit)
	if err != nil {
		return domain.JournalEntryLineItem{}, err
	}

	return item.WithDescription(in.Description).WithAllocation(in.Allocation), nil
}

func (uc *JournalUseCase) documentNumber(ctx context.Context, requested string) (string, error) {
	if requested != "" {
		return requested, nil
	}

	if uc.numbers == nil {
		return "", fmt.Errorf("%w: document number is required", domain.ErrInvalidDocument)
	}

	number, err := uc.numbers.Next(ctx, uc.series)
	if err != nil {
		return "", fmt.Errorf("allocate document number: %w", err)
	}

	return number, nil
}

// validationContext loads the referenced accounts. Missing accounts are left
// out of the map so validation reports them.
func (uc *JournalUseCase) validationContext(ctx context.Context, ids []string) (domain.ValidationContext, map[string]*domain.GLAccount, error) {
	accounts := make(map[string]*domain.GLAccount, len(ids))
	if len(ids) > 0 {
		found, err := uc.accountRepo.GetByIDs(ctx, ids)
		if err != nil {
			return domain.ValidationContext{}, nil, err
		}

		for _, a := range found {
			accounts[a.ID] = a
		}
	}

	return domain.ValidationContext{Accounts: accounts, Currency: uc.currency}, accounts, nil
}

func (uc *JournalUseCase) periodViolation(ctx context.Context, year, period int) (*domain.Violation, error) {
	open, err := uc.periods.IsPeriodOpen(ctx, year, period)
	if err != nil {
		return nil, fmt.Errorf("check fiscal period %d-%02d: %w", year, period, err)
	}

	if open {
		return nil, nil
	}

	return &domain.Violation{
		Code:    domain.ViolationPeriodClosed,
		Line:    domain.NoLine,
		Message: fmt.Sprintf("fiscal period %d-%02d is not open for posting", year, period),
	}, nil
}

// applyToBalances adds every line of a POSTED entry to its account's balance
// for the entry's period. Lines on accounts held in another currency are
// converted with the entry's rate first. Each touched balance is written once.
func (uc *JournalUseCase) applyToBalances(
	ctx context.Context,
	tx Transaction,
	entry *domain.JournalEntry,
	accounts map[string]*domain.GLAccount,
	now time.Time,
) error {
	balances := make(map[string]*domain.AccountBalance, len(accounts))
	order := make([]string, 0, len(accounts))

	for _, line := range entry.Lines() {
		account, ok := accounts[line.AccountID()]
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, line.AccountID())
		}

		balance, ok := balances[account.ID]
		if !ok {
			key := domain.BalanceKey{AccountID: account.ID, FiscalYear: entry.FiscalYear(), FiscalPeriod: entry.FiscalPeriod()}

			loaded, err := uc.balanceRepo.Get(ctx, key)
			switch {
			case errors.Is(err, domain.ErrBalanceNotFound):
				loaded = domain.NewAccountBalance(key, account, now)
			case err != nil:
				return err
			}

			balance = loaded
			balances[account.ID] = balance
			order = append(order, account.ID)
		}

		amount := line.Amount()
		if account.Currency != entry.Currency() {
			rate := entry.ExchangeRate()
			if rate == nil {
				return fmt.Errorf("%w: account %s is in %s", domain.ErrMissingOrImpreciseExchangeRate, account.Number, account.Currency)
			}

			converted, err := rate.ConvertAmount(amount, uc.rounding)
			if err != nil {
				return err
			}
			amount = converted
		}

		if err := balance.ApplyPosting(line.Side(), amount, uc.rounding, now); err != nil {
			return err
		}
	}

	for _, id := range order {
		balance := balances[id]
		kind := "update"
		if balance.Version().IsZero() {
			kind = "insert"
		}

		if err := uc.balanceRepo.Save(ctx, tx, balance); err != nil {
			return err
		}

		if uc.metrics != nil {
			uc.metrics.BalanceWrites.WithLabelValues(kind).Inc()
		}
	}

	return nil
}

func (uc *JournalUseCase) recordViolations(violations []domain.Violation) {
	if uc.metrics == nil {
		return
	}

	for _, v := range violations {
		uc.metrics.ValidationFailures.WithLabelValues(string(v.Code)).Inc()
	}
}

// failure classifies an error raised after the transaction began. Conflicts
// pass through unchanged. Commit failures and timeouts leave the outcome
// unknown and are wrapped in a PostingFailedError.
func (uc *JournalUseCase) failure(operation, entryID string, err error, committing bool) error {
	switch {
	case errors.Is(err, domain.ErrConcurrentModification):
		recordConflict(uc.metrics, err, operation)
		uc.logger.Warn().Err(err).Str("entry_id", entryID).Str("operation", operation).Msg("concurrent modification")
		uc.postingError(operation, "conflict")

		return err
	case committing, errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		uc.logger.Error().Err(err).Str("entry_id", entryID).Str("operation", operation).Msg("posting outcome unknown")
		uc.postingError(operation, "unknown_outcome")

		return &domain.PostingFailedError{EntryID: entryID, Cause: err}
	default:
		uc.postingError(operation, "failed")

		return err
	}
}

func (uc *JournalUseCase) postingError(operation, kind string) {
	if uc.metrics != nil {
		uc.metrics.PostingErrors.WithLabelValues(operation, kind).Inc()
	}
}
