package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus is the lifecycle state of a journal entry.
type EntryStatus string

const (
	EntryStatusDraft    EntryStatus = "DRAFT"
	EntryStatusPosted   EntryStatus = "POSTED"
	EntryStatusReversed EntryStatus = "REVERSED"
)

// ParseEntryStatus parses a status name.
func ParseEntryStatus(s string) (EntryStatus, error) {
	switch EntryStatus(s) {
	case EntryStatusDraft:
		return EntryStatusDraft, nil
	case EntryStatusPosted:
		return EntryStatusPosted, nil
	case EntryStatusReversed:
		return EntryStatusReversed, nil
	}

	return "", fmt.Errorf("%w: entry status %q", ErrInvalidEnum, s)
}

// EntrySource tells whether an entry was keyed by a user or produced by a system.
type EntrySource string

const (
	EntrySourceManual EntrySource = "MANUAL"
	EntrySourceSystem EntrySource = "SYSTEM"
)

// ParseEntrySource parses a source name.
func ParseEntrySource(s string) (EntrySource, error) {
	switch EntrySource(s) {
	case EntrySourceManual:
		return EntrySourceManual, nil
	case EntrySourceSystem:
		return EntrySourceSystem, nil
	}

	return "", fmt.Errorf("%w: entry source %q", ErrInvalidEnum, s)
}

// JournalEntryHeader holds the identifying data of a new entry.
type JournalEntryHeader struct {
	ID             string
	DocumentNumber string
	PostingDate    time.Time
	DocumentDate   time.Time
	FiscalYear     int
	FiscalPeriod   int
	Currency       string
	ExchangeRate   *ExchangeRate
	Description    string
	Source         EntrySource
	CreatedBy      string
}

// JournalEntry is a balanced set of postings moving from DRAFT to POSTED
// and optionally to REVERSED.
type JournalEntry struct {
	id                string
	documentNumber    string
	postingDate       time.Time
	documentDate      time.Time
	fiscalYear        int
	fiscalPeriod      int
	currency          string
	exchangeRate      *ExchangeRate
	description       string
	source            EntrySource
	lines             []JournalEntryLineItem
	totalDebit        decimal.Decimal
	totalCredit       decimal.Decimal
	status            EntryStatus
	reversesEntryID   string
	reversedByEntryID string
	createdBy         string
	postedBy          string
	postedAt          *time.Time
	createdAt         time.Time
	updatedAt         time.Time
	version           Version
}

// NewJournalEntry opens a DRAFT entry with no lines.
func NewJournalEntry(h JournalEntryHeader, now time.Time) (*JournalEntry, error) {
	if err := ValidateDocumentNumber(h.DocumentNumber); err != nil {
		return nil, err
	}

	if h.PostingDate.IsZero() {
		return nil, fmt.Errorf("%w: posting date is required", ErrInvalidDocument)
	}

	if err := ValidateFiscalPeriod(h.FiscalYear, h.FiscalPeriod); err != nil {
		return nil, err
	}

	if err := ValidateCurrency(h.Currency); err != nil {
		return nil, err
	}

	if h.CreatedBy == "" {
		return nil, ErrMissingActor
	}

	documentDate := h.DocumentDate
	if documentDate.IsZero() {
		documentDate = h.PostingDate
	}

	source := h.Source
	if source == "" {
		source = EntrySourceManual
	} else if _, err := ParseEntrySource(string(source)); err != nil {
		return nil, err
	}

	return &JournalEntry{
		id:             h.ID,
		documentNumber: h.DocumentNumber,
		postingDate:    h.PostingDate,
		documentDate:   documentDate,
		fiscalYear:     h.FiscalYear,
		fiscalPeriod:   h.FiscalPeriod,
		currency:       h.Currency,
		exchangeRate:   h.ExchangeRate,
		description:    h.Description,
		source:         source,
		totalDebit:     decimal.Zero,
		totalCredit:    decimal.Zero,
		status:         EntryStatusDraft,
		createdBy:      h.CreatedBy,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

func (e *JournalEntry) ID() string                    { return e.id }
func (e *JournalEntry) DocumentNumber() string        { return e.documentNumber }
func (e *JournalEntry) PostingDate() time.Time        { return e.postingDate }
func (e *JournalEntry) DocumentDate() time.Time       { return e.documentDate }
func (e *JournalEntry) FiscalYear() int               { return e.fiscalYear }
func (e *JournalEntry) FiscalPeriod() int             { return e.fiscalPeriod }
func (e *JournalEntry) Currency() string              { return e.currency }
func (e *JournalEntry) ExchangeRate() *ExchangeRate   { return e.exchangeRate }
func (e *JournalEntry) Description() string           { return e.description }
func (e *JournalEntry) Source() EntrySource           { return e.source }
func (e *JournalEntry) TotalDebit() decimal.Decimal   { return e.totalDebit }
func (e *JournalEntry) TotalCredit() decimal.Decimal  { return e.totalCredit }
func (e *JournalEntry) Status() EntryStatus           { return e.status }
func (e *JournalEntry) ReversesEntryID() string       { return e.reversesEntryID }
func (e *JournalEntry) ReversedByEntryID() string     { return e.reversedByEntryID }
func (e *JournalEntry) CreatedBy() string             { return e.createdBy }
func (e *JournalEntry) PostedBy() string              { return e.postedBy }
func (e *JournalEntry) PostedAt() *time.Time          { return e.postedAt }
func (e *JournalEntry) CreatedAt() time.Time          { return e.createdAt }
func (e *JournalEntry) UpdatedAt() time.Time          { return e.updatedAt }
func (e *JournalEntry) Version() Version              { return e.version }
func (e *JournalEntry) IsReversal() bool              { return e.reversesEntryID != "" }
func (e *JournalEntry) IsDraft() bool                 { return e.status == EntryStatusDraft }
func (e *JournalEntry) LineCount() int                { return len(e.lines) }

// Lines returns a copy of the line items in order.
func (e *JournalEntry) Lines() []JournalEntryLineItem {
	lines := make([]JournalEntryLineItem, len(e.lines))
	copy(lines, e.lines)

	return lines
}

// AccountIDs returns the distinct accounts referenced by the lines, in line order.
func (e *JournalEntry) AccountIDs() []string {
	seen := make(map[string]bool, len(e.lines))
	ids := make([]string, 0, len(e.lines))
	for _, l := range e.lines {
		if !seen[l.accountID] {
			seen[l.accountID] = true
			ids = append(ids, l.accountID)
		}
	}

	return ids
}

// AddLineItem appends a line to a DRAFT entry.
func (e *JournalEntry) AddLineItem(item JournalEntryLineItem, now time.Time) error {
	if e.status != EntryStatusDraft {
		return fmt.Errorf("%w: cannot add lines to a %s entry", ErrInvalidTransition, e.status)
	}

	for _, l := range e.lines {
		if l.id == item.id {
			return fmt.Errorf("%w: duplicate line id %s", ErrInvalidLineItem, item.id)
		}
	}

	e.lines = append(e.lines, item)
	e.recomputeTotals()
	e.updatedAt = now

	return nil
}

// RemoveLineItem removes a line from a DRAFT entry.
func (e *JournalEntry) RemoveLineItem(lineID string, now time.Time) error {
	if e.status != EntryStatusDraft {
		return fmt.Errorf("%w: cannot remove lines from a %s entry", ErrInvalidTransition, e.status)
	}

	for i, l := range e.lines {
		if l.id == lineID {
			e.lines = append(e.lines[:i:i], e.lines[i+1:]...)
			e.recomputeTotals()
			e.updatedAt = now

			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrLineItemNotFound, lineID)
}

// recomputeTotals sums the full line set rather than adjusting running totals.
func (e *JournalEntry) recomputeTotals() {
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range e.lines {
		debit = debit.Add(l.Debit())
		credit = credit.Add(l.Credit())
	}

	e.totalDebit = debit
	e.totalCredit = credit
}

// ValidationContext supplies the data validation needs from outside the aggregate.
type ValidationContext struct {
	Accounts map[string]*GLAccount
	Currency CurrencyPolicy
}

// Validate returns every violation in check order. It never mutates the entry.
func (e *JournalEntry) Validate(vc ValidationContext) []Violation {
	var violations []Violation

	if len(e.lines) < 2 {
		violations = append(violations, Violation{
			Code:    ViolationInsufficientLineItems,
			Line:    NoLine,
			Message: fmt.Sprintf("entry has %d line items, at least 2 are required", len(e.lines)),
		})
	}

	for i, l := range e.lines {
		violations = append(violations, validateLineShape(i, l)...)
	}

	for i, l := range e.lines {
		violations = append(violations, e.validateLineAccount(i, l, vc.Accounts)...)
	}

	violations = append(violations, e.validateCurrencies(vc)...)

	if diff := e.totalDebit.Sub(e.totalCredit).Abs(); diff.GreaterThan(BalanceTolerance) {
		violations = append(violations, Violation{
			Code: ViolationUnbalancedEntry,
			Line: NoLine,
			Message: fmt.Sprintf("debits %s and credits %s differ by %s",
				e.totalDebit.StringFixed(MoneyScale), e.totalCredit.StringFixed(MoneyScale), diff.StringFixed(MoneyScale)),
		})
	}

	return violations
}

func validateLineShape(i int, l JournalEntryLineItem) []Violation {
	var violations []Violation
	invalid := func(msg string) {
		violations = append(violations, Violation{Code: ViolationInvalidLineItem, Line: i, AccountID: l.accountID, Message: msg})
	}

	if _, err := ParseSide(string(l.side)); err != nil {
		invalid("line must carry exactly one of debit or credit")
	}

	if !l.amount.IsPositive() {
		invalid(fmt.Sprintf("amount %s must be positive", l.amount))
	}

	if Scale(l.amount) > MoneyScale {
		invalid(fmt.Sprintf("amount %s has more than %d fractional digits", l.amount, MoneyScale))
	}

	return violations
}

func (e *JournalEntry) validateLineAccount(i int, l JournalEntryLineItem, accounts map[string]*GLAccount) []Violation {
	account, ok := accounts[l.accountID]
	if !ok || account == nil {
		return []Violation{{
			Code: ViolationAccountNotFound, Line: i, AccountID: l.accountID,
			Message: fmt.Sprintf("account %s does not exist", l.accountID),
		}}
	}

	if !account.IsPostingAllowed() {
		return []Violation{{
			Code: ViolationInactiveAccount, Line: i, AccountID: l.accountID,
			Message: fmt.Sprintf("account %s is %s or closed for posting", account.Number, account.Status),
		}}
	}

	var violations []Violation
	if e.source == EntrySourceManual && !account.AcceptsManualPosting() {
		violations = append(violations, Violation{
			Code: ViolationInactiveAccount, Line: i, AccountID: l.accountID,
			Message: fmt.Sprintf("account %s does not accept manual postings", account.Number),
		})
	}

	if missing := account.MissingAllocations(l.allocation); len(missing) > 0 {
		violations = append(violations, Violation{
			Code: ViolationInvalidLineItem, Line: i, AccountID: l.accountID,
			Message: fmt.Sprintf("account %s requires %s", account.Number, strings.Join(missing, ", ")),
		})
	}

	return violations
}

func (e *JournalEntry) validateCurrencies(vc ValidationContext) []Violation {
	var violations []Violation
	var foreign []int

	for i, l := range e.lines {
		if account, ok := vc.Accounts[l.accountID]; ok && account != nil && account.Currency != e.currency {
			foreign = append(foreign, i)
		}
	}

	if len(foreign) == 0 {
		return nil
	}

	if !vc.Currency.MultiCurrency {
		for _, i := range foreign {
			l := e.lines[i]
			violations = append(violations, Violation{
				Code: ViolationCurrencyMismatch, Line: i, AccountID: l.accountID,
				Message: fmt.Sprintf("account currency %s differs from entry currency %s", vc.Accounts[l.accountID].Currency, e.currency),
			})
		}

		return violations
	}

	rate := e.exchangeRate
	if rate == nil {
		return []Violation{{
			Code: ViolationMissingOrImpreciseExchangeRate, Line: NoLine,
			Message: "entry spans multiple currencies but carries no exchange rate",
		}}
	}

	if err := ValidateExchangeRatePrecision(rate.Rate()); err != nil {
		violations = append(violations, Violation{
			Code: ViolationMissingOrImpreciseExchangeRate, Line: NoLine, Message: err.Error(),
		})
	}

	if rate.From() != e.currency {
		violations = append(violations, Violation{
			Code: ViolationCurrencyMismatch, Line: NoLine,
			Message: fmt.Sprintf("exchange rate converts from %s, entry currency is %s", rate.From(), e.currency),
		})
	}

	for _, i := range foreign {
		l := e.lines[i]
		if c := vc.Accounts[l.accountID].Currency; c != rate.To() {
			violations = append(violations, Violation{
				Code: ViolationCurrencyMismatch, Line: i, AccountID: l.accountID,
				Message: fmt.Sprintf("no exchange rate from %s to account currency %s", e.currency, c),
			})
		}
	}

	return violations
}

// Post moves a valid DRAFT entry to POSTED.
func (e *JournalEntry) Post(actor string, at time.Time, vc ValidationContext) error {
	if e.status != EntryStatusDraft {
		return fmt.Errorf("%w: cannot post a %s entry", ErrInvalidTransition, e.status)
	}

	if actor == "" {
		return ErrMissingActor
	}

	if violations := e.Validate(vc); len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}

	e.status = EntryStatusPosted
	e.postedBy = actor
	e.postedAt = &at
	e.updatedAt = at

	return nil
}

// ReversalSpec describes the entry a reversal produces.
type ReversalSpec struct {
	ID             string
	DocumentNumber string
	Actor          string
	ReversalDate   time.Time
	FiscalYear     int
	FiscalPeriod   int
	Description    string
	NewLineID      func() string
	At             time.Time
}

// Reverse creates an already POSTED mirror entry with every side swapped and
// marks e REVERSED. Reversal entries themselves cannot be reversed.
func (e *JournalEntry) Reverse(spec ReversalSpec) (*JournalEntry, error) {
	if e.status != EntryStatusPosted {
		return nil, fmt.Errorf("%w: cannot reverse a %s entry", ErrInvalidTransition, e.status)
	}

	if e.IsReversal() {
		return nil, fmt.Errorf("%w: entry %s is itself a reversal", ErrInvalidTransition, e.documentNumber)
	}

	if spec.Actor == "" {
		return nil, ErrMissingActor
	}

	if err := ValidateDocumentNumber(spec.DocumentNumber); err != nil {
		return nil, err
	}

	if spec.ReversalDate.IsZero() {
		return nil, fmt.Errorf("%w: reversal date is required", ErrInvalidDocument)
	}

	if err := ValidateFiscalPeriod(spec.FiscalYear, spec.FiscalPeriod); err != nil {
		return nil, err
	}

	description := spec.Description
	if description == "" {
		description = "Reversal of " + e.documentNumber
	}

	lines := make([]JournalEntryLineItem, 0, len(e.lines))
	for _, l := range e.lines {
		lines = append(lines, l.reversed(spec.NewLineID()))
	}

	at := spec.At
	reversal := &JournalEntry{
		id:              spec.ID,
		documentNumber:  spec.DocumentNumber,
		postingDate:     spec.ReversalDate,
		documentDate:    spec.ReversalDate,
		fiscalYear:      spec.FiscalYear,
		fiscalPeriod:    spec.FiscalPeriod,
		currency:        e.currency,
		exchangeRate:    e.exchangeRate,
		description:     description,
		source:          EntrySourceSystem,
		lines:           lines,
		status:          EntryStatusPosted,
		reversesEntryID: e.id,
		createdBy:       spec.Actor,
		postedBy:        spec.Actor,
		postedAt:        &at,
		createdAt:       at,
		updatedAt:       at,
	}
	reversal.recomputeTotals()

	e.status = EntryStatusReversed
	e.reversedByEntryID = reversal.id
	e.updatedAt = at

	return reversal, nil
}

// JournalEntrySnapshot is the storage shape of a journal entry.
type JournalEntrySnapshot struct {
	ID                string
	DocumentNumber    string
	PostingDate       time.Time
	DocumentDate      time.Time
	FiscalYear        int
	FiscalPeriod      int
	Currency          string
	ExchangeRate      *ExchangeRate
	Description       string
	Source            EntrySource
	Lines             []LineItemSnapshot
	TotalDebit        decimal.Decimal // derived, ignored by RehydrateJournalEntry
	TotalCredit       decimal.Decimal // derived, ignored by RehydrateJournalEntry
	Status            EntryStatus
	ReversesEntryID   string
	ReversedByEntryID string
	CreatedBy         string
	PostedBy          string
	PostedAt          *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Version           Version
}

// Snapshot exports the entry for persistence.
func (e *JournalEntry) Snapshot() JournalEntrySnapshot {
	lines := make([]LineItemSnapshot, 0, len(e.lines))
	for _, l := range e.lines {
		lines = append(lines, l.Snapshot())
	}

	return JournalEntrySnapshot{
		ID:                e.id,
		DocumentNumber:    e.documentNumber,
		PostingDate:       e.postingDate,
		DocumentDate:      e.documentDate,
		FiscalYear:        e.fiscalYear,
		FiscalPeriod:      e.fiscalPeriod,
		Currency:          e.currency,
		ExchangeRate:      e.exchangeRate,
		Description:       e.description,
		Source:            e.source,
		Lines:             lines,
		TotalDebit:        e.totalDebit,
		TotalCredit:       e.totalCredit,
		Status:            e.status,
		ReversesEntryID:   e.reversesEntryID,
		ReversedByEntryID: e.reversedByEntryID,
		CreatedBy:         e.createdBy,
		PostedBy:          e.postedBy,
		PostedAt:          e.postedAt,
		CreatedAt:         e.createdAt,
		UpdatedAt:         e.updatedAt,
		Version:           e.version,
	}
}

// RehydrateJournalEntry rebuilds an entry from storage. Totals are
// recomputed from the lines.
func RehydrateJournalEntry(s JournalEntrySnapshot) *JournalEntry {
	lines := make([]JournalEntryLineItem, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, RehydrateLineItem(l))
	}

	e := &JournalEntry{
		id:                s.ID,
		documentNumber:    s.DocumentNumber,
		postingDate:       s.PostingDate,
		documentDate:      s.DocumentDate,
		fiscalYear:        s.FiscalYear,
		fiscalPeriod:      s.FiscalPeriod,
		currency:          s.Currency,
		exchangeRate:      s.ExchangeRate,
		description:       s.Description,
		source:            s.Source,
		lines:             lines,
		status:            s.Status,
		reversesEntryID:   s.ReversesEntryID,
		reversedByEntryID: s.ReversedByEntryID,
		createdBy:         s.CreatedBy,
		postedBy:          s.PostedBy,
		postedAt:          s.PostedAt,
		createdAt:         s.CreatedAt,
		updatedAt:         s.UpdatedAt,
		version:           s.Version,
	}
	e.recomputeTotals()

	return e
}
