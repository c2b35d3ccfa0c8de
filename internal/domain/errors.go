package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Validation errors
	ErrUnbalancedEntry                = errors.New("journal entry is unbalanced")
	ErrInsufficientLineItems          = errors.New("journal entry needs at least two line items")
	ErrInvalidLineItem                = errors.New("invalid line item")
	ErrInactiveAccount                = errors.New("account does not accept postings")
	ErrCurrencyMismatch               = errors.New("currency mismatch")
	ErrMissingOrImpreciseExchangeRate = errors.New("exchange rate missing or below required precision")
	ErrPeriodClosed                   = errors.New("fiscal period is closed")

	// State errors
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrChartNotActive    = errors.New("chart of accounts is not active")

	// Concurrency errors
	ErrConcurrentModification = errors.New("concurrent modification")

	// Arithmetic errors
	ErrDivisionByZero    = errors.New("division by zero")
	ErrPrecisionLoss     = errors.New("precision loss")
	ErrInvalidAllocation = errors.New("invalid allocation")

	// Not found errors
	ErrChartNotFound        = errors.New("chart of accounts not found")
	ErrAccountNotFound      = errors.New("account not found")
	ErrJournalEntryNotFound = errors.New("journal entry not found")
	ErrLineItemNotFound     = errors.New("line item not found")
	ErrExchangeRateNotFound = errors.New("exchange rate not found")
	ErrBalanceNotFound      = errors.New("account balance not found")

	// Uniqueness errors
	ErrDuplicateChartCode      = errors.New("chart code already exists")
	ErrDuplicateAccountNumber  = errors.New("account number already exists in chart")
	ErrDuplicateDocumentNumber = errors.New("document number already exists")
	ErrDuplicateExchangeRate   = errors.New("exchange rate already recorded")

	ErrPostingFailed = errors.New("posting failed, outcome unknown")
)

// ViolationCode identifies the kind of a journal entry validation failure.
type ViolationCode string

const (
	ViolationInsufficientLineItems          ViolationCode = "INSUFFICIENT_LINE_ITEMS"
	ViolationInvalidLineItem                ViolationCode = "INVALID_LINE_ITEM"
	ViolationAccountNotFound                ViolationCode = "ACCOUNT_NOT_FOUND"
	ViolationInactiveAccount                ViolationCode = "INACTIVE_ACCOUNT"
	ViolationCurrencyMismatch               ViolationCode = "CURRENCY_MISMATCH"
	ViolationMissingOrImpreciseExchangeRate ViolationCode = "MISSING_OR_IMPRECISE_EXCHANGE_RATE"
	ViolationUnbalancedEntry                ViolationCode = "UNBALANCED_ENTRY"
	ViolationPeriodClosed                   ViolationCode = "PERIOD_CLOSED"
)

// Err returns the sentinel error for the code.
func (c ViolationCode) Err() error {
	switch c {
	case ViolationInsufficientLineItems:
		return ErrInsufficientLineItems
	case ViolationInvalidLineItem:
		return ErrInvalidLineItem
	case ViolationAccountNotFound:
		return ErrAccountNotFound
	case ViolationInactiveAccount:
		return ErrInactiveAccount
	case ViolationCurrencyMismatch:
		return ErrCurrencyMismatch
	case ViolationMissingOrImpreciseExchangeRate:
		return ErrMissingOrImpreciseExchangeRate
	case ViolationUnbalancedEntry:
		return ErrUnbalancedEntry
	case ViolationPeriodClosed:
		return ErrPeriodClosed
	}

	return fmt.Errorf("unknown violation code %q", string(c))
}

// NoLine marks a violation that is not tied to a specific line item.
const NoLine = -1

// Violation is a single structured validation failure.
type Violation struct {
	Code      ViolationCode
	Line      int // zero-based line index or NoLine
	AccountID string
	Message   string
}

func (v Violation) String() string {
	if v.Line == NoLine {
		return fmt.Sprintf("%s: %s", v.Code, v.Message)
	}

	return fmt.Sprintf("%s (line %d): %s", v.Code, v.Line+1, v.Message)
}

// ValidationError carries every violation found in one pass.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}

	return "journal entry validation failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes one sentinel per violation so errors.Is matches any of them.
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Violations))
	for _, v := range e.Violations {
		errs = append(errs, v.Code.Err())
	}

	return errs
}

// Has reports whether a violation with the given code is present.
func (e *ValidationError) Has(code ViolationCode) bool {
	for _, v := range e.Violations {
		if v.Code == code {
			return true
		}
	}

	return false
}

// PostingFailedError reports that a post or reversal may or may not have
// been committed. Callers must re-read the entry before retrying.
type PostingFailedError struct {
	EntryID string
	Cause   error
}

func (e *PostingFailedError) Error() string {
	return fmt.Sprintf("posting of journal entry %s failed, outcome unknown: %v", e.EntryID, e.Cause)
}

func (e *PostingFailedError) Unwrap() []error {
	return []error{ErrPostingFailed, e.Cause}
}
