package domain

import "time"

// Event types
const (
	EventTypeJournalEntryPosted   = "journal_entry.posted"
	EventTypeJournalEntryReversed = "journal_entry.reversed"
	EventTypeGLAccountCreated     = "gl_account.created"
	EventTypeGLAccountStatus      = "gl_account.status_changed"
	EventTypeExchangeRateRecorded = "exchange_rate.recorded"
)

// Aggregate types
const (
	AggregateTypeJournalEntry = "journal_entry"
	AggregateTypeGLAccount    = "gl_account"
	AggregateTypeChart        = "chart_of_accounts"
	AggregateTypeExchangeRate = "exchange_rate"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// JournalEntryEvent is the payload emitted when an entry posts or is reversed.
type JournalEntryEvent struct {
	EntryID         string `json:"entry_id"`
	DocumentNumber  string `json:"document_number"`
	PostingDate     string `json:"posting_date"`
	TotalDebit      string `json:"total_debit"`
	TotalCredit     string `json:"total_credit"`
	FiscalYear      int    `json:"fiscal_year"`
	FiscalPeriod    int    `json:"fiscal_period"`
	Currency        string `json:"currency"`
	Actor           string `json:"actor"`
	ReversesEntryID string `json:"reverses_entry_id,omitempty"`
}

// NewJournalEntryEvent builds the payload for e.
func NewJournalEntryEvent(e *JournalEntry) JournalEntryEvent {
	return JournalEntryEvent{
		EntryID:         e.ID(),
		DocumentNumber:  e.DocumentNumber(),
		PostingDate:     e.PostingDate().Format(time.DateOnly),
		TotalDebit:      e.TotalDebit().StringFixed(MoneyScale),
		TotalCredit:     e.TotalCredit().StringFixed(MoneyScale),
		FiscalYear:      e.FiscalYear(),
		FiscalPeriod:    e.FiscalPeriod(),
		Currency:        e.Currency(),
		Actor:           e.PostedBy(),
		ReversesEntryID: e.ReversesEntryID(),
	}
}

// Map converts the payload for an outbox row.
func (ev JournalEntryEvent) Map() map[string]any {
	m := map[string]any{
		"entry_id":        ev.EntryID,
		"document_number": ev.DocumentNumber,
		"posting_date":    ev.PostingDate,
		"total_debit":     ev.TotalDebit,
		"total_credit":    ev.TotalCredit,
		"fiscal_year":     ev.FiscalYear,
		"fiscal_period":   ev.FiscalPeriod,
		"currency":        ev.Currency,
		"actor":           ev.Actor,
	}
	if ev.ReversesEntryID != "" {
		m["reverses_entry_id"] = ev.ReversesEntryID
	}

	return m
}

// GLAccountCreatedEvent payload
type GLAccountCreatedEvent struct {
	AccountID string `json:"account_id"`
	ChartID   string `json:"chart_id"`
	Number    string `json:"number"`
	Class     string `json:"class"`
	Currency  string `json:"currency"`
}

// ExchangeRateRecordedEvent payload
type ExchangeRateRecordedEvent struct {
	RateID   string `json:"rate_id"`
	From     string `json:"from"`
	To       string `json:"to"`
	RateDate string `json:"rate_date"`
	Rate     string `json:"rate"`
}
