package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type AccountBalance struct {
	AccountID     string             `json:"account_id"`
	FiscalYear    int32              `json:"fiscal_year"`
	FiscalPeriod  int32              `json:"fiscal_period"`
	Currency      string             `json:"currency"`
	NormalBalance string             `json:"normal_balance"`
	Opening       pgtype.Numeric     `json:"opening"`
	DebitTotal    pgtype.Numeric     `json:"debit_total"`
	CreditTotal   pgtype.Numeric     `json:"credit_total"`
	Closing       pgtype.Numeric     `json:"closing"`
	Version       int64              `json:"version"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

type AuditLog struct {
	ID           string             `json:"id"`
	ActorID      string             `json:"actor_id"`
	Action       string             `json:"action"`
	ResourceType string             `json:"resource_type"`
	ResourceID   string             `json:"resource_id"`
	RequestID    string             `json:"request_id"`
	BeforeState  []byte             `json:"before_state"`
	AfterState   []byte             `json:"after_state"`
	Status       string             `json:"status"`
	ErrorMessage string             `json:"error_message"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}

type ChartsOfAccount struct {
	ID             string             `json:"id"`
	OrganizationID string             `json:"organization_id"`
	Code           string             `json:"code"`
	Name           string             `json:"name"`
	Status         string             `json:"status"`
	Version        int64              `json:"version"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

type DocumentSequence struct {
	Series    string `json:"series"`
	LastValue int64  `json:"last_value"`
}

type ExchangeRate struct {
	ID           string             `json:"id"`
	FromCurrency string             `json:"from_currency"`
	ToCurrency   string             `json:"to_currency"`
	RateDate     pgtype.Date        `json:"rate_date"`
	Rate         pgtype.Numeric     `json:"rate"`
	Source       string             `json:"source"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}

type FiscalPeriod struct {
	FiscalYear   int32  `json:"fiscal_year"`
	FiscalPeriod int32  `json:"fiscal_period"`
	Status       string `json:"status"`
}

type GlAccount struct {
	ID                 string             `json:"id"`
	ChartID            string             `json:"chart_id"`
	Number             string             `json:"number"`
	Name               string             `json:"name"`
	Type               string             `json:"type"`
	Class              string             `json:"class"`
	Statement          string             `json:"statement"`
	NormalBalance      string             `json:"normal_balance"`
	Currency           string             `json:"currency"`
	AllowPosting       bool               `json:"allow_posting"`
	AllowManualPosting bool               `json:"allow_manual_posting"`
	RequireCostCenter  bool               `json:"require_cost_center"`
	RequireProject     bool               `json:"require_project"`
	RequirePartner     bool               `json:"require_partner"`
	ParentID           pgtype.Text        `json:"parent_id"`
	Status             string             `json:"status"`
	Version            int64              `json:"version"`
	CreatedAt          pgtype.Timestamptz `json:"created_at"`
	UpdatedAt          pgtype.Timestamptz `json:"updated_at"`
}

type JournalEntry struct {
	ID                string             `json:"id"`
	DocumentNumber    string             `json:"document_number"`
	PostingDate       pgtype.Date        `json:"posting_date"`
	DocumentDate      pgtype.Date        `json:"document_date"`
	FiscalYear        int32              `json:"fiscal_year"`
	FiscalPeriod      int32              `json:"fiscal_period"`
	Currency          string             `json:"currency"`
	RateID            pgtype.Text        `json:"rate_id"`
	RateFrom          pgtype.Text        `json:"rate_from"`
	RateTo            pgtype.Text        `json:"rate_to"`
	RateDate          pgtype.Date        `json:"rate_date"`
	Rate              pgtype.Numeric     `json:"rate"`
	RateSource        pgtype.Text        `json:"rate_source"`
	RateCreatedAt     pgtype.Timestamptz `json:"rate_created_at"`
	Description       string             `json:"description"`
	Source            string             `json:"source"`
	Status            string             `json:"status"`
	TotalDebit        pgtype.Numeric     `json:"total_debit"`
	TotalCredit       pgtype.Numeric     `json:"total_credit"`
	ReversesEntryID   pgtype.Text        `json:"reverses_entry_id"`
	ReversedByEntryID pgtype.Text        `json:"reversed_by_entry_id"`
	CreatedBy         string             `json:"created_by"`
	PostedBy          string             `json:"posted_by"`
	PostedAt          pgtype.Timestamptz `json:"posted_at"`
	Version           int64              `json:"version"`
	CreatedAt         pgtype.Timestamptz `json:"created_at"`
	UpdatedAt         pgtype.Timestamptz `json:"updated_at"`
}

type JournalEntryLine struct {
	ID           string         `json:"id"`
	EntryID      string         `json:"entry_id"`
	LineNo       int32          `json:"line_no"`
	AccountID    string         `json:"account_id"`
	Side         string         `json:"side"`
	Amount       pgtype.Numeric `json:"amount"`
	Description  string         `json:"description"`
	CostCenter   string         `json:"cost_center"`
	Project      string         `json:"project"`
	BusinessArea string         `json:"business_area"`
	Partner      string         `json:"partner"`
}

type OutboxEvent struct {
	ID            string             `json:"id"`
	AggregateID   string             `json:"aggregate_id"`
	AggregateType string             `json:"aggregate_type"`
	EventType     string             `json:"event_type"`
	Payload       []byte             `json:"payload"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	Published     bool               `json:"published"`
	PublishedAt   pgtype.Timestamptz `json:"published_at"`
}

type User struct {
	ID           string             `json:"id"`
	Email        string             `json:"email"`
	Name         string             `json:"name"`
	Role         string             `json:"role"`
	PasswordHash string             `json:"password_hash"`
	Active       bool               `json:"active"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
	UpdatedAt    pgtype.Timestamptz `json:"updated_at"`
}
