package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/usecase"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error      string              `json:"error"`
	Message    string              `json:"message,omitempty"`
	Violations []ViolationResponse `json:"violations,omitempty"`
}

// ViolationResponse is one structured validation failure. Line is
// one-based and omitted for entry-level violations.
type ViolationResponse struct {
	Code      string `json:"code"`
	Line      int    `json:"line,omitempty"`
	AccountID string `json:"account_id,omitempty"`
	Message   string `json:"message"`
}

// ViolationsFromDomain converts violations to responses.
func ViolationsFromDomain(violations []domain.Violation) []ViolationResponse {
	result := make([]ViolationResponse, len(violations))
	for i, v := range violations {
		line := 0
		if v.Line != domain.NoLine {
			line = v.Line + 1
		}
		result[i] = ViolationResponse{
			Code:      string(v.Code),
			Line:      line,
			AccountID: v.AccountID,
			Message:   v.Message,
		}
	}
	return result
}

// ListResponse wraps one page of results.
type ListResponse[T any] struct {
	Items  []T `json:"items"`
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// ChartResponse represents a chart of accounts in API responses.
type ChartResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	Status         string    `json:"status"`
	Version        int64     `json:"version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ChartFromDomain converts a domain chart to a response.
func ChartFromDomain(c *domain.ChartOfAccounts) *ChartResponse {
	return &ChartResponse{
		ID:             c.ID,
		OrganizationID: c.OrganizationID,
		Code:           c.Code,
		Name:           c.Name,
		Status:         string(c.Status),
		Version:        c.Version.Int64(),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ChartsFromDomain converts domain charts to responses.
func ChartsFromDomain(charts []*domain.ChartOfAccounts) []*ChartResponse {
	result := make([]*ChartResponse, len(charts))
	for i, c := range charts {
		result[i] = ChartFromDomain(c)
	}
	return result
}

// GLAccountResponse represents a GL account in API responses.
type GLAccountResponse struct {
	ID            string                 `json:"id"`
	ChartID       string                 `json:"chart_id"`
	Number        string                 `json:"number"`
	Name          string                 `json:"name"`
	Type          string                 `json:"type"`
	Class         string                 `json:"class"`
	Statement     string                 `json:"statement"`
	NormalBalance string                 `json:"normal_balance"`
	Currency      string                 `json:"currency"`
	Controls      PostingControlsRequest `json:"controls"`
	ParentID      *string                `json:"parent_id,omitempty"`
	Status        string                 `json:"status"`
	Version       int64                  `json:"version"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// GLAccountFromDomain converts a domain account to a response.
func GLAccountFromDomain(a *domain.GLAccount) *GLAccountResponse {
	return &GLAccountResponse{
		ID:            a.ID,
		ChartID:       a.ChartID,
		Number:        a.Number,
		Name:          a.Name,
		Type:          string(a.Type),
		Class:         string(a.Class),
		Statement:     string(a.Statement),
		NormalBalance: string(a.NormalBalance),
		Currency:      a.Currency,
		Controls: PostingControlsRequest{
			AllowPosting:       a.Controls.AllowPosting,
			AllowManualPosting: a.Controls.AllowManualPosting,
			RequireCostCenter:  a.Controls.RequireCostCenter,
			RequireProject:     a.Controls.RequireProject,
			RequirePartner:     a.Controls.RequirePartner,
		},
		ParentID:  a.ParentID,
		Status:    string(a.Status),
		Version:   a.Version.Int64(),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// GLAccountsFromDomain converts domain accounts to responses.
func GLAccountsFromDomain(accounts []*domain.GLAccount) []*GLAccountResponse {
	result := make([]*GLAccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = GLAccountFromDomain(a)
	}
	return result
}

// LineItemResponse represents one line of a journal entry.
type LineItemResponse struct {
	ID           string          `json:"id"`
	AccountID    string          `json:"account_id"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	Description  string          `json:"description,omitempty"`
	CostCenter   string          `json:"cost_center,omitempty"`
	Project      string          `json:"project,omitempty"`
	BusinessArea string          `json:"business_area,omitempty"`
	Partner      string          `json:"partner,omitempty"`
}

// JournalEntryResponse represents a journal entry with its lines.
type JournalEntryResponse struct {
	ID                string                `json:"id"`
	DocumentNumber    string                `json:"document_number"`
	PostingDate       Date                  `json:"posting_date"`
	DocumentDate      Date                  `json:"document_date"`
	FiscalYear        int                   `json:"fiscal_year"`
	FiscalPeriod      int                   `json:"fiscal_period"`
	Currency          string                `json:"currency"`
	ExchangeRate      *ExchangeRateResponse `json:"exchange_rate,omitempty"`
	Description       string                `json:"description,omitempty"`
	Source            string                `json:"source"`
	Status            string                `json:"status"`
	TotalDebit        decimal.Decimal       `json:"total_debit"`
	TotalCredit       decimal.Decimal       `json:"total_credit"`
	Lines             []LineItemResponse    `json:"lines"`
	ReversesEntryID   string                `json:"reverses_entry_id,omitempty"`
	ReversedByEntryID string                `json:"reversed_by_entry_id,omitempty"`
	CreatedBy         string                `json:"created_by"`
	PostedBy          string                `json:"posted_by,omitempty"`
	PostedAt          *time.Time            `json:"posted_at,omitempty"`
	Version           int64                 `json:"version"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// JournalEntryFromDomain converts a domain entry to a response.
func JournalEntryFromDomain(e *domain.JournalEntry) *JournalEntryResponse {
	lines := e.Lines()
	items := make([]LineItemResponse, len(lines))
	for i, l := range lines {
		alloc := l.Allocation()
		items[i] = LineItemResponse{
			ID:           l.ID(),
			AccountID:    l.AccountID(),
			Debit:        l.Debit(),
			Credit:       l.Credit(),
			Description:  l.Description(),
			CostCenter:   alloc.CostCenter,
			Project:      alloc.Project,
			BusinessArea: alloc.BusinessArea,
			Partner:      alloc.Partner,
		}
	}

	resp := &JournalEntryResponse{
		ID:                e.ID(),
		DocumentNumber:    e.DocumentNumber(),
		PostingDate:       Date{e.PostingDate()},
		DocumentDate:      Date{e.DocumentDate()},
		FiscalYear:        e.FiscalYear(),
		FiscalPeriod:      e.FiscalPeriod(),
		Currency:          e.Currency(),
		Description:       e.Description(),
		Source:            string(e.Source()),
		Status:            string(e.Status()),
		TotalDebit:        e.TotalDebit(),
		TotalCredit:       e.TotalCredit(),
		Lines:             items,
		ReversesEntryID:   e.ReversesEntryID(),
		ReversedByEntryID: e.ReversedByEntryID(),
		CreatedBy:         e.CreatedBy(),
		PostedBy:          e.PostedBy(),
		PostedAt:          e.PostedAt(),
		Version:           e.Version().Int64(),
		CreatedAt:         e.CreatedAt(),
		UpdatedAt:         e.UpdatedAt(),
	}
	if rate := e.ExchangeRate(); rate != nil {
		resp.ExchangeRate = ExchangeRateFromDomain(rate)
	}

	return resp
}

// JournalEntriesFromDomain converts domain entries to responses.
func JournalEntriesFromDomain(entries []*domain.JournalEntry) []*JournalEntryResponse {
	result := make([]*JournalEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = JournalEntryFromDomain(e)
	}
	return result
}

// ValidationResponse lists the violations a post would currently hit.
type ValidationResponse struct {
	EntryID    string              `json:"entry_id"`
	Valid      bool                `json:"valid"`
	Violations []ViolationResponse `json:"violations"`
}

// BalanceResponse represents an account balance for one period.
type BalanceResponse struct {
	AccountID     string          `json:"account_id"`
	FiscalYear    int             `json:"fiscal_year"`
	FiscalPeriod  int             `json:"fiscal_period"`
	Currency      string          `json:"currency"`
	NormalBalance string          `json:"normal_balance"`
	Opening       decimal.Decimal `json:"opening"`
	DebitTotal    decimal.Decimal `json:"debit_total"`
	CreditTotal   decimal.Decimal `json:"credit_total"`
	Closing       decimal.Decimal `json:"closing"`
	Version       int64           `json:"version"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BalanceFromDomain converts a domain balance to a response.
func BalanceFromDomain(b *domain.AccountBalance) *BalanceResponse {
	key := b.Key()
	return &BalanceResponse{
		AccountID:     key.AccountID,
		FiscalYear:    key.FiscalYear,
		FiscalPeriod:  key.FiscalPeriod,
		Currency:      b.Currency(),
		NormalBalance: string(b.NormalBalance()),
		Opening:       b.Opening(),
		DebitTotal:    b.DebitTotal(),
		CreditTotal:   b.CreditTotal(),
		Closing:       b.Closing(),
		Version:       b.Version().Int64(),
		UpdatedAt:     b.UpdatedAt(),
	}
}

// BalancesFromDomain converts domain balances to responses.
func BalancesFromDomain(balances []*domain.AccountBalance) []*BalanceResponse {
	result := make([]*BalanceResponse, len(balances))
	for i, b := range balances {
		result[i] = BalanceFromDomain(b)
	}
	return result
}

// ExchangeRateResponse represents a recorded rate.
type ExchangeRateResponse struct {
	ID        string          `json:"id"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	RateDate  Date            `json:"rate_date"`
	Rate      decimal.Decimal `json:"rate"`
	Source    string          `json:"source,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ExchangeRateFromDomain converts a domain rate to a response.
func ExchangeRateFromDomain(r *domain.ExchangeRate) *ExchangeRateResponse {
	return &ExchangeRateResponse{
		ID:        r.ID(),
		From:      r.From(),
		To:        r.To(),
		RateDate:  Date{r.RateDate()},
		Rate:      r.Rate(),
		Source:    r.Source(),
		CreatedAt: r.CreatedAt(),
	}
}

// EffectiveRateResponse is the rate in force on a date.
type EffectiveRateResponse struct {
	Rate     *ExchangeRateResponse `json:"rate"`
	Inverted bool                  `json:"inverted"`
}

// ConversionResponse is the result of a currency conversion.
type ConversionResponse struct {
	Amount         decimal.Decimal `json:"amount"`
	From           string          `json:"from"`
	Converted      decimal.Decimal `json:"converted"`
	To             string          `json:"to"`
	ExchangeRateID string          `json:"exchange_rate_id,omitempty"`
	Rate           decimal.Decimal `json:"rate"`
	Inverted       bool            `json:"inverted"`
}

// ConversionFromUseCase converts a conversion result to a response.
func ConversionFromUseCase(c *usecase.Conversion) *ConversionResponse {
	resp := &ConversionResponse{
		Amount:    c.Source.Amount(),
		From:      c.Source.Currency(),
		Converted: c.Converted.Amount(),
		To:        c.Converted.Currency(),
		Rate:      decimal.NewFromInt(1),
		Inverted:  c.Inverted,
	}
	if c.Rate != nil {
		resp.ExchangeRateID = c.Rate.ID()
		resp.Rate = c.Rate.Rate()
	}
	return resp
}

// CurrencyConsistencyResponse holds one currency's totals.
type CurrencyConsistencyResponse struct {
	Currency    string          `json:"currency"`
	DebitTotal  decimal.Decimal `json:"debit_total"`
	CreditTotal decimal.Decimal `json:"credit_total"`
	Difference  decimal.Decimal `json:"difference"`
}

// ConsistencyResponse reports whether a period's debits equal its credits.
type ConsistencyResponse struct {
	FiscalYear   int                           `json:"fiscal_year"`
	FiscalPeriod int                           `json:"fiscal_period"`
	Consistent   bool                          `json:"consistent"`
	Currencies   []CurrencyConsistencyResponse `json:"currencies"`
	CheckedAt    time.Time                     `json:"checked_at"`
}

// ConsistencyFromUseCase converts a consistency report to a response.
func ConsistencyFromUseCase(c *usecase.PeriodConsistency) *ConsistencyResponse {
	currencies := make([]CurrencyConsistencyResponse, len(c.Currencies))
	for i, cc := range c.Currencies {
		currencies[i] = CurrencyConsistencyResponse{
			Currency:    cc.Currency,
			DebitTotal:  cc.DebitTotal,
			CreditTotal: cc.CreditTotal,
			Difference:  cc.Difference,
		}
	}
	return &ConsistencyResponse{
		FiscalYear:   c.FiscalYear,
		FiscalPeriod: c.FiscalPeriod,
		Consistent:   c.Consistent,
		Currencies:   currencies,
		CheckedAt:    c.CheckedAt,
	}
}

// DiscrepancyResponse is one balance row that disagrees with its postings.
type DiscrepancyResponse struct {
	AccountID        string          `json:"account_id"`
	RecordedDebit    decimal.Decimal `json:"recorded_debit"`
	RecordedCredit   decimal.Decimal `json:"recorded_credit"`
	CalculatedDebit  decimal.Decimal `json:"calculated_debit"`
	CalculatedCredit decimal.Decimal `json:"calculated_credit"`
}

// ReconciliationResponse compares stored balances with posted lines.
type ReconciliationResponse struct {
	FiscalYear         int                   `json:"fiscal_year"`
	FiscalPeriod       int                   `json:"fiscal_period"`
	TotalAccounts      int                   `json:"total_accounts"`
	ReconciledAccounts int                   `json:"reconciled_accounts"`
	Discrepancies      []DiscrepancyResponse `json:"discrepancies"`
	CheckedAt          time.Time             `json:"checked_at"`
}

// ReconciliationFromUseCase converts a reconciliation report to a response.
func ReconciliationFromUseCase(r *usecase.ReconciliationReport) *ReconciliationResponse {
	discrepancies := make([]DiscrepancyResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = DiscrepancyResponse{
			AccountID:        d.Key.AccountID,
			RecordedDebit:    d.RecordedDebit,
			RecordedCredit:   d.RecordedCredit,
			CalculatedDebit:  d.CalculatedDebit,
			CalculatedCredit: d.CalculatedCredit,
		}
	}
	return &ReconciliationResponse{
		FiscalYear:         r.FiscalYear,
		FiscalPeriod:       r.FiscalPeriod,
		TotalAccounts:      r.TotalAccounts,
		ReconciledAccounts: r.ReconciledAccounts,
		Discrepancies:      discrepancies,
		CheckedAt:          r.CheckedAt,
	}
}

// PeriodResponse reports a fiscal period's status.
type PeriodResponse struct {
	FiscalYear   int  `json:"fiscal_year"`
	FiscalPeriod int  `json:"fiscal_period"`
	Open         bool `json:"open"`
}

// PeriodFromUseCase converts a period status to a response.
func PeriodFromUseCase(p *usecase.PeriodStatus) *PeriodResponse {
	return &PeriodResponse{FiscalYear: p.FiscalYear, FiscalPeriod: p.FiscalPeriod, Open: p.Open}
}

// AuditLogResponse represents one audit row.
type AuditLogResponse struct {
	ID           string         `json:"id"`
	ActorID      string         `json:"actor_id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	RequestID    string         `json:"request_id,omitempty"`
	BeforeState  map[string]any `json:"before_state,omitempty"`
	AfterState   map[string]any `json:"after_state,omitempty"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// AuditLogsFromDomain converts audit rows to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = &AuditLogResponse{
			ID:           l.ID,
			ActorID:      l.ActorID,
			Action:       string(l.Action),
			ResourceType: l.ResourceType,
			ResourceID:   l.ResourceID,
			RequestID:    l.RequestID,
			BeforeState:  l.BeforeState,
			AfterState:   l.AfterState,
			Status:       string(l.Status),
			ErrorMessage: l.ErrorMessage,
			CreatedAt:    l.CreatedAt,
		}
	}
	return result
}

// UserResponse represents a user without credentials.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UsersFromDomain converts domain users to responses.
func UsersFromDomain(users []*domain.User) []*UserResponse {
	result := make([]*UserResponse, len(users))
	for i, u := range users {
		result[i] = UserFromDomain(u)
	}
	return result
}

// LoginResponse carries the bearer token for later requests.
type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// ActorResponse describes the caller.
type ActorResponse struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}
