package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/usecase"
)

const dateLayout = "2006-01-02"

// Date accepts either a calendar date or an RFC 3339 timestamp.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t

	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

// ParseDate parses a calendar date or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC 3339", s)
	}

	return t, nil
}

func (d *Date) value() time.Time {
	if d == nil {
		return time.Time{}
	}

	return d.Time
}

// ExpectedVersion converts an optional version counter from a request.
func ExpectedVersion(v *int64) *domain.Version {
	if v == nil {
		return nil
	}

	version := domain.VersionOf(*v)

	return &version
}

// CreateChartRequest represents a request to create a chart of accounts.
type CreateChartRequest struct {
	OrganizationID string `json:"organization_id" validate:"required"`
	Code           string `json:"code"            validate:"required,max=32"`
	Name           string `json:"name"            validate:"required,max=200"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateChartRequest) ToUseCaseInput() usecase.CreateChartInput {
	return usecase.CreateChartInput{
		OrganizationID: r.OrganizationID,
		Code:           r.Code,
		Name:           r.Name,
	}
}

// StatusChangeRequest carries the version a status change was based on.
type StatusChangeRequest struct {
	ExpectedVersion *int64 `json:"expected_version,omitempty" validate:"omitempty,min=1"`
}

// PostingControlsRequest mirrors domain.PostingControls.
type PostingControlsRequest struct {
	AllowPosting       bool `json:"allow_posting"`
	AllowManualPosting bool `json:"allow_manual_posting"`
	RequireCostCenter  bool `json:"require_cost_center"`
	RequireProject     bool `json:"require_project"`
	RequirePartner     bool `json:"require_partner"`
}

// CreateGLAccountRequest represents a request to create a GL account.
type CreateGLAccountRequest struct {
	ChartID       string                  `json:"chart_id"                 validate:"required"`
	Number        string                  `json:"number"                   validate:"required,max=20"`
	Name          string                  `json:"name"                     validate:"required,max=200"`
	Type          string                  `json:"type"                     validate:"required"`
	Statement     string                  `json:"statement,omitempty"`
	NormalBalance string                  `json:"normal_balance,omitempty" validate:"omitempty,oneof=DEBIT CREDIT"`
	Currency      string                  `json:"currency"                 validate:"required,len=3"`
	Controls      *PostingControlsRequest `json:"controls,omitempty"`
	ParentID      *string                 `json:"parent_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateGLAccountRequest) ToUseCaseInput() usecase.CreateGLAccountInput {
	input := usecase.CreateGLAccountInput{
		ChartID:       r.ChartID,
		Number:        r.Number,
		Name:          r.Name,
		Type:          domain.AccountType(r.Type),
		Statement:     domain.StatementType(r.Statement),
		NormalBalance: domain.NormalBalance(r.NormalBalance),
		Currency:      strings.ToUpper(r.Currency),
		ParentID:      r.ParentID,
	}

	if r.Controls != nil {
		input.Controls = &domain.PostingControls{
			AllowPosting:       r.Controls.AllowPosting,
			AllowManualPosting: r.Controls.AllowManualPosting,
			RequireCostCenter:  r.Controls.RequireCostCenter,
			RequireProject:     r.Controls.RequireProject,
			RequirePartner:     r.Controls.RequirePartner,
		}
	}

	return input
}

// LineItemRequest is one debit or credit line.
type LineItemRequest struct {
	AccountID    string          `json:"account_id"              validate:"required"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	Description  string          `json:"description,omitempty"   validate:"max=500"`
	CostCenter   string          `json:"cost_center,omitempty"`
	Project      string          `json:"project,omitempty"`
	BusinessArea string          `json:"business_area,omitempty"`
	Partner      string          `json:"partner,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r LineItemRequest) ToUseCaseInput() usecase.LineItemInput {
	return usecase.LineItemInput{
		AccountID:   r.AccountID,
		Debit:       r.Debit,
		Credit:      r.Credit,
		Description: r.Description,
		Allocation: domain.Allocation{
			CostCenter:   r.CostCenter,
			Project:      r.Project,
			BusinessArea: r.BusinessArea,
			Partner:      r.Partner,
		},
	}
}

// OpenJournalEntryRequest opens a draft entry.
type OpenJournalEntryRequest struct {
	DocumentNumber string            `json:"document_number,omitempty"  validate:"max=64"`
	PostingDate    Date              `json:"posting_date"`
	DocumentDate   *Date             `json:"document_date,omitempty"`
	FiscalYear     int               `json:"fiscal_year,omitempty"      validate:"omitempty,min=1900,max=9999"`
	FiscalPeriod   int               `json:"fiscal_period,omitempty"    validate:"omitempty,min=1,max=16"`
	Currency       string            `json:"currency"                   validate:"required,len=3"`
	ExchangeRateID string            `json:"exchange_rate_id,omitempty"`
	Description    string            `json:"description,omitempty"      validate:"max=500"`
	Source         string            `json:"source,omitempty"           validate:"omitempty,oneof=MANUAL SYSTEM"`
	Lines          []LineItemRequest `json:"lines,omitempty"            validate:"dive"`
}

// ToUseCaseInput converts to use case input. The actor comes from the
// request context.
func (r *OpenJournalEntryRequest) ToUseCaseInput() usecase.OpenJournalEntryInput {
	lines := make([]usecase.LineItemInput, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = l.ToUseCaseInput()
	}

	return usecase.OpenJournalEntryInput{
		DocumentNumber: r.DocumentNumber,
		PostingDate:    r.PostingDate.Time,
		DocumentDate:   r.DocumentDate.value(),
		FiscalYear:     r.FiscalYear,
		FiscalPeriod:   r.FiscalPeriod,
		Currency:       strings.ToUpper(r.Currency),
		ExchangeRateID: r.ExchangeRateID,
		Description:    r.Description,
		Source:         domain.EntrySource(r.Source),
		Lines:          lines,
	}
}

// AddLineItemRequest appends a line to a draft.
type AddLineItemRequest struct {
	LineItemRequest
	ExpectedVersion *int64 `json:"expected_version,omitempty" validate:"omitempty,min=1"`
}

// ToUseCaseInput converts to use case input.
func (r *AddLineItemRequest) ToUseCaseInput(entryID string) usecase.AddLineItemInput {
	return usecase.AddLineItemInput{
		EntryID:         entryID,
		ExpectedVersion: ExpectedVersion(r.ExpectedVersion),
		Line:            r.LineItemRequest.ToUseCaseInput(),
	}
}

// PostJournalEntryRequest posts a draft.
type PostJournalEntryRequest struct {
	ExpectedVersion *int64 `json:"expected_version,omitempty" validate:"omitempty,min=1"`
}

// ReverseJournalEntryRequest reverses a posted entry.
type ReverseJournalEntryRequest struct {
	ReversalDate    *Date  `json:"reversal_date,omitempty"`
	DocumentNumber  string `json:"document_number,omitempty"  validate:"max=64"`
	FiscalYear      int    `json:"fiscal_year,omitempty"      validate:"omitempty,min=1900,max=9999"`
	FiscalPeriod    int    `json:"fiscal_period,omitempty"    validate:"omitempty,min=1,max=16"`
	Description     string `json:"description,omitempty"      validate:"max=500"`
	ExpectedVersion *int64 `json:"expected_version,omitempty" validate:"omitempty,min=1"`
}

// ToUseCaseInput converts to use case input.
func (r *ReverseJournalEntryRequest) ToUseCaseInput(entryID string) usecase.ReverseJournalEntryInput {
	return usecase.ReverseJournalEntryInput{
		EntryID:         entryID,
		ReversalDate:    r.ReversalDate.value(),
		DocumentNumber:  r.DocumentNumber,
		FiscalYear:      r.FiscalYear,
		FiscalPeriod:    r.FiscalPeriod,
		Description:     r.Description,
		ExpectedVersion: ExpectedVersion(r.ExpectedVersion),
	}
}

// SeedOpeningBalanceRequest sets the opening amount of a period.
type SeedOpeningBalanceRequest struct {
	AccountID       string          `json:"account_id"                 validate:"required"`
	FiscalYear      int             `json:"fiscal_year"                validate:"required,min=1900,max=9999"`
	FiscalPeriod    int             `json:"fiscal_period"              validate:"required,min=1,max=16"`
	Opening         decimal.Decimal `json:"opening"`
	ExpectedVersion *int64          `json:"expected_version,omitempty" validate:"omitempty,min=0"`
}

// ToUseCaseInput converts to use case input.
func (r *SeedOpeningBalanceRequest) ToUseCaseInput() usecase.SeedOpeningBalanceInput {
	return usecase.SeedOpeningBalanceInput{
		AccountID:       r.AccountID,
		FiscalYear:      r.FiscalYear,
		FiscalPeriod:    r.FiscalPeriod,
		Opening:         r.Opening,
		ExpectedVersion: ExpectedVersion(r.ExpectedVersion),
	}
}

// RecordExchangeRateRequest records a daily rate.
type RecordExchangeRateRequest struct {
	From     string          `json:"from"     validate:"required,len=3"`
	To       string          `json:"to"       validate:"required,len=3,nefield=From"`
	RateDate Date            `json:"rate_date"`
	Rate     decimal.Decimal `json:"rate"`
	Source   string          `json:"source"   validate:"max=64"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordExchangeRateRequest) ToUseCaseInput() usecase.RecordExchangeRateInput {
	return usecase.RecordExchangeRateInput{
		From:     strings.ToUpper(r.From),
		To:       strings.ToUpper(r.To),
		RateDate: r.RateDate.Time,
		Rate:     r.Rate,
		Source:   r.Source,
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateUserRequest registers a user.
type CreateUserRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"     validate:"required,max=200"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role"     validate:"required,oneof=controller accountant viewer"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateUserRequest) ToUseCaseInput() usecase.CreateUserInput {
	return usecase.CreateUserInput{
		Email:    r.Email,
		Name:     r.Name,
		Password: r.Password,
		Role:     domain.Role(r.Role),
	}
}

// UpdateUserRequest changes the fields that are present.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"     validate:"omitempty,max=200"`
	Role     *string `json:"role,omitempty"     validate:"omitempty,oneof=controller accountant viewer"`
	Active   *bool   `json:"active,omitempty"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateUserRequest) ToUseCaseInput(id string) usecase.UpdateUserInput {
	input := usecase.UpdateUserInput{
		ID:       id,
		Name:     r.Name,
		Active:   r.Active,
		Password: r.Password,
	}

	if r.Role != nil {
		role := domain.Role(*r.Role)
		input.Role = &role
	}

	return input
}
