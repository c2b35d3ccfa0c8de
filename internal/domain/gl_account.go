package domain

import (
	"fmt"
	"time"
)

// AccountClass is the top-level accounting classification.
type AccountClass string

const (
	ClassAsset     AccountClass = "ASSET"
	ClassLiability AccountClass = "LIABILITY"
	ClassEquity    AccountClass = "EQUITY"
	ClassRevenue   AccountClass = "REVENUE"
	ClassExpense   AccountClass = "EXPENSE"
)

// ParseAccountClass parses an account class name.
func ParseAccountClass(s string) (AccountClass, error) {
	switch AccountClass(s) {
	case ClassAsset:
		return ClassAsset, nil
	case ClassLiability:
		return ClassLiability, nil
	case ClassEquity:
		return ClassEquity, nil
	case ClassRevenue:
		return ClassRevenue, nil
	case ClassExpense:
		return ClassExpense, nil
	}

	return "", fmt.Errorf("%w: account class %q", ErrInvalidEnum, s)
}

// NormalBalance returns the side on which the class naturally grows.
func (c AccountClass) NormalBalance() NormalBalance {
	switch c {
	case ClassAsset, ClassExpense:
		return NormalDebit
	case ClassLiability, ClassEquity, ClassRevenue:
		return NormalCredit
	}

	return NormalDebit
}

// StatementType returns the financial statement the class reports on.
func (c AccountClass) StatementType() StatementType {
	switch c {
	case ClassAsset, ClassLiability, ClassEquity:
		return StatementBalanceSheet
	case ClassRevenue, ClassExpense:
		return StatementProfitAndLoss
	}

	return StatementBalanceSheet
}

// StatementType is the statement an account is reported on.
type StatementType string

const (
	StatementBalanceSheet  StatementType = "BALANCE_SHEET"
	StatementProfitAndLoss StatementType = "PROFIT_AND_LOSS"
	StatementCashFlow      StatementType = "CASH_FLOW"
)

// ParseStatementType parses a statement type name.
func ParseStatementType(s string) (StatementType, error) {
	switch StatementType(s) {
	case StatementBalanceSheet:
		return StatementBalanceSheet, nil
	case StatementProfitAndLoss:
		return StatementProfitAndLoss, nil
	case StatementCashFlow:
		return StatementCashFlow, nil
	}

	return "", fmt.Errorf("%w: statement type %q", ErrInvalidEnum, s)
}

// NormalBalance determines the sign convention of an account balance.
type NormalBalance string

const (
	NormalDebit  NormalBalance = "DEBIT"
	NormalCredit NormalBalance = "CREDIT"
)

// ParseNormalBalance parses a normal balance name.
func ParseNormalBalance(s string) (NormalBalance, error) {
	switch NormalBalance(s) {
	case NormalDebit:
		return NormalDebit, nil
	case NormalCredit:
		return NormalCredit, nil
	}

	return "", fmt.Errorf("%w: normal balance %q", ErrInvalidEnum, s)
}

// AccountType is the functional kind of an account.
type AccountType string

const (
	AccountTypeCash                    AccountType = "CASH"
	AccountTypeBank                    AccountType = "BANK"
	AccountTypeReceivable              AccountType = "ACCOUNTS_RECEIVABLE"
	AccountTypeInventory               AccountType = "INVENTORY"
	AccountTypeFixedAsset              AccountType = "FIXED_ASSET"
	AccountTypeAccumulatedDepreciation AccountType = "ACCUMULATED_DEPRECIATION"
	AccountTypePayable                 AccountType = "ACCOUNTS_PAYABLE"
	AccountTypeTaxPayable              AccountType = "TAX_PAYABLE"
	AccountTypeAccruedLiability        AccountType = "ACCRUED_LIABILITY"
	AccountTypeLoan                    AccountType = "LOAN"
	AccountTypeCapital                 AccountType = "CAPITAL"
	AccountTypeRetainedEarnings        AccountType = "RETAINED_EARNINGS"
	AccountTypeRevenue                 AccountType = "REVENUE"
	AccountTypeOtherIncome             AccountType = "OTHER_INCOME"
	AccountTypeCostOfSales             AccountType = "COST_OF_SALES"
	AccountTypeExpense                 AccountType = "EXPENSE"
)

// ParseAccountType parses an account type name.
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(s)
	if _, err := t.Class(); err != nil {
		return "", err
	}

	return t, nil
}

// Class returns the class an account type belongs to.
func (t AccountType) Class() (AccountClass, error) {
	switch t {
	case AccountTypeCash, AccountTypeBank, AccountTypeReceivable, AccountTypeInventory,
		AccountTypeFixedAsset, AccountTypeAccumulatedDepreciation:
		return ClassAsset, nil
	case AccountTypePayable, AccountTypeTaxPayable, AccountTypeAccruedLiability, AccountTypeLoan:
		return ClassLiability, nil
	case AccountTypeCapital, AccountTypeRetainedEarnings:
		return ClassEquity, nil
	case AccountTypeRevenue, AccountTypeOtherIncome:
		return ClassRevenue, nil
	case AccountTypeCostOfSales, AccountTypeExpense:
		return ClassExpense, nil
	}

	return "", fmt.Errorf("%w: account type %q", ErrInvalidEnum, string(t))
}

// AccountStatus is the posting status of a GL account.
type AccountStatus string

const (
	AccountStatusActive  AccountStatus = "ACTIVE"
	AccountStatusBlocked AccountStatus = "BLOCKED"
)

// ParseAccountStatus parses an account status name.
func ParseAccountStatus(s string) (AccountStatus, error) {
	switch AccountStatus(s) {
	case AccountStatusActive:
		return AccountStatusActive, nil
	case AccountStatusBlocked:
		return AccountStatusBlocked, nil
	}

	return "", fmt.Errorf("%w: account status %q", ErrInvalidEnum, s)
}

// PostingControls restrict which postings an account accepts.
type PostingControls struct {
	AllowPosting       bool
	AllowManualPosting bool
	RequireCostCenter  bool
	RequireProject     bool
	RequirePartner     bool
}

// DefaultPostingControls allows system and manual postings with no required tags.
func DefaultPostingControls() PostingControls {
	return PostingControls{AllowPosting: true, AllowManualPosting: true}
}

// GLAccount is a general ledger account within a chart.
type GLAccount struct {
	ID            string
	ChartID       string
	Number        string
	Name          string
	Type          AccountType
	Class         AccountClass
	Statement     StatementType
	NormalBalance NormalBalance
	Currency      string
	Controls      PostingControls
	ParentID      *string
	Status        AccountStatus
	Version       Version // set by the persistence layer
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// GLAccountSpec describes an account to create. Statement and normal
// balance default from the class derived from Type when left empty.
type GLAccountSpec struct {
	ID            string
	ChartID       string
	Number        string
	Name          string
	Type          AccountType
	Statement     StatementType
	NormalBalance NormalBalance
	Currency      string
	Controls      PostingControls
	ParentID      *string
}

// NewGLAccount validates spec and returns an ACTIVE account.
func NewGLAccount(spec GLAccountSpec, now time.Time) (*GLAccount, error) {
	if err := ValidateAccountNumber(spec.Number); err != nil {
		return nil, err
	}

	if err := ValidateName(spec.Name); err != nil {
		return nil, err
	}

	if err := ValidateCurrency(spec.Currency); err != nil {
		return nil, err
	}

	class, err := spec.Type.Class()
	if err != nil {
		return nil, err
	}

	statement := spec.Statement
	if statement == "" {
		statement = class.StatementType()
	} else if _, err := ParseStatementType(string(statement)); err != nil {
		return nil, err
	}

	normal := spec.NormalBalance
	if normal == "" {
		normal = class.NormalBalance()
	} else if _, err := ParseNormalBalance(string(normal)); err != nil {
		return nil, err
	}

	if spec.ParentID != nil && *spec.ParentID == spec.ID {
		return nil, fmt.Errorf("%w: account cannot be its own parent", ErrInvalidParent)
	}

	return &GLAccount{
		ID:            spec.ID,
		ChartID:       spec.ChartID,
		Number:        spec.Number,
		Name:          spec.Name,
		Type:          spec.Type,
		Class:         class,
		Statement:     statement,
		NormalBalance: normal,
		Currency:      spec.Currency,
		Controls:      spec.Controls,
		ParentID:      spec.ParentID,
		Status:        AccountStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Activate re-enables postings. Activating an active account is a no-op.
func (a *GLAccount) Activate(now time.Time) {
	if a.Status == AccountStatusActive {
		return
	}

	a.Status = AccountStatusActive
	a.UpdatedAt = now
}

// Block stops new postings. Existing postings are unaffected.
func (a *GLAccount) Block(now time.Time) {
	if a.Status == AccountStatusBlocked {
		return
	}

	a.Status = AccountStatusBlocked
	a.UpdatedAt = now
}

// IsPostingAllowed reports whether the account accepts postings right now.
func (a *GLAccount) IsPostingAllowed() bool {
	return a.Status == AccountStatusActive && a.Controls.AllowPosting
}

// AcceptsManualPosting reports whether users may post to it by hand.
func (a *GLAccount) AcceptsManualPosting() bool {
	return a.IsPostingAllowed() && a.Controls.AllowManualPosting
}

// MissingAllocations lists the allocation tags the account requires but alloc lacks.
func (a *GLAccount) MissingAllocations(alloc Allocation) []string {
	var missing []string
	if a.Controls.RequireCostCenter && alloc.CostCenter == "" {
		missing = append(missing, "cost center")
	}
	if a.Controls.RequireProject && alloc.Project == "" {
		missing = append(missing, "project")
	}
	if a.Controls.RequirePartner && alloc.Partner == "" {
		missing = append(missing, "partner")
	}

	return missing
}
