package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceKey identifies one account in one fiscal period.
type BalanceKey struct {
	AccountID    string
	FiscalYear   int
	FiscalPeriod int
}

func (k BalanceKey) String() string {
	return fmt.Sprintf("%s/%04d-%02d", k.AccountID, k.FiscalYear, k.FiscalPeriod)
}

// AccountBalance is the running total of one account in one period. Only
// the posting engine and the period-close seeding change it.
type AccountBalance struct {
	key           BalanceKey
	currency      string
	normalBalance NormalBalance
	opening       decimal.Decimal
	debitTotal    decimal.Decimal
	creditTotal   decimal.Decimal
	closing       decimal.Decimal
	updatedAt     time.Time
	version       Version
}

// NewAccountBalance creates the empty balance row for an account and period.
func NewAccountBalance(key BalanceKey, account *GLAccount, now time.Time) *AccountBalance {
	return &AccountBalance{
		key:           key,
		currency:      account.Currency,
		normalBalance: account.NormalBalance,
		opening:       decimal.Zero,
		debitTotal:    decimal.Zero,
		creditTotal:   decimal.Zero,
		closing:       decimal.Zero,
		updatedAt:     now,
	}
}

func (b *AccountBalance) Key() BalanceKey              { return b.key }
func (b *AccountBalance) Currency() string             { return b.currency }
func (b *AccountBalance) NormalBalance() NormalBalance { return b.normalBalance }
func (b *AccountBalance) Opening() decimal.Decimal     { return b.opening }
func (b *AccountBalance) DebitTotal() decimal.Decimal  { return b.debitTotal }
func (b *AccountBalance) CreditTotal() decimal.Decimal { return b.creditTotal }
func (b *AccountBalance) Closing() decimal.Decimal     { return b.closing }
func (b *AccountBalance) UpdatedAt() time.Time         { return b.updatedAt }
func (b *AccountBalance) Version() Version             { return b.version }

// ApplyPosting adds amount to the side's period total and recomputes the closing balance.
func (b *AccountBalance) ApplyPosting(side Side, amount decimal.Decimal, policy RoundingPolicy, now time.Time) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: posting amount %s must be positive", ErrInvalidLineItem, amount)
	}

	switch side {
	case SideDebit:
		b.debitTotal = b.debitTotal.Add(amount)
	case SideCredit:
		b.creditTotal = b.creditTotal.Add(amount)
	default:
		return fmt.Errorf("%w: side %q", ErrInvalidLineItem, side)
	}

	b.recompute(policy)
	b.updatedAt = now

	return nil
}

// SeedOpening sets the carry-forward from the prior period's closing balance.
func (b *AccountBalance) SeedOpening(opening decimal.Decimal, policy RoundingPolicy, now time.Time) error {
	if Scale(opening) > MoneyScale {
		return fmt.Errorf("%w: opening %s has more than %d fractional digits", ErrPrecisionLoss, opening, MoneyScale)
	}

	b.opening = opening
	b.recompute(policy)
	b.updatedAt = now

	return nil
}

func (b *AccountBalance) recompute(policy RoundingPolicy) {
	var movement decimal.Decimal
	switch b.normalBalance {
	case NormalCredit:
		movement = b.creditTotal.Sub(b.debitTotal)
	case NormalDebit:
		movement = b.debitTotal.Sub(b.creditTotal)
	}

	b.closing = policy.Round(b.opening.Add(movement), MoneyScale)
}

// AccountBalanceSnapshot is the storage shape of a balance row.
type AccountBalanceSnapshot struct {
	Key           BalanceKey
	Currency      string
	NormalBalance NormalBalance
	Opening       decimal.Decimal
	DebitTotal    decimal.Decimal
	CreditTotal   decimal.Decimal
	Closing       decimal.Decimal
	UpdatedAt     time.Time
	Version       Version
}

// Snapshot exports the balance for persistence.
func (b *AccountBalance) Snapshot() AccountBalanceSnapshot {
	return AccountBalanceSnapshot{
		Key:           b.key,
		Currency:      b.currency,
		NormalBalance: b.normalBalance,
		Opening:       b.opening,
		DebitTotal:    b.debitTotal,
		CreditTotal:   b.creditTotal,
		Closing:       b.closing,
		UpdatedAt:     b.updatedAt,
		Version:       b.version,
	}
}

// RehydrateAccountBalance rebuilds a balance row from storage.
func RehydrateAccountBalance(s AccountBalanceSnapshot) *AccountBalance {
	return &AccountBalance{
		key:           s.Key,
		currency:      s.Currency,
		normalBalance: s.NormalBalance,
		opening:       s.Opening,
		debitTotal:    s.DebitTotal,
		creditTotal:   s.CreditTotal,
		closing:       s.Closing,
		updatedAt:     s.UpdatedAt,
		version:       s.Version,
	}
}
