package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Side is the side of a posting.
type Side string

const (
	SideDebit  Side = "DEBIT"
	SideCredit Side = "CREDIT"
)

// ParseSide parses a side name.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case SideDebit:
		return SideDebit, nil
	case SideCredit:
		return SideCredit, nil
	}

	return "", fmt.Errorf("%w: side %q", ErrInvalidEnum, s)
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	switch s {
	case SideDebit:
		return SideCredit
	case SideCredit:
		return SideDebit
	}

	return s
}

// Allocation holds opaque reporting tags carried by a line item.
type Allocation struct {
	CostCenter   string
	Project      string
	BusinessArea string
	Partner      string
}

// JournalEntryLineItem posts an amount to one account on exactly one side.
type JournalEntryLineItem struct {
	id          string
	accountID   string
	side        Side
	amount      decimal.Decimal
	description string
	allocation  Allocation
}

// NewDebitLine creates a debit line.
func NewDebitLine(id, accountID string, amount decimal.Decimal) JournalEntryLineItem {
	return JournalEntryLineItem{id: id, accountID: accountID, side: SideDebit, amount: amount}
}

// NewCreditLine creates a credit line.
func NewCreditLine(id, accountID string, amount decimal.Decimal) JournalEntryLineItem {
	return JournalEntryLineItem{id: id, accountID: accountID, side: SideCredit, amount: amount}
}

// NewLineItem builds a line from a debit/credit pair as found in
// documents and requests. Exactly one of the two must be non-zero.
func NewLineItem(id, accountID string, debit, credit decimal.Decimal) (JournalEntryLineItem, error) {
	hasDebit := !debit.IsZero()
	hasCredit := !credit.IsZero()

	switch {
	case hasDebit && hasCredit:
		return JournalEntryLineItem{}, fmt.Errorf("%w: both debit and credit are set", ErrInvalidLineItem)
	case !hasDebit && !hasCredit:
		return JournalEntryLineItem{}, fmt.Errorf("%w: neither debit nor credit is set", ErrInvalidLineItem)
	case hasDebit:
		return NewDebitLine(id, accountID, debit), nil
	default:
		return NewCreditLine(id, accountID, credit), nil
	}
}

// WithDescription returns a copy carrying description.
func (l JournalEntryLineItem) WithDescription(description string) JournalEntryLineItem {
	l.description = description
	return l
}

// WithAllocation returns a copy carrying alloc.
func (l JournalEntryLineItem) WithAllocation(alloc Allocation) JournalEntryLineItem {
	l.allocation = alloc
	return l
}

func (l JournalEntryLineItem) ID() string              { return l.id }
func (l JournalEntryLineItem) AccountID() string       { return l.accountID }
func (l JournalEntryLineItem) Side() Side              { return l.side }
func (l JournalEntryLineItem) Amount() decimal.Decimal { return l.amount }
func (l JournalEntryLineItem) Description() string     { return l.description }
func (l JournalEntryLineItem) Allocation() Allocation  { return l.allocation }

// Debit returns the debit amount, zero for credit lines.
func (l JournalEntryLineItem) Debit() decimal.Decimal {
	if l.side == SideDebit {
		return l.amount
	}

	return decimal.Zero
}

// Credit returns the credit amount, zero for debit lines.
func (l JournalEntryLineItem) Credit() decimal.Decimal {
	if l.side == SideCredit {
		return l.amount
	}

	return decimal.Zero
}

func (l JournalEntryLineItem) reversed(id string) JournalEntryLineItem {
	l.id = id
	l.side = l.side.Opposite()

	return l
}

// LineItemSnapshot is the storage shape of a line item.
type LineItemSnapshot struct {
	ID          string
	AccountID   string
	Side        Side
	Amount      decimal.Decimal
	Description string
	Allocation  Allocation
}

// Snapshot exports the line for persistence.
func (l JournalEntryLineItem) Snapshot() LineItemSnapshot {
	return LineItemSnapshot{
		ID:          l.id,
		AccountID:   l.accountID,
		Side:        l.side,
		Amount:      l.amount,
		Description: l.description,
		Allocation:  l.allocation,
	}
}

// RehydrateLineItem rebuilds a line from storage.
func RehydrateLineItem(s LineItemSnapshot) JournalEntryLineItem {
	return JournalEntryLineItem{
		id:          s.ID,
		accountID:   s.AccountID,
		side:        s.Side,
		amount:      s.Amount,
		description: s.Description,
		allocation:  s.Allocation,
	}
}
