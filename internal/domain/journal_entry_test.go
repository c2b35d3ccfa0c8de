package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type ledgerFixture struct {
	cash     *GLAccount
	revenue  *GLAccount
	eurBank  *GLAccount
	accounts map[string]*GLAccount
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()

	f := &ledgerFixture{
		cash:    newTestAccount(t, "cash", "1000", AccountTypeCash, "USD"),
		revenue: newTestAccount(t, "revenue", "4000", AccountTypeRevenue, "USD"),
		eurBank: newTestAccount(t, "eur-bank", "1100", AccountTypeBank, "EUR"),
	}
	f.accounts = map[string]*GLAccount{
		f.cash.ID:    f.cash,
		f.revenue.ID: f.revenue,
		f.eurBank.ID: f.eurBank,
	}

	return f
}

func (f *ledgerFixture) context() ValidationContext {
	return ValidationContext{Accounts: f.accounts}
}

func newDraft(t *testing.T, currency string) *JournalEntry {
	t.Helper()

	e, err := NewJournalEntry(JournalEntryHeader{
		ID:             "je-1",
		DocumentNumber: "JE-2024-0001",
		PostingDate:    testNow,
		FiscalYear:     2024,
		FiscalPeriod:   3,
		Currency:       currency,
		CreatedBy:      "alice",
	}, testNow)
	if err != nil {
		t.Fatalf("NewJournalEntry failed: %v", err)
	}

	return e
}

func mustAdd(t *testing.T, e *JournalEntry, lines ...JournalEntryLineItem) {
	t.Helper()

	for _, l := range lines {
		if err := e.AddLineItem(l, testNow); err != nil {
			t.Fatalf("AddLineItem(%s) failed: %v", l.ID(), err)
		}
	}
}

func lineIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("rev-line-%d", n)
	}
}

func codes(vs []Violation) []ViolationCode {
	out := make([]ViolationCode, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Code)
	}

	return out
}

func TestNewLineItem_ExclusiveSides(t *testing.T) {
	tests := []struct {
		name     string
		debit    string
		credit   string
		wantSide Side
		wantErr  bool
	}{
		{"debit only", "100.00", "0", SideDebit, false},
		{"credit only", "0", "100.00", SideCredit, false},
		{"both", "100.00", "100.00", "", true},
		{"neither", "0", "0", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLineItem("l1", "cash", dec(tt.debit), dec(tt.credit))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidLineItem) {
					t.Fatalf("expected ErrInvalidLineItem, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if l.Side() != tt.wantSide {
				t.Fatalf("expected side %s, got %s", tt.wantSide, l.Side())
			}
			if l.Debit().IsZero() == l.Credit().IsZero() {
				t.Fatalf("expected exactly one of debit/credit to be set, got %s/%s", l.Debit(), l.Credit())
			}
		})
	}
}

func TestJournalEntry_TotalsRecomputed(t *testing.T) {
	e := newDraft(t, "USD")
	mustAdd(t, e,
		NewDebitLine("l1", "cash", dec("60.00")),
		NewDebitLine("l2", "cash", dec("40.00")),
		NewCreditLine("l3", "revenue", dec("100.00")),
	)

	if !e.TotalDebit().Equal(dec("100")) || !e.TotalCredit().Equal(dec("100")) {
		t.Fatalf("unexpected totals %s/%s", e.TotalDebit(), e.TotalCredit())
	}

	if err := e.RemoveLineItem("l2", testNow); err != nil {
		t.Fatalf("RemoveLineItem failed: %v", err)
	}

	if !e.TotalDebit().Equal(dec("60")) || e.LineCount() != 2 {
		t.Fatalf("expected totals recomputed after removal, got debit %s with %d lines", e.TotalDebit(), e.LineCount())
	}

	if err := e.RemoveLineItem("missing", testNow); !errors.Is(err, ErrLineItemNotFound) {
		t.Fatalf("expected ErrLineItemNotFound, got %v", err)
	}

	if err := e.AddLineItem(NewDebitLine("l1", "cash", dec("1.00")), testNow); !errors.Is(err, ErrInvalidLineItem) {
		t.Fatalf("expected duplicate line id to be rejected, got %v", err)
	}
}

func TestJournalEntry_ValidateSucceeds(t *testing.T) {
	f := newLedgerFixture(t)
	e := newDraft(t, "USD")
	mustAdd(t, e,
		NewDebitLine("l1", f.cash.ID, dec("100.00")),
		NewCreditLine("l2", f.revenue.ID, dec("100.00")),
	)

	if vs := e.Validate(f.context()); len(vs) != 0 {
		t.Fatalf("expected no violations, got %v", vs)
	}
}

func TestJournalEntry_ValidateToleratesOneCent(t *testing.T) {
	f := newLedgerFixture(t)
	e := newDraft(t, "USD")
	mustAdd(t, e,
		NewDebitLine("l1", f.cash.ID, dec("100.01")),
		NewCreditLine("l2", f.revenue.ID, dec("100.00")),
	)

	if vs := e.Validate(f.context()); len(vs) != 0 {
		t.Fatalf("expected difference of 0.01 to be tolerated, got %v", vs)
	}

	mustAdd(t, e, NewDebitLine("l3", f.cash.ID, dec("0.01")))
	vs := e.Validate(f.context())
	if len(vs) != 1 || vs[0].Code != ViolationUnbalancedEntry {
		t.Fatalf("expected single unbalanced violation, got %v", vs)
	}
}

func TestJournalEntry_ValidateReportsEveryViolationInOrder(t *testing.T) {
	f := newLedgerFixture(t)
	f.revenue.Block(testNow)

	e := newDraft(t, "USD")
	mustAdd(t, e,
		NewDebitLine("l1", f.cash.ID, dec("100.005")),
		NewCreditLine("l2", f.revenue.ID, dec("-5.00")),
		NewDebitLine("l3", "ghost", dec("10.00")),
		NewDebitLine("l4", f.eurBank.ID, dec("1.00")),
	)

	vs := e.Validate(f.context())
	want := []ViolationCode{
		ViolationInvalidLineItem,  // l1 scale
		ViolationInvalidLineItem,  // l2 not positive
		ViolationInactiveAccount,  // l2 blocked
		ViolationAccountNotFound,  // l3
		ViolationCurrencyMismatch, // l4 EUR in USD entry
		ViolationUnbalancedEntry,
	}

	got := codes(vs)
	if len(got) != len(want) {
		t.Fatalf("expected %d violations, got %d: %v", len(want), len(got), vs)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("violation %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	err := &ValidationError{Violations: vs}
	for _, sentinel := range []error{ErrInvalidLineItem, ErrInactiveAccount, ErrAccountNotFound, ErrCurrencyMismatch, ErrUnbalancedEntry} {
		if !errors.Is(err, sentinel) {
			t.Errorf("expected ValidationError to match %v", sentinel)
		}
	}
	if errors.Is(err, ErrPeriodClosed) {
		t.Error("did not expect ValidationError to match ErrPeriodClosed")
	}
}

func TestJournalEntry_ValidateTooFewLines(t *testing.T) {
	f := newLedgerFixture(t)
	e := newDraft(t, "USD")
	mustAdd(t, e, NewDebitLine("l1", f.cash.ID, dec("10.00")))

	vs := e.Validate(f.context())
	if len(vs) == 0 || vs[0].Code != ViolationInsufficientLineItems {
		t.Fatalf("expected insufficient line items first, got %v", vs)
	}
}

func TestJournalEntry_ValidatePostingControls(t *testing.T) {
	f := newLedgerFixture(t)
	f.revenue.Controls.AllowManualPosting = false
	f.cash.Controls.RequireCostCenter = true

	e := newDraft(t, "USD")
	mustAdd(t, e,
		NewDebitLine("l1", f.cash.ID, dec("100.00")),
		NewCreditLine("l2", f.revenue.ID, dec("100.00")),
	)

	got := codes(e.Validate(f.context()))
	if len(got) != 2 || got[0] != ViolationInvalidLineItem || got[1] != ViolationInactiveAccount {
		t.Fatalf("expected missing cost center and manual posting violations, got %v", got)
	}
}

func TestJournalEntry_ValidateMultiCurrency(t *testing.T) {
	f := newLedgerFixture(t)

	rate, err := NewExchangeRate(ExchangeRateSpec{
		ID: "r1", From: "USD", To: "EUR", RateDate: testNow, Rate: dec("0.921900"), Source: "ECB",
	}, testNow)
	if err != nil {
		t.Fatalf("NewExchangeRate failed: %v", err)
	}

	build := func(rate *ExchangeRate) *JournalEntry {
		e, err := NewJournalEntry(JournalEntryHeader{
			ID: "je-fx", DocumentNumber: "JE-FX-1", PostingDate: testNow, FiscalYear: 2024, FiscalPeriod: 3,
			Currency: "USD", ExchangeRate: rate, CreatedBy: "alice",
		}, testNow)
		if err != nil {
			t.Fatalf("NewJournalEntry failed: %v", err)
		}
		mustAdd(t, e,
			NewDebitLine("l1", f.eurBank.ID, dec("100.00")),
			NewCreditLine("l2", f.revenue.ID, dec("100.00")),
		)
		return e
	}

	multi := ValidationContext{Accounts: f.accounts, Currency: CurrencyPolicy{MultiCurrency: true}}

	if vs := build(rate).Validate(multi); len(vs) != 0 {
		t.Fatalf("expected multi-currency entry with rate to validate, got %v", vs)
	}

	got := codes(build(nil).Validate(multi))
	if len(got) != 1 || got[0] != ViolationMissingOrImpreciseExchangeRate {
		t.Fatalf("expected missing rate violation, got %v", got)
	}

	got = codes(build(rate).Validate(f.context()))
	if len(got) != 1 || got[0] != ViolationCurrencyMismatch {
		t.Fatalf("expected currency mismatch outside multi-currency mode, got %v", got)
	}

	imprecise := RehydrateExchangeRate(ExchangeRateSpec{ID: "r2", From: "USD", To: "EUR", RateDate: testNow, Rate: dec("0.92")}, testNow)
	if vs := build(imprecise).Validate(multi); len(vs) != 0 {
		t.Fatalf("expected rehydrated rate to be rescaled to 6 digits, got %v", vs)
	}
}

func TestJournalEntry_PostAndImmutability(t *testing.T) {
	f := newLedgerFixture(t)
	e := newDraft(t, "USD")
	mustAdd(t, e,
		NewDebitLine("l1", f.cash.ID, dec("100.00")),
		NewCreditLine("l2", f.revenue.ID, dec("100.00")),
	)

	postedAt := testNow.Add(time.Hour)
	if err := e.Post("bob", postedAt, f.context()); err != nil {
		t.Fatalf("Post failed: %v", err)
	}

	if e.Status() != EntryStatusPosted || e.PostedBy() != "bob" || !e.PostedAt().Equal(postedAt) {
		t.Fatalf("unexpected posted state: %s by %s at %v", e.Status(), e.PostedBy(), e.PostedAt())
	}

	if err := e.AddLineItem(NewDebitLine("l3", f.cash.ID, dec("1.00")), testNow); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected posted entry to reject new lines, got %v", err)
	}
	if err := e.RemoveLineItem("l1", testNow); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected posted entry to reject removals, got %v", err)
	}
	if err := e.Post("bob", postedAt, f.context()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected second post to fail, got %v", err)
	}
	if e.LineCount() != 2 || !e.TotalDebit().Equal(dec("100")) {
		t.Fatal("posted entry changed")
	}
}

func TestJournalEntry_PostRejectsInvalid(t *testing.T) {
	f := newLedgerFixture(t)
	e := newDraft(t, "USD")
	mustAdd(t, e, NewDebitLine("l1", f.cash.ID, dec("100.00")))

	err := e.Post("bob", testNow, f.context())

	var verr *ValidationError
	if !errors.As(err, &verr) || !verr.Has(ViolationInsufficientLineItems) {
		t.Fatalf("expected ValidationError with insufficient lines, got %v", err)
	}
	if e.Status() != EntryStatusDraft {
		t.Fatalf("expected entry to stay DRAFT, got %s", e.Status())
	}

	if err := e.Post("", testNow, f.context()); !errors.Is(err, ErrMissingActor) {
		t.Fatalf("expected ErrMissingActor, got %v", err)
	}
}

func TestJournalEntry_Reverse(t *testing.T) {
	f := newLedgerFixture(t)
	e := newDraft(t, "USD")
	mustAdd(t, e,
		NewDebitLine("l1", f.cash.ID, dec("100.00")).WithAllocation(Allocation{CostCenter: "CC1"}),
		NewCreditLine("l2", f.revenue.ID, dec("100.00")),
	)

	spec := ReversalSpec{
		ID: "je-2", DocumentNumber: "JE-2024-0002", Actor: "carol",
		ReversalDate: testNow.AddDate(0, 0, 1), FiscalYear: 2024, FiscalPeriod: 3,
		NewLineID: lineIDs(), At: testNow,
	}

	if _, err := e.Reverse(spec); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected draft reversal to fail, got %v", err)
	}

	if err := e.Post("bob", testNow, f.context()); err != nil {
		t.Fatalf("Post failed: %v", err)
	}

	rev, err := e.Reverse(spec)
	if err != nil {
		t.Fatalf("Reverse failed: %v", err)
	}

	if e.Status() != EntryStatusReversed || e.ReversedByEntryID() != rev.ID() {
		t.Fatalf("expected original REVERSED and linked, got %s -> %q", e.Status(), e.ReversedByEntryID())
	}
	if rev.Status() != EntryStatusPosted || rev.ReversesEntryID() != e.ID() || rev.PostedBy() != "carol" {
		t.Fatalf("unexpected reversal state %s, back-link %q, actor %q", rev.Status(), rev.ReversesEntryID(), rev.PostedBy())
	}
	if rev.Description() != "Reversal of JE-2024-0001" || rev.Currency() != "USD" {
		t.Fatalf("unexpected reversal header %q %s", rev.Description(), rev.Currency())
	}

	orig, mirrored := e.Lines(), rev.Lines()
	if len(orig) != len(mirrored) {
		t.Fatalf("expected %d reversal lines, got %d", len(orig), len(mirrored))
	}
	for i := range orig {
		if mirrored[i].AccountID() != orig[i].AccountID() ||
			!mirrored[i].Debit().Equal(orig[i].Credit()) ||
			!mirrored[i].Credit().Equal(orig[i].Debit()) ||
			mirrored[i].Allocation() != orig[i].Allocation() {
			t.Errorf("line %d not mirrored: %+v vs %+v", i, mirrored[i], orig[i])
		}
	}

	if !rev.TotalDebit().Equal(e.TotalCredit()) || !rev.TotalCredit().Equal(e.TotalDebit()) {
		t.Fatal("expected reversal totals to be swapped")
	}

	if !e.TotalDebit().Equal(dec("100")) || e.LineCount() != 2 {
		t.Fatal("reversal mutated the original's values")
	}

	if _, err := e.Reverse(spec); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected second reversal to fail, got %v", err)
	}

	spec.ID, spec.DocumentNumber = "je-3", "JE-2024-0003"
	if _, err := rev.Reverse(spec); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected reversal of a reversal to fail, got %v", err)
	}
}

func TestJournalEntry_ReversalRestoresBalances(t *testing.T) {
	f := newLedgerFixture(t)
	e := newDraft(t, "USD")
	mustAdd(t, e,
		NewDebitLine("l1", f.cash.ID, dec("100.00")),
		NewCreditLine("l2", f.revenue.ID, dec("100.00")),
	)
	if err := e.Post("bob", testNow, f.context()); err != nil {
		t.Fatalf("Post failed: %v", err)
	}

	rev, err := e.Reverse(ReversalSpec{
		ID: "je-2", DocumentNumber: "JE-2024-0002", Actor: "bob", ReversalDate: testNow,
		FiscalYear: 2024, FiscalPeriod: 3, NewLineID: lineIDs(), At: testNow,
	})
	if err != nil {
		t.Fatalf("Reverse failed: %v", err)
	}

	balances := map[string]*AccountBalance{}
	apply := func(entry *JournalEntry) {
		for _, l := range entry.Lines() {
			b, ok := balances[l.AccountID()]
			if !ok {
				b = NewAccountBalance(BalanceKey{AccountID: l.AccountID(), FiscalYear: 2024, FiscalPeriod: 3}, f.accounts[l.AccountID()], testNow)
				balances[l.AccountID()] = b
			}
			if err := b.ApplyPosting(l.Side(), l.Amount(), HalfUp, testNow); err != nil {
				t.Fatalf("ApplyPosting failed: %v", err)
			}
		}
	}

	apply(e)
	if !balances[f.cash.ID].Closing().Equal(dec("100")) || !balances[f.revenue.ID].Closing().Equal(dec("100")) {
		t.Fatalf("expected both closings at 100, got %s/%s", balances[f.cash.ID].Closing(), balances[f.revenue.ID].Closing())
	}

	apply(rev)
	for id, b := range balances {
		if !b.Closing().IsZero() {
			t.Errorf("%s: expected closing back to zero, got %s", id, b.Closing())
		}
	}
}

func TestJournalEntry_SnapshotRoundTrip(t *testing.T) {
	f := newLedgerFixture(t)
	e := newDraft(t, "USD")
	mustAdd(t, e,
		NewDebitLine("l1", f.cash.ID, dec("12.34")).WithDescription("till"),
		NewCreditLine("l2", f.revenue.ID, dec("12.34")),
	)

	snap := e.Snapshot()
	snap.Version = VersionOf(7)
	snap.TotalDebit = decimal.NewFromInt(999)

	back := RehydrateJournalEntry(snap)
	if back.Version().Int64() != 7 {
		t.Fatalf("expected version 7, got %s", back.Version())
	}
	if !back.TotalDebit().Equal(dec("12.34")) {
		t.Fatalf("expected totals recomputed from lines, got %s", back.TotalDebit())
	}
	if back.Lines()[0].Description() != "till" {
		t.Fatal("line description lost")
	}
}

func TestNewJournalEntry_Rejects(t *testing.T) {
	base := JournalEntryHeader{
		ID: "je", DocumentNumber: "JE-1", PostingDate: testNow, FiscalYear: 2024, FiscalPeriod: 3,
		Currency: "USD", CreatedBy: "alice",
	}

	tests := []struct {
		name    string
		mutate  func(h *JournalEntryHeader)
		wantErr error
	}{
		{"no document number", func(h *JournalEntryHeader) { h.DocumentNumber = "" }, ErrInvalidDocument},
		{"no posting date", func(h *JournalEntryHeader) { h.PostingDate = time.Time{} }, ErrInvalidDocument},
		{"bad period", func(h *JournalEntryHeader) { h.FiscalPeriod = 0 }, ErrInvalidFiscalPeriod},
		{"bad currency", func(h *JournalEntryHeader) { h.Currency = "usd" }, ErrInvalidCurrency},
		{"no actor", func(h *JournalEntryHeader) { h.CreatedBy = "" }, ErrMissingActor},
		{"bad source", func(h *JournalEntryHeader) { h.Source = "IMPORT" }, ErrInvalidEnum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := base
			tt.mutate(&h)
			if _, err := NewJournalEntry(h, testNow); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
