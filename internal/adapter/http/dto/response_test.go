package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/usecase"
)

var testNow = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

func TestViolationsFromDomain(t *testing.T) {
	got := ViolationsFromDomain([]domain.Violation{
		{Code: domain.ViolationInsufficientLineItems, Line: domain.NoLine, Message: "need two lines"},
		{Code: domain.ViolationInactiveAccount, Line: 0, AccountID: "cash", Message: "blocked"},
	})

	if len(got) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(got))
	}
	if got[0].Line != 0 || got[0].Code != "INSUFFICIENT_LINE_ITEMS" {
		t.Errorf("entry-level violation should omit line, got %+v", got[0])
	}
	if got[1].Line != 1 || got[1].AccountID != "cash" {
		t.Errorf("line numbers should be one-based, got %+v", got[1])
	}
}

func TestJournalEntryFromDomain(t *testing.T) {
	entry, err := domain.NewJournalEntry(domain.JournalEntryHeader{
		ID:             "je-1",
		DocumentNumber: "JE-000001",
		PostingDate:    testNow,
		FiscalYear:     2024,
		FiscalPeriod:   3,
		Currency:       "USD",
		CreatedBy:      "alice",
	}, testNow)
	if err != nil {
		t.Fatalf("NewJournalEntry failed: %v", err)
	}

	amount := decimal.RequireFromString("100.00")
	if err := entry.AddLineItem(domain.NewDebitLine("l1", "cash", amount), testNow); err != nil {
		t.Fatalf("AddLineItem failed: %v", err)
	}
	credit := domain.NewCreditLine("l2", "revenue", amount).WithAllocation(domain.Allocation{Project: "P-7"})
	if err := entry.AddLineItem(credit, testNow); err != nil {
		t.Fatalf("AddLineItem failed: %v", err)
	}

	resp := JournalEntryFromDomain(entry)

	if resp.Status != "DRAFT" || resp.Source != "MANUAL" || resp.CreatedBy != "alice" {
		t.Errorf("unexpected header %+v", resp)
	}
	if !resp.TotalDebit.Equal(amount) || !resp.TotalCredit.Equal(amount) {
		t.Errorf("unexpected totals %s/%s", resp.TotalDebit, resp.TotalCredit)
	}
	if len(resp.Lines) != 2 || !resp.Lines[0].Credit.IsZero() || !resp.Lines[1].Debit.IsZero() {
		t.Fatalf("unexpected lines %+v", resp.Lines)
	}
	if resp.Lines[1].Project != "P-7" {
		t.Errorf("expected allocation tags to pass through, got %+v", resp.Lines[1])
	}
	if resp.ExchangeRate != nil || resp.PostedAt != nil {
		t.Errorf("draft without rate should omit rate and posted_at")
	}

	body, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(body), `"posting_date":"2024-03-15"`) {
		t.Errorf("posting date should render as a calendar date: %s", body)
	}
}

func TestBalanceFromDomain(t *testing.T) {
	account, err := domain.NewGLAccount(domain.GLAccountSpec{
		ID: "revenue", ChartID: "chart", Number: "4000", Name: "Revenue",
		Type: domain.AccountTypeRevenue, Currency: "USD", Controls: domain.DefaultPostingControls(),
	}, testNow)
	if err != nil {
		t.Fatalf("NewGLAccount failed: %v", err)
	}

	balance := domain.NewAccountBalance(domain.BalanceKey{AccountID: "revenue", FiscalYear: 2024, FiscalPeriod: 3}, account, testNow)
	if err := balance.ApplyPosting(domain.SideCredit, decimal.RequireFromString("250.00"), domain.HalfUp, testNow); err != nil {
		t.Fatalf("ApplyPosting failed: %v", err)
	}

	resp := BalanceFromDomain(balance)

	if resp.AccountID != "revenue" || resp.FiscalPeriod != 3 || resp.NormalBalance != "CREDIT" {
		t.Errorf("unexpected balance response %+v", resp)
	}
	if !resp.Closing.Equal(decimal.RequireFromString("250")) || !resp.CreditTotal.Equal(decimal.RequireFromString("250")) {
		t.Errorf("unexpected totals %+v", resp)
	}
}

func TestConversionFromUseCase(t *testing.T) {
	rate, err := domain.NewExchangeRate(domain.ExchangeRateSpec{
		ID: "rate-1", From: "EUR", To: "USD", RateDate: testNow,
		Rate: decimal.RequireFromString("1.084700"), Source: "ECB",
	}, testNow)
	if err != nil {
		t.Fatalf("NewExchangeRate failed: %v", err)
	}

	source, _ := domain.MoneyFromString("1000000.00", "EUR")
	converted, err := rate.Convert(source, domain.HalfUp)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	resp := ConversionFromUseCase(&usecase.Conversion{Source: source, Converted: converted, Rate: rate})

	if resp.From != "EUR" || resp.To != "USD" || resp.ExchangeRateID != "rate-1" {
		t.Errorf("unexpected conversion %+v", resp)
	}
	if resp.Converted.StringFixed(2) != "1084700.00" {
		t.Errorf("expected 1084700.00, got %s", resp.Converted.StringFixed(2))
	}

	same := ConversionFromUseCase(&usecase.Conversion{Source: source, Converted: source})
	if !same.Rate.Equal(decimal.NewFromInt(1)) || same.ExchangeRateID != "" {
		t.Errorf("same-currency conversion should report rate 1, got %+v", same)
	}
}
