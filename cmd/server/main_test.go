package main

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/infrastructure/config"
	"github.com/iho/glcore/internal/infrastructure/eventpublisher"
)

func TestLedgerOptions(t *testing.T) {
	cfg := &config.Config{RoundingMode: "HALF_EVEN", MultiCurrency: true, DocumentSeries: "GL"}

	opts, err := ledgerOptions(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if opts.Rounding.Mode != domain.RoundHalfEven {
		t.Errorf("expected HALF_EVEN, got %s", opts.Rounding.Mode)
	}
	if !opts.Currency.MultiCurrency {
		t.Errorf("expected multi-currency mode")
	}
	if opts.DocumentSeries != "GL" {
		t.Errorf("expected series GL, got %s", opts.DocumentSeries)
	}
}

func TestLedgerOptionsRejectsUnknownRounding(t *testing.T) {
	if _, err := ledgerOptions(&config.Config{RoundingMode: "CEILING"}); err == nil {
		t.Fatal("expected error for unknown rounding mode")
	}
}

func TestNewSinkFallsBackToLog(t *testing.T) {
	sink := newSink(&config.Config{EventStream: "ledger-events"}, nil, zerolog.Nop())
	if _, ok := sink.(*eventpublisher.LogPublisher); !ok {
		t.Fatalf("expected log publisher without redis, got %T", sink)
	}
}

func TestOpenStorageMemory(t *testing.T) {
	cfg := &config.Config{Storage: "memory", PeriodsOpenByDefault: true}

	store, checks, cleanup, err := openStorage(t.Context(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cleanup()

	if store.redis != nil || checks != nil {
		t.Errorf("memory storage should not connect to redis or register checks")
	}
	if store.repos.Entries == nil || store.repos.Idempotency == nil {
		t.Errorf("expected memory repositories to be wired")
	}
}
