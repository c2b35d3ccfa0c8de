package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/usecase"
)

// OutboxRepository implements usecase.OutboxRepository.
type OutboxRepository struct {
	store *Store
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(s *Store) *OutboxRepository {
	return &OutboxRepository{store: s}
}

func (r *OutboxRepository) Create(_ context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}

	row := *event

	return t.stage(op{apply: func(s *Store) { s.outbox = append(s.outbox, row) }})
}

func (r *OutboxRepository) GetUnpublished(_ context.Context, limit int) ([]*domain.OutboxEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	events := make([]*domain.OutboxEvent, 0)
	for _, row := range r.store.outbox {
		if row.Published {
			continue
		}
		if limit > 0 && len(events) == limit {
			break
		}
		e := row
		events = append(events, &e)
	}

	return events, nil
}

func (r *OutboxRepository) MarkPublished(_ context.Context, id string, publishedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.outbox {
		if r.store.outbox[i].ID == id {
			at := publishedAt
			r.store.outbox[i].Published = true
			r.store.outbox[i].PublishedAt = &at
			return nil
		}
	}

	return fmt.Errorf("outbox event %s not found", id)
}

func (r *OutboxRepository) GetByAggregate(_ context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	events := make([]*domain.OutboxEvent, 0)
	for _, row := range r.store.outbox {
		if row.AggregateType == aggregateType && row.AggregateID == aggregateID {
			e := row
			events = append(events, &e)
		}
	}

	return page(events, limit, offset), nil
}

func (r *OutboxRepository) DeletePublished(_ context.Context, before time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	kept := r.store.outbox[:0]
	for _, row := range r.store.outbox {
		if row.Published && row.PublishedAt != nil && row.PublishedAt.Before(before) {
			continue
		}
		kept = append(kept, row)
	}
	r.store.outbox = kept

	return nil
}

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	store *Store
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(s *Store) *AuditRepository {
	return &AuditRepository{store: s}
}

func (r *AuditRepository) CreateTx(_ context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}

	row := *log

	return t.stage(op{apply: func(s *Store) { s.audit = append(s.audit, row) }})
}

// List returns matching audit rows, newest first.
func (r *AuditRepository) List(_ context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	logs := make([]*domain.AuditLog, 0)
	for i := len(r.store.audit) - 1; i >= 0; i-- {
		row := r.store.audit[i]
		switch {
		case filter.ActorID != "" && row.ActorID != filter.ActorID,
			filter.Action != "" && row.Action != filter.Action,
			filter.ResourceType != "" && row.ResourceType != filter.ResourceType,
			filter.ResourceID != "" && row.ResourceID != filter.ResourceID,
			filter.StartDate != nil && row.CreatedAt.Before(*filter.StartDate),
			filter.EndDate != nil && row.CreatedAt.After(*filter.EndDate):
			continue
		}
		l := row
		logs = append(logs, &l)
	}

	return page(logs, filter.Limit, filter.Offset), nil
}

// DocumentNumbers implements usecase.DocumentNumberSource with per-series counters.
type DocumentNumbers struct {
	store *Store
}

// NewDocumentNumbers creates a new DocumentNumbers.
func NewDocumentNumbers(s *Store) *DocumentNumbers {
	return &DocumentNumbers{store: s}
}

// Next returns the next number of series, formatted as SERIES-00000001.
func (d *DocumentNumbers) Next(_ context.Context, series string) (string, error) {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()

	d.store.sequences[series]++

	return fmt.Sprintf("%s-%08d", series, d.store.sequences[series]), nil
}

type periodKey struct {
	year   int
	period int
}

// FiscalCalendar implements usecase.FiscalPeriodService over an explicit
// set of periods.
type FiscalCalendar struct {
	mu            sync.RWMutex
	openByDefault bool
	periods       map[periodKey]bool
}

// NewFiscalCalendar creates a calendar. Periods never set explicitly are
// open when openByDefault is true.
func NewFiscalCalendar(openByDefault bool) *FiscalCalendar {
	return &FiscalCalendar{openByDefault: openByDefault, periods: make(map[periodKey]bool)}
}

// Open marks a period open for posting.
func (c *FiscalCalendar) Open(fiscalYear, fiscalPeriod int) *FiscalCalendar {
	c.set(fiscalYear, fiscalPeriod, true)
	return c
}

// Close marks a period closed.
func (c *FiscalCalendar) Close(fiscalYear, fiscalPeriod int) *FiscalCalendar {
	c.set(fiscalYear, fiscalPeriod, false)
	return c
}

// OpenPeriod marks a validated period open for posting.
func (c *FiscalCalendar) OpenPeriod(_ context.Context, fiscalYear, fiscalPeriod int) error {
	if err := domain.ValidateFiscalPeriod(fiscalYear, fiscalPeriod); err != nil {
		return err
	}

	c.set(fiscalYear, fiscalPeriod, true)

	return nil
}

// ClosePeriod marks a validated period closed.
func (c *FiscalCalendar) ClosePeriod(_ context.Context, fiscalYear, fiscalPeriod int) error {
	if err := domain.ValidateFiscalPeriod(fiscalYear, fiscalPeriod); err != nil {
		return err
	}

	c.set(fiscalYear, fiscalPeriod, false)

	return nil
}

func (c *FiscalCalendar) set(fiscalYear, fiscalPeriod int, open bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.periods[periodKey{fiscalYear, fiscalPeriod}] = open
}

func (c *FiscalCalendar) IsPeriodOpen(_ context.Context, fiscalYear, fiscalPeriod int) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if open, ok := c.periods[periodKey{fiscalYear, fiscalPeriod}]; ok {
		return open, nil
	}

	return c.openByDefault, nil
}
