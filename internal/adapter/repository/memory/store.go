// Package memory holds in-process implementations of the repository and
// collaborator interfaces. Writes are staged on a transaction and applied
// atomically at commit after every version check passes.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/usecase"
)

var (
	ErrTxDone    = errors.New("transaction already finished")
	ErrForeignTx = errors.New("transaction does not belong to the memory store")
)

type storedRate struct {
	spec      domain.ExchangeRateSpec
	createdAt time.Time
}

// Store is the shared state behind every memory repository.
type Store struct {
	mu        sync.RWMutex
	charts    map[string]domain.ChartOfAccounts
	accounts  map[string]domain.GLAccount
	entries   map[string]domain.JournalEntrySnapshot
	balances  map[domain.BalanceKey]domain.AccountBalanceSnapshot
	rates     map[string]storedRate
	outbox    []domain.OutboxEvent
	audit     []domain.AuditLog
	sequences map[string]int64
	users     map[string]domain.User

	hookMu   sync.RWMutex
	readHook func(resource, id string)
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		charts:    make(map[string]domain.ChartOfAccounts),
		accounts:  make(map[string]domain.GLAccount),
		entries:   make(map[string]domain.JournalEntrySnapshot),
		balances:  make(map[domain.BalanceKey]domain.AccountBalanceSnapshot),
		rates:     make(map[string]storedRate),
		sequences: make(map[string]int64),
		users:     make(map[string]domain.User),
	}
}

// OnRead installs a hook called before every single-record read, outside
// the store lock. Tests use it to hold readers at a barrier.
func (s *Store) OnRead(hook func(resource, id string)) {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	s.readHook = hook
}

func (s *Store) beforeRead(resource, id string) {
	s.hookMu.RLock()
	hook := s.readHook
	s.hookMu.RUnlock()

	if hook != nil {
		hook(resource, id)
	}
}

type op struct {
	check func(s *Store) error
	apply func(s *Store)
}

// Tx collects staged writes.
type Tx struct {
	store *Store
	mu    sync.Mutex
	ops   []op
	done  bool
}

func (t *Tx) stage(o op) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return ErrTxDone
	}

	t.ops = append(t.ops, o)

	return nil
}

// Commit runs every staged check under the store lock and applies all
// writes only if none failed.
func (t *Tx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return ErrTxDone
	}
	t.done = true

	if err := ctx.Err(); err != nil {
		return err
	}

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range t.ops {
		if o.check == nil {
			continue
		}
		if err := o.check(s); err != nil {
			return err
		}
	}

	for _, o := range t.ops {
		o.apply(s)
	}

	return nil
}

// Rollback discards staged writes. Rolling back a finished transaction is a no-op.
func (t *Tx) Rollback(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.done = true
	t.ops = nil

	return nil
}

// TxManager begins memory transactions.
type TxManager struct {
	store *Store
}

// NewTxManager creates a TxManager over s.
func NewTxManager(s *Store) *TxManager {
	return &TxManager{store: s}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Tx{store: m.store}, nil
}

func txFrom(tx usecase.Transaction) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrForeignTx, tx)
	}

	return t, nil
}

func versionConflict(resource, id string, stored, expected domain.Version) error {
	return fmt.Errorf("%w: %s %s is at version %s, write expected %s",
		domain.ErrConcurrentModification, resource, id, stored, expected)
}
