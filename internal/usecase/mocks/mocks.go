package mocks

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/usecase"
)

// MockChartRepository is a mock implementation of ChartRepository.
type MockChartRepository struct {
	mu     sync.RWMutex
	charts map[string]*domain.ChartOfAccounts

	CreateFunc  func(ctx context.Context, tx usecase.Transaction, chart *domain.ChartOfAccounts) error
	UpdateFunc  func(ctx context.Context, tx usecase.Transaction, chart *domain.ChartOfAccounts) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.ChartOfAccounts, error)
	ListFunc    func(ctx context.Context, organizationID string, limit, offset int) ([]*domain.ChartOfAccounts, error)
}

func NewMockChartRepository() *MockChartRepository {
	return &MockChartRepository{
		charts: make(map[string]*domain.ChartOfAccounts),
	}
}

func (m *MockChartRepository) Create(ctx context.Context, tx usecase.Transaction, chart *domain.ChartOfAccounts) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, chart)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	chart.Version = domain.VersionOf(1)
	stored := *chart
	m.charts[chart.ID] = &stored
	return nil
}

func (m *MockChartRepository) Update(ctx context.Context, tx usecase.Transaction, chart *domain.ChartOfAccounts) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, chart)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.charts[chart.ID]
	if !ok {
		return domain.ErrChartNotFound
	}
	if stored.Version != chart.Version {
		return domain.ErrConcurrentModification
	}
	chart.Version = chart.Version.Next()
	updated := *chart
	m.charts[chart.ID] = &updated
	return nil
}

func (m *MockChartRepository) GetByID(ctx context.Context, id string) (*domain.ChartOfAccounts, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if chart, ok := m.charts[id]; ok {
		c := *chart
		return &c, nil
	}
	return nil, domain.ErrChartNotFound
}

func (m *MockChartRepository) List(ctx context.Context, organizationID string, limit, offset int) ([]*domain.ChartOfAccounts, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, organizationID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var charts []*domain.ChartOfAccounts
	for _, chart := range m.charts {
		if chart.OrganizationID == organizationID {
			c := *chart
			charts = append(charts, &c)
		}
	}
	return charts, nil
}

// Put stores a chart directly, bypassing Create.
func (m *MockChartRepository) Put(chart *domain.ChartOfAccounts) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *chart
	m.charts[chart.ID] = &c
}

// MockGLAccountRepository is a mock implementation of GLAccountRepository.
type MockGLAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.GLAccount

	CreateFunc      func(ctx context.Context, tx usecase.Transaction, account *domain.GLAccount) error
	UpdateFunc      func(ctx context.Context, tx usecase.Transaction, account *domain.GLAccount) error
	GetByIDFunc     func(ctx context.Context, id string) (*domain.GLAccount, error)
	GetByIDsFunc    func(ctx context.Context, ids []string) ([]*domain.GLAccount, error)
	GetByNumberFunc func(ctx context.Context, chartID, number string) (*domain.GLAccount, error)
	ListByChartFunc func(ctx context.Context, chartID string, limit, offset int) ([]*domain.GLAccount, error)
}

func NewMockGLAccountRepository() *MockGLAccountRepository {
	return &MockGLAccountRepository{
		accounts: make(map[string]*domain.GLAccount),
	}
}

func (m *MockGLAccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.GLAccount) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	account.Version = domain.VersionOf(1)
	a := *account
	m.accounts[account.ID] = &a
	return nil
}

func (m *MockGLAccountRepository) Update(ctx context.Context, tx usecase.Transaction, account *domain.GLAccount) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.accounts[account.ID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if stored.Version != account.Version {
		return domain.ErrConcurrentModification
	}
	account.Version = account.Version.Next()
	a := *account
	m.accounts[account.ID] = &a
	return nil
}

func (m *MockGLAccountRepository) GetByID(ctx context.Context, id string) (*domain.GLAccount, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if account, ok := m.accounts[id]; ok {
		a := *account
		return &a, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockGLAccountRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.GLAccount, error) {
	if m.GetByIDsFunc != nil {
		return m.GetByIDsFunc(ctx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.GLAccount
	for _, id := range ids {
		if account, ok := m.accounts[id]; ok {
			a := *account
			accounts = append(accounts, &a)
		}
	}
	return accounts, nil
}

func (m *MockGLAccountRepository) GetByNumber(ctx context.Context, chartID, number string) (*domain.GLAccount, error) {
	if m.GetByNumberFunc != nil {
		return m.GetByNumberFunc(ctx, chartID, number)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, account := range m.accounts {
		if account.ChartID == chartID && account.Number == number {
			a := *account
			return &a, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockGLAccountRepository) ListByChart(ctx context.Context, chartID string, limit, offset int) ([]*domain.GLAccount, error) {
	if m.ListByChartFunc != nil {
		return m.ListByChartFunc(ctx, chartID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.GLAccount
	for _, account := range m.accounts {
		if account.ChartID == chartID {
			a := *account
			accounts = append(accounts, &a)
		}
	}
	return accounts, nil
}

// Put stores an account directly, bypassing Create.
func (m *MockGLAccountRepository) Put(account *domain.GLAccount) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := *account
	m.accounts[account.ID] = &a
}

// MockOutboxRepository records created events.
type MockOutboxRepository struct {
	mu     sync.Mutex
	Events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var events []*domain.OutboxEvent
	for _, e := range m.Events {
		if !e.Published && len(events) < limit {
			events = append(events, e)
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var events []*domain.OutboxEvent
	for _, e := range m.Events {
		if e.AggregateType == aggregateType && e.AggregateID == aggregateID {
			events = append(events, e)
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	return nil
}

// MockAuditRepository records audit rows.
type MockAuditRepository struct {
	mu   sync.Mutex
	Logs []*domain.AuditLog

	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, log)
	return nil
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.AuditLog(nil), m.Logs...), nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "mock-id-" + strconv.Itoa(m.counter)
}
