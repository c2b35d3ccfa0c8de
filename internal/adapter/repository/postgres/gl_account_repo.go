package postgres

import (
	"context"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/infrastructure/postgres/generated"
	"github.com/iho/glcore/internal/usecase"
)

// GLAccountRepository implements usecase.GLAccountRepository.
type GLAccountRepository struct {
	queries *generated.Queries
}

// NewGLAccountRepository creates a new GLAccountRepository.
func NewGLAccountRepository(db DB) *GLAccountRepository {
	return &GLAccountRepository{queries: generated.New(db)}
}

func (r *GLAccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.GLAccount) error {
	q, err := queriesFor(tx)
	if err != nil {
		return err
	}

	err = q.CreateGLAccount(ctx, generated.CreateGLAccountParams{
		ID:                 account.ID,
		ChartID:            account.ChartID,
		Number:             account.Number,
		Name:               account.Name,
		Type:               string(account.Type),
		Class:              string(account.Class),
		Statement:          string(account.Statement),
		NormalBalance:      string(account.NormalBalance),
		Currency:           account.Currency,
		AllowPosting:       account.Controls.AllowPosting,
		AllowManualPosting: account.Controls.AllowManualPosting,
		RequireCostCenter:  account.Controls.RequireCostCenter,
		RequireProject:     account.Controls.RequireProject,
		RequirePartner:     account.Controls.RequirePartner,
		ParentID:           optTextPtr(account.ParentID),
		Status:             string(account.Status),
		Version:            1,
		CreatedAt:          timestamptz(account.CreatedAt),
		UpdatedAt:          timestamptz(account.UpdatedAt),
	})
	if err != nil {
		return mapError(err)
	}

	account.Version = domain.VersionOf(1)

	return nil
}

// Update writes the mutable fields: name, posting controls and status.
func (r *GLAccountRepository) Update(ctx context.Context, tx usecase.Transaction, account *domain.GLAccount) error {
	q, err := queriesFor(tx)
	if err != nil {
		return err
	}

	rows, err := q.UpdateGLAccount(ctx, generated.UpdateGLAccountParams{
		ID:                 account.ID,
		Version:            account.Version.Int64(),
		Name:               account.Name,
		AllowPosting:       account.Controls.AllowPosting,
		AllowManualPosting: account.Controls.AllowManualPosting,
		RequireCostCenter:  account.Controls.RequireCostCenter,
		RequireProject:     account.Controls.RequireProject,
		RequirePartner:     account.Controls.RequirePartner,
		Status:             string(account.Status),
		UpdatedAt:          timestamptz(account.UpdatedAt),
	})
	if err != nil {
		return mapError(err)
	}

	if rows == 0 {
		return versionConflict("gl account", account.ID, account.Version)
	}

	account.Version = account.Version.Next()

	return nil
}

func (r *GLAccountRepository) GetByID(ctx context.Context, id string) (*domain.GLAccount, error) {
	row, err := r.queries.GetGLAccountByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrAccountNotFound)
	}

	return glAccountFromRow(row), nil
}

// GetByIDs returns the accounts that exist; missing ids are skipped.
func (r *GLAccountRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.GLAccount, error) {
	if len(ids) == 0 {
		return []*domain.GLAccount{}, nil
	}

	rows, err := r.queries.GetGLAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	return glAccountsFromRows(rows), nil
}

func (r *GLAccountRepository) GetByNumber(ctx context.Context, chartID, number string) (*domain.GLAccount, error) {
	row, err := r.queries.GetGLAccountByNumber(ctx, generated.GetGLAccountByNumberParams{
		ChartID: chartID,
		Number:  number,
	})
	if err != nil {
		return nil, notFound(err, domain.ErrAccountNotFound)
	}

	return glAccountFromRow(row), nil
}

func (r *GLAccountRepository) ListByChart(ctx context.Context, chartID string, limit, offset int) ([]*domain.GLAccount, error) {
	pageLimit, pageOffset := pageArgs(limit, offset)

	rows, err := r.queries.ListGLAccountsByChart(ctx, generated.ListGLAccountsByChartParams{
		ChartID: chartID,
		Limit:   pageLimit,
		Offset:  pageOffset,
	})
	if err != nil {
		return nil, err
	}

	return glAccountsFromRows(rows), nil
}

func glAccountsFromRows(rows []generated.GlAccount) []*domain.GLAccount {
	accounts := make([]*domain.GLAccount, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, glAccountFromRow(row))
	}

	return accounts
}

func glAccountFromRow(row generated.GlAccount) *domain.GLAccount {
	return &domain.GLAccount{
		ID:            row.ID,
		ChartID:       row.ChartID,
		Number:        row.Number,
		Name:          row.Name,
		Type:          domain.AccountType(row.Type),
		Class:         domain.AccountClass(row.Class),
		Statement:     domain.StatementType(row.Statement),
		NormalBalance: domain.NormalBalance(row.NormalBalance),
		Currency:      row.Currency,
		Controls: domain.PostingControls{
			AllowPosting:       row.AllowPosting,
			AllowManualPosting: row.AllowManualPosting,
			RequireCostCenter:  row.RequireCostCenter,
			RequireProject:     row.RequireProject,
			RequirePartner:     row.RequirePartner,
		},
		ParentID:  fromOptTextPtr(row.ParentID),
		Status:    domain.AccountStatus(row.Status),
		Version:   domain.VersionOf(row.Version),
		CreatedAt: row.CreatedAt.Time.UTC(),
		UpdatedAt: row.UpdatedAt.Time.UTC(),
	}
}
