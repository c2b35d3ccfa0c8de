package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/infrastructure/postgres/generated"
	"github.com/iho/glcore/internal/usecase"
)

// JournalEntryRepository implements usecase.JournalEntryRepository.
// The exchange rate an entry was converted with is copied onto the entry
// row, so an inverse rate derived at posting time survives a reload.
type JournalEntryRepository struct {
	queries *generated.Queries
}

// NewJournalEntryRepository creates a new JournalEntryRepository.
func NewJournalEntryRepository(db DB) *JournalEntryRepository {
	return &JournalEntryRepository{queries: generated.New(db)}
}

func (r *JournalEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	q, err := queriesFor(tx)
	if err != nil {
		return err
	}

	row := entry.Snapshot()
	rate := rateColumnsOf(row.ExchangeRate)

	err = q.CreateJournalEntry(ctx, generated.CreateJournalEntryParams{
		ID:                row.ID,
		DocumentNumber:    row.DocumentNumber,
		PostingDate:       date(row.PostingDate),
		DocumentDate:      date(row.DocumentDate),
		FiscalYear:        int32(row.FiscalYear),
		FiscalPeriod:      int32(row.FiscalPeriod),
		Currency:          row.Currency,
		RateID:            rate.id,
		RateFrom:          rate.from,
		RateTo:            rate.to,
		RateDate:          rate.date,
		Rate:              rate.rate,
		RateSource:        rate.source,
		RateCreatedAt:     rate.createdAt,
		Description:       row.Description,
		Source:            string(row.Source),
		Status:            string(row.Status),
		TotalDebit:        decimalToNumeric(row.TotalDebit),
		TotalCredit:       decimalToNumeric(row.TotalCredit),
		ReversesEntryID:   optText(row.ReversesEntryID),
		ReversedByEntryID: optText(row.ReversedByEntryID),
		CreatedBy:         row.CreatedBy,
		PostedBy:          row.PostedBy,
		PostedAt:          optTimestamptz(row.PostedAt),
		Version:           1,
		CreatedAt:         timestamptz(row.CreatedAt),
		UpdatedAt:         timestamptz(row.UpdatedAt),
	})
	if err != nil {
		return mapError(err)
	}

	if err := insertLines(ctx, q, row.ID, row.Lines); err != nil {
		return err
	}

	row.Version = domain.VersionOf(1)
	*entry = *domain.RehydrateJournalEntry(row)

	return nil
}

// Save updates the header under a version check and replaces the lines.
func (r *JournalEntryRepository) Save(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	q, err := queriesFor(tx)
	if err != nil {
		return err
	}

	row := entry.Snapshot()
	rate := rateColumnsOf(row.ExchangeRate)

	affected, err := q.UpdateJournalEntry(ctx, generated.UpdateJournalEntryParams{
		ID:                row.ID,
		Version:           row.Version.Int64(),
		RateID:            rate.id,
		RateFrom:          rate.from,
		RateTo:            rate.to,
		RateDate:          rate.date,
		Rate:              rate.rate,
		RateSource:        rate.source,
		RateCreatedAt:     rate.createdAt,
		Description:       row.Description,
		Status:            string(row.Status),
		TotalDebit:        decimalToNumeric(row.TotalDebit),
		TotalCredit:       decimalToNumeric(row.TotalCredit),
		ReversedByEntryID: optText(row.ReversedByEntryID),
		PostedBy:          row.PostedBy,
		PostedAt:          optTimestamptz(row.PostedAt),
		UpdatedAt:         timestamptz(row.UpdatedAt),
	})
	if err != nil {
		return mapError(err)
	}

	if affected == 0 {
		return versionConflict("journal entry", row.ID, row.Version)
	}

	if err := q.DeleteJournalEntryLines(ctx, row.ID); err != nil {
		return err
	}

	if err := insertLines(ctx, q, row.ID, row.Lines); err != nil {
		return err
	}

	row.Version = row.Version.Next()
	*entry = *domain.RehydrateJournalEntry(row)

	return nil
}

func (r *JournalEntryRepository) GetByID(ctx context.Context, id string) (*domain.JournalEntry, error) {
	header, err := r.queries.GetJournalEntryByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrJournalEntryNotFound)
	}

	entries, err := r.withLines(ctx, []generated.JournalEntry{header})
	if err != nil {
		return nil, err
	}

	return entries[0], nil
}

// List returns entries newest posting date first, then by document number.
func (r *JournalEntryRepository) List(ctx context.Context, filter usecase.JournalEntryFilter) ([]*domain.JournalEntry, error) {
	pageLimit, pageOffset := pageArgs(filter.Limit, filter.Offset)

	headers, err := r.queries.ListJournalEntries(ctx, generated.ListJournalEntriesParams{
		Status:       string(filter.Status),
		FiscalYear:   int32(filter.FiscalYear),
		FiscalPeriod: int32(filter.FiscalPeriod),
		PageLimit:    pageLimit,
		PageOffset:   pageOffset,
	})
	if err != nil {
		return nil, err
	}

	if len(headers) == 0 {
		return []*domain.JournalEntry{}, nil
	}

	return r.withLines(ctx, headers)
}

// withLines loads the lines of all headers in one query.
func (r *JournalEntryRepository) withLines(ctx context.Context, headers []generated.JournalEntry) ([]*domain.JournalEntry, error) {
	ids := make([]string, 0, len(headers))
	for _, h := range headers {
		ids = append(ids, h.ID)
	}

	lines, err := r.queries.GetJournalEntryLines(ctx, ids)
	if err != nil {
		return nil, err
	}

	byEntry := make(map[string][]domain.LineItemSnapshot, len(headers))
	for _, l := range lines {
		byEntry[l.EntryID] = append(byEntry[l.EntryID], domain.LineItemSnapshot{
			ID:          l.ID,
			AccountID:   l.AccountID,
			Side:        domain.Side(l.Side),
			Amount:      numericToDecimal(l.Amount),
			Description: l.Description,
			Allocation: domain.Allocation{
				CostCenter:   l.CostCenter,
				Project:      l.Project,
				BusinessArea: l.BusinessArea,
				Partner:      l.Partner,
			},
		})
	}

	entries := make([]*domain.JournalEntry, 0, len(headers))
	for _, h := range headers {
		entries = append(entries, domain.RehydrateJournalEntry(entrySnapshotFromRow(h, byEntry[h.ID])))
	}

	return entries, nil
}

func insertLines(ctx context.Context, q *generated.Queries, entryID string, lines []domain.LineItemSnapshot) error {
	for i, l := range lines {
		err := q.InsertJournalEntryLine(ctx, generated.InsertJournalEntryLineParams{
			ID:           l.ID,
			EntryID:      entryID,
			LineNo:       int32(i + 1),
			AccountID:    l.AccountID,
			Side:         string(l.Side),
			Amount:       decimalToNumeric(l.Amount),
			Description:  l.Description,
			CostCenter:   l.Allocation.CostCenter,
			Project:      l.Allocation.Project,
			BusinessArea: l.Allocation.BusinessArea,
			Partner:      l.Allocation.Partner,
		})
		if err != nil {
			return mapError(err)
		}
	}

	return nil
}

type rateColumns struct {
	id        pgtype.Text
	from      pgtype.Text
	to        pgtype.Text
	date      pgtype.Date
	rate      pgtype.Numeric
	source    pgtype.Text
	createdAt pgtype.Timestamptz
}

func rateColumnsOf(rate *domain.ExchangeRate) rateColumns {
	if rate == nil {
		return rateColumns{}
	}

	return rateColumns{
		id:        optText(rate.ID()),
		from:      optText(rate.From()),
		to:        optText(rate.To()),
		date:      date(rate.RateDate()),
		rate:      decimalToNumeric(rate.Rate()),
		source:    pgtype.Text{String: rate.Source(), Valid: true},
		createdAt: timestamptz(rate.CreatedAt()),
	}
}

func entrySnapshotFromRow(h generated.JournalEntry, lines []domain.LineItemSnapshot) domain.JournalEntrySnapshot {
	var rate *domain.ExchangeRate
	if h.RateID.Valid {
		rate = domain.RehydrateExchangeRate(domain.ExchangeRateSpec{
			ID:       h.RateID.String,
			From:     h.RateFrom.String,
			To:       h.RateTo.String,
			RateDate: fromDate(h.RateDate),
			Rate:     numericToDecimal(h.Rate),
			Source:   h.RateSource.String,
		}, h.RateCreatedAt.Time.UTC())
	}

	if lines == nil {
		lines = []domain.LineItemSnapshot{}
	}

	return domain.JournalEntrySnapshot{
		ID:                h.ID,
		DocumentNumber:    h.DocumentNumber,
		PostingDate:       fromDate(h.PostingDate),
		DocumentDate:      fromDate(h.DocumentDate),
		FiscalYear:        int(h.FiscalYear),
		FiscalPeriod:      int(h.FiscalPeriod),
		Currency:          h.Currency,
		ExchangeRate:      rate,
		Description:       h.Description,
		Source:            domain.EntrySource(h.Source),
		Lines:             lines,
		Status:            domain.EntryStatus(h.Status),
		ReversesEntryID:   h.ReversesEntryID.String,
		ReversedByEntryID: h.ReversedByEntryID.String,
		CreatedBy:         h.CreatedBy,
		PostedBy:          h.PostedBy,
		PostedAt:          fromOptTimestamptz(h.PostedAt),
		CreatedAt:         h.CreatedAt.Time.UTC(),
		UpdatedAt:         h.UpdatedAt.Time.UTC(),
		Version:           domain.VersionOf(h.Version),
	}
}
