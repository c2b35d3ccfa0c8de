package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/glcore/internal/adapter/http/dto"
	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/usecase"
)

// JournalService defines the behavior needed by EntryHandler.
type JournalService interface {
	OpenJournalEntry(ctx context.Context, input usecase.OpenJournalEntryInput) (*domain.JournalEntry, error)
	AddLineItem(ctx context.Context, input usecase.AddLineItemInput) (*domain.JournalEntry, error)
	RemoveLineItem(ctx context.Context, input usecase.RemoveLineItemInput) (*domain.JournalEntry, error)
	ValidateJournalEntry(ctx context.Context, entryID string) ([]domain.Violation, error)
	PostJournalEntry(ctx context.Context, input usecase.PostJournalEntryInput) (*domain.JournalEntry, error)
	ReverseJournalEntry(ctx context.Context, input usecase.ReverseJournalEntryInput) (*domain.JournalEntry, error)
	GetJournalEntry(ctx context.Context, id string) (*domain.JournalEntry, error)
	ListJournalEntries(ctx context.Context, filter usecase.JournalEntryFilter) ([]*domain.JournalEntry, error)
}

// EntryHandler handles journal entry requests. The acting user is taken
// from the request context.
type EntryHandler struct {
	journalUC JournalService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(journalUC JournalService) *EntryHandler {
	return &EntryHandler{journalUC: journalUC}
}

// Open creates a DRAFT entry.
func (h *EntryHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenJournalEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := h.journalUC.OpenJournalEntry(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to open journal entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.JournalEntryFromDomain(entry))
}

// Get retrieves an entry with its lines.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.journalUC.GetJournalEntry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get journal entry", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.JournalEntryFromDomain(entry))
}

// List lists entries filtered by status and period.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := usecase.JournalEntryFilter{
		Status:       domain.EntryStatus(r.URL.Query().Get("status")),
		FiscalYear:   parseIntQuery(r, "year", 0),
		FiscalPeriod: parseIntQuery(r, "period", 0),
		Limit:        parseIntQuery(r, "limit", 20),
		Offset:       parseIntQuery(r, "offset", 0),
	}

	entries, err := h.journalUC.ListJournalEntries(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, "failed to list journal entries", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.JournalEntryResponse]{
		Items:  dto.JournalEntriesFromDomain(entries),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// AddLine appends a line to a draft.
func (h *EntryHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	var req dto.AddLineItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := h.journalUC.AddLineItem(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, r, "failed to add line item", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.JournalEntryFromDomain(entry))
}

// RemoveLine removes a line from a draft.
func (h *EntryHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	version, err := parseVersionQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	entry, err := h.journalUC.RemoveLineItem(r.Context(), usecase.RemoveLineItemInput{
		EntryID:         chi.URLParam(r, "id"),
		LineItemID:      chi.URLParam(r, "lineID"),
		ExpectedVersion: version,
	})
	if err != nil {
		writeDomainError(w, r, "failed to remove line item", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.JournalEntryFromDomain(entry))
}

// Validate reports every violation a post would currently hit without
// changing the entry.
func (h *EntryHandler) Validate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	violations, err := h.journalUC.ValidateJournalEntry(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, "failed to validate journal entry", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ValidationResponse{
		EntryID:    id,
		Valid:      len(violations) == 0,
		Violations: dto.ViolationsFromDomain(violations),
	})
}

// Post posts a draft and applies it to the account balances.
func (h *EntryHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req dto.PostJournalEntryRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}

	entry, err := h.journalUC.PostJournalEntry(r.Context(), usecase.PostJournalEntryInput{
		EntryID:         chi.URLParam(r, "id"),
		ExpectedVersion: dto.ExpectedVersion(req.ExpectedVersion),
	})
	if err != nil {
		writeDomainError(w, r, "failed to post journal entry", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.JournalEntryFromDomain(entry))
}

// Reverse posts the mirror image of a posted entry and returns it.
func (h *EntryHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	var req dto.ReverseJournalEntryRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}

	reversal, err := h.journalUC.ReverseJournalEntry(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, r, "failed to reverse journal entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.JournalEntryFromDomain(reversal))
}
