package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/iho/glcore/internal/adapter/http/dto"
	"github.com/iho/glcore/internal/domain"
)

// AuditService reads the audit trail.
type AuditService interface {
	ListAuditLogs(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// AuditHandler serves the audit trail.
type AuditHandler struct {
	auditUC AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditUC AuditService) *AuditHandler {
	return &AuditHandler{auditUC: auditUC}
}

// List filters audit rows by actor, action, resource and time window.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.AuditFilter{
		ActorID:      q.Get("actor_id"),
		Action:       domain.AuditAction(q.Get("action")),
		ResourceType: q.Get("resource_type"),
		ResourceID:   q.Get("resource_id"),
		Limit:        parseIntQuery(r, "limit", 50),
		Offset:       parseIntQuery(r, "offset", 0),
	}

	for key, dst := range map[string]**time.Time{"from": &filter.StartDate, "to": &filter.EndDate} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		t, err := dto.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid "+key, err.Error())
			return
		}
		*dst = &t
	}

	logs, err := h.auditUC.ListAuditLogs(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, "failed to list audit logs", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.AuditLogResponse]{
		Items:  dto.AuditLogsFromDomain(logs),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}
