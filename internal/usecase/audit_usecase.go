package usecase

import (
	"context"

	"github.com/iho/glcore/internal/domain"
)

// AuditUseCase reads the audit trail.
type AuditUseCase struct {
	auditRepo AuditRepository
}

func NewAuditUseCase(auditRepo AuditRepository) *AuditUseCase {
	return &AuditUseCase{auditRepo: auditRepo}
}

// ListAuditLogs returns matching rows, newest first.
func (uc *AuditUseCase) ListAuditLogs(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	filter.Limit, filter.Offset = normalizePage(filter.Limit, filter.Offset)

	return uc.auditRepo.List(ctx, filter)
}
