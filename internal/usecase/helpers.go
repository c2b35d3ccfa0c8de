package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/infrastructure/metrics"
)

const systemActor = "system"

func utcNow() time.Time {
	return time.Now().UTC()
}

// actorID returns the authenticated actor or "system" for internal callers.
func actorID(ctx context.Context) string {
	if actor, ok := domain.ActorFromContext(ctx); ok && actor.ID != "" {
		return actor.ID
	}

	return systemActor
}

// resolveActor prefers an explicit actor over the one on the context.
func resolveActor(ctx context.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}

	return actorID(ctx)
}

// checkVersion rejects a write built on a stale read.
func checkVersion(expected *domain.Version, actual domain.Version, resource, id string) error {
	if expected == nil || *expected == actual {
		return nil
	}

	return fmt.Errorf("%w: %s %s is at version %s, expected %s",
		domain.ErrConcurrentModification, resource, id, actual, *expected)
}

// recordConflict counts optimistic-concurrency failures per operation.
func recordConflict(m *metrics.Metrics, err error, operation string) {
	if m != nil && errors.Is(err, domain.ErrConcurrentModification) {
		m.ConcurrencyConflicts.WithLabelValues(operation).Inc()
	}
}

type auditRecord struct {
	action       domain.AuditAction
	resourceType string
	resourceID   string
	before       any
	after        any
}

// writeAudit stores an audit row in the caller's transaction. A nil
// repository disables auditing.
func writeAudit(ctx context.Context, repo AuditRepository, idGen IDGenerator, tx Transaction, rec auditRecord, now time.Time) error {
	if repo == nil {
		return nil
	}

	log := &domain.AuditLog{
		ID:           idGen.Generate(),
		ActorID:      actorID(ctx),
		Action:       rec.action,
		ResourceType: rec.resourceType,
		ResourceID:   rec.resourceID,
		RequestID:    domain.RequestIDFromContext(ctx),
		BeforeState:  domain.MarshalState(rec.before),
		AfterState:   domain.MarshalState(rec.after),
		Status:       domain.AuditStatusSuccess,
		CreatedAt:    now,
	}

	return repo.CreateTx(ctx, tx, log)
}

// writeEvent stores an outbox row in the caller's transaction. A nil
// repository disables event emission.
func writeEvent(ctx context.Context, repo OutboxRepository, idGen IDGenerator, tx Transaction, aggregateType, aggregateID, eventType string, payload map[string]any, now time.Time) error {
	if repo == nil {
		return nil
	}

	return repo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            idGen.Generate(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     now,
	})
}
