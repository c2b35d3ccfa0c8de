package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	db DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateTx inserts an audit row in the same transaction as the change it records.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	t, ok := tx.(*Tx)
	if !ok {
		return ErrForeignTx
	}

	before, err := marshalState(log.BeforeState)
	if err != nil {
		return err
	}

	after, err := marshalState(log.AfterState)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO audit_logs (
			id, actor_id, action, resource_type, resource_id, request_id,
			before_state, after_state, status, error_message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = t.tx.Exec(ctx, query,
		log.ID,
		log.ActorID,
		string(log.Action),
		log.ResourceType,
		log.ResourceID,
		log.RequestID,
		before,
		after,
		string(log.Status),
		log.ErrorMessage,
		log.CreatedAt,
	)

	return err
}

// List retrieves audit logs with filtering, newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	var (
		where []string
		args  []any
	)

	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, clause+" $"+strconv.Itoa(len(args)))
	}

	if filter.ActorID != "" {
		add("actor_id =", filter.ActorID)
	}
	if filter.Action != "" {
		add("action =", string(filter.Action))
	}
	if filter.ResourceType != "" {
		add("resource_type =", filter.ResourceType)
	}
	if filter.ResourceID != "" {
		add("resource_id =", filter.ResourceID)
	}
	if filter.StartDate != nil {
		add("created_at >=", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("created_at <=", *filter.EndDate)
	}

	var sb strings.Builder
	sb.WriteString(`SELECT id, actor_id, action, resource_type, resource_id, request_id,
		before_state, after_state, status, error_message, created_at
		FROM audit_logs`)
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY created_at DESC, id DESC")

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		sb.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		sb.WriteString(" OFFSET $" + strconv.Itoa(len(args)))
	}

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]*domain.AuditLog, 0)
	for rows.Next() {
		var (
			log           domain.AuditLog
			action        string
			status        string
			before, after []byte
		)

		err := rows.Scan(
			&log.ID,
			&log.ActorID,
			&action,
			&log.ResourceType,
			&log.ResourceID,
			&log.RequestID,
			&before,
			&after,
			&status,
			&log.ErrorMessage,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		log.Action = domain.AuditAction(action)
		log.Status = domain.AuditStatus(status)

		if len(before) > 0 {
			if err := json.Unmarshal(before, &log.BeforeState); err != nil {
				return nil, fmt.Errorf("decode before_state of audit log %s: %w", log.ID, err)
			}
		}
		if len(after) > 0 {
			if err := json.Unmarshal(after, &log.AfterState); err != nil {
				return nil, fmt.Errorf("decode after_state of audit log %s: %w", log.ID, err)
			}
		}

		logs = append(logs, &log)
	}

	return logs, rows.Err()
}

func marshalState(state domain.JSON) ([]byte, error) {
	if state == nil {
		return nil, nil
	}

	return json.Marshal(state)
}
