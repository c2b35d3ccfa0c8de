package domain

import (
	"encoding/json"
	"time"
)

// AuditLog represents an audit trail entry for compliance and debugging
type AuditLog struct {
	ID           string
	ActorID      string // Who performed the action
	Action       AuditAction
	ResourceType string // chart_of_accounts, gl_account, journal_entry, exchange_rate
	ResourceID   string
	RequestID    string // Request ID for tracing
	BeforeState  JSON   // State before the action
	AfterState   JSON   // State after the action
	Status       AuditStatus
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionChartCreate    AuditAction = "chart.create"
	AuditActionChartStatus    AuditAction = "chart.status"
	AuditActionAccountCreate  AuditAction = "gl_account.create"
	AuditActionAccountStatus  AuditAction = "gl_account.status"
	AuditActionEntryOpen      AuditAction = "journal_entry.open"
	AuditActionEntryPost      AuditAction = "journal_entry.post"
	AuditActionEntryReverse   AuditAction = "journal_entry.reverse"
	AuditActionBalanceSeed    AuditAction = "account_balance.seed"
	AuditActionExchangeRecord AuditAction = "exchange_rate.record"
	AuditActionPeriodOpen     AuditAction = "fiscal_period.open"
	AuditActionPeriodClose    AuditAction = "fiscal_period.close"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	ActorID      string
	Action       AuditAction
	ResourceType string
	ResourceID   string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}
