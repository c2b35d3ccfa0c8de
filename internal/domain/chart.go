package domain

import (
	"fmt"
	"time"
)

// ChartStatus is the lifecycle state of a chart of accounts.
type ChartStatus string

const (
	ChartStatusActive   ChartStatus = "ACTIVE"
	ChartStatusInactive ChartStatus = "INACTIVE"
	ChartStatusArchived ChartStatus = "ARCHIVED"
)

// ParseChartStatus parses a stored or transported status.
func ParseChartStatus(s string) (ChartStatus, error) {
	switch ChartStatus(s) {
	case ChartStatusActive:
		return ChartStatusActive, nil
	case ChartStatusInactive:
		return ChartStatusInactive, nil
	case ChartStatusArchived:
		return ChartStatusArchived, nil
	}

	return "", fmt.Errorf("%w: chart status %q", ErrInvalidEnum, s)
}

// ChartOfAccounts is the catalog of GL accounts owned by one organization.
type ChartOfAccounts struct {
	ID             string
	OrganizationID string
	Code           string
	Name           string
	Status         ChartStatus
	Version        Version // set by the persistence layer
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewChartOfAccounts creates an ACTIVE chart.
func NewChartOfAccounts(id, organizationID, code, name string, now time.Time) (*ChartOfAccounts, error) {
	if organizationID == "" {
		return nil, fmt.Errorf("%w: organization is required", ErrInvalidCode)
	}

	if err := ValidateCode(code); err != nil {
		return nil, err
	}

	if err := ValidateName(name); err != nil {
		return nil, err
	}

	return &ChartOfAccounts{
		ID:             id,
		OrganizationID: organizationID,
		Code:           code,
		Name:           name,
		Status:         ChartStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Activate reopens an inactive chart.
func (c *ChartOfAccounts) Activate(now time.Time) error {
	return c.transition(ChartStatusActive, now)
}

// Deactivate suspends a chart without archiving it.
func (c *ChartOfAccounts) Deactivate(now time.Time) error {
	return c.transition(ChartStatusInactive, now)
}

// Archive retires a chart permanently.
func (c *ChartOfAccounts) Archive(now time.Time) error {
	return c.transition(ChartStatusArchived, now)
}

// IsActive reports whether accounts may be added to the chart.
func (c *ChartOfAccounts) IsActive() bool {
	return c.Status == ChartStatusActive
}

func (c *ChartOfAccounts) transition(to ChartStatus, now time.Time) error {
	switch c.Status {
	case ChartStatusArchived:
		return fmt.Errorf("%w: chart %s is archived", ErrInvalidTransition, c.Code)
	case ChartStatusActive, ChartStatusInactive:
		if c.Status == to {
			return fmt.Errorf("%w: chart %s is already %s", ErrInvalidTransition, c.Code, to)
		}
	}

	c.Status = to
	c.UpdatedAt = now

	return nil
}
