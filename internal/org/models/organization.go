package models

import (
	"strings"
	"time"

	"coldchain/contracts/session"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
)

type OrganizationStatus string

const (
	OrganizationActive   OrganizationStatus = "active"
	OrganizationInactive OrganizationStatus = "inactive"
)

type Organization struct {
	ID        id.OrganizationID
	Name      string
	Status    OrganizationStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewOrganization(orgID id.OrganizationID, name string, now time.Time) (*Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "organization name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "organization name must be 128 characters or less")
	}
	return &Organization{
		ID:        orgID,
		Name:      name,
		Status:    OrganizationActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (o *Organization) IsActive() bool {
	return o.Status == OrganizationActive
}

// Deactivate transitions the organization to inactive status.
func (o *Organization) Deactivate(now time.Time) error {
	if !o.IsActive() {
		return dErrors.New(dErrors.CodeInvariantViolation, "organization is already inactive")
	}
	o.Status = OrganizationInactive
	o.UpdatedAt = now
	return nil
}

func (o *Organization) ToContract() *session.Organization {
	return &session.Organization{ID: o.ID, Name: o.Name, Status: string(o.Status)}
}
