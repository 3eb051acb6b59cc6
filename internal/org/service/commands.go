package service

import (
	"strings"

	"coldchain/contracts/session"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
)

type CreateOrganizationCommand struct {
	Name    string
	OwnerID id.UserID
}

func (c *CreateOrganizationCommand) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if c.OwnerID.IsNil() {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return nil
}

type InviteCommand struct {
	OrganizationID id.OrganizationID
	Email          string
	Role           session.Role
	InvitedBy      id.UserID
}

func (c *InviteCommand) Validate() error {
	if err := requireOrganizationID(c.OrganizationID); err != nil {
		return err
	}
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if c.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if c.Role == "" {
		c.Role = session.RoleViewer
	}
	return nil
}
