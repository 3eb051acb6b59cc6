package handler

import (
	"strings"

	"coldchain/contracts/session"
	"coldchain/internal/org/service"
	id "coldchain/pkg/domain"
	strutil "coldchain/pkg/string"
	"coldchain/pkg/validation"
)

type SwitchOrganizationRequest struct {
	OrganizationID id.OrganizationID `json:"organization_id" validate:"required"`
}

func (r *SwitchOrganizationRequest) Normalize() {}

func (r *SwitchOrganizationRequest) Validate() error {
	return validation.Validate(r)
}

type CreateOrganizationRequest struct {
	Name string `json:"name" validate:"required,notblank,max=128"`
}

func (r *CreateOrganizationRequest) Normalize() {
	strutil.TrimStrings(&r.Name)
}

func (r *CreateOrganizationRequest) Validate() error {
	return validation.Validate(r)
}

type InviteRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
	Role  string `json:"role" validate:"omitempty,oneof=admin dispatcher viewer"`
}

func (r *InviteRequest) Normalize() {
	r.Email = strutil.NormalizeEmail(r.Email)
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
}

func (r *InviteRequest) Validate() error {
	return validation.Validate(r)
}

func (r *InviteRequest) ToCommand(orgID id.OrganizationID, invitedBy id.UserID) service.InviteCommand {
	return service.InviteCommand{
		OrganizationID: orgID,
		Email:          r.Email,
		Role:           session.Role(r.Role),
		InvitedBy:      invitedBy,
	}
}
