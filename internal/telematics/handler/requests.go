package handler

import (
	"coldchain/internal/telematics/models"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	strutil "coldchain/pkg/string"
	"coldchain/pkg/validation"
)

type ProvisionDeviceRequest struct {
	ReeferID     string `json:"reefer_id" validate:"required,uuid"`
	Ident        string `json:"ident" validate:"required,notblank,max=64"`
	DeviceTypeID int64  `json:"device_type_id" validate:"required,gt=0"`
	Name         string `json:"name" validate:"max=128"`
}

func (r *ProvisionDeviceRequest) Normalize() {
	strutil.TrimStrings(&r.ReeferID, &r.Ident, &r.Name)
}

func (r *ProvisionDeviceRequest) Validate() error {
	return validation.Validate(r)
}

func (r *ProvisionDeviceRequest) ToCommand(orgID id.OrganizationID) (models.ProvisionCommand, error) {
	reeferID, err := id.ParseReeferID(r.ReeferID)
	if err != nil {
		return models.ProvisionCommand{}, dErrors.New(dErrors.CodeBadRequest, "invalid reefer_id")
	}
	return models.ProvisionCommand{
		OrganizationID: orgID,
		ReeferID:       reeferID,
		Ident:          r.Ident,
		DeviceTypeID:   r.DeviceTypeID,
		Name:           r.Name,
	}, nil
}
