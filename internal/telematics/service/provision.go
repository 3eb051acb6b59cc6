package service

import (
	"context"
	"strings"

	"coldchain/internal/platform/tracer"
	"coldchain/internal/telematics/models"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/audit"
)

// ProvisionDevice registers a device at the vendor and binds it to a reefer
// unit. The reefer is checked first so no vendor device is created for an
// unknown unit. If binding fails after the vendor accepted the device, the
// vendor ID is logged for manual cleanup.
func (s *Service) ProvisionDevice(ctx context.Context, cmd models.ProvisionCommand) (_ *models.Provisioned, err error) {
	cmd.Ident = strings.TrimSpace(cmd.Ident)
	cmd.Name = strings.TrimSpace(cmd.Name)
	if cmd.Ident == "" || cmd.DeviceTypeID <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "ident and device_type_id are required")
	}

	ctx, span := s.tracer.Start(ctx, tracer.SpanTelematicsProvision,
		tracer.String(tracer.AttrOrganizationID, cmd.OrganizationID.String()),
		tracer.String(tracer.AttrDeviceIdent, tracer.HashIdentifier(cmd.Ident)),
	)
	defer func() { span.End(err) }()

	reefer, err := s.reefers.GetReefer(ctx, cmd.OrganizationID, cmd.ReeferID)
	if err != nil {
		return nil, err
	}
	if reefer.FlespiDeviceID != 0 {
		return nil, dErrors.New(dErrors.CodeConflict, "reefer unit already has a telemetry device")
	}
	if cmd.Name == "" {
		cmd.Name = reefer.SerialNumber
	}

	device, err := s.vendor.CreateDevice(ctx, models.DeviceSpec{
		Name:         cmd.Name,
		Ident:        cmd.Ident,
		DeviceTypeID: cmd.DeviceTypeID,
	})
	if err != nil {
		return nil, wrapVendorErr(err, "failed to create device")
	}

	if _, err := s.reefers.BindReeferDevice(ctx, cmd.OrganizationID, cmd.ReeferID, cmd.Ident, device.ID); err != nil {
		s.logger.ErrorContext(ctx, "vendor device created but not bound",
			"error", err,
			"organization_id", cmd.OrganizationID.String(),
			"reefer_id", cmd.ReeferID.String(),
			"flespi_device_id", device.ID,
		)
		return nil, err
	}

	s.metrics.IncrementDevicesProvisioned()
	s.audit.Log(ctx, audit.EventDeviceProvisioned,
		"organization_id", cmd.OrganizationID.String(),
		"subject", cmd.ReeferID.String(),
		"flespi_device_id", device.ID,
	)
	return &models.Provisioned{ReeferID: cmd.ReeferID, Device: *device}, nil
}
