package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "coldchain/pkg/domain-errors"
)

type vehicleInput struct {
	Plate       string `json:"plate" validate:"required,plate"`
	VehicleType string `validate:"required,oneof=tractor straight_truck van reefer_van"`
	Email       string `json:"contact_email,omitempty" validate:"omitempty,email"`
	DisplayName string `validate:"omitempty,notblank"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      vehicleInput
		wantMsg string
	}{
		{"valid", vehicleInput{Plate: "TX-4821", VehicleType: "tractor"}, ""},
		{"missing plate", vehicleInput{VehicleType: "van"}, "plate is required"},
		{"lowercase plate", vehicleInput{Plate: "tx-4821", VehicleType: "van"}, "plate must be 2-15 uppercase letters, digits, spaces or dashes"},
		{"unknown type", vehicleInput{Plate: "AB12", VehicleType: "bike"}, "vehicle_type must be one of [tractor straight_truck van reefer_van]"},
		{"bad email", vehicleInput{Plate: "AB12", VehicleType: "van", Email: "nope"}, "contact_email must be a valid email"},
		{"blank name", vehicleInput{Plate: "AB12", VehicleType: "van", DisplayName: "   "}, "display_name must not be blank"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.in)
			if tc.wantMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	err := Validate(vehicleInput{Plate: "x", VehicleType: "bike"})
	require.Error(t, err)
	assert.Equal(t,
		"plate must be 2-15 uppercase letters, digits, spaces or dashes; vehicle_type must be one of [tractor straight_truck van reefer_van]",
		err.Error())
}
