package assignment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	fleetcontract "coldchain/contracts/fleet"
	id "coldchain/pkg/domain"
)

func TestConflictMessages(t *testing.T) {
	a := id.VehicleID(uuid.New())
	b := id.VehicleID(uuid.New())
	on := func(v id.VehicleID, plate, msg string) fleetcontract.ReassignmentInfo {
		return fleetcontract.ReassignmentInfo{HasConflict: true, CurrentVehicleID: &v, CurrentVehiclePlate: plate, Message: msg}
	}

	tests := []struct {
		name   string
		result *fleetcontract.ValidationResult
		want   []string
	}{
		{
			name:   "none",
			result: &fleetcontract.ValidationResult{},
			want:   nil,
		},
		{
			name: "driver only",
			result: &fleetcontract.ValidationResult{
				Driver: on(a, "A", "Driver is currently assigned to vehicle A."),
			},
			want: []string{"Driver is currently assigned to vehicle A."},
		},
		{
			name: "driver and trailer from the same vehicle",
			result: &fleetcontract.ValidationResult{
				Driver:  on(a, "A", "Driver is currently assigned to vehicle A."),
				Trailer: on(a, "A", "Trailer is currently assigned to vehicle A."),
			},
			want: []string{"Driver and trailer are currently assigned to vehicle A."},
		},
		{
			name: "driver and trailer from the same tractor",
			result: func() *fleetcontract.ValidationResult {
				r := &fleetcontract.ValidationResult{
					Driver:  on(a, "A", "Driver is currently assigned to vehicle A."),
					Trailer: on(a, "A", "Trailer is currently hooked to tractor A and will be dropped and re-hooked."),
				}
				r.Trailer.IsDropAndHook = true
				return r
			}(),
			want: []string{"Driver and trailer are currently assigned to tractor A; the trailer will be dropped and re-hooked."},
		},
		{
			name: "driver and trailer from different vehicles",
			result: &fleetcontract.ValidationResult{
				Driver:  on(a, "A", "Driver is currently assigned to vehicle A."),
				Trailer: on(b, "B", "Trailer is currently assigned to vehicle B."),
			},
			want: []string{"Driver is currently assigned to vehicle A.", "Trailer is currently assigned to vehicle B."},
		},
		{
			name: "vehicle busy",
			result: &fleetcontract.ValidationResult{
				Vehicle: on(b, "B", "Vehicle B already has an active assignment, which will be ended."),
			},
			want: []string{"Vehicle B already has an active assignment, which will be ended."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConflictMessages(tt.result))
		})
	}
}
