package assignment

import (
	"fmt"

	fleetcontract "coldchain/contracts/fleet"
)

// ConflictMessages returns the lines shown to the dispatcher before they
// confirm a reassignment. A driver and trailer taken from the same vehicle
// are reported in one sentence.
func ConflictMessages(r *fleetcontract.ValidationResult) []string {
	if r == nil {
		return nil
	}
	var out []string
	d, t := r.Driver, r.Trailer
	if d.HasConflict && t.HasConflict && sameOrigin(d, t) {
		if t.IsDropAndHook {
			out = append(out, fmt.Sprintf("Driver and trailer are currently assigned to tractor %s; the trailer will be dropped and re-hooked.", d.CurrentVehiclePlate))
		} else {
			out = append(out, fmt.Sprintf("Driver and trailer are currently assigned to vehicle %s.", d.CurrentVehiclePlate))
		}
	} else {
		if d.HasConflict {
			out = append(out, d.Message)
		}
		if t.HasConflict {
			out = append(out, t.Message)
		}
	}
	if r.Vehicle.HasConflict {
		out = append(out, r.Vehicle.Message)
	}
	return out
}

func sameOrigin(a, b fleetcontract.ReassignmentInfo) bool {
	return a.CurrentVehicleID != nil && b.CurrentVehicleID != nil && *a.CurrentVehicleID == *b.CurrentVehicleID
}
