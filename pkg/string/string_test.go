package string

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "vehicle_type", ToSnakeCase("VehicleType"))
	assert.Equal(t, "fleet_set_id", ToSnakeCase("FleetSetID"))
	assert.Equal(t, "plate", ToSnakeCase("Plate"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "dispatch@coldchain.io", NormalizeEmail("  Dispatch@ColdChain.io "))
	assert.Equal(t, "TX 4821", NormalizePlate(" tx   4821 "))

	a, b := " x ", "y "
	TrimStrings(&a, &b)
	assert.Equal(t, "x", a)
	assert.Equal(t, "y", b)
}

func TestToSnakeCaseInitialisms(t *testing.T) {
	assert.Equal(t, "http_server", ToSnakeCase("HTTPServer"))
	assert.Equal(t, "device_type_id", ToSnakeCase("DeviceTypeID"))
	assert.Equal(t, "", ToSnakeCase(""))
}

func TestTrimStringsSkipsNil(t *testing.T) {
	a := "  kept "
	TrimStrings(&a, nil)
	assert.Equal(t, "kept", a)
}
