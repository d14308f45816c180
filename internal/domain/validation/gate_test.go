package validation_test

import (
	"testing"

	"github.com/rpggio/spacedesk/internal/domain/building"
	"github.com/rpggio/spacedesk/internal/domain/city"
	"github.com/rpggio/spacedesk/internal/domain/entity"
	"github.com/rpggio/spacedesk/internal/domain/offering"
	"github.com/rpggio/spacedesk/internal/domain/space"
	"github.com/rpggio/spacedesk/internal/domain/validation"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func validSpace() space.Input {
	return space.Input{
		BuildingID: "BLD25001",
		Name:       "Room A",
		Brand:      "NextSpace",
		Type:       space.TypeMeetingRoom,
		Capacity:   10,
	}
}

func fields(errs []validation.FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestGate_ValidSpace(t *testing.T) {
	gate := validation.NewGate()
	in := validSpace()
	require.Empty(t, gate.Validate(entity.KindSpace, &in))
}

func TestGate_CapacityOverLimit(t *testing.T) {
	gate := validation.NewGate()
	in := validSpace()
	in.Capacity = 2000

	errs := gate.Validate(entity.KindSpace, &in)
	require.Len(t, errs, 1)
	require.Equal(t, "capacity", errs[0].Field)
	require.Contains(t, errs[0].Message, "capacity")
	require.Contains(t, errs[0].Message, "1000")
}

func TestGate_UnknownBrand(t *testing.T) {
	gate := validation.NewGate()
	in := validSpace()
	in.Brand = "Acme"

	errs := gate.Validate(entity.KindSpace, &in)
	require.Len(t, errs, 1)
	require.Equal(t, "brand", errs[0].Field)
	require.Contains(t, errs[0].Message, "Acme")
}

func TestGate_ReportsAllViolations(t *testing.T) {
	gate := validation.NewGate()
	in := validSpace()
	in.Capacity = 2000
	in.Brand = "Acme"

	errs := gate.Validate(entity.KindSpace, &in)
	require.ElementsMatch(t, []string{"capacity", "brand"}, fields(errs))
}

func TestGate_CapacityLowerBound(t *testing.T) {
	gate := validation.NewGate()
	in := validSpace()
	in.Capacity = 0

	errs := gate.Validate(entity.KindSpace, &in)
	require.Equal(t, []string{"capacity"}, fields(errs))
}

func TestGate_BuildingLocation(t *testing.T) {
	gate := validation.NewGate()
	in := building.Input{
		Name:  "  ",
		Brand: "CoSpace",
		Location: entity.Location{
			Address:   "",
			City:      "Medan",
			Province:  "",
			Latitude:  ptr(91.0),
			Longitude: ptr(-180.0),
		},
	}

	errs := gate.Validate(entity.KindBuilding, &in)
	require.ElementsMatch(t, []string{"name", "location.address", "location.province", "location.latitude"}, fields(errs))
}

func TestGate_BuildingWithoutCoordinates(t *testing.T) {
	gate := validation.NewGate()
	in := building.Input{
		Name:  "Tower",
		Brand: "UnionSpace",
		Location: entity.Location{
			Address:  "Jl. Sudirman 1",
			City:     "Jakarta",
			Province: "DKI Jakarta",
		},
	}
	require.Empty(t, gate.Validate(entity.KindBuilding, &in))
}

func TestGate_CityCoordinates(t *testing.T) {
	gate := validation.NewGate()
	in := city.Input{Name: "Medan", Province: "Sumatera Utara", Longitude: ptr(181.0)}

	errs := gate.Validate(entity.KindCity, &in)
	require.Equal(t, []string{"longitude"}, fields(errs))
}

func TestGate_TaxRate(t *testing.T) {
	gate := validation.NewGate()
	in := offering.Input{Name: "Printing", TaxRate: 1.5}

	errs := gate.Validate(entity.KindService, &in)
	require.Equal(t, []string{"taxRate"}, fields(errs))

	in.TaxRate = 0.11
	require.Empty(t, gate.Validate(entity.KindService, &in))
}

func TestGate_KindMismatch(t *testing.T) {
	gate := validation.NewGate()
	in := validSpace()

	errs := gate.Validate(entity.KindBuilding, &in)
	require.Equal(t, []string{"entityType"}, fields(errs))
}

func TestGate_NilPayload(t *testing.T) {
	gate := validation.NewGate()
	var in *space.Input

	errs := gate.Validate(entity.KindSpace, in)
	require.Equal(t, []string{"payload"}, fields(errs))
}

func TestGate_CheckWrapsError(t *testing.T) {
	gate := validation.NewGate()
	in := validSpace()
	in.Capacity = -1

	err := gate.Check(entity.KindSpace, &in)
	require.ErrorIs(t, err, validation.ErrInvalid)

	fe, ok := validation.FieldErrors(err)
	require.True(t, ok)
	require.Len(t, fe, 1)
}
