package domain

import (
	"testing"
)

// FuzzParseVehicleID checks that parsing never panics and that every accepted
// value round-trips through its string form.
func FuzzParseVehicleID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")
	f.Add("'; DROP TABLE motos;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseVehicleID(input)
		if err != nil {
			return
		}
		if id.IsNil() {
			t.Fatal("accepted nil vehicle id")
		}
		roundTrip, err := ParseVehicleID(id.String())
		if err != nil {
			t.Fatalf("valid ID failed round-trip: %v", err)
		}
		if roundTrip != id {
			t.Fatal("round-trip changed ID value")
		}
	})
}

func FuzzParseDepartmentID(f *testing.F) {
	f.Add("4")
	f.Add("0")
	f.Add("-1")
	f.Add("99999999999999999999")

	f.Fuzz(func(t *testing.T, input string) {
		d, err := ParseDepartmentID(input)
		if err == nil && !d.Valid() {
			t.Fatalf("accepted unusable department %d", d)
		}
	})
}
