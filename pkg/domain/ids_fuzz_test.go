package domain

import (
	"testing"
)

// FuzzParseVendorID tests that parsing never panics on arbitrary input and
// always returns either a valid ID or an error, never both.
func FuzzParseVendorID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")
	f.Add("'; DROP TABLE vendors;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))
	f.Add("550e8400-e29b-41d4-a716-446655440000\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		vendorID, err := ParseVendorID(input)

		if err == nil && vendorID.IsNil() {
			t.Errorf("ParseVendorID(%q) returned nil ID without error", input)
		}
		if err != nil && !vendorID.IsNil() {
			t.Errorf("ParseVendorID(%q) returned both an ID and an error", input)
		}
	})
}
