package domain

import "strings"

// Represents a single return-gift delivery target.
// Location is nil until the recipient's address has been geocoded; such
// recipients are reported as unplaced by the planner instead of being routed.
type Recipient struct {
	ID       string
	Name     string
	Address  string
	Location *GeoPoint
}

// Resolved reports whether the recipient carries coordinates.
func (r Recipient) Resolved() bool { return r.Location != nil }

// WithLocation returns a copy of r placed at p.
func (r Recipient) WithLocation(p GeoPoint) Recipient {
	r.Location = &p
	return r
}

// NormalizeAddress trims and collapses whitespace. It is the key geocoders
// and geocode caches use for an address.
func NormalizeAddress(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
