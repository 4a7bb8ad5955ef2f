// README: Shared identifiers and geographic value objects.
package types

// ID is an opaque record identifier (UUID strings for records created by this service).
type ID string

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsSet reports whether p holds a real location. {0,0} is the "not yet set" sentinel.
func (p Point) IsSet() bool {
	return p.Lat != 0 || p.Lng != 0
}
