package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
// A zero result with a nil error means the address was not found.
type GeocodingResult struct {
	Lat              float64
	Lon              float64
	FormattedAddress string
	Confidence       float64 // 0.0–1.0 provider confidence score
}

// Found reports whether the provider returned a coordinate.
func (r GeocodingResult) Found() bool {
	return r.Lat != 0 || r.Lon != 0
}

// Geocoder resolves incident addresses to coordinates.
type Geocoder interface {
	// Geocode converts a CAD address string such as "NW 97TH ST / NW 27TH AVE"
	// to coordinates.
	Geocode(ctx context.Context, address string) (GeocodingResult, error)
}

// CountyCenter is the fallback coordinate used when an address cannot be
// geocoded (Miami-Dade County).
var CountyCenter = Geo{Lat: 25.7617, Lon: -80.1918}
