package domain

import (
	"context"
	"log/slog"
)

// Geo sources recorded on enriched incidents.
const (
	GeoSourceGeocoded = "geocoded"
	GeoSourceFallback = "fallback"
	GeoSourceFailed   = "failed"
	GeoSourceNone     = "none"
)

// EnrichWithGeocoding attaches coordinates to each incident. Each distinct
// address is looked up once, serially. Incidents whose address is empty, not
// found, or fails to geocode get the fallback coordinate; a nil geocoder
// places every incident at the fallback.
func EnrichWithGeocoding(ctx context.Context, incidents []Incident, geocoder Geocoder, fallback Geo, logger *slog.Logger) []Incident {
	out := make([]Incident, len(incidents))
	copy(out, incidents)

	if geocoder == nil {
		for i := range out {
			out[i].Geo = fallback
			out[i].GeoSource = GeoSourceNone
		}
		return out
	}

	seen := make(map[string]geoLookup)

	for i := range out {
		addr := out[i].Address
		l, ok := seen[addr]
		if !ok {
			l = geocodeOne(ctx, addr, geocoder, logger)
			seen[addr] = l
		}

		out[i].GeoSource = l.source
		if l.source != GeoSourceGeocoded {
			out[i].Geo = fallback
			continue
		}
		out[i].Geo = Geo{Lat: l.result.Lat, Lon: l.result.Lon}
		out[i].FormattedAddress = l.result.FormattedAddress
	}
	return out
}

type geoLookup struct {
	result GeocodingResult
	source string
}

func geocodeOne(ctx context.Context, address string, geocoder Geocoder, logger *slog.Logger) (l geoLookup) {
	if address == "" {
		l.source = GeoSourceFallback
		return l
	}
	result, err := geocoder.Geocode(ctx, address)
	if err != nil {
		logger.Warn("geocoding failed", "address", address, "error", err)
		l.source = GeoSourceFailed
		return l
	}
	if !result.Found() {
		l.source = GeoSourceFallback
		return l
	}
	l.result = result
	l.source = GeoSourceGeocoded
	return l
}
