package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock geocoder ---

type mockGeocoder struct {
	results map[string]GeocodingResult
	errs    map[string]error
	calls   map[string]int
}

func newMockGeocoder() *mockGeocoder {
	return &mockGeocoder{
		results: make(map[string]GeocodingResult),
		errs:    make(map[string]error),
		calls:   make(map[string]int),
	}
}

func (m *mockGeocoder) Geocode(_ context.Context, address string) (GeocodingResult, error) {
	m.calls[address]++
	if err, ok := m.errs[address]; ok {
		return GeocodingResult{}, err
	}
	return m.results[address], nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const (
	testAddrA = "NW 97TH ST / NW 27TH AVE"
	testAddrB = "3100 BLOCK & NW 156TH ST"
)

// --- tests ---

func TestEnrichWithGeocoding_NilGeocoder(t *testing.T) {
	in := []Incident{{ID: "north-1", Address: testAddrA}}

	out := EnrichWithGeocoding(context.Background(), in, nil, CountyCenter, discardLogger())

	require.Len(t, out, 1)
	assert.Equal(t, CountyCenter, out[0].Geo)
	assert.Equal(t, GeoSourceNone, out[0].GeoSource)
	assert.Empty(t, in[0].GeoSource, "input must not be mutated")
}

func TestEnrichWithGeocoding_Success(t *testing.T) {
	geo := newMockGeocoder()
	geo.results[testAddrA] = GeocodingResult{
		Lat:              25.8651,
		Lon:              -80.2398,
		FormattedAddress: "NW 97th St & NW 27th Ave, Miami, Florida",
		Confidence:       0.9,
	}

	out := EnrichWithGeocoding(context.Background(), []Incident{{Address: testAddrA}}, geo, CountyCenter, discardLogger())

	require.Len(t, out, 1)
	assert.Equal(t, Geo{Lat: 25.8651, Lon: -80.2398}, out[0].Geo)
	assert.Equal(t, GeoSourceGeocoded, out[0].GeoSource)
	assert.Equal(t, "NW 97th St & NW 27th Ave, Miami, Florida", out[0].FormattedAddress)
}

func TestEnrichWithGeocoding_NotFoundUsesFallback(t *testing.T) {
	geo := newMockGeocoder()

	out := EnrichWithGeocoding(context.Background(), []Incident{{Address: testAddrB}}, geo, CountyCenter, discardLogger())

	assert.Equal(t, CountyCenter, out[0].Geo)
	assert.Equal(t, GeoSourceFallback, out[0].GeoSource)
	assert.Empty(t, out[0].FormattedAddress)
}

func TestEnrichWithGeocoding_ErrorUsesFallback(t *testing.T) {
	geo := newMockGeocoder()
	geo.errs[testAddrA] = errors.New("timeout")

	out := EnrichWithGeocoding(context.Background(), []Incident{{Address: testAddrA}}, geo, CountyCenter, discardLogger())

	assert.Equal(t, CountyCenter, out[0].Geo)
	assert.Equal(t, GeoSourceFailed, out[0].GeoSource)
}

func TestEnrichWithGeocoding_EmptyAddressSkipsLookup(t *testing.T) {
	geo := newMockGeocoder()

	out := EnrichWithGeocoding(context.Background(), []Incident{{Address: ""}}, geo, CountyCenter, discardLogger())

	assert.Equal(t, GeoSourceFallback, out[0].GeoSource)
	assert.Empty(t, geo.calls)
}

func TestEnrichWithGeocoding_OneLookupPerDistinctAddress(t *testing.T) {
	geo := newMockGeocoder()
	geo.results[testAddrA] = GeocodingResult{Lat: 25.86, Lon: -80.24}
	in := []Incident{
		{ID: "1", Address: testAddrA},
		{ID: "2", Address: testAddrB},
		{ID: "3", Address: testAddrA},
	}

	out := EnrichWithGeocoding(context.Background(), in, geo, CountyCenter, discardLogger())

	require.Len(t, out, 3)
	assert.Equal(t, 1, geo.calls[testAddrA])
	assert.Equal(t, 1, geo.calls[testAddrB])
	assert.Equal(t, out[0].Geo, out[2].Geo)
	assert.Equal(t, []string{"1", "2", "3"}, []string{out[0].ID, out[1].ID, out[2].ID})
}

func TestGeocodingResult_Found(t *testing.T) {
	assert.False(t, GeocodingResult{}.Found())
	assert.True(t, GeocodingResult{Lat: 25.1}.Found())
	assert.True(t, GeocodingResult{Lon: -80.2}.Found())
}
