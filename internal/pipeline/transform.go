package pipeline

import (
	"context"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/couchcryptid/firecad-etl/internal/domain"
	"github.com/couchcryptid/firecad-etl/internal/parser"
)

// IncidentTransformer implements Transformer: it runs the configured parsing
// strategy, normalizes the records, and enriches them with coordinates.
type IncidentTransformer struct {
	strategy parser.Strategy
	geocoder domain.Geocoder
	fallback domain.Geo
	logger   *slog.Logger
}

// NewTransformer creates an IncidentTransformer. Pass a nil geocoder to
// disable geocoding; every incident then takes the fallback coordinate.
func NewTransformer(strategy parser.Strategy, geocoder domain.Geocoder, fallback domain.Geo, logger *slog.Logger) *IncidentTransformer {
	return &IncidentTransformer{
		strategy: strategy,
		geocoder: geocoder,
		fallback: fallback,
		logger:   logger,
	}
}

func (t *IncidentTransformer) Transform(ctx context.Context, doc *goquery.Document) domain.Snapshot {
	res := t.strategy.Parse(doc)

	incidents := domain.Normalize(res.Records)
	incidents = domain.EnrichWithGeocoding(ctx, incidents, t.geocoder, t.fallback, t.logger)

	return domain.NewSnapshot(string(t.strategy.Kind()), incidents, res.Diagnostics)
}
