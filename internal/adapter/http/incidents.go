package http

import (
	"context"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/firecad-etl/internal/domain"
)

type incidentsResponse struct {
	FetchedAt time.Time         `json:"fetched_at,omitzero"`
	Strategy  string            `json:"strategy,omitempty"`
	NoData    bool              `json:"no_data"`
	Count     int               `json:"count"`
	Incidents []domain.Incident `json:"incidents"`
}

type summaryResponse struct {
	FetchedAt time.Time      `json:"fetched_at,omitzero"`
	NoData    bool           `json:"no_data"`
	Summary   domain.Summary `json:"summary"`
}

type refreshResponse struct {
	FetchedAt   time.Time          `json:"fetched_at"`
	Strategy    string             `json:"strategy"`
	NoData      bool               `json:"no_data"`
	Count       int                `json:"count"`
	Diagnostics domain.Diagnostics `json:"diagnostics"`
}

// latest returns the current snapshot, or an empty no-data snapshot when
// none is held.
func (s *Server) latest() domain.Snapshot {
	snap, ok := s.backend.Latest()
	if !ok {
		return domain.Snapshot{NoData: true, Incidents: []domain.Incident{}}
	}
	return snap
}

func (s *Server) handleIncidents(w http.ResponseWriter, r *http.Request) {
	snap := s.latest()
	q := r.URL.Query()

	incidents := domain.Filter(snap.Incidents, q.Get("section"), q.Get("type"))

	sharedobs.WriteJSON(w, http.StatusOK, incidentsResponse{
		FetchedAt: snap.FetchedAt,
		Strategy:  snap.Strategy,
		NoData:    snap.NoData,
		Count:     len(incidents),
		Incidents: incidents,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	snap := s.latest()
	sharedobs.WriteJSON(w, http.StatusOK, summaryResponse{
		FetchedAt: snap.FetchedAt,
		NoData:    snap.NoData,
		Summary:   domain.Summarize(snap.Incidents),
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), refreshTimeout)
	defer cancel()

	snap, err := s.backend.Refresh(ctx)
	if err != nil {
		s.logger.Error("on-demand refresh failed", "error", err)
		sharedobs.WriteJSON(w, http.StatusBadGateway, map[string]string{
			"status": "refresh failed",
			"error":  err.Error(),
		})
		return
	}

	sharedobs.WriteJSON(w, http.StatusOK, refreshResponse{
		FetchedAt:   snap.FetchedAt,
		Strategy:    snap.Strategy,
		NoData:      snap.NoData,
		Count:       len(snap.Incidents),
		Diagnostics: snap.Diagnostics,
	})
}
