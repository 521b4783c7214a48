package domain

import "time"

// Field names one attribute of an incident record.
type Field string

const (
	FieldSection      Field = "Section"
	FieldTimeReceived Field = "TimeReceived"
	FieldFireCode     Field = "FireCode"
	FieldIncidentType Field = "IncidentType"
	FieldAddress      Field = "Address"
	FieldUnits        Field = "Units"
)

// Schema is the ordered list of fields describing one incident. The order is
// the row order of the standard table layout.
var Schema = [...]Field{
	FieldTimeReceived,
	FieldFireCode,
	FieldIncidentType,
	FieldAddress,
	FieldUnits,
}

// SectionUnknown labels incidents whose section heading could not be resolved.
const SectionUnknown = "Unknown"

var displayNames = map[Field]string{
	FieldSection:      "Section",
	FieldTimeReceived: "Time Received",
	FieldFireCode:     "Fire Code",
	FieldIncidentType: "Incident Type",
	FieldAddress:      "Address",
	FieldUnits:        "Units",
}

// DisplayName returns the human-facing column name for a field.
func DisplayName(f Field) string {
	if name, ok := displayNames[f]; ok {
		return name
	}
	return string(f)
}

// Row is one table row: the trimmed text of each cell, in order.
type Row struct {
	Cells []string
}

// RowGroup is the ordered row stream of a single table together with the
// section it was found under.
type RowGroup struct {
	Section string
	Rows    []Row
}

// Block is one candidate incident from the text layout: its non-empty trimmed
// lines in document order.
type Block struct {
	Section string
	Lines   []string
}

// IncidentRecord is a reconstructed incident before normalization. Every
// field is always present; the empty string means the value was not found.
type IncidentRecord struct {
	Section      string
	TimeReceived string
	FireCode     string
	IncidentType string
	Address      string
	Units        string
}

// Get returns the value stored for f.
func (r IncidentRecord) Get(f Field) string {
	switch f {
	case FieldSection:
		return r.Section
	case FieldTimeReceived:
		return r.TimeReceived
	case FieldFireCode:
		return r.FireCode
	case FieldIncidentType:
		return r.IncidentType
	case FieldAddress:
		return r.Address
	case FieldUnits:
		return r.Units
	default:
		return ""
	}
}

func (r *IncidentRecord) set(f Field, v string) {
	switch f {
	case FieldSection:
		r.Section = v
	case FieldTimeReceived:
		r.TimeReceived = v
	case FieldFireCode:
		r.FireCode = v
	case FieldIncidentType:
		r.IncidentType = v
	case FieldAddress:
		r.Address = v
	case FieldUnits:
		r.Units = v
	}
}

// Fields returns the record as a field-name mapping. The key set is always
// Section plus the full schema.
func (r IncidentRecord) Fields() map[Field]string {
	m := make(map[Field]string, len(Schema)+1)
	m[FieldSection] = r.Section
	for _, f := range Schema {
		m[f] = r.Get(f)
	}
	return m
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Incident is the normalized, downstream-facing form of an incident.
type Incident struct {
	ID           string `json:"id"`
	Section      string `json:"section"`
	TimeReceived string `json:"time_received"`
	FireCode     string `json:"fire_code"`
	IncidentType string `json:"incident_type"`
	Address      string `json:"address"`
	Units        string `json:"units"`

	// Geocoding enrichment fields.
	Geo              Geo    `json:"geo"`
	GeoSource        string `json:"geo_source,omitempty"` // "geocoded", "fallback", "failed", "none"
	FormattedAddress string `json:"formatted_address,omitempty"`
}

// Record converts the incident back to its record form, dropping enrichment.
func (i Incident) Record() IncidentRecord {
	return IncidentRecord{
		Section:      i.Section,
		TimeReceived: i.TimeReceived,
		FireCode:     i.FireCode,
		IncidentType: i.IncidentType,
		Address:      i.Address,
		Units:        i.Units,
	}
}

// Diagnostics counts what extraction saw during one fetch cycle. It never
// influences the records produced.
type Diagnostics struct {
	// Sections is the number of resolved section headings on the page.
	Sections        int  `json:"sections"`
	Groups          int  `json:"groups"`
	Rows            int  `json:"rows"`
	Blocks          int  `json:"blocks"`
	BlocksRejected  int  `json:"blocks_rejected"`
	UnlabeledGroups int  `json:"unlabeled_groups"`
	NoStructure     bool `json:"no_structure"`
}

// Snapshot is the result of one fetch cycle.
type Snapshot struct {
	FetchedAt   time.Time   `json:"fetched_at"`
	Strategy    string      `json:"strategy"`
	NoData      bool        `json:"no_data"`
	Incidents   []Incident  `json:"incidents"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// NewSnapshot stamps a cycle result with the current time. NoData is set when
// there are no incidents, which callers present as an empty but valid state.
func NewSnapshot(strategy string, incidents []Incident, diag Diagnostics) Snapshot {
	if incidents == nil {
		incidents = []Incident{}
	}
	return Snapshot{
		FetchedAt:   clock.Now().UTC(),
		Strategy:    strategy,
		NoData:      len(incidents) == 0,
		Incidents:   incidents,
		Diagnostics: diag,
	}
}
