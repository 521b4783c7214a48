package domain

import "sort"

// topTypesLimit caps the incident-type breakdown.
const topTypesLimit = 10

// filterAll is the filter value meaning "no filter".
const filterAll = "All"

// Count is one bucket of a breakdown.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary aggregates a snapshot's incidents for charts and tables.
type Summary struct {
	Total     int     `json:"total"`
	BySection []Count `json:"by_section"`
	TopTypes  []Count `json:"top_types"`
}

// Summarize counts incidents by section and by incident type. Buckets are
// ordered by count descending, then name; only the ten most frequent types
// are kept.
func Summarize(incidents []Incident) Summary {
	sections := make(map[string]int)
	types := make(map[string]int)
	for _, inc := range incidents {
		sections[inc.Section]++
		types[inc.IncidentType]++
	}

	s := Summary{
		Total:     len(incidents),
		BySection: sortedCounts(sections),
		TopTypes:  sortedCounts(types),
	}
	if len(s.TopTypes) > topTypesLimit {
		s.TopTypes = s.TopTypes[:topTypesLimit]
	}
	return s
}

func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for name, n := range m {
		out = append(out, Count{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Filter keeps incidents matching section and incidentType exactly. An empty
// value or "All" disables that filter.
func Filter(incidents []Incident, section, incidentType string) []Incident {
	out := make([]Incident, 0, len(incidents))
	for _, inc := range incidents {
		if !matchesFilter(section, inc.Section) || !matchesFilter(incidentType, inc.IncidentType) {
			continue
		}
		out = append(out, inc)
	}
	return out
}

func matchesFilter(want, got string) bool {
	return want == "" || want == filterAll || want == got
}
