package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Normalize converts reconstructed records into the downstream incident
// shape. Unicode space separators (the page pads cells with non-breaking
// spaces) become plain spaces and values are trimmed; no other character is
// rewritten. Count and order are unchanged, and running Normalize
// on its own output (via [Incident.Record]) is a no-op.
func Normalize(records []IncidentRecord) []Incident {
	out := make([]Incident, 0, len(records))
	for _, r := range records {
		inc := Incident{
			Section:      cleanText(r.Section),
			TimeReceived: cleanText(r.TimeReceived),
			FireCode:     cleanText(r.FireCode),
			IncidentType: cleanText(r.IncidentType),
			Address:      cleanText(r.Address),
			Units:        cleanText(r.Units),
		}
		if inc.Section == "" {
			inc.Section = SectionUnknown
		}
		inc.ID = generateID(inc.Section, inc.TimeReceived, inc.IncidentType, inc.Address)
		out = append(out, inc)
	}
	return out
}

// foldSpaces maps every Unicode space separator to an ASCII space.
var foldSpaces = runes.Map(func(r rune) rune {
	if unicode.Is(unicode.Zs, r) {
		return ' '
	}
	return r
})

func cleanText(s string) string {
	folded, _, err := transform.String(foldSpaces, s)
	if err != nil {
		folded = s
	}
	return strings.TrimSpace(folded)
}

// generateID produces a deterministic ID from the incident's identifying fields.
// Units and fire code are excluded because they change while an incident is open.
func generateID(section, timeReceived, incidentType, address string) string {
	input := fmt.Sprintf("%s|%s|%s|%s", section, timeReceived, incidentType, address)
	hash := sha256.Sum256([]byte(input))
	return strings.ToLower(section) + "-" + hex.EncodeToString(hash[:8])
}
