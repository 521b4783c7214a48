package domain

import (
	"regexp"
	"strings"
)

var (
	// clockTimeRe matches a clock time at the start of a line, e.g. "21:09".
	clockTimeRe = regexp.MustCompile(`^\d{1,2}:\d{2}`)

	// unitCodeRe matches an engine, rescue or battalion unit code anywhere in
	// a line, e.g. "E07", "R202".
	unitCodeRe = regexp.MustCompile(`[ERB]\d{1,3}`)
)

// incidentTypeKeywords are the incident type words that identify a type line.
var incidentTypeKeywords = []string{"MEDICAL", "FIRE", "ALARM", "OTHER", "HAZMAT", "EXPLOSIVE"}

// streetTokens are the street suffixes that identify an address line.
var streetTokens = []string{"BLOCK", "ST", "AVE", "RD", "BLVD", "DR", "LN", "CT", "WAY"}

// Classify assigns a block's lines to fields by content pattern. Each field
// takes the first matching line and fields are searched independently, so a
// single line may fill more than one field.
//
// The block is accepted only when both a time and an address were found;
// otherwise ok is false and the record should be discarded.
func Classify(block Block) (rec IncidentRecord, ok bool) {
	rec = IncidentRecord{
		Section:      block.Section,
		TimeReceived: firstLine(block.Lines, clockTimeRe.MatchString),
		IncidentType: firstLine(block.Lines, containsAny(incidentTypeKeywords)),
		Address:      firstLine(block.Lines, containsAny(streetTokens)),
		Units:        firstLine(block.Lines, unitCodeRe.MatchString),
		FireCode:     firstLine(block.Lines, fireCodeRe.MatchString),
	}
	if rec.TimeReceived == "" || rec.Address == "" {
		return IncidentRecord{}, false
	}
	return rec, true
}

// ClassifyBlocks classifies every block and returns the accepted records in
// block order along with the number of rejected blocks.
func ClassifyBlocks(blocks []Block) ([]IncidentRecord, int) {
	var (
		out      []IncidentRecord
		rejected int
	)
	for _, b := range blocks {
		rec, ok := Classify(b)
		if !ok {
			rejected++
			continue
		}
		out = append(out, rec)
	}
	return out, rejected
}

func firstLine(lines []string, match func(string) bool) string {
	for _, l := range lines {
		if match(l) {
			return l
		}
	}
	return ""
}

func containsAny(needles []string) func(string) bool {
	return func(s string) bool {
		for _, n := range needles {
			if strings.Contains(s, n) {
				return true
			}
		}
		return false
	}
}
