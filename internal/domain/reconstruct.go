package domain

import (
	"regexp"
	"strings"
)

// fireCodeRe matches a fire code at the start of a value, e.g. "C3".
var fireCodeRe = regexp.MustCompile(`^C\d`)

// reconstructState is a position in the per-record state machine.
type reconstructState int

const (
	seekingStart reconstructState = iota
	expectFireCode
	expectType
	expectAddress
	expectUnits
	commitRecord
)

// expected maps each field state to the field it fills.
var expected = map[reconstructState]Field{
	expectFireCode: FieldFireCode,
	expectType:     FieldIncidentType,
	expectAddress:  FieldAddress,
	expectUnits:    FieldUnits,
}

// Reconstruct groups a section's row stream into incident records.
//
// A record starts at a single-cell row whose value contains ":" (a clock
// time such as "21:09"). The following rows fill FireCode, IncidentType,
// Address and Units in that order. A row that cannot fill the expected field
// is not consumed: the field stays empty and the same row is offered to the
// next field, so a missing field costs no row. After Units the record is
// committed and the search for the next start resumes at the current row.
//
// The machine only moves forward. Once inside a record, a time-like row is
// consumed as whichever field is expected rather than starting a new record
// (the FireCode slot excepted, see [acceptsRow]), so irregular layouts can
// misattribute values.
func Reconstruct(group RowGroup) []IncidentRecord {
	rows := group.Rows
	var (
		out []IncidentRecord
		cur IncidentRecord
		st  = seekingStart
		i   int
	)

	for {
		switch st {
		case seekingStart:
			if i >= len(rows) {
				return out
			}
			if isStartRow(rows[i]) {
				cur = IncidentRecord{Section: group.Section, TimeReceived: rows[i].Cells[0]}
				st = expectFireCode
			}
			i++

		case expectFireCode, expectType, expectAddress, expectUnits:
			field := expected[st]
			if i < len(rows) && acceptsRow(field, rows[i]) {
				cur.set(field, rows[i].Cells[0])
				i++
			}
			st++

		case commitRecord:
			out = append(out, cur)
			st = seekingStart
		}
	}
}

// isStartRow reports whether a row looks like the time-received row that
// opens an incident.
func isStartRow(r Row) bool {
	if len(r.Cells) != 1 {
		return false
	}
	v := strings.TrimSpace(r.Cells[0])
	return v != "" && strings.Contains(v, ":")
}

// acceptsRow reports whether a row can fill field. Only single-cell rows
// carry a value. The fire code is optional on the page, so its slot also
// requires the value to be blank or look like a fire code; otherwise the row
// is left for the incident type.
func acceptsRow(field Field, r Row) bool {
	if len(r.Cells) != 1 {
		return false
	}
	if field == FieldFireCode {
		v := strings.TrimSpace(r.Cells[0])
		return v == "" || fireCodeRe.MatchString(v)
	}
	return true
}

// ReconstructAll runs [Reconstruct] over every group, preserving group order.
func ReconstructAll(groups []RowGroup) []IncidentRecord {
	var out []IncidentRecord
	for _, g := range groups {
		out = append(out, Reconstruct(g)...)
	}
	return out
}
