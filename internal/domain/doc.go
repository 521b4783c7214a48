// Package domain models Miami-Dade Fire Rescue CAD incident data and the
// transforms that rebuild incident records from the loosely structured
// "calls" page.
//
// # Data Source
//
// The CAD page (https://www.miamidade.gov/firecad/calls_include.asp) lists
// active calls grouped by section. Each section has an <h5> heading and a
// table (or a card-body container) holding its incidents.
//
// # Page Conventions
//
// Section headings:
//
//	"<NAME> - <N> Calls"  →  e.g. "NORTH - 9 Calls"
//	The section name is the text left of the first "-", trimmed.
//	Known names: NORTH, CENTRAL, SOUTH, EAST, MEDCOM. Tables or containers
//	with no matching heading are attributed to [SectionUnknown].
//
// Incident layout (standard table layout):
//
//	One incident spans several single-cell rows in schema order:
//	  RCVD      "21:09"                    clock time, always present
//	  FC        "C3"                       fire code, often omitted
//	  INC TYPE  "MEDICAL"
//	  ADDRESS   "3100 BLOCK & NW 156TH ST"
//	  UNITS     "E11 R01 R54"              space separated unit codes
//	There are no explicit record boundaries; a record starts at a time row.
//	See [Reconstruct].
//
// Incident layout (alternative text layout):
//
//	Incidents are separated by blank lines in the container text, and the
//	lines of one incident are not reliably ordered. Fields are recognised by
//	content pattern. See [Classify].
//
// Fire codes:
//
//	"C" followed by a digit (C1, C2, C3). Optional.
//
// Unit codes:
//
//	E (engine), R (rescue) or B (battalion) followed by 1–3 digits, e.g.
//	"E07", "R202". Other unit prefixes (AB, P) appear but are not used for
//	classification.
//
// # Record Shape
//
// Every record carries all five schema fields plus Section; absent values are
// the empty string. Partial records are valid output.
//
// # ID Generation
//
// Incident IDs are deterministic SHA-256 hashes of section|time|type|address.
// The same incident seen on consecutive fetch cycles keeps the same ID, so
// downstream consumers can deduplicate without coordination. See [generateID].
package domain
