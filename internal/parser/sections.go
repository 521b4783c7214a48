package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/couchcryptid/firecad-etl/internal/domain"
)

const (
	// headingSelector selects the section heading nodes.
	headingSelector = "h5"

	// headingMarker identifies a section heading, e.g. "NORTH - 9 Calls".
	headingMarker = "Calls"
)

// ResolveSections returns the section names found in heading nodes, in
// document order. It returns an empty slice when no heading matches.
func ResolveSections(doc *goquery.Document) []string {
	sections := []string{}
	doc.Find(headingSelector).Each(func(_ int, s *goquery.Selection) {
		if name, ok := parseSectionHeading(s.Text()); ok {
			sections = append(sections, name)
		}
	})
	return sections
}

// parseSectionHeading extracts the section name from a heading text such as
// "NORTH - 9 Calls". The name is the trimmed text before the first "-".
func parseSectionHeading(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if !strings.Contains(text, headingMarker) {
		return "", false
	}
	name, _, _ := strings.Cut(text, "-")
	return strings.TrimSpace(name), true
}

// sectionAt returns the i-th resolved section, or [domain.SectionUnknown]
// when there are fewer sections than groups.
func sectionAt(sections []string, i int) string {
	if i < len(sections) {
		return sections[i]
	}
	return domain.SectionUnknown
}
