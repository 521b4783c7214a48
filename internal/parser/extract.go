package parser

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/couchcryptid/firecad-etl/internal/domain"
)

const (
	tableSelector     = "table"
	rowSelector       = "tr"
	cellSelector      = "td"
	containerSelector = "div.card-body"
)

// blankLineRe splits container text into incident blocks. Lines holding only
// whitespace (including non-breaking spaces) count as blank.
var blankLineRe = regexp.MustCompile(`\n[\s\p{Z}]*\n`)

// ParseHTML builds a node tree from raw page markup.
func ParseHTML(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// ExtractTables returns one row group per table, in document order. The i-th
// table is attributed to the i-th section; tables beyond the resolved
// sections get [domain.SectionUnknown]. Rows without cells are dropped.
func ExtractTables(doc *goquery.Document, sections []string) []domain.RowGroup {
	var groups []domain.RowGroup
	doc.Find(tableSelector).Each(func(i int, table *goquery.Selection) {
		group := domain.RowGroup{Section: sectionAt(sections, i)}
		table.Find(rowSelector).Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find(cellSelector).Map(func(_ int, td *goquery.Selection) string {
				return strings.TrimSpace(td.Text())
			})
			if len(cells) == 0 {
				return
			}
			group.Rows = append(group.Rows, domain.Row{Cells: cells})
		})
		groups = append(groups, group)
	})
	return groups
}

// Container is the flattened text of one section container.
type Container struct {
	Section string
	Text    string
}

// ExtractContainers returns the text of every section container in document
// order. Each container takes its section from the nearest heading before it;
// if that heading is not a section heading, or there is none, the section is
// [domain.SectionUnknown].
func ExtractContainers(doc *goquery.Document) []Container {
	var (
		out     []Container
		heading string
	)
	// A combined selector yields headings and containers interleaved in
	// document order.
	doc.Find(headingSelector + ", " + containerSelector).Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == headingSelector {
			heading = s.Text()
			return
		}
		section := domain.SectionUnknown
		if name, ok := parseSectionHeading(heading); ok {
			section = name
		}
		out = append(out, Container{Section: section, Text: s.Text()})
	})
	return out
}

// SplitBlocks splits a container's text on blank lines into candidate
// incident blocks. Each block keeps its non-empty trimmed lines in order;
// blocks with no such lines are dropped.
func SplitBlocks(c Container) []domain.Block {
	var blocks []domain.Block
	for _, chunk := range blankLineRe.Split(c.Text, -1) {
		var lines []string
		for _, line := range strings.Split(chunk, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) == 0 {
			continue
		}
		blocks = append(blocks, domain.Block{Section: c.Section, Lines: lines})
	}
	return blocks
}
