// Package parser recovers incident records from the CAD calls page. Two
// interchangeable strategies are provided: [Standard] walks section tables
// row by row, [Alternative] classifies free-text blocks by content.
package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/couchcryptid/firecad-etl/internal/domain"
)

// Kind selects a parsing strategy.
type Kind string

const (
	KindStandard    Kind = "standard"
	KindAlternative Kind = "alternative"
)

// ErrUnknownStrategy is returned for an unrecognised strategy name.
var ErrUnknownStrategy = errors.New("unknown parsing strategy")

// ParseKind maps a configuration value to a Kind. Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindStandard, KindAlternative:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// Result is the outcome of parsing one page.
type Result struct {
	Records     []domain.IncidentRecord
	Diagnostics domain.Diagnostics
}

// Strategy recovers incident records from a parsed page. Implementations
// never fail: missing structure is reported through Diagnostics and yields
// no records.
type Strategy interface {
	Kind() Kind
	Parse(doc *goquery.Document) Result
}

// Options configures a strategy.
type Options struct {
	// Verbose emits extraction diagnostics through Logger. It never changes
	// the records produced.
	Verbose bool
	Logger  *slog.Logger
}

// New constructs the strategy for kind.
func New(kind Kind, opts Options) (Strategy, error) {
	t := newTracer(opts)
	switch kind {
	case KindStandard:
		return &Standard{trace: t}, nil
	case KindAlternative:
		return &Alternative{trace: t}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, kind)
	}
}

// Standard extracts row groups from tables and rebuilds records with
// [domain.Reconstruct].
type Standard struct {
	trace tracer
}

func (s *Standard) Kind() Kind { return KindStandard }

func (s *Standard) Parse(doc *goquery.Document) Result {
	sections := ResolveSections(doc)
	s.trace.log("found sections", "sections", sections)

	groups := ExtractTables(doc, sections)
	diag := domain.Diagnostics{Sections: len(sections), Groups: len(groups)}
	if len(groups) == 0 {
		diag.NoStructure = true
		s.trace.log("no incident tables found")
		return Result{Diagnostics: diag}
	}
	s.trace.log("found tables", "tables", len(groups))

	if len(groups) > len(sections) {
		diag.UnlabeledGroups = len(groups) - len(sections)
	}

	for _, g := range groups {
		diag.Rows += len(g.Rows)
		if len(g.Rows) == 0 {
			s.trace.log("no rows found in section", "section", g.Section)
			continue
		}
		s.trace.log("processing section", "section", g.Section, "rows", len(g.Rows), "sample_row", g.Rows[0].Cells)
	}

	records := domain.ReconstructAll(groups)

	s.trace.records(records)
	return Result{Records: records, Diagnostics: diag}
}

// Alternative splits section containers into text blocks and classifies
// each with [domain.Classify].
type Alternative struct {
	trace tracer
}

func (a *Alternative) Kind() Kind { return KindAlternative }

func (a *Alternative) Parse(doc *goquery.Document) Result {
	containers := ExtractContainers(doc)
	diag := domain.Diagnostics{Sections: len(ResolveSections(doc)), Groups: len(containers)}
	if len(containers) == 0 {
		diag.NoStructure = true
		a.trace.log("no section containers found")
		return Result{Diagnostics: diag}
	}
	a.trace.log("found section containers", "containers", len(containers))

	var records []domain.IncidentRecord
	for _, c := range containers {
		if c.Section == domain.SectionUnknown {
			diag.UnlabeledGroups++
		}

		blocks := SplitBlocks(c)
		diag.Blocks += len(blocks)
		a.trace.log("processing section", "section", c.Section, "blocks", len(blocks))

		recs, rejected := domain.ClassifyBlocks(blocks)
		diag.BlocksRejected += rejected
		records = append(records, recs...)
	}

	a.trace.records(records)
	return Result{Records: records, Diagnostics: diag}
}

// sampleRecords caps how many extracted records verbose mode logs.
const sampleRecords = 3

// tracer emits verbose extraction diagnostics.
type tracer struct {
	verbose bool
	logger  *slog.Logger
}

func newTracer(opts Options) tracer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return tracer{verbose: opts.Verbose, logger: logger}
}

func (t tracer) log(msg string, args ...any) {
	if !t.verbose {
		return
	}
	t.logger.Info(msg, args...)
}

func (t tracer) records(records []domain.IncidentRecord) {
	if !t.verbose {
		return
	}
	if len(records) == 0 {
		t.logger.Info("no incidents were extracted")
		return
	}
	for i := 0; i < len(records) && i < sampleRecords; i++ {
		t.logger.Info("extracted incident", "index", i, "record", records[i])
	}
	t.logger.Info("extraction complete", "records", len(records))
}
