package main

import (
	"encoding/json"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/couchcryptid/firecad-etl/internal/domain"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

type renderer struct {
	out    io.Writer
	format string
}

func (r renderer) snapshot(snap domain.Snapshot) error {
	if r.format == formatJSON {
		return r.json(snap)
	}

	header := table.Row{domain.DisplayName(domain.FieldSection)}
	for _, f := range domain.Schema {
		header = append(header, domain.DisplayName(f))
	}

	t := r.table()
	t.AppendHeader(header)
	for _, inc := range snap.Incidents {
		rec := inc.Record()
		row := table.Row{rec.Section}
		for _, f := range domain.Schema {
			row = append(row, rec.Get(f))
		}
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{"Total", len(snap.Incidents)})
	t.Render()
	return nil
}

func (r renderer) summary(s domain.Summary) error {
	if r.format == formatJSON {
		return r.json(s)
	}

	r.counts("Section", s.BySection, s.Total)
	r.counts("Incident Type", s.TopTypes, s.Total)
	return nil
}

func (r renderer) counts(name string, counts []domain.Count, total int) {
	t := r.table()
	t.AppendHeader(table.Row{name, "Count"})
	for _, c := range counts {
		t.AppendRow(table.Row{c.Name, c.Count})
	}
	t.AppendFooter(table.Row{"Total", total})
	t.Render()
}

func (r renderer) table() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	return t
}

func (r renderer) json(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
