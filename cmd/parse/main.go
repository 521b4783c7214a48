// Command parse fetches the CAD calls page once, or reads a saved copy, and
// prints the reconstructed incidents.
//
// Usage:
//
//	parse [-file page.html | -url URL] [-strategy standard|alternative] [-format json|table] [-summary] [-verbose]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/couchcryptid/firecad-etl/internal/adapter/cad"
	"github.com/couchcryptid/firecad-etl/internal/domain"
	"github.com/couchcryptid/firecad-etl/internal/parser"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "parse:", err)
		os.Exit(1)
	}
}

type options struct {
	file     string
	url      string
	strategy string
	format   string
	summary  bool
	verbose  bool
	timeout  time.Duration
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.file, "file", "", "read a saved page instead of fetching")
	fs.StringVar(&opts.url, "url", cad.DefaultURL, "page to fetch when -file is not set")
	fs.StringVar(&opts.strategy, "strategy", string(parser.KindStandard), "parsing strategy: standard or alternative")
	fs.StringVar(&opts.format, "format", formatJSON, "output format: json or table")
	fs.BoolVar(&opts.summary, "summary", false, "print counts by section and incident type")
	fs.BoolVar(&opts.verbose, "verbose", false, "log extraction diagnostics to stderr")
	fs.DurationVar(&opts.timeout, "timeout", 10*time.Second, "fetch timeout")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.format != formatJSON && opts.format != formatTable {
		return options{}, fmt.Errorf("unknown format %q", opts.format)
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	kind, err := parser.ParseKind(opts.strategy)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))
	strategy, err := parser.New(kind, parser.Options{Verbose: opts.verbose, Logger: logger})
	if err != nil {
		return err
	}

	doc, err := load(ctx, opts, logger)
	if err != nil {
		return err
	}

	res := strategy.Parse(doc)
	if res.Diagnostics.NoStructure {
		logger.Warn("no incident structure found on page", "strategy", kind)
	}
	snap := domain.NewSnapshot(string(kind), domain.Normalize(res.Records), res.Diagnostics)

	r := renderer{out: stdout, format: opts.format}
	if opts.summary {
		return r.summary(domain.Summarize(snap.Incidents))
	}
	return r.snapshot(snap)
}

func load(ctx context.Context, opts options, logger *slog.Logger) (*goquery.Document, error) {
	if opts.file != "" {
		f, err := os.Open(opts.file)
		if err != nil {
			return nil, fmt.Errorf("open page: %w", err)
		}
		defer f.Close()
		return parser.ParseHTML(f)
	}
	return cad.NewClient(opts.url, opts.timeout, logger).Fetch(ctx)
}
