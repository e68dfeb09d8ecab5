// Package profiler builds CSVW metadata for tabular files: it detects column
// types and value domains and, when a matcher is configured, maps columns
// to ontology concepts.
package profiler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/c360studio/csvw-ontomap/config"
	"github.com/c360studio/csvw-ontomap/csvw"
	"github.com/c360studio/csvw-ontomap/metrics"
	"github.com/c360studio/csvw-ontomap/ontomap"
)

// Matcher finds ontology concepts for a column title.
// *ontomap.Matcher implements it.
type Matcher interface {
	Match(ctx context.Context, query string, limit int) ([]ontomap.Match, error)
}

// Profiler profiles tabular files into CSVW documents.
type Profiler struct {
	matcher Matcher
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Profiler.
type Option func(*Profiler)

// WithMatcher enables ontology mapping of columns.
func WithMatcher(m Matcher) Option {
	return func(p *Profiler) {
		p.matcher = m
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Profiler) {
		p.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Profiler) {
		p.logger = logger
	}
}

// WithClock sets the time source for dc:created.
func WithClock(now func() time.Time) Option {
	return func(p *Profiler) {
		p.now = now
	}
}

// New creates a Profiler.
func New(opts ...Option) *Profiler {
	p := &Profiler{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProfileFiles expands patterns and profiles every file into a new
// document, one table per file, stamped once all files are done.
func (p *Profiler) ProfileFiles(ctx context.Context, patterns []string, cfg config.OntomapConfig) (*csvw.Document, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	files, err := ResolveFiles(patterns, p.logger)
	if err != nil {
		return nil, err
	}

	doc := csvw.NewDocument()
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		table, err := p.ProfileFile(ctx, file, cfg)
		if err != nil {
			return nil, err
		}
		doc.AddTable(table)
	}

	doc.Stamp(p.now())
	return doc, nil
}

// ProfileFile profiles a single file into a CSVW table.
func (p *Profiler) ProfileFile(ctx context.Context, path string, cfg config.OntomapConfig) (csvw.Table, error) {
	p.logger.Info("Profiling file", slog.String("path", path))

	frame, err := ReadFile(path)
	if err != nil {
		return csvw.Table{}, fmt.Errorf("profile %s: %w", path, err)
	}

	table := csvw.Table{
		URL:         path,
		TableSchema: csvw.Schema{Columns: make([]csvw.Column, 0, len(frame.Columns))},
	}

	for _, series := range frame.Columns {
		stats := Describe(series)
		col := csvw.Column{
			Titles:   series.Name,
			Title:    Humanize(series.Name),
			Datatype: ColumnDatatype(stats),
		}

		if p.matcher != nil {
			if err := p.mapColumn(ctx, &col, cfg); err != nil {
				return csvw.Table{}, fmt.Errorf("profile %s: column %q: %w", path, series.Name, err)
			}
		}

		p.logger.Debug("Profiled column",
			slog.String("column", series.Name),
			slog.String("type", string(stats.Kind)),
			slog.Int("distinct", stats.Distinct),
			slog.Int("missing", stats.Missing),
			slog.String("property", col.PropertyURL))
		p.metrics.ColumnProfiled(string(stats.Kind), col.PropertyURL != "")

		table.TableSchema.Columns = append(table.TableSchema.Columns, col)
	}

	p.metrics.FileProfiled()
	p.logger.Info("Profiled file",
		slog.String("path", path),
		slog.Int("rows", frame.Rows),
		slog.Int("columns", len(frame.Columns)))
	return table, nil
}

// mapColumn sets propertyUrl when the best match reaches the threshold and
// lists the matches in the comment when requested.
func (p *Profiler) mapColumn(ctx context.Context, col *csvw.Column, cfg config.OntomapConfig) error {
	matches, err := p.matcher.Match(ctx, col.Title, max(cfg.CommentBestMatches, 1))
	if err != nil {
		return err
	}

	if len(matches) > 0 && matches[0].Score >= cfg.SearchThreshold {
		col.PropertyURL = matches[0].Payload.ID
	}
	if cfg.CommentBestMatches > 0 {
		col.Comment = ontomap.FormatMatches(matches)
	}
	return nil
}

// ColumnDatatype maps column statistics to a CSVW datatype.
func ColumnDatatype(stats ColumnStats) csvw.Datatype {
	switch stats.Kind {
	case KindNumeric:
		base := csvw.BaseNumber
		if isDigits(stats.MinToken()) {
			base = csvw.BaseInteger
		}
		return csvw.Numeric(base, stats.Min, stats.Max)
	case KindCategorical:
		return csvw.Enumerated(csvw.BaseString, strings.Join(stats.Sorted, "|"))
	case KindBoolean:
		return csvw.Enumerated(csvw.BaseBoolean, strings.Join(stats.Observed, "|"))
	default:
		return csvw.String()
	}
}
