package debrief

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tsawler/debrief/aggregate"
	"github.com/tsawler/debrief/auth"
	"github.com/tsawler/debrief/docx"
	"github.com/tsawler/debrief/extract"
	"github.com/tsawler/debrief/format"
	"github.com/tsawler/debrief/model"
	"github.com/tsawler/debrief/period"
	"github.com/tsawler/debrief/render"
	"github.com/tsawler/debrief/variant"
)

// Pipeline provides a fluent interface for configuring and running report
// generation for one variant. Each configuration method returns a new
// Pipeline, so a configured pipeline can be shared and reused.
type Pipeline struct {
	variant *variant.Variant
	options Options

	// Accumulated error (fail-fast)
	err error
}

// New creates a pipeline for v.
func New(v *variant.Variant) *Pipeline {
	p := &Pipeline{variant: v, options: defaultOptions()}
	if v == nil {
		p.err = fmt.Errorf("no variant given")
	} else if err := v.Validate(); err != nil {
		p.err = err
	}
	return p
}

// ForVariant creates a pipeline for the named preset.
func ForVariant(name string) *Pipeline {
	v, err := variant.Lookup(name)
	if err != nil {
		return &Pipeline{options: defaultOptions(), err: err}
	}
	return New(v)
}

func (p *Pipeline) clone() *Pipeline {
	return &Pipeline{
		variant: p.variant,
		options: p.options.clone(),
		err:     p.err,
	}
}

// ============================================================================
// Configuration Methods (return new Pipeline instance)
// ============================================================================

// Week sets the reporting period explicitly. A zero year means the year of
// the previous week.
func (p *Pipeline) Week(week, year int) *Pipeline {
	n := p.clone()
	n.options.week = week
	n.options.year = year
	return n
}

// Clock replaces the time source used to derive the default week.
func (p *Pipeline) Clock(now func() time.Time) *Pipeline {
	n := p.clone()
	n.options.now = now
	return n
}

// Workers limits the number of documents parsed concurrently.
func (p *Pipeline) Workers(n int) *Pipeline {
	c := p.clone()
	if n < 1 {
		n = 1
	}
	c.options.workers = n
	return c
}

// Layouts restricts the outputs to the layouts with the given tags.
func (p *Pipeline) Layouts(tags ...string) *Pipeline {
	n := p.clone()
	n.options.layouts = append(n.options.layouts, tags...)
	return n
}

// Author sets the author written into the output documents.
func (p *Pipeline) Author(name string) *Pipeline {
	n := p.clone()
	n.options.author = name
	return n
}

// Logger sets the logger. A nil logger disables logging.
func (p *Pipeline) Logger(l *zap.Logger) *Pipeline {
	n := p.clone()
	if l == nil {
		l = zap.NewNop()
	}
	n.options.logger = l
	return n
}

// Variant returns the variant the pipeline runs.
func (p *Pipeline) Variant() *variant.Variant {
	return p.variant
}

// ============================================================================
// Terminal Operations
// ============================================================================

// docResult holds what one input contributed.
type docResult struct {
	parsed       bool
	observations []model.Observation
	warnings     []Warning
}

// Extract parses the inputs and returns their observations in input order,
// numbered by Seq. Documents that cannot be parsed are reported as warnings.
// The error is non-nil only when ctx is cancelled.
func (p *Pipeline) Extract(ctx context.Context, inputs ...Input) ([]model.Observation, []Warning, error) {
	obs, _, warnings, err := p.extract(ctx, p.options.logger, inputs)
	return obs, warnings, err
}

func (p *Pipeline) extract(ctx context.Context, log *zap.Logger, inputs []Input) ([]model.Observation, int, []Warning, error) {
	if p.err != nil {
		return nil, 0, nil, p.err
	}

	matcher := extract.NewMatcher(p.variant.Categories)
	results := make([]docResult, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.options.workers)
	for i := range inputs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.process(inputs[i], matcher, log)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, nil, fmt.Errorf("extracting documents: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, nil, fmt.Errorf("extracting documents: %w", err)
	}

	var obs []model.Observation
	var warnings []Warning
	parsed := 0
	for _, r := range results {
		if r.parsed {
			parsed++
		}
		for _, o := range r.observations {
			o.Seq = len(obs)
			obs = append(obs, o)
		}
		warnings = append(warnings, r.warnings...)
	}
	return obs, parsed, warnings, nil
}

// process extracts one document. It never fails: problems become warnings.
func (p *Pipeline) process(in Input, matcher *extract.Matcher, log *zap.Logger) docResult {
	var res docResult
	log = log.With(zap.String("document", in.Name))

	if f := format.DetectBytes(in.Data); f != format.DOCX {
		log.Warn("unsupported document format", zap.Stringer("format", f))
		res.warnings = append(res.warnings, Warning{
			Code:    WarnUnsupportedFormat,
			Source:  in.Name,
			Message: fmt.Sprintf("expected a .docx document, got %s", f),
		})
		return res
	}

	r, err := docx.OpenBytes(in.Data)
	if err != nil {
		log.Warn("document skipped", zap.Error(err))
		res.warnings = append(res.warnings, Warning{
			Code:    WarnDocumentSkipped,
			Source:  in.Name,
			Message: err.Error(),
		})
		return res
	}
	defer r.Close()
	res.parsed = true

	doc := r.SourceDocument(in.Name)
	h := extract.LocateFields(doc, p.variant)
	res.observations = matcher.Observations(doc, h)

	if h.Date == "" {
		res.warnings = append(res.warnings, Warning{Code: WarnMissingDate, Source: in.Name, Message: "no shift date found"})
	}
	if h.Shift == "" {
		res.warnings = append(res.warnings, Warning{Code: WarnMissingShift, Source: in.Name, Message: "no shift type found"})
	}
	if len(res.observations) == 0 {
		res.warnings = append(res.warnings, Warning{Code: WarnNoObservations, Source: in.Name, Message: "no answered categories found"})
	}

	log.Debug("document extracted",
		zap.Int("tables", doc.TableCount()),
		zap.String("date", h.Date),
		zap.String("shift", h.Shift),
		zap.String("area", h.Area),
		zap.Int("observations", len(res.observations)),
	)
	return res
}

// Run parses the inputs, aggregates their observations and renders one
// output per selected layout. Per-document problems are returned as
// warnings; the error is non-nil for an invalid configuration, a
// cancelled context or a failure to encode an output (*WriteError).
func (p *Pipeline) Run(ctx context.Context, inputs ...Input) (*Report, []Warning, error) {
	if p.err != nil {
		return nil, nil, p.err
	}

	runID := uuid.NewString()
	log := p.options.logger.With(
		zap.String("run_id", runID),
		zap.String("variant", p.variant.Name),
	)
	if user := auth.UserFrom(ctx); user != "" {
		log = log.With(zap.String("user", user))
	}

	per, err := period.Resolve(p.options.week, p.options.year, p.options.now())
	if err != nil {
		return nil, nil, err
	}

	layouts, err := p.selectLayouts()
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	log.Info("run started", zap.Int("documents", len(inputs)), zap.Stringer("period", per))

	obs, parsed, warnings, err := p.extract(ctx, log, inputs)
	if err != nil {
		return nil, warnings, err
	}

	report := &Report{
		RunID:        runID,
		Variant:      p.variant.Name,
		Period:       per,
		Documents:    parsed,
		Observations: obs,
	}

	excluded := make(map[int]bool)
	for _, layout := range layouts {
		tree := aggregate.Build(obs, p.variant.Categories, layout.Levels, p.variant.DateFormat)
		for _, o := range tree.Excluded {
			if excluded[o.Seq] {
				continue
			}
			excluded[o.Seq] = true
			warnings = append(warnings, Warning{
				Code:    WarnDateExcluded,
				Source:  o.Source,
				Message: fmt.Sprintf("observation under %q has no usable date (%q)", o.Category, o.Date),
			})
		}

		blocks := render.Render(tree, layout, per, p.variant.DateFormat)
		name := variant.Expand(layout.FileName, per.Week, per.Year)
		title := blocks[0].Text

		var buf bytes.Buffer
		if err := docx.Write(&buf, blocks, docx.WriteOptions{
			Title:   title,
			Author:  p.options.author,
			Created: p.options.now(),
		}); err != nil {
			return nil, warnings, &WriteError{Name: name, Err: err}
		}

		report.Outputs = append(report.Outputs, Output{
			Name:   name,
			Tag:    layout.Tag,
			Blocks: blocks,
			Data:   buf.Bytes(),
		})
	}

	log.Info("run finished",
		zap.Int("parsed", parsed),
		zap.Int("observations", len(obs)),
		zap.Int("outputs", len(report.Outputs)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return report, warnings, nil
}

func (p *Pipeline) selectLayouts() ([]variant.Layout, error) {
	if len(p.options.layouts) == 0 {
		return p.variant.Layouts, nil
	}
	var out []variant.Layout
	for _, tag := range p.options.layouts {
		l, ok := p.variant.Layout(tag)
		if !ok {
			return nil, fmt.Errorf("%w %q for variant %s", variant.ErrUnknownLayout, tag, p.variant.Name)
		}
		out = append(out, l)
	}
	return out, nil
}
