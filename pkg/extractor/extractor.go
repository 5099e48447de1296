package extractor

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hellenic-development/design-extractor/pkg/confidence"
	"github.com/hellenic-development/design-extractor/pkg/snapshot"
)

// Extractor is one category extractor. Run must only read from the snapshot.
type Extractor struct {
	Name string
	Run  func(snapshot.Snapshot, Config) (Section, error)
}

// ExtractionError records an extractor that failed or panicked. It is reported
// as data in the DesignSystem rather than failing the run.
type ExtractionError struct {
	Extractor string
	Message   string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s extractor: %s", e.Extractor, e.Message)
}

// DefaultExtractors returns every category extractor.
func DefaultExtractors() []Extractor {
	return []Extractor{
		{"colors", func(s snapshot.Snapshot, c Config) (Section, error) { return ExtractColors(s, c) }},
		{"typography", func(s snapshot.Snapshot, c Config) (Section, error) { return ExtractTypography(s, c) }},
		{"spacing", func(s snapshot.Snapshot, c Config) (Section, error) { return ExtractSpacing(s, c) }},
		{"borders", func(s snapshot.Snapshot, c Config) (Section, error) { return ExtractBorders(s, c) }},
		{"shadows", func(s snapshot.Snapshot, c Config) (Section, error) { return ExtractShadows(s, c) }},
		{"breakpoints", func(s snapshot.Snapshot, c Config) (Section, error) { return ExtractBreakpoints(s, c) }},
		{"components", func(s snapshot.Snapshot, c Config) (Section, error) { return ExtractComponents(s, c) }},
		{"frameworks", func(s snapshot.Snapshot, c Config) (Section, error) { return ExtractFrameworks(s, c) }},
		{"motion", func(s snapshot.Snapshot, c Config) (Section, error) { return ExtractMotion(s, c) }},
	}
}

// Extract runs every category extractor concurrently against snap and merges
// their sections into a DesignSystem. A failing extractor does not fail the
// run: its section is replaced by an error stub and the failure is listed in
// Metadata.Errors. The only error returned is ctx's, when the caller abandons
// the run before all extractors have finished.
func Extract(ctx context.Context, snap snapshot.Snapshot, cfg Config) (*DesignSystem, error) {
	return ExtractWith(ctx, snap, cfg, DefaultExtractors())
}

type outcome struct {
	section  Section
	err      *ExtractionError
	duration time.Duration
}

// ExtractWith is Extract with an explicit set of extractors.
func ExtractWith(ctx context.Context, snap snapshot.Snapshot, cfg Config, extractors []Extractor) (*DesignSystem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	outcomes := make([]outcome, len(extractors))

	g := new(errgroup.Group)
	if cfg.Concurrency > 0 {
		g.SetLimit(cfg.Concurrency)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i, ex := range extractors {
			g.Go(func() error {
				outcomes[i] = runExtractor(ex, snap, cfg)
				return nil
			})
		}
		_ = g.Wait()
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-done:
	}

	ds := &DesignSystem{
		Metadata: Metadata{
			RunID:       uuid.NewString(),
			ExtractedAt: start.UTC(),
			Extractors:  make(map[string]int64, len(extractors)),
		},
	}
	if p, ok := snap.(interface {
		URL() string
		Title() string
	}); ok {
		ds.Metadata.URL = p.URL()
		ds.Metadata.Title = p.Title()
	}
	if p, ok := snap.(interface{ Warnings() []string }); ok {
		ds.Metadata.Warnings = p.Warnings()
	}

	for i, ex := range extractors {
		o := outcomes[i]
		ds.Metadata.Extractors[ex.Name] = o.duration.Milliseconds()
		if o.err == nil {
			o.err = applySection(ds, ex.Name, o.section)
		}
		if o.err != nil {
			ds.setError(ex.Name, o.err.Message)
		}
	}

	ds.Metadata.OverallConfidence = confidence.Overall(ds.tokenLevels())
	ds.Metadata.DurationMs = time.Since(start).Milliseconds()
	return ds, nil
}

// runExtractor calls one extractor, converting returned errors and panics into
// an ExtractionError.
func runExtractor(ex Extractor, snap snapshot.Snapshot, cfg Config) (o outcome) {
	start := time.Now()
	defer func() {
		o.duration = time.Since(start)
		if r := recover(); r != nil {
			o.section = nil
			o.err = &ExtractionError{Extractor: ex.Name, Message: fmt.Sprintf("panic: %v", r)}
		}
	}()

	section, err := ex.Run(snap, cfg)
	if err != nil {
		return outcome{err: &ExtractionError{Extractor: ex.Name, Message: err.Error()}}
	}
	return outcome{section: section}
}

func applySection(ds *DesignSystem, name string, section Section) (failure *ExtractionError) {
	if section == nil {
		return &ExtractionError{Extractor: name, Message: "no result"}
	}
	defer func() {
		if r := recover(); r != nil {
			failure = &ExtractionError{Extractor: name, Message: fmt.Sprintf("panic: %v", r)}
		}
	}()
	section.apply(ds)
	return nil
}

// setError replaces the section(s) filled by the named extractor with an error stub.
func (ds *DesignSystem) setError(name, message string) {
	if ds.Metadata.Errors == nil {
		ds.Metadata.Errors = make(map[string]string)
	}
	ds.Metadata.Errors[name] = message

	switch name {
	case "colors":
		ds.Colors = ColorSection{Error: message}
	case "typography":
		ds.Typography = TypographySection{Error: message}
	case "spacing":
		ds.Spacing = SpacingSection{Error: message}
	case "borders":
		ds.Radii = RadiusSection{Error: message}
		ds.Borders = BorderSection{Error: message}
	case "shadows":
		ds.Shadows = ShadowSection{Error: message}
	case "breakpoints":
		ds.Breakpoints = BreakpointSection{Error: message}
	case "components":
		ds.Components = ComponentSection{Error: message}
	case "frameworks":
		ds.Frameworks = FrameworkSection{Error: message}
	case "motion":
		ds.Motion = MotionSection{Error: message}
	}
}

// ExtractionErrors lists the failed extractors sorted by name.
func (ds *DesignSystem) ExtractionErrors() []*ExtractionError {
	names := make([]string, 0, len(ds.Metadata.Errors))
	for name := range ds.Metadata.Errors {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*ExtractionError, 0, len(names))
	for _, name := range names {
		out = append(out, &ExtractionError{Extractor: name, Message: ds.Metadata.Errors[name]})
	}
	return out
}

// tokenLevels collects the confidence of every color, spacing, radius and shadow token.
func (ds *DesignSystem) tokenLevels() []confidence.Level {
	var levels []confidence.Level
	for _, t := range ds.Colors.Semantic {
		levels = append(levels, t.Confidence)
	}
	for _, t := range ds.Colors.Palette {
		levels = append(levels, t.Confidence)
	}
	for _, t := range ds.Spacing.Scale {
		levels = append(levels, t.Confidence)
	}
	for _, t := range ds.Radii.Scale {
		levels = append(levels, t.Confidence)
	}
	for _, t := range ds.Shadows.Scale {
		levels = append(levels, t.Confidence)
	}
	return levels
}
