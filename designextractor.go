package designextractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hellenic-development/design-extractor/pkg/confidence"
	"github.com/hellenic-development/design-extractor/pkg/config"
	"github.com/hellenic-development/design-extractor/pkg/extractor"
	"github.com/hellenic-development/design-extractor/pkg/formatter"
	"github.com/hellenic-development/design-extractor/pkg/snapshot"
)

// Version is the release of the extraction engine.
const Version = "0.1.0"

// Options configures the extraction.
type Options struct {
	SnapshotPath   string           // page capture JSON
	ConfigPath     string           // TOML settings, empty = defaults
	Title          string           // markdown title, empty = page title or URL
	DedupThreshold float64          // overrides the config when > 0
	MinConfidence  confidence.Level // overrides the config when set
	Logger         Logger           // nil = no logging
}

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Result contains the extraction output.
type Result struct {
	DesignSystem *extractor.DesignSystem
	Markdown     string // formatted markdown output
	JSON         []byte // indented JSON document
}

func (o *Options) logInfo(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Infof(f, a...)
	}
}

func (o *Options) logWarn(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Warnf(f, a...)
	}
}

func (o *Options) logError(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Errorf(f, a...)
	}
}

// Run executes the extraction pipeline and returns the result.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.SnapshotPath == "" {
		return nil, fmt.Errorf("snapshot path is required")
	}

	cfg, err := loadConfig(&opts)
	if err != nil {
		return nil, err
	}

	opts.logInfo("Reading page capture %s...", opts.SnapshotPath)
	page, err := snapshot.Load(opts.SnapshotPath)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	opts.logInfo("Captured %d element(s) from %s", page.Len(), page.URL())

	opts.logInfo("Extracting design tokens...")
	ds, err := extractor.Extract(ctx, page, cfg.Extractor())
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	for _, w := range ds.Metadata.Warnings {
		opts.logWarn("%s", w)
	}
	for _, failure := range ds.ExtractionErrors() {
		opts.logWarn("%v", failure)
	}
	opts.logInfo("Overall confidence: %s (%dms)", ds.Metadata.OverallConfidence, ds.Metadata.DurationMs)

	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}

	title := opts.Title
	if title == "" {
		title = page.Title()
	}

	opts.logInfo("Generating markdown documentation...")
	markdown := formatter.ToMarkdown(ds, title)

	return &Result{
		DesignSystem: ds,
		Markdown:     markdown,
		JSON:         data,
	}, nil
}

func loadConfig(opts *Options) (*config.Config, error) {
	if opts.ConfigPath != "" {
		opts.logInfo("Loading settings from %s...", opts.ConfigPath)
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	overridden := false
	if opts.DedupThreshold > 0 {
		cfg.DedupThreshold = opts.DedupThreshold
		overridden = true
	}
	if opts.MinConfidence != "" {
		cfg.MinConfidence = confidence.Level(strings.ToLower(string(opts.MinConfidence)))
		overridden = true
	}
	if overridden {
		if err := cfg.Validate(); err != nil {
			opts.logError("Invalid option: %v", err)
			return nil, fmt.Errorf("invalid options: %w", err)
		}
	}
	return cfg, nil
}
