// Package designextractor reverse-engineers a design system from a rendered
// web page and produces structured output (semantic colors, typography,
// spacing grid, radii, borders, shadows, breakpoints, component variants,
// detected frameworks, motion tokens, and a full markdown report).
//
// The CLI lives in cmd/design-extractor; this root package exposes the same
// pipeline as a Go API so that callers can embed extraction in their own
// tools without shelling out.
//
// # Import
//
// The module path contains a hyphen but Go package names cannot, so the
// package is named designextractor:
//
//	import "github.com/hellenic-development/design-extractor" // package designextractor
//
// # Quick start
//
// A page capture is a JSON document describing the rendered elements with
// their computed styles and the page stylesheets (see pkg/snapshot).
//
//	result, err := designextractor.Run(ctx, designextractor.Options{
//	    SnapshotPath: "capture.json",
//	    ConfigPath:   "design-extractor.toml",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("design.md", []byte(result.Markdown), 0644)
//
// # Logging
//
// Pass a [Logger] implementation in [Options.Logger] to receive progress
// messages. A nil Logger silences all output. Capture warnings and
// extractors that failed are reported through Warnf; they never fail the run.
//
//	type myLogger struct{}
//	func (l *myLogger) Infof(f string, a ...any)  { log.Printf("[INFO]  "+f, a...) }
//	func (l *myLogger) Warnf(f string, a ...any)  { log.Printf("[WARN]  "+f, a...) }
//	func (l *myLogger) Errorf(f string, a ...any) { log.Printf("[ERROR] "+f, a...) }
//
// # Settings
//
// Thresholds, confidence weights and top-N limits are read from an optional
// TOML file (see pkg/config) and the DESIGN_EXTRACTOR_* environment
// variables. [Options.DedupThreshold] and [Options.MinConfidence] take
// precedence over both.
package designextractor
