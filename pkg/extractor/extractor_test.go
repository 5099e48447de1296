package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hellenic-development/design-extractor/pkg/confidence"
	"github.com/hellenic-development/design-extractor/pkg/snapshot"
)

func fixturePage() *snapshot.Page {
	elements := []snapshot.CapturedElement{
		el("button.btn.cta", map[string]string{
			"background-color": "#3B82F6",
			"color":            "#FFFFFF",
			"padding-top":      "8px",
			"padding-left":     "16px",
			"border-radius":    "6px",
			"font-size":        "14px",
		}),
		el("a.nav-link", map[string]string{"color": "#3B82F6", "transition-duration": "150ms"}),
		el("h1", map[string]string{"font-size": "48px", "font-weight": "700", "margin-bottom": "16px"}),
		el("div.card", map[string]string{"box-shadow": "0 1px 2px rgba(0,0,0,.05)", "padding-top": "16px", "border-radius": "8px"}),
		el("div.card", map[string]string{"box-shadow": "0 1px 2px rgba(0,0,0,.05)", "padding-top": "16px", "border-radius": "8px"}),
		el("div.card", map[string]string{"box-shadow": "0 1px 2px rgba(0,0,0,.05)", "padding-top": "16px", "border-radius": "8px"}),
	}
	return snapshot.New(&snapshot.Capture{
		URL:         "https://example.test",
		Title:       "Example",
		Elements:    elements,
		Stylesheets: []snapshot.CapturedStylesheet{{CSS: "@media (min-width: 768px) { .a { color: red; } }"}, {Href: "https://cdn.example/x.css", CrossOrigin: true}},
	})
}

func TestExtract(t *testing.T) {
	ds, err := Extract(context.Background(), fixturePage(), DefaultConfig())
	require.NoError(t, err)

	_, err = uuid.Parse(ds.Metadata.RunID)
	assert.NoError(t, err)
	assert.Equal(t, "https://example.test", ds.Metadata.URL)
	assert.Equal(t, "Example", ds.Metadata.Title)
	assert.Len(t, ds.Metadata.Warnings, 1)
	assert.Empty(t, ds.Metadata.Errors)
	assert.Len(t, ds.Metadata.Extractors, len(DefaultExtractors()))
	assert.True(t, ds.Metadata.OverallConfidence.Valid())

	assert.Equal(t, "#3B82F6", ds.Colors.Semantic["primary"].Hex)
	assert.Equal(t, confidence.High, ds.Colors.Semantic["primary"].Confidence)
	assert.Contains(t, ds.Typography.Styles, "h1")
	assert.Equal(t, "8px", ds.Spacing.BaseUnit)
	assert.Equal(t, "6px", ds.Radii.Scale["md"].Value)
	assert.Len(t, ds.Shadows.All, 1)
	assert.Equal(t, "matched", ds.Breakpoints.Source)
	assert.NotEmpty(t, ds.Components.Buttons)
	assert.Equal(t, "150ms", ds.Motion.Durations["normal"].Value)
}

func TestExtractIsolatesFailures(t *testing.T) {
	extractors := DefaultExtractors()
	for i := range extractors {
		switch extractors[i].Name {
		case "shadows":
			extractors[i].Run = func(snapshot.Snapshot, Config) (Section, error) {
				var m map[string]int
				m["boom"]++
				return nil, nil
			}
		case "motion":
			extractors[i].Run = func(snapshot.Snapshot, Config) (Section, error) {
				return nil, errors.New("no animations")
			}
		case "breakpoints":
			extractors[i].Run = func(snapshot.Snapshot, Config) (Section, error) {
				return nil, nil
			}
		}
	}

	ds, err := ExtractWith(context.Background(), fixturePage(), DefaultConfig(), extractors)
	require.NoError(t, err)

	require.Len(t, ds.Metadata.Errors, 3)
	assert.Contains(t, ds.Shadows.Error, "panic")
	assert.Empty(t, ds.Shadows.All)
	assert.Equal(t, "no animations", ds.Motion.Error)
	assert.Equal(t, "no result", ds.Breakpoints.Error)

	// Other sections are unaffected.
	assert.Empty(t, ds.Colors.Error)
	assert.Equal(t, "#3B82F6", ds.Colors.Semantic["primary"].Hex)
	assert.NotEmpty(t, ds.Radii.Scale)

	failed := ds.ExtractionErrors()
	require.Len(t, failed, 3)
	assert.Equal(t, "breakpoints", failed[0].Extractor)
	assert.Equal(t, "motion extractor: no animations", failed[1].Error())
	assert.Equal(t, "shadows", failed[2].Extractor)

	data, err := json.Marshal(ds)
	require.NoError(t, err)
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.JSONEq(t, `{"error":"no animations"}`, string(decoded["motion"]))
}

func TestExtractBorderFailureStubsBothSections(t *testing.T) {
	extractors := []Extractor{{
		Name: "borders",
		Run: func(snapshot.Snapshot, Config) (Section, error) {
			return nil, errors.New("bad radius")
		},
	}}

	ds, err := ExtractWith(context.Background(), fixturePage(), DefaultConfig(), extractors)
	require.NoError(t, err)
	assert.Equal(t, "bad radius", ds.Radii.Error)
	assert.Equal(t, "bad radius", ds.Borders.Error)
}

func TestExtractCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ds, err := Extract(ctx, fixturePage(), DefaultConfig())
	assert.Nil(t, ds)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractAbandonedOnDeadline(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	extractors := []Extractor{{
		Name: "colors",
		Run: func(snapshot.Snapshot, Config) (Section, error) {
			<-release
			return &ColorSection{}, nil
		},
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	ds, err := ExtractWith(ctx, fixturePage(), DefaultConfig(), extractors)
	assert.Nil(t, ds)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExtractConcurrencyLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Concurrency = 1

	ds, err := Extract(context.Background(), fixturePage(), cfg)
	require.NoError(t, err)
	assert.Empty(t, ds.Metadata.Errors)
	assert.Equal(t, "#3B82F6", ds.Colors.Semantic["primary"].Hex)
}

func TestExtractLayeredStylesheet(t *testing.T) {
	base := `
@media (min-width: 768px) { .a { color: red; } }
@media (min-width: 1024px) { .b { color: red; } }
.btn:hover { background-color: #2563eb; }
`
	tests := []struct {
		name string
		css  string
	}{
		{"plain", base},
		{"with layer", base + `@layer components { .card { padding: 1rem; } }`},
		{"with container", base + `@container (min-width: 400px) { .card { padding: 1rem; } }`},
		{"with nesting", base + `.card { padding: 1rem; &:hover { padding: 2rem; } }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := pageWithCSS(tt.css, el("button.btn", map[string]string{"background-color": "#3B82F6"}))
			assert.Empty(t, page.Warnings())

			bps, err := ExtractBreakpoints(page, DefaultConfig())
			require.NoError(t, err)
			assert.Equal(t, "matched", bps.Source)
			assert.Equal(t, []int{768, 1024}, bps.Detected)

			components, err := ExtractComponents(page, DefaultConfig())
			require.NoError(t, err)
			require.NotEmpty(t, components.Buttons)
			assert.Equal(t, map[string]string{"background-color": "#2563eb"}, components.Buttons[0].States[":hover"])
		})
	}
}
