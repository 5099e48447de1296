package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hellenic-development/design-extractor/pkg/confidence"
)

func TestMapBreakpointsDefaults(t *testing.T) {
	section := MapBreakpoints(nil, 48, confidence.DefaultConfig())

	assert.Equal(t, "default", section.Source)
	assert.Empty(t, section.Detected)
	assert.Equal(t, map[string]Breakpoint{
		"sm": {Value: "640px", Px: 640, Confidence: confidence.Low},
		"md": {Value: "768px", Px: 768, Confidence: confidence.Low},
		"lg": {Value: "1024px", Px: 1024, Confidence: confidence.Low},
		"xl": {Value: "1280px", Px: 1280, Confidence: confidence.Low},
	}, section.Breakpoints)
}

func TestMapBreakpointsMatched(t *testing.T) {
	widths := []int{768, 768, 768, 1024, 992, 992, 1400}
	section := MapBreakpoints(widths, 48, confidence.DefaultConfig())

	assert.Equal(t, "matched", section.Source)
	assert.Equal(t, []int{768, 992, 1024, 1400}, section.Detected)

	md := section.Breakpoints["md"]
	assert.Equal(t, 768, md.Px)
	assert.Equal(t, 3, md.Count)
	assert.Equal(t, confidence.Medium, md.Confidence)

	// 992 is used twice, 1024 once: the more frequent width names lg.
	assert.Equal(t, 992, section.Breakpoints["lg"].Px)
	assert.Equal(t, 1400, section.Breakpoints["2xl"].Px)
	assert.NotContains(t, section.Breakpoints, "sm")
}

func TestMapBreakpointsDetected(t *testing.T) {
	section := MapBreakpoints([]int{2000, 2200}, 48, confidence.DefaultConfig())

	assert.Equal(t, "detected", section.Source)
	assert.Equal(t, 2000, section.Breakpoints["sm"].Px)
	assert.Equal(t, 2200, section.Breakpoints["md"].Px)
	assert.Len(t, section.Breakpoints, 2)
}

func TestExtractBreakpoints(t *testing.T) {
	css := `
@media (min-width: 768px) { .a { color: red; } }
@media screen and (max-width: 767.98px) { .b { color: blue; } }
@media (min-width: 1024px) and (max-width: 1279px) { .c { color: green; } }
@media (min-width: 100px) { .d { color: black; } }
@media print { .e { display: none; } }
`
	section, err := ExtractBreakpoints(pageWithCSS(css), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, "matched", section.Source)
	assert.Equal(t, []int{768, 1024, 1279}, section.Detected)
	assert.Equal(t, 2, section.Breakpoints["md"].Count)
	assert.Equal(t, 1024, section.Breakpoints["lg"].Px)
	assert.Equal(t, 1279, section.Breakpoints["xl"].Px)
}
