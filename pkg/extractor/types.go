package extractor

import (
	"time"

	"github.com/hellenic-development/design-extractor/pkg/colorspace"
	"github.com/hellenic-development/design-extractor/pkg/confidence"
)

// DesignSystem is the document produced by one extraction run. Every section
// is filled by one extractor; a section whose extractor failed carries only Error.
type DesignSystem struct {
	Metadata    Metadata          `json:"metadata"`
	Colors      ColorSection      `json:"colors"`
	Typography  TypographySection `json:"typography"`
	Spacing     SpacingSection    `json:"spacing"`
	Radii       RadiusSection     `json:"radii"`
	Borders     BorderSection     `json:"borders"`
	Shadows     ShadowSection     `json:"shadows"`
	Breakpoints BreakpointSection `json:"breakpoints"`
	Components  ComponentSection  `json:"components"`
	Frameworks  FrameworkSection  `json:"frameworks"`
	Motion      MotionSection     `json:"motion"`
}

// Metadata describes the run that produced a DesignSystem.
type Metadata struct {
	RunID             string            `json:"runId"`
	URL               string            `json:"url,omitempty"`
	Title             string            `json:"title,omitempty"`
	ExtractedAt       time.Time         `json:"extractedAt"`
	DurationMs        int64             `json:"durationMs"`
	Extractors        map[string]int64  `json:"extractors"`
	Errors            map[string]string `json:"errors,omitempty"`
	Warnings          []string          `json:"warnings,omitempty"`
	OverallConfidence confidence.Level  `json:"overallConfidence"`
}

// Token is a single named design value such as a spacing step, radius or duration.
type Token struct {
	Value      string           `json:"value"`
	Usage      string           `json:"usage,omitempty"`
	Count      int              `json:"count"`
	Confidence confidence.Level `json:"confidence"`
}

// ColorToken is a color aggregated from every sample perceptually equal to Hex.
type ColorToken struct {
	Hex        string           `json:"hex"`
	RGB        string           `json:"rgb"`
	LCH        colorspace.LCH   `json:"lch"`
	OKLCH      colorspace.OKLCH `json:"oklch"`
	Usage      string           `json:"usage,omitempty"`
	Variable   string           `json:"variable,omitempty"`
	Count      int              `json:"count"`
	Score      int              `json:"score,omitempty"`
	Sources    []string         `json:"sources,omitempty"`
	Elements   []string         `json:"elements,omitempty"`
	Confidence confidence.Level `json:"confidence"`
}

// ColorSection holds the semantic color slots, the remaining ranked palette and
// the color custom properties declared on the root scopes.
type ColorSection struct {
	Semantic  map[string]ColorToken `json:"semantic,omitempty"`
	Palette   []ColorToken          `json:"palette,omitempty"`
	Variables map[string]string     `json:"variables,omitempty"`
	Error     string                `json:"error,omitempty"`
}

// TypographyStyle is the majority style of one semantic text role.
type TypographyStyle struct {
	FontSize      string           `json:"fontSize"`
	FontWeight    string           `json:"fontWeight"`
	LineHeight    string           `json:"lineHeight"`
	LetterSpacing string           `json:"letterSpacing,omitempty"`
	FontFamily    string           `json:"fontFamily,omitempty"`
	TextTransform string           `json:"textTransform,omitempty"`
	Samples       int              `json:"samples"`
	Confidence    confidence.Level `json:"confidence"`
}

// FontFamilies names the primary heading, body and monospace families.
type FontFamilies struct {
	Heading string `json:"heading,omitempty"`
	Body    string `json:"body,omitempty"`
	Mono    string `json:"mono,omitempty"`
}

// FontSource is a web font the page loads.
type FontSource struct {
	Family   string   `json:"family,omitempty"`
	Provider string   `json:"provider"` // google, typekit or custom
	Weights  []string `json:"weights,omitempty"`
	Variable bool     `json:"variable,omitempty"`
	URL      string   `json:"url,omitempty"`
}

// TypographySection is the result of the typography extractor.
type TypographySection struct {
	Styles   map[string]TypographyStyle `json:"styles,omitempty"`
	Families FontFamilies               `json:"families"`
	Sources  []FontSource               `json:"sources,omitempty"`
	Error    string                     `json:"error,omitempty"`
}

// SpacingSection is the detected spacing grid.
type SpacingSection struct {
	BaseUnit   string           `json:"baseUnit,omitempty"`
	Scale      map[string]Token `json:"scale,omitempty"`
	Values     []Token          `json:"values,omitempty"`
	Components map[string]Token `json:"components,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// RadiusSection is the border-radius scale and the typical radius per element kind.
type RadiusSection struct {
	Scale     map[string]Token `json:"scale,omitempty"`
	ByElement map[string]Token `json:"byElement,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// BorderStyle is one width/style/color combination.
type BorderStyle struct {
	Width      string           `json:"width"`
	Style      string           `json:"style"`
	Color      string           `json:"color"`
	Count      int              `json:"count"`
	Confidence confidence.Level `json:"confidence"`
}

// BorderSection lists the most used border combinations.
type BorderSection struct {
	Styles []BorderStyle `json:"styles,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// ShadowToken is a normalized box-shadow value.
type ShadowToken struct {
	Value      string           `json:"value"`
	Elevation  float64          `json:"elevation"`
	Count      int              `json:"count"`
	Confidence confidence.Level `json:"confidence"`
}

// ShadowSection holds the elevation scale and every distinct shadow.
type ShadowSection struct {
	Scale map[string]ShadowToken `json:"scale,omitempty"`
	All   []ShadowToken          `json:"all,omitempty"`
	Error string                 `json:"error,omitempty"`
}

// Breakpoint is a named responsive width.
type Breakpoint struct {
	Value      string           `json:"value"`
	Px         int              `json:"px"`
	Count      int              `json:"count"`
	Confidence confidence.Level `json:"confidence"`
}

// BreakpointSection holds the named breakpoints and every width seen in media queries.
// Source is "matched", "detected" or "default".
type BreakpointSection struct {
	Breakpoints map[string]Breakpoint `json:"breakpoints,omitempty"`
	Detected    []int                 `json:"detected,omitempty"`
	Source      string                `json:"source,omitempty"`
	Error       string                `json:"error,omitempty"`
}

// ComponentVariant is one group of visually identical components, for example
// all buttons sharing a background color.
type ComponentVariant struct {
	Key        string                       `json:"key"`
	Count      int                          `json:"count"`
	Styles     map[string]string            `json:"styles"`
	States     map[string]map[string]string `json:"states,omitempty"`
	Confidence confidence.Level             `json:"confidence"`
}

// ComponentSection holds the variants of each component kind.
type ComponentSection struct {
	Buttons []ComponentVariant `json:"buttons,omitempty"`
	Inputs  []ComponentVariant `json:"inputs,omitempty"`
	Links   []ComponentVariant `json:"links,omitempty"`
	Badges  []ComponentVariant `json:"badges,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// Detection is a framework, icon system or naming methodology found on the page.
type Detection struct {
	Name       string           `json:"name"`
	Evidence   int              `json:"evidence"`
	Examples   []string         `json:"examples,omitempty"`
	Confidence confidence.Level `json:"confidence"`
}

// FrameworkSection lists detected CSS/JS frameworks, icon systems and methodologies.
type FrameworkSection struct {
	Frameworks    []Detection `json:"frameworks,omitempty"`
	Icons         []Detection `json:"icons,omitempty"`
	Methodologies []Detection `json:"methodologies,omitempty"`
	Error         string      `json:"error,omitempty"`
}

// MotionSection holds duration tokens and common easing functions.
type MotionSection struct {
	Durations map[string]Token `json:"durations,omitempty"`
	Values    []Token          `json:"values,omitempty"`
	Easings   []Token          `json:"easings,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// Section is the result of one extractor. apply copies it into ds.
type Section interface {
	apply(ds *DesignSystem)
}

func (s *ColorSection) apply(ds *DesignSystem)      { ds.Colors = *s }
func (s *TypographySection) apply(ds *DesignSystem) { ds.Typography = *s }
func (s *SpacingSection) apply(ds *DesignSystem)    { ds.Spacing = *s }
func (s *ShadowSection) apply(ds *DesignSystem)     { ds.Shadows = *s }
func (s *BreakpointSection) apply(ds *DesignSystem) { ds.Breakpoints = *s }
func (s *ComponentSection) apply(ds *DesignSystem)  { ds.Components = *s }
func (s *FrameworkSection) apply(ds *DesignSystem)  { ds.Frameworks = *s }
func (s *MotionSection) apply(ds *DesignSystem)     { ds.Motion = *s }

// BorderResult carries both outputs of the borders extractor.
type BorderResult struct {
	Radii   RadiusSection
	Borders BorderSection
}

func (s *BorderResult) apply(ds *DesignSystem) {
	ds.Radii = s.Radii
	ds.Borders = s.Borders
}
