// Package config loads extraction settings from TOML files and environment
// variables and converts them to an extractor.Config.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/hellenic-development/design-extractor/pkg/confidence"
	"github.com/hellenic-development/design-extractor/pkg/extractor"
)

// Environment variables read by ApplyEnvOverrides.
const (
	EnvDedupThreshold      = "DESIGN_EXTRACTOR_DEDUP_THRESHOLD"
	EnvMinConfidence       = "DESIGN_EXTRACTOR_MIN_CONFIDENCE"
	EnvBreakpointTolerance = "DESIGN_EXTRACTOR_BREAKPOINT_TOLERANCE"
)

// Config is the file representation of the extraction settings.
type Config struct {
	// DedupThreshold is the CIEDE2000 distance under which colors merge.
	DedupThreshold float64 `toml:"dedup_threshold"`
	// MinConfidence is the lowest confidence a color needs to reach the palette.
	MinConfidence       confidence.Level `toml:"min_confidence"`
	BreakpointTolerance float64          `toml:"breakpoint_tolerance"`
	Concurrency         int              `toml:"concurrency"`

	Colors     ColorsConfig     `toml:"colors"`
	Confidence ConfidenceConfig `toml:"confidence"`
	Spacing    SpacingConfig    `toml:"spacing"`
	Limits     LimitsConfig     `toml:"limits"`
}

// ColorsConfig selects the custom properties read as colors.
type ColorsConfig struct {
	Variables        []string `toml:"variables"`
	IgnoredVariables []string `toml:"ignored_variables"`
}

// ConfidenceConfig holds the scoring tables and level thresholds.
type ConfidenceConfig struct {
	TagWeights     map[string]int       `toml:"tag_weights"`
	RoleWeights    map[string]int       `toml:"role_weights"`
	Keywords       []confidence.Keyword `toml:"keywords"`
	ButtonBoost    int                  `toml:"button_boost"`
	WhiteThreshold float64              `toml:"white_threshold"`
	BlackThreshold float64              `toml:"black_threshold"`
	HighScore      int                  `toml:"high_score"`
	MediumScore    int                  `toml:"medium_score"`
	HighCount      int                  `toml:"high_count"`
	MediumCount    int                  `toml:"medium_count"`
}

// SpacingConfig holds the count thresholds of spacing tokens.
type SpacingConfig struct {
	HighCount   int `toml:"high_count"`
	MediumCount int `toml:"medium_count"`
}

// LimitsConfig caps the number of entries reported per list.
type LimitsConfig struct {
	ComponentGroups int `toml:"component_groups"`
	Borders         int `toml:"borders"`
	Shadows         int `toml:"shadows"`
	Easings         int `toml:"easings"`
}

// Default returns the built-in settings.
func Default() *Config {
	return FromExtractor(extractor.DefaultConfig())
}

// FromExtractor converts an extractor.Config to its file representation.
func FromExtractor(ec extractor.Config) *Config {
	cc := ec.Confidence
	return &Config{
		DedupThreshold:      ec.DedupThreshold,
		MinConfidence:       ec.PaletteMinConfidence,
		BreakpointTolerance: ec.BreakpointTolerance,
		Concurrency:         ec.Concurrency,
		Colors: ColorsConfig{
			Variables:        append([]string(nil), ec.ColorVariables...),
			IgnoredVariables: append([]string(nil), ec.IgnoredVariables...),
		},
		Confidence: ConfidenceConfig{
			TagWeights:     copyWeights(cc.TagWeights),
			RoleWeights:    copyWeights(cc.RoleWeights),
			Keywords:       append([]confidence.Keyword(nil), cc.Keywords...),
			ButtonBoost:    cc.ButtonBoost,
			WhiteThreshold: cc.WhiteThreshold,
			BlackThreshold: cc.BlackThreshold,
			HighScore:      cc.HighScore,
			MediumScore:    cc.MediumScore,
			HighCount:      cc.HighCount,
			MediumCount:    cc.MediumCount,
		},
		Spacing: SpacingConfig{
			HighCount:   ec.SpacingHighCount,
			MediumCount: ec.SpacingMediumCount,
		},
		Limits: LimitsConfig{
			ComponentGroups: ec.MaxComponentGroups,
			Borders:         ec.MaxBorders,
			Shadows:         ec.MaxShadows,
			Easings:         ec.MaxEasings,
		},
	}
}

// Extractor returns the extractor.Config described by c.
func (c *Config) Extractor() extractor.Config {
	return extractor.Config{
		Confidence: confidence.Config{
			TagWeights:     copyWeights(c.Confidence.TagWeights),
			RoleWeights:    copyWeights(c.Confidence.RoleWeights),
			Keywords:       append([]confidence.Keyword(nil), c.Confidence.Keywords...),
			ButtonBoost:    c.Confidence.ButtonBoost,
			WhiteThreshold: c.Confidence.WhiteThreshold,
			BlackThreshold: c.Confidence.BlackThreshold,
			HighScore:      c.Confidence.HighScore,
			MediumScore:    c.Confidence.MediumScore,
			HighCount:      c.Confidence.HighCount,
			MediumCount:    c.Confidence.MediumCount,
		},
		DedupThreshold:       c.DedupThreshold,
		PaletteMinConfidence: c.MinConfidence,
		ColorVariables:       append([]string(nil), c.Colors.Variables...),
		IgnoredVariables:     append([]string(nil), c.Colors.IgnoredVariables...),
		SpacingHighCount:     c.Spacing.HighCount,
		SpacingMediumCount:   c.Spacing.MediumCount,
		BreakpointTolerance:  c.BreakpointTolerance,
		MaxComponentGroups:   c.Limits.ComponentGroups,
		MaxBorders:           c.Limits.Borders,
		MaxShadows:           c.Limits.Shadows,
		MaxEasings:           c.Limits.Easings,
		Concurrency:          c.Concurrency,
	}
}

func copyWeights(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// LoadTOML decodes the TOML file at path over cfg. Keys missing from the file
// keep their current value; weight tables are merged key by key. Unknown keys
// are an error so that typos do not go unnoticed.
func LoadTOML(cfg *Config, path string) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	cfg.MinConfidence = confidence.Level(strings.ToLower(string(cfg.MinConfidence)))
	return nil
}

// Load returns the settings from path, or the defaults when path is empty,
// with environment overrides applied and validated.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFromPath(path)
	}
	cfg := Default()
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads the TOML file at path over the defaults, applies
// environment overrides and validates the result.
func LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
	}
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnvOverrides applies the environment variables:
//   - DESIGN_EXTRACTOR_DEDUP_THRESHOLD: overrides dedup_threshold
//   - DESIGN_EXTRACTOR_MIN_CONFIDENCE: overrides min_confidence
//   - DESIGN_EXTRACTOR_BREAKPOINT_TOLERANCE: overrides breakpoint_tolerance
func (c *Config) ApplyEnvOverrides() error {
	if v := os.Getenv(EnvDedupThreshold); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDedupThreshold, err)
		}
		c.DedupThreshold = f
	}

	if v := os.Getenv(EnvMinConfidence); v != "" {
		c.MinConfidence = confidence.Level(strings.ToLower(strings.TrimSpace(v)))
	}

	if v := os.Getenv(EnvBreakpointTolerance); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBreakpointTolerance, err)
		}
		c.BreakpointTolerance = f
	}
	return nil
}

// ValidationError is one invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is every invalid setting found by Validate.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate reports every setting that would make extraction meaningless.
func (c *Config) Validate() error {
	var errs ValidateErrors
	fail := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.DedupThreshold < 0 || c.DedupThreshold > 100 {
		fail("dedup_threshold", "must be between 0 and 100, got %v", c.DedupThreshold)
	}
	if !c.MinConfidence.Valid() {
		fail("min_confidence", "invalid level %q, must be one of: high, medium, low", c.MinConfidence)
	}
	if c.BreakpointTolerance < 0 {
		fail("breakpoint_tolerance", "must not be negative, got %v", c.BreakpointTolerance)
	}
	if c.Concurrency < 0 {
		fail("concurrency", "must not be negative, got %d", c.Concurrency)
	}

	cc := c.Confidence
	if cc.MediumScore < 0 || cc.HighScore <= cc.MediumScore {
		fail("confidence.high_score", "must be greater than medium_score (%d) and medium_score must not be negative", cc.MediumScore)
	}
	if cc.MediumCount < 1 || cc.HighCount <= cc.MediumCount {
		fail("confidence.high_count", "must be greater than medium_count (%d) and medium_count must be at least 1", cc.MediumCount)
	}
	if cc.ButtonBoost < 0 {
		fail("confidence.button_boost", "must not be negative, got %d", cc.ButtonBoost)
	}
	if cc.BlackThreshold < 0 || cc.WhiteThreshold > 100 || cc.BlackThreshold >= cc.WhiteThreshold {
		fail("confidence.white_threshold", "lightness thresholds must satisfy 0 <= black < white <= 100")
	}
	for i, kw := range cc.Keywords {
		if strings.TrimSpace(kw.Match) == "" {
			fail(fmt.Sprintf("confidence.keywords[%d].match", i), "must not be empty")
		}
	}

	if c.Spacing.MediumCount < 1 || c.Spacing.HighCount <= c.Spacing.MediumCount {
		fail("spacing.high_count", "must be greater than medium_count (%d) and medium_count must be at least 1", c.Spacing.MediumCount)
	}

	for field, v := range map[string]int{
		"limits.component_groups": c.Limits.ComponentGroups,
		"limits.borders":          c.Limits.Borders,
		"limits.shadows":          c.Limits.Shadows,
		"limits.easings":          c.Limits.Easings,
	} {
		if v < 1 {
			fail(field, "must be at least 1, got %d", v)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	sort.Slice(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })
	return errs
}
