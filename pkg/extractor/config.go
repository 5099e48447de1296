package extractor

import (
	"github.com/hellenic-development/design-extractor/pkg/confidence"
	"github.com/hellenic-development/design-extractor/pkg/deltae"
)

// Config tunes the extractors. The zero value is not usable; start from DefaultConfig.
type Config struct {
	Confidence confidence.Config

	// DedupThreshold is the CIEDE2000 distance under which colors are merged.
	DedupThreshold float64
	// PaletteMinConfidence is the lowest level a color needs to reach the palette.
	PaletteMinConfidence confidence.Level
	// ColorVariables are glob patterns selecting color custom properties;
	// IgnoredVariables exclude framework-internal ones.
	ColorVariables   []string
	IgnoredVariables []string

	SpacingHighCount   int
	SpacingMediumCount int

	// BreakpointTolerance is the largest distance, in px, between a media query
	// width and the standard breakpoint it is matched to.
	BreakpointTolerance float64

	MaxComponentGroups int
	MaxBorders         int
	MaxShadows         int
	MaxEasings         int

	// Concurrency caps the number of extractors running at once; 0 means no limit.
	Concurrency int
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Confidence:           confidence.DefaultConfig(),
		DedupThreshold:       deltae.DefaultThreshold,
		PaletteMinConfidence: confidence.Medium,
		ColorVariables: []string{
			"--color*", "--*-color*", "--bg*", "--background*",
			"--primary*", "--secondary*", "--accent*",
			"--text*", "--border*", "--brand*", "--foreground*",
			"--success*", "--warning*", "--error*", "--danger*", "--info*",
		},
		IgnoredVariables: []string{
			"--tw-*", "--bs-*", "--mui-*", "--chakra-*", "--ant-*", "--radix-*", "--wp-*",
		},
		SpacingHighCount:    10,
		SpacingMediumCount:  2,
		BreakpointTolerance: 48,
		MaxComponentGroups:  5,
		MaxBorders:          10,
		MaxShadows:          8,
		MaxEasings:          5,
	}
}
