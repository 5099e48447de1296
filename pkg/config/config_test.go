package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hellenic-development/design-extractor/pkg/confidence"
	"github.com/hellenic-development/design-extractor/pkg/extractor"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "design-extractor.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultRoundTrip(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, extractor.DefaultConfig(), cfg.Extractor())
}

func TestLoadFromPath(t *testing.T) {
	path := writeConfig(t, `
dedup_threshold = 10.5
min_confidence = "High"
concurrency = 4

[colors]
ignored_variables = ["--tw-*"]

[confidence]
high_score = 30

[confidence.tag_weights]
button = 5
summary = 1

[[confidence.keywords]]
match = "brand"
weight = 7

[limits]
shadows = 4
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, 10.5, cfg.DedupThreshold)
	assert.Equal(t, confidence.High, cfg.MinConfidence)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, []string{"--tw-*"}, cfg.Colors.IgnoredVariables)
	assert.Equal(t, 30, cfg.Confidence.HighScore)
	assert.Equal(t, 5, cfg.Confidence.MediumScore, "unset keys keep their default")
	assert.Equal(t, 5, cfg.Confidence.TagWeights["button"])
	assert.Equal(t, 1, cfg.Confidence.TagWeights["summary"])
	assert.Equal(t, 2, cfg.Confidence.TagWeights["a"], "weight tables merge with the defaults")
	assert.Equal(t, []confidence.Keyword{{Match: "brand", Weight: 7}}, cfg.Confidence.Keywords)
	assert.Equal(t, 4, cfg.Limits.Shadows)
	assert.Equal(t, 10, cfg.Limits.Borders)

	ec := cfg.Extractor()
	assert.Equal(t, 10.5, ec.DedupThreshold)
	assert.Equal(t, 4, ec.MaxShadows)
	assert.Equal(t, 30, ec.Confidence.HighScore)
}

func TestLoadFromPathErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax error", `dedup_threshold = `},
		{"unknown key", "dedup_treshold = 10\n"},
		{"wrong type", `dedup_threshold = "ten"`},
		{"invalid value", `min_confidence = "certain"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromPath(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv(EnvDedupThreshold, "12")
	t.Setenv(EnvMinConfidence, " LOW ")
	t.Setenv(EnvBreakpointTolerance, "32")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnvOverrides())
	assert.Equal(t, 12.0, cfg.DedupThreshold)
	assert.Equal(t, confidence.Low, cfg.MinConfidence)
	assert.Equal(t, 32.0, cfg.BreakpointTolerance)

	t.Setenv(EnvDedupThreshold, "twelve")
	assert.Error(t, Default().ApplyEnvOverrides())
}

func TestLoadWithoutPath(t *testing.T) {
	t.Setenv(EnvMinConfidence, "high")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, confidence.High, cfg.MinConfidence)

	t.Setenv(EnvMinConfidence, "maybe")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		field   string
	}{
		{
			name:   "valid default config",
			config: Default(),
		},
		{
			name: "negative dedup threshold",
			config: func() *Config {
				c := Default()
				c.DedupThreshold = -1
				return c
			}(),
			wantErr: true,
			field:   "dedup_threshold",
		},
		{
			name: "invalid min confidence",
			config: func() *Config {
				c := Default()
				c.MinConfidence = "sure"
				return c
			}(),
			wantErr: true,
			field:   "min_confidence",
		},
		{
			name: "inverted score thresholds",
			config: func() *Config {
				c := Default()
				c.Confidence.HighScore = 5
				c.Confidence.MediumScore = 20
				return c
			}(),
			wantErr: true,
			field:   "confidence.high_score",
		},
		{
			name: "zero medium count",
			config: func() *Config {
				c := Default()
				c.Spacing.MediumCount = 0
				return c
			}(),
			wantErr: true,
			field:   "spacing.high_count",
		},
		{
			name: "zero shadow limit",
			config: func() *Config {
				c := Default()
				c.Limits.Shadows = 0
				return c
			}(),
			wantErr: true,
			field:   "limits.shadows",
		},
		{
			name: "empty keyword",
			config: func() *Config {
				c := Default()
				c.Confidence.Keywords = append(c.Confidence.Keywords, confidence.Keyword{Weight: 3})
				return c
			}(),
			wantErr: true,
			field:   "confidence.keywords[16].match",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			var errs ValidateErrors
			require.ErrorAs(t, err, &errs)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}
}
