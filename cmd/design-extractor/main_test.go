package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hellenic-development/design-extractor/pkg/confidence"
	"github.com/hellenic-development/design-extractor/pkg/extractor"
)

func TestRenderSwatches(t *testing.T) {
	ds := &extractor.DesignSystem{Colors: extractor.ColorSection{
		Semantic: map[string]extractor.ColorToken{
			"text":    {Hex: "#111827", Count: 9, Confidence: confidence.High},
			"primary": {Hex: "#3B82F6", Count: 4, Confidence: confidence.Medium},
		},
		Palette: []extractor.ColorToken{{Hex: "#F97316", Count: 2, Confidence: confidence.Low}},
	}}

	out := renderSwatches(ds)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "primary")
	assert.Contains(t, lines[0], "#3B82F6")
	assert.Contains(t, lines[1], "text")
	assert.Contains(t, lines[2], "palette-1")
	assert.Contains(t, lines[2], "2 uses, low")

	assert.Empty(t, renderSwatches(&extractor.DesignSystem{}))
}

func TestWatchSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- watchSnapshot(ctx, path, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// Keep writing until the watcher is registered and reports a change.
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for waiting := true; waiting; {
		select {
		case <-changed:
			waiting = false
		case <-ticker.C:
			require.NoError(t, os.WriteFile(path, []byte(`{"title":"x"}`), 0o644))
		case <-ctx.Done():
			t.Fatal("no change reported")
		}
	}

	cancel()
	assert.NoError(t, <-done)
}
