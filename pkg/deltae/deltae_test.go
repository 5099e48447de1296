package deltae

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hellenic-development/design-extractor/pkg/colorspace"
	"github.com/hellenic-development/design-extractor/pkg/confidence"
)

// Reference pairs from Sharma, Wu and Dalal, "The CIEDE2000 Color-Difference Formula".
func TestCIEDE2000(t *testing.T) {
	tests := []struct {
		x, y colorspace.LAB
		want float64
	}{
		{colorspace.LAB{L: 50, A: 2.6772, B: -79.7751}, colorspace.LAB{L: 50, A: 0, B: -82.7485}, 2.0425},
		{colorspace.LAB{L: 50, A: 3.1571, B: -77.2803}, colorspace.LAB{L: 50, A: 0, B: -82.7485}, 2.8615},
		{colorspace.LAB{L: 50, A: 2.5, B: 0}, colorspace.LAB{L: 73, A: 25, B: -18}, 27.1492},
		{colorspace.LAB{L: 60.2574, A: -34.0099, B: 36.2677}, colorspace.LAB{L: 60.4626, A: -34.1751, B: 39.4387}, 1.2644},
		{colorspace.LAB{L: 50, A: -1, B: 2}, colorspace.LAB{L: 50, A: 0, B: 0}, 2.3669},
	}

	for _, tt := range tests {
		got := CIEDE2000(tt.x, tt.y)
		if diff := got - tt.want; diff > 0.0001 || diff < -0.0001 {
			t.Errorf("CIEDE2000(%v, %v) = %.4f, want %.4f", tt.x, tt.y, got, tt.want)
		}
		if back := CIEDE2000(tt.y, tt.x); back-got > 1e-9 || got-back > 1e-9 {
			t.Errorf("CIEDE2000 is not symmetric for %v, %v", tt.x, tt.y)
		}
	}
}

func TestIdentity(t *testing.T) {
	for _, lab := range []colorspace.LAB{{}, {L: 100}, {L: 55.6, A: 17.5, B: -64.4}, {L: 30, A: -20, B: 0}} {
		if d := CIEDE2000(lab, lab); d != 0 {
			t.Errorf("CIEDE2000(%v, %v) = %v, want 0", lab, lab, d)
		}
		if d := CIE76(lab, lab); d != 0 {
			t.Errorf("CIE76(%v, %v) = %v, want 0", lab, lab, d)
		}
	}
}

func TestCIE76(t *testing.T) {
	got := CIE76(colorspace.LAB{L: 0, A: 3, B: 0}, colorspace.LAB{L: 0, A: 0, B: 4})
	assert.InDelta(t, 5.0, got, 1e-9)
}

func TestHexDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"#FF0000", "#FE0101", 0.2097},
		{"#3B82F6", "#2563EB", 10.8765},
		{"#FFFFFF", "#F9FAFB", 1.2017},
		{"#111827", "#1F2937", 5.7387},
	}

	for _, tt := range tests {
		got, ok := HexDistance(tt.a, tt.b)
		require.True(t, ok)
		assert.InDelta(t, tt.want, got, 0.001, "%s vs %s", tt.a, tt.b)
	}

	_, ok := HexDistance("#FFFFFF", "not-a-color")
	assert.False(t, ok)
}

func TestDeduplicate(t *testing.T) {
	colors := []Cluster{
		{Hex: "#FF0000", Count: 5, Score: 3, Sources: []string{"color"}, Confidence: confidence.Low},
		{Hex: "#3B82F6", Count: 4, Score: 30, Sources: []string{"background-color"}, Confidence: confidence.High},
		{Hex: "#fe0101", Count: 2, Score: 8, Sources: []string{"border-top-color", "color"}, Confidence: confidence.Medium},
		{Hex: "#10B981", Count: 1, Sources: []string{"fill"}, Confidence: confidence.Low},
	}

	got := Deduplicate(colors, DefaultThreshold)
	require.Len(t, got, 3)

	red := got[0]
	assert.Equal(t, "#FF0000", red.Hex)
	assert.Equal(t, 7, red.Count)
	assert.Equal(t, 8, red.Score)
	assert.Equal(t, confidence.Medium, red.Confidence)
	assert.Equal(t, []string{"color", "border-top-color"}, red.Sources)
	assert.Equal(t, []string{"#FF0000", "#FE0101"}, red.Members)

	assert.Equal(t, "#3B82F6", got[1].Hex)
	assert.Equal(t, "#10B981", got[2].Hex)
}

func TestDeduplicateJoinsClosestCluster(t *testing.T) {
	// #2563EB is within 15 of both blues but closer to #1D4ED8.
	colors := []Cluster{
		{Hex: "#3B82F6", Count: 1},
		{Hex: "#1D4ED8", Count: 1},
		{Hex: "#2563EB", Count: 1},
	}

	d1, _ := HexDistance("#3B82F6", "#1D4ED8")
	require.GreaterOrEqual(t, d1, DefaultThreshold, "fixture assumes the two anchors stay apart")

	got := Deduplicate(colors, DefaultThreshold)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Count)
	assert.Equal(t, 2, got[1].Count)
	assert.Equal(t, "#1D4ED8", got[1].Hex)
}

func TestDeduplicateIdempotentAndCountPreserving(t *testing.T) {
	hexes := []string{
		"#FF0000", "#FE0101", "#F00000", "#3B82F6", "#2563EB", "#1D4ED8", "#60A5FA",
		"#FFFFFF", "#F9FAFB", "#F3F4F6", "#111827", "#1F2937", "#10B981", "#059669",
		"#not-a-color",
	}
	var input []Cluster
	total := 0
	for i, h := range hexes {
		input = append(input, Cluster{Hex: h, Count: i + 1})
		total += i + 1
	}

	once := Deduplicate(input, DefaultThreshold)
	twice := Deduplicate(once, DefaultThreshold)

	sum := 0
	for _, c := range once {
		sum += c.Count
	}
	assert.Equal(t, total, sum)

	require.Len(t, twice, len(once))
	for i := range once {
		assert.Equal(t, once[i].Hex, twice[i].Hex)
		assert.Equal(t, once[i].Count, twice[i].Count)
	}
}
