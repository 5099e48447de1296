package colorspace

import (
	"math"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		alpha float64
		ok    bool
	}{
		{name: "6-digit hex", input: "#3b82f6", want: "#3B82F6", alpha: 1, ok: true},
		{name: "3-digit hex", input: "#fff", want: "#FFFFFF", alpha: 1, ok: true},
		{name: "8-digit hex", input: "#00000080", want: "#000000", alpha: 0.502, ok: true},
		{name: "4-digit hex", input: "#f00f", want: "#FF0000", alpha: 1, ok: true},
		{name: "rgb", input: "rgb(59, 130, 246)", want: "#3B82F6", alpha: 1, ok: true},
		{name: "rgba", input: "rgba(0, 0, 0, 0.1)", want: "#000000", alpha: 0.1, ok: true},
		{name: "space syntax", input: "rgb(59 130 246 / 50%)", want: "#3B82F6", alpha: 0.5, ok: true},
		{name: "percent channels", input: "rgb(100%, 0%, 0%)", want: "#FF0000", alpha: 1, ok: true},
		{name: "hsl red", input: "hsl(0, 100%, 50%)", want: "#FF0000", alpha: 1, ok: true},
		{name: "hsl green", input: "hsl(120deg 100% 25%)", want: "#008000", alpha: 1, ok: true},
		{name: "hsla", input: "hsla(240, 100%, 50%, 0.5)", want: "#0000FF", alpha: 0.5, ok: true},
		{name: "named", input: "White", want: "#FFFFFF", alpha: 1, ok: true},
		{name: "transparent", input: "transparent", ok: false},
		{name: "currentcolor", input: "currentColor", ok: false},
		{name: "garbage", input: "rgb(1, 2)", ok: false},
		{name: "bad hex", input: "#12345", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseColor(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseColor(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if !ok {
				return
			}
			if hex := got.Hex(); hex != tt.want {
				t.Errorf("ParseColor(%q) = %s, want %s", tt.input, hex, tt.want)
			}
			if math.Abs(got.A-tt.alpha) > 0.001 {
				t.Errorf("ParseColor(%q) alpha = %v, want %v", tt.input, got.A, tt.alpha)
			}
		})
	}
}

func TestNormalizeToHex(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"#abc", "#AABBCC", true},
		{"rgb(255, 255, 255)", "#FFFFFF", true},
		{"rgba(59, 130, 246, 0)", "", false},
		{"transparent", "", false},
		{"inherit", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeToHex(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("NormalizeToHex(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	for _, hex := range []string{"#000000", "#FFFFFF", "#3B82F6", "#10B981", "#F59E0B", "#0A0B0C", "#7F7F80"} {
		rgb, ok := HexToRGB(hex)
		require.True(t, ok, hex)

		got, ok := NormalizeToHex(FormatRGBString(rgb))
		require.True(t, ok, hex)
		assert.Equal(t, hex, got)
	}
}

func TestFormatRGBString(t *testing.T) {
	assert.Equal(t, "rgb(59, 130, 246)", FormatRGBString(RGB{R: 59, G: 130, B: 246, A: 1}))
	assert.Equal(t, "rgba(0, 0, 0, 0.25)", FormatRGBString(RGB{A: 0.25}))
}

func TestRGBToLAB(t *testing.T) {
	tests := []struct {
		hex  string
		want LAB
	}{
		{"#FF0000", LAB{L: 53.233, A: 80.109, B: 67.220}},
		{"#3B82F6", LAB{L: 55.633, A: 17.553, B: -64.429}},
		{"#000000", LAB{}},
		{"#FFFFFF", LAB{L: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			rgb, ok := HexToRGB(tt.hex)
			require.True(t, ok)
			got := RGBToLAB(rgb)
			assert.InDelta(t, tt.want.L, got.L, 0.01)
			assert.InDelta(t, tt.want.A, got.A, 0.02)
			assert.InDelta(t, tt.want.B, got.B, 0.02)
		})
	}
}

// go-colorful uses a more precise sRGB matrix; the two should agree closely.
func TestRGBToLABMatchesColorful(t *testing.T) {
	for _, hex := range []string{"#3B82F6", "#EF4444", "#10B981", "#6B7280", "#F59E0B"} {
		ref, err := colorful.Hex(hex)
		require.NoError(t, err)
		l, a, b := ref.Lab()

		rgb, _ := HexToRGB(hex)
		got := RGBToLAB(rgb)
		assert.InDelta(t, l*100, got.L, 0.5, hex)
		assert.InDelta(t, a*100, got.A, 0.5, hex)
		assert.InDelta(t, b*100, got.B, 0.5, hex)
	}
}

func TestRGBToOKLCH(t *testing.T) {
	white := RGBToOKLCH(RGB{R: 255, G: 255, B: 255, A: 1})
	assert.InDelta(t, 1.0, white.L, 0.001)
	assert.InDelta(t, 0.0, white.C, 0.001)

	red := RGBToOKLCH(RGB{R: 255, A: 1}).Rounded(3)
	assert.InDelta(t, 0.628, red.L, 0.002)
	assert.InDelta(t, 0.258, red.C, 0.002)
	assert.InDelta(t, 29.23, red.H, 0.1)
}

func TestClassification(t *testing.T) {
	tests := []struct {
		hex      string
		category Category
		white    bool
		black    bool
	}{
		{"#FFFFFF", CategoryNeutral, true, false},
		{"#FAFAFA", CategoryNeutral, true, false},
		{"#000000", CategoryNeutral, false, true},
		{"#6B7280", CategoryNeutral, false, false},
		{"#EF4444", CategoryRed, false, false},
		{"#F97316", CategoryOrange, false, false},
		{"#EAB308", CategoryYellow, false, false},
		{"#10B981", CategoryGreen, false, false},
		{"#06B6D4", CategoryCyan, false, false},
		{"#3B82F6", CategoryBlue, false, false},
		{"#8B5CF6", CategoryPurple, false, false},
		{"#EC4899", CategoryMagenta, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			c, _ := HexToRGB(tt.hex)
			if got := ColorCategory(c); got != tt.category {
				t.Errorf("ColorCategory(%s) = %s, want %s", tt.hex, got, tt.category)
			}
			if got := IsWhite(c, DefaultWhiteThreshold); got != tt.white {
				t.Errorf("IsWhite(%s) = %v, want %v", tt.hex, got, tt.white)
			}
			if got := IsBlack(c, DefaultBlackThreshold); got != tt.black {
				t.Errorf("IsBlack(%s) = %v, want %v", tt.hex, got, tt.black)
			}
		})
	}
}

func TestIsTransparent(t *testing.T) {
	assert.True(t, IsTransparent("transparent"))
	assert.True(t, IsTransparent("rgba(0, 0, 0, 0)"))
	assert.False(t, IsTransparent("rgba(0, 0, 0, 0.1)"))
	assert.False(t, IsTransparent("#000"))
}
