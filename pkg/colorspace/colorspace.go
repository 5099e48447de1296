// Package colorspace parses CSS color values and converts them between the
// sRGB, CIE XYZ, CIE LAB, LCH and OKLCH color spaces.
//
// Every function is pure. Values that cannot be parsed are reported through a
// false ok result instead of an error, so callers can skip the sample and move on.
package colorspace

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// D65 reference white and CIE LAB constants.
const (
	WhiteX = 95.047
	WhiteY = 100.0
	WhiteZ = 108.883

	Epsilon = 0.008856
	Kappa   = 903.3

	// sRGB transfer function.
	linearThreshold = 0.04045
	gamma           = 2.4
)

// Default lightness thresholds (L*) for the white/black classification helpers.
const (
	DefaultWhiteThreshold = 98.0
	DefaultBlackThreshold = 2.0
)

// RGB is an sRGB color with 0-255 channels and a 0-1 alpha.
// Channels are kept as floats so that fractional CSS values survive parsing.
type RGB struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// XYZ is a CIE 1931 XYZ color scaled so that Y of the reference white is 100.
type XYZ struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// LAB is a CIE L*a*b* color relative to the D65 white point.
type LAB struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// LCH is the polar form of LAB. H is in degrees [0, 360).
type LCH struct {
	L float64 `json:"l"`
	C float64 `json:"c"`
	H float64 `json:"h"`
}

// OKLCH is the polar form of OKLab. L is in [0, 1], H in degrees [0, 360).
type OKLCH struct {
	L float64 `json:"l"`
	C float64 `json:"c"`
	H float64 `json:"h"`
}

// OKLab is Björn Ottosson's perceptual color space.
type OKLab struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// Hex returns the color as an uppercase #RRGGBB string. Alpha is dropped.
func (c RGB) Hex() string {
	return RGBToHex(c)
}

// Opaque reports whether the color has full alpha.
func (c RGB) Opaque() bool {
	return c.A >= 1
}

// RGBToHex formats a color as an uppercase 6-digit hex string, rounding and clamping each channel.
func RGBToHex(c RGB) string {
	return fmt.Sprintf("#%02X%02X%02X", channel8(c.R), channel8(c.G), channel8(c.B))
}

// HexToRGB parses #rgb, #rgba, #rrggbb and #rrggbbaa (the leading # is optional).
func HexToRGB(hex string) (RGB, bool) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")

	switch len(h) {
	case 3, 4:
		expanded := make([]byte, 0, len(h)*2)
		for i := 0; i < len(h); i++ {
			expanded = append(expanded, h[i], h[i])
		}
		h = string(expanded)
	case 6, 8:
	default:
		return RGB{}, false
	}

	var channels [4]float64
	channels[3] = 255
	for i := 0; i < len(h)/2; i++ {
		v, err := strconv.ParseUint(h[i*2:i*2+2], 16, 8)
		if err != nil {
			return RGB{}, false
		}
		channels[i] = float64(v)
	}

	return RGB{
		R: channels[0],
		G: channels[1],
		B: channels[2],
		A: roundTo(channels[3]/255, 3),
	}, true
}

// FormatRGBString renders a color as a CSS rgb() or, when translucent, rgba() function.
func FormatRGBString(c RGB) string {
	if c.A >= 1 {
		return fmt.Sprintf("rgb(%d, %d, %d)", channel8(c.R), channel8(c.G), channel8(c.B))
	}
	alpha := strconv.FormatFloat(roundTo(clamp(c.A, 0, 1), 3), 'f', -1, 64)
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", channel8(c.R), channel8(c.G), channel8(c.B), alpha)
}

// NormalizeToHex parses any supported color syntax and returns its #RRGGBB form.
// Fully transparent colors carry no hue information and are rejected.
func NormalizeToHex(s string) (string, bool) {
	c, ok := ParseColor(s)
	if !ok || c.A <= 0 {
		return "", false
	}
	return RGBToHex(c), true
}

// RGBToXYZ converts an sRGB color to XYZ after gamma linearization.
func RGBToXYZ(c RGB) XYZ {
	r := linearize(c.R/255) * 100
	g := linearize(c.G/255) * 100
	b := linearize(c.B/255) * 100

	return XYZ{
		X: r*0.4124 + g*0.3576 + b*0.1805,
		Y: r*0.2126 + g*0.7152 + b*0.0722,
		Z: r*0.0193 + g*0.1192 + b*0.9505,
	}
}

// XYZToLAB converts XYZ to CIE LAB using the D65 reference white.
func XYZToLAB(c XYZ) LAB {
	x := labPivot(c.X / WhiteX)
	y := labPivot(c.Y / WhiteY)
	z := labPivot(c.Z / WhiteZ)

	return LAB{
		L: 116*y - 16,
		A: 500 * (x - y),
		B: 200 * (y - z),
	}
}

// LABToLCH converts LAB to its polar LCH form.
func LABToLCH(c LAB) LCH {
	return LCH{
		L: c.L,
		C: math.Hypot(c.A, c.B),
		H: hueDegrees(c.B, c.A),
	}
}

// RGBToLAB is RGBToXYZ followed by XYZToLAB.
func RGBToLAB(c RGB) LAB {
	return XYZToLAB(RGBToXYZ(c))
}

// RGBToLCH is RGBToLAB followed by LABToLCH.
func RGBToLCH(c RGB) LCH {
	return LABToLCH(RGBToLAB(c))
}

// RGBToOKLab converts an sRGB color to OKLab through the LMS cone response matrix.
func RGBToOKLab(c RGB) OKLab {
	r := linearize(c.R / 255)
	g := linearize(c.G / 255)
	b := linearize(c.B / 255)

	l := 0.4122214708*r + 0.5363325363*g + 0.0514459929*b
	m := 0.2119034982*r + 0.6806995451*g + 0.1073969566*b
	s := 0.0883024619*r + 0.2817188376*g + 0.6299787005*b

	lRoot := math.Cbrt(l)
	mRoot := math.Cbrt(m)
	sRoot := math.Cbrt(s)

	return OKLab{
		L: 0.2104542553*lRoot + 0.7936177850*mRoot - 0.0040720468*sRoot,
		A: 1.9779984951*lRoot - 2.4285922050*mRoot + 0.4505937099*sRoot,
		B: 0.0259040371*lRoot + 0.7827717662*mRoot - 0.8086757660*sRoot,
	}
}

// RGBToOKLCH converts an sRGB color to OKLCH.
func RGBToOKLCH(c RGB) OKLCH {
	lab := RGBToOKLab(c)
	return OKLCH{
		L: lab.L,
		C: math.Hypot(lab.A, lab.B),
		H: hueDegrees(lab.B, lab.A),
	}
}

// Rounded returns the color with every component rounded to the given decimal places.
func (c LCH) Rounded(places int) LCH {
	return LCH{L: roundTo(c.L, places), C: roundTo(c.C, places), H: roundTo(c.H, places)}
}

// Rounded returns the color with every component rounded to the given decimal places.
func (c OKLCH) Rounded(places int) OKLCH {
	return OKLCH{L: roundTo(c.L, places), C: roundTo(c.C, places), H: roundTo(c.H, places)}
}

// String formats the color in CSS oklch() notation.
func (c OKLCH) String() string {
	return fmt.Sprintf("oklch(%.3f %.3f %.1f)", c.L, c.C, c.H)
}

func linearize(v float64) float64 {
	if v > linearThreshold {
		return math.Pow((v+0.055)/1.055, gamma)
	}
	return v / 12.92
}

func labPivot(t float64) float64 {
	if t > Epsilon {
		return math.Cbrt(t)
	}
	return (Kappa*t + 16) / 116
}

func hueDegrees(y, x float64) float64 {
	h := math.Atan2(y, x) * 180 / math.Pi
	if h < 0 {
		h += 360
	}
	return h
}

func channel8(v float64) int {
	return int(math.Round(clamp(v, 0, 255)))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
