// Package deltae measures perceptual color difference and clusters colors that
// a viewer would not tell apart.
//
// Interpretation of a Delta-E value:
//
//	<= 1.0   not perceptible by human eyes
//	1 - 2    perceptible through close observation
//	2 - 10   perceptible at a glance
//	11 - 49  colors are more similar than opposite
//	100      colors are exact opposites
//
// The default deduplication threshold (15) sits at the bottom of the "similar" band.
package deltae

import (
	"math"

	"github.com/hellenic-development/design-extractor/pkg/colorspace"
)

// CIE76 returns the Euclidean distance between two LAB colors.
func CIE76(x, y colorspace.LAB) float64 {
	dL := x.L - y.L
	dA := x.A - y.A
	dB := x.B - y.B
	return math.Sqrt(dL*dL + dA*dA + dB*dB)
}

// CIEDE2000 returns the CIE Delta-E 2000 difference between two LAB colors
// with the parametric weights kL = kC = kH = 1.
func CIEDE2000(x, y colorspace.LAB) float64 {
	const pow25to7 = 6103515625.0 // 25^7

	c1 := math.Hypot(x.A, x.B)
	c2 := math.Hypot(y.A, y.B)
	cab := (c1 + c2) / 2
	cab7 := math.Pow(cab, 7)
	g := 0.5 * (1 - math.Sqrt(cab7/(cab7+pow25to7)))

	a1p := x.A * (1 + g)
	a2p := y.A * (1 + g)
	c1p := math.Hypot(a1p, x.B)
	c2p := math.Hypot(a2p, y.B)
	h1p := primeHue(x.B, a1p)
	h2p := primeHue(y.B, a2p)

	dLp := y.L - x.L
	dCp := c2p - c1p

	var dhp float64
	if c1p*c2p != 0 {
		dhp = h2p - h1p
		if dhp > 180 {
			dhp -= 360
		} else if dhp < -180 {
			dhp += 360
		}
	}
	dHp := 2 * math.Sqrt(c1p*c2p) * math.Sin(radians(dhp/2))

	lBar := (x.L + y.L) / 2
	cBar := (c1p + c2p) / 2

	var hBar float64
	switch {
	case c1p*c2p == 0:
		hBar = h1p + h2p
	case math.Abs(h1p-h2p) <= 180:
		hBar = (h1p + h2p) / 2
	case h1p+h2p < 360:
		hBar = (h1p + h2p + 360) / 2
	default:
		hBar = (h1p + h2p - 360) / 2
	}

	t := 1 -
		0.17*math.Cos(radians(hBar-30)) +
		0.24*math.Cos(radians(2*hBar)) +
		0.32*math.Cos(radians(3*hBar+6)) -
		0.20*math.Cos(radians(4*hBar-63))

	dTheta := 30 * math.Exp(-math.Pow((hBar-275)/25, 2))
	cBar7 := math.Pow(cBar, 7)
	rc := 2 * math.Sqrt(cBar7/(cBar7+pow25to7))

	lBarSq := (lBar - 50) * (lBar - 50)
	sl := 1 + 0.015*lBarSq/math.Sqrt(20+lBarSq)
	sc := 1 + 0.045*cBar
	sh := 1 + 0.015*cBar*t
	rt := -math.Sin(radians(2*dTheta)) * rc

	lTerm := dLp / sl
	cTerm := dCp / sc
	hTerm := dHp / sh

	return math.Sqrt(lTerm*lTerm + cTerm*cTerm + hTerm*hTerm + rt*cTerm*hTerm)
}

// HexDistance returns CIEDE2000 between two colors given in any parseable form.
// The second result is false when either color cannot be parsed.
func HexDistance(a, b string) (float64, bool) {
	la, ok := LabOf(a)
	if !ok {
		return 0, false
	}
	lb, ok := LabOf(b)
	if !ok {
		return 0, false
	}
	return CIEDE2000(la, lb), true
}

func primeHue(b, aPrime float64) float64 {
	if b == 0 && aPrime == 0 {
		return 0
	}
	h := math.Atan2(b, aPrime) * 180 / math.Pi
	if h < 0 {
		h += 360
	}
	return h
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
