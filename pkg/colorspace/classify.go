package colorspace

import colorful "github.com/lucasb-eyer/go-colorful"

// Category is a coarse hue family.
type Category string

const (
	CategoryNeutral Category = "neutral"
	CategoryRed     Category = "red"
	CategoryOrange  Category = "orange"
	CategoryYellow  Category = "yellow"
	CategoryGreen   Category = "green"
	CategoryCyan    Category = "cyan"
	CategoryBlue    Category = "blue"
	CategoryPurple  Category = "purple"
	CategoryMagenta Category = "magenta"
)

// neutralChroma is the LCH chroma below which a color is treated as gray.
const neutralChroma = 10.0

// hueBuckets maps the upper bound (exclusive) of an HSL hue range to its category.
var hueBuckets = []struct {
	below    float64
	category Category
}{
	{15, CategoryRed},
	{45, CategoryOrange},
	{70, CategoryYellow},
	{165, CategoryGreen},
	{195, CategoryCyan},
	{255, CategoryBlue},
	{285, CategoryPurple},
	{345, CategoryMagenta},
	{361, CategoryRed},
}

// IsWhite reports whether the color's L* is at or above threshold.
func IsWhite(c RGB, threshold float64) bool {
	return RGBToLAB(c).L >= threshold
}

// IsBlack reports whether the color's L* is at or below threshold.
func IsBlack(c RGB, threshold float64) bool {
	return RGBToLAB(c).L <= threshold
}

// IsChromatic reports whether the color carries a visible hue.
func IsChromatic(c RGB) bool {
	return RGBToLCH(c).C >= neutralChroma
}

// ColorCategory buckets a color into a hue family. Low-chroma colors are neutral;
// the rest are bucketed on the HSL hue wheel.
func ColorCategory(c RGB) Category {
	if !IsChromatic(c) {
		return CategoryNeutral
	}

	h, _, _ := colorful.Color{R: c.R / 255, G: c.G / 255, B: c.B / 255}.Hsl()
	for _, b := range hueBuckets {
		if h < b.below {
			return b.category
		}
	}
	return CategoryRed
}
