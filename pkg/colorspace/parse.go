package colorspace

import (
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// namedColors holds the CSS basic color keywords. Computed styles are always
// resolved to rgb() by the browser, but custom properties keep their authored form.
var namedColors = map[string]string{
	"black":   "#000000",
	"silver":  "#C0C0C0",
	"gray":    "#808080",
	"grey":    "#808080",
	"white":   "#FFFFFF",
	"maroon":  "#800000",
	"red":     "#FF0000",
	"purple":  "#800080",
	"fuchsia": "#FF00FF",
	"magenta": "#FF00FF",
	"green":   "#008000",
	"lime":    "#00FF00",
	"olive":   "#808000",
	"yellow":  "#FFFF00",
	"navy":    "#000080",
	"blue":    "#0000FF",
	"teal":    "#008080",
	"aqua":    "#00FFFF",
	"cyan":    "#00FFFF",
	"orange":  "#FFA500",
}

// ParseColor parses a CSS color value. It accepts hex notation, rgb()/rgba(),
// hsl()/hsla() in both comma and space-separated syntax, and the basic named colors.
// "transparent", keywords such as "currentcolor" and anything else unrecognized
// return ok == false.
func ParseColor(s string) (RGB, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return RGB{}, false
	}

	switch {
	case strings.HasPrefix(v, "#"):
		return HexToRGB(v)
	case strings.HasPrefix(v, "rgb"):
		return parseRGBFunc(v)
	case strings.HasPrefix(v, "hsl"):
		return parseHSLFunc(v)
	}

	if hex, ok := namedColors[v]; ok {
		return HexToRGB(hex)
	}

	return RGB{}, false
}

// IsTransparent reports whether the value is the transparent keyword or a color with zero alpha.
func IsTransparent(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "transparent" {
		return true
	}
	c, ok := ParseColor(v)
	return ok && c.A <= 0
}

func parseRGBFunc(v string) (RGB, bool) {
	args, ok := functionArgs(v, "rgba", "rgb")
	if !ok || len(args) < 3 || len(args) > 4 {
		return RGB{}, false
	}

	var c RGB
	channels := []*float64{&c.R, &c.G, &c.B}
	for i, arg := range args[:3] {
		n, ok := parseChannel(arg)
		if !ok {
			return RGB{}, false
		}
		*channels[i] = n
	}

	c.A = 1
	if len(args) == 4 {
		a, ok := parseAlpha(args[3])
		if !ok {
			return RGB{}, false
		}
		c.A = a
	}

	return c, true
}

func parseHSLFunc(v string) (RGB, bool) {
	args, ok := functionArgs(v, "hsla", "hsl")
	if !ok || len(args) < 3 || len(args) > 4 {
		return RGB{}, false
	}

	h, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
	if err != nil {
		return RGB{}, false
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}

	s, ok := parsePercent(args[1])
	if !ok {
		return RGB{}, false
	}
	l, ok := parsePercent(args[2])
	if !ok {
		return RGB{}, false
	}

	col := colorful.Hsl(h, s, l).Clamped()
	c := RGB{R: col.R * 255, G: col.G * 255, B: col.B * 255, A: 1}

	if len(args) == 4 {
		a, ok := parseAlpha(args[3])
		if !ok {
			return RGB{}, false
		}
		c.A = a
	}

	return c, true
}

// functionArgs strips a CSS function wrapper and splits its arguments. Commas,
// whitespace and the slash before an alpha value are all treated as separators.
func functionArgs(v string, names ...string) ([]string, bool) {
	for _, name := range names {
		if !strings.HasPrefix(v, name+"(") {
			continue
		}
		if !strings.HasSuffix(v, ")") {
			return nil, false
		}
		inner := v[len(name)+1 : len(v)-1]
		args := strings.FieldsFunc(inner, func(r rune) bool {
			return r == ',' || r == '/' || r == ' ' || r == '\t' || r == '\n'
		})
		return args, true
	}
	return nil, false
}

func parseChannel(s string) (float64, bool) {
	if strings.HasSuffix(s, "%") {
		p, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, false
		}
		return clamp(p*2.55, 0, 255), true
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return clamp(n, 0, 255), true
}

func parseAlpha(s string) (float64, bool) {
	if strings.HasSuffix(s, "%") {
		p, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, false
		}
		return clamp(p/100, 0, 1), true
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return clamp(n, 0, 1), true
}

// parsePercent returns a 0-1 fraction. The % sign is optional, as in the CSS Color 4 space syntax.
func parsePercent(s string) (float64, bool) {
	p, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, false
	}
	return clamp(p/100, 0, 1), true
}
